/*
Copyright © 2017 the w2nc authors.
This file is part of w2nc.

w2nc is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

w2nc is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with w2nc.  If not, see <http://www.gnu.org/licenses/>.
*/

// Command w2nc converts W format radar analyses to netCDF.
package main

import (
	"fmt"
	"os"

	"github.com/mjskier/w2nc/w2ncutil"
)

func main() {
	if err := w2ncutil.Root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
