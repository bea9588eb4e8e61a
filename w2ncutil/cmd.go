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

// Package w2ncutil contains the command-line interface of w2nc.
package w2ncutil

import (
	"context"
	"fmt"

	"github.com/lnashier/viper"
	"github.com/mjskier/w2nc"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to w2nc.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "input",
			usage: `
              input is the path to the file to be read. It can be a local
              path, a web address, or a blob storage location such as
              gs://bucket/analysis.w or s3://bucket/analysis.w.`,
			shorthand:  "i",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{convertCmd.Flags(), infoCmd.Flags(), dumpCmd.Flags()},
		},
		{
			name: "output",
			usage: `
              output is the path of the netCDF file to be created. It can
              be a local path or a blob storage location.`,
			shorthand:  "o",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{convertCmd.Flags()},
		},
		{
			name: "debug",
			usage: `
              debug turns on logging of every raw sample as it is read.`,
			shorthand:  "d",
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{convertCmd.Flags(), infoCmd.Flags()},
		},
		{
			name: "ByteOrder",
			usage: `
              ByteOrder is the byte order of the input file, either
              'little' or 'big'.`,
			defaultVal: "little",
			flagsets:   []*pflag.FlagSet{convertCmd.Flags(), infoCmd.Flags()},
		},
		{
			name: "MaxCells",
			usage: `
              MaxCells is the largest number of grid cells (imax*jmax*kmax)
              that will be allocated. A negative value removes the limit.`,
			defaultVal: w2nc.DefaultMaxCells,
			flagsets:   []*pflag.FlagSet{convertCmd.Flags(), infoCmd.Flags()},
		},
		{
			name: "LogFile",
			usage: `
              LogFile is the path to the desired logfile location. If set to
              'auto', the log is written next to the output file with a
              '.log' extension. If empty, no log file is written.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{convertCmd.Flags()},
		},
		{
			name: "variable",
			usage: `
              variable is the name of the netCDF variable to print.`,
			defaultVal: "dbz",
			flagsets:   []*pflag.FlagSet{dumpCmd.Flags()},
		},
		{
			name: "header-only",
			usage: `
              header-only prints the header without decoding the volumes.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{infoCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("W2NC")
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(convertCmd)
	Root.AddCommand(infoCmd)
	Root.AddCommand(dumpCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("w2nc: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// decodeOptions assembles decoding options from the configuration.
func decodeOptions(cfg *viper.Viper) (*w2nc.Options, error) {
	order, err := parseByteOrder(cfg.GetString("ByteOrder"))
	if err != nil {
		return nil, err
	}
	maxCells, err := cast.ToIntE(cfg.Get("MaxCells"))
	if err != nil {
		return nil, fmt.Errorf("w2nc: invalid MaxCells: %v", err)
	}
	if maxCells == 0 {
		return nil, fmt.Errorf("w2nc: MaxCells must not be zero")
	}
	return &w2nc.Options{
		ByteOrder: order,
		MaxCells:  maxCells,
		Debug:     cfg.GetBool("debug"),
	}, nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "w2nc",
	Short: "Convert W format radar analyses to netCDF.",
	Long: `w2nc converts radar wind analyses stored in the W format, a Fortran
binary record holding a header and five gridded fields, into netCDF files.
Use the subcommands specified below to access the functionality.

Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'W2NC_var' where 'var' is the
name of the variable to be set.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	SilenceUsage:      true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of w2nc.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("w2nc v%s\n", w2nc.Version)
	},
	DisableAutoGenTag: true,
}

// convertCmd converts a W file into a netCDF file.
var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a W file to netCDF.",
	Long: `convert decodes the header and the u, v, w, dbz and div volumes
of a W file and writes them to a netCDF file. Nothing is written if the input
is truncated or malformed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		o, err := decodeOptions(Cfg)
		if err != nil {
			return err
		}
		return Convert(context.Background(), cmd.OutOrStdout(),
			Cfg.GetString("input"), Cfg.GetString("output"), Cfg.GetString("LogFile"), o)
	},
	DisableAutoGenTag: true,
}

// infoCmd prints the contents of a W file header.
var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Print the header of a W file.",
	Long: `info prints the header of a W file followed by a summary of each
decoded field. Use --header-only to skip decoding the fields.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		o, err := decodeOptions(Cfg)
		if err != nil {
			return err
		}
		return Info(context.Background(), cmd.OutOrStdout(),
			Cfg.GetString("input"), Cfg.GetBool("header-only"), o)
	},
	DisableAutoGenTag: true,
}

// dumpCmd prints the values of a variable in a converted file.
var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print a variable from a converted netCDF file.",
	Long: `dump prints the dimensions of a variable in a netCDF file created by
convert, followed by one line per grid cell in the form 'i, j, k: value'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Dump(context.Background(), cmd.OutOrStdout(),
			Cfg.GetString("input"), Cfg.GetString("variable"))
	},
	DisableAutoGenTag: true,
}
