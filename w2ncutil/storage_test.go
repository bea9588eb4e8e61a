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

package w2ncutil

import (
	"context"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsBlob(t *testing.T) {
	for path, want := range map[string]bool{
		"gs://bucket/a.w":   true,
		"s3://bucket/a.w":   true,
		"file://test/a.w":   true,
		"http://host/a.w":   false,
		"/data/a.w":         false,
		"gs:/bucket/a.w":    false,
		"analysis.w":        false,
		"FILE://test/a.w":   false,
		"s3://bucket/x/y.w": true,
	} {
		require.Equal(t, want, IsBlob(path), path)
	}
}

func TestSplitBlob(t *testing.T) {
	bucket, key, err := splitBlob("gs://radar-data/2017/analysis.w")
	require.NoError(t, err)
	require.Equal(t, "gs://radar-data", bucket)
	require.Equal(t, "2017/analysis.w", key)

	_, _, err = splitBlob("s3://radar-data/")
	require.Error(t, err)
}

func TestOpenBucketInvalidProvider(t *testing.T) {
	_, err := OpenBucket(context.Background(), "ftp://bucket")
	require.Error(t, err)
	require.True(t, strings.HasPrefix(err.Error(), "w2ncutil: invalid provider"), err.Error())
}

func TestMaybeDownloadLocal(t *testing.T) {
	log := newLogger(ioutil.Discard, false)
	for _, p := range []string{"/dev/null", "/blah/test/", "relative/missing.w"} {
		got, err := maybeDownload(context.Background(), p, log)
		require.NoError(t, err)
		require.Equal(t, p, got)
	}
}

func TestMaybeDownloadHTTP(t *testing.T) {
	data := wFile(t, 200)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/data/analysis.w" {
			http.NotFound(w, r)
			return
		}
		w.Write(data)
	}))
	defer srv.Close()
	log := newLogger(ioutil.Discard, false)

	p, err := maybeDownload(context.Background(), srv.URL+"/data/analysis.w", log)
	require.NoError(t, err)
	defer os.RemoveAll(filepath.Dir(p))
	require.True(t, strings.HasSuffix(p, "analysis.w"), p)
	b, err := ioutil.ReadFile(p)
	require.NoError(t, err)
	require.Equal(t, data, b)

	_, err = maybeDownload(context.Background(), srv.URL+"/missing.w", log)
	require.Error(t, err)

	out, err := run("info", "--input="+srv.URL+"/data/analysis.w", "--header-only=true", "--MaxCells=1000")
	require.NoError(t, err)
	require.Contains(t, out, `"HUGO"`)
}

func TestBlobRoundTrip(t *testing.T) {
	// fileblob buckets are directories relative to the working directory.
	require.NoError(t, os.Mkdir("testbucket", os.ModePerm))
	defer os.RemoveAll("testbucket")

	dir := tempDir(t)
	defer os.RemoveAll(dir)
	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "analysis.w"), wFile(t, 200, 300), 0644))

	ctx := context.Background()
	log := newLogger(ioutil.Discard, false)
	up := new(uploader)
	local := up.maybeUpload("file://testbucket/analysis.w")
	require.NotEqual(t, "file://testbucket/analysis.w", local)
	require.Equal(t, "plain.w", up.maybeUpload("plain.w"))
	b, err := ioutil.ReadFile(filepath.Join(dir, "analysis.w"))
	require.NoError(t, err)
	require.NoError(t, ioutil.WriteFile(local, b, 0644))
	require.NoError(t, up.upload(ctx, log))
	defer os.RemoveAll(up.dir)

	_, err = run("convert", "--input=file://testbucket/analysis.w", "--output=file://testbucket/analysis.nc",
		"--LogFile=auto", "--MaxCells=1000", "--ByteOrder=little", "--debug=false")
	require.NoError(t, err)

	bucket, err := OpenBucket(ctx, "file://testbucket")
	require.NoError(t, err)
	for _, key := range []string{"analysis.nc", "analysis.log"} {
		r, err := bucket.NewReader(ctx, key, nil)
		require.NoError(t, err, key)
		r.Close()
	}
	r, err := bucket.NewReader(ctx, "analysis.log", nil)
	require.NoError(t, err)
	logText, err := ioutil.ReadAll(r)
	r.Close()
	require.NoError(t, err)
	require.Contains(t, string(logText), "conversion complete")
	require.Contains(t, string(logText), "uploaded output")
	require.Contains(t, string(logText), "file://testbucket/analysis.nc")

	out, err := run("dump", "--input=file://testbucket/analysis.nc", "--variable=dbz")
	require.NoError(t, err)
	require.Equal(t, "iDim: 2, jDim: 1, kDim: 1\n0, 0, 0: 20\n1, 0, 0: 30\n", out)
}
