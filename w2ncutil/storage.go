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
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/sirupsen/logrus"
	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
	"gocloud.dev/blob/gcsblob"
	"gocloud.dev/blob/s3blob"
	"gocloud.dev/gcp"
)

// IsBlob returns whether the given filename represents a blob.
// (i.e., if it starts with `gs://`, 's3://', or 'file://').
func IsBlob(path string) bool {
	return strings.HasPrefix(path, "gs://") || strings.HasPrefix(path, "s3://") || strings.HasPrefix(path, "file://")
}

// isHTTP returns whether path is a web address.
func isHTTP(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

// OpenBucket returns the blob storage bucket specified by bucketName,
// where bucketName must be in the format 'provider://name' where provider
// is the name of the storage provider and name is the name of the bucket.
// The currently accepted storage providers are "file" for the local filesystem,
// "gs" for Google Cloud Storage, and "s3" for AWS S3.
func OpenBucket(ctx context.Context, bucketName string) (*blob.Bucket, error) {
	u, err := url.Parse(bucketName)
	if err != nil {
		return nil, fmt.Errorf("w2ncutil: opening bucket: %v", err)
	}
	switch u.Scheme {
	case "file":
		return fileblob.OpenBucket(u.Hostname(), nil)
	case "gs":
		return gsBucket(ctx, u.Hostname())
	case "s3":
		return s3Bucket(ctx, u.Hostname())
	default:
		return nil, fmt.Errorf("w2ncutil: invalid provider %s", u.Scheme)
	}
}

func gsBucket(ctx context.Context, name string) (*blob.Bucket, error) {
	// See here for information on credentials:
	// https://cloud.google.com/docs/authentication/getting-started
	creds, err := gcp.DefaultCredentials(ctx)
	if err != nil {
		return nil, err
	}
	c, err := gcp.NewHTTPClient(gcp.DefaultTransport(), gcp.CredentialsTokenSource(creds))
	if err != nil {
		return nil, err
	}
	return gcsblob.OpenBucket(ctx, c, name, nil)
}

// s3Bucket opens an s3 storage bucket. It assumes the following
// environment variables are set: AWS_REGION, AWS_ACCESS_KEY_ID, and
// AWS_SECRET_ACCESS_KEY.
func s3Bucket(ctx context.Context, name string) (*blob.Bucket, error) {
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "us-east-2"
	}
	c := &aws.Config{
		Region:      aws.String(region),
		Credentials: credentials.NewEnvCredentials(),
	}
	s, err := session.NewSession(c)
	if err != nil {
		return nil, err
	}
	return s3blob.OpenBucket(ctx, s, name, nil)
}

// splitBlob splits a blob path into the bucket address and the key
// within the bucket.
func splitBlob(p string) (bucket, key string, err error) {
	u, err := url.Parse(p)
	if err != nil {
		return "", "", err
	}
	key = strings.TrimPrefix(u.Path, "/")
	if key == "" {
		return "", "", fmt.Errorf("w2ncutil: blob path '%s' has no key", p)
	}
	return u.Scheme + "://" + u.Host, key, nil
}

// maybeDownload checks if the input is an existing local file. If not
// and it is a URL or blob path, it downloads the file to a temporary
// directory and returns the path to the downloaded file. Any other path
// is returned unchanged.
func maybeDownload(ctx context.Context, p string, log logrus.FieldLogger) (string, error) {
	if _, err := os.Stat(p); !os.IsNotExist(err) {
		return p, nil
	}
	var r io.ReadCloser
	var name string
	switch {
	case isHTTP(p):
		resp, err := http.Get(p)
		if err != nil {
			return p, fmt.Errorf("w2ncutil: downloading '%s': %v", p, err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return p, fmt.Errorf("w2ncutil: downloading '%s': %s", p, resp.Status)
		}
		r = resp.Body
		name = path.Base(resp.Request.URL.Path)
	case IsBlob(p):
		bucketName, key, err := splitBlob(p)
		if err != nil {
			return p, err
		}
		bucket, err := OpenBucket(ctx, bucketName)
		if err != nil {
			return p, err
		}
		br, err := bucket.NewReader(ctx, key, nil)
		if err != nil {
			return p, fmt.Errorf("w2ncutil: opening '%s': %v", p, err)
		}
		r = br
		name = path.Base(key)
	default:
		return p, nil
	}
	defer r.Close()

	dir, err := ioutil.TempDir("", "w2nc")
	if err != nil {
		return p, fmt.Errorf("w2ncutil: failed creating temporary download directory: %v", err)
	}
	local := filepath.Join(dir, name)
	w, err := os.Create(local)
	if err != nil {
		return p, fmt.Errorf("w2ncutil: failed creating file for download: %v", err)
	}
	n, err := io.Copy(w, r)
	if err != nil {
		w.Close()
		return p, fmt.Errorf("w2ncutil: downloading '%s': %v", p, err)
	}
	if err := w.Close(); err != nil {
		return p, err
	}
	log.WithFields(logrus.Fields{"source": p, "bytes": n}).Info("downloaded input")
	return local, nil
}

// uploader holds output files that are written locally and then copied
// to blob storage.
type uploader struct {
	// files is a set of file path pairs. The first of each pair
	// is a local file path and the second is a blob storage
	// path where it should be uploaded to.
	files [][2]string
	err   error
	dir   string

	// closers are run just before the local file they are keyed by
	// is uploaded.
	closers map[string]func() error
}

// closeBefore registers a function that finishes writing the local
// file p before it is uploaded.
func (u *uploader) closeBefore(p string, c func() error) {
	if u.closers == nil {
		u.closers = make(map[string]func() error)
	}
	u.closers[p] = c
}

// maybeUpload checks whether the given output file path refers to
// a blob storage location. If it does, then a temporary file location
// is returned. The file will then be uploaded to blob storage when
// upload is run.
func (u *uploader) maybeUpload(p string) string {
	if u.err != nil || !IsBlob(p) {
		return p
	}
	if u.dir == "" {
		u.dir, u.err = ioutil.TempDir("", "w2nc")
		if u.err != nil {
			return p
		}
	}
	local := filepath.Join(u.dir, path.Base(p))
	u.files = append(u.files, [2]string{local, p})
	return local
}

// upload copies the registered local files to blob storage.
func (u *uploader) upload(ctx context.Context, log logrus.FieldLogger) error {
	if u.err != nil {
		return u.err
	}
	for _, files := range u.files {
		if c, ok := u.closers[files[0]]; ok {
			if err := c(); err != nil {
				return fmt.Errorf("w2ncutil: closing file '%s' for upload: %v", files[0], err)
			}
		}
		if err := uploadFile(ctx, files[0], files[1]); err != nil {
			return err
		}
		log.WithField("destination", files[1]).Info("uploaded output")
	}
	return nil
}

func uploadFile(ctx context.Context, local, remote string) error {
	r, err := os.Open(local)
	if err != nil {
		return fmt.Errorf("w2ncutil: opening file '%s' for upload: %v", local, err)
	}
	defer r.Close()
	bucketName, key, err := splitBlob(remote)
	if err != nil {
		return err
	}
	bucket, err := OpenBucket(ctx, bucketName)
	if err != nil {
		return fmt.Errorf("w2ncutil: opening bucket to upload file '%s': %v", remote, err)
	}
	w, err := bucket.NewWriter(ctx, key, &blob.WriterOptions{})
	if err != nil {
		return fmt.Errorf("w2ncutil: opening writer to upload file '%s': %v", remote, err)
	}
	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return fmt.Errorf("w2ncutil: uploading file '%s' to '%s': %v", local, remote, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("w2ncutil: uploading file '%s' to '%s': %v", local, remote, err)
	}
	return nil
}
