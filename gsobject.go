package array2vcf

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
)

const gsPrefix = "gs://"

// IsGoogleStoragePath reports whether path names an object in Google Storage.
func IsGoogleStoragePath(path string) bool {
	return strings.HasPrefix(path, gsPrefix)
}

// NeedsStorageClient reports whether any of the paths point to Google Storage,
// in which case a storage client has to be created before opening them.
func NeedsStorageClient(paths ...string) bool {
	for _, path := range paths {
		if IsGoogleStoragePath(path) {
			return true
		}
	}

	return false
}

// SplitGoogleStoragePath splits gs://bucket/path/to/object into its bucket and
// object names.
func SplitGoogleStoragePath(path string) (bucket, object string, err error) {
	pathParts := strings.SplitN(strings.TrimPrefix(path, gsPrefix), "/", 2)
	if len(pathParts) != 2 || pathParts[0] == "" || pathParts[1] == "" {
		return "", "", fmt.Errorf("Tried to split your google storage path into 2 parts, but got %d: %v", len(pathParts), pathParts)
	}

	return pathParts[0], pathParts[1], nil
}

// MaybeOpenFromGoogleStorage opens path for reading. Paths starting with gs://
// are read from Google Storage with the given client; anything else is opened
// from the local filesystem after expanding a leading ~/.
func MaybeOpenFromGoogleStorage(ctx context.Context, path string, client *storage.Client) (io.ReadCloser, error) {
	if !IsGoogleStoragePath(path) {
		f, err := os.Open(ExpandHome(path))
		if err != nil {
			return nil, err
		}
		return f, nil
	}

	if client == nil {
		return nil, pfx.Err(fmt.Errorf("%s: a storage client is required to read from google storage", path))
	}

	bucketName, objectName, err := SplitGoogleStoragePath(path)
	if err != nil {
		return nil, pfx.Err(err)
	}

	rdr, err := client.Bucket(bucketName).Object(objectName).NewReader(ctx)
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("%s: %s", path, err))
	}

	return rdr, nil
}

// MaybeCreateOnGoogleStorage opens path for writing, truncating local files.
// For gs:// paths the object is only committed once the writer is closed
// without error.
func MaybeCreateOnGoogleStorage(ctx context.Context, path string, client *storage.Client) (io.WriteCloser, error) {
	if !IsGoogleStoragePath(path) {
		f, err := os.Create(ExpandHome(path))
		if err != nil {
			return nil, err
		}
		return f, nil
	}

	if client == nil {
		return nil, pfx.Err(fmt.Errorf("%s: a storage client is required to write to google storage", path))
	}

	bucketName, objectName, err := SplitGoogleStoragePath(path)
	if err != nil {
		return nil, pfx.Err(err)
	}

	w := client.Bucket(bucketName).Object(objectName).NewWriter(ctx)
	w.ContentType = "application/json"

	return w, nil
}
