// Package storage persists uploaded item images.
//
// Two drivers exist: local filesystem (default, fine for development) and
// S3-compatible object storage (AWS S3, MinIO, R2). The upload handler
// only needs Put/URL/Delete, so the interface stays that small.
package storage

import (
	"fmt"
	"io"

	"github.com/shashiranjanraj/vastra/config"
)

// Store writes and serves uploaded files.
type Store interface {
	// Put writes the content of r under path (forward-slash relative).
	Put(path string, r io.Reader) error

	// URL returns the public URL for a stored path.
	URL(path string) string

	// Delete removes a stored file. Deleting an absent file is a no-op.
	Delete(path string) error
}

// FromConfig builds the configured store: "s3" when STORAGE_DISK says so
// and a bucket is configured, local disk otherwise.
func FromConfig() (Store, error) {
	if config.StorageDefault() == "s3" {
		if config.StorageS3Bucket() == "" {
			return nil, fmt.Errorf("storage: STORAGE_DISK=s3 but S3_BUCKET is not configured")
		}
		return newS3Store(s3Settings{
			Bucket:   config.StorageS3Bucket(),
			Region:   config.StorageS3Region(),
			Key:      config.StorageS3Key(),
			Secret:   config.StorageS3Secret(),
			Endpoint: config.StorageS3Endpoint(),
			BaseURL:  config.StorageS3URL(),
		})
	}
	return newLocalStore(config.StorageLocalRoot(), config.StorageURL()), nil
}
