// Package attachments stores uploaded photos and avatars in a content store
// and hands out the public references kept on listings and users.
package attachments

import (
	"context"
	"fmt"
	"io"

	"realestatecrm/internal/config"
)

// ContentStore is a flat key/value blob store. Keys are slash separated
// and relative to the managed root, e.g. "avatars/avatar_<uuid>.png".
//
// Put never overwrites: an existing key fails with an error matching
// fs.ErrExist. Open and Delete report a missing key with fs.ErrNotExist.
type ContentStore interface {
	Put(ctx context.Context, key string, data []byte) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) ([]string, error)
}

// OpenStore builds the content store selected by cfg.StorageBackend.
func OpenStore(ctx context.Context, cfg *config.Config) (ContentStore, error) {
	switch cfg.StorageBackend {
	case config.StorageLocal:
		return NewOSStore(cfg.UploadDir)
	case config.StorageMemory:
		return NewMemoryStore(), nil
	case config.StorageS3:
		return NewS3Store(ctx, S3Options{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			PathStyle: cfg.S3PathStyle,
		})
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.StorageBackend)
	}
}
