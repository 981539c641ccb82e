// Package storage keeps uploaded image bytes in an object store.
//
// Two drivers implement BlobStore: S3Store for any S3-compatible bucket
// (AWS, Supabase storage, MinIO) and LocalStore for a directory on disk
// that the HTTP server exposes under /media.
package storage

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/deppfellow/bizlist/internal/config"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// BlobStore stores opaque bytes under slash-separated paths.
type BlobStore interface {
	// Put writes data at path, replacing anything already there.
	Put(ctx context.Context, path string, data []byte, contentType string) (PutResult, error)

	// Delete removes path. Deleting a missing path is not an error.
	Delete(ctx context.Context, path string) error

	// PublicURL returns the URL clients fetch path from. It does not check
	// that the blob exists.
	PublicURL(path string) string
}

type PutResult struct {
	Path string
}

var ErrInvalidPath = errors.New("invalid blob path")

// New builds the BlobStore selected by cfg.Storage.Driver.
func New(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (BlobStore, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverS3:
		return NewS3StoreFromConfig(ctx, cfg.Storage, logger)
	case config.StorageDriverLocal:
		return NewLocalStore(cfg.Storage.LocalRoot, cfg.Storage.PublicBaseURL, logger)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// cleanPath rejects absolute paths and any path that escapes its root.
func cleanPath(p string) (string, error) {
	if p == "" || strings.HasPrefix(p, "/") || strings.Contains(p, "\\") {
		return "", errors.Wrapf(ErrInvalidPath, "%q", p)
	}
	cleaned := path.Clean(p)
	if cleaned != p || cleaned == "." || strings.HasPrefix(cleaned, "../") || cleaned == ".." {
		return "", errors.Wrapf(ErrInvalidPath, "%q", p)
	}
	return cleaned, nil
}

func joinURL(base, p string) string {
	return strings.TrimRight(base, "/") + "/" + p
}
