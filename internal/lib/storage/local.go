package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const defaultLocalPublicBaseURL = "/media"

// LocalStore keeps blobs as files below root.
type LocalStore struct {
	root          string
	publicBaseURL string
	logger        *zerolog.Logger
}

func NewLocalStore(root, publicBaseURL string, logger *zerolog.Logger) (*LocalStore, error) {
	if root == "" {
		return nil, fmt.Errorf("local storage root is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}
	if publicBaseURL == "" {
		publicBaseURL = defaultLocalPublicBaseURL
	}

	return &LocalStore{root: root, publicBaseURL: publicBaseURL, logger: logger}, nil
}

// Root is the directory the router serves under /media.
func (s *LocalStore) Root() string {
	return s.root
}

func (s *LocalStore) filePath(path string) (string, error) {
	cleaned, err := cleanPath(path)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.root, filepath.FromSlash(cleaned)), nil
}

// Put writes to a temp file in the target directory and renames it into
// place so readers never see a partial file.
func (s *LocalStore) Put(ctx context.Context, path string, data []byte, contentType string) (PutResult, error) {
	if err := ctx.Err(); err != nil {
		return PutResult{}, err
	}

	target, err := s.filePath(path)
	if err != nil {
		return PutResult{}, err
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return PutResult{}, errors.Wrap(err, "failed to create blob directory")
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".upload-*")
	if err != nil {
		return PutResult{}, errors.Wrap(err, "failed to create temp file")
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return PutResult{}, errors.Wrap(err, "failed to write blob")
	}
	if err := tmp.Close(); err != nil {
		return PutResult{}, errors.Wrap(err, "failed to close blob")
	}
	if err := os.Rename(tmpName, target); err != nil {
		return PutResult{}, errors.Wrap(err, "failed to move blob into place")
	}

	s.logger.Debug().Str("path", path).Int("size", len(data)).Str("content_type", contentType).Msg("stored blob")

	return PutResult{Path: path}, nil
}

func (s *LocalStore) Delete(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	target, err := s.filePath(path)
	if err != nil {
		return err
	}

	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "failed to delete blob")
	}
	return nil
}

func (s *LocalStore) PublicURL(path string) string {
	return joinURL(s.publicBaseURL, path)
}
