// Package blob stores uploaded files under sanitized keys.
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"

	"artisanhub/internal/config"
)

var (
	ErrNotFound   = errors.New("blob not found")
	ErrInvalidKey = errors.New("invalid blob key")
)

type Store interface {
	Put(ctx context.Context, key string, r io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// checkKey rejects keys that could escape a flat namespace.
func checkKey(key string) error {
	if key == "" || key == "." || key == ".." ||
		strings.ContainsAny(key, `/\`+"\x00") || filepath.Base(key) != key {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

// Open builds the configured backend. db is only consulted for the db backend.
func Open(cfg config.Config, db *sqlx.DB) (Store, error) {
	switch cfg.BlobBackend {
	case config.BlobDB:
		if db == nil {
			return nil, errors.New("db blob backend needs a document database")
		}
		return NewSQLStore(db), nil
	case config.BlobS3:
		return NewS3Store(cfg.S3Bucket, cfg.S3Region, cfg.S3Endpoint)
	default:
		return NewDiskStore(cfg.UploadDir)
	}
}
