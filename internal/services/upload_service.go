package services

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"artisanhub/internal/blob"
	applog "artisanhub/internal/log"
	"artisanhub/internal/media"
	"artisanhub/internal/validate"
)

// File is one uploaded form file.
type File struct {
	Name string
	Body io.Reader
}

type UploadService struct {
	Blobs blob.Store
}

func NewUploadService(b blob.Store) *UploadService { return &UploadService{Blobs: b} }

// Check validates an upload against exts. A nil file is reported as missing.
func (s *UploadService) Check(f *File, exts validate.ExtSet, field, label string) error {
	if f == nil || f.Name == "" {
		return fieldErr(field, label+" is required")
	}
	if !validate.AllowedFile(f.Name, exts) {
		return fieldErr(field, fmt.Sprintf("%s must be one of: %s", label, exts))
	}
	return nil
}

// Save stores f under a unique key derived from its sanitized name.
// Profile pictures are downscaled first.
func (s *UploadService) Save(ctx context.Context, f *File, profile bool) (string, error) {
	key := uuid.NewString() + "_" + validate.StorageName(f.Name)
	body := f.Body
	if profile {
		data, err := media.Downscale(f.Body, media.MaxProfileWidth)
		if err != nil {
			return "", fmt.Errorf("read upload: %w", err)
		}
		body = bytes.NewReader(data)
	}
	if err := s.Blobs.Put(ctx, key, body); err != nil {
		return "", fmt.Errorf("store upload %s: %w", key, err)
	}
	return key, nil
}

// Discard removes uploads of a request that did not produce a record.
func (s *UploadService) Discard(ctx context.Context, keys ...string) {
	for _, k := range keys {
		if k == "" {
			continue
		}
		if err := s.Blobs.Delete(ctx, k); err != nil {
			applog.Error(nil, "upload.discard.fail", err, map[string]any{"key": k})
		}
	}
}
