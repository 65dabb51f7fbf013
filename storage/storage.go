package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// ErrObjectNotFound is returned by Download when the key does not exist
var ErrObjectNotFound = errors.New("object not found")

// Object describes a document being stored
type Object struct {
	ID          uuid.UUID
	DossierID   uuid.UUID
	Filename    string
	ContentType string
	Size        int64
}

// Storage interface for document byte storage
type Storage interface {
	// Upload stores the bytes and returns the storage key
	Upload(ctx context.Context, obj Object, data io.Reader) (string, error)

	// Download retrieves an object by storage key
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes an object by storage key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error
}

// StorageType represents the storage backend type
type StorageType string

const (
	StorageTypeLocal StorageType = "local"
	StorageTypeS3    StorageType = "s3"
)

// StorageConfig holds configuration for storage
type StorageConfig struct {
	Type         StorageType
	LocalPath    string // For local storage
	S3Bucket     string // For S3 storage
	S3Region     string // For S3 storage
	S3Endpoint   string // Optional, for S3-compatible servers
	AWSAccessKey string
	AWSSecretKey string
}

// NewStorage creates a new storage instance based on configuration
func NewStorage(ctx context.Context, cfg StorageConfig) (Storage, error) {
	switch cfg.Type {
	case StorageTypeLocal, "":
		return NewLocalStorage(cfg.LocalPath)
	case StorageTypeS3:
		if cfg.S3Bucket == "" {
			return nil, errors.New("an S3 bucket is required for s3 storage")
		}
		return NewS3Storage(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// objectKey builds dossiers/<dossier id>/<document id>_<sanitized name>
func objectKey(obj Object) string {
	name := filepath.Base(strings.ReplaceAll(obj.Filename, `\`, "/"))
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)

	base = strings.Trim(unsafeChars.ReplaceAllString(base, "_"), "_.")
	ext = unsafeChars.ReplaceAllString(ext, "")
	if base == "" {
		base = "document"
	}
	if len(base) > 80 {
		base = base[:80]
	}

	return fmt.Sprintf("dossiers/%s/%s_%s%s", obj.DossierID, obj.ID, base, strings.ToLower(ext))
}
