// Package storage provides file storage for uploaded statements. Uploads are
// addressed by uuid and carry JSON sidecar metadata so the cleanup job can
// reason about age without a database.
package storage

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
)

// FileInfo contains metadata about a stored file.
type FileInfo struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	Path        string    `json:"path"` // Internal storage path
	CreatedAt   time.Time `json:"created_at"`
}

// Storage defines the interface for statement file storage.
type Storage interface {
	// Upload stores a file and returns its metadata
	Upload(ctx context.Context, filename string, contentType string, r io.Reader) (*FileInfo, error)

	// Delete removes a file by its ID
	Delete(ctx context.Context, fileID uuid.UUID) error

	// List returns all stored files
	List(ctx context.Context) ([]*FileInfo, error)

	// GetInfo returns metadata for a file without opening it
	GetInfo(ctx context.Context, fileID uuid.UUID) (*FileInfo, error)

	// Location returns a local filesystem path for the file, for handing to
	// collaborators that read the statement from disk
	Location(ctx context.Context, fileID uuid.UUID) (string, error)
}

// Config holds storage configuration.
type Config struct {
	LocalPath string
}

// New creates a Storage implementation based on configuration.
func New(cfg *Config) (Storage, error) {
	return NewLocalStorage(cfg.LocalPath)
}
