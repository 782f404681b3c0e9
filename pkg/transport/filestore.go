// Package transport moves EDI files to and from the trading partner's
// remote file store.
package transport

import (
	"context"
	"time"
)

// RemoteFile describes one file listed on the remote store.
type RemoteFile struct {
	Name       string
	Path       string
	Size       int64
	ModifiedAt time.Time
}

// FileStore is the remote-store contract the engine depends on. The SFTP
// implementation is the production one; tests substitute in-memory fakes.
type FileStore interface {
	// List returns files in dir whose names end with one of the given
	// extensions. Extension matching is case-insensitive.
	List(ctx context.Context, dir string, extensions []string) ([]RemoteFile, error)
	// Download fetches the file contents at path.
	Download(ctx context.Context, path string) ([]byte, error)
	// Archive renames the file into archiveDir under a timestamped name and
	// returns the new path.
	Archive(ctx context.Context, path, archiveDir string) (string, error)
	// Upload writes data to path, creating parent directories as needed.
	Upload(ctx context.Context, path string, data []byte) error
}
