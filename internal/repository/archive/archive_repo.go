package archive

import (
	"context"
	"time"
)

// BackupInfo describes one stored backup file.
type BackupInfo struct {
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"createdAt"`
}

// Repository defines the interface for backup storage operations. Backups are
// opaque blobs; encoding is the caller's concern.
type Repository interface {
	Write(ctx context.Context, userID string, name string, data []byte) error
	Read(ctx context.Context, userID string, name string) ([]byte, error)
	List(ctx context.Context, userID string) ([]BackupInfo, error)
}
