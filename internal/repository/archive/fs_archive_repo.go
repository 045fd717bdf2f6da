package archive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/coinsage/coinsage-backend/internal/domain"
)

// FSRepository implements Repository on a local directory, one subdirectory
// per user.
type FSRepository struct {
	baseDir string
}

// NewFSRepository creates a new FSRepository rooted at baseDir.
func NewFSRepository(baseDir string) (*FSRepository, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}
	return &FSRepository{baseDir: baseDir}, nil
}

func (r *FSRepository) userDir(userID string) string {
	return filepath.Join(r.baseDir, userID)
}

// Write stores a backup blob under the user's directory.
func (r *FSRepository) Write(ctx context.Context, userID string, name string, data []byte) error {
	if !validBackupName(name) {
		return domain.ErrInvalidInput
	}
	dir := r.userDir(userID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create backup directory: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, name), data, 0o644)
}

// Read returns the backup blob with the given name.
func (r *FSRepository) Read(ctx context.Context, userID string, name string) ([]byte, error) {
	if !validBackupName(name) {
		return nil, domain.ErrInvalidInput
	}
	data, err := os.ReadFile(filepath.Join(r.userDir(userID), name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrBackupNotFound
		}
		return nil, err
	}
	return data, nil
}

// List returns the user's backups, newest first.
func (r *FSRepository) List(ctx context.Context, userID string) ([]BackupInfo, error) {
	entries, err := os.ReadDir(r.userDir(userID))
	if err != nil {
		if os.IsNotExist(err) {
			return []BackupInfo{}, nil
		}
		return nil, err
	}

	backups := make([]BackupInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, BackupInfo{
			Name:      entry.Name(),
			Size:      info.Size(),
			CreatedAt: info.ModTime(),
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].CreatedAt.After(backups[j].CreatedAt)
	})
	return backups, nil
}

// validBackupName rejects names that could escape the user's directory.
func validBackupName(name string) bool {
	return name != "" &&
		!strings.Contains(name, "/") &&
		!strings.Contains(name, "\\") &&
		!strings.Contains(name, "..") &&
		strings.HasSuffix(name, ".json")
}
