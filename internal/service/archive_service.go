package service

import (
	"context"
	"encoding/json"

	"github.com/coinsage/coinsage-backend/internal/domain"
	"github.com/coinsage/coinsage-backend/internal/repository/archive"
	"github.com/coinsage/coinsage-backend/internal/util"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const backupTimestampLayout = "2006-01-02_15-04-05"

// ArchiveService backs up and restores the transaction list as a JSON file.
// A failed restore never touches the stored transactions.
type ArchiveService struct {
	transactions domain.TransactionStore
	backups      archive.Repository
	clock        util.Clock
}

// NewArchiveService creates a new ArchiveService
func NewArchiveService(transactions domain.TransactionStore, backups archive.Repository, clock util.Clock) *ArchiveService {
	return &ArchiveService{
		transactions: transactions,
		backups:      backups,
		clock:        clock,
	}
}

// Backup serializes the user's transactions and writes a timestamped backup.
// Returns the backup name.
func (s *ArchiveService) Backup(ctx context.Context, userID uuid.UUID) (string, error) {
	transactions, err := s.transactions.GetTransactions(userID)
	if err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(transactions, "", "  ")
	if err != nil {
		return "", err
	}

	name := "backup_" + s.clock.Now().Format(backupTimestampLayout) + ".json"
	if err := s.backups.Write(ctx, userID.String(), name, data); err != nil {
		return "", err
	}

	log.Info().
		Str("user_id", userID.String()).
		Str("backup", name).
		Int("transactions", len(transactions)).
		Msg("Backup written")
	return name, nil
}

// Restore replaces the user's stored transactions with the backup contents.
// Unparseable backups fail before anything is written, leaving the existing
// transactions untouched.
func (s *ArchiveService) Restore(ctx context.Context, userID uuid.UUID, name string) (int, error) {
	data, err := s.backups.Read(ctx, userID.String(), name)
	if err != nil {
		return 0, err
	}

	var transactions []domain.Transaction
	if err := json.Unmarshal(data, &transactions); err != nil {
		return 0, domain.ErrInvalidInput
	}

	if err := s.transactions.SaveTransactions(userID, transactions); err != nil {
		return 0, err
	}

	log.Info().
		Str("user_id", userID.String()).
		Str("backup", name).
		Int("transactions", len(transactions)).
		Msg("Backup restored")
	return len(transactions), nil
}

// List returns the user's backups, newest first.
func (s *ArchiveService) List(ctx context.Context, userID uuid.UUID) ([]archive.BackupInfo, error) {
	return s.backups.List(ctx, userID.String())
}

// Latest returns the most recent backup, or ErrBackupNotFound when none exist.
func (s *ArchiveService) Latest(ctx context.Context, userID uuid.UUID) (*archive.BackupInfo, error) {
	backups, err := s.backups.List(ctx, userID.String())
	if err != nil {
		return nil, err
	}
	if len(backups) == 0 {
		return nil, domain.ErrBackupNotFound
	}
	return &backups[0], nil
}
