package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/coinsage/coinsage-backend/internal/domain"
	"github.com/coinsage/coinsage-backend/internal/testutil"
	"github.com/coinsage/coinsage-backend/internal/util"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func newArchiveFixture(t *testing.T) (*ArchiveService, *testutil.MockPreferenceStore, *testutil.MockArchiveRepository, uuid.UUID) {
	t.Helper()
	store := testutil.NewMockPreferenceStore()
	backups := testutil.NewMockArchiveRepository()
	clock := util.FixedClock{Instant: time.Date(2025, time.June, 15, 9, 30, 5, 0, time.UTC)}
	return NewArchiveService(store, backups, clock), store, backups, uuid.New()
}

func TestBackup_WritesTimestampedFile(t *testing.T) {
	svc, store, backups, userID := newArchiveFixture(t)
	ctx := context.Background()

	store.Transactions[userID] = []domain.Transaction{
		categorized("40", domain.CategoryFood, time.Date(2025, time.June, 3, 0, 0, 0, 0, time.UTC)),
	}

	name, err := svc.Backup(ctx, userID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if name != "backup_2025-06-15_09-30-05.json" {
		t.Errorf("Expected timestamped name, got %q", name)
	}

	data, err := backups.Read(ctx, userID.String(), name)
	if err != nil {
		t.Fatalf("Expected the backup to be readable, got %v", err)
	}
	if len(data) == 0 {
		t.Error("Expected the backup to hold the serialized transactions")
	}
}

func TestBackupRestore_RoundTrip(t *testing.T) {
	svc, store, _, userID := newArchiveFixture(t)
	ctx := context.Background()

	original := []domain.Transaction{
		categorized("40", domain.CategoryFood, time.Date(2025, time.June, 3, 0, 0, 0, 0, time.UTC)),
		categorized("60", domain.CategoryBills, time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)),
	}
	store.Transactions[userID] = original

	name, err := svc.Backup(ctx, userID)
	if err != nil {
		t.Fatalf("Backup failed: %v", err)
	}

	// Wipe the live list, then restore
	store.Transactions[userID] = nil

	count, err := svc.Restore(ctx, userID, name)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 restored transactions, got %d", count)
	}

	restored := store.Transactions[userID]
	if len(restored) != 2 {
		t.Fatalf("Expected 2 transactions in the store, got %d", len(restored))
	}
	if restored[0].ID != original[0].ID {
		t.Errorf("Expected IDs to survive the round trip")
	}
	if !restored[1].Amount.Equal(decimal.NewFromInt(60)) {
		t.Errorf("Expected amounts to survive, got %s", restored[1].Amount)
	}
}

func TestRestore_CorruptBackupLeavesStateUntouched(t *testing.T) {
	svc, store, backups, userID := newArchiveFixture(t)
	ctx := context.Background()

	existing := []domain.Transaction{
		categorized("40", domain.CategoryFood, time.Date(2025, time.June, 3, 0, 0, 0, 0, time.UTC)),
	}
	store.Transactions[userID] = existing

	if err := backups.Write(ctx, userID.String(), "backup_bad.json", []byte("{not json")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	_, err := svc.Restore(ctx, userID, "backup_bad.json")
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
	if len(store.Transactions[userID]) != 1 {
		t.Errorf("Expected the stored transactions to be untouched, got %v", store.Transactions[userID])
	}
}

func TestRestore_UnknownBackup(t *testing.T) {
	svc, _, _, userID := newArchiveFixture(t)

	_, err := svc.Restore(context.Background(), userID, "backup_missing.json")
	if !errors.Is(err, domain.ErrBackupNotFound) {
		t.Errorf("Expected ErrBackupNotFound, got %v", err)
	}
}

func TestList_NewestFirst(t *testing.T) {
	svc, _, backups, userID := newArchiveFixture(t)
	ctx := context.Background()

	names := []string{
		"backup_2025-06-01_10-00-00.json",
		"backup_2025-06-10_10-00-00.json",
		"backup_2025-06-05_10-00-00.json",
	}
	for _, name := range names {
		if err := backups.Write(ctx, userID.String(), name, []byte("[]")); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}

	list, err := svc.List(ctx, userID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("Expected 3 backups, got %d", len(list))
	}
	if list[0].Name != "backup_2025-06-10_10-00-00.json" {
		t.Errorf("Expected newest first, got %s", list[0].Name)
	}
	if list[2].Name != "backup_2025-06-01_10-00-00.json" {
		t.Errorf("Expected oldest last, got %s", list[2].Name)
	}
}

func TestLatest(t *testing.T) {
	svc, _, backups, userID := newArchiveFixture(t)
	ctx := context.Background()

	if _, err := svc.Latest(ctx, userID); !errors.Is(err, domain.ErrBackupNotFound) {
		t.Errorf("Expected ErrBackupNotFound with no backups, got %v", err)
	}

	if err := backups.Write(ctx, userID.String(), "backup_2025-06-10_10-00-00.json", []byte("[]")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	latest, err := svc.Latest(ctx, userID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if latest.Name != "backup_2025-06-10_10-00-00.json" {
		t.Errorf("Expected the single backup, got %s", latest.Name)
	}
}

func TestBackup_PerUserIsolation(t *testing.T) {
	svc, store, _, userID := newArchiveFixture(t)
	ctx := context.Background()
	otherID := uuid.New()

	store.Transactions[userID] = []domain.Transaction{
		categorized("40", domain.CategoryFood, time.Date(2025, time.June, 3, 0, 0, 0, 0, time.UTC)),
	}

	if _, err := svc.Backup(ctx, userID); err != nil {
		t.Fatalf("Backup failed: %v", err)
	}

	list, err := svc.List(ctx, otherID)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("Expected no backups for another user, got %v", list)
	}
}
