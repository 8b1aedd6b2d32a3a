package state

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// SyncState is one row of the sync_states table.
type SyncState struct {
	MemberKey   string    `gorm:"column:member_key;primaryKey;size:64"`
	Fingerprint string    `gorm:"column:fingerprint;size:64;not null"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

// TableName overrides the GORM table name.
func (SyncState) TableName() string {
	return "sync_states"
}

// DatabaseBackend stores the mapping in a SQL table through GORM.
type DatabaseBackend struct {
	db        *gorm.DB
	batchSize int
	now       func() time.Time
}

// NewDatabaseBackend creates a database backend.
func NewDatabaseBackend(db *gorm.DB) *DatabaseBackend {
	return &DatabaseBackend{db: db, batchSize: 500, now: time.Now}
}

// Name implements Backend.
func (b *DatabaseBackend) Name() string { return "database" }

// Migrate creates or updates the sync_states table.
func (b *DatabaseBackend) Migrate(ctx context.Context) error {
	if err := b.db.WithContext(ctx).AutoMigrate(&SyncState{}); err != nil {
		return fmt.Errorf("failed to migrate sync_states: %w", err)
	}
	return nil
}

// Load implements Backend.
func (b *DatabaseBackend) Load(ctx context.Context) (map[string]string, error) {
	var rows []SyncState
	if err := b.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load sync_states: %w", err)
	}

	entries := make(map[string]string, len(rows))
	for _, r := range rows {
		entries[r.MemberKey] = r.Fingerprint
	}
	return entries, nil
}

// Store implements Backend. The table is replaced in a single transaction.
func (b *DatabaseBackend) Store(ctx context.Context, entries map[string]string) error {
	now := b.now()
	rows := make([]SyncState, 0, len(entries))
	for k, fp := range entries {
		rows = append(rows, SyncState{MemberKey: k, Fingerprint: fp, UpdatedAt: now})
	}

	return b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&SyncState{}).Error; err != nil {
			return fmt.Errorf("failed to clear sync_states: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(rows, b.batchSize).Error; err != nil {
			return fmt.Errorf("failed to write sync_states: %w", err)
		}
		return nil
	})
}
