package state

import (
	"context"
	"testing"
	"time"

	"hikvision-sync/core/database"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// setupMockDB creates a mock GORM DB for testing.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func TestDatabaseBackend_LoadMySQL(t *testing.T) {
	db, sqlMock := setupMockDB(t)

	rows := sqlmock.NewRows([]string{"member_key", "fingerprint", "updated_at"}).
		AddRow("12345", "AAA", time.Now()).
		AddRow("777", "BBB", time.Now())
	sqlMock.ExpectQuery("SELECT \\* FROM `sync_states`").WillReturnRows(rows)

	b := NewDatabaseBackend(db)
	entries, err := b.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"12345": "AAA", "777": "BBB"}, entries)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestDatabaseBackend_LoadError(t *testing.T) {
	db, sqlMock := setupMockDB(t)
	sqlMock.ExpectQuery("SELECT \\* FROM `sync_states`").WillReturnError(assert.AnError)

	b := NewDatabaseBackend(db)
	_, err := b.Load(context.Background())
	assert.ErrorContains(t, err, "failed to load sync_states")
}

func TestDatabaseBackend_SQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()

	// Shared cache so every pooled connection sees the same in-memory DB.
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: "file:state_roundtrip?mode=memory&cache=shared"})
	require.NoError(t, err)

	b := NewDatabaseBackend(db)
	require.NoError(t, b.Migrate(ctx))

	entries, err := b.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)

	require.NoError(t, b.Store(ctx, map[string]string{"1": "A", "2": "B"}))
	require.NoError(t, b.Store(ctx, map[string]string{"2": "B2", "3": "C"}))

	entries, err = b.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"2": "B2", "3": "C"}, entries, "Store must replace the whole mapping")

	require.NoError(t, b.Store(ctx, map[string]string{}))
	entries, err = b.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
