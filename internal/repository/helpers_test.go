package repository_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/godilite/kiosk-feedback/internal/repository"
	"github.com/godilite/kiosk-feedback/internal/repository/models"
	"github.com/godilite/kiosk-feedback/pkg/database"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.New(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, repository.Migrate(context.Background(), db))
	return db
}

// setupFileDB opens a WAL database on disk so several connections write concurrently.
func setupFileDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "kiosk.db")
	db, err := database.New(context.Background(),
		database.WithDataSource(database.SQLiteDSN(path, 5*time.Second)),
		database.WithMaxOpenConns(8),
	)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, repository.Migrate(context.Background(), db))
	return db
}

func seedCatalog(t *testing.T, db *sql.DB) {
	t.Helper()
	ctx := context.Background()
	catalog := repository.NewCatalogRepository(db)

	for _, s := range []models.Staff{
		{ID: "S1", Name: "John Smith", Position: "Manager", Active: true},
		{ID: "S2", Name: "Sarah Johnson", Position: "Waiter", Active: true},
		{ID: "S3", Name: "Michael Brown", Position: "Chef", Active: false},
	} {
		require.NoError(t, catalog.CreateStaff(ctx, s))
	}
	require.NoError(t, catalog.CreateCategory(ctx, models.Category{ID: "C1", Name: "Service"}))
	for _, r := range []models.Reason{
		{ID: "D1", Description: "Long wait time", CategoryID: "C1", Active: true},
		{ID: "D2", Description: "Cold food", Active: true},
		{ID: "D3", Description: "Retired reason", Active: false},
	} {
		require.NoError(t, catalog.CreateReason(ctx, r))
	}
}

// insertFeedbackAt writes a feedback row with an explicit creation time.
func insertFeedbackAt(t *testing.T, db *sql.DB, id, rating string, at time.Time) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO feedback (id, overall_rating, created_at) VALUES (?, ?, ?)`,
		id, rating, repository.FormatTimestamp(at))
	require.NoError(t, err)
}

func linkStaff(t *testing.T, db *sql.DB, id, feedbackID, staffID string) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO feedback_staff (id, feedback_id, staff_id) VALUES (?, ?, ?)`, id, feedbackID, staffID)
	require.NoError(t, err)
}

func linkReason(t *testing.T, db *sql.DB, id, feedbackID, reasonID string) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO feedback_reasons (id, feedback_id, reason_id) VALUES (?, ?, ?)`, id, feedbackID, reasonID)
	require.NoError(t, err)
}
