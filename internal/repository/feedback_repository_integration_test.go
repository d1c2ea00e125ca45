package repository_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/godilite/kiosk-feedback/internal/repository"
	"github.com/godilite/kiosk-feedback/internal/repository/models"
)

func TestMigrateIsRepeatable(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, repository.Migrate(context.Background(), db))

	var versions int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&versions))
	assert.Equal(t, 1, versions)
}

func TestFeedbackRepository_CreateAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewFeedbackRepository(db)
	ctx := context.Background()

	created, err := repo.CreateFeedback(ctx, models.Feedback{
		ID:            "F1",
		OverallRating: "GOOD",
		Comment:       sql.NullString{String: "lovely", Valid: true},
	})
	require.NoError(t, err)
	assert.False(t, created.CreatedAt.IsZero())
	assert.WithinDuration(t, time.Now(), created.CreatedAt, time.Minute)

	found, err := repo.FindFeedback(ctx, "F1")
	require.NoError(t, err)
	assert.Equal(t, created, found)

	_, err = repo.CreateFeedback(ctx, models.Feedback{ID: "F1", OverallRating: "NOT_SATISFIED"})
	assert.ErrorIs(t, err, models.ErrDuplicateKey)

	_, err = repo.FindFeedback(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestFeedbackRepository_RejectsUnknownRating(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewFeedbackRepository(db)

	_, err := repo.CreateFeedback(context.Background(), models.Feedback{ID: "F1", OverallRating: "MEH"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, models.ErrDuplicateKey)
}

func TestFeedbackRepository_StaffLinks(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)
	repo := repository.NewFeedbackRepository(db)
	ctx := context.Background()

	_, err := repo.CreateFeedback(ctx, models.Feedback{ID: "F1", OverallRating: "GOOD"})
	require.NoError(t, err)

	link, err := repo.CreateStaffLink(ctx, models.StaffLink{ID: "L1", FeedbackID: "F1", StaffID: "S1"})
	require.NoError(t, err)
	assert.False(t, link.Emotion.Valid)

	_, err = repo.CreateStaffLink(ctx, models.StaffLink{ID: "L2", FeedbackID: "F1", StaffID: "S1"})
	assert.ErrorIs(t, err, models.ErrDuplicateKey)

	updated, err := repo.UpdateStaffLinkEmotion(ctx, "F1", "S1", sql.NullString{String: "HEART", Valid: true})
	require.NoError(t, err)
	assert.Equal(t, "L1", updated.ID)
	assert.Equal(t, "HEART", updated.Emotion.String)

	kept, err := repo.UpdateStaffLinkEmotion(ctx, "F1", "S1", sql.NullString{})
	require.NoError(t, err)
	assert.Equal(t, "HEART", kept.Emotion.String)

	_, err = repo.UpdateStaffLinkEmotion(ctx, "F1", "S2", sql.NullString{String: "LIKE", Valid: true})
	assert.ErrorIs(t, err, models.ErrNotFound)

	links, err := repo.ListStaffLinks(ctx, "F1")
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, "S1", links[0].StaffID)
}

func TestFeedbackRepository_ReasonLinks(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)
	repo := repository.NewFeedbackRepository(db)
	ctx := context.Background()

	_, err := repo.CreateFeedback(ctx, models.Feedback{ID: "F2", OverallRating: "NOT_SATISFIED"})
	require.NoError(t, err)

	_, err = repo.CreateReasonLink(ctx, models.ReasonLink{ID: "R1", FeedbackID: "F2", ReasonID: "D1"})
	require.NoError(t, err)
	_, err = repo.CreateReasonLink(ctx, models.ReasonLink{ID: "R2", FeedbackID: "F2", ReasonID: "D1"})
	require.NoError(t, err)

	links, err := repo.ListReasonLinks(ctx, "F2")
	require.NoError(t, err)
	assert.Len(t, links, 2)

	existing, err := repo.CreateReasonLinkIfAbsent(ctx, models.ReasonLink{ID: "R3", FeedbackID: "F2", ReasonID: "D1"})
	require.NoError(t, err)
	assert.Equal(t, "R1", existing.ID)

	fresh, err := repo.CreateReasonLinkIfAbsent(ctx, models.ReasonLink{ID: "R4", FeedbackID: "F2", ReasonID: "D2"})
	require.NoError(t, err)
	assert.Equal(t, "R4", fresh.ID)
	assert.False(t, fresh.CreatedAt.IsZero())

	links, err = repo.ListReasonLinks(ctx, "F2")
	require.NoError(t, err)
	assert.Len(t, links, 3)
}

func TestFeedbackRepository_CountStaffSelections(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)
	repo := repository.NewFeedbackRepository(db)

	insertFeedbackAt(t, db, "may", "GOOD", time.Date(2025, 5, 31, 23, 59, 59, 999e6, time.UTC))
	insertFeedbackAt(t, db, "june-first", "GOOD", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	insertFeedbackAt(t, db, "june-last", "NOT_SATISFIED", time.Date(2025, 6, 30, 23, 59, 59, 999e6, time.UTC))
	insertFeedbackAt(t, db, "july", "GOOD", time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC))

	linkStaff(t, db, "L1", "may", "S1")
	linkStaff(t, db, "L2", "june-first", "S1")
	linkStaff(t, db, "L3", "june-first", "S3")
	linkStaff(t, db, "L4", "june-last", "S1")
	linkStaff(t, db, "L5", "july", "S2")

	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	counts, err := repo.CountStaffSelections(context.Background(), start, end)
	require.NoError(t, err)
	assert.Equal(t, []models.StaffSelectionCount{
		{StaffID: "S1", Name: "John Smith", Count: 2},
		{StaffID: "S3", Name: "Michael Brown", Count: 1},
	}, counts)

	empty, err := repo.CountStaffSelections(context.Background(),
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestFeedbackRepository_DissatisfactionCounts(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)
	repo := repository.NewFeedbackRepository(db)
	ctx := context.Background()

	insertFeedbackAt(t, db, "n1", "NOT_SATISFIED", time.Date(2025, 6, 3, 10, 0, 0, 0, time.UTC))
	insertFeedbackAt(t, db, "n2", "NOT_SATISFIED", time.Date(2025, 6, 9, 10, 0, 0, 0, time.UTC))
	insertFeedbackAt(t, db, "g1", "GOOD", time.Date(2025, 6, 9, 11, 0, 0, 0, time.UTC))
	insertFeedbackAt(t, db, "n-july", "NOT_SATISFIED", time.Date(2025, 7, 2, 10, 0, 0, 0, time.UTC))

	linkReason(t, db, "R1", "n1", "D1")
	linkReason(t, db, "R2", "n1", "D2")
	linkReason(t, db, "R3", "n2", "D1")
	// reasons on GOOD feedback are ignored
	linkReason(t, db, "R4", "g1", "D2")
	linkReason(t, db, "R5", "n-july", "D2")

	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	count, err := repo.CountNotSatisfied(ctx, start, end)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	reasons, err := repo.CountReasons(ctx, start, end)
	require.NoError(t, err)
	assert.Equal(t, []models.ReasonCount{
		{ReasonID: "D1", Description: "Long wait time", Count: 2},
		{ReasonID: "D2", Description: "Cold food", Count: 1},
	}, reasons)
}
