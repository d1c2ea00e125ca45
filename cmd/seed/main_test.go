package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/godilite/kiosk-feedback/internal/repository"
	"github.com/godilite/kiosk-feedback/internal/service"
	dbbuilder "github.com/godilite/kiosk-feedback/pkg/database"
)

func TestSeedIsRepeatable(t *testing.T) {
	ctx := context.Background()
	logger := zaptest.NewLogger(t)

	db, err := dbbuilder.New(ctx, dbbuilder.WithDataSource(dbbuilder.SQLiteDSN(filepath.Join(t.TempDir(), "seed.db"), 5*time.Second)))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, repository.Migrate(ctx, db))

	catalogRepo := repository.NewCatalogRepository(db)
	assembler := service.NewFeedbackAssembler(repository.NewFeedbackRepository(db), catalogRepo, service.ReasonLinksDedupe, logger)

	for range 2 {
		require.NoError(t, seedCatalog(ctx, catalogRepo, logger))
		require.NoError(t, seedFeedback(ctx, assembler))
	}

	active, err := catalogRepo.ListActiveStaff(ctx)
	require.NoError(t, err)
	assert.Len(t, active, len(staff))

	var feedbackRows, reasonLinks int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM feedback`).Scan(&feedbackRows))
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM feedback_reasons`).Scan(&reasonLinks))
	assert.Equal(t, len(samples), feedbackRows)
	assert.Equal(t, 3, reasonLinks)

	detail, err := assembler.Feedback(ctx, "seed-F1")
	require.NoError(t, err)
	require.Len(t, detail.Staff, 1)
	assert.Equal(t, service.EmotionHeart, detail.Staff[0].Emotion)
}
