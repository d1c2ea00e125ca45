package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/godilite/kiosk-feedback/internal/repository"
	"github.com/godilite/kiosk-feedback/internal/repository/models"
)

func TestCatalogRepository_Staff(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)
	repo := repository.NewCatalogRepository(db)
	ctx := context.Background()

	active, err := repo.ListActiveStaff(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "John Smith", active[0].Name)
	assert.Equal(t, "Sarah Johnson", active[1].Name)

	inactive, err := repo.FindStaff(ctx, "S3")
	require.NoError(t, err)
	assert.False(t, inactive.Active)

	_, err = repo.FindStaff(ctx, "S404")
	assert.ErrorIs(t, err, models.ErrNotFound)

	require.NoError(t, repo.SetStaffActive(ctx, "S3", true))
	active, err = repo.ListActiveStaff(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 3)

	assert.ErrorIs(t, repo.SetStaffActive(ctx, "S404", true), models.ErrNotFound)
	assert.ErrorIs(t, repo.CreateStaff(ctx, models.Staff{ID: "S1", Name: "Dup"}), models.ErrDuplicateKey)
}

func TestCatalogRepository_Reasons(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)
	repo := repository.NewCatalogRepository(db)
	ctx := context.Background()

	active, err := repo.ListActiveReasons(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "Cold food", active[0].Description)
	assert.Equal(t, "", active[0].CategoryName)
	assert.Equal(t, "Long wait time", active[1].Description)
	assert.Equal(t, "Service", active[1].CategoryName)

	retired, err := repo.FindReason(ctx, "D3")
	require.NoError(t, err)
	assert.False(t, retired.Active)

	_, err = repo.FindReason(ctx, "D404")
	assert.ErrorIs(t, err, models.ErrNotFound)
}
