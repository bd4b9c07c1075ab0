package settings

import (
	"context"
	"testing"
	"time"

	"github.com/backofhouse/backofhouse/internal/test_utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_GetReturnsNilWhenUnset(t *testing.T) {
	db := test_utils.SetupTestDB(t)
	repo := NewRepository(db)

	stored, err := repo.Get(context.Background())
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestRepository_StoreThenGet(t *testing.T) {
	db := test_utils.SetupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	err := repo.Store(ctx, Settings{Timezone: "Europe/Warsaw", WeekFirstDay: time.Sunday})
	require.NoError(t, err)

	stored, err := repo.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "Europe/Warsaw", stored.Timezone)
	assert.Equal(t, time.Sunday, stored.WeekFirstDay)
}

func TestRepository_StoreOverwritesSingleRow(t *testing.T) {
	db := test_utils.SetupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Store(ctx, Settings{Timezone: "Europe/Warsaw", WeekFirstDay: time.Monday}))
	require.NoError(t, repo.Store(ctx, Settings{Timezone: "Australia/Sydney", WeekFirstDay: time.Monday}))

	stored, err := repo.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "Australia/Sydney", stored.Timezone)

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM company_settings").Scan(&count))
	assert.Equal(t, 1, count)
}
