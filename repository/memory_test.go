package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tnqbao/gau-video-service/entity"
)

func TestMemoryAccountRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryAccountRepository()

	require.NoError(t, repo.Create(ctx, &entity.Account{ID: "1", Email: "a@b.com"}))
	assert.ErrorIs(t, repo.Create(ctx, &entity.Account{ID: "2", Email: "a@b.com"}), ErrDuplicate)

	exists, err := repo.ExistsByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByEmail(ctx, "c@d.com")
	require.NoError(t, err)
	assert.False(t, exists)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	_, err = repo.GetByID(ctx, "2")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryVideoRepository_PreservesInsertionOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryVideoRepository()

	for _, id := range []string{"b", "a", "c"} {
		require.NoError(t, repo.Create(ctx, &entity.VideoRecord{ID: id}))
	}

	videos, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, videos, 3)
	assert.Equal(t, "b", videos[0].ID)
	assert.Equal(t, "a", videos[1].ID)
	assert.Equal(t, "c", videos[2].ID)

	videos[0].Title = "mutated"
	stored, err := repo.GetByID(ctx, "b")
	require.NoError(t, err)
	assert.Empty(t, stored.Title)
}

func TestMemoryVideoRepository_ListEmptyIsNotNil(t *testing.T) {
	videos, err := NewMemoryVideoRepository().List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, videos)
	assert.Empty(t, videos)
}
