package memory

import (
	"context"
	"testing"

	"github.com/AbanoubGhadban/rsc-migration-patterns/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchedRecordsDoNotAliasCatalog(t *testing.T) {
	ctx := context.Background()
	repo := NewCatalogRepository(DemoCatalog())

	p, err := repo.GetProduct(ctx, 1)
	require.NoError(t, err)
	p.Specs[0].Value = "changed"
	p.Reviews[0].Rating = 1

	theme, err := repo.GetThemePageContent(ctx)
	require.NoError(t, err)
	theme.NavItems[0] = "changed"
	theme.Features[0] = "changed"

	comments, err := repo.ListComments(ctx, 1)
	require.NoError(t, err)
	comments[0].Author = "changed"

	again, err := repo.GetProduct(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Cherry MX Brown", again.Specs[0].Value)
	assert.Equal(t, 5, again.Reviews[0].Rating)

	themeAgain, err := repo.GetThemePageContent(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, "changed", themeAgain.NavItems[0])
	assert.NotEqual(t, "changed", themeAgain.Features[0])

	commentsAgain, err := repo.ListComments(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Alex", commentsAgain[0].Author)
}

func TestMissingRecordsAreNotFound(t *testing.T) {
	repo := NewCatalogRepository(DemoCatalog())

	_, err := repo.GetProduct(context.Background(), 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = repo.GetPost(context.Background(), 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
