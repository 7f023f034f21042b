package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daleyoon76/saas-idea-generator/internal/data/repos/testutil"
)

func TestResolveCreatesThenReuses(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	in := ResolveInput{Local: &LocalIdea{ID: 1, Name: "AI tutor"}, Keyword: " education ", Preset: "b2c"}

	first, err := f.resolver.Resolve(ctx, nil, "user-a", in)
	require.NoError(t, err)
	assert.True(t, first.Created)

	second, err := f.resolver.Resolve(ctx, nil, "user-a", in)
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, first.IdeaID, second.IdeaID)

	// Preset is not part of the natural key.
	in.Preset = "b2b"
	third, err := f.resolver.Resolve(ctx, nil, "user-a", in)
	require.NoError(t, err)
	assert.Equal(t, first.IdeaID, third.IdeaID)

	ideas, _, _ := f.rowCounts(t)
	assert.EqualValues(t, 1, ideas)
}

func TestResolveExplicitID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owned := testutil.SeedIdea(t, ctx, f.db, "user-a", 7, "Owned", "")

	res, err := f.resolver.Resolve(ctx, nil, "user-a", ResolveInput{DBIdeaID: &owned.ID, Local: &LocalIdea{ID: 99, Name: "ignored"}})
	require.NoError(t, err)
	assert.Equal(t, owned.ID, res.IdeaID)
	assert.False(t, res.Created)

	_, err = f.resolver.Resolve(ctx, nil, "user-b", ResolveInput{DBIdeaID: &owned.ID})
	assert.True(t, errors.Is(err, ErrIdeaNotFound))

	missing := uuid.New()
	_, err = f.resolver.Resolve(ctx, nil, "user-a", ResolveInput{DBIdeaID: &missing})
	assert.True(t, errors.Is(err, ErrIdeaNotFound))

	ideas, _, _ := f.rowCounts(t)
	assert.EqualValues(t, 1, ideas)
}

func TestResolveValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.resolver.Resolve(ctx, nil, "user-a", ResolveInput{})
	assert.True(t, errors.Is(err, ErrIdeaRequired))
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	_, err = f.resolver.Resolve(ctx, nil, "user-a", ResolveInput{Local: &LocalIdea{ID: 1, Name: "  "}})
	assert.True(t, errors.Is(err, ErrIdeaNameRequired))

	_, err = f.resolver.Resolve(ctx, nil, "", ResolveInput{Local: &LocalIdea{ID: 1, Name: "x"}})
	assert.True(t, errors.Is(err, ErrUnauthorized))

	ideas, _, _ := f.rowCounts(t)
	assert.Zero(t, ideas)
}

func TestResolveConcurrentConverges(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	in := ResolveInput{Local: &LocalIdea{ID: 3, Name: "Meal planner"}, Keyword: "food"}

	const workers = 8
	ids := make([]uuid.UUID, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := f.resolver.Resolve(ctx, nil, "user-a", in)
			errs[i] = err
			if err == nil {
				ids[i] = res.IdeaID
			}
		}(i)
	}
	wg.Wait()

	for i := range ids {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}
	ideas, _, _ := f.rowCounts(t)
	assert.EqualValues(t, 1, ideas)
}
