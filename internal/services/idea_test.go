package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daleyoon76/saas-idea-generator/internal/data/repos/testutil"
	types "github.com/daleyoon76/saas-idea-generator/internal/domain"
)

func TestClampPage(t *testing.T) {
	cases := []struct{ page, size, wantPage, wantSize int }{
		{0, 10, 1, 10},
		{-3, 10, 1, 10},
		{2, 1000, 2, 50},
		{1, 0, 1, 1},
		{1, -5, 1, 1},
		{4, 50, 4, 50},
	}
	for _, tc := range cases {
		p, s := ClampPage(tc.page, tc.size)
		assert.Equal(t, tc.wantPage, p, "page(%d,%d)", tc.page, tc.size)
		assert.Equal(t, tc.wantSize, s, "size(%d,%d)", tc.page, tc.size)
	}
}

// The save-ideas then save-plan flow reuses the idea saved by the first call.
func TestSaveIdeasThenPlanReusesIdea(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	saved, err := f.ideas.SaveIdeas(ctx, "user-a", SaveIdeasInput{
		Ideas:   []LocalIdea{{ID: 1, Name: "AI tutor"}},
		Keyword: "education",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, saved.Saved)
	assert.Equal(t, 1, saved.Created)
	require.Len(t, saved.Ideas, 1)

	plan, err := f.artifacts.SavePlan(ctx, "user-a", SaveArtifactInput{
		Idea:     &LocalIdea{ID: 1, Name: "AI tutor"},
		Keyword:  "education",
		Content:  "...",
		IdeaName: "AI tutor",
	})
	require.NoError(t, err)
	assert.Equal(t, saved.Ideas[0].DBIdeaID, plan.DBIdeaID)
	assert.False(t, plan.IdeaCreated)

	again, err := f.ideas.SaveIdeas(ctx, "user-a", SaveIdeasInput{
		Ideas:   []LocalIdea{{ID: 1, Name: "AI tutor"}, {ID: 2, Name: "Study buddy"}},
		Keyword: "education",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, again.Saved)
	assert.Equal(t, 1, again.Created)
	assert.Equal(t, saved.Ideas[0].DBIdeaID, again.Ideas[0].DBIdeaID)

	ideas, _, _ := f.rowCounts(t)
	assert.EqualValues(t, 2, ideas)
}

func TestSaveIdeasValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.ideas.SaveIdeas(ctx, "user-a", SaveIdeasInput{})
	assert.True(t, errors.Is(err, ErrIdeasRequired))

	_, err = f.ideas.SaveIdeas(ctx, "user-a", SaveIdeasInput{Ideas: []LocalIdea{{ID: 1, Name: "ok"}, {ID: 2, Name: ""}}})
	assert.True(t, errors.Is(err, ErrIdeaNameRequired))

	many := make([]LocalIdea, MaxIdeasPerBatch+1)
	for i := range many {
		many[i] = LocalIdea{ID: int64(i + 1), Name: "x"}
	}
	_, err = f.ideas.SaveIdeas(ctx, "user-a", SaveIdeasInput{Ideas: many})
	assert.True(t, errors.Is(err, ErrTooManyIdeas))

	_, err = f.ideas.SaveIdeas(ctx, "", SaveIdeasInput{Ideas: []LocalIdea{{ID: 1, Name: "x"}}})
	assert.True(t, errors.Is(err, ErrUnauthorized))

	ideas, _, _ := f.rowCounts(t)
	assert.Zero(t, ideas)
}

func seedAt(t *testing.T, f *fixture, userID string, localID int64, at time.Time) *types.Idea {
	t.Helper()
	i := &types.Idea{ID: uuid.New(), UserID: userID, LocalID: localID, Name: fmt.Sprintf("idea-%d", localID), CreatedAt: at, UpdatedAt: at}
	require.NoError(t, f.db.Create(i).Error)
	return i
}

func TestListIdeasPagingAndIsolation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	base := time.Now().Add(-time.Hour)
	var seeded []*types.Idea
	for i := 0; i < 5; i++ {
		seeded = append(seeded, seedAt(t, f, "user-a", int64(i+1), base.Add(time.Duration(i)*time.Minute)))
	}
	seedAt(t, f, "user-b", 1, base)
	testutil.SeedPlan(t, ctx, f.db, seeded[4].ID, "p")
	testutil.SeedPRD(t, ctx, f.db, seeded[4].ID, "r")
	testutil.SeedPRD(t, ctx, f.db, seeded[4].ID, "r2")

	page1, err := f.ideas.ListIdeas(ctx, "user-a", 0, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, page1.Page)
	assert.Equal(t, 2, page1.PageSize)
	assert.EqualValues(t, 5, page1.Total)
	assert.Equal(t, 3, page1.TotalPages)
	require.Len(t, page1.Ideas, 2)
	assert.Equal(t, seeded[4].ID, page1.Ideas[0].ID)
	assert.Equal(t, 1, page1.Ideas[0].PlanCount)
	assert.Equal(t, 2, page1.Ideas[0].PRDCount)
	assert.Equal(t, seeded[3].ID, page1.Ideas[1].ID)
	assert.NotNil(t, page1.Ideas[1].Plans)

	page3, err := f.ideas.ListIdeas(ctx, "user-a", 3, 2)
	require.NoError(t, err)
	require.Len(t, page3.Ideas, 1)
	assert.Equal(t, seeded[0].ID, page3.Ideas[0].ID)

	big, err := f.ideas.ListIdeas(ctx, "user-a", 1, 1000)
	require.NoError(t, err)
	assert.Equal(t, MaxPageSize, big.PageSize)
	assert.Len(t, big.Ideas, 5)

	one, err := f.ideas.ListIdeas(ctx, "user-a", 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, one.PageSize)
	assert.Len(t, one.Ideas, 1)

	other, err := f.ideas.ListIdeas(ctx, "user-b", 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, other.Total)

	empty, err := f.ideas.ListIdeas(ctx, "user-c", 1, 10)
	require.NoError(t, err)
	assert.Empty(t, empty.Ideas)
	assert.Zero(t, empty.TotalPages)
}

func TestGetAndRenameIdeaAreOwnerScoped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	idea := testutil.SeedIdea(t, ctx, f.db, "user-a", 1, "AI tutor", "education")

	got, err := f.ideas.GetIdea(ctx, "user-b", idea.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	renamed, err := f.ideas.RenameIdea(ctx, "user-b", idea.ID, "Stolen")
	require.NoError(t, err)
	assert.Nil(t, renamed)

	_, err = f.ideas.RenameIdea(ctx, "user-a", idea.ID, "   ")
	assert.True(t, errors.Is(err, ErrNameRequired))

	renamed, err = f.ideas.RenameIdea(ctx, "user-a", idea.ID, "  AI tutor pro ")
	require.NoError(t, err)
	require.NotNil(t, renamed)
	assert.Equal(t, "AI tutor pro", renamed.Name)

	got, err = f.ideas.GetIdea(ctx, "user-a", idea.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "AI tutor pro", got.Name)
	assert.Equal(t, "education", got.Keyword)
}

func TestDeleteIdeaCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	idea := testutil.SeedIdea(t, ctx, f.db, "user-a", 1, "AI tutor", "education")
	keep := testutil.SeedIdea(t, ctx, f.db, "user-a", 2, "Other", "education")
	var plans []uuid.UUID
	for i := 0; i < 3; i++ {
		plans = append(plans, testutil.SeedPlan(t, ctx, f.db, idea.ID, "p").ID)
	}
	prd := testutil.SeedPRD(t, ctx, f.db, idea.ID, "r")
	keptPlan := testutil.SeedPlan(t, ctx, f.db, keep.ID, "k")

	ok, err := f.ideas.DeleteIdea(ctx, "user-b", idea.ID)
	require.NoError(t, err)
	assert.False(t, ok)
	_, planCount, _ := f.rowCounts(t)
	assert.EqualValues(t, 4, planCount)

	ok, err = f.ideas.DeleteIdea(ctx, "user-a", idea.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	for _, id := range plans {
		assert.Nil(t, testutil.Lookup[types.Plan](t, ctx, f.db, id))
	}
	assert.Nil(t, testutil.Lookup[types.PRD](t, ctx, f.db, prd.ID))
	got, err := f.ideas.GetIdea(ctx, "user-a", idea.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	ideas, planCount, prdCount := f.rowCounts(t)
	assert.EqualValues(t, 1, ideas)
	assert.EqualValues(t, 1, planCount)
	assert.Zero(t, prdCount)
	assert.NotNil(t, testutil.Lookup[types.Plan](t, ctx, f.db, keptPlan.ID))

	ok, err = f.ideas.DeleteIdea(ctx, "user-a", idea.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	// The natural key is free again after a hard delete.
	res, err := f.resolver.Resolve(ctx, nil, "user-a", ResolveInput{Local: &LocalIdea{ID: 1, Name: "AI tutor"}, Keyword: "education"})
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.NotEqual(t, idea.ID, res.IdeaID)
}
