package idea

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/daleyoon76/saas-idea-generator/internal/data/repos/testutil"
	types "github.com/daleyoon76/saas-idea-generator/internal/domain"
)

func TestIdeaRepoInsertIfAbsent(t *testing.T) {
	db := testutil.DB(t)
	repo := NewIdeaRepo(db, testutil.Logger(t))
	ctx := context.Background()

	first := &types.Idea{UserID: "user-a", LocalID: 1, Name: "AI tutor", Keyword: "education"}
	created, err := repo.InsertIfAbsent(ctx, nil, first)
	if err != nil {
		t.Fatalf("InsertIfAbsent: %v", err)
	}
	if !created || first.ID == uuid.Nil {
		t.Fatalf("InsertIfAbsent: expected new row, created=%v id=%s", created, first.ID)
	}

	dup := &types.Idea{UserID: "user-a", LocalID: 1, Name: "AI tutor v2", Keyword: "education"}
	created, err = repo.InsertIfAbsent(ctx, nil, dup)
	if err != nil {
		t.Fatalf("InsertIfAbsent (dup): %v", err)
	}
	if created {
		t.Fatalf("InsertIfAbsent (dup): expected no insert")
	}

	got, err := repo.GetByNaturalKey(ctx, nil, "user-a", 1, "education")
	if err != nil {
		t.Fatalf("GetByNaturalKey: %v", err)
	}
	if got == nil || got.ID != first.ID || got.Name != "AI tutor" {
		t.Fatalf("GetByNaturalKey: unexpected %+v", got)
	}

	// Same local id under another keyword or owner is a different idea.
	for _, other := range []*types.Idea{
		{UserID: "user-a", LocalID: 1, Name: "x", Keyword: "health"},
		{UserID: "user-b", LocalID: 1, Name: "x", Keyword: "education"},
		{UserID: "user-a", LocalID: 1, Name: "x"},
	} {
		created, err := repo.InsertIfAbsent(ctx, nil, other)
		if err != nil {
			t.Fatalf("InsertIfAbsent (%s/%s): %v", other.UserID, other.Keyword, err)
		}
		if !created {
			t.Fatalf("InsertIfAbsent (%s/%s): expected insert", other.UserID, other.Keyword)
		}
	}

	// An empty keyword is part of the key too.
	created, err = repo.InsertIfAbsent(ctx, nil, &types.Idea{UserID: "user-a", LocalID: 1, Name: "y"})
	if err != nil {
		t.Fatalf("InsertIfAbsent (empty keyword dup): %v", err)
	}
	if created {
		t.Fatalf("InsertIfAbsent (empty keyword dup): expected no insert")
	}
}

func TestIdeaRepoOwnershipScoping(t *testing.T) {
	db := testutil.DB(t)
	repo := NewIdeaRepo(db, testutil.Logger(t))
	ctx := context.Background()

	owned := testutil.SeedIdea(t, ctx, db, "user-a", 1, "AI tutor", "education")

	got, err := repo.GetOwned(ctx, nil, "user-b", owned.ID, true)
	if err != nil {
		t.Fatalf("GetOwned: %v", err)
	}
	if got != nil {
		t.Fatalf("GetOwned: foreign owner must not see idea")
	}
	exists, err := repo.ExistsOwned(ctx, nil, "user-b", owned.ID)
	if err != nil || exists {
		t.Fatalf("ExistsOwned foreign: exists=%v err=%v", exists, err)
	}
	ok, err := repo.UpdateName(ctx, nil, "user-b", owned.ID, "stolen")
	if err != nil || ok {
		t.Fatalf("UpdateName foreign: ok=%v err=%v", ok, err)
	}
	ok, err = repo.DeleteOwned(ctx, nil, "user-b", owned.ID)
	if err != nil || ok {
		t.Fatalf("DeleteOwned foreign: ok=%v err=%v", ok, err)
	}

	ok, err = repo.UpdateName(ctx, nil, "user-a", owned.ID, "AI tutor pro")
	if err != nil || !ok {
		t.Fatalf("UpdateName: ok=%v err=%v", ok, err)
	}
	got, err = repo.GetOwned(ctx, nil, "user-a", owned.ID, false)
	if err != nil || got == nil || got.Name != "AI tutor pro" {
		t.Fatalf("GetOwned after rename: %+v err=%v", got, err)
	}
}

func TestIdeaRepoListByUser(t *testing.T) {
	db := testutil.DB(t)
	repo := NewIdeaRepo(db, testutil.Logger(t))
	ctx := context.Background()

	var ids []uuid.UUID
	for i := int64(1); i <= 5; i++ {
		idea := testutil.SeedIdea(t, ctx, db, "user-a", i, "idea", "kw")
		ids = append(ids, idea.ID)
	}
	testutil.SeedIdea(t, ctx, db, "user-b", 1, "other", "kw")
	testutil.SeedPlan(t, ctx, db, ids[4], "plan")
	testutil.SeedPRD(t, ctx, db, ids[4], "prd")

	count, err := repo.CountByUser(ctx, nil, "user-a")
	if err != nil || count != 5 {
		t.Fatalf("CountByUser: count=%d err=%v", count, err)
	}

	seen := map[uuid.UUID]bool{}
	for offset := 0; offset < 6; offset += 2 {
		page, err := repo.ListByUser(ctx, nil, "user-a", offset, 2)
		if err != nil {
			t.Fatalf("ListByUser: %v", err)
		}
		for _, idea := range page {
			if idea.UserID != "user-a" {
				t.Fatalf("ListByUser leaked idea of %s", idea.UserID)
			}
			if seen[idea.ID] {
				t.Fatalf("ListByUser returned %s twice", idea.ID)
			}
			seen[idea.ID] = true
		}
	}
	if len(seen) != 5 {
		t.Fatalf("ListByUser: saw %d ideas, want 5", len(seen))
	}

	first, err := repo.ListByUser(ctx, nil, "user-a", 0, 1)
	if err != nil || len(first) != 1 {
		t.Fatalf("ListByUser first: %v %v", first, err)
	}
	if first[0].ID != ids[4] {
		t.Fatalf("ListByUser: expected newest idea first")
	}
	if len(first[0].Plans) != 1 || len(first[0].PRDs) != 1 {
		t.Fatalf("ListByUser: expected artifacts preloaded, got %d plans %d prds", len(first[0].Plans), len(first[0].PRDs))
	}
}
