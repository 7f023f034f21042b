package idea

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/daleyoon76/saas-idea-generator/internal/data/repos/testutil"
	types "github.com/daleyoon76/saas-idea-generator/internal/domain"
)

func TestArtifactRepoOwnedDelete(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	plans := NewPlanRepo(db, log)
	prds := NewPRDRepo(db, log)
	ctx := context.Background()

	idea := testutil.SeedIdea(t, ctx, db, "user-a", 1, "AI tutor", "education")
	plan := &types.Plan{ID: uuid.New(), IdeaID: idea.ID, Content: "# plan", IdeaName: idea.Name}
	if err := plans.Create(ctx, nil, plan); err != nil {
		t.Fatalf("Create plan: %v", err)
	}
	prd := &types.PRD{ID: uuid.New(), IdeaID: idea.ID, Content: "# prd", IdeaName: idea.Name}
	if err := prds.Create(ctx, nil, prd); err != nil {
		t.Fatalf("Create prd: %v", err)
	}

	ok, err := plans.DeleteOwned(ctx, nil, "user-b", plan.ID)
	if err != nil || ok {
		t.Fatalf("DeleteOwned foreign: ok=%v err=%v", ok, err)
	}

	ok, err = plans.DeleteOwned(ctx, nil, "user-a", plan.ID)
	if err != nil || !ok {
		t.Fatalf("DeleteOwned: ok=%v err=%v", ok, err)
	}
	if got := testutil.Lookup[types.Plan](t, ctx, db, plan.ID); got != nil {
		t.Fatalf("plan still present after delete: %+v", got)
	}

	// Sibling PRD is untouched.
	if got := testutil.Lookup[types.PRD](t, ctx, db, prd.ID); got == nil {
		t.Fatalf("prd removed with its sibling plan")
	}
}

func TestArtifactRepoForeignKey(t *testing.T) {
	db := testutil.DB(t)
	plans := NewPlanRepo(db, testutil.Logger(t))

	err := plans.Create(context.Background(), nil, &types.Plan{
		ID:       uuid.New(),
		IdeaID:   uuid.New(),
		Content:  "orphan",
		IdeaName: "ghost",
	})
	if err == nil {
		t.Fatalf("expected foreign key violation for unknown idea")
	}
}

func TestArtifactRepoDeleteByIdeaIDs(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	plans := NewPlanRepo(db, log)
	prds := NewPRDRepo(db, log)
	ctx := context.Background()

	a := testutil.SeedIdea(t, ctx, db, "user-a", 1, "a", "kw")
	b := testutil.SeedIdea(t, ctx, db, "user-a", 2, "b", "kw")
	testutil.SeedPlan(t, ctx, db, a.ID, "1")
	testutil.SeedPlan(t, ctx, db, a.ID, "2")
	testutil.SeedPlan(t, ctx, db, b.ID, "3")
	testutil.SeedPRD(t, ctx, db, a.ID, "4")

	n, err := plans.DeleteByIdeaIDs(ctx, nil, []uuid.UUID{a.ID})
	if err != nil || n != 2 {
		t.Fatalf("DeleteByIdeaIDs plans: n=%d err=%v", n, err)
	}
	n, err = prds.DeleteByIdeaIDs(ctx, nil, []uuid.UUID{a.ID})
	if err != nil || n != 1 {
		t.Fatalf("DeleteByIdeaIDs prds: n=%d err=%v", n, err)
	}
	var left int64
	if err := db.Model(&types.Plan{}).Count(&left).Error; err != nil || left != 1 {
		t.Fatalf("plans left: n=%d err=%v", left, err)
	}
	if n, err := plans.DeleteByIdeaIDs(ctx, nil, nil); err != nil || n != 0 {
		t.Fatalf("DeleteByIdeaIDs empty: n=%d err=%v", n, err)
	}
}
