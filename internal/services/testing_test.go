package services

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/daleyoon76/saas-idea-generator/internal/data/repos"
	"github.com/daleyoon76/saas-idea-generator/internal/data/repos/testutil"
	types "github.com/daleyoon76/saas-idea-generator/internal/domain"
)

type fixture struct {
	db        *gorm.DB
	ideaRepo  repos.IdeaRepo
	planRepo  repos.PlanRepo
	prdRepo   repos.PRDRepo
	resolver  IdeaResolver
	ideas     IdeaService
	artifacts ArtifactService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	f := &fixture{
		db:       db,
		ideaRepo: repos.NewIdeaRepo(db, log),
		planRepo: repos.NewPlanRepo(db, log),
		prdRepo:  repos.NewPRDRepo(db, log),
	}
	f.resolver = NewIdeaResolver(db, log, f.ideaRepo)
	f.ideas = NewIdeaService(db, log, f.resolver, f.ideaRepo, f.planRepo, f.prdRepo)
	f.artifacts = NewArtifactService(db, log, f.resolver, f.planRepo, f.prdRepo)
	return f
}

func (f *fixture) count(t *testing.T, model any) int64 {
	t.Helper()
	var n int64
	if err := f.db.WithContext(context.Background()).Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func (f *fixture) rowCounts(t *testing.T) (ideas, plans, prds int64) {
	t.Helper()
	return f.count(t, &types.Idea{}), f.count(t, &types.Plan{}), f.count(t, &types.PRD{})
}
