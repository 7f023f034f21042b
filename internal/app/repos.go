package app

import (
	"gorm.io/gorm"

	"github.com/daleyoon76/saas-idea-generator/internal/data/repos"
	"github.com/daleyoon76/saas-idea-generator/internal/platform/logger"
)

type Repos struct {
	Idea repos.IdeaRepo
	Plan repos.PlanRepo
	PRD  repos.PRDRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Idea: repos.NewIdeaRepo(db, log),
		Plan: repos.NewPlanRepo(db, log),
		PRD:  repos.NewPRDRepo(db, log),
	}
}
