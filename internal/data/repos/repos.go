package repos

import (
	"gorm.io/gorm"

	"github.com/daleyoon76/saas-idea-generator/internal/data/repos/idea"
	"github.com/daleyoon76/saas-idea-generator/internal/platform/logger"
)

type IdeaRepo = idea.IdeaRepo
type PlanRepo = idea.PlanRepo
type PRDRepo = idea.PRDRepo

func NewIdeaRepo(db *gorm.DB, log *logger.Logger) IdeaRepo { return idea.NewIdeaRepo(db, log) }
func NewPlanRepo(db *gorm.DB, log *logger.Logger) PlanRepo { return idea.NewPlanRepo(db, log) }
func NewPRDRepo(db *gorm.DB, log *logger.Logger) PRDRepo   { return idea.NewPRDRepo(db, log) }
