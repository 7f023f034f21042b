package idea

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/daleyoon76/saas-idea-generator/internal/domain"
	"github.com/daleyoon76/saas-idea-generator/internal/platform/logger"
)

// Plans and PRDs never store their owner; every owner-scoped statement goes
// through the parent idea.

type PlanRepo interface {
	Create(ctx context.Context, tx *gorm.DB, plan *types.Plan) error
	DeleteOwned(ctx context.Context, tx *gorm.DB, userID string, planID uuid.UUID) (bool, error)
	DeleteByIdeaIDs(ctx context.Context, tx *gorm.DB, ideaIDs []uuid.UUID) (int64, error)
}

type PRDRepo interface {
	Create(ctx context.Context, tx *gorm.DB, prd *types.PRD) error
	DeleteOwned(ctx context.Context, tx *gorm.DB, userID string, prdID uuid.UUID) (bool, error)
	DeleteByIdeaIDs(ctx context.Context, tx *gorm.DB, ideaIDs []uuid.UUID) (int64, error)
}

type artifact interface {
	types.Plan | types.PRD
}

type artifactRepo[T artifact] struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPlanRepo(db *gorm.DB, baseLog *logger.Logger) PlanRepo {
	return &artifactRepo[types.Plan]{db: db, log: baseLog.With("repo", "PlanRepo")}
}

func NewPRDRepo(db *gorm.DB, baseLog *logger.Logger) PRDRepo {
	return &artifactRepo[types.PRD]{db: db, log: baseLog.With("repo", "PRDRepo")}
}

func (ar *artifactRepo[T]) Create(ctx context.Context, tx *gorm.DB, a *T) error {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	return transaction.WithContext(ctx).Create(a).Error
}

func (ar *artifactRepo[T]) DeleteOwned(ctx context.Context, tx *gorm.DB, userID string, id uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	res := transaction.WithContext(ctx).
		Where("id = ? AND idea_id IN (?)", id, ownedIdeaIDs(transaction, userID)).
		Delete(new(T))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (ar *artifactRepo[T]) DeleteByIdeaIDs(ctx context.Context, tx *gorm.DB, ideaIDs []uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	if len(ideaIDs) == 0 {
		return 0, nil
	}
	res := transaction.WithContext(ctx).
		Where("idea_id IN ?", ideaIDs).
		Delete(new(T))
	return res.RowsAffected, res.Error
}

func ownedIdeaIDs(db *gorm.DB, userID string) *gorm.DB {
	return db.Session(&gorm.Session{NewDB: true}).
		Model(&types.Idea{}).
		Select("id").
		Where("user_id = ?", userID)
}
