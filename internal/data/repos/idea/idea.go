package idea

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/daleyoon76/saas-idea-generator/internal/domain"
	"github.com/daleyoon76/saas-idea-generator/internal/platform/logger"
)

// IdeaRepo is always scoped by owner; lookups return (nil, nil) for rows that
// are absent or belong to someone else.
type IdeaRepo interface {
	InsertIfAbsent(ctx context.Context, tx *gorm.DB, idea *types.Idea) (bool, error)
	GetByNaturalKey(ctx context.Context, tx *gorm.DB, userID string, localID int64, keyword string) (*types.Idea, error)
	GetOwned(ctx context.Context, tx *gorm.DB, userID string, ideaID uuid.UUID, withArtifacts bool) (*types.Idea, error)
	ExistsOwned(ctx context.Context, tx *gorm.DB, userID string, ideaID uuid.UUID) (bool, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID string, offset, limit int) ([]*types.Idea, error)
	CountByUser(ctx context.Context, tx *gorm.DB, userID string) (int64, error)
	UpdateName(ctx context.Context, tx *gorm.DB, userID string, ideaID uuid.UUID, name string) (bool, error)
	DeleteOwned(ctx context.Context, tx *gorm.DB, userID string, ideaID uuid.UUID) (bool, error)
}

type ideaRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewIdeaRepo(db *gorm.DB, baseLog *logger.Logger) IdeaRepo {
	repoLog := baseLog.With("repo", "IdeaRepo")
	return &ideaRepo{db: db, log: repoLog}
}

// InsertIfAbsent inserts idea unless a row with the same (user_id, local_id,
// keyword) exists. It reports whether a row was written.
func (ir *ideaRepo) InsertIfAbsent(ctx context.Context, tx *gorm.DB, idea *types.Idea) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	if idea == nil {
		return false, errors.New("nil idea")
	}
	if idea.ID == uuid.Nil {
		idea.ID = uuid.New()
	}
	res := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "local_id"}, {Name: "keyword"}},
			DoNothing: true,
		}).
		Omit(clause.Associations).
		Create(idea)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (ir *ideaRepo) GetByNaturalKey(ctx context.Context, tx *gorm.DB, userID string, localID int64, keyword string) (*types.Idea, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	var results []*types.Idea
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND local_id = ? AND keyword = ?", userID, localID, keyword).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (ir *ideaRepo) GetOwned(ctx context.Context, tx *gorm.DB, userID string, ideaID uuid.UUID, withArtifacts bool) (*types.Idea, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	q := transaction.WithContext(ctx)
	if withArtifacts {
		q = preloadArtifacts(q)
	}
	var results []*types.Idea
	if err := q.
		Where("id = ? AND user_id = ?", ideaID, userID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (ir *ideaRepo) ExistsOwned(ctx context.Context, tx *gorm.DB, userID string, ideaID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Idea{}).
		Where("id = ? AND user_id = ?", ideaID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListByUser returns one page of the owner's ideas, newest first, with their
// plans and PRDs loaded.
func (ir *ideaRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID string, offset, limit int) ([]*types.Idea, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	var results []*types.Idea
	if err := preloadArtifacts(transaction.WithContext(ctx)).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ir *ideaRepo) CountByUser(ctx context.Context, tx *gorm.DB, userID string) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Idea{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (ir *ideaRepo) UpdateName(ctx context.Context, tx *gorm.DB, userID string, ideaID uuid.UUID, name string) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	res := transaction.WithContext(ctx).
		Model(&types.Idea{}).
		Where("id = ? AND user_id = ?", ideaID, userID).
		Update("name", name)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// DeleteOwned removes the idea row only. Callers delete dependent plans and
// PRDs in the same transaction first.
func (ir *ideaRepo) DeleteOwned(ctx context.Context, tx *gorm.DB, userID string, ideaID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	res := transaction.WithContext(ctx).
		Where("id = ? AND user_id = ?", ideaID, userID).
		Delete(&types.Idea{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func preloadArtifacts(q *gorm.DB) *gorm.DB {
	newestFirst := func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at DESC").Order("id DESC")
	}
	return q.Preload("Plans", newestFirst).Preload("PRDs", newestFirst)
}
