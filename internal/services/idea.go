package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/daleyoon76/saas-idea-generator/internal/data/repos"
	types "github.com/daleyoon76/saas-idea-generator/internal/domain"
	"github.com/daleyoon76/saas-idea-generator/internal/observability"
	"github.com/daleyoon76/saas-idea-generator/internal/platform/logger"
)

const (
	MaxIdeasPerBatch = 100
	DefaultPage      = 1
	DefaultPageSize  = 10
	MaxPageSize      = 50
)

// ClampPage applies the paging bounds: page >= 1, pageSize in [1, MaxPageSize].
func ClampPage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

type IdeaSummary struct {
	*types.Idea
	PlanCount int `json:"planCount"`
	PRDCount  int `json:"prdCount"`
}

func summarize(idea *types.Idea) *IdeaSummary {
	if idea.Plans == nil {
		idea.Plans = []*types.Plan{}
	}
	if idea.PRDs == nil {
		idea.PRDs = []*types.PRD{}
	}
	return &IdeaSummary{Idea: idea, PlanCount: len(idea.Plans), PRDCount: len(idea.PRDs)}
}

type IdeaPage struct {
	Ideas      []*IdeaSummary `json:"ideas"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	TotalPages int            `json:"totalPages"`
}

type SaveIdeasInput struct {
	Ideas   []LocalIdea
	Keyword string
	Preset  string
}

type SavedIdea struct {
	LocalID  int64     `json:"localId"`
	DBIdeaID uuid.UUID `json:"dbIdeaId"`
	Created  bool      `json:"created"`
}

type SaveIdeasResult struct {
	Saved   int          `json:"saved"`
	Created int          `json:"created"`
	Ideas   []*SavedIdea `json:"ideas"`
}

type IdeaService interface {
	SaveIdeas(ctx context.Context, ownerID string, in SaveIdeasInput) (*SaveIdeasResult, error)
	ListIdeas(ctx context.Context, ownerID string, page, pageSize int) (*IdeaPage, error)
	GetIdea(ctx context.Context, ownerID string, ideaID uuid.UUID) (*IdeaSummary, error)
	RenameIdea(ctx context.Context, ownerID string, ideaID uuid.UUID, name string) (*IdeaSummary, error)
	DeleteIdea(ctx context.Context, ownerID string, ideaID uuid.UUID) (bool, error)
}

type ideaService struct {
	db       *gorm.DB
	log      *logger.Logger
	resolver IdeaResolver
	ideaRepo repos.IdeaRepo
	planRepo repos.PlanRepo
	prdRepo  repos.PRDRepo
}

func NewIdeaService(db *gorm.DB, baseLog *logger.Logger, resolver IdeaResolver, ideaRepo repos.IdeaRepo, planRepo repos.PlanRepo, prdRepo repos.PRDRepo) IdeaService {
	return &ideaService{
		db:       db,
		log:      baseLog.With("service", "IdeaService"),
		resolver: resolver,
		ideaRepo: ideaRepo,
		planRepo: planRepo,
		prdRepo:  prdRepo,
	}
}

// SaveIdeas persists a generated batch. Every idea goes through
// resolve-or-create, so re-saving a batch reuses the ideas already stored.
func (is *ideaService) SaveIdeas(ctx context.Context, ownerID string, in SaveIdeasInput) (*SaveIdeasResult, error) {
	if ownerID == "" {
		return nil, ErrUnauthorized
	}
	if len(in.Ideas) == 0 {
		return nil, ErrIdeasRequired
	}
	if len(in.Ideas) > MaxIdeasPerBatch {
		return nil, ErrTooManyIdeas
	}
	for _, li := range in.Ideas {
		if strings.TrimSpace(li.Name) == "" {
			return nil, ErrIdeaNameRequired
		}
	}

	out := &SaveIdeasResult{Ideas: make([]*SavedIdea, 0, len(in.Ideas))}
	err := is.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range in.Ideas {
			local := in.Ideas[i]
			res, err := is.resolver.Resolve(ctx, tx, ownerID, ResolveInput{
				Local:   &local,
				Keyword: in.Keyword,
				Preset:  in.Preset,
			})
			if err != nil {
				return err
			}
			if res.Created {
				out.Created++
			}
			out.Ideas = append(out.Ideas, &SavedIdea{LocalID: local.ID, DBIdeaID: res.IdeaID, Created: res.Created})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	out.Saved = len(out.Ideas)
	observability.Current().IncIdeasCreated(out.Created)
	is.log.Info("Saved ideas", "user_id", ownerID, "saved", out.Saved, "created", out.Created)
	return out, nil
}

func (is *ideaService) ListIdeas(ctx context.Context, ownerID string, page, pageSize int) (*IdeaPage, error) {
	if ownerID == "" {
		return nil, ErrUnauthorized
	}
	page, pageSize = ClampPage(page, pageSize)

	total, err := is.ideaRepo.CountByUser(ctx, nil, ownerID)
	if err != nil {
		return nil, fmt.Errorf("count ideas: %w", err)
	}
	rows, err := is.ideaRepo.ListByUser(ctx, nil, ownerID, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, fmt.Errorf("list ideas: %w", err)
	}

	out := &IdeaPage{
		Ideas:      make([]*IdeaSummary, 0, len(rows)),
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: int((total + int64(pageSize) - 1) / int64(pageSize)),
	}
	for _, row := range rows {
		out.Ideas = append(out.Ideas, summarize(row))
	}
	return out, nil
}

// GetIdea returns (nil, nil) when the idea is absent or owned by someone else.
func (is *ideaService) GetIdea(ctx context.Context, ownerID string, ideaID uuid.UUID) (*IdeaSummary, error) {
	if ownerID == "" {
		return nil, ErrUnauthorized
	}
	idea, err := is.ideaRepo.GetOwned(ctx, nil, ownerID, ideaID, true)
	if err != nil {
		return nil, fmt.Errorf("get idea: %w", err)
	}
	if idea == nil {
		return nil, nil
	}
	return summarize(idea), nil
}

func (is *ideaService) RenameIdea(ctx context.Context, ownerID string, ideaID uuid.UUID, name string) (*IdeaSummary, error) {
	if ownerID == "" {
		return nil, ErrUnauthorized
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	var updated *types.Idea
	err := is.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := is.ideaRepo.UpdateName(ctx, tx, ownerID, ideaID, name)
		if err != nil || !ok {
			return err
		}
		updated, err = is.ideaRepo.GetOwned(ctx, tx, ownerID, ideaID, true)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("rename idea: %w", err)
	}
	if updated == nil {
		return nil, nil
	}
	return summarize(updated), nil
}

// DeleteIdea removes the idea with its plans and PRDs in one transaction. The
// foreign keys cascade as well; the explicit deletes keep stores without
// cascading constraints consistent.
func (is *ideaService) DeleteIdea(ctx context.Context, ownerID string, ideaID uuid.UUID) (bool, error) {
	if ownerID == "" {
		return false, ErrUnauthorized
	}
	var plans, prds int64
	deleted := false
	err := is.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		owned, err := is.ideaRepo.ExistsOwned(ctx, tx, ownerID, ideaID)
		if err != nil || !owned {
			return err
		}
		ids := []uuid.UUID{ideaID}
		if plans, err = is.planRepo.DeleteByIdeaIDs(ctx, tx, ids); err != nil {
			return fmt.Errorf("delete plans: %w", err)
		}
		if prds, err = is.prdRepo.DeleteByIdeaIDs(ctx, tx, ids); err != nil {
			return fmt.Errorf("delete prds: %w", err)
		}
		if deleted, err = is.ideaRepo.DeleteOwned(ctx, tx, ownerID, ideaID); err != nil {
			return fmt.Errorf("delete idea: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	if deleted {
		m := observability.Current()
		m.AddDeleted("idea", 1)
		m.AddDeleted(ArtifactPlan, plans)
		m.AddDeleted(ArtifactPRD, prds)
		is.log.Info("Deleted idea", "user_id", ownerID, "idea_id", ideaID, "plans", plans, "prds", prds)
	}
	return deleted, nil
}
