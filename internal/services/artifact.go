package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/daleyoon76/saas-idea-generator/internal/data/repos"
	types "github.com/daleyoon76/saas-idea-generator/internal/domain"
	"github.com/daleyoon76/saas-idea-generator/internal/observability"
	"github.com/daleyoon76/saas-idea-generator/internal/platform/logger"
)

const (
	ArtifactPlan = "plan"
	ArtifactPRD  = "prd"
)

type SaveArtifactInput struct {
	DBIdeaID *uuid.UUID
	Idea     *LocalIdea
	Keyword  string
	Preset   string
	Content  string
	IdeaName string
}

type ArtifactResult struct {
	ID          uuid.UUID
	DBIdeaID    uuid.UUID
	IdeaCreated bool
}

type ArtifactService interface {
	SavePlan(ctx context.Context, ownerID string, in SaveArtifactInput) (*ArtifactResult, error)
	SavePRD(ctx context.Context, ownerID string, in SaveArtifactInput) (*ArtifactResult, error)
	DeletePlan(ctx context.Context, ownerID string, planID uuid.UUID) (bool, error)
	DeletePRD(ctx context.Context, ownerID string, prdID uuid.UUID) (bool, error)
}

type artifactService struct {
	db       *gorm.DB
	log      *logger.Logger
	resolver IdeaResolver
	planRepo repos.PlanRepo
	prdRepo  repos.PRDRepo
}

func NewArtifactService(db *gorm.DB, baseLog *logger.Logger, resolver IdeaResolver, planRepo repos.PlanRepo, prdRepo repos.PRDRepo) ArtifactService {
	return &artifactService{
		db:       db,
		log:      baseLog.With("service", "ArtifactService"),
		resolver: resolver,
		planRepo: planRepo,
		prdRepo:  prdRepo,
	}
}

// validateArtifact runs before anything touches the database.
func validateArtifact(in *SaveArtifactInput) error {
	if strings.TrimSpace(in.Content) == "" {
		return ErrContentRequired
	}
	if utf8.RuneCountInString(in.Content) > types.MaxArtifactContentChars {
		return ErrContentTooLarge
	}
	in.IdeaName = strings.TrimSpace(in.IdeaName)
	if in.IdeaName == "" {
		return ErrIdeaNameRequired
	}
	hasID := in.DBIdeaID != nil && *in.DBIdeaID != uuid.Nil
	if !hasID && in.Idea == nil {
		return ErrIdeaRequired
	}
	if !hasID && strings.TrimSpace(in.Idea.Name) == "" {
		local := *in.Idea
		local.Name = in.IdeaName
		in.Idea = &local
	}
	return nil
}

func (as *artifactService) SavePlan(ctx context.Context, ownerID string, in SaveArtifactInput) (*ArtifactResult, error) {
	return as.save(ctx, ownerID, ArtifactPlan, in, func(tx *gorm.DB, id, ideaID uuid.UUID) error {
		return as.planRepo.Create(ctx, tx, &types.Plan{ID: id, IdeaID: ideaID, Content: in.Content, IdeaName: in.IdeaName})
	})
}

func (as *artifactService) SavePRD(ctx context.Context, ownerID string, in SaveArtifactInput) (*ArtifactResult, error) {
	return as.save(ctx, ownerID, ArtifactPRD, in, func(tx *gorm.DB, id, ideaID uuid.UUID) error {
		return as.prdRepo.Create(ctx, tx, &types.PRD{ID: id, IdeaID: ideaID, Content: in.Content, IdeaName: in.IdeaName})
	})
}

// save resolves the parent idea and writes the artifact in one transaction,
// so a failed insert never leaves a freshly created idea behind.
func (as *artifactService) save(ctx context.Context, ownerID, kind string, in SaveArtifactInput, insert func(tx *gorm.DB, id, ideaID uuid.UUID) error) (*ArtifactResult, error) {
	if ownerID == "" {
		return nil, ErrUnauthorized
	}
	if err := validateArtifact(&in); err != nil {
		return nil, err
	}

	result := &ArtifactResult{ID: uuid.New()}
	err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res, err := as.resolver.Resolve(ctx, tx, ownerID, ResolveInput{
			DBIdeaID: in.DBIdeaID,
			Local:    in.Idea,
			Keyword:  in.Keyword,
			Preset:   in.Preset,
		})
		if err != nil {
			return err
		}
		result.DBIdeaID = res.IdeaID
		result.IdeaCreated = res.Created
		if err := insert(tx, result.ID, res.IdeaID); err != nil {
			return fmt.Errorf("insert %s: %w", kind, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	m := observability.Current()
	m.IncArtifactSaved(kind)
	if result.IdeaCreated {
		m.IncIdeasCreated(1)
	}
	as.log.Info("Saved artifact", "kind", kind, "user_id", ownerID, "artifact_id", result.ID, "idea_id", result.DBIdeaID, "idea_created", result.IdeaCreated)
	return result, nil
}

func (as *artifactService) DeletePlan(ctx context.Context, ownerID string, planID uuid.UUID) (bool, error) {
	if ownerID == "" {
		return false, ErrUnauthorized
	}
	ok, err := as.planRepo.DeleteOwned(ctx, nil, ownerID, planID)
	if err != nil {
		return false, fmt.Errorf("delete plan: %w", err)
	}
	if ok {
		observability.Current().AddDeleted(ArtifactPlan, 1)
	}
	return ok, nil
}

func (as *artifactService) DeletePRD(ctx context.Context, ownerID string, prdID uuid.UUID) (bool, error) {
	if ownerID == "" {
		return false, ErrUnauthorized
	}
	ok, err := as.prdRepo.DeleteOwned(ctx, nil, ownerID, prdID)
	if err != nil {
		return false, fmt.Errorf("delete prd: %w", err)
	}
	if ok {
		observability.Current().AddDeleted(ArtifactPRD, 1)
	}
	return ok, nil
}
