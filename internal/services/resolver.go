package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/daleyoon76/saas-idea-generator/internal/data/repos"
	types "github.com/daleyoon76/saas-idea-generator/internal/domain"
	"github.com/daleyoon76/saas-idea-generator/internal/platform/logger"
)

// LocalIdea is an idea as the client knows it before it is persisted: ID is
// only unique within the batch that produced it.
type LocalIdea struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type ResolveInput struct {
	DBIdeaID *uuid.UUID
	Local    *LocalIdea
	Keyword  string
	Preset   string
}

type Resolution struct {
	IdeaID  uuid.UUID
	Created bool
}

// IdeaResolver maps a client reference to a durable idea id, creating the idea
// when only a local reference is known.
type IdeaResolver interface {
	Resolve(ctx context.Context, tx *gorm.DB, ownerID string, in ResolveInput) (*Resolution, error)
}

type ideaResolver struct {
	db       *gorm.DB
	log      *logger.Logger
	ideaRepo repos.IdeaRepo
}

func NewIdeaResolver(db *gorm.DB, baseLog *logger.Logger, ideaRepo repos.IdeaRepo) IdeaResolver {
	return &ideaResolver{
		db:       db,
		log:      baseLog.With("service", "IdeaResolver"),
		ideaRepo: ideaRepo,
	}
}

func (r *ideaResolver) Resolve(ctx context.Context, tx *gorm.DB, ownerID string, in ResolveInput) (*Resolution, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if ownerID == "" {
		return nil, ErrUnauthorized
	}

	if in.DBIdeaID != nil && *in.DBIdeaID != uuid.Nil {
		ok, err := r.ideaRepo.ExistsOwned(ctx, transaction, ownerID, *in.DBIdeaID)
		if err != nil {
			return nil, fmt.Errorf("check idea: %w", err)
		}
		if !ok {
			return nil, ErrIdeaNotFound
		}
		return &Resolution{IdeaID: *in.DBIdeaID}, nil
	}

	if in.Local == nil {
		return nil, ErrIdeaRequired
	}
	name := strings.TrimSpace(in.Local.Name)
	if name == "" {
		return nil, ErrIdeaNameRequired
	}
	keyword := strings.TrimSpace(in.Keyword)

	candidate := &types.Idea{
		ID:      uuid.New(),
		UserID:  ownerID,
		LocalID: in.Local.ID,
		Name:    name,
		Keyword: keyword,
		Preset:  strings.TrimSpace(in.Preset),
	}
	created, err := r.ideaRepo.InsertIfAbsent(ctx, transaction, candidate)
	if err != nil {
		return nil, fmt.Errorf("insert idea: %w", err)
	}
	if created {
		r.log.Debug("Created idea from local reference", "user_id", ownerID, "local_id", in.Local.ID, "idea_id", candidate.ID)
		return &Resolution{IdeaID: candidate.ID, Created: true}, nil
	}

	existing, err := r.ideaRepo.GetByNaturalKey(ctx, transaction, ownerID, in.Local.ID, keyword)
	if err != nil {
		return nil, fmt.Errorf("load idea: %w", err)
	}
	if existing == nil {
		return nil, fmt.Errorf("idea (local_id=%d) vanished after conflicting insert", in.Local.ID)
	}
	return &Resolution{IdeaID: existing.ID}, nil
}
