package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/daleyoon76/saas-idea-generator/internal/platform/logger"
	"github.com/daleyoon76/saas-idea-generator/internal/prompts"
	"github.com/daleyoon76/saas-idea-generator/internal/services"
)

type Services struct {
	Auth       services.AuthService
	Resolver   services.IdeaResolver
	Idea       services.IdeaService
	Artifact   services.ArtifactService
	Research   services.ResearchService
	Generation services.GenerationService
	Export     services.ExportService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repos Repos, clients Clients) (Services, error) {
	log.Info("Wiring services...")

	auth, err := services.NewAuthService(log, cfg.authConfig())
	if err != nil {
		return Services{}, fmt.Errorf("init auth: %w", err)
	}
	catalog, err := prompts.LoadEmbedded()
	if err != nil {
		return Services{}, fmt.Errorf("load prompts: %w", err)
	}
	log.Info("Prompt catalog loaded", "prompts", catalog.Names())

	resolver := services.NewIdeaResolver(db, log, repos.Idea)
	research := services.NewResearchService(log, clients.Tavily, clients.Trends, clients.Cache)

	return Services{
		Auth:       auth,
		Resolver:   resolver,
		Idea:       services.NewIdeaService(db, log, resolver, repos.Idea, repos.Plan, repos.PRD),
		Artifact:   services.NewArtifactService(db, log, resolver, repos.Plan, repos.PRD),
		Research:   research,
		Generation: services.NewGenerationService(log, clients.Ollama, catalog, research),
		Export:     services.NewExportService(log),
	}, nil
}
