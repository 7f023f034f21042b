package app

import (
	"gorm.io/gorm"

	httpapi "github.com/daleyoon76/saas-idea-generator/internal/http"
	httpH "github.com/daleyoon76/saas-idea-generator/internal/http/handlers"
	httpMW "github.com/daleyoon76/saas-idea-generator/internal/http/middleware"
	"github.com/daleyoon76/saas-idea-generator/internal/observability"
	"github.com/daleyoon76/saas-idea-generator/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health   *httpH.HealthHandler
	Idea     *httpH.IdeaHandler
	Artifact *httpH.ArtifactHandler
	Generate *httpH.GenerateHandler
	Research *httpH.ResearchHandler
	Export   *httpH.ExportHandler
}

func wireHandlers(db *gorm.DB, log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:   httpH.NewHealthHandler(db),
		Idea:     httpH.NewIdeaHandler(log, services.Idea),
		Artifact: httpH.NewArtifactHandler(log, services.Artifact),
		Generate: httpH.NewGenerateHandler(log, services.Generation),
		Research: httpH.NewResearchHandler(log, services.Research),
		Export:   httpH.NewExportHandler(log, services.Export),
	}
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

func routerConfig(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware, metrics *observability.Metrics) httpapi.RouterConfig {
	rc := httpapi.RouterConfig{
		Log:             log,
		AllowedOrigins:  cfg.CORS,
		Metrics:         metrics,
		AuthMiddleware:  middleware.Auth,
		IdeaHandler:     handlers.Idea,
		ArtifactHandler: handlers.Artifact,
		GenerateHandler: handlers.Generate,
		ResearchHandler: handlers.Research,
		ExportHandler:   handlers.Export,
		HealthHandler:   handlers.Health,
	}
	if cfg.Otel.Enabled {
		rc.ServiceName = cfg.Otel.ServiceName
	}
	return rc
}
