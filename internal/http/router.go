package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/daleyoon76/saas-idea-generator/internal/http/handlers"
	httpMW "github.com/daleyoon76/saas-idea-generator/internal/http/middleware"
	"github.com/daleyoon76/saas-idea-generator/internal/http/validation"
	"github.com/daleyoon76/saas-idea-generator/internal/observability"
	"github.com/daleyoon76/saas-idea-generator/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	AllowedOrigins []string
	Metrics        *observability.Metrics

	AuthMiddleware *httpMW.AuthMiddleware

	IdeaHandler     *httpH.IdeaHandler
	ArtifactHandler *httpH.ArtifactHandler
	GenerateHandler *httpH.GenerateHandler
	ResearchHandler *httpH.ResearchHandler
	ExportHandler   *httpH.ExportHandler
	HealthHandler   *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	validation.Register()

	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.CORS(cfg.AllowedOrigins))
	r.Use(httpMW.Metrics(cfg.Metrics, "/metrics", "/healthcheck"))
	r.Use(httpMW.RequestLogger(cfg.Log))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	protected := api.Group("/")
	{
		// Everything under /api needs a session.
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Ideas
		if cfg.IdeaHandler != nil {
			protected.GET("/ideas", cfg.IdeaHandler.ListIdeas)
			protected.POST("/ideas", cfg.IdeaHandler.SaveIdeas)
			protected.GET("/ideas/:id", cfg.IdeaHandler.GetIdea)
			protected.PATCH("/ideas/:id", cfg.IdeaHandler.RenameIdea)
			protected.DELETE("/ideas/:id", cfg.IdeaHandler.DeleteIdea)
		}

		// Plans / PRDs
		if cfg.ArtifactHandler != nil {
			protected.POST("/plans", cfg.ArtifactHandler.SavePlan)
			protected.DELETE("/plans/:id", cfg.ArtifactHandler.DeletePlan)
			protected.POST("/prds", cfg.ArtifactHandler.SavePRD)
			protected.DELETE("/prds/:id", cfg.ArtifactHandler.DeletePRD)
		}

		// Generation
		if cfg.GenerateHandler != nil {
			protected.POST("/generate/ideas", cfg.GenerateHandler.GenerateIdeas)
			protected.POST("/generate/plan", cfg.GenerateHandler.GeneratePlan)
			protected.POST("/generate/prd", cfg.GenerateHandler.GeneratePRD)
			protected.GET("/providers/ollama", cfg.GenerateHandler.OllamaStatus)
		}

		// Research
		if cfg.ResearchHandler != nil {
			protected.POST("/search", cfg.ResearchHandler.Search)
			protected.GET("/trends", cfg.ResearchHandler.Trends)
			protected.POST("/research", cfg.ResearchHandler.Research)
		}

		// Export
		if cfg.ExportHandler != nil {
			protected.POST("/export/docx", cfg.ExportHandler.ExportDOCX)
		}
	}

	return r
}
