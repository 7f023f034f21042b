package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/daleyoon76/saas-idea-generator/internal/http/response"
	"github.com/daleyoon76/saas-idea-generator/internal/platform/logger"
	"github.com/daleyoon76/saas-idea-generator/internal/services"
)

type ResearchHandler struct {
	log      *logger.Logger
	research services.ResearchService
}

func NewResearchHandler(log *logger.Logger, research services.ResearchService) *ResearchHandler {
	return &ResearchHandler{
		log:      log.With("handler", "ResearchHandler"),
		research: research,
	}
}

// POST /search
// body: { "query": "...", "maxResults"?: 5, "searchDepth"?: "basic" | "advanced" }
func (h *ResearchHandler) Search(c *gin.Context) {
	if _, ok := requireOwner(c); !ok {
		return
	}
	var req struct {
		Query       string `json:"query" binding:"notblank"`
		MaxResults  int    `json:"maxResults" binding:"omitempty,min=1,max=10"`
		SearchDepth string `json:"searchDepth" binding:"omitempty,oneof=basic advanced"`
	}
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.research.Search(c.Request.Context(), services.SearchInput{
		Query:      req.Query,
		MaxResults: req.MaxResults,
		Depth:      req.SearchDepth,
	})
	if err != nil {
		respondServiceError(c, h.log, "Search", err)
		return
	}
	response.RespondOK(c, out)
}

// GET /trends?keyword=&geo=&timeframe=
func (h *ResearchHandler) Trends(c *gin.Context) {
	if _, ok := requireOwner(c); !ok {
		return
	}
	out, err := h.research.Trends(c.Request.Context(), services.TrendsInput{
		Keyword:   c.Query("keyword"),
		Geo:       c.Query("geo"),
		Timeframe: c.Query("timeframe"),
	})
	if err != nil {
		respondServiceError(c, h.log, "Trends", err)
		return
	}
	response.RespondOK(c, out)
}

// POST /research
// body: { "keyword": "..." }
func (h *ResearchHandler) Research(c *gin.Context) {
	if _, ok := requireOwner(c); !ok {
		return
	}
	var req struct {
		Keyword string `json:"keyword" binding:"notblank"`
	}
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.research.Research(c.Request.Context(), req.Keyword)
	if err != nil {
		respondServiceError(c, h.log, "Research", err)
		return
	}
	response.RespondOK(c, out)
}
