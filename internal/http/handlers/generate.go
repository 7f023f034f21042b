package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/daleyoon76/saas-idea-generator/internal/http/response"
	"github.com/daleyoon76/saas-idea-generator/internal/platform/logger"
	"github.com/daleyoon76/saas-idea-generator/internal/services"
)

type GenerateHandler struct {
	log        *logger.Logger
	generation services.GenerationService
}

func NewGenerateHandler(log *logger.Logger, generation services.GenerationService) *GenerateHandler {
	return &GenerateHandler{
		log:        log.With("handler", "GenerateHandler"),
		generation: generation,
	}
}

type generateIdeasRequest struct {
	Keyword     string `json:"keyword" binding:"notblank"`
	Preset      string `json:"preset"`
	Count       int    `json:"count" binding:"omitempty,min=1,max=10"`
	UseResearch bool   `json:"useResearch"`
}

// POST /generate/ideas
// body: { "keyword": "...", "preset"?: "...", "count"?: 5, "useResearch"?: true }
func (h *GenerateHandler) GenerateIdeas(c *gin.Context) {
	if _, ok := requireOwner(c); !ok {
		return
	}
	var req generateIdeasRequest
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.generation.GenerateIdeas(c.Request.Context(), services.GenerateIdeasInput{
		Keyword:     req.Keyword,
		Preset:      req.Preset,
		Count:       req.Count,
		UseResearch: req.UseResearch,
	})
	if err != nil {
		respondServiceError(c, h.log, "GenerateIdeas", err)
		return
	}
	response.RespondOK(c, out)
}

type generateDocRequest struct {
	Idea        *services.LocalIdea `json:"idea" binding:"required"`
	Keyword     string              `json:"keyword"`
	Preset      string              `json:"preset"`
	Plan        string              `json:"plan"`
	UseResearch bool                `json:"useResearch"`
}

func (r generateDocRequest) input() services.GenerateDocInput {
	return services.GenerateDocInput{
		Idea:        *r.Idea,
		Keyword:     r.Keyword,
		Preset:      r.Preset,
		Plan:        r.Plan,
		UseResearch: r.UseResearch,
	}
}

// POST /generate/plan
// body: { "idea": { "id": 1, "name": "...", "description"?: "..." }, "keyword"?, "preset"?, "useResearch"? }
func (h *GenerateHandler) GeneratePlan(c *gin.Context) {
	if _, ok := requireOwner(c); !ok {
		return
	}
	var req generateDocRequest
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.generation.GeneratePlan(c.Request.Context(), req.input())
	if err != nil {
		respondServiceError(c, h.log, "GeneratePlan", err)
		return
	}
	response.RespondOK(c, out)
}

// POST /generate/prd
// body: as /generate/plan, plus "plan" with the business plan to build on.
func (h *GenerateHandler) GeneratePRD(c *gin.Context) {
	if _, ok := requireOwner(c); !ok {
		return
	}
	var req generateDocRequest
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.generation.GeneratePRD(c.Request.Context(), req.input())
	if err != nil {
		respondServiceError(c, h.log, "GeneratePRD", err)
		return
	}
	response.RespondOK(c, out)
}

// GET /providers/ollama
func (h *GenerateHandler) OllamaStatus(c *gin.Context) {
	if _, ok := requireOwner(c); !ok {
		return
	}
	response.RespondOK(c, h.generation.OllamaStatus(c.Request.Context()))
}
