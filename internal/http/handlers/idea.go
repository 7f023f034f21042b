package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/daleyoon76/saas-idea-generator/internal/http/response"
	"github.com/daleyoon76/saas-idea-generator/internal/platform/logger"
	"github.com/daleyoon76/saas-idea-generator/internal/services"
)

type IdeaHandler struct {
	log         *logger.Logger
	ideaService services.IdeaService
}

func NewIdeaHandler(log *logger.Logger, ideaService services.IdeaService) *IdeaHandler {
	return &IdeaHandler{
		log:         log.With("handler", "IdeaHandler"),
		ideaService: ideaService,
	}
}

// GET /ideas?page=&pageSize=
func (h *IdeaHandler) ListIdeas(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	page := queryInt(c, "page", services.DefaultPage)
	pageSize := queryInt(c, "pageSize", services.DefaultPageSize)

	out, err := h.ideaService.ListIdeas(c.Request.Context(), ownerID, page, pageSize)
	if err != nil {
		respondServiceError(c, h.log, "ListIdeas", err)
		return
	}
	response.RespondOK(c, gin.H{
		"success":    true,
		"ideas":      out.Ideas,
		"total":      out.Total,
		"page":       out.Page,
		"pageSize":   out.PageSize,
		"totalPages": out.TotalPages,
	})
}

type saveIdeaItem struct {
	ID          *int64 `json:"id" binding:"required"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type saveIdeasRequest struct {
	Ideas   []saveIdeaItem `json:"ideas" binding:"required,dive"`
	Keyword string         `json:"keyword"`
	Preset  string         `json:"preset"`
}

// POST /ideas
// body: { "ideas": [{ "id": 1, "name": "..." }], "keyword": "...", "preset": "..." }
func (h *IdeaHandler) SaveIdeas(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	var req saveIdeasRequest
	if !bindJSON(c, &req) {
		return
	}
	in := services.SaveIdeasInput{Keyword: req.Keyword, Preset: req.Preset}
	for _, it := range req.Ideas {
		in.Ideas = append(in.Ideas, services.LocalIdea{ID: *it.ID, Name: it.Name, Description: it.Description})
	}

	out, err := h.ideaService.SaveIdeas(c.Request.Context(), ownerID, in)
	if err != nil {
		respondServiceError(c, h.log, "SaveIdeas", err)
		return
	}
	response.RespondOK(c, gin.H{
		"success": true,
		"saved":   out.Saved,
		"created": out.Created,
		"ideas":   out.Ideas,
	})
}

// GET /ideas/:id
func (h *IdeaHandler) GetIdea(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "idea")
	if !ok {
		return
	}
	idea, err := h.ideaService.GetIdea(c.Request.Context(), ownerID, id)
	if err != nil {
		respondServiceError(c, h.log, "GetIdea", err)
		return
	}
	if idea == nil {
		respondNotFound(c, "idea")
		return
	}
	response.RespondOK(c, gin.H{"success": true, "idea": idea})
}

// PATCH /ideas/:id
// body: { "name": "..." }
func (h *IdeaHandler) RenameIdea(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "idea")
	if !ok {
		return
	}
	var req struct {
		Name string `json:"name" binding:"notblank"`
	}
	if !bindJSON(c, &req) {
		return
	}
	idea, err := h.ideaService.RenameIdea(c.Request.Context(), ownerID, id, req.Name)
	if err != nil {
		respondServiceError(c, h.log, "RenameIdea", err)
		return
	}
	if idea == nil {
		respondNotFound(c, "idea")
		return
	}
	response.RespondOK(c, gin.H{"success": true, "idea": idea})
}

// DELETE /ideas/:id
func (h *IdeaHandler) DeleteIdea(c *gin.Context) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "idea")
	if !ok {
		return
	}
	deleted, err := h.ideaService.DeleteIdea(c.Request.Context(), ownerID, id)
	if err != nil {
		respondServiceError(c, h.log, "DeleteIdea", err)
		return
	}
	if !deleted {
		respondNotFound(c, "idea")
		return
	}
	response.RespondSuccess(c)
}

// queryInt reads an integer query param; absent or malformed values fall back
// to def and range clamping is left to the service.
func queryInt(c *gin.Context, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
