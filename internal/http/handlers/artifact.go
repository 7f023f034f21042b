package handlers

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/daleyoon76/saas-idea-generator/internal/http/response"
	"github.com/daleyoon76/saas-idea-generator/internal/platform/logger"
	"github.com/daleyoon76/saas-idea-generator/internal/services"
)

type ArtifactHandler struct {
	log             *logger.Logger
	artifactService services.ArtifactService
}

func NewArtifactHandler(log *logger.Logger, artifactService services.ArtifactService) *ArtifactHandler {
	return &ArtifactHandler{
		log:             log.With("handler", "ArtifactHandler"),
		artifactService: artifactService,
	}
}

type artifactBody struct {
	Content  string `json:"content"`
	IdeaName string `json:"ideaName"`
}

type saveArtifactRequest struct {
	Plan     *artifactBody       `json:"plan"`
	PRD      *artifactBody       `json:"prd"`
	Idea     *services.LocalIdea `json:"idea"`
	Keyword  string              `json:"keyword"`
	Preset   string              `json:"preset"`
	DBIdeaID string              `json:"dbIdeaId"`
}

func (r *saveArtifactRequest) input(body *artifactBody) (services.SaveArtifactInput, error) {
	in := services.SaveArtifactInput{
		Idea:    r.Idea,
		Keyword: r.Keyword,
		Preset:  r.Preset,
	}
	if body != nil {
		in.Content = body.Content
		in.IdeaName = body.IdeaName
	}
	if raw := strings.TrimSpace(r.DBIdeaID); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return in, services.ErrIdeaNotFound
		}
		in.DBIdeaID = &id
	}
	return in, nil
}

// POST /plans
// body: { "plan": { "content": "...", "ideaName": "..." }, "idea"?, "keyword"?, "preset"?, "dbIdeaId"? }
func (h *ArtifactHandler) SavePlan(c *gin.Context) {
	h.save(c, services.ArtifactPlan)
}

// POST /prds
// body: same as /plans with the document under "prd".
func (h *ArtifactHandler) SavePRD(c *gin.Context) {
	h.save(c, services.ArtifactPRD)
}

func (h *ArtifactHandler) save(c *gin.Context, kind string) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	var req saveArtifactRequest
	if !bindJSON(c, &req) {
		return
	}
	body, save := req.Plan, h.artifactService.SavePlan
	if kind == services.ArtifactPRD {
		body, save = req.PRD, h.artifactService.SavePRD
	}
	in, err := req.input(body)
	if err != nil {
		respondServiceError(c, h.log, "Save", err)
		return
	}
	out, err := save(c.Request.Context(), ownerID, in)
	if err != nil {
		respondServiceError(c, h.log, "Save", err)
		return
	}
	response.RespondOK(c, gin.H{
		"success":     true,
		"id":          out.ID,
		"dbIdeaId":    out.DBIdeaID,
		"ideaCreated": out.IdeaCreated,
	})
}

// DELETE /plans/:id
func (h *ArtifactHandler) DeletePlan(c *gin.Context) {
	h.delete(c, "plan", h.artifactService.DeletePlan)
}

// DELETE /prds/:id
func (h *ArtifactHandler) DeletePRD(c *gin.Context) {
	h.delete(c, "prd", h.artifactService.DeletePRD)
}

func (h *ArtifactHandler) delete(c *gin.Context, what string, del func(ctx context.Context, ownerID string, id uuid.UUID) (bool, error)) {
	ownerID, ok := requireOwner(c)
	if !ok {
		return
	}
	id, ok := pathID(c, what)
	if !ok {
		return
	}
	deleted, err := del(c.Request.Context(), ownerID, id)
	if err != nil {
		respondServiceError(c, h.log, "Delete", err)
		return
	}
	if !deleted {
		respondNotFound(c, what)
		return
	}
	response.RespondSuccess(c)
}
