package handlers

import (
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/daleyoon76/saas-idea-generator/internal/platform/logger"
	"github.com/daleyoon76/saas-idea-generator/internal/services"
)

type ExportHandler struct {
	log    *logger.Logger
	export services.ExportService
}

func NewExportHandler(log *logger.Logger, export services.ExportService) *ExportHandler {
	return &ExportHandler{
		log:    log.With("handler", "ExportHandler"),
		export: export,
	}
}

// POST /export/docx
// body: { "title": "...", "markdown": "..." }
func (h *ExportHandler) ExportDOCX(c *gin.Context) {
	if _, ok := requireOwner(c); !ok {
		return
	}
	var req struct {
		Title    string `json:"title"`
		Markdown string `json:"markdown"`
	}
	if !bindJSON(c, &req) {
		return
	}
	file, err := h.export.ExportDOCX(req.Title, req.Markdown)
	if err != nil {
		respondServiceError(c, h.log, "ExportDOCX", err)
		return
	}
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": file.Filename}))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
