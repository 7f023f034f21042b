package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/daleyoon76/saas-idea-generator/internal/http/response"
	"github.com/daleyoon76/saas-idea-generator/internal/http/validation"
	"github.com/daleyoon76/saas-idea-generator/internal/platform/apierr"
	"github.com/daleyoon76/saas-idea-generator/internal/platform/ctxutil"
	"github.com/daleyoon76/saas-idea-generator/internal/platform/logger"
	"github.com/daleyoon76/saas-idea-generator/internal/services"
)

// requireOwner returns the caller's user id, or answers 401 and returns false.
func requireOwner(c *gin.Context) (string, bool) {
	ownerID := ctxutil.UserID(c.Request.Context())
	if ownerID == "" {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", services.ErrUnauthorized)
		return "", false
	}
	return ownerID, true
}

func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errors.New(validation.Message(err)))
		return false
	}
	return true
}

// pathID parses :id. Anything that is not a UUID cannot name an owned entity,
// so it answers 404 like any other miss.
func pathID(c *gin.Context, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		respondNotFound(c, what)
		return uuid.Nil, false
	}
	return id, true
}

func respondNotFound(c *gin.Context, what string) {
	response.RespondError(c, http.StatusNotFound, "not_found", errors.New(what+" not found"))
}

// respondServiceError answers a service failure. Server-side failures are
// logged here with the request and trace ids; the client only gets the generic
// message and the X-Request-Id header to quote.
func respondServiceError(c *gin.Context, log *logger.Logger, op string, err error) {
	if errors.Is(err, services.ErrUnauthorized) {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	}
	if ae, ok := apierr.As(err); !ok || ae.Status >= http.StatusInternalServerError {
		fields := append([]interface{}{"op", op, "route", c.FullPath(), "error", err}, ctxutil.LogFields(c.Request.Context())...)
		log.Error("Request failed", fields...)
	}
	response.RespondAPIError(c, err)
}
