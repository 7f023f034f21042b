package services

import (
	"errors"
	"fmt"
	"net/http"

	types "github.com/daleyoon76/saas-idea-generator/internal/domain"
	"github.com/daleyoon76/saas-idea-generator/internal/platform/apierr"
)

var (
	// ErrUnauthorized means no valid principal was attached to the request.
	ErrUnauthorized = errors.New("authentication required")
	// ErrInvalidArgument is the root of every payload validation failure.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUpstream marks failures of a third-party provider.
	ErrUpstream = errors.New("upstream failure")
)

func invalid(code, format string, args ...any) *apierr.Error {
	return apierr.New(http.StatusBadRequest, code, fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...)))
}

var (
	ErrIdeaRequired     = invalid("idea_required", "idea or dbIdeaId is required")
	ErrIdeaNotFound     = invalid("idea_not_found", "dbIdeaId does not refer to one of your ideas")
	ErrIdeaNameRequired = invalid("idea_name_required", "idea name is required")
	ErrIdeasRequired    = invalid("ideas_required", "ideas must be a non-empty list")
	ErrTooManyIdeas     = invalid("too_many_ideas", "at most %d ideas can be saved at once", MaxIdeasPerBatch)
	ErrNameRequired     = invalid("name_required", "name must not be empty")
	ErrContentRequired  = invalid("content_required", "content is required")
	ErrContentTooLarge  = invalid("content_too_large", "content exceeds %d characters", types.MaxArtifactContentChars)
	ErrKeywordRequired  = invalid("keyword_required", "keyword is required")
	ErrQueryRequired    = invalid("query_required", "query is required")
	ErrMarkdownRequired = invalid("markdown_required", "markdown is required")
)

func upstreamError(provider string, err error) error {
	return apierr.New(http.StatusBadGateway, provider+"_unavailable", fmt.Errorf("%w: %s: %w", ErrUpstream, provider, err))
}
