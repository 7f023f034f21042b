package response

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/daleyoon76/saas-idea-generator/internal/platform/apierr"
)

// ErrorBody is the only error shape the API emits.
type ErrorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// RespondError writes {error, code}. 5xx answers carry a generic message;
// the detail belongs in the log.
func RespondError(c *gin.Context, status int, code string, err error) {
	msg := http.StatusText(status)
	if status < http.StatusInternalServerError && err != nil {
		msg = publicMessage(err)
	}
	if msg == "" {
		msg = "unknown error"
	}
	c.AbortWithStatusJSON(status, ErrorBody{Error: msg, Code: code})
}

// RespondAPIError maps err onto its apierr status and code, or a 500.
func RespondAPIError(c *gin.Context, err error) {
	if ae, ok := apierr.As(err); ok {
		status := ae.Status
		if status == 0 {
			status = http.StatusInternalServerError
		}
		RespondError(c, status, ae.Code, ae.Err)
		return
	}
	RespondError(c, http.StatusInternalServerError, "internal_error", err)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondSuccess(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// publicMessage drops sentinel prefixes ("invalid argument: ...") so clients
// see only the specific reason.
func publicMessage(err error) string {
	msg := err.Error()
	if inner := errors.Unwrap(err); inner != nil {
		if prefix := inner.Error() + ": "; strings.HasPrefix(msg, prefix) {
			return strings.TrimPrefix(msg, prefix)
		}
	}
	return msg
}
