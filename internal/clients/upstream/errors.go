package upstream

import (
	"errors"
	"fmt"
)

type HTTPError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e == nil {
		return "upstream http error"
	}
	name := e.Provider
	if name == "" {
		name = "upstream"
	}
	if e.Body == "" {
		return fmt.Sprintf("%s http error: status=%d", name, e.StatusCode)
	}
	return fmt.Sprintf("%s http error: status=%d body=%s", name, e.StatusCode, e.Body)
}

// IsClientError reports whether err is a 4xx answer from the provider. Those
// are caller mistakes and must not trip a circuit breaker.
func IsClientError(err error) bool {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.StatusCode >= 400 && he.StatusCode < 500 && he.StatusCode != 429
	}
	return false
}
