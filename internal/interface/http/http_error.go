package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rehabscope/rehabscope/internal/domain/analysis"
	apperrors "github.com/rehabscope/rehabscope/pkg/errors"
)

// HTTPError captures the metadata required to serialize an error response consistently.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// NewHTTPError is a helper to build an HTTPError instance.
func NewHTTPError(status int, code, message string, err error) *HTTPError {
	return &HTTPError{Status: status, Code: code, Message: message, Err: err}
}

func asHTTPError(err error) *HTTPError {
	if err == nil {
		return nil
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return &HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    "internal_error",
		Message: "something went wrong",
		Err:     err,
	}
}

// translateDomainError maps domain failures onto HTTP semantics. Provider
// and parse failures are upstream faults (502), a missing primary is a
// deployment problem (503), everything else falls through to fallbackCode.
func translateDomainError(err error, fallbackCode string) *HTTPError {
	var (
		unavailable *analysis.ProviderUnavailableError
		httpFail    *analysis.ProviderHTTPError
		malformed   *analysis.MalformedResponseError
		unknown     *analysis.UnknownProviderError
	)

	switch {
	case errors.Is(err, analysis.ErrNoPrimaryConfigured):
		return NewHTTPError(http.StatusServiceUnavailable, "no_provider", "no analysis provider is configured", err)
	case errors.As(err, &unavailable):
		return NewHTTPError(http.StatusServiceUnavailable, "provider_unavailable", err.Error(), err)
	case errors.As(err, &httpFail):
		return NewHTTPError(http.StatusBadGateway, "provider_error", "analysis provider request failed", err)
	case errors.As(err, &malformed):
		return NewHTTPError(http.StatusBadGateway, "provider_error", "analysis provider returned an unreadable assessment", err)
	case errors.As(err, &unknown):
		return NewHTTPError(http.StatusServiceUnavailable, "no_provider", err.Error(), err)
	case apperrors.IsCode(err, "invalid_input"):
		return NewHTTPError(http.StatusBadRequest, "invalid_request", err.Error(), err)
	case apperrors.IsCode(err, "not_found"):
		return NewHTTPError(http.StatusNotFound, "not_found", err.Error(), err)
	default:
		code := apperrors.CodeOf(err)
		if code == "" {
			code = fallbackCode
		}
		return NewHTTPError(http.StatusInternalServerError, code, err.Error(), err)
	}
}

func abortWithError(c *gin.Context, err *HTTPError) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}
