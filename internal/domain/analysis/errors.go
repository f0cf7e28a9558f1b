package analysis

import (
	"errors"
	"fmt"
)

var (
	// ErrNoPrimaryConfigured means Analyze was called before any registered
	// provider was designated primary.
	ErrNoPrimaryConfigured = errors.New("no primary provider configured")
)

// UnknownProviderError is returned when SetPrimary names an unregistered
// provider. A configuration mistake, never retried.
type UnknownProviderError struct {
	Name ProviderName
}

func (e *UnknownProviderError) Error() string {
	return fmt.Sprintf("provider %q is not registered", e.Name)
}

// ProviderUnavailableError means the adapter holds no usable credential.
type ProviderUnavailableError struct {
	Name ProviderName
}

func (e *ProviderUnavailableError) Error() string {
	return fmt.Sprintf("provider %q is not available", e.Name)
}

// ProviderHTTPError carries a non-success upstream response. The body is
// preserved verbatim for diagnostics.
type ProviderHTTPError struct {
	Provider   ProviderName
	StatusCode int
	Body       string
}

func (e *ProviderHTTPError) Error() string {
	return fmt.Sprintf("%s api error: status=%d body=%s", e.Provider, e.StatusCode, e.Body)
}

// MalformedResponseError means the provider answered with 2xx but the
// content could not be parsed as JSON, directly or from a fenced block.
// For failover purposes it is treated the same as an HTTP failure.
type MalformedResponseError struct {
	Provider ProviderName
	Reason   string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("%s returned unparseable content: %s", e.Provider, e.Reason)
}
