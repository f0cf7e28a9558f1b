package analysis

import "context"

// Provider is one interchangeable vision backend. Adding a provider means
// adding an implementation, not widening any dynamic shape.
type Provider interface {
	// Name identifies the adapter inside the registry.
	Name() ProviderName
	// IsAvailable reports whether a credential is configured. No network call.
	IsAvailable() bool
	// AnalyzePhotos sends one request to the backend and returns the
	// normalized assessment. Latency and token telemetry are filled in by
	// the adapter.
	AnalyzePhotos(ctx context.Context, req Request) (Result, error)
}
