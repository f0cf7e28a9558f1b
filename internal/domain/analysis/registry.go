package analysis

import (
	"context"
	"log/slog"
	"sync"
)

// fallbackFor maps each provider to the one Analyze retries against. The
// universe is fixed at two: a third registered name has no implicit
// fallback and never participates as one.
var fallbackFor = map[ProviderName]ProviderName{
	ProviderClaude: ProviderOpenAI,
	ProviderOpenAI: ProviderClaude,
}

// Registry holds the registered provider adapters and the designated
// primary. Constructed per process and injected; never a package global.
type Registry struct {
	mu        sync.RWMutex
	providers map[ProviderName]Provider
	primary   ProviderName
	logger    *slog.Logger
}

// NewRegistry builds an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		providers: make(map[ProviderName]Provider),
		logger:    logger.With("component", "analysis.registry"),
	}
}

// Register adds or overwrites the adapter for its name. Call order does
// not matter relative to SetPrimary.
func (r *Registry) Register(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[p.Name()] = p
}

// SetPrimary designates the provider Analyze tries first.
func (r *Registry) SetPrimary(name ProviderName) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.providers[name]; !ok {
		return &UnknownProviderError{Name: name}
	}
	r.primary = name
	return nil
}

// Primary returns the currently designated provider name.
func (r *Registry) Primary() ProviderName {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.primary
}

// Provider returns a registered adapter by name.
func (r *Registry) Provider(name ProviderName) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[name]
	return p, ok
}

// Analyze runs the request against the primary adapter with at most one
// fallback to the other known provider. At most two outbound calls happen
// per invocation; configuration errors surface immediately.
func (r *Registry) Analyze(ctx context.Context, req Request) (Result, error) {
	r.mu.RLock()
	primaryName := r.primary
	primary, registered := r.providers[primaryName]
	r.mu.RUnlock()

	if primaryName == "" || !registered {
		return Result{}, ErrNoPrimaryConfigured
	}

	primaryErr := error(nil)
	if !primary.IsAvailable() {
		primaryErr = &ProviderUnavailableError{Name: primaryName}
	} else {
		result, err := primary.AnalyzePhotos(ctx, req)
		if err == nil {
			return result, nil
		}
		primaryErr = err
	}

	fallback, ok := r.Provider(fallbackFor[primaryName])
	if !ok {
		return Result{}, primaryErr
	}

	// Advisory diagnostic only; not part of the contract.
	r.logger.Warn("primary provider failed, falling back",
		"primary", primaryName,
		"fallback", fallback.Name(),
		"error", primaryErr,
	)

	result, err := fallback.AnalyzePhotos(ctx, req)
	if err != nil {
		r.logger.Warn("fallback provider failed",
			"fallback", fallback.Name(),
			"error", err,
		)
		// The original failure is the one callers diagnose against.
		return Result{}, primaryErr
	}
	return result, nil
}
