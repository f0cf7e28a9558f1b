package analysis

import (
	"context"
	"time"
)

// ResultStore keeps completed assessments so the follow-up flow can
// re-read them without another provider call. Saving is best-effort for
// the analyze path; only reads treat store failures as errors.
type ResultStore interface {
	SaveResult(ctx context.Context, result Result, ttl time.Duration) error
	GetResult(ctx context.Context, id string) (Result, bool, error)
}
