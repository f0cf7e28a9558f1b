package resultstore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/rehabscope/rehabscope/internal/domain/analysis"
)

// ValkeyStore persists analysis results in a Valkey-compatible database so
// multiple instances can serve the follow-up flow.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore constructs a store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "analysis"
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

// SaveResult implements analysis.ResultStore.
func (s *ValkeyStore) SaveResult(ctx context.Context, result analysis.Result, ttl time.Duration) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return err
	}
	builder := s.client.B().Set().Key(s.key(result.ID)).Value(string(payload))
	if ttl > 0 {
		return s.client.Do(ctx, builder.Ex(ttl).Build()).Error()
	}
	return s.client.Do(ctx, builder.Build()).Error()
}

// GetResult implements analysis.ResultStore.
func (s *ValkeyStore) GetResult(ctx context.Context, id string) (analysis.Result, bool, error) {
	payload, err := s.client.Do(ctx, s.client.B().Get().Key(s.key(id)).Build()).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return analysis.Result{}, false, nil
		}
		return analysis.Result{}, false, err
	}
	var result analysis.Result
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return analysis.Result{}, false, err
	}
	return result, true, nil
}

func (s *ValkeyStore) key(id string) string {
	return s.prefix + ":result:" + id
}
