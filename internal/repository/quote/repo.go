// Package quote persists quote requests.
package quote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/truescope/devisd/internal/db"
	"github.com/truescope/devisd/internal/domain"
)

const keyPrefix = domain.KeyPrefix + "request:"

type store interface {
	JSONSet(ctx context.Context, key string, data []byte) error
	JSONGet(ctx context.Context, key string) ([]byte, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo stores quote requests as JSON documents keyed by request ID.
type Repo struct {
	store store
}

// New creates a quote-request repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Save upserts a request. The same call persists creation, analysis and
// validation; the document is replaced wholesale.
func (r *Repo) Save(ctx context.Context, req *domain.QuoteRequest) error {
	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	if err := r.store.JSONSet(ctx, keyPrefix+req.ID, data); err != nil {
		return fmt.Errorf("json.set %s: %w: %w", req.ID, domain.ErrStoreUnavailable, err)
	}
	return nil
}

// Get returns a request by ID.
func (r *Repo) Get(ctx context.Context, id string) (*domain.QuoteRequest, error) {
	raw, err := r.store.JSONGet(ctx, keyPrefix+id)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, fmt.Errorf("json.get %s: %w: %w", id, domain.ErrStoreUnavailable, err)
	}
	var req domain.QuoteRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, fmt.Errorf("unmarshal request %s: %w", id, err)
	}
	return &req, nil
}

// List returns requests matching the filter, newest first.
func (r *Repo) List(ctx context.Context, f domain.RequestFilter) ([]*domain.QuoteRequest, error) {
	keys, err := r.store.Scan(ctx, keyPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("scan requests: %w: %w", domain.ErrStoreUnavailable, err)
	}

	out := make([]*domain.QuoteRequest, 0, len(keys))
	for _, key := range keys {
		raw, err := r.store.JSONGet(ctx, key)
		if err != nil {
			if errors.Is(err, db.ErrKeyNotFound) {
				continue
			}
			return nil, fmt.Errorf("json.get %s: %w: %w", key, domain.ErrStoreUnavailable, err)
		}
		var req domain.QuoteRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			return nil, fmt.Errorf("unmarshal %s: %w", key, err)
		}
		if f.Status != "" && req.Status != f.Status {
			continue
		}
		if f.Trade != "" && req.Trade != f.Trade {
			continue
		}
		out = append(out, &req)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}
