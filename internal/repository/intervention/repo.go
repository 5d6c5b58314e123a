// Package intervention persists the append-only corpus of validated
// interventions.
package intervention

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/truescope/devisd/internal/db"
	"github.com/truescope/devisd/internal/domain"
)

const keyPrefix = domain.KeyPrefix + "intervention:"

// store is the consumer interface for corpus entries (ISP).
type store interface {
	JSONSet(ctx context.Context, key string, data []byte) error
	JSONGet(ctx context.Context, key string) ([]byte, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements the corpus-store contracts of the matching and quote
// use cases. The corpus is append-only: there is no update or delete.
type Repo struct {
	store store
}

// New creates an intervention repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Append stores a newly validated intervention.
func (r *Repo) Append(ctx context.Context, iv *domain.Intervention) error {
	data, err := json.Marshal(toDTO(iv))
	if err != nil {
		return fmt.Errorf("marshal intervention: %w", err)
	}
	if err := r.store.JSONSet(ctx, keyPrefix+iv.ID(), data); err != nil {
		return fmt.Errorf("json.set %s: %w: %w", iv.ID(), domain.ErrStoreUnavailable, err)
	}
	return nil
}

// Get returns an intervention by ID.
func (r *Repo) Get(ctx context.Context, id string) (domain.Intervention, error) {
	raw, err := r.store.JSONGet(ctx, keyPrefix+id)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domain.Intervention{}, domain.ErrInterventionNotFound
		}
		return domain.Intervention{}, fmt.Errorf("json.get %s: %w: %w", id, domain.ErrStoreUnavailable, err)
	}
	var dto interventionDTO
	if err := json.Unmarshal(raw, &dto); err != nil {
		return domain.Intervention{}, fmt.Errorf("unmarshal intervention %s: %w", id, err)
	}
	return dto.toDomain(), nil
}

// ListValidated returns every validated corpus entry of the given trade,
// in no particular order; callers sort.
func (r *Repo) ListValidated(ctx context.Context, trade domain.Trade) ([]domain.Intervention, error) {
	keys, err := r.store.Scan(ctx, keyPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("scan interventions: %w: %w", domain.ErrStoreUnavailable, err)
	}

	out := make([]domain.Intervention, 0, len(keys))
	for _, key := range keys {
		raw, err := r.store.JSONGet(ctx, key)
		if err != nil {
			if errors.Is(err, db.ErrKeyNotFound) {
				continue // deleted between scan and read
			}
			return nil, fmt.Errorf("json.get %s: %w: %w", key, domain.ErrStoreUnavailable, err)
		}
		var dto interventionDTO
		if err := json.Unmarshal(raw, &dto); err != nil {
			return nil, fmt.Errorf("unmarshal %s: %w", key, err)
		}
		if !dto.Validated || domain.Trade(dto.Trade) != trade {
			continue
		}
		out = append(out, dto.toDomain())
	}
	return out, nil
}

// Stats summarizes the validated corpus.
type Stats struct {
	Total       int                  `json:"total"`
	ByTrade     map[domain.Trade]int `json:"byTrade"`
	RecentCount int                  `json:"recentCount"`
}

// CollectStats counts validated entries overall, per trade, and validated
// within the last week relative to now.
func (r *Repo) CollectStats(ctx context.Context, now time.Time) (Stats, error) {
	stats := Stats{ByTrade: make(map[domain.Trade]int)}
	for _, trade := range domain.AllTrades() {
		stats.ByTrade[trade] = 0
	}

	keys, err := r.store.Scan(ctx, keyPrefix+"*")
	if err != nil {
		return stats, fmt.Errorf("scan interventions: %w: %w", domain.ErrStoreUnavailable, err)
	}

	weekAgo := now.AddDate(0, 0, -7)
	for _, key := range keys {
		raw, err := r.store.JSONGet(ctx, key)
		if err != nil {
			if errors.Is(err, db.ErrKeyNotFound) {
				continue
			}
			return stats, fmt.Errorf("json.get %s: %w: %w", key, domain.ErrStoreUnavailable, err)
		}
		var dto interventionDTO
		if err := json.Unmarshal(raw, &dto); err != nil {
			return stats, fmt.Errorf("unmarshal %s: %w", key, err)
		}
		if !dto.Validated {
			continue
		}
		stats.Total++
		stats.ByTrade[domain.Trade(dto.Trade)]++
		if dto.ValidatedAt.After(weekAgo) {
			stats.RecentCount++
		}
	}
	return stats, nil
}
