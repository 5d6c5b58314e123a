// Package catalog persists the authoritative price list.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/truescope/devisd/internal/db"
	"github.com/truescope/devisd/internal/domain"
)

const keyPrefix = domain.KeyPrefix + "price:"

type store interface {
	JSONSet(ctx context.Context, key string, data []byte) error
	JSONGet(ctx context.Context, key string) ([]byte, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo stores one JSON document per price, keyed by catalog code.
type Repo struct {
	store store
}

// New creates a catalog repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Put upserts a price under its code.
func (r *Repo) Put(ctx context.Context, p domain.Price) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal price: %w", err)
	}
	if err := r.store.JSONSet(ctx, keyPrefix+p.Code, data); err != nil {
		return fmt.Errorf("json.set %s: %w: %w", p.Code, domain.ErrStoreUnavailable, err)
	}
	return nil
}

// Get returns a single price by code.
func (r *Repo) Get(ctx context.Context, code string) (domain.Price, error) {
	raw, err := r.store.JSONGet(ctx, keyPrefix+code)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domain.Price{}, domain.ErrPriceNotFound
		}
		return domain.Price{}, fmt.Errorf("json.get %s: %w: %w", code, domain.ErrStoreUnavailable, err)
	}
	var p domain.Price
	if err := json.Unmarshal(raw, &p); err != nil {
		return domain.Price{}, fmt.Errorf("unmarshal price %s: %w", code, err)
	}
	return p, nil
}

// Delete removes a price by code.
func (r *Repo) Delete(ctx context.Context, code string) error {
	ok, err := r.store.Exists(ctx, keyPrefix+code)
	if err != nil {
		return fmt.Errorf("exists %s: %w: %w", code, domain.ErrStoreUnavailable, err)
	}
	if !ok {
		return domain.ErrPriceNotFound
	}
	if err := r.store.Del(ctx, keyPrefix+code); err != nil {
		return fmt.Errorf("del %s: %w: %w", code, domain.ErrStoreUnavailable, err)
	}
	return nil
}

// GetAll loads the full catalog grouped by trade and category, each group
// sorted by code.
func (r *Repo) GetAll(ctx context.Context) (domain.Catalog, error) {
	keys, err := r.store.Scan(ctx, keyPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("scan prices: %w: %w", domain.ErrStoreUnavailable, err)
	}

	catalog := make(domain.Catalog)
	for _, key := range keys {
		raw, err := r.store.JSONGet(ctx, key)
		if err != nil {
			if errors.Is(err, db.ErrKeyNotFound) {
				continue
			}
			return nil, fmt.Errorf("json.get %s: %w: %w", key, domain.ErrStoreUnavailable, err)
		}
		var p domain.Price
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("unmarshal %s: %w", key, err)
		}
		tc := catalog[p.Trade]
		switch p.Category {
		case domain.CategoryLabor:
			tc.Labor = append(tc.Labor, p)
		case domain.CategoryMaterials:
			tc.Materials = append(tc.Materials, p)
		}
		catalog[p.Trade] = tc
	}

	for trade, tc := range catalog {
		sort.Slice(tc.Labor, func(i, j int) bool { return tc.Labor[i].Code < tc.Labor[j].Code })
		sort.Slice(tc.Materials, func(i, j int) bool { return tc.Materials[i].Code < tc.Materials[j].Code })
		catalog[trade] = tc
	}
	return catalog, nil
}

// Seed writes the default price list for every code not yet present and
// returns how many prices were written. Existing entries are left alone so
// operator edits survive restarts.
func (r *Repo) Seed(ctx context.Context) (int, error) {
	written := 0
	for _, p := range DefaultPrices() {
		ok, err := r.store.Exists(ctx, keyPrefix+p.Code)
		if err != nil {
			return written, fmt.Errorf("exists %s: %w: %w", p.Code, domain.ErrStoreUnavailable, err)
		}
		if ok {
			continue
		}
		if err := r.Put(ctx, p); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}
