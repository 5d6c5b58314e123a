package pricing

import (
	"context"

	"github.com/truescope/devisd/internal/domain"
)

// Repository is the catalog persistence contract this service consumes.
type Repository interface {
	GetAll(ctx context.Context) (domain.Catalog, error)
	Get(ctx context.Context, code string) (domain.Price, error)
	Put(ctx context.Context, p domain.Price) error
	Delete(ctx context.Context, code string) error
	Seed(ctx context.Context) (int, error)
}
