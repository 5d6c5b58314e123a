package matching

import (
	"context"

	"github.com/truescope/devisd/internal/domain"
)

// Repository defines the corpus-store contract for retrieval. The store
// gives no ordering guarantee; the service sorts.
type Repository interface {
	ListValidated(ctx context.Context, trade domain.Trade) ([]domain.Intervention, error)
}
