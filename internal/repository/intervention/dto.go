package intervention

import (
	"time"

	"github.com/truescope/devisd/internal/domain"
)

// interventionDTO is the storage shape of a corpus entry.
type interventionDTO struct {
	ID          string          `json:"id"`
	Trade       string          `json:"trade"`
	Description string          `json:"description"`
	Keywords    []string        `json:"keywords"`
	ProblemType string          `json:"problemType"`
	MediaURLs   []string        `json:"mediaUrls,omitempty"`
	Solution    domain.Solution `json:"solution"`
	Validated   bool            `json:"validated"`
	CreatedAt   time.Time       `json:"createdAt"`
	ValidatedAt time.Time       `json:"validatedAt"`
}

func toDTO(iv *domain.Intervention) interventionDTO {
	return interventionDTO{
		ID:          iv.ID(),
		Trade:       iv.Trade().String(),
		Description: iv.Description(),
		Keywords:    iv.Keywords(),
		ProblemType: iv.ProblemType(),
		MediaURLs:   iv.MediaURLs(),
		Solution:    iv.Solution(),
		Validated:   iv.Validated(),
		CreatedAt:   iv.CreatedAt(),
		ValidatedAt: iv.ValidatedAt(),
	}
}

func (d interventionDTO) toDomain() domain.Intervention {
	return domain.ReconstructIntervention(
		d.ID, domain.Trade(d.Trade), d.Description,
		d.Keywords, d.ProblemType, d.MediaURLs,
		d.Solution, d.Validated, d.CreatedAt, d.ValidatedAt,
	)
}
