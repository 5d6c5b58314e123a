package domain

import (
	"fmt"
	"strings"
	"time"
)

// Intervention is a validated, stored record of a past resolved request,
// used as retrieval reference. The corpus is append-only: an intervention
// is never mutated after creation, so all fields are private and exposed
// through getters only.
type Intervention struct {
	id          string
	trade       Trade
	description string
	keywords    []string
	problemType string
	mediaURLs   []string
	solution    Solution
	validated   bool
	createdAt   time.Time
	validatedAt time.Time
}

// NewIntervention creates a validated corpus entry. Interventions only come
// into existence through explicit validation, so validated is always true
// and validatedAt is set exactly once, here.
func NewIntervention(
	id string, trade Trade, description string,
	keywords []string, problemType string, mediaURLs []string,
	solution Solution, createdAt, validatedAt time.Time,
) (Intervention, error) {
	if id == "" {
		return Intervention{}, fmt.Errorf("%w: intervention id is required", ErrValidation)
	}
	if strings.TrimSpace(description) == "" {
		return Intervention{}, fmt.Errorf("%w: description is required", ErrValidation)
	}
	if _, err := ParseTrade(string(trade)); err != nil {
		return Intervention{}, err
	}
	return Intervention{
		id:          id,
		trade:       trade,
		description: description,
		keywords:    append([]string(nil), keywords...),
		problemType: problemType,
		mediaURLs:   append([]string(nil), mediaURLs...),
		solution:    solution,
		validated:   true,
		createdAt:   createdAt,
		validatedAt: validatedAt,
	}, nil
}

// ReconstructIntervention rebuilds an intervention from storage without
// validation. Repositories only.
func ReconstructIntervention(
	id string, trade Trade, description string,
	keywords []string, problemType string, mediaURLs []string,
	solution Solution, validated bool, createdAt, validatedAt time.Time,
) Intervention {
	return Intervention{
		id:          id,
		trade:       trade,
		description: description,
		keywords:    keywords,
		problemType: problemType,
		mediaURLs:   mediaURLs,
		solution:    solution,
		validated:   validated,
		createdAt:   createdAt,
		validatedAt: validatedAt,
	}
}

// ID returns the unique identifier assigned at creation.
func (i Intervention) ID() string { return i.id }

// Trade returns the trade partition.
func (i Intervention) Trade() Trade { return i.trade }

// Description returns the original free text submitted by the requester.
func (i Intervention) Description() string { return i.description }

// Keywords returns the keyword set describing the problem. May be empty.
func (i Intervention) Keywords() []string { return i.keywords }

// ProblemType returns the categorical snake_case problem label.
func (i Intervention) ProblemType() string { return i.problemType }

// MediaURLs returns attached media references.
func (i Intervention) MediaURLs() []string { return i.mediaURLs }

// Solution returns the stored diagnosis and estimate payload.
func (i Intervention) Solution() Solution { return i.solution }

// Validated reports whether the entry is retrievable by the matching core.
func (i Intervention) Validated() bool { return i.validated }

// CreatedAt returns the creation timestamp of the originating request.
func (i Intervention) CreatedAt() time.Time { return i.createdAt }

// ValidatedAt returns the validation timestamp, set once at validation.
func (i Intervention) ValidatedAt() time.Time { return i.validatedAt }
