package domain

import (
	"fmt"
	"strings"
	"time"
)

// RequestStatus tracks a quote request through its lifecycle.
type RequestStatus string

const (
	StatusPending   RequestStatus = "pending"
	StatusAnalyzed  RequestStatus = "analyzed"
	StatusValidated RequestStatus = "validated"
)

// QuoteRequest is an incoming problem description being matched against the
// corpus and estimated. Unlike interventions it is mutable: analysis and
// validation advance its status.
type QuoteRequest struct {
	ID                   string        `json:"id"`
	Trade                Trade         `json:"trade"`
	Description          string        `json:"description"`
	MediaURLs            []string      `json:"mediaUrls,omitempty"`
	Status               RequestStatus `json:"status"`
	ProposedSolution     *Solution     `json:"proposedSolution,omitempty"`
	SimilarInterventions []string      `json:"similarInterventions"`
	CreatedAt            time.Time     `json:"createdAt"`
	UpdatedAt            time.Time     `json:"updatedAt,omitempty"`
}

// RequestFilter narrows request listings. Zero values mean "no constraint".
type RequestFilter struct {
	Status RequestStatus
	Trade  Trade
	Limit  int
}

// NewQuoteRequest creates a pending request after validating caller input.
func NewQuoteRequest(id string, trade Trade, description string, mediaURLs []string, now time.Time) (*QuoteRequest, error) {
	if strings.TrimSpace(description) == "" {
		return nil, fmt.Errorf("%w: description is required", ErrValidation)
	}
	if _, err := ParseTrade(string(trade)); err != nil {
		return nil, err
	}
	return &QuoteRequest{
		ID:                   id,
		Trade:                trade,
		Description:          description,
		MediaURLs:            mediaURLs,
		Status:               StatusPending,
		SimilarInterventions: []string{},
		CreatedAt:            now,
	}, nil
}

// MarkAnalyzed records the proposed solution and the interventions that were
// shown to the generator as context.
func (q *QuoteRequest) MarkAnalyzed(solution Solution, similarIDs []string, now time.Time) {
	q.Status = StatusAnalyzed
	q.ProposedSolution = &solution
	q.SimilarInterventions = similarIDs
	q.UpdatedAt = now
}

// MarkValidated transitions the request to its terminal state.
func (q *QuoteRequest) MarkValidated(now time.Time) error {
	if q.Status == StatusValidated {
		return ErrAlreadyValidated
	}
	q.Status = StatusValidated
	q.UpdatedAt = now
	return nil
}
