package domain

import "errors"

var (
	// ErrValidation signals invalid caller input (missing trade, empty description).
	ErrValidation = errors.New("validation failed")
	// ErrRequestNotFound signals a missing quote request.
	ErrRequestNotFound = errors.New("quote request not found")
	// ErrInterventionNotFound signals a missing corpus intervention.
	ErrInterventionNotFound = errors.New("intervention not found")
	// ErrPriceNotFound signals a missing catalog price.
	ErrPriceNotFound = errors.New("price not found")
	// ErrAlreadyValidated signals a second validation attempt on the same request.
	ErrAlreadyValidated = errors.New("request already validated")
	// ErrGenerationFailed signals a generation provider failure.
	ErrGenerationFailed = errors.New("generation failed")
	// ErrStoreUnavailable signals that the backing store could not be reached.
	ErrStoreUnavailable = errors.New("store unavailable")
)
