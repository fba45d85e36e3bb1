package content

import (
	"errors"
	"fmt"
)

var (
	// ErrFetch wraps every transport or status failure.
	ErrFetch = errors.New("content fetch failed")
	// ErrInvalidDocument is returned when a document fails schema validation.
	ErrInvalidDocument = errors.New("invalid content document")
	// ErrUnknownDoc is returned for a Doc with no endpoint.
	ErrUnknownDoc = errors.New("unknown content document")
)

// FetchError records a non-2xx response.
type FetchError struct {
	Endpoint string
	Status   int
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch %s: %d", e.Endpoint, e.Status)
}

func (e *FetchError) Unwrap() error { return ErrFetch }
