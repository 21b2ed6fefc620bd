/*
errors.go - Centralized error types for the leave reconciliation layer

PURPOSE:
  All error types in one place. The API layer converts these into the
  tagged result envelope; nothing panics across the public boundary.

ERROR CATEGORIES:
  1. Not-found errors - by-id probes that miss both collections
  2. Validation errors - malformed submissions
  3. Source errors - a query against one of the collections failed

NORMALIZATION IS NOT AN ERROR:
  Unrecognized status tokens, timestamp shapes, and leave-type shapes never
  raise errors. They degrade to a pass-through value or a documented
  default and are logged for visibility. See normalize.go.
*/
package leave

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrRecordNotFound is returned when an id exists in neither collection.
	ErrRecordNotFound = errors.New("leave record not found")

	// ErrBalanceNotFound is returned when a person has no balance document.
	// On the approval side effect this is swallowed; balance reads surface it.
	ErrBalanceNotFound = errors.New("leave balance not found")

	// ErrInvalidPeriod is returned when a submission ends before it starts.
	ErrInvalidPeriod = errors.New("invalid period: end before start")

	// ErrSourceQuery wraps a failed read against one of the collections.
	ErrSourceQuery = errors.New("source query failed")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// RecordNotFoundError reports the id and every collection that was probed.
type RecordNotFoundError struct {
	ID     string
	Probed []Collection
}

func (e *RecordNotFoundError) Error() string {
	return fmt.Sprintf("record %q not found in %v", e.ID, e.Probed)
}

func (e *RecordNotFoundError) Unwrap() error { return ErrRecordNotFound }

// SourceQueryError reports which collection failed during reconciliation.
type SourceQueryError struct {
	Collection Collection
	Err        error
}

func (e *SourceQueryError) Error() string {
	return fmt.Sprintf("query against %s failed: %v", e.Collection, e.Err)
}

func (e *SourceQueryError) Unwrap() error { return ErrSourceQuery }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound returns true if the error indicates a missing record or balance.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrRecordNotFound) || errors.Is(err, ErrBalanceNotFound)
}

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidPeriod)
}
