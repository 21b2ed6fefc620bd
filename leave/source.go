/*
source.go - Persistence interfaces for the two collections and balances

PURPOSE:
  Defines the contract between the reconciliation service and storage.
  Implementations exist for SQLite (store/sqlite) and memory (store/memory);
  the production system sits on a managed document database with the same
  query surface.

NATIVE FILTERING:
  Each source declares, via its query struct, exactly the predicates it can
  evaluate natively. Everything else is the service's job after conversion.
  - leaves:    person id and person type
  - schedules: the leave-like event type (always), plus user id, raw status,
               and a start-date range

BY-ID SEMANTICS:
  Get returns ErrRecordNotFound when the id is absent. Ids are unique only
  within one collection; cross-collection resolution lives in the service.
*/
package leave

import "context"

// =============================================================================
// QUERY SHAPES
// =============================================================================

// LeaveQuery restricts a read of the leaves collection to its natively
// indexable fields.
type LeaveQuery struct {
	PersonID   string
	PersonType string
}

// ScheduleQuery restricts a read of the schedules collection. Implementations
// always filter to leave-like events; the remaining fields are optional.
type ScheduleQuery struct {
	UserID     string
	Status     string // raw token, matched as stored
	StartAfter string // ISO date, inclusive lower bound on start date
	EndBefore  string // ISO date, inclusive upper bound on end date
}

// =============================================================================
// SOURCES
// =============================================================================

// LeaveSource is the dedicated leaves collection.
type LeaveSource interface {
	Query(ctx context.Context, q LeaveQuery) ([]LeaveDoc, error)
	Get(ctx context.Context, id string) (*LeaveDoc, error)
	Create(ctx context.Context, doc LeaveDoc) error
	SetStatus(ctx context.Context, id, status, approverName, updatedAt string) error
	Delete(ctx context.Context, id string) error
}

// ScheduleSource is the generic event collection, restricted here to its
// leave-like records.
type ScheduleSource interface {
	Query(ctx context.Context, q ScheduleQuery) ([]ScheduleDoc, error)
	Get(ctx context.Context, id string) (*ScheduleDoc, error)
	Create(ctx context.Context, doc ScheduleDoc) error
	SetStatus(ctx context.Context, id, status, approverName, updatedAt string) error
	Delete(ctx context.Context, id string) error
}

// BalanceStore holds per-person leave balances. Get returns
// ErrBalanceNotFound when the person has no balance document.
type BalanceStore interface {
	Get(ctx context.Context, personID string) (*PersonLeaveBalance, error)
	Save(ctx context.Context, balance PersonLeaveBalance) error
	List(ctx context.Context) ([]PersonLeaveBalance, error)
}
