/*
Package leave unifies two heterogeneous leave stores into one canonical view.

PURPOSE:
  The unit keeps leave data in two physically distinct collections:
  - "leaves":    dedicated leave submissions
  - "schedules": a generic event store another subsystem also writes to,
                 where leave-like events live next to duty rosters etc.

  Neither collection can be joined or filtered uniformly server-side, and
  both were written by independently evolving callers, so field names,
  status vocabulary, and timestamp shapes drifted apart. This package owns
  the reconciliation: normalize, convert, merge, and apply status
  transitions against whichever collection holds a given record.

KEY CONCEPTS IN THIS FILE (types.go):
  - Record:             the unified canonical leave entity
  - Status:             canonical status set (pending/approved/rejected/personal)
  - Collection:         names the two source collections
  - Filter:             caller-supplied query filters for reconciliation
  - PersonLeaveBalance: per-person remaining-day bookkeeping

DESIGN PRINCIPLES:
  1. Normalization at read time: no canonical copy is persisted; every read
     reconverts the raw source document.
  2. No leakage: source-specific field names and raw status tokens never
     cross the converter boundary.
  3. Precision: remaining-day balances use decimal.Decimal (half-day grants
     exist), never float64.

SEE ALSO:
  - normalize.go: status/timestamp/leave-type normalizers
  - convert.go:   raw document shapes and converters
  - service.go:   reconciliation orchestrator and status transitions
*/
package leave

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// CANONICAL RECORD
// =============================================================================

// PersonType distinguishes the two personnel tracks.
type PersonType string

const (
	PersonSoldier PersonType = "soldier"
	PersonOfficer PersonType = "officer"
)

// Status is the canonical status set. NormalizeStatus guarantees that no
// raw source value leaks through on the read path.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusPersonal Status = "personal"
)

// Record is the unified leave entity produced by the converters.
// StartDate/EndDate are ISO-8601 date strings; comparisons are date-only.
type Record struct {
	ID           string     `json:"id"`
	PersonID     string     `json:"personId"`
	PersonType   PersonType `json:"personType"`
	PersonName   string     `json:"personName"`
	PersonRank   string     `json:"personRank"`
	Unit         string     `json:"unit,omitempty"`
	LeaveType    string     `json:"leaveType"`
	StartDate    string     `json:"startDate"`
	EndDate      string     `json:"endDate"`
	Duration     int        `json:"duration"`
	Destination  string     `json:"destination"`
	Contact      string     `json:"contact"`
	Reason       string     `json:"reason"`
	Status       Status     `json:"status"`
	CreatedAt    string     `json:"createdAt"`
	UpdatedAt    string     `json:"updatedAt"`
	ApproverName string     `json:"approverName,omitempty"`
}

// =============================================================================
// SOURCE COLLECTIONS
// =============================================================================

// Collection names one of the two physical stores. Record IDs are unique
// only within their own collection; by-id operations probe collections in
// a fixed order and stop at the first match.
type Collection string

const (
	CollectionLeaves    Collection = "leaves"
	CollectionSchedules Collection = "schedules"
)

// Other returns the collection to probe second.
func (c Collection) Other() Collection {
	if c == CollectionSchedules {
		return CollectionLeaves
	}
	return CollectionSchedules
}

// =============================================================================
// FILTERS
// =============================================================================

// Filter restricts a reconciliation read. All fields are optional.
// Each source applies only the predicates it can index natively; the rest
// are applied client-side after conversion.
type Filter struct {
	PersonType PersonType // match converted PersonType
	PersonID   string     // match record owner
	Status     string     // any synonym; compared after normalization
	StartAfter string     // ISO date, inclusive lower bound on StartDate
	EndBefore  string     // ISO date, inclusive upper bound on EndDate
	Unit       string     // match converted Unit
	Limit      int        // final truncation after merge+sort, 0 = no limit
}

// =============================================================================
// TYPE ENTRIES AND BALANCES
// =============================================================================

// TypeEntry is a named leave-type component. Submissions may carry several
// (e.g. annual leave plus reward leave spliced into one trip).
type TypeEntry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Days int    `json:"days,omitempty"`
}

// BalanceEntry tracks remaining days for one leave type.
type BalanceEntry struct {
	ID            string          `json:"id,omitempty"`
	Name          string          `json:"name"`
	RemainingDays decimal.Decimal `json:"remainingDays"`
	TotalDays     decimal.Decimal `json:"totalDays"`
}

// PersonLeaveBalance is the per-person balance document. It is read and
// conditionally decremented as a side effect of approving a record;
// balance tracking is best-effort, not a hard invariant of this layer.
type PersonLeaveBalance struct {
	PersonID  string         `json:"personId"`
	Entries   []BalanceEntry `json:"entries"`
	UpdatedAt string         `json:"updatedAt,omitempty"`
}
