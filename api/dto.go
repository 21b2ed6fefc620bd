/*
dto.go - Data Transfer Objects and the result envelope

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

RESULT ENVELOPE:
  Every operation returns a tagged result:
    {"success": true,  "data": ...}
    {"success": false, "error": "..."}
  No exceptions propagate to callers from normal failure paths; this is
  the sole wire contract exposed upward. UI clients surface the error
  string directly.

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: uses these types
  - leave/types.go: the canonical Record these wrap
*/
package api

import (
	"github.com/shopspring/decimal"

	"github.com/91038/armyitda-sub001/leave"
)

// =============================================================================
// RESULT ENVELOPE
// =============================================================================

// Envelope is the tagged result every endpoint returns.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// =============================================================================
// REQUEST TYPES
// =============================================================================

// SubmitLeaveRequest creates a record via the direct leave path.
type SubmitLeaveRequest struct {
	PersonID    string            `json:"personId"`
	PersonType  string            `json:"personType"`
	PersonName  string            `json:"personName"`
	PersonRank  string            `json:"personRank"`
	Unit        string            `json:"unit"`
	LeaveTypes  []leave.TypeEntry `json:"leaveTypes,omitempty"`
	StartDate   string            `json:"startDate"`
	EndDate     string            `json:"endDate"`
	Destination string            `json:"destination"`
	Contact     string            `json:"contact"`
	Reason      string            `json:"reason"`
	Status      string            `json:"status,omitempty"`
}

// CreateScheduleRequest creates a leave-like event via the generic path.
type CreateScheduleRequest struct {
	UserID      string `json:"userId"`
	UserType    string `json:"userType"`
	UserName    string `json:"userName"`
	Rank        string `json:"rank"`
	Unit        string `json:"unit"`
	Title       string `json:"title"`
	LeaveType   string `json:"leaveType"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Days        *int   `json:"days,omitempty"`
	Destination string `json:"destination"`
	Contact     string `json:"contact"`
	Reason      string `json:"reason"`
	Status      string `json:"status,omitempty"`
}

// UpdateStatusRequest transitions a record's status.
type UpdateStatusRequest struct {
	Status       string `json:"status"`
	Collection   string `json:"collection,omitempty"` // preferred probe target
	ApproverName string `json:"approverName,omitempty"`
}

// SaveBalanceRequest replaces a person's balance entries.
type SaveBalanceRequest struct {
	Entries []BalanceEntryDTO `json:"entries"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// BalanceEntryDTO carries day counts as strings to keep decimal precision
// across the wire.
type BalanceEntryDTO struct {
	ID            string `json:"id,omitempty"`
	Name          string `json:"name"`
	RemainingDays string `json:"remainingDays"`
	TotalDays     string `json:"totalDays"`
}

// BalanceDTO is the per-person balance view.
type BalanceDTO struct {
	PersonID  string            `json:"personId"`
	Entries   []BalanceEntryDTO `json:"entries"`
	UpdatedAt string            `json:"updatedAt,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toBalanceDTO(b *leave.PersonLeaveBalance) BalanceDTO {
	entries := make([]BalanceEntryDTO, len(b.Entries))
	for i, e := range b.Entries {
		entries[i] = BalanceEntryDTO{
			ID:            e.ID,
			Name:          e.Name,
			RemainingDays: e.RemainingDays.String(),
			TotalDays:     e.TotalDays.String(),
		}
	}
	return BalanceDTO{PersonID: b.PersonID, Entries: entries, UpdatedAt: b.UpdatedAt}
}

func fromBalanceEntryDTOs(dtos []BalanceEntryDTO) ([]leave.BalanceEntry, error) {
	entries := make([]leave.BalanceEntry, len(dtos))
	for i, d := range dtos {
		remaining, err := decimal.NewFromString(d.RemainingDays)
		if err != nil {
			return nil, err
		}
		total := remaining
		if d.TotalDays != "" {
			if total, err = decimal.NewFromString(d.TotalDays); err != nil {
				return nil, err
			}
		}
		entries[i] = leave.BalanceEntry{
			ID:            d.ID,
			Name:          d.Name,
			RemainingDays: remaining,
			TotalDays:     total,
		}
	}
	return entries, nil
}
