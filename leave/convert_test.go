package leave

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromLeaveDoc_DirectMapping(t *testing.T) {
	created := time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC)

	record := FromLeaveDoc(LeaveDoc{
		ID:          "lv-1",
		PersonID:    "p-1",
		PersonType:  "soldier",
		PersonName:  "김철수",
		PersonRank:  "병장",
		Unit:        "1대대",
		LeaveType:   []TypeEntry{{ID: "a", Name: "연가"}, {ID: "b", Name: "포상휴가"}},
		StartDate:   "2025-03-10T00:00:00Z",
		EndDate:     "2025-03-14T00:00:00Z",
		Duration:    5,
		Destination: "서울",
		Contact:     "010-0000-0000",
		Reason:      "정기 휴가",
		Status:      "신청",
		CreatedAt:   created,
		UpdatedAt:   created,
	})

	assert.Equal(t, "lv-1", record.ID)
	assert.Equal(t, PersonSoldier, record.PersonType)
	assert.Equal(t, "연가+포상휴가", record.LeaveType)
	assert.Equal(t, "2025-03-10T00:00:00Z", record.StartDate)
	assert.Equal(t, 5, record.Duration)
	assert.Equal(t, StatusPending, record.Status, "raw status must not leak")
	assert.Equal(t, "2025-03-01T10:00:00Z", record.CreatedAt)
}

func TestFromLeaveDoc_EmptyDefaults(t *testing.T) {
	record := FromLeaveDoc(LeaveDoc{ID: "lv-2", PersonID: "p-2", StartDate: "2025-01-01T00:00:00Z", EndDate: "2025-01-02T00:00:00Z"})

	assert.Equal(t, "", record.Destination)
	assert.Equal(t, "", record.Contact)
	assert.Equal(t, "", record.Reason)
	assert.Equal(t, DefaultLeaveType, record.LeaveType)
	assert.Equal(t, PersonSoldier, record.PersonType)
}

func TestFromScheduleDoc_FieldFallbacks(t *testing.T) {
	// GIVEN: a generic event with drifted field names and no explicit days
	doc := ScheduleDoc{
		ID:          "sc-1",
		EventType:   ScheduleEventLeave,
		UserID:      "p-9",
		UserType:    "officer",
		UserName:    "이영희",
		Rank:        "대위",
		Title:       "청원휴가",
		StartDate:   "2025-04-01T00:00:00Z",
		EndDate:     "2025-04-03T00:00:00Z",
		Status:      "승인",
		RequestedAt: "2025-03-20T08:00:00Z",
		UpdatedAt:   "2025-03-21T08:00:00Z",
	}

	// WHEN: converted to the canonical shape
	record := FromScheduleDoc(doc)

	// THEN: userId maps to PersonID, title backfills the leave type,
	// and duration falls back to the inclusive span
	assert.Equal(t, "p-9", record.PersonID)
	assert.Equal(t, PersonOfficer, record.PersonType)
	assert.Equal(t, "청원휴가", record.LeaveType)
	assert.Equal(t, 3, record.Duration)
	assert.Equal(t, StatusApproved, record.Status)
	assert.Equal(t, "2025-03-20T08:00:00Z", record.CreatedAt)
}

func TestFromScheduleDoc_ExplicitDaysWins(t *testing.T) {
	days := 2
	record := FromScheduleDoc(ScheduleDoc{
		ID:        "sc-2",
		EventType: ScheduleEventLeave,
		UserID:    "p-9",
		StartDate: "2025-04-01T00:00:00Z",
		EndDate:   "2025-04-10T00:00:00Z",
		Days:      &days,
	})
	require.Equal(t, 2, record.Duration)
}

func TestFromScheduleDoc_LeaveTypeOverTitle(t *testing.T) {
	record := FromScheduleDoc(ScheduleDoc{
		ID:        "sc-3",
		EventType: ScheduleEventLeave,
		UserID:    "p-9",
		Title:     "휴가 일정",
		LeaveType: "연가",
		StartDate: "2025-04-01T00:00:00Z",
		EndDate:   "2025-04-01T00:00:00Z",
	})
	assert.Equal(t, "연가", record.LeaveType)
}
