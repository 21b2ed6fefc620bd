/*
convert.go - Raw document shapes and per-source converters

PURPOSE:
  Each source collection has its own document shape with its own field
  names. The two converters here are the ONLY place those names exist;
  everything past this boundary speaks Record.

FALLBACK CHAINS:
  The schedules collection is a generic event store, so its documents carry
  looser fields. Each Record field is filled from a preference chain:
  specific field, then generic alternative, then a hardcoded default.

  Record.Duration from a schedule doc:
    doc.Days  ->  inclusive span of StartDate..EndDate  ->  0

CONVERTERS ARE PURE:
  No I/O, no clock reads except through NormalizeTimestamp's documented
  fallback. Both are safe to call from tests without a store.
*/
package leave

// =============================================================================
// RAW DOCUMENT SHAPES
// =============================================================================

// LeaveDoc is a raw document from the leaves collection. Timestamp and
// leave-type fields are `any` because the source is schemaless; the
// normalizers own the coercion.
type LeaveDoc struct {
	ID           string
	PersonID     string
	PersonType   string
	PersonName   string
	PersonRank   string
	Unit         string
	LeaveType    any // string or []TypeEntry
	StartDate    any
	EndDate      any
	Duration     int
	Destination  string
	Contact      string
	Reason       string
	Status       string
	CreatedAt    any
	UpdatedAt    any
	ApproverName string
}

// ScheduleDoc is a raw document from the schedules collection. The event
// store predates the leave module, so names differ: userId instead of
// personId, requestedAt instead of createdAt, an optional days count
// instead of duration.
type ScheduleDoc struct {
	ID           string
	EventType    string // only leave-like events reach the converters
	UserID       string
	UserType     string
	UserName     string
	Rank         string
	Unit         string
	Title        string
	LeaveType    any
	StartDate    any
	EndDate      any
	Days         *int
	Destination  string
	Contact      string
	Reason       string
	Status       string
	RequestedAt  any
	UpdatedAt    any
	ApproverName string
}

// ScheduleEventLeave marks a schedules document as leave-like. Both read
// and write paths filter on it.
const ScheduleEventLeave = "leave"

// =============================================================================
// CONVERTERS
// =============================================================================

// FromLeaveDoc maps a leaves-collection document onto the canonical shape.
func FromLeaveDoc(doc LeaveDoc) Record {
	return Record{
		ID:           doc.ID,
		PersonID:     doc.PersonID,
		PersonType:   normalizePersonType(doc.PersonType),
		PersonName:   doc.PersonName,
		PersonRank:   doc.PersonRank,
		Unit:         doc.Unit,
		LeaveType:    NormalizeLeaveType(doc.LeaveType),
		StartDate:    NormalizeTimestamp(doc.StartDate),
		EndDate:      NormalizeTimestamp(doc.EndDate),
		Duration:     doc.Duration,
		Destination:  doc.Destination,
		Contact:      doc.Contact,
		Reason:       doc.Reason,
		Status:       Status(NormalizeStatus(doc.Status, false)),
		CreatedAt:    NormalizeTimestamp(doc.CreatedAt),
		UpdatedAt:    NormalizeTimestamp(doc.UpdatedAt),
		ApproverName: doc.ApproverName,
	}
}

// FromScheduleDoc maps a generic schedule event onto the canonical shape,
// applying the per-field fallback chains.
func FromScheduleDoc(doc ScheduleDoc) Record {
	startDate := NormalizeTimestamp(doc.StartDate)
	endDate := NormalizeTimestamp(doc.EndDate)

	duration := 0
	if doc.Days != nil {
		duration = *doc.Days
	} else if d := InclusiveDays(startDate, endDate); d > 0 {
		duration = d
	}

	leaveType := doc.LeaveType
	if leaveType == nil || leaveType == "" {
		// Older writers put the leave type in the event title.
		if doc.Title != "" {
			leaveType = doc.Title
		}
	}

	return Record{
		ID:           doc.ID,
		PersonID:     doc.UserID,
		PersonType:   normalizePersonType(doc.UserType),
		PersonName:   doc.UserName,
		PersonRank:   doc.Rank,
		Unit:         doc.Unit,
		LeaveType:    NormalizeLeaveType(leaveType),
		StartDate:    startDate,
		EndDate:      endDate,
		Duration:     duration,
		Destination:  doc.Destination,
		Contact:      doc.Contact,
		Reason:       doc.Reason,
		Status:       Status(NormalizeStatus(doc.Status, false)),
		CreatedAt:    NormalizeTimestamp(doc.RequestedAt),
		UpdatedAt:    NormalizeTimestamp(doc.UpdatedAt),
		ApproverName: doc.ApproverName,
	}
}

// normalizePersonType defaults to soldier; the schedules collection never
// recorded a user type for its earliest documents.
func normalizePersonType(raw string) PersonType {
	switch raw {
	case string(PersonOfficer), "간부", "장교":
		return PersonOfficer
	default:
		return PersonSoldier
	}
}
