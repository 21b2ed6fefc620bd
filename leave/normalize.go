/*
normalize.go - Status, timestamp, and leave-type normalization

PURPOSE:
  The two source collections were written by independently evolving callers
  without a shared enum or date convention. English canonical tokens, Korean
  synonyms, native timestamp objects, ISO strings, and loose date strings
  all occur in the wild. Everything funnels through the three normalizers
  here before a Record is allowed to exist.

LENIENCY CONTRACT:
  Unrecognized inputs never fail the caller. Status tokens pass through
  unchanged, timestamp shapes degrade to the current instant, leave-type
  shapes degrade to a generic label. Fallbacks are logged via zap so the
  drift stays visible; availability wins over strict validation.

SEE ALSO:
  - convert.go: the only call sites on the read path
  - service.go: write paths normalize status before persisting
*/
package leave

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// =============================================================================
// STATUS NORMALIZER
// =============================================================================

// statusSynonyms maps every known raw token (lowercased) to the canonical
// English status. Korean variants accumulated across app versions; keep
// them all.
var statusSynonyms = map[string]Status{
	"pending":  StatusPending,
	"waiting":  StatusPending,
	"신청":       StatusPending,
	"신청됨":      StatusPending,
	"대기":       StatusPending,
	"대기중":      StatusPending,
	"심사중":      StatusPending,

	"approved": StatusApproved,
	"approve":  StatusApproved,
	"승인":       StatusApproved,
	"승인됨":      StatusApproved,

	"rejected": StatusRejected,
	"returned": StatusRejected,
	"거절":       StatusRejected,
	"거절됨":      StatusRejected,
	"반려":       StatusRejected,
	"거부":       StatusRejected,

	"personal": StatusPersonal,
	"개인":       StatusPersonal,
	"개인사유":     StatusPersonal,
}

// statusKorean maps canonical English statuses to display labels.
var statusKorean = map[Status]string{
	StatusPending:  "대기",
	StatusApproved: "승인",
	StatusRejected: "거절",
	StatusPersonal: "개인",
}

// NormalizeStatus maps a free-form status token to its canonical form.
// Lookup is case-insensitive. Unrecognized tokens pass through unchanged;
// this leniency is deliberate, not a defect to silently fix.
//
// With toKorean, the canonical form is mapped a second time to its fixed
// Korean display label; unrecognized canonical values again pass through.
func NormalizeStatus(raw string, toKorean bool) string {
	canonical := raw
	if s, ok := statusSynonyms[strings.ToLower(strings.TrimSpace(raw))]; ok {
		canonical = string(s)
	}
	if !toKorean {
		return canonical
	}
	if label, ok := statusKorean[Status(canonical)]; ok {
		return label
	}
	return canonical
}

// CanonicalStatus normalizes raw and reports whether the result is one of
// the four canonical values. Write paths use it to decide defaults.
func CanonicalStatus(raw string) (Status, bool) {
	s := Status(NormalizeStatus(raw, false))
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusPersonal:
		return s, true
	}
	return s, false
}

// =============================================================================
// TIMESTAMP NORMALIZER
// =============================================================================

// TimeConvertible is the shape of a document-database timestamp value.
// The sqlite store never produces these, but raw documents sourced from a
// managed document store do.
type TimeConvertible interface {
	ToTime() time.Time
}

// looseLayouts are tried, in order, for strings that miss the ISO pattern.
var looseLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"2006.01.02",
}

// NormalizeTimestamp coerces a heterogeneous timestamp value into an
// ISO-8601 string.
//
// Accepted shapes: time.Time, *time.Time, TimeConvertible, a string whose
// first 19 characters match the ISO pattern (returned verbatim), or any
// other string one of the loose layouts can parse.
//
// Nil and empty inputs return the current instant. That is a fallback
// default, not a meaningful business value; callers must not read it as
// "no date". Unrecognized shapes are logged and also fall back to now.
func NormalizeTimestamp(v any) string {
	now := time.Now().UTC().Format(time.RFC3339)

	switch t := v.(type) {
	case nil:
		return now
	case time.Time:
		if t.IsZero() {
			return now
		}
		return t.UTC().Format(time.RFC3339)
	case *time.Time:
		if t == nil || t.IsZero() {
			return now
		}
		return t.UTC().Format(time.RFC3339)
	case TimeConvertible:
		return t.ToTime().UTC().Format(time.RFC3339)
	case string:
		if t == "" {
			return now
		}
		if isISOPrefix(t) {
			return t
		}
		for _, layout := range looseLayouts {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed.UTC().Format(time.RFC3339)
			}
		}
		zap.L().Warn("unparseable timestamp string, defaulting to now",
			zap.String("value", t))
		return now
	default:
		zap.L().Warn("unrecognized timestamp shape, defaulting to now",
			zap.String("type", fmt.Sprintf("%T", v)))
		return now
	}
}

// isISOPrefix checks the first 19 characters against YYYY-MM-DDTHH:MM:SS.
// A space separator is accepted alongside 'T'.
func isISOPrefix(s string) bool {
	if len(s) < 19 {
		return false
	}
	for i, c := range s[:19] {
		switch i {
		case 4, 7:
			if c != '-' {
				return false
			}
		case 10:
			if c != 'T' && c != ' ' {
				return false
			}
		case 13, 16:
			if c != ':' {
				return false
			}
		default:
			if c < '0' || c > '9' {
				return false
			}
		}
	}
	return true
}

// =============================================================================
// LEAVE-TYPE NORMALIZER
// =============================================================================

// DefaultLeaveType is the generic label used when a record carries no
// usable leave-type information.
const DefaultLeaveType = "휴가"

// NormalizeLeaveType coerces a leave-type value into a single display
// string. A plain string is returned as-is; a list of entries joins the
// names with "+"; anything else degrades to DefaultLeaveType.
func NormalizeLeaveType(v any) string {
	switch t := v.(type) {
	case nil:
		return DefaultLeaveType
	case string:
		if t == "" {
			return DefaultLeaveType
		}
		return t
	case []TypeEntry:
		return joinEntryNames(entryNames(t))
	case []any:
		// Decoded JSON arrives as []any of map[string]any.
		var names []string
		for _, e := range t {
			if m, ok := e.(map[string]any); ok {
				if name, ok := m["name"].(string); ok && name != "" {
					names = append(names, name)
				}
			}
		}
		return joinEntryNames(names)
	default:
		zap.L().Warn("unrecognized leave type shape, using default",
			zap.String("type", fmt.Sprintf("%T", v)))
		return DefaultLeaveType
	}
}

func entryNames(entries []TypeEntry) []string {
	var names []string
	for _, e := range entries {
		if e.Name != "" {
			names = append(names, e.Name)
		}
	}
	return names
}

func joinEntryNames(names []string) string {
	if len(names) == 0 {
		return DefaultLeaveType
	}
	return strings.Join(names, "+")
}

// =============================================================================
// DATE HELPERS
// =============================================================================

// DateOnly truncates an ISO timestamp to its date component for
// comparisons. StartDate/EndDate ordering is date-only by contract.
func DateOnly(iso string) string {
	if len(iso) > 10 {
		return iso[:10]
	}
	return iso
}

// InclusiveDays returns the day count between two ISO dates, inclusive of
// both endpoints. Returns 0 when either side fails to parse.
func InclusiveDays(startDate, endDate string) int {
	start, err1 := time.Parse("2006-01-02", DateOnly(startDate))
	end, err2 := time.Parse("2006-01-02", DateOnly(endDate))
	if err1 != nil || err2 != nil {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}
