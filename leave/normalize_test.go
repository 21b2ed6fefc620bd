package leave

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// =============================================================================
// STATUS NORMALIZER
// =============================================================================

func TestNormalizeStatus_SynonymCoverage(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"pending", "pending"},
		{"Pending", "pending"},
		{"waiting", "pending"},
		{"신청", "pending"},
		{"대기", "pending"},
		{"대기중", "pending"},
		{"approved", "approved"},
		{"승인", "approved"},
		{"승인됨", "approved"},
		{"rejected", "rejected"},
		{"returned", "rejected"},
		{"거절", "rejected"},
		{"반려", "rejected"},
		{"거부", "rejected"},
		{"personal", "personal"},
		{"개인", "personal"},
		{"개인사유", "personal"},
	}
	for _, tc := range cases {
		if got := NormalizeStatus(tc.raw, false); got != tc.want {
			t.Errorf("NormalizeStatus(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestNormalizeStatus_Idempotent(t *testing.T) {
	// For all canonical values s: normalize(normalize(s)) == normalize(s).
	for _, s := range []string{"pending", "approved", "rejected", "personal"} {
		once := NormalizeStatus(s, false)
		twice := NormalizeStatus(once, false)
		if once != twice {
			t.Errorf("normalization not idempotent for %q: %q != %q", s, once, twice)
		}
	}
}

func TestNormalizeStatus_UnknownPassesThrough(t *testing.T) {
	// Leniency contract: unrecognized tokens survive unchanged.
	if got := NormalizeStatus("archived", false); got != "archived" {
		t.Errorf("unknown status mangled: %q", got)
	}
	if got := NormalizeStatus("archived", true); got != "archived" {
		t.Errorf("unknown status mangled by Korean mapping: %q", got)
	}
}

func TestNormalizeStatus_KoreanLabels(t *testing.T) {
	assert.Equal(t, "승인", NormalizeStatus("승인", true))
	assert.Equal(t, "승인", NormalizeStatus("approved", true))
	assert.Equal(t, "대기", NormalizeStatus("pending", true))
	assert.Equal(t, "거절", NormalizeStatus("returned", true))
	assert.Equal(t, "개인", NormalizeStatus("personal", true))
}

func TestCanonicalStatus(t *testing.T) {
	s, ok := CanonicalStatus("신청")
	assert.True(t, ok)
	assert.Equal(t, StatusPending, s)

	_, ok = CanonicalStatus("archived")
	assert.False(t, ok)
}

// =============================================================================
// TIMESTAMP NORMALIZER
// =============================================================================

// docTimestamp mimics a document-database timestamp value.
type docTimestamp struct {
	t time.Time
}

func (d docTimestamp) ToTime() time.Time { return d.t }

func TestNormalizeTimestamp_ISORoundTrip(t *testing.T) {
	// Strings matching the 19-char ISO pattern come back verbatim.
	for _, iso := range []string{
		"2025-03-10T00:00:00Z",
		"2025-03-10T09:30:00+09:00",
		"2025-03-10 09:30:00",
	} {
		if got := NormalizeTimestamp(iso); got != iso {
			t.Errorf("NormalizeTimestamp(%q) = %q, want verbatim", iso, got)
		}
	}
}

func TestNormalizeTimestamp_Shapes(t *testing.T) {
	at := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)

	assert.Equal(t, "2025-03-10T09:00:00Z", NormalizeTimestamp(at))
	assert.Equal(t, "2025-03-10T09:00:00Z", NormalizeTimestamp(&at))
	assert.Equal(t, "2025-03-10T09:00:00Z", NormalizeTimestamp(docTimestamp{t: at}))
	assert.Equal(t, "2025-03-10T00:00:00Z", NormalizeTimestamp("2025-03-10"))
	assert.Equal(t, "2025-03-10T00:00:00Z", NormalizeTimestamp("2025/03/10"))
}

func TestNormalizeTimestamp_FallsBackToNow(t *testing.T) {
	before := time.Now().Add(-time.Minute)
	for _, v := range []any{nil, "", "not a date", 42} {
		got, err := time.Parse(time.RFC3339, NormalizeTimestamp(v))
		if err != nil {
			t.Fatalf("fallback for %v is not RFC3339: %v", v, err)
		}
		if got.Before(before) {
			t.Errorf("fallback for %v is not the current instant: %v", v, got)
		}
	}
}

// =============================================================================
// LEAVE-TYPE NORMALIZER
// =============================================================================

func TestNormalizeLeaveType(t *testing.T) {
	assert.Equal(t, "연가", NormalizeLeaveType("연가"))
	assert.Equal(t, "휴가", NormalizeLeaveType(nil))
	assert.Equal(t, "휴가", NormalizeLeaveType(""))
	assert.Equal(t, "휴가", NormalizeLeaveType(42))

	assert.Equal(t, "연가", NormalizeLeaveType([]TypeEntry{{ID: "a", Name: "연가"}}))
	assert.Equal(t, "연가+포상휴가", NormalizeLeaveType([]TypeEntry{
		{ID: "a", Name: "연가"},
		{ID: "b", Name: "포상휴가", Days: 3},
	}))

	// Decoded-JSON shape.
	assert.Equal(t, "연가+포상휴가", NormalizeLeaveType([]any{
		map[string]any{"id": "a", "name": "연가"},
		map[string]any{"id": "b", "name": "포상휴가"},
	}))
	assert.Equal(t, "휴가", NormalizeLeaveType([]any{}))
}

// =============================================================================
// DATE HELPERS
// =============================================================================

func TestDateOnly(t *testing.T) {
	assert.Equal(t, "2025-03-10", DateOnly("2025-03-10T09:00:00Z"))
	assert.Equal(t, "2025-03-10", DateOnly("2025-03-10"))
	assert.Equal(t, "", DateOnly(""))
}

func TestInclusiveDays(t *testing.T) {
	// Both endpoints count: 10th through 14th is five days.
	assert.Equal(t, 5, InclusiveDays("2025-03-10", "2025-03-14"))
	assert.Equal(t, 1, InclusiveDays("2025-03-10", "2025-03-10"))
	assert.Equal(t, 5, InclusiveDays("2025-03-10T00:00:00Z", "2025-03-14T23:00:00Z"))
	assert.Equal(t, 0, InclusiveDays("garbage", "2025-03-14"))
}
