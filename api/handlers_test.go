/*
handlers_test.go - HTTP-level tests for the reconciliation API

Exercises the router end to end over the in-memory store: envelope shape,
integrated listing, status transitions, and balance round trips.
*/
package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/91038/armyitda-sub001/api"
	"github.com/91038/armyitda-sub001/leave"
	"github.com/91038/armyitda-sub001/store/memory"
)

// envelope mirrors api.Envelope with raw data for per-test decoding.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func newTestRouter(t *testing.T) (http.Handler, *memory.Store) {
	t.Helper()
	store := memory.New()
	svc := leave.NewService(store.Leaves(), store.Schedules(), store.Balances(), nil)
	return api.NewRouter(api.NewHandler(svc, nil)), store
}

func do(t *testing.T, router http.Handler, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), "body: %s", rec.Body.String())
	return rec, env
}

func TestSubmitAndListIntegratedLeaves(t *testing.T) {
	router, store := newTestRouter(t)

	// Submit through the leaves path.
	rec, env := do(t, router, http.MethodPost, "/api/leaves", api.SubmitLeaveRequest{
		PersonID:   "p-1",
		PersonType: "soldier",
		PersonName: "김철수",
		LeaveTypes: []leave.TypeEntry{{ID: "a", Name: "연가"}},
		StartDate:  "2025-03-10",
		EndDate:    "2025-03-14",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.True(t, env.Success)

	// Seed the other source directly.
	require.NoError(t, store.Schedules().Create(context.Background(), leave.ScheduleDoc{
		ID:        "sc-1",
		EventType: leave.ScheduleEventLeave,
		UserID:    "p-2",
		UserType:  "officer",
		LeaveType: "청원휴가",
		StartDate: "2025-04-01T00:00:00Z",
		EndDate:   "2025-04-02T00:00:00Z",
		Status:    "pending",
	}))

	rec, env = do(t, router, http.MethodGet, "/api/leaves", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, env.Success)

	var records []leave.Record
	require.NoError(t, json.Unmarshal(env.Data, &records))
	assert.Len(t, records, 2, "both sources feed the integrated view")

	rec, env = do(t, router, http.MethodGet, "/api/leaves?personType=officer", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &records))
	require.Len(t, records, 1)
	assert.Equal(t, "sc-1", records[0].ID)
}

func TestSubmitLeave_ValidationFailure(t *testing.T) {
	router, _ := newTestRouter(t)

	rec, env := do(t, router, http.MethodPost, "/api/leaves", api.SubmitLeaveRequest{
		PersonID:  "p-1",
		StartDate: "2025-03-14",
		EndDate:   "2025-03-10",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
	assert.NotEmpty(t, env.Error)
}

func TestListIntegratedLeaves_LimitValidation(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, limit := range []string{"abc", "-1", "99999999999999999999"} {
		rec, env := do(t, router, http.MethodGet, "/api/leaves?limit="+limit, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "limit=%s", limit)
		assert.False(t, env.Success)
	}
}

func TestUpdateLeaveStatus_DualProbeOverHTTP(t *testing.T) {
	router, store := newTestRouter(t)

	require.NoError(t, store.Schedules().Create(context.Background(), leave.ScheduleDoc{
		ID:        "sc-1",
		EventType: leave.ScheduleEventLeave,
		UserID:    "p-1",
		LeaveType: "연가",
		StartDate: "2025-04-01T00:00:00Z",
		EndDate:   "2025-04-05T00:00:00Z",
		Status:    "pending",
	}))

	// Preferred collection misses; the other one is probed.
	rec, env := do(t, router, http.MethodPost, "/api/leaves/sc-1/status", api.UpdateStatusRequest{
		Status:       "승인",
		Collection:   "leaves",
		ApproverName: "대대장",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, env.Success)

	var record leave.Record
	require.NoError(t, json.Unmarshal(env.Data, &record))
	assert.Equal(t, leave.StatusApproved, record.Status)
	assert.Equal(t, "대대장", record.ApproverName)
}

func TestUpdateLeaveStatus_NotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	rec, env := do(t, router, http.MethodPost, "/api/leaves/ghost/status", api.UpdateStatusRequest{
		Status: "approved",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, env.Success)
	assert.Contains(t, env.Error, "ghost")
}

func TestBalanceRoundTripOverHTTP(t *testing.T) {
	router, store := newTestRouter(t)

	rec, env := do(t, router, http.MethodPut, "/api/balances/p-1", api.SaveBalanceRequest{
		Entries: []api.BalanceEntryDTO{
			{Name: "연가", RemainingDays: "10", TotalDays: "24"},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, env.Success)

	rec, env = do(t, router, http.MethodGet, "/api/balances/p-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var balance api.BalanceDTO
	require.NoError(t, json.Unmarshal(env.Data, &balance))
	require.Len(t, balance.Entries, 1)
	assert.Equal(t, "10", balance.Entries[0].RemainingDays)

	// Approving a leave record deducts from the stored balance.
	require.NoError(t, store.Leaves().Create(context.Background(), leave.LeaveDoc{
		ID: "lv-1", PersonID: "p-1", LeaveType: "연가",
		StartDate: "2025-03-10T00:00:00Z", EndDate: "2025-03-14T00:00:00Z",
		Duration: 5, Status: "pending",
	}))
	rec, _ = do(t, router, http.MethodPost, "/api/leaves/lv-1/status", api.UpdateStatusRequest{Status: "approved"})
	require.Equal(t, http.StatusOK, rec.Code)

	stored, err := store.Balances().Get(context.Background(), "p-1")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(5).Equal(stored.Entries[0].RemainingDays))
}

func TestDeleteEndpointsAreCollectionScoped(t *testing.T) {
	router, store := newTestRouter(t)

	require.NoError(t, store.Schedules().Create(context.Background(), leave.ScheduleDoc{
		ID: "sc-1", EventType: leave.ScheduleEventLeave, UserID: "p-1",
		StartDate: "2025-04-01T00:00:00Z", EndDate: "2025-04-02T00:00:00Z",
	}))

	// The leaves delete route must not reach into schedules.
	rec, env := do(t, router, http.MethodDelete, "/api/leaves/sc-1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, env.Success)

	rec, env = do(t, router, http.MethodDelete, "/api/schedules/sc-1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
}
