/*
handlers.go - HTTP API handlers for the leave reconciliation service

PURPOSE:
  Exposes the reconciliation layer via REST. Handles HTTP request/response,
  JSON serialization, and delegates to the leave service.

ENDPOINTS:
  Leaves:
    GET    /api/leaves              Integrated view of both collections
    POST   /api/leaves              Submit a leave (leaves collection)
    POST   /api/leaves/{id}/status  Transition status (dual-probe)
    DELETE /api/leaves/{id}         Delete from the leaves collection

  Schedules:
    POST   /api/schedules           Create a leave-like event
    DELETE /api/schedules/{id}      Delete from the schedules collection

  Balances:
    GET    /api/balances            List balance documents
    GET    /api/balances/{personId} Get one person's balance
    PUT    /api/balances/{personId} Replace one person's balance entries

ERROR HANDLING:
  Every failure is recovered at the handler boundary and written as the
  {"success": false, "error": "..."} envelope with an appropriate status:
  - 400: validation errors, invalid input
  - 404: record/balance not found in any probed source
  - 500: source query failures, internal errors

SEE ALSO:
  - dto.go: request/response data structures
  - server.go: router setup and middleware
*/
package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/91038/armyitda-sub001/leave"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Svc *leave.Service
	Log *zap.Logger
}

// NewHandler creates a new handler over the leave service.
func NewHandler(svc *leave.Service, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{Svc: svc, Log: log}
}

// =============================================================================
// LEAVE HANDLERS
// =============================================================================

// ListIntegratedLeaves returns the unified view of both collections.
// Query params: personType, personId, status, startAfter, endBefore, unit, limit.
func (h *Handler) ListIntegratedLeaves(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := leave.Filter{
		PersonType: leave.PersonType(q.Get("personType")),
		PersonID:   q.Get("personId"),
		Status:     q.Get("status"),
		StartAfter: q.Get("startAfter"),
		EndBefore:  q.Get("endBefore"),
		Unit:       q.Get("unit"),
	}
	if limit := q.Get("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		filter.Limit = n
	}

	records, err := h.Svc.IntegratedLeaves(r.Context(), filter)
	if err != nil {
		h.Log.Error("integrated leave query failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeData(w, http.StatusOK, records)
}

// SubmitLeave creates a record via the direct leave path.
func (h *Handler) SubmitLeave(w http.ResponseWriter, r *http.Request) {
	var req SubmitLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.PersonID == "" || req.StartDate == "" || req.EndDate == "" {
		writeError(w, http.StatusBadRequest, "personId, startDate and endDate are required")
		return
	}

	record, err := h.Svc.Submit(r.Context(), leave.SubmitInput{
		PersonID:    req.PersonID,
		PersonType:  req.PersonType,
		PersonName:  req.PersonName,
		PersonRank:  req.PersonRank,
		Unit:        req.Unit,
		LeaveTypes:  req.LeaveTypes,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Destination: req.Destination,
		Contact:     req.Contact,
		Reason:      req.Reason,
		Status:      req.Status,
	})
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeData(w, http.StatusCreated, record)
}

// UpdateLeaveStatus applies a status transition with dual-probe resolution.
func (h *Handler) UpdateLeaveStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Status == "" {
		writeError(w, http.StatusBadRequest, "status is required")
		return
	}

	record, err := h.Svc.UpdateStatus(r.Context(), id, req.Status,
		leave.Collection(req.Collection), req.ApproverName)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeData(w, http.StatusOK, record)
}

// DeleteLeave removes a record from the leaves collection.
func (h *Handler) DeleteLeave(w http.ResponseWriter, r *http.Request) {
	h.deleteFrom(w, r, leave.CollectionLeaves)
}

// =============================================================================
// SCHEDULE HANDLERS
// =============================================================================

// CreateSchedule creates a leave-like event via the generic path.
func (h *Handler) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	var req CreateScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID == "" || req.StartDate == "" || req.EndDate == "" {
		writeError(w, http.StatusBadRequest, "userId, startDate and endDate are required")
		return
	}

	record, err := h.Svc.CreateSchedule(r.Context(), leave.ScheduleInput{
		UserID:      req.UserID,
		UserType:    req.UserType,
		UserName:    req.UserName,
		Rank:        req.Rank,
		Unit:        req.Unit,
		Title:       req.Title,
		LeaveType:   req.LeaveType,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Days:        req.Days,
		Destination: req.Destination,
		Contact:     req.Contact,
		Reason:      req.Reason,
		Status:      req.Status,
	})
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeData(w, http.StatusCreated, record)
}

// DeleteSchedule removes a record from the schedules collection.
func (h *Handler) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	h.deleteFrom(w, r, leave.CollectionSchedules)
}

func (h *Handler) deleteFrom(w http.ResponseWriter, r *http.Request, c leave.Collection) {
	id := chi.URLParam(r, "id")
	if err := h.Svc.Delete(r.Context(), id, c); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeData(w, http.StatusOK, map[string]string{"id": id})
}

// =============================================================================
// BALANCE HANDLERS
// =============================================================================

// ListBalances returns every person's balance document.
func (h *Handler) ListBalances(w http.ResponseWriter, r *http.Request) {
	balances, err := h.Svc.Balances.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	dtos := make([]BalanceDTO, len(balances))
	for i := range balances {
		dtos[i] = toBalanceDTO(&balances[i])
	}
	writeData(w, http.StatusOK, dtos)
}

// GetBalance returns a single person's balance document.
func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	personID := chi.URLParam(r, "personId")
	balance, err := h.Svc.Balance(r.Context(), personID)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeData(w, http.StatusOK, toBalanceDTO(balance))
}

// SaveBalance replaces a person's balance entries.
func (h *Handler) SaveBalance(w http.ResponseWriter, r *http.Request) {
	personID := chi.URLParam(r, "personId")

	var req SaveBalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	entries, err := fromBalanceEntryDTOs(req.Entries)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid day count: "+err.Error())
		return
	}

	if err := h.Svc.SaveBalance(r.Context(), leave.PersonLeaveBalance{
		PersonID: personID,
		Entries:  entries,
	}); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeData(w, http.StatusOK, map[string]string{"personId": personID})
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func statusFor(err error) int {
	switch {
	case leave.IsNotFound(err):
		return http.StatusNotFound
	case leave.IsClientError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, Envelope{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, Envelope{Success: false, Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
