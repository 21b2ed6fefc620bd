/*
service.go - Reconciliation orchestrator and status transitions

PURPOSE:
  The service is the single merge point for the two collections:

  1. IntegratedLeaves: concurrent fetch of both sources with the filters
     each can evaluate natively, client-side post-filtering, stable merge
     sorted descending by start date, final limit truncation.
  2. UpdateStatus: dual-probe by-id resolution (preferred collection first,
     stop at first match), status write-back, and the best-effort balance
     deduction on approval.
  3. Submit / CreateSchedule / Delete: the two independent write paths.

READ-TIME NORMALIZATION:
  No canonical copy of a Record is ever persisted. Every read reconverts
  the raw source document, so drifted data self-heals in the view without
  a migration.

FAILURE POLICY:
  A query error on either source fails the reconciliation read with a
  SourceQueryError; it never panics the caller. The balance deduction on
  approval is isolated in its own error boundary: log and continue, the
  primary status write always wins.

CONCURRENCY:
  The two source queries run concurrently (errgroup). No locking guards
  concurrent status transitions on the same record; the store's
  per-document write serialization is the only safety net. Known gap,
  preserved deliberately.
*/
package leave

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Service reconciles the two leave collections and owns their write paths.
type Service struct {
	Leaves    LeaveSource
	Schedules ScheduleSource
	Balances  BalanceStore
	Log       *zap.Logger

	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time
}

// NewService wires a service over the three stores.
func NewService(leaves LeaveSource, schedules ScheduleSource, balances BalanceStore, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		Leaves:    leaves,
		Schedules: schedules,
		Balances:  balances,
		Log:       log,
		Now:       time.Now,
	}
}

func (s *Service) nowISO() string {
	return s.Now().UTC().Format(time.RFC3339)
}

// =============================================================================
// RECONCILIATION READ
// =============================================================================

// IntegratedLeaves returns the unified view of both collections.
//
// Server-side, each source gets only the predicates it can index natively;
// status synonyms, the date range, person type, and unit are re-applied
// client-side after conversion because the sources cannot be filtered
// uniformly. Empty sources yield an empty list, never an error.
func (s *Service) IntegratedLeaves(ctx context.Context, f Filter) ([]Record, error) {
	var fromLeaves, fromSchedules []Record

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		docs, err := s.Leaves.Query(gctx, LeaveQuery{
			PersonID:   f.PersonID,
			PersonType: string(f.PersonType),
		})
		if err != nil {
			return &SourceQueryError{Collection: CollectionLeaves, Err: err}
		}
		fromLeaves = make([]Record, 0, len(docs))
		for _, doc := range docs {
			fromLeaves = append(fromLeaves, FromLeaveDoc(doc))
		}
		return nil
	})

	g.Go(func() error {
		// Status is never pushed down: the store compares tokens as
		// stored, which would drop records persisted under a synonym
		// before the normalized re-filter can match them.
		docs, err := s.Schedules.Query(gctx, ScheduleQuery{
			UserID:     f.PersonID,
			StartAfter: f.StartAfter,
			EndBefore:  f.EndBefore,
		})
		if err != nil {
			return &SourceQueryError{Collection: CollectionSchedules, Err: err}
		}
		fromSchedules = make([]Record, 0, len(docs))
		for _, doc := range docs {
			fromSchedules = append(fromSchedules, FromScheduleDoc(doc))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := make([]Record, 0, len(fromLeaves)+len(fromSchedules))
	merged = append(merged, fromLeaves...)
	merged = append(merged, fromSchedules...)
	merged = filterRecords(merged, f)

	// Stable: ties keep their original relative order.
	sort.SliceStable(merged, func(i, j int) bool {
		return DateOnly(merged[i].StartDate) > DateOnly(merged[j].StartDate)
	})

	if f.Limit > 0 && len(merged) > f.Limit {
		merged = merged[:f.Limit]
	}
	return merged, nil
}

// filterRecords applies the predicates no source can evaluate natively.
func filterRecords(records []Record, f Filter) []Record {
	wantStatus := ""
	if f.Status != "" {
		wantStatus = NormalizeStatus(f.Status, false)
	}

	out := records[:0]
	for _, r := range records {
		if f.PersonType != "" && r.PersonType != f.PersonType {
			continue
		}
		if f.PersonID != "" && r.PersonID != f.PersonID {
			continue
		}
		if wantStatus != "" && string(r.Status) != wantStatus {
			continue
		}
		if f.StartAfter != "" && DateOnly(r.StartDate) < DateOnly(f.StartAfter) {
			continue
		}
		if f.EndBefore != "" && DateOnly(r.EndDate) > DateOnly(f.EndBefore) {
			continue
		}
		if f.Unit != "" && r.Unit != f.Unit {
			continue
		}
		out = append(out, r)
	}
	return out
}

// =============================================================================
// STATUS TRANSITIONS
// =============================================================================

// UpdateStatus locates id in preferred first, then the other collection,
// writes the normalized status (+ optional approver, fresh UpdatedAt) back
// to whichever held it, and returns the reconverted record.
//
// On a transition to approved the owner's balance entry matching the leave
// type is decremented by the record's duration, floored at zero. That side
// effect is best-effort: failures are logged and never fail the update.
func (s *Service) UpdateStatus(ctx context.Context, id, newStatus string, preferred Collection, approverName string) (*Record, error) {
	// Unknown collection tokens fall back to leaves; Other() then yields
	// schedules, so both collections are always probed.
	switch preferred {
	case CollectionLeaves, CollectionSchedules:
	default:
		preferred = CollectionLeaves
	}
	status := NormalizeStatus(newStatus, false)
	updatedAt := s.nowISO()

	record, err := s.updateIn(ctx, preferred, id, status, approverName, updatedAt)
	if err == nil {
		s.applyApprovalSideEffect(ctx, record, status)
		return record, nil
	}
	if !errors.Is(err, ErrRecordNotFound) {
		return nil, err
	}

	record, err = s.updateIn(ctx, preferred.Other(), id, status, approverName, updatedAt)
	if err == nil {
		s.applyApprovalSideEffect(ctx, record, status)
		return record, nil
	}
	if !errors.Is(err, ErrRecordNotFound) {
		return nil, err
	}

	return nil, &RecordNotFoundError{ID: id, Probed: []Collection{preferred, preferred.Other()}}
}

// updateIn probes a single collection and applies the write there.
func (s *Service) updateIn(ctx context.Context, c Collection, id, status, approverName, updatedAt string) (*Record, error) {
	switch c {
	case CollectionLeaves:
		if _, err := s.Leaves.Get(ctx, id); err != nil {
			return nil, err
		}
		if err := s.Leaves.SetStatus(ctx, id, status, approverName, updatedAt); err != nil {
			return nil, fmt.Errorf("failed to update %s/%s: %w", c, id, err)
		}
		doc, err := s.Leaves.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		r := FromLeaveDoc(*doc)
		return &r, nil
	default:
		if _, err := s.Schedules.Get(ctx, id); err != nil {
			return nil, err
		}
		if err := s.Schedules.SetStatus(ctx, id, status, approverName, updatedAt); err != nil {
			return nil, fmt.Errorf("failed to update %s/%s: %w", c, id, err)
		}
		doc, err := s.Schedules.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		r := FromScheduleDoc(*doc)
		return &r, nil
	}
}

// applyApprovalSideEffect runs the balance deduction in its own error
// boundary. Missing balance documents and missing entries are skipped
// silently; real failures are logged and swallowed.
func (s *Service) applyApprovalSideEffect(ctx context.Context, record *Record, status string) {
	if Status(status) != StatusApproved || record == nil {
		return
	}
	if err := s.deductBalance(ctx, record); err != nil {
		if errors.Is(err, ErrBalanceNotFound) {
			return
		}
		s.Log.Warn("balance deduction failed, status update kept",
			zap.String("record", record.ID),
			zap.String("person", record.PersonID),
			zap.Error(err))
	}
}

func (s *Service) deductBalance(ctx context.Context, record *Record) error {
	balance, err := s.Balances.Get(ctx, record.PersonID)
	if err != nil {
		return err
	}
	if !DeductEntry(balance, record.LeaveType, record.Duration) {
		// No entry matches the leave type; best-effort skip.
		return nil
	}
	balance.UpdatedAt = s.nowISO()
	return s.Balances.Save(ctx, *balance)
}

// =============================================================================
// WRITE PATHS
// =============================================================================

// SubmitInput is a direct leave submission.
type SubmitInput struct {
	PersonID    string
	PersonType  string
	PersonName  string
	PersonRank  string
	Unit        string
	LeaveTypes  []TypeEntry // empty means the generic default type
	StartDate   string
	EndDate     string
	Destination string
	Contact     string
	Reason      string
	Status      string // optional; defaults to pending
}

// Submit creates a record in the leaves collection. Duration is the
// inclusive day count of the requested span.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (*Record, error) {
	start := NormalizeTimestamp(in.StartDate)
	end := NormalizeTimestamp(in.EndDate)
	if DateOnly(end) < DateOnly(start) {
		return nil, ErrInvalidPeriod
	}

	status := string(StatusPending)
	if in.Status != "" {
		status = NormalizeStatus(in.Status, false)
	}

	var leaveType any
	if len(in.LeaveTypes) > 0 {
		leaveType = in.LeaveTypes
	}

	now := s.nowISO()
	doc := LeaveDoc{
		ID:          uuid.NewString(),
		PersonID:    in.PersonID,
		PersonType:  in.PersonType,
		PersonName:  in.PersonName,
		PersonRank:  in.PersonRank,
		Unit:        in.Unit,
		LeaveType:   leaveType,
		StartDate:   start,
		EndDate:     end,
		Duration:    InclusiveDays(start, end),
		Destination: in.Destination,
		Contact:     in.Contact,
		Reason:      in.Reason,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Leaves.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to create leave record: %w", err)
	}

	s.Log.Info("leave submitted",
		zap.String("record", doc.ID),
		zap.String("person", doc.PersonID),
		zap.Int("duration", doc.Duration))

	r := FromLeaveDoc(doc)
	return &r, nil
}

// ScheduleInput is the generic event path another subsystem uses. Only
// leave-like events show up in reconciliation.
type ScheduleInput struct {
	UserID      string
	UserType    string
	UserName    string
	Rank        string
	Unit        string
	Title       string
	LeaveType   string
	StartDate   string
	EndDate     string
	Days        *int
	Destination string
	Contact     string
	Reason      string
	Status      string
}

// CreateSchedule creates a leave-like event in the schedules collection.
func (s *Service) CreateSchedule(ctx context.Context, in ScheduleInput) (*Record, error) {
	start := NormalizeTimestamp(in.StartDate)
	end := NormalizeTimestamp(in.EndDate)
	if DateOnly(end) < DateOnly(start) {
		return nil, ErrInvalidPeriod
	}

	status := string(StatusPending)
	if in.Status != "" {
		status = NormalizeStatus(in.Status, false)
	}

	now := s.nowISO()
	doc := ScheduleDoc{
		ID:          uuid.NewString(),
		EventType:   ScheduleEventLeave,
		UserID:      in.UserID,
		UserType:    in.UserType,
		UserName:    in.UserName,
		Rank:        in.Rank,
		Unit:        in.Unit,
		Title:       in.Title,
		LeaveType:   in.LeaveType,
		StartDate:   start,
		EndDate:     end,
		Days:        in.Days,
		Destination: in.Destination,
		Contact:     in.Contact,
		Reason:      in.Reason,
		Status:      status,
		RequestedAt: now,
		UpdatedAt:   now,
	}
	if err := s.Schedules.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to create schedule record: %w", err)
	}

	r := FromScheduleDoc(doc)
	return &r, nil
}

// Delete removes a record from its own collection. Each write path owns
// its deletion routine; no cross-collection probing here.
func (s *Service) Delete(ctx context.Context, id string, c Collection) error {
	switch c {
	case CollectionSchedules:
		return s.Schedules.Delete(ctx, id)
	default:
		return s.Leaves.Delete(ctx, id)
	}
}

// =============================================================================
// BALANCES
// =============================================================================

// Balance returns the per-person balance document.
func (s *Service) Balance(ctx context.Context, personID string) (*PersonLeaveBalance, error) {
	return s.Balances.Get(ctx, personID)
}

// SaveBalance replaces a person's balance document.
func (s *Service) SaveBalance(ctx context.Context, balance PersonLeaveBalance) error {
	if strings.TrimSpace(balance.PersonID) == "" {
		return fmt.Errorf("balance requires a person id")
	}
	balance.UpdatedAt = s.nowISO()
	return s.Balances.Save(ctx, balance)
}
