// Package memory provides in-memory implementations of the leave sources.
package memory

import (
	"context"
	"sync"

	"github.com/91038/armyitda-sub001/leave"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Store holds both collections and the balance documents behind one mutex.
// It satisfies leave.LeaveSource, leave.ScheduleSource, and
// leave.BalanceStore via the three accessor types below.
type Store struct {
	mu        sync.RWMutex
	leaves    map[string]leave.LeaveDoc
	schedules map[string]leave.ScheduleDoc
	balances  map[string]leave.PersonLeaveBalance
}

func New() *Store {
	return &Store{
		leaves:    make(map[string]leave.LeaveDoc),
		schedules: make(map[string]leave.ScheduleDoc),
		balances:  make(map[string]leave.PersonLeaveBalance),
	}
}

func (s *Store) Leaves() *LeaveCollection       { return &LeaveCollection{s} }
func (s *Store) Schedules() *ScheduleCollection { return &ScheduleCollection{s} }
func (s *Store) Balances() *BalanceCollection   { return &BalanceCollection{s} }

// =============================================================================
// LEAVES COLLECTION
// =============================================================================

type LeaveCollection struct {
	store *Store
}

func (c *LeaveCollection) Query(_ context.Context, q leave.LeaveQuery) ([]leave.LeaveDoc, error) {
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()

	var result []leave.LeaveDoc
	for _, doc := range c.store.leaves {
		if q.PersonID != "" && doc.PersonID != q.PersonID {
			continue
		}
		if q.PersonType != "" && doc.PersonType != q.PersonType {
			continue
		}
		result = append(result, doc)
	}
	return result, nil
}

func (c *LeaveCollection) Get(_ context.Context, id string) (*leave.LeaveDoc, error) {
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()

	doc, ok := c.store.leaves[id]
	if !ok {
		return nil, leave.ErrRecordNotFound
	}
	return &doc, nil
}

func (c *LeaveCollection) Create(_ context.Context, doc leave.LeaveDoc) error {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	c.store.leaves[doc.ID] = doc
	return nil
}

func (c *LeaveCollection) SetStatus(_ context.Context, id, status, approverName, updatedAt string) error {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	doc, ok := c.store.leaves[id]
	if !ok {
		return leave.ErrRecordNotFound
	}
	doc.Status = status
	doc.UpdatedAt = updatedAt
	if approverName != "" {
		doc.ApproverName = approverName
	}
	c.store.leaves[id] = doc
	return nil
}

func (c *LeaveCollection) Delete(_ context.Context, id string) error {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	if _, ok := c.store.leaves[id]; !ok {
		return leave.ErrRecordNotFound
	}
	delete(c.store.leaves, id)
	return nil
}

// =============================================================================
// SCHEDULES COLLECTION
// =============================================================================

type ScheduleCollection struct {
	store *Store
}

func (c *ScheduleCollection) Query(_ context.Context, q leave.ScheduleQuery) ([]leave.ScheduleDoc, error) {
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()

	var result []leave.ScheduleDoc
	for _, doc := range c.store.schedules {
		if doc.EventType != leave.ScheduleEventLeave {
			continue
		}
		if q.UserID != "" && doc.UserID != q.UserID {
			continue
		}
		if q.Status != "" && doc.Status != q.Status {
			continue
		}
		if q.StartAfter != "" && leave.DateOnly(leave.NormalizeTimestamp(doc.StartDate)) < leave.DateOnly(q.StartAfter) {
			continue
		}
		if q.EndBefore != "" && leave.DateOnly(leave.NormalizeTimestamp(doc.EndDate)) > leave.DateOnly(q.EndBefore) {
			continue
		}
		result = append(result, doc)
	}
	return result, nil
}

func (c *ScheduleCollection) Get(_ context.Context, id string) (*leave.ScheduleDoc, error) {
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()

	doc, ok := c.store.schedules[id]
	if !ok {
		return nil, leave.ErrRecordNotFound
	}
	return &doc, nil
}

func (c *ScheduleCollection) Create(_ context.Context, doc leave.ScheduleDoc) error {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	c.store.schedules[doc.ID] = doc
	return nil
}

func (c *ScheduleCollection) SetStatus(_ context.Context, id, status, approverName, updatedAt string) error {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	doc, ok := c.store.schedules[id]
	if !ok {
		return leave.ErrRecordNotFound
	}
	doc.Status = status
	doc.UpdatedAt = updatedAt
	if approverName != "" {
		doc.ApproverName = approverName
	}
	c.store.schedules[id] = doc
	return nil
}

func (c *ScheduleCollection) Delete(_ context.Context, id string) error {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	if _, ok := c.store.schedules[id]; !ok {
		return leave.ErrRecordNotFound
	}
	delete(c.store.schedules, id)
	return nil
}

// =============================================================================
// BALANCES
// =============================================================================

type BalanceCollection struct {
	store *Store
}

func (c *BalanceCollection) Get(_ context.Context, personID string) (*leave.PersonLeaveBalance, error) {
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()

	balance, ok := c.store.balances[personID]
	if !ok {
		return nil, leave.ErrBalanceNotFound
	}
	copied := balance
	copied.Entries = append([]leave.BalanceEntry(nil), balance.Entries...)
	return &copied, nil
}

func (c *BalanceCollection) Save(_ context.Context, balance leave.PersonLeaveBalance) error {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	balance.Entries = append([]leave.BalanceEntry(nil), balance.Entries...)
	c.store.balances[balance.PersonID] = balance
	return nil
}

func (c *BalanceCollection) List(_ context.Context) ([]leave.PersonLeaveBalance, error) {
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()

	result := make([]leave.PersonLeaveBalance, 0, len(c.store.balances))
	for _, b := range c.store.balances {
		copied := b
		copied.Entries = append([]leave.BalanceEntry(nil), b.Entries...)
		result = append(result, copied)
	}
	return result, nil
}
