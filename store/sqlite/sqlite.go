/*
Package sqlite provides a SQLite-backed implementation of the leave sources.

PURPOSE:
  Implements leave.LeaveSource, leave.ScheduleSource, and leave.BalanceStore
  over SQLite. The production deployment sits on a managed document database;
  the same dual-collection query surface applies, which is why the two
  tables stay deliberately un-joined.

KEY TABLES:
  leaves:         dedicated leave submissions
  schedules:      generic events; leave-like rows carry event_type='leave'
  leave_balances: one row per person, entries as a JSON column

HETEROGENEOUS COLUMNS:
  leave_type_json holds either a JSON string or a JSON array of typed
  entries, mirroring the drift in the source documents. Timestamps are TEXT
  and re-normalized on read; the store never canonicalizes them.

WAL MODE:
  Opened with WAL for better concurrency: multiple readers don't block,
  single writer at a time.

USAGE:
  store, err := sqlite.New("./data/leaves.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()
  svc := leave.NewService(store.Leaves(), store.Schedules(), store.Balances(), logger)

SEE ALSO:
  - leave/source.go: interface definitions
  - store/memory: in-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/91038/armyitda-sub001/leave"
)

// Store implements the three storage interfaces using SQLite.
type Store struct {
	db *sql.DB
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Leaves() *LeaveCollection       { return &LeaveCollection{db: s.db} }
func (s *Store) Schedules() *ScheduleCollection { return &ScheduleCollection{db: s.db} }
func (s *Store) Balances() *BalanceCollection   { return &BalanceCollection{db: s.db} }

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS leaves (
		id TEXT PRIMARY KEY,
		person_id TEXT NOT NULL,
		person_type TEXT NOT NULL DEFAULT '',
		person_name TEXT NOT NULL DEFAULT '',
		person_rank TEXT NOT NULL DEFAULT '',
		unit TEXT NOT NULL DEFAULT '',
		leave_type_json TEXT,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		duration INTEGER NOT NULL DEFAULT 0,
		destination TEXT NOT NULL DEFAULT '',
		contact TEXT NOT NULL DEFAULT '',
		reason TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL DEFAULT '',
		updated_at TEXT NOT NULL DEFAULT '',
		approver_name TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_leaves_person
		ON leaves(person_id, person_type);
	CREATE INDEX IF NOT EXISTS idx_leaves_start_date
		ON leaves(start_date DESC);

	CREATE TABLE IF NOT EXISTS schedules (
		id TEXT PRIMARY KEY,
		event_type TEXT NOT NULL,
		user_id TEXT NOT NULL,
		user_type TEXT NOT NULL DEFAULT '',
		user_name TEXT NOT NULL DEFAULT '',
		user_rank TEXT NOT NULL DEFAULT '',
		unit TEXT NOT NULL DEFAULT '',
		title TEXT NOT NULL DEFAULT '',
		leave_type_json TEXT,
		start_date TEXT NOT NULL DEFAULT '',
		end_date TEXT NOT NULL DEFAULT '',
		days INTEGER,
		destination TEXT NOT NULL DEFAULT '',
		contact TEXT NOT NULL DEFAULT '',
		reason TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT '',
		requested_at TEXT NOT NULL DEFAULT '',
		updated_at TEXT NOT NULL DEFAULT '',
		approver_name TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_schedules_event_user
		ON schedules(event_type, user_id);
	CREATE INDEX IF NOT EXISTS idx_schedules_start_date
		ON schedules(start_date);

	CREATE TABLE IF NOT EXISTS leave_balances (
		person_id TEXT PRIMARY KEY,
		entries_json TEXT NOT NULL,
		updated_at TEXT NOT NULL DEFAULT ''
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// encodeLeaveType marshals the heterogeneous leave-type value. NULL for nil.
func encodeLeaveType(v any) (sql.NullString, error) {
	if v == nil {
		return sql.NullString{}, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to encode leave type: %w", err)
	}
	return sql.NullString{String: string(raw), Valid: true}, nil
}

// decodeLeaveType reverses encodeLeaveType. Arrays decode to []any, which
// leave.NormalizeLeaveType handles the same as []TypeEntry.
func decodeLeaveType(raw sql.NullString) any {
	if !raw.Valid || raw.String == "" {
		return nil
	}
	var v any
	if err := json.Unmarshal([]byte(raw.String), &v); err != nil {
		// Legacy rows stored the bare string without JSON quoting.
		return raw.String
	}
	return v
}

// =============================================================================
// LEAVES COLLECTION
// =============================================================================

type LeaveCollection struct {
	db *sql.DB
}

const leaveColumns = `id, person_id, person_type, person_name, person_rank, unit,
	leave_type_json, start_date, end_date, duration, destination, contact,
	reason, status, created_at, updated_at, approver_name`

func (c *LeaveCollection) Query(ctx context.Context, q leave.LeaveQuery) ([]leave.LeaveDoc, error) {
	query := "SELECT " + leaveColumns + " FROM leaves WHERE 1=1"
	var args []any
	if q.PersonID != "" {
		query += " AND person_id = ?"
		args = append(args, q.PersonID)
	}
	if q.PersonType != "" {
		query += " AND person_type = ?"
		args = append(args, q.PersonType)
	}
	query += " ORDER BY start_date DESC"

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []leave.LeaveDoc
	for rows.Next() {
		doc, err := scanLeave(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (c *LeaveCollection) Get(ctx context.Context, id string) (*leave.LeaveDoc, error) {
	row := c.db.QueryRowContext(ctx, "SELECT "+leaveColumns+" FROM leaves WHERE id = ?", id)
	doc, err := scanLeave(row)
	if err == sql.ErrNoRows {
		return nil, leave.ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (c *LeaveCollection) Create(ctx context.Context, doc leave.LeaveDoc) error {
	leaveType, err := encodeLeaveType(doc.LeaveType)
	if err != nil {
		return err
	}
	_, err = c.db.ExecContext(ctx, `
		INSERT INTO leaves (`+leaveColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		doc.ID, doc.PersonID, doc.PersonType, doc.PersonName, doc.PersonRank, doc.Unit,
		leaveType, textOf(doc.StartDate), textOf(doc.EndDate), doc.Duration,
		doc.Destination, doc.Contact, doc.Reason, doc.Status,
		textOf(doc.CreatedAt), textOf(doc.UpdatedAt), doc.ApproverName)
	return err
}

func (c *LeaveCollection) SetStatus(ctx context.Context, id, status, approverName, updatedAt string) error {
	return setStatus(ctx, c.db, "leaves", id, status, approverName, updatedAt)
}

func (c *LeaveCollection) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, c.db, "leaves", id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLeave(row rowScanner) (leave.LeaveDoc, error) {
	var doc leave.LeaveDoc
	var leaveType sql.NullString
	var startDate, endDate, createdAt, updatedAt string
	err := row.Scan(&doc.ID, &doc.PersonID, &doc.PersonType, &doc.PersonName,
		&doc.PersonRank, &doc.Unit, &leaveType, &startDate, &endDate,
		&doc.Duration, &doc.Destination, &doc.Contact, &doc.Reason,
		&doc.Status, &createdAt, &updatedAt, &doc.ApproverName)
	if err != nil {
		return doc, err
	}
	doc.LeaveType = decodeLeaveType(leaveType)
	doc.StartDate = startDate
	doc.EndDate = endDate
	doc.CreatedAt = createdAt
	doc.UpdatedAt = updatedAt
	return doc, nil
}

// =============================================================================
// SCHEDULES COLLECTION
// =============================================================================

type ScheduleCollection struct {
	db *sql.DB
}

const scheduleColumns = `id, event_type, user_id, user_type, user_name, user_rank, unit,
	title, leave_type_json, start_date, end_date, days, destination, contact,
	reason, status, requested_at, updated_at, approver_name`

func (c *ScheduleCollection) Query(ctx context.Context, q leave.ScheduleQuery) ([]leave.ScheduleDoc, error) {
	query := "SELECT " + scheduleColumns + " FROM schedules WHERE event_type = ?"
	args := []any{leave.ScheduleEventLeave}
	if q.UserID != "" {
		query += " AND user_id = ?"
		args = append(args, q.UserID)
	}
	if q.Status != "" {
		query += " AND status = ?"
		args = append(args, q.Status)
	}
	if q.StartAfter != "" {
		query += " AND substr(start_date, 1, 10) >= ?"
		args = append(args, leave.DateOnly(q.StartAfter))
	}
	if q.EndBefore != "" {
		query += " AND substr(end_date, 1, 10) <= ?"
		args = append(args, leave.DateOnly(q.EndBefore))
	}

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []leave.ScheduleDoc
	for rows.Next() {
		doc, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (c *ScheduleCollection) Get(ctx context.Context, id string) (*leave.ScheduleDoc, error) {
	row := c.db.QueryRowContext(ctx, "SELECT "+scheduleColumns+" FROM schedules WHERE id = ?", id)
	doc, err := scanSchedule(row)
	if err == sql.ErrNoRows {
		return nil, leave.ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (c *ScheduleCollection) Create(ctx context.Context, doc leave.ScheduleDoc) error {
	leaveType, err := encodeLeaveType(doc.LeaveType)
	if err != nil {
		return err
	}
	var days sql.NullInt64
	if doc.Days != nil {
		days = sql.NullInt64{Int64: int64(*doc.Days), Valid: true}
	}
	_, err = c.db.ExecContext(ctx, `
		INSERT INTO schedules (`+scheduleColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		doc.ID, doc.EventType, doc.UserID, doc.UserType, doc.UserName, doc.Rank,
		doc.Unit, doc.Title, leaveType, textOf(doc.StartDate), textOf(doc.EndDate),
		days, doc.Destination, doc.Contact, doc.Reason, doc.Status,
		textOf(doc.RequestedAt), textOf(doc.UpdatedAt), doc.ApproverName)
	return err
}

func (c *ScheduleCollection) SetStatus(ctx context.Context, id, status, approverName, updatedAt string) error {
	return setStatus(ctx, c.db, "schedules", id, status, approverName, updatedAt)
}

func (c *ScheduleCollection) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, c.db, "schedules", id)
}

func scanSchedule(row rowScanner) (leave.ScheduleDoc, error) {
	var doc leave.ScheduleDoc
	var leaveType sql.NullString
	var days sql.NullInt64
	var startDate, endDate, requestedAt, updatedAt string
	err := row.Scan(&doc.ID, &doc.EventType, &doc.UserID, &doc.UserType,
		&doc.UserName, &doc.Rank, &doc.Unit, &doc.Title, &leaveType,
		&startDate, &endDate, &days, &doc.Destination, &doc.Contact,
		&doc.Reason, &doc.Status, &requestedAt, &updatedAt, &doc.ApproverName)
	if err != nil {
		return doc, err
	}
	doc.LeaveType = decodeLeaveType(leaveType)
	doc.StartDate = startDate
	doc.EndDate = endDate
	doc.RequestedAt = requestedAt
	doc.UpdatedAt = updatedAt
	if days.Valid {
		n := int(days.Int64)
		doc.Days = &n
	}
	return doc, nil
}

// =============================================================================
// BALANCES
// =============================================================================

type BalanceCollection struct {
	db *sql.DB
}

func (c *BalanceCollection) Get(ctx context.Context, personID string) (*leave.PersonLeaveBalance, error) {
	var entriesJSON, updatedAt string
	err := c.db.QueryRowContext(ctx,
		"SELECT entries_json, updated_at FROM leave_balances WHERE person_id = ?",
		personID).Scan(&entriesJSON, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, leave.ErrBalanceNotFound
	}
	if err != nil {
		return nil, err
	}

	var entries []leave.BalanceEntry
	if err := json.Unmarshal([]byte(entriesJSON), &entries); err != nil {
		return nil, fmt.Errorf("failed to decode balance entries: %w", err)
	}
	return &leave.PersonLeaveBalance{
		PersonID:  personID,
		Entries:   entries,
		UpdatedAt: updatedAt,
	}, nil
}

func (c *BalanceCollection) Save(ctx context.Context, balance leave.PersonLeaveBalance) error {
	raw, err := json.Marshal(balance.Entries)
	if err != nil {
		return fmt.Errorf("failed to encode balance entries: %w", err)
	}
	_, err = c.db.ExecContext(ctx, `
		INSERT INTO leave_balances (person_id, entries_json, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(person_id) DO UPDATE SET
			entries_json = excluded.entries_json,
			updated_at = excluded.updated_at`,
		balance.PersonID, string(raw), balance.UpdatedAt)
	return err
}

func (c *BalanceCollection) List(ctx context.Context) ([]leave.PersonLeaveBalance, error) {
	rows, err := c.db.QueryContext(ctx,
		"SELECT person_id, entries_json, updated_at FROM leave_balances ORDER BY person_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var balances []leave.PersonLeaveBalance
	for rows.Next() {
		var b leave.PersonLeaveBalance
		var entriesJSON string
		if err := rows.Scan(&b.PersonID, &entriesJSON, &b.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(entriesJSON), &b.Entries); err != nil {
			return nil, fmt.Errorf("failed to decode balance entries: %w", err)
		}
		balances = append(balances, b)
	}
	return balances, rows.Err()
}

// =============================================================================
// SHARED HELPERS
// =============================================================================

func setStatus(ctx context.Context, db *sql.DB, table, id, status, approverName, updatedAt string) error {
	var res sql.Result
	var err error
	if approverName != "" {
		res, err = db.ExecContext(ctx,
			"UPDATE "+table+" SET status = ?, approver_name = ?, updated_at = ? WHERE id = ?",
			status, approverName, updatedAt, id)
	} else {
		res, err = db.ExecContext(ctx,
			"UPDATE "+table+" SET status = ?, updated_at = ? WHERE id = ?",
			status, updatedAt, id)
	}
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return leave.ErrRecordNotFound
	}
	return nil
}

func deleteByID(ctx context.Context, db *sql.DB, table, id string) error {
	res, err := db.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return leave.ErrRecordNotFound
	}
	return nil
}

// textOf stores heterogeneous timestamp values as TEXT. The store persists
// what it was given; normalization stays a read-time concern.
func textOf(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return leave.NormalizeTimestamp(v)
}
