/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Persists what the collaborator layer owns: employees with their contract,
  raw punches and the holiday calendar. Worked hours are NEVER stored; they
  are recomputed from punches on every query.

INTERFACES IMPLEMENTED:
  punch.Store:             Punch persistence (append-only)
  generic.HolidayCalendar: Holiday lookup for day statuses

APPEND-ONLY ENFORCEMENT:
  - No UPDATE or DELETE statements on the punches table
  - Corrections are new punches; the classifier's duplicate rule picks one

KEY TABLES:
  employees: Directory with contract settings
  punches:   Immutable clock actions, grouped by record_date
  holidays:  Company and global holidays

INDEXES:
  - idx_punches_employee_date: Day and month loads (hot path)
  - idx_punches_idempotency:   Terminal retries

CONCURRENCY:
  Uses sync.RWMutex for thread-safety, WAL mode for concurrent readers.

USAGE:
  store, err := sqlite.New("./data/hours.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - punch/store.go: Interface definition
  - store/memory: In-memory implementation for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/hours-engine/generic"
	"github.com/warp/hours-engine/punch"
)

// Store implements all storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var (
	_ punch.Store             = (*Store)(nil)
	_ generic.HolidayCalendar = (*Store)(nil)
)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// each connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
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

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT,
		company_id TEXT NOT NULL DEFAULT '',
		contract_type TEXT NOT NULL,
		payment_type TEXT NOT NULL DEFAULT '',
		journey_minutes INTEGER,
		tolerance_minutes INTEGER,
		bank_period TEXT NOT NULL DEFAULT 'monthly',
		hire_date TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	-- Punches (append-only)
	CREATE TABLE IF NOT EXISTS punches (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL REFERENCES employees(id),
		record_date TEXT NOT NULL,
		record_time TEXT NOT NULL,
		kind TEXT NOT NULL CHECK (kind IN ('entry', 'lunch_out', 'lunch_in', 'exit')),
		source TEXT NOT NULL,
		location TEXT,
		notes TEXT,
		idempotency_key TEXT UNIQUE,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_punches_employee_date
		ON punches(employee_id, record_date, record_time);
	CREATE INDEX IF NOT EXISTS idx_punches_idempotency
		ON punches(idempotency_key) WHERE idempotency_key IS NOT NULL;

	CREATE TABLE IF NOT EXISTS holidays (
		id TEXT PRIMARY KEY,
		company_id TEXT NOT NULL DEFAULT '',
		date TEXT NOT NULL,
		name TEXT NOT NULL,
		recurring BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TEXT NOT NULL,
		UNIQUE(company_id, date, name)
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Reset clears all data. Development and scenarios only.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"punches", "holidays", "employees"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to reset %s: %w", table, err)
		}
	}
	return nil
}

// =============================================================================
// PUNCH STORE (punch.Store interface)
// =============================================================================

const punchColumns = `id, employee_id, record_date, record_time, kind, source, location, notes, idempotency_key, created_at`

// AppendPunch adds a punch. Append-only.
func (s *Store) AppendPunch(ctx context.Context, ev punch.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `INSERT INTO punches (` + punchColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	recordedAt := ev.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, query,
		ev.ID,
		string(ev.EmployeeID),
		ev.Date.String(),
		ev.Timestamp.Format(time.RFC3339),
		ev.Kind.String(),
		string(ev.Source),
		nullString(ev.Location),
		nullString(ev.Notes),
		nullString(ev.IdempotencyKey),
		recordedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) && strings.Contains(err.Error(), "idempotency_key") {
			return generic.ErrDuplicateIdempotencyKey
		}
		return fmt.Errorf("failed to append punch: %w", err)
	}
	return nil
}

// LoadDay returns an employee's punches for one date.
func (s *Store) LoadDay(ctx context.Context, employeeID generic.EmployeeID, date generic.TimePoint) ([]punch.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT ` + punchColumns + ` FROM punches
		WHERE employee_id = ? AND record_date = ?
		ORDER BY record_time ASC, created_at ASC`

	return s.queryPunches(ctx, query, string(employeeID), date.String())
}

// LoadRange returns punches with record_date in [from, to].
func (s *Store) LoadRange(ctx context.Context, employeeID generic.EmployeeID, from, to generic.TimePoint) ([]punch.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT ` + punchColumns + ` FROM punches
		WHERE employee_id = ? AND record_date >= ? AND record_date <= ?
		ORDER BY record_date ASC, record_time ASC, created_at ASC`

	return s.queryPunches(ctx, query, string(employeeID), from.String(), to.String())
}

// LoadDate returns every employee's punches for one date, keyed by employee.
func (s *Store) LoadDate(ctx context.Context, date generic.TimePoint) (map[generic.EmployeeID][]punch.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT ` + punchColumns + ` FROM punches
		WHERE record_date = ?
		ORDER BY employee_id ASC, record_time ASC`

	events, err := s.queryPunches(ctx, query, date.String())
	if err != nil {
		return nil, err
	}
	out := make(map[generic.EmployeeID][]punch.Event)
	for _, ev := range events {
		out[ev.EmployeeID] = append(out[ev.EmployeeID], ev)
	}
	return out, nil
}

// Exists checks if an idempotency key exists.
func (s *Store) Exists(ctx context.Context, idempotencyKey string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM punches WHERE idempotency_key = ?",
		idempotencyKey,
	).Scan(&count)

	return count > 0, err
}

func (s *Store) queryPunches(ctx context.Context, query string, args ...any) ([]punch.Event, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query punches: %w", err)
	}
	defer rows.Close()

	var events []punch.Event
	for rows.Next() {
		ev, err := scanPunch(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

func scanPunch(rows *sql.Rows) (punch.Event, error) {
	var (
		ev             punch.Event
		employeeID     string
		recordDate     string
		recordTime     string
		kind           string
		source         string
		location       sql.NullString
		notes          sql.NullString
		idempotencyKey sql.NullString
		createdAt      string
	)

	err := rows.Scan(&ev.ID, &employeeID, &recordDate, &recordTime, &kind, &source,
		&location, &notes, &idempotencyKey, &createdAt)
	if err != nil {
		return ev, fmt.Errorf("failed to scan punch: %w", err)
	}

	if ev.Kind, err = punch.ParseKind(kind); err != nil {
		return ev, err
	}
	if ev.Date, err = generic.ParseTimePoint(recordDate); err != nil {
		return ev, fmt.Errorf("punch %s: bad record_date: %w", ev.ID, err)
	}
	if ev.Timestamp, err = time.Parse(time.RFC3339, recordTime); err != nil {
		return ev, fmt.Errorf("punch %s: bad record_time: %w", ev.ID, err)
	}
	ev.EmployeeID = generic.EmployeeID(employeeID)
	ev.Source = punch.Source(source)
	ev.Location = location.String
	ev.Notes = notes.String
	ev.IdempotencyKey = idempotencyKey.String
	ev.RecordedAt, _ = time.Parse(time.RFC3339, createdAt)

	return ev, nil
}

// =============================================================================
// EMPLOYEE STORE
// =============================================================================

// Employee is a directory entry with its contract settings. Nil journey or
// tolerance means the engine default.
type Employee struct {
	ID               string
	Name             string
	Email            string
	CompanyID        string
	ContractType     string
	PaymentType      string
	JourneyMinutes   *int
	ToleranceMinutes *int
	BankPeriod       string
	HireDate         time.Time
	CreatedAt        time.Time
}

const employeeColumns = `id, name, email, company_id, contract_type, payment_type,
	journey_minutes, tolerance_minutes, bank_period, hire_date, created_at`

// SaveEmployee inserts or updates an employee.
func (s *Store) SaveEmployee(ctx context.Context, emp Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bankPeriod := emp.BankPeriod
	if bankPeriod == "" {
		bankPeriod = string(generic.PeriodMonthly)
	}

	query := `
		INSERT INTO employees (` + employeeColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			company_id = excluded.company_id,
			contract_type = excluded.contract_type,
			payment_type = excluded.payment_type,
			journey_minutes = excluded.journey_minutes,
			tolerance_minutes = excluded.tolerance_minutes,
			bank_period = excluded.bank_period,
			hire_date = excluded.hire_date
	`

	_, err := s.db.ExecContext(ctx, query,
		emp.ID, emp.Name, emp.Email, emp.CompanyID,
		emp.ContractType, emp.PaymentType,
		nullInt(emp.JourneyMinutes), nullInt(emp.ToleranceMinutes),
		bankPeriod,
		emp.HireDate.Format("2006-01-02"),
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// GetEmployee retrieves an employee by ID; nil when absent.
func (s *Store) GetEmployee(ctx context.Context, id string) (*Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, "SELECT "+employeeColumns+" FROM employees WHERE id = ?", id)
	emp, err := scanEmployee(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

// ListEmployees returns all employees ordered by name.
func (s *Store) ListEmployees(ctx context.Context) ([]Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT "+employeeColumns+" FROM employees ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

// DeleteEmployee removes an employee without punches.
func (s *Store) DeleteEmployee(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM employees WHERE id = ?", id)
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row scanner) (Employee, error) {
	var (
		emp       Employee
		email     sql.NullString
		journey   sql.NullInt64
		tolerance sql.NullInt64
		hireDate  string
		createdAt string
	)
	err := row.Scan(&emp.ID, &emp.Name, &email, &emp.CompanyID, &emp.ContractType, &emp.PaymentType,
		&journey, &tolerance, &emp.BankPeriod, &hireDate, &createdAt)
	if err != nil {
		return emp, err
	}
	emp.Email = email.String
	if journey.Valid {
		v := int(journey.Int64)
		emp.JourneyMinutes = &v
	}
	if tolerance.Valid {
		v := int(tolerance.Int64)
		emp.ToleranceMinutes = &v
	}
	emp.HireDate, _ = time.Parse("2006-01-02", hireDate)
	emp.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return emp, nil
}

// =============================================================================
// HOLIDAY CALENDAR IMPLEMENTATION
// =============================================================================

// SaveHoliday saves a holiday to the database.
func (s *Store) SaveHoliday(ctx context.Context, h generic.Holiday) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO holidays (id, company_id, date, name, recurring, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(company_id, date, name) DO UPDATE SET
			recurring = excluded.recurring
	`

	_, err := s.db.ExecContext(ctx, query,
		h.ID,
		h.CompanyID,
		h.Date.String(),
		h.Name,
		h.Recurring,
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// DeleteHoliday deletes a holiday by ID.
func (s *Store) DeleteHoliday(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM holidays WHERE id = ?", id)
	return err
}

// GetHolidays returns all holidays for a company in a given year, including
// global ones. Recurring holidays are moved into the requested year.
func (s *Store) GetHolidays(companyID string, year int) []generic.Holiday {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, company_id, date, name, recurring
		FROM holidays
		WHERE (company_id = ? OR company_id = '')
		  AND (recurring = TRUE OR strftime('%Y', date) = ?)
		ORDER BY strftime('%m-%d', date) ASC
	`

	rows, err := s.db.Query(query, companyID, fmt.Sprintf("%04d", year))
	if err != nil {
		return nil
	}
	defer rows.Close()

	var holidays []generic.Holiday
	for rows.Next() {
		h, err := scanHoliday(rows)
		if err != nil {
			continue
		}
		if h.Recurring {
			h.Date = generic.NewTimePoint(year, h.Date.Month(), h.Date.Day())
		}
		holidays = append(holidays, h)
	}
	return holidays
}

// IsHoliday checks if a date is a holiday for the given company.
func (s *Store) IsHoliday(companyID string, date generic.TimePoint) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT COUNT(*) FROM holidays
		WHERE (company_id = ? OR company_id = '')
		  AND (
			(recurring = FALSE AND date = ?)
			OR (recurring = TRUE AND strftime('%m-%d', date) = ?)
		  )
	`

	var count int
	err := s.db.QueryRow(query, companyID, date.String(), date.Time.Format("01-02")).Scan(&count)
	if err != nil {
		return false
	}
	return count > 0
}

// GetAllHolidays returns all holidays visible to a company (for admin UI).
func (s *Store) GetAllHolidays(ctx context.Context, companyID string) ([]generic.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, company_id, date, name, recurring
		FROM holidays
		WHERE company_id = ? OR company_id = ''
		ORDER BY date ASC
	`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holidays []generic.Holiday
	for rows.Next() {
		h, err := scanHoliday(rows)
		if err != nil {
			return nil, err
		}
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}

func scanHoliday(row scanner) (generic.Holiday, error) {
	var (
		h       generic.Holiday
		dateStr string
	)
	if err := row.Scan(&h.ID, &h.CompanyID, &dateStr, &h.Name, &h.Recurring); err != nil {
		return h, err
	}
	date, err := generic.ParseTimePoint(dateStr)
	if err != nil {
		return h, err
	}
	h.Date = date
	return h, nil
}

// Helper functions

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func isUniqueConstraintError(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "duplicate key"))
}
