/*
handlers.go - HTTP API handlers for the worked-hours engine

PURPOSE:
  Exposes punch capture, day classification, monthly reports and the bank
  of hours via REST API. Handles HTTP request/response, JSON serialization,
  and delegates to the punch and hours packages.

ENDPOINTS:
  Employees:
    GET    /api/employees                       List all employees
    POST   /api/employees                       Create or update employee
    GET    /api/employees/{id}                  Get employee details

  Punches:
    POST   /api/employees/{id}/punches          Record a punch (now)
    GET    /api/employees/{id}/today            Today's record + next expected kind
    GET    /api/employees/{id}/days/{date}      Classified day + hours result

  Reports:
    GET    /api/employees/{id}/report           Monthly report (?year=&month=)
    GET    /api/employees/{id}/bank             Bank of hours (?date=&period=)
    GET    /api/reports/daily                   Every employee's day (?date=)

  Holidays:
    GET    /api/holidays                        List holidays
    POST   /api/holidays                        Create holiday
    DELETE /api/holidays/{id}                   Delete holiday

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: Database access (employees, punches, holidays)
  - Contracts: Contract JSON to profile/policy conversion
  - Recorder: Punch capture against the injected clock
  - Translator: Localized labels, chosen from Accept-Language

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input
  3. Load punches, classify days, evaluate policy
  4. Serialize response
  5. Handle errors

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Employee not found
  - 409: Conflict (slot taken, day complete, idempotency)
  - 422: Stored contract cannot be evaluated
  - 500: Internal errors

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/warp/hours-engine/factory"
	"github.com/warp/hours-engine/generic"
	"github.com/warp/hours-engine/hours"
	"github.com/warp/hours-engine/i18n"
	"github.com/warp/hours-engine/punch"
	"github.com/warp/hours-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Options configures a Handler. Zero values get defaults in NewHandler.
type Options struct {
	Clock          generic.Clock
	Location       *time.Location
	Translator     *i18n.Translator
	ReportWorkers  int
	AllowedOrigins []string

	// Holidays are saved by SeedHolidays and restored after a reset.
	Holidays []generic.Holiday
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store      *sqlite.Store
	Contracts  *factory.ContractFactory
	Recorder   *punch.Recorder
	Translator *i18n.Translator
	Clock      generic.Clock
	Location   *time.Location

	ReportWorkers  int
	AllowedOrigins []string

	// DayClose checks closed days in the background; cmd/server starts it.
	DayClose *DayCloseScheduler

	holidays []generic.Holiday

	// Track currently loaded scenario
	currentScenario string
}

// NewHandler creates a new handler with the given store.
func NewHandler(store *sqlite.Store, opts Options) (*Handler, error) {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Clock == nil {
		opts.Clock = generic.SystemClock{Location: opts.Location}
	}
	if opts.Translator == nil {
		tr, err := i18n.New("en")
		if err != nil {
			return nil, err
		}
		opts.Translator = tr
	}
	if opts.ReportWorkers <= 0 {
		opts.ReportWorkers = 1
	}

	h := &Handler{
		Store:          store,
		Contracts:      factory.NewContractFactory(),
		Recorder:       punch.NewRecorder(store, opts.Clock, opts.Location),
		Translator:     opts.Translator,
		Clock:          opts.Clock,
		Location:       opts.Location,
		ReportWorkers:  opts.ReportWorkers,
		AllowedOrigins: opts.AllowedOrigins,
		holidays:       opts.Holidays,
	}
	h.DayClose = NewDayCloseScheduler(h)
	return h, nil
}

func (h *Handler) classifier() punch.Classifier {
	return punch.Classifier{Location: h.Location}
}

// today is the same day reports use to tell future from missing.
func (h *Handler) today() generic.TimePoint {
	return h.classifier().Today(h.Clock)
}

// contractFor rebuilds the contract stored on an employee row.
func (h *Handler) contractFor(emp sqlite.Employee) (*factory.ContractConfig, error) {
	return h.Contracts.FromJSON(contractJSON(emp))
}

func contractJSON(emp sqlite.Employee) factory.ContractJSON {
	return factory.ContractJSON{
		ContractType:     emp.ContractType,
		PaymentType:      emp.PaymentType,
		JourneyMinutes:   emp.JourneyMinutes,
		ToleranceMinutes: emp.ToleranceMinutes,
		BankPeriod:       emp.BankPeriod,
	}
}

// loadEmployee writes a 404/500 and returns nil when the employee can't be used.
func (h *Handler) loadEmployee(w http.ResponseWriter, r *http.Request) *sqlite.Employee {
	emp, err := h.Store.GetEmployee(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get employee", err)
		return nil
	}
	if emp == nil {
		writeError(w, http.StatusNotFound, "Employee not found", generic.ErrEmployeeNotFound)
		return nil
	}
	return emp
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns all employees.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}

	dtos := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		dtos[i] = h.employeeDTO(r.Context(), e)
	}

	writeJSON(w, http.StatusOK, dtos)
}

// GetEmployee returns a single employee.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	emp := h.loadEmployee(w, r)
	if emp == nil {
		return
	}
	writeJSON(w, http.StatusOK, h.employeeDTO(r.Context(), *emp))
}

// CreateEmployee creates or updates an employee. The contract is validated
// before anything is written.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "id and name are required", nil)
		return
	}

	cfg, err := h.Contracts.FromJSON(req.ContractJSON)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid contract", err)
		return
	}

	var hireDate time.Time
	if req.HireDate != "" {
		hireDate, err = time.Parse("2006-01-02", req.HireDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid hire_date format (use YYYY-MM-DD)", err)
			return
		}
	}

	stored := h.Contracts.ToJSON(*cfg)
	emp := sqlite.Employee{
		ID:               req.ID,
		Name:             req.Name,
		Email:            req.Email,
		CompanyID:        req.CompanyID,
		ContractType:     stored.ContractType,
		PaymentType:      stored.PaymentType,
		JourneyMinutes:   stored.JourneyMinutes,
		ToleranceMinutes: stored.ToleranceMinutes,
		BankPeriod:       stored.BankPeriod,
		HireDate:         hireDate,
	}

	if err := h.Store.SaveEmployee(r.Context(), emp); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save employee", err)
		return
	}

	writeJSON(w, http.StatusCreated, h.employeeDTO(r.Context(), emp))
}

func (h *Handler) employeeDTO(ctx context.Context, e sqlite.Employee) EmployeeDTO {
	dto := EmployeeDTO{
		ID:        e.ID,
		Name:      e.Name,
		Email:     e.Email,
		CompanyID: e.CompanyID,
		Contract:  contractJSON(e),
	}
	if !e.HireDate.IsZero() {
		dto.HireDate = e.HireDate.Format("2006-01-02")
	}
	if !e.CreatedAt.IsZero() {
		dto.CreatedAt = e.CreatedAt.Format(time.RFC3339)
	}
	profile := hours.Profile{
		ContractType: hours.ContractType(e.ContractType),
		PaymentType:  hours.PaymentType(e.PaymentType),
	}
	if regime, err := profile.Regime(); err == nil {
		dto.Regime = regime.Name()
		dto.RegimeLabel = labelFor(ctx, h.Translator, "regime", regime.Name())
	}
	return dto
}

// =============================================================================
// PUNCH HANDLERS
// =============================================================================

// RecordPunch records a punch at the current time.
// POST /api/employees/{id}/punches
func (h *Handler) RecordPunch(w http.ResponseWriter, r *http.Request) {
	emp := h.loadEmployee(w, r)
	if emp == nil {
		return
	}

	// An empty body records the next expected kind.
	var req RecordPunchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	pr := punch.Request{
		EmployeeID:     generic.EmployeeID(emp.ID),
		Source:         punch.Source(req.Source),
		Location:       req.Location,
		Notes:          req.Notes,
		IdempotencyKey: req.IdempotencyKey,
	}
	if req.Kind != "" {
		kind, err := punch.ParseKind(req.Kind)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid punch kind", err)
			return
		}
		pr.Kind = &kind
	}

	ctx := r.Context()
	ev, err := h.Recorder.Record(ctx, pr)
	if err != nil {
		status := errorStatus(err)
		msg := "Failed to record punch"
		if errors.Is(err, generic.ErrDayComplete) {
			msg = h.Translator.T(ctx, "punch.day_complete")
		}
		writeError(w, status, msg, err)
		return
	}

	dto := h.punchDTO(ctx, ev)
	dto.Message = h.Translator.T(ctx, "punch.recorded", map[string]any{
		"Kind": dto.KindLabel,
		"Time": dto.Time,
	})
	writeJSON(w, http.StatusCreated, dto)
}

// GetToday returns today's record and what the next punch will be.
// GET /api/employees/{id}/today
func (h *Handler) GetToday(w http.ResponseWriter, r *http.Request) {
	emp := h.loadEmployee(w, r)
	if emp == nil {
		return
	}
	dto, ok := h.evaluateDay(w, r, *emp, h.today())
	if !ok {
		return
	}

	ctx := r.Context()
	events, err := h.Store.LoadDay(ctx, generic.EmployeeID(emp.ID), h.today())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load punches", err)
		return
	}
	if next, open := punch.NextExpectedKind(events); open {
		dto.NextExpected = next.String()
		dto.NextExpectedLabel = h.Translator.T(ctx, "punch."+next.String())
	} else {
		dto.DayClosed = true
	}

	writeJSON(w, http.StatusOK, dto)
}

// GetDay returns one classified day.
// GET /api/employees/{id}/days/{date}
func (h *Handler) GetDay(w http.ResponseWriter, r *http.Request) {
	date, err := generic.ParseTimePoint(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}
	emp := h.loadEmployee(w, r)
	if emp == nil {
		return
	}
	dto, ok := h.evaluateDay(w, r, *emp, date)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

// evaluateDay is the single-day form of a report, so a day looks the same
// here as in the month view.
func (h *Handler) evaluateDay(w http.ResponseWriter, r *http.Request, emp sqlite.Employee, date generic.TimePoint) (DayDTO, bool) {
	ctx := r.Context()
	cfg, err := h.contractFor(emp)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Employee contract is invalid", err)
		return DayDTO{}, false
	}
	events, err := h.Store.LoadDay(ctx, generic.EmployeeID(emp.ID), date)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load punches", err)
		return DayDTO{}, false
	}

	rep, err := hours.BuildReport(h.reportInput(emp, cfg, generic.Period{Start: date, End: date}, events))
	if err != nil {
		writeError(w, errorStatus(err), "Failed to evaluate day", err)
		return DayDTO{}, false
	}
	day := rep.Days[0]
	return h.dayDTO(ctx, day.Record, day.Result), true
}

// =============================================================================
// REPORT HANDLERS
// =============================================================================

// GetReport returns the monthly report of an employee. Defaults to the
// current month.
// GET /api/employees/{id}/report?year=2025&month=3
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	today := h.today()
	year, month := today.Year(), today.Month()
	if v := r.URL.Query().Get("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil || y < 1 {
			writeError(w, http.StatusBadRequest, "Invalid year", err)
			return
		}
		year = y
	}
	if v := r.URL.Query().Get("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			writeError(w, http.StatusBadRequest, "Invalid month (1-12)", err)
			return
		}
		month = time.Month(m)
	}

	emp := h.loadEmployee(w, r)
	if emp == nil {
		return
	}
	cfg, err := h.contractFor(*emp)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Employee contract is invalid", err)
		return
	}

	ctx := r.Context()
	period := generic.MonthPeriod(year, month)
	events, err := h.Store.LoadRange(ctx, generic.EmployeeID(emp.ID), period.Start, period.End)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load punches", err)
		return
	}

	rep, err := hours.BuildReport(h.reportInput(*emp, cfg, period, events))
	if err != nil {
		writeError(w, errorStatus(err), "Failed to build report", err)
		return
	}
	logAnomalies(rep)

	dto := h.reportDTO(ctx, rep, cfg.BankPeriod.Type)
	dto.EmployeeName = emp.Name
	dto.Bank.EmployeeID = emp.ID
	writeJSON(w, http.StatusOK, dto)
}

// GetBank returns the bank of hours for the period containing date. The
// period type comes from the contract unless overridden.
// GET /api/employees/{id}/bank?date=2025-03-10&period=quadrimester
func (h *Handler) GetBank(w http.ResponseWriter, r *http.Request) {
	asOf := h.today()
	if v := r.URL.Query().Get("date"); v != "" {
		d, err := generic.ParseTimePoint(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
			return
		}
		asOf = d
	}

	emp := h.loadEmployee(w, r)
	if emp == nil {
		return
	}
	cfg, err := h.contractFor(*emp)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Employee contract is invalid", err)
		return
	}

	periodCfg := cfg.BankPeriod
	if v := r.URL.Query().Get("period"); v != "" {
		pt, err := generic.ParsePeriodType(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid period", err)
			return
		}
		periodCfg = generic.PeriodConfig{Type: pt}
	}

	ctx := r.Context()
	period := periodCfg.PeriodFor(asOf)
	events, err := h.Store.LoadRange(ctx, generic.EmployeeID(emp.ID), period.Start, period.End)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load punches", err)
		return
	}

	rep, err := hours.BuildReport(h.reportInput(*emp, cfg, period, events))
	if err != nil {
		writeError(w, errorStatus(err), "Failed to build bank of hours", err)
		return
	}
	logAnomalies(rep)

	dto := newBank(rep.Bank, period)
	dto.EmployeeID = emp.ID
	dto.PeriodType = string(periodCfg.Type)
	dto.AsOf = asOf.String()
	writeJSON(w, http.StatusOK, dto)
}

// DailyReport classifies one day for every employee. Reports are computed
// in parallel; employees with an unusable contract are skipped.
// GET /api/reports/daily?date=2025-03-10
func (h *Handler) DailyReport(w http.ResponseWriter, r *http.Request) {
	date := h.today()
	if v := r.URL.Query().Get("date"); v != "" {
		d, err := generic.ParseTimePoint(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
			return
		}
		date = d
	}

	ctx := r.Context()
	reports, names, err := h.dailyReports(ctx, date)
	if err != nil {
		writeError(w, errorStatus(err), "Failed to build daily report", err)
		return
	}

	rows := make([]DailyRowDTO, 0, len(reports))
	for i, rep := range reports {
		logAnomalies(rep)
		day := rep.Days[0]
		rows = append(rows, DailyRowDTO{
			EmployeeID:   string(rep.EmployeeID),
			EmployeeName: names[i],
			Day:          h.dayDTO(ctx, day.Record, day.Result),
		})
	}
	writeJSON(w, http.StatusOK, rows)
}

// dailyReports builds a one-day report per employee, in parallel. names is
// aligned with reports.
func (h *Handler) dailyReports(ctx context.Context, date generic.TimePoint) ([]hours.Report, []string, error) {
	employees, err := h.Store.ListEmployees(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list employees: %w", err)
	}
	byEmployee, err := h.Store.LoadDate(ctx, date)
	if err != nil {
		return nil, nil, fmt.Errorf("load punches: %w", err)
	}

	var (
		inputs []hours.ReportInput
		names  []string
	)
	period := generic.Period{Start: date, End: date}
	for _, emp := range employees {
		cfg, err := h.contractFor(emp)
		if err != nil {
			log.Printf("daily report: skipping %s: %v", emp.ID, err)
			continue
		}
		inputs = append(inputs, h.reportInput(emp, cfg, period, byEmployee[generic.EmployeeID(emp.ID)]))
		names = append(names, emp.Name)
	}

	reports, err := hours.BuildReports(ctx, inputs, h.ReportWorkers)
	if err != nil {
		return nil, nil, err
	}
	return reports, names, nil
}

func (h *Handler) reportInput(emp sqlite.Employee, cfg *factory.ContractConfig, period generic.Period, events []punch.Event) hours.ReportInput {
	policy := cfg.Policy
	return hours.ReportInput{
		EmployeeID: generic.EmployeeID(emp.ID),
		CompanyID:  emp.CompanyID,
		Period:     period,
		Events:     events,
		Profile:    cfg.Profile,
		Policy:     &policy,
		Clock:      h.Clock,
		Calendar:   h.Store,
		Classifier: h.classifier(),
	}
}

func logAnomalies(rep hours.Report) {
	if rep.Anomalies == 0 {
		return
	}
	for _, d := range rep.Days {
		if d.Record.Anomaly {
			log.Printf("anomaly: employee=%s date=%s breakdown=%+v", rep.EmployeeID, d.Record.Date, d.Record.Breakdown)
		}
	}
}

// =============================================================================
// HOLIDAY ENDPOINTS
// =============================================================================

// ListHolidays returns all holidays.
// GET /api/holidays
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	companyID := r.URL.Query().Get("company_id")

	holidays, err := h.Store.GetAllHolidays(ctx, companyID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get holidays", err)
		return
	}

	dtos := make([]HolidayDTO, 0, len(holidays))
	for _, hol := range holidays {
		dtos = append(dtos, holidayDTO(hol))
	}

	writeJSON(w, http.StatusOK, dtos)
}

// CreateHoliday creates a new holiday.
// POST /api/holidays
func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req CreateHolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if req.Date == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "Date and name are required", nil)
		return
	}

	date, err := generic.ParseTimePoint(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	holiday := generic.Holiday{
		ID:        uuid.NewString(),
		CompanyID: req.CompanyID,
		Date:      date,
		Name:      req.Name,
		Recurring: req.Recurring,
	}

	if err := h.Store.SaveHoliday(r.Context(), holiday); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save holiday", err)
		return
	}

	writeJSON(w, http.StatusCreated, holidayDTO(holiday))
}

// DeleteHoliday removes a holiday.
// DELETE /api/holidays/{id}
func (h *Handler) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Store.DeleteHoliday(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete holiday", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"status": "deleted"})
}

// =============================================================================
// HELPERS
// =============================================================================

// errorStatus maps domain errors to HTTP statuses.
func errorStatus(err error) int {
	switch {
	case generic.IsNotFound(err):
		return http.StatusNotFound
	case generic.IsConflict(err):
		return http.StatusConflict
	case generic.IsClientError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
