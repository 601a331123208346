/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. DTOs decouple the
  internal domain model from the external API contract.

WHY SEPARATE DTOs:
  - Domain types carry minutes as integers; the API adds "HH:MM" text and
    decimal hours next to them
  - Labels (punch kinds, statuses, regimes) are localized per request
  - Internal types can change without breaking clients

DTO CATEGORIES:
  Employee:
    EmployeeDTO, CreateEmployeeRequest

  Punches:
    RecordPunchRequest, PunchDTO, SlotDTO

  Days and reports:
    DayDTO, DurationDTO, ReportDTO, BankDTO, DailyRowDTO

  Holidays:
    HolidayDTO, CreateHolidayRequest

  Scenarios:
    ScenarioDTO, LoadScenarioRequest

VALIDATION:
  Validation is done in handlers and the contract factory, not in DTOs.
  DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/policy.go: ContractJSON type
*/
package api

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/warp/hours-engine/factory"
	"github.com/warp/hours-engine/generic"
	"github.com/warp/hours-engine/hours"
	"github.com/warp/hours-engine/i18n"
	"github.com/warp/hours-engine/punch"
)

// =============================================================================
// EMPLOYEE DTOs
// =============================================================================

// EmployeeDTO represents an employee in API responses.
type EmployeeDTO struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Email       string               `json:"email,omitempty"`
	CompanyID   string               `json:"company_id,omitempty"`
	HireDate    string               `json:"hire_date,omitempty"`
	CreatedAt   string               `json:"created_at,omitempty"`
	Contract    factory.ContractJSON `json:"contract"`
	Regime      string               `json:"regime,omitempty"`
	RegimeLabel string               `json:"regime_label,omitempty"`
}

// CreateEmployeeRequest is the request to create or update an employee.
type CreateEmployeeRequest struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CompanyID string `json:"company_id"`
	HireDate  string `json:"hire_date"`
	factory.ContractJSON
}

// =============================================================================
// PUNCH DTOs
// =============================================================================

// RecordPunchRequest records a punch at the server's current time. Kind is
// optional; when empty the next expected kind is used.
type RecordPunchRequest struct {
	Kind           string `json:"kind,omitempty"`
	Source         string `json:"source,omitempty"`
	Location       string `json:"location,omitempty"`
	Notes          string `json:"notes,omitempty"`
	IdempotencyKey string `json:"idempotency_key,omitempty"`
}

// PunchDTO represents one stored punch.
type PunchDTO struct {
	ID        string `json:"id"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Timestamp string `json:"timestamp"`
	Kind      string `json:"kind"`
	KindLabel string `json:"kind_label"`
	Source    string `json:"source"`
	Location  string `json:"location,omitempty"`
	Notes     string `json:"notes,omitempty"`
	Message   string `json:"message,omitempty"`
}

// SlotDTO is one position of the day's breakdown; Time is empty when the
// slot has no punch.
type SlotDTO struct {
	Kind  string `json:"kind"`
	Label string `json:"label"`
	Time  string `json:"time,omitempty"`
}

// =============================================================================
// DAY / REPORT DTOs
// =============================================================================

// DurationDTO shows a minute count in the forms the UI uses.
type DurationDTO struct {
	Minutes int             `json:"minutes"`
	Hours   decimal.Decimal `json:"hours"`
	Display string          `json:"display"`
	Long    string          `json:"long"`
}

func newDuration(m generic.Minutes) DurationDTO {
	return DurationDTO{
		Minutes: int(m),
		Hours:   m.Hours(),
		Display: m.String(),
		Long:    m.Long(),
	}
}

// DayDTO is a classified and evaluated day.
type DayDTO struct {
	Date        string          `json:"date"`
	Status      string          `json:"status"`
	StatusLabel string          `json:"status_label"`
	Breakdown   punch.Breakdown `json:"breakdown"`
	Slots       []SlotDTO       `json:"slots"`
	Worked      DurationDTO     `json:"worked"`
	Extra       DurationDTO     `json:"extra"`
	Negative    DurationDTO     `json:"negative"`
	IsComplete  bool            `json:"is_complete"`
	Anomaly     bool            `json:"anomaly,omitempty"`
	Superseded  int             `json:"superseded,omitempty"`
	Punches     []PunchDTO      `json:"punches,omitempty"`

	// Set only for today
	NextExpected      string `json:"next_expected,omitempty"`
	NextExpectedLabel string `json:"next_expected_label,omitempty"`
	DayClosed         bool   `json:"day_closed,omitempty"`
}

// PeriodDTO is an inclusive date range.
type PeriodDTO struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Days  int    `json:"days"`
}

func newPeriod(p generic.Period) PeriodDTO {
	return PeriodDTO{
		Start: p.Start.String(),
		End:   p.End.String(),
		Days:  generic.DaysBetween(p.Start, p.End) + 1,
	}
}

// BankDTO is the bank of hours of a period.
type BankDTO struct {
	EmployeeID    string      `json:"employee_id,omitempty"`
	Period        PeriodDTO   `json:"period"`
	PeriodType    string      `json:"period_type,omitempty"`
	TotalExtra    DurationDTO `json:"total_extra"`
	TotalNegative DurationDTO `json:"total_negative"`
	Balance       DurationDTO `json:"balance"`
	AsOf          string      `json:"as_of,omitempty"`
}

func newBank(b hours.BankOfHours, p generic.Period) BankDTO {
	return BankDTO{
		Period:        newPeriod(p),
		TotalExtra:    newDuration(b.TotalExtraMinutes),
		TotalNegative: newDuration(b.TotalNegativeMinutes),
		Balance:       newDuration(b.BalanceMinutes),
	}
}

// ReportDTO is the monthly report of one employee.
type ReportDTO struct {
	EmployeeID     string      `json:"employee_id"`
	EmployeeName   string      `json:"employee_name,omitempty"`
	Period         PeriodDTO   `json:"period"`
	Regime         string      `json:"regime"`
	RegimeLabel    string      `json:"regime_label"`
	Days           []DayDTO    `json:"days"`
	TotalWorked    DurationDTO `json:"total_worked"`
	Expected       DurationDTO `json:"expected"`
	Balance        DurationDTO `json:"balance"`
	DaysWorked     int         `json:"days_worked"`
	WorkDays       int         `json:"work_days"`
	DaysWithIssues int         `json:"days_with_issues"`
	MissingDays    int         `json:"missing_days"`
	IncompleteDays int         `json:"incomplete_days"`
	Anomalies      int         `json:"anomalies"`
	Bank           BankDTO     `json:"bank"`
}

// DailyRowDTO is one employee's line of the daily report.
type DailyRowDTO struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	Day          DayDTO `json:"day"`
}

// =============================================================================
// HOLIDAY DTOs
// =============================================================================

// HolidayDTO represents a holiday in API responses.
type HolidayDTO struct {
	ID        string `json:"id"`
	CompanyID string `json:"company_id"`
	Date      string `json:"date"`
	Name      string `json:"name"`
	Recurring bool   `json:"recurring"`
}

// CreateHolidayRequest creates a holiday.
type CreateHolidayRequest struct {
	CompanyID string `json:"company_id"`
	Date      string `json:"date"`
	Name      string `json:"name"`
	Recurring bool   `json:"recurring"`
}

// =============================================================================
// SCENARIO DTOs
// =============================================================================

// ScenarioDTO represents a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category,omitempty"` // "clt" or "pj"
}

// LoadScenarioRequest selects a scenario to load.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func (h *Handler) punchDTO(ctx context.Context, ev punch.Event) PunchDTO {
	ts := ev.Timestamp
	if h.Location != nil {
		ts = ts.In(h.Location)
	}
	return PunchDTO{
		ID:        ev.ID,
		Date:      ev.Date.String(),
		Time:      ts.Format("15:04"),
		Timestamp: ts.Format("2006-01-02T15:04:05Z07:00"),
		Kind:      ev.Kind.String(),
		KindLabel: h.Translator.T(ctx, "punch."+ev.Kind.String()),
		Source:    string(ev.Source),
		Location:  ev.Location,
		Notes:     ev.Notes,
	}
}

func (h *Handler) dayDTO(ctx context.Context, record punch.DayRecord, result hours.Result) DayDTO {
	dto := DayDTO{
		Date:        record.Date.String(),
		Status:      string(record.Status),
		StatusLabel: h.Translator.T(ctx, "status."+string(record.Status)),
		Breakdown:   record.Breakdown,
		Worked:      newDuration(record.WorkedMinutes),
		Extra:       newDuration(result.ExtraMinutes),
		Negative:    newDuration(result.NegativeMinutes),
		IsComplete:  record.IsComplete(),
		Anomaly:     record.Anomaly,
		Superseded:  len(record.Superseded),
	}
	for _, k := range punch.Sequence {
		t, _ := record.Breakdown.Get(k)
		dto.Slots = append(dto.Slots, SlotDTO{
			Kind:  k.String(),
			Label: h.Translator.T(ctx, "punch."+k.String()),
			Time:  t,
		})
	}
	for _, ev := range record.Events {
		dto.Punches = append(dto.Punches, h.punchDTO(ctx, ev))
	}
	return dto
}

func (h *Handler) reportDTO(ctx context.Context, rep hours.Report, bankPeriod generic.PeriodType) ReportDTO {
	dto := ReportDTO{
		EmployeeID:     string(rep.EmployeeID),
		Period:         newPeriod(rep.Period),
		Days:           make([]DayDTO, 0, len(rep.Days)),
		TotalWorked:    newDuration(rep.TotalWorkedMinutes),
		Expected:       newDuration(rep.ExpectedMinutes),
		Balance:        newDuration(rep.Balance),
		DaysWorked:     rep.DaysWorked,
		WorkDays:       rep.WorkDays,
		DaysWithIssues: rep.DaysWithIssues,
		MissingDays:    len(rep.DaysWithStatus(punch.StatusMissing)),
		IncompleteDays: len(rep.DaysWithStatus(punch.StatusIncomplete)),
		Anomalies:      rep.Anomalies,
		Bank:           newBank(rep.Bank, rep.Period),
	}
	dto.Bank.PeriodType = string(bankPeriod)
	if regime, err := rep.Profile.Regime(); err == nil {
		dto.Regime = regime.Name()
		dto.RegimeLabel = h.Translator.T(ctx, "regime."+regime.Name())
	}
	for _, d := range rep.Days {
		dto.Days = append(dto.Days, h.dayDTO(ctx, d.Record, d.Result))
	}
	return dto
}

func holidayDTO(hol generic.Holiday) HolidayDTO {
	return HolidayDTO{
		ID:        hol.ID,
		CompanyID: hol.CompanyID,
		Date:      hol.Date.String(),
		Name:      hol.Name,
		Recurring: hol.Recurring,
	}
}

// labelFor is used by handlers that only need a translated ID.
func labelFor(ctx context.Context, t *i18n.Translator, prefix, id string) string {
	return t.T(ctx, prefix+"."+id)
}
