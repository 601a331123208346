/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the database with realistic
	punch history for demos. Each scenario creates employees with a contract
	and terminal punches for every weekday from the start of last month up
	to yesterday.

AVAILABLE SCENARIOS:

	clt-fixed:    Salaried, fixed pay. Overtime past tolerance, some short days
	clt-hourly:   Salaried, hourly pay. Short days never go negative
	pj:           Contractor. Any schedule, bank always zero
	anomalies:    Missing punches, duplicates, an exit before the lunch return
	team:         All of the above, for the daily report

HOW SCENARIOS WORK:
 1. Reset database (clear all data), then restore seeded holidays
 2. Create employees via the contract factory
 3. Generate punches from a day plan

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "clt-fixed"}

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description
 2. Create loader function: loadXxxScenario(ctx)
 3. Add case to scenarioLoader

NOTE:

	Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: Report handlers used to inspect the result
  - factory/policy.go: Contract JSON definitions
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/warp/hours-engine/generic"
	"github.com/warp/hours-engine/punch"
	"github.com/warp/hours-engine/store/sqlite"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "clt-fixed",
		Name:        "Salaried (fixed)",
		Description: "8h journey, overtime after the 11 minute tolerance, short days go negative",
		Category:    "clt",
	},
	{
		ID:          "clt-hourly",
		Name:        "Salaried (hourly)",
		Description: "Hourly pay: time past the journey is extra, short days are not negative",
		Category:    "clt",
	},
	{
		ID:          "pj",
		Name:        "Contractor",
		Description: "Flexible schedule, no bank of hours",
		Category:    "pj",
	},
	{
		ID:          "anomalies",
		Name:        "Anomalies",
		Description: "Missing punches, duplicate entries and an exit before the lunch return",
		Category:    "clt",
	},
	{
		ID:          "team",
		Name:        "Team",
		Description: "All demo employees, for the daily report",
	},
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	if h.currentScenario == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}

	for _, s := range scenarios {
		if s.ID == h.currentScenario {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, ScenarioDTO{ID: h.currentScenario, Name: h.currentScenario})
}

// LoadScenario loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	load, ok := h.scenarioLoader(req.ScenarioID)
	if !ok {
		writeError(w, http.StatusBadRequest, "Unknown scenario", nil)
		return
	}

	ctx := r.Context()
	if err := h.reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}

	if err := load(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load scenario: %v", err), err)
		return
	}

	h.currentScenario = req.ScenarioID

	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ScenarioID})
}

// ResetDatabase clears employees and punches. Seeded holidays are restored.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (h *Handler) reset(ctx context.Context) error {
	h.currentScenario = ""
	if err := h.Store.Reset(ctx); err != nil {
		return err
	}
	return h.SeedHolidays(ctx)
}

// SeedHolidays saves the holidays given in Options. Called at startup and
// after every reset.
func (h *Handler) SeedHolidays(ctx context.Context) error {
	for _, hol := range h.holidays {
		if err := h.Store.SaveHoliday(ctx, hol); err != nil {
			return fmt.Errorf("seed holiday %s (%s): %w", hol.Name, hol.Date, err)
		}
	}
	return nil
}

func (h *Handler) scenarioLoader(id string) (func(context.Context) error, bool) {
	switch id {
	case "clt-fixed":
		return h.loadFixedScenario, true
	case "clt-hourly":
		return h.loadHourlyScenario, true
	case "pj":
		return h.loadContractorScenario, true
	case "anomalies":
		return h.loadAnomaliesScenario, true
	case "team":
		return func(ctx context.Context) error {
			for _, load := range []func(context.Context) error{
				h.loadFixedScenario,
				h.loadHourlyScenario,
				h.loadContractorScenario,
				h.loadAnomaliesScenario,
			} {
				if err := load(ctx); err != nil {
					return err
				}
			}
			return nil
		}, true
	}
	return nil, false
}

// =============================================================================
// DAY PLANS
// =============================================================================

// plannedPunch is a kind at a wall-clock time ("15:04") in the handler's
// location.
type plannedPunch struct {
	kind punch.Kind
	at   string
}

// dayPlan returns the punches of the n-th weekday of the scenario.
type dayPlan func(n int, day generic.TimePoint) []plannedPunch

func fullDay(entry, lunchOut, lunchIn, exit string) []plannedPunch {
	return []plannedPunch{
		{punch.Entry, entry},
		{punch.LunchOut, lunchOut},
		{punch.LunchIn, lunchIn},
		{punch.Exit, exit},
	}
}

func (h *Handler) loadFixedScenario(ctx context.Context) error {
	emp := sqlite.Employee{ID: "emp-clt-fixed", Name: "Ana Souza", Email: "ana@example.com", CompanyID: "acme"}
	contract := `{"contract_type": "clt", "payment_type": "fixed", "bank_period": "quadrimester"}`
	return h.seedEmployee(ctx, emp, contract, func(n int, _ generic.TimePoint) []plannedPunch {
		switch {
		case n%7 == 3:
			return fullDay("08:00", "12:00", "13:00", "18:30") // +90
		case n%7 == 5:
			return fullDay("08:30", "12:00", "13:00", "17:00") // -30
		case n%7 == 6:
			return fullDay("08:00", "12:00", "13:00", "17:10") // within tolerance
		default:
			return fullDay("08:00", "12:00", "13:00", "17:00")
		}
	})
}

func (h *Handler) loadHourlyScenario(ctx context.Context) error {
	emp := sqlite.Employee{ID: "emp-clt-hourly", Name: "Bruno Lima", Email: "bruno@example.com", CompanyID: "acme"}
	contract := `{"contract_type": "clt", "payment_type": "hourly"}`
	return h.seedEmployee(ctx, emp, contract, func(n int, _ generic.TimePoint) []plannedPunch {
		if n%3 == 0 {
			return fullDay("09:00", "12:00", "13:00", "16:00") // 6h
		}
		return fullDay("08:00", "12:00", "13:00", "17:20")
	})
}

func (h *Handler) loadContractorScenario(ctx context.Context) error {
	emp := sqlite.Employee{ID: "emp-pj", Name: "Carla Dias", Email: "carla@example.com"}
	contract := `{"contract_type": "pj"}`
	return h.seedEmployee(ctx, emp, contract, func(n int, _ generic.TimePoint) []plannedPunch {
		if n%2 == 0 {
			return []plannedPunch{{punch.Entry, "10:00"}, {punch.Exit, "20:00"}}
		}
		return []plannedPunch{{punch.Entry, "13:00"}, {punch.Exit, "17:00"}}
	})
}

func (h *Handler) loadAnomaliesScenario(ctx context.Context) error {
	emp := sqlite.Employee{ID: "emp-anomalies", Name: "Diego Rocha", Email: "diego@example.com", CompanyID: "acme"}
	contract := `{"contract_type": "clt", "payment_type": "fixed"}`
	return h.seedEmployee(ctx, emp, contract, func(n int, _ generic.TimePoint) []plannedPunch {
		switch n % 5 {
		case 1:
			// forgot to come back from lunch
			return []plannedPunch{{punch.Entry, "08:00"}, {punch.LunchOut, "12:00"}}
		case 2:
			// corrected entry: the later punch wins
			return append(fullDay("08:00", "12:00", "13:00", "17:00"), plannedPunch{punch.Entry, "08:20"})
		case 3:
			// exit stamped before the lunch return
			return fullDay("08:00", "12:00", "13:00", "12:45")
		case 4:
			return nil
		default:
			return fullDay("08:00", "12:00", "13:00", "17:00")
		}
	})
}

// seedEmployee saves emp with the given contract and generates its punches
// for every weekday from the first of last month to yesterday.
func (h *Handler) seedEmployee(ctx context.Context, emp sqlite.Employee, contract string, plan dayPlan) error {
	cfg, err := h.Contracts.ParseContract(contract)
	if err != nil {
		return err
	}
	stored := h.Contracts.ToJSON(*cfg)
	emp.ContractType = stored.ContractType
	emp.PaymentType = stored.PaymentType
	emp.JourneyMinutes = stored.JourneyMinutes
	emp.ToleranceMinutes = stored.ToleranceMinutes
	emp.BankPeriod = stored.BankPeriod

	today := h.today()
	from := generic.StartOfMonth(today.Year(), today.Month()).AddMonths(-1)
	emp.HireDate = from.Time
	if err := h.Store.SaveEmployee(ctx, emp); err != nil {
		return err
	}

	n := 0
	for day := from; day.Before(today); day = day.AddDays(1) {
		if !day.IsWorkdayWithHolidays(h.Store, emp.CompanyID) {
			continue
		}
		for _, p := range plan(n, day) {
			ev, err := h.plannedEvent(emp.ID, day, p)
			if err != nil {
				return err
			}
			if err := h.Store.AppendPunch(ctx, ev); err != nil {
				return err
			}
		}
		n++
	}
	return nil
}

func (h *Handler) plannedEvent(employeeID string, day generic.TimePoint, p plannedPunch) (punch.Event, error) {
	clock, err := time.Parse("15:04", p.at)
	if err != nil {
		return punch.Event{}, fmt.Errorf("scenario time %q: %w", p.at, err)
	}
	ts := time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, h.Location)
	return punch.Event{
		ID:         uuid.NewString(),
		EmployeeID: generic.EmployeeID(employeeID),
		Date:       day,
		Timestamp:  ts,
		Kind:       p.kind,
		Source:     punch.SourceTerminal,
		RecordedAt: ts,
	}, nil
}
