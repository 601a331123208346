/*
scenarios_test.go - Tests for demo scenarios and the day-close checker

Tests for:
- Loading every scenario and reading reports back
- Reset restoring seeded holidays
- Day-close runs over the previous day
*/
package api

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/hours-engine/generic"
)

func TestLoadScenario_All(t *testing.T) {
	for _, s := range scenarios {
		t.Run(s.ID, func(t *testing.T) {
			_, router, _ := newTestHandler(t)

			rec := do(t, router, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: s.ID})
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			current := decode[ScenarioDTO](t, do(t, router, http.MethodGet, "/api/scenarios/current", nil))
			assert.Equal(t, s.ID, current.ID)

			employees := decode[[]EmployeeDTO](t, do(t, router, http.MethodGet, "/api/employees", nil))
			require.NotEmpty(t, employees)

			for _, emp := range employees {
				rec := do(t, router, http.MethodGet, "/api/employees/"+emp.ID+"/report?year=2025&month=2", nil)
				require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

				rep := decode[ReportDTO](t, rec)
				assert.Equal(t, 20, rep.WorkDays, emp.ID)
				assert.Positive(t, rep.DaysWorked, emp.ID)
			}
		})
	}
}

func TestLoadScenario_FixedBank(t *testing.T) {
	// GIVEN: The salaried fixed scenario (quadrimester bank)
	// THEN: The bank follows the contract period and is made of the
	//       +90 and -30 days of the plan

	_, router, _ := newTestHandler(t)
	rec := do(t, router, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "clt-fixed"})
	require.Equal(t, http.StatusOK, rec.Code)

	bank := decode[BankDTO](t, do(t, router, http.MethodGet, "/api/employees/emp-clt-fixed/bank", nil))
	assert.Equal(t, "quadrimester", bank.PeriodType)
	assert.Equal(t, "2025-01-01", bank.Period.Start)
	assert.Positive(t, bank.TotalExtra.Minutes)
	assert.Positive(t, bank.TotalNegative.Minutes)
	assert.Equal(t, bank.TotalExtra.Minutes-bank.TotalNegative.Minutes, bank.Balance.Minutes)
}

func TestLoadScenario_Anomalies(t *testing.T) {
	_, router, _ := newTestHandler(t)
	rec := do(t, router, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "anomalies"})
	require.Equal(t, http.StatusOK, rec.Code)

	rep := decode[ReportDTO](t, do(t, router, http.MethodGet, "/api/employees/emp-anomalies/report?year=2025&month=2", nil))

	assert.Positive(t, rep.Anomalies)
	assert.Positive(t, rep.DaysWithIssues)

	superseded := 0
	for _, d := range rep.Days {
		superseded += d.Superseded
	}
	assert.Positive(t, superseded)
}

func TestLoadScenario_Unknown(t *testing.T) {
	_, router, _ := newTestHandler(t)

	rec := do(t, router, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "nope"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/scenarios/current", nil)
	assert.Equal(t, "null\n", rec.Body.String())

	list := decode[[]ScenarioDTO](t, do(t, router, http.MethodGet, "/api/scenarios", nil))
	assert.Len(t, list, len(scenarios))
}

func TestResetDatabase_RestoresSeededHolidays(t *testing.T) {
	h, router, _ := newTestHandler(t)
	h.holidays = []generic.Holiday{
		{ID: "h-tiradentes", Date: generic.NewTimePoint(2025, time.April, 21), Name: "Tiradentes", Recurring: true},
	}
	require.NoError(t, h.SeedHolidays(context.Background()))

	rec := do(t, router, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "pj"})
	require.Equal(t, http.StatusOK, rec.Code)
	do(t, router, http.MethodPost, "/api/holidays", CreateHolidayRequest{Date: "2025-03-04", Name: "Carnaval"})

	rec = do(t, router, http.MethodPost, "/api/scenarios/reset", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Empty(t, decode[[]EmployeeDTO](t, do(t, router, http.MethodGet, "/api/employees", nil)))

	holidays := decode[[]HolidayDTO](t, do(t, router, http.MethodGet, "/api/holidays", nil))
	require.Len(t, holidays, 1)
	assert.Equal(t, "Tiradentes", holidays[0].Name)
}

func TestLoadScenario_SkipsHolidays(t *testing.T) {
	// GIVEN: A seeded holiday on Wednesday 2025-02-12
	// WHEN: Loading a scenario
	// THEN: No punches are planned on the holiday

	h, router, _ := newTestHandler(t)
	h.holidays = []generic.Holiday{
		{ID: "h-company", Date: generic.NewTimePoint(2025, time.February, 12), Name: "Company day"},
	}
	require.NoError(t, h.SeedHolidays(context.Background()))

	rec := do(t, router, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "pj"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rep := decode[ReportDTO](t, do(t, router, http.MethodGet, "/api/employees/emp-pj/report?year=2025&month=2", nil))
	holiday := rep.Days[11]
	assert.Equal(t, "2025-02-12", holiday.Date)
	assert.Equal(t, "holiday", holiday.Status)
	assert.Empty(t, holiday.Punches)
	assert.Equal(t, 19, rep.WorkDays)
	assert.Equal(t, 0, rep.MissingDays)
}

// =============================================================================
// DAY CLOSE
// =============================================================================

func TestDayClose_RunNow(t *testing.T) {
	// GIVEN: Yesterday (Thu 2025-03-13) one employee forgot lunch and exit,
	//        one never punched, one worked a full day
	// WHEN: The day-close check runs twice
	// THEN: The first run flags both, the second is skipped

	h, router, _ := newTestHandler(t)
	createEmployee(t, router, "emp-a", fixedContract)
	createEmployee(t, router, "emp-b", fixedContract)
	createEmployee(t, router, "emp-c", fixedContract)
	seedDay(t, h, "emp-a", 13, "08:00", "12:00")
	seedDay(t, h, "emp-c", 13, "08:00", "12:00", "13:00", "17:00")

	run, ran := h.DayClose.RunNow(context.Background())
	require.True(t, ran)
	assert.Equal(t, "2025-03-13", run.Date)
	assert.Equal(t, 3, run.Employees)
	assert.Equal(t, []string{"emp-a"}, run.Incomplete)
	assert.Equal(t, []string{"emp-b"}, run.Missing)
	assert.Empty(t, run.Anomalies)
	assert.Empty(t, run.Error)

	_, ran = h.DayClose.RunNow(context.Background())
	assert.False(t, ran)

	runs := decode[[]DayCloseRun](t, do(t, router, http.MethodGet, "/api/reports/day-close", nil))
	require.Len(t, runs, 1)
	assert.Equal(t, "2025-03-13", runs[0].Date)
}

func TestDayClose_NewDayAddsRun(t *testing.T) {
	h, _, clock := newTestHandler(t)

	_, ran := h.DayClose.RunNow(context.Background())
	require.True(t, ran)

	clock.mu.Lock()
	clock.now = clock.now.AddDate(0, 0, 1)
	clock.mu.Unlock()

	run, ran := h.DayClose.RunNow(context.Background())
	require.True(t, ran)
	assert.Equal(t, "2025-03-14", run.Date)

	runs := h.DayClose.Runs()
	require.Len(t, runs, 2)
	assert.Equal(t, "2025-03-14", runs[0].Date, "newest first")
}

func TestDayClose_StartStop(t *testing.T) {
	h, _, _ := newTestHandler(t)
	h.DayClose.CheckInterval = time.Hour

	h.DayClose.Start()
	require.Eventually(t, func() bool { return len(h.DayClose.Runs()) == 1 }, time.Second, 10*time.Millisecond)
	h.DayClose.Stop()

	disabled, _, _ := newTestHandler(t)
	disabled.DayClose.Enabled = false
	disabled.DayClose.Start()
	disabled.DayClose.Stop()
	assert.Empty(t, disabled.DayClose.Runs())
}
