package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/hours-engine/generic"
	"github.com/warp/hours-engine/punch"
	"github.com/warp/hours-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	for _, id := range []string{"emp-1", "emp-2"} {
		require.NoError(t, store.SaveEmployee(context.Background(), sqlite.Employee{
			ID:           id,
			Name:         "Employee " + id,
			CompanyID:    "acme",
			ContractType: "clt",
			PaymentType:  "fixed",
			HireDate:     time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC),
		}))
	}
	return store
}

func event(id string, emp generic.EmployeeID, day, hour, minute int, kind punch.Kind) punch.Event {
	return punch.Event{
		ID:         id,
		EmployeeID: emp,
		Date:       generic.NewTimePoint(2025, time.March, day),
		Timestamp:  time.Date(2025, time.March, day, hour, minute, 0, 0, time.UTC),
		Kind:       kind,
		Source:     punch.SourceTerminal,
	}
}

// =============================================================================
// PUNCH TESTS
// =============================================================================

func TestStore_AppendAndLoadDay(t *testing.T) {
	// GIVEN: A full day appended out of order
	// WHEN: Loading the day
	// THEN: Punches come back in time order with their fields intact

	store := newTestStore(t)
	ctx := context.Background()

	exit := event("p4", "emp-1", 10, 17, 0, punch.Exit)
	exit.Location = "HQ"
	exit.Notes = "left on time"

	require.NoError(t, store.AppendPunch(ctx, exit))
	require.NoError(t, store.AppendPunch(ctx, event("p1", "emp-1", 10, 8, 0, punch.Entry)))
	require.NoError(t, store.AppendPunch(ctx, event("p3", "emp-1", 10, 13, 0, punch.LunchIn)))
	require.NoError(t, store.AppendPunch(ctx, event("p2", "emp-1", 10, 12, 0, punch.LunchOut)))

	events, err := store.LoadDay(ctx, "emp-1", generic.NewTimePoint(2025, time.March, 10))
	require.NoError(t, err)
	require.Len(t, events, 4)

	for i, want := range punch.Sequence {
		assert.Equal(t, want, events[i].Kind)
	}
	last := events[3]
	assert.Equal(t, "p4", last.ID)
	assert.Equal(t, "HQ", last.Location)
	assert.Equal(t, "left on time", last.Notes)
	assert.Equal(t, punch.SourceTerminal, last.Source)
	assert.Equal(t, "2025-03-10", last.Date.String())
	assert.True(t, last.Timestamp.Equal(exit.Timestamp))

	record := punch.ClassifyDay(events)
	assert.Equal(t, generic.Minutes(480), record.WorkedMinutes)
}

func TestStore_UnknownEmployeeRejected(t *testing.T) {
	store := newTestStore(t)

	err := store.AppendPunch(context.Background(), event("p1", "ghost", 10, 8, 0, punch.Entry))

	assert.Error(t, err)
}

func TestStore_IdempotencyKey(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	ev := event("p1", "emp-1", 10, 8, 0, punch.Entry)
	ev.IdempotencyKey = "terminal-7-0001"
	require.NoError(t, store.AppendPunch(ctx, ev))

	ev.ID = "p2"
	assert.ErrorIs(t, store.AppendPunch(ctx, ev), generic.ErrDuplicateIdempotencyKey)

	exists, err := store.Exists(ctx, "terminal-7-0001")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = store.Exists(ctx, "terminal-7-0002")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestStore_LoadRangeAndDate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for day := 10; day <= 14; day++ {
		require.NoError(t, store.AppendPunch(ctx, event("a"+string(rune('0'+day-10)), "emp-1", day, 8, 0, punch.Entry)))
	}
	require.NoError(t, store.AppendPunch(ctx, event("b1", "emp-2", 12, 9, 0, punch.Entry)))
	require.NoError(t, store.AppendPunch(ctx, event("b2", "emp-2", 12, 18, 0, punch.Exit)))

	events, err := store.LoadRange(ctx, "emp-1",
		generic.NewTimePoint(2025, time.March, 11), generic.NewTimePoint(2025, time.March, 13))
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "2025-03-11", events[0].Date.String())
	assert.Equal(t, "2025-03-13", events[2].Date.String())

	byEmployee, err := store.LoadDate(ctx, generic.NewTimePoint(2025, time.March, 12))
	require.NoError(t, err)
	assert.Len(t, byEmployee, 2)
	assert.Len(t, byEmployee["emp-1"], 1)
	assert.Len(t, byEmployee["emp-2"], 2)
}

// =============================================================================
// EMPLOYEE TESTS
// =============================================================================

func TestStore_Employees(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	journey := 360
	require.NoError(t, store.SaveEmployee(ctx, sqlite.Employee{
		ID:             "emp-1",
		Name:           "Ana",
		Email:          "ana@example.com",
		CompanyID:      "acme",
		ContractType:   "clt",
		PaymentType:    "hourly",
		JourneyMinutes: &journey,
		BankPeriod:     "quadrimester",
		HireDate:       time.Date(2023, time.May, 2, 0, 0, 0, 0, time.UTC),
	}))

	emp, err := store.GetEmployee(ctx, "emp-1")
	require.NoError(t, err)
	require.NotNil(t, emp)
	assert.Equal(t, "Ana", emp.Name)
	assert.Equal(t, "ana@example.com", emp.Email)
	assert.Equal(t, "hourly", emp.PaymentType)
	require.NotNil(t, emp.JourneyMinutes)
	assert.Equal(t, 360, *emp.JourneyMinutes)
	assert.Nil(t, emp.ToleranceMinutes)
	assert.Equal(t, "quadrimester", emp.BankPeriod)
	assert.Equal(t, "2023-05-02", emp.HireDate.Format("2006-01-02"))

	other, err := store.GetEmployee(ctx, "emp-2")
	require.NoError(t, err)
	assert.Equal(t, "monthly", other.BankPeriod)

	missing, err := store.GetEmployee(ctx, "ghost")
	require.NoError(t, err)
	assert.Nil(t, missing)

	all, err := store.ListEmployees(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Ana", all[0].Name)

	require.NoError(t, store.DeleteEmployee(ctx, "emp-2"))
	all, err = store.ListEmployees(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

// =============================================================================
// HOLIDAY TESTS
// =============================================================================

func TestStore_Holidays(t *testing.T) {
	// GIVEN: A recurring global holiday, a one-off global holiday and a
	//        company holiday
	// THEN: Recurring ones match any year; company ones only their company

	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveHoliday(ctx, generic.Holiday{
		ID: "h1", Date: generic.NewTimePoint(2020, time.April, 21), Name: "Tiradentes", Recurring: true,
	}))
	require.NoError(t, store.SaveHoliday(ctx, generic.Holiday{
		ID: "h2", Date: generic.NewTimePoint(2025, time.March, 4), Name: "Carnival",
	}))
	require.NoError(t, store.SaveHoliday(ctx, generic.Holiday{
		ID: "h3", CompanyID: "acme", Date: generic.NewTimePoint(2025, time.June, 2), Name: "Founders day",
	}))

	assert.True(t, store.IsHoliday("acme", generic.NewTimePoint(2025, time.April, 21)))
	assert.True(t, store.IsHoliday("globex", generic.NewTimePoint(2031, time.April, 21)))
	assert.True(t, store.IsHoliday("acme", generic.NewTimePoint(2025, time.March, 4)))
	assert.False(t, store.IsHoliday("acme", generic.NewTimePoint(2026, time.March, 4)))
	assert.True(t, store.IsHoliday("acme", generic.NewTimePoint(2025, time.June, 2)))
	assert.False(t, store.IsHoliday("globex", generic.NewTimePoint(2025, time.June, 2)))

	holidays := store.GetHolidays("acme", 2027)
	require.Len(t, holidays, 1)
	assert.Equal(t, "2027-04-21", holidays[0].Date.String())

	assert.Len(t, store.GetHolidays("acme", 2025), 3)
	assert.Len(t, store.GetHolidays("globex", 2025), 2)

	all, err := store.GetAllHolidays(ctx, "acme")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	require.NoError(t, store.DeleteHoliday(ctx, "h2"))
	assert.False(t, store.IsHoliday("acme", generic.NewTimePoint(2025, time.March, 4)))
}

func TestStore_Reset(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.AppendPunch(ctx, event("p1", "emp-1", 10, 8, 0, punch.Entry)))
	require.NoError(t, store.SaveHoliday(ctx, generic.Holiday{
		ID: "h1", Date: generic.NewTimePoint(2025, time.March, 4), Name: "Carnival",
	}))

	require.NoError(t, store.Reset(ctx))

	employees, err := store.ListEmployees(ctx)
	require.NoError(t, err)
	assert.Empty(t, employees)

	events, err := store.LoadDay(ctx, "emp-1", generic.NewTimePoint(2025, time.March, 10))
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.False(t, store.IsHoliday("", generic.NewTimePoint(2025, time.March, 4)))
}
