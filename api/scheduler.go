/*
scheduler.go - Day-close checker

PURPOSE:
  Periodically looks at the last closed day (yesterday in the engine's
  timezone) and reports employees whose punches need attention: missing
  days, incomplete days and anomalies. Each day is checked once.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Uses the same parallel daily report as GET /api/reports/daily
  - Keeps the latest summaries in memory for GET /api/reports/day-close
  - Nothing is written to the database

CONFIGURATION:
  - CheckInterval: How often to check (HOURS_DAY_CLOSE_INTERVAL, default: 1 hour)
  - Enabled: Whether scheduler is active (HOURS_DAY_CLOSE_ENABLED, default: true)

USAGE:
  scheduler := NewDayCloseScheduler(handler)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: DailyReport endpoint (same computation on demand)
  - hours/batch.go: BuildReports
*/
package api

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/warp/hours-engine/generic"
	"github.com/warp/hours-engine/punch"
)

// maxDayCloseRuns bounds the in-memory history.
const maxDayCloseRuns = 31

// DayCloseRun summarizes one checked day.
type DayCloseRun struct {
	Date       string    `json:"date"`
	Employees  int       `json:"employees"`
	Missing    []string  `json:"missing,omitempty"`
	Incomplete []string  `json:"incomplete,omitempty"`
	Anomalies  []string  `json:"anomalies,omitempty"`
	CheckedAt  time.Time `json:"checked_at"`
	Error      string    `json:"error,omitempty"`
}

// DayCloseScheduler checks closed days in the background.
type DayCloseScheduler struct {
	Handler       *Handler
	CheckInterval time.Duration
	Enabled       bool

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex

	runs []DayCloseRun // newest first
}

// NewDayCloseScheduler creates a new scheduler.
func NewDayCloseScheduler(handler *Handler) *DayCloseScheduler {
	return &DayCloseScheduler{
		Handler:       handler,
		CheckInterval: 1 * time.Hour,
		Enabled:       true,
		stop:          make(chan struct{}),
	}
}

// Start begins the scheduler.
func (s *DayCloseScheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.Enabled {
		log.Println("[DayClose] Disabled, not starting")
		return
	}

	s.ticker = time.NewTicker(s.CheckInterval)
	s.wg.Add(1)

	go s.run(s.ticker.C)

	log.Printf("[DayClose] Started with check interval: %v", s.CheckInterval)
}

// Stop stops the scheduler.
func (s *DayCloseScheduler) Stop() {
	s.mu.Lock()
	ticker := s.ticker
	s.ticker = nil
	s.mu.Unlock()

	if ticker != nil {
		ticker.Stop()
		close(s.stop)
		s.wg.Wait()
		log.Println("[DayClose] Stopped")
	}
}

func (s *DayCloseScheduler) run(tick <-chan time.Time) {
	defer s.wg.Done()

	// Run immediately on start
	s.RunNow(context.Background())

	for {
		select {
		case <-tick:
			s.RunNow(context.Background())
		case <-s.stop:
			return
		}
	}
}

// RunNow checks yesterday unless it was already checked. Returns the run and
// whether a check happened.
func (s *DayCloseScheduler) RunNow(ctx context.Context) (DayCloseRun, bool) {
	date := s.Handler.today().AddDays(-1)

	s.mu.Lock()
	if len(s.runs) > 0 && s.runs[0].Date == date.String() && s.runs[0].Error == "" {
		s.mu.Unlock()
		return s.runs[0], false
	}
	s.mu.Unlock()

	run := s.check(ctx, date)

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.runs) > 0 && s.runs[0].Date == run.Date {
		s.runs[0] = run
	} else {
		s.runs = append([]DayCloseRun{run}, s.runs...)
	}
	if len(s.runs) > maxDayCloseRuns {
		s.runs = s.runs[:maxDayCloseRuns]
	}
	return run, true
}

func (s *DayCloseScheduler) check(ctx context.Context, date generic.TimePoint) DayCloseRun {
	run := DayCloseRun{Date: date.String(), CheckedAt: s.Handler.Clock.Now()}

	reports, _, err := s.Handler.dailyReports(ctx, date)
	if err != nil {
		log.Printf("[DayClose] Error checking %s: %v", date, err)
		run.Error = err.Error()
		return run
	}

	run.Employees = len(reports)
	for _, rep := range reports {
		day := rep.Days[0].Record
		id := string(rep.EmployeeID)
		switch day.Status {
		case punch.StatusMissing:
			run.Missing = append(run.Missing, id)
		case punch.StatusIncomplete:
			run.Incomplete = append(run.Incomplete, id)
		}
		if day.Anomaly {
			run.Anomalies = append(run.Anomalies, id)
		}
	}

	if len(run.Missing)+len(run.Incomplete)+len(run.Anomalies) > 0 {
		log.Printf("[DayClose] %s: %d missing, %d incomplete, %d anomalies (of %d employees)",
			run.Date, len(run.Missing), len(run.Incomplete), len(run.Anomalies), run.Employees)
	}
	return run
}

// Runs returns the checked days, newest first.
func (s *DayCloseScheduler) Runs() []DayCloseRun {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]DayCloseRun, len(s.runs))
	copy(out, s.runs)
	return out
}

// ListRuns serves the checked days.
// GET /api/reports/day-close
func (s *DayCloseScheduler) ListRuns(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Runs())
}
