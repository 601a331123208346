package punch

import (
	"context"

	"github.com/warp/hours-engine/generic"
)

// Store persists punches for the capture layer. It is APPEND-ONLY:
// corrections are new punches, and the classifier's duplicate rule decides
// which one counts.
//
// Implementations:
//   - store/sqlite: production
//   - store/memory: tests and dev
type Store interface {
	// AppendPunch persists a punch. Returns generic.ErrDuplicateIdempotencyKey
	// if the key already exists.
	AppendPunch(ctx context.Context, ev Event) error

	// LoadDay returns an employee's punches for one date, ordered by timestamp.
	LoadDay(ctx context.Context, employeeID generic.EmployeeID, date generic.TimePoint) ([]Event, error)

	// LoadRange returns punches with Date in [from, to], ordered by date then timestamp.
	LoadRange(ctx context.Context, employeeID generic.EmployeeID, from, to generic.TimePoint) ([]Event, error)

	// Exists checks if an idempotency key was already used.
	Exists(ctx context.Context, idempotencyKey string) (bool, error)
}

// GroupByDate buckets events by their Date. Events without a Date are
// skipped; grouping is the capture layer's job.
func GroupByDate(events []Event) map[generic.TimePoint][]Event {
	out := make(map[generic.TimePoint][]Event)
	for _, ev := range events {
		if ev.Date.IsZero() {
			continue
		}
		key := generic.NewTimePoint(ev.Date.Year(), ev.Date.Month(), ev.Date.Day())
		out[key] = append(out[key], ev)
	}
	return out
}
