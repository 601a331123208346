/*
recorder.go - Punch capture use case

PURPOSE:
  Records a punch for an employee "now", the way the tablet terminal and the
  web clock do it. The recorder is the one place that reads the clock and the
  store; the classifier stays pure.

RULES:
  1. Timestamp and calendar date come from the injected clock, in Location
  2. Without an explicit kind, the next expected kind is used
  3. A day with all four punches accepts nothing more (ErrDayComplete)
  4. An explicit kind already taken that day is a conflict (ErrDuplicatePunch)
  5. A reused idempotency key is rejected (ErrDuplicateIdempotencyKey)
  6. Calls for the same employee are serialized, so two concurrent punches
     cannot both take the same slot

EXAMPLE:
  rec := punch.NewRecorder(store, generic.SystemClock{Location: loc}, loc)
  ev, err := rec.Record(ctx, punch.Request{EmployeeID: "emp-1", Source: punch.SourceTerminal})
*/
package punch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/warp/hours-engine/generic"
)

// Request asks to record one punch.
type Request struct {
	EmployeeID     generic.EmployeeID
	Kind           *Kind // nil = next expected
	Source         Source
	Location       string
	Notes          string
	IdempotencyKey string
}

// Recorder appends punches to a Store. It is safe for concurrent use.
type Recorder struct {
	store    Store
	clock    generic.Clock
	location *time.Location

	mu    sync.Mutex
	locks map[generic.EmployeeID]*sync.Mutex
}

// NewRecorder creates a recorder. A nil location uses the clock's.
func NewRecorder(store Store, clock generic.Clock, location *time.Location) *Recorder {
	return &Recorder{
		store:    store,
		clock:    clock,
		location: location,
		locks:    make(map[generic.EmployeeID]*sync.Mutex),
	}
}

// lockEmployee returns the held lock for one employee. The read of today's
// punches and the append must happen under it.
func (r *Recorder) lockEmployee(id generic.EmployeeID) *sync.Mutex {
	r.mu.Lock()
	l, ok := r.locks[id]
	if !ok {
		l = &sync.Mutex{}
		r.locks[id] = l
	}
	r.mu.Unlock()

	l.Lock()
	return l
}

// Record validates and appends a punch, returning the stored event.
func (r *Recorder) Record(ctx context.Context, req Request) (Event, error) {
	defer r.lockEmployee(req.EmployeeID).Unlock()

	if req.IdempotencyKey != "" {
		exists, err := r.store.Exists(ctx, req.IdempotencyKey)
		if err != nil {
			return Event{}, fmt.Errorf("check idempotency key: %w", err)
		}
		if exists {
			return Event{}, generic.ErrDuplicateIdempotencyKey
		}
	}

	now := r.clock.Now()
	if r.location != nil {
		now = now.In(r.location)
	}
	date := generic.DayOf(now)

	today, err := r.store.LoadDay(ctx, req.EmployeeID, date)
	if err != nil {
		return Event{}, fmt.Errorf("load today's punches: %w", err)
	}

	next, open := NextExpectedKind(today)
	if !open {
		return Event{}, generic.ErrDayComplete
	}

	kind := next
	if req.Kind != nil {
		if !req.Kind.Valid() {
			return Event{}, fmt.Errorf("%w: %d", generic.ErrUnknownPunchKind, int(*req.Kind))
		}
		for _, ev := range today {
			if ev.Kind == *req.Kind {
				return Event{}, &generic.PunchConflictError{
					EmployeeID: req.EmployeeID,
					Date:       date,
					Kind:       req.Kind.String(),
				}
			}
		}
		kind = *req.Kind
	}

	source := req.Source
	if source == "" {
		source = SourceAPI
	}

	ev := Event{
		ID:             uuid.NewString(),
		EmployeeID:     req.EmployeeID,
		Date:           date,
		Timestamp:      now.Truncate(time.Second),
		Kind:           kind,
		Source:         source,
		Location:       req.Location,
		Notes:          req.Notes,
		IdempotencyKey: req.IdempotencyKey,
		RecordedAt:     now,
	}
	if err := r.store.AppendPunch(ctx, ev); err != nil {
		return Event{}, err
	}
	return ev, nil
}
