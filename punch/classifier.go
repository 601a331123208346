/*
classifier.go - Assigns punches to slots and computes worked minutes

PURPOSE:
  Given the punches of ONE employee on ONE calendar day (in any order), build
  the slot breakdown and the number of minutes actually worked.

WORKED MINUTES (priority order):
  1. entry + lunch_out      -> morning   = lunch_out - entry
  2. lunch_in + exit        -> afternoon = exit - lunch_in
  3. no lunch punches, entry + exit -> continuous shift = exit - entry
  4. anything else          -> only the complete pairs from 1-2 count

  Example: 08:00 / 12:00 / 13:00 / 17:00 = 240 + 240 = 480

TIME-OF-DAY SUBTRACTION:
  Both ends of a pair are reduced to hours:minutes and subtracted as minutes
  since midnight. Seconds are dropped. A punch stamped on another calendar
  date cannot inflate the result by whole days.

ANOMALIES:
  A pair whose end is before its start contributes 0 and sets Anomaly. The
  day still renders; the report highlights it.

DUPLICATES:
  Two punches of the same kind resolve by chronological precedence.
  KeepLast (default) lets the later punch win; KeepFirst keeps the earlier.
  The losers are returned in Superseded.

SEE ALSO:
  - status.go: Calendar-aware classification (weekend, holiday, future)
  - hours/policy.go: Consumes WorkedMinutes and IsComplete
*/
package punch

import (
	"sort"
	"time"

	"github.com/warp/hours-engine/generic"
)

// DuplicateRule picks which of two same-kind punches fills the slot.
type DuplicateRule int

const (
	KeepLast DuplicateRule = iota
	KeepFirst
)

// Classifier holds the knobs of day classification. The zero value keeps the
// last duplicate and reads times in each event's own location.
type Classifier struct {
	Duplicates DuplicateRule

	// Location converts timestamps before formatting; nil keeps them as-is.
	Location *time.Location
}

var defaultClassifier Classifier

// ClassifyDay classifies with the default Classifier.
func ClassifyDay(events []Event) DayRecord {
	return defaultClassifier.ClassifyDay(events)
}

// ClassifyDay builds the breakdown and worked minutes for one day. The input
// slice is not modified. Status is left empty; see ClassifyDate.
func (c Classifier) ClassifyDay(events []Event) DayRecord {
	sorted := make([]Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	var (
		record DayRecord
		chosen [len(Sequence)]*Event
	)
	record.Events = sorted

	for i := range sorted {
		ev := &sorted[i]
		if !ev.Kind.Valid() {
			continue
		}
		prev := chosen[ev.Kind]
		switch {
		case prev == nil:
			chosen[ev.Kind] = ev
		case c.Duplicates == KeepFirst:
			record.Superseded = append(record.Superseded, *ev)
		default:
			record.Superseded = append(record.Superseded, *prev)
			chosen[ev.Kind] = ev
		}
	}

	var tod [len(Sequence)]generic.Minutes
	for k, ev := range chosen {
		if ev == nil {
			continue
		}
		t := c.localize(ev.Timestamp)
		record.Breakdown.set(Kind(k), t.Format("15:04"))
		tod[k] = generic.MinutesOfDay(t.Hour(), t.Minute())
	}
	if len(sorted) > 0 {
		record.Date = sorted[0].Date
		if record.Date.IsZero() {
			record.Date = generic.DayOf(c.localize(sorted[0].Timestamp))
		}
	}

	has := func(k Kind) bool { return chosen[k] != nil }
	interval := func(from, to Kind) generic.Minutes {
		d := tod[to] - tod[from]
		if d < 0 {
			record.Anomaly = true
			return 0
		}
		return d
	}

	if has(Entry) && has(LunchOut) {
		record.WorkedMinutes += interval(Entry, LunchOut)
	}
	if has(LunchIn) && has(Exit) {
		record.WorkedMinutes += interval(LunchIn, Exit)
	}
	if has(Entry) && has(Exit) && !has(LunchOut) && !has(LunchIn) {
		record.WorkedMinutes = interval(Entry, Exit)
	}

	return record
}

func (c Classifier) localize(t time.Time) time.Time {
	if c.Location == nil {
		return t
	}
	return t.In(c.Location)
}

// NextExpectedKind returns the first slot without a punch in the fixed
// sequence. ok is false once all four are present: no further punches are
// accepted that day.
func NextExpectedKind(events []Event) (next Kind, ok bool) {
	var seen [len(Sequence)]bool
	for _, ev := range events {
		if ev.Kind.Valid() {
			seen[ev.Kind] = true
		}
	}
	for _, k := range Sequence {
		if !seen[k] {
			return k, true
		}
	}
	return 0, false
}
