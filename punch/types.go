// Package punch turns raw clock punches into structured day records.
// It is pure: the Store and Recorder are the only pieces that touch I/O,
// and the classifier never calls them.
package punch

import (
	"fmt"
	"time"

	"github.com/warp/hours-engine/generic"
)

// =============================================================================
// PUNCH KIND
// =============================================================================

// Kind is one of the four slots of a working day.
type Kind int

const (
	Entry Kind = iota
	LunchOut
	LunchIn
	Exit
)

// Sequence is the order in which punches are expected during a day.
var Sequence = [...]Kind{Entry, LunchOut, LunchIn, Exit}

var kindNames = [...]string{
	Entry:    "entry",
	LunchOut: "lunch_out",
	LunchIn:  "lunch_in",
	Exit:     "exit",
}

func (k Kind) String() string {
	if k < Entry || k > Exit {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

func (k Kind) Valid() bool { return k >= Entry && k <= Exit }

// ParseKind converts a wire name into a Kind.
func ParseKind(s string) (Kind, error) {
	for i, name := range kindNames {
		if name == s {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", generic.ErrUnknownPunchKind, s)
}

func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", generic.ErrUnknownPunchKind, int(k))
	}
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// =============================================================================
// EVENT
// =============================================================================

// Source identifies where a punch was captured.
type Source string

const (
	SourceTerminal Source = "terminal"
	SourceWeb      Source = "web"
	SourceAPI      Source = "api"
)

// Event is a single clock action. Only Timestamp and Kind take part in the
// computation; the rest is carried for the capture and reporting layers.
type Event struct {
	ID         string
	EmployeeID generic.EmployeeID
	Date       generic.TimePoint // calendar day the capture layer grouped it under
	Timestamp  time.Time
	Kind       Kind

	Source         Source
	Location       string
	Notes          string
	IdempotencyKey string
	RecordedAt     time.Time
}

// =============================================================================
// DAY RECORD
// =============================================================================

// Breakdown holds the HH:MM time of each slot; empty means the slot has no punch.
type Breakdown struct {
	Entry    string `json:"entry,omitempty"`
	LunchOut string `json:"lunch_out,omitempty"`
	LunchIn  string `json:"lunch_in,omitempty"`
	Exit     string `json:"exit,omitempty"`
}

// Get returns the formatted time for kind and whether it is present.
func (b Breakdown) Get(k Kind) (string, bool) {
	var v string
	switch k {
	case Entry:
		v = b.Entry
	case LunchOut:
		v = b.LunchOut
	case LunchIn:
		v = b.LunchIn
	case Exit:
		v = b.Exit
	}
	return v, v != ""
}

func (b *Breakdown) set(k Kind, v string) {
	switch k {
	case Entry:
		b.Entry = v
	case LunchOut:
		b.LunchOut = v
	case LunchIn:
		b.LunchIn = v
	case Exit:
		b.Exit = v
	}
}

// DayStatus classifies a day for reporting. Weekend, holiday and future are
// calendar facts; the others are punch facts.
type DayStatus string

const (
	StatusComplete   DayStatus = "complete"   // all four punches
	StatusIncomplete DayStatus = "incomplete" // some punches
	StatusMissing    DayStatus = "missing"    // no punches on a workday
	StatusWeekend    DayStatus = "weekend"
	StatusHoliday    DayStatus = "holiday"
	StatusFuture     DayStatus = "future"
)

// Countable reports whether the day takes part in worked/expected totals.
func (s DayStatus) Countable() bool {
	switch s {
	case StatusComplete, StatusIncomplete, StatusMissing:
		return true
	default:
		return false
	}
}

// DayRecord is the classified view of one employee's punches on one date.
type DayRecord struct {
	Date          generic.TimePoint
	Events        []Event // sorted by timestamp, including superseded ones
	Breakdown     Breakdown
	WorkedMinutes generic.Minutes

	// Anomaly is set when a pair of punches is out of order (e.g. exit
	// before lunch_in). The offending interval counts as zero.
	Anomaly bool

	// Superseded lists duplicate punches that lost precedence.
	Superseded []Event

	Status DayStatus
}

// Has reports whether the slot has a punch.
func (d DayRecord) Has(k Kind) bool {
	_, ok := d.Breakdown.Get(k)
	return ok
}

// IsComplete is true iff both an entry and an exit exist, regardless of lunch.
func (d DayRecord) IsComplete() bool {
	return d.Has(Entry) && d.Has(Exit)
}

// HasAllKinds is true when all four slots are filled.
func (d DayRecord) HasAllKinds() bool {
	for _, k := range Sequence {
		if !d.Has(k) {
			return false
		}
	}
	return true
}
