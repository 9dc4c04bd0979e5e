package schedule

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInterval  = errors.New("interval end must be after start")
	ErrInvalidTimeOfDay = errors.New("time of day out of range")
	ErrInvalidWindow    = errors.New("working window closes before it opens")
)

// Interval is a half-open time range [start, end).
type Interval struct {
	start time.Time
	end   time.Time
}

func NewInterval(start, end time.Time) (Interval, error) {
	if !end.After(start) {
		return Interval{}, ErrInvalidInterval
	}
	return Interval{start: start, end: end}, nil
}

func (i Interval) Start() time.Time        { return i.start }
func (i Interval) End() time.Time          { return i.end }
func (i Interval) Duration() time.Duration { return i.end.Sub(i.start) }

// Overlaps reports whether two half-open intervals intersect:
// [a,b) and [c,d) overlap iff a < d && c < b.
func (i Interval) Overlaps(o Interval) bool {
	return i.start.Before(o.end) && o.start.Before(i.end)
}

func (i Interval) Contains(t time.Time) bool {
	return !t.Before(i.start) && t.Before(i.end)
}

// TimeOfDay is a wall-clock value independent of any particular date.
type TimeOfDay struct {
	hour   int
	minute int
}

func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return TimeOfDay{}, ErrInvalidTimeOfDay
	}
	return TimeOfDay{hour: hour, minute: minute}, nil
}

func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, ErrInvalidTimeOfDay
	}
	return TimeOfDay{hour: t.Hour(), minute: t.Minute()}, nil
}

func (t TimeOfDay) Hour() int   { return t.hour }
func (t TimeOfDay) Minute() int { return t.minute }

func (t TimeOfDay) Before(o TimeOfDay) bool {
	if t.hour != o.hour {
		return t.hour < o.hour
	}
	return t.minute < o.minute
}

// On anchors the wall-clock value to a concrete date in the given location.
func (t TimeOfDay) On(day time.Time, loc *time.Location) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), t.hour, t.minute, 0, 0, loc)
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.hour, t.minute)
}

// WorkingWindow is a recurring availability span for a professional or a
// whole location.
type WorkingWindow struct {
	days     []Weekday
	opensAt  TimeOfDay
	closesAt TimeOfDay
	active   bool
}

func NewWorkingWindow(days []Weekday, opensAt, closesAt TimeOfDay, active bool) (WorkingWindow, error) {
	if !opensAt.Before(closesAt) {
		return WorkingWindow{}, ErrInvalidWindow
	}
	for _, d := range days {
		if !d.IsValid() {
			return WorkingWindow{}, fmt.Errorf("invalid weekday %d", d)
		}
	}
	return WorkingWindow{days: days, opensAt: opensAt, closesAt: closesAt, active: active}, nil
}

func (w WorkingWindow) OpensAt() TimeOfDay  { return w.opensAt }
func (w WorkingWindow) ClosesAt() TimeOfDay { return w.closesAt }
func (w WorkingWindow) Active() bool        { return w.active }

func (w WorkingWindow) AppliesOn(d Weekday) bool {
	if !w.active {
		return false
	}
	for _, day := range w.days {
		if day == d {
			return true
		}
	}
	return false
}

// Block is an administrator-defined unavailability window. A nil
// professionalID means the block covers the whole location.
type Block struct {
	interval       Interval
	professionalID *uuid.UUID
}

func NewBlock(interval Interval, professionalID *uuid.UUID) Block {
	return Block{interval: interval, professionalID: professionalID}
}

func (b Block) Interval() Interval { return b.interval }

func (b Block) AppliesTo(professionalID uuid.UUID) bool {
	return b.professionalID == nil || *b.professionalID == professionalID
}
