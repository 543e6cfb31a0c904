// Package schedule decides whether intervals may be booked and derives the
// daily availability grid. Appointments are half-open intervals
// [start, end): one ending exactly when another starts does not conflict.
package schedule

import (
	"context"
	"fmt"
	"time"

	"trimline/server/internal/store"
)

// Business hours: bookable intervals must fit within
// [OpenHour:00, CloseHour:00] wall-clock time.
const (
	OpenHour  = 9
	CloseHour = 19

	SlotMinutes = 30
)

type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether two half-open intervals intersect.
func Overlaps(a, b Interval) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// WithinBusinessHours checks wall-clock containment of [start, end) in
// business hours. Clock fields only, not elapsed duration: a start at
// exactly CloseHour is rejected even though nothing could follow it.
func WithinBusinessHours(start, end time.Time) bool {
	startHour := start.Hour()
	endHour := end.Hour()
	endMinute := end.Minute()

	if startHour < OpenHour || startHour >= CloseHour {
		return false
	}
	if endHour > CloseHour || (endHour == CloseHour && endMinute > 0) {
		return false
	}
	return true
}

// Slot is one fixed-width availability grid entry. Slots are display
// artifacts, never stored.
type Slot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

type Engine struct {
	store store.AppointmentStore
}

func NewEngine(st store.AppointmentStore) *Engine {
	return &Engine{store: st}
}

// IsAvailable reports whether [start, end) is free of conflicts with the
// appointments already booked on start's day. Interval ordering is the
// caller's problem; the engine does not validate start < end.
func (e *Engine) IsAvailable(ctx context.Context, start, end time.Time) (bool, error) {
	existing, err := e.store.ListByDay(ctx, start)
	if err != nil {
		return false, err
	}

	candidate := Interval{Start: start, End: end}
	for _, appt := range existing {
		if Overlaps(candidate, Interval{Start: appt.StartTime, End: appt.EndTime}) {
			return false, nil
		}
	}
	return true, nil
}

// DailySlots enumerates every SlotMinutes-wide slot within business hours
// on the given day, in chronological order, each flagged against the day's
// bookings with the same predicate the conflict check uses.
func (e *Engine) DailySlots(ctx context.Context, day time.Time) ([]Slot, error) {
	existing, err := e.store.ListByDay(ctx, day)
	if err != nil {
		return nil, err
	}

	busy := make([]Interval, len(existing))
	for i, appt := range existing {
		busy[i] = Interval{Start: appt.StartTime, End: appt.EndTime}
	}

	slots := make([]Slot, 0, (CloseHour-OpenHour)*60/SlotMinutes)
	for hour := OpenHour; hour < CloseHour; hour++ {
		for minute := 0; minute < 60; minute += SlotMinutes {
			slotStart := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
			slotEnd := slotStart.Add(SlotMinutes * time.Minute)

			// A slot may end on the closing hour but not past it. Keep the
			// break rather than folding it into the loop bounds so changed
			// hours change the grid the same way.
			if slotEnd.Hour() > CloseHour {
				break
			}

			booked := false
			for _, b := range busy {
				if Overlaps(Interval{Start: slotStart, End: slotEnd}, b) {
					booked = true
					break
				}
			}

			slots = append(slots, Slot{
				Time:      fmt.Sprintf("%02d:%02d", hour, minute),
				Available: !booked,
			})
		}
	}

	return slots, nil
}
