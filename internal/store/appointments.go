package store

import (
	"context"
	"time"

	"trimline/server/internal/domain"
)

// AppointmentStore is the storage contract. Two implementations exist
// (postgres and memory) and must behave identically, including the
// overlap exclusion at insert.
type AppointmentStore interface {
	ListAll(ctx context.Context) ([]domain.Appointment, error)
	ListByDay(ctx context.Context, day time.Time) ([]domain.Appointment, error)
	Get(ctx context.Context, id int64) (domain.Appointment, error)
	Insert(ctx context.Context, appt domain.Appointment) (domain.Appointment, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// DayWindow returns the inclusive bounds for a calendar day in the day's
// own location: [00:00:00.000, 23:59:59.999]. ListByDay matches start_time
// against both ends inclusively.
func DayWindow(day time.Time) (time.Time, time.Time) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.Add(24*time.Hour - time.Millisecond)
	return start, end
}
