// Package memory provides the in-memory AppointmentStore variant, used by
// tests and by deployments without a database. It mirrors the postgres
// variant's behavior, including the overlap exclusion at insert.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"trimline/server/internal/domain"
	"trimline/server/internal/schedule"
	"trimline/server/internal/store"
)

type Store struct {
	mu           sync.Mutex
	appointments map[int64]domain.Appointment
	nextID       int64
}

func NewStore() *Store {
	return &Store{
		appointments: make(map[int64]domain.Appointment),
		nextID:       1,
	}
}

func (s *Store) ListAll(ctx context.Context) ([]domain.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Appointment, 0, len(s.appointments))
	for _, appt := range s.appointments {
		out = append(out, appt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) ListByDay(ctx context.Context, day time.Time) ([]domain.Appointment, error) {
	dayStart, dayEnd := store.DayWindow(day)

	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.Appointment
	for _, appt := range s.appointments {
		if !appt.StartTime.Before(dayStart) && !appt.StartTime.After(dayEnd) {
			out = append(out, appt)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (s *Store) Get(ctx context.Context, id int64) (domain.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	appt, ok := s.appointments[id]
	if !ok {
		return domain.Appointment{}, store.ErrNotFound
	}
	return appt, nil
}

// Insert assigns a fresh id and CreatedAt. The overlap check runs inside
// the lock, which is the memory-side equivalent of the postgres exclusion
// constraint: two racing inserts of overlapping intervals cannot both land.
func (s *Store) Insert(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	candidate := schedule.Interval{Start: appt.StartTime, End: appt.EndTime}
	for _, existing := range s.appointments {
		if schedule.Overlaps(candidate, schedule.Interval{Start: existing.StartTime, End: existing.EndTime}) {
			return domain.Appointment{}, store.ErrConflict
		}
	}

	appt.ID = s.nextID
	s.nextID++
	if appt.CreatedAt.IsZero() {
		appt.CreatedAt = time.Now()
	}
	s.appointments[appt.ID] = appt
	return appt, nil
}

func (s *Store) Delete(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.appointments[id]; !ok {
		return false, nil
	}
	delete(s.appointments, id)
	return true, nil
}
