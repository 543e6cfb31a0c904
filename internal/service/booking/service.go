package booking

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"
	"unicode"

	"trimline/server/internal/domain"
	"trimline/server/internal/schedule"
	"trimline/server/internal/store"
)

const minPhoneDigits = 10

type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func validationError(msg string) error {
	return &ValidationError{msg: msg}
}

// ErrBusinessHours is distinct from generic validation so the transport can
// report it with its own message.
var ErrBusinessHours = errors.New("appointments must be between 09:00 and 19:00")

type Service struct {
	store  store.AppointmentStore
	engine *schedule.Engine
}

func NewService(st store.AppointmentStore) *Service {
	return &Service{
		store:  st,
		engine: schedule.NewEngine(st),
	}
}

type CreateInput struct {
	Service      string
	StartTime    time.Time
	EndTime      time.Time
	CustomerName string
	Email        string
	Phone        string
}

// Create validates the candidate, checks availability, and inserts. The
// pre-check and the insert are not atomic; the store's overlap exclusion is
// what guarantees no double-booking when requests race.
func (s *Service) Create(ctx context.Context, in CreateInput) (domain.Appointment, error) {
	if !domain.ValidService(in.Service) {
		return domain.Appointment{}, validationError("invalid service type")
	}

	email := strings.TrimSpace(in.Email)
	if email == "" {
		return domain.Appointment{}, validationError("email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return domain.Appointment{}, validationError("invalid email address")
	}

	phone := strings.TrimSpace(in.Phone)
	if countDigits(phone) < minPhoneDigits {
		return domain.Appointment{}, validationError("phone number must be at least 10 digits")
	}

	if !in.EndTime.After(in.StartTime) {
		return domain.Appointment{}, validationError("end_time must be after start_time")
	}

	if !schedule.WithinBusinessHours(in.StartTime, in.EndTime) {
		return domain.Appointment{}, ErrBusinessHours
	}

	available, err := s.engine.IsAvailable(ctx, in.StartTime, in.EndTime)
	if err != nil {
		return domain.Appointment{}, err
	}
	if !available {
		return domain.Appointment{}, store.ErrConflict
	}

	return s.store.Insert(ctx, domain.Appointment{
		Service:      in.Service,
		StartTime:    in.StartTime,
		EndTime:      in.EndTime,
		CustomerName: strings.TrimSpace(in.CustomerName),
		Email:        email,
		Phone:        phone,
	})
}

func (s *Service) List(ctx context.Context) ([]domain.Appointment, error) {
	return s.store.ListAll(ctx)
}

func (s *Service) ListByDay(ctx context.Context, day time.Time) ([]domain.Appointment, error) {
	return s.store.ListByDay(ctx, day)
}

func (s *Service) Get(ctx context.Context, id int64) (domain.Appointment, error) {
	return s.store.Get(ctx, id)
}

// Delete cancels an appointment. Cancellation is immediate and
// irreversible; a second delete of the same id reports ErrNotFound.
func (s *Service) Delete(ctx context.Context, id int64) error {
	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return store.ErrNotFound
	}
	return nil
}

func (s *Service) DailySlots(ctx context.Context, day time.Time) ([]schedule.Slot, error) {
	return s.engine.DailySlots(ctx, day)
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}
