package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun"

	"trimline/server/internal/domain"
	"trimline/server/internal/store"
)

type AppointmentStore struct {
	db *bun.DB
}

func NewAppointmentStore(db *bun.DB) *AppointmentStore {
	return &AppointmentStore{db: db}
}

func (s *AppointmentStore) ListAll(ctx context.Context) ([]domain.Appointment, error) {
	var rows []domain.Appointment
	err := s.db.NewSelect().
		Model(&rows).
		OrderExpr("start_time ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *AppointmentStore) ListByDay(ctx context.Context, day time.Time) ([]domain.Appointment, error) {
	dayStart, dayEnd := store.DayWindow(day)

	var rows []domain.Appointment
	err := s.db.NewSelect().
		Model(&rows).
		Where("start_time >= ?", dayStart).
		Where("start_time <= ?", dayEnd).
		OrderExpr("start_time ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *AppointmentStore) Get(ctx context.Context, id int64) (domain.Appointment, error) {
	var appt domain.Appointment
	err := s.db.NewSelect().
		Model(&appt).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Appointment{}, store.ErrNotFound
		}
		return domain.Appointment{}, err
	}
	return appt, nil
}

func (s *AppointmentStore) Insert(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
	m := domain.Appointment{
		Service:      appt.Service,
		StartTime:    appt.StartTime,
		EndTime:      appt.EndTime,
		CustomerName: appt.CustomerName,
		Email:        appt.Email,
		Phone:        appt.Phone,
	}

	_, err := s.db.NewInsert().
		Model(&m).
		Returning("id, created_at").
		Exec(ctx)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23P01" && pgErr.ConstraintName == "appointments_no_overlap" {
			return domain.Appointment{}, store.ErrConflict
		}
		return domain.Appointment{}, err
	}

	return m, nil
}

func (s *AppointmentStore) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.NewDelete().
		Model((*domain.Appointment)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
