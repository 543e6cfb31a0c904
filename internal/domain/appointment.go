package domain

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

type Appointment struct {
	bun.BaseModel `bun:"table:appointments" json:"-"`

	ID           int64     `bun:"id,pk,autoincrement" json:"id"`
	Service      string    `bun:"service,notnull" json:"service"`
	StartTime    time.Time `bun:"start_time,notnull" json:"startTime"`
	EndTime      time.Time `bun:"end_time,notnull" json:"endTime"`
	CustomerName string    `bun:"customer_name" json:"customerName,omitempty"`
	Email        string    `bun:"email,notnull" json:"email"`
	Phone        string    `bun:"phone,notnull" json:"phone"`
	CreatedAt    time.Time `bun:"created_at,notnull" json:"createdAt"`
}

func (a *Appointment) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	if _, ok := query.(*bun.InsertQuery); ok {
		if a.CreatedAt.IsZero() {
			a.CreatedAt = time.Now()
		}
	}
	return nil
}
