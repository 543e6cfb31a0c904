package postgres

import (
	"context"

	"github.com/uptrace/bun"
)

// Statements run one at a time: the pgx driver uses the extended protocol,
// which rejects multi-statement strings.
var schemaStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS btree_gist`,
	`CREATE TABLE IF NOT EXISTS appointments (
		id BIGSERIAL PRIMARY KEY,
		service VARCHAR(50) NOT NULL,
		start_time TIMESTAMP NOT NULL,
		end_time TIMESTAMP NOT NULL,
		customer_name VARCHAR(100),
		email VARCHAR(255) NOT NULL,
		phone VARCHAR(20) NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT now(),
		CONSTRAINT appointments_valid_interval CHECK (start_time < end_time),
		CONSTRAINT appointments_no_overlap
			EXCLUDE USING gist (tsrange(start_time, end_time) WITH &&)
	)`,
	`CREATE INDEX IF NOT EXISTS appointments_start_time_idx
		ON appointments (start_time)`,
}

// EnsureSchema creates the appointments table and its no-overlap exclusion
// constraint. The constraint is what makes check-then-insert safe under
// concurrent requests.
func EnsureSchema(ctx context.Context, db *bun.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
