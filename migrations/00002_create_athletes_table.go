package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateAthletesTable, downCreateAthletesTable)
}

func upCreateAthletesTable(ctx context.Context, tx *sql.Tx) error {
	query := `
		CREATE TABLE athletes (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			owner_id UUID NOT NULL REFERENCES owners(id) ON DELETE CASCADE,
			full_name TEXT NOT NULL,
			birth_date DATE NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT now()
		);

		CREATE INDEX idx_athletes_owner_id ON athletes(owner_id);
	`

	_, err := tx.ExecContext(ctx, query)

	if err != nil {
		return err
	}

	return nil
}

func downCreateAthletesTable(ctx context.Context, tx *sql.Tx) error {
	query := `DROP TABLE IF EXISTS athletes;`
	_, err := tx.ExecContext(ctx, query)

	if err != nil {
		return err
	}

	return nil
}
