package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateOwnersTable, downCreateOwnersTable)
}

func upCreateOwnersTable(ctx context.Context, tx *sql.Tx) error {
	query := `
	CREATE TABLE owners (
	  id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	  email TEXT NOT NULL,
	  password_hash TEXT NOT NULL,
	  name TEXT NOT NULL,
	  created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
	  updated_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);

	CREATE UNIQUE INDEX idx_owners_email_lower ON owners (lower(email));
	`

	_, err := tx.ExecContext(ctx, query)

	if err != nil {
		return err
	}

	return nil
}

func downCreateOwnersTable(ctx context.Context, tx *sql.Tx) error {
	query := `DROP TABLE IF EXISTS owners;`
	_, err := tx.ExecContext(ctx, query)
	if err != nil {
		return err
	}
	return nil
}
