package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateAthleteClassificationsTable, downCreateAthleteClassificationsTable)
}

func upCreateAthleteClassificationsTable(ctx context.Context, tx *sql.Tx) error {
	query := `
		CREATE TABLE athlete_classifications (
			athlete_id UUID NOT NULL REFERENCES athletes(id) ON DELETE CASCADE,
			classification_id UUID NOT NULL REFERENCES classifications(id) ON DELETE CASCADE,
			PRIMARY KEY (athlete_id, classification_id)
		);
	`

	_, err := tx.ExecContext(ctx, query)

	if err != nil {
		return err
	}

	return nil
}

func downCreateAthleteClassificationsTable(ctx context.Context, tx *sql.Tx) error {
	query := `DROP TABLE IF EXISTS athlete_classifications;`
	_, err := tx.ExecContext(ctx, query)

	if err != nil {
		return err
	}

	return nil
}
