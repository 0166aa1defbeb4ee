package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateCatalogTables, downCreateCatalogTables)
}

func upCreateCatalogTables(ctx context.Context, tx *sql.Tx) error {
	query := `
		CREATE TABLE classifications (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			code TEXT UNIQUE NOT NULL,
			description TEXT NOT NULL
		);

		CREATE TABLE modalities (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name TEXT UNIQUE NOT NULL,
			category TEXT NOT NULL
		);

		CREATE TABLE metric_types (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name TEXT NOT NULL,
			unit TEXT NOT NULL,
			UNIQUE(name, unit)
		);

		CREATE TABLE modality_metric_types (
			modality_id UUID NOT NULL REFERENCES modalities(id) ON DELETE CASCADE,
			metric_type_id UUID NOT NULL REFERENCES metric_types(id) ON DELETE CASCADE,
			PRIMARY KEY (modality_id, metric_type_id)
		);
	`

	_, err := tx.ExecContext(ctx, query)

	if err != nil {
		return err
	}

	return nil
}

func downCreateCatalogTables(ctx context.Context, tx *sql.Tx) error {
	query := `
		DROP TABLE IF EXISTS modality_metric_types;
		DROP TABLE IF EXISTS metric_types;
		DROP TABLE IF EXISTS modalities;
		DROP TABLE IF EXISTS classifications;
	`
	_, err := tx.ExecContext(ctx, query)

	if err != nil {
		return err
	}

	return nil
}
