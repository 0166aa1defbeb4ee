package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateEvaluationTables, downCreateEvaluationTables)
}

func upCreateEvaluationTables(ctx context.Context, tx *sql.Tx) error {
	query := `
		CREATE TABLE evaluation_records (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			athlete_id UUID NOT NULL REFERENCES athletes(id) ON DELETE CASCADE,
			modality_id UUID NOT NULL REFERENCES modalities(id),
			kind TEXT NOT NULL CHECK (kind IN ('PRE', 'POST')),
			notes TEXT NOT NULL DEFAULT '',
			recorded_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
			analysis JSONB,
			analysis_video_key TEXT,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT now()
		);

		CREATE INDEX idx_evaluation_records_athlete_recorded ON evaluation_records(athlete_id, recorded_at DESC);

		CREATE TABLE metric_results (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			record_id UUID NOT NULL REFERENCES evaluation_records(id) ON DELETE CASCADE,
			metric_type_id UUID NOT NULL REFERENCES metric_types(id),
			value NUMERIC(12,4) NOT NULL CHECK (value > 0),
			created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT now()
		);

		CREATE INDEX idx_metric_results_record_id ON metric_results(record_id);
	`

	_, err := tx.ExecContext(ctx, query)

	if err != nil {
		return err
	}

	return nil
}

func downCreateEvaluationTables(ctx context.Context, tx *sql.Tx) error {
	query := `
		DROP TABLE IF EXISTS metric_results;
		DROP TABLE IF EXISTS evaluation_records;
	`
	_, err := tx.ExecContext(ctx, query)

	if err != nil {
		return err
	}

	return nil
}
