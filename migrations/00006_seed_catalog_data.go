package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upSeedCatalogData, downSeedCatalogData)
}

func upSeedCatalogData(ctx context.Context, tx *sql.Tx) error {
	query := `
		INSERT INTO classifications (code, description) VALUES
			('T11', 'Atletismo - deficiência visual total'),
			('T12', 'Atletismo - baixa visão'),
			('F40', 'Atletismo de campo - baixa estatura'),
			('S7', 'Natação - comprometimento físico moderado');

		INSERT INTO modalities (name, category) VALUES
			('100m Rasos', 'Atletismo'),
			('Salto em Distância', 'Atletismo'),
			('Arremesso de Peso', 'Atletismo'),
			('50m Nado Livre', 'Natação');

		INSERT INTO metric_types (name, unit) VALUES
			('Tempo', 's'),
			('Distância', 'm'),
			('Altura', 'm'),
			('Peso', 'kg');

		INSERT INTO modality_metric_types (modality_id, metric_type_id)
		SELECT m.id, t.id FROM modalities m, metric_types t
		WHERE (m.name = '100m Rasos' AND t.name = 'Tempo')
		   OR (m.name = '50m Nado Livre' AND t.name = 'Tempo')
		   OR (m.name = 'Salto em Distância' AND t.name IN ('Distância', 'Altura'))
		   OR (m.name = 'Arremesso de Peso' AND t.name IN ('Distância', 'Peso'));
	`

	_, err := tx.ExecContext(ctx, query)

	if err != nil {
		return err
	}

	return nil
}

func downSeedCatalogData(ctx context.Context, tx *sql.Tx) error {
	query := `
		DELETE FROM modality_metric_types;
		DELETE FROM metric_types;
		DELETE FROM modalities;
		DELETE FROM classifications;
	`
	_, err := tx.ExecContext(ctx, query)

	if err != nil {
		return err
	}

	return nil
}
