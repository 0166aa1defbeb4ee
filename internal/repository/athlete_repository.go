package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/voidnire/APANEsportes-sub000/internal/model"
)

// AthleteRepository encodes the ownership guard directly into every query:
// an athlete is never addressed by id alone, always by (id, owner_id) in a
// single composite predicate.
type AthleteRepository interface {
	Create(ctx context.Context, athlete *model.Athlete) (uuid.UUID, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Athlete, error)
	FindByID(ctx context.Context, id, ownerID uuid.UUID) (*model.Athlete, error)
	Update(ctx context.Context, athlete *model.Athlete) (*model.Athlete, error)
	Delete(ctx context.Context, id, ownerID uuid.UUID) error
	AddClassification(ctx context.Context, athleteID, classificationID uuid.UUID) error
	RemoveClassification(ctx context.Context, athleteID, classificationID, ownerID uuid.UUID) error
	ListClassifications(ctx context.Context, athleteID uuid.UUID) ([]model.Classification, error)
}

type postgresAthleteRepository struct {
	db *sqlx.DB
}

func NewPostgresAthleteRepository(db *sqlx.DB) AthleteRepository {
	return &postgresAthleteRepository{db: db}
}

func (r *postgresAthleteRepository) Create(ctx context.Context, athlete *model.Athlete) (uuid.UUID, error) {
	query := `INSERT INTO athletes (owner_id, full_name, birth_date) VALUES ($1, $2, $3) RETURNING id`
	var newID uuid.UUID
	err := r.db.QueryRowxContext(ctx, query, athlete.OwnerID, athlete.FullName, athlete.BirthDate).Scan(&newID)

	if err != nil {
		return uuid.Nil, err
	}

	return newID, nil
}

func (r *postgresAthleteRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Athlete, error) {
	var athletes []model.Athlete
	query := `
		SELECT id, owner_id, full_name, birth_date, created_at, updated_at
		FROM athletes
		WHERE owner_id = $1
		ORDER BY full_name ASC
	`
	err := r.db.SelectContext(ctx, &athletes, query, ownerID)

	if err != nil {
		return nil, err
	}

	if athletes == nil {
		athletes = []model.Athlete{}
	}

	return athletes, nil
}

func (r *postgresAthleteRepository) FindByID(ctx context.Context, id, ownerID uuid.UUID) (*model.Athlete, error) {
	var athlete model.Athlete
	query := `
		SELECT id, owner_id, full_name, birth_date, created_at, updated_at
		FROM athletes
		WHERE id = $1 AND owner_id = $2
	`
	err := r.db.GetContext(ctx, &athlete, query, id, ownerID)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &athlete, nil
}

func (r *postgresAthleteRepository) Update(ctx context.Context, athlete *model.Athlete) (*model.Athlete, error) {
	var updated model.Athlete
	query := `
		UPDATE athletes
		SET full_name = $3, birth_date = $4, updated_at = now()
		WHERE id = $1 AND owner_id = $2
		RETURNING id, owner_id, full_name, birth_date, created_at, updated_at
	`
	err := r.db.GetContext(ctx, &updated, query, athlete.ID, athlete.OwnerID, athlete.FullName, athlete.BirthDate)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &updated, nil
}

func (r *postgresAthleteRepository) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	query := `DELETE FROM athletes WHERE id = $1 AND owner_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, ownerID)

	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

// AddClassification is called only after the athlete passed the ownership
// guard; the upsert keeps the association idempotent.
func (r *postgresAthleteRepository) AddClassification(ctx context.Context, athleteID, classificationID uuid.UUID) error {
	query := `
		INSERT INTO athlete_classifications (athlete_id, classification_id)
		VALUES ($1, $2)
		ON CONFLICT (athlete_id, classification_id) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, query, athleteID, classificationID)
	return err
}

// RemoveClassification carries the ownership check as a nested predicate on
// the parent athlete inside the same DELETE.
func (r *postgresAthleteRepository) RemoveClassification(ctx context.Context, athleteID, classificationID, ownerID uuid.UUID) error {
	query := `
		DELETE FROM athlete_classifications ac
		USING athletes a
		WHERE ac.athlete_id = a.id
		  AND ac.athlete_id = $1
		  AND ac.classification_id = $2
		  AND a.owner_id = $3
	`
	result, err := r.db.ExecContext(ctx, query, athleteID, classificationID, ownerID)

	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *postgresAthleteRepository) ListClassifications(ctx context.Context, athleteID uuid.UUID) ([]model.Classification, error) {
	var classifications []model.Classification
	query := `
		SELECT c.id, c.code, c.description
		FROM classifications c
		JOIN athlete_classifications ac ON ac.classification_id = c.id
		WHERE ac.athlete_id = $1
		ORDER BY c.code ASC
	`
	err := r.db.SelectContext(ctx, &classifications, query, athleteID)

	if err != nil {
		return nil, err
	}

	if classifications == nil {
		classifications = []model.Classification{}
	}

	return classifications, nil
}
