package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/voidnire/APANEsportes-sub000/internal/model"
)

type OwnerRepository interface {
	Create(ctx context.Context, owner *model.Owner) (uuid.UUID, error)
	FindByEmail(ctx context.Context, email string) (*model.Owner, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Owner, error)
}

type postgresOwnerRepository struct {
	db *sqlx.DB
}

func NewPostgresOwnerRepository(db *sqlx.DB) OwnerRepository {
	return &postgresOwnerRepository{db: db}
}

func (r *postgresOwnerRepository) Create(ctx context.Context, owner *model.Owner) (uuid.UUID, error) {
	query := `INSERT INTO owners (email, name, password_hash) VALUES ($1, $2, $3) RETURNING id`
	var newID uuid.UUID
	err := r.db.QueryRowxContext(ctx, query, owner.Email, owner.Name, owner.PasswordHash).Scan(&newID)

	if err != nil {
		return uuid.Nil, err
	}

	return newID, nil
}

func (r *postgresOwnerRepository) FindByEmail(ctx context.Context, email string) (*model.Owner, error) {
	var owner model.Owner
	query := `SELECT id, email, name, password_hash, created_at, updated_at FROM owners WHERE email = $1`
	err := r.db.GetContext(ctx, &owner, query, email)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &owner, nil
}

func (r *postgresOwnerRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Owner, error) {
	var owner model.Owner
	query := `SELECT id, email, name, password_hash, created_at, updated_at FROM owners WHERE id = $1`
	err := r.db.GetContext(ctx, &owner, query, id)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &owner, nil
}
