package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/voidnire/APANEsportes-sub000/internal/model"
	"github.com/voidnire/APANEsportes-sub000/internal/repository"
	"github.com/voidnire/APANEsportes-sub000/internal/session"
)

var (
	// ErrInvalidCredentials never reveals whether the email existed.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrOwnerNotFound      = errors.New("owner not found")
)

// Secondary session claim carried next to the owner id. Only coaches exist
// today; the claim is rehydrated on every bearer lookup regardless.
const roleCoach = "coach"

type AuthService interface {
	Signup(ctx context.Context, email, password, name string) (*model.Owner, error)
	// Login issues exactly one session per successful credential check and
	// returns the owner together with the raw session identifier, which
	// mobile clients replay as a bearer credential.
	Login(ctx context.Context, email, password string) (*model.Owner, string, error)
	Logout(ctx context.Context, sessionID string) error
	GetProfile(ctx context.Context, ownerID uuid.UUID) (*model.Owner, error)
}

type authService struct {
	ownerRepo  repository.OwnerRepository
	sessions   session.Store
	bcryptCost int
}

func NewAuthService(ownerRepo repository.OwnerRepository, sessions session.Store, bcryptCost int) AuthService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &authService{
		ownerRepo:  ownerRepo,
		sessions:   sessions,
		bcryptCost: bcryptCost,
	}
}

func (s *authService) Signup(ctx context.Context, email, password, name string) (*model.Owner, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	owner := &model.Owner{
		Email:        strings.ToLower(email),
		Name:         name,
		PasswordHash: string(hashedPassword),
	}

	newID, err := s.ownerRepo.Create(ctx, owner)
	if err != nil {
		return nil, err
	}

	owner.ID = newID

	return owner, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*model.Owner, string, error) {
	owner, err := s.ownerRepo.FindByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(owner.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	sessionID, err := s.sessions.Create(ctx, session.Claims{OwnerID: owner.ID, Role: roleCoach})
	if err != nil {
		return nil, "", err
	}

	return owner, sessionID, nil
}

// Logout succeeds even when the session already expired out of the store.
func (s *authService) Logout(ctx context.Context, sessionID string) error {
	err := s.sessions.Destroy(ctx, sessionID)
	if errors.Is(err, session.ErrSessionNotFound) {
		return nil
	}
	return err
}

func (s *authService) GetProfile(ctx context.Context, ownerID uuid.UUID) (*model.Owner, error) {
	owner, err := s.ownerRepo.FindByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// The session can outlive its owner row.
			return nil, ErrOwnerNotFound
		}
		return nil, err
	}

	return owner, nil
}
