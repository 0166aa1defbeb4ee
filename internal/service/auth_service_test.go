package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/voidnire/APANEsportes-sub000/internal/model"
	"github.com/voidnire/APANEsportes-sub000/internal/repository"
	"github.com/voidnire/APANEsportes-sub000/internal/service"
	"github.com/voidnire/APANEsportes-sub000/internal/session"
)

type fakeOwnerRepo struct {
	byEmail map[string]*model.Owner
	byID    map[uuid.UUID]*model.Owner
	created []*model.Owner
}

func newFakeOwnerRepo() *fakeOwnerRepo {
	return &fakeOwnerRepo{
		byEmail: make(map[string]*model.Owner),
		byID:    make(map[uuid.UUID]*model.Owner),
	}
}

func (f *fakeOwnerRepo) Create(ctx context.Context, owner *model.Owner) (uuid.UUID, error) {
	id := uuid.New()
	owner.ID = id
	f.byEmail[owner.Email] = owner
	f.byID[id] = owner
	f.created = append(f.created, owner)
	return id, nil
}

func (f *fakeOwnerRepo) FindByEmail(ctx context.Context, email string) (*model.Owner, error) {
	owner, ok := f.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return owner, nil
}

func (f *fakeOwnerRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Owner, error) {
	owner, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return owner, nil
}

func newAuthFixture(t *testing.T) (service.AuthService, *fakeOwnerRepo, *session.MemoryStore) {
	repo := newFakeOwnerRepo()
	store := session.NewMemoryStore(time.Hour)
	t.Cleanup(func() { store.Close() })
	return service.NewAuthService(repo, store, bcrypt.MinCost), repo, store
}

func TestAuthService_SignupLowercasesEmailAndHashes(t *testing.T) {
	svc, repo, _ := newAuthFixture(t)

	owner, err := svc.Signup(context.Background(), "Coach@APAN.org", "secret123", "Coach")
	require.NoError(t, err)
	require.Equal(t, "coach@apan.org", owner.Email)
	require.NotEqual(t, "secret123", owner.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(owner.PasswordHash), []byte("secret123")))
	require.Len(t, repo.created, 1)
}

func TestAuthService_LoginIssuesResolvableSession(t *testing.T) {
	svc, _, store := newAuthFixture(t)

	signed, err := svc.Signup(context.Background(), "coach@apan.org", "secret123", "Coach")
	require.NoError(t, err)

	owner, sessionID, err := svc.Login(context.Background(), "coach@apan.org", "secret123")
	require.NoError(t, err)
	require.Equal(t, signed.ID, owner.ID)
	require.NotEmpty(t, sessionID)

	claims, err := store.Get(context.Background(), sessionID)
	require.NoError(t, err)
	require.Equal(t, owner.ID, claims.OwnerID)
	require.Equal(t, "coach", claims.Role)
}

func TestAuthService_LoginWrongPassword(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, err := svc.Signup(context.Background(), "coach@apan.org", "secret123", "Coach")
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "coach@apan.org", "not-the-password")
	require.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestAuthService_LoginUnknownEmailSameError(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, _, err := svc.Login(context.Background(), "nobody@apan.org", "whatever1")
	require.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestAuthService_LogoutKillsSessionAndIsIdempotent(t *testing.T) {
	svc, _, store := newAuthFixture(t)

	_, err := svc.Signup(context.Background(), "coach@apan.org", "secret123", "Coach")
	require.NoError(t, err)

	_, sessionID, err := svc.Login(context.Background(), "coach@apan.org", "secret123")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), sessionID))

	_, err = store.Get(context.Background(), sessionID)
	require.ErrorIs(t, err, session.ErrSessionNotFound)

	require.NoError(t, svc.Logout(context.Background(), sessionID))
}

func TestAuthService_GetProfile_MissingOwner(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, err := svc.GetProfile(context.Background(), uuid.New())
	require.ErrorIs(t, err, service.ErrOwnerNotFound)
}
