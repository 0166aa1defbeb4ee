package api

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/voidnire/APANEsportes-sub000/internal/model"
	"github.com/voidnire/APANEsportes-sub000/internal/service"
)

type AuthHandler struct {
	authService service.AuthService
	sessionTTL  time.Duration
	validate    *validator.Validate
}

func NewAuthHandler(authService service.AuthService, sessionTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		sessionTTL:  sessionTTL,
		validate:    validator.New(),
	}
}

// OwnerResponse is the sanitized owner profile: the password hash never
// leaves the service.
type OwnerResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func sanitizeOwner(owner *model.Owner) OwnerResponse {
	return OwnerResponse{
		ID:        owner.ID,
		Email:     owner.Email,
		Name:      owner.Name,
		CreatedAt: owner.CreatedAt,
		UpdatedAt: owner.UpdatedAt,
	}
}

type SignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required,min=2"`
}

func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var request SignupRequest

	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON", "details": err.Error()})
	}

	if err := h.validate.Struct(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input", "details": err.Error()})
	}

	owner, err := h.authService.Signup(c.Context(), request.Email, request.Password, request.Name)

	if err != nil {
		var pgErr *pgconn.PgError

		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Email already registered"})
		}

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not create account"})
	}

	return c.Status(fiber.StatusCreated).JSON(sanitizeOwner(owner))
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the raw session identifier next to the profile so
// clients that cannot retain cookies can store it and replay it as a
// bearer credential.
type LoginResponse struct {
	Owner     OwnerResponse `json:"owner"`
	SessionID string        `json:"session_id"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var request LoginRequest

	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	if err := h.validate.Struct(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input", "details": err.Error()})
	}

	owner, sessionID, err := h.authService.Login(c.Context(), request.Email, request.Password)

	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid credentials"})
		}

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not log in"})
	}

	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    sessionID,
		Expires:  time.Now().Add(h.sessionTTL),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})

	return c.Status(fiber.StatusOK).JSON(LoginResponse{
		Owner:     sanitizeOwner(owner),
		SessionID: sessionID,
	})
}

// Logout destroys the session through whichever channel authenticated the
// request and tells cookie-based clients to drop theirs. It succeeds even
// when the store-side destroy races with passive expiry.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sessionID := GetSessionID(c)

	if err := h.authService.Logout(c.Context(), sessionID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not log out"})
	}

	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Logged out successfully"})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	ownerID, err := GetOwnerIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	owner, err := h.authService.GetProfile(c.Context(), ownerID)

	if err != nil {
		if errors.Is(err, service.ErrOwnerNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Owner not found"})
		}

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not load profile"})
	}

	return c.Status(fiber.StatusOK).JSON(sanitizeOwner(owner))
}
