package api

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/voidnire/APANEsportes-sub000/internal/session"
)

// SessionCookieName is the cookie set at login for web-style clients.
// Mobile clients ignore it and replay the raw session id as a bearer
// credential instead.
const SessionCookieName = "apan_session"

const (
	localsClaimsKey    = "sessionClaims"
	localsSessionIDKey = "sessionID"
)

var (
	httpRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of http request",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status_code"},
	)
)

// CookieSessionMiddleware resolves the session cookie against the store and
// attaches the claims to the request. It never rejects on its own: requests
// without a cookie, or with a stale one, fall through to the gate, which
// may still authenticate them over the bearer channel.
func CookieSessionMiddleware(store session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID := c.Cookies(SessionCookieName)
		if sessionID != "" {
			claims, err := store.Get(c.Context(), sessionID)
			if err == nil {
				c.Locals(localsClaimsKey, claims)
				c.Locals(localsSessionIDKey, sessionID)
			}
		}

		return c.Next()
	}
}

// AuthMiddleware is the authentication gate. The decision is an ordered
// chain owned entirely here: claims already resolved from the cookie win;
// otherwise an Authorization header is treated as a raw session identifier
// and rehydrated with a manual store lookup; otherwise the request is
// rejected. Handlers never learn which channel authenticated the caller.
//
// A store error on the bearer path rejects the request: fail closed.
func AuthMiddleware(store session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := c.Locals(localsClaimsKey).(session.Claims); ok {
			return c.Next()
		}

		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not authenticated"})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid authorization header format"})
		}
		sessionID := parts[1]

		claims, err := store.Get(c.Context(), sessionID)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not authenticated"})
		}

		c.Locals(localsClaimsKey, claims)
		c.Locals(localsSessionIDKey, sessionID)

		return c.Next()
	}
}

// GetOwnerIDFromClaims returns the authenticated owner id placed in the
// request locals by the gate.
func GetOwnerIDFromClaims(c *fiber.Ctx) (uuid.UUID, error) {
	claims, ok := c.Locals(localsClaimsKey).(session.Claims)
	if !ok {
		return uuid.Nil, errors.New("claims not found in context")
	}

	if claims.OwnerID == uuid.Nil {
		return uuid.Nil, errors.New("owner id not found in claims")
	}

	return claims.OwnerID, nil
}

// GetSessionID returns the raw identifier of the session that authenticated
// this request, regardless of channel. Empty when unauthenticated.
func GetSessionID(c *fiber.Ctx) string {
	sessionID, _ := c.Locals(localsSessionIDKey).(string)
	return sessionID
}

func PrometheusMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		duration := time.Since(start).Seconds()
		statusCode := c.Response().StatusCode()

		if err != nil {
			var e *fiber.Error

			if errors.As(err, &e) {
				statusCode = e.Code
			} else {
				statusCode = fiber.StatusInternalServerError
			}
		}

		method := c.Method()
		path := c.Path()
		statusStr := fmt.Sprintf("%d", statusCode)

		httpRequestTotal.WithLabelValues(method, path, statusStr).Inc()
		httpRequestDuration.WithLabelValues(method, path, statusStr).Observe(duration)

		return err
	}
}
