package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/contrib/otelfiber/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/voidnire/APANEsportes-sub000/internal/api"
	"github.com/voidnire/APANEsportes-sub000/internal/events"
	"github.com/voidnire/APANEsportes-sub000/internal/repository"
	"github.com/voidnire/APANEsportes-sub000/internal/s3"
	"github.com/voidnire/APANEsportes-sub000/internal/service"
	"github.com/voidnire/APANEsportes-sub000/internal/session"
	"github.com/voidnire/APANEsportes-sub000/internal/tracing"
	_ "github.com/voidnire/APANEsportes-sub000/migrations"
)

func main() {
	if err := godotenv.Load(".env.dev"); err != nil {
		fmt.Println("No .env.dev file found, reading from environment variables provided by Docker")
	}

	api.SetupGlobalHandler("apan-server")

	shutdownTracer, err := tracing.InitTracerProvider("apan-server")
	if err != nil {
		log.Fatalf("Failed to initialize OpenTelemetry: %v", err)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			log.Printf("Error shutting down tracer provider: %v", err)
		}
	}()

	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		handleMigrations()
		return
	}

	db := connectDB()
	defer db.Close()

	sessionTTL := sessionTTLFromEnv()

	sessionStore := connectSessionStore(sessionTTL)
	defer sessionStore.Close()

	var eventPublisher events.EventPublisher = events.NoopPublisher{}

	natsURL := os.Getenv("NATS_URL")
	if natsURL == "" {
		natsURL = "nats://localhost:4222"
	}
	if os.Getenv("NATS_DISABLED") != "true" {
		eventPublisher, err = events.NewNatsPublisher(natsURL)
		if err != nil {
			log.Fatalf("Failed to connect to NATS: %v", err)
		}
		log.Println("Successfully connected to NATS.")
	}

	ownerRepo := repository.NewPostgresOwnerRepository(db)
	athleteRepo := repository.NewPostgresAthleteRepository(db)
	catalogRepo := repository.NewPostgresCatalogRepository(db)
	evaluationRepo := repository.NewPostgresEvaluationRepository(db)

	var presigner service.AnalysisPresigner
	if os.Getenv("S3_BUCKET_NAME") != "" {
		presigner, err = s3.NewAnalysisPresigner()
		if err != nil {
			log.Fatalf("Failed to configure S3 presigner: %v", err)
		}
	}

	authService := service.NewAuthService(ownerRepo, sessionStore, bcryptCostFromEnv())
	athleteService := service.NewAthleteService(athleteRepo, catalogRepo, eventPublisher)
	evaluationService := service.NewEvaluationService(evaluationRepo, athleteRepo, eventPublisher, presigner)
	catalogService := service.NewCatalogService(catalogRepo)

	if os.Getenv("NATS_DISABLED") != "true" {
		_, err = events.NewAnalysisSubscriber(natsURL, evaluationRepo)
		if err != nil {
			log.Printf("WARNING: Failed to start analysis subscriber: %v", err)
			// Continue running even if subscriber fails, NATS may not be ready
		}
	}

	authHandler := api.NewAuthHandler(authService, sessionTTL)
	athleteHandler := api.NewAthleteHandler(athleteService)
	evaluationHandler := api.NewEvaluationHandler(evaluationService)
	catalogHandler := api.NewCatalogHandler(catalogService)

	app := fiber.New()
	app.Use(otelfiber.Middleware())
	app.Use(api.PrometheusMiddleware())
	app.Use(api.CookieSessionMiddleware(sessionStore))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": "apan-server"})
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	v1 := app.Group("/v1")

	authRoutes := v1.Group("/auth")
	authRoutes.Post("/signup", authHandler.Signup)
	authRoutes.Post("/login", authHandler.Login)
	authRoutes.Post("/logout", api.AuthMiddleware(sessionStore), authHandler.Logout)
	authRoutes.Get("/me", api.AuthMiddleware(sessionStore), authHandler.Me)

	athleteRoutes := v1.Group("/athletes")
	athleteRoutes.Use(api.AuthMiddleware(sessionStore))
	athleteRoutes.Post("/", athleteHandler.Create)
	athleteRoutes.Get("/", athleteHandler.List)
	athleteRoutes.Get("/:id", athleteHandler.Get)
	athleteRoutes.Put("/:id", athleteHandler.Update)
	athleteRoutes.Delete("/:id", athleteHandler.Delete)
	athleteRoutes.Put("/:id/classifications/:classificationId", athleteHandler.AssociateClassification)
	athleteRoutes.Delete("/:id/classifications/:classificationId", athleteHandler.DisassociateClassification)

	evaluationRoutes := v1.Group("/evaluations")
	evaluationRoutes.Use(api.AuthMiddleware(sessionStore))
	evaluationRoutes.Post("/", evaluationHandler.Record)
	evaluationRoutes.Get("/", evaluationHandler.History)
	evaluationRoutes.Post("/:id/analysis", evaluationHandler.AttachAnalysis)
	evaluationRoutes.Get("/:id/analysis-upload", evaluationHandler.AnalysisUploadURL)

	catalogRoutes := v1.Group("/catalog")
	catalogRoutes.Use(api.AuthMiddleware(sessionStore))
	catalogRoutes.Get("/classifications", catalogHandler.ListClassifications)
	catalogRoutes.Get("/modalities", catalogHandler.ListModalities)
	catalogRoutes.Get("/modalities/:id/metric-types", catalogHandler.ListMetricTypes)

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8001"
	}

	log.Printf("Listening apan-server on port %s", port)
	log.Fatal(app.Listen(":" + port))
}

func sessionTTLFromEnv() time.Duration {
	// Defaults to ten days, matching the session cookie lifetime.
	hours := 240
	if raw := os.Getenv("SESSION_TTL_HOURS"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			log.Fatalf("Invalid SESSION_TTL_HOURS value: %q", raw)
		}
		hours = parsed
	}
	return time.Duration(hours) * time.Hour
}

func bcryptCostFromEnv() int {
	raw := os.Getenv("BCRYPT_COST")
	if raw == "" {
		return 0
	}
	cost, err := strconv.Atoi(raw)
	if err != nil {
		log.Fatalf("Invalid BCRYPT_COST value: %q", raw)
	}
	return cost
}

// connectSessionStore picks the session backend from SESSION_BACKEND
// (defaulting to redis when REDIS_URL is set). A requested Redis backend
// must be reachable or the server refuses to start: silently falling back
// to the in-memory store would drop every live session on the next deploy
// without anyone noticing.
func connectSessionStore(ttl time.Duration) session.Store {
	backend := os.Getenv("SESSION_BACKEND")
	redisURL := os.Getenv("REDIS_URL")

	if backend == "" {
		if redisURL != "" {
			backend = "redis"
		} else {
			backend = "memory"
		}
	}

	switch backend {
	case "memory":
		log.Println("Using in-memory session store.")
		return session.NewMemoryStore(ttl)
	case "redis":
		if redisURL == "" {
			log.Fatalf("SESSION_BACKEND=redis requires REDIS_URL to be set")
		}
		store, err := session.NewRedisStore(redisURL, ttl)
		if err != nil {
			log.Fatalf("Failed to connect to Redis session store: %v", err)
		}
		log.Println("Successfully connected to the Redis session store.")
		return store
	default:
		log.Fatalf("Unknown SESSION_BACKEND value: %q", backend)
		return nil
	}
}

func connectDB() *sqlx.DB {
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbName := os.Getenv("DB_NAME")

	dbURL := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		dbUser, dbPassword, dbHost, dbPort, dbName,
	)

	db, err := sqlx.Connect("pgx", dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Successfully connected to the database.")
	return db
}

func handleMigrations() {
	fmt.Println("Running database migrations...")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbName := os.Getenv("DB_NAME")

	dbURL := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		dbUser, dbPassword, dbHost, dbPort, dbName,
	)

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		log.Fatalf("failed to connect to database for migration: %v", err)
	}
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("failed to set goose dialect: %v", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		log.Fatalf("goose: failed to run migrations: %v", err)
	}

	fmt.Println("Migrations applied successfully!")
}
