package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"agroapi/docs"
	"agroapi/internal/auth"
	"agroapi/internal/config"
	"agroapi/internal/database"
	"agroapi/internal/database/migration"
	"agroapi/internal/geo"
	handlers "agroapi/internal/http/handler"
	"agroapi/internal/http/middleware"
	"agroapi/internal/notify"
	"agroapi/internal/otel"
	"agroapi/internal/repository"
	"agroapi/internal/repository/postgres"
	"agroapi/internal/service"
	"agroapi/internal/storage"
)

const serviceVersion = "1.0.0"

// @title Estate Operations API
// @version 1.0
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Printf("invalid APP_TZ %q, falling back to UTC: %v", cfg.Timezone, err)
		loc = time.UTC
	}

	ctx := context.Background()

	// Initialize OpenTelemetry tracing (degrades to noop on exporter failure)
	otelShutdown, err := otel.Init(ctx, loc)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	// Create schema on first boot; no-op when the sentinel table exists
	if err := migration.EnsureMigrated(ctx, db, loc, dbHostForLog(cfg.Database)); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Initialize reusable S3-compatible object storage client (MinIO-supported)
	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		log.Fatalf("failed to initialize object storage: %v", err)
	}

	// Optional Redis cache; an empty REDIS_ADDR runs everything off the DB
	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			logEvent(loc, map[string]any{
				"component": "redis",
				"event":     "redis_unreachable",
				"level":     "warn",
				"error":     err.Error(),
				"msg":       "job type cache will fall through to the database",
			})
		}
		cancel()
	}

	tokens, err := auth.NewTokenProvider(cfg.Auth)
	if err != nil {
		log.Fatalf("failed to initialize token provider: %v", err)
	}

	// Outbound SMS/WhatsApp gateway; unset NOTIFY_API_URL disables delivery
	sender := notify.NewHTTPSender(cfg.Notify)

	// Repositories
	personRepo := postgres.NewPersonPostgres(db)
	attendanceRepo := postgres.NewAttendancePostgres(db)
	provisionRepo := postgres.NewProvisionPostgres(db)
	dispatchRepo := postgres.NewDispatchPostgres(db)
	gpsRepo := postgres.NewGPSPostgres(db)
	onboardingRepo := postgres.NewOnboardingPostgres(db)
	notificationRepo := postgres.NewNotificationPostgres(db)
	lotRepo := postgres.NewLotPostgres(db)

	var jobTypeRepo repository.JobTypeRepository = postgres.NewJobTypePostgres(db)
	if rdb != nil {
		jobTypeRepo = repository.NewCachedJobTypeRepository(
			jobTypeRepo, rdb, time.Duration(cfg.Redis.JobTypeTTLSec)*time.Second)
	}

	sites := []geo.Site{
		{Name: "estate", Lat: cfg.Geo.EstateLat, Lon: cfg.Geo.EstateLon},
		{Name: "plant", Lat: cfg.Geo.PlantLat, Lon: cfg.Geo.PlantLon},
	}

	// Services
	notificationSvc := service.NewNotificationService(notificationRepo, personRepo, sender)
	authSvc := service.NewAuthService(personRepo, tokens)
	workerSvc := service.NewWorkerService(personRepo)
	attendanceSvc := service.NewAttendanceService(attendanceRepo, personRepo, loc)
	jobTypeSvc := service.NewJobTypeService(jobTypeRepo)
	provisionSvc := service.NewProvisionService(provisionRepo, notificationSvc)
	gpsSvc := service.NewGPSService(dispatchRepo, gpsRepo, notificationSvc, sites, cfg.Geo.FenceRadiusKM)
	faceSvc := service.NewFaceService(personRepo, objStore, cfg.Face.MatchThreshold)
	onboardingSvc := service.NewOnboardingService(onboardingRepo, personRepo, objStore, notificationSvc)
	lotSvc := service.NewLotService(lotRepo)

	probes := map[string]service.Pinger{
		"database": db.PingContext,
	}
	if rdb != nil {
		probes["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	adminSvc := service.NewAdminService(workerSvc, onboardingSvc, attendanceSvc, gpsSvc, personRepo, probes)

	network := fiber.NetworkTCP4
	if cfg.HTTP.DualStack {
		// Plain "tcp" binds the v6 wildcard too; carrier NAT64 clients need it.
		network = fiber.NetworkTCP
	}

	app := fiber.New(fiber.Config{
		AppName:      "agroapi " + serviceVersion,
		Network:      network,
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	app.Use(otelfiber.Middleware())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger(loc))
	if cfg.Mobile.CompatEnabled {
		app.Use(middleware.MobileCompat())
	}
	app.Use(middleware.CORS(cfg.CORS, cfg.HTTP.FrontendURL))

	prom, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}
	app.Use(prom.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	loginLimiter := middleware.NewRateLimiter(cfg.Auth.LoginRatePerMin, cfg.Auth.LoginBurst)

	// Register HTTP routes with injected services
	handlers.RegisterRoutes(app, handlers.Deps{
		Cfg:           cfg,
		DB:            db,
		Version:       serviceVersion,
		Tokens:        tokens,
		LoginLimiter:  loginLimiter,
		Auth:          authSvc,
		Workers:       workerSvc,
		Admin:         adminSvc,
		Attendance:    attendanceSvc,
		JobTypes:      jobTypeSvc,
		Provisions:    provisionSvc,
		GPS:           gpsSvc,
		Faces:         faceSvc,
		Onboarding:    onboardingSvc,
		Notifications: notificationSvc,
		Lots:          lotSvc,
	})

	// Swagger UI with dynamic host and scheme
	app.Get("/docs/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	stop := make(chan struct{})
	loginLimiter.StartCleanup(stop)
	startHealthProbe(db, cfg.Health, loc, stop)

	addr := cfg.HTTP.Host + ":" + cfg.HTTP.Port
	logEvent(loc, map[string]any{
		"component": "server",
		"event":     "server_starting",
		"addr":      addr,
		"network":   network,
		"version":   serviceVersion,
	})

	go func() {
		if err := app.Listen(addr); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logEvent(loc, map[string]any{
		"component": "server",
		"event":     "shutdown_started",
	})
	close(stop)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logEvent(loc, map[string]any{
			"component": "server",
			"event":     "shutdown_error",
			"level":     "error",
			"error":     err.Error(),
		})
	}

	flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := otelShutdown(flushCtx); err != nil {
		logEvent(loc, map[string]any{
			"component": "otel",
			"event":     "trace_flush_error",
			"level":     "error",
			"error":     err.Error(),
		})
	}

	logEvent(loc, map[string]any{
		"component": "server",
		"event":     "shutdown_complete",
	})
}

// dbHostForLog extracts a loggable host from the database config without
// exposing credentials.
func dbHostForLog(c config.DatabaseConfig) string {
	if c.URL == "" {
		return c.Host
	}
	if u, err := url.Parse(c.URL); err == nil && u.Hostname() != "" {
		return u.Hostname()
	}
	return "database_url"
}

// startHealthProbe re-pings the database on an interval and logs the outcome
// as one JSON line, so platform logs show connectivity drops between requests.
func startHealthProbe(db *sql.DB, cfg config.HealthConfig, loc *time.Location, stop <-chan struct{}) {
	interval := time.Duration(cfg.IntervalSec) * time.Second
	if interval <= 0 {
		return
	}
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				start := time.Now()
				pingCtx, cancel := context.WithTimeout(context.Background(), timeout)
				err := db.PingContext(pingCtx)
				cancel()

				entry := map[string]any{
					"component":  "health",
					"event":      "db_probe",
					"status":     "ok",
					"latency_ms": time.Since(start).Milliseconds(),
				}
				if err != nil {
					entry["status"] = "error"
					entry["level"] = "error"
					entry["error"] = err.Error()
				}
				logEvent(loc, entry)
			}
		}
	}()
}

func logEvent(loc *time.Location, data map[string]any) {
	data["ts"] = time.Now().In(loc).Format(time.RFC3339Nano)
	if _, ok := data["level"]; !ok {
		data["level"] = "info"
	}

	b, err := json.Marshal(data)
	if err != nil {
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
