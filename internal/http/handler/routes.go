package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"agroapi/internal/auth"
	"agroapi/internal/config"
	"agroapi/internal/http/middleware"
	"agroapi/internal/service"
)

// Deps carries everything the route table needs. Services may be nil only in
// tests that exercise a subset of routes.
type Deps struct {
	Cfg     *config.AppConfig
	DB      *sql.DB
	Version string

	Tokens        middleware.TokenVerifier
	LoginLimiter  *middleware.RateLimiter
	Auth          service.AuthService
	Workers       service.WorkerService
	Admin         service.AdminService
	Attendance    service.AttendanceService
	JobTypes      service.JobTypeService
	Provisions    service.ProvisionService
	GPS           service.GPSService
	Faces         service.FaceService
	Onboarding    service.OnboardingService
	Notifications service.NotificationService
	Lots          service.LotService
}

// RegisterRoutes attaches all HTTP routes to the provided Fiber app.
// Handlers stay free of business logic; role checks live here so the access
// model is readable in one place.
func RegisterRoutes(app *fiber.App, d Deps) {
	version := d.Version
	if version == "" {
		version = "1.0.0"
	}

	requireAuth := middleware.RequireAuth(d.Tokens)
	managers := middleware.RequireRoles(auth.ManagerRoles()...)
	adminOnly := middleware.RequireRoles(auth.RoleAdmin)

	// Public diagnostic surface. These must work from any phone with no
	// token: they exist to debug broken connectivity.
	app.Get("/", Root(d.Cfg, version))
	app.Get("/health", HealthCheck(d.DB, d.Cfg.Health, version))
	app.Get("/healthz", LivenessProbe())
	app.Get("/network-test", NetworkTest())
	app.Post("/network-test", NetworkTest())

	api := app.Group("/api")
	api.Get("/cors-test", CORSTest(d.Cfg.CORS, d.Cfg.HTTP.FrontendURL))
	api.Get("/env-info", EnvInfo())

	// Auth
	authGroup := api.Group("/auth")
	if d.LoginLimiter != nil {
		authGroup.Post("/login", d.LoginLimiter.Handler(), Login(d.Auth))
	} else {
		authGroup.Post("/login", Login(d.Auth))
	}
	authGroup.Get("/me", requireAuth, Me(d.Auth))
	authGroup.Post("/logout", Logout())
	authGroup.Post("/verify-token", VerifyToken(d.Auth))
	authGroup.Get("/health", AuthHealth())
	authGroup.Get("/network-test", AuthNetworkTest())
	authGroup.Get("/debug/headers", DebugHeaders())

	// Workforce directory
	workers := api.Group("/workers", requireAuth)
	workers.Get("/", managers, ListWorkers(d.Workers))
	workers.Get("/role/:role", managers, ListWorkersByRole(d.Workers))
	workers.Get("/:staff_id", GetWorker(d.Workers))

	// Admin console
	admin := api.Group("/admin", requireAuth, adminOnly)
	admin.Get("/stats", AdminStats(d.Admin))
	admin.Get("/roles", AdminRoles(d.Admin))
	admin.Get("/system/health", AdminSystemHealth(d.Admin))
	admin.Get("/users", ListWorkers(d.Workers))
	admin.Post("/users", CreateUser(d.Workers))
	admin.Get("/users/:id", GetUser(d.Workers))
	admin.Put("/users/:id", UpdateUser(d.Workers))
	admin.Delete("/users/:id", DeleteUser(d.Workers))

	// Attendance
	attendance := api.Group("/attendance", requireAuth)
	attendance.Post("/check-in", managers, CheckIn(d.Attendance))
	attendance.Post("/check-out", managers, CheckOut(d.Attendance))
	attendance.Get("/daily-summary", managers, DailySummary(d.Attendance))
	attendance.Get("/person/:staff_id", managers, PersonHistory(d.Attendance))
	attendance.Get("/badge-scans/recent", managers, RecentBadgeScans(d.Attendance))
	attendance.Post("/sync-batch", managers, SyncAttendance(d.Attendance))

	// Job catalog
	api.Get("/job-types", requireAuth, ListJobTypes(d.JobTypes))
	api.Post("/job-types", requireAuth, adminOnly, CreateJobType(d.JobTypes))

	// Provisions: estate managers raise, plant managers review, admins
	// approve.
	provisions := api.Group("/provisions", requireAuth)
	provisions.Post("/request", middleware.RequireRoles(auth.RoleEstateManager, auth.RoleAdmin), CreateProvision(d.Provisions))
	provisions.Get("/pending", middleware.RequireRoles(auth.RolePlantManager, auth.RoleAdmin), PendingProvisions(d.Provisions))
	provisions.Post("/review/:id", middleware.RequireRoles(auth.RolePlantManager), ReviewProvision(d.Provisions))
	provisions.Post("/approve/:id", adminOnly, ApproveProvision(d.Provisions))
	provisions.Get("/:id", managers, GetProvision(d.Provisions))

	// Dispatch GPS tracking
	gps := api.Group("/gps", requireAuth)
	driverOrEstate := middleware.RequireRoles(auth.RoleDriver, auth.RoleEstateManager, auth.RoleAdmin)
	driverOnly := middleware.RequireRoles(auth.RoleDriver)
	gps.Post("/dispatch", middleware.RequireRoles(auth.RoleEstateManager, auth.RoleAdmin), CreateDispatch(d.GPS))
	gps.Get("/dispatch/:dispatch_id", managers, GetDispatch(d.GPS))
	gps.Get("/active", managers, ActiveDispatches(d.GPS))
	gps.Post("/start-tracking/:dispatch_id", driverOrEstate, StartTracking(d.GPS))
	gps.Post("/stop-tracking/:dispatch_id", driverOrEstate, StopTracking(d.GPS))
	gps.Post("/log-location", driverOnly, LogLocation(d.GPS))
	gps.Post("/sync-batch", driverOnly, SyncLocations(d.GPS))
	gps.Get("/track/:dispatch_id", managers, TrackDispatch(d.GPS))
	gps.Post("/complete/:dispatch_id", driverOnly, CompleteTrip(d.GPS))

	// Face verification
	faces := api.Group("/face", requireAuth)
	faces.Post("/register", managers, RegisterFace(d.Faces))
	faces.Post("/verify", VerifyFace(d.Faces))
	faces.Post("/check-in", FaceCheckIn(d.Faces, d.Attendance))
	faces.Get("/status/:staff_id", managers, FaceStatus(d.Faces))

	// Onboarding
	onboarding := api.Group("/onboarding", requireAuth)
	onboarding.Post("/requests", managers, SubmitOnboarding(d.Onboarding))
	onboarding.Get("/requests/pending", managers, PendingOnboarding(d.Onboarding))
	onboarding.Get("/stats", adminOnly, OnboardingStats(d.Onboarding))
	onboarding.Get("/requests/:id", managers, GetOnboarding(d.Onboarding))
	onboarding.Post("/requests/:id/approve", adminOnly, ApproveOnboarding(d.Onboarding))
	onboarding.Post("/requests/:id/reject", adminOnly, RejectOnboarding(d.Onboarding))

	// Notifications
	api.Get("/notifications", requireAuth, ListNotifications(d.Notifications))
	api.Post("/notifications/:id/read", requireAuth, MarkNotificationRead(d.Notifications))

	// Harvest lots
	lots := api.Group("/lots", requireAuth)
	lots.Get("/", ListLots(d.Lots))
	lots.Post("/", middleware.RequireRoles(auth.RoleEstateManager, auth.RoleAdmin), CreateLot(d.Lots))
	lots.Post("/:lot_id/threshing", middleware.RequireRoles(auth.RolePlantManager, auth.RoleAdmin), RecordThreshing(d.Lots))
	lots.Get("/:lot_id", GetLot(d.Lots))
	api.Get("/yields", requireAuth, Yields(d.Lots))
}
