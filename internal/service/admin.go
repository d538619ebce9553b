package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"agroapi/internal/auth"
	"agroapi/internal/repository"
)

// AdminStats is the operational dashboard: headcount, recent registrations,
// onboarding queue, today's attendance and dispatches on the road.
type AdminStats struct {
	Workforce           *WorkforceSummary `json:"workforce"`
	RecentRegistrations int               `json:"recent_registrations"`
	Onboarding          map[string]int    `json:"onboarding"`
	AttendanceToday     *DaySummary       `json:"attendance_today"`
	ActiveDispatches    int               `json:"active_dispatches"`
	GeneratedAt         time.Time         `json:"generated_at"`
}

// RoleInfo describes one role in the catalog.
type RoleInfo struct {
	Role    string `json:"role"`
	Prefix  string `json:"prefix,omitempty"`
	Manager bool   `json:"manager"`
}

// SystemHealth reports reachability of the backing dependencies.
type SystemHealth struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components"`
	CheckedAt  time.Time         `json:"checked_at"`
}

// Pinger reports whether one backing dependency is reachable.
type Pinger func(ctx context.Context) error

// AdminService aggregates cross-module statistics for the admin console.
type AdminService interface {
	// Stats builds the dashboard snapshot.
	Stats(ctx context.Context) (*AdminStats, error)

	// Roles returns the role catalog.
	Roles() []RoleInfo

	// SystemHealth pings every registered dependency.
	SystemHealth(ctx context.Context) *SystemHealth
}

type adminService struct {
	workers     WorkerService
	onboardings OnboardingService
	attendance  AttendanceService
	gps         GPSService
	persons     repository.PersonRepository
	probes      map[string]Pinger
}

// NewAdminService constructs a new AdminService. probes maps dependency
// names to reachability checks for the system health report.
func NewAdminService(
	workers WorkerService,
	onboardings OnboardingService,
	attendance AttendanceService,
	gps GPSService,
	persons repository.PersonRepository,
	probes map[string]Pinger,
) AdminService {
	return &adminService{
		workers:     workers,
		onboardings: onboardings,
		attendance:  attendance,
		gps:         gps,
		persons:     persons,
		probes:      probes,
	}
}

func (s *adminService) Stats(ctx context.Context) (*AdminStats, error) {
	workforce, err := s.workers.Summary(ctx)
	if err != nil {
		return nil, fmt.Errorf("workforce summary: %w", err)
	}

	recent, err := s.persons.CountCreatedSince(ctx, time.Now().UTC().AddDate(0, 0, -7))
	if err != nil {
		return nil, fmt.Errorf("recent registrations: %w", err)
	}

	onboarding, err := s.onboardings.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("onboarding stats: %w", err)
	}

	today, err := s.attendance.Day(ctx, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("attendance summary: %w", err)
	}

	dispatches, err := s.gps.ActiveDispatches(ctx)
	if err != nil {
		return nil, fmt.Errorf("active dispatches: %w", err)
	}

	return &AdminStats{
		Workforce:           workforce,
		RecentRegistrations: recent,
		Onboarding:          onboarding,
		AttendanceToday:     today,
		ActiveDispatches:    len(dispatches),
		GeneratedAt:         time.Now().UTC(),
	}, nil
}

func (s *adminService) Roles() []RoleInfo {
	managers := make(map[string]bool)
	for _, r := range auth.ManagerRoles() {
		managers[r] = true
	}

	roles := auth.Roles()
	out := make([]RoleInfo, 0, len(roles))
	for _, r := range roles {
		out = append(out, RoleInfo{
			Role:    r,
			Prefix:  auth.PrefixForRole(r),
			Manager: managers[r],
		})
	}
	return out
}

func (s *adminService) SystemHealth(ctx context.Context) *SystemHealth {
	health := &SystemHealth{
		Status:     "healthy",
		Components: make(map[string]string, len(s.probes)),
		CheckedAt:  time.Now().UTC(),
	}

	names := make([]string, 0, len(s.probes))
	for name := range s.probes {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		probeCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := s.probes[name](probeCtx)
		cancel()
		if err != nil {
			health.Components[name] = "error: " + err.Error()
			health.Status = "degraded"
			continue
		}
		health.Components[name] = "ok"
	}
	return health
}
