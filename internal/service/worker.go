package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"agroapi/internal/auth"
	"agroapi/internal/model"
	"agroapi/internal/repository"
)

var (
	ErrNameRequired      = errors.New("first name is required")
	ErrUnknownRole       = errors.New("unknown role")
	ErrStaffIDExhausted  = errors.New("could not derive a free staff id")
	ErrInvalidPersonType = errors.New("invalid person type")
)

// RegisterPersonInput carries a new person registration.
type RegisterPersonInput struct {
	FirstName   string `json:"first_name" validate:"required,min=1,max=64"`
	LastName    string `json:"last_name" validate:"max=64"`
	Role        string `json:"role" validate:"required"`
	PersonType  string `json:"person_type"`
	Designation string `json:"designation" validate:"max=128"`
	Mobile      string `json:"mobile" validate:"max=20"`
	Address     string `json:"address" validate:"max=512"`
	Seasonal    bool   `json:"seasonal"`
}

// UpdatePersonInput carries mutable profile fields. Nil pointers are left unchanged.
type UpdatePersonInput struct {
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	Designation *string `json:"designation"`
	Mobile      *string `json:"mobile"`
	Address     *string `json:"address"`
	Status      *string `json:"status"`
	Seasonal    *bool   `json:"seasonal"`
}

// ListPersonsInput narrows and paginates person listings.
type ListPersonsInput struct {
	Role       string
	Search     string
	Status     string
	PersonType string
	Limit      int
	Offset     int
}

// PersonListResult is the service-level DTO for paginated persons.
type PersonListResult struct {
	Items []model.Person `json:"data"`
	Total int            `json:"total"`
}

// WorkforceSummary reports headcount per role.
type WorkforceSummary struct {
	Total  int            `json:"total"`
	ByRole map[string]int `json:"by_role"`
}

// WorkerService defines workforce directory use cases. Staff IDs are
// generated from the role prefix and first name; the role is never stored.
type WorkerService interface {
	// Register creates a person with a generated staff ID.
	Register(ctx context.Context, in RegisterPersonInput) (*model.Person, error)

	// Get returns a person by primary key.
	Get(ctx context.Context, id string) (*model.Person, error)

	// GetByStaffID returns a person by staff ID.
	GetByStaffID(ctx context.Context, staffID string) (*model.Person, error)

	// List returns persons filtered by role, search text, status and type.
	List(ctx context.Context, in ListPersonsInput) (*PersonListResult, error)

	// Update patches profile fields and returns the stored row.
	Update(ctx context.Context, id string, in UpdatePersonInput) (*model.Person, error)

	// Deactivate marks a person inactive instead of deleting the row.
	Deactivate(ctx context.Context, id string) (*model.Person, error)

	// Delete removes a person permanently.
	Delete(ctx context.Context, id string) error

	// Summary reports headcount per role for active persons.
	Summary(ctx context.Context) (*WorkforceSummary, error)
}

type workerService struct {
	persons repository.PersonRepository
}

// NewWorkerService constructs a new WorkerService.
func NewWorkerService(persons repository.PersonRepository) WorkerService {
	return &workerService{persons: persons}
}

func (s *workerService) Register(ctx context.Context, in RegisterPersonInput) (*model.Person, error) {
	first := strings.TrimSpace(in.FirstName)
	if first == "" {
		return nil, ErrNameRequired
	}
	role := strings.ToLower(strings.TrimSpace(in.Role))

	personType := in.PersonType
	if personType == "" {
		personType = model.PersonTypeStaff
	}
	switch personType {
	case model.PersonTypeStaff, model.PersonTypeSupplier, model.PersonTypeVendor:
	default:
		return nil, ErrInvalidPersonType
	}

	last := strings.TrimSpace(in.LastName)
	staffID, err := generateStaffID(ctx, s.persons, role, first, last)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	person := &model.Person{
		ID:          uuid.New().String(),
		StaffID:     staffID,
		FirstName:   first,
		LastName:    last,
		FullName:    strings.TrimSpace(first + " " + last),
		PersonType:  personType,
		Designation: strings.TrimSpace(in.Designation),
		Mobile:      strings.TrimSpace(in.Mobile),
		Address:     strings.TrimSpace(in.Address),
		Status:      model.PersonActive,
		Seasonal:    in.Seasonal,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	stored, err := s.persons.Create(ctx, person)
	if err != nil {
		return nil, fmt.Errorf("create person: %w", err)
	}
	return stored, nil
}

func (s *workerService) Get(ctx context.Context, id string) (*model.Person, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	person, err := s.persons.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPersonNotFound
		}
		return nil, err
	}
	return person, nil
}

func (s *workerService) GetByStaffID(ctx context.Context, staffID string) (*model.Person, error) {
	staffID = strings.ToUpper(strings.TrimSpace(staffID))
	if staffID == "" {
		return nil, ErrStaffIDRequired
	}
	person, err := s.persons.FindByStaffID(ctx, staffID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPersonNotFound
		}
		return nil, err
	}
	return person, nil
}

func (s *workerService) List(ctx context.Context, in ListPersonsInput) (*PersonListResult, error) {
	if in.Limit <= 0 {
		in.Limit = 20
	}
	if in.Limit > 100 {
		in.Limit = 100
	}
	if in.Offset < 0 {
		in.Offset = 0
	}

	filter := repository.PersonFilter{
		Search:     strings.TrimSpace(in.Search),
		Status:     in.Status,
		PersonType: in.PersonType,
	}
	if in.Role != "" {
		role := strings.ToLower(in.Role)
		prefix := auth.PrefixForRole(role)
		if prefix == "" {
			if role != auth.RoleWorker {
				return nil, ErrUnknownRole
			}
			// Generated worker IDs use the unreserved WRK- prefix.
			prefix = "WRK-"
		}
		filter.RolePrefix = prefix
	}

	res, err := s.persons.List(ctx, filter, repository.PageQuery{Limit: in.Limit, Offset: in.Offset})
	if err != nil {
		return nil, err
	}
	return &PersonListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *workerService) Update(ctx context.Context, id string, in UpdatePersonInput) (*model.Person, error) {
	person, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.FirstName != nil {
		person.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		person.LastName = strings.TrimSpace(*in.LastName)
	}
	if person.FirstName == "" {
		return nil, ErrNameRequired
	}
	person.FullName = strings.TrimSpace(person.FirstName + " " + person.LastName)

	if in.Designation != nil {
		person.Designation = strings.TrimSpace(*in.Designation)
	}
	if in.Mobile != nil {
		person.Mobile = strings.TrimSpace(*in.Mobile)
	}
	if in.Address != nil {
		person.Address = strings.TrimSpace(*in.Address)
	}
	if in.Status != nil {
		switch *in.Status {
		case model.PersonActive, model.PersonInactive:
			person.Status = *in.Status
		default:
			return nil, fmt.Errorf("invalid status %q", *in.Status)
		}
	}
	if in.Seasonal != nil {
		person.Seasonal = *in.Seasonal
	}
	person.UpdatedAt = time.Now().UTC()

	return s.persons.Update(ctx, person)
}

func (s *workerService) Deactivate(ctx context.Context, id string) (*model.Person, error) {
	inactive := model.PersonInactive
	return s.Update(ctx, id, UpdatePersonInput{Status: &inactive})
}

func (s *workerService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.persons.Delete(ctx, id)
}

func (s *workerService) Summary(ctx context.Context) (*WorkforceSummary, error) {
	counts, err := s.persons.CountByPrefix(ctx)
	if err != nil {
		return nil, err
	}

	summary := &WorkforceSummary{ByRole: make(map[string]int)}
	for _, role := range auth.Roles() {
		prefix := strings.TrimSuffix(auth.PrefixForRole(role), "-")
		if prefix == "" {
			continue
		}
		summary.ByRole[role] = counts[prefix]
		summary.Total += counts[prefix]
	}

	// IDs with no known prefix count as workers.
	known := 0
	for _, n := range summary.ByRole {
		known += n
	}
	total := 0
	for _, n := range counts {
		total += n
	}
	if rest := total - known; rest > 0 {
		summary.ByRole[auth.RoleWorker] += rest
		summary.Total += rest
	}
	return summary, nil
}

// idPart returns the first n letters or digits of s, upper-cased.
func idPart(s string, n int) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(s) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
		if b.Len() >= n {
			break
		}
	}
	return b.String()
}

// generateStaffID derives a unique staff ID from the role prefix and the
// first two letters of each name part. On collision a two-digit sequence is
// appended.
func generateStaffID(ctx context.Context, persons repository.PersonRepository, role, firstName, lastName string) (string, error) {
	prefix := auth.PrefixForRole(role)
	if prefix == "" {
		if role != auth.RoleWorker {
			return "", ErrUnknownRole
		}
		// Workers have no reserved prefix; WRK- is unreserved, so the
		// role derived from these IDs is still worker.
		prefix = "WRK-"
	}

	base := idPart(firstName, 2) + idPart(lastName, 2)
	if base == "" {
		return "", ErrNameRequired
	}

	candidate := prefix + base
	for seq := 1; seq <= 99; seq++ {
		if seq > 1 {
			candidate = fmt.Sprintf("%s%s%02d", prefix, base, seq)
		}
		_, err := persons.FindByStaffID(ctx, candidate)
		if errors.Is(err, sql.ErrNoRows) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("check staff id %s: %w", candidate, err)
		}
	}
	return "", ErrStaffIDExhausted
}
