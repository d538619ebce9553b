package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"agroapi/internal/auth"
	"agroapi/internal/model"
	"agroapi/internal/repository"
)

var (
	ErrStaffIDRequired = errors.New("staff_id is required")
	ErrPersonNotFound  = errors.New("person not found")
	ErrPersonInactive  = errors.New("person is inactive")
)

// LoginResult is the token response for a successful login.
type LoginResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	Role        string `json:"role"`
	StaffID     string `json:"staff_id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
}

// Identity describes the caller behind a verified token.
type Identity struct {
	Person *model.Person `json:"person"`
	Role   string        `json:"role"`
}

// AuthService defines login and identity use cases. Authentication is by
// staff ID: the role is derived from the ID prefix, and the token carries it.
type AuthService interface {
	// Login validates the staff ID against the person directory and issues
	// an access token. mobileClient marks tokens issued to phone apps.
	Login(ctx context.Context, staffID string, mobileClient bool) (*LoginResult, error)

	// Me resolves the person and role behind a staff ID.
	Me(ctx context.Context, staffID string) (*Identity, error)

	// VerifyToken parses and validates an access token.
	VerifyToken(ctx context.Context, token string) (*auth.Claims, error)
}

type authService struct {
	persons repository.PersonRepository
	tokens  *auth.TokenProvider
}

// NewAuthService constructs a new AuthService.
func NewAuthService(persons repository.PersonRepository, tokens *auth.TokenProvider) AuthService {
	return &authService{persons: persons, tokens: tokens}
}

func (s *authService) Login(ctx context.Context, staffID string, mobileClient bool) (*LoginResult, error) {
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
	if person.Status != model.PersonActive {
		return nil, ErrPersonInactive
	}

	role := auth.RoleFromStaffID(person.StaffID)
	token, expiresIn, err := s.tokens.Issue(person.StaffID, role, mobileClient)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   expiresIn,
		Role:        role,
		StaffID:     person.StaffID,
		FirstName:   person.FirstName,
		LastName:    person.LastName,
	}, nil
}

func (s *authService) Me(ctx context.Context, staffID string) (*Identity, error) {
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

	return &Identity{
		Person: person,
		Role:   auth.RoleFromStaffID(person.StaffID),
	}, nil
}

func (s *authService) VerifyToken(ctx context.Context, token string) (*auth.Claims, error) {
	return s.tokens.Verify(token)
}
