package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"agroapi/internal/face"
	"agroapi/internal/model"
	"agroapi/internal/repository"
	"agroapi/internal/storage"
)

var (
	ErrOnboardingNotFound = errors.New("onboarding request not found")
	ErrAlreadyReviewed    = errors.New("onboarding request already reviewed")
)

// SubmitOnboardingInput is a field registration captured on a phone.
// FacePhoto and Document are optional uploads held in object storage until
// review.
type SubmitOnboardingInput struct {
	FirstName  string `json:"first_name" validate:"required,min=1,max=64"`
	LastName   string `json:"last_name" validate:"max=64"`
	Mobile     string `json:"mobile" validate:"max=20"`
	Address    string `json:"address" validate:"max=512"`
	Role       string `json:"role" validate:"required"`
	IDNumber   string `json:"id_number" validate:"max=32"`
	EntityType string `json:"entity_type"`

	FacePhoto           io.Reader `json:"-"`
	FaceContentType     string    `json:"-"`
	Document            io.Reader `json:"-"`
	DocumentContentType string    `json:"-"`
}

// ReviewOnboardingInput carries an admin's decision on a request.
type ReviewOnboardingInput struct {
	Approve    bool   `json:"approve"`
	Note       string `json:"note" validate:"max=512"`
	ReviewedBy string `json:"-"`
}

// ApprovalResult pairs the updated request with the person created on approval.
type ApprovalResult struct {
	Request *model.OnboardingRequest `json:"request"`
	Person  *model.Person            `json:"person,omitempty"`
}

// OnboardingService defines the field registration workflow: supervisors
// submit candidates from their phones, admins approve into the directory.
type OnboardingService interface {
	// Submit stores a pending registration with optional uploads.
	Submit(ctx context.Context, in SubmitOnboardingInput) (*model.OnboardingRequest, error)

	// Get returns a request by ID.
	Get(ctx context.Context, id string) (*model.OnboardingRequest, error)

	// List returns requests filtered by status; empty status means all.
	List(ctx context.Context, status string) ([]model.OnboardingRequest, error)

	// Review approves or rejects a pending request. Approval creates the
	// person, assigns a staff ID and seeds the face embedding when a face
	// photo was uploaded.
	Review(ctx context.Context, id string, in ReviewOnboardingInput) (*ApprovalResult, error)

	// Stats reports request counts per status.
	Stats(ctx context.Context) (map[string]int, error)
}

type onboardingService struct {
	requests repository.OnboardingRepository
	persons  repository.PersonRepository
	store    storage.Storage
	notifier Notifier
}

// NewOnboardingService constructs a new OnboardingService. notifier may be nil.
func NewOnboardingService(requests repository.OnboardingRepository, persons repository.PersonRepository, store storage.Storage, notifier Notifier) OnboardingService {
	return &onboardingService{requests: requests, persons: persons, store: store, notifier: notifier}
}

func (s *onboardingService) Submit(ctx context.Context, in SubmitOnboardingInput) (*model.OnboardingRequest, error) {
	first := strings.TrimSpace(in.FirstName)
	if first == "" {
		return nil, ErrNameRequired
	}
	role := strings.ToLower(strings.TrimSpace(in.Role))
	if role == "" {
		return nil, ErrUnknownRole
	}

	entityType := in.EntityType
	if entityType == "" {
		entityType = model.PersonTypeStaff
	}

	id := uuid.New().String()
	req := &model.OnboardingRequest{
		ID:         id,
		FirstName:  first,
		LastName:   strings.TrimSpace(in.LastName),
		Mobile:     strings.TrimSpace(in.Mobile),
		Address:    strings.TrimSpace(in.Address),
		Role:       role,
		IDNumber:   strings.TrimSpace(in.IDNumber),
		EntityType: entityType,
		Status:     model.OnboardingPending,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}

	if in.FacePhoto != nil {
		key, err := s.storeUpload(ctx, id, "face", in.FacePhoto, in.FaceContentType)
		if err != nil {
			return nil, fmt.Errorf("store face photo: %w", err)
		}
		req.FacePath = key
	}
	if in.Document != nil {
		key, err := s.storeUpload(ctx, id, "document", in.Document, in.DocumentContentType)
		if err != nil {
			return nil, fmt.Errorf("store identity document: %w", err)
		}
		req.DocumentPath = key
	}

	stored, err := s.requests.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create onboarding request: %w", err)
	}
	return stored, nil
}

func (s *onboardingService) storeUpload(ctx context.Context, requestID, kind string, r io.Reader, contentType string) (string, error) {
	buf, err := readCapped(r)
	if err != nil {
		return "", err
	}
	key := fmt.Sprintf("onboarding/%s/%s%s", requestID, kind, captureExt(contentType))
	_, err = s.store.Put(ctx, key, bytes.NewReader(buf), storage.PutObjectOptions{
		Size:        int64(len(buf)),
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return key, nil
}

func (s *onboardingService) Get(ctx context.Context, id string) (*model.OnboardingRequest, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	req, err := s.requests.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOnboardingNotFound
		}
		return nil, err
	}
	return req, nil
}

func (s *onboardingService) List(ctx context.Context, status string) ([]model.OnboardingRequest, error) {
	switch status {
	case "", model.OnboardingPending, model.OnboardingApproved, model.OnboardingRejected:
	default:
		return nil, ErrInvalidStatusFilter
	}
	return s.requests.ListByStatus(ctx, status)
}

func (s *onboardingService) Review(ctx context.Context, id string, in ReviewOnboardingInput) (*ApprovalResult, error) {
	req, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Status != model.OnboardingPending {
		return nil, ErrAlreadyReviewed
	}

	req.ReviewNote = strings.TrimSpace(in.Note)
	req.ReviewedBy = strings.ToUpper(strings.TrimSpace(in.ReviewedBy))
	req.UpdatedAt = time.Now().UTC()

	if !in.Approve {
		req.Status = model.OnboardingRejected
		updated, err := s.requests.Update(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("update onboarding request: %w", err)
		}
		return &ApprovalResult{Request: updated}, nil
	}

	staffID, err := generateStaffID(ctx, s.persons, req.Role, req.FirstName, req.LastName)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	person := &model.Person{
		ID:         uuid.New().String(),
		StaffID:    staffID,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		FullName:   strings.TrimSpace(req.FirstName + " " + req.LastName),
		PersonType: req.EntityType,
		Mobile:     req.Mobile,
		Address:    req.Address,
		Status:     model.PersonActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	created, err := s.persons.Create(ctx, person)
	if err != nil {
		return nil, fmt.Errorf("create person from onboarding: %w", err)
	}

	// Seed the embedding from the submitted photo. Failure leaves the
	// person approved but unenrolled; they can enroll at the office.
	if req.FacePath != "" {
		s.seedEmbedding(ctx, created, req.FacePath)
	}

	req.Status = model.OnboardingApproved
	req.StaffID = staffID
	updated, err := s.requests.Update(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("update onboarding request: %w", err)
	}

	if s.notifier != nil {
		_ = s.notifier.Notify(ctx, staffID, model.NotifyOnboarding,
			"Welcome aboard",
			fmt.Sprintf("Your registration is approved. Your staff ID is %s.", staffID),
			map[string]any{"onboarding_id": updated.ID})
	}

	return &ApprovalResult{Request: updated, Person: created}, nil
}

func (s *onboardingService) seedEmbedding(ctx context.Context, person *model.Person, facePath string) {
	obj, _, err := s.store.Get(ctx, facePath)
	if err != nil {
		return
	}
	defer obj.Close()

	embedding, err := face.EmbeddingFromReader(obj)
	if err != nil {
		return
	}
	_ = s.persons.UpdateFaceEmbedding(ctx, person.ID, embedding, time.Now().UTC())
}

func (s *onboardingService) Stats(ctx context.Context) (map[string]int, error) {
	counts, err := s.requests.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	for _, status := range []string{model.OnboardingPending, model.OnboardingApproved, model.OnboardingRejected} {
		if _, ok := counts[status]; !ok {
			counts[status] = 0
		}
	}
	return counts, nil
}
