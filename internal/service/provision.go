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
	ErrItemTypeRequired    = errors.New("item_type is required")
	ErrProvisionNotFound   = errors.New("provision request not found")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrInvalidStatusFilter = errors.New("invalid status filter")
)

// CreateProvisionInput carries a new supply request.
type CreateProvisionInput struct {
	ItemType      string  `json:"item_type" validate:"required,min=2,max=64"`
	Description   string  `json:"description" validate:"max=1024"`
	EstimatedCost float64 `json:"estimated_cost" validate:"gte=0"`
	VendorNote    string  `json:"vendor_note" validate:"max=512"`
	RequestedBy   string  `json:"-"`
}

// ReviewProvisionInput carries the plant manager's review decision.
type ReviewProvisionInput struct {
	Approve    bool   `json:"approve"`
	Note       string `json:"note" validate:"max=512"`
	ReviewedBy string `json:"-"`
}

// ApproveProvisionInput carries the admin's final decision.
type ApproveProvisionInput struct {
	Approve    bool   `json:"approve"`
	Note       string `json:"note" validate:"max=512"`
	VendorID   string `json:"vendor_id" validate:"max=32"`
	ApprovedBy string `json:"-"`
}

// ProvisionService defines the two-stage supply request workflow:
// pending -> reviewed -> approved, with rejection possible at either stage.
type ProvisionService interface {
	// Create raises a request in pending status.
	Create(ctx context.Context, in CreateProvisionInput) (*model.ProvisionRequest, error)

	// Get returns a request by ID.
	Get(ctx context.Context, id string) (*model.ProvisionRequest, error)

	// List returns requests filtered by status; empty status means all.
	List(ctx context.Context, status string) ([]model.ProvisionRequest, error)

	// Review moves a pending request to reviewed or rejected.
	Review(ctx context.Context, id string, in ReviewProvisionInput) (*model.ProvisionRequest, error)

	// Approve moves a reviewed request to approved or rejected and may
	// assign a vendor.
	Approve(ctx context.Context, id string, in ApproveProvisionInput) (*model.ProvisionRequest, error)
}

type provisionService struct {
	requests repository.ProvisionRepository
	notifier Notifier
}

// NewProvisionService constructs a new ProvisionService. notifier may be nil.
func NewProvisionService(requests repository.ProvisionRepository, notifier Notifier) ProvisionService {
	return &provisionService{requests: requests, notifier: notifier}
}

func (s *provisionService) Create(ctx context.Context, in CreateProvisionInput) (*model.ProvisionRequest, error) {
	itemType := strings.TrimSpace(in.ItemType)
	if itemType == "" {
		return nil, ErrItemTypeRequired
	}
	if in.EstimatedCost < 0 {
		return nil, fmt.Errorf("estimated_cost cannot be negative")
	}

	now := time.Now().UTC()
	req := &model.ProvisionRequest{
		ID:            uuid.New().String(),
		ItemType:      itemType,
		Description:   strings.TrimSpace(in.Description),
		EstimatedCost: in.EstimatedCost,
		VendorNote:    strings.TrimSpace(in.VendorNote),
		RequestedBy:   strings.ToUpper(strings.TrimSpace(in.RequestedBy)),
		Status:        model.ProvisionPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	stored, err := s.requests.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create provision request: %w", err)
	}

	s.notifyRole(ctx, auth.RolePlantManager, "New provision request",
		fmt.Sprintf("%s requested %s", stored.RequestedBy, stored.ItemType), stored)
	return stored, nil
}

func (s *provisionService) Get(ctx context.Context, id string) (*model.ProvisionRequest, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	req, err := s.requests.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProvisionNotFound
		}
		return nil, err
	}
	return req, nil
}

func (s *provisionService) List(ctx context.Context, status string) ([]model.ProvisionRequest, error) {
	switch status {
	case "", model.ProvisionPending, model.ProvisionReviewed, model.ProvisionApproved, model.ProvisionRejected:
	default:
		return nil, ErrInvalidStatusFilter
	}
	return s.requests.ListByStatus(ctx, status)
}

func (s *provisionService) Review(ctx context.Context, id string, in ReviewProvisionInput) (*model.ProvisionRequest, error) {
	req, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Status != model.ProvisionPending {
		return nil, fmt.Errorf("%w: %s cannot be reviewed", ErrInvalidTransition, req.Status)
	}

	req.Status = model.ProvisionRejected
	if in.Approve {
		req.Status = model.ProvisionReviewed
	}
	req.ReviewNote = strings.TrimSpace(in.Note)
	req.ReviewedBy = strings.ToUpper(strings.TrimSpace(in.ReviewedBy))
	req.UpdatedAt = time.Now().UTC()

	updated, err := s.requests.Update(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("update provision request: %w", err)
	}

	s.notifyRequester(ctx, updated, fmt.Sprintf("Request %s %s", updated.ItemType, updated.Status))
	if updated.Status == model.ProvisionReviewed {
		s.notifyRole(ctx, auth.RoleAdmin, "Provision request awaiting approval",
			fmt.Sprintf("%s reviewed %s", updated.ReviewedBy, updated.ItemType), updated)
	}
	return updated, nil
}

func (s *provisionService) Approve(ctx context.Context, id string, in ApproveProvisionInput) (*model.ProvisionRequest, error) {
	req, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Status != model.ProvisionReviewed {
		return nil, fmt.Errorf("%w: %s cannot be approved", ErrInvalidTransition, req.Status)
	}

	req.Status = model.ProvisionRejected
	if in.Approve {
		req.Status = model.ProvisionApproved
		req.VendorID = strings.ToUpper(strings.TrimSpace(in.VendorID))
	}
	if note := strings.TrimSpace(in.Note); note != "" {
		req.ReviewNote = note
	}
	req.ApprovedBy = strings.ToUpper(strings.TrimSpace(in.ApprovedBy))
	req.UpdatedAt = time.Now().UTC()

	updated, err := s.requests.Update(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("update provision request: %w", err)
	}

	s.notifyRequester(ctx, updated, fmt.Sprintf("Request %s %s", updated.ItemType, updated.Status))
	if updated.Status == model.ProvisionApproved && updated.VendorID != "" {
		s.notify(ctx, updated.VendorID, "Provision order assigned",
			fmt.Sprintf("Supply %s for the estate", updated.ItemType), updated)
	}
	return updated, nil
}

func (s *provisionService) notify(ctx context.Context, recipient, title, message string, req *model.ProvisionRequest) {
	if s.notifier == nil || recipient == "" {
		return
	}
	_ = s.notifier.Notify(ctx, recipient, model.NotifyProvision, title, message,
		map[string]any{"provision_id": req.ID, "status": req.Status})
}

func (s *provisionService) notifyRequester(ctx context.Context, req *model.ProvisionRequest, message string) {
	s.notify(ctx, req.RequestedBy, "Provision request update", message, req)
}

func (s *provisionService) notifyRole(ctx context.Context, role, title, message string, req *model.ProvisionRequest) {
	if s.notifier == nil {
		return
	}
	_ = s.notifier.NotifyRole(ctx, role, model.NotifyProvision, title, message,
		map[string]any{"provision_id": req.ID, "status": req.Status})
}
