package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"agroapi/internal/face"
	"agroapi/internal/repository"
	"agroapi/internal/storage"
)

var (
	ErrFaceImageRequired = errors.New("face image is required")
	ErrImageTooLarge     = errors.New("face image exceeds size limit")
	ErrNotEnrolled       = errors.New("no face enrolled for this person")
)

// maxFaceImageBytes caps capture uploads. Phone selfies compressed client
// side stay well under this.
const maxFaceImageBytes = 8 << 20

// EnrollResult reports a completed face enrollment.
type EnrollResult struct {
	StaffID     string    `json:"staff_id"`
	CapturePath string    `json:"capture_path"`
	EnrolledAt  time.Time `json:"enrolled_at"`
}

// VerifyResult reports a face comparison against the enrolled embedding.
type VerifyResult struct {
	StaffID    string  `json:"staff_id"`
	Match      bool    `json:"match"`
	Similarity float64 `json:"similarity"`
	Threshold  float64 `json:"threshold"`
}

// EnrollmentStatus reports whether a person has a stored embedding.
type EnrollmentStatus struct {
	StaffID    string     `json:"staff_id"`
	Enrolled   bool       `json:"enrolled"`
	EnrolledAt *time.Time `json:"enrolled_at,omitempty"`
}

// FaceService defines face enrollment and verification. Captures are
// summarized into brightness-distribution embeddings; raw enrollment images
// are kept in object storage for re-enrollment and audit.
type FaceService interface {
	// Enroll computes and stores the embedding for a staff member and
	// archives the capture.
	Enroll(ctx context.Context, staffID string, r io.Reader, contentType string) (*EnrollResult, error)

	// Verify compares a probe image against the enrolled embedding.
	Verify(ctx context.Context, staffID string, r io.Reader) (*VerifyResult, error)

	// Status reports enrollment state for a staff member.
	Status(ctx context.Context, staffID string) (*EnrollmentStatus, error)
}

type faceService struct {
	persons   repository.PersonRepository
	store     storage.Storage
	threshold float64
}

// NewFaceService constructs a new FaceService.
func NewFaceService(persons repository.PersonRepository, store storage.Storage, threshold float64) FaceService {
	if threshold <= 0 || threshold > 1 {
		threshold = 0.6
	}
	return &faceService{persons: persons, store: store, threshold: threshold}
}

// readCapped buffers the capture, rejecting anything over the size limit.
func readCapped(r io.Reader) ([]byte, error) {
	if r == nil {
		return nil, ErrFaceImageRequired
	}
	buf, err := io.ReadAll(io.LimitReader(r, maxFaceImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read face image: %w", err)
	}
	if len(buf) == 0 {
		return nil, ErrFaceImageRequired
	}
	if len(buf) > maxFaceImageBytes {
		return nil, ErrImageTooLarge
	}
	return buf, nil
}

func captureExt(contentType string) string {
	if contentType == "image/png" {
		return ".png"
	}
	return ".jpg"
}

func (s *faceService) Enroll(ctx context.Context, staffID string, r io.Reader, contentType string) (*EnrollResult, error) {
	person, err := findActivePerson(ctx, s.persons, staffID)
	if err != nil {
		return nil, err
	}

	buf, err := readCapped(r)
	if err != nil {
		return nil, err
	}

	embedding, err := face.EmbeddingFromReader(bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("compute embedding: %w", err)
	}

	key := fmt.Sprintf("faces/%s/%s%s", person.StaffID, uuid.New().String(), captureExt(contentType))
	if _, err := s.store.Put(ctx, key, bytes.NewReader(buf), storage.PutObjectOptions{
		Size:        int64(len(buf)),
		ContentType: contentType,
		Metadata:    map[string]string{"staff-id": person.StaffID},
	}); err != nil {
		return nil, fmt.Errorf("store capture: %w", err)
	}

	now := time.Now().UTC()
	if err := s.persons.UpdateFaceEmbedding(ctx, person.ID, embedding, now); err != nil {
		return nil, fmt.Errorf("store embedding: %w", err)
	}

	return &EnrollResult{
		StaffID:     person.StaffID,
		CapturePath: key,
		EnrolledAt:  now,
	}, nil
}

func (s *faceService) Verify(ctx context.Context, staffID string, r io.Reader) (*VerifyResult, error) {
	person, err := findActivePerson(ctx, s.persons, staffID)
	if err != nil {
		return nil, err
	}
	if !person.FaceEnrolled() {
		return nil, ErrNotEnrolled
	}

	buf, err := readCapped(r)
	if err != nil {
		return nil, err
	}

	probe, err := face.EmbeddingFromReader(bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("compute embedding: %w", err)
	}

	similarity := face.Similarity(person.FaceEmbedding, probe)
	return &VerifyResult{
		StaffID:    person.StaffID,
		Match:      similarity >= s.threshold,
		Similarity: similarity,
		Threshold:  s.threshold,
	}, nil
}

func (s *faceService) Status(ctx context.Context, staffID string) (*EnrollmentStatus, error) {
	person, err := findActivePerson(ctx, s.persons, staffID)
	if err != nil {
		return nil, err
	}
	return &EnrollmentStatus{
		StaffID:    person.StaffID,
		Enrolled:   person.FaceEnrolled(),
		EnrolledAt: person.FaceRegisteredAt,
	}, nil
}
