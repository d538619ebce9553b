package mocks

import (
	"context"
	"io"

	"agroapi/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockFaceService struct {
	mock.Mock
}

func (m *MockFaceService) Enroll(ctx context.Context, staffID string, r io.Reader, contentType string) (*service.EnrollResult, error) {
	args := m.Called(ctx, staffID, r, contentType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.EnrollResult), args.Error(1)
}

func (m *MockFaceService) Verify(ctx context.Context, staffID string, r io.Reader) (*service.VerifyResult, error) {
	args := m.Called(ctx, staffID, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.VerifyResult), args.Error(1)
}

func (m *MockFaceService) Status(ctx context.Context, staffID string) (*service.EnrollmentStatus, error) {
	args := m.Called(ctx, staffID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.EnrollmentStatus), args.Error(1)
}
