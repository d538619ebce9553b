package mocks

import (
	"context"
	"time"

	"agroapi/internal/model"
	"agroapi/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockPersonRepository struct {
	mock.Mock
}

func (m *MockPersonRepository) Create(ctx context.Context, p *model.Person) (*model.Person, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Person), args.Error(1)
}

func (m *MockPersonRepository) FindByID(ctx context.Context, id string) (*model.Person, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Person), args.Error(1)
}

func (m *MockPersonRepository) FindByStaffID(ctx context.Context, staffID string) (*model.Person, error) {
	args := m.Called(ctx, staffID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Person), args.Error(1)
}

func (m *MockPersonRepository) List(ctx context.Context, f repository.PersonFilter, pq repository.PageQuery) (*repository.PageResult[model.Person], error) {
	args := m.Called(ctx, f, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Person]), args.Error(1)
}

func (m *MockPersonRepository) Update(ctx context.Context, p *model.Person) (*model.Person, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Person), args.Error(1)
}

func (m *MockPersonRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPersonRepository) UpdateFaceEmbedding(ctx context.Context, id string, embedding []float64, at time.Time) error {
	args := m.Called(ctx, id, embedding, at)
	return args.Error(0)
}

func (m *MockPersonRepository) CountByPrefix(ctx context.Context) (map[string]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

func (m *MockPersonRepository) CountCreatedSince(ctx context.Context, since time.Time) (int, error) {
	args := m.Called(ctx, since)
	return args.Int(0), args.Error(1)
}
