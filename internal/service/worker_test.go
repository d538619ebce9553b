package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"agroapi/internal/auth"
	"agroapi/internal/model"
	"agroapi/internal/repository"
	repoMocks "agroapi/internal/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestWorkerService_Register(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		in          RegisterPersonInput
		setupMocks  func(mRepo *repoMocks.MockPersonRepository)
		wantErr     error
		wantStaffID string
	}{
		{
			name: "driver with generated id",
			in:   RegisterPersonInput{FirstName: "Rajesh", LastName: "Nair", Role: "driver"},
			setupMocks: func(mRepo *repoMocks.MockPersonRepository) {
				mRepo.On("FindByStaffID", ctx, "DRV-RANA").Return(nil, sql.ErrNoRows)
				mRepo.On("Create", ctx, mock.MatchedBy(func(p *model.Person) bool {
					return p.StaffID == "DRV-RANA" && p.FullName == "Rajesh Nair" && p.Status == model.PersonActive
				})).Return(&model.Person{StaffID: "DRV-RANA"}, nil)
			},
			wantStaffID: "DRV-RANA",
		},
		{
			name: "collision appends sequence",
			in:   RegisterPersonInput{FirstName: "Rajesh", Role: "driver"},
			setupMocks: func(mRepo *repoMocks.MockPersonRepository) {
				mRepo.On("FindByStaffID", ctx, "DRV-RA").Return(&model.Person{StaffID: "DRV-RA"}, nil)
				mRepo.On("FindByStaffID", ctx, "DRV-RA02").Return(nil, sql.ErrNoRows)
				mRepo.On("Create", ctx, mock.MatchedBy(func(p *model.Person) bool {
					return p.StaffID == "DRV-RA02"
				})).Return(&model.Person{StaffID: "DRV-RA02"}, nil)
			},
			wantStaffID: "DRV-RA02",
		},
		{
			name: "punctuation stripped from name parts",
			in:   RegisterPersonInput{FirstName: "D'Arcy", LastName: "O'Neil", Role: "supervisor"},
			setupMocks: func(mRepo *repoMocks.MockPersonRepository) {
				mRepo.On("FindByStaffID", ctx, "SUP-DAON").Return(nil, sql.ErrNoRows)
				mRepo.On("Create", ctx, mock.MatchedBy(func(p *model.Person) bool {
					return p.StaffID == "SUP-DAON"
				})).Return(&model.Person{StaffID: "SUP-DAON"}, nil)
			},
			wantStaffID: "SUP-DAON",
		},
		{
			name: "worker role uses the unreserved prefix",
			in:   RegisterPersonInput{FirstName: "Anita", LastName: "Kumari", Role: "worker"},
			setupMocks: func(mRepo *repoMocks.MockPersonRepository) {
				mRepo.On("FindByStaffID", ctx, "WRK-ANKU").Return(nil, sql.ErrNoRows)
				mRepo.On("Create", ctx, mock.MatchedBy(func(p *model.Person) bool {
					return p.StaffID == "WRK-ANKU"
				})).Return(&model.Person{StaffID: "WRK-ANKU"}, nil)
			},
			wantStaffID: "WRK-ANKU",
		},
		{
			name:       "empty first name",
			in:         RegisterPersonInput{FirstName: "  ", Role: "driver"},
			setupMocks: func(mRepo *repoMocks.MockPersonRepository) {},
			wantErr:    ErrNameRequired,
		},
		{
			name:       "unknown role",
			in:         RegisterPersonInput{FirstName: "Ravi", Role: "astronaut"},
			setupMocks: func(mRepo *repoMocks.MockPersonRepository) {},
			wantErr:    ErrUnknownRole,
		},
		{
			name:       "invalid person type",
			in:         RegisterPersonInput{FirstName: "Ravi", Role: "vendor", PersonType: "robot"},
			setupMocks: func(mRepo *repoMocks.MockPersonRepository) {},
			wantErr:    ErrInvalidPersonType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockPersonRepository)
			svc := NewWorkerService(mRepo)

			tt.setupMocks(mRepo)

			person, err := svc.Register(ctx, tt.in)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, person)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantStaffID, person.StaffID)
			}
			mRepo.AssertExpectations(t)
		})
	}
}

func TestWorkerService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("role maps to staff id prefix", func(t *testing.T) {
		mRepo := new(repoMocks.MockPersonRepository)
		svc := NewWorkerService(mRepo)

		mRepo.On("List", ctx,
			repository.PersonFilter{RolePrefix: "DRV-"},
			repository.PageQuery{Limit: 20, Offset: 0},
		).Return(&repository.PageResult[model.Person]{
			Items: []model.Person{{StaffID: "DRV-RAJESH"}},
			Total: 1,
		}, nil)

		res, err := svc.List(ctx, ListPersonsInput{Role: "driver"})
		assert.NoError(t, err)
		assert.Equal(t, 1, res.Total)
		mRepo.AssertExpectations(t)
	})

	t.Run("unknown role", func(t *testing.T) {
		svc := NewWorkerService(new(repoMocks.MockPersonRepository))

		_, err := svc.List(ctx, ListPersonsInput{Role: "pilot"})
		assert.ErrorIs(t, err, ErrUnknownRole)
	})

	t.Run("limit is clamped", func(t *testing.T) {
		mRepo := new(repoMocks.MockPersonRepository)
		svc := NewWorkerService(mRepo)

		mRepo.On("List", ctx,
			repository.PersonFilter{},
			repository.PageQuery{Limit: 100, Offset: 0},
		).Return(&repository.PageResult[model.Person]{}, nil)

		_, err := svc.List(ctx, ListPersonsInput{Limit: 9999, Offset: -3})
		assert.NoError(t, err)
		mRepo.AssertExpectations(t)
	})
}

func TestWorkerService_Update(t *testing.T) {
	ctx := context.Background()

	strPtr := func(s string) *string { return &s }

	t.Run("patches only provided fields", func(t *testing.T) {
		mRepo := new(repoMocks.MockPersonRepository)
		svc := NewWorkerService(mRepo)

		mRepo.On("FindByID", ctx, "p1").Return(&model.Person{
			ID:        "p1",
			StaffID:   "SUP-MANI",
			FirstName: "Mani",
			LastName:  "Iyer",
			Mobile:    "+919000000000",
			Status:    model.PersonActive,
		}, nil)
		mRepo.On("Update", ctx, mock.MatchedBy(func(p *model.Person) bool {
			return p.Mobile == "+918888888888" && p.FirstName == "Mani" && p.FullName == "Mani Iyer"
		})).Return(&model.Person{ID: "p1"}, nil)

		_, err := svc.Update(ctx, "p1", UpdatePersonInput{Mobile: strPtr("+918888888888")})
		assert.NoError(t, err)
		mRepo.AssertExpectations(t)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		mRepo := new(repoMocks.MockPersonRepository)
		svc := NewWorkerService(mRepo)

		mRepo.On("FindByID", ctx, "p1").Return(&model.Person{ID: "p1", FirstName: "Mani"}, nil)

		_, err := svc.Update(ctx, "p1", UpdatePersonInput{Status: strPtr("retired")})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid status")
		mRepo.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		mRepo := new(repoMocks.MockPersonRepository)
		svc := NewWorkerService(mRepo)

		mRepo.On("FindByID", ctx, "ghost").Return(nil, sql.ErrNoRows)

		_, err := svc.Update(ctx, "ghost", UpdatePersonInput{})
		assert.ErrorIs(t, err, ErrPersonNotFound)
		mRepo.AssertExpectations(t)
	})
}

func TestWorkerService_Deactivate(t *testing.T) {
	ctx := context.Background()
	mRepo := new(repoMocks.MockPersonRepository)
	svc := NewWorkerService(mRepo)

	mRepo.On("FindByID", ctx, "p1").Return(&model.Person{
		ID:        "p1",
		FirstName: "Mani",
		Status:    model.PersonActive,
	}, nil)
	mRepo.On("Update", ctx, mock.MatchedBy(func(p *model.Person) bool {
		return p.Status == model.PersonInactive
	})).Return(&model.Person{ID: "p1", Status: model.PersonInactive}, nil)

	person, err := svc.Deactivate(ctx, "p1")
	assert.NoError(t, err)
	assert.Equal(t, model.PersonInactive, person.Status)
	mRepo.AssertExpectations(t)
}

func TestWorkerService_Summary(t *testing.T) {
	ctx := context.Background()
	mRepo := new(repoMocks.MockPersonRepository)
	svc := NewWorkerService(mRepo)

	// WRK and dashless IDs have no reserved prefix and count as workers.
	mRepo.On("CountByPrefix", ctx).Return(map[string]int{
		"ADM": 1,
		"EST": 2,
		"SUP": 3,
		"WRK": 4,
		"":    2,
	}, nil)

	summary, err := svc.Summary(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 12, summary.Total)
	assert.Equal(t, 1, summary.ByRole[auth.RoleAdmin])
	assert.Equal(t, 2, summary.ByRole[auth.RoleEstateManager])
	assert.Equal(t, 3, summary.ByRole[auth.RoleSupervisor])
	assert.Equal(t, 6, summary.ByRole[auth.RoleWorker])
	assert.Equal(t, 0, summary.ByRole[auth.RoleDriver])
	mRepo.AssertExpectations(t)
}

func TestWorkerService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("existing person", func(t *testing.T) {
		mRepo := new(repoMocks.MockPersonRepository)
		svc := NewWorkerService(mRepo)

		mRepo.On("FindByID", ctx, "p1").Return(&model.Person{ID: "p1"}, nil)
		mRepo.On("Delete", ctx, "p1").Return(nil)

		assert.NoError(t, svc.Delete(ctx, "p1"))
		mRepo.AssertExpectations(t)
	})

	t.Run("missing person", func(t *testing.T) {
		mRepo := new(repoMocks.MockPersonRepository)
		svc := NewWorkerService(mRepo)

		mRepo.On("FindByID", ctx, "ghost").Return(nil, sql.ErrNoRows)

		assert.ErrorIs(t, svc.Delete(ctx, "ghost"), ErrPersonNotFound)
		mRepo.AssertExpectations(t)
	})

	t.Run("repository error", func(t *testing.T) {
		mRepo := new(repoMocks.MockPersonRepository)
		svc := NewWorkerService(mRepo)

		mRepo.On("FindByID", ctx, "p1").Return(&model.Person{ID: "p1"}, nil)
		mRepo.On("Delete", ctx, "p1").Return(errors.New("db fail"))

		assert.Error(t, svc.Delete(ctx, "p1"))
		mRepo.AssertExpectations(t)
	})
}
