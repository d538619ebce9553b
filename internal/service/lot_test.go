package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"agroapi/internal/model"
	"agroapi/internal/repository"
	repoMocks "agroapi/internal/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLotService_Create(t *testing.T) {
	ctx := context.Background()
	harvested := time.Date(2025, 6, 2, 6, 0, 0, 0, time.UTC)

	t.Run("first lot of the day", func(t *testing.T) {
		mLots := new(repoMocks.MockLotRepository)
		svc := NewLotService(mLots)

		mLots.On("CountWithPrefix", ctx, "LOT-20250602-").Return(0, nil)
		mLots.On("FindByLotID", ctx, "LOT-20250602-001").Return(nil, sql.ErrNoRows)
		mLots.On("Create", ctx, mock.MatchedBy(func(l *model.Lot) bool {
			return l.LotID == "LOT-20250602-001" &&
				l.Crop == "pepper" &&
				l.CreatedBy == "EST-MEERA"
		})).Return(&model.Lot{LotID: "LOT-20250602-001"}, nil)

		lot, err := svc.Create(ctx, CreateLotInput{
			Crop:          " Pepper ",
			RawWeightKG:   420.5,
			DateHarvested: harvested,
			WorkerCount:   12,
			CreatedBy:     "est-meera",
		})
		require.NoError(t, err)
		assert.Equal(t, "LOT-20250602-001", lot.LotID)
		mLots.AssertExpectations(t)
	})

	t.Run("sequence probes past taken ids", func(t *testing.T) {
		mLots := new(repoMocks.MockLotRepository)
		svc := NewLotService(mLots)

		mLots.On("CountWithPrefix", ctx, "LOT-20250602-").Return(2, nil)
		mLots.On("FindByLotID", ctx, "LOT-20250602-003").Return(&model.Lot{LotID: "LOT-20250602-003"}, nil)
		mLots.On("FindByLotID", ctx, "LOT-20250602-004").Return(nil, sql.ErrNoRows)
		mLots.On("Create", ctx, mock.MatchedBy(func(l *model.Lot) bool {
			return l.LotID == "LOT-20250602-004"
		})).Return(&model.Lot{LotID: "LOT-20250602-004"}, nil)

		lot, err := svc.Create(ctx, CreateLotInput{Crop: "pepper", RawWeightKG: 100, DateHarvested: harvested})
		require.NoError(t, err)
		assert.Equal(t, "LOT-20250602-004", lot.LotID)
		mLots.AssertExpectations(t)
	})

	t.Run("missing crop", func(t *testing.T) {
		svc := NewLotService(new(repoMocks.MockLotRepository))

		_, err := svc.Create(ctx, CreateLotInput{Crop: "  ", RawWeightKG: 100})
		assert.ErrorIs(t, err, ErrCropRequired)
	})

	t.Run("invalid weight", func(t *testing.T) {
		svc := NewLotService(new(repoMocks.MockLotRepository))

		_, err := svc.Create(ctx, CreateLotInput{Crop: "pepper", RawWeightKG: 0})
		assert.ErrorIs(t, err, ErrInvalidWeight)
	})

	t.Run("count error", func(t *testing.T) {
		mLots := new(repoMocks.MockLotRepository)
		svc := NewLotService(mLots)

		mLots.On("CountWithPrefix", ctx, mock.Anything).Return(0, errors.New("db down"))

		_, err := svc.Create(ctx, CreateLotInput{Crop: "pepper", RawWeightKG: 100, DateHarvested: harvested})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "count lots")
	})
}

func TestLotService_RecordThreshing(t *testing.T) {
	ctx := context.Background()

	t.Run("derives the yield", func(t *testing.T) {
		mLots := new(repoMocks.MockLotRepository)
		svc := NewLotService(mLots)

		mLots.On("FindByLotID", ctx, "LOT-20250602-001").
			Return(&model.Lot{LotID: "LOT-20250602-001", RawWeightKG: 300}, nil)
		// 100.5 / 300 = 33.5%
		mLots.On("UpdateWeights", ctx, "LOT-20250602-001", 100.5, 33.5).
			Return(&model.Lot{LotID: "LOT-20250602-001", ThreshedWeightKG: 100.5, YieldPct: 33.5}, nil)

		lot, err := svc.RecordThreshing(ctx, "lot-20250602-001", ThreshingInput{ThreshedWeightKG: 100.5})
		require.NoError(t, err)
		assert.Equal(t, 33.5, lot.YieldPct)
		mLots.AssertExpectations(t)
	})

	t.Run("threshed above raw", func(t *testing.T) {
		mLots := new(repoMocks.MockLotRepository)
		svc := NewLotService(mLots)

		mLots.On("FindByLotID", ctx, "LOT-20250602-001").
			Return(&model.Lot{LotID: "LOT-20250602-001", RawWeightKG: 300}, nil)

		_, err := svc.RecordThreshing(ctx, "LOT-20250602-001", ThreshingInput{ThreshedWeightKG: 301})
		assert.ErrorIs(t, err, ErrThreshedExceedsRaw)
	})

	t.Run("zero weight", func(t *testing.T) {
		mLots := new(repoMocks.MockLotRepository)
		svc := NewLotService(mLots)

		mLots.On("FindByLotID", ctx, "LOT-20250602-001").
			Return(&model.Lot{LotID: "LOT-20250602-001", RawWeightKG: 300}, nil)

		_, err := svc.RecordThreshing(ctx, "LOT-20250602-001", ThreshingInput{})
		assert.ErrorIs(t, err, ErrInvalidWeight)
	})

	t.Run("unknown lot", func(t *testing.T) {
		mLots := new(repoMocks.MockLotRepository)
		svc := NewLotService(mLots)

		mLots.On("FindByLotID", ctx, "LOT-MISSING").Return(nil, sql.ErrNoRows)

		_, err := svc.RecordThreshing(ctx, "LOT-MISSING", ThreshingInput{ThreshedWeightKG: 10})
		assert.ErrorIs(t, err, ErrLotNotFound)
	})
}

func TestLotService_Yields(t *testing.T) {
	ctx := context.Background()
	mLots := new(repoMocks.MockLotRepository)
	svc := NewLotService(mLots)

	filter := repository.LotFilter{}
	mLots.On("List", ctx, filter).Return([]model.Lot{
		{LotID: "LOT-20250601-001", RawWeightKG: 300, ThreshedWeightKG: 100.5, YieldPct: 33.5},
		{LotID: "LOT-20250601-002", RawWeightKG: 200, ThreshedWeightKG: 90, YieldPct: 45},
		{LotID: "LOT-20250602-001", RawWeightKG: 150}, // not threshed yet
	}, nil)

	report, err := svc.Yields(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, 650.0, report.TotalRawKG)
	assert.Equal(t, 190.5, report.TotalThreshedKG)
	// Unthreshed lots stay out of the average.
	assert.Equal(t, 39.25, report.AvgYieldPct)
	assert.Len(t, report.Lots, 3)
}

func TestLotService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("normalizes the lot id", func(t *testing.T) {
		mLots := new(repoMocks.MockLotRepository)
		svc := NewLotService(mLots)

		mLots.On("FindByLotID", ctx, "LOT-20250602-001").
			Return(&model.Lot{LotID: "LOT-20250602-001"}, nil)

		lot, err := svc.Get(ctx, "  lot-20250602-001 ")
		assert.NoError(t, err)
		assert.Equal(t, "LOT-20250602-001", lot.LotID)
	})

	t.Run("empty id", func(t *testing.T) {
		svc := NewLotService(new(repoMocks.MockLotRepository))

		_, err := svc.Get(ctx, "   ")
		assert.ErrorIs(t, err, ErrIDRequired)
	})
}
