package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"agroapi/internal/model"
	"agroapi/internal/repository"
)

var (
	ErrCropRequired       = errors.New("crop is required")
	ErrInvalidWeight      = errors.New("weight must be greater than zero")
	ErrLotNotFound        = errors.New("lot not found")
	ErrThreshedExceedsRaw = errors.New("threshed weight cannot exceed raw weight")
)

// CreateLotInput carries a new harvest lot weighed raw at the estate.
type CreateLotInput struct {
	Crop          string    `json:"crop" validate:"required"`
	RawWeightKG   float64   `json:"raw_weight_kg" validate:"required,gt=0"`
	DateHarvested time.Time `json:"date_harvested"`
	WorkerCount   int       `json:"worker_count" validate:"gte=0"`
	CreatedBy     string    `json:"-"`
}

// ThreshingInput records the post-threshing weight for a lot.
type ThreshingInput struct {
	ThreshedWeightKG float64 `json:"threshed_weight_kg" validate:"required,gt=0"`
}

// YieldReport aggregates weights and yield over a set of lots.
type YieldReport struct {
	TotalRawKG      float64     `json:"total_raw_kg"`
	TotalThreshedKG float64     `json:"total_threshed_kg"`
	AvgYieldPct     float64     `json:"avg_yield_pct"`
	Lots            []model.Lot `json:"lots"`
}

// LotService manages harvest lots from raw weigh-in at the estate through
// threshing at the plant.
type LotService interface {
	// Create weighs in a new lot and assigns it a generated lot ID.
	Create(ctx context.Context, in CreateLotInput) (*model.Lot, error)

	// Get returns a lot by its lot ID.
	Get(ctx context.Context, lotID string) (*model.Lot, error)

	// List returns lots matching the filter, newest harvest first.
	List(ctx context.Context, f repository.LotFilter) ([]model.Lot, error)

	// RecordThreshing stores the threshed weight and derives the yield.
	RecordThreshing(ctx context.Context, lotID string, in ThreshingInput) (*model.Lot, error)

	// Yields builds a weight and yield report over the filtered lots.
	Yields(ctx context.Context, f repository.LotFilter) (*YieldReport, error)
}

type lotService struct {
	lots repository.LotRepository
}

// NewLotService constructs a new LotService.
func NewLotService(lots repository.LotRepository) LotService {
	return &lotService{lots: lots}
}

func (s *lotService) Create(ctx context.Context, in CreateLotInput) (*model.Lot, error) {
	crop := strings.ToLower(strings.TrimSpace(in.Crop))
	if crop == "" {
		return nil, ErrCropRequired
	}
	if in.RawWeightKG <= 0 || math.IsNaN(in.RawWeightKG) {
		return nil, ErrInvalidWeight
	}
	harvested := in.DateHarvested
	if harvested.IsZero() {
		harvested = time.Now().UTC()
	}

	lotID, err := s.nextLotID(ctx, harvested)
	if err != nil {
		return nil, err
	}

	lot := &model.Lot{
		ID:            uuid.New().String(),
		LotID:         lotID,
		Crop:          crop,
		RawWeightKG:   in.RawWeightKG,
		DateHarvested: harvested,
		WorkerCount:   in.WorkerCount,
		CreatedBy:     strings.ToUpper(strings.TrimSpace(in.CreatedBy)),
		CreatedAt:     time.Now().UTC(),
	}
	return s.lots.Create(ctx, lot)
}

// nextLotID derives LOT-YYYYMMDD-NNN from the count of lots already created
// for the harvest date.
func (s *lotService) nextLotID(ctx context.Context, harvested time.Time) (string, error) {
	prefix := "LOT-" + harvested.UTC().Format("20060102") + "-"
	n, err := s.lots.CountWithPrefix(ctx, prefix)
	if err != nil {
		return "", fmt.Errorf("count lots: %w", err)
	}

	// Probe past gaps left by concurrent weigh-ins.
	for seq := n + 1; seq <= n+100; seq++ {
		candidate := fmt.Sprintf("%s%03d", prefix, seq)
		_, err := s.lots.FindByLotID(ctx, candidate)
		if errors.Is(err, sql.ErrNoRows) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("probe lot id: %w", err)
		}
	}
	return "", fmt.Errorf("no free lot id for %s", prefix)
}

func (s *lotService) Get(ctx context.Context, lotID string) (*model.Lot, error) {
	lotID = strings.ToUpper(strings.TrimSpace(lotID))
	if lotID == "" {
		return nil, ErrIDRequired
	}
	lot, err := s.lots.FindByLotID(ctx, lotID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLotNotFound
		}
		return nil, err
	}
	return lot, nil
}

func (s *lotService) List(ctx context.Context, f repository.LotFilter) ([]model.Lot, error) {
	f.LotID = strings.ToUpper(strings.TrimSpace(f.LotID))
	return s.lots.List(ctx, f)
}

func (s *lotService) RecordThreshing(ctx context.Context, lotID string, in ThreshingInput) (*model.Lot, error) {
	lot, err := s.Get(ctx, lotID)
	if err != nil {
		return nil, err
	}
	if in.ThreshedWeightKG <= 0 || math.IsNaN(in.ThreshedWeightKG) {
		return nil, ErrInvalidWeight
	}
	if in.ThreshedWeightKG > lot.RawWeightKG {
		return nil, ErrThreshedExceedsRaw
	}

	yield := in.ThreshedWeightKG / lot.RawWeightKG * 100
	yield = math.Round(yield*100) / 100
	return s.lots.UpdateWeights(ctx, lot.LotID, in.ThreshedWeightKG, yield)
}

func (s *lotService) Yields(ctx context.Context, f repository.LotFilter) (*YieldReport, error) {
	lots, err := s.List(ctx, f)
	if err != nil {
		return nil, err
	}

	report := &YieldReport{Lots: lots}
	threshedLots := 0
	var yieldSum float64
	for i := range lots {
		report.TotalRawKG += lots[i].RawWeightKG
		report.TotalThreshedKG += lots[i].ThreshedWeightKG
		if lots[i].ThreshedWeightKG > 0 {
			threshedLots++
			yieldSum += lots[i].YieldPct
		}
	}
	if threshedLots > 0 {
		report.AvgYieldPct = math.Round(yieldSum/float64(threshedLots)*100) / 100
	}
	return report, nil
}
