package model

import "time"

// Lot is a harvested batch weighed raw at the estate and again after
// threshing at the plant. YieldPct is threshed over raw weight.
type Lot struct {
	ID               string    `json:"id"`
	LotID            string    `json:"lot_id"`
	Crop             string    `json:"crop"`
	RawWeightKG      float64   `json:"raw_weight_kg"`
	ThreshedWeightKG float64   `json:"threshed_weight_kg"`
	YieldPct         float64   `json:"yield_pct"`
	DateHarvested    time.Time `json:"date_harvested"`
	WorkerCount      int       `json:"worker_count"`
	CreatedBy        string    `json:"created_by,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}
