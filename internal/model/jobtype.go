package model

import "time"

// JobType is a daily work category with an expected per-worker output,
// used for assignment and yield expectation reporting.
type JobType struct {
	ID                      string    `json:"id"`
	JobName                 string    `json:"job_name"`
	Category                string    `json:"category,omitempty"`
	Unit                    string    `json:"unit,omitempty"`
	ExpectedOutputPerWorker float64   `json:"expected_output_per_worker"`
	CreatedAt               time.Time `json:"created_at"`
}
