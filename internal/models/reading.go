package models

import "time"

// Reading is one immutable sensor sample for a user. Rows are produced by
// the ingest path and never updated; per-user ordering follows recorded_at.
type Reading struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	RecordedAt  time.Time `json:"recorded_at"`
	BPM         float64   `json:"bpm"`
	SpO2        float64   `json:"spo2"`
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	Steps       int64     `json:"steps"`
	Speed       float64   `json:"speed"`
	Activity    string    `json:"activity"`
}
