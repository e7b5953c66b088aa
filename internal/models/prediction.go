package models

import "time"

// Prediction is one ML temperature prediction for a single hour bucket.
// Optional fields stay nil when the producer did not supply them and are
// omitted from JSON rather than zero-filled.
type Prediction struct {
	ID            int       `json:"id"`
	Year          int       `json:"year"`
	Month         int       `json:"month"`
	Day           int       `json:"day"`
	Hour          int       `json:"hour"`
	PredictedTemp float64   `json:"predicted_temp"`
	AdjustedTemp  *float64  `json:"adjusted_temp,omitempty"`
	OutdoorTemp   *float64  `json:"outdoor_temp,omitempty"`
	HeaterLevel   *int      `json:"heater_level,omitempty"`
	FanSpeed      *int      `json:"fan_speed,omitempty"`
	ComfortTemp   *float64  `json:"comfort_temp,omitempty"`
	CreatedAt     time.Time `json:"created_at"`

	Bucket time.Time `json:"-"` // hour this prediction targets, UTC
}

// SyncCalendar refreshes the derived calendar fields from Bucket.
func (p *Prediction) SyncCalendar() {
	p.Bucket = p.Bucket.UTC()
	p.Year, p.Month, p.Day, p.Hour = CalendarOf(p.Bucket)
}
