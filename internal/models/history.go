package models

import "time"

// HistoryRecord is a sensor reading outer-joined with the prediction for the
// same hour bucket. Prediction fields are pointers and are omitted entirely
// when no prediction matched; absence means "no prediction", not zero.
type HistoryRecord struct {
	ID          int       `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Year        int       `json:"year"`
	Month       int       `json:"month"`
	Day         int       `json:"day"`
	Hour        int       `json:"hour"`
	IndoorTemp  float64   `json:"indoor_temp"`
	HeaterLevel int       `json:"heater_level"`
	FanLevel    int       `json:"fan_level"`
	CreatedAt   time.Time `json:"created_at"`

	PredictedTemp        *float64   `json:"predicted_temp,omitempty"`
	AdjustedTemp         *float64   `json:"adjusted_temp,omitempty"`
	OutdoorTemp          *float64   `json:"outdoor_temp,omitempty"`
	PredictedHeaterLevel *int       `json:"predicted_heater_level,omitempty"`
	PredictedFanSpeed    *int       `json:"predicted_fan_speed,omitempty"`
	ComfortTemp          *float64   `json:"comfort_temp,omitempty"`
	PredictionCreatedAt  *time.Time `json:"prediction_created_at,omitempty"`
}

// HistoryReport carries the three parallel lists served by /history/all.
type HistoryReport struct {
	TemperatureData []HistoryRecord `json:"temperature_data"`
	Predictions     []Prediction    `json:"predictions"`
	ModeHistory     []ModeEvent     `json:"mode_history"`
}

// ComparisonPoint is one sample of either series in the ML-vs-real report.
type ComparisonPoint struct {
	Timestamp   string  `json:"timestamp"`
	Temperature float64 `json:"temperature"`
	Hour        int     `json:"hour"`
	Type        string  `json:"type"` // "real" | "predicted"
}

// ComparisonReport holds both plot series; callers align them by timestamp.
type ComparisonReport struct {
	RealTemperatures      []ComparisonPoint `json:"real_temperatures"`
	PredictedTemperatures []ComparisonPoint `json:"predicted_temperatures"`
}

// DateFilter optionally narrows queries by any subset of calendar fields.
// Nil means "no constraint" for that field.
type DateFilter struct {
	Year  *int
	Month *int
	Day   *int
}
