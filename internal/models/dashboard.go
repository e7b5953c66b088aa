package models

import "time"

// Alert severities, most to least severe.
const (
	AlertCritical = "CRITICAL"
	AlertWarning  = "WARNING"
	AlertInfo     = "INFO"
)

// Alert is an informational dashboard notice; alerts never block writes.
type Alert struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// ReadingPoint is a chart-friendly 24h reading sample.
type ReadingPoint struct {
	Timestamp   string  `json:"timestamp"`
	Temperature float64 `json:"temperature"`
	HeaterLevel int     `json:"heater_level"`
	FanLevel    int     `json:"fan_level"`
}

// PredictionPoint is a chart-friendly next-24h prediction sample.
type PredictionPoint struct {
	Timestamp     string   `json:"timestamp"`
	PredictedTemp float64  `json:"predicted_temp"`
	AdjustedTemp  *float64 `json:"adjusted_temp,omitempty"`
	OutdoorTemp   *float64 `json:"outdoor_temp,omitempty"`
	HeaterLevel   *int     `json:"heater_level,omitempty"`
	FanSpeed      *int     `json:"fan_speed,omitempty"`
	ComfortTemp   *float64 `json:"comfort_temp,omitempty"`
}

// Dashboard is the aggregate payload for GET /temperature/dashboard.
// Nullable fields stay null (not zero) when no source row exists.
type Dashboard struct {
	CurrentTemperature *float64          `json:"current_temperature"`
	OutdoorTemperature *float64          `json:"outdoor_temperature"`
	HeaterStatus       string            `json:"heater_status"`
	FanStatus          string            `json:"fan_status"`
	HeaterLevel        int               `json:"heater_level"`
	FanLevel           int               `json:"fan_level"`
	CurrentMode        string            `json:"current_mode"`
	ComfortTemperature *float64          `json:"comfort_temperature"`
	LastUpdate         *time.Time        `json:"last_update"`
	Temperature24h     []ReadingPoint    `json:"temperature_24h"`
	Prediction24h      []PredictionPoint `json:"prediction_24h"`
	Alerts             []Alert           `json:"alerts"`
}
