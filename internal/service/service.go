package service

import (
	"context"
	"time"

	"smart_temperature/internal/logger"
	"smart_temperature/internal/models"
	"smart_temperature/internal/repository"
)

type Authorization interface {
	InitDefaultUser(ctx context.Context) error
	Login(ctx context.Context, password string) (string, error)
	ChangePassword(ctx context.Context, oldPassword, newPassword string) error
	ParseToken(accessToken string) error
}

// Temperature exposes sensor-reading and prediction CRUD plus the derived
// 24h windows, comfort-temperature upsert and manual control overrides.
type Temperature interface {
	CreatePrediction(ctx context.Context, in PredictionInput) (models.Prediction, error)
	CreateReading(ctx context.Context, in ReadingInput) (models.SensorReading, error)
	LatestPrediction(ctx context.Context) (models.Prediction, error)
	LatestReading(ctx context.Context) (models.SensorReading, error)
	ListPredictions(ctx context.Context, limit int) ([]models.Prediction, error)
	ListReadings(ctx context.Context, limit int) ([]models.SensorReading, error)
	ReadingsLast24h(ctx context.Context) ([]models.ReadingPoint, error)
	PredictionsNext24h(ctx context.Context) ([]models.PredictionPoint, error)
	SetComfortTemperature(ctx context.Context, value float64) (models.Prediction, error)
	ComfortTemperature(ctx context.Context) (*float64, error)
	SetManualControls(ctx context.Context, p ManualControls) error
}

// Dashboard assembles the aggregate payload; Compute never fails the caller.
type Dashboard interface {
	Compute(ctx context.Context) models.Dashboard
}

// History exposes mode events and the joined history/comparison reports.
type History interface {
	SetMode(ctx context.Context, mode int) (models.ModeEvent, error)
	CurrentMode(ctx context.Context) (int, error)
	ModeHistory(ctx context.Context, limit int) ([]models.ModeEvent, error)
	Report(ctx context.Context, f models.DateFilter) (models.HistoryReport, error)
	Comparison(ctx context.Context, f models.DateFilter) (models.ComparisonReport, error)
}

// Ingest runs the background MQTT reading feed until ctx is canceled.
type Ingest interface {
	Run(ctx context.Context)
}

type Service struct {
	Authorization
	Temperature
	Dashboard
	History
	Ingest
}

// AuthConfig carries the credential and token settings from configuration.
type AuthConfig struct {
	DefaultPassword string
	SigningKey      string
	TokenTTL        time.Duration
}

// Limits bounds the level fields accepted on writes.
type Limits struct {
	ManualLevelMax    int // manual heater/fan controls
	EquipmentLevelMax int // sensor-reported and predicted levels
}

// MQTTConfig configures the optional reading-ingestion subscriber.
type MQTTConfig struct {
	Enabled  bool
	Broker   string
	Topic    string
	ClientID string
}

type Config struct {
	Auth   AuthConfig
	Limits Limits
	MQTT   MQTTConfig
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository, cfg Config, log *logger.Logger) *Service {
	temps := NewTemperatureService(repos.Readings, repos.Predictions, cfg.Limits)
	return &Service{
		Authorization: NewAuthService(repos.Auth, cfg.Auth),
		Temperature:   temps,
		Dashboard:     NewDashboardService(repos.Readings, repos.Predictions, repos.Modes),
		History:       NewHistoryService(repos.Readings, repos.Predictions, repos.Modes),
		Ingest:        NewIngestService(temps, cfg.MQTT, log),
	}
}
