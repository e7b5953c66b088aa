package repository

import (
	"context"
	"database/sql"
	"time"

	"smart_temperature/internal/models"
	"smart_temperature/internal/repository/db"
)

type Authorization interface {
	Get(ctx context.Context) (*models.SystemUser, error)
	Create(ctx context.Context, passwordHash string, at time.Time) error
	UpdatePassword(ctx context.Context, passwordHash string, at time.Time) error
}

type ReadingRepo interface {
	Insert(ctx context.Context, r models.SensorReading) (models.SensorReading, error)
	Latest(ctx context.Context) (*models.SensorReading, error)
	List(ctx context.Context, limit int) ([]models.SensorReading, error)
	ListByDate(ctx context.Context, f models.DateFilter) ([]models.SensorReading, error)
	Range(ctx context.Context, from, to time.Time) ([]models.SensorReading, error)
	ListJoined(ctx context.Context, f models.DateFilter) ([]models.HistoryRecord, error)
}

type PredictionRepo interface {
	Insert(ctx context.Context, p models.Prediction) (models.Prediction, error)
	Latest(ctx context.Context) (*models.Prediction, error)
	List(ctx context.Context, limit int) ([]models.Prediction, error)
	ListByDate(ctx context.Context, f models.DateFilter) ([]models.Prediction, error)
	Range(ctx context.Context, from, to time.Time, limit int) ([]models.Prediction, error)
	LatestInBucket(ctx context.Context, bucket time.Time) (*models.Prediction, error)
	UpdateComfort(ctx context.Context, id int, comfort float64) error
}

type ModeRepo interface {
	Insert(ctx context.Context, mode int, at time.Time) (models.ModeEvent, error)
	Latest(ctx context.Context) (*models.ModeEvent, error)
	List(ctx context.Context, limit int) ([]models.ModeEvent, error)
}

type Repository struct {
	Auth        Authorization
	Readings    ReadingRepo
	Predictions PredictionRepo
	Modes       ModeRepo
}

func NewRepository(conn *sql.DB) *Repository {
	return &Repository{
		Auth:        NewUserRepository(conn),
		Readings:    NewReadingSQLite(conn),
		Predictions: NewPredictionSQLite(conn),
		Modes:       NewModeSQLite(conn),
	}
}

// InitDB re-exports db.InitDB so wiring code only imports this package.
func InitDB(path string) (*sql.DB, error) {
	return db.InitDB(path)
}

// timeLayout is the SQLite TIMESTAMP text format used for all stored times.
const timeLayout = "2006-01-02 15:04:05"

// formatTime renders t in the stored TIMESTAMP format, normalized to UTC.
func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}
