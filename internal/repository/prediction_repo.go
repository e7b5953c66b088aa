package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"smart_temperature/internal/models"
)

type PredictionSQLite struct {
	db *sql.DB
}

func NewPredictionSQLite(db *sql.DB) *PredictionSQLite { return &PredictionSQLite{db: db} }

var _ PredictionRepo = (*PredictionSQLite)(nil)

const (
	insertPredictionSQL = `
		INSERT INTO temperature_predictions (bucket, predicted_temp, adjusted_temp, outdoor_temp, heater_level, fan_speed, comfort_temp, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	selectPredictionCols = `id, bucket, predicted_temp, adjusted_temp, outdoor_temp, heater_level, fan_speed, comfort_temp, created_at`

	updateComfortSQL = `UPDATE temperature_predictions SET comfort_temp = ? WHERE id = ?`
)

// Insert appends a prediction and returns it with ID and CreatedAt filled in.
func (r *PredictionSQLite) Insert(ctx context.Context, p models.Prediction) (models.Prediction, error) {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	p.SyncCalendar()

	res, err := r.db.ExecContext(ctx, insertPredictionSQL,
		formatTime(p.Bucket),
		p.PredictedTemp,
		ptrFloat(p.AdjustedTemp),
		ptrFloat(p.OutdoorTemp),
		ptrInt(p.HeaterLevel),
		ptrInt(p.FanSpeed),
		ptrFloat(p.ComfortTemp),
		formatTime(p.CreatedAt),
	)
	if err != nil {
		return models.Prediction{}, fmt.Errorf("insert prediction: %w", err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return models.Prediction{}, fmt.Errorf("prediction last insert id: %w", err)
	}
	p.ID = int(lastID)
	return p, nil
}

// Latest returns the most recent prediction by id, or (nil, nil) when none.
func (r *PredictionSQLite) Latest(ctx context.Context) (*models.Prediction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+selectPredictionCols+` FROM temperature_predictions ORDER BY id DESC LIMIT 1`)
	p, err := scanPrediction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select latest prediction: %w", err)
	}
	return p, nil
}

// List returns predictions newest-first, capped at limit.
func (r *PredictionSQLite) List(ctx context.Context, limit int) ([]models.Prediction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+selectPredictionCols+` FROM temperature_predictions ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list predictions: %w", err)
	}
	return collectPredictions(rows)
}

// ListByDate returns predictions matching the calendar filter, id descending.
func (r *PredictionSQLite) ListByDate(ctx context.Context, f models.DateFilter) ([]models.Prediction, error) {
	q := `SELECT ` + selectPredictionCols + ` FROM temperature_predictions`
	conds, args := dateConds("bucket", f)
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY id DESC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list predictions by date: %w", err)
	}
	return collectPredictions(rows)
}

// Range returns predictions with bucket in [from, to] inclusive, ascending by
// bucket, capped at limit. Only existing rows are returned; hours with no
// prediction are simply absent.
func (r *PredictionSQLite) Range(ctx context.Context, from, to time.Time, limit int) ([]models.Prediction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+selectPredictionCols+` FROM temperature_predictions WHERE bucket >= ? AND bucket <= ? ORDER BY bucket ASC, id ASC LIMIT ?`,
		formatTime(from), formatTime(to), limit)
	if err != nil {
		return nil, fmt.Errorf("range predictions: %w", err)
	}
	return collectPredictions(rows)
}

// LatestInBucket returns the newest prediction for one hour bucket, or
// (nil, nil) when the bucket has none.
func (r *PredictionSQLite) LatestInBucket(ctx context.Context, bucket time.Time) (*models.Prediction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+selectPredictionCols+` FROM temperature_predictions WHERE bucket = ? ORDER BY id DESC LIMIT 1`,
		formatTime(bucket))
	p, err := scanPrediction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select prediction in bucket: %w", err)
	}
	return p, nil
}

// UpdateComfort overwrites the comfort temperature on one prediction row.
func (r *PredictionSQLite) UpdateComfort(ctx context.Context, id int, comfort float64) error {
	res, err := r.db.ExecContext(ctx, updateComfortSQL, comfort, id)
	if err != nil {
		return fmt.Errorf("update comfort temp: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update comfort temp: prediction %d not found", id)
	}
	return nil
}

func scanPrediction(row rowScanner) (*models.Prediction, error) {
	var (
		p           models.Prediction
		adjTemp     sql.NullFloat64
		outTemp     sql.NullFloat64
		heaterLvl   sql.NullInt64
		fanSpeed    sql.NullInt64
		comfortTemp sql.NullFloat64
	)
	if err := row.Scan(&p.ID, &p.Bucket, &p.PredictedTemp, &adjTemp, &outTemp, &heaterLvl, &fanSpeed, &comfortTemp, &p.CreatedAt); err != nil {
		return nil, err
	}
	p.AdjustedTemp = nullFloat(adjTemp)
	p.OutdoorTemp = nullFloat(outTemp)
	p.HeaterLevel = nullInt(heaterLvl)
	p.FanSpeed = nullInt(fanSpeed)
	p.ComfortTemp = nullFloat(comfortTemp)
	p.CreatedAt = p.CreatedAt.UTC()
	p.SyncCalendar()
	return &p, nil
}

func collectPredictions(rows *sql.Rows) ([]models.Prediction, error) {
	defer rows.Close()
	out := make([]models.Prediction, 0, 64)
	for rows.Next() {
		p, err := scanPrediction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan prediction: %w", err)
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func ptrFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func ptrInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}
