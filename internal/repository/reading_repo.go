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

type ReadingSQLite struct {
	db *sql.DB
}

func NewReadingSQLite(db *sql.DB) *ReadingSQLite { return &ReadingSQLite{db: db} }

var _ ReadingRepo = (*ReadingSQLite)(nil)

const (
	insertReadingSQL = `
		INSERT INTO sensor_readings (ts, bucket, indoor_temp, heater_level, fan_level, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	selectReadingCols = `id, ts, indoor_temp, heater_level, fan_level, created_at`
)

// Insert appends a reading and returns it with ID and CreatedAt filled in.
func (r *ReadingSQLite) Insert(ctx context.Context, rd models.SensorReading) (models.SensorReading, error) {
	if rd.CreatedAt.IsZero() {
		rd.CreatedAt = time.Now().UTC()
	}
	rd.SyncBucket()

	res, err := r.db.ExecContext(ctx, insertReadingSQL,
		formatTime(rd.Timestamp),
		formatTime(rd.Bucket),
		rd.IndoorTemp,
		rd.HeaterLevel,
		rd.FanLevel,
		formatTime(rd.CreatedAt),
	)
	if err != nil {
		return models.SensorReading{}, fmt.Errorf("insert reading: %w", err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return models.SensorReading{}, fmt.Errorf("reading last insert id: %w", err)
	}
	rd.ID = int(lastID)
	return rd, nil
}

// Latest returns the most recent reading by id. Returns (nil, nil) when the
// table is empty; callers must treat that as a valid state.
func (r *ReadingSQLite) Latest(ctx context.Context) (*models.SensorReading, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+selectReadingCols+` FROM sensor_readings ORDER BY id DESC LIMIT 1`)
	rd, err := scanReading(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select latest reading: %w", err)
	}
	return rd, nil
}

// List returns readings newest-first, capped at limit.
func (r *ReadingSQLite) List(ctx context.Context, limit int) ([]models.SensorReading, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+selectReadingCols+` FROM sensor_readings ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list readings: %w", err)
	}
	return collectReadings(rows)
}

// ListByDate returns readings matching the calendar filter, newest-first.
func (r *ReadingSQLite) ListByDate(ctx context.Context, f models.DateFilter) ([]models.SensorReading, error) {
	q := `SELECT ` + selectReadingCols + ` FROM sensor_readings`
	conds, args := dateConds("bucket", f)
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY ts DESC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list readings by date: %w", err)
	}
	return collectReadings(rows)
}

// Range returns readings with ts in [from, to] inclusive, ascending.
func (r *ReadingSQLite) Range(ctx context.Context, from, to time.Time) ([]models.SensorReading, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+selectReadingCols+` FROM sensor_readings WHERE ts >= ? AND ts <= ? ORDER BY ts ASC`,
		formatTime(from), formatTime(to))
	if err != nil {
		return nil, fmt.Errorf("range readings: %w", err)
	}
	return collectReadings(rows)
}

const listJoinedSQL = `
	SELECT r.id, r.ts, r.indoor_temp, r.heater_level, r.fan_level, r.created_at,
	       p.predicted_temp, p.adjusted_temp, p.outdoor_temp, p.heater_level, p.fan_speed, p.comfort_temp, p.created_at
	FROM sensor_readings r
	LEFT JOIN temperature_predictions p
	  ON p.bucket = r.bucket
	 AND p.id = (SELECT MAX(p2.id) FROM temperature_predictions p2 WHERE p2.bucket = r.bucket)
`

// ListJoined outer-joins readings to the latest prediction sharing the same
// hour bucket (one equality, last prediction wins), newest reading first.
func (r *ReadingSQLite) ListJoined(ctx context.Context, f models.DateFilter) ([]models.HistoryRecord, error) {
	q := listJoinedSQL
	conds, args := dateConds("r.bucket", f)
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY r.ts DESC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list joined history: %w", err)
	}
	defer rows.Close()

	out := make([]models.HistoryRecord, 0, 64)
	for rows.Next() {
		var (
			rec         models.HistoryRecord
			predTemp    sql.NullFloat64
			adjTemp     sql.NullFloat64
			outTemp     sql.NullFloat64
			heaterLvl   sql.NullInt64
			fanSpeed    sql.NullInt64
			comfortTemp sql.NullFloat64
			predCreated sql.NullTime
		)
		if err := rows.Scan(
			&rec.ID, &rec.Timestamp, &rec.IndoorTemp, &rec.HeaterLevel, &rec.FanLevel, &rec.CreatedAt,
			&predTemp, &adjTemp, &outTemp, &heaterLvl, &fanSpeed, &comfortTemp, &predCreated,
		); err != nil {
			return nil, fmt.Errorf("scan joined history: %w", err)
		}
		rec.Timestamp = rec.Timestamp.UTC()
		rec.CreatedAt = rec.CreatedAt.UTC()
		rec.Year, rec.Month, rec.Day, rec.Hour = models.CalendarOf(models.HourBucket(rec.Timestamp))

		// predicted_temp is NOT NULL in the schema, so its presence marks a
		// matched prediction row.
		if predTemp.Valid {
			rec.PredictedTemp = &predTemp.Float64
			rec.AdjustedTemp = nullFloat(adjTemp)
			rec.OutdoorTemp = nullFloat(outTemp)
			rec.PredictedHeaterLevel = nullInt(heaterLvl)
			rec.PredictedFanSpeed = nullInt(fanSpeed)
			rec.ComfortTemp = nullFloat(comfortTemp)
			if predCreated.Valid {
				t := predCreated.Time.UTC()
				rec.PredictionCreatedAt = &t
			}
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReading(row rowScanner) (*models.SensorReading, error) {
	var rd models.SensorReading
	if err := row.Scan(&rd.ID, &rd.Timestamp, &rd.IndoorTemp, &rd.HeaterLevel, &rd.FanLevel, &rd.CreatedAt); err != nil {
		return nil, err
	}
	rd.CreatedAt = rd.CreatedAt.UTC()
	rd.SyncBucket()
	return &rd, nil
}

func collectReadings(rows *sql.Rows) ([]models.SensorReading, error) {
	defer rows.Close()
	out := make([]models.SensorReading, 0, 64)
	for rows.Next() {
		rd, err := scanReading(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reading: %w", err)
		}
		out = append(out, *rd)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// dateConds builds calendar-field conditions against a stored bucket column.
func dateConds(col string, f models.DateFilter) ([]string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.Year != nil {
		conds = append(conds, "CAST(strftime('%Y', "+col+") AS INTEGER) = ?")
		args = append(args, *f.Year)
	}
	if f.Month != nil {
		conds = append(conds, "CAST(strftime('%m', "+col+") AS INTEGER) = ?")
		args = append(args, *f.Month)
	}
	if f.Day != nil {
		conds = append(conds, "CAST(strftime('%d', "+col+") AS INTEGER) = ?")
		args = append(args, *f.Day)
	}
	return conds, args
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func nullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}
