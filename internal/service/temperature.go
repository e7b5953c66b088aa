package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"smart_temperature/internal/models"
	"smart_temperature/internal/repository"
)

// Validation bounds shared by readings and predictions.
const (
	yearMin = 2020
	yearMax = 2100

	comfortTempMin = 16.0
	comfortTempMax = 30.0

	// fallback values when a write must synthesize a row
	defaultPredictedTempC = 22.0
	defaultIndoorTempC    = 20.0
)

var (
	ErrInvalidDate       = errors.New("invalid date: year 2020-2100, month 1-12, day 1-31, hour 0-23 naming a real instant")
	ErrLevelOutOfRange   = errors.New("level out of range")
	ErrComfortOutOfRange = errors.New("comfort temperature must be between 16 and 30 °C")
	ErrNoReading         = errors.New("no temperature data found")
	ErrNoPrediction      = errors.New("no prediction found")
)

// PredictionInput carries a new ML prediction; optional fields stay nil when
// the producer did not supply them.
type PredictionInput struct {
	Year          int      `json:"year"`
	Month         int      `json:"month"`
	Day           int      `json:"day"`
	Hour          int      `json:"hour"`
	PredictedTemp float64  `json:"predicted_temp"`
	AdjustedTemp  *float64 `json:"adjusted_temp"`
	OutdoorTemp   *float64 `json:"outdoor_temp"`
	HeaterLevel   *int     `json:"heater_level"`
	FanSpeed      *int     `json:"fan_speed"`
	ComfortTemp   *float64 `json:"comfort_temp"`
}

// ReadingInput carries a new sensor sample. Timestamp wins when set;
// otherwise the calendar fields must name a real hour.
type ReadingInput struct {
	Timestamp   time.Time `json:"timestamp"`
	Year        int       `json:"year"`
	Month       int       `json:"month"`
	Day         int       `json:"day"`
	Hour        int       `json:"hour"`
	IndoorTemp  float64   `json:"indoor_temp"`
	HeaterLevel int       `json:"heater_level"`
	FanLevel    int       `json:"fan_level"`
}

// ManualControls is a user override of heater/fan levels.
type ManualControls struct {
	HeaterOn    bool `json:"heater_on"`
	FanOn       bool `json:"fan_on"`
	HeaterLevel int  `json:"heater_level"`
	FanLevel    int  `json:"fan_level"`
}

type TemperatureService struct {
	readingRepo repository.ReadingRepo
	predRepo    repository.PredictionRepo
	limits      Limits
	now         func() time.Time
}

func NewTemperatureService(readings repository.ReadingRepo, preds repository.PredictionRepo, limits Limits) *TemperatureService {
	return &TemperatureService{
		readingRepo: readings,
		predRepo:    preds,
		limits:      limits,
		now:         time.Now,
	}
}

// CreatePrediction validates ranges and appends one prediction row.
func (s *TemperatureService) CreatePrediction(ctx context.Context, in PredictionInput) (models.Prediction, error) {
	bucket, ok := validBucket(in.Year, in.Month, in.Day, in.Hour)
	if !ok {
		return models.Prediction{}, ErrInvalidDate
	}
	if err := s.checkEquipmentLevel(in.HeaterLevel); err != nil {
		return models.Prediction{}, err
	}
	if err := s.checkEquipmentLevel(in.FanSpeed); err != nil {
		return models.Prediction{}, err
	}
	if in.ComfortTemp != nil && (*in.ComfortTemp < comfortTempMin || *in.ComfortTemp > comfortTempMax) {
		return models.Prediction{}, ErrComfortOutOfRange
	}

	return s.predRepo.Insert(ctx, models.Prediction{
		Bucket:        bucket,
		PredictedTemp: in.PredictedTemp,
		AdjustedTemp:  in.AdjustedTemp,
		OutdoorTemp:   in.OutdoorTemp,
		HeaterLevel:   in.HeaterLevel,
		FanSpeed:      in.FanSpeed,
		ComfortTemp:   in.ComfortTemp,
	})
}

// CreateReading validates ranges and appends one sensor sample.
func (s *TemperatureService) CreateReading(ctx context.Context, in ReadingInput) (models.SensorReading, error) {
	ts := in.Timestamp
	if ts.IsZero() {
		bucket, ok := validBucket(in.Year, in.Month, in.Day, in.Hour)
		if !ok {
			return models.SensorReading{}, ErrInvalidDate
		}
		ts = bucket
	}
	if in.HeaterLevel < 0 || in.HeaterLevel > s.limits.EquipmentLevelMax ||
		in.FanLevel < 0 || in.FanLevel > s.limits.EquipmentLevelMax {
		return models.SensorReading{}, fmt.Errorf("%w: levels must be 0-%d", ErrLevelOutOfRange, s.limits.EquipmentLevelMax)
	}

	return s.readingRepo.Insert(ctx, models.SensorReading{
		Timestamp:   ts,
		IndoorTemp:  in.IndoorTemp,
		HeaterLevel: in.HeaterLevel,
		FanLevel:    in.FanLevel,
	})
}

// LatestPrediction returns the newest prediction; ErrNoPrediction when the
// table is empty ("none found" is a valid state, not a failure).
func (s *TemperatureService) LatestPrediction(ctx context.Context) (models.Prediction, error) {
	p, err := s.predRepo.Latest(ctx)
	if err != nil {
		return models.Prediction{}, err
	}
	if p == nil {
		return models.Prediction{}, ErrNoPrediction
	}
	return *p, nil
}

// LatestReading returns the newest sensor sample; ErrNoReading when empty.
func (s *TemperatureService) LatestReading(ctx context.Context) (models.SensorReading, error) {
	r, err := s.readingRepo.Latest(ctx)
	if err != nil {
		return models.SensorReading{}, err
	}
	if r == nil {
		return models.SensorReading{}, ErrNoReading
	}
	return *r, nil
}

func (s *TemperatureService) ListPredictions(ctx context.Context, limit int) ([]models.Prediction, error) {
	return s.predRepo.List(ctx, normalizeLimit(limit))
}

func (s *TemperatureService) ListReadings(ctx context.Context, limit int) ([]models.SensorReading, error) {
	return s.readingRepo.List(ctx, normalizeLimit(limit))
}

// ReadingsLast24h returns samples with timestamp in [now-24h, now],
// ascending. Records exactly at the boundary are included.
func (s *TemperatureService) ReadingsLast24h(ctx context.Context) ([]models.ReadingPoint, error) {
	now := s.now().UTC()
	readings, err := s.readingRepo.Range(ctx, now.Add(-24*time.Hour), now)
	if err != nil {
		return nil, err
	}

	points := make([]models.ReadingPoint, 0, len(readings))
	for _, rd := range readings {
		points = append(points, models.ReadingPoint{
			Timestamp:   rd.Timestamp.Format(time.RFC3339),
			Temperature: rd.IndoorTemp,
			HeaterLevel: rd.HeaterLevel,
			FanLevel:    rd.FanLevel,
		})
	}
	return points, nil
}

// PredictionsNext24h returns predictions whose bucket falls in [now, now+24h],
// ascending by bucket, capped at 24. Missing hours are not synthesized.
func (s *TemperatureService) PredictionsNext24h(ctx context.Context) ([]models.PredictionPoint, error) {
	now := s.now().UTC()
	preds, err := s.predRepo.Range(ctx, now, now.Add(24*time.Hour), 24)
	if err != nil {
		return nil, err
	}

	points := make([]models.PredictionPoint, 0, len(preds))
	for _, p := range preds {
		points = append(points, models.PredictionPoint{
			Timestamp:     p.Bucket.Format(time.RFC3339),
			PredictedTemp: p.PredictedTemp,
			AdjustedTemp:  p.AdjustedTemp,
			OutdoorTemp:   p.OutdoorTemp,
			HeaterLevel:   p.HeaterLevel,
			FanSpeed:      p.FanSpeed,
			ComfortTemp:   p.ComfortTemp,
		})
	}
	return points, nil
}

// SetComfortTemperature upserts the comfort value into the prediction row for
// the current hour bucket: the latest row in the bucket is overwritten, a new
// row (with a default predicted temperature) is created when the bucket is
// empty. Idempotent per hour.
func (s *TemperatureService) SetComfortTemperature(ctx context.Context, value float64) (models.Prediction, error) {
	if value < comfortTempMin || value > comfortTempMax {
		return models.Prediction{}, ErrComfortOutOfRange
	}

	bucket := models.HourBucket(s.now())
	existing, err := s.predRepo.LatestInBucket(ctx, bucket)
	if err != nil {
		return models.Prediction{}, err
	}
	if existing != nil {
		if err := s.predRepo.UpdateComfort(ctx, existing.ID, value); err != nil {
			return models.Prediction{}, err
		}
		existing.ComfortTemp = &value
		return *existing, nil
	}

	return s.predRepo.Insert(ctx, models.Prediction{
		Bucket:        bucket,
		PredictedTemp: defaultPredictedTempC,
		ComfortTemp:   &value,
	})
}

// ComfortTemperature returns the comfort value carried by the latest
// prediction, or nil when there is none.
func (s *TemperatureService) ComfortTemperature(ctx context.Context) (*float64, error) {
	p, err := s.predRepo.Latest(ctx)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, nil
	}
	return p.ComfortTemp, nil
}

// SetManualControls appends a reading snapshot with the overridden levels,
// carrying forward the latest indoor temperature. A level is forced to 0 when
// its "on" flag is false.
func (s *TemperatureService) SetManualControls(ctx context.Context, p ManualControls) error {
	if p.HeaterLevel < 0 || p.HeaterLevel > s.limits.ManualLevelMax ||
		p.FanLevel < 0 || p.FanLevel > s.limits.ManualLevelMax {
		return fmt.Errorf("%w: manual levels must be 0-%d", ErrLevelOutOfRange, s.limits.ManualLevelMax)
	}

	heaterLevel, fanLevel := p.HeaterLevel, p.FanLevel
	if !p.HeaterOn {
		heaterLevel = 0
	}
	if !p.FanOn {
		fanLevel = 0
	}

	indoorTemp := defaultIndoorTempC
	if latest, err := s.readingRepo.Latest(ctx); err != nil {
		return err
	} else if latest != nil {
		indoorTemp = latest.IndoorTemp
	}

	_, err := s.readingRepo.Insert(ctx, models.SensorReading{
		Timestamp:   s.now().UTC(),
		IndoorTemp:  indoorTemp,
		HeaterLevel: heaterLevel,
		FanLevel:    fanLevel,
	})
	return err
}

func (s *TemperatureService) checkEquipmentLevel(v *int) error {
	if v == nil {
		return nil
	}
	if *v < 0 || *v > s.limits.EquipmentLevelMax {
		return fmt.Errorf("%w: levels must be 0-%d", ErrLevelOutOfRange, s.limits.EquipmentLevelMax)
	}
	return nil
}

func validBucket(year, month, day, hour int) (time.Time, bool) {
	if year < yearMin || year > yearMax {
		return time.Time{}, false
	}
	return models.BucketFromCalendar(year, month, day, hour)
}

const defaultListLimit = 100

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	return limit
}
