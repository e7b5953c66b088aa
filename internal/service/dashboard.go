package service

import (
	"context"
	"fmt"
	"time"

	"smart_temperature/internal/models"
	"smart_temperature/internal/repository"
)

// Alert thresholds. The heater-high rule assumes the ~5-minute sample cadence
// of the sensors, so more than 6 hot samples covers over half an hour.
const (
	staleReadingAfter   = 15 * time.Minute
	indoorTempLowWarnC  = 10.0
	indoorTempHighWarnC = 30.0
	heaterHighLevel     = 3
	heaterHighSamples   = 6

	statusOn  = "ON"
	statusOff = "OFF"
)

// DashboardService aggregates the current snapshot, the 24h series and the
// alert list into one payload.
type DashboardService struct {
	readingRepo repository.ReadingRepo
	predRepo    repository.PredictionRepo
	modeRepo    repository.ModeRepo
	now         func() time.Time
}

func NewDashboardService(readings repository.ReadingRepo, preds repository.PredictionRepo, modes repository.ModeRepo) *DashboardService {
	return &DashboardService{
		readingRepo: readings,
		predRepo:    preds,
		modeRepo:    modes,
		now:         time.Now,
	}
}

// Compute assembles the dashboard. It never fails the caller: any repository
// error degrades to the baseline payload plus a single CRITICAL alert.
func (s *DashboardService) Compute(ctx context.Context) models.Dashboard {
	d, err := s.assemble(ctx)
	if err != nil {
		d = baselineDashboard()
		d.Alerts = []models.Alert{{
			Level:   models.AlertCritical,
			Message: fmt.Sprintf("dashboard data unavailable: %v", err),
		}}
	}
	return d
}

func (s *DashboardService) assemble(ctx context.Context) (models.Dashboard, error) {
	d := baselineDashboard()
	now := s.now().UTC()

	latest, err := s.readingRepo.Latest(ctx)
	if err != nil {
		return d, err
	}
	if latest != nil {
		d.CurrentTemperature = &latest.IndoorTemp
		d.HeaterLevel = latest.HeaterLevel
		d.FanLevel = latest.FanLevel
		if latest.HeaterLevel > 0 {
			d.HeaterStatus = statusOn
		}
		if latest.FanLevel > 0 {
			d.FanStatus = statusOn
		}
		ts := latest.Timestamp
		d.LastUpdate = &ts
	}

	latestPred, err := s.predRepo.Latest(ctx)
	if err != nil {
		return d, err
	}
	if latestPred != nil {
		d.OutdoorTemperature = latestPred.OutdoorTemp
		d.ComfortTemperature = latestPred.ComfortTemp
	}

	mode, err := s.modeRepo.Latest(ctx)
	if err != nil {
		return d, err
	}
	if mode != nil {
		d.CurrentMode = models.ModeName(mode.Mode)
	}

	readings, err := s.readingRepo.Range(ctx, now.Add(-24*time.Hour), now)
	if err != nil {
		return d, err
	}
	for _, rd := range readings {
		d.Temperature24h = append(d.Temperature24h, models.ReadingPoint{
			Timestamp:   rd.Timestamp.Format(time.RFC3339),
			Temperature: rd.IndoorTemp,
			HeaterLevel: rd.HeaterLevel,
			FanLevel:    rd.FanLevel,
		})
	}

	preds, err := s.predRepo.Range(ctx, now, now.Add(24*time.Hour), 24)
	if err != nil {
		return d, err
	}
	for _, p := range preds {
		d.Prediction24h = append(d.Prediction24h, models.PredictionPoint{
			Timestamp:     p.Bucket.Format(time.RFC3339),
			PredictedTemp: p.PredictedTemp,
			AdjustedTemp:  p.AdjustedTemp,
			OutdoorTemp:   p.OutdoorTemp,
			HeaterLevel:   p.HeaterLevel,
			FanSpeed:      p.FanSpeed,
			ComfortTemp:   p.ComfortTemp,
		})
	}

	d.Alerts = s.evaluateAlerts(now, latest, readings)
	return d, nil
}

// evaluateAlerts applies the deterministic rule chain. Each rule appends at
// most one alert; a missing sensor feed short-circuits the rest.
func (s *DashboardService) evaluateAlerts(now time.Time, latest *models.SensorReading, last24h []models.SensorReading) []models.Alert {
	alerts := make([]models.Alert, 0, 4)

	if latest == nil {
		return append(alerts, models.Alert{
			Level:   models.AlertCritical,
			Message: "no sensor data available",
		})
	}

	if age := now.Sub(latest.Timestamp); age > staleReadingAfter {
		alerts = append(alerts, models.Alert{
			Level:   models.AlertWarning,
			Message: fmt.Sprintf("last sensor reading is %d minutes old", int(age.Minutes())),
		})
	}

	if latest.IndoorTemp < indoorTempLowWarnC || latest.IndoorTemp > indoorTempHighWarnC {
		alerts = append(alerts, models.Alert{
			Level:   models.AlertWarning,
			Message: fmt.Sprintf("indoor temperature %.1f°C is out of the expected range", latest.IndoorTemp),
		})
	}

	hot := 0
	hourAgo := now.Add(-time.Hour)
	for _, rd := range last24h {
		if !rd.Timestamp.Before(hourAgo) && rd.HeaterLevel > heaterHighLevel {
			hot++
		}
	}
	if hot > heaterHighSamples {
		alerts = append(alerts, models.Alert{
			Level:   models.AlertInfo,
			Message: "heater has been running high for more than 30 minutes",
		})
	}

	return alerts
}

// baselineDashboard is the safe all-default payload served when the database
// is empty or unreachable.
func baselineDashboard() models.Dashboard {
	return models.Dashboard{
		HeaterStatus:   statusOff,
		FanStatus:      statusOff,
		CurrentMode:    models.ModeName(models.ModeAuto),
		Temperature24h: []models.ReadingPoint{},
		Prediction24h:  []models.PredictionPoint{},
		Alerts:         []models.Alert{},
	}
}
