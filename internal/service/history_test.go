package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"smart_temperature/internal/models"
)

func newHistService(readings *readingRepoStub, preds *predRepoStub, modes *modeRepoStub, now time.Time) *HistoryService {
	svc := NewHistoryService(readings, preds, modes)
	svc.now = func() time.Time { return now }
	return svc
}

func TestHistoryService_SetMode(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	modes := &modeRepoStub{}
	svc := newHistService(&readingRepoStub{}, &predRepoStub{}, modes, now)

	ev, err := svc.SetMode(context.Background(), models.ModeManual)
	if err != nil {
		t.Fatalf("SetMode returned error: %v", err)
	}
	if ev.Mode != models.ModeManual || ev.ModeName != "MANUAL" {
		t.Fatalf("unexpected event: %+v", ev)
	}
	if !ev.SelectedAt.Equal(now) {
		t.Fatalf("SelectedAt: want %v, got %v", now, ev.SelectedAt)
	}

	// anything but 0/1 is rejected
	for _, mode := range []int{-1, 2, 7} {
		if _, err := svc.SetMode(context.Background(), mode); !errors.Is(err, ErrInvalidMode) {
			t.Fatalf("mode %d: want ErrInvalidMode, got %v", mode, err)
		}
	}
	if len(modes.inserted) != 1 {
		t.Fatalf("rejected modes must not be stored, got %d rows", len(modes.inserted))
	}
}

func TestHistoryService_CurrentMode(t *testing.T) {
	now := time.Now()

	// no history → AUTO
	svc := newHistService(&readingRepoStub{}, &predRepoStub{}, &modeRepoStub{}, now)
	mode, err := svc.CurrentMode(context.Background())
	if err != nil {
		t.Fatalf("CurrentMode returned error: %v", err)
	}
	if mode != models.ModeAuto {
		t.Fatalf("empty history must default to AUTO, got %d", mode)
	}

	// most recent event wins
	modes := &modeRepoStub{latest: &models.ModeEvent{ID: 3, Mode: models.ModeManual}}
	svc = newHistService(&readingRepoStub{}, &predRepoStub{}, modes, now)
	mode, err = svc.CurrentMode(context.Background())
	if err != nil {
		t.Fatalf("CurrentMode returned error: %v", err)
	}
	if mode != models.ModeManual {
		t.Fatalf("want MANUAL, got %d", mode)
	}
}

func TestHistoryService_Comparison(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	rd := models.SensorReading{Timestamp: time.Date(2025, 6, 15, 14, 23, 0, 0, time.UTC), IndoorTemp: 21.5}
	rd.SyncBucket()
	pd := models.Prediction{Bucket: time.Date(2025, 6, 15, 14, 0, 0, 0, time.UTC), PredictedTemp: 22.1}
	pd.SyncCalendar()

	readings := &readingRepoStub{byDate: []models.SensorReading{rd}}
	preds := &predRepoStub{byDate: []models.Prediction{pd}}
	svc := newHistService(readings, preds, &modeRepoStub{}, now)

	report, err := svc.Comparison(context.Background(), models.DateFilter{})
	if err != nil {
		t.Fatalf("Comparison returned error: %v", err)
	}
	if len(report.RealTemperatures) != 1 || len(report.PredictedTemperatures) != 1 {
		t.Fatalf("series sizes: %d/%d", len(report.RealTemperatures), len(report.PredictedTemperatures))
	}

	realPt := report.RealTemperatures[0]
	if realPt.Timestamp != "2025-06-15T14:23:00Z" || realPt.Type != "real" || realPt.Hour != 14 {
		t.Fatalf("unexpected real point: %+v", realPt)
	}
	pred := report.PredictedTemperatures[0]
	if pred.Timestamp != "2025-06-15 14:00:00" || pred.Type != "predicted" || pred.Temperature != 22.1 {
		t.Fatalf("unexpected predicted point: %+v", pred)
	}
}

func TestHistoryService_Report(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	predicted := 22.1

	readings := &readingRepoStub{joined: []models.HistoryRecord{
		{ID: 1, IndoorTemp: 21.0, PredictedTemp: &predicted},
		{ID: 2, IndoorTemp: 20.4}, // hour without a prediction
	}}
	preds := &predRepoStub{byDate: []models.Prediction{{ID: 5, PredictedTemp: 22.1}}}
	modes := &modeRepoStub{list: []models.ModeEvent{{ID: 9, Mode: models.ModeAuto}}}
	svc := newHistService(readings, preds, modes, now)

	report, err := svc.Report(context.Background(), models.DateFilter{})
	if err != nil {
		t.Fatalf("Report returned error: %v", err)
	}
	if len(report.TemperatureData) != 2 {
		t.Fatalf("expected 2 joined records, got %d", len(report.TemperatureData))
	}
	if report.TemperatureData[0].PredictedTemp == nil || report.TemperatureData[1].PredictedTemp != nil {
		t.Fatalf("join presence wrong: %+v", report.TemperatureData)
	}
	if len(report.Predictions) != 1 || len(report.ModeHistory) != 1 {
		t.Fatalf("parallel lists wrong: %d/%d", len(report.Predictions), len(report.ModeHistory))
	}
}
