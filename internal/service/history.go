package service

import (
	"context"
	"errors"
	"time"

	"smart_temperature/internal/models"
	"smart_temperature/internal/repository"
)

const modeHistoryCap = 100

var ErrInvalidMode = errors.New("invalid mode: must be 1 (AUTO) or 0 (MANUAL)")

type HistoryService struct {
	readingRepo repository.ReadingRepo
	predRepo    repository.PredictionRepo
	modeRepo    repository.ModeRepo
	now         func() time.Time
}

func NewHistoryService(readings repository.ReadingRepo, preds repository.PredictionRepo, modes repository.ModeRepo) *HistoryService {
	return &HistoryService{
		readingRepo: readings,
		predRepo:    preds,
		modeRepo:    modes,
		now:         time.Now,
	}
}

// SetMode appends a mode-change event and returns it.
func (s *HistoryService) SetMode(ctx context.Context, mode int) (models.ModeEvent, error) {
	if mode != models.ModeAuto && mode != models.ModeManual {
		return models.ModeEvent{}, ErrInvalidMode
	}
	return s.modeRepo.Insert(ctx, mode, s.now().UTC())
}

// CurrentMode returns the mode of the most recent event; AUTO when there is
// no history at all.
func (s *HistoryService) CurrentMode(ctx context.Context) (int, error) {
	latest, err := s.modeRepo.Latest(ctx)
	if err != nil {
		return 0, err
	}
	if latest == nil {
		return models.ModeAuto, nil
	}
	return latest.Mode, nil
}

// ModeHistory returns mode events newest-first, capped at limit.
func (s *HistoryService) ModeHistory(ctx context.Context, limit int) ([]models.ModeEvent, error) {
	return s.modeRepo.List(ctx, normalizeLimit(limit))
}

// Report builds the three parallel history lists: readings joined to the
// latest prediction sharing their hour bucket, predictions alone for
// charting, and the recent mode changes.
func (s *HistoryService) Report(ctx context.Context, f models.DateFilter) (models.HistoryReport, error) {
	merged, err := s.readingRepo.ListJoined(ctx, f)
	if err != nil {
		return models.HistoryReport{}, err
	}
	preds, err := s.predRepo.ListByDate(ctx, f)
	if err != nil {
		return models.HistoryReport{}, err
	}
	modes, err := s.modeRepo.List(ctx, modeHistoryCap)
	if err != nil {
		return models.HistoryReport{}, err
	}
	return models.HistoryReport{
		TemperatureData: merged,
		Predictions:     preds,
		ModeHistory:     modes,
	}, nil
}

// Comparison builds the two flat series for plotting ML output against real
// samples. No join is performed; callers align the series by timestamp.
func (s *HistoryService) Comparison(ctx context.Context, f models.DateFilter) (models.ComparisonReport, error) {
	readings, err := s.readingRepo.ListByDate(ctx, f)
	if err != nil {
		return models.ComparisonReport{}, err
	}
	preds, err := s.predRepo.ListByDate(ctx, f)
	if err != nil {
		return models.ComparisonReport{}, err
	}

	report := models.ComparisonReport{
		RealTemperatures:      make([]models.ComparisonPoint, 0, len(readings)),
		PredictedTemperatures: make([]models.ComparisonPoint, 0, len(preds)),
	}
	for _, rd := range readings {
		report.RealTemperatures = append(report.RealTemperatures, models.ComparisonPoint{
			Timestamp:   rd.Timestamp.Format(time.RFC3339),
			Temperature: rd.IndoorTemp,
			Hour:        rd.Hour,
			Type:        "real",
		})
	}
	for _, p := range preds {
		report.PredictedTemperatures = append(report.PredictedTemperatures, models.ComparisonPoint{
			Timestamp:   p.Bucket.Format("2006-01-02 15:04:05"),
			Temperature: p.PredictedTemp,
			Hour:        p.Hour,
			Type:        "predicted",
		})
	}
	return report, nil
}
