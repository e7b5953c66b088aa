package handlers

import (
	"context"
	"net/http"

	"smart_temperature/internal/models"
	"smart_temperature/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	loginToken string
	loginErr   error
	changeErr  error
	parseErr   error
	initErr    error

	lastLoginPassword string
	lastOldPassword   string
	lastNewPassword   string
	lastParseToken    string
}

func (m *mockAuth) InitDefaultUser(ctx context.Context) error { return m.initErr }
func (m *mockAuth) Login(ctx context.Context, password string) (string, error) {
	m.lastLoginPassword = password
	return m.loginToken, m.loginErr
}
func (m *mockAuth) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	m.lastOldPassword = oldPassword
	m.lastNewPassword = newPassword
	return m.changeErr
}
func (m *mockAuth) ParseToken(accessToken string) error {
	m.lastParseToken = accessToken
	return m.parseErr
}

type mockTemperature struct {
	prediction    models.Prediction
	predictionErr error
	reading       models.SensorReading
	readingErr    error
	predictions   []models.Prediction
	readings      []models.SensorReading
	listErr       error
	readingPoints []models.ReadingPoint
	predPoints    []models.PredictionPoint
	rangeErr      error
	comfort       *float64
	comfortErr    error
	controlsErr   error

	lastPredictionInput service.PredictionInput
	lastReadingInput    service.ReadingInput
	lastComfortValue    float64
	lastControls        service.ManualControls
}

func (m *mockTemperature) CreatePrediction(ctx context.Context, in service.PredictionInput) (models.Prediction, error) {
	m.lastPredictionInput = in
	return m.prediction, m.predictionErr
}
func (m *mockTemperature) CreateReading(ctx context.Context, in service.ReadingInput) (models.SensorReading, error) {
	m.lastReadingInput = in
	return m.reading, m.readingErr
}
func (m *mockTemperature) LatestPrediction(ctx context.Context) (models.Prediction, error) {
	return m.prediction, m.predictionErr
}
func (m *mockTemperature) LatestReading(ctx context.Context) (models.SensorReading, error) {
	return m.reading, m.readingErr
}
func (m *mockTemperature) ListPredictions(ctx context.Context, limit int) ([]models.Prediction, error) {
	return m.predictions, m.listErr
}
func (m *mockTemperature) ListReadings(ctx context.Context, limit int) ([]models.SensorReading, error) {
	return m.readings, m.listErr
}
func (m *mockTemperature) ReadingsLast24h(ctx context.Context) ([]models.ReadingPoint, error) {
	return m.readingPoints, m.rangeErr
}
func (m *mockTemperature) PredictionsNext24h(ctx context.Context) ([]models.PredictionPoint, error) {
	return m.predPoints, m.rangeErr
}
func (m *mockTemperature) SetComfortTemperature(ctx context.Context, value float64) (models.Prediction, error) {
	m.lastComfortValue = value
	return m.prediction, m.comfortErr
}
func (m *mockTemperature) ComfortTemperature(ctx context.Context) (*float64, error) {
	return m.comfort, m.comfortErr
}
func (m *mockTemperature) SetManualControls(ctx context.Context, p service.ManualControls) error {
	m.lastControls = p
	return m.controlsErr
}

type mockDashboard struct {
	payload models.Dashboard
	calls   int
}

func (m *mockDashboard) Compute(ctx context.Context) models.Dashboard {
	m.calls++
	return m.payload
}

type mockHistory struct {
	event      models.ModeEvent
	setErr     error
	mode       int
	modeErr    error
	events     []models.ModeEvent
	listErr    error
	report     models.HistoryReport
	reportErr  error
	compare    models.ComparisonReport
	compareErr error

	lastSetMode int
	lastFilter  models.DateFilter
}

func (m *mockHistory) SetMode(ctx context.Context, mode int) (models.ModeEvent, error) {
	m.lastSetMode = mode
	return m.event, m.setErr
}
func (m *mockHistory) CurrentMode(ctx context.Context) (int, error) {
	return m.mode, m.modeErr
}
func (m *mockHistory) ModeHistory(ctx context.Context, limit int) ([]models.ModeEvent, error) {
	return m.events, m.listErr
}
func (m *mockHistory) Report(ctx context.Context, f models.DateFilter) (models.HistoryReport, error) {
	m.lastFilter = f
	return m.report, m.reportErr
}
func (m *mockHistory) Comparison(ctx context.Context, f models.DateFilter) (models.ComparisonReport, error) {
	m.lastFilter = f
	return m.compare, m.compareErr
}

type mockIngest struct{}

func (m *mockIngest) Run(ctx context.Context) {}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
