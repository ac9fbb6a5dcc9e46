package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/icarusnp1/iot-tubes/internal/chart"
	"github.com/icarusnp1/iot-tubes/internal/models"
	"github.com/icarusnp1/iot-tubes/internal/vitals"

	"go.uber.org/zap"
)

// ReadingStore is the slice of the readings repository the dashboard
// endpoints need.
type ReadingStore interface {
	Latest(ctx context.Context, userID int64) (*models.Reading, error)
	History(ctx context.Context, userID int64) ([]models.Reading, error)
	Series(ctx context.Context, userID int64, metric vitals.Metric, from time.Time) ([]chart.Sample, error)
}

// SensorHandler serves the dashboard polling endpoints. Missing data is an
// empty result, never an error; a store failure is a real error so the UI
// can tell "no abnormal readings" apart from "store down".
type SensorHandler struct {
	store  ReadingStore
	logger *zap.Logger

	// now is swappable for tests; the chart window is relative to it.
	now func() time.Time
}

func NewSensorHandler(store ReadingStore, logger *zap.Logger) *SensorHandler {
	return &SensorHandler{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// LatestResult is the newest reading plus its per-metric status, or a null
// reading when the user has no data yet.
type LatestResult struct {
	Reading *models.Reading                  `json:"reading"`
	Status  map[string]vitals.Classification `json:"status,omitempty"`
}

// GetLatest GET /api/v1/sensors/latest?user_id=
func (h *SensorHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
	userID := parseUserID(r.URL.Query().Get("user_id"))
	if userID == 0 {
		writeJSON(w, http.StatusBadRequest, Fail("user_id is required"))
		return
	}

	reading, err := h.store.Latest(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to load latest reading", zap.Int64("user_id", userID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("failed to load latest reading"))
		return
	}

	res := LatestResult{Reading: reading}
	if reading != nil {
		res.Status = vitals.ClassifyReading(reading.BPM, reading.SpO2, reading.Temperature, reading.Humidity)
	}
	writeJSON(w, http.StatusOK, Ok(res))
}

// GetHistory GET /api/v1/sensors/history?user_id=
func (h *SensorHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	userID := parseUserID(r.URL.Query().Get("user_id"))
	if userID == 0 {
		writeJSON(w, http.StatusBadRequest, Fail("user_id is required"))
		return
	}

	readings, err := h.store.History(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to load reading history", zap.Int64("user_id", userID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("failed to load reading history"))
		return
	}

	writeJSON(w, http.StatusOK, Ok(readings))
}

// GetChart GET /api/v1/sensors/chart?user_id=&type=&range=
// Unknown type falls back to bpm and unknown range to hourly; both are
// documented defaults, not client errors.
func (h *SensorHandler) GetChart(w http.ResponseWriter, r *http.Request) {
	userID := parseUserID(r.URL.Query().Get("user_id"))
	if userID == 0 {
		writeJSON(w, http.StatusBadRequest, Fail("user_id is required"))
		return
	}

	metric := vitals.ParseMetric(r.URL.Query().Get("type"))
	rng := chart.ParseRange(r.URL.Query().Get("range"))

	samples, err := h.store.Series(r.Context(), userID, metric, rng.Window(h.now()))
	if err != nil {
		h.logger.Error("Failed to load chart series",
			zap.Int64("user_id", userID),
			zap.String("metric", metric.String()),
			zap.String("range", string(rng)),
			zap.Error(err),
		)
		writeJSON(w, http.StatusInternalServerError, Fail("failed to load chart series"))
		return
	}

	writeJSON(w, http.StatusOK, Ok(chart.BuildSeries(rng, samples)))
}
