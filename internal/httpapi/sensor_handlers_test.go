package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/icarusnp1/iot-tubes/internal/chart"
	"github.com/icarusnp1/iot-tubes/internal/models"
	"github.com/icarusnp1/iot-tubes/internal/vitals"
)

type fakeReadingStore struct {
	latest  *models.Reading
	history []models.Reading
	samples []chart.Sample
	err     error

	seriesMetric vitals.Metric
	seriesFrom   time.Time
}

func (f *fakeReadingStore) Latest(_ context.Context, _ int64) (*models.Reading, error) {
	return f.latest, f.err
}

func (f *fakeReadingStore) History(_ context.Context, _ int64) ([]models.Reading, error) {
	return f.history, f.err
}

func (f *fakeReadingStore) Series(_ context.Context, _ int64, metric vitals.Metric, from time.Time) ([]chart.Sample, error) {
	f.seriesMetric = metric
	f.seriesFrom = from
	return f.samples, f.err
}

func newSensorHandler(store *fakeReadingStore) *SensorHandler {
	h := NewSensorHandler(store, zap.NewNop())
	h.now = func() time.Time {
		return time.Date(2025, 3, 14, 13, 0, 0, 0, time.UTC)
	}
	return h
}

func TestGetLatest_MissingUserIDIsClientError(t *testing.T) {
	h := newSensorHandler(&fakeReadingStore{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sensors/latest", nil)
	w := httptest.NewRecorder()
	h.GetLatest(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var res Result[any]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, ResultError, res.Code)
}

func TestGetLatest_NoDataIsNullNotError(t *testing.T) {
	h := newSensorHandler(&fakeReadingStore{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sensors/latest?user_id=7", nil)
	w := httptest.NewRecorder()
	h.GetLatest(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res Result[LatestResult]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, ResultSuccess, res.Code)
	assert.Nil(t, res.Result.Reading)
	assert.Empty(t, res.Result.Status)
}

func TestGetLatest_AttachesClassifications(t *testing.T) {
	h := newSensorHandler(&fakeReadingStore{
		latest: &models.Reading{
			UserID: 7, BPM: 120, SpO2: 92, Temperature: 24, Humidity: 50,
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sensors/latest?user_id=7", nil)
	w := httptest.NewRecorder()
	h.GetLatest(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res Result[LatestResult]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.NotNil(t, res.Result.Reading)
	assert.Equal(t, "tachycardia", res.Result.Status["bpm"].Category)
	assert.Equal(t, "mild_hypoxemia", res.Result.Status["spo2"].Category)
	assert.Equal(t, "normal", res.Result.Status["temperature"].Category)
}

func TestGetLatest_StoreFailureIsServerError(t *testing.T) {
	h := newSensorHandler(&fakeReadingStore{err: errors.New("store down")})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sensors/latest?user_id=7", nil)
	w := httptest.NewRecorder()
	h.GetLatest(w, req)

	// a store outage must not look like "no abnormal readings"
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetChart_UnknownRangeUsesHourlyWindow(t *testing.T) {
	store := &fakeReadingStore{}
	h := newSensorHandler(store)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sensors/chart?user_id=7&type=bpm&range=yearly", nil)
	w := httptest.NewRecorder()
	h.GetChart(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC), store.seriesFrom)
}

func TestGetChart_UnknownTypeFallsBackToBPM(t *testing.T) {
	store := &fakeReadingStore{}
	h := newSensorHandler(store)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sensors/chart?user_id=7&type=accel&range=hourly", nil)
	w := httptest.NewRecorder()
	h.GetChart(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, vitals.MetricBPM, store.seriesMetric)
}

func TestGetChart_EmptyStoreYieldsEmptySeries(t *testing.T) {
	h := newSensorHandler(&fakeReadingStore{samples: []chart.Sample{}})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sensors/chart?user_id=7", nil)
	w := httptest.NewRecorder()
	h.GetChart(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res Result[[]chart.SeriesPoint]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, ResultSuccess, res.Code)
	assert.Empty(t, res.Result)
}

func TestGetChart_LabelsSamplesPerRange(t *testing.T) {
	base := time.Date(2025, 3, 10, 9, 5, 0, 0, time.UTC)
	h := newSensorHandler(&fakeReadingStore{samples: []chart.Sample{
		{RecordedAt: base, Value: 71},
		{RecordedAt: base.AddDate(0, 0, 1), Value: 74},
	}})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sensors/chart?user_id=7&range=weekly", nil)
	w := httptest.NewRecorder()
	h.GetChart(w, req)

	var res Result[[]chart.SeriesPoint]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.Len(t, res.Result, 2)
	assert.Equal(t, "10/03", res.Result[0].Label)
	assert.Equal(t, "11/03", res.Result[1].Label)
}

func TestGetHistory_EmptyIsOk(t *testing.T) {
	h := newSensorHandler(&fakeReadingStore{history: []models.Reading{}})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sensors/history?user_id=7", nil)
	w := httptest.NewRecorder()
	h.GetHistory(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res Result[[]models.Reading]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, ResultSuccess, res.Code)
	assert.Empty(t, res.Result)
}
