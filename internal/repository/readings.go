package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/icarusnp1/iot-tubes/internal/chart"
	"github.com/icarusnp1/iot-tubes/internal/models"
	"github.com/icarusnp1/iot-tubes/internal/vitals"

	"go.uber.org/zap"
)

// ReadingsRepository reads and appends sensor_readings rows. The table is
// append-only; nothing here ever updates or deletes.
type ReadingsRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewReadingsRepository(db *sql.DB, logger *zap.Logger) *ReadingsRepository {
	return &ReadingsRepository{
		db:     db,
		logger: logger,
	}
}

const readingColumns = `id, user_id, recorded_at, bpm, spo2, temperature, humidity, steps, speed, activity`

// Insert appends one reading and returns its id.
func (r *ReadingsRepository) Insert(ctx context.Context, reading *models.Reading) (int64, error) {
	query := `
		INSERT INTO sensor_readings (
			user_id, recorded_at, bpm, spo2, temperature, humidity, steps, speed, activity
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		reading.UserID,
		reading.RecordedAt,
		reading.BPM,
		reading.SpO2,
		reading.Temperature,
		reading.Humidity,
		reading.Steps,
		reading.Speed,
		reading.Activity,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert reading: %w", err)
	}

	return id, nil
}

// Latest returns the newest reading for a user, or (nil, nil) when the user
// has no readings yet. Absence is not an error.
func (r *ReadingsRepository) Latest(ctx context.Context, userID int64) (*models.Reading, error) {
	query := `
		SELECT ` + readingColumns + `
		FROM sensor_readings
		WHERE user_id = $1
		ORDER BY recorded_at DESC
		LIMIT 1
	`

	reading, err := scanReading(r.db.QueryRowContext(ctx, query, userID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest reading: %w", err)
	}
	return reading, nil
}

// History returns all readings for a user, newest first. An empty history
// is a valid empty slice.
func (r *ReadingsRepository) History(ctx context.Context, userID int64) ([]models.Reading, error) {
	query := `
		SELECT ` + readingColumns + `
		FROM sensor_readings
		WHERE user_id = $1
		ORDER BY recorded_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reading history: %w", err)
	}
	defer rows.Close()

	readings := make([]models.Reading, 0)
	for rows.Next() {
		reading, err := scanReading(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reading: %w", err)
		}
		readings = append(readings, *reading)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate readings: %w", err)
	}

	return readings, nil
}

// Series returns raw (recorded_at, value) samples for one metric inside the
// window [from, now], ascending. The metric column comes from the closed
// vitals.Metric set, never from request input.
func (r *ReadingsRepository) Series(ctx context.Context, userID int64, metric vitals.Metric, from time.Time) ([]chart.Sample, error) {
	query := fmt.Sprintf(`
		SELECT recorded_at, %s
		FROM sensor_readings
		WHERE user_id = $1
		AND recorded_at >= $2
		ORDER BY recorded_at ASC
	`, metricColumn(metric))

	rows, err := r.db.QueryContext(ctx, query, userID, from)
	if err != nil {
		return nil, fmt.Errorf("failed to query reading series: %w", err)
	}
	defer rows.Close()

	samples := make([]chart.Sample, 0)
	for rows.Next() {
		var s chart.Sample
		if err := rows.Scan(&s.RecordedAt, &s.Value); err != nil {
			return nil, fmt.Errorf("failed to scan series sample: %w", err)
		}
		samples = append(samples, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate series samples: %w", err)
	}

	return samples, nil
}

func metricColumn(metric vitals.Metric) string {
	switch metric {
	case vitals.MetricSpO2:
		return "spo2"
	case vitals.MetricTemperature:
		return "temperature"
	case vitals.MetricHumidity:
		return "humidity"
	default:
		return "bpm"
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReading(row rowScanner) (*models.Reading, error) {
	var reading models.Reading
	err := row.Scan(
		&reading.ID,
		&reading.UserID,
		&reading.RecordedAt,
		&reading.BPM,
		&reading.SpO2,
		&reading.Temperature,
		&reading.Humidity,
		&reading.Steps,
		&reading.Speed,
		&reading.Activity,
	)
	if err != nil {
		return nil, err
	}
	return &reading, nil
}
