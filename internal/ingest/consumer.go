// Package ingest consumes raw device telemetry from MQTT and appends it to
// the reading store. It is the only writer of sensor_readings; the web
// backend never depends on it.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/icarusnp1/iot-tubes/internal/config"
	"github.com/icarusnp1/iot-tubes/internal/models"
	"github.com/icarusnp1/iot-tubes/internal/mqtt"

	"go.uber.org/zap"
)

// ReadingWriter appends readings to the store.
type ReadingWriter interface {
	Insert(ctx context.Context, reading *models.Reading) (int64, error)
}

// Consumer subscribes to the raw telemetry topic and persists each sample.
type Consumer struct {
	cfg      *config.Config
	client   *mqtt.Client
	readings ReadingWriter
	logger   *zap.Logger

	now func() time.Time
}

func NewConsumer(cfg *config.Config, client *mqtt.Client, readings ReadingWriter, logger *zap.Logger) *Consumer {
	return &Consumer{
		cfg:      cfg,
		client:   client,
		readings: readings,
		logger:   logger,
		now:      time.Now,
	}
}

// Start subscribes and blocks until the context is cancelled.
func (c *Consumer) Start(ctx context.Context) error {
	topic := c.cfg.Device.RawTopic
	if topic == "" {
		return fmt.Errorf("raw telemetry topic not configured")
	}

	if err := c.client.Subscribe(topic, c.cfg.MQTT.QoS, c.handleMessage); err != nil {
		return fmt.Errorf("failed to subscribe to telemetry topic: %w", err)
	}

	c.logger.Info("Telemetry consumer started", zap.String("topic", topic))

	<-ctx.Done()
	return nil
}

// Stop unsubscribes from the telemetry topic.
func (c *Consumer) Stop(ctx context.Context) error {
	if topic := c.cfg.Device.RawTopic; topic != "" {
		if err := c.client.Unsubscribe(topic); err != nil {
			c.logger.Error("Failed to unsubscribe", zap.Error(err))
		}
	}
	c.logger.Info("Telemetry consumer stopped")
	return nil
}

func (c *Consumer) handleMessage(topic string, payload []byte) error {
	var msg models.RawTelemetry
	if err := json.Unmarshal(payload, &msg); err != nil {
		return fmt.Errorf("failed to unmarshal telemetry message: %w", err)
	}

	// Samples that arrive while no user is bound carry no user_id; the
	// original backend drops them too.
	if msg.UserID <= 0 {
		c.logger.Warn("Dropping telemetry without user_id", zap.String("topic", topic))
		return nil
	}

	reading := &models.Reading{
		UserID:      msg.UserID,
		RecordedAt:  c.now().UTC(),
		BPM:         msg.BPM,
		SpO2:        msg.SpO2,
		Temperature: msg.TempC,
		Humidity:    msg.Humidity,
		Steps:       msg.Steps,
		Speed:       msg.SpeedMps,
		Activity:    msg.Activity,
	}

	id, err := c.readings.Insert(context.Background(), reading)
	if err != nil {
		return fmt.Errorf("failed to store reading: %w", err)
	}

	c.logger.Debug("Stored reading",
		zap.Int64("id", id),
		zap.Int64("user_id", msg.UserID),
		zap.Float64("bpm", msg.BPM),
		zap.Float64("spo2", msg.SpO2),
	)
	return nil
}
