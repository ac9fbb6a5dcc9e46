package binding

import (
	"context"
	"fmt"

	"github.com/icarusnp1/iot-tubes/internal/config"
	"github.com/icarusnp1/iot-tubes/internal/mqtt"

	"go.uber.org/zap"
)

// ControlPublisher delivers one retained control message to the device
// channel. Implementations must publish with QoS 1 and retain=true: the
// device firmware relies on retained delivery to learn the current binding
// on (re)connect without the backend re-publishing.
type ControlPublisher interface {
	PublishRetained(ctx context.Context, topic string, payload []byte) error
}

// BrokerPublisher dials the broker, publishes exactly one retained message
// and disconnects. Connections are deliberately not pooled or kept alive:
// a scoped acquire/publish/release per control message trades connection
// setup latency for the guarantee that no stale session identity leaks
// across requests.
type BrokerPublisher struct {
	cfg    *config.MQTTConfig
	logger *zap.Logger
}

func NewBrokerPublisher(cfg *config.MQTTConfig, logger *zap.Logger) *BrokerPublisher {
	return &BrokerPublisher{
		cfg:    cfg,
		logger: logger,
	}
}

// PublishRetained publishes the payload with QoS 1, retained. Dial and ack
// waits are bounded by the configured MQTT timeouts, independent of the
// caller's request deadline.
func (p *BrokerPublisher) PublishRetained(ctx context.Context, topic string, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("control publish cancelled: %w", err)
	}

	client, err := mqtt.NewClient(p.cfg, p.logger)
	if err != nil {
		return fmt.Errorf("failed to reach control broker: %w", err)
	}
	defer client.Disconnect()

	if err := client.Publish(topic, 1, true, payload); err != nil {
		return fmt.Errorf("failed to publish control message: %w", err)
	}

	return nil
}
