package mqtt

import (
	"fmt"

	"github.com/icarusnp1/iot-tubes/internal/config"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MessageHandler handles one inbound message.
type MessageHandler func(topic string, payload []byte) error

// Client wraps the paho client with the broker settings from config.
type Client struct {
	client mqtt.Client
	config *config.MQTTConfig
	logger *zap.Logger
}

// NewClient connects to the broker. The configured client id gets a random
// suffix so per-request connections never collide on the broker side.
func NewClient(cfg *config.MQTTConfig, logger *zap.Logger) (*Client, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(fmt.Sprintf("%s-%s", cfg.ClientID, uuid.NewString()[:8]))

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}

	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)
	if cfg.ConnectTimeout > 0 {
		opts.SetConnectTimeout(cfg.ConnectTimeout)
	}

	client := mqtt.NewClient(opts)

	token := client.Connect()
	if cfg.ConnectTimeout > 0 {
		if !token.WaitTimeout(cfg.ConnectTimeout) {
			client.Disconnect(0)
			return nil, fmt.Errorf("timed out connecting to MQTT broker %s", cfg.Broker)
		}
	} else {
		token.Wait()
	}
	if token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	return &Client{
		client: client,
		config: cfg,
		logger: logger,
	}, nil
}

// Subscribe registers a handler for a topic. Handler errors are logged,
// not propagated, so one bad message never stops the subscription.
func (c *Client) Subscribe(topic string, qos byte, handler MessageHandler) error {
	token := c.client.Subscribe(topic, qos, func(_ mqtt.Client, msg mqtt.Message) {
		if err := handler(msg.Topic(), msg.Payload()); err != nil {
			c.logger.Error("Error handling MQTT message",
				zap.String("topic", msg.Topic()),
				zap.Error(err),
			)
		}
	})
	if token.Wait(); token.Error() != nil {
		return fmt.Errorf("failed to subscribe to topic %s: %w", topic, token.Error())
	}
	return nil
}

// Publish publishes one message and waits for the broker ack, bounded by
// the configured publish timeout.
func (c *Client) Publish(topic string, qos byte, retained bool, payload []byte) error {
	token := c.client.Publish(topic, qos, retained, payload)
	if c.config.PublishTimeout > 0 {
		if !token.WaitTimeout(c.config.PublishTimeout) {
			return fmt.Errorf("timed out publishing to topic %s", topic)
		}
	} else {
		token.Wait()
	}
	if token.Error() != nil {
		return fmt.Errorf("failed to publish to topic %s: %w", topic, token.Error())
	}
	return nil
}

// Unsubscribe removes subscriptions for the given topics.
func (c *Client) Unsubscribe(topics ...string) error {
	token := c.client.Unsubscribe(topics...)
	if token.Wait(); token.Error() != nil {
		return fmt.Errorf("failed to unsubscribe: %w", token.Error())
	}
	return nil
}

// Disconnect closes the broker connection.
func (c *Client) Disconnect() {
	c.client.Disconnect(250)
}

// IsConnected reports the connection state.
func (c *Client) IsConnected() bool {
	return c.client.IsConnected()
}
