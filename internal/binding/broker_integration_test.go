package binding

import (
	"context"
	"fmt"
	"testing"
	"time"

	mochi "github.com/mochi-mqtt/server/v2"
	"github.com/mochi-mqtt/server/v2/hooks/auth"
	"github.com/mochi-mqtt/server/v2/listeners"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/icarusnp1/iot-tubes/internal/config"
	"github.com/icarusnp1/iot-tubes/internal/mqtt"
)

const brokerTestPort = 18731

func startBroker(t *testing.T) {
	t.Helper()

	server := mochi.New(nil)
	require.NoError(t, server.AddHook(new(auth.AllowHook), nil))

	tcp := listeners.NewTCP(listeners.Config{
		Type:    "tcp",
		Address: fmt.Sprintf("localhost:%d", brokerTestPort),
	})
	require.NoError(t, server.AddListener(tcp))
	require.NoError(t, server.Serve())

	t.Cleanup(func() { _ = server.Close() })
}

func brokerConfig() *config.MQTTConfig {
	return &config.MQTTConfig{
		Broker:         fmt.Sprintf("tcp://localhost:%d", brokerTestPort),
		ClientID:       "iot-tubes-test",
		QoS:            1,
		ConnectTimeout: 5 * time.Second,
		PublishTimeout: 5 * time.Second,
	}
}

// awaitRetained connects a fresh subscriber after the publish happened and
// waits for the retained control message, the same way the device firmware
// observes a binding on reconnect.
func awaitRetained(t *testing.T, topic string) string {
	t.Helper()

	sub, err := mqtt.NewClient(brokerConfig(), zap.NewNop())
	require.NoError(t, err)
	defer sub.Disconnect()

	got := make(chan string, 1)
	require.NoError(t, sub.Subscribe(topic, 1, func(_ string, payload []byte) error {
		select {
		case got <- string(payload):
		default:
		}
		return nil
	}))

	select {
	case payload := <-got:
		return payload
	case <-time.After(5 * time.Second):
		t.Fatalf("no retained message on %s", topic)
		return ""
	}
}

func TestBrokerPublisher_LateSubscriberSeesLastBinding(t *testing.T) {
	startBroker(t)

	svc := NewService(NewBrokerPublisher(brokerConfig(), zap.NewNop()), newFakeSessionStore(), time.Hour, zap.NewNop())
	ctx := context.Background()

	_, err := svc.Login(ctx, "esp32_1", 7)
	require.NoError(t, err)
	_, err = svc.Login(ctx, "esp32_1", 9)
	require.NoError(t, err)

	// exactly one value survives at the broker: the later login
	assert.Equal(t, "9", awaitRetained(t, "esp32_1/session"))
}

func TestBrokerPublisher_LogoutLeavesUnboundSentinel(t *testing.T) {
	startBroker(t)

	svc := NewService(NewBrokerPublisher(brokerConfig(), zap.NewNop()), newFakeSessionStore(), time.Hour, zap.NewNop())
	ctx := context.Background()

	res, err := svc.Login(ctx, "esp32_1", 7)
	require.NoError(t, err)
	assert.Empty(t, res.Warning)

	_, err = svc.Logout(ctx, "esp32_1")
	require.NoError(t, err)

	assert.Equal(t, UnboundPayload, awaitRetained(t, "esp32_1/session"))
}

func TestBrokerPublisher_UnreachableBrokerYieldsWarningOnly(t *testing.T) {
	// nothing listens on this port
	cfg := brokerConfig()
	cfg.Broker = "tcp://localhost:18799"
	cfg.ConnectTimeout = 500 * time.Millisecond

	sessions := newFakeSessionStore()
	svc := NewService(NewBrokerPublisher(cfg, zap.NewNop()), sessions, time.Hour, zap.NewNop())

	res, err := svc.Login(context.Background(), "esp32_1", 7)
	require.NoError(t, err)
	assert.NotEmpty(t, res.Warning)

	userID, err := sessions.Current(context.Background(), "esp32_1")
	require.NoError(t, err)
	assert.Equal(t, int64(7), userID)
}
