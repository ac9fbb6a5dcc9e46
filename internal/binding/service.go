// Package binding owns the single source of truth of which user a physical
// device is currently serving. Login binds, logout unbinds, and the device
// learns about either through a retained QoS 1 control message on its
// session topic. Last writer wins: the broker keeps only the final retained
// value, and the service serializes writers per device so publish order
// matches call order.
package binding

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/icarusnp1/iot-tubes/internal/session"

	"go.uber.org/zap"
)

// UnboundPayload is the sentinel published on logout. A freshly connecting
// device that sees it defaults to unbound instead of inheriting a stale
// user. The bare decimal payload format is fixed by the device firmware.
const UnboundPayload = "0"

// ErrInvalidUser rejects login requests without a usable user identifier
// before any store or broker access happens.
var ErrInvalidUser = errors.New("invalid user id")

// Topic returns the control topic for a device.
func Topic(deviceID string) string {
	return deviceID + "/session"
}

// deviceState is the binding state machine for one device. userID == 0
// means unbound. The mutex serializes login/logout for this device only;
// bindings for different devices are fully independent.
type deviceState struct {
	mu     sync.Mutex
	userID int64
	epoch  uint64
}

// Result is the outcome of a login or logout as seen by the web tier.
// Warning carries a non-fatal transport failure: the web session changed,
// the device may not have heard about it yet.
type Result struct {
	UserID  int64  `json:"user_id,omitempty"`
	Warning string `json:"warning,omitempty"`
}

// Service implements the device/session binding protocol.
type Service struct {
	mu      sync.Mutex
	devices map[string]*deviceState

	publisher  ControlPublisher
	sessions   session.Store
	sessionTTL time.Duration
	logger     *zap.Logger
}

func NewService(publisher ControlPublisher, sessions session.Store, sessionTTL time.Duration, logger *zap.Logger) *Service {
	return &Service{
		devices:    make(map[string]*deviceState),
		publisher:  publisher,
		sessions:   sessions,
		sessionTTL: sessionTTL,
		logger:     logger,
	}
}

func (s *Service) device(deviceID string) *deviceState {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.devices[deviceID]
	if !ok {
		d = &deviceState{}
		s.devices[deviceID] = d
	}
	return d
}

// Login binds the device to userID. A new login always supersedes any
// existing binding; the physical device can only serve one wearer. The web
// session is established first and stays established even if the control
// publish fails - a broker outage must never lock users out of the
// dashboard. Transport failures come back as a warning, not an error.
func (s *Service) Login(ctx context.Context, deviceID string, userID int64) (*Result, error) {
	if userID <= 0 {
		return nil, ErrInvalidUser
	}

	d := s.device(deviceID)
	d.mu.Lock()
	defer d.mu.Unlock()

	d.userID = userID
	d.epoch++
	epoch := d.epoch

	if err := s.sessions.Set(ctx, deviceID, userID, s.sessionTTL); err != nil {
		return nil, err
	}

	res := &Result{UserID: userID}
	payload := strconv.FormatInt(userID, 10)
	if err := s.publisher.PublishRetained(ctx, Topic(deviceID), []byte(payload)); err != nil {
		s.logger.Warn("Failed to publish session binding to device",
			zap.String("device_id", deviceID),
			zap.Int64("user_id", userID),
			zap.Uint64("epoch", epoch),
			zap.Error(err),
		)
		res.Warning = "device was not notified of the login: " + err.Error()
		return res, nil
	}

	s.logger.Info("Device bound to user",
		zap.String("device_id", deviceID),
		zap.Int64("user_id", userID),
		zap.Uint64("epoch", epoch),
	)
	return res, nil
}

// Logout unbinds the device and publishes the unbound sentinel. It is
// idempotent: a logout with no prior login still republishes the sentinel,
// which is safe because retained delivery is last-value-wins at the broker.
func (s *Service) Logout(ctx context.Context, deviceID string) (*Result, error) {
	d := s.device(deviceID)
	d.mu.Lock()
	defer d.mu.Unlock()

	d.userID = 0
	d.epoch++
	epoch := d.epoch

	if err := s.sessions.Clear(ctx, deviceID); err != nil && !errors.Is(err, session.ErrNoSession) {
		return nil, err
	}

	res := &Result{}
	if err := s.publisher.PublishRetained(ctx, Topic(deviceID), []byte(UnboundPayload)); err != nil {
		s.logger.Warn("Failed to publish session release to device",
			zap.String("device_id", deviceID),
			zap.Uint64("epoch", epoch),
			zap.Error(err),
		)
		res.Warning = "device was not notified of the logout: " + err.Error()
		return res, nil
	}

	s.logger.Info("Device unbound",
		zap.String("device_id", deviceID),
		zap.Uint64("epoch", epoch),
	)
	return res, nil
}

// Binding reports the in-memory binding state for a device. The broker's
// retained message remains the durable copy; this exists for handlers and
// tests that want to observe the state machine directly.
func (s *Service) Binding(deviceID string) (userID int64, epoch uint64, bound bool) {
	d := s.device(deviceID)
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.userID, d.epoch, d.userID != 0
}
