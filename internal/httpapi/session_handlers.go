package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/icarusnp1/iot-tubes/internal/binding"

	"go.uber.org/zap"
)

// SessionBinder is the slice of the binding service the session endpoints
// need.
type SessionBinder interface {
	Login(ctx context.Context, deviceID string, userID int64) (*binding.Result, error)
	Logout(ctx context.Context, deviceID string) (*binding.Result, error)
}

// SessionHandler serves login/logout for the dashboard. Requests may name a
// device; most deployments have exactly one, so the configured default is
// used when they don't.
type SessionHandler struct {
	binder        SessionBinder
	defaultDevice string
	logger        *zap.Logger
}

func NewSessionHandler(binder SessionBinder, defaultDevice string, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		binder:        binder,
		defaultDevice: defaultDevice,
		logger:        logger,
	}
}

type loginRequest struct {
	UserID   int64  `json:"user_id"`
	DeviceID string `json:"device_id"`
}

type logoutRequest struct {
	DeviceID string `json:"device_id"`
}

func (h *SessionHandler) deviceID(requested string) string {
	if requested != "" {
		return requested
	}
	return h.defaultDevice
}

// Login POST /api/v1/session/login
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := readBodyJSON(r, 1<<16, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
		return
	}

	res, err := h.binder.Login(r.Context(), h.deviceID(req.DeviceID), req.UserID)
	if err != nil {
		if errors.Is(err, binding.ErrInvalidUser) {
			writeJSON(w, http.StatusBadRequest, Fail("user_id is required"))
			return
		}
		h.logger.Error("Login failed", zap.Int64("user_id", req.UserID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("login failed"))
		return
	}

	if res.Warning != "" {
		writeJSON(w, http.StatusOK, OkWarning(res, res.Warning))
		return
	}
	writeJSON(w, http.StatusOK, Ok(res))
}

// Logout POST /api/v1/session/logout
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req logoutRequest
	if err := readBodyJSON(r, 1<<16, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
		return
	}

	res, err := h.binder.Logout(r.Context(), h.deviceID(req.DeviceID))
	if err != nil {
		h.logger.Error("Logout failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("logout failed"))
		return
	}

	if res.Warning != "" {
		writeJSON(w, http.StatusOK, OkWarning(res, res.Warning))
		return
	}
	writeJSON(w, http.StatusOK, Ok(res))
}
