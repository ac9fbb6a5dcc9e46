package httpapi

import (
	"net/http"

	"go.uber.org/zap"
)

// Router wraps the standard library ServeMux; the API surface is small
// enough that a third-party router buys nothing.
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// RegisterSensorRoutes wires the dashboard query endpoints.
func (r *Router) RegisterSensorRoutes(h *SensorHandler) {
	r.Handle("/api/v1/sensors/latest", methodOnly(http.MethodGet, h.GetLatest))
	r.Handle("/api/v1/sensors/history", methodOnly(http.MethodGet, h.GetHistory))
	r.Handle("/api/v1/sensors/chart", methodOnly(http.MethodGet, h.GetChart))
}

// RegisterSessionRoutes wires the login/logout endpoints.
func (r *Router) RegisterSessionRoutes(h *SessionHandler) {
	r.Handle("/api/v1/session/login", methodOnly(http.MethodPost, h.Login))
	r.Handle("/api/v1/session/logout", methodOnly(http.MethodPost, h.Logout))
}

func methodOnly(method string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if req.Method != method {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h(w, req)
	}
}
