// Package server exposes the order engine as a JSON HTTP API.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/levant12/shawarma-club/internal/auth"
	"github.com/levant12/shawarma-club/internal/catalog"
	"github.com/levant12/shawarma-club/internal/middleware"
	"github.com/levant12/shawarma-club/internal/models"
	"github.com/levant12/shawarma-club/internal/orderform"
	"github.com/levant12/shawarma-club/internal/service"
	"github.com/levant12/shawarma-club/internal/storage"
)

// Server wires the services, catalog and identity manager behind HTTP
// handlers.
type Server struct {
	groups      *service.GroupService
	orders      *service.OrderService
	catalog     *catalog.Catalog
	auth        *auth.Manager
	deliveryFee float64
	devTokens   bool
}

// Config carries the server's collaborators and settings.
type Config struct {
	Store       storage.Store
	Catalog     *catalog.Catalog
	Auth        *auth.Manager
	DeliveryFee float64

	// DevTokens enables the /api/dev/token endpoint so the API can be
	// exercised without the external identity provider. Never enable in
	// production.
	DevTokens bool
}

// New creates a Server from cfg.
func New(cfg Config) *Server {
	return &Server{
		groups:      service.NewGroupService(cfg.Store),
		orders:      service.NewOrderService(cfg.Store),
		catalog:     cfg.Catalog,
		auth:        cfg.Auth,
		deliveryFee: cfg.DeliveryFee,
		devTokens:   cfg.DevTokens,
	}
}

// Handler returns the complete handler chain: routes wrapped in auth,
// logging and CORS middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/groups", s.handleCreateGroup)
	mux.HandleFunc("GET /api/days/{day}/groups", s.handleListCreators)
	mux.HandleFunc("GET /api/days/{day}/groups/{creatorID}/orders", s.handleGetOrders)
	mux.HandleFunc("POST /api/days/{day}/groups/{creatorID}/orders", s.handleSubmitOrder)
	mux.HandleFunc("POST /api/days/{day}/groups/{creatorID}/leave", s.handleLeaveGroup)
	mux.HandleFunc("GET /api/days/{day}/groups/{creatorID}/watch", s.handleWatchGroup)
	mux.HandleFunc("GET /api/catalog", s.handleCatalog)
	mux.Handle("GET /metrics", promhttp.Handler())

	if s.devTokens {
		mux.HandleFunc("POST /api/dev/token", s.handleDevToken)
	}

	return middleware.Auth(s.auth)(middleware.Logging(middleware.CORS(mux)))
}

// dayParam validates the {day} path segment as a canonical day key.
func dayParam(r *http.Request) (string, error) {
	day := r.PathValue("day")
	if _, err := models.ParseDayKey(day); err != nil {
		return "", err
	}
	return day, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

type errorResponse struct {
	Error   string   `json:"error"`
	Code    string   `json:"code"`
	Reasons []string `json:"reasons,omitempty"`
}

// writeError maps the engine's error taxonomy onto HTTP statuses, keeping
// recoverable outcomes (duplicate group, validation) distinguishable from
// transport failures.
func writeError(w http.ResponseWriter, err error) {
	var ve *orderform.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:   ve.Error(),
			Code:    "validation_failed",
			Reasons: ve.Reasons,
		})
	case errors.Is(err, service.ErrDuplicateGroup):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error(), Code: "duplicate_group"})
	case errors.Is(err, service.ErrInvalidOrder):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Code: "invalid_order"})
	case errors.Is(err, storage.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error(), Code: "not_found"})
	case errors.Is(err, storage.ErrUnavailable):
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error(), Code: "storage_unavailable"})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error(), Code: "internal"})
	}
}

// currentUser rejects the request with 401 when no valid identity is
// attached.
func currentUser(w http.ResponseWriter, r *http.Request) (models.User, bool) {
	user, ok := middleware.CurrentUser(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{
			Error: auth.ErrMissingToken.Error(),
			Code:  "unauthenticated",
		})
	}
	return user, ok
}
