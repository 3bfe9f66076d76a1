package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/levant12/shawarma-club/internal/aggregate"
	"github.com/levant12/shawarma-club/internal/models"
	"github.com/levant12/shawarma-club/internal/orderform"
)

// handleCreateGroup opens today's group for the authenticated user.
func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	day := models.Today()
	if err := s.groups.LocateOrCreateGroup(r.Context(), day, user.UID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"day":       day,
		"creatorId": user.UID,
	})
}

// handleListCreators lists the creator ids with a group on the given day.
func (s *Server) handleListCreators(w http.ResponseWriter, r *http.Request) {
	day, err := dayParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Code: "invalid_day"})
		return
	}

	creators, err := s.groups.Creators(r.Context(), day)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"day":      day,
		"creators": creators,
	})
}

type ordersResponse struct {
	Day           string                 `json:"day"`
	CreatorID     string                 `json:"creatorId"`
	Orders        []models.Order         `json:"orders"`
	GroupedOrders []models.GroupedOrders `json:"groupedOrders"`
	Count         int                    `json:"count"`
	DeliveryFee   float64                `json:"deliveryFee"`
	TotalPrice    float64                `json:"totalPrice"`
}

// handleGetOrders returns a group's raw orders together with the derived
// buckets and the group total.
func (s *Server) handleGetOrders(w http.ResponseWriter, r *http.Request) {
	day, err := dayParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Code: "invalid_day"})
		return
	}
	creatorID := r.PathValue("creatorID")

	orders, err := s.groups.GroupOrders(r.Context(), day, creatorID)
	if err != nil {
		writeError(w, err)
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}

	grouped := aggregate.GroupOrders(orders)
	if grouped == nil {
		grouped = []models.GroupedOrders{}
	}

	writeJSON(w, http.StatusOK, ordersResponse{
		Day:           day,
		CreatorID:     creatorID,
		Orders:        orders,
		GroupedOrders: grouped,
		Count:         len(orders),
		DeliveryFee:   s.deliveryFee,
		TotalPrice:    aggregate.TotalPrice(orders, s.deliveryFee),
	})
}

type submitRequest struct {
	Size           string   `json:"size"`
	WithEverything bool     `json:"withEverything"`
	Restrictions   []string `json:"restrictions"`
	Adjustments    []string `json:"adjustments"`
}

// handleSubmitOrder runs the request through the order form and appends the
// resulting order to the group. Selections apply in edit order, so the
// form's exclusion rules fire the same way they do in the UI.
func (s *Server) handleSubmitOrder(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	day, err := dayParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Code: "invalid_day"})
		return
	}
	creatorID := r.PathValue("creatorID")

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body", Code: "bad_request"})
		return
	}

	form := orderform.New(s.catalog)
	if req.Size != "" {
		if err := form.SetSize(req.Size); err != nil {
			writeError(w, &orderform.ValidationError{Reasons: []string{err.Error()}})
			return
		}
	}
	form.SetWithEverything(req.WithEverything)
	if err := form.SetRestrictions(req.Restrictions); err != nil {
		writeError(w, &orderform.ValidationError{Reasons: []string{err.Error()}})
		return
	}
	for _, label := range req.Adjustments {
		if err := form.PickAdjustment(label); err != nil {
			writeError(w, &orderform.ValidationError{Reasons: []string{err.Error()}})
			return
		}
	}

	order, err := form.Order(user)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.orders.Submit(r.Context(), day, creatorID, order); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"day":       day,
		"creatorId": creatorID,
		"order":     order,
	})
}

// handleLeaveGroup removes all of the authenticated user's orders from the
// group.
func (s *Server) handleLeaveGroup(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	day, err := dayParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Code: "invalid_day"})
		return
	}
	creatorID := r.PathValue("creatorID")

	if err := s.groups.LeaveGroup(r.Context(), day, creatorID, user.DisplayName); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"day":       day,
		"creatorId": creatorID,
	})
}

// handleWatchGroup streams the group's order list as server-sent events, one
// event per change to the day document, until the client disconnects.
func (s *Server) handleWatchGroup(w http.ResponseWriter, r *http.Request) {
	day, err := dayParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Code: "invalid_day"})
		return
	}
	creatorID := r.PathValue("creatorID")

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "streaming unsupported", Code: "internal"})
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	updates := make(chan []models.Order, 1)
	done := make(chan struct{})
	cancel := s.groups.WatchGroup(day, creatorID, func(orders []models.Order) {
		select {
		case updates <- orders:
		case <-done:
		}
	})
	defer func() {
		cancel()
		close(done)
	}()

	// Initial snapshot so a client does not wait for the next change.
	if orders, err := s.groups.GroupOrders(r.Context(), day, creatorID); err == nil && orders != nil {
		writeEvent(w, flusher, orders)
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case orders := <-updates:
			writeEvent(w, flusher, orders)
		}
	}
}

func writeEvent(w http.ResponseWriter, flusher http.Flusher, orders []models.Order) {
	payload, err := json.Marshal(orders)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "data: %s\n\n", payload)
	flusher.Flush()
}

// handleCatalog returns the product lookup tables.
func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog)
}

type devTokenRequest struct {
	UID         string `json:"uid"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoURL"`
}

// handleDevToken issues a signed token for an arbitrary identity. Dev-mode
// only; stands in for the external identity provider.
func (s *Server) handleDevToken(w http.ResponseWriter, r *http.Request) {
	var req devTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body", Code: "bad_request"})
		return
	}
	if req.DisplayName == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "displayName is required", Code: "bad_request"})
		return
	}
	if req.UID == "" {
		req.UID = uuid.NewString()
	}

	user := models.User{UID: req.UID, DisplayName: req.DisplayName, PhotoURL: req.PhotoURL}
	token, err := s.auth.Generate(user)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  user,
	})
}
