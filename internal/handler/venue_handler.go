package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/bandman/internal/middleware"
	"github.com/hitoshi/bandman/internal/model"
	"github.com/hitoshi/bandman/internal/venue"
)

// VenueServiceInterface は会場ハンドラーが必要とするサービスインターフェース。
type VenueServiceInterface interface {
	// CreateVenue はバンドに会場を追加する（メンバーのみ）。
	CreateVenue(ctx context.Context, userID, bandID string, input venue.VenueInput) (*model.Venue, error)
	// ListVenues はバンドの会場一覧を返す（メンバーのみ）。
	ListVenues(ctx context.Context, userID, bandID string) ([]*model.Venue, error)
	// GetVenue は会場の詳細を返す。
	GetVenue(ctx context.Context, userID, venueID string) (*model.Venue, error)
	// UpdateVenue は会場情報を部分更新する。
	UpdateVenue(ctx context.Context, userID, venueID string, input venue.UpdateInput) (*model.Venue, error)
	// DeleteVenue は会場を削除する。
	DeleteVenue(ctx context.Context, userID, venueID string) error
}

// VenueHandler は会場管理のHTTPハンドラー。
type VenueHandler struct {
	service VenueServiceInterface
}

// NewVenueHandler はVenueHandlerを生成する。
func NewVenueHandler(service VenueServiceInterface) *VenueHandler {
	return &VenueHandler{
		service: service,
	}
}

// venueResponse は会場情報のAPIレスポンス。
type venueResponse struct {
	ID      string `json:"id"`
	BandID  string `json:"band_id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

func toVenueResponse(v *model.Venue) venueResponse {
	return venueResponse{
		ID:      v.ID,
		BandID:  v.BandID,
		Name:    v.Name,
		Address: v.Address,
		Notes:   v.Notes,
	}
}

// venueRequest は会場作成リクエストのボディ。
type venueRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

// updateVenueRequest は会場の部分更新リクエストのボディ。
// 省略されたフィールドは変更されない。
type updateVenueRequest struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
	Notes   *string `json:"notes"`
}

// CreateVenue はバンドに会場を追加する。
// POST /bands/:bandID/venues
func (h *VenueHandler) CreateVenue(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	bandID := chi.URLParam(r, "bandID")

	var req venueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	created, err := h.service.CreateVenue(r.Context(), userID, bandID, venue.VenueInput{
		Name:    req.Name,
		Address: req.Address,
		Notes:   req.Notes,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toVenueResponse(created))
}

// ListVenues はバンドの会場一覧を返す。
// GET /bands/:bandID/venues
func (h *VenueHandler) ListVenues(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	bandID := chi.URLParam(r, "bandID")

	venues, err := h.service.ListVenues(r.Context(), userID, bandID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]venueResponse, 0, len(venues))
	for _, v := range venues {
		resp = append(resp, toVenueResponse(v))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// GetVenue は会場の詳細を返す。
// GET /venues/:venueID
func (h *VenueHandler) GetVenue(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	venueID := chi.URLParam(r, "venueID")

	v, err := h.service.GetVenue(r.Context(), userID, venueID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toVenueResponse(v))
}

// UpdateVenue は会場情報を部分更新する。
// PATCH /venues/:venueID
func (h *VenueHandler) UpdateVenue(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	venueID := chi.URLParam(r, "venueID")

	var req updateVenueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	v, err := h.service.UpdateVenue(r.Context(), userID, venueID, venue.UpdateInput{
		Name:    req.Name,
		Address: req.Address,
		Notes:   req.Notes,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toVenueResponse(v))
}

// DeleteVenue は会場を削除する。
// DELETE /venues/:venueID
func (h *VenueHandler) DeleteVenue(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	venueID := chi.URLParam(r, "venueID")

	if err := h.service.DeleteVenue(r.Context(), userID, venueID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
