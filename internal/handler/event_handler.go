package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/bandman/internal/event"
	"github.com/hitoshi/bandman/internal/middleware"
	"github.com/hitoshi/bandman/internal/model"
)

// EventServiceInterface はイベントハンドラーが必要とするサービスインターフェース。
type EventServiceInterface interface {
	// CreateEvent はバンドにイベントを追加する（メンバーのみ）。
	CreateEvent(ctx context.Context, userID, bandID string, input event.CreateInput) (*model.Event, error)
	// ListEvents はバンドのイベント一覧を開始時刻の昇順で返す（メンバーのみ）。
	ListEvents(ctx context.Context, userID, bandID string) ([]*model.Event, error)
	// GetEvent はイベントの詳細を返す。
	GetEvent(ctx context.Context, userID, eventID string) (*model.Event, error)
	// UpdateEvent はイベントを部分更新する。
	UpdateEvent(ctx context.Context, userID, eventID string, input event.UpdateInput) (*model.Event, error)
	// DeleteEvent はイベントを削除する。
	DeleteEvent(ctx context.Context, userID, eventID string) error
}

// EventHandler はイベント管理のHTTPハンドラー。
type EventHandler struct {
	service EventServiceInterface
}

// NewEventHandler はEventHandlerを生成する。
func NewEventHandler(service EventServiceInterface) *EventHandler {
	return &EventHandler{
		service: service,
	}
}

// eventResponse はイベント情報のAPIレスポンス。
type eventResponse struct {
	ID          string    `json:"id"`
	BandID      string    `json:"band_id"`
	Type        string    `json:"type"`
	Status      string    `json:"status"`
	Title       string    `json:"title"`
	StartsAtUTC time.Time `json:"starts_at_utc"`
	EndsAtUTC   time.Time `json:"ends_at_utc"`
	VenueID     *string   `json:"venue_id,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

func toEventResponse(e *model.Event) eventResponse {
	resp := eventResponse{
		ID:          e.ID,
		BandID:      e.BandID,
		Type:        string(e.Type),
		Status:      string(e.Status),
		Title:       e.Title,
		StartsAtUTC: e.StartsAtUTC,
		EndsAtUTC:   e.EndsAtUTC,
		Notes:       e.Notes,
		CreatedBy:   e.CreatedBy,
		CreatedAt:   e.CreatedAt,
	}
	if e.VenueID != "" {
		resp.VenueID = &e.VenueID
	}
	return resp
}

// createEventRequest はイベント作成リクエストのボディ。
type createEventRequest struct {
	Type        string    `json:"type"`
	Status      string    `json:"status"`
	Title       string    `json:"title"`
	StartsAtUTC time.Time `json:"starts_at_utc"`
	EndsAtUTC   time.Time `json:"ends_at_utc"`
	VenueID     string    `json:"venue_id"`
	Notes       string    `json:"notes"`
}

// updateEventRequest はイベント部分更新リクエストのボディ。
// 省略されたフィールドは変更されない。venue_idにnullではなく空文字列を
// 指定すると会場参照を解除する。
type updateEventRequest struct {
	Type        *string    `json:"type"`
	Status      *string    `json:"status"`
	Title       *string    `json:"title"`
	StartsAtUTC *time.Time `json:"starts_at_utc"`
	EndsAtUTC   *time.Time `json:"ends_at_utc"`
	VenueID     *string    `json:"venue_id"`
	Notes       *string    `json:"notes"`
}

// CreateEvent はバンドにイベントを追加する。
// POST /bands/:bandID/events
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	bandID := chi.URLParam(r, "bandID")

	var req createEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	created, err := h.service.CreateEvent(r.Context(), userID, bandID, event.CreateInput{
		Type:        model.EventType(req.Type),
		Status:      model.EventStatus(req.Status),
		Title:       req.Title,
		StartsAtUTC: req.StartsAtUTC,
		EndsAtUTC:   req.EndsAtUTC,
		VenueID:     req.VenueID,
		Notes:       req.Notes,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toEventResponse(created))
}

// ListEvents はバンドのイベント一覧を返す。
// GET /bands/:bandID/events
func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	bandID := chi.URLParam(r, "bandID")

	events, err := h.service.ListEvents(r.Context(), userID, bandID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]eventResponse, 0, len(events))
	for _, e := range events {
		resp = append(resp, toEventResponse(e))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// GetEvent はイベントの詳細を返す。
// GET /events/:eventID
func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	eventID := chi.URLParam(r, "eventID")

	e, err := h.service.GetEvent(r.Context(), userID, eventID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toEventResponse(e))
}

// UpdateEvent はイベントを部分更新する。
// PUT /events/:eventID
func (h *EventHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	eventID := chi.URLParam(r, "eventID")

	var req updateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	input := event.UpdateInput{
		Title:       req.Title,
		StartsAtUTC: req.StartsAtUTC,
		EndsAtUTC:   req.EndsAtUTC,
		VenueID:     req.VenueID,
		Notes:       req.Notes,
	}
	if req.Type != nil {
		t := model.EventType(*req.Type)
		input.Type = &t
	}
	if req.Status != nil {
		s := model.EventStatus(*req.Status)
		input.Status = &s
	}

	e, err := h.service.UpdateEvent(r.Context(), userID, eventID, input)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toEventResponse(e))
}

// DeleteEvent はイベントを削除する。
// DELETE /events/:eventID
func (h *EventHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	eventID := chi.URLParam(r, "eventID")

	if err := h.service.DeleteEvent(r.Context(), userID, eventID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
