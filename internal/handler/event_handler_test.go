package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hitoshi/bandman/internal/event"
	"github.com/hitoshi/bandman/internal/model"
)

// mockEventService はEventServiceInterfaceのモック実装。
type mockEventService struct {
	createEventFn func(ctx context.Context, userID, bandID string, input event.CreateInput) (*model.Event, error)
	listEventsFn  func(ctx context.Context, userID, bandID string) ([]*model.Event, error)
	getEventFn    func(ctx context.Context, userID, eventID string) (*model.Event, error)
	updateEventFn func(ctx context.Context, userID, eventID string, input event.UpdateInput) (*model.Event, error)
	deleteEventFn func(ctx context.Context, userID, eventID string) error
}

func (m *mockEventService) CreateEvent(ctx context.Context, userID, bandID string, input event.CreateInput) (*model.Event, error) {
	if m.createEventFn != nil {
		return m.createEventFn(ctx, userID, bandID, input)
	}
	return nil, nil
}

func (m *mockEventService) ListEvents(ctx context.Context, userID, bandID string) ([]*model.Event, error) {
	if m.listEventsFn != nil {
		return m.listEventsFn(ctx, userID, bandID)
	}
	return nil, nil
}

func (m *mockEventService) GetEvent(ctx context.Context, userID, eventID string) (*model.Event, error) {
	if m.getEventFn != nil {
		return m.getEventFn(ctx, userID, eventID)
	}
	return nil, nil
}

func (m *mockEventService) UpdateEvent(ctx context.Context, userID, eventID string, input event.UpdateInput) (*model.Event, error) {
	if m.updateEventFn != nil {
		return m.updateEventFn(ctx, userID, eventID, input)
	}
	return nil, nil
}

func (m *mockEventService) DeleteEvent(ctx context.Context, userID, eventID string) error {
	if m.deleteEventFn != nil {
		return m.deleteEventFn(ctx, userID, eventID)
	}
	return nil
}

// --- POST /bands/{bandID}/events テスト ---

func TestEventHandler_CreateEvent_Success(t *testing.T) {
	starts := time.Date(2026, 9, 12, 18, 0, 0, 0, time.UTC)
	svc := &mockEventService{
		createEventFn: func(ctx context.Context, userID, bandID string, input event.CreateInput) (*model.Event, error) {
			if bandID != "band-1" {
				t.Errorf("bandID = %q, want %q", bandID, "band-1")
			}
			if input.Type != model.EventTypeGig {
				t.Errorf("type = %q, want %q", input.Type, model.EventTypeGig)
			}
			return &model.Event{
				ID:          "event-1",
				BandID:      bandID,
				Type:        input.Type,
				Status:      model.EventStatusPlanned,
				Title:       input.Title,
				StartsAtUTC: input.StartsAtUTC,
				EndsAtUTC:   input.EndsAtUTC,
				CreatedBy:   userID,
			}, nil
		},
	}
	h := NewEventHandler(svc)

	body := bytes.NewBufferString(`{
		"type": "gig",
		"title": "Summer live",
		"starts_at_utc": "2026-09-12T18:00:00Z",
		"ends_at_utc": "2026-09-12T20:00:00Z"
	}`)
	req := httptest.NewRequest(http.MethodPost, "/bands/band-1/events", body)
	req = withIdentity(req, "user-123", "alice@example.com")
	req = withChiURLParam(req, "bandID", "band-1")
	w := httptest.NewRecorder()

	h.CreateEvent(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("status = %d, want %d", w.Code, http.StatusCreated)
	}

	var result map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result["status"] != "planned" {
		t.Errorf("status = %v, want %q", result["status"], "planned")
	}
	if result["starts_at_utc"] != starts.Format(time.RFC3339) {
		t.Errorf("starts_at_utc = %v, want %q", result["starts_at_utc"], starts.Format(time.RFC3339))
	}
	if _, ok := result["venue_id"]; ok {
		t.Error("venue_id should be omitted when no venue is set")
	}
}

func TestEventHandler_CreateEvent_InvalidTime(t *testing.T) {
	svc := &mockEventService{
		createEventFn: func(ctx context.Context, userID, bandID string, input event.CreateInput) (*model.Event, error) {
			return nil, model.NewInvalidEventTimeError()
		},
	}
	h := NewEventHandler(svc)

	body := bytes.NewBufferString(`{
		"type": "gig",
		"title": "Summer live",
		"starts_at_utc": "2026-09-12T18:00:00Z",
		"ends_at_utc": "2026-09-12T17:00:00Z"
	}`)
	req := httptest.NewRequest(http.MethodPost, "/bands/band-1/events", body)
	req = withIdentity(req, "user-123", "alice@example.com")
	req = withChiURLParam(req, "bandID", "band-1")
	w := httptest.NewRecorder()

	h.CreateEvent(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnprocessableEntity)
	}
	result := parseAPIErrorResponse(t, w)
	if result["code"] != "INVALID_EVENT_TIME" {
		t.Errorf("code = %q, want %q", result["code"], "INVALID_EVENT_TIME")
	}
}

func TestEventHandler_CreateEvent_VenueBandMismatch(t *testing.T) {
	svc := &mockEventService{
		createEventFn: func(ctx context.Context, userID, bandID string, input event.CreateInput) (*model.Event, error) {
			return nil, model.NewVenueBandMismatchError()
		},
	}
	h := NewEventHandler(svc)

	body := bytes.NewBufferString(`{
		"type": "gig",
		"title": "Summer live",
		"starts_at_utc": "2026-09-12T18:00:00Z",
		"ends_at_utc": "2026-09-12T20:00:00Z",
		"venue_id": "v-foreign"
	}`)
	req := httptest.NewRequest(http.MethodPost, "/bands/band-1/events", body)
	req = withIdentity(req, "user-123", "alice@example.com")
	req = withChiURLParam(req, "bandID", "band-1")
	w := httptest.NewRecorder()

	h.CreateEvent(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnprocessableEntity)
	}
}

// --- PUT /events/{eventID} テスト ---

func TestEventHandler_UpdateEvent_PartialBody(t *testing.T) {
	var gotInput event.UpdateInput
	svc := &mockEventService{
		updateEventFn: func(ctx context.Context, userID, eventID string, input event.UpdateInput) (*model.Event, error) {
			gotInput = input
			return &model.Event{
				ID:     eventID,
				BandID: "band-1",
				Type:   model.EventTypeRehearsal,
				Status: model.EventStatusConfirmed,
				Title:  "Weekly rehearsal",
			}, nil
		},
	}
	h := NewEventHandler(svc)

	// statusのみ指定: 他のフィールドはnilで渡される
	body := bytes.NewBufferString(`{"status":"confirmed"}`)
	req := httptest.NewRequest(http.MethodPut, "/events/event-1", body)
	req = withIdentity(req, "user-123", "alice@example.com")
	req = withChiURLParam(req, "eventID", "event-1")
	w := httptest.NewRecorder()

	h.UpdateEvent(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if gotInput.Status == nil || *gotInput.Status != model.EventStatusConfirmed {
		t.Errorf("status input = %v, want confirmed", gotInput.Status)
	}
	if gotInput.Title != nil {
		t.Errorf("title input = %v, want nil (untouched)", gotInput.Title)
	}
	if gotInput.StartsAtUTC != nil || gotInput.EndsAtUTC != nil {
		t.Error("time inputs must be nil when absent from the body")
	}
}

func TestEventHandler_UpdateEvent_NotFound(t *testing.T) {
	svc := &mockEventService{
		updateEventFn: func(ctx context.Context, userID, eventID string, input event.UpdateInput) (*model.Event, error) {
			return nil, model.NewEventNotFoundError(eventID)
		},
	}
	h := NewEventHandler(svc)

	body := bytes.NewBufferString(`{"status":"confirmed"}`)
	req := httptest.NewRequest(http.MethodPut, "/events/event-x", body)
	req = withIdentity(req, "user-123", "alice@example.com")
	req = withChiURLParam(req, "eventID", "event-x")
	w := httptest.NewRecorder()

	h.UpdateEvent(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

// --- GET /bands/{bandID}/events テスト ---

func TestEventHandler_ListEvents_Success(t *testing.T) {
	starts := time.Date(2026, 9, 12, 18, 0, 0, 0, time.UTC)
	svc := &mockEventService{
		listEventsFn: func(ctx context.Context, userID, bandID string) ([]*model.Event, error) {
			return []*model.Event{
				{ID: "e-1", BandID: bandID, Type: model.EventTypeRehearsal, Status: model.EventStatusPlanned, Title: "First", StartsAtUTC: starts, EndsAtUTC: starts.Add(time.Hour)},
				{ID: "e-2", BandID: bandID, Type: model.EventTypeGig, Status: model.EventStatusConfirmed, Title: "Second", StartsAtUTC: starts.Add(24 * time.Hour), EndsAtUTC: starts.Add(26 * time.Hour), VenueID: "v-1"},
			}, nil
		},
	}
	h := NewEventHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/bands/band-1/events", nil)
	req = withIdentity(req, "user-123", "alice@example.com")
	req = withChiURLParam(req, "bandID", "band-1")
	w := httptest.NewRecorder()

	h.ListEvents(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var result []map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("result length = %d, want 2", len(result))
	}
	if result[1]["venue_id"] != "v-1" {
		t.Errorf("venue_id = %v, want %q", result[1]["venue_id"], "v-1")
	}
}

// --- DELETE /events/{eventID} テスト ---

func TestEventHandler_DeleteEvent_Success(t *testing.T) {
	deleted := ""
	svc := &mockEventService{
		deleteEventFn: func(ctx context.Context, userID, eventID string) error {
			deleted = eventID
			return nil
		},
	}
	h := NewEventHandler(svc)

	req := httptest.NewRequest(http.MethodDelete, "/events/event-1", nil)
	req = withIdentity(req, "user-123", "alice@example.com")
	req = withChiURLParam(req, "eventID", "event-1")
	w := httptest.NewRecorder()

	h.DeleteEvent(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNoContent)
	}
	if deleted != "event-1" {
		t.Errorf("deleted = %q, want %q", deleted, "event-1")
	}
}
