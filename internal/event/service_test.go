package event

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/hitoshi/bandman/internal/model"
)

// mockEventRepo はEventRepositoryのモック実装
type mockEventRepo struct {
	findByIDFunc     func(ctx context.Context, id string) (*model.Event, error)
	createFunc       func(ctx context.Context, event *model.Event) error
	listByBandIDFunc func(ctx context.Context, bandID string) ([]*model.Event, error)
	updateFunc       func(ctx context.Context, event *model.Event) error
	deleteByIDFunc   func(ctx context.Context, id string) error
}

func (m *mockEventRepo) FindByID(ctx context.Context, id string) (*model.Event, error) {
	return m.findByIDFunc(ctx, id)
}

func (m *mockEventRepo) Create(ctx context.Context, event *model.Event) error {
	return m.createFunc(ctx, event)
}

func (m *mockEventRepo) ListByBandID(ctx context.Context, bandID string) ([]*model.Event, error) {
	return m.listByBandIDFunc(ctx, bandID)
}

func (m *mockEventRepo) Update(ctx context.Context, event *model.Event) error {
	return m.updateFunc(ctx, event)
}

func (m *mockEventRepo) DeleteByID(ctx context.Context, id string) error {
	return m.deleteByIDFunc(ctx, id)
}

// mockVenueRepo はVenueRepositoryのモック実装（所属検証のみ使用）
type mockVenueRepo struct {
	findByIDFunc func(ctx context.Context, id string) (*model.Venue, error)
}

func (m *mockVenueRepo) FindByID(ctx context.Context, id string) (*model.Venue, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockVenueRepo) Create(ctx context.Context, venue *model.Venue) error { return nil }

func (m *mockVenueRepo) ListByBandID(ctx context.Context, bandID string) ([]*model.Venue, error) {
	return nil, nil
}

func (m *mockVenueRepo) Update(ctx context.Context, venue *model.Venue) error { return nil }

func (m *mockVenueRepo) DeleteByID(ctx context.Context, id string) error { return nil }

// mockGuard はMembershipGuardのモック実装
type mockGuard struct {
	requireMembershipFunc func(ctx context.Context, bandID, userID string) (*model.Band, error)
}

func (m *mockGuard) RequireMembership(ctx context.Context, bandID, userID string) (*model.Band, error) {
	if m.requireMembershipFunc != nil {
		return m.requireMembershipFunc(ctx, bandID, userID)
	}
	return &model.Band{ID: bandID}, nil
}

// mockSanitizer はTextSanitizerServiceのモック実装
type mockSanitizer struct{}

func (m *mockSanitizer) Sanitize(raw string) string {
	return strings.TrimSpace(raw)
}

// mockMetrics はMetricsRecorderのモック実装
type mockMetrics struct {
	created []string
}

func (m *mockMetrics) RecordEventCreated(eventType string) {
	m.created = append(m.created, eventType)
}

func assertErrorCode(t *testing.T, err error, wantCode string) {
	t.Helper()
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != wantCode {
		t.Errorf("error code = %q, want %q", apiErr.Code, wantCode)
	}
}

func validInput() CreateInput {
	starts := time.Date(2026, 9, 12, 18, 0, 0, 0, time.UTC)
	return CreateInput{
		Type:        model.EventTypeRehearsal,
		Title:       "Weekly rehearsal",
		StartsAtUTC: starts,
		EndsAtUTC:   starts.Add(2 * time.Hour),
	}
}

// イベント作成の成功ケース。状態未指定はplannedになる
func TestCreateEvent_Success(t *testing.T) {
	var created *model.Event
	eventRepo := &mockEventRepo{
		createFunc: func(ctx context.Context, event *model.Event) error {
			created = event
			return nil
		},
	}
	metrics := &mockMetrics{}
	service := NewService(eventRepo, &mockVenueRepo{}, &mockGuard{}, &mockSanitizer{}, metrics)

	event, err := service.CreateEvent(context.Background(), "user-1", "band-1", validInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event.Status != model.EventStatusPlanned {
		t.Errorf("status = %q, want default %q", event.Status, model.EventStatusPlanned)
	}
	if event.CreatedBy != "user-1" {
		t.Errorf("created by = %q, want %q", event.CreatedBy, "user-1")
	}
	if created == nil {
		t.Fatal("expected event to be persisted")
	}
	if len(metrics.created) != 1 || metrics.created[0] != "rehearsal" {
		t.Errorf("metrics recorded = %v, want [rehearsal]", metrics.created)
	}
}

// 非メンバーはイベントを作成できない
func TestCreateEvent_NotAMember(t *testing.T) {
	guard := &mockGuard{
		requireMembershipFunc: func(ctx context.Context, bandID, userID string) (*model.Band, error) {
			return nil, model.NewNotAMemberError()
		},
	}
	service := NewService(&mockEventRepo{}, &mockVenueRepo{}, guard, &mockSanitizer{}, nil)

	_, err := service.CreateEvent(context.Background(), "user-x", "band-1", validInput())
	assertErrorCode(t, err, "NOT_A_MEMBER")
}

// 作成時のバリデーション
func TestCreateEvent_Validation(t *testing.T) {
	service := NewService(&mockEventRepo{}, &mockVenueRepo{}, &mockGuard{}, &mockSanitizer{}, nil)

	tests := []struct {
		name     string
		mutate   func(*CreateInput)
		wantCode string
	}{
		{"invalid type", func(in *CreateInput) { in.Type = "concert" }, "INVALID_EVENT_TYPE"},
		{"invalid status", func(in *CreateInput) { in.Status = "done" }, "INVALID_EVENT_STATUS"},
		{"title too short", func(in *CreateInput) { in.Title = "X" }, "INVALID_EVENT_TITLE"},
		{"title too long", func(in *CreateInput) { in.Title = strings.Repeat("あ", 121) }, "INVALID_EVENT_TITLE"},
		{"ends before starts", func(in *CreateInput) { in.EndsAtUTC = in.StartsAtUTC.Add(-time.Hour) }, "INVALID_EVENT_TIME"},
		{"ends equals starts", func(in *CreateInput) { in.EndsAtUTC = in.StartsAtUTC }, "INVALID_EVENT_TIME"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(&input)
			_, err := service.CreateEvent(context.Background(), "user-1", "band-1", input)
			assertErrorCode(t, err, tt.wantCode)
		})
	}
}

// 他バンドの会場や存在しない会場はVENUE_BAND_MISMATCH
func TestCreateEvent_VenueBandMismatch(t *testing.T) {
	venueRepo := &mockVenueRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.Venue, error) {
			if id == "v-foreign" {
				return &model.Venue{ID: id, BandID: "other-band"}, nil
			}
			return nil, nil
		},
	}
	service := NewService(&mockEventRepo{}, venueRepo, &mockGuard{}, &mockSanitizer{}, nil)

	for _, venueID := range []string{"v-foreign", "v-missing"} {
		input := validInput()
		input.VenueID = venueID
		_, err := service.CreateEvent(context.Background(), "user-1", "band-1", input)
		assertErrorCode(t, err, "VENUE_BAND_MISMATCH")
	}
}

// 同じバンドの会場は受け付ける
func TestCreateEvent_WithOwnVenue(t *testing.T) {
	venueRepo := &mockVenueRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.Venue, error) {
			return &model.Venue{ID: id, BandID: "band-1"}, nil
		},
	}
	eventRepo := &mockEventRepo{
		createFunc: func(ctx context.Context, event *model.Event) error { return nil },
	}
	service := NewService(eventRepo, venueRepo, &mockGuard{}, &mockSanitizer{}, nil)

	input := validInput()
	input.VenueID = "v-1"
	event, err := service.CreateEvent(context.Background(), "user-1", "band-1", input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event.VenueID != "v-1" {
		t.Errorf("venue ID = %q, want %q", event.VenueID, "v-1")
	}
}

// イベント一覧の取得
func TestListEvents(t *testing.T) {
	eventRepo := &mockEventRepo{
		listByBandIDFunc: func(ctx context.Context, bandID string) ([]*model.Event, error) {
			return []*model.Event{{ID: "e-1"}, {ID: "e-2"}}, nil
		},
	}
	service := NewService(eventRepo, &mockVenueRepo{}, &mockGuard{}, &mockSanitizer{}, nil)

	events, err := service.ListEvents(context.Background(), "user-1", "band-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("len(events) = %d, want 2", len(events))
	}
}

// イベント取得: 不存在も他バンド所有も同じEVENT_NOT_FOUND
func TestGetEvent_Masked(t *testing.T) {
	t.Run("absent", func(t *testing.T) {
		eventRepo := &mockEventRepo{
			findByIDFunc: func(ctx context.Context, id string) (*model.Event, error) {
				return nil, nil
			},
		}
		service := NewService(eventRepo, &mockVenueRepo{}, &mockGuard{}, &mockSanitizer{}, nil)
		_, err := service.GetEvent(context.Background(), "user-1", "e-x")
		assertErrorCode(t, err, "EVENT_NOT_FOUND")
	})

	t.Run("foreign band", func(t *testing.T) {
		eventRepo := &mockEventRepo{
			findByIDFunc: func(ctx context.Context, id string) (*model.Event, error) {
				return &model.Event{ID: id, BandID: "other-band"}, nil
			},
		}
		guard := &mockGuard{
			requireMembershipFunc: func(ctx context.Context, bandID, userID string) (*model.Band, error) {
				return nil, model.NewNotAMemberError()
			},
		}
		service := NewService(eventRepo, &mockVenueRepo{}, guard, &mockSanitizer{}, nil)
		_, err := service.GetEvent(context.Background(), "user-1", "e-1")
		assertErrorCode(t, err, "EVENT_NOT_FOUND")
	})
}

func existingEvent() *model.Event {
	starts := time.Date(2026, 9, 12, 18, 0, 0, 0, time.UTC)
	return &model.Event{
		ID:          "e-1",
		BandID:      "band-1",
		Type:        model.EventTypeRehearsal,
		Status:      model.EventStatusPlanned,
		Title:       "Weekly rehearsal",
		StartsAtUTC: starts,
		EndsAtUTC:   starts.Add(2 * time.Hour),
	}
}

// 部分更新: 指定フィールドのみ変更される
func TestUpdateEvent_PartialMerge(t *testing.T) {
	var updated *model.Event
	eventRepo := &mockEventRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.Event, error) {
			return existingEvent(), nil
		},
		updateFunc: func(ctx context.Context, event *model.Event) error {
			updated = event
			return nil
		},
	}
	service := NewService(eventRepo, &mockVenueRepo{}, &mockGuard{}, &mockSanitizer{}, nil)

	status := model.EventStatusConfirmed
	event, err := service.UpdateEvent(context.Background(), "user-1", "e-1", UpdateInput{
		Status: &status,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event.Status != model.EventStatusConfirmed {
		t.Errorf("status = %q, want %q", event.Status, model.EventStatusConfirmed)
	}
	if event.Title != "Weekly rehearsal" {
		t.Errorf("title = %q, want unchanged", event.Title)
	}
	if event.Type != model.EventTypeRehearsal {
		t.Errorf("type = %q, want unchanged", event.Type)
	}
	if updated == nil {
		t.Fatal("expected Update to be called")
	}
}

// マージ後の結果に時刻順序の検証が適用される
func TestUpdateEvent_MergedTimeValidation(t *testing.T) {
	eventRepo := &mockEventRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.Event, error) {
			return existingEvent(), nil
		},
	}
	service := NewService(eventRepo, &mockVenueRepo{}, &mockGuard{}, &mockSanitizer{}, nil)

	// 終了時刻だけを開始時刻より前に動かす
	badEnd := time.Date(2026, 9, 12, 17, 0, 0, 0, time.UTC)
	_, err := service.UpdateEvent(context.Background(), "user-1", "e-1", UpdateInput{
		EndsAtUTC: &badEnd,
	})
	assertErrorCode(t, err, "INVALID_EVENT_TIME")
}

// 空文字列へのポインタで会場参照を解除できる
func TestUpdateEvent_ClearVenue(t *testing.T) {
	event := existingEvent()
	event.VenueID = "v-1"
	var updated *model.Event
	eventRepo := &mockEventRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.Event, error) {
			return event, nil
		},
		updateFunc: func(ctx context.Context, e *model.Event) error {
			updated = e
			return nil
		},
	}
	service := NewService(eventRepo, &mockVenueRepo{}, &mockGuard{}, &mockSanitizer{}, nil)

	empty := ""
	got, err := service.UpdateEvent(context.Background(), "user-1", "e-1", UpdateInput{
		VenueID: &empty,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.VenueID != "" {
		t.Errorf("venue ID = %q, want cleared", got.VenueID)
	}
	if updated == nil {
		t.Fatal("expected Update to be called")
	}
}

// 更新時も会場所属の検証が適用される
func TestUpdateEvent_VenueBandMismatch(t *testing.T) {
	eventRepo := &mockEventRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.Event, error) {
			return existingEvent(), nil
		},
	}
	venueRepo := &mockVenueRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.Venue, error) {
			return &model.Venue{ID: id, BandID: "other-band"}, nil
		},
	}
	service := NewService(eventRepo, venueRepo, &mockGuard{}, &mockSanitizer{}, nil)

	foreign := "v-foreign"
	_, err := service.UpdateEvent(context.Background(), "user-1", "e-1", UpdateInput{
		VenueID: &foreign,
	})
	assertErrorCode(t, err, "VENUE_BAND_MISMATCH")
}

// 更新も所有権マスキングの対象
func TestUpdateEvent_NotFound(t *testing.T) {
	eventRepo := &mockEventRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.Event, error) {
			return nil, nil
		},
	}
	service := NewService(eventRepo, &mockVenueRepo{}, &mockGuard{}, &mockSanitizer{}, nil)

	_, err := service.UpdateEvent(context.Background(), "user-1", "e-x", UpdateInput{})
	assertErrorCode(t, err, "EVENT_NOT_FOUND")
}

// イベント削除
func TestDeleteEvent(t *testing.T) {
	deleted := ""
	eventRepo := &mockEventRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.Event, error) {
			return existingEvent(), nil
		},
		deleteByIDFunc: func(ctx context.Context, id string) error {
			deleted = id
			return nil
		},
	}
	service := NewService(eventRepo, &mockVenueRepo{}, &mockGuard{}, &mockSanitizer{}, nil)

	if err := service.DeleteEvent(context.Background(), "user-1", "e-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted != "e-1" {
		t.Errorf("deleted event = %q, want %q", deleted, "e-1")
	}
}

// 削除も所有権マスキングの対象
func TestDeleteEvent_ForeignBandMasked(t *testing.T) {
	eventRepo := &mockEventRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.Event, error) {
			return &model.Event{ID: id, BandID: "other-band"}, nil
		},
	}
	guard := &mockGuard{
		requireMembershipFunc: func(ctx context.Context, bandID, userID string) (*model.Band, error) {
			return nil, model.NewNotAMemberError()
		},
	}
	service := NewService(eventRepo, &mockVenueRepo{}, guard, &mockSanitizer{}, nil)

	err := service.DeleteEvent(context.Background(), "user-1", "e-1")
	assertErrorCode(t, err, "EVENT_NOT_FOUND")
}
