// Package event はバンドの予定（リハーサル・ライブ）管理のドメインロジックを提供する。
package event

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/hitoshi/bandman/internal/model"
	"github.com/hitoshi/bandman/internal/repository"
	"github.com/hitoshi/bandman/internal/security"
)

// MembershipGuard はバンドの存在と呼び出しユーザーのメンバーシップを検証する。
// band.Serviceが実装する。
type MembershipGuard interface {
	RequireMembership(ctx context.Context, bandID, userID string) (*model.Band, error)
}

// MetricsRecorder はイベント関連メトリクスの記録に必要なインターフェース。
type MetricsRecorder interface {
	RecordEventCreated(eventType string)
}

// Service はイベント管理のサービス層。
// イベントはバンドに従属し、全操作で呼び出しユーザーのメンバーシップを検証する。
type Service struct {
	eventRepo repository.EventRepository
	venueRepo repository.VenueRepository
	guard     MembershipGuard
	sanitizer security.TextSanitizerService
	metrics   MetricsRecorder
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	eventRepo repository.EventRepository,
	venueRepo repository.VenueRepository,
	guard MembershipGuard,
	sanitizer security.TextSanitizerService,
	metrics MetricsRecorder,
) *Service {
	return &Service{
		eventRepo: eventRepo,
		venueRepo: venueRepo,
		guard:     guard,
		sanitizer: sanitizer,
		metrics:   metrics,
	}
}

// CreateInput はイベント作成の入力。Statusが空の場合はplannedになる。
type CreateInput struct {
	Type        model.EventType
	Status      model.EventStatus
	Title       string
	StartsAtUTC time.Time
	EndsAtUTC   time.Time
	VenueID     string
	Notes       string
}

// UpdateInput はイベント部分更新の入力。nilのフィールドは変更しない。
// VenueIDに空文字列へのポインタを渡すと会場参照を解除する。
type UpdateInput struct {
	Type        *model.EventType
	Status      *model.EventStatus
	Title       *string
	StartsAtUTC *time.Time
	EndsAtUTC   *time.Time
	VenueID     *string
	Notes       *string
}

// CreateEvent はバンドにイベントを追加する。
// 永続化の前に種別・状態・タイトル・時刻順序・会場所属のすべてを検証する。
func (s *Service) CreateEvent(ctx context.Context, userID, bandID string, input CreateInput) (*model.Event, error) {
	if _, err := s.guard.RequireMembership(ctx, bandID, userID); err != nil {
		return nil, err
	}

	if input.Status == "" {
		input.Status = model.EventStatusPlanned
	}

	title := s.sanitizer.Sanitize(input.Title)
	event := &model.Event{
		ID:          uuid.New().String(),
		BandID:      bandID,
		Type:        input.Type,
		Status:      input.Status,
		Title:       title,
		StartsAtUTC: input.StartsAtUTC.UTC(),
		EndsAtUTC:   input.EndsAtUTC.UTC(),
		VenueID:     input.VenueID,
		Notes:       s.sanitizer.Sanitize(input.Notes),
		CreatedBy:   userID,
		CreatedAt:   time.Now(),
	}
	if err := s.validateEvent(ctx, event); err != nil {
		return nil, err
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("イベントの作成に失敗しました: %w", err)
	}

	slog.Info("event created",
		slog.String("event_id", event.ID),
		slog.String("band_id", bandID),
		slog.String("type", string(event.Type)),
	)
	if s.metrics != nil {
		s.metrics.RecordEventCreated(string(event.Type))
	}
	return event, nil
}

// ListEvents はバンドのイベント一覧を開始時刻の昇順で返す。
func (s *Service) ListEvents(ctx context.Context, userID, bandID string) ([]*model.Event, error) {
	if _, err := s.guard.RequireMembership(ctx, bandID, userID); err != nil {
		return nil, err
	}

	events, err := s.eventRepo.ListByBandID(ctx, bandID)
	if err != nil {
		return nil, fmt.Errorf("イベント一覧の取得に失敗しました: %w", err)
	}
	return events, nil
}

// GetEvent はイベントの詳細を返す。
// 呼び出しユーザーが所属バンドのメンバーでない場合、存在の有無を
// 漏らさないよう不存在と同じEVENT_NOT_FOUNDを返す。
func (s *Service) GetEvent(ctx context.Context, userID, eventID string) (*model.Event, error) {
	return s.findOwnedEvent(ctx, userID, eventID)
}

// UpdateEvent はイベントを部分更新する。
// nilでないフィールドのみ適用し、マージ後の結果に対して全検証を行う。
func (s *Service) UpdateEvent(ctx context.Context, userID, eventID string, input UpdateInput) (*model.Event, error) {
	event, err := s.findOwnedEvent(ctx, userID, eventID)
	if err != nil {
		return nil, err
	}

	if input.Type != nil {
		event.Type = *input.Type
	}
	if input.Status != nil {
		event.Status = *input.Status
	}
	if input.Title != nil {
		event.Title = s.sanitizer.Sanitize(*input.Title)
	}
	if input.StartsAtUTC != nil {
		event.StartsAtUTC = input.StartsAtUTC.UTC()
	}
	if input.EndsAtUTC != nil {
		event.EndsAtUTC = input.EndsAtUTC.UTC()
	}
	if input.VenueID != nil {
		event.VenueID = *input.VenueID
	}
	if input.Notes != nil {
		event.Notes = s.sanitizer.Sanitize(*input.Notes)
	}

	if err := s.validateEvent(ctx, event); err != nil {
		return nil, err
	}

	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("イベントの更新に失敗しました: %w", err)
	}
	return event, nil
}

// DeleteEvent はイベントを削除する。
func (s *Service) DeleteEvent(ctx context.Context, userID, eventID string) error {
	if _, err := s.findOwnedEvent(ctx, userID, eventID); err != nil {
		return err
	}

	if err := s.eventRepo.DeleteByID(ctx, eventID); err != nil {
		return fmt.Errorf("イベントの削除に失敗しました: %w", err)
	}

	slog.Info("event deleted", slog.String("event_id", eventID))
	return nil
}

// findOwnedEvent はイベントを取得し、呼び出しユーザーのメンバーシップを検証する。
// イベントが存在しない場合も他バンド所有の場合も同じEVENT_NOT_FOUNDを返す。
func (s *Service) findOwnedEvent(ctx context.Context, userID, eventID string) (*model.Event, error) {
	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("イベントの取得に失敗しました: %w", err)
	}
	if event == nil {
		return nil, model.NewEventNotFoundError(eventID)
	}

	if _, err := s.guard.RequireMembership(ctx, event.BandID, userID); err != nil {
		return nil, model.NewEventNotFoundError(eventID)
	}

	return event, nil
}

// validateEvent はイベントの不変条件を検証する。
// 作成時も更新のマージ結果にも同じ検証を適用する。
func (s *Service) validateEvent(ctx context.Context, event *model.Event) error {
	if !model.ValidEventType(event.Type) {
		return model.NewInvalidEventTypeError(string(event.Type))
	}
	if !model.ValidEventStatus(event.Status) {
		return model.NewInvalidEventStatusError(string(event.Status))
	}
	if n := utf8.RuneCountInString(event.Title); n < 2 || n > 120 {
		return model.NewInvalidEventTitleError()
	}
	if !event.EndsAtUTC.After(event.StartsAtUTC) {
		return model.NewInvalidEventTimeError()
	}

	// 会場は同じバンドのものに限る
	if event.VenueID != "" {
		venue, err := s.venueRepo.FindByID(ctx, event.VenueID)
		if err != nil {
			return fmt.Errorf("会場の取得に失敗しました: %w", err)
		}
		if venue == nil || venue.BandID != event.BandID {
			return model.NewVenueBandMismatchError()
		}
	}
	return nil
}
