// Package venue はバンド所有の会場管理のドメインロジックを提供する。
package venue

import (
	"context"
	"fmt"
	"log/slog"
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

// Service は会場管理のサービス層。
// 会場はバンドに従属し、全操作で呼び出しユーザーのメンバーシップを検証する。
type Service struct {
	venueRepo repository.VenueRepository
	guard     MembershipGuard
	sanitizer security.TextSanitizerService
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	venueRepo repository.VenueRepository,
	guard MembershipGuard,
	sanitizer security.TextSanitizerService,
) *Service {
	return &Service{
		venueRepo: venueRepo,
		guard:     guard,
		sanitizer: sanitizer,
	}
}

// VenueInput は会場作成の入力。
type VenueInput struct {
	Name    string
	Address string
	Notes   string
}

// UpdateInput は会場の部分更新の入力。
// nilのフィールドは変更しない。
type UpdateInput struct {
	Name    *string
	Address *string
	Notes   *string
}

// CreateVenue はバンドに会場を追加する。
func (s *Service) CreateVenue(ctx context.Context, userID, bandID string, input VenueInput) (*model.Venue, error) {
	if _, err := s.guard.RequireMembership(ctx, bandID, userID); err != nil {
		return nil, err
	}

	name, address, notes, err := s.sanitizeInput(input)
	if err != nil {
		return nil, err
	}

	venue := &model.Venue{
		ID:      uuid.New().String(),
		BandID:  bandID,
		Name:    name,
		Address: address,
		Notes:   notes,
	}
	if err := s.venueRepo.Create(ctx, venue); err != nil {
		return nil, fmt.Errorf("会場の作成に失敗しました: %w", err)
	}

	slog.Info("venue created",
		slog.String("venue_id", venue.ID),
		slog.String("band_id", bandID),
	)
	return venue, nil
}

// ListVenues はバンドの会場一覧を名前の昇順で返す。
func (s *Service) ListVenues(ctx context.Context, userID, bandID string) ([]*model.Venue, error) {
	if _, err := s.guard.RequireMembership(ctx, bandID, userID); err != nil {
		return nil, err
	}

	venues, err := s.venueRepo.ListByBandID(ctx, bandID)
	if err != nil {
		return nil, fmt.Errorf("会場一覧の取得に失敗しました: %w", err)
	}
	return venues, nil
}

// GetVenue は会場の詳細を返す。
// 呼び出しユーザーが会場の所属バンドのメンバーでない場合、存在の有無を
// 漏らさないよう不存在と同じVENUE_NOT_FOUNDを返す。
func (s *Service) GetVenue(ctx context.Context, userID, venueID string) (*model.Venue, error) {
	return s.findOwnedVenue(ctx, userID, venueID)
}

// UpdateVenue は会場情報を部分更新する。
// 指定されたフィールドのみ上書きし、マージ結果に対して検証を行う。
func (s *Service) UpdateVenue(ctx context.Context, userID, venueID string, input UpdateInput) (*model.Venue, error) {
	venue, err := s.findOwnedVenue(ctx, userID, venueID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		venue.Name = s.sanitizer.Sanitize(*input.Name)
	}
	if input.Address != nil {
		venue.Address = s.sanitizer.Sanitize(*input.Address)
	}
	if input.Notes != nil {
		venue.Notes = s.sanitizer.Sanitize(*input.Notes)
	}

	if n := utf8.RuneCountInString(venue.Name); n < 2 || n > 120 {
		return nil, model.NewInvalidVenueNameError()
	}

	if err := s.venueRepo.Update(ctx, venue); err != nil {
		return nil, fmt.Errorf("会場の更新に失敗しました: %w", err)
	}
	return venue, nil
}

// DeleteVenue は会場を削除する。
// この会場を参照するイベントはストレージ層のSET NULLで会場未設定になる。
func (s *Service) DeleteVenue(ctx context.Context, userID, venueID string) error {
	if _, err := s.findOwnedVenue(ctx, userID, venueID); err != nil {
		return err
	}

	if err := s.venueRepo.DeleteByID(ctx, venueID); err != nil {
		return fmt.Errorf("会場の削除に失敗しました: %w", err)
	}

	slog.Info("venue deleted", slog.String("venue_id", venueID))
	return nil
}

// findOwnedVenue は会場を取得し、呼び出しユーザーのメンバーシップを検証する。
// 会場が存在しない場合も他バンド所有の場合も同じVENUE_NOT_FOUNDを返す。
func (s *Service) findOwnedVenue(ctx context.Context, userID, venueID string) (*model.Venue, error) {
	venue, err := s.venueRepo.FindByID(ctx, venueID)
	if err != nil {
		return nil, fmt.Errorf("会場の取得に失敗しました: %w", err)
	}
	if venue == nil {
		return nil, model.NewVenueNotFoundError(venueID)
	}

	if _, err := s.guard.RequireMembership(ctx, venue.BandID, userID); err != nil {
		return nil, model.NewVenueNotFoundError(venueID)
	}

	return venue, nil
}

// sanitizeInput は入力をサニタイズし、会場名の長さを検証する。
func (s *Service) sanitizeInput(input VenueInput) (name, address, notes string, err error) {
	name = s.sanitizer.Sanitize(input.Name)
	if n := utf8.RuneCountInString(name); n < 2 || n > 120 {
		return "", "", "", model.NewInvalidVenueNameError()
	}
	address = s.sanitizer.Sanitize(input.Address)
	notes = s.sanitizer.Sanitize(input.Notes)
	return name, address, notes, nil
}
