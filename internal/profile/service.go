// Package profile はユーザープロフィール管理のドメインロジックを提供する。
package profile

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/hitoshi/bandman/internal/model"
	"github.com/hitoshi/bandman/internal/repository"
	"github.com/hitoshi/bandman/internal/security"
)

// Service はプロフィール管理のサービス層。
// プロフィールは外部IdPのsubjectをそのままキーとして保持する。
type Service struct {
	profileRepo repository.ProfileRepository
	bandRepo    repository.BandRepository
	sanitizer   security.TextSanitizerService
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	profileRepo repository.ProfileRepository,
	bandRepo repository.BandRepository,
	sanitizer security.TextSanitizerService,
) *Service {
	return &Service{
		profileRepo: profileRepo,
		bandRepo:    bandRepo,
		sanitizer:   sanitizer,
	}
}

// CreateProfile は認証済みユーザーのプロフィールを明示的に作成する。
// メールアドレスはトークン内のもの（tokenEmail）と一致しなければならない。
func (s *Service) CreateProfile(ctx context.Context, userID, tokenEmail, displayName, email string) (*model.Profile, error) {
	displayName = s.sanitizer.Sanitize(displayName)
	if err := validateDisplayName(displayName); err != nil {
		return nil, err
	}

	// プロフィールのメールはIdPが検証済みのものに限る
	if email != tokenEmail {
		return nil, model.NewEmailMismatchError()
	}

	existing, err := s.profileRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("プロフィールの取得に失敗しました: %w", err)
	}
	if existing != nil {
		return nil, model.NewProfileExistsError()
	}

	profile := &model.Profile{
		UserID:      userID,
		DisplayName: displayName,
		Email:       email,
		CreatedAt:   time.Now(),
	}
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, model.NewEmailTakenError()
		}
		return nil, fmt.Errorf("プロフィールの作成に失敗しました: %w", err)
	}

	slog.Info("profile created", slog.String("user_id", userID))
	return profile, nil
}

// EnsureProfile は認証済みユーザーのプロフィールを取得し、
// 存在しない場合はメールアドレスのローカル部を表示名として自動作成する。
func (s *Service) EnsureProfile(ctx context.Context, userID, email string) (*model.Profile, error) {
	existing, err := s.profileRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("プロフィールの取得に失敗しました: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	profile := &model.Profile{
		UserID:      userID,
		DisplayName: defaultDisplayName(email),
		Email:       email,
		CreatedAt:   time.Now(),
	}
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		// 同時リクエストのレース: 先に作成された方を読み直す
		if repository.IsUniqueViolation(err) {
			created, findErr := s.profileRepo.FindByUserID(ctx, userID)
			if findErr != nil {
				return nil, fmt.Errorf("プロフィールの再取得に失敗しました: %w", findErr)
			}
			if created != nil {
				return created, nil
			}
			return nil, model.NewEmailTakenError()
		}
		return nil, fmt.Errorf("プロフィールの作成に失敗しました: %w", err)
	}

	slog.Info("profile auto-created", slog.String("user_id", userID))
	return profile, nil
}

// GetProfile は指定ユーザーのプロフィールを返す。
func (s *Service) GetProfile(ctx context.Context, userID string) (*model.Profile, error) {
	profile, err := s.profileRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("プロフィールの取得に失敗しました: %w", err)
	}
	if profile == nil {
		return nil, model.NewProfileNotFoundError()
	}
	return profile, nil
}

// UpdateDisplayName は表示名を更新し、更新後のプロフィールを返す。
func (s *Service) UpdateDisplayName(ctx context.Context, userID, displayName string) (*model.Profile, error) {
	displayName = s.sanitizer.Sanitize(displayName)
	if err := validateDisplayName(displayName); err != nil {
		return nil, err
	}

	profile, err := s.profileRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("プロフィールの取得に失敗しました: %w", err)
	}
	if profile == nil {
		return nil, model.NewProfileNotFoundError()
	}

	if err := s.profileRepo.UpdateDisplayName(ctx, userID, displayName); err != nil {
		return nil, fmt.Errorf("表示名の更新に失敗しました: %w", err)
	}

	profile.DisplayName = displayName
	return profile, nil
}

// ListBands はユーザーが所属するバンド一覧を作成日時の降順で返す。
func (s *Service) ListBands(ctx context.Context, userID string) ([]*model.Band, error) {
	bands, err := s.bandRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("バンド一覧の取得に失敗しました: %w", err)
	}
	return bands, nil
}

// validateDisplayName は表示名の長さを検証する。
func validateDisplayName(displayName string) error {
	if n := utf8.RuneCountInString(displayName); n < 1 || n > 100 {
		return model.NewInvalidDisplayNameError()
	}
	return nil
}

// defaultDisplayName はメールアドレスのローカル部を表示名として返す。
// 空になる場合は"member"にフォールバックする。
func defaultDisplayName(email string) string {
	local, _, found := strings.Cut(email, "@")
	if !found || local == "" {
		if email != "" {
			return email
		}
		return "member"
	}
	return local
}
