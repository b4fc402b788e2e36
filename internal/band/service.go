// Package band はバンドとメンバーシップ管理のドメインロジックを提供する。
package band

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/hitoshi/bandman/internal/model"
	"github.com/hitoshi/bandman/internal/repository"
	"github.com/hitoshi/bandman/internal/security"
)

// joinCodeRetries は参加コードの衝突時に再生成を試みる回数。
const joinCodeRetries = 5

// MetricsRecorder はバンド関連メトリクスの記録に必要なインターフェース。
// metrics.MetricsCollectorの部分集合として定義する。
type MetricsRecorder interface {
	RecordBandCreated()
	RecordBandJoined()
}

// Service はバンド管理のサービス層。
// バンド作成、参加コードによる参加、メンバーシップ検証のビジネスロジックを提供する。
type Service struct {
	bandRepo       repository.BandRepository
	membershipRepo repository.MembershipRepository
	sanitizer      security.TextSanitizerService
	metrics        MetricsRecorder
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	bandRepo repository.BandRepository,
	membershipRepo repository.MembershipRepository,
	sanitizer security.TextSanitizerService,
	metrics MetricsRecorder,
) *Service {
	return &Service{
		bandRepo:       bandRepo,
		membershipRepo: membershipRepo,
		sanitizer:      sanitizer,
		metrics:        metrics,
	}
}

// CreateBand はバンドを作成し、作成者をリーダーとして登録する。
// 参加コードはサーバー側で生成され、衝突した場合は再生成する。
func (s *Service) CreateBand(ctx context.Context, userID, name, timezone string) (*model.Band, error) {
	name = s.sanitizer.Sanitize(name)
	if n := utf8.RuneCountInString(name); n < 2 || n > 64 {
		return nil, model.NewInvalidBandNameError()
	}

	if err := validateTimezone(timezone); err != nil {
		return nil, model.NewInvalidTimezoneError(timezone)
	}

	for attempt := 0; attempt < joinCodeRetries; attempt++ {
		joinCode, err := generateJoinCode()
		if err != nil {
			return nil, fmt.Errorf("参加コードの生成に失敗しました: %w", err)
		}

		now := time.Now()
		band := &model.Band{
			ID:        uuid.New().String(),
			Name:      name,
			Timezone:  timezone,
			JoinCode:  joinCode,
			CreatedBy: userID,
			CreatedAt: now,
		}
		membership := &model.Membership{
			ID:        uuid.New().String(),
			BandID:    band.ID,
			UserID:    userID,
			Role:      model.RoleLeader,
			CreatedAt: now,
		}

		err = s.bandRepo.CreateWithLeader(ctx, band, membership)
		if err == nil {
			slog.Info("band created",
				slog.String("band_id", band.ID),
				slog.String("user_id", userID),
			)
			if s.metrics != nil {
				s.metrics.RecordBandCreated()
			}
			return band, nil
		}

		// 参加コードの衝突のみ再生成して続行する
		if repository.IsUniqueViolation(err) {
			slog.Warn("join code collision, retrying",
				slog.Int("attempt", attempt+1),
			)
			continue
		}
		return nil, fmt.Errorf("バンドの作成に失敗しました: %w", err)
	}

	return nil, model.NewJoinCodeExhaustedError()
}

// JoinBand は参加コードでバンドに参加し、作成したメンバーシップを返す。
// コードの完全一致のみを受け付け、部分一致や正規化は行わない。
func (s *Service) JoinBand(ctx context.Context, userID, joinCode string) (*model.Membership, error) {
	band, err := s.bandRepo.FindByJoinCode(ctx, joinCode)
	if err != nil {
		return nil, fmt.Errorf("バンドの検索に失敗しました: %w", err)
	}
	if band == nil {
		return nil, model.NewJoinCodeNotFoundError()
	}

	existing, err := s.membershipRepo.FindByBandAndUser(ctx, band.ID, userID)
	if err != nil {
		return nil, fmt.Errorf("メンバーシップの取得に失敗しました: %w", err)
	}
	if existing != nil {
		return nil, model.NewAlreadyMemberError()
	}

	membership := &model.Membership{
		ID:        uuid.New().String(),
		BandID:    band.ID,
		UserID:    userID,
		Role:      model.RoleMember,
		CreatedAt: time.Now(),
	}
	if err := s.membershipRepo.Create(ctx, membership); err != nil {
		// 同時参加のレースは一意制約で防がれるため重複エラーに変換する
		if repository.IsUniqueViolation(err) {
			return nil, model.NewAlreadyMemberError()
		}
		return nil, fmt.Errorf("メンバーシップの作成に失敗しました: %w", err)
	}

	slog.Info("user joined band",
		slog.String("band_id", band.ID),
		slog.String("user_id", userID),
	)
	if s.metrics != nil {
		s.metrics.RecordBandJoined()
	}

	return membership, nil
}

// GetBand はバンドの詳細を返す。呼び出しユーザーがメンバーであることが必要。
func (s *Service) GetBand(ctx context.Context, userID, bandID string) (*model.Band, error) {
	return s.RequireMembership(ctx, bandID, userID)
}

// ListBands はユーザーが所属するバンド一覧を作成日時の降順で返す。
func (s *Service) ListBands(ctx context.Context, userID string) ([]*model.Band, error) {
	bands, err := s.bandRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("バンド一覧の取得に失敗しました: %w", err)
	}
	return bands, nil
}

// ListMembers はバンドの全メンバーをプロフィール概要付きで加入日時の昇順で返す。
// 呼び出しユーザーがメンバーであることが必要。
func (s *Service) ListMembers(ctx context.Context, userID, bandID string) ([]repository.MemberWithProfile, error) {
	if _, err := s.RequireMembership(ctx, bandID, userID); err != nil {
		return nil, err
	}

	members, err := s.membershipRepo.ListByBandWithProfile(ctx, bandID)
	if err != nil {
		return nil, fmt.Errorf("メンバー一覧の取得に失敗しました: %w", err)
	}
	return members, nil
}

// RequireMembership はバンドの存在と呼び出しユーザーのメンバーシップを検証する。
// バンドが存在しない場合はBAND_NOT_FOUND、メンバーでない場合はNOT_A_MEMBERを返す。
func (s *Service) RequireMembership(ctx context.Context, bandID, userID string) (*model.Band, error) {
	band, err := s.bandRepo.FindByID(ctx, bandID)
	if err != nil {
		return nil, fmt.Errorf("バンドの取得に失敗しました: %w", err)
	}
	if band == nil {
		return nil, model.NewBandNotFoundError(bandID)
	}

	membership, err := s.membershipRepo.FindByBandAndUser(ctx, bandID, userID)
	if err != nil {
		return nil, fmt.Errorf("メンバーシップの取得に失敗しました: %w", err)
	}
	if membership == nil {
		return nil, model.NewNotAMemberError()
	}

	return band, nil
}

// validateTimezone はIANAタイムゾーン名として解釈できるか検証する。
func validateTimezone(timezone string) error {
	if timezone == "" {
		return fmt.Errorf("timezone is required")
	}
	if _, err := time.LoadLocation(timezone); err != nil {
		return err
	}
	return nil
}

// generateJoinCode は暗号的に安全なURLセーフの参加コードを生成する。
// 8バイトの乱数をbase64url（パディングなし）でエンコードした11文字。
func generateJoinCode() (string, error) {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
