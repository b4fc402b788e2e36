// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/bandman/internal/model"
)

// ProfileRepository はプロフィールデータの永続化インターフェース。
type ProfileRepository interface {
	// FindByUserID は指定IDのプロフィールを取得する。見つからない場合はnilを返す。
	FindByUserID(ctx context.Context, userID string) (*model.Profile, error)

	// FindByEmail はメールアドレスでプロフィールを検索する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.Profile, error)

	// Create はプロフィールを作成する。
	// メールアドレスの一意制約違反はIsUniqueViolationで判定可能なエラーとして返す。
	Create(ctx context.Context, profile *model.Profile) error

	// UpdateDisplayName は表示名を更新する。
	UpdateDisplayName(ctx context.Context, userID, displayName string) error
}

// BandRepository はバンドデータの永続化インターフェース。
type BandRepository interface {
	// FindByID は指定IDのバンドを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Band, error)

	// FindByJoinCode は参加コードの完全一致でバンドを検索する。見つからない場合はnilを返す。
	FindByJoinCode(ctx context.Context, joinCode string) (*model.Band, error)

	// CreateWithLeader はバンドと作成者のリーダーメンバーシップを同一トランザクションで作成する。
	// バンドだけが存在しリーダー不在の状態を観測させないための原子的操作。
	CreateWithLeader(ctx context.Context, band *model.Band, membership *model.Membership) error

	// ListByUserID はユーザーが所属するバンド一覧を作成日時の降順で返す。
	ListByUserID(ctx context.Context, userID string) ([]*model.Band, error)
}

// MembershipRepository はメンバーシップデータの永続化インターフェース。
type MembershipRepository interface {
	// FindByBandAndUser はバンドIDとユーザーIDでメンバーシップを検索する。
	// 見つからない場合はnilを返す。
	FindByBandAndUser(ctx context.Context, bandID, userID string) (*model.Membership, error)

	// Create はメンバーシップを作成する。
	// (band_id, user_id) の一意制約違反はIsUniqueViolationで判定可能なエラーとして返す。
	Create(ctx context.Context, membership *model.Membership) error

	// ListByBandWithProfile はバンドの全メンバーシップをプロフィール概要付きで
	// 加入日時の昇順で返す。
	ListByBandWithProfile(ctx context.Context, bandID string) ([]MemberWithProfile, error)
}

// VenueRepository は会場データの永続化インターフェース。
type VenueRepository interface {
	// FindByID は指定IDの会場を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Venue, error)

	// Create は会場を作成する。
	Create(ctx context.Context, venue *model.Venue) error

	// ListByBandID はバンドの会場一覧を名前の昇順で返す。
	ListByBandID(ctx context.Context, bandID string) ([]*model.Venue, error)

	// Update は会場情報を上書き更新する。
	Update(ctx context.Context, venue *model.Venue) error

	// DeleteByID は指定IDの会場を削除する。
	// 参照しているイベントのvenue_idはSET NULLでクリアされる。
	DeleteByID(ctx context.Context, id string) error
}

// EventRepository はイベントデータの永続化インターフェース。
type EventRepository interface {
	// FindByID は指定IDのイベントを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Event, error)

	// Create はイベントを作成する。
	Create(ctx context.Context, event *model.Event) error

	// ListByBandID はバンドのイベント一覧を開始時刻の昇順で返す。
	ListByBandID(ctx context.Context, bandID string) ([]*model.Event, error)

	// Update はイベントを上書き更新する。
	Update(ctx context.Context, event *model.Event) error

	// DeleteByID は指定IDのイベントを削除する。
	DeleteByID(ctx context.Context, id string) error
}

// MemberWithProfile はメンバーシップとプロフィール概要を結合した構造体。
type MemberWithProfile struct {
	model.Membership
	DisplayName string
	Email       string
}
