// Package model はドメインモデルを定義する。
package model

import "time"

// Band はメンバーシップ・会場・イベントを所有するバンドを表す。
type Band struct {
	ID        string
	Name      string
	Timezone  string
	JoinCode  string
	CreatedBy string
	CreatedAt time.Time
}

// BandRole はバンド内での役割を表す。
type BandRole string

const (
	// RoleLeader はバンド作成者に付与されるリーダー役割。
	RoleLeader BandRole = "leader"
	// RoleMember は参加コード経由で加入したメンバー役割。
	RoleMember BandRole = "member"
)

// Membership はプロフィールとバンドの多対多関連を表す。
// (band_id, user_id) の組はストレージ層の一意制約で保護される。
type Membership struct {
	ID        string
	BandID    string
	UserID    string
	Role      BandRole
	CreatedAt time.Time
}
