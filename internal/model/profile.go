// Package model はドメインモデルを定義する。
package model

import "time"

// Profile は認証済みユーザーのアプリケーション上の表現。
// UserIDは外部IdPが発行するsubject識別子をそのまま使用する。
type Profile struct {
	UserID      string
	DisplayName string
	Email       string
	CreatedAt   time.Time
}
