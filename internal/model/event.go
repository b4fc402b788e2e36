// Package model はドメインモデルを定義する。
package model

import "time"

// EventType はイベントの種別を表す。
type EventType string

const (
	// EventTypeRehearsal はリハーサル。
	EventTypeRehearsal EventType = "rehearsal"
	// EventTypeGig はライブ出演。
	EventTypeGig EventType = "gig"
)

// EventStatus はイベントのライフサイクル状態を表す。
type EventStatus string

const (
	// EventStatusPlanned は作成直後のデフォルト状態。
	EventStatusPlanned EventStatus = "planned"
	// EventStatusConfirmed は開催確定状態。
	EventStatusConfirmed EventStatus = "confirmed"
	// EventStatusCancelled は中止状態。
	EventStatusCancelled EventStatus = "cancelled"
)

// ValidEventType はイベント種別が定義済みの値かを検証する。
func ValidEventType(t EventType) bool {
	return t == EventTypeRehearsal || t == EventTypeGig
}

// ValidEventStatus はイベント状態が定義済みの値かを検証する。
func ValidEventStatus(s EventStatus) bool {
	return s == EventStatusPlanned || s == EventStatusConfirmed || s == EventStatusCancelled
}

// Event はバンドが所有する予定（リハーサル・ライブ）を表す。
// 不変条件: EndsAtUTC は StartsAtUTC より厳密に後でなければならない。
// VenueIDは任意参照で、空文字列は会場未設定を意味する。
// 参照先の会場が削除された場合、ストレージ層のSET NULLで未設定に戻る。
type Event struct {
	ID          string
	BandID      string
	Type        EventType
	Status      EventStatus
	Title       string
	StartsAtUTC time.Time
	EndsAtUTC   time.Time
	VenueID     string
	Notes       string
	CreatedBy   string
	CreatedAt   time.Time
}
