// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, band, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeInvalidBandName    = "INVALID_BAND_NAME"
	ErrCodeInvalidTimezone    = "INVALID_TIMEZONE"
	ErrCodeInvalidDisplayName = "INVALID_DISPLAY_NAME"
	ErrCodeInvalidVenueName   = "INVALID_VENUE_NAME"
	ErrCodeInvalidEventTitle  = "INVALID_EVENT_TITLE"
	ErrCodeInvalidEventType   = "INVALID_EVENT_TYPE"
	ErrCodeInvalidEventStatus = "INVALID_EVENT_STATUS"
	ErrCodeInvalidEventTime   = "INVALID_EVENT_TIME"
	ErrCodeVenueBandMismatch  = "VENUE_BAND_MISMATCH"
	ErrCodeEmailMismatch      = "EMAIL_MISMATCH"
	ErrCodeBandNotFound       = "BAND_NOT_FOUND"
	ErrCodeJoinCodeNotFound   = "JOIN_CODE_NOT_FOUND"
	ErrCodeVenueNotFound      = "VENUE_NOT_FOUND"
	ErrCodeEventNotFound      = "EVENT_NOT_FOUND"
	ErrCodeProfileNotFound    = "PROFILE_NOT_FOUND"
	ErrCodeNotAMember         = "NOT_A_MEMBER"
	ErrCodeAlreadyMember      = "ALREADY_MEMBER"
	ErrCodeEmailTaken         = "EMAIL_TAKEN"
	ErrCodeProfileExists      = "PROFILE_EXISTS"
	ErrCodeJoinCodeExhausted  = "JOIN_CODE_EXHAUSTED"
)

// NewInvalidBandNameError はバンド名のバリデーションエラーを生成する。
func NewInvalidBandNameError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidBandName,
		Message:  "バンド名は2〜64文字で指定してください。",
		Category: "validation",
		Action:   "バンド名の長さを確認してください。",
	}
}

// NewInvalidTimezoneError は認識できないタイムゾーンのエラーを生成する。
func NewInvalidTimezoneError(tz string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidTimezone,
		Message:  fmt.Sprintf("認識できないタイムゾーンです: %s", tz),
		Category: "validation",
		Action:   "IANA形式のタイムゾーン名（例: America/New_York）を指定してください。",
	}
}

// NewInvalidDisplayNameError は表示名のバリデーションエラーを生成する。
func NewInvalidDisplayNameError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidDisplayName,
		Message:  "表示名は1〜100文字で指定してください。",
		Category: "validation",
		Action:   "表示名の長さを確認してください。",
	}
}

// NewInvalidVenueNameError は会場名のバリデーションエラーを生成する。
func NewInvalidVenueNameError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidVenueName,
		Message:  "会場名は2〜120文字で指定してください。",
		Category: "validation",
		Action:   "会場名の長さを確認してください。",
	}
}

// NewInvalidEventTitleError はイベントタイトルのバリデーションエラーを生成する。
func NewInvalidEventTitleError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidEventTitle,
		Message:  "イベントタイトルは2〜120文字で指定してください。",
		Category: "validation",
		Action:   "タイトルの長さを確認してください。",
	}
}

// NewInvalidEventTypeError は無効なイベント種別のエラーを生成する。
func NewInvalidEventTypeError(t string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidEventType,
		Message:  fmt.Sprintf("無効なイベント種別です: %s", t),
		Category: "validation",
		Action:   "種別には rehearsal または gig を指定してください。",
	}
}

// NewInvalidEventStatusError は無効なイベント状態のエラーを生成する。
func NewInvalidEventStatusError(s string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidEventStatus,
		Message:  fmt.Sprintf("無効なイベント状態です: %s", s),
		Category: "validation",
		Action:   "状態には planned、confirmed、cancelled のいずれかを指定してください。",
	}
}

// NewInvalidEventTimeError は終了時刻が開始時刻以前の場合のエラーを生成する。
func NewInvalidEventTimeError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidEventTime,
		Message:  "イベントの終了時刻は開始時刻より後でなければなりません。",
		Category: "validation",
		Action:   "開始時刻と終了時刻を確認してください。",
	}
}

// NewVenueBandMismatchError は別バンドの会場を指定した場合のエラーを生成する。
func NewVenueBandMismatchError() *APIError {
	return &APIError{
		Code:     ErrCodeVenueBandMismatch,
		Message:  "指定された会場はこのバンドのものではありません。",
		Category: "validation",
		Action:   "バンドに登録済みの会場を指定してください。",
	}
}

// NewEmailMismatchError は認証済みメールアドレスと異なるメールを指定した場合のエラーを生成する。
func NewEmailMismatchError() *APIError {
	return &APIError{
		Code:     ErrCodeEmailMismatch,
		Message:  "メールアドレスが認証済みユーザーのものと一致しません。",
		Category: "validation",
		Action:   "ログイン中のアカウントのメールアドレスを指定してください。",
	}
}

// NewBandNotFoundError はバンドが見つからない場合のエラーを生成する。
func NewBandNotFoundError(bandID string) *APIError {
	return &APIError{
		Code:     ErrCodeBandNotFound,
		Message:  fmt.Sprintf("指定されたバンドが見つかりません: %s", bandID),
		Category: "band",
		Action:   "バンドIDを確認してください。",
	}
}

// NewJoinCodeNotFoundError は参加コードに一致するバンドがない場合のエラーを生成する。
func NewJoinCodeNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeJoinCodeNotFound,
		Message:  "参加コードに一致するバンドが見つかりません。",
		Category: "band",
		Action:   "参加コードを確認してください。",
	}
}

// NewVenueNotFoundError は会場が見つからない場合のエラーを生成する。
// 他バンド所有の会場への操作にも同じエラーを返し、存在の有無を漏らさない。
func NewVenueNotFoundError(venueID string) *APIError {
	return &APIError{
		Code:     ErrCodeVenueNotFound,
		Message:  fmt.Sprintf("指定された会場が見つかりません: %s", venueID),
		Category: "band",
		Action:   "会場IDを確認してください。",
	}
}

// NewEventNotFoundError はイベントが見つからない場合のエラーを生成する。
// 他バンド所有のイベントへの操作にも同じエラーを返し、存在の有無を漏らさない。
func NewEventNotFoundError(eventID string) *APIError {
	return &APIError{
		Code:     ErrCodeEventNotFound,
		Message:  fmt.Sprintf("指定されたイベントが見つかりません: %s", eventID),
		Category: "band",
		Action:   "イベントIDを確認してください。",
	}
}

// NewProfileNotFoundError はプロフィールが見つからない場合のエラーを生成する。
func NewProfileNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeProfileNotFound,
		Message:  "プロフィールが見つかりません。",
		Category: "auth",
		Action:   "ユーザーIDを確認してください。",
	}
}

// NewNotAMemberError はバンドのメンバーでない呼び出し元のアクセス拒否エラーを生成する。
func NewNotAMemberError() *APIError {
	return &APIError{
		Code:     ErrCodeNotAMember,
		Message:  "このバンドのメンバーではありません。",
		Category: "auth",
		Action:   "参加コードでバンドに参加してください。",
	}
}

// NewAlreadyMemberError は既にメンバーのバンドへの再参加エラーを生成する。
func NewAlreadyMemberError() *APIError {
	return &APIError{
		Code:     ErrCodeAlreadyMember,
		Message:  "既にこのバンドのメンバーです。",
		Category: "band",
		Action:   "バンド一覧から該当バンドを確認してください。",
	}
}

// NewEmailTakenError はメールアドレス重複のエラーを生成する。
func NewEmailTakenError() *APIError {
	return &APIError{
		Code:     ErrCodeEmailTaken,
		Message:  "このメールアドレスは既に登録されています。",
		Category: "validation",
		Action:   "別のメールアドレスを使用するか、既存のアカウントでログインしてください。",
	}
}

// NewProfileExistsError はプロフィール重複作成のエラーを生成する。
func NewProfileExistsError() *APIError {
	return &APIError{
		Code:     ErrCodeProfileExists,
		Message:  "このユーザーのプロフィールは既に存在します。",
		Category: "validation",
		Action:   "既存のプロフィールを更新してください。",
	}
}

// NewJoinCodeExhaustedError は参加コード生成のリトライ上限到達エラーを生成する。
func NewJoinCodeExhaustedError() *APIError {
	return &APIError{
		Code:     ErrCodeJoinCodeExhausted,
		Message:  "参加コードの生成に失敗しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	}
}
