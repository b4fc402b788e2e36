// Package security はアプリケーションのセキュリティ機能を提供する。
//
// TextSanitizerService はユーザー入力の自由記述フィールド（バンド名、
// 会場の住所やメモ、イベントのメモなど）をサニタイズし、
// 格納データへのHTMLインジェクションを防ぐ。
// bluemondayの厳格ポリシーで全てのタグを除去し、プレーンテキストのみを残す。
package security

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// TextSanitizerService はプレーンテキストフィールドのサニタイズ機能のインターフェースを定義する。
// リソースの作成・更新時に自由記述フィールドへ適用される。
type TextSanitizerService interface {
	// Sanitize は入力からHTMLタグを全て除去したプレーンテキストを返す。
	// script, iframe等のタグはタグごと中身が除去され、p, div等の
	// 構造タグはタグのみ除去されてテキストが残る。
	// HTMLエンティティはデコードされるため、"a < b"のような
	// 記号を含むテキストはそのまま保持される。
	// 前後の空白は除去される。空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(raw string) string
}

// textSanitizer はTextSanitizerServiceの実装。
// bluemondayのStrictPolicyを保持し、スレッドセーフにサニタイズ処理を行う。
type textSanitizer struct {
	policy *bluemonday.Policy
}

// NewTextSanitizer はTextSanitizerServiceの新しいインスタンスを生成する。
// StrictPolicyは許可タグを一切持たないため、全てのHTML要素が除去される。
func NewTextSanitizer() *textSanitizer {
	return &textSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize は入力からHTMLタグを除去したプレーンテキストを返す。
func (s *textSanitizer) Sanitize(raw string) string {
	stripped := s.policy.Sanitize(raw)
	// StrictPolicyは記号をエンティティにエスケープするため、
	// プレーンテキストとして格納する前にデコードして戻す。
	return strings.TrimSpace(html.UnescapeString(stripped))
}
