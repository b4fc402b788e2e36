// Package model はドメインモデルを定義する。
package model

// Venue はバンドが所有する会場を表す。
// AddressとNotesは任意項目で、空文字列は未設定を意味する。
type Venue struct {
	ID      string
	BandID  string
	Name    string
	Address string
	Notes   string
}
