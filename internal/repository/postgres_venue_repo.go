package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/bandman/internal/model"
)

// PostgresVenueRepo はPostgreSQLを使用した会場リポジトリ。
type PostgresVenueRepo struct {
	db *sql.DB
}

// NewPostgresVenueRepo はPostgresVenueRepoを生成する。
func NewPostgresVenueRepo(db *sql.DB) *PostgresVenueRepo {
	return &PostgresVenueRepo{db: db}
}

// FindByID は指定IDの会場を取得する。見つからない場合はnilを返す。
func (r *PostgresVenueRepo) FindByID(ctx context.Context, id string) (*model.Venue, error) {
	venue := &model.Venue{}
	var address, notes sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT id, band_id, name, address, notes FROM venues WHERE id = $1`,
		id,
	).Scan(&venue.ID, &venue.BandID, &venue.Name, &address, &notes)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find venue by ID: %w", err)
	}

	venue.Address = address.String
	venue.Notes = notes.String
	return venue, nil
}

// Create は会場を作成する。
func (r *PostgresVenueRepo) Create(ctx context.Context, venue *model.Venue) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO venues (id, band_id, name, address, notes)
		 VALUES ($1, $2, $3, $4, $5)`,
		venue.ID, venue.BandID, venue.Name, nullString(venue.Address), nullString(venue.Notes),
	)
	if err != nil {
		return fmt.Errorf("failed to insert venue: %w", err)
	}
	return nil
}

// ListByBandID はバンドの会場一覧を名前の昇順で返す。
func (r *PostgresVenueRepo) ListByBandID(ctx context.Context, bandID string) ([]*model.Venue, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, band_id, name, address, notes FROM venues WHERE band_id = $1 ORDER BY name`,
		bandID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list venues: %w", err)
	}
	defer rows.Close()

	var venues []*model.Venue
	for rows.Next() {
		venue := &model.Venue{}
		var address, notes sql.NullString
		if err := rows.Scan(&venue.ID, &venue.BandID, &venue.Name, &address, &notes); err != nil {
			return nil, fmt.Errorf("failed to scan venue row: %w", err)
		}
		venue.Address = address.String
		venue.Notes = notes.String
		venues = append(venues, venue)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate venue rows: %w", err)
	}

	return venues, nil
}

// Update は会場情報を上書き更新する。
func (r *PostgresVenueRepo) Update(ctx context.Context, venue *model.Venue) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE venues SET name = $1, address = $2, notes = $3 WHERE id = $4`,
		venue.Name, nullString(venue.Address), nullString(venue.Notes), venue.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update venue: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("venue not found: %s", venue.ID)
	}
	return nil
}

// DeleteByID は指定IDの会場を削除する。
// 参照しているイベントのvenue_idは外部キーのSET NULLでクリアされる。
func (r *PostgresVenueRepo) DeleteByID(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM venues WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete venue: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("venue not found: %s", id)
	}
	return nil
}

// nullString は空文字列をNULLとして永続化するためのsql.NullStringを返す。
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// compile-time interface check
var _ VenueRepository = (*PostgresVenueRepo)(nil)
