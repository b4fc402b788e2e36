package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/bandman/internal/model"
)

// PostgresEventRepo はPostgreSQLを使用したイベントリポジトリ。
type PostgresEventRepo struct {
	db *sql.DB
}

// NewPostgresEventRepo はPostgresEventRepoを生成する。
func NewPostgresEventRepo(db *sql.DB) *PostgresEventRepo {
	return &PostgresEventRepo{db: db}
}

const eventColumns = `id, band_id, type, status, title, starts_at_utc, ends_at_utc, venue_id, notes, created_by, created_at`

// scanEvent は1行分のイベントをスキャンする。
func scanEvent(scan func(dest ...any) error) (*model.Event, error) {
	event := &model.Event{}
	var venueID, notes sql.NullString
	if err := scan(
		&event.ID, &event.BandID, &event.Type, &event.Status, &event.Title,
		&event.StartsAtUTC, &event.EndsAtUTC, &venueID, &notes,
		&event.CreatedBy, &event.CreatedAt,
	); err != nil {
		return nil, err
	}
	event.VenueID = venueID.String
	event.Notes = notes.String
	return event, nil
}

// FindByID は指定IDのイベントを取得する。見つからない場合はnilを返す。
func (r *PostgresEventRepo) FindByID(ctx context.Context, id string) (*model.Event, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id = $1`,
		id,
	)
	event, err := scanEvent(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find event by ID: %w", err)
	}
	return event, nil
}

// Create はイベントを作成する。
func (r *PostgresEventRepo) Create(ctx context.Context, event *model.Event) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO events (`+eventColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		event.ID, event.BandID, event.Type, event.Status, event.Title,
		event.StartsAtUTC, event.EndsAtUTC, nullString(event.VenueID), nullString(event.Notes),
		event.CreatedBy, event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}

// ListByBandID はバンドのイベント一覧を開始時刻の昇順で返す。
func (r *PostgresEventRepo) ListByBandID(ctx context.Context, bandID string) ([]*model.Event, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE band_id = $1 ORDER BY starts_at_utc`,
		bandID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []*model.Event
	for rows.Next() {
		event, err := scanEvent(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate event rows: %w", err)
	}

	return events, nil
}

// Update はイベントを上書き更新する。
func (r *PostgresEventRepo) Update(ctx context.Context, event *model.Event) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE events
		 SET type = $1, status = $2, title = $3, starts_at_utc = $4, ends_at_utc = $5,
		     venue_id = $6, notes = $7
		 WHERE id = $8`,
		event.Type, event.Status, event.Title, event.StartsAtUTC, event.EndsAtUTC,
		nullString(event.VenueID), nullString(event.Notes), event.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("event not found: %s", event.ID)
	}
	return nil
}

// DeleteByID は指定IDのイベントを削除する。
func (r *PostgresEventRepo) DeleteByID(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM events WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("event not found: %s", id)
	}
	return nil
}

// compile-time interface check
var _ EventRepository = (*PostgresEventRepo)(nil)
