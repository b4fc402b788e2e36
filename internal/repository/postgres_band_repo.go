package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/bandman/internal/model"
)

// PostgresBandRepo はPostgreSQLを使用したバンドリポジトリ。
type PostgresBandRepo struct {
	db *sql.DB
}

// NewPostgresBandRepo はPostgresBandRepoを生成する。
func NewPostgresBandRepo(db *sql.DB) *PostgresBandRepo {
	return &PostgresBandRepo{db: db}
}

// FindByID は指定IDのバンドを取得する。見つからない場合はnilを返す。
func (r *PostgresBandRepo) FindByID(ctx context.Context, id string) (*model.Band, error) {
	band := &model.Band{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, timezone, join_code, created_by, created_at FROM bands WHERE id = $1`,
		id,
	).Scan(&band.ID, &band.Name, &band.Timezone, &band.JoinCode, &band.CreatedBy, &band.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find band by ID: %w", err)
	}

	return band, nil
}

// FindByJoinCode は参加コードの完全一致でバンドを検索する。見つからない場合はnilを返す。
func (r *PostgresBandRepo) FindByJoinCode(ctx context.Context, joinCode string) (*model.Band, error) {
	band := &model.Band{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, timezone, join_code, created_by, created_at FROM bands WHERE join_code = $1`,
		joinCode,
	).Scan(&band.ID, &band.Name, &band.Timezone, &band.JoinCode, &band.CreatedBy, &band.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find band by join code: %w", err)
	}

	return band, nil
}

// CreateWithLeader はバンドと作成者のリーダーメンバーシップを同一トランザクションで作成する。
func (r *PostgresBandRepo) CreateWithLeader(ctx context.Context, band *model.Band, membership *model.Membership) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// バンドを作成
	_, err = tx.ExecContext(ctx,
		`INSERT INTO bands (id, name, timezone, join_code, created_by, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		band.ID, band.Name, band.Timezone, band.JoinCode, band.CreatedBy, band.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert band: %w", err)
	}

	// 作成者のリーダーメンバーシップを作成
	_, err = tx.ExecContext(ctx,
		`INSERT INTO memberships (id, band_id, user_id, role, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		membership.ID, membership.BandID, membership.UserID, membership.Role, membership.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert leader membership: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListByUserID はユーザーが所属するバンド一覧を作成日時の降順で返す。
func (r *PostgresBandRepo) ListByUserID(ctx context.Context, userID string) ([]*model.Band, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT b.id, b.name, b.timezone, b.join_code, b.created_by, b.created_at
		 FROM bands b
		 JOIN memberships m ON m.band_id = b.id
		 WHERE m.user_id = $1
		 ORDER BY b.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list bands by user ID: %w", err)
	}
	defer rows.Close()

	var bands []*model.Band
	for rows.Next() {
		band := &model.Band{}
		if err := rows.Scan(&band.ID, &band.Name, &band.Timezone, &band.JoinCode, &band.CreatedBy, &band.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan band row: %w", err)
		}
		bands = append(bands, band)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate band rows: %w", err)
	}

	return bands, nil
}

// compile-time interface check
var _ BandRepository = (*PostgresBandRepo)(nil)
