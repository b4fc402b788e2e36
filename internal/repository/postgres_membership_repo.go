package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/bandman/internal/model"
)

// PostgresMembershipRepo はPostgreSQLを使用したメンバーシップリポジトリ。
type PostgresMembershipRepo struct {
	db *sql.DB
}

// NewPostgresMembershipRepo はPostgresMembershipRepoを生成する。
func NewPostgresMembershipRepo(db *sql.DB) *PostgresMembershipRepo {
	return &PostgresMembershipRepo{db: db}
}

// FindByBandAndUser はバンドIDとユーザーIDでメンバーシップを検索する。見つからない場合はnilを返す。
func (r *PostgresMembershipRepo) FindByBandAndUser(ctx context.Context, bandID, userID string) (*model.Membership, error) {
	membership := &model.Membership{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, band_id, user_id, role, created_at
		 FROM memberships WHERE band_id = $1 AND user_id = $2`,
		bandID, userID,
	).Scan(&membership.ID, &membership.BandID, &membership.UserID, &membership.Role, &membership.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find membership: %w", err)
	}

	return membership, nil
}

// Create はメンバーシップを作成する。
// (band_id, user_id) の一意制約違反はそのまま返し、サービス層がConflictに変換する。
func (r *PostgresMembershipRepo) Create(ctx context.Context, membership *model.Membership) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO memberships (id, band_id, user_id, role, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		membership.ID, membership.BandID, membership.UserID, membership.Role, membership.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert membership: %w", err)
	}
	return nil
}

// ListByBandWithProfile はバンドの全メンバーシップをプロフィール概要付きで加入日時の昇順で返す。
func (r *PostgresMembershipRepo) ListByBandWithProfile(ctx context.Context, bandID string) ([]MemberWithProfile, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT m.id, m.band_id, m.user_id, m.role, m.created_at, p.display_name, p.email
		 FROM memberships m
		 JOIN profiles p ON p.user_id = m.user_id
		 WHERE m.band_id = $1
		 ORDER BY m.created_at`,
		bandID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	defer rows.Close()

	var members []MemberWithProfile
	for rows.Next() {
		var m MemberWithProfile
		if err := rows.Scan(&m.ID, &m.BandID, &m.UserID, &m.Role, &m.CreatedAt, &m.DisplayName, &m.Email); err != nil {
			return nil, fmt.Errorf("failed to scan membership row: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate membership rows: %w", err)
	}

	return members, nil
}

// compile-time interface check
var _ MembershipRepository = (*PostgresMembershipRepo)(nil)
