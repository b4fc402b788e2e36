package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/bandman/internal/model"
)

// PostgresProfileRepo はPostgreSQLを使用したプロフィールリポジトリ。
type PostgresProfileRepo struct {
	db *sql.DB
}

// NewPostgresProfileRepo はPostgresProfileRepoを生成する。
func NewPostgresProfileRepo(db *sql.DB) *PostgresProfileRepo {
	return &PostgresProfileRepo{db: db}
}

// FindByUserID は指定IDのプロフィールを取得する。見つからない場合はnilを返す。
func (r *PostgresProfileRepo) FindByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	profile := &model.Profile{}
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, display_name, email, created_at FROM profiles WHERE user_id = $1`,
		userID,
	).Scan(&profile.UserID, &profile.DisplayName, &profile.Email, &profile.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find profile by user ID: %w", err)
	}

	return profile, nil
}

// FindByEmail はメールアドレスでプロフィールを検索する。見つからない場合はnilを返す。
func (r *PostgresProfileRepo) FindByEmail(ctx context.Context, email string) (*model.Profile, error) {
	profile := &model.Profile{}
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, display_name, email, created_at FROM profiles WHERE email = $1`,
		email,
	).Scan(&profile.UserID, &profile.DisplayName, &profile.Email, &profile.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find profile by email: %w", err)
	}

	return profile, nil
}

// Create はプロフィールを作成する。
func (r *PostgresProfileRepo) Create(ctx context.Context, profile *model.Profile) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO profiles (user_id, display_name, email, created_at)
		 VALUES ($1, $2, $3, $4)`,
		profile.UserID, profile.DisplayName, profile.Email, profile.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert profile: %w", err)
	}
	return nil
}

// UpdateDisplayName は表示名を更新する。
func (r *PostgresProfileRepo) UpdateDisplayName(ctx context.Context, userID, displayName string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE profiles SET display_name = $1 WHERE user_id = $2`,
		displayName, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update display name: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("profile not found: %s", userID)
	}
	return nil
}

// compile-time interface check
var _ ProfileRepository = (*PostgresProfileRepo)(nil)
