package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/bandman/internal/middleware"
	"github.com/hitoshi/bandman/internal/model"
)

// ProfileServiceInterface はプロフィールハンドラーが必要とするサービスインターフェース。
type ProfileServiceInterface interface {
	// EnsureProfile はプロフィールを取得し、存在しない場合は自動作成する。
	EnsureProfile(ctx context.Context, userID, email string) (*model.Profile, error)
	// CreateProfile はプロフィールを明示的に作成する。
	CreateProfile(ctx context.Context, userID, tokenEmail, displayName, email string) (*model.Profile, error)
	// GetProfile は指定ユーザーのプロフィールを返す。
	GetProfile(ctx context.Context, userID string) (*model.Profile, error)
	// UpdateDisplayName は表示名を更新する。
	UpdateDisplayName(ctx context.Context, userID, displayName string) (*model.Profile, error)
	// ListBands はユーザーが所属するバンド一覧を返す。
	ListBands(ctx context.Context, userID string) ([]*model.Band, error)
}

// ProfileHandler はプロフィール管理のHTTPハンドラー。
type ProfileHandler struct {
	service ProfileServiceInterface
}

// NewProfileHandler はProfileHandlerを生成する。
func NewProfileHandler(service ProfileServiceInterface) *ProfileHandler {
	return &ProfileHandler{
		service: service,
	}
}

// profileResponse はプロフィール情報のAPIレスポンス。
type profileResponse struct {
	UserID      string    `json:"user_id"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
	CreatedAt   time.Time `json:"created_at"`
}

func toProfileResponse(p *model.Profile) profileResponse {
	return profileResponse{
		UserID:      p.UserID,
		DisplayName: p.DisplayName,
		Email:       p.Email,
		CreatedAt:   p.CreatedAt,
	}
}

// createProfileRequest はプロフィール作成リクエストのボディ。
type createProfileRequest struct {
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
}

// updateProfileRequest はプロフィール更新リクエストのボディ。
type updateProfileRequest struct {
	DisplayName string `json:"display_name"`
}

// Me は呼び出しユーザーのプロフィールを返す。未作成の場合は自動作成する。
// GET /auth/me
func (h *ProfileHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	profile, err := h.service.EnsureProfile(r.Context(), identity.UserID, identity.Email)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toProfileResponse(profile))
}

// UpdateMe は呼び出しユーザーの表示名を更新する。
// PUT /auth/me
func (h *ProfileHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	profile, err := h.service.UpdateDisplayName(r.Context(), identity.UserID, req.DisplayName)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toProfileResponse(profile))
}

// CreateProfile はプロフィールを明示的に作成する。
// POST /profiles
func (h *ProfileHandler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req createProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	profile, err := h.service.CreateProfile(r.Context(), identity.UserID, identity.Email, req.DisplayName, req.Email)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toProfileResponse(profile))
}

// GetProfile は指定ユーザーのプロフィールを返す。
// GET /profiles/:userID
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	if _, err := middleware.IdentityFromContext(r.Context()); err != nil {
		writeUnauthorized(w)
		return
	}

	userID := chi.URLParam(r, "userID")

	profile, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toProfileResponse(profile))
}

// ListBands は指定ユーザーが所属するバンド一覧を返す。
// GET /profiles/:userID/bands
func (h *ProfileHandler) ListBands(w http.ResponseWriter, r *http.Request) {
	if _, err := middleware.IdentityFromContext(r.Context()); err != nil {
		writeUnauthorized(w)
		return
	}

	userID := chi.URLParam(r, "userID")

	bands, err := h.service.ListBands(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]bandResponse, 0, len(bands))
	for _, band := range bands {
		resp = append(resp, toBandResponse(band))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
