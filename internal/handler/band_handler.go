package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/bandman/internal/middleware"
	"github.com/hitoshi/bandman/internal/model"
	"github.com/hitoshi/bandman/internal/repository"
)

// BandServiceInterface はバンドハンドラーが必要とするサービスインターフェース。
type BandServiceInterface interface {
	// CreateBand はバンドを作成し、作成者をリーダーとして登録する。
	CreateBand(ctx context.Context, userID, name, timezone string) (*model.Band, error)
	// JoinBand は参加コードでバンドに参加し、作成したメンバーシップを返す。
	JoinBand(ctx context.Context, userID, joinCode string) (*model.Membership, error)
	// GetBand はバンドの詳細を返す（メンバーのみ）。
	GetBand(ctx context.Context, userID, bandID string) (*model.Band, error)
	// ListBands はユーザーが所属するバンド一覧を返す。
	ListBands(ctx context.Context, userID string) ([]*model.Band, error)
	// ListMembers はバンドの全メンバーを返す（メンバーのみ）。
	ListMembers(ctx context.Context, userID, bandID string) ([]repository.MemberWithProfile, error)
}

// BandHandler はバンド管理のHTTPハンドラー。
type BandHandler struct {
	service BandServiceInterface
}

// NewBandHandler はBandHandlerを生成する。
func NewBandHandler(service BandServiceInterface) *BandHandler {
	return &BandHandler{
		service: service,
	}
}

// bandResponse はバンド情報のAPIレスポンス。
// 参加コードはメンバー向けレスポンスにのみ含まれる。
type bandResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Timezone  string    `json:"timezone"`
	JoinCode  string    `json:"join_code"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

func toBandResponse(b *model.Band) bandResponse {
	return bandResponse{
		ID:        b.ID,
		Name:      b.Name,
		Timezone:  b.Timezone,
		JoinCode:  b.JoinCode,
		CreatedBy: b.CreatedBy,
		CreatedAt: b.CreatedAt,
	}
}

// membershipResponse は参加操作で作成されたメンバーシップのAPIレスポンス。
type membershipResponse struct {
	ID        string    `json:"id"`
	BandID    string    `json:"band_id"`
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// memberResponse はメンバー情報のAPIレスポンス。
type memberResponse struct {
	UserID      string    `json:"user_id"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	JoinedAt    time.Time `json:"joined_at"`
}

// createBandRequest はバンド作成リクエストのボディ。
type createBandRequest struct {
	Name     string `json:"name"`
	Timezone string `json:"timezone"`
}

// CreateBand はバンドを作成する。
// POST /bands
func (h *BandHandler) CreateBand(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req createBandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	band, err := h.service.CreateBand(r.Context(), userID, req.Name, req.Timezone)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toBandResponse(band))
}

// JoinBand は参加コードでバンドに参加する。
// POST /bands/join/:joinCode
func (h *BandHandler) JoinBand(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	joinCode := chi.URLParam(r, "joinCode")

	membership, err := h.service.JoinBand(r.Context(), userID, joinCode)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(membershipResponse{
		ID:        membership.ID,
		BandID:    membership.BandID,
		UserID:    membership.UserID,
		Role:      string(membership.Role),
		CreatedAt: membership.CreatedAt,
	})
}

// GetBand はバンドの詳細を返す。
// GET /bands/:bandID
func (h *BandHandler) GetBand(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	bandID := chi.URLParam(r, "bandID")

	band, err := h.service.GetBand(r.Context(), userID, bandID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toBandResponse(band))
}

// ListMyBands は呼び出しユーザーが所属するバンド一覧を返す。
// GET /my/bands
func (h *BandHandler) ListMyBands(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

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

// ListMembers はバンドの全メンバー一覧を返す。
// GET /bands/:bandID/members
func (h *BandHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	bandID := chi.URLParam(r, "bandID")

	members, err := h.service.ListMembers(r.Context(), userID, bandID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]memberResponse, 0, len(members))
	for _, m := range members {
		resp = append(resp, memberResponse{
			UserID:      m.UserID,
			DisplayName: m.DisplayName,
			Email:       m.Email,
			Role:        string(m.Role),
			JoinedAt:    m.CreatedAt,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
