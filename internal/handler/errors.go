package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitoshi/bandman/internal/model"
)

// apiErrorResponse はエラーレスポンスのJSON構造。
type apiErrorResponse struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Category string `json:"category"`
	Action   string `json:"action"`
}

// writeAPIErrorResponse はAPIErrorをJSONとして書き込む。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(apiErrorResponse{
		Code:     apiErr.Code,
		Message:  apiErr.Message,
		Category: apiErr.Category,
		Action:   apiErr.Action,
	})
}

// writeInvalidRequestBody はJSONボディの解析失敗レスポンスを書き込む。
func writeInvalidRequestBody(w http.ResponseWriter) {
	writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
		Code:     "INVALID_REQUEST",
		Message:  "リクエストボディの解析に失敗しました。",
		Category: "validation",
		Action:   "正しいJSON形式でリクエストしてください。",
	})
}

// writeUnauthorized は認証情報がない場合のレスポンスを書き込む。
func writeUnauthorized(w http.ResponseWriter) {
	writeAPIErrorResponse(w, http.StatusUnauthorized, &model.APIError{
		Code:     "UNAUTHORIZED",
		Message:  "認証が必要です。",
		Category: "auth",
		Action:   "有効なトークンでリクエストしてください。",
	})
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		statusCode := mapAPIErrorToHTTPStatus(apiErr)
		writeAPIErrorResponse(w, statusCode, apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	writeAPIErrorResponse(w, http.StatusInternalServerError, &model.APIError{
		Code:     "INTERNAL_ERROR",
		Message:  "内部エラーが発生しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	})
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeInvalidBandName, model.ErrCodeInvalidTimezone,
		model.ErrCodeInvalidDisplayName, model.ErrCodeInvalidVenueName,
		model.ErrCodeInvalidEventTitle, model.ErrCodeInvalidEventType,
		model.ErrCodeInvalidEventStatus, model.ErrCodeEmailMismatch:
		return http.StatusBadRequest
	case model.ErrCodeInvalidEventTime, model.ErrCodeVenueBandMismatch:
		return http.StatusUnprocessableEntity
	case model.ErrCodeBandNotFound, model.ErrCodeJoinCodeNotFound,
		model.ErrCodeVenueNotFound, model.ErrCodeEventNotFound,
		model.ErrCodeProfileNotFound:
		return http.StatusNotFound
	case model.ErrCodeNotAMember:
		return http.StatusForbidden
	case model.ErrCodeAlreadyMember, model.ErrCodeEmailTaken,
		model.ErrCodeProfileExists, model.ErrCodeJoinCodeExhausted:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
