// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hitoshi/bandman/internal/auth"
	"github.com/hitoshi/bandman/internal/model"
)

// newUnauthorizedError は認証失敗の統一エラーを生成する。
func newUnauthorizedError() *model.APIError {
	return &model.APIError{
		Code:     "UNAUTHORIZED",
		Message:  "認証に失敗しました。",
		Category: "auth",
		Action:   "有効なトークンでリクエストしてください。",
	}
}

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// identityContextKey はリクエストコンテキストに検証済みの身元を格納するためのキー。
var identityContextKey = contextKey("identity")

// TokenVerifier はトークン検証に必要なインターフェース。
// auth.TokenVerifierの部分集合として定義する。
type TokenVerifier interface {
	Verify(tokenString string) (*auth.Identity, error)
}

// NewAuthMiddleware はAuthorizationヘッダーのBearerトークンを検証するミドルウェアを返す。
// 検証済みの身元（ユーザーIDとメールアドレス）をリクエストコンテキストに注入する。
// ヘッダー欠落、形式不正、検証失敗のリクエストには401 Unauthorizedを返す。
func NewAuthMiddleware(verifier TokenVerifier) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// 1. AuthorizationヘッダーからBearerトークンを取得
			header := r.Header.Get("Authorization")
			tokenString, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || tokenString == "" {
				WriteErrorResponse(w, http.StatusUnauthorized, newUnauthorizedError())
				return
			}

			// 2. トークンを検証
			identity, err := verifier.Verify(tokenString)
			if err != nil {
				slog.Warn("token verification failed",
					slog.String("error", err.Error()),
				)
				WriteErrorResponse(w, http.StatusUnauthorized, newUnauthorizedError())
				return
			}

			// 3. 検証済みの身元をコンテキストに注入
			ctx := context.WithValue(r.Context(), identityContextKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext はリクエストコンテキストから検証済みの身元を取得する。
// 認証ミドルウェアを通過したリクエストでのみ有効。
func IdentityFromContext(ctx context.Context) (*auth.Identity, error) {
	identity, ok := ctx.Value(identityContextKey).(*auth.Identity)
	if !ok || identity == nil || identity.UserID == "" {
		return nil, fmt.Errorf("identity not found in context")
	}
	return identity, nil
}

// UserIDFromContext はリクエストコンテキストからユーザーIDを取得する。
func UserIDFromContext(ctx context.Context) (string, error) {
	identity, err := IdentityFromContext(ctx)
	if err != nil {
		return "", err
	}
	return identity.UserID, nil
}

// ContextWithIdentity はコンテキストに検証済みの身元を注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithIdentity(ctx context.Context, identity *auth.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}
