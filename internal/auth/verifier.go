// Package auth は外部IDプロバイダが発行したアクセストークンの検証を提供する。
//
// 認証自体（サインアップ、ログイン、トークン発行）はIDプロバイダ側の責務であり、
// このサービスはリクエストに添付されたBearerトークンを共有シークレットで
// 検証し、呼び出しユーザーの身元を取り出すだけに徹する。
package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Identity は検証済みトークンから取り出した呼び出しユーザーの身元を表す。
type Identity struct {
	UserID string // subクレーム（IDプロバイダ上のユーザーID）
	Email  string // emailクレーム
}

// TokenVerifier はアクセストークンの検証機能のインターフェースを定義する。
type TokenVerifier interface {
	// Verify はトークン文字列を検証し、有効であれば身元を返す。
	// 署名不正、期限切れ、audience不一致、subクレーム欠落はエラーとなる。
	Verify(tokenString string) (*Identity, error)
}

// Config はトークン検証の設定。
type Config struct {
	Secret   string // HS256署名の共有シークレット
	Audience string // 期待するaudクレーム
}

// JWTVerifier はHS256署名のJWTを検証するTokenVerifierの実装。
type JWTVerifier struct {
	secret   []byte
	audience string
}

// NewJWTVerifier はJWTVerifierを生成する。
func NewJWTVerifier(config Config) *JWTVerifier {
	return &JWTVerifier{
		secret:   []byte(config.Secret),
		audience: config.Audience,
	}
}

// claims はIDプロバイダのトークンに含まれるクレームを表す。
type claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Verify はトークン文字列を検証し、有効であれば身元を返す。
func (v *JWTVerifier) Verify(tokenString string) (*Identity, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return v.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithAudience(v.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to verify token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	if c.Subject == "" {
		return nil, fmt.Errorf("token has no subject claim")
	}

	return &Identity{
		UserID: c.Subject,
		Email:  c.Email,
	}, nil
}

// compile-time interface check
var _ TokenVerifier = (*JWTVerifier)(nil)
