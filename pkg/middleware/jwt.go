package middleware

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// tokenIssuer はこのゲートウェイが発行するトークンのiss値。
const tokenIssuer = "hotelgate"

// tokenTTL は発行するトークンの有効期間。
const tokenTTL = 24 * time.Hour

var (
	// ErrInvalidToken は署名・形式・有効期限のいずれかが不正なトークンを表す。
	ErrInvalidToken = errors.New("トークンが無効です")
	// ErrMissingUserID はクレームにユーザーIDが含まれないことを表す。
	ErrMissingUserID = errors.New("トークンにユーザーIDがありません")
)

// Claims はセッショントークンのクレーム（ペイロード）を表す。
type Claims struct {
	jwt.RegisteredClaims
	// ID は認証済みユーザーの一意識別子。
	ID string `json:"id"`
	// Role はユーザーのロール（SUPER_ADMIN / ADMIN / USER）。
	Role string `json:"role"`
}

// Verifier はトークン文字列を検証してクレームを返す。
// 失敗理由は呼び出し側で区別されない。
type Verifier interface {
	Verify(ctx context.Context, token string) (*Claims, error)
}

// JWTVerifier はHS256で署名されたJWTを検証するVerifier。
type JWTVerifier struct {
	// secret はJWT署名用の秘密鍵。
	secret []byte
}

var _ Verifier = (*JWTVerifier)(nil)

// NewJWTVerifier は新しいJWTVerifierを生成する。
func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

// Verify はトークンの署名と有効期限を検証し、クレームを返す。
func (v *JWTVerifier) Verify(_ context.Context, token string) (*Claims, error) {
	keyFunc := func(_ *jwt.Token) (any, error) {
		return v.secret, nil
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.ID == "" {
		return nil, ErrMissingUserID
	}
	return claims, nil
}

// GenerateJWT はユーザーIDとロールからセッショントークンを生成する。
// ログイン・登録時にgatewayサービスが呼び出す。
func GenerateJWT(secret, userID, role string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
		ID:   userID,
		Role: role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("JWTトークンの署名に失敗: %w", err)
	}
	return signed, nil
}

// GetUserID はGinコンテキストからユーザーIDを取得する。
// Gateミドルウェアで認証済みのリクエストでのみ値を返す。
func GetUserID(c *gin.Context) string {
	return c.GetString(contextKeyUserID)
}

// GetUserRole はGinコンテキストからユーザーのロールを取得する。
func GetUserRole(c *gin.Context) string {
	return c.GetString(contextKeyUserRole)
}
