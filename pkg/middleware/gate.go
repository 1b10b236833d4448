package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ユーザーのロール。
const (
	RoleSuperAdmin = "SUPER_ADMIN"
	RoleAdmin      = "ADMIN"
	RoleUser       = "USER"
)

const (
	// TokenCookieName はセッショントークンを保持するCookie名。
	TokenCookieName = "token"

	// HeaderUserID は下流ハンドラーへユーザーIDを伝播するリクエストヘッダー。
	HeaderUserID = "x-user-id"
	// HeaderUserRole は下流ハンドラーへロールを伝播するリクエストヘッダー。
	HeaderUserRole = "x-user-role"

	// LoginPath は未認証時のリダイレクト先。
	LoginPath = "/login"
	// AccessDeniedPath は権限不足時のリダイレクト先。
	AccessDeniedPath = "/access-denied"

	staticCacheControl = "public, max-age=31536000, immutable"
	pageCacheControl   = "public, max-age=60, stale-while-revalidate=300"
)

const (
	contextKeyUserID   = "user_id"
	contextKeyUserRole = "user_role"
)

// adminRoles は管理者パスへのアクセスを許可するロール。
var adminRoles = map[string]struct{}{
	RoleSuperAdmin: {},
	RoleAdmin:      {},
}

// securityHeaders は認証済みレスポンスに必ず付与するヘッダー。
var securityHeaders = [][2]string{
	{"X-Content-Type-Options", "nosniff"},
	{"X-Frame-Options", "DENY"},
	{"X-XSS-Protection", "1; mode=block"},
	{"Referrer-Policy", "strict-origin-when-cross-origin"},
	{"Permissions-Policy", "camera=(), microphone=(), geolocation=()"},
}

// Session は検証済みトークンから得たリクエスト単位の識別情報。
type Session struct {
	// ID はユーザーID。
	ID string
	// Role はユーザーのロール。
	Role string
}

// Gate はすべてのリクエストを分類し、Cookieのセッショントークンで認可するGinミドルウェアを返す。
//
// 静的アセットは認証を経ずに長期キャッシュヘッダー付きで通過させる。
// 未認証のリクエストは公開パスなら通過、それ以外は /login へリダイレクトする。
// 管理者パスは SUPER_ADMIN / ADMIN 以外を /access-denied へリダイレクトする。
// 認証済みのリクエストには x-user-id / x-user-role を付与し、セキュリティヘッダーを設定する。
func Gate(verifier Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := Classify(c.Request.URL.Path)

		if route.StaticAsset {
			c.Header("Cache-Control", staticCacheControl)
			c.Next()
			return
		}

		token, _ := c.Cookie(TokenCookieName)
		session, ok := authenticate(c.Request.Context(), verifier, token)
		if !ok {
			if !route.Public {
				redirect(c, LoginPath)
				return
			}
			c.Next()
			return
		}

		if route.Admin && !isAdminRole(session.Role) {
			redirect(c, AccessDeniedPath)
			return
		}

		c.Request.Header.Set(HeaderUserID, session.ID)
		c.Request.Header.Set(HeaderUserRole, session.Role)
		c.Set(contextKeyUserID, session.ID)
		c.Set(contextKeyUserRole, session.Role)

		for _, h := range securityHeaders {
			c.Header(h[0], h[1])
		}
		if !route.Admin {
			c.Header("Cache-Control", pageCacheControl)
		}
		c.Next()
	}
}

// authenticate はトークンを検証する。Cookieが無い場合も検証失敗も同じく未認証として扱う。
func authenticate(ctx context.Context, verifier Verifier, token string) (Session, bool) {
	if token == "" {
		return Session{}, false
	}
	claims, err := verifier.Verify(ctx, token)
	if err != nil {
		return Session{}, false
	}
	return Session{ID: claims.ID, Role: claims.Role}, true
}

func isAdminRole(role string) bool {
	_, ok := adminRoles[role]
	return ok
}

// OwnedResponseHeaders はGateが値を決めるレスポンスヘッダー名を返す。
// Cache-Controlと5つのセキュリティヘッダーで、Varyなど他のミドルウェアが付けるヘッダーは含まない。
func OwnedResponseHeaders() []string {
	names := make([]string, 0, len(securityHeaders)+1)
	names = append(names, "Cache-Control")
	for _, h := range securityHeaders {
		names = append(names, h[0])
	}
	return names
}

func redirect(c *gin.Context, path string) {
	c.Redirect(http.StatusTemporaryRedirect, path)
	c.Abort()
}
