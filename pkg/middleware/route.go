package middleware

import (
	"regexp"
	"strings"
)

// publicRoutes はセッションなしでアクセスできるパスの完全一致リスト。
var publicRoutes = map[string]struct{}{
	"/":              {},
	"/login":         {},
	"/register":      {},
	"/hotels":        {},
	"/access-denied": {},
	"/offline":       {},
}

const (
	// publicPrefix は配下すべてが公開となるパスのプレフィックス。
	publicPrefix = "/hotels/"
	// adminPrefix は管理者ロールを要求するパスのプレフィックス。
	adminPrefix = "/admin"
)

// staticAssetPattern は静的アセットとして扱う拡張子。大文字小文字は区別する。
var staticAssetPattern = regexp.MustCompile(`\.(jpg|jpeg|png|gif|svg|webp|avif|css|js|woff2)$`)

// Route はリクエストパスの分類結果。リクエストごとに計算し、保持しない。
type Route struct {
	// Public はセッションなしで到達できるパスかどうか。
	Public bool
	// Admin は管理者ロールを要求するパスかどうか。
	Admin bool
	// StaticAsset は認証を経ずに長期キャッシュされるパスかどうか。
	StaticAsset bool
}

// Classify はパスを公開・管理者・静的アセットに分類する。
func Classify(path string) Route {
	return Route{
		Public:      isPublicRoute(path),
		Admin:       strings.HasPrefix(path, adminPrefix),
		StaticAsset: staticAssetPattern.MatchString(path),
	}
}

func isPublicRoute(path string) bool {
	if _, ok := publicRoutes[path]; ok {
		return true
	}
	return strings.HasPrefix(path, publicPrefix)
}
