package gateway

import (
	"os"
	"strconv"
)

// Config はGatewayサービスの設定。
type Config struct {
	// Port はサーバーのリッスンポート。
	Port string
	// JWTSecret はセッショントークンの署名鍵。
	JWTSecret string
	// UpstreamURL は認可済みリクエストの転送先となるWebフロントエンドのURL。
	UpstreamURL string
	// FrontendURL はCORSで許可するオリジン。
	FrontendURL string
	// DatabasePath はユーザーDBのSQLiteファイルパス。
	DatabasePath string
	// CookieSecure はtokenCookieにSecure属性を付けるかどうか。
	CookieSecure bool
}

// LoadConfig は環境変数から設定を読み込む。未設定の項目は開発用の値になる。
func LoadConfig() Config {
	return Config{
		Port:         getEnvOr("PORT", "8080"),
		JWTSecret:    getEnvOr("JWT_SECRET", "dev-secret-key"),
		UpstreamURL:  getEnvOr("UPSTREAM_URL", "http://localhost:3000"),
		FrontendURL:  getEnvOr("FRONTEND_URL", "http://localhost:3000"),
		DatabasePath: getEnvOr("DATABASE_PATH", "/data/gateway.db"),
		CookieSecure: getEnvBool("COOKIE_SECURE", false),
	}
}

// getEnvOr は環境変数を取得し、設定されていない場合はデフォルト値を返す。
func getEnvOr(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

// getEnvBool は環境変数を真偽値として解釈する。解釈できない場合はデフォルト値を返す。
func getEnvBool(key string, defaultValue bool) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return b
}
