package gateway

import "testing"

// TestLoadConfig は環境変数からの設定読み込みを検証する。
// t.Setenvを使うため並列実行しない。
func TestLoadConfig(t *testing.T) {
	t.Run("未設定の場合は開発用のデフォルト値になること", func(t *testing.T) {
		for _, key := range []string{"PORT", "JWT_SECRET", "UPSTREAM_URL", "FRONTEND_URL", "DATABASE_PATH", "COOKIE_SECURE"} {
			t.Setenv(key, "")
		}

		cfg := LoadConfig()
		want := Config{
			Port:         "8080",
			JWTSecret:    "dev-secret-key",
			UpstreamURL:  "http://localhost:3000",
			FrontendURL:  "http://localhost:3000",
			DatabasePath: "/data/gateway.db",
			CookieSecure: false,
		}
		if cfg != want {
			t.Errorf("LoadConfig() = %+v, want %+v", cfg, want)
		}
	})

	t.Run("環境変数の値が反映されること", func(t *testing.T) {
		t.Setenv("PORT", "9090")
		t.Setenv("JWT_SECRET", "prod-secret")
		t.Setenv("UPSTREAM_URL", "http://frontend:3000")
		t.Setenv("FRONTEND_URL", "https://hotels.example.com")
		t.Setenv("DATABASE_PATH", "/tmp/gw.db")
		t.Setenv("COOKIE_SECURE", "true")

		cfg := LoadConfig()
		want := Config{
			Port:         "9090",
			JWTSecret:    "prod-secret",
			UpstreamURL:  "http://frontend:3000",
			FrontendURL:  "https://hotels.example.com",
			DatabasePath: "/tmp/gw.db",
			CookieSecure: true,
		}
		if cfg != want {
			t.Errorf("LoadConfig() = %+v, want %+v", cfg, want)
		}
	})

	t.Run("COOKIE_SECUREが解釈できない場合はfalseになること", func(t *testing.T) {
		t.Setenv("COOKIE_SECURE", "yes please")

		if LoadConfig().CookieSecure {
			t.Error("CookieSecure = true, want false")
		}
	})
}
