package gateway

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	_ "modernc.org/sqlite"

	"github.com/nao1215/hotelgate/pkg/middleware"
	"github.com/nao1215/hotelgate/pkg/migration"
)

//go:embed migrations/*.up.sql
var migrationsFS embed.FS

// Server はGatewayサービスのHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// cfg はサーバー設定。
	cfg Config
	// db はSQLiteデータベース接続。
	db *sql.DB
	// users はユーザーテーブルへのアクセス。
	users *userStore
	// upstream は認可済みリクエストの転送先。
	upstream *url.URL
}

// NewServer は設定からGatewayサーバーを生成する。
// SQLiteを開いてマイグレーションを適用し、ルーティングを構築する。
func NewServer(cfg Config) (*Server, error) {
	sqlDB, err := sql.Open("sqlite", cfg.DatabasePath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("データベース接続に失敗: %w", err)
	}

	s, err := newServer(cfg, sqlDB)
	if err != nil {
		sqlDB.Close()
		return nil, err
	}
	return s, nil
}

// newServer は接続済みのDBを使ってサーバーを組み立てる。
func newServer(cfg Config, sqlDB *sql.DB) (*Server, error) {
	if err := migration.Run(context.Background(), sqlDB, migrationsFS, "migrations"); err != nil {
		return nil, fmt.Errorf("スキーマ初期化に失敗: %w", err)
	}

	upstream, err := url.Parse(cfg.UpstreamURL)
	if err != nil || upstream.Scheme == "" || upstream.Host == "" {
		return nil, fmt.Errorf("UPSTREAM_URLが不正です: %q", cfg.UpstreamURL)
	}

	exclusions, err := middleware.NewMatcher(middleware.DefaultExclusions...)
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORS([]string{cfg.FrontendURL}))
	router.Use(middleware.Except(exclusions, middleware.Gate(middleware.NewJWTVerifier(cfg.JWTSecret))))

	s := &Server{
		router:   router,
		cfg:      cfg,
		db:       sqlDB,
		users:    &userStore{db: sqlDB},
		upstream: upstream,
	}
	s.setupRoutes()

	return s, nil
}

// Run はHTTPサーバーを起動する。
func (s *Server) Run() error {
	return s.router.Run(fmt.Sprintf(":%s", s.cfg.Port))
}

// Close はデータベース接続を閉じる。
func (s *Server) Close() error {
	return s.db.Close()
}

// ServeHTTP はhttp.Handlerを実装する。
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupRoutes はAPIルーティングを設定する。
func (s *Server) setupRoutes() {
	// 公開API（Gateの対象外）
	public := s.router.Group("/api/public")
	{
		public.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "gateway"})
		})
		public.POST("/register", s.handleRegister())
		public.POST("/login", s.handleLogin())
		public.POST("/logout", s.handleLogout())
	}

	// Gateで認証済みのユーザー情報
	s.router.GET("/api/me", s.handleGetCurrentUser())

	// それ以外はすべてWebフロントエンドへ転送する
	s.router.NoRoute(s.handleUpstream())
}
