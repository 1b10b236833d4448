package gateway

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/nao1215/hotelgate/pkg/middleware"
)

// tokenCookieMaxAge はtokenCookieの有効期間（秒）。トークンの有効期限と揃える。
const tokenCookieMaxAge = int(24 * time.Hour / time.Second)

// dummyPasswordHash は未登録のメールアドレスでログインされた場合に比較へ使うハッシュ。
// 登録済みかどうかで応答時間が変わらないよう、実ユーザーと同じコストで生成する。
var dummyPasswordHash = sync.OnceValue(func() []byte {
	hash, err := bcrypt.GenerateFromPassword([]byte("hotelgate-unregistered-user"), bcrypt.DefaultCost)
	if err != nil {
		panic(fmt.Sprintf("ダミーパスワードハッシュの生成に失敗: %v", err))
	}
	return hash
})

// registerRequest はユーザー登録リクエストのボディ。
type registerRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8,max=72"`
	DisplayName string `json:"display_name" binding:"required,max=100"`
}

// loginRequest はログインリクエストのボディ。
type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// userResponse はユーザー情報のレスポンス。
type userResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
}

func toUserResponse(u User) userResponse {
	return userResponse{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        u.Role,
	}
}

// handleRegister はUSERロールのユーザーを登録し、セッショントークンを発行するハンドラを返す。
func (s *Server) handleRegister() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "リクエストが不正です"})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "パスワードが長すぎます"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "ユーザー登録に失敗しました"})
			log.Printf("[Gateway] パスワードハッシュ生成エラー: %v", err)
			return
		}

		user := User{
			ID:           uuid.New().String(),
			Email:        normalizeEmail(req.Email),
			PasswordHash: string(hash),
			DisplayName:  req.DisplayName,
			Role:         middleware.RoleUser,
		}
		if err := s.users.createUser(c.Request.Context(), user); err != nil {
			if errors.Is(err, ErrEmailTaken) {
				c.JSON(http.StatusConflict, gin.H{"error": "メールアドレスは既に登録されています"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "ユーザー登録に失敗しました"})
			log.Printf("[Gateway] ユーザー登録エラー: %v", err)
			return
		}

		if !s.issueToken(c, user) {
			return
		}
		c.JSON(http.StatusCreated, toUserResponse(user))
	}
}

// handleLogin はメールアドレスとパスワードを検証し、セッショントークンを発行するハンドラを返す。
func (s *Server) handleLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "リクエストが不正です"})
			return
		}

		user, err := s.users.getUserByEmail(c.Request.Context(), normalizeEmail(req.Email))
		if err != nil && !errors.Is(err, ErrUserNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "ログインに失敗しました"})
			log.Printf("[Gateway] ユーザー取得エラー: %v", err)
			return
		}
		hash := dummyPasswordHash()
		if err == nil {
			hash = []byte(user.PasswordHash)
		}
		if bcrypt.CompareHashAndPassword(hash, []byte(req.Password)) != nil || err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "メールアドレスまたはパスワードが正しくありません"})
			return
		}

		if err := s.users.updateLastLogin(c.Request.Context(), user.ID); err != nil {
			log.Printf("[Gateway] 最終ログイン日時の更新エラー: %v", err)
		}

		if !s.issueToken(c, user) {
			return
		}
		c.JSON(http.StatusOK, toUserResponse(user))
	}
}

// handleLogout はtokenCookieを削除するハンドラを返す。
func (s *Server) handleLogout() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(middleware.TokenCookieName, "", -1, "/", "", s.cfg.CookieSecure, true)
		c.Status(http.StatusNoContent)
	}
}

// handleGetCurrentUser はGateが付与したx-user-idのユーザー情報を返すハンドラを返す。
func (s *Server) handleGetCurrentUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader(middleware.HeaderUserID)
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "ユーザーIDが取得できません"})
			return
		}

		user, err := s.users.getUserByID(c.Request.Context(), userID)
		if errors.Is(err, ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "ユーザーが見つかりません"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "ユーザー取得に失敗しました"})
			log.Printf("[Gateway] ユーザー取得エラー: %v", err)
			return
		}
		c.JSON(http.StatusOK, toUserResponse(user))
	}
}

// issueToken はユーザーのセッショントークンを生成してCookieに設定する。
// 失敗した場合はエラーレスポンスを書き込んでfalseを返す。
func (s *Server) issueToken(c *gin.Context, user User) bool {
	token, err := middleware.GenerateJWT(s.cfg.JWTSecret, user.ID, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "トークン生成に失敗しました"})
		log.Printf("[Gateway] JWT生成エラー: %v", err)
		return false
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookieName, token, tokenCookieMaxAge, "/", "", s.cfg.CookieSecure, true)
	return true
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
