package gateway

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	// ErrUserNotFound は該当するユーザーが存在しないことを表す。
	ErrUserNotFound = errors.New("ユーザーが見つかりません")
	// ErrEmailTaken はメールアドレスが既に登録済みであることを表す。
	ErrEmailTaken = errors.New("メールアドレスは既に登録されています")
)

// User はゲートウェイに登録されたユーザー。
type User struct {
	ID           string
	Email        string
	PasswordHash string
	DisplayName  string
	Role         string
}

// userStore はusersテーブルへのアクセスを提供する。
type userStore struct {
	db *sql.DB
}

const userColumns = `id, email, password_hash, display_name, role`

// createUser はユーザーを登録する。メールアドレスが重複する場合はErrEmailTakenを返す。
func (s *userStore) createUser(ctx context.Context, u User) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, display_name, role) VALUES (?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.PasswordHash, u.DisplayName, u.Role,
	)
	if isConstraintError(err) {
		return ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("ユーザーの登録に失敗: %w", err)
	}
	return nil
}

// getUserByEmail はメールアドレスでユーザーを取得する。
func (s *userStore) getUserByEmail(ctx context.Context, email string) (User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

// getUserByID はIDでユーザーを取得する。
func (s *userStore) getUserByID(ctx context.Context, id string) (User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

// updateLastLogin は最終ログイン日時を現在時刻に更新する。
func (s *userStore) updateLastLogin(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `UPDATE users SET last_login_at = datetime('now') WHERE id = ?`, id); err != nil {
		return fmt.Errorf("最終ログイン日時の更新に失敗: %w", err)
	}
	return nil
}

func scanUser(row *sql.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.DisplayName, &u.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("ユーザーの取得に失敗: %w", err)
	}
	return u, nil
}

// isConstraintError はSQLiteの制約違反エラーかどうかを判定する。
func isConstraintError(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
}
