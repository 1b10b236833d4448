package middleware

import (
	"fmt"
	"regexp"

	"github.com/gin-gonic/gin"
)

// DefaultExclusions はGateを適用しないパスのパターン。
// フロントエンドのビルド成果物、favicon、公開ファイル、公開APIが対象。
var DefaultExclusions = []string{
	`^/_next/static(/|$)`,
	`^/_next/image(/|$)`,
	`^/favicon\.ico$`,
	`^/public(/|$)`,
	`^/api/public(/|$)`,
}

// Matcher はパスが除外パターンのいずれかに一致するかを判定する。
// 起動時に一度だけ構築し、以降は読み取り専用で使用する。
type Matcher struct {
	patterns []*regexp.Regexp
}

// NewMatcher は正規表現パターンからMatcherを生成する。
func NewMatcher(patterns ...string) (*Matcher, error) {
	m := &Matcher{patterns: make([]*regexp.Regexp, 0, len(patterns))}
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("除外パターン %q のコンパイルに失敗: %w", p, err)
		}
		m.patterns = append(m.patterns, re)
	}
	return m, nil
}

// MustMatcher はNewMatcherと同じだが、不正なパターンでpanicする。
func MustMatcher(patterns ...string) *Matcher {
	m, err := NewMatcher(patterns...)
	if err != nil {
		panic(err)
	}
	return m
}

// Match はパスがいずれかのパターンに一致すればtrueを返す。
func (m *Matcher) Match(path string) bool {
	for _, re := range m.patterns {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}

// Except は除外パターンに一致しないリクエストにのみhandlerを適用するミドルウェアを返す。
func Except(m *Matcher, handler gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.Match(c.Request.URL.Path) {
			c.Next()
			return
		}
		handler(c)
	}
}
