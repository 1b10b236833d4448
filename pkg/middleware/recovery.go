package middleware

import (
	"log"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
)

// Recovery はハンドラーやプロキシ内のパニックから回復するGinミドルウェアを返す。
// パニック値とスタックトレースをログに出力し、500エラーを返す。
//
// httputil.ReverseProxyは上流からのボディ転送が途中で失敗するとhttp.ErrAbortHandlerで
// パニックする。この場合もここで回復し、プロセスは次のリクエストを処理し続ける。
// レスポンスヘッダーが送信済みであればステータスは変更されず、接続が途中で切れたレスポンスになる。
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[PANIC] %s %s: %v\n%s", c.Request.Method, c.Request.URL.Path, r, debug.Stack())
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "内部サーバーエラーが発生しました",
				})
			}
		}()
		c.Next()
	}
}
