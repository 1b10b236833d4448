package gateway

import (
	"log"
	"net/http"
	"net/http/httputil"

	"github.com/gin-gonic/gin"

	"github.com/nao1215/hotelgate/pkg/middleware"
)

// handleUpstream はリクエストをWebフロントエンドへ転送するハンドラを返す。
//
// Gateが付与したx-user-id / x-user-roleはそのまま転送する。Gateで認証されていない
// リクエストについてはクライアントが送った同名ヘッダーを取り除く。
// Gateが値を決めるヘッダー（Cache-Controlとセキュリティヘッダー）は、Gateが設定した
// 場合に限り上流の同名ヘッダーより優先する。Varyなどそれ以外のヘッダーは上流の値と併合される。
func (s *Server) handleUpstream() gin.HandlerFunc {
	return func(c *gin.Context) {
		if middleware.GetUserID(c) == "" {
			c.Request.Header.Del(middleware.HeaderUserID)
			c.Request.Header.Del(middleware.HeaderUserRole)
		}

		var gated []string
		for _, name := range middleware.OwnedResponseHeaders() {
			if c.Writer.Header().Get(name) != "" {
				gated = append(gated, name)
			}
		}
		proxy := &httputil.ReverseProxy{
			Rewrite: func(pr *httputil.ProxyRequest) {
				pr.SetURL(s.upstream)
				pr.SetXForwarded()
			},
			ModifyResponse: func(resp *http.Response) error {
				for _, name := range gated {
					resp.Header.Del(name)
				}
				return nil
			},
			ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
				log.Printf("[Gateway] プロキシエラー: url=%s, error=%v", r.URL.String(), err)
				c.JSON(http.StatusBadGateway, gin.H{"error": "上流サービスとの通信に失敗しました"})
			},
		}
		proxy.ServeHTTP(c.Writer, c.Request)
	}
}
