// Package middleware はゲートウェイで使用するGinミドルウェアを提供する。
//
// 中心となるのはGateで、リクエストパスを公開・管理者・静的アセットに分類し、
// Cookieのセッショントークン（JWT）を検証してロールに応じた通過・リダイレクトを決める。
// 認証済みリクエストには識別ヘッダーとセキュリティヘッダー、キャッシュポリシーを付与する。
//
// Gateの適用範囲はMatcherとExceptで決める。ほかにCORSとパニックリカバリを含む。
package middleware
