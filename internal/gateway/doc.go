// Package gateway はホテル予約Webアプリケーションのエッジゲートウェイを提供する。
//
// すべてのリクエストをmiddleware.Gateで分類・認可し、許可されたものを
// 上流のWebフロントエンドへ転送する。ゲートの対象外である /api/public 配下では
// ユーザー登録・ログイン・ログアウトを受け付け、セッショントークンをCookieに発行する。
package gateway
