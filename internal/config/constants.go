// internal/config/constants.go
package config

// アプリケーション情報
const (
	AppName    = "go_hanzi_keep"
	AppVersion = "0.3.1"
)

// デフォルト設定値
const (
	DefaultServerPort     = ":8080"
	DefaultLogLevel       = "info"
	DefaultLexiconPath    = "data/cedict_ts.u8"
	DefaultAppReviewLimit = 20
	DefaultAppSearchLimit = 15
)
