// internal/search/similarity.go
package search

import (
	"strings"
	"unicode/utf8"

	"github.com/xrash/smetrics"
)

// スコアリング定数。ランキング結果を決める調整済みの値なので変更禁止。
// 完全一致 > 部分文字列一致 > 編集距離類似 の順で優先されるように、
// 各分岐のベース値が段階的に設定されています。
const (
	jaroThreshold = 0.85 // Jaro-Winkler を採用する下限
	fallbackScale = 0.3  // 長さ比ヒューリスティックの重み
)

// Jaro-Winkler のパラメータ (標準的なブースト閾値と接頭辞長)
const (
	jwBoostThreshold = 0.7
	jwPrefixSize     = 4
)

// Similarity は2つの正規化済み文字列の類似度を [0.0, 1.0] で返します。
// 判定は分岐カスケードで、長さはルーン数で数えます。
// 部分文字列の分岐は非対称です: Similarity(a, b) != Similarity(b, a)。
func Similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0.0
	}
	if a == b {
		return 1.0
	}

	la := float64(utf8.RuneCountInString(a))
	lb := float64(utf8.RuneCountInString(b))

	if strings.Contains(b, a) {
		return 0.6 + 0.4*(la/lb)
	}
	if strings.Contains(a, b) {
		return 0.5 + 0.3*(lb/la)
	}

	if jw := smetrics.JaroWinkler(a, b, jwBoostThreshold, jwPrefixSize); jw > jaroThreshold {
		return jw
	}

	// 低信頼のフォールバック: 長さが近いだけの文字列にも僅かなスコアを与える
	diff := la - lb
	if diff < 0 {
		diff = -diff
	}
	return (1 - diff/(la+lb)) * fallbackScale
}
