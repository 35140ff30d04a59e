// internal/search/normalizer.go
package search

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// 正規化関数群。インデックス時 (Engine構築時) とクエリ時で同一の関数を
// 適用することで、比較キーが必ず一致するようにしています。
// いずれも純粋関数で、エラーは返しません。

// toneRemover はNFD分解した上で結合記号 (声調記号・ウムラウト等) を除去します
var toneRemover = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeForMatch はマッチング用キーを生成します。
// 英字 (小文字化) とCJK統合漢字 (U+4E00〜U+9FFF) のみを残し、
// 空白・数字・記号などはすべて除去します。冪等です。
func NormalizeForMatch(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			sb.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			sb.WriteRune(unicode.ToLower(r))
		case r >= 0x4E00 && r <= 0x9FFF:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// StripTones はピンインから声調記号を取り除き、声調に依存しない
// ASCIIキーを生成します (例: "nǐ hǎo" -> "nihao")。
// 数字声調表記 ("ni3 hao3") の数字も非英字として除去されます。冪等です。
func StripTones(s string) string {
	stripped, _, err := transform.String(toneRemover, s)
	if err != nil {
		// transformは結合記号の除去では失敗しないが、念のため元の文字列で続行
		stripped = s
	}
	var sb strings.Builder
	for _, r := range stripped {
		switch {
		case r >= 'a' && r <= 'z':
			sb.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			sb.WriteRune(unicode.ToLower(r))
		}
	}
	return sb.String()
}

// StripPunctuation は文末・区切りの記号 (. , ; : ! ?) のみを除去します
func StripPunctuation(s string) string {
	return punctReplacer.Replace(s)
}

var punctReplacer = strings.NewReplacer(
	".", "",
	",", "",
	";", "",
	":", "",
	"!", "",
	"?", "",
)
