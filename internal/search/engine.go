// internal/search/engine.go
package search

import (
	"sort"

	"go_hanzi_keep/internal/lexicon"
)

// Mode は検索対象の表現系を選択します
type Mode int

const (
	ModeScript Mode = iota // 文字・ピンインに対して検索 (デフォルト)
	ModeGloss              // 英訳の定義に対して検索
)

// ParseMode はクエリパラメータのmode文字列をModeに変換します。
// 未指定・"script"・"chinese" は文字系、それ以外は定義系として扱います。
func ParseMode(s string) Mode {
	switch s {
	case "", "script", "chinese":
		return ModeScript
	default:
		return ModeGloss
	}
}

// scoreThreshold を超えたエントリのみが検索結果に残ります
const scoreThreshold = 0.8

// ScoredEntry は類似度スコア付きの辞書エントリです
type ScoredEntry struct {
	Entry lexicon.Entry
	Score float64
}

// document はエントリと、構築時に事前計算した正規化キーを保持します。
// クエリ側と同じ正規化関数を適用することが一致の前提です。
type document struct {
	entry          lexicon.Entry
	normSimplified string   // NormalizeForMatch(簡体字)
	normTradition  string   // NormalizeForMatch(繁体字)、繁体字が無い場合は空
	pinyinKey      string   // StripPunctuation(StripTones(ピンイン))
	pinyinToneless string   // StripTones(ピンイン)
	normGlosses    []string // NormalizeForMatch(各定義)
}

// Engine は読み取り専用の辞書スナップショットに対する検索エンジンです。
// 構築後は不変なので、複数リクエストから同時に呼び出しても安全です。
type Engine struct {
	docs []document
}

// NewEngine は辞書エントリから検索エンジンを構築します
func NewEngine(entries []lexicon.Entry) *Engine {
	docs := make([]document, 0, len(entries))
	for _, e := range entries {
		doc := document{
			entry:          e,
			normSimplified: NormalizeForMatch(e.Simplified),
			normTradition:  NormalizeForMatch(e.Traditional),
			pinyinKey:      StripPunctuation(StripTones(e.Pinyin)),
			pinyinToneless: StripTones(e.Pinyin),
			normGlosses:    make([]string, 0, len(e.Definitions)),
		}
		for _, d := range e.Definitions {
			doc.normGlosses = append(doc.normGlosses, NormalizeForMatch(d))
		}
		docs = append(docs, doc)
	}
	return &Engine{docs: docs}
}

// Search はクエリに対する全エントリの採点・絞り込み・並べ替えを行います。
// スコアが scoreThreshold を超えたエントリのみを降順で返します
// (同点は辞書の収録順で安定)。上位N件への切り詰めは呼び出し側の責務です。
// 空クエリや一致なしは空スライスを返すだけで、エラーにはなりません。
func (e *Engine) Search(query string, mode Mode) []ScoredEntry {
	normalized := NormalizeForMatch(query)
	if normalized == "" {
		return nil
	}

	var results []ScoredEntry
	for _, doc := range e.docs {
		var score float64
		if mode == ModeGloss {
			score = doc.glossScore(normalized)
		} else {
			score = doc.scriptScore(normalized)
		}
		if score > scoreThreshold {
			results = append(results, ScoredEntry{Entry: doc.entry, Score: score})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}

// scriptScore は簡体字・繁体字・ピンイン2種に対する類似度の最大値を返します
func (d *document) scriptScore(query string) float64 {
	score := Similarity(query, d.normSimplified)
	if s := Similarity(query, d.normTradition); s > score {
		score = s
	}
	if s := Similarity(query, d.pinyinKey); s > score {
		score = s
	}
	if s := Similarity(query, d.pinyinToneless); s > score {
		score = s
	}
	return score
}

// glossScore は各定義に対する類似度の最大値を返します
func (d *document) glossScore(query string) float64 {
	var score float64
	for _, g := range d.normGlosses {
		if s := Similarity(query, g); s > score {
			score = s
		}
	}
	return score
}
