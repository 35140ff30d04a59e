// internal/search/engine_test.go
package search

import (
	"testing"

	"go_hanzi_keep/internal/lexicon"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEntries() []lexicon.Entry {
	return []lexicon.Entry{
		{Traditional: "你好", Simplified: "你好", Pinyin: "ni3 hao3", Definitions: []string{"hello", "hi"}},
		{Traditional: "好", Simplified: "好", Pinyin: "hao3", Definitions: []string{"good", "well"}},
		{Traditional: "好的", Simplified: "好的", Pinyin: "hao3 de5", Definitions: []string{"OK", "agreed"}},
		{Traditional: "謝謝", Simplified: "谢谢", Pinyin: "xie4 xie4", Definitions: []string{"thanks", "thank you"}},
	}
}

func TestParseMode(t *testing.T) {
	assert.Equal(t, ModeScript, ParseMode(""))
	assert.Equal(t, ModeScript, ParseMode("script"))
	assert.Equal(t, ModeScript, ParseMode("chinese"))
	assert.Equal(t, ModeGloss, ParseMode("gloss"))
	assert.Equal(t, ModeGloss, ParseMode("definition"))
}

func TestEngine_Search_Script(t *testing.T) {
	engine := NewEngine(testEntries())

	t.Run("正常系: ピンインの完全一致", func(t *testing.T) {
		results := engine.Search("nihao", ModeScript)
		require.Len(t, results, 1)
		assert.Equal(t, "你好", results[0].Entry.Simplified)
		assert.InDelta(t, 1.0, results[0].Score, 1e-9)
	})

	t.Run("正常系: 数字声調付きクエリでも一致する", func(t *testing.T) {
		results := engine.Search("ni3 hao3", ModeScript)
		require.Len(t, results, 1)
		assert.Equal(t, "你好", results[0].Entry.Simplified)
	})

	t.Run("正常系: 漢字での検索", func(t *testing.T) {
		results := engine.Search("谢谢", ModeScript)
		require.Len(t, results, 1)
		assert.Equal(t, "謝謝", results[0].Entry.Traditional)
		assert.InDelta(t, 1.0, results[0].Score, 1e-9)
	})

	t.Run("正常系: スコア降順で返る (同点は収録順)", func(t *testing.T) {
		// "hao" は "好" に完全一致し、"nihao"・"haode" には部分一致する
		results := engine.Search("hao", ModeScript)
		require.Len(t, results, 3)
		assert.Equal(t, "好", results[0].Entry.Simplified)
		assert.InDelta(t, 1.0, results[0].Score, 1e-9)
		// 同点 (0.84) の2件は辞書の収録順を保つ
		assert.Equal(t, "你好", results[1].Entry.Simplified)
		assert.InDelta(t, 0.84, results[1].Score, 1e-9)
		assert.Equal(t, "好的", results[2].Entry.Simplified)
		assert.InDelta(t, 0.84, results[2].Score, 1e-9)
	})

	t.Run("正常系: 閾値以下のエントリは除外される", func(t *testing.T) {
		results := engine.Search("zzzzzz", ModeScript)
		assert.Empty(t, results)
	})

	t.Run("正常系: 空クエリは空の結果", func(t *testing.T) {
		assert.Empty(t, engine.Search("", ModeScript))
		assert.Empty(t, engine.Search("  !? ", ModeScript))
	})
}

func TestEngine_Search_Gloss(t *testing.T) {
	engine := NewEngine(testEntries())

	t.Run("正常系: 定義の完全一致", func(t *testing.T) {
		results := engine.Search("hello", ModeGloss)
		require.Len(t, results, 1)
		assert.Equal(t, "你好", results[0].Entry.Simplified)
		assert.InDelta(t, 1.0, results[0].Score, 1e-9)
	})

	t.Run("正常系: 複数定義のうち最大スコアを採用", func(t *testing.T) {
		results := engine.Search("thanks", ModeGloss)
		require.Len(t, results, 1)
		assert.Equal(t, "谢谢", results[0].Entry.Simplified)
	})

	t.Run("正常系: scriptモードでは定義にヒットしない", func(t *testing.T) {
		results := engine.Search("hello", ModeScript)
		assert.Empty(t, results)
	})
}
