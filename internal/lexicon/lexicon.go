// internal/lexicon/lexicon.go
package lexicon

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Entry はCC-CEDICT辞書の1エントリです。
// 起動時に一度だけ読み込み、以降は変更しません (全リクエストで共有)。
type Entry struct {
	Traditional string   // 繁体字
	Simplified  string   // 簡体字
	Pinyin      string   // 声調記号または数字声調付きピンイン
	Definitions []string // 英訳の定義リスト
}

// Load はCC-CEDICT形式のファイルを読み込みます。
// 行形式: `繁体字 簡体字 [pin1 yin1] /定義/定義/...`
// コメント行 (#) と形式不正の行はスキップします。
// 読み込み失敗はプロセスの起動失敗として扱う想定です (縮退運転なし)。
func Load(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("lexicon.Load: %w", err)
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	// 定義の長いエントリがあるためバッファを拡張しておく
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if entry, ok := parseLine(scanner.Text()); ok {
			entries = append(entries, entry)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("lexicon.Load: %w", err)
	}
	return entries, nil
}

// parseLine はCC-CEDICTの1行をパースします
func parseLine(line string) (Entry, bool) {
	if line == "" || strings.HasPrefix(line, "#") {
		return Entry{}, false
	}

	// "繁 簡 [pinyin]" と "/def/def/" に分割
	parts := strings.SplitN(line, " /", 2)
	if len(parts) < 2 {
		return Entry{}, false
	}

	head, body := parts[0], parts[1]

	bracket := strings.Index(head, "[")
	if bracket < 0 || !strings.HasSuffix(strings.TrimSpace(head), "]") {
		return Entry{}, false
	}
	chars := strings.Fields(head[:bracket])
	if len(chars) < 2 {
		return Entry{}, false
	}
	pinyin := strings.TrimSuffix(strings.TrimSpace(head[bracket+1:]), "]")

	var defs []string
	for _, d := range strings.Split(body, "/") {
		d = strings.TrimSpace(d)
		if d != "" {
			defs = append(defs, d)
		}
	}
	if len(defs) == 0 {
		return Entry{}, false
	}

	return Entry{
		Traditional: chars[0],
		Simplified:  chars[1],
		Pinyin:      pinyin,
		Definitions: defs,
	}, true
}
