// internal/model/search.go
package model

// SearchEntryResponse は辞書検索結果の1エントリ
type SearchEntryResponse struct {
	Simplified  string   `json:"simplified"`
	Traditional string   `json:"traditional,omitempty"`
	Pinyin      string   `json:"pinyin"`
	Definitions []string `json:"definitions"`
}

// SearchResponse は検索APIのレスポンスDTO
type SearchResponse struct {
	Query   string                `json:"query"`
	Count   int                   `json:"count"`
	Results []SearchEntryResponse `json:"results"`
}
