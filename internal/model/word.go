// internal/model/word.go
package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Word はデッキに収録された単語を表します。
// 辞書 (Lexicon) は読み取り専用のプロセス内データなので、デッキに追加した
// 時点のエントリ内容をここへコピーして保持します。
type Word struct {
	WordID      uuid.UUID      `gorm:"type:uuid;primaryKey" json:"word_id"`
	DeckID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"-"`
	Simplified  string         `gorm:"not null" json:"simplified"`  // 簡体字
	Traditional string         `json:"traditional"`                 // 繁体字 (無い場合は空)
	Pinyin      string         `gorm:"not null" json:"pinyin"`      // 声調記号付きピンイン
	Definitions string         `gorm:"not null" json:"definitions"` // 訳語 ("/"区切り)
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"` // 論理削除用

	// 関連 (Preload用)
	SrsReview *SrsReview `gorm:"foreignKey:WordID;references:WordID" json:"-"`
}

func (Word) TableName() string {
	return "words"
}

// DefinitionList は "/" 区切りで保存された訳語をリストに戻します
func (w *Word) DefinitionList() []string {
	var defs []string
	for _, d := range strings.Split(w.Definitions, "/") {
		if d = strings.TrimSpace(d); d != "" {
			defs = append(defs, d)
		}
	}
	return defs
}

// 単語追加リクエストDTO (検索結果のエントリをそのまま送る想定)
type AddWordRequest struct {
	Simplified  string   `json:"simplified" validate:"required"`
	Traditional string   `json:"traditional"`
	Pinyin      string   `json:"pinyin" validate:"required"`
	Definitions []string `json:"definitions" validate:"required,min=1"`
}

// WordResponse はクライアントに返す単語情報
type WordResponse struct {
	WordID      uuid.UUID `json:"word_id"`
	Simplified  string    `json:"simplified"`
	Traditional string    `json:"traditional,omitempty"`
	Pinyin      string    `json:"pinyin"`
	Definitions []string  `json:"definitions"`
}
