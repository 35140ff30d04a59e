// internal/model/deck.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Deck は学習用の単語帳を表します
type Deck struct {
	DeckID    uuid.UUID      `gorm:"type:uuid;primaryKey" json:"deck_id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"-"`
	Name      string         `gorm:"not null" json:"name"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// 関連 (Preload用)
	Words []Word `gorm:"foreignKey:DeckID;references:DeckID" json:"-"`
}

func (Deck) TableName() string {
	return "decks"
}

// デッキ作成リクエストDTO
type CreateDeckRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// DeckResponse はデッキ一覧用のレスポンスDTO
type DeckResponse struct {
	DeckID    uuid.UUID `json:"deck_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// DeckWithWordsResponse はデッキ詳細 (収録単語込み) のレスポンスDTO
type DeckWithWordsResponse struct {
	DeckID uuid.UUID      `json:"deck_id"`
	Name   string         `json:"name"`
	Words  []WordResponse `json:"words"`
}
