// internal/model/review.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SrsReview は (ユーザー, 単語) ごとの復習スケジュール状態を表します。
// 履歴は持たず最新の状態のみを1行で保持し、復習のたびに上書きします。
// 不変条件: EaseFactor >= 1.3, IntervalDays >= 1,
// NextReviewAt = LastReviewedAt + IntervalDays日 (暦補正なしの単純な日数計算)。
type SrsReview struct {
	ReviewID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"-"`
	UserID          uuid.UUID      `gorm:"type:uuid;not null;index:idx_user_word,unique" json:"-"`
	WordID          uuid.UUID      `gorm:"type:uuid;not null;index:idx_user_word,unique" json:"word_id"`
	DeckID          uuid.UUID      `gorm:"type:uuid;not null;index" json:"deck_id"`
	EaseFactor      float64        `gorm:"not null" json:"ease_factor"`
	IntervalDays    int            `gorm:"not null" json:"interval_days"`
	LastPerformance int            `gorm:"not null" json:"last_performance"`
	LastReviewedAt  time.Time      `gorm:"not null" json:"last_reviewed_at"`
	NextReviewAt    time.Time      `gorm:"not null;index" json:"next_review_at"`
	CreatedAt       time.Time      `json:"-"`
	UpdatedAt       time.Time      `json:"-"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"` // Word の削除に追従

	// 関連 (Preload用)
	Word *Word `gorm:"foreignKey:WordID;references:WordID" json:"-"`
}

func (SrsReview) TableName() string {
	return "srs_reviews"
}

// SubmitReviewRequest は復習結果送信リクエストのDTO。
// Performance は 1 (完全に忘れた) 〜 5 (完璧) の自己評価。
// 範囲チェックはサービス層の契約 (ErrInvalidPerformance) で行います。
type SubmitReviewRequest struct {
	DeckID      uuid.UUID `json:"deck_id" validate:"required"`
	Performance *int      `json:"performance" validate:"required"`
}

// DueReviewResponse は復習対象の単語リストのレスポンスDTO
type DueReviewResponse struct {
	WordID       uuid.UUID `json:"word_id"`
	DeckID       uuid.UUID `json:"deck_id"`
	Simplified   string    `json:"simplified"`
	Traditional  string    `json:"traditional,omitempty"`
	Pinyin       string    `json:"pinyin"`
	Definitions  []string  `json:"definitions"`
	IntervalDays int       `json:"interval_days"`
	NextReviewAt time.Time `json:"next_review_at"`
}

// StudyItem は学習セッション用の1件分の単語です。
// 未復習 (IsNew) の単語は即時学習対象として扱います。
type StudyItem struct {
	Word            WordResponse `json:"word"`
	IsNew           bool         `json:"is_new"`
	LastPerformance *int         `json:"last_performance,omitempty"`
	NextReviewAt    *time.Time   `json:"next_review_at,omitempty"`
}
