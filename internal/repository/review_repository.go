//go:generate mockery --name ReviewRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go_hanzi_keep/internal/middleware"
	"go_hanzi_keep/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReviewRepository interface {
	FindByUserAndWord(ctx context.Context, db *gorm.DB, userID, wordID uuid.UUID) (*model.SrsReview, error)
	Upsert(ctx context.Context, tx *gorm.DB, review *model.SrsReview) error
	FindDueByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID, deckID *uuid.UUID, now time.Time, limit int) ([]*model.SrsReview, error)
	FindByUserAndDeck(ctx context.Context, db *gorm.DB, userID, deckID uuid.UUID) ([]*model.SrsReview, error)
}

type gormReviewRepository struct{}

func NewGormReviewRepository() ReviewRepository {
	return &gormReviewRepository{}
}

func (r *gormReviewRepository) FindByUserAndWord(ctx context.Context, db *gorm.DB, userID, wordID uuid.UUID) (*model.SrsReview, error) {
	var review model.SrsReview
	result := db.WithContext(ctx).Where("user_id = ? AND word_id = ?", userID, wordID).First(&review)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("gormReviewRepository.FindByUserAndWord: %w", result.Error)
	}
	return &review, nil
}

// Upsert は (user_id, word_id) の複合ユニークキーに対する
// 更新または挿入を1文で行います。競合解決の原子性はDB側の責務で、
// サービス層は計算済みのスナップショットを渡すだけです。
func (r *gormReviewRepository) Upsert(ctx context.Context, tx *gorm.DB, review *model.SrsReview) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "word_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"deck_id",
			"ease_factor",
			"interval_days",
			"last_performance",
			"last_reviewed_at",
			"next_review_at",
			"updated_at",
		}),
	}).Create(review)
	if result.Error != nil {
		logger.Error("Error upserting review in DB",
			"error", result.Error,
			"user_id", review.UserID.String(),
			"word_id", review.WordID.String(),
		)
		return fmt.Errorf("gormReviewRepository.Upsert: %w", result.Error)
	}
	return nil
}

func (r *gormReviewRepository) FindDueByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID, deckID *uuid.UUID, now time.Time, limit int) ([]*model.SrsReview, error) {
	var reviews []*model.SrsReview

	// Wordが論理削除されていないものだけを対象にする
	query := db.WithContext(ctx).
		Preload("Word", "deleted_at IS NULL").
		Joins("JOIN words ON words.word_id = srs_reviews.word_id AND words.deleted_at IS NULL").
		Where("srs_reviews.user_id = ? AND srs_reviews.next_review_at <= ?", userID, now)
	if deckID != nil {
		query = query.Where("srs_reviews.deck_id = ?", *deckID)
	}
	result := query.
		Order("srs_reviews.next_review_at ASC").
		Limit(limit).
		Find(&reviews)

	if result.Error != nil {
		return nil, fmt.Errorf("gormReviewRepository.FindDueByUser: %w", result.Error)
	}
	return reviews, nil
}

func (r *gormReviewRepository) FindByUserAndDeck(ctx context.Context, db *gorm.DB, userID, deckID uuid.UUID) ([]*model.SrsReview, error) {
	var reviews []*model.SrsReview
	result := db.WithContext(ctx).
		Where("user_id = ? AND deck_id = ?", userID, deckID).
		Find(&reviews)
	if result.Error != nil {
		return nil, fmt.Errorf("gormReviewRepository.FindByUserAndDeck: %w", result.Error)
	}
	return reviews, nil
}
