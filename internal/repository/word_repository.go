//go:generate mockery --name WordRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"errors"
	"fmt"

	"go_hanzi_keep/internal/middleware"
	"go_hanzi_keep/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WordRepository interface {
	Create(ctx context.Context, tx *gorm.DB, word *model.Word) error
	FindByID(ctx context.Context, db *gorm.DB, deckID, wordID uuid.UUID) (*model.Word, error)
	FindByDeck(ctx context.Context, db *gorm.DB, deckID uuid.UUID) ([]*model.Word, error)
	DeleteByDeck(ctx context.Context, tx *gorm.DB, deckID uuid.UUID) error
	CheckSimplifiedExists(ctx context.Context, db *gorm.DB, deckID uuid.UUID, simplified string) (bool, error)
}

type gormWordRepository struct{}

func NewGormWordRepository() WordRepository {
	return &gormWordRepository{}
}

func (r *gormWordRepository) Create(ctx context.Context, tx *gorm.DB, word *model.Word) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Create(word)
	if result.Error != nil {
		logger.Error("Error creating word in DB",
			"error", result.Error,
			"deck_id", word.DeckID.String(),
			"simplified", word.Simplified,
		)
		return fmt.Errorf("gormWordRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormWordRepository) FindByID(ctx context.Context, db *gorm.DB, deckID, wordID uuid.UUID) (*model.Word, error) {
	logger := middleware.GetLogger(ctx)
	var word model.Word
	result := db.WithContext(ctx).Where("deck_id = ? AND word_id = ?", deckID, wordID).First(&word)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding word by ID in DB",
			"error", result.Error,
			"deck_id", deckID.String(),
			"word_id", wordID.String(),
		)
		return nil, fmt.Errorf("gormWordRepository.FindByID: %w", result.Error)
	}
	return &word, nil
}

func (r *gormWordRepository) FindByDeck(ctx context.Context, db *gorm.DB, deckID uuid.UUID) ([]*model.Word, error) {
	logger := middleware.GetLogger(ctx)
	var words []*model.Word
	result := db.WithContext(ctx).Where("deck_id = ?", deckID).Order("created_at ASC").Find(&words)
	if result.Error != nil {
		logger.Error("Error finding words by deck in DB",
			"error", result.Error,
			"deck_id", deckID.String(),
		)
		return nil, fmt.Errorf("gormWordRepository.FindByDeck: %w", result.Error)
	}
	return words, nil
}

func (r *gormWordRepository) DeleteByDeck(ctx context.Context, tx *gorm.DB, deckID uuid.UUID) error {
	logger := middleware.GetLogger(ctx)
	// デッキ削除に追従して収録単語も論理削除する
	result := tx.WithContext(ctx).Where("deck_id = ?", deckID).Delete(&model.Word{})
	if result.Error != nil {
		logger.Error("Error deleting words by deck in DB",
			"error", result.Error,
			"deck_id", deckID.String(),
		)
		return fmt.Errorf("gormWordRepository.DeleteByDeck: %w", result.Error)
	}
	return nil
}

func (r *gormWordRepository) CheckSimplifiedExists(ctx context.Context, db *gorm.DB, deckID uuid.UUID, simplified string) (bool, error) {
	logger := middleware.GetLogger(ctx)
	var count int64
	result := db.WithContext(ctx).Model(&model.Word{}).
		Where("deck_id = ? AND simplified = ?", deckID, simplified).
		Count(&count)
	if result.Error != nil {
		logger.Error("Error checking word existence in DB",
			"error", result.Error,
			"deck_id", deckID.String(),
			"simplified", simplified,
		)
		return false, fmt.Errorf("gormWordRepository.CheckSimplifiedExists: %w", result.Error)
	}
	return count > 0, nil
}
