// internal/service/deck_service.go
package service

import (
	"context"
	"errors"
	"strings"

	"go_hanzi_keep/internal/middleware"
	"go_hanzi_keep/internal/model"
	"go_hanzi_keep/internal/repository"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

// DeckService はデッキと収録単語の管理を担当します
type DeckService interface {
	CreateDeck(ctx context.Context, userID uuid.UUID, req *model.CreateDeckRequest) (*model.Deck, error)
	GetDecks(ctx context.Context, userID uuid.UUID) ([]*model.DeckResponse, error)
	GetDeck(ctx context.Context, userID, deckID uuid.UUID) (*model.DeckWithWordsResponse, error)
	DeleteDeck(ctx context.Context, userID, deckID uuid.UUID) error
	AddWord(ctx context.Context, userID, deckID uuid.UUID, req *model.AddWordRequest) (*model.Word, error)
}

type deckService struct {
	db       *gorm.DB
	deckRepo repository.DeckRepository
	wordRepo repository.WordRepository
}

func NewDeckService(db *gorm.DB, deckRepo repository.DeckRepository, wordRepo repository.WordRepository) DeckService {
	return &deckService{db: db, deckRepo: deckRepo, wordRepo: wordRepo}
}

func (s *deckService) CreateDeck(ctx context.Context, userID uuid.UUID, req *model.CreateDeckRequest) (*model.Deck, error) {
	logger := middleware.GetLogger(ctx).With("user_id", userID)

	deck := &model.Deck{
		DeckID: uuid.New(),
		UserID: userID,
		Name:   req.Name,
	}

	if err := s.deckRepo.Create(ctx, s.db, deck); err != nil {
		logger.Error("Failed to create deck in repository", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "デッキの作成に失敗しました。", "", err)
	}

	logger.Info("Deck created", "deck_id", deck.DeckID, "deck_name", deck.Name)
	return deck, nil
}

func (s *deckService) GetDecks(ctx context.Context, userID uuid.UUID) ([]*model.DeckResponse, error) {
	logger := middleware.GetLogger(ctx).With("user_id", userID)

	decks, err := s.deckRepo.FindByUser(ctx, s.db, userID)
	if err != nil {
		logger.Error("Failed to find decks from repository", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "デッキ一覧の取得に失敗しました。", "", err)
	}

	responses := lo.Map(decks, func(d *model.Deck, _ int) *model.DeckResponse {
		return &model.DeckResponse{
			DeckID:    d.DeckID,
			Name:      d.Name,
			CreatedAt: d.CreatedAt,
		}
	})
	return responses, nil
}

func (s *deckService) GetDeck(ctx context.Context, userID, deckID uuid.UUID) (*model.DeckWithWordsResponse, error) {
	logger := middleware.GetLogger(ctx).With("user_id", userID, "deck_id", deckID)

	deck, err := s.deckRepo.FindByID(ctx, s.db, userID, deckID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("NOT_FOUND", "デッキが見つかりません。", "deck_id", model.ErrNotFound)
		}
		logger.Error("Failed to find deck from repository", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "デッキの取得に失敗しました。", "", err)
	}

	words, err := s.wordRepo.FindByDeck(ctx, s.db, deckID)
	if err != nil {
		logger.Error("Failed to find deck words from repository", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "単語の取得に失敗しました。", "", err)
	}

	return &model.DeckWithWordsResponse{
		DeckID: deck.DeckID,
		Name:   deck.Name,
		Words: lo.Map(words, func(w *model.Word, _ int) model.WordResponse {
			return model.WordResponse{
				WordID:      w.WordID,
				Simplified:  w.Simplified,
				Traditional: w.Traditional,
				Pinyin:      w.Pinyin,
				Definitions: w.DefinitionList(),
			}
		}),
	}, nil
}

// DeleteDeck はデッキと収録単語をまとめて論理削除します。
// 片方だけ消えた状態を残さないため、1トランザクションで行います。
func (s *deckService) DeleteDeck(ctx context.Context, userID, deckID uuid.UUID) error {
	logger := middleware.GetLogger(ctx).With("user_id", userID, "deck_id", deckID)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.deckRepo.Delete(ctx, tx, userID, deckID); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.NewAppError("NOT_FOUND", "デッキが見つかりません。", "deck_id", model.ErrNotFound)
			}
			return err
		}
		if err := s.wordRepo.DeleteByDeck(ctx, tx, deckID); err != nil {
			logger.Error("Failed to delete deck words in transaction", "error", err)
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("Deck deleted")
	return nil
}

// AddWord は検索結果のエントリをデッキに登録します。
// 同じ簡体字が既に収録されている場合は Conflict を返します。
func (s *deckService) AddWord(ctx context.Context, userID, deckID uuid.UUID, req *model.AddWordRequest) (*model.Word, error) {
	logger := middleware.GetLogger(ctx).With("user_id", userID, "deck_id", deckID)

	var word *model.Word
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.deckRepo.FindByID(ctx, tx, userID, deckID); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.NewAppError("NOT_FOUND", "デッキが見つかりません。", "deck_id", model.ErrNotFound)
			}
			return err
		}

		exists, err := s.wordRepo.CheckSimplifiedExists(ctx, tx, deckID, req.Simplified)
		if err != nil {
			logger.Error("Failed to check word existence in transaction", "error", err)
			return err
		}
		if exists {
			return model.NewAppError("CONFLICT", "この単語は既にデッキに登録されています。", "simplified", model.ErrConflict)
		}

		word = &model.Word{
			WordID:      uuid.New(),
			DeckID:      deckID,
			Simplified:  req.Simplified,
			Traditional: req.Traditional,
			Pinyin:      req.Pinyin,
			Definitions: strings.Join(req.Definitions, "/"),
		}
		if err := s.wordRepo.Create(ctx, tx, word); err != nil {
			logger.Error("Failed to create word in transaction", "error", err)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Word added to deck", "word_id", word.WordID, "simplified", word.Simplified)
	return word, nil
}
