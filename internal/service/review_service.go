// internal/service/review_service.go
package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"go_hanzi_keep/internal/config"
	"go_hanzi_keep/internal/middleware"
	"go_hanzi_keep/internal/model"
	"go_hanzi_keep/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReviewService は復習スケジュールの読み書きを担当します
type ReviewService interface {
	SubmitReview(ctx context.Context, userID, deckID, wordID uuid.UUID, performance int) (*model.SrsReview, error)
	GetDueReviews(ctx context.Context, userID uuid.UUID, deckID *uuid.UUID) ([]*model.DueReviewResponse, error)
	GetStudyOrder(ctx context.Context, userID, deckID uuid.UUID) ([]*model.StudyItem, error)
}

type reviewService struct {
	db         *gorm.DB
	deckRepo   repository.DeckRepository
	wordRepo   repository.WordRepository
	reviewRepo repository.ReviewRepository
	cfg        *config.Config
	clock      func() time.Time
}

func NewReviewService(db *gorm.DB, deckRepo repository.DeckRepository, wordRepo repository.WordRepository, reviewRepo repository.ReviewRepository, cfg *config.Config) ReviewService {
	return &reviewService{
		db:         db,
		deckRepo:   deckRepo,
		wordRepo:   wordRepo,
		reviewRepo: reviewRepo,
		cfg:        cfg,
		clock:      time.Now,
	}
}

// SubmitReview は復習結果を記録し、更新後のスケジュール状態を返します。
// 評価の範囲チェックはストアへのアクセスより前に行い、違反時は
// 既存の状態を一切変更しません。更新はトランザクション内のUpsertで
// 原子的に行われ、途中状態が残ることはありません。
func (s *reviewService) SubmitReview(ctx context.Context, userID, deckID, wordID uuid.UUID, performance int) (*model.SrsReview, error) {
	logger := middleware.GetLogger(ctx).With("user_id", userID, "word_id", wordID)

	if !validPerformance(performance) {
		logger.Warn("Rejected review with out-of-range performance", "performance", performance)
		return nil, model.NewAppError("INVALID_PERFORMANCE", "評価は1〜5の整数で指定してください。", "performance", model.ErrInvalidPerformance)
	}

	var review *model.SrsReview
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// デッキの所有と単語の収録を確認してから記録する
		if _, err := s.deckRepo.FindByID(ctx, tx, userID, deckID); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.NewAppError("NOT_FOUND", "デッキが見つかりません。", "deck_id", model.ErrNotFound)
			}
			return err
		}
		if _, err := s.wordRepo.FindByID(ctx, tx, deckID, wordID); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.NewAppError("NOT_FOUND", "単語が見つかりません。", "word_id", model.ErrNotFound)
			}
			return err
		}

		prev, err := s.reviewRepo.FindByUserAndWord(ctx, tx, userID, wordID)
		if err != nil && !errors.Is(err, model.ErrNotFound) {
			logger.Error("Error finding review in transaction", "error", err)
			return err
		}
		if errors.Is(err, model.ErrNotFound) {
			prev = nil
		}

		easeFactor, intervalDays := calculateSrsParameters(prev, performance)

		now := s.clock()
		review = &model.SrsReview{
			ReviewID:        uuid.New(),
			UserID:          userID,
			WordID:          wordID,
			DeckID:          deckID,
			EaseFactor:      easeFactor,
			IntervalDays:    intervalDays,
			LastPerformance: performance,
			LastReviewedAt:  now,
			NextReviewAt:    now.AddDate(0, 0, intervalDays),
		}

		if err := s.reviewRepo.Upsert(ctx, tx, review); err != nil {
			logger.Error("Error upserting review", "error", err)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Review recorded",
		"performance", performance,
		"interval_days", review.IntervalDays,
		"next_review_at", review.NextReviewAt,
	)
	return review, nil
}

// GetDueReviews は期限が到来した復習対象を返します (読み取り専用)。
// deckID を指定すると対象デッキに絞り込みます。
func (s *reviewService) GetDueReviews(ctx context.Context, userID uuid.UUID, deckID *uuid.UUID) ([]*model.DueReviewResponse, error) {
	logger := middleware.GetLogger(ctx).With("user_id", userID)

	reviews, err := s.reviewRepo.FindDueByUser(ctx, s.db, userID, deckID, s.clock(), s.cfg.App.ReviewLimit)
	if err != nil {
		logger.Error("Failed to find due reviews from repository", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "復習対象の取得に失敗しました。", "", err)
	}

	responses := make([]*model.DueReviewResponse, 0, len(reviews))
	for _, rev := range reviews {
		if rev.Word == nil {
			logger.Warn("Found review with nil Word, skipping", "word_id", rev.WordID)
			continue
		}
		responses = append(responses, &model.DueReviewResponse{
			WordID:       rev.WordID,
			DeckID:       rev.DeckID,
			Simplified:   rev.Word.Simplified,
			Traditional:  rev.Word.Traditional,
			Pinyin:       rev.Word.Pinyin,
			Definitions:  rev.Word.DefinitionList(),
			IntervalDays: rev.IntervalDays,
			NextReviewAt: rev.NextReviewAt,
		})
	}

	logger.Info("Successfully retrieved due reviews", "count", len(responses))
	return responses, nil
}

// GetStudyOrder は学習セッション用の並び順を返します。
// 未復習の単語は即時学習対象として先頭に置き、復習済みの単語は
// 期限の早い順に続けます (同着は収録順のまま安定)。
func (s *reviewService) GetStudyOrder(ctx context.Context, userID, deckID uuid.UUID) ([]*model.StudyItem, error) {
	logger := middleware.GetLogger(ctx).With("user_id", userID, "deck_id", deckID)

	if _, err := s.deckRepo.FindByID(ctx, s.db, userID, deckID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("NOT_FOUND", "デッキが見つかりません。", "deck_id", model.ErrNotFound)
		}
		return nil, err
	}

	words, err := s.wordRepo.FindByDeck(ctx, s.db, deckID)
	if err != nil {
		logger.Error("Failed to find deck words", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "単語の取得に失敗しました。", "", err)
	}

	reviews, err := s.reviewRepo.FindByUserAndDeck(ctx, s.db, userID, deckID)
	if err != nil {
		logger.Error("Failed to find reviews for study order", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "復習状態の取得に失敗しました。", "", err)
	}
	reviewByWord := make(map[uuid.UUID]*model.SrsReview, len(reviews))
	for _, rev := range reviews {
		reviewByWord[rev.WordID] = rev
	}

	items := make([]*model.StudyItem, 0, len(words))
	for _, word := range words {
		item := &model.StudyItem{
			Word: model.WordResponse{
				WordID:      word.WordID,
				Simplified:  word.Simplified,
				Traditional: word.Traditional,
				Pinyin:      word.Pinyin,
				Definitions: word.DefinitionList(),
			},
		}
		if rev, ok := reviewByWord[word.WordID]; ok {
			perf := rev.LastPerformance
			next := rev.NextReviewAt
			item.LastPerformance = &perf
			item.NextReviewAt = &next
		} else {
			item.IsNew = true
		}
		items = append(items, item)
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].IsNew != items[j].IsNew {
			return items[i].IsNew
		}
		if items[i].NextReviewAt == nil || items[j].NextReviewAt == nil {
			return false // 比較できない期限同士は同順として安定に保つ
		}
		return items[i].NextReviewAt.Before(*items[j].NextReviewAt)
	})

	logger.Info("Study order generated", "count", len(items))
	return items, nil
}
