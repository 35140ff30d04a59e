// internal/handlers/review_handler.go
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"go_hanzi_keep/internal/middleware"
	"go_hanzi_keep/internal/model"
	"go_hanzi_keep/internal/service"
	"go_hanzi_keep/internal/webutil"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type ReviewHandler struct {
	service service.ReviewService
	logger  *slog.Logger
}

func NewReviewHandler(s service.ReviewService, logger *slog.Logger) *ReviewHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReviewHandler{
		service: s,
		logger:  logger,
	}
}

// PutReviewResult は復習結果を記録するためのハンドラ
func (h *ReviewHandler) PutReviewResult(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PutReviewResult"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()))

	wordIDStr := chi.URLParam(r, "word_id")
	wordID, err := uuid.Parse(wordIDStr)
	if err != nil {
		logger.Warn("Invalid word ID format in URL", slog.String("word_id_str", wordIDStr), slog.String("error", err.Error()))
		appErr := model.NewAppError("INVALID_URL_PARAM", "word_idの形式が正しくありません。", "word_id", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("word_id", wordID.String()))

	var req model.SubmitReviewRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode request body", slog.String("error", err.Error()))
		appErr := model.NewAppError("INVALID_REQUEST_BODY", "リクエストボディの形式が正しくありません。", "", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}

	if err := webutil.Validator.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			logger.Warn("Validation failed", slog.Any("errors", validationErrors.Error()))
			firstErr := validationErrors[0]
			appErr := model.NewAppError(
				"VALIDATION_ERROR",
				firstErr.Translate(webutil.Trans),
				firstErr.Field(),
				model.ErrInvalidInput,
			)
			webutil.HandleError(w, logger, appErr)
		} else {
			logger.Error("Unexpected error during validation", slog.Any("error", err))
			webutil.HandleError(w, logger, err)
		}
		return
	}

	// 評価の範囲 (1〜5) チェックはサービス層の契約なのでここでは行わない
	review, err := h.service.SubmitReview(r.Context(), userID, req.DeckID, wordID, *req.Performance)
	if err != nil {
		if errors.Is(err, model.ErrInvalidPerformance) || errors.Is(err, model.ErrNotFound) {
			logger.Warn("Review submission rejected", slog.Any("error", err))
		} else {
			logger.Error("Error submitting review in service", slog.Any("error", err))
		}
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Review result recorded successfully",
		slog.Int("performance", review.LastPerformance),
		slog.Int("interval_days", review.IntervalDays),
	)
	webutil.RespondWithJSON(w, http.StatusOK, review, logger)
}

// GetDueReviews は復習期限が到来した単語の一覧を取得するためのハンドラ。
// deck_id クエリパラメータで対象デッキを絞り込めます。
func (h *ReviewHandler) GetDueReviews(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetDueReviews"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()))

	var deckID *uuid.UUID
	if deckIDStr := r.URL.Query().Get("deck_id"); deckIDStr != "" {
		parsed, err := uuid.Parse(deckIDStr)
		if err != nil {
			logger.Warn("Invalid deck ID format in query", slog.String("deck_id_str", deckIDStr))
			appErr := model.NewAppError("INVALID_URL_PARAM", "deck_idの形式が正しくありません。", "deck_id", model.ErrInvalidInput)
			webutil.HandleError(w, logger, appErr)
			return
		}
		deckID = &parsed
	}

	reviews, err := h.service.GetDueReviews(r.Context(), userID, deckID)
	if err != nil {
		logger.Error("Error listing due reviews in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	if reviews == nil {
		reviews = []*model.DueReviewResponse{}
	}
	logger.Info("Due reviews listed successfully", slog.Int("count", len(reviews)))
	webutil.RespondWithJSON(w, http.StatusOK, reviews, logger)
}

// GetStudyOrder はデッキの学習順 (新規単語→期限の早い順) を取得するためのハンドラ
func (h *ReviewHandler) GetStudyOrder(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetStudyOrder"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()))

	deckID, ok := parseDeckID(w, r, logger)
	if !ok {
		return
	}

	items, err := h.service.GetStudyOrder(r.Context(), userID, deckID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Info("Deck not found in service", slog.Any("error", err))
		} else {
			logger.Error("Error getting study order in service", slog.Any("error", err))
		}
		webutil.HandleError(w, logger, err)
		return
	}

	if items == nil {
		items = []*model.StudyItem{}
	}
	logger.Info("Study order retrieved successfully", slog.Int("count", len(items)))
	webutil.RespondWithJSON(w, http.StatusOK, items, logger)
}
