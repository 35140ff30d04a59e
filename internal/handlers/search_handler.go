// internal/handlers/search_handler.go
package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"go_hanzi_keep/internal/search"
	"go_hanzi_keep/internal/service"
	"go_hanzi_keep/internal/webutil"
)

type SearchHandler struct {
	service service.SearchService
	logger  *slog.Logger
}

func NewSearchHandler(s service.SearchService, logger *slog.Logger) *SearchHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SearchHandler{
		service: s,
		logger:  logger,
	}
}

// GetSearch は辞書検索のためのハンドラ。認証不要の公開エンドポイントです。
// 空クエリはエラーにせず、結果0件の正常レスポンスを返します。
func (h *SearchHandler) GetSearch(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetSearch"))

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	mode := search.ParseMode(r.URL.Query().Get("mode"))

	resp, err := h.service.Search(r.Context(), query, mode)
	if err != nil {
		logger.Error("Error searching lexicon in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Search completed successfully", slog.String("query", query), slog.Int("count", resp.Count))
	webutil.RespondWithJSON(w, http.StatusOK, resp, logger)
}
