// internal/service/search_service.go
package service

import (
	"context"

	"go_hanzi_keep/internal/config"
	"go_hanzi_keep/internal/middleware"
	"go_hanzi_keep/internal/model"
	"go_hanzi_keep/internal/search"

	"github.com/samber/lo"
)

// SearchService は辞書検索エンジンをHTTP層向けに包みます。
// エンジン自体は不変のスナップショットなので、状態を持たず並行に呼べます。
type SearchService interface {
	Search(ctx context.Context, query string, mode search.Mode) (*model.SearchResponse, error)
}

type searchService struct {
	engine *search.Engine
	cfg    *config.Config
}

func NewSearchService(engine *search.Engine, cfg *config.Config) SearchService {
	return &searchService{engine: engine, cfg: cfg}
}

// Search はエンジンの結果を上位N件に切り詰めてDTOへ変換します。
// 空クエリ・一致なしは結果0件の正常レスポンスです。
func (s *searchService) Search(ctx context.Context, query string, mode search.Mode) (*model.SearchResponse, error) {
	logger := middleware.GetLogger(ctx)

	scored := s.engine.Search(query, mode)
	if len(scored) > s.cfg.App.SearchLimit {
		scored = scored[:s.cfg.App.SearchLimit]
	}

	results := lo.Map(scored, func(se search.ScoredEntry, _ int) model.SearchEntryResponse {
		return model.SearchEntryResponse{
			Simplified:  se.Entry.Simplified,
			Traditional: se.Entry.Traditional,
			Pinyin:      se.Entry.Pinyin,
			Definitions: se.Entry.Definitions,
		}
	})

	logger.Info("Dictionary search executed", "query", query, "count", len(results))
	return &model.SearchResponse{
		Query:   query,
		Count:   len(results),
		Results: results,
	}, nil
}
