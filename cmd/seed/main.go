// cmd/seed/main.go
//
// ローカル開発用のデータ投入ツール。
// デモユーザーと、辞書から引いた単語入りのデッキを1つ作成します。
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"go_hanzi_keep/internal/config"
	"go_hanzi_keep/internal/lexicon"
	"go_hanzi_keep/internal/model"
	"go_hanzi_keep/internal/repository"
	"go_hanzi_keep/internal/search"

	"github.com/google/uuid"
)

// デモデッキに入れる検索クエリ
var seedQueries = []string{"nihao", "xiexie", "zaijian", "laoshi", "pengyou"}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if err := config.LoadConfig("./configs"); err != nil {
		logger.Error("Error loading configuration", slog.Any("error", err))
		os.Exit(1)
	}

	entries, err := lexicon.Load(config.Cfg.Lexicon.Path)
	if err != nil {
		logger.Error("Error loading lexicon file", slog.String("path", config.Cfg.Lexicon.Path), slog.Any("error", err))
		os.Exit(1)
	}
	engine := search.NewEngine(entries)

	db, err := repository.NewDB(config.Cfg.Database.URL, logger)
	if err != nil {
		logger.Error("Error initializing database", slog.Any("error", err))
		os.Exit(1)
	}
	if err := db.AutoMigrate(&model.User{}, &model.Deck{}, &model.Word{}, &model.SrsReview{}); err != nil {
		logger.Error("Error migrating database schema", slog.Any("error", err))
		os.Exit(1)
	}

	user := &model.User{
		UserID: uuid.New(),
		Name:   "デモユーザー",
		Email:  fmt.Sprintf("demo+%s@example.com", uuid.NewString()[:8]),
	}
	if err := db.Create(user).Error; err != nil {
		logger.Error("Error creating demo user", slog.Any("error", err))
		os.Exit(1)
	}

	deck := &model.Deck{
		DeckID: uuid.New(),
		UserID: user.UserID,
		Name:   "入門デッキ",
	}
	if err := db.Create(deck).Error; err != nil {
		logger.Error("Error creating demo deck", slog.Any("error", err))
		os.Exit(1)
	}

	added := 0
	for _, q := range seedQueries {
		results := engine.Search(q, search.ModeScript)
		if len(results) == 0 {
			logger.Warn("No lexicon entry for seed query", slog.String("query", q))
			continue
		}
		top := results[0].Entry
		word := &model.Word{
			WordID:      uuid.New(),
			DeckID:      deck.DeckID,
			Simplified:  top.Simplified,
			Traditional: top.Traditional,
			Pinyin:      top.Pinyin,
			Definitions: strings.Join(top.Definitions, "/"),
		}
		if err := db.Create(word).Error; err != nil {
			logger.Error("Error creating seed word", slog.String("simplified", top.Simplified), slog.Any("error", err))
			os.Exit(1)
		}
		added++
	}

	logger.Info("Seed completed",
		slog.String("user_id", user.UserID.String()),
		slog.String("deck_id", deck.DeckID.String()),
		slog.Int("words", added),
	)
	fmt.Printf("X-User-ID: %s\n", user.UserID)
}
