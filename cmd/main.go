// cmd/main.go
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/lmittmann/tint"
	"github.com/rs/cors"

	"go_hanzi_keep/internal/config"
	"go_hanzi_keep/internal/handlers"
	"go_hanzi_keep/internal/lexicon"
	"go_hanzi_keep/internal/middleware"
	"go_hanzi_keep/internal/model"
	"go_hanzi_keep/internal/repository"
	"go_hanzi_keep/internal/search"
	"go_hanzi_keep/internal/service"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

func main() {
	// 設定ファイル読み込み用の一時的なロガー設定
	tempLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(tempLogger)

	if err := config.LoadConfig("./configs"); err != nil {
		slog.Error("Error loading configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// === 設定に基づいて slog ロガーを初期化 ===
	logLevel := new(slog.LevelVar)
	switch strings.ToLower(config.Cfg.Log.Level) {
	case "debug":
		logLevel.Set(slog.LevelDebug)
	case "info":
		logLevel.Set(slog.LevelInfo)
	case "warn", "warning":
		logLevel.Set(slog.LevelWarn)
	case "error":
		logLevel.Set(slog.LevelError)
	default:
		logLevel.Set(slog.LevelInfo)
		slog.Warn("Unknown log level specified in config, defaulting to INFO", slog.String("level", config.Cfg.Log.Level))
	}

	// 開発環境ではtint (色付きテキスト)、それ以外はJSONで出力する
	var handler slog.Handler
	appEnv := os.Getenv("APP_ENV")
	if strings.ToLower(appEnv) == "dev" {
		tintOpts := &tint.Options{
			Level:      logLevel,
			TimeFormat: time.RFC3339,
		}
		handler = tint.NewHandler(os.Stderr, tintOpts)
		tempLogger.Info("Using TINT log handler", slog.String("APP_ENV", appEnv))
	} else {
		jsonOpts := &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		}
		handler = slog.NewJSONHandler(os.Stderr, jsonOpts)
		tempLogger.Info("Using JSON log handler", slog.String("APP_ENV", appEnv))
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)

	slog.Info("Application starting...", slog.String("app", config.AppName), slog.String("version", config.AppVersion))

	// === 辞書の読み込み (起動時に一度だけ、失敗したら起動しない) ===
	entries, err := lexicon.Load(config.Cfg.Lexicon.Path)
	if err != nil {
		slog.Error("Error loading lexicon file", slog.String("path", config.Cfg.Lexicon.Path), slog.Any("error", err))
		os.Exit(1)
	}
	engine := search.NewEngine(entries)
	slog.Info("Lexicon loaded", slog.Int("entries", len(entries)))

	// === データベース接続 (GORM) ===
	db, err := repository.NewDB(config.Cfg.Database.URL, logger)
	if err != nil {
		slog.Error("Error initializing database", slog.Any("error", err))
		os.Exit(1)
	}
	sqlDB, err := db.DB()
	if err != nil {
		slog.Error("Error getting underlying sql.DB from GORM", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			slog.Error("Error closing database connection", slog.Any("error", err))
		} else {
			slog.Info("Database connection closed.")
		}
	}()

	if err := db.AutoMigrate(&model.User{}, &model.Deck{}, &model.Word{}, &model.SrsReview{}); err != nil {
		slog.Error("Error migrating database schema", slog.Any("error", err))
		os.Exit(1)
	}

	// === Dependency Injection ===
	userRepo := repository.NewGormUserRepository()
	deckRepo := repository.NewGormDeckRepository()
	wordRepo := repository.NewGormWordRepository()
	reviewRepo := repository.NewGormReviewRepository()

	userService := service.NewUserService(db, userRepo)
	deckService := service.NewDeckService(db, deckRepo, wordRepo)
	reviewService := service.NewReviewService(db, deckRepo, wordRepo, reviewRepo, &config.Cfg)
	searchService := service.NewSearchService(engine, &config.Cfg)

	userAuthenticator := middleware.NewServiceUserAuthenticator(userService)

	userHandler := handlers.NewUserHandler(userService, logger)
	deckHandler := handlers.NewDeckHandler(deckService, logger)
	reviewHandler := handlers.NewReviewHandler(reviewService, logger)
	searchHandler := handlers.NewSearchHandler(searchService, logger)

	// === Router ===
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.LoggingMiddleware(logger))

	corsOptions := cors.Options{
		AllowedOrigins:   config.Cfg.CORS.AllowedOrigins,
		AllowedMethods:   config.Cfg.CORS.AllowedMethods,
		AllowedHeaders:   config.Cfg.CORS.AllowedHeaders,
		ExposedHeaders:   config.Cfg.CORS.ExposedHeaders,
		AllowCredentials: config.Cfg.CORS.AllowCredentials,
		MaxAge:           config.Cfg.CORS.MaxAge,
		Debug:            false,
	}
	corsHandler := cors.New(corsOptions)
	r.Use(corsHandler.Handler)

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// API Routes
	r.Route("/api/v1", func(r chi.Router) {
		// --- Public routes ---
		r.Post("/users", userHandler.PostUser)
		r.Get("/search", searchHandler.GetSearch)

		// --- Protected routes (require X-User-ID) ---
		r.Group(func(r chi.Router) {
			if config.Cfg.Auth.Enabled {
				r.Use(middleware.UserAuthMiddleware(userAuthenticator))
			} else {
				slog.Warn("User existence check is disabled (auth.enabled=false)")
				r.Use(middleware.DevUserAuthMiddleware())
			}

			r.Route("/decks", func(r chi.Router) {
				r.Post("/", deckHandler.PostDeck)
				r.Get("/", deckHandler.GetDecks)
				r.Get("/{deck_id}", deckHandler.GetDeck)
				r.Delete("/{deck_id}", deckHandler.DeleteDeck)
				r.Post("/{deck_id}/words", deckHandler.PostWord)
				r.Get("/{deck_id}/study", reviewHandler.GetStudyOrder)
			})

			r.Route("/reviews", func(r chi.Router) {
				r.Get("/due", reviewHandler.GetDueReviews)
				r.Put("/{word_id}/result", reviewHandler.PutReviewResult)
			})
		})
	})

	// Health Check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if err := sqlDB.PingContext(ctx); err != nil {
			slog.ErrorContext(ctx, "Health check failed: could not ping DB", slog.Any("error", err))
			http.Error(w, "Health check failed", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// === Start Server ===
	server := &http.Server{
		Addr:         config.Cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("Server listening", slog.String("port", config.Cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Could not listen on port", slog.String("port", config.Cfg.Server.Port), slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", slog.Any("error", err))
	}

	log.Println("Server exiting")
}
