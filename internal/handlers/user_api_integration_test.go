//go:build integration

// user_api_integration_test.go
//
// PostgreSQLコンテナ (dockertest) を使う統合テスト。
// 実行には Docker が必要です: go test -tags integration ./internal/handlers/
package handlers_test

import (
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"go_hanzi_keep/internal/config"
	"go_hanzi_keep/internal/handlers"
	"go_hanzi_keep/internal/middleware"
	"go_hanzi_keep/internal/model"
	"go_hanzi_keep/internal/repository"
	"go_hanzi_keep/internal/service"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var testDB *gorm.DB
var testLogger *slog.Logger

const dbContainerName = "test_postgres_hanzi_keep"

func TestMain(m *testing.M) {
	testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	slog.SetDefault(testLogger)

	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Fatalf("Could not construct pool: %s", err)
	}
	pool.MaxWait = 120 * time.Second

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Name:       dbContainerName,
		Repository: "postgres",
		Tag:        "15-alpine",
		Env: []string{
			"POSTGRES_USER=user",
			"POSTGRES_PASSWORD=secret",
			"POSTGRES_DB=hanzi_keep",
			"listen_addresses = '*'",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("Could not start PostgreSQL resource: %s", err)
	}

	hostMappedPort := resource.GetPort("5432/tcp")
	gormDSN := fmt.Sprintf("host=localhost port=%s user=user password=secret dbname=hanzi_keep sslmode=disable TimeZone=Asia/Tokyo", hostMappedPort)

	if err = pool.Retry(func() error {
		var errRetry error
		testDB, errRetry = gorm.Open(postgres.Open(gormDSN), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		if errRetry != nil {
			return errRetry
		}
		sqlDB, errRetry := testDB.DB()
		if errRetry != nil {
			testDB = nil
			return errRetry
		}
		return sqlDB.Ping()
	}); err != nil {
		if pErr := pool.Purge(resource); pErr != nil {
			log.Printf("Warning: Could not purge resource: %s", pErr)
		}
		log.Fatalf("Could not connect to PostgreSQL container after retries: %s", err)
	}

	if err := testDB.AutoMigrate(&model.User{}, &model.Deck{}, &model.Word{}, &model.SrsReview{}); err != nil {
		log.Fatalf("Could not migrate database: %s", err)
	}

	code := m.Run()

	if err := pool.Purge(resource); err != nil {
		log.Fatalf("Could not purge PostgreSQL resource: %s", err)
	}

	os.Exit(code)
}

func clearTable(t *testing.T, db *gorm.DB, models ...interface{}) {
	t.Helper()
	for _, m := range models {
		require.NoError(t, db.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(m).Error)
	}
}

func setupIntegrationServer(t *testing.T) *httptest.Server {
	t.Helper()
	require.NotNil(t, testDB, "TestDB should have been initialized in TestMain")

	cfg := &config.Config{}
	cfg.App.ReviewLimit = 20
	cfg.App.SearchLimit = 15

	userRepo := repository.NewGormUserRepository()
	deckRepo := repository.NewGormDeckRepository()
	wordRepo := repository.NewGormWordRepository()
	reviewRepo := repository.NewGormReviewRepository()

	userService := service.NewUserService(testDB, userRepo)
	deckService := service.NewDeckService(testDB, deckRepo, wordRepo)
	reviewService := service.NewReviewService(testDB, deckRepo, wordRepo, reviewRepo, cfg)

	userHandler := handlers.NewUserHandler(userService, testLogger)
	deckHandler := handlers.NewDeckHandler(deckService, testLogger)
	reviewHandler := handlers.NewReviewHandler(reviewService, testLogger)

	authenticator := middleware.NewServiceUserAuthenticator(userService)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(10 * time.Second))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/users", userHandler.PostUser)
		r.Group(func(r chi.Router) {
			r.Use(middleware.UserAuthMiddleware(authenticator))
			r.Route("/decks", func(r chi.Router) {
				r.Post("/", deckHandler.PostDeck)
				r.Post("/{deck_id}/words", deckHandler.PostWord)
			})
			r.Put("/reviews/{word_id}/result", reviewHandler.PutReviewResult)
		})
	})

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return server
}

func TestIntegration_CreateUser_DuplicateEmail(t *testing.T) {
	server := setupIntegrationServer(t)
	clearTable(t, testDB, &model.SrsReview{}, &model.Word{}, &model.Deck{}, &model.User{})

	payload := map[string]string{"name": "学習太郎", "email": "taro@example.com"}

	resp, body := doJSON(t, http.MethodPost, server.URL+"/api/v1/users", "", payload)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	// PostgreSQLの一意制約違反 (23505) がConflictに変換される
	resp, body = doJSON(t, http.MethodPost, server.URL+"/api/v1/users", "", payload)
	require.Equal(t, http.StatusConflict, resp.StatusCode, string(body))

	var errResp model.APIErrorResponse
	require.NoError(t, json.Unmarshal(body, &errResp))
	assert.Equal(t, "CONFLICT", errResp.Error.Code)
}

func TestIntegration_ReviewUpsert(t *testing.T) {
	server := setupIntegrationServer(t)
	clearTable(t, testDB, &model.SrsReview{}, &model.Word{}, &model.Deck{}, &model.User{})

	userID := createTestUser(t, server)

	resp, body := doJSON(t, http.MethodPost, server.URL+"/api/v1/decks", userID, map[string]string{"name": "HSK1"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var deck model.DeckResponse
	require.NoError(t, json.Unmarshal(body, &deck))

	resp, body = doJSON(t, http.MethodPost, fmt.Sprintf("%s/api/v1/decks/%s/words", server.URL, deck.DeckID), userID, map[string]any{
		"simplified":  "你好",
		"pinyin":      "ni3 hao3",
		"definitions": []string{"hello"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var word model.WordResponse
	require.NoError(t, json.Unmarshal(body, &word))

	// 2回送信してもON CONFLICTで1行のまま更新される
	for _, p := range []int{5, 1} {
		resp, body = doJSON(t, http.MethodPut, fmt.Sprintf("%s/api/v1/reviews/%s/result", server.URL, word.WordID), userID, map[string]any{
			"deck_id":     deck.DeckID,
			"performance": p,
		})
		require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	}

	var count int64
	require.NoError(t, testDB.Model(&model.SrsReview{}).
		Where("user_id = ? AND word_id = ?", uuid.MustParse(userID), word.WordID).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var review model.SrsReview
	require.NoError(t, testDB.Where("word_id = ?", word.WordID).First(&review).Error)
	assert.Equal(t, 1, review.LastPerformance)
	assert.Equal(t, 1, review.IntervalDays)
	// 評価1ではイージーファクターが初期値のまま保持される
	assert.InDelta(t, 2.5, review.EaseFactor, 1e-9)
}
