// internal/handlers/api_test.go
package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go_hanzi_keep/internal/config"
	"go_hanzi_keep/internal/handlers"
	"go_hanzi_keep/internal/lexicon"
	"go_hanzi_keep/internal/middleware"
	"go_hanzi_keep/internal/model"
	"go_hanzi_keep/internal/repository"
	"go_hanzi_keep/internal/search"
	"go_hanzi_keep/internal/service"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// setupAPITestServer はインメモリSQLiteと実物のサービス層でAPI全体を組み立てます。
// PostgreSQL固有の挙動 (一意制約違反のエラーコード等) は統合テスト側で検証します。
func setupAPITestServer(t *testing.T) *httptest.Server {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Deck{}, &model.Word{}, &model.SrsReview{}))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	entries := []lexicon.Entry{
		{Traditional: "你好", Simplified: "你好", Pinyin: "ni3 hao3", Definitions: []string{"hello", "hi"}},
		{Traditional: "謝謝", Simplified: "谢谢", Pinyin: "xie4 xie4", Definitions: []string{"thanks"}},
	}
	engine := search.NewEngine(entries)

	cfg := &config.Config{}
	cfg.App.ReviewLimit = 20
	cfg.App.SearchLimit = 15

	userRepo := repository.NewGormUserRepository()
	deckRepo := repository.NewGormDeckRepository()
	wordRepo := repository.NewGormWordRepository()
	reviewRepo := repository.NewGormReviewRepository()

	userService := service.NewUserService(db, userRepo)
	deckService := service.NewDeckService(db, deckRepo, wordRepo)
	reviewService := service.NewReviewService(db, deckRepo, wordRepo, reviewRepo, cfg)
	searchService := service.NewSearchService(engine, cfg)

	userHandler := handlers.NewUserHandler(userService, logger)
	deckHandler := handlers.NewDeckHandler(deckService, logger)
	reviewHandler := handlers.NewReviewHandler(reviewService, logger)
	searchHandler := handlers.NewSearchHandler(searchService, logger)

	authenticator := middleware.NewServiceUserAuthenticator(userService)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(5 * time.Second))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/users", userHandler.PostUser)
		r.Get("/search", searchHandler.GetSearch)

		r.Group(func(r chi.Router) {
			r.Use(middleware.UserAuthMiddleware(authenticator))
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

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return server
}

func doJSON(t *testing.T, method, url, userID string, payload any) (*http.Response, []byte) {
	t.Helper()
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, respBody
}

func createTestUser(t *testing.T, server *httptest.Server) string {
	t.Helper()
	resp, body := doJSON(t, http.MethodPost, server.URL+"/api/v1/users", "", map[string]string{
		"name":  "学習太郎",
		"email": fmt.Sprintf("%s@example.com", uuid.NewString()),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var user model.UserResponse
	require.NoError(t, json.Unmarshal(body, &user))
	return user.UserID.String()
}

func TestAPI_CreateUser(t *testing.T) {
	server := setupAPITestServer(t)

	t.Run("正常系: ユーザー作成", func(t *testing.T) {
		resp, body := doJSON(t, http.MethodPost, server.URL+"/api/v1/users", "", map[string]string{
			"name":  "学習太郎",
			"email": "taro@example.com",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

		var user model.UserResponse
		require.NoError(t, json.Unmarshal(body, &user))
		assert.NotEqual(t, uuid.Nil, user.UserID)
		assert.Equal(t, "学習太郎", user.Name)
	})

	t.Run("異常系: メールアドレス形式不正", func(t *testing.T) {
		resp, body := doJSON(t, http.MethodPost, server.URL+"/api/v1/users", "", map[string]string{
			"name":  "学習太郎",
			"email": "not-an-email",
		})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var errResp model.APIErrorResponse
		require.NoError(t, json.Unmarshal(body, &errResp))
		assert.Equal(t, "VALIDATION_ERROR", errResp.Error.Code)
		assert.Equal(t, "email", errResp.Error.Field)
	})

	t.Run("異常系: 未知のフィールドは拒否", func(t *testing.T) {
		resp, _ := doJSON(t, http.MethodPost, server.URL+"/api/v1/users", "", map[string]string{
			"name": "x", "email": "x@example.com", "unknown": "y",
		})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestAPI_Search(t *testing.T) {
	server := setupAPITestServer(t)

	t.Run("正常系: 認証なしで検索できる", func(t *testing.T) {
		resp, body := doJSON(t, http.MethodGet, server.URL+"/api/v1/search?q=nihao", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var searchResp model.SearchResponse
		require.NoError(t, json.Unmarshal(body, &searchResp))
		assert.Equal(t, 1, searchResp.Count)
		require.Len(t, searchResp.Results, 1)
		assert.Equal(t, "你好", searchResp.Results[0].Simplified)
	})

	t.Run("正常系: glossモード", func(t *testing.T) {
		resp, body := doJSON(t, http.MethodGet, server.URL+"/api/v1/search?q=thanks&mode=gloss", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var searchResp model.SearchResponse
		require.NoError(t, json.Unmarshal(body, &searchResp))
		require.Equal(t, 1, searchResp.Count)
		assert.Equal(t, "谢谢", searchResp.Results[0].Simplified)
	})

	t.Run("正常系: 空クエリは0件で200", func(t *testing.T) {
		resp, body := doJSON(t, http.MethodGet, server.URL+"/api/v1/search", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var searchResp model.SearchResponse
		require.NoError(t, json.Unmarshal(body, &searchResp))
		assert.Equal(t, 0, searchResp.Count)
	})
}

func TestAPI_AuthRequired(t *testing.T) {
	server := setupAPITestServer(t)

	t.Run("異常系: X-User-IDなし", func(t *testing.T) {
		resp, _ := doJSON(t, http.MethodGet, server.URL+"/api/v1/decks", "", nil)
		require.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("異常系: 存在しないユーザーID", func(t *testing.T) {
		resp, _ := doJSON(t, http.MethodGet, server.URL+"/api/v1/decks", uuid.NewString(), nil)
		require.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("異常系: UUIDでないユーザーID", func(t *testing.T) {
		resp, _ := doJSON(t, http.MethodGet, server.URL+"/api/v1/decks", "not-a-uuid", nil)
		require.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}

func TestAPI_DeckAndReviewFlow(t *testing.T) {
	server := setupAPITestServer(t)
	userID := createTestUser(t, server)

	// デッキ作成
	resp, body := doJSON(t, http.MethodPost, server.URL+"/api/v1/decks", userID, map[string]string{"name": "HSK1"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var deck model.DeckResponse
	require.NoError(t, json.Unmarshal(body, &deck))

	// 検索結果の単語をデッキへ追加
	resp, body = doJSON(t, http.MethodPost, fmt.Sprintf("%s/api/v1/decks/%s/words", server.URL, deck.DeckID), userID, map[string]any{
		"simplified":  "你好",
		"traditional": "你好",
		"pinyin":      "ni3 hao3",
		"definitions": []string{"hello", "hi"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var word model.WordResponse
	require.NoError(t, json.Unmarshal(body, &word))
	assert.Equal(t, []string{"hello", "hi"}, word.Definitions)

	// 同じ簡体字の二重追加は409
	resp, _ = doJSON(t, http.MethodPost, fmt.Sprintf("%s/api/v1/decks/%s/words", server.URL, deck.DeckID), userID, map[string]any{
		"simplified":  "你好",
		"pinyin":      "ni3 hao3",
		"definitions": []string{"hello"},
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	// 学習順: 未復習なので新規扱い
	resp, body = doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/v1/decks/%s/study", server.URL, deck.DeckID), userID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var items []model.StudyItem
	require.NoError(t, json.Unmarshal(body, &items))
	require.Len(t, items, 1)
	assert.True(t, items[0].IsNew)

	// 復習結果の送信 (初回・評価5 → 7日後)
	performance := 5
	resp, body = doJSON(t, http.MethodPut, fmt.Sprintf("%s/api/v1/reviews/%s/result", server.URL, word.WordID), userID, map[string]any{
		"deck_id":     deck.DeckID,
		"performance": performance,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var review model.SrsReview
	require.NoError(t, json.Unmarshal(body, &review))
	assert.InDelta(t, 2.5, review.EaseFactor, 1e-9)
	assert.Equal(t, 7, review.IntervalDays)

	// 範囲外の評価は400で、状態は変わらない
	resp, _ = doJSON(t, http.MethodPut, fmt.Sprintf("%s/api/v1/reviews/%s/result", server.URL, word.WordID), userID, map[string]any{
		"deck_id":     deck.DeckID,
		"performance": 6,
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// 次回期限は7日後なので、期限到来リストは空
	resp, body = doJSON(t, http.MethodGet, server.URL+"/api/v1/reviews/due", userID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var due []model.DueReviewResponse
	require.NoError(t, json.Unmarshal(body, &due))
	assert.Empty(t, due)

	// 学習順: 復習済みになった
	resp, body = doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/v1/decks/%s/study", server.URL, deck.DeckID), userID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &items))
	require.Len(t, items, 1)
	assert.False(t, items[0].IsNew)
	require.NotNil(t, items[0].LastPerformance)
	assert.Equal(t, 5, *items[0].LastPerformance)

	// デッキ削除で収録単語ごと消える
	resp, _ = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/api/v1/decks/%s", server.URL, deck.DeckID), userID, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/v1/decks/%s", server.URL, deck.DeckID), userID, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_DeckIsolationBetweenUsers(t *testing.T) {
	server := setupAPITestServer(t)
	userA := createTestUser(t, server)
	userB := createTestUser(t, server)

	resp, body := doJSON(t, http.MethodPost, server.URL+"/api/v1/decks", userA, map[string]string{"name": "A専用"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var deck model.DeckResponse
	require.NoError(t, json.Unmarshal(body, &deck))

	// 他ユーザーからは存在しないように見える
	resp, _ = doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/v1/decks/%s", server.URL, deck.DeckID), userB, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/api/v1/decks/%s", server.URL, deck.DeckID), userB, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
