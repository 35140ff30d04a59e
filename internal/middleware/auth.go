package middleware

import (
	"context"
	"net/http"

	"go_hanzi_keep/internal/model"
	"go_hanzi_keep/internal/webutil"

	"github.com/google/uuid"
)

// 本アプリに認証機構はありません (セッション・パスワード等は対象外)。
// X-User-ID ヘッダーを「呼び出しユーザーを解決するコラボレータ」として扱い、
// DB上に実在するユーザーかだけを検証してコンテキストに載せます。

// UserResolver はユーザーIDからユーザーを引くための最小インターフェースです。
// service.UserService がこれを満たします。
type UserResolver interface {
	GetUser(ctx context.Context, userID uuid.UUID) (*model.User, error)
}

// UserAuthenticator はリクエストのユーザーIDを検証します
type UserAuthenticator interface {
	Authenticate(ctx context.Context, userID uuid.UUID) error
}

type serviceUserAuthenticator struct {
	resolver UserResolver
}

func NewServiceUserAuthenticator(resolver UserResolver) UserAuthenticator {
	return &serviceUserAuthenticator{resolver: resolver}
}

func (a *serviceUserAuthenticator) Authenticate(ctx context.Context, userID uuid.UUID) error {
	if _, err := a.resolver.GetUser(ctx, userID); err != nil {
		return model.ErrUserNotFound
	}
	return nil
}

// UserAuthMiddleware は X-User-ID ヘッダーを検証し、
// ユーザーIDをリクエストコンテキストに設定するミドルウェアです。
func UserAuthMiddleware(authenticator UserAuthenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := GetLogger(r.Context())

			userIDStr := r.Header.Get("X-User-ID")
			if userIDStr == "" {
				logger.Warn("User auth failed: X-User-ID header missing")
				appErr := model.NewAppError("UNAUTHORIZED", "X-User-IDヘッダーが必要です。", "", model.ErrForbidden)
				webutil.HandleError(w, logger, appErr)
				return
			}

			userID, err := uuid.Parse(userIDStr)
			if err != nil {
				logger.Warn("User auth failed: Invalid X-User-ID format", "user_id", userIDStr)
				appErr := model.NewAppError("UNAUTHORIZED", "X-User-IDの形式が正しくありません。", "", model.ErrForbidden)
				webutil.HandleError(w, logger, appErr)
				return
			}

			if err := authenticator.Authenticate(r.Context(), userID); err != nil {
				logger.Warn("User auth failed: Unknown user", "user_id", userID.String())
				appErr := model.NewAppError("UNAUTHORIZED", "ユーザーが見つかりません。", "", model.ErrUserNotFound)
				webutil.HandleError(w, logger, appErr)
				return
			}

			ctx := context.WithValue(r.Context(), model.UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// DevUserAuthMiddleware はDB照合なしで X-User-ID を信用する開発用ミドルウェアです。
// auth.enabled=false のときだけ使われます。
func DevUserAuthMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := GetLogger(r.Context())

			userID, err := uuid.Parse(r.Header.Get("X-User-ID"))
			if err != nil {
				logger.Warn("Dev auth failed: Invalid or missing X-User-ID header")
				appErr := model.NewAppError("UNAUTHORIZED", "X-User-IDヘッダーが必要です。", "", model.ErrForbidden)
				webutil.HandleError(w, logger, appErr)
				return
			}

			ctx := context.WithValue(r.Context(), model.UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserIDFromContext はコンテキストからユーザーIDを取得します
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, error) {
	value, ok := ctx.Value(model.UserIDKey).(uuid.UUID)
	if !ok {
		// ミドルウェアを通っていない等の内部エラー
		return uuid.Nil, model.NewAppError("INTERNAL_SERVER_ERROR", "コンテキストからユーザー情報を取得できませんでした。", "", model.ErrInternalServer)
	}
	return value, nil
}
