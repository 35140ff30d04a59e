// internal/service/user_service_test.go
package service

import (
	"context"
	"errors"
	"testing"

	"go_hanzi_keep/internal/model"
	"go_hanzi_keep/internal/repository/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newUserServiceForTest(t *testing.T) (UserService, *mocks.UserRepository, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	userRepo := new(mocks.UserRepository)
	return NewUserService(db, userRepo), userRepo, db
}

func Test_userService_CreateUser(t *testing.T) {
	ctx := context.Background()
	req := &model.CreateUserRequest{Name: "学習太郎", Email: "taro@example.com"}

	t.Run("正常系: ユーザー作成成功", func(t *testing.T) {
		svc, userRepo, db := newUserServiceForTest(t)

		userRepo.On("Create", ctx, db, mock.AnythingOfType("*model.User")).Return(nil).Once()

		user, err := svc.CreateUser(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, "学習太郎", user.Name)
		assert.Equal(t, "taro@example.com", user.Email)
		assert.NotEqual(t, uuid.Nil, user.UserID)
		userRepo.AssertExpectations(t)
	})

	t.Run("異常系: メールアドレス重複はConflict", func(t *testing.T) {
		svc, userRepo, db := newUserServiceForTest(t)

		userRepo.On("Create", ctx, db, mock.AnythingOfType("*model.User")).
			Return(model.ErrConflict).Once()

		user, err := svc.CreateUser(ctx, req)
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrConflict)
		assert.Nil(t, user)
		userRepo.AssertExpectations(t)
	})

	t.Run("異常系: リポジトリでDBエラー", func(t *testing.T) {
		svc, userRepo, db := newUserServiceForTest(t)

		userRepo.On("Create", ctx, db, mock.AnythingOfType("*model.User")).
			Return(errors.New("db error")).Once()

		user, err := svc.CreateUser(ctx, req)
		require.Error(t, err)
		assert.Nil(t, user)
		userRepo.AssertExpectations(t)
	})
}

func Test_userService_GetUser(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("正常系: ユーザー取得成功", func(t *testing.T) {
		svc, userRepo, db := newUserServiceForTest(t)

		userRepo.On("FindByID", ctx, db, userID).
			Return(&model.User{UserID: userID, Name: "学習太郎"}, nil).Once()

		user, err := svc.GetUser(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, userID, user.UserID)
		userRepo.AssertExpectations(t)
	})

	t.Run("異常系: 存在しないユーザーはErrUserNotFound", func(t *testing.T) {
		svc, userRepo, db := newUserServiceForTest(t)

		userRepo.On("FindByID", ctx, db, userID).Return(nil, model.ErrNotFound).Once()

		user, err := svc.GetUser(ctx, userID)
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrUserNotFound)
		assert.Nil(t, user)
		userRepo.AssertExpectations(t)
	})
}
