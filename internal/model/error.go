// internal/model/error.go
package model

import (
	"errors"
	"fmt"
)

// アプリケーション固有のエラー
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidPerformance = errors.New("performance rating out of range")
	ErrInternalServer     = errors.New("internal server error")
	ErrForbidden          = errors.New("forbidden")
	ErrUserNotFound       = errors.New("user not found or invalid")
	ErrConflict           = errors.New("resource conflict") // 重複エラー用
)

// AppError はクライアントに返す情報を持つアプリケーションエラーです。
// Err にはセンチネルエラーをラップし、HTTPステータスへのマッピングは
// webutil.MapErrorToStatusCode が行います。
type AppError struct {
	Code    string // エラーコード (例: "VALIDATION_ERROR")
	Message string // クライアント向けメッセージ
	Field   string // エラーが発生したフィールド (任意)
	Err     error  // ラップされた元エラー
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError は AppError を生成します
func NewAppError(code, message, field string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Field:   field,
		Err:     err,
	}
}

// ErrorDetail はAPIエラーレスポンスに含める詳細情報
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// APIErrorResponse はAPIエラーレスポンスの構造体
type APIErrorResponse struct {
	Error ErrorDetail `json:"error"`
}
