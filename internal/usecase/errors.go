package usecase

import (
	"errors"
	"fmt"
	"net/http"

	"storefront/internal/validator"

	"github.com/sirupsen/logrus"
)

// handlerでJSONに変換するエラー
type HTTPError struct {
	Status  int
	Message string
	//入力エラーの一覧（400のときだけ）
	Details []string
	//元のエラー（ログ用）
	Err error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%d: %s: %v", e.Status, e.Message, e.Err)
	}
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

// 400（違反を全部返す）
func NewValidationError(v validator.Violations) error {
	return &HTTPError{
		Status:  http.StatusBadRequest,
		Message: "validation error",
		Details: []string(v),
	}
}

// 404（存在しない・他人のもの、どちらも同じ）
func NewNotFoundError() error {
	return NewHTTPError(http.StatusNotFound, "not found")
}

// 500（DBエラーは包んで返す。リトライはしない）
func NewStorageError(err error) error {
	return &HTTPError{
		Status:  http.StatusInternalServerError,
		Message: "db error",
		Err:     err,
	}
}

// ログを出してから500にする
func storageError(log logrus.FieldLogger, op string, err error) error {
	log.WithError(err).WithField("op", op).Error("storage error")
	return NewStorageError(err)
}

// WithinTxの中で返したHTTPErrorはそのまま、それ以外はDBエラー扱い
func txError(log logrus.FieldLogger, op string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := AsHTTPError(err); ok {
		return err
	}
	return storageError(log, op, err)
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// ページング共通
const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

func validatePaging(page int, limit int) error {
	if page < 1 {
		return NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if limit < 1 || limit > MaxLimit {
		return NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	return nil
}
