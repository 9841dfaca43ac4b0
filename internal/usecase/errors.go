package usecase

import (
	"errors"
	"fmt"
	"net/http"

	"foodorder/internal/domain/model"
)

// クライアントに返すエラー種別
type ErrorCode string

const (
	CodeValidation        ErrorCode = "VALIDATION_ERROR"
	CodeUnauthorized      ErrorCode = "UNAUTHORIZED"
	CodeForbidden         ErrorCode = "FORBIDDEN"
	CodeNotFound          ErrorCode = "NOT_FOUND"
	CodeConflict          ErrorCode = "CONFLICT"
	CodeEmptyCart         ErrorCode = "EMPTY_CART"
	CodeInvalidTransition ErrorCode = "INVALID_TRANSITION"
	CodeRateLimited       ErrorCode = "RATE_LIMITED"
	CodeInternal          ErrorCode = "INTERNAL_ERROR"
)

type HTTPError struct {
	Status  int
	Code    ErrorCode
	Message string
	// ログ用。クライアントには出さない
	Err error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%d: %s: %v", e.Status, e.Message, e.Err)
	}
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func (e *HTTPError) Unwrap() error { return e.Err }

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Code:    codeForStatus(status),
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

func codeForStatus(status int) ErrorCode {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return CodeValidation
	case http.StatusUnauthorized:
		return CodeUnauthorized
	case http.StatusForbidden:
		return CodeForbidden
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusConflict:
		return CodeConflict
	case http.StatusTooManyRequests:
		return CodeRateLimited
	default:
		return CodeInternal
	}
}

// 原因を持ったまま500にする
func internalError(err error) error {
	return &HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    CodeInternal,
		Message: "db error",
		Err:     err,
	}
}

func errEmptyCart() error {
	return &HTTPError{Status: http.StatusBadRequest, Code: CodeEmptyCart, Message: "cart is empty"}
}

func errInvalidTransition(from, to model.OrderStatus) error {
	return &HTTPError{
		Status:  http.StatusConflict,
		Code:    CodeInvalidTransition,
		Message: fmt.Sprintf("cannot change order status from %s to %s", from, to),
	}
}

func errUnauthorized() error { return NewHTTPError(http.StatusUnauthorized, "unauthorized") }
func errForbidden() error    { return NewHTTPError(http.StatusForbidden, "forbidden") }

func errNotFound(what string) error {
	return NewHTTPError(http.StatusNotFound, what+" not found")
}
