package apperr

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

type Code string

const (
	CodeValidation       Code = "VALIDATION"
	CodePrecondition     Code = "PRECONDITION"
	CodeNotFound         Code = "NOT_FOUND"
	CodeCapacityExceeded Code = "CAPACITY_EXCEEDED"
	CodeEmptyResult      Code = "EMPTY_RESULT"
	CodeIO               Code = "IO"
)

// Error: ошибка уровня предметной области с кодом категории.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

func newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) *Error {
	return newf(CodeValidation, format, args...)
}

func Precondition(format string, args ...any) *Error {
	return newf(CodePrecondition, format, args...)
}

func NotFound(format string, args ...any) *Error {
	return newf(CodeNotFound, format, args...)
}

func CapacityExceeded(format string, args ...any) *Error {
	return newf(CodeCapacityExceeded, format, args...)
}

func EmptyResult(format string, args ...any) *Error {
	return newf(CodeEmptyResult, format, args...)
}

func IO(format string, args ...any) *Error {
	return newf(CodeIO, format, args...)
}

// CodeOf возвращает код категории или пустую строку для посторонних ошибок.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// HTTPStatus: соответствие категорий ошибок HTTP-статусам.
func HTTPStatus(code Code) int {
	switch code {
	case CodeValidation:
		return fiber.StatusBadRequest
	case CodePrecondition:
		return fiber.StatusConflict
	case CodeNotFound:
		return fiber.StatusNotFound
	case CodeCapacityExceeded:
		return fiber.StatusConflict
	case CodeEmptyResult:
		return fiber.StatusBadRequest
	case CodeIO:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}
