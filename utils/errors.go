package utils

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/muhammedanshif/rentEase/config"
)

type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindConflict   ErrorKind = "conflict"
	KindAuth       ErrorKind = "auth"
	KindForbidden  ErrorKind = "forbidden"
	KindNotFound   ErrorKind = "not_found"
	KindUpload     ErrorKind = "upload"
	KindInternal   ErrorKind = "internal"
)

// AppError is the error every service hands back to controllers.
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// Status maps the kind onto an HTTP status code.
func (e *AppError) Status() int {
	switch e.Kind {
	case KindValidation, KindUpload:
		return fiber.StatusBadRequest
	case KindConflict:
		return fiber.StatusConflict
	case KindAuth:
		return fiber.StatusUnauthorized
	case KindForbidden:
		return fiber.StatusForbidden
	case KindNotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

func ValidationError(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func ConflictError(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func AuthError(message string) *AppError {
	return &AppError{Kind: KindAuth, Message: message}
}

func ForbiddenError(message string) *AppError {
	return &AppError{Kind: KindForbidden, Message: message}
}

func NotFoundError(resource string) *AppError {
	return &AppError{Kind: KindNotFound, Message: resource + " not found"}
}

func UploadError(file string, err error) *AppError {
	return &AppError{Kind: KindUpload, Message: fmt.Sprintf("Failed to upload %s", file), Err: err}
}

func InternalError(message string, err error) *AppError {
	return &AppError{Kind: KindInternal, Message: message, Err: err}
}

// AsAppError classifies any error. Unknown errors become internal errors.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &AppError{Kind: KindNotFound, Message: "Record not found", Err: err}
	}
	return InternalError("Something went wrong", err)
}

// RespondError writes the standard envelope for err and logs server side failures.
func RespondError(c *fiber.Ctx, err error) error {
	appErr := AsAppError(err)
	status := appErr.Status()

	if status >= fiber.StatusInternalServerError {
		config.Logger.Error("Request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	} else {
		config.Logger.Debug("Request rejected",
			zap.String("path", c.Path()),
			zap.String("kind", string(appErr.Kind)),
			zap.String("reason", appErr.Message),
		)
	}

	detail := appErr.Message
	if appErr.Kind == KindInternal {
		detail = "An internal server error occurred."
	}

	return c.Status(status).JSON(fiber.Map{
		"message": appErr.Message,
		"data":    nil,
		"error":   detail,
	})
}

// RespondOK writes a success envelope.
func RespondOK(c *fiber.Ctx, status int, message string, data interface{}) error {
	return c.Status(status).JSON(fiber.Map{
		"message": message,
		"data":    data,
		"error":   nil,
	})
}
