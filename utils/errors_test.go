package utils

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestAsAppError(t *testing.T) {
	wrapped := fmt.Errorf("load bill: %w", ConflictError("Bill is already paid"))
	appErr := AsAppError(wrapped)
	assert.Equal(t, KindConflict, appErr.Kind)
	assert.Equal(t, 409, appErr.Status())

	notFound := AsAppError(fmt.Errorf("get: %w", gorm.ErrRecordNotFound))
	assert.Equal(t, KindNotFound, notFound.Kind)
	assert.Equal(t, 404, notFound.Status())

	internal := AsAppError(errors.New("boom"))
	assert.Equal(t, KindInternal, internal.Kind)
	assert.Equal(t, 500, internal.Status())
}

func TestAppErrorStatuses(t *testing.T) {
	assert.Equal(t, 400, ValidationError("x").Status())
	assert.Equal(t, 400, UploadError("a.png", errors.New("disk")).Status())
	assert.Equal(t, 401, AuthError("x").Status())
	assert.Equal(t, 403, ForbiddenError("x").Status())
	assert.Equal(t, 404, NotFoundError("Bill").Status())
	assert.Equal(t, "Bill not found", NotFoundError("Bill").Message)
}
