package service

import (
	"errors"
	"fmt"

	"Alumni_Network/internal/repository/store"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrCodeInvalid        = errors.New("verification failed")
)

// invalid wraps a message around store.ErrInvalidParam so handlers answer 400.
func invalid(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), store.ErrInvalidParam)
}

func forbidden(msg string) error {
	return fmt.Errorf("%s: %w", msg, store.ErrForbidden)
}

// Page converts page/size query values into offset/limit, applying the
// default when size is outside 1..maxSize.
func Page(page, size, def, maxSize int) (offset, limit int) {
	if size <= 0 || size > maxSize {
		size = def
	}
	if page < 1 {
		page = 1
	}
	return (page - 1) * size, size
}
