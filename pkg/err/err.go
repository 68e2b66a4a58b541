package errprocess

import (
	"errors"
	"fmt"

	"nexus_chat_service/pkg/logger"
)

// 分類錯誤，handler 依此決定 http status
var (
	ErrValidation = errors.New("validation failed")
	ErrForbidden  = errors.New("forbidden")
	ErrNotFound   = errors.New("not found")
)

// Set set err info
func Set(errMsg string) error {
	logger.Log.Error(errMsg)
	return errors.New(errMsg)
}

// Setf log and wrap kind (ErrValidation / ErrForbidden / ErrNotFound) with a message
func Setf(kind error, format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	logger.Log.Error(msg)
	return fmt.Errorf("%w: %s", kind, msg)
}
