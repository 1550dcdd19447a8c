package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation - пользователь не заполнил обязательное поле
	ErrValidation = errors.New("value is invalid")
	// ErrSync - ошибка при обращении к API заказов
	ErrSync = errors.New("sync failed")
	// ErrNotFound - объект уже удален или никогда не существовал
	ErrNotFound = errors.New("object not found")
	// ErrUnknownAction - действие недоступно на текущем экране
	ErrUnknownAction = errors.New("unknown action")
)

type (
	ValidationError struct {
		Field string
		Cause error
	}

	SyncError struct {
		Op    string
		Code  int
		Cause error
	}

	NotFoundError struct {
		ParamName string
		ID        any
		Cause     error
	}
)

func NewValidationError(field string) *ValidationError {
	return &ValidationError{Field: field}
}

func NewValidationErrorWithCause(field string, cause error) *ValidationError {
	return &ValidationError{Field: field, Cause: cause}
}

func (e *ValidationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrValidation, e.Field, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValidation, e.Field)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func NewSyncError(op string, cause error) *SyncError {
	return &SyncError{Op: op, Cause: cause}
}

// NewSyncErrorWithCode - ответ сервера с неуспешным http кодом
func NewSyncErrorWithCode(op string, code int, cause error) *SyncError {
	return &SyncError{Op: op, Code: code, Cause: cause}
}

func (e *SyncError) Error() string {
	msg := fmt.Sprintf("%s: %s", ErrSync, e.Op)
	if e.Code != 0 {
		msg += fmt.Sprintf(" (code %d)", e.Code)
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(" (cause: %v)", e.Cause)
	}
	return msg
}

func (e *SyncError) Unwrap() error {
	return ErrSync
}

func NewNotFoundError(paramName string, id any) *NotFoundError {
	return &NotFoundError{ParamName: paramName, ID: id}
}

func NewNotFoundErrorWithCause(paramName string, id any, cause error) *NotFoundError {
	return &NotFoundError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *NotFoundError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: param is: %s, ID is: %v (cause: %v)", ErrNotFound, e.ParamName, e.ID, e.Cause)
	}
	return fmt.Sprintf("%s: %v", ErrNotFound, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// IsBenign - ошибки, после которых достаточно перечитать список заказов
func IsBenign(err error) bool {
	return errors.Is(err, ErrNotFound)
}
