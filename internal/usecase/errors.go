package usecase

import (
	"errors"

	"yamdb/pkg/utils"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrForbidden   = errors.New("you do not have permission to perform this action")
	ErrInactive    = errors.New("account is deactivated")
	ErrInvalidCode = errors.New("invalid username or confirmation code")
)

// NonFieldErrors is the errors key for failures not tied to one input field.
const NonFieldErrors = "non_field_errors"

// ValidationError carries per-field messages back to the handler as a 400.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + utils.FormatValidationErrors(e.Fields)
}

func fieldError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// validate runs struct tag validation and wraps failures as *ValidationError.
func validate(req any) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

// canModify reports whether p may edit or delete content written by authorID.
func canModify(p utils.Principal, authorID int64) bool {
	return p.UserID == authorID || p.IsModerator() || p.IsAdmin()
}
