package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies an error that is safe to show to the person who ran a command
type Kind int

const (
	KindValidation Kind = iota + 1
	KindConfiguration
	KindExternal
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConfiguration:
		return "configuration"
	case KindExternal:
		return "external"
	default:
		return "unknown"
	}
}

// GenericMessage replaces any error that is not a UserError
const GenericMessage = "❌ Something went wrong."

// UserError carries a message meant for the invoking user
type UserError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// Validation builds a KindValidation error
func Validation(format string, args ...interface{}) error {
	return &UserError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// Configuration builds a KindConfiguration error
func Configuration(format string, args ...interface{}) error {
	return &UserError{Kind: KindConfiguration, Message: fmt.Sprintf(format, args...)}
}

// External wraps a failed platform call with a user-safe message
func External(err error, format string, args ...interface{}) error {
	return &UserError{Kind: KindExternal, Message: fmt.Sprintf(format, args...), Err: err}
}

// AsUserError unwraps err into a *UserError when it is one
func AsUserError(err error) (*UserError, bool) {
	var ue *UserError
	if stderrors.As(err, &ue) {
		return ue, true
	}
	return nil, false
}

// IsKind reports whether err is a UserError of the given kind
func IsKind(err error, kind Kind) bool {
	ue, ok := AsUserError(err)
	return ok && ue.Kind == kind
}

// PublicMessage is the text shown to users for err
func PublicMessage(err error) string {
	if ue, ok := AsUserError(err); ok {
		return ue.Message
	}
	return GenericMessage
}
