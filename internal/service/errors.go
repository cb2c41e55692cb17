package service

import (
	"errors"
	"fmt"

	"fdms/internal/model"
	"fdms/internal/repository"
)

// Kind classifies a service failure for the transport layer.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindConflict
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindConflict:
		return "conflict"
	case KindValidation:
		return "validation"
	default:
		return "internal"
	}
}

// Error is a classified, client-safe failure.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// Is matches any *Error of the same Kind, so the sentinels below work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrNotFound   = &Error{Kind: KindNotFound, Message: "not found"}
	ErrConflict   = &Error{Kind: KindConflict, Message: "conflict"}
	ErrValidation = &Error{Kind: KindValidation, Message: "validation failed"}
)

// NotFound reports a missing record.
func NotFound(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Conflict reports a uniqueness violation.
func Conflict(msg string) error {
	return &Error{Kind: KindConflict, Message: msg}
}

// Invalid reports unusable input.
func Invalid(format string, args ...any) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the classification of err; unclassified errors are internal.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}

// translate maps repository and model errors for e onto service errors.
func translate(e *model.Entity, err error) error {
	if err == nil {
		return nil
	}
	var (
		se      *Error
		verr    *model.ValidationError
		dup     *repository.DuplicateError
		missing *repository.MissingParentError
	)
	switch {
	case errors.As(err, &se):
		return err
	case errors.As(err, &verr):
		return Invalid("%s", verr.Error())
	case errors.Is(err, repository.ErrNotFound):
		return NotFound("%s not found", e.Label)
	case errors.As(err, &dup):
		for _, u := range e.Uniques {
			if e.UniqueIndex(u.Field) == dup.Index {
				return Conflict(u.Message)
			}
		}
		return Conflict(e.Label + " already exists")
	case errors.As(err, &missing):
		for _, p := range e.Parents {
			if e.ForeignKey(p.Field) == missing.Constraint {
				return NotFound("%s not found", p.Label)
			}
		}
		return NotFound("Referenced record not found")
	}
	return err
}
