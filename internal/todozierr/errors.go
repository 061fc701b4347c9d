// Package todozierr defines the typed error taxonomy used across Todozi's
// components, so callers can branch on error kind with errors.As instead of
// matching on formatted strings.
package todozierr

import "fmt"

// Kind identifies the error taxonomy entry a given error belongs to.
type Kind string

const (
	KindTaskNotFound      Kind = "task_not_found"
	KindProjectNotFound   Kind = "project_not_found"
	KindInvalidPriority   Kind = "invalid_priority"
	KindInvalidStatus     Kind = "invalid_status"
	KindInvalidAssignee   Kind = "invalid_assignee"
	KindInvalidProgress   Kind = "invalid_progress"
	KindValidation        Kind = "validation_error"
	KindStorage           Kind = "storage_error"
	KindConfig            Kind = "config_error"
	KindEmbedding         Kind = "embedding_error"
	KindAPI               Kind = "api_error"
)

// Error is the common typed error shape. Message is human-readable; Kind is
// the programmatic discriminator callers branch on (see Is).
type Error struct {
	Kind    Kind
	Message string
	Err     error // wrapped cause, if any
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func new_(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

func TaskNotFound(id string) *Error    { return new_(KindTaskNotFound, "task %q not found", id) }
func ProjectNotFound(id string) *Error { return new_(KindProjectNotFound, "project %q not found", id) }

func InvalidPriority(value string) *Error {
	return new_(KindInvalidPriority, "invalid priority %q", value)
}

func InvalidStatus(value string) *Error {
	return new_(KindInvalidStatus, "invalid status %q", value)
}

func InvalidAssignee(value string) *Error {
	return new_(KindInvalidAssignee, "invalid assignee %q", value)
}

func InvalidProgress(value int) *Error {
	return new_(KindInvalidProgress, "progress %d out of range [0,100]", value)
}

func Validation(format string, args ...any) *Error {
	return new_(KindValidation, format, args...)
}

func Storage(err error, format string, args ...any) *Error {
	return wrap(KindStorage, err, format, args...)
}

func Config(format string, args ...any) *Error {
	return new_(KindConfig, format, args...)
}

func Embedding(err error, format string, args ...any) *Error {
	return wrap(KindEmbedding, err, format, args...)
}

func API(err error, format string, args ...any) *Error {
	return wrap(KindAPI, err, format, args...)
}

// Is reports whether err (or any error it wraps) carries the given Kind.
func Is(err error, kind Kind) bool {
	for err != nil {
		if te, ok := err.(*Error); ok {
			if te.Kind == kind {
				return true
			}
			err = te.Err
			continue
		}
		break
	}
	return false
}
