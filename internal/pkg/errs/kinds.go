package errs

import (
	cr "github.com/cockroachdb/errors"
)

// Kind is the stable, machine-readable class of an error surfaced to callers.
type Kind string

const (
	KindValidation              Kind = "validation"
	KindConflict                Kind = "conflict"
	KindAuth                    Kind = "auth"
	KindPaymentDeclined         Kind = "payment_declined"
	KindDependency              Kind = "dependency"
	KindPostCommitInconsistency Kind = "post_commit_inconsistency"
	KindNotFound                Kind = "not_found"
	KindInternal                Kind = "internal"
)

type kindError struct {
	kind  Kind
	cause error
}

func (e *kindError) Error() string { return e.cause.Error() }
func (e *kindError) Unwrap() error { return e.cause }
func (e *kindError) Kind() Kind    { return e.kind }

// NewKind creates a sentinel error that carries kind. Sentinels with different
// messages never compare equal under Is.
func NewKind(kind Kind, msg string) error {
	return &kindError{kind: kind, cause: cr.NewWithDepth(1, msg)}
}

// WithKind attaches kind to an existing error chain. The outermost kind wins.
func WithKind(err error, kind Kind) error {
	if err == nil {
		return nil
	}
	return &kindError{kind: kind, cause: err}
}

// Attach returns sentinel as the primary error and keeps cause as secondary
// detail for logs. Is(result, sentinel) holds and the sentinel's kind is kept.
func Attach(sentinel, cause error) error {
	if cause == nil {
		return cr.WithStackDepth(sentinel, 1)
	}
	return cr.WithSecondaryError(cr.WithStackDepth(sentinel, 1), cause)
}

func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var ke interface{ Kind() Kind }
	if As(err, &ke) {
		return ke.Kind()
	}
	return KindInternal
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
