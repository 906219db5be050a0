package catalog

import (
	"errors"
	"fmt"
)

// NotFoundError reports that a category, subcategory, or service could not be
// resolved after every fallback. It is an expected outcome, distinct from a
// store failure, and maps to HTTP 404 at the transport layer.
type NotFoundError struct {
	Kind  string
	Token string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %q", e.Kind, e.Token)
}

// NewNotFound builds a NotFoundError for the given record kind and token.
func NewNotFound(kind, token string) error {
	return &NotFoundError{Kind: kind, Token: token}
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// Admin-side validation errors.
var (
	ErrSlugTaken       = errors.New("slug already in use")
	ErrExternalIDTaken = errors.New("external id already in use")
	ErrCategoryInUse   = errors.New("category is still referenced by services")
)
