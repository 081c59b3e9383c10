package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrFetch marks network-level retrieval failures. Retryable with
	// backoff before becoming terminal for the request.
	ErrFetch = errors.New("fetch failed")

	// ErrParse marks markup that cannot be parsed at all. Never retried:
	// the document is static, retrying cannot change it.
	ErrParse = errors.New("unparseable markup")

	ErrNotFound     = errors.New("result not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrTemporary    = errors.New("temporary failure")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
