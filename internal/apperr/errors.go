package apperr

import "errors"

var (
	ErrNoIndex       = errors.New("no index.md found")
	ErrNoTitle       = errors.New("no title found")
	ErrEmptySlug     = errors.New("slug normalizes to an empty name")
	ErrInvalidOutput = errors.New("rendered front matter is invalid")
	ErrIncomplete    = errors.New("some items failed")
)
