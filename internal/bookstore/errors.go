package bookstore

import "errors"

// ErrInvalidInput indicates book creation was attempted with missing or
// non-positive fields. The collection is left unchanged.
var ErrInvalidInput = errors.New("invalid input")
