package core

import "errors"

// Common errors.
var (
	ErrEmptyText = errors.New("annotation text is empty")
	ErrNotFound  = errors.New("annotation not found")
)
