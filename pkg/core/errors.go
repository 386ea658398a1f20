package core

import "errors"

// Common errors.
var (
	ErrNoteNotFound  = errors.New("note not found")
	ErrTopicNotFound = errors.New("topic not found")
	ErrReadOnly      = errors.New("vault is in read-only mode")
)
