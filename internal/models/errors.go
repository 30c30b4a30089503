package models

import "errors"

// Custom errors
var (
	ErrNotFound     = errors.New("record not found")
	ErrInvalidRound = errors.New("invalid round")
)
