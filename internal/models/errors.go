package models

import "errors"

// Custom errors
var (
	ErrNotFound    = errors.New("record not found")
	ErrMissingOdds = errors.New("game is missing odds")
)
