package domain

import "errors"

// ErrSessionNotFound is returned when no carousel is registered under an ID.
var ErrSessionNotFound = errors.New("session not found")

// ErrPositionNotFound is returned by a PositionStore when nothing was saved for an ID.
var ErrPositionNotFound = errors.New("position not found")

// ErrInvalidGesture is returned when an outer surface submits a malformed gesture.
var ErrInvalidGesture = errors.New("invalid gesture")

// ErrEmptyDeck is returned when an item source yields no items.
var ErrEmptyDeck = errors.New("deck has no items")
