package model

import "errors"

// Common errors used across the application
var (
	// Game errors
	ErrGameNotFound      = errors.New("game not found")
	ErrSessionExpired    = errors.New("session has expired")
	ErrSubmissionPending = errors.New("a word lookup is already pending")
	ErrNoSelection       = errors.New("no selection in progress")
	ErrInvalidPosition   = errors.New("invalid grid position")
	ErrInvalidGridSize   = errors.New("invalid grid size")
	ErrGridCorrupt       = errors.New("grid is not fully populated")

	// Dictionary errors
	ErrDictionaryNotLoaded = errors.New("dictionary not loaded")

	// Oracle cache errors
	ErrVerdictNotFound = errors.New("verdict not cached")

	// Bot errors
	ErrNoWordFound     = errors.New("no word found on grid")
	ErrUnknownStrategy = errors.New("unknown bot strategy")
)
