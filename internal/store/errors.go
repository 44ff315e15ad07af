// Package store holds the conversation and organization state managers:
// in-memory chat and folder state kept in sync with the persistence
// gateway, plus the derived sidebar views.
package store

import (
	"errors"

	"github.com/chatdeck/chatdeck/internal/db"
)

// Sentinel errors for store operations. Check with errors.Is. Every
// operation catches failures at its own boundary, logs them, and raises a
// notification; nothing re-panics or escalates to a global handler.
var (
	// ErrNotFound indicates the referenced chat or folder is absent,
	// locally or remotely. Shared with the gateway so a db miss and a
	// local-state miss test the same way.
	ErrNotFound = db.ErrNotFound

	// ErrPersistence indicates a gateway call failed.
	ErrPersistence = errors.New("persistence failed")

	// ErrValidation indicates user input was rejected, e.g. an empty name.
	ErrValidation = errors.New("validation failed")
)
