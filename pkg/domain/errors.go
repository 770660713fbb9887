package domain

import "errors"

// ErrStepNotFound is returned when an operation that cannot degrade to a no-op references a missing step.
var ErrStepNotFound = errors.New("step not found")

// ErrUnknownField is returned when a field edit targets something other than title, description or config.<key>.
var ErrUnknownField = errors.New("unknown field")

// ErrInvalidValue is returned when a field edit carries a value of the wrong shape.
var ErrInvalidValue = errors.New("invalid value")

// ErrNoSelection is returned by the inspector when nothing is selected.
var ErrNoSelection = errors.New("no step selected")

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrSessionExists is returned when creating a session whose ID is already taken.
var ErrSessionExists = errors.New("session already exists")

// ErrTemplateNotFound is returned when a template ID is not in the catalog.
var ErrTemplateNotFound = errors.New("template not found")

// ErrUnknownCommand is returned for editor commands with an unrecognised op.
var ErrUnknownCommand = errors.New("unknown command")
