package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrUnsupportedComponent is returned for fields the terminal editor has no
	// prompt for.
	ErrUnsupportedComponent = errors.New("tui: unsupported component")
)
