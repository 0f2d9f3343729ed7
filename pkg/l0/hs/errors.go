package hs

import "errors"

var (
	// ErrFrameNotFound indicates no delimiter in the readable bytes.
	// The cursor is left where it was.
	ErrFrameNotFound = errors.New("frame not found")
	// ErrNotEnabled indicates the transport is disabled.
	ErrNotEnabled = errors.New("transport not enabled")
)
