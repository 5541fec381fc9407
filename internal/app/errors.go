package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrPositionNotFound  = errors.New("position not found")
	ErrCandidateNotFound = errors.New("candidate not found")
	ErrInvalidOptions    = errors.New("invalid ranking options")
)
