package rankcli

import "errors"

// Error kinds returned by Run.
var (
	ErrUsage = errors.New("invalid arguments")
	ErrRank  = errors.New("ranking failed")
)
