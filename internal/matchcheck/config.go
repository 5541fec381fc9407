// Package matchcheck verifies a running hirematch server: it fetches the
// ranking of each position, checks the ordering rules, and compares every
// row with the single-candidate breakdown endpoint.
package matchcheck

import (
	"errors"
	"time"
)

// Error kinds returned by Run.
var (
	ErrUnhealthy    = errors.New("service unhealthy")
	ErrRequest      = errors.New("request failed")
	ErrInconsistent = errors.New("inconsistent ranking")
)

// Config holds configuration for one check run.
type Config struct {
	BaseURL     string        // Base URL of the service
	PositionIDs []string      // Positions to rank
	Limit       int           // limit query parameter; 0 uses the server maximum
	Workers     int           // Concurrent breakdown requests
	Timeout     time.Duration // HTTP request timeout
	Verbose     bool          // Log every ranking
}

// Stats holds run statistics.
type Stats struct {
	Positions         int
	RowsChecked       int
	BreakdownsFetched int
	StartTime         time.Time
	Duration          time.Duration
}
