package leaderboard

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport signals the document could not be retrieved (network
	// failure, unreadable file, cancelled context).
	ErrTransport = errors.New("leaderboard: transport failure")
	// ErrMalformed signals the payload is not a JSON/YAML array.
	ErrMalformed = errors.New("leaderboard: malformed document")
	// ErrMissingTarget signals rendering was attempted without a table body.
	ErrMissingTarget = errors.New("leaderboard: target table body is missing")
)

// StatusError reports a non-2xx HTTP response.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	status := e.Status
	if status == "" {
		status = fmt.Sprintf("%d", e.StatusCode)
	}
	if e.URL == "" {
		return "leaderboard: unexpected status " + status
	}
	return fmt.Sprintf("leaderboard: unexpected status %s from %s", status, e.URL)
}
