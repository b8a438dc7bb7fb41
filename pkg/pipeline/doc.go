// Package pipeline wires the leaderboard loader, the shared table, and the
// renderer registry into a single Refresh/Generate entry point.
package pipeline
