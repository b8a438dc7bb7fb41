// Package leaderboard holds the record model for leaderboard documents: a JSON
// (or YAML) array of objects carrying "rank" and "score" fields.
//
// Cell text follows a falsy-default rule. Absent, null, false, zero, NaN and
// empty string values all render as "". A legitimate rank or score of zero is
// therefore indistinguishable from a missing one; callers needing that
// distinction should use Value.Present.
package leaderboard
