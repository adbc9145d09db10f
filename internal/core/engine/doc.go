// Package engine turns habits and their daily check-ins into streaks,
// completion rates and calendar aggregates, and turns an XP total into a
// level and badge tier.
//
// Every function is a pure transformation of its arguments: nothing reads the
// wall clock, touches storage or mutates its inputs, so results are safe to
// compute concurrently and to memoize on the full input.
package engine
