// Package diagnostic provides structured errors, warnings and notes
// collected while declaring and constructing records.
//
// Key capabilities:
//   - Declaration errors with field paths and "did you mean" suggestions
//   - Warnings for values that were repaired to their defaults
//   - A combined error for reporting everything at once
package diagnostic
