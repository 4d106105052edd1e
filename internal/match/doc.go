// Package match provides name normalization, Levenshtein distance calculation
// and candidate ranking used to suggest field names for unknown inputs.
//
// Key functions:
//   - NormalizeIdent: normalizes identifiers for fuzzy matching
//   - Levenshtein: computes edit distance between strings
//   - TokenizeIdent: splits identifiers into words, used for schema titles
//   - Suggest: ranks known names against an unknown one
package match
