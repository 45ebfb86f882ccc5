// Package match provides identifier normalization, edit distance and the
// "did you mean" suggestions used when a declaration names an unknown option,
// relation or map.
//
// Key functions:
//   - Words: splits identifiers into lowercase words
//   - Distance: computes edit distance between strings
//   - Suggest: ranks known names by similarity to an unknown one
//   - SnakeCase: converts Go identifiers to record column names
//   - Singularize: derives the element key of a collection wrapper
package match
