// Package diagnostic provides structured warnings and errors collected while
// loading definition files and resolving attribute maps.
//
// Key capabilities:
//   - Unknown option and relation reports with "did you mean" suggestions
//   - Unresolvable map and circular merge reports per type and map
//   - A combined error for callers that want to fail fast
package diagnostic
