// Package diag implements spec.md §7's fatal-diagnostic contract: every
// invariant-violation error surfaced by a pass names which pass raised it,
// wrapped with a stack trace so the caller can tell exactly where in the
// pipeline a compilation aborted.
package diag

import "github.com/pkg/errors"

// Fatalf builds a fatal diagnostic for an invariant violation detected by
// pass, wrapping github.com/pkg/errors.WithStack so the caller gets a
// recorded stack alongside the formatted message.
func Fatalf(pass, format string, args ...interface{}) error {
	all := append([]interface{}{pass}, args...)
	return errors.WithStack(errors.Errorf("%s: "+format, all...))
}
