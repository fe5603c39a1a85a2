package diag

import (
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestFatalfNamesThePass(t *testing.T) {
	err := Fatalf("lower", "unsupported op %s", "Shl")
	require.EqualError(t, err, "lower: unsupported op Shl")
}

func TestFatalfCarriesAStack(t *testing.T) {
	err := Fatalf("rewrite", "missing color for vreg %d", 7)

	type stackTracer interface {
		StackTrace() pkgerrors.StackTrace
	}
	st, ok := err.(stackTracer)
	require.True(t, ok, "Fatalf must return an error carrying a stack trace")
	require.NotEmpty(t, st.StackTrace())
}
