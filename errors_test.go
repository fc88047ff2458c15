package promise

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPanicError(t *testing.T) {
	t.Run("Describes the panic value", func(t *testing.T) {
		err := PanicError{V: "boom"}

		require.EqualError(t, err, "promise handler panicked: boom")
	})

	t.Run("Unwraps an error panic value", func(t *testing.T) {
		cause := errors.New("the cause")
		err := PanicError{V: cause}

		require.ErrorIs(t, err, cause)
	})

	t.Run("Non-error panic value unwraps to nil", func(t *testing.T) {
		err := PanicError{V: 42}

		require.NoError(t, err.Unwrap())
	})
}
