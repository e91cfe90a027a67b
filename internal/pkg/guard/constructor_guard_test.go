package guard_test

import (
	"errors"
	"testing"

	"dispatch/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorGuard_Validate(t *testing.T) {
	t.Run("constructed_guard_returns_nil", func(t *testing.T) {
		// Given
		g := guard.NewConstructorGuard()

		// Then
		require.NoError(t, g.Validate(errors.New("not constructed")))
		require.NoError(t, g.Validate(nil))
	})

	t.Run("zero_value_guard_returns_custom_error", func(t *testing.T) {
		// Given
		var g guard.ConstructorGuard
		expected := errors.New("command not constructed")

		// When
		err := g.Validate(expected)

		// Then
		require.Error(t, err)
		assert.Equal(t, expected, err)
	})

	t.Run("zero_value_guard_returns_default_error_when_nil", func(t *testing.T) {
		// Given
		var g guard.ConstructorGuard

		// When
		err := g.Validate(nil)

		// Then
		assert.Equal(t, guard.ErrDefaultConstructorGuard, err)
	})
}

func TestConstructorGuard_EmbeddedInValueObject(t *testing.T) {
	type pageWindow struct {
		lower int64
		upper int64
		guard guard.ConstructorGuard
	}
	errWindowNotConstructed := errors.New("pageWindow must be created via newPageWindow")

	newPageWindow := func(page, limit int64) (pageWindow, error) {
		if limit < 1 {
			return pageWindow{}, errors.New("limit must be positive")
		}
		return pageWindow{lower: page * limit, upper: (page + 1) * limit, guard: guard.NewConstructorGuard()}, nil
	}

	t.Run("constructed_value_is_valid", func(t *testing.T) {
		w, err := newPageWindow(2, 5)
		require.NoError(t, err)
		require.NoError(t, w.guard.Validate(errWindowNotConstructed))
		assert.Equal(t, int64(10), w.lower)
		assert.Equal(t, int64(15), w.upper)
	})

	t.Run("literal_value_is_rejected", func(t *testing.T) {
		w := pageWindow{lower: 0, upper: 5}
		require.ErrorIs(t, w.guard.Validate(errWindowNotConstructed), errWindowNotConstructed)
	})
}
