package commands_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"
)

func TestNewCreateOrderCommand(t *testing.T) {
	origin, err := kernel.NewGeoPoint("40.7128", "-74.0060")
	require.NoError(t, err)
	destination, err := kernel.NewGeoPoint("40.7306", "-73.9352")
	require.NoError(t, err)

	t.Run("should create command with constructed points", func(t *testing.T) {
		cmd, err := commands.NewCreateOrderCommand(origin, destination)

		require.NoError(t, err)
		assert.NoError(t, cmd.Validate())
		assert.Equal(t, origin, cmd.Origin())
		assert.Equal(t, destination, cmd.Destination())
	})

	t.Run("should reject zero value points", func(t *testing.T) {
		_, err := commands.NewCreateOrderCommand(kernel.GeoPoint{}, destination)
		assert.ErrorIs(t, err, kernel.ErrGeoPointIsNotConstructed)

		_, err = commands.NewCreateOrderCommand(origin, kernel.GeoPoint{})
		assert.ErrorIs(t, err, kernel.ErrGeoPointIsNotConstructed)
	})

	t.Run("zero value command is not constructed", func(t *testing.T) {
		var cmd commands.CreateOrderCommand
		assert.ErrorIs(t, cmd.Validate(), commands.ErrCreateOrderCommandIsNotConstructed)
	})
}
