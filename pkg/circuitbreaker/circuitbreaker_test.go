package circuitbreaker_test

import (
	"errors"
	"testing"

	"github.com/cascade-wallet/cascade-daemon/pkg/circuitbreaker"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/require"
)

func TestCircuitBreaker(t *testing.T) {
	cb := circuitbreaker.NewCircuitBreaker("test")
	require.Equal(t, "test", cb.Name())

	failing := func() (interface{}, error) { return nil, errors.New("down") }

	for i := 0; i <= circuitbreaker.MaxNumOfFailingRequests; i++ {
		_, err := cb.Execute(failing)
		require.EqualError(t, err, "down")
		require.Equal(t, gobreaker.StateClosed, cb.State())
	}

	_, err := cb.Execute(failing)
	require.Error(t, err)
	require.Equal(t, gobreaker.StateOpen, cb.State())

	_, err = cb.Execute(func() (interface{}, error) { return nil, nil })
	require.ErrorIs(t, err, gobreaker.ErrOpenState)
}
