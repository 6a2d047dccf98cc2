package breaker_test

import (
	"errors"
	"testing"
	"time"

	"github.com/baramej/library-system/pkg/breaker"
	"github.com/stretchr/testify/require"
)

func Test_circuitBreaker_Call(t *testing.T) {
	successfulService := func() error {
		return nil
	}
	failingService := func() error {
		return errors.New("service error")
	}

	cb := breaker.New(10, 50*time.Millisecond, 0.30, 3)

	for i := 0; i < 80; i++ {
		require.NoError(t, cb.Call(successfulService))
	}

	// enough failures to exceed the percentile and open the breaker
	for i := 0; i < 10; i++ {
		_ = cb.Call(failingService)
	}
	require.ErrorIs(t, cb.Call(successfulService), breaker.ErrOpenCB)

	// wait out the timeout, breaker probes in half-open
	time.Sleep(60 * time.Millisecond)
	cb.Reset()

	for i := 0; i < 15; i++ {
		require.NoError(t, cb.Call(successfulService))
	}
}
