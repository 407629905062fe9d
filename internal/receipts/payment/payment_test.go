package payment

//go:generate mockgen -source=payment.go -destination=mocks/mocks.go -package=mocks Gateway

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cooliehub/internal/receipts/models"
)

func TestSimulatedAuthorize(t *testing.T) {
	var slept []time.Duration
	gw := NewSimulated(WithSleep(func(d time.Duration) { slept = append(slept, d) }))

	t.Run("paid charge waits the default delay", func(t *testing.T) {
		res, err := gw.Authorize(context.Background(), Charge{Amount: 150, Kind: models.KindWorker})
		require.NoError(t, err)
		assert.Equal(t, StatusSuccess, res.Status)
		assert.NotEmpty(t, res.ProviderRef)
		assert.Equal(t, []time.Duration{DefaultDelay}, slept)
	})

	t.Run("free charge resolves immediately", func(t *testing.T) {
		slept = nil
		res, err := gw.Authorize(context.Background(), Charge{Amount: 0, Kind: models.KindFarmer})
		require.NoError(t, err)
		assert.Equal(t, StatusSuccess, res.Status)
		assert.Empty(t, slept)
	})

	t.Run("cancelled before the wait", func(t *testing.T) {
		slept = nil
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := gw.Authorize(ctx, Charge{Amount: 150})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, slept)
	})
}

func TestSimulatedRealDelay(t *testing.T) {
	gw := NewSimulated(WithDelay(20 * time.Millisecond))
	start := time.Now()
	_, err := gw.Authorize(context.Background(), Charge{Amount: 150})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}
