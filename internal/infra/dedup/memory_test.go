//go:build unit

package dedup_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"payment-reconciler/internal/infra/dedup"
	"payment-reconciler/internal/pkg/clock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryWindow(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	t.Run("second claim of the same id is refused", func(t *testing.T) {
		w := dedup.NewMemoryWindow(time.Hour, 10, clock.NewMockClock(start))

		first, err := w.Claim(ctx, "evt_1")
		require.NoError(t, err)
		second, err := w.Claim(ctx, "evt_1")
		require.NoError(t, err)

		assert.True(t, first)
		assert.False(t, second)
	})

	t.Run("released ids can be claimed again", func(t *testing.T) {
		w := dedup.NewMemoryWindow(time.Hour, 10, clock.NewMockClock(start))

		_, _ = w.Claim(ctx, "evt_1")
		require.NoError(t, w.Release(ctx, "evt_1"))
		again, err := w.Claim(ctx, "evt_1")
		require.NoError(t, err)
		assert.True(t, again)
	})

	t.Run("entries expire after the retention period", func(t *testing.T) {
		clk := clock.NewMockClock(start)
		w := dedup.NewMemoryWindow(72*time.Hour, 10, clk)

		_, _ = w.Claim(ctx, "evt_1")
		clk.Add(71 * time.Hour)
		fresh, _ := w.Claim(ctx, "evt_1")
		assert.False(t, fresh)

		clk.Add(2 * time.Hour)
		fresh, _ = w.Claim(ctx, "evt_1")
		assert.True(t, fresh)
	})

	t.Run("size bound evicts oldest first", func(t *testing.T) {
		w := dedup.NewMemoryWindow(time.Hour, 3, clock.NewMockClock(start))

		for i := 0; i < 5; i++ {
			_, _ = w.Claim(ctx, fmt.Sprintf("evt_%d", i))
		}
		assert.Equal(t, 3, w.Len())

		evicted, _ := w.Claim(ctx, "evt_0")
		assert.True(t, evicted)
		kept, _ := w.Claim(ctx, "evt_4")
		assert.False(t, kept)
	})

	t.Run("concurrent claims admit exactly one winner", func(t *testing.T) {
		w := dedup.NewMemoryWindow(time.Hour, 100, clock.NewMockClock(start))

		var winners atomic.Int32
		var wg sync.WaitGroup
		for i := 0; i < 32; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if ok, _ := w.Claim(ctx, "evt_race"); ok {
					winners.Add(1)
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, int32(1), winners.Load())
	})
}
