//go:build integration

package counter

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "geostake/pkg/domain"
	"geostake/pkg/testutil/containers"
)

const schema = `
CREATE TABLE token_counter (
    singleton     bool PRIMARY KEY DEFAULT true CHECK (singleton),
    last_token_id bigint NOT NULL DEFAULT 0
)`

func TestPostgresStore(t *testing.T) {
	pg := containers.NewPostgresContainer(t, schema)
	t.Cleanup(func() { _ = pg.DB.Close() })

	ctx := context.Background()
	store := NewPostgresStore(pg.DB)

	t.Run("last is zero before any allocation", func(t *testing.T) {
		last, err := store.Last(ctx)
		require.NoError(t, err)
		assert.Equal(t, id.TokenID(0), last)
	})

	t.Run("allocations are contiguous from one", func(t *testing.T) {
		for want := id.TokenID(1); want <= 5; want++ {
			got, err := store.Next(ctx)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		}

		last, err := store.Last(ctx)
		require.NoError(t, err)
		assert.Equal(t, id.TokenID(5), last)
	})

	t.Run("concurrent allocations never collide", func(t *testing.T) {
		const workers = 16
		const perWorker = 10

		var mu sync.Mutex
		var ids []uint64
		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < perWorker; j++ {
					got, err := store.Next(ctx)
					assert.NoError(t, err)
					mu.Lock()
					ids = append(ids, uint64(got))
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		require.Len(t, ids, workers*perWorker)
		for i := 1; i < len(ids); i++ {
			assert.NotEqual(t, ids[i-1], ids[i], "duplicate token id allocated")
		}
	})
}
