package counter

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "geostake/pkg/domain"
)

func TestInMemoryStore_Next(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	t.Run("ids are 1-based and contiguous", func(t *testing.T) {
		for want := uint64(1); want <= 5; want++ {
			got, err := store.Next(ctx)
			require.NoError(t, err)
			assert.Equal(t, id.TokenID(want), got)
		}
	})

	t.Run("last reflects the most recent allocation", func(t *testing.T) {
		last, err := store.Last(ctx)
		require.NoError(t, err)
		assert.Equal(t, id.TokenID(5), last)
	})
}

func TestInMemoryStore_Last_BeforeFirstMint(t *testing.T) {
	store := NewInMemoryStore()
	last, err := store.Last(context.Background())
	require.NoError(t, err)
	assert.Equal(t, id.TokenID(0), last)
}

func TestInMemoryStore_ConcurrentNext(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	const goroutines = 32
	const perGoroutine = 50

	var wg sync.WaitGroup
	seen := make(chan id.TokenID, goroutines*perGoroutine)
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				tokenID, err := store.Next(ctx)
				assert.NoError(t, err)
				seen <- tokenID
			}
		}()
	}
	wg.Wait()
	close(seen)

	// Every id in 1..N handed out exactly once.
	unique := make(map[id.TokenID]bool, goroutines*perGoroutine)
	for tokenID := range seen {
		assert.False(t, unique[tokenID], "id %d allocated twice", tokenID)
		unique[tokenID] = true
	}
	assert.Len(t, unique, goroutines*perGoroutine)
}
