package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ncdash/pkg/contracts/domain"
)

func recordsOfSize(n int) domain.RecordSet {
	set := make(domain.RecordSet, n)
	for i := range set {
		set[i] = domain.Record{
			OccurrenceDate: time.Date(2024, 1, 1+i, 0, 0, 0, 0, time.UTC),
			Status:         domain.StatusPending,
		}
	}
	return set
}

func TestSnapshot_GetLoadsOnce(t *testing.T) {
	ctx := context.Background()
	var calls int32
	loader := func(ctx context.Context) (domain.RecordSet, error) {
		atomic.AddInt32(&calls, 1)
		return recordsOfSize(3), nil
	}

	snap := NewSnapshot(loader, time.Minute, nil)

	first, err := snap.Get(ctx)
	require.NoError(t, err)
	second, err := snap.Get(ctx)
	require.NoError(t, err)

	assert.Len(t, first, 3)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "second Get must be served from cache")
}

func TestSnapshot_TTLExpiry(t *testing.T) {
	ctx := context.Background()
	var calls int32
	loader := func(ctx context.Context) (domain.RecordSet, error) {
		atomic.AddInt32(&calls, 1)
		return recordsOfSize(int(atomic.LoadInt32(&calls))), nil
	}

	snap := NewSnapshot(loader, time.Minute, nil)
	current := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	snap.now = func() time.Time { return current }

	first, err := snap.Get(ctx)
	require.NoError(t, err)
	assert.Len(t, first, 1)

	// Inside the TTL window nothing reloads.
	current = current.Add(30 * time.Second)
	cached, err := snap.Get(ctx)
	require.NoError(t, err)
	assert.Len(t, cached, 1)

	// Past the TTL the loader runs again.
	current = current.Add(2 * time.Minute)
	fresh, err := snap.Get(ctx)
	require.NoError(t, err)
	assert.Len(t, fresh, 2)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestSnapshot_RefreshBypassesTTL(t *testing.T) {
	ctx := context.Background()
	var calls int32
	loader := func(ctx context.Context) (domain.RecordSet, error) {
		atomic.AddInt32(&calls, 1)
		return recordsOfSize(2), nil
	}

	snap := NewSnapshot(loader, time.Hour, nil)

	_, err := snap.Get(ctx)
	require.NoError(t, err)
	_, err = snap.Refresh(ctx)
	require.NoError(t, err)

	assert.Equal(t, int32(2), atomic.LoadInt32(&calls), "Refresh must hit the loader even inside the TTL")
}

func TestSnapshot_LoaderErrorKeepsPreviousSnapshot(t *testing.T) {
	ctx := context.Background()
	fail := false
	loader := func(ctx context.Context) (domain.RecordSet, error) {
		if fail {
			return nil, errors.New("sheet unavailable")
		}
		return recordsOfSize(4), nil
	}

	snap := NewSnapshot(loader, time.Minute, nil)

	_, err := snap.Get(ctx)
	require.NoError(t, err)

	fail = true
	got, err := snap.Refresh(ctx)
	require.Error(t, err)
	assert.Empty(t, got, "a failed refresh returns an empty set to the caller")

	// The previously good snapshot still serves within its TTL.
	cached, err := snap.Get(ctx)
	require.NoError(t, err)
	assert.Len(t, cached, 4)
}

func TestSnapshot_ConcurrentExpiredReadersShareOneLoad(t *testing.T) {
	ctx := context.Background()
	var calls int32
	release := make(chan struct{})
	loader := func(ctx context.Context) (domain.RecordSet, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return recordsOfSize(1), nil
	}

	snap := NewSnapshot(loader, time.Minute, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := snap.Get(ctx)
			assert.NoError(t, err)
		}()
	}
	// Give the goroutines a moment to pile onto the flight.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestSnapshot_Age(t *testing.T) {
	snap := NewSnapshot(func(ctx context.Context) (domain.RecordSet, error) {
		return recordsOfSize(1), nil
	}, time.Minute, nil)

	_, loaded := snap.Age()
	assert.False(t, loaded)

	_, err := snap.Get(context.Background())
	require.NoError(t, err)

	age, loaded := snap.Age()
	assert.True(t, loaded)
	assert.GreaterOrEqual(t, age, time.Duration(0))
}
