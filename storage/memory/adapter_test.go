package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sig-0/flip/storage"
	"github.com/sig-0/flip/storage/storagetest"
)

func TestStorage(t *testing.T) {
	t.Parallel()

	storagetest.Run(t, func(_ *testing.T) storage.Storage {
		return NewStorage()
	})
}

func TestStorage_SaveSnapshot(t *testing.T) {
	t.Parallel()

	t.Run("same ID replaces", func(t *testing.T) {
		t.Parallel()

		var (
			s        = NewStorage()
			ctx      = context.Background()
			snapshot = storagetest.NewSnapshot("Standard", time.Now())
		)

		require.NoError(t, s.SaveSnapshot(ctx, snapshot))
		require.NoError(t, s.SaveSnapshot(ctx, snapshot))

		assert.Len(t, s.data["Standard"], 1)
	})

	t.Run("replacement keeps order", func(t *testing.T) {
		t.Parallel()

		var (
			s   = NewStorage()
			ctx = context.Background()

			base   = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
			first  = storagetest.NewSnapshot("Standard", base)
			second = storagetest.NewSnapshot("Standard", base.Add(time.Minute))
		)

		require.NoError(t, s.SaveSnapshot(ctx, first))
		require.NoError(t, s.SaveSnapshot(ctx, second))

		// Re-save the first snapshot as the most recent one
		updated := *first
		updated.CollectedAt = base.Add(2 * time.Minute)

		require.NoError(t, s.SaveSnapshot(ctx, &updated))

		latest, err := s.LatestSnapshot(ctx, "Standard")
		require.NoError(t, err)
		require.NotNil(t, latest)

		assert.Equal(t, first.ID, latest.ID)
		assert.Equal(t, updated.CollectedAt, latest.CollectedAt)
		assert.Len(t, s.data["Standard"], 2)
	})

	t.Run("concurrent saves", func(t *testing.T) {
		t.Parallel()

		var (
			s   = NewStorage()
			ctx = context.Background()
			wg  sync.WaitGroup

			base = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
		)

		for i := range 50 {
			wg.Add(1)

			go func() {
				defer wg.Done()

				snapshot := storagetest.NewSnapshot("Standard", base.Add(time.Duration(i)*time.Second))
				assert.NoError(t, s.SaveSnapshot(ctx, snapshot))
			}()
		}

		wg.Wait()

		latest, err := s.LatestSnapshot(ctx, "Standard")
		require.NoError(t, err)
		require.NotNil(t, latest)

		assert.True(t, base.Add(49*time.Second).Equal(latest.CollectedAt))
		assert.Len(t, s.data["Standard"], 50)
	})
}
