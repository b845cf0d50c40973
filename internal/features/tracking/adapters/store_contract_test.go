package adapter

import (
	"context"
	"testing"
	"time"

	"github.com/okaniie/trackingstuff/internal/features/tracking/domain"
	"github.com/okaniie/trackingstuff/internal/features/tracking/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var contractBase = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func newContractRecord(t *testing.T, id string, at time.Time) *domain.TrackingRecord {
	t.Helper()
	record, err := domain.NewTrackingRecord(id, "New York, NY", "Los Angeles, CA",
		domain.StatusPackageReceived, "", at)
	require.NoError(t, err)
	return record
}

// runStoreContract exercises the behaviour every RecordStore must share.
func runStoreContract(t *testing.T, newStore func(t *testing.T) ports.RecordStore) {
	ctx := context.Background()

	t.Run("create then find", func(t *testing.T) {
		store := newStore(t)
		record := newContractRecord(t, "TRK000000001", contractBase)
		eta := contractBase.Add(72 * time.Hour)
		record.EstimatedDelivery = &eta

		require.NoError(t, store.Create(ctx, record))

		found, err := store.FindByID(ctx, "TRK000000001")
		require.NoError(t, err)
		assert.Equal(t, "New York, NY", found.Origin)
		assert.Equal(t, "Los Angeles, CA", found.Destination)
		assert.Equal(t, domain.StatusPackageReceived, found.Status)
		assert.Equal(t, "New York, NY", found.Location)
		assert.Equal(t, 0, found.Progress)
		require.Len(t, found.History, 1)
		assert.True(t, contractBase.Equal(found.History[0].Date))
		require.NotNil(t, found.EstimatedDelivery)
		assert.True(t, eta.Equal(*found.EstimatedDelivery))
		assert.True(t, contractBase.Equal(found.CreatedAt))
	})

	t.Run("duplicate id conflicts", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Create(ctx, newContractRecord(t, "DUP1", contractBase)))

		err := store.Create(ctx, newContractRecord(t, "DUP1", contractBase.Add(time.Minute)))
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("ids are case sensitive", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Create(ctx, newContractRecord(t, "trk-abc", contractBase)))

		_, err := store.FindByID(ctx, "TRK-ABC")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		store := newStore(t)

		_, err := store.FindByID(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrNotFound)

		_, err = store.AppendHistory(ctx, "missing", domain.HistoryEntry{
			Date: contractBase, Status: domain.StatusInTransit, Location: "Denver, CO",
		})
		assert.ErrorIs(t, err, domain.ErrNotFound)

		assert.ErrorIs(t, store.Delete(ctx, "missing"), domain.ErrNotFound)
	})

	t.Run("append mirrors the entry", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Create(ctx, newContractRecord(t, "APP1", contractBase)))

		entry := domain.HistoryEntry{
			Date:     contractBase.Add(24 * time.Hour),
			Status:   domain.StatusInTransit,
			Location: "Chicago, IL",
		}
		updated, err := store.AppendHistory(ctx, "APP1", entry)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusInTransit, updated.Status)
		assert.Equal(t, "Chicago, IL", updated.Location)
		assert.Equal(t, 40, updated.Progress)
		require.Len(t, updated.History, 2)

		found, err := store.FindByID(ctx, "APP1")
		require.NoError(t, err)
		require.Len(t, found.History, 2)
		assert.Equal(t, domain.StatusPackageReceived, found.History[0].Status)
		assert.Equal(t, "Chicago, IL", found.History[1].Location)
		assert.Equal(t, 40, found.Progress)
		assert.True(t, entry.Date.Equal(found.UpdatedAt))
	})

	t.Run("list returns every record with history", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Create(ctx, newContractRecord(t, "L2", contractBase.Add(time.Hour))))
		require.NoError(t, store.Create(ctx, newContractRecord(t, "L1", contractBase)))
		_, err := store.AppendHistory(ctx, "L2", domain.HistoryEntry{
			Date: contractBase.Add(2 * time.Hour), Status: domain.StatusDelivered, Location: "Los Angeles, CA",
		})
		require.NoError(t, err)

		records, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "L1", records[0].TrackingID)
		assert.Equal(t, "L2", records[1].TrackingID)
		assert.Len(t, records[0].History, 1)
		assert.Len(t, records[1].History, 2)
		assert.Equal(t, 100, records[1].Progress)
	})

	t.Run("delete removes the record", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Create(ctx, newContractRecord(t, "DEL1", contractBase)))

		require.NoError(t, store.Delete(ctx, "DEL1"))

		_, err := store.FindByID(ctx, "DEL1")
		assert.ErrorIs(t, err, domain.ErrNotFound)

		records, err := store.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("ping", func(t *testing.T) {
		store := newStore(t)
		assert.NoError(t, store.Ping(ctx))
	})
}
