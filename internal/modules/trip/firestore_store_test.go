// README: FirestoreStore round-trip; runs only against the Firestore emulator.
package trip

import (
	"context"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEmulatorStore(t *testing.T) *FirestoreStore {
	t.Helper()
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set; skipping Firestore tests")
	}
	client, err := firestore.NewClient(context.Background(), "voyager-test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return NewFirestoreStore(client)
}

func TestFirestoreStoreRoundTrip(t *testing.T) {
	store := newEmulatorStore(t)
	ctx := context.Background()
	tr := sampleTrip()
	tr.ID = uuid.NewString()

	require.NoError(t, store.Create(ctx, tr))

	got, err := store.Get(ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, tr.Destination, got.Destination)
	assert.Equal(t, tr.Travelers, got.Travelers)
	assert.Equal(t, tr.TotalCost.Total, got.TotalCost.Total)

	ok, err := store.UpdateStatus(ctx, tr.ID, StatusPlanned, StatusOngoing, 1)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.UpdateStatus(ctx, tr.ID, StatusPlanned, StatusOngoing, 1)
	require.NoError(t, err)
	assert.False(t, ok, "stale version must not apply")

	ok, err = store.Delete(ctx, tr.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = store.Get(ctx, tr.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFirestoreStoreDeleteRemovesEvents(t *testing.T) {
	store := newEmulatorStore(t)
	ctx := context.Background()
	tr := sampleTrip()
	tr.ID = uuid.NewString()
	require.NoError(t, store.Create(ctx, tr))

	for _, to := range []Status{StatusOngoing, StatusCompleted} {
		require.NoError(t, store.AppendEvent(ctx, &Event{
			TripID: tr.ID, ToStatus: to, ActorType: "user", ActorID: tr.UserID, CreatedAt: time.Now().UTC(),
		}))
	}
	events, err := store.ListEvents(ctx, tr.ID)
	require.NoError(t, err)
	require.Len(t, events, 2)

	ok, err := store.Delete(ctx, tr.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	events, err = store.ListEvents(ctx, tr.ID)
	require.NoError(t, err)
	assert.Empty(t, events)

	ok, err = store.Delete(ctx, tr.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}
