// README: PGStore tests against pgxmock.
package trip

import (
	"context"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voyager/internal/types"
)

var tripColumns = []string{"id", "doc", "status", "version", "created_at", "updated_at"}

func newMockStore(t *testing.T) (*PGStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewPGStore(mock), mock
}

func sampleTrip() *Trip {
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return &Trip{
		ID:           "trip-1",
		UserID:       "user-1",
		Title:        "Goa getaway",
		Destination:  "Goa",
		NumberOfDays: 3,
		Travelers:    2,
		Budget: types.Budget{
			Money:    types.Money{Amount: 30000, Currency: "INR"},
			Type:     types.BudgetTotal,
			Duration: types.BudgetEntireTrip,
		},
		Status:    StatusPlanned,
		TotalCost: CostBreakdown{Total: 28500, Currency: "INR"},
		Version:   1,
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func TestPGStoreCreate(t *testing.T) {
	store, mock := newMockStore(t)
	tr := sampleTrip()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO trips")).
		WithArgs(tr.ID, tr.UserID, tr.Destination, "planned", 1, pgxmock.AnyArg(), tr.CreatedAt, tr.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, store.Create(context.Background(), tr))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPGStoreGetColumnsWinOverDocument(t *testing.T) {
	store, mock := newMockStore(t)
	tr := sampleTrip()
	doc, err := json.Marshal(tr)
	require.NoError(t, err)
	updated := tr.CreatedAt.Add(time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta("FROM trips")).
		WithArgs("trip-1").
		WillReturnRows(pgxmock.NewRows(tripColumns).AddRow("trip-1", doc, "ongoing", 2, tr.CreatedAt, updated))

	got, err := store.Get(context.Background(), "trip-1")
	require.NoError(t, err)
	assert.Equal(t, "Goa", got.Destination)
	assert.Equal(t, 2, got.Travelers)
	assert.Equal(t, 28500.0, got.TotalCost.Total)
	assert.Equal(t, StatusOngoing, got.Status)
	assert.Equal(t, 2, got.Version)
	assert.Equal(t, updated, got.UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPGStoreGetNotFound(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM trips")).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPGStoreListBuildsFilters(t *testing.T) {
	store, mock := newMockStore(t)
	tr := sampleTrip()
	doc, err := json.Marshal(tr)
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta("FROM trips WHERE user_id = $1 AND status = $2 ORDER BY created_at DESC LIMIT 10")).
		WithArgs("user-1", "planned").
		WillReturnRows(pgxmock.NewRows(tripColumns).
			AddRow("trip-1", doc, "planned", 1, tr.CreatedAt, tr.UpdatedAt).
			AddRow("trip-2", doc, "planned", 1, tr.CreatedAt, tr.UpdatedAt))

	got, err := store.List(context.Background(), ListFilter{UserID: "user-1", Status: StatusPlanned, Limit: 10})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "trip-2", got[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPGStoreListWithoutFilters(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, doc, status, version, created_at, updated_at FROM trips ORDER BY created_at DESC")).
		WillReturnRows(pgxmock.NewRows(tripColumns))

	got, err := store.List(context.Background(), ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPGStoreUpdateStatusVersionMismatch(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE trips")).
		WithArgs("ongoing", pgxmock.AnyArg(), "trip-1", "planned", 1).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	ok, err := store.UpdateStatus(context.Background(), "trip-1", StatusPlanned, StatusOngoing, 1)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPGStoreUpdate(t *testing.T) {
	store, mock := newMockStore(t)
	tr := sampleTrip()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE trips")).
		WithArgs(pgxmock.AnyArg(), "Goa", tr.UpdatedAt, "trip-1", 1).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	ok, err := store.Update(context.Background(), tr, 1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPGStoreDelete(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM trips")).
		WithArgs("trip-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM trips")).
		WithArgs("trip-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	ok, err := store.Delete(context.Background(), "trip-1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Delete(context.Background(), "trip-1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPGStoreEvents(t *testing.T) {
	store, mock := newMockStore(t)
	at := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO trip_events")).
		WithArgs("trip-1", "planned", "ongoing", ActorUser, "user-1", at).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM trip_events")).
		WithArgs("trip-1").
		WillReturnRows(pgxmock.NewRows([]string{"trip_id", "from_status", "to_status", "actor_type", "actor_id", "created_at"}).
			AddRow("trip-1", "planned", "ongoing", ActorUser, "user-1", at))

	require.NoError(t, store.AppendEvent(context.Background(), &Event{
		TripID: "trip-1", FromStatus: StatusPlanned, ToStatus: StatusOngoing,
		ActorType: ActorUser, ActorID: "user-1", CreatedAt: at,
	}))
	events, err := store.ListEvents(context.Background(), "trip-1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, StatusOngoing, events[0].ToStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}
