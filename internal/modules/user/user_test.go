// README: User store/service tests against pgxmock.
package user

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voyager/internal/types"
)

func newMockService(t *testing.T) (*Service, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewService(NewStore(mock)), mock
}

func TestSaveProfile(t *testing.T) {
	svc, mock := newMockService(t)
	now := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("u1", "asha@example.com", "Asha", "").
		WillReturnRows(pgxmock.NewRows([]string{"uid", "email", "display_name", "photo_url", "created_at", "updated_at"}).
			AddRow("u1", "asha@example.com", "Asha", "", now, now))

	u, err := svc.SaveProfile(context.Background(), ProfileCommand{UID: "u1", Email: " asha@example.com ", DisplayName: "Asha"})
	require.NoError(t, err)
	assert.Equal(t, "Asha", u.DisplayName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveProfileRequiresUID(t *testing.T) {
	svc, _ := newMockService(t)
	_, err := svc.SaveProfile(context.Background(), ProfileCommand{})
	assert.ErrorIs(t, err, ErrBadRequest)
}

func TestGetNotFound(t *testing.T) {
	svc, mock := newMockService(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM users")).WithArgs("ghost").WillReturnError(pgx.ErrNoRows)

	_, err := svc.Get(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPreferencesDefaultToEmpty(t *testing.T) {
	svc, mock := newMockService(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM user_preferences")).WithArgs("u1").WillReturnError(pgx.ErrNoRows)

	p, err := svc.Preferences(context.Background(), "u1")
	require.NoError(t, err)
	assert.True(t, p.IsZero())
}

func TestPreferencesLoaded(t *testing.T) {
	svc, mock := newMockService(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM user_preferences")).WithArgs("u1").
		WillReturnRows(pgxmock.NewRows([]string{"activity_level", "interests", "dietary_restrictions", "accommodation_type"}).
			AddRow("high", []string{"beaches"}, []string{"vegetarian"}, "resort"))

	p, err := svc.Preferences(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, types.ActivityHigh, p.ActivityLevel)
	assert.Equal(t, []string{"beaches"}, p.Interests)
	assert.Equal(t, "resort", p.AccommodationType)
}

func TestSavePreferences(t *testing.T) {
	svc, mock := newMockService(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).WithArgs("u1").
		WillReturnResult(pgxmock.NewResult("INSERT", 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO user_preferences")).
		WithArgs("u1", "moderate", []string{"forts"}, []string{}, "").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	p, err := svc.SavePreferences(context.Background(), "u1", types.Preferences{
		ActivityLevel: "Moderate",
		Interests:     []string{" forts ", ""},
	})
	require.NoError(t, err)
	assert.Equal(t, types.ActivityModerate, p.ActivityLevel)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSavePreferencesRejectsUnknownActivityLevel(t *testing.T) {
	svc, mock := newMockService(t)
	_, err := svc.SavePreferences(context.Background(), "u1", types.Preferences{ActivityLevel: "extreme"})
	assert.ErrorIs(t, err, ErrBadRequest)
	assert.NoError(t, mock.ExpectationsWereMet())
}
