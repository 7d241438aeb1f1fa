// README: AI-usage module tests (lazy reset and quota boundary logic).
package aiusage

import (
	"context"
	"os"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"voyager/internal/infra"
)

func fixedMonth(s *Service, month string) {
	at, _ := time.Parse(monthLayout, month)
	s.now = func() time.Time { return at.Add(36 * time.Hour) }
}

func TestUseTokenInitialisesMissingRow(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	svc := NewService(NewStore(mock, 5))
	fixedMonth(svc, "2026-04")

	mock.ExpectExec(regexp.QuoteMeta("UPDATE ai_usage SET")).
		WithArgs("2026-04", 5, "u1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO ai_usage")).
		WithArgs("u1", 5, "2026-04").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE ai_usage SET")).
		WithArgs("2026-04", 5, "u1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, svc.UseToken(context.Background(), "u1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUseTokenExhausted(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	svc := NewService(NewStore(mock, 5))
	fixedMonth(svc, "2026-04")

	for i := 0; i < 2; i++ {
		mock.ExpectExec(regexp.QuoteMeta("UPDATE ai_usage SET")).
			WithArgs("2026-04", 5, "u1").
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))
		if i == 0 {
			mock.ExpectExec(regexp.QuoteMeta("INSERT INTO ai_usage")).
				WithArgs("u1", 5, "2026-04").
				WillReturnResult(pgxmock.NewResult("INSERT", 0))
		}
	}

	assert.ErrorIs(t, svc.UseToken(context.Background(), "u1"), ErrInsufficientTokens)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewStoreDefaultsAllowance(t *testing.T) {
	assert.Equal(t, DefaultTokens, NewStore(nil, 0).allowance)
}

// The tests below run against a real database and skip when VOYAGER_TEST_DSN is not set.

func TestUseTokenCrossMonthReset(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()

	_, err := db.Exec(ctx, "INSERT INTO ai_usage VALUES ('user_reset', 0, '2000-01')")
	require.NoError(t, err)

	require.NoError(t, svc.UseToken(ctx, "user_reset"))

	remaining, err := svc.Remaining(ctx, "user_reset")
	require.NoError(t, err)
	assert.Equal(t, DefaultTokens-1, remaining)
}

func TestUseTokenAndRefund(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.UseToken(ctx, "user_new"))
	remaining, err := svc.Remaining(ctx, "user_new")
	require.NoError(t, err)
	assert.Equal(t, DefaultTokens-1, remaining)

	require.NoError(t, svc.RefundToken(ctx, "user_new"))
	require.NoError(t, svc.RefundToken(ctx, "user_new"))
	remaining, err = svc.Remaining(ctx, "user_new")
	require.NoError(t, err)
	assert.Equal(t, DefaultTokens, remaining, "refund never exceeds the allowance")
}

func TestUseTokenInsufficientCheck(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()

	_, err := db.Exec(ctx, "INSERT INTO ai_usage (uid, tokens_remaining, last_reset_month) VALUES ('user_zero', 0, TO_CHAR(NOW() AT TIME ZONE 'UTC', 'YYYY-MM'))")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.UseToken(ctx, "user_zero"), ErrInsufficientTokens)
}

func setupTestService(t *testing.T) (*Service, *pgxpool.Pool) {
	t.Helper()

	dsn := os.Getenv("VOYAGER_TEST_DSN")
	if dsn == "" {
		t.Skip("VOYAGER_TEST_DSN not set; skipping DB-backed tests")
	}

	ctx := context.Background()
	require.NoError(t, infra.RunMigrations(dsn, zap.NewNop()))
	db, err := infra.NewDB(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	_, err = db.Exec(ctx, "TRUNCATE TABLE ai_usage")
	require.NoError(t, err)

	return NewService(NewStore(db, DefaultTokens)), db
}
