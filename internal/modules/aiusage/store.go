// README: ai_usage persistence (atomic monthly reset and deduction).
package aiusage

import (
	"context"

	"voyager/internal/infra"
)

// Store handles ai_usage persistence.
type Store struct {
	db        infra.DB
	allowance int
}

// NewStore returns a Store granting allowance tokens per month.
func NewStore(db infra.DB, allowance int) *Store {
	if allowance <= 0 {
		allowance = DefaultTokens
	}
	return &Store{db: db, allowance: allowance}
}

// UseToken atomically checks the monthly quota and deducts one token.
// It resets the counter to the allowance when last_reset_month is behind month.
// Returns ErrInsufficientTokens when 0 rows are updated (quota exhausted or user absent).
func (s *Store) UseToken(ctx context.Context, uid, month string) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE ai_usage SET
			tokens_remaining = CASE WHEN last_reset_month != $1 THEN $2 - 1 ELSE tokens_remaining - 1 END,
			last_reset_month = $1
		WHERE uid = $3 AND (last_reset_month < $1 OR tokens_remaining > 0)
	`, month, s.allowance, uid)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrInsufficientTokens
	}
	return nil
}

// RefundToken gives one token back for month, never above the allowance.
func (s *Store) RefundToken(ctx context.Context, uid, month string) error {
	_, err := s.db.Exec(ctx, `
		UPDATE ai_usage
		SET tokens_remaining = LEAST(tokens_remaining + 1, $1)
		WHERE uid = $2 AND last_reset_month = $3
	`, s.allowance, uid, month)
	return err
}

// EnsureUser inserts a new ai_usage row for uid with the full allowance.
// If the row already exists the insert is silently skipped (ON CONFLICT DO NOTHING).
func (s *Store) EnsureUser(ctx context.Context, uid, month string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO ai_usage (uid, tokens_remaining, last_reset_month)
		VALUES ($1, $2, $3)
		ON CONFLICT (uid) DO NOTHING
	`, uid, s.allowance, month)
	return err
}

// Remaining reports tokens left for month; absent users have the full allowance.
func (s *Store) Remaining(ctx context.Context, uid, month string) (int, error) {
	var n int
	err := s.db.QueryRow(ctx, `
		SELECT COALESCE((
			SELECT CASE WHEN last_reset_month = $1 THEN tokens_remaining ELSE $2::int END
			FROM ai_usage WHERE uid = $3
		), $2::int)
	`, month, s.allowance, uid).Scan(&n)
	return n, err
}
