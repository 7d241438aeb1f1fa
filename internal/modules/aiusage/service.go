// README: Quota service consumed by trip generation.
package aiusage

import (
	"context"
	"errors"
	"time"
)

// Service orchestrates AI token-usage logic.
type Service struct {
	store *Store
	now   func() time.Time
}

// NewService creates a Service backed by the given Store.
func NewService(store *Store) *Service {
	return &Service{store: store, now: time.Now}
}

func (s *Service) month() string {
	return s.now().UTC().Format(monthLayout)
}

// UseToken deducts one token from the user's monthly allowance.
// If the user row does not exist yet it is initialised and the token is immediately consumed.
// Returns ErrInsufficientTokens when the quota for the current month is exhausted.
func (s *Service) UseToken(ctx context.Context, uid string) error {
	month := s.month()
	err := s.store.UseToken(ctx, uid, month)
	if !errors.Is(err, ErrInsufficientTokens) {
		return err
	}

	// Row may be missing: try to create it, then retry the deduction once.
	if initErr := s.store.EnsureUser(ctx, uid, month); initErr != nil {
		return initErr
	}
	return s.store.UseToken(ctx, uid, month)
}

// RefundToken returns a token consumed by a generation that failed.
func (s *Service) RefundToken(ctx context.Context, uid string) error {
	return s.store.RefundToken(ctx, uid, s.month())
}

func (s *Service) Remaining(ctx context.Context, uid string) (int, error) {
	return s.store.Remaining(ctx, uid, s.month())
}
