// README: User service (profile upsert and preference defaults for trip generation).
package user

import (
	"context"
	"strings"

	"voyager/internal/types"
)

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

type ProfileCommand struct {
	UID         string
	Email       string
	DisplayName string
	PhotoURL    string
}

func (s *Service) SaveProfile(ctx context.Context, cmd ProfileCommand) (*User, error) {
	if strings.TrimSpace(cmd.UID) == "" {
		return nil, ErrBadRequest
	}
	return s.store.Upsert(ctx, &User{
		UID:         cmd.UID,
		Email:       strings.TrimSpace(cmd.Email),
		DisplayName: strings.TrimSpace(cmd.DisplayName),
		PhotoURL:    strings.TrimSpace(cmd.PhotoURL),
	})
}

func (s *Service) Get(ctx context.Context, uid string) (*User, error) {
	return s.store.Get(ctx, uid)
}

// Preferences returns the saved preferences; users without any get the zero value.
func (s *Service) Preferences(ctx context.Context, uid string) (types.Preferences, error) {
	return s.store.GetPreferences(ctx, uid)
}

func (s *Service) SavePreferences(ctx context.Context, uid string, p types.Preferences) (types.Preferences, error) {
	p = p.Clean()
	if p.ActivityLevel != "" && !p.ActivityLevel.Valid() {
		return types.Preferences{}, ErrBadRequest
	}
	if err := s.store.EnsureUser(ctx, uid); err != nil {
		return types.Preferences{}, err
	}
	if err := s.store.SavePreferences(ctx, uid, p); err != nil {
		return types.Preferences{}, err
	}
	return p, nil
}
