// README: User and preference persistence in PostgreSQL.
package user

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"voyager/internal/infra"
	"voyager/internal/types"
)

type Store struct {
	db infra.DB
}

func NewStore(db infra.DB) *Store {
	return &Store{db: db}
}

// Upsert inserts the profile or refreshes its mutable fields.
func (s *Store) Upsert(ctx context.Context, u *User) (*User, error) {
	row := s.db.QueryRow(ctx, `
		INSERT INTO users (uid, email, display_name, photo_url)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (uid) DO UPDATE SET
			email = EXCLUDED.email,
			display_name = EXCLUDED.display_name,
			photo_url = EXCLUDED.photo_url,
			updated_at = NOW()
		RETURNING uid, email, display_name, photo_url, created_at, updated_at`,
		u.UID, u.Email, u.DisplayName, u.PhotoURL,
	)
	var out User
	if err := row.Scan(&out.UID, &out.Email, &out.DisplayName, &out.PhotoURL, &out.CreatedAt, &out.UpdatedAt); err != nil {
		return nil, err
	}
	return &out, nil
}

// EnsureUser creates an empty profile row if uid has none yet.
func (s *Store) EnsureUser(ctx context.Context, uid string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO users (uid) VALUES ($1)
		ON CONFLICT (uid) DO NOTHING`, uid)
	return err
}

func (s *Store) Get(ctx context.Context, uid string) (*User, error) {
	row := s.db.QueryRow(ctx, `
		SELECT uid, email, display_name, photo_url, created_at, updated_at
		FROM users
		WHERE uid = $1`, uid)
	var u User
	err := row.Scan(&u.UID, &u.Email, &u.DisplayName, &u.PhotoURL, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetPreferences returns the saved preferences, or the zero value when none are saved.
func (s *Store) GetPreferences(ctx context.Context, uid string) (types.Preferences, error) {
	row := s.db.QueryRow(ctx, `
		SELECT activity_level, interests, dietary_restrictions, accommodation_type
		FROM user_preferences
		WHERE uid = $1`, uid)
	var (
		p     types.Preferences
		level string
	)
	err := row.Scan(&level, &p.Interests, &p.DietaryRestrictions, &p.AccommodationType)
	if errors.Is(err, pgx.ErrNoRows) {
		return types.Preferences{}, nil
	}
	if err != nil {
		return types.Preferences{}, err
	}
	p.ActivityLevel = types.ActivityLevel(level)
	return p, nil
}

func (s *Store) SavePreferences(ctx context.Context, uid string, p types.Preferences) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO user_preferences (uid, activity_level, interests, dietary_restrictions, accommodation_type)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (uid) DO UPDATE SET
			activity_level = EXCLUDED.activity_level,
			interests = EXCLUDED.interests,
			dietary_restrictions = EXCLUDED.dietary_restrictions,
			accommodation_type = EXCLUDED.accommodation_type,
			updated_at = NOW()`,
		uid, string(p.ActivityLevel), nonNil(p.Interests), nonNil(p.DietaryRestrictions), p.AccommodationType,
	)
	return err
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
