// README: Trip store backed by PostgreSQL (JSONB document plus indexed columns).
package trip

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"voyager/internal/infra"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type PGStore struct {
	db infra.DB
}

func NewPGStore(db infra.DB) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) Create(ctx context.Context, t *Trip) error {
	doc, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("encode trip: %w", err)
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO trips (id, user_id, destination, status, version, doc, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		t.ID, t.UserID, t.Destination, string(t.Status), t.Version, doc, t.CreatedAt, t.UpdatedAt,
	)
	return err
}

func (s *PGStore) Get(ctx context.Context, id string) (*Trip, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, doc, status, version, created_at, updated_at
		FROM trips
		WHERE id = $1`, id,
	)
	t, err := scanTrip(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return t, err
}

func (s *PGStore) List(ctx context.Context, f ListFilter) ([]*Trip, error) {
	q := psql.Select("id", "doc", "status", "version", "created_at", "updated_at").
		From("trips").
		OrderBy("created_at DESC")
	if f.UserID != "" {
		q = q.Where(sq.Eq{"user_id": f.UserID})
	}
	if f.Status != "" {
		q = q.Where(sq.Eq{"status": string(f.Status)})
	}
	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Update replaces the stored document when the stored version still equals version.
func (s *PGStore) Update(ctx context.Context, t *Trip, version int) (bool, error) {
	doc, err := json.Marshal(t)
	if err != nil {
		return false, fmt.Errorf("encode trip: %w", err)
	}
	tag, err := s.db.Exec(ctx, `
		UPDATE trips
		SET doc = $1,
		    destination = $2,
		    version = version + 1,
		    updated_at = $3
		WHERE id = $4 AND version = $5`,
		doc, t.Destination, t.UpdatedAt, t.ID, version,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *PGStore) UpdateStatus(ctx context.Context, id string, from, to Status, version int) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE trips
		SET status = $1,
		    version = version + 1,
		    updated_at = $2
		WHERE id = $3 AND status = $4 AND version = $5`,
		string(to), time.Now().UTC(), id, string(from), version,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *PGStore) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM trips WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *PGStore) AppendEvent(ctx context.Context, e *Event) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO trip_events (trip_id, from_status, to_status, actor_type, actor_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		e.TripID, string(e.FromStatus), string(e.ToStatus), e.ActorType, e.ActorID, e.CreatedAt,
	)
	return err
}

func (s *PGStore) ListEvents(ctx context.Context, tripID string) ([]Event, error) {
	rows, err := s.db.Query(ctx, `
		SELECT trip_id, from_status, to_status, actor_type, actor_id, created_at
		FROM trip_events
		WHERE trip_id = $1
		ORDER BY created_at`, tripID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var e Event
		var from, to string
		if err := rows.Scan(&e.TripID, &from, &to, &e.ActorType, &e.ActorID, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.FromStatus, e.ToStatus = Status(from), Status(to)
		out = append(out, e)
	}
	return out, rows.Err()
}

// scanTrip decodes the document and lets the indexed columns win over it.
func scanTrip(row pgx.Row) (*Trip, error) {
	var (
		t      Trip
		id     string
		doc    []byte
		status string
	)
	var version int
	var createdAt, updatedAt time.Time
	if err := row.Scan(&id, &doc, &status, &version, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(doc, &t); err != nil {
		return nil, fmt.Errorf("decode trip %s: %w", id, err)
	}
	t.ID = id
	t.Status = Status(status)
	t.Version = version
	t.CreatedAt = createdAt
	t.UpdatedAt = updatedAt
	return &t, nil
}
