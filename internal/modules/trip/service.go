// README: Trip service implements ownership checks, edits and lifecycle transitions.
package trip

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidState = errors.New("invalid trip status transition")
	ErrNotFound     = errors.New("trip not found")
	ErrConflict     = errors.New("trip was modified concurrently")
	ErrBadRequest   = errors.New("bad request")
)

const (
	ActorUser  = "user"
	ActorAdmin = "admin"
)

// Store is implemented by PGStore and FirestoreStore.
type Store interface {
	Create(ctx context.Context, t *Trip) error
	Get(ctx context.Context, id string) (*Trip, error)
	List(ctx context.Context, f ListFilter) ([]*Trip, error)
	Update(ctx context.Context, t *Trip, version int) (bool, error)
	UpdateStatus(ctx context.Context, id string, from, to Status, version int) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	AppendEvent(ctx context.Context, e *Event) error
	ListEvents(ctx context.Context, tripID string) ([]Event, error)
}

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: func() time.Time { return time.Now().UTC() }}
}

// UpdateCommand carries a partial edit; nil fields are left unchanged.
type UpdateCommand struct {
	Title     *string
	StartDate *string
	EndDate   *string
	Travelers *int
}

type TransitionCommand struct {
	TripID    string
	To        Status
	ActorType string
	ActorID   string
}

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// Create fills in identity and lifecycle defaults and stores the trip.
func (s *Service) Create(ctx context.Context, t *Trip) (*Trip, error) {
	if t == nil || strings.TrimSpace(t.UserID) == "" || strings.TrimSpace(t.Destination) == "" {
		return nil, ErrBadRequest
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Status == "" {
		t.Status = StatusPlanned
	}
	t.Version = 1
	now := s.now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = t.CreatedAt
	t.EnsureImages()

	if err := s.store.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Get returns any trip by id.
func (s *Service) Get(ctx context.Context, id string) (*Trip, error) {
	return s.store.Get(ctx, id)
}

// GetOwned returns the trip only when uid owns it. Foreign trips look missing.
func (s *Service) GetOwned(ctx context.Context, uid, id string) (*Trip, error) {
	t, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.UserID != uid {
		return nil, ErrNotFound
	}
	return t, nil
}

func (s *Service) ListForUser(ctx context.Context, uid string, status Status) ([]*Trip, error) {
	if status != "" && !status.Valid() {
		return nil, ErrBadRequest
	}
	return s.store.List(ctx, ListFilter{UserID: uid, Status: status, Limit: defaultListLimit})
}

// List serves admin listings with an enforced upper bound on limit.
func (s *Service) List(ctx context.Context, f ListFilter) ([]*Trip, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, ErrBadRequest
	}
	if f.Limit <= 0 {
		f.Limit = defaultListLimit
	}
	if f.Limit > maxListLimit {
		f.Limit = maxListLimit
	}
	return s.store.List(ctx, f)
}

func (s *Service) Update(ctx context.Context, uid, id string, cmd UpdateCommand) (*Trip, error) {
	t, err := s.GetOwned(ctx, uid, id)
	if err != nil {
		return nil, err
	}
	if cmd.Title != nil {
		title := strings.TrimSpace(*cmd.Title)
		if title == "" {
			return nil, ErrBadRequest
		}
		t.Title = title
	}
	if cmd.Travelers != nil {
		if *cmd.Travelers < 1 {
			return nil, ErrBadRequest
		}
		t.Travelers = *cmd.Travelers
	}
	if cmd.StartDate != nil {
		t.StartDate = strings.TrimSpace(*cmd.StartDate)
	}
	if cmd.EndDate != nil {
		t.EndDate = strings.TrimSpace(*cmd.EndDate)
	}
	days, err := spanDays(t.StartDate, t.EndDate)
	if err != nil {
		return nil, err
	}
	if days > 0 {
		t.NumberOfDays = days
	}

	version := t.Version
	t.UpdatedAt = s.now()
	ok, err := s.store.Update(ctx, t, version)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrConflict
	}
	t.Version = version + 1
	return t, nil
}

// Transition moves a trip the caller owns to the requested status.
func (s *Service) Transition(ctx context.Context, uid string, cmd TransitionCommand) (*Trip, error) {
	t, err := s.GetOwned(ctx, uid, cmd.TripID)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, t, cmd)
}

// AdminTransition moves any trip to the requested status.
func (s *Service) AdminTransition(ctx context.Context, cmd TransitionCommand) (*Trip, error) {
	t, err := s.store.Get(ctx, cmd.TripID)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, t, cmd)
}

func (s *Service) transition(ctx context.Context, t *Trip, cmd TransitionCommand) (*Trip, error) {
	if !CanTransition(t.Status, cmd.To) {
		return nil, ErrInvalidState
	}
	ok, err := s.store.UpdateStatus(ctx, t.ID, t.Status, cmd.To, t.Version)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrConflict
	}
	now := s.now()
	_ = s.store.AppendEvent(ctx, &Event{
		TripID:     t.ID,
		FromStatus: t.Status,
		ToStatus:   cmd.To,
		ActorType:  cmd.ActorType,
		ActorID:    cmd.ActorID,
		CreatedAt:  now,
	})
	t.Status = cmd.To
	t.Version++
	t.UpdatedAt = now
	return t, nil
}

func (s *Service) Delete(ctx context.Context, uid, id string) error {
	if _, err := s.GetOwned(ctx, uid, id); err != nil {
		return err
	}
	ok, err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (s *Service) History(ctx context.Context, id string) ([]Event, error) {
	if _, err := s.store.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.store.ListEvents(ctx, id)
}

const dateLayout = "2006-01-02"

// spanDays validates a start/end pair and returns the inclusive day count,
// or 0 when both dates are empty.
func spanDays(start, end string) (int, error) {
	if (start == "") != (end == "") {
		return 0, ErrBadRequest
	}
	if start == "" {
		return 0, nil
	}
	s, err := time.Parse(dateLayout, start)
	if err != nil {
		return 0, ErrBadRequest
	}
	e, err := time.Parse(dateLayout, end)
	if err != nil {
		return 0, ErrBadRequest
	}
	if e.Before(s) {
		return 0, ErrBadRequest
	}
	return int(e.Sub(s).Hours()/24) + 1, nil
}
