// README: Trip store backed by a Firestore "trips" collection.
package trip

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	tripsCollection  = "trips"
	eventsCollection = "events"
)

var errStale = errors.New("stale trip version")

type FirestoreStore struct {
	client *firestore.Client
}

func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

func (s *FirestoreStore) trips() *firestore.CollectionRef {
	return s.client.Collection(tripsCollection)
}

func (s *FirestoreStore) Create(ctx context.Context, t *Trip) error {
	_, err := s.trips().Doc(t.ID).Create(ctx, t)
	return err
}

func (s *FirestoreStore) Get(ctx context.Context, id string) (*Trip, error) {
	snap, err := s.trips().Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return decodeSnapshot(snap)
}

func (s *FirestoreStore) List(ctx context.Context, f ListFilter) ([]*Trip, error) {
	q := s.trips().Query
	if f.UserID != "" {
		q = q.Where("userId", "==", f.UserID)
	}
	if f.Status != "" {
		q = q.Where("status", "==", string(f.Status))
	}
	q = q.OrderBy("createdAt", firestore.Desc)
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	it := q.Documents(ctx)
	defer it.Stop()
	var out []*Trip
	for {
		snap, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		t, err := decodeSnapshot(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func (s *FirestoreStore) Update(ctx context.Context, t *Trip, version int) (bool, error) {
	ref := s.trips().Doc(t.ID)
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		current, err := s.versionOf(tx, ref)
		if err != nil {
			return err
		}
		if current != version {
			return errStale
		}
		next := *t
		next.Version = version + 1
		return tx.Set(ref, &next)
	})
	return settle(err)
}

func (s *FirestoreStore) UpdateStatus(ctx context.Context, id string, from, to Status, version int) (bool, error) {
	ref := s.trips().Doc(id)
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			return err
		}
		t, err := decodeSnapshot(snap)
		if err != nil {
			return err
		}
		if t.Status != from || t.Version != version {
			return errStale
		}
		return tx.Update(ref, []firestore.Update{
			{Path: "status", Value: string(to)},
			{Path: "version", Value: version + 1},
			{Path: "updatedAt", Value: time.Now().UTC()},
		})
	})
	return settle(err)
}

// Delete removes the trip's events subcollection and then the trip itself.
func (s *FirestoreStore) Delete(ctx context.Context, id string) (bool, error) {
	ref := s.trips().Doc(id)
	if err := s.deleteEvents(ctx, ref); err != nil {
		return false, fmt.Errorf("delete trip events: %w", err)
	}
	_, err := ref.Delete(ctx, firestore.Exists)
	if status.Code(err) == codes.NotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *FirestoreStore) deleteEvents(ctx context.Context, trip *firestore.DocumentRef) error {
	refs, err := trip.Collection(eventsCollection).DocumentRefs(ctx).GetAll()
	if err != nil {
		return err
	}
	if len(refs) == 0 {
		return nil
	}
	bw := s.client.BulkWriter(ctx)
	jobs := make([]*firestore.BulkWriterJob, 0, len(refs))
	for _, r := range refs {
		job, err := bw.Delete(r)
		if err != nil {
			bw.End()
			return err
		}
		jobs = append(jobs, job)
	}
	bw.End()
	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			return err
		}
	}
	return nil
}

func (s *FirestoreStore) AppendEvent(ctx context.Context, e *Event) error {
	_, _, err := s.trips().Doc(e.TripID).Collection(eventsCollection).Add(ctx, e)
	return err
}

func (s *FirestoreStore) ListEvents(ctx context.Context, tripID string) ([]Event, error) {
	it := s.trips().Doc(tripID).Collection(eventsCollection).
		OrderBy("createdAt", firestore.Asc).
		Documents(ctx)
	defer it.Stop()

	var out []Event
	for {
		snap, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		var e Event
		if err := snap.DataTo(&e); err != nil {
			return nil, fmt.Errorf("decode trip event %s: %w", snap.Ref.ID, err)
		}
		out = append(out, e)
	}
	return out, nil
}

func (s *FirestoreStore) versionOf(tx *firestore.Transaction, ref *firestore.DocumentRef) (int, error) {
	snap, err := tx.Get(ref)
	if err != nil {
		return 0, err
	}
	v, err := snap.DataAt("version")
	if err != nil {
		return 0, err
	}
	n, ok := v.(int64)
	if !ok {
		return 0, fmt.Errorf("trip %s: version has type %T", ref.ID, v)
	}
	return int(n), nil
}

// settle maps a transaction outcome onto the (applied, error) store contract.
func settle(err error) (bool, error) {
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, errStale), status.Code(err) == codes.NotFound:
		return false, nil
	default:
		return false, err
	}
}

func decodeSnapshot(snap *firestore.DocumentSnapshot) (*Trip, error) {
	var t Trip
	if err := snap.DataTo(&t); err != nil {
		return nil, fmt.Errorf("decode trip %s: %w", snap.Ref.ID, err)
	}
	t.ID = snap.Ref.ID
	return &t, nil
}
