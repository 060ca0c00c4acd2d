// Package memstore keeps intents and notification jobs in process memory.
// It backs STORE_DRIVER=memory for local runs and the use-case tests.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"payment-reconciler/internal/domain/payment"
	"payment-reconciler/internal/infra"
	"payment-reconciler/internal/usecase/queries"
	"payment-reconciler/internal/usecase/shared"

	"github.com/google/uuid"
)

type job struct {
	n           payment.Notification
	lockedUntil time.Time
	sentAt      time.Time
}

type Store struct {
	mu       sync.Mutex
	intents  map[string]payment.Snapshot
	byRef    map[string]string
	jobs     map[uuid.UUID]*job
	jobOrder []uuid.UUID
	jobKeys  map[string]uuid.UUID
}

func New() *Store {
	return &Store{
		intents: make(map[string]payment.Snapshot),
		byRef:   make(map[string]string),
		jobs:    make(map[uuid.UUID]*job),
		jobKeys: make(map[string]uuid.UUID),
	}
}

// Within runs fn against a staged view and commits it only when fn succeeds.
// Transactions are serialized; fn must not call Reads.
func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memTx{s: s, intents: make(map[string]payment.Snapshot)}
	if err := fn(ctx, tx); err != nil {
		return err
	}

	for id, snap := range tx.intents {
		s.intents[id] = snap
		s.byRef[snap.Reference] = id
	}
	for _, n := range tx.jobs {
		key := jobKey(n.IntentID, n.Topic)
		if _, ok := s.jobKeys[key]; ok {
			continue
		}
		s.jobs[n.ID] = &job{n: *n}
		s.jobOrder = append(s.jobOrder, n.ID)
		s.jobKeys[key] = n.ID
	}
	return nil
}

func (s *Store) Reads() shared.IntentReads {
	return s
}

func (s *Store) FindByID(ctx context.Context, id string) (*payment.Intent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, ok := s.intents[id]
	if !ok {
		return nil, infra.WrapRepoErr("payment intent not found", nil, infra.KindNotFound)
	}
	return payment.ReconstructIntent(snap), nil
}

func (s *Store) FindByReference(ctx context.Context, ref payment.Reference) (*payment.Intent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byRef[ref.String()]
	if !ok {
		return nil, infra.WrapRepoErr("payment intent not found", nil, infra.KindNotFound)
	}
	return payment.ReconstructIntent(s.intents[id]), nil
}

func (s *Store) ListStale(ctx context.Context, statuses []payment.Status, updatedBefore time.Time, limit int) ([]*payment.Intent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var snaps []payment.Snapshot
	for _, snap := range s.intents {
		if snap.UpdatedAt.Before(updatedBefore) && containsStatus(statuses, snap.Status) {
			snaps = append(snaps, snap)
		}
	}
	sort.Slice(snaps, func(i, j int) bool {
		if snaps[i].UpdatedAt.Equal(snaps[j].UpdatedAt) {
			return snaps[i].ID < snaps[j].ID
		}
		return snaps[i].UpdatedAt.Before(snaps[j].UpdatedAt)
	})
	if limit > 0 && len(snaps) > limit {
		snaps = snaps[:limit]
	}

	out := make([]*payment.Intent, len(snaps))
	for i, snap := range snaps {
		out[i] = payment.ReconstructIntent(snap)
	}
	return out, nil
}

// IntentViews exposes the same data as a queries.IntentReadStore.
func (s *Store) IntentViews() queries.IntentReadStore {
	return viewStore{s: s}
}

type viewStore struct {
	s *Store
}

func (v viewStore) FindByID(ctx context.Context, id string) (*queries.IntentView, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	snap, ok := v.s.intents[id]
	if !ok {
		return nil, infra.WrapRepoErr("payment intent not found", nil, infra.KindNotFound)
	}
	return queries.ViewFromSnapshot(snap), nil
}

func (v viewStore) FindByOwnerFirstPage(ctx context.Context, ownerID uuid.UUID, limit int32) ([]*queries.IntentView, error) {
	return v.page(ownerID, func(payment.Snapshot) bool { return true }, limit), nil
}

func (v viewStore) FindByOwnerKeyset(ctx context.Context, ownerID uuid.UUID, lastCreatedAt time.Time, lastID string, limit int32) ([]*queries.IntentView, error) {
	after := func(snap payment.Snapshot) bool {
		created := snap.CreatedAt.Truncate(time.Microsecond)
		if created.Equal(lastCreatedAt) {
			return snap.ID < lastID
		}
		return created.Before(lastCreatedAt)
	}
	return v.page(ownerID, after, limit), nil
}

func (v viewStore) page(ownerID uuid.UUID, keep func(payment.Snapshot) bool, limit int32) []*queries.IntentView {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	var snaps []payment.Snapshot
	for _, snap := range v.s.intents {
		if snap.OwnerID == ownerID && keep(snap) {
			snaps = append(snaps, snap)
		}
	}
	sort.Slice(snaps, func(i, j int) bool {
		if snaps[i].CreatedAt.Equal(snaps[j].CreatedAt) {
			return snaps[i].ID > snaps[j].ID
		}
		return snaps[i].CreatedAt.After(snaps[j].CreatedAt)
	})
	if int(limit) < len(snaps) {
		snaps = snaps[:limit]
	}

	out := make([]*queries.IntentView, len(snaps))
	for i, snap := range snaps {
		out[i] = queries.ViewFromSnapshot(snap)
	}
	return out
}

type memTx struct {
	s       *Store
	intents map[string]payment.Snapshot
	jobs    []*payment.Notification
}

func (t *memTx) Intents() shared.IntentRepository {
	return intentRepo{t}
}

func (t *memTx) Notifications() shared.NotificationRepository {
	return notificationRepo{t}
}

func (t *memTx) lookup(id string) (payment.Snapshot, bool) {
	if snap, ok := t.intents[id]; ok {
		return snap, true
	}
	snap, ok := t.s.intents[id]
	return snap, ok
}

type intentRepo struct {
	tx *memTx
}

func (r intentRepo) InsertIfAbsent(ctx context.Context, intent *payment.Intent) (bool, error) {
	snap := intent.Snapshot()
	if _, ok := r.tx.lookup(snap.ID); ok {
		return false, nil
	}
	if _, ok := r.tx.s.byRef[snap.Reference]; ok {
		return false, nil
	}
	for _, staged := range r.tx.intents {
		if staged.Reference == snap.Reference {
			return false, nil
		}
	}
	r.tx.intents[snap.ID] = snap
	return true, nil
}

func (r intentRepo) SwapStatus(ctx context.Context, expectedSequence int64, next *payment.Intent) error {
	stored, ok := r.tx.lookup(next.ID())
	if !ok {
		return infra.WrapRepoErr("payment intent not found", nil, infra.KindNotFound)
	}
	if stored.LastEventSequence != expectedSequence {
		return infra.WrapRepoErr("payment intent sequence moved", nil, infra.KindStaleSequence)
	}

	snap := next.Snapshot()
	stored.Status = snap.Status
	stored.LastEventSequence = snap.LastEventSequence
	stored.UpdatedAt = snap.UpdatedAt
	r.tx.intents[stored.ID] = stored
	return nil
}

type notificationRepo struct {
	tx *memTx
}

func (r notificationRepo) Enqueue(ctx context.Context, n *payment.Notification) error {
	cp := *n
	r.tx.jobs = append(r.tx.jobs, &cp)
	return nil
}

func (s *Store) ClaimDue(ctx context.Context, now time.Time, lease time.Duration, limit int) ([]payment.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var claimed []payment.Notification
	for _, id := range s.jobOrder {
		if limit > 0 && len(claimed) >= limit {
			break
		}
		j := s.jobs[id]
		due := j.n.Status == payment.NotificationQueued && !j.n.RunAt.After(now)
		expired := j.n.Status == payment.NotificationProcessing && j.lockedUntil.Before(now)
		if !due && !expired {
			continue
		}
		j.n.Status = payment.NotificationProcessing
		j.n.Attempts++
		j.lockedUntil = now.Add(lease)
		claimed = append(claimed, j.n)
	}
	return claimed, nil
}

func (s *Store) MarkSent(ctx context.Context, id uuid.UUID, at time.Time) error {
	return s.updateJob(id, func(j *job) {
		j.n.Status = payment.NotificationSent
		j.n.LastError = nil
		j.sentAt = at
	})
}

func (s *Store) MarkRetry(ctx context.Context, id uuid.UUID, runAt time.Time, lastErr string) error {
	return s.updateJob(id, func(j *job) {
		j.n.Status = payment.NotificationQueued
		j.n.RunAt = runAt
		j.n.LastError = &lastErr
	})
}

func (s *Store) MarkDead(ctx context.Context, id uuid.UUID, lastErr string) error {
	return s.updateJob(id, func(j *job) {
		j.n.Status = payment.NotificationDead
		j.n.LastError = &lastErr
	})
}

// Notifications returns a copy of every job, oldest first.
func (s *Store) Notifications() []payment.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]payment.Notification, 0, len(s.jobOrder))
	for _, id := range s.jobOrder {
		out = append(out, s.jobs[id].n)
	}
	return out
}

func (s *Store) updateJob(id uuid.UUID, mutate func(*job)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[id]
	if !ok {
		return infra.WrapRepoErr("notification job not found", nil, infra.KindNotFound)
	}
	mutate(j)
	return nil
}

func containsStatus(statuses []payment.Status, s payment.Status) bool {
	for _, candidate := range statuses {
		if candidate == s {
			return true
		}
	}
	return false
}

func jobKey(intentID, topic string) string {
	return intentID + "|" + topic
}
