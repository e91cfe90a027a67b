// Package memory provides an in-process order store for single-instance
// deployments and docker-free tests.
//
// The conditional exclusive acquire is realized with a per-order mutex taken
// through TryLock, so a contended claim fails immediately instead of waiting.
// Changes made inside a unit of work are staged and become visible on Commit.
// The store is not shared between processes; run the postgres store when more
// than one instance serves the same orders.
package memory

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

type row struct {
	distance int
	status   order.Status
}

// Store holds committed orders and their row locks.
type Store struct {
	mu     sync.RWMutex
	rows   map[int64]row
	locks  map[int64]*sync.Mutex
	lastID int64

	publisher ports.OrderEventPublisher
	logger    *slog.Logger
}

// NewStore creates an empty store. publisher may be nil.
func NewStore(publisher ports.OrderEventPublisher, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		rows:      make(map[int64]row),
		locks:     make(map[int64]*sync.Mutex),
		publisher: publisher,
		logger:    logger.With("component", "memory_store"),
	}
}

// Create returns a fresh unit of work over the store.
func (s *Store) Create() ports.UnitOfWork {
	return &UnitOfWork{
		store:  s,
		staged: make(map[int64]row),
	}
}

func (s *Store) nextID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastID++
	return s.lastID
}

func (s *Store) get(id int64) (row, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rows[id]
	return r, ok
}

func (s *Store) put(id int64, r row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[id] = r
}

func (s *Store) apply(staged map[int64]row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, r := range staged {
		s.rows[id] = r
	}
}

func (s *Store) tryLock(id int64) bool {
	s.mu.Lock()
	lock, ok := s.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[id] = lock
	}
	s.mu.Unlock()

	return lock.TryLock()
}

func (s *Store) unlock(id int64) {
	s.mu.RLock()
	lock := s.locks[id]
	s.mu.RUnlock()

	if lock != nil {
		lock.Unlock()
	}
}

func (s *Store) listInRange(lowerExclusive, upperInclusive int64) []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]int64, 0)
	for id := range s.rows {
		if id > lowerExclusive && id <= upperInclusive {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (s *Store) countUnassigned() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, r := range s.rows {
		if r.status == order.Unassigned {
			n++
		}
	}
	return n
}

func (s *Store) publish(ctx context.Context, tracked []*order.Order) {
	if s.publisher == nil {
		return
	}
	for _, aggregate := range tracked {
		if err := s.publisher.PublishOrderChanged(ctx, aggregate); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish order change",
				"order_id", aggregate.ID(),
				"status", aggregate.Status().String(),
				"error", err,
			)
		}
	}
}

func notFound(id int64) error {
	return errs.NewObjectNotFoundError("order", id)
}
