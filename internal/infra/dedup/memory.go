package dedup

import (
	"container/list"
	"context"
	"sync"
	"time"

	"payment-reconciler/internal/pkg/clock"
)

type entry struct {
	id     string
	seenAt time.Time
}

// MemoryWindow is a process-local seen-events set bounded by both age and size.
// Entries are kept in arrival order so expiry and overflow evict from the front.
type MemoryWindow struct {
	mu         sync.Mutex
	retention  time.Duration
	maxEntries int
	clock      clock.Clock
	order      *list.List
	index      map[string]*list.Element
}

func NewMemoryWindow(retention time.Duration, maxEntries int, clk clock.Clock) *MemoryWindow {
	return &MemoryWindow{
		retention:  retention,
		maxEntries: maxEntries,
		clock:      clk,
		order:      list.New(),
		index:      make(map[string]*list.Element),
	}
}

func (w *MemoryWindow) Claim(ctx context.Context, eventID string) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.clock.Now()
	w.evictExpired(now)

	if _, ok := w.index[eventID]; ok {
		return false, nil
	}

	w.index[eventID] = w.order.PushBack(entry{id: eventID, seenAt: now})
	for w.maxEntries > 0 && w.order.Len() > w.maxEntries {
		w.remove(w.order.Front())
	}
	return true, nil
}

func (w *MemoryWindow) Release(ctx context.Context, eventID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if el, ok := w.index[eventID]; ok {
		w.remove(el)
	}
	return nil
}

func (w *MemoryWindow) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.order.Len()
}

func (w *MemoryWindow) evictExpired(now time.Time) {
	cutoff := now.Add(-w.retention)
	for el := w.order.Front(); el != nil; el = w.order.Front() {
		if el.Value.(entry).seenAt.After(cutoff) {
			return
		}
		w.remove(el)
	}
}

func (w *MemoryWindow) remove(el *list.Element) {
	delete(w.index, el.Value.(entry).id)
	w.order.Remove(el)
}
