package notification

import (
	"context"
	"slices"
	"sync"
	"time"
)

// MemoryFeed keeps at most limit notifications in process memory.
type MemoryFeed struct {
	mu     sync.Mutex
	items  []Notification
	lastID int
	limit  int
	now    func() time.Time
}

// NewMemoryFeed creates a feed holding seed (already most recent first).
// A non-positive limit keeps everything.
func NewMemoryFeed(limit int, now func() time.Time, seed ...Notification) *MemoryFeed {
	if now == nil {
		now = time.Now
	}
	f := &MemoryFeed{limit: limit, now: now}
	for _, n := range seed {
		f.items = append(f.items, n)
		f.lastID = max(f.lastID, n.ID)
	}
	f.trim()
	return f
}

func (f *MemoryFeed) List(_ context.Context) ([]Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.items), nil
}

func (f *MemoryFeed) Push(_ context.Context, kind Kind, message string) (Notification, error) {
	if err := checkKind(kind); err != nil {
		return Notification{}, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.lastID++
	n := Notification{ID: f.lastID, Message: message, Kind: kind, CreatedAt: f.now()}
	f.items = slices.Insert(f.items, 0, n)
	f.trim()
	return n, nil
}

func (f *MemoryFeed) trim() {
	if f.limit > 0 && len(f.items) > f.limit {
		f.items = f.items[:f.limit]
	}
}
