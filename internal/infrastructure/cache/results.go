package cache

import (
	"sync"
	"time"

	"github.com/haiminhdev/meeting-agent/internal/domain/entities"
)

// ResultStore is an in-memory store of processing results with expiration.
// Results are kept long enough for callers to poll them after a run; there
// is no persistence by design.
type ResultStore struct {
	mu    sync.RWMutex
	ttl   time.Duration
	items map[string]*resultItem
}

type resultItem struct {
	result     *entities.ProcessingResult
	expireTime time.Time
}

// NewResultStore creates a result store whose entries expire after ttl
func NewResultStore(ttl time.Duration) *ResultStore {
	store := &ResultStore{
		ttl:   ttl,
		items: make(map[string]*resultItem),
	}

	// Start cleanup goroutine to remove expired items
	go store.cleanupExpired()

	return store
}

// Put stores a processing result under its meeting ID
func (rs *ResultStore) Put(result *entities.ProcessingResult) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	rs.items[result.MeetingID] = &resultItem{
		result:     result,
		expireTime: time.Now().Add(rs.ttl),
	}
}

// Get retrieves a processing result by meeting ID
func (rs *ResultStore) Get(meetingID string) (*entities.ProcessingResult, bool) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	item, exists := rs.items[meetingID]
	if !exists {
		return nil, false
	}

	if time.Now().After(item.expireTime) {
		return nil, false
	}

	return item.result, true
}

// Delete removes a result
func (rs *ResultStore) Delete(meetingID string) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	delete(rs.items, meetingID)
}

// cleanupExpired periodically removes expired items
func (rs *ResultStore) cleanupExpired() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rs.mu.Lock()
		now := time.Now()
		for key, item := range rs.items {
			if now.After(item.expireTime) {
				delete(rs.items, key)
			}
		}
		rs.mu.Unlock()
	}
}
