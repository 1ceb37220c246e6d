package reviews

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// maxStores bounds the cache: the venue code comes straight from an
// unauthenticated URL parameter, so garbage codes must not grow the map
// forever.
const maxStores = 256

type managedStore struct {
	store    *Store
	lastUsed time.Time
}

// Manager hands out one Store per venue so every request for the same
// venue shares the cached list. At capacity the least recently used
// store is evicted; a later request for that venue simply gets a fresh
// one.
type Manager struct {
	repo   Repository
	toast  Toaster
	logger *zap.SugaredLogger

	mu     sync.Mutex
	stores map[string]*managedStore
}

func NewManager(repo Repository, toast Toaster, logger *zap.SugaredLogger) *Manager {
	return &Manager{
		repo:   repo,
		toast:  toast,
		logger: logger,
		stores: make(map[string]*managedStore),
	}
}

func (m *Manager) ForVenue(venueCode string) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()

	if entry, ok := m.stores[venueCode]; ok {
		entry.lastUsed = time.Now()
		return entry.store
	}

	if len(m.stores) >= maxStores {
		m.evictOldest()
	}

	s := NewStore(venueCode, m.repo, m.toast, m.logger)
	m.stores[venueCode] = &managedStore{store: s, lastUsed: time.Now()}
	return s
}

// StoreCount reports how many venue stores are currently cached.
func (m *Manager) StoreCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.stores)
}

func (m *Manager) evictOldest() {
	var oldestCode string
	var oldest time.Time
	for code, entry := range m.stores {
		if oldestCode == "" || entry.lastUsed.Before(oldest) {
			oldestCode = code
			oldest = entry.lastUsed
		}
	}
	delete(m.stores, oldestCode)
}
