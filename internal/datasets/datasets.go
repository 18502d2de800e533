// Package datasets caches loaded, enriched deal exports under server-assigned
// handles with idle-TTL eviction. Records are enriched once at registration
// and read-only afterwards, so readers need no per-record locking.
package datasets

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/closerlabs/leadfunnel/config"
	"github.com/closerlabs/leadfunnel/internal/deals"
	"github.com/closerlabs/leadfunnel/internal/ingest"
)

// Dataset is an in-memory enriched export paired with metadata for TTL
// eviction.
type Dataset struct {
	ID       string
	Path     string
	Records  []deals.Enriched
	Info     ingest.Info
	LoadedAt time.Time

	mu        sync.Mutex
	expiresAt time.Time
}

// Expired reports whether the dataset has reached its idle TTL.
func (d *Dataset) Expired(now time.Time) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return now.After(d.expiresAt)
}

func (d *Dataset) touch(expires time.Time) {
	d.mu.Lock()
	d.expiresAt = expires
	d.mu.Unlock()
}

// Gate coordinates capacity for open dataset handles (backed by
// runtime.Controller).
type Gate interface {
	AcquireDataset(ctx context.Context) error
	ReleaseDataset()
}

// ErrNotFound indicates an unknown or expired dataset ID.
var ErrNotFound = errors.New("datasets: dataset not found")

// Manager owns the dataset handle cache and its background eviction loop.
type Manager struct {
	mu           sync.RWMutex
	handles      map[string]*Dataset
	ttl          time.Duration
	cleanupEvery time.Duration
	clock        func() time.Time
	gate         Gate
	stopCh       chan struct{}
	cleanupWG    sync.WaitGroup
}

// NewManager constructs a dataset manager. Pass ttl or cleanupEvery <= 0 to
// use defaults from config. Gate can be nil for tests; clock defaults to
// time.Now when nil.
func NewManager(ttl, cleanupEvery time.Duration, gate Gate, clock func() time.Time) *Manager {
	if ttl <= 0 {
		ttl = config.DefaultDatasetIdleTTL
	}
	if cleanupEvery <= 0 {
		cleanupEvery = config.DefaultDatasetCleanupPeriod
	}
	if clock == nil {
		clock = time.Now
	}
	return &Manager{
		handles:      make(map[string]*Dataset),
		ttl:          ttl,
		cleanupEvery: cleanupEvery,
		clock:        clock,
		gate:         gate,
		stopCh:       make(chan struct{}),
	}
}

// Start launches periodic eviction of expired handles.
func (m *Manager) Start() {
	m.cleanupWG.Add(1)
	ticker := time.NewTicker(m.cleanupEvery)
	go func() {
		defer m.cleanupWG.Done()
		defer ticker.Stop()
		for {
			select {
			case <-m.stopCh:
				return
			case <-ticker.C:
				m.EvictExpired()
			}
		}
	}()
}

// Close stops background cleanup and drops all handles.
func (m *Manager) Close(ctx context.Context) error {
	close(m.stopCh)
	done := make(chan struct{})
	go func() { m.cleanupWG.Wait(); close(done) }()
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for id := range m.handles {
		delete(m.handles, id)
		m.release()
	}
	return nil
}

// Register stores an enriched record set under a fresh handle ID. The manager
// enforces open-dataset capacity via the gate when provided.
func (m *Manager) Register(ctx context.Context, path string, records []deals.Enriched, info ingest.Info) (string, error) {
	if records == nil {
		return "", fmt.Errorf("datasets: nil record set")
	}
	if err := m.acquire(ctx); err != nil {
		return "", err
	}

	now := m.clock()
	d := &Dataset{
		ID:        uuid.NewString(),
		Path:      path,
		Records:   records,
		Info:      info,
		LoadedAt:  now,
		expiresAt: now.Add(m.ttl),
	}

	m.mu.Lock()
	m.handles[d.ID] = d
	m.mu.Unlock()

	return d.ID, nil
}

// Get returns the dataset when present and refreshes its TTL (idle timeout
// semantics).
func (m *Manager) Get(id string) (*Dataset, bool) {
	m.mu.RLock()
	d, ok := m.handles[id]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	d.touch(m.clock().Add(m.ttl))
	return d, true
}

// WithRecords resolves a handle and executes fn over its read-only records.
func (m *Manager) WithRecords(id string, fn func(*Dataset) error) error {
	d, ok := m.Get(id)
	if !ok {
		return ErrNotFound
	}
	return fn(d)
}

// CloseDataset removes a handle by ID, releasing capacity via the gate.
func (m *Manager) CloseDataset(id string) error {
	m.mu.Lock()
	_, ok := m.handles[id]
	if ok {
		delete(m.handles, id)
	}
	m.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	m.release()
	return nil
}

// EvictExpired scans for expired handles and drops them.
func (m *Manager) EvictExpired() {
	now := m.clock()
	var expired []string

	m.mu.RLock()
	for id, d := range m.handles {
		if d.Expired(now) {
			expired = append(expired, id)
		}
	}
	m.mu.RUnlock()

	for _, id := range expired {
		m.mu.Lock()
		if _, ok := m.handles[id]; ok {
			delete(m.handles, id)
			m.mu.Unlock()
			m.release()
			continue
		}
		m.mu.Unlock()
	}
}

// Count returns the current number of cached handles.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.handles)
}

func (m *Manager) acquire(ctx context.Context) error {
	if m.gate == nil {
		return nil
	}
	return m.gate.AcquireDataset(ctx)
}

func (m *Manager) release() {
	if m.gate == nil {
		return
	}
	m.gate.ReleaseDataset()
}
