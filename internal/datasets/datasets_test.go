package datasets

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/closerlabs/leadfunnel/internal/deals"
	"github.com/closerlabs/leadfunnel/internal/ingest"
)

// fakeGate implements Gate for tests with counters.
type fakeGate struct {
	acquireErr error
	acquires   atomic.Int64
	releases   atomic.Int64
}

func (g *fakeGate) AcquireDataset(ctx context.Context) error {
	g.acquires.Add(1)
	return g.acquireErr
}
func (g *fakeGate) ReleaseDataset() { g.releases.Add(1) }

func someRecords() []deals.Enriched {
	return []deals.Enriched{
		{SourceCode: "SC1", Country: "USA"},
		{SourceCode: "No SC", Country: "Unknown"},
	}
}

func TestRegisterGetClose(t *testing.T) {
	gate := &fakeGate{}
	// Long TTL; no Start call so eviction only runs on demand.
	m := NewManager(2*time.Second, time.Second, gate, time.Now)

	id, err := m.Register(context.Background(), "/tmp/export.csv", someRecords(), ingest.Info{Rows: 2})
	require.NoError(t, err)
	require.NotEmpty(t, id)
	require.Equal(t, int64(1), gate.acquires.Load())
	require.Equal(t, 1, m.Count())

	d, ok := m.Get(id)
	require.True(t, ok)
	require.Equal(t, id, d.ID)
	require.Equal(t, "/tmp/export.csv", d.Path)
	require.Equal(t, 2, d.Info.Rows)

	require.NoError(t, m.CloseDataset(id))
	require.Equal(t, 0, m.Count())
	require.Equal(t, int64(1), gate.releases.Load())

	require.ErrorIs(t, m.CloseDataset(id), ErrNotFound)
}

func TestRegister_GateDenial(t *testing.T) {
	gate := &fakeGate{acquireErr: errors.New("at capacity")}
	m := NewManager(time.Second, time.Second, gate, time.Now)

	_, err := m.Register(context.Background(), "/tmp/export.csv", someRecords(), ingest.Info{})
	require.Error(t, err)
	require.Equal(t, 0, m.Count())
}

func TestTTLExpiryAndEviction(t *testing.T) {
	var now atomic.Int64
	now.Store(time.Now().UnixNano())
	clock := func() time.Time { return time.Unix(0, now.Load()) }

	gate := &fakeGate{}
	m := NewManager(50*time.Millisecond, 5*time.Millisecond, gate, clock)

	_, err := m.Register(context.Background(), "/tmp/export.csv", someRecords(), ingest.Info{})
	require.NoError(t, err)
	require.Equal(t, 1, m.Count())

	now.Store(time.Now().Add(200 * time.Millisecond).UnixNano())
	m.EvictExpired()

	require.Equal(t, 0, m.Count())
	require.Equal(t, int64(1), gate.releases.Load())
}

func TestGetRefreshesTTL(t *testing.T) {
	var now atomic.Int64
	base := time.Now()
	now.Store(base.UnixNano())
	clock := func() time.Time { return time.Unix(0, now.Load()) }

	m := NewManager(100*time.Millisecond, time.Second, nil, clock)
	id, err := m.Register(context.Background(), "/tmp/export.csv", someRecords(), ingest.Info{})
	require.NoError(t, err)

	// Touch just before expiry, then advance past the original deadline.
	now.Store(base.Add(80 * time.Millisecond).UnixNano())
	_, ok := m.Get(id)
	require.True(t, ok)

	now.Store(base.Add(150 * time.Millisecond).UnixNano())
	m.EvictExpired()
	require.Equal(t, 1, m.Count())

	now.Store(base.Add(300 * time.Millisecond).UnixNano())
	m.EvictExpired()
	require.Equal(t, 0, m.Count())
}

func TestWithRecords(t *testing.T) {
	m := NewManager(time.Second, time.Second, nil, time.Now)
	id, err := m.Register(context.Background(), "/tmp/export.csv", someRecords(), ingest.Info{})
	require.NoError(t, err)

	var n int
	require.NoError(t, m.WithRecords(id, func(d *Dataset) error {
		n = len(d.Records)
		return nil
	}))
	require.Equal(t, 2, n)

	sentinel := errors.New("boom")
	require.ErrorIs(t, m.WithRecords(id, func(d *Dataset) error { return sentinel }), sentinel)

	require.ErrorIs(t, m.WithRecords("no-such-id", func(d *Dataset) error { return nil }), ErrNotFound)
}

func TestCloseStopsCleanupLoop(t *testing.T) {
	m := NewManager(time.Hour, 10*time.Millisecond, nil, time.Now)
	m.Start()

	_, err := m.Register(context.Background(), "/tmp/export.csv", someRecords(), ingest.Info{})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, m.Close(ctx))
	require.Equal(t, 0, m.Count())
}
