package artifact

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/salesops/georeport/config"
	"github.com/xuri/excelize/v2"
)

// Handle represents an open result artifact paired with metadata for TTL
// eviction.
type Handle struct {
	ID        string
	File      *excelize.File
	Path      string
	LoadedAt  time.Time
	ExpiresAt time.Time
	mu        sync.RWMutex
}

// Gate coordinates capacity for open artifact handles (backed by
// runtime.Controller).
type Gate interface {
	AcquireArtifact(ctx context.Context) error
	ReleaseArtifact()
}

// PathValidator abstracts filesystem path validation. Implementations return
// a canonical absolute path when allowed, or an error when denied.
type PathValidator interface {
	ValidateOpenPath(path string) (string, error)
}

// ErrHandleNotFound indicates an unknown or expired handle ID.
var ErrHandleNotFound = errors.New("artifact: handle not found")

// Manager caches open result artifacts behind TTL-bearing handles so repeat
// formatting of the same artifact does not reopen the file. It performs no
// cross-process locking; concurrent pipeline runs against the same artifact
// path must be serialized by the caller.
type Manager struct {
	mu           sync.RWMutex
	handles      map[string]*Handle
	ttl          time.Duration
	cleanupEvery time.Duration
	clock        func() time.Time
	gate         Gate
	validator    PathValidator
	stopCh       chan struct{}
	cleanupWG    sync.WaitGroup
}

// NewManager constructs a lifecycle manager with a TTL-bearing handle cache.
// Pass ttl or cleanupEvery <= 0 to use defaults from config. Gate and
// validator can be nil for tests; clock defaults to time.Now when nil.
func NewManager(ttl, cleanupEvery time.Duration, gate Gate, clock func() time.Time) *Manager {
	if ttl <= 0 {
		ttl = config.DefaultArtifactIdleTTL
	}
	if cleanupEvery <= 0 {
		cleanupEvery = config.DefaultArtifactCleanupPeriod
	}
	if clock == nil {
		clock = time.Now
	}
	return &Manager{
		handles:      make(map[string]*Handle),
		ttl:          ttl,
		cleanupEvery: cleanupEvery,
		clock:        clock,
		gate:         gate,
		stopCh:       make(chan struct{}),
	}
}

// WithValidator attaches a path validator consulted on every Open.
func (m *Manager) WithValidator(v PathValidator) *Manager {
	m.validator = v
	return m
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

// Close stops background cleanup and closes all open handles.
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
	for id, h := range m.handles {
		h.mu.Lock()
		_ = h.File.Close()
		h.mu.Unlock()
		delete(m.handles, id)
		if m.gate != nil {
			m.gate.ReleaseArtifact()
		}
	}
	return nil
}

// Open opens a result artifact from the given path, registers a TTL-bearing
// handle, and returns its ID. Capacity is enforced via the gate when set.
func (m *Manager) Open(ctx context.Context, path string) (string, error) {
	if err := m.acquire(ctx); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".xlsx", ".xlsm":
		// supported artifact formats
	default:
		m.release()
		return "", fmt.Errorf("artifact: unsupported format: %s", ext)
	}

	if m.validator != nil {
		canonical, err := m.validator.ValidateOpenPath(path)
		if err != nil {
			m.release()
			return "", err
		}
		path = canonical
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		m.release()
		return "", err
	}
	id := uuid.NewString()
	loadedAt := m.clock()
	h := &Handle{
		ID:        id,
		File:      f,
		Path:      path,
		LoadedAt:  loadedAt,
		ExpiresAt: loadedAt.Add(m.ttl),
	}

	m.mu.Lock()
	m.handles[id] = h
	m.mu.Unlock()
	return id, nil
}

// Adopt registers an existing excelize.File as a managed handle. Intended
// for tests or callers that already hold an open workbook.
func (m *Manager) Adopt(ctx context.Context, f *excelize.File, path string) (string, error) {
	if f == nil {
		return "", fmt.Errorf("artifact: nil file")
	}
	if err := m.acquire(ctx); err != nil {
		return "", err
	}
	id := uuid.NewString()
	loadedAt := m.clock()
	m.mu.Lock()
	m.handles[id] = &Handle{ID: id, File: f, Path: path, LoadedAt: loadedAt, ExpiresAt: loadedAt.Add(m.ttl)}
	m.mu.Unlock()
	return id, nil
}

// Get returns the handle when present and refreshes its TTL.
func (m *Manager) Get(id string) (*Handle, bool) {
	m.mu.RLock()
	h, ok := m.handles[id]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	now := m.clock()
	h.mu.Lock()
	h.ExpiresAt = now.Add(m.ttl)
	h.mu.Unlock()
	return h, true
}

// WithRead obtains a shared read lock for the handle and executes fn.
func (m *Manager) WithRead(id string, fn func(*excelize.File) error) error {
	h, ok := m.Get(id)
	if !ok {
		return ErrHandleNotFound
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return fn(h.File)
}

// CloseHandle closes and removes a handle by ID, releasing gate capacity.
func (m *Manager) CloseHandle(id string) error {
	m.mu.Lock()
	h, ok := m.handles[id]
	if ok {
		delete(m.handles, id)
	}
	m.mu.Unlock()
	if !ok {
		return ErrHandleNotFound
	}
	h.mu.Lock()
	err := h.File.Close()
	h.mu.Unlock()
	m.release()
	return err
}

// EvictExpired scans for expired handles and closes them.
func (m *Manager) EvictExpired() {
	now := m.clock()
	var expired []*Handle
	var expiredIDs []string

	m.mu.RLock()
	for id, h := range m.handles {
		h.mu.RLock()
		isExpired := now.After(h.ExpiresAt)
		h.mu.RUnlock()
		if isExpired {
			expired = append(expired, h)
			expiredIDs = append(expiredIDs, id)
		}
	}
	m.mu.RUnlock()

	for i, h := range expired {
		h.mu.Lock()
		_ = h.File.Close()
		h.mu.Unlock()

		m.mu.Lock()
		delete(m.handles, expiredIDs[i])
		m.mu.Unlock()
		m.release()
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
	return m.gate.AcquireArtifact(ctx)
}

func (m *Manager) release() {
	if m.gate == nil {
		return
	}
	m.gate.ReleaseArtifact()
}
