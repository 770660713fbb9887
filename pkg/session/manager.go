package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/missionkit/internal/logging"
	"github.com/aretw0/missionkit/pkg/domain"
	"github.com/aretw0/missionkit/pkg/editor"
	"github.com/aretw0/missionkit/pkg/ports"
	"github.com/google/uuid"
)

// DefaultLockTTL bounds how long a distributed lock outlives a crashed holder.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates session access, ensuring safe concurrent operations.
// Each command runs as load → apply → save while holding the session's lock.
// It uses Reference Counting to garbage collect unused locks.
type Manager struct {
	store ports.SnapshotStore

	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Map of active locks

	locker  ports.DistributedLocker // Optional distributed locker
	lockTTL time.Duration
	logger  *slog.Logger
	hooks   domain.LifecycleHooks

	editorOpts []editor.Option
	newID      func() string
	now        func() time.Time
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets the distributed lock expiry.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.lockTTL = ttl
		}
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithHooks registers lifecycle callbacks, merged with any set before.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(m *Manager) {
		m.hooks = m.hooks.Merge(hooks)
	}
}

// WithEditorOptions configures every editor session the manager rebuilds.
func WithEditorOptions(opts ...editor.Option) Option {
	return func(m *Manager) {
		m.editorOpts = append(m.editorOpts, opts...)
	}
}

// WithSessionIDGenerator overrides how Create names sessions when no id is given.
func WithSessionIDGenerator(gen func() string) Option {
	return func(m *Manager) {
		m.newID = gen
	}
}

// WithClock overrides the time source used for UpdatedAt.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates a new Session Manager with the given persistence store.
func NewManager(store ports.SnapshotStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(), // Default to no-op
		newID:   uuid.NewString,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Outcome is the result of applying a command to a stored session.
type Outcome struct {
	Result   editor.Result        `json:"result"`
	Snapshot *domain.Snapshot     `json:"snapshot"`
	Diff     *domain.SnapshotDiff `json:"diff,omitempty"`
}

// Create starts a new session, optionally seeded from a template.
// An empty sessionID gets a generated one.
func (m *Manager) Create(ctx context.Context, sessionID, templateID string) (*domain.Snapshot, error) {
	if sessionID == "" {
		sessionID = m.newID()
	}

	var snap *domain.Snapshot
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		_, err := m.store.Load(ctx, sessionID)
		if err == nil {
			return fmt.Errorf("%w: %s", domain.ErrSessionExists, sessionID)
		}
		if !errors.Is(err, domain.ErrSessionNotFound) {
			return fmt.Errorf("failed to check session existence: %w", err)
		}

		sess := editor.New(m.editorOpts...)
		if templateID != "" {
			if _, err := sess.Apply(editor.Command{Op: editor.OpLoadTemplate, TemplateID: templateID}); err != nil {
				return err
			}
		}

		snap = sess.Snapshot(sessionID)
		snap.UpdatedAt = m.now()
		// Persist immediately to reserve the ID
		if err := m.store.Save(ctx, sessionID, snap); err != nil {
			return fmt.Errorf("failed to initialize session: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	m.logger.Info("session created", "session_id", sessionID, "template_id", templateID)
	return snap, nil
}

// Load retrieves an existing session from the store.
func (m *Manager) Load(ctx context.Context, sessionID string) (*domain.Snapshot, error) {
	var snap *domain.Snapshot
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		snap, err = m.store.Load(ctx, sessionID)
		return err
	})
	return snap, err
}

// Open loads a session and rebuilds its editor for read-only queries
// (edges, inspector form, diagrams). Changes made to it are not persisted.
func (m *Manager) Open(ctx context.Context, sessionID string) (*editor.Session, error) {
	snap, err := m.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return editor.FromSnapshot(snap, m.editorOpts...), nil
}

// Apply runs one command against a stored session and persists the result
// when it changed anything.
func (m *Manager) Apply(ctx context.Context, sessionID string, cmd editor.Command) (*Outcome, error) {
	return m.ApplyThen(ctx, sessionID, cmd, nil)
}

// ApplyThen is Apply with a callback run on success before the session lock
// is released, so outcomes of one session reach it in commit order.
// The callback must not block or re-enter the manager for the same session.
func (m *Manager) ApplyThen(ctx context.Context, sessionID string, cmd editor.Command, then func(*Outcome)) (*Outcome, error) {
	var out *Outcome
	start := m.now()

	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		before, err := m.store.Load(ctx, sessionID)
		if err != nil {
			return err
		}

		sess := editor.FromSnapshot(before, m.editorOpts...)
		res, err := sess.Apply(cmd)
		if err != nil {
			m.fireCommand(ctx, sessionID, cmd.Op, false, start, err)
			return err
		}

		after := sess.Snapshot(sessionID)
		after.UpdatedAt = before.UpdatedAt
		diff := domain.Diff(before, after)
		if diff != nil {
			after.UpdatedAt = m.now()
			if err := m.store.Save(ctx, sessionID, after); err != nil {
				return fmt.Errorf("failed to save session: %w", err)
			}
		}

		out = &Outcome{Result: res, Snapshot: after, Diff: diff}
		m.fireCommand(ctx, sessionID, cmd.Op, res.Applied, start, nil)
		for _, c := range res.Changes {
			m.fireChange(ctx, sessionID, c)
		}
		if then != nil {
			then(out)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes the session from the store.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		return m.store.Delete(ctx, sessionID)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying snapshot store.
func (m *Manager) Store() ports.SnapshotStore {
	return m.store
}

// WithLock executes a function while holding the lock for the session.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, sessionID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"session_id", sessionID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(sessionID) after unlocking.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

func (m *Manager) fireCommand(ctx context.Context, sessionID string, op editor.Op, applied bool, start time.Time, err error) {
	if m.hooks.OnCommand == nil {
		return
	}
	m.hooks.OnCommand(ctx, &domain.CommandEvent{
		EventBase: domain.EventBase{Timestamp: m.now(), SessionID: sessionID},
		Op:        string(op),
		Applied:   applied,
		Duration:  m.now().Sub(start),
		Err:       err,
	})
}

func (m *Manager) fireChange(ctx context.Context, sessionID string, c domain.Change) {
	if m.hooks.OnChange == nil {
		return
	}
	m.hooks.OnChange(ctx, &domain.ChangeEvent{
		EventBase: domain.EventBase{Timestamp: m.now(), SessionID: sessionID},
		Change:    c,
	})
}
