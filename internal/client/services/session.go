// Package services contains the application services sitting between use
// cases and the adapters: the session manager and the task service.
package services

import (
	"context"
	"sort"
	"sync"

	"github.com/dmitrijs2005/todokeeper/internal/client/account"
	"github.com/dmitrijs2005/todokeeper/internal/client/models"
	"github.com/dmitrijs2005/todokeeper/internal/client/repositories/session"
	"github.com/dmitrijs2005/todokeeper/internal/logging"
)

// SessionManager reconciles two asynchronous reports of "who is signed in" -
// the account provider's live event stream and the local session cache -
// into one authoritative session value, and notifies subscribers on change.
//
// Reconciliation rules:
//   - A live event carrying a user wins immediately and is written through
//     to the cache.
//   - A live nil is not authoritative while the cache read is pending or
//     has produced a user; it only settles Anonymous when the cache is
//     empty too. This suppresses the sign-out flicker the provider produces
//     while it restores its own state at startup.
//   - Once a user is established, only an explicit Logout forces Anonymous.
//   - Cache failures are logged and never fatal; the cache is an
//     accelerator, not the source of truth.
type SessionManager struct {
	account account.Client
	cache   session.Cache
	logger  logging.Logger

	initOnce sync.Once

	mu          sync.Mutex
	current     models.Session
	established bool // a user was adopted (from cache or live stream)
	settled     bool // initial reconciliation produced a session value
	cacheDone   bool
	liveNull    bool // the live stream reported nil before settlement
	subs        map[int]func(models.Session)
	nextID      int
	unsubLive   func()

	// notifyMu serializes deliveries so two notifications never interleave.
	notifyMu sync.Mutex
}

func NewSessionManager(acc account.Client, cache session.Cache, logger logging.Logger) *SessionManager {
	return &SessionManager{
		account: acc,
		cache:   cache,
		logger:  logger.With("module", "session_manager"),
		subs:    make(map[int]func(models.Session)),
	}
}

// Subscribe registers cb to be invoked with the session snapshot on every
// distinct change, and at least once after the initial state settles. The
// returned function permanently deregisters the callback; it is safe to
// call at any time, including from inside the callback itself.
//
// The first subscription starts the reconciliation: the live stream's first
// emission races a cache read.
func (m *SessionManager) Subscribe(cb func(models.Session)) func() {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.subs[id] = cb
	settled := m.settled
	current := m.current
	m.mu.Unlock()

	m.init()

	if settled {
		m.dispatch([]int{id}, current)
	}

	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

// Current returns the session as of now. Before the initial reconciliation
// settles it reports Anonymous.
func (m *SessionManager) Current() models.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Register creates an account and adopts the resulting user as the session.
func (m *SessionManager) Register(ctx context.Context, email, password, displayName string) (*models.User, error) {
	user, err := m.account.Register(ctx, email, password, displayName)
	if err != nil {
		return nil, err
	}
	m.confirm(ctx, user)
	return user, nil
}

// Login authenticates and adopts the resulting user as the session.
func (m *SessionManager) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, err := m.account.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	m.confirm(ctx, user)
	return user, nil
}

// Logout signs out at the provider, clears the cache and pushes Anonymous.
// This is the only path that forces Anonymous once a user was established.
func (m *SessionManager) Logout(ctx context.Context) error {
	if err := m.account.Logout(ctx); err != nil {
		return err
	}

	if err := m.cache.Clear(ctx); err != nil {
		m.logger.Warn(ctx, "failed to clear session cache", "error", err)
	}

	m.mu.Lock()
	changed := m.current.IsAuthenticated()
	m.current = models.Anonymous()
	m.established = false
	m.settled = true
	ids := m.subscriberIDsLocked()
	m.mu.Unlock()

	if changed {
		m.dispatch(ids, models.Anonymous())
	}
	return nil
}

// UpdateProfile changes the display name and refreshes the session.
func (m *SessionManager) UpdateProfile(ctx context.Context, userID, displayName string) (*models.User, error) {
	user, err := m.account.UpdateProfile(ctx, userID, displayName)
	if err != nil {
		return nil, err
	}
	m.confirm(ctx, user)
	return user, nil
}

// SendPasswordReset has no session side effect.
func (m *SessionManager) SendPasswordReset(ctx context.Context, email string) error {
	return m.account.SendPasswordReset(ctx, email)
}

// Close detaches from the live event stream. Subscribers stay registered
// but will not hear from the provider anymore.
func (m *SessionManager) Close() {
	m.mu.Lock()
	unsub := m.unsubLive
	m.unsubLive = nil
	m.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}

func (m *SessionManager) init() {
	m.initOnce.Do(func() {
		unsub := m.account.OnChange(m.onLiveEvent)
		m.mu.Lock()
		m.unsubLive = unsub
		m.mu.Unlock()

		go m.readCache(context.Background())
	})
}

func (m *SessionManager) onLiveEvent(user *models.User) {
	ctx := context.Background()

	if user != nil {
		ids, s, changed := m.adopt(user)
		if err := m.cache.Write(ctx, user); err != nil {
			m.logger.Warn(ctx, "failed to write session cache", "error", err)
		}
		if changed {
			m.dispatch(ids, s)
		}
		return
	}

	m.mu.Lock()
	if m.established {
		// Only Logout may demote an established session.
		m.mu.Unlock()
		m.logger.Debug(ctx, "ignoring transient sign-out signal from live stream")
		return
	}
	m.liveNull = true
	if m.cacheDone && !m.settled {
		m.settled = true
		m.current = models.Anonymous()
		ids := m.subscriberIDsLocked()
		m.mu.Unlock()
		m.dispatch(ids, models.Anonymous())
		return
	}
	m.mu.Unlock()
}

func (m *SessionManager) readCache(ctx context.Context) {
	user, err := m.cache.Read(ctx)
	if err != nil {
		m.logger.Warn(ctx, "failed to read session cache", "error", err)
		user = nil
	}

	m.mu.Lock()
	m.cacheDone = true
	if m.established || m.settled {
		// The live stream already settled the race; this result is stale.
		m.mu.Unlock()
		return
	}
	if user != nil {
		m.current = models.Authenticated(user)
		m.established = true
		m.settled = true
		ids := m.subscriberIDsLocked()
		current := m.current
		m.mu.Unlock()
		m.dispatch(ids, current)
		return
	}
	if m.liveNull {
		// Both sources agree: nobody is signed in.
		m.settled = true
		m.current = models.Anonymous()
		ids := m.subscriberIDsLocked()
		m.mu.Unlock()
		m.dispatch(ids, models.Anonymous())
		return
	}
	m.mu.Unlock()
}

// confirm adopts a user returned by a successful account operation. The
// cache is written first so a crash right after the call still restores
// the session on next start.
func (m *SessionManager) confirm(ctx context.Context, user *models.User) {
	if err := m.cache.Write(ctx, user); err != nil {
		m.logger.Warn(ctx, "failed to write session cache", "error", err)
	}

	ids, s, changed := m.adopt(user)
	if changed {
		m.dispatch(ids, s)
	}
}

func (m *SessionManager) adopt(user *models.User) (ids []int, s models.Session, changed bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	changed = !sameUser(m.current.User, user)
	m.current = models.Authenticated(user)
	m.established = true
	m.settled = true
	return m.subscriberIDsLocked(), m.current, changed
}

func (m *SessionManager) subscriberIDsLocked() []int {
	ids := make([]int, 0, len(m.subs))
	for id := range m.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// dispatch delivers s to the given subscribers in subscription order.
// Membership is re-checked per callback so an unsubscribe that happened
// after the snapshot still suppresses delivery.
func (m *SessionManager) dispatch(ids []int, s models.Session) {
	m.notifyMu.Lock()
	defer m.notifyMu.Unlock()

	for _, id := range ids {
		m.mu.Lock()
		cb, ok := m.subs[id]
		m.mu.Unlock()
		if ok {
			cb(s)
		}
	}
}

func sameUser(a, b *models.User) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
