package form

import (
	"sync"
	"time"
)

// Session is the per-user record of form progress. A session exists in the
// store exactly while the user has an active or paused application.
type Session struct {
	UserID    int64
	Lang      Lang
	Username  string
	Step      StepID
	SavedStep StepID // set only while Step == StepResumeChoice
	App       Application

	touchedAt time.Time
}

// clone returns a copy safe to hand outside the store's locks.
func (s *Session) clone() *Session {
	cp := *s
	return &cp
}

// Store owns the in-memory session map. It is an explicit dependency of the
// engine rather than process-global state, and it serializes event handling
// per user via dedicated locks.
type Store struct {
	mu       sync.RWMutex
	sessions map[int64]*Session

	lockMu sync.Mutex
	locks  map[int64]*sync.Mutex

	ttl  time.Duration
	stop chan struct{}
	once sync.Once
}

// NewStore creates a session store. A positive ttl enables background
// eviction of sessions idle for longer than ttl; zero disables eviction and
// abandoned sessions live until the process exits.
func NewStore(ttl time.Duration) *Store {
	s := &Store{
		sessions: make(map[int64]*Session),
		locks:    make(map[int64]*sync.Mutex),
		ttl:      ttl,
		stop:     make(chan struct{}),
	}
	if ttl > 0 {
		go s.janitor()
	}
	return s
}

// Lock serializes handling of one user's events. The returned function
// releases the lock.
func (s *Store) Lock(userID int64) func() {
	s.lockMu.Lock()
	l, ok := s.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[userID] = l
	}
	s.lockMu.Unlock()
	l.Lock()
	return l.Unlock
}

// Get returns the session for userID if one exists. Absence means no
// application is in progress.
func (s *Store) Get(userID int64) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[userID]
	return sess, ok
}

// Put inserts or replaces the session for sess.UserID.
func (s *Store) Put(sess *Session) {
	sess.touchedAt = time.Now()
	s.mu.Lock()
	s.sessions[sess.UserID] = sess
	s.mu.Unlock()
}

// Touch refreshes the eviction clock for userID.
func (s *Store) Touch(userID int64) {
	s.mu.Lock()
	if sess, ok := s.sessions[userID]; ok {
		sess.touchedAt = time.Now()
	}
	s.mu.Unlock()
}

// Delete removes the session for userID. Deleting an absent session is a no-op.
func (s *Store) Delete(userID int64) {
	s.mu.Lock()
	delete(s.sessions, userID)
	s.mu.Unlock()
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Close stops the eviction janitor if one is running.
func (s *Store) Close() {
	s.once.Do(func() { close(s.stop) })
}

func (s *Store) janitor() {
	interval := s.ttl / 4
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.evictIdle(time.Now())
		}
	}
}

func (s *Store) evictIdle(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	evicted := 0
	for id, sess := range s.sessions {
		if now.Sub(sess.touchedAt) > s.ttl {
			delete(s.sessions, id)
			evicted++
		}
	}
	return evicted
}
