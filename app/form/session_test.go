package form

import (
	"sync"
	"testing"
	"time"
)

func TestStoreLifecycle(t *testing.T) {
	s := NewStore(0)
	defer s.Close()

	if _, ok := s.Get(1); ok {
		t.Fatal("empty store returned a session")
	}

	s.Put(&Session{UserID: 1, Lang: LangUZ, Step: "name"})
	sess, ok := s.Get(1)
	if !ok || sess.Step != "name" {
		t.Fatalf("get after put: ok=%v sess=%+v", ok, sess)
	}
	if s.Len() != 1 {
		t.Fatalf("len = %d", s.Len())
	}

	s.Delete(1)
	if _, ok := s.Get(1); ok {
		t.Fatal("session survived delete")
	}
	s.Delete(1) // no-op
}

func TestStorePutReplaces(t *testing.T) {
	s := NewStore(0)
	defer s.Close()

	s.Put(&Session{UserID: 5, Lang: LangUZ, Step: "name"})
	s.Put(&Session{UserID: 5, Lang: LangRU, Step: "birth"})

	sess, _ := s.Get(5)
	if sess.Lang != LangRU || sess.Step != "birth" {
		t.Fatalf("replace failed: %+v", sess)
	}
	if s.Len() != 1 {
		t.Fatalf("len = %d after replace", s.Len())
	}
}

func TestStoreLockSerializesPerUser(t *testing.T) {
	s := NewStore(0)
	defer s.Close()
	s.Put(&Session{UserID: 9})

	const n = 50
	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := s.Lock(9)
			defer unlock()
			counter++
		}()
	}
	wg.Wait()
	if counter != n {
		t.Fatalf("counter = %d, want %d", counter, n)
	}
}

func TestStoreEvictIdle(t *testing.T) {
	s := NewStore(time.Minute)
	defer s.Close()

	s.Put(&Session{UserID: 1})
	s.Put(&Session{UserID: 2})

	// Age only the first session past the TTL.
	s.mu.Lock()
	s.sessions[1].touchedAt = time.Now().Add(-2 * time.Minute)
	s.mu.Unlock()

	if evicted := s.evictIdle(time.Now()); evicted != 1 {
		t.Fatalf("evicted = %d, want 1", evicted)
	}
	if _, ok := s.Get(1); ok {
		t.Fatal("idle session survived eviction")
	}
	if _, ok := s.Get(2); !ok {
		t.Fatal("fresh session evicted")
	}
}

func TestStoreTouchRefreshesEvictionClock(t *testing.T) {
	s := NewStore(time.Minute)
	defer s.Close()

	s.Put(&Session{UserID: 3})
	s.mu.Lock()
	s.sessions[3].touchedAt = time.Now().Add(-2 * time.Minute)
	s.mu.Unlock()

	s.Touch(3)
	if evicted := s.evictIdle(time.Now()); evicted != 0 {
		t.Fatalf("evicted = %d after touch", evicted)
	}
}

func TestSessionCloneIsDetached(t *testing.T) {
	orig := &Session{UserID: 7, Step: "salary", App: Application{Name: "A"}}
	cp := orig.clone()
	cp.Step = "shift"
	cp.App.Name = "B"
	if orig.Step != "salary" || orig.App.Name != "A" {
		t.Fatalf("clone shares state: %+v", orig)
	}
}

func TestStoreCloseIdempotent(t *testing.T) {
	s := NewStore(time.Second)
	s.Close()
	s.Close()
}
