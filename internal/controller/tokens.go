package controller

import (
	"sync"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
)

// tokens tracks the latest request issued per session and kind. Values come
// from one process-wide counter so a token is never reused, even after the
// session's record has been evicted.
type tokens struct {
	next     atomic.Uint64
	mu       sync.Mutex
	sessions *lru.LRU[string, *latest]
}

type latest struct {
	search   uint64
	episodes uint64
}

func newTokens(size int, ttl time.Duration) *tokens {
	return &tokens{sessions: lru.NewLRU[string, *latest](size, nil, ttl)}
}

func (t *tokens) record(sessionID string) *latest {
	l, ok := t.sessions.Get(sessionID)
	if !ok {
		l = &latest{}
		t.sessions.Add(sessionID, l)
	}
	return l
}

// beginSearch issues a search token. It also supersedes any pending episode
// expansion for the session.
func (t *tokens) beginSearch(sessionID string) uint64 {
	tok := t.next.Add(1)

	t.mu.Lock()
	defer t.mu.Unlock()
	l := t.record(sessionID)
	l.search = tok
	l.episodes = tok
	return tok
}

func (t *tokens) beginEpisodes(sessionID string) uint64 {
	tok := t.next.Add(1)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.record(sessionID).episodes = tok
	return tok
}

// currentSearch reports whether tok is still the session's latest search.
// A session whose record was evicted has issued nothing newer.
func (t *tokens) currentSearch(sessionID string, tok uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	l, ok := t.sessions.Peek(sessionID)
	return !ok || l.search == tok
}

func (t *tokens) currentEpisodes(sessionID string, tok uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	l, ok := t.sessions.Peek(sessionID)
	return !ok || l.episodes == tok
}
