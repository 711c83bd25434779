// Package session keeps one rendered page per browser session in the cache layer.
package session

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/Belphemur/ShowSearch/internal/cache"
	"github.com/Belphemur/ShowSearch/internal/config"
	"github.com/Belphemur/ShowSearch/internal/controller"
	"github.com/Belphemur/ShowSearch/internal/view"
)

// CacheGroup labels the cache_* metrics of the page store.
const CacheGroup = "sessions"

const lockStripes = 256

var _ controller.Page = (*view.Document)(nil)
var _ controller.Pages = (*Store)(nil)

// Store loads, mutates and saves session pages. Updates to one session are
// serialized; different sessions only contend when they share a lock stripe.
type Store struct {
	pages       cache.Cache
	placeholder string
	locks       [lockStripes]sync.Mutex
}

// NewStore wraps an existing cache.
func NewStore(pages cache.Cache, placeholderImage string) *Store {
	return &Store{pages: pages, placeholder: placeholderImage}
}

// Open builds the configured cache backend and a store on top of it.
func Open(cfg *config.Config) (*Store, error) {
	provider := cfg.Session.Provider
	if provider == "" {
		provider = "memory"
	}

	pages, err := cache.New(provider, cache.ProviderConfig{
		Size:          cfg.SessionSize(),
		TTL:           cfg.SessionTTL(),
		Logger:        cacheLogger{},
		RedisAddress:  cfg.Session.Redis.Address,
		RedisPassword: cfg.Session.Redis.Password,
		RedisDB:       cfg.Session.Redis.DB,
		Group:         CacheGroup,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s session store: %w", provider, err)
	}

	logger := config.GetLogger()

	logger.Info().
		Str("provider", provider).
		Int("size", cfg.SessionSize()).
		Dur("ttl", cfg.SessionTTL()).
		Msg("Session store ready")
	return NewStore(pages, config.GetPlaceholderImage()), nil
}

func (s *Store) lock(sessionID string) *sync.Mutex {
	return &s.locks[xxhash.Sum64String(sessionID)%lockStripes]
}

// Load returns the session's page, or a fresh one when none is stored or the
// stored page cannot be read back.
func (s *Store) Load(ctx context.Context, sessionID string) *view.Document {
	raw, ok := s.pages.Get(ctx, sessionID)
	if !ok {
		return view.NewDocument(s.placeholder)
	}

	doc, err := view.ParseDocument(bytes.NewReader(raw), s.placeholder)
	if err != nil {
		logger := config.GetLogger()
		logger.Warn().Err(err).Str("session", sessionID).Msg("Discarding unreadable session page")
		return view.NewDocument(s.placeholder)
	}
	return doc
}

// Save stores doc as the session's page.
func (s *Store) Save(ctx context.Context, sessionID string, doc *view.Document) error {
	raw, err := doc.Bytes()
	if err != nil {
		return fmt.Errorf("serialize page: %w", err)
	}
	s.pages.Set(ctx, sessionID, raw)
	return nil
}

// Update runs fn on the session's page under the session lock and saves the
// result when fn succeeds.
func (s *Store) Update(ctx context.Context, sessionID string, fn func(controller.Page) error) error {
	mu := s.lock(sessionID)
	mu.Lock()
	defer mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	doc := s.Load(ctx, sessionID)
	if err := fn(doc); err != nil {
		return err
	}
	return s.Save(ctx, sessionID, doc)
}

// Render writes the session's current page.
func (s *Store) Render(ctx context.Context, sessionID string, w io.Writer) error {
	mu := s.lock(sessionID)
	mu.Lock()
	doc := s.Load(ctx, sessionID)
	mu.Unlock()

	return doc.Render(w)
}

// Reset forgets the session's page.
func (s *Store) Reset(ctx context.Context, sessionID string) {
	s.pages.Delete(ctx, sessionID)
}

// Close releases the cache backend.
func (s *Store) Close() error {
	return s.pages.Close()
}

// cacheLogger forwards backend failures to the application logger.
type cacheLogger struct{}

func (cacheLogger) Error(msg string, err error) {
	logger := config.GetLogger()
	logger.Error().Err(err).Msg(msg)
}
