package session

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/Belphemur/ShowSearch/internal/cache"
	"github.com/Belphemur/ShowSearch/internal/config"
	"github.com/Belphemur/ShowSearch/internal/controller"
	"github.com/Belphemur/ShowSearch/internal/models"
)

const placeholder = "https://static.example/no-img.png"

func newTestStore(t *testing.T) (*Store, cache.Cache) {
	t.Helper()
	pages, err := cache.New("memory", cache.ProviderConfig{Size: 10, TTL: time.Hour})
	if err != nil {
		t.Fatalf("New cache: %v", err)
	}
	t.Cleanup(func() { _ = pages.Close() })
	return NewStore(pages, placeholder), pages
}

func renderString(t *testing.T, s *Store, sessionID string) string {
	t.Helper()
	var buf bytes.Buffer
	if err := s.Render(context.Background(), sessionID, &buf); err != nil {
		t.Fatalf("Render: %v", err)
	}
	return buf.String()
}

func TestStore_LoadMissingReturnsSkeleton(t *testing.T) {
	s, _ := newTestStore(t)

	doc := s.Load(context.Background(), "unknown")
	if got := doc.ShowIDs(); len(got) != 0 {
		t.Errorf("Expected empty show list, got %v", got)
	}
	if doc.EpisodesVisible() {
		t.Error("Expected hidden episode panel")
	}
}

func TestStore_UpdatePersists(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	err := s.Update(ctx, "s1", func(p controller.Page) error {
		p.RenderShows([]models.Show{{ID: 139, Name: "Girls"}})
		return nil
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	doc := s.Load(ctx, "s1")
	if name, ok := doc.ShowName(139); !ok || name != "Girls" {
		t.Errorf("Expected persisted card, got %q (found=%v)", name, ok)
	}

	page, err := goquery.NewDocumentFromReader(strings.NewReader(renderString(t, s, "s1")))
	if err != nil {
		t.Fatalf("Parse rendered page: %v", err)
	}
	if page.Find(`#shows-list .card[data-show-id="139"]`).Length() != 1 {
		t.Error("Expected rendered page to contain the saved card")
	}

	other := s.Load(ctx, "s2")
	if len(other.ShowIDs()) != 0 {
		t.Error("Sessions must not share pages")
	}
}

func TestStore_FailedUpdateIsNotSaved(t *testing.T) {
	s, pages := newTestStore(t)
	ctx := context.Background()
	boom := errors.New("discard")

	err := s.Update(ctx, "s1", func(p controller.Page) error {
		p.RenderShows([]models.Show{{ID: 1, Name: "Never"}})
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Expected fn error, got %v", err)
	}
	if pages.Len() != 0 {
		t.Errorf("Expected nothing stored, got %d pages", pages.Len())
	}
}

func TestStore_UnreadablePageFallsBackToSkeleton(t *testing.T) {
	s, pages := newTestStore(t)
	ctx := context.Background()
	pages.Set(ctx, "s1", []byte("<html><body>not ours</body></html>"))

	doc := s.Load(ctx, "s1")
	if doc.Selection().Find("#shows-list").Length() != 1 {
		t.Error("Expected a fresh skeleton for an unreadable page")
	}
}

func TestStore_Reset(t *testing.T) {
	s, pages := newTestStore(t)
	ctx := context.Background()

	_ = s.Update(ctx, "s1", func(p controller.Page) error {
		p.SetNotice("hello")
		return nil
	})
	s.Reset(ctx, "s1")

	if pages.Len() != 0 {
		t.Errorf("Expected page to be removed, got %d", pages.Len())
	}
	if s.Load(ctx, "s1").Notice() != "" {
		t.Error("Expected fresh page after reset")
	}
}

func TestStore_ConcurrentUpdatesAreSerialized(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 1; i <= 20; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			_ = s.Update(ctx, "s1", func(p controller.Page) error {
				p.RenderEpisodes([]models.Episode{{ID: id, Name: "E", Season: 1, Number: id}})
				return nil
			})
		}(i)
	}
	wg.Wait()

	if got := len(s.Load(ctx, "s1").EpisodeLabels()); got != 20 {
		t.Errorf("Expected every append to survive, got %d items", got)
	}
}

func TestStore_CanceledContext(t *testing.T) {
	s, _ := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := s.Update(ctx, "s1", func(controller.Page) error {
		called = true
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
	if called {
		t.Error("fn must not run on a canceled context")
	}
}

func TestOpen_Memory(t *testing.T) {
	cfg := &config.Config{}
	cfg.Session.Provider = "memory"
	cfg.Session.Size = 5
	cfg.Session.TTL = "10m"

	s, err := Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	if err := s.Update(context.Background(), "s1", func(p controller.Page) error {
		p.SetQuery("girls")
		return nil
	}); err != nil {
		t.Fatalf("Update: %v", err)
	}
}

func TestOpen_UnknownProvider(t *testing.T) {
	cfg := &config.Config{}
	cfg.Session.Provider = "carrier-pigeon"

	if _, err := Open(cfg); err == nil {
		t.Fatal("Expected error for unknown provider")
	}
}
