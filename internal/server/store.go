package server

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"

	"github.com/masmgr/changelog-go/internal/changelog"
	"github.com/masmgr/changelog-go/internal/source"
)

// Store holds the changelog being served. Snapshots are immutable and
// replaced whole on reload, so readers never need a lock.
type Store struct {
	loader   source.Loader
	snapshot atomic.Pointer[changelog.Changelog]
}

// NewStore loads the changelog from loader. It fails if the first load fails.
func NewStore(ctx context.Context, loader source.Loader) (*Store, error) {
	s := &Store{loader: loader}
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Current returns the latest successfully loaded changelog.
func (s *Store) Current() changelog.Changelog {
	return *s.snapshot.Load()
}

// Reload reads and parses the source again. On failure the previous
// snapshot stays in place.
func (s *Store) Reload(ctx context.Context) error {
	text, err := s.loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load changelog from %s: %w", s.loader.Describe(), err)
	}
	cl, err := changelog.Parse(text)
	if err != nil {
		return fmt.Errorf("failed to parse changelog from %s: %w", s.loader.Describe(), err)
	}
	s.snapshot.Store(&cl)
	log.Info().Str("source", s.loader.Describe()).Int("entries", cl.Len()).Msg("Loaded changelog")
	return nil
}

// Watch reloads the store whenever the file at path is written or
// recreated. It blocks until ctx is done.
func (s *Store) Watch(ctx context.Context, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	path = filepath.Clean(path)
	// Editors often replace files instead of writing them in place, so watch the directory.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path || !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
				continue
			}
			if err := s.Reload(ctx); err != nil {
				log.Error().Err(err).Msg("Failed to reload changelog, keeping previous version")
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error().Err(err).Str("path", path).Msg("Watcher error")
		}
	}
}
