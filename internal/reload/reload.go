// Package reload keeps the live engine behind an atomic pointer and rebuilds
// it when the lexicon, prior or cost files change on disk.
package reload

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/cours-de-latin/metermeter"
	"github.com/cours-de-latin/metermeter/internal/metrics"
)

// DefaultDebounce coalesces the burst of events an editor or a copy produces.
const DefaultDebounce = 500 * time.Millisecond

// Holder publishes the current engine. Readers never block a reload.
type Holder struct {
	engine atomic.Pointer[metermeter.Engine]
}

// NewHolder returns a Holder serving e.
func NewHolder(e *metermeter.Engine) *Holder {
	h := &Holder{}
	h.engine.Store(e)
	return h
}

// Engine returns the engine in effect at call time.
func (h *Holder) Engine() *metermeter.Engine { return h.engine.Load() }

// Store replaces the engine. Calls already holding the old one finish on it.
func (h *Holder) Store(e *metermeter.Engine) { h.engine.Store(e) }

// LexiconWords reports the in-memory lexicon size, or 0 when the pronouncer
// is not a *metermeter.Lexicon.
func (h *Holder) LexiconWords() int {
	if lex, ok := h.Engine().Pronouncer().(*metermeter.Lexicon); ok {
		return lex.Len()
	}
	return 0
}

func (h *Holder) PriorWords() int { return h.Engine().Priors().Len() }

// BuildFunc constructs a fresh engine from the current files.
type BuildFunc func() (*metermeter.Engine, error)

// Watcher rebuilds the held engine whenever one of its files changes.
type Watcher struct {
	holder   *Holder
	build    BuildFunc
	paths    []string
	debounce time.Duration
	log      zerolog.Logger
}

// NewWatcher watches paths (blank entries are ignored).
func NewWatcher(h *Holder, build BuildFunc, log zerolog.Logger, paths ...string) *Watcher {
	w := &Watcher{
		holder:   h,
		build:    build,
		debounce: DefaultDebounce,
		log:      log.With().Str("component", "reload").Logger(),
	}
	for _, p := range paths {
		if p != "" {
			w.paths = append(w.paths, filepath.Clean(p))
		}
	}
	return w
}

// SetDebounce changes the quiet period before a rebuild.
func (w *Watcher) SetDebounce(d time.Duration) { w.debounce = d }

// Reload builds a new engine and swaps it in. On failure the old engine stays.
func (w *Watcher) Reload() error {
	e, err := w.build()
	if err != nil {
		metrics.LexiconReloadsTotal.WithLabelValues("error").Inc()
		w.log.Error().Err(err).Msg("reload failed, keeping current engine")
		return err
	}
	w.holder.Store(e)
	metrics.LexiconReloadsTotal.WithLabelValues("ok").Inc()
	w.log.Info().
		Int("lexicon_words", w.holder.LexiconWords()).
		Int("prior_words", w.holder.PriorWords()).
		Msg("engine reloaded")
	return nil
}

// Run watches until ctx is done. Parent directories are watched rather than
// the files themselves so that atomic rename-over saves are seen.
func (w *Watcher) Run(ctx context.Context) error {
	if len(w.paths) == 0 {
		return errors.New("reload: no files to watch")
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	watched := make(map[string]bool, len(w.paths))
	dirs := make(map[string]bool)
	for _, p := range w.paths {
		watched[p] = true
		dir := filepath.Dir(p)
		if dirs[dir] {
			continue
		}
		if err := fw.Add(dir); err != nil {
			return err
		}
		dirs[dir] = true
	}
	w.log.Info().Strs("paths", w.paths).Msg("watching for changes")

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !watched[filepath.Clean(event.Name)] {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			w.log.Debug().Str("path", event.Name).Str("op", event.Op.String()).Msg("change detected")
			timer.Reset(w.debounce)

		case <-timer.C:
			_ = w.Reload()

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Error().Err(err).Msg("fsnotify error")
		}
	}
}
