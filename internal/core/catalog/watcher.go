package catalog

import (
	"context"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

const (
	debounceDelay   = 100 * time.Millisecond
	eventBufferSize = 8
)

// ReloadEvent is sent after the provider reloads because a source file
// changed. Err is the load error, nil on success.
type ReloadEvent struct {
	Catalog   *Catalog
	Err       error
	Timestamp time.Time
}

// Watcher reloads a Provider when any of its local source files change.
// URL sources are loaded with the files but never watched.
type Watcher struct {
	provider *Provider
	watcher  *fsnotify.Watcher
	log      zerolog.Logger
	files    map[string]bool

	mu          sync.Mutex
	subscribers []chan ReloadEvent
	timer       *time.Timer

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWatcher watches the directories that hold the provider's source files.
// Directories are watched instead of files so that editors which replace the
// file on save keep triggering events.
func NewWatcher(provider *Provider, log zerolog.Logger) (*Watcher, error) {
	if provider.loader == nil {
		return nil, &LoadError{Source: "watch", Err: errNotLoaded}
	}

	files, err := provider.loader.Files()
	if err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		provider: provider,
		watcher:  fw,
		log:      log.With().Str("component", "catalog-watcher").Logger(),
		files:    make(map[string]bool, len(files)),
	}

	var dirs []string
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			_ = fw.Close()
			return nil, err
		}
		w.files[abs] = true
		if dir := filepath.Dir(abs); !slices.Contains(dirs, dir) {
			dirs = append(dirs, dir)
		}
	}

	for _, dir := range dirs {
		if err := fw.Add(dir); err != nil {
			_ = fw.Close()
			return nil, err
		}
	}

	w.ctx, w.cancel = context.WithCancel(context.Background())
	w.wg.Add(1)
	go w.run()

	return w, nil
}

// Subscribe returns a channel that receives an event after every reload.
// The channel is closed by Close.
func (w *Watcher) Subscribe() <-chan ReloadEvent {
	ch := make(chan ReloadEvent, eventBufferSize)

	w.mu.Lock()
	w.subscribers = append(w.subscribers, ch)
	w.mu.Unlock()

	return ch
}

// Close stops watching and closes all subscriber channels.
func (w *Watcher) Close() error {
	w.cancel()
	err := w.watcher.Close()
	w.wg.Wait()

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	for _, ch := range w.subscribers {
		close(ch)
	}
	w.subscribers = nil

	return err
}

func (w *Watcher) run() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Msg("watch error")
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}
	if strings.HasSuffix(event.Name, ".tmp") || strings.HasSuffix(event.Name, "~") {
		return
	}

	abs, err := filepath.Abs(event.Name)
	if err != nil || !w.files[abs] {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(debounceDelay, w.reload)
}

func (w *Watcher) reload() {
	if w.ctx.Err() != nil {
		return
	}

	c, err := w.provider.Load(w.ctx)
	if err != nil {
		w.log.Error().Err(err).Msg("catalog reload failed")
	} else {
		w.log.Info().Int("job_types", c.Len()).Msg("catalog reloaded")
	}

	event := ReloadEvent{Catalog: c, Err: err, Timestamp: time.Now()}

	w.mu.Lock()
	defer w.mu.Unlock()
	for _, ch := range w.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}
