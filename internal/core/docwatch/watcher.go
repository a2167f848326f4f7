// Package docwatch reports on-disk changes to previewed documents.
package docwatch

import (
	"context"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/colonyops/preview/internal/core/display"
	"github.com/colonyops/preview/internal/core/logging"
)

// DefaultDelay is the debounce window used when New is given zero.
const DefaultDelay = 75 * time.Millisecond

// Watcher watches the parent directories of subscribed documents. Editors
// often save by renaming a temp file into place, so watching the file itself
// would lose track of it after the first save.
//
// Callbacks are handed to post, which is expected to run them on the
// caller's event loop.
type Watcher struct {
	watcher *fsnotify.Watcher
	post    func(func()) bool
	delay   time.Duration
	log     zerolog.Logger

	mu       sync.Mutex
	nextID   int
	dirs     map[string]int            // dir -> subscribed file count
	subs     map[string]map[int]func() // file -> id -> callback
	debounce map[string]*time.Timer    // file -> pending notification

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New starts a watcher. A zero delay selects DefaultDelay.
func New(post func(func()) bool, delay time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if delay <= 0 {
		delay = DefaultDelay
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		watcher:  fw,
		post:     post,
		delay:    delay,
		log:      logging.Component("docwatch"),
		dirs:     make(map[string]int),
		subs:     make(map[string]map[int]func()),
		debounce: make(map[string]*time.Timer),
		ctx:      ctx,
		cancel:   cancel,
	}

	w.wg.Add(1)
	go w.run()

	return w, nil
}

// Subscribe calls fn after resource changes on disk. The returned function
// stops delivery and releases the directory watch when it was the last user.
func (w *Watcher) Subscribe(resource string, fn func()) func() {
	file := filepath.Clean(display.ResourcePath(resource))
	dir := filepath.Dir(file)

	w.mu.Lock()
	w.nextID++
	id := w.nextID
	if w.subs[file] == nil {
		w.subs[file] = make(map[int]func())
	}
	w.subs[file][id] = fn
	if w.dirs[dir] == 0 {
		if err := w.watcher.Add(dir); err != nil {
			w.log.Warn().Err(err).Str("dir", dir).Msg("cannot watch document directory")
		}
	}
	w.dirs[dir]++
	w.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { w.unsubscribe(file, dir, id) })
	}
}

func (w *Watcher) unsubscribe(file, dir string, id int) {
	w.mu.Lock()
	defer w.mu.Unlock()

	delete(w.subs[file], id)
	if len(w.subs[file]) == 0 {
		delete(w.subs, file)
		if t, ok := w.debounce[file]; ok {
			t.Stop()
			delete(w.debounce, file)
		}
	}

	w.dirs[dir]--
	if w.dirs[dir] <= 0 {
		delete(w.dirs, dir)
		_ = w.watcher.Remove(dir)
	}
}

// Close stops watching. Pending notifications are dropped.
func (w *Watcher) Close() error {
	w.cancel()

	w.mu.Lock()
	for _, t := range w.debounce {
		t.Stop()
	}
	w.debounce = make(map[string]*time.Timer)
	w.mu.Unlock()

	err := w.watcher.Close()
	w.wg.Wait()
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
			w.log.Error().Err(err).Msg("watcher error")
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}
	file := filepath.Clean(event.Name)

	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.subs[file]) == 0 || w.ctx.Err() != nil {
		return
	}
	if t, ok := w.debounce[file]; ok {
		t.Stop()
	}
	w.debounce[file] = time.AfterFunc(w.delay, func() { w.notify(file) })
}

func (w *Watcher) notify(file string) {
	w.mu.Lock()
	delete(w.debounce, file)
	ids := make([]int, 0, len(w.subs[file]))
	for id := range w.subs[file] {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	fns := make([]func(), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, w.subs[file][id])
	}
	w.mu.Unlock()

	if len(fns) == 0 {
		return
	}

	w.log.Debug().Str("file", file).Int("subscribers", len(fns)).Msg("document changed")
	posted := w.post(func() {
		for _, fn := range fns {
			fn()
		}
	})
	if !posted {
		w.log.Debug().Str("file", file).Msg("event loop closed, dropping change")
	}
}
