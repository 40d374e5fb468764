package content

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// CachedStore keeps parsed collections in memory and evicts a collection
// whenever a file in its directory changes. Callers always get a private
// copy, so request-scoped decorations never reach the cache.
type CachedStore struct {
	store   *FileStore
	watcher *fsnotify.Watcher
	logger  *slog.Logger

	mu      sync.RWMutex
	entries map[Collection][]Article
	version uint64

	done chan struct{}
}

// NewCachedStore wraps store with a watch on the content root and every
// existing collection directory.
func NewCachedStore(store *FileStore, logger *slog.Logger) (*CachedStore, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	c := &CachedStore{
		store:   store,
		watcher: watcher,
		logger:  logger,
		entries: make(map[Collection][]Article),
		done:    make(chan struct{}),
	}

	if err := watcher.Add(store.Root()); err != nil {
		logger.Warn("content root not watched", "dir", store.Root(), "error", err)
	}
	for _, col := range Collections {
		c.watchDir(col)
	}

	go c.run()
	return c, nil
}

func (c *CachedStore) watchDir(col Collection) {
	dir := filepath.Dir(c.store.Path(col))
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return
	}
	if err := c.watcher.Add(dir); err != nil {
		c.logger.Warn("collection directory not watched", "collection", col, "dir", dir, "error", err)
	}
}

// Load returns the cached collection, reading it from disk on a miss.
// Errors are never cached.
func (c *CachedStore) Load(ctx context.Context, col Collection) ([]Article, error) {
	c.mu.RLock()
	cached, ok := c.entries[col]
	version := c.version
	c.mu.RUnlock()

	if ok {
		return cloneAll(cached), nil
	}

	articles, err := c.store.Load(ctx, col)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	// an invalidation raced with the read; serve it but don't keep it
	if c.version == version {
		c.entries[col] = cloneAll(articles)
	}
	c.mu.Unlock()

	return articles, nil
}

// Invalidate drops a collection from the cache.
func (c *CachedStore) Invalidate(col Collection) {
	c.mu.Lock()
	delete(c.entries, col)
	c.version++
	c.mu.Unlock()
}

// Close stops watching and waits for the event loop to exit.
func (c *CachedStore) Close() error {
	err := c.watcher.Close()
	<-c.done
	return err
}

func (c *CachedStore) run() {
	defer close(c.done)

	for {
		select {
		case event, ok := <-c.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			c.handle(event)
		case err, ok := <-c.watcher.Errors:
			if !ok {
				return
			}
			c.logger.Warn("content watcher error", "error", err)
		}
	}
}

func (c *CachedStore) handle(event fsnotify.Event) {
	name := filepath.Clean(event.Name)
	for _, col := range Collections {
		dir := filepath.Dir(c.store.Path(col))
		if name != dir && filepath.Dir(name) != dir {
			continue
		}
		// a collection directory created after startup needs its own watch
		if name == dir && event.Has(fsnotify.Create) {
			c.watchDir(col)
		}
		c.logger.Debug("content changed", "collection", col, "file", event.Name, "op", event.Op.String())
		c.Invalidate(col)
		return
	}
}
