// Package cache stores fetched pages on disk, one file per key, so repeated
// runs do not hit the catalogue again.
package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

const fileExt = ".html"

// Stats counts cache lookups.
type Stats struct {
	Hits   int64
	Misses int64
	Writes int64
}

// Cache is a directory of page bodies. A zero TTL keeps entries forever.
type Cache struct {
	dir   string
	ttl   time.Duration
	mu    sync.RWMutex
	stats Stats
}

// New opens (creating if needed) a cache rooted at dir.
func New(dir string, ttl time.Duration) (*Cache, error) {
	if dir == "" {
		return nil, errors.New("cache dir is empty")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &Cache{dir: dir, ttl: ttl}, nil
}

// Dir returns the cache root.
func (c *Cache) Dir() string { return c.dir }

func (c *Cache) path(key string) string {
	return filepath.Join(c.dir, sanitize(key)+fileExt)
}

// Get returns the stored body for key. Expired entries are removed and
// reported as misses.
func (c *Cache) Get(key string) ([]byte, bool, error) {
	path := c.path(key)

	c.mu.RLock()
	info, err := os.Stat(path)
	if err != nil {
		c.mu.RUnlock()
		c.count(func(s *Stats) { s.Misses++ })
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("stat cache entry: %w", err)
	}

	if c.ttl <= 0 || time.Since(info.ModTime()) <= c.ttl {
		data, err := os.ReadFile(path)
		c.mu.RUnlock()
		if err != nil {
			return nil, false, fmt.Errorf("read cache entry: %w", err)
		}
		c.count(func(s *Stats) { s.Hits++ })
		return data, true, nil
	}
	c.mu.RUnlock()

	// Expired, need write lock to delete
	c.mu.Lock()
	if info, err := os.Stat(path); err == nil && time.Since(info.ModTime()) > c.ttl {
		_ = os.Remove(path)
	}
	c.mu.Unlock()

	c.count(func(s *Stats) { s.Misses++ })
	return nil, false, nil
}

// Put stores data under key, replacing any previous entry.
func (c *Cache) Put(key string, data []byte) error {
	path := c.path(key)

	c.mu.Lock()
	defer c.mu.Unlock()

	tmp, err := os.CreateTemp(c.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write cache entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close cache entry: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("commit cache entry: %w", err)
	}

	c.stats.Writes++
	return nil
}

// Remove deletes a specific cache entry
func (c *Cache) Remove(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := os.Remove(c.path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove cache entry: %w", err)
	}
	return nil
}

// Clear removes all cache entries
func (c *Cache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	matches, err := filepath.Glob(filepath.Join(c.dir, "*"+fileExt))
	if err != nil {
		return fmt.Errorf("list cache entries: %w", err)
	}
	for _, m := range matches {
		if err := os.Remove(m); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove cache entry: %w", err)
		}
	}
	return nil
}

// Stats returns lookup counters since the cache was opened.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stats
}

func (c *Cache) count(f func(*Stats)) {
	c.mu.Lock()
	f(&c.stats)
	c.mu.Unlock()
}

// BuildKey creates semantic cache keys
func BuildKey(parts ...string) string {
	return strings.Join(parts, "_")
}

// DetailKey is the key of a card detail page.
func DetailKey(id int) string {
	return BuildKey("detail", strconv.Itoa(id))
}

var unsafeChars = strings.NewReplacer("/", "-", `\`, "-", ":", "-", " ", "-", "..", "-")

func sanitize(key string) string {
	return unsafeChars.Replace(key)
}
