// Package filecache keeps one JSON file per CID on local disk. The file's
// modification time is the moment the entry was stored.
package filecache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"cid_reviews/internal/domain"
)

const tmpSuffix = ".tmp"

type Cache struct {
	dir    string
	prefix string
}

// New creates dir if needed. Entries are named <prefix>_<md5(key)>.json.
func New(dir, prefix string) (*Cache, error) {
	if prefix == "" {
		return nil, errors.New("filecache: empty file prefix")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:mnd
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &Cache{dir: dir, prefix: prefix}, nil
}

// Path returns where the entry for key lives, whether or not it exists.
func (c *Cache) Path(key string) string {
	return filepath.Join(c.dir, c.prefix+"_"+encodeKey(key)+".json")
}

func (c *Cache) Get(_ context.Context, key string) (domain.CacheEntry, bool, error) {
	p := c.Path(key)
	info, err := os.Stat(p)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.CacheEntry{}, false, nil
	}
	if err != nil {
		return domain.CacheEntry{}, false, err
	}
	b, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		// removed between stat and read
		return domain.CacheEntry{}, false, nil
	}
	if err != nil {
		return domain.CacheEntry{}, false, err
	}
	return domain.CacheEntry{Key: key, Data: b, StoredAt: info.ModTime()}, true, nil
}

// Set writes data to a temp file in the cache directory and renames it over
// the entry, so readers see either the old or the new blob, never a mix.
func (c *Cache) Set(_ context.Context, key string, data []byte) error {
	f, err := os.CreateTemp(c.dir, c.prefix+"_*"+tmpSuffix)
	if err != nil {
		return fmt.Errorf("failed to create temp cache file: %w", err)
	}
	tmp := f.Name()
	cleanup := func() { _ = os.Remove(tmp) }

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		cleanup()
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	if err := os.Chmod(tmp, 0o644); err != nil { //nolint:mnd
		cleanup()
		return fmt.Errorf("failed to chmod cache file: %w", err)
	}
	if err := os.Rename(tmp, c.Path(key)); err != nil {
		cleanup()
		return fmt.Errorf("failed to move cache file into place: %w", err)
	}
	return nil
}

func (c *Cache) Del(_ context.Context, key string) error {
	if err := os.Remove(c.Path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Purge removes entries (and abandoned temp files) older than olderThan.
// olderThan <= 0 is a no-op.
func (c *Cache) Purge(_ context.Context, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		log.Debug().Msg("cache purge disabled")
		return 0, nil
	}
	ents, err := os.ReadDir(c.dir)
	if err != nil {
		return 0, fmt.Errorf("failed to purge cache: %w", err)
	}
	var removed int64
	for _, e := range ents {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, c.prefix+"_") {
			continue
		}
		if !strings.HasSuffix(name, ".json") && !strings.HasSuffix(name, tmpSuffix) {
			continue
		}
		info, err := e.Info()
		if err != nil || time.Since(info.ModTime()) <= olderThan {
			continue
		}
		p := filepath.Join(c.dir, name)
		if err := os.Remove(p); err != nil {
			log.Warn().Err(err).Str("path", p).Msg("failed to remove cache file")
			continue
		}
		log.Debug().Str("path", p).Msg("removed cache file")
		removed++
	}
	return removed, nil
}

// encodeKey hashes k with MD5 so any CID maps to a safe file name.
func encodeKey(k string) string {
	sum := md5.Sum([]byte(k))
	return hex.EncodeToString(sum[:])
}
