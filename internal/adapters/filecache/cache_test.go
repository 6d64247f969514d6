package filecache_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cid_reviews/internal/adapters/filecache"
)

func newCache(t *testing.T) (*filecache.Cache, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "cache")
	c, err := filecache.New(dir, "google_cid_reviews_cache")
	require.NoError(t, err)
	return c, dir
}

func TestCache_SetGetByteIdentical(t *testing.T) {
	c, _ := newCache(t)
	ctx := context.Background()
	blob := []byte("{\"status\":\"OK\"}\n  ") // trailing whitespace must survive

	require.NoError(t, c.Set(ctx, "cid-1", blob))

	e, ok, err := c.Get(ctx, "cid-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, blob, e.Data)
	assert.Equal(t, "cid-1", e.Key)
	assert.WithinDuration(t, time.Now(), e.StoredAt, 5*time.Second)
}

func TestCache_Miss(t *testing.T) {
	c, _ := newCache(t)
	_, ok, err := c.Get(context.Background(), "absent")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCache_KeysAreIsolated(t *testing.T) {
	c, _ := newCache(t)
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "a", []byte(`"a"`)))
	require.NoError(t, c.Set(ctx, "b", []byte(`"b"`)))

	ea, _, _ := c.Get(ctx, "a")
	eb, _, _ := c.Get(ctx, "b")
	assert.Equal(t, `"a"`, string(ea.Data))
	assert.Equal(t, `"b"`, string(eb.Data))
	assert.NotEqual(t, c.Path("a"), c.Path("b"))
}

func TestCache_PathIsSafeForOddKeys(t *testing.T) {
	c, dir := newCache(t)
	p := c.Path("../../etc/passwd")
	assert.Equal(t, dir, filepath.Dir(p))
	assert.True(t, strings.HasPrefix(filepath.Base(p), "google_cid_reviews_cache_"))
	assert.True(t, strings.HasSuffix(p, ".json"))
}

func TestCache_StoredAtIsModTime(t *testing.T) {
	c, _ := newCache(t)
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "k", []byte("{}")))

	old := time.Now().Add(-25 * time.Hour).Truncate(time.Second)
	require.NoError(t, os.Chtimes(c.Path("k"), old, old))

	e, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, e.StoredAt.Equal(old), "got %v want %v", e.StoredAt, old)
}

func TestCache_ConcurrentWritersLeaveWholeEntry(t *testing.T) {
	c, dir := newCache(t)
	ctx := context.Background()

	payloads := make(map[string]bool)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		body := fmt.Sprintf(`{"writer":%d,"pad":"%s"}`, i, strings.Repeat("x", 4096))
		payloads[body] = true
		wg.Add(1)
		go func(b string) {
			defer wg.Done()
			assert.NoError(t, c.Set(ctx, "shared", []byte(b)))
		}(body)
	}
	wg.Wait()

	e, ok, err := c.Get(ctx, "shared")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, payloads[string(e.Data)], "entry must equal one complete write")

	ents, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, ent := range ents {
		assert.False(t, strings.HasSuffix(ent.Name(), ".tmp"), "leftover temp file %s", ent.Name())
	}
}

func TestCache_Del(t *testing.T) {
	c, _ := newCache(t)
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "k", []byte("{}")))
	require.NoError(t, c.Del(ctx, "k"))
	_, ok, _ := c.Get(ctx, "k")
	assert.False(t, ok)

	// deleting a missing entry is fine
	assert.NoError(t, c.Del(ctx, "k"))
}

func TestCache_Purge(t *testing.T) {
	c, dir := newCache(t)
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "fresh", []byte("{}")))
	require.NoError(t, c.Set(ctx, "stale", []byte("{}")))

	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(c.Path("stale"), old, old))

	abandoned := filepath.Join(dir, "google_cid_reviews_cache_123.tmp")
	require.NoError(t, os.WriteFile(abandoned, []byte("{"), 0o600))
	require.NoError(t, os.Chtimes(abandoned, old, old))

	unrelated := filepath.Join(dir, "notes.json")
	require.NoError(t, os.WriteFile(unrelated, []byte("{}"), 0o600))
	require.NoError(t, os.Chtimes(unrelated, old, old))

	n, err := c.Purge(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	_, ok, _ := c.Get(ctx, "fresh")
	assert.True(t, ok)
	_, ok, _ = c.Get(ctx, "stale")
	assert.False(t, ok)
	assert.NoFileExists(t, abandoned)
	assert.FileExists(t, unrelated)
}

func TestCache_PurgeDisabled(t *testing.T) {
	c, _ := newCache(t)
	n, err := c.Purge(context.Background(), 0)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestNew_RejectsEmptyPrefix(t *testing.T) {
	_, err := filecache.New(t.TempDir(), "")
	assert.Error(t, err)
}
