package index

import (
	"context"
	"strings"
	"testing"

	"github.com/dgallion1/docchunk/internal/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// letterEmbedding maps text to letter frequencies so similar wording lands
// close together without a model server.
func letterEmbedding(_ context.Context, text string) ([]float32, error) {
	v := make([]float32, 27)
	v[26] = 1
	for _, r := range strings.ToLower(text) {
		if r >= 'a' && r <= 'z' {
			v[r-'a']++
		}
	}
	return v, nil
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(Options{Collection: "test"}, letterEmbedding)
	require.NoError(t, err)
	return s
}

func records(source string, texts ...string) []document.ChunkRecord {
	out := make([]document.ChunkRecord, len(texts))
	for i, text := range texts {
		out[i] = document.ChunkRecord{
			Text:      text,
			Source:    source,
			Lookup:    "p1",
			Timestamp: "2024-01-02T02:04:05.006Z",
			ChunkIdx:  i,
		}
	}
	return out
}

func TestStore_InsertAndQuery(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Insert(ctx, records("a.txt", "zzzz zzz zz", "aaaa aaa aa", "mmmm mmm mm")))
	assert.Equal(t, 3, s.Count())

	hits, err := s.Query(ctx, "aaa", 1, "")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "aaaa aaa aa", hits[0].Text)
	assert.Equal(t, "a.txt", hits[0].Source)
	assert.Equal(t, "p1", hits[0].Lookup)
	assert.Equal(t, 1, hits[0].ChunkIdx)
	assert.Equal(t, "2024-01-02T02:04:05.006Z", hits[0].Timestamp)

	assert.Equal(t, 2, s.Stats.Snapshot().Count, "insert and query are both timed")
}

func TestStore_QueryClampsLimit(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.Insert(ctx, records("a.txt", "one", "two")))

	hits, err := s.Query(ctx, "one", 50, "")
	require.NoError(t, err)
	assert.Len(t, hits, 2)
}

func TestStore_QueryEmptyCollection(t *testing.T) {
	hits, err := newTestStore(t).Query(context.Background(), "anything", 5, "")
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestStore_QueryFiltersBySource(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.Insert(ctx, records("a.txt", "aaaa")))
	require.NoError(t, s.Insert(ctx, records("b.txt", "bbbb")))

	hits, err := s.Query(ctx, "aaaa", 1, "b.txt")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "b.txt", hits[0].Source)
}

func TestStore_ReinsertOverwrites(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.Insert(ctx, records("a.txt", "first", "second")))
	require.NoError(t, s.Insert(ctx, records("a.txt", "first again", "second again")))

	assert.Equal(t, 2, s.Count())
}

func TestStore_DeleteSource(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.Insert(ctx, records("a.txt", "one", "two")))
	require.NoError(t, s.Insert(ctx, records("b.txt", "three")))

	require.NoError(t, s.DeleteSource(ctx, "a.txt"))
	assert.Equal(t, 1, s.Count())
	assert.Error(t, s.DeleteSource(ctx, ""))
}

func TestStore_InsertNothing(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Insert(context.Background(), nil))
	assert.Equal(t, 0, s.Count())
	assert.Equal(t, 0, s.Stats.Snapshot().Count)
}

func TestStore_PersistentReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := Open(Options{Path: dir, Collection: "chunks"}, letterEmbedding)
	require.NoError(t, err)
	require.NoError(t, s.Insert(ctx, records("a.txt", "persisted text")))

	reopened, err := Open(Options{Path: dir, Collection: "chunks"}, letterEmbedding)
	require.NoError(t, err)
	assert.Equal(t, 1, reopened.Count())
}

func TestChunkID_Stable(t *testing.T) {
	assert.Equal(t, ChunkID("a.txt", 3), ChunkID("a.txt", 3))
	assert.NotEqual(t, ChunkID("a.txt", 3), ChunkID("a.txt", 4))
	assert.NotEqual(t, ChunkID("a.txt", 3), ChunkID("b.txt", 3))
}
