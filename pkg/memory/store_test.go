package memory

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecord(t *testing.T) {
	rec, err := NewRecord("https://example.com", KindRaw, 1, "hello")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(rec.ID, IDPrefix))
	assert.False(t, rec.CreatedAt.IsZero())
	assert.Equal(t, "Source: https://example.com\nRaw content part#1: hello", rec.String())

	rec.Kind = KindSummary
	assert.Equal(t, "Source: https://example.com\nContent summary part#1: hello", rec.String())

	_, err = NewRecord("u", Kind("other"), 1, "x")
	assert.Error(t, err)
	_, err = NewRecord("u", KindRaw, 0, "x")
	assert.Error(t, err)
}

func TestStore_AddGetList(t *testing.T) {
	s := NewStore()

	a, err := s.Add("https://a.com", KindRaw, 1, "alpha raw")
	require.NoError(t, err)
	_, err = s.Add("https://a.com", KindSummary, 1, "alpha summary")
	require.NoError(t, err)
	_, err = s.Add("https://b.com", KindRaw, 1, "beta raw")
	require.NoError(t, err)

	got, err := s.Get(a.ID)
	require.NoError(t, err)
	assert.Equal(t, a, got)

	_, err = s.Get("mem_missing")
	assert.ErrorIs(t, err, ErrNotFound)

	all := s.List(ListOptions{})
	require.Len(t, all, 3)
	assert.Equal(t, "alpha raw", all[0].Content)
	assert.Equal(t, "beta raw", all[2].Content)

	assert.Len(t, s.List(ListOptions{Source: "https://a.com"}), 2)
	assert.Len(t, s.List(ListOptions{Kind: KindRaw}), 2)
	assert.Len(t, s.List(ListOptions{Limit: 1}), 1)
	assert.Equal(t, 3, s.Count())
}

func TestStore_Search(t *testing.T) {
	s := NewStore()
	for i, content := range []string{"Go is fun", "golang tips", "Rust notes"} {
		_, err := s.Add("https://x.com", KindSummary, i+1, content)
		require.NoError(t, err)
	}

	found := s.Search("GO", ListOptions{})
	require.Len(t, found, 2)
	assert.Equal(t, 1, found[0].Part)
	assert.Equal(t, 2, found[1].Part)

	assert.Empty(t, s.Search("python", ListOptions{}))
	assert.Len(t, s.Search("", ListOptions{Limit: 2}), 2)
}

func TestStore_Clear(t *testing.T) {
	s := NewStore()
	_, err := s.Add("u", KindRaw, 1, "x")
	require.NoError(t, err)

	s.Clear()
	assert.Zero(t, s.Count())
	assert.Empty(t, s.List(ListOptions{}))
}

func TestStore_Concurrent(t *testing.T) {
	s := NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = s.Add(fmt.Sprintf("https://site%d.com", i%3), KindRaw, i+1, "chunk")
			s.List(ListOptions{})
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 20, s.Count())
}
