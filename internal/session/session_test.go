package session

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/csvscope/internal/analysis"
)

func dataset(t *testing.T, csv string) *analysis.ParsedDataset {
	t.Helper()
	ds, err := analysis.Analyze(csv)
	require.NoError(t, err)
	return ds
}

func TestStoreLifecycle(t *testing.T) {
	s := NewStore()
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	_, err := s.Current()
	assert.ErrorIs(t, err, ErrNoDataset)
	assert.False(t, s.Reset())

	first := s.Replace("a.csv", 12, dataset(t, "a\n1\n"))
	_, err = uuid.Parse(first.ID)
	require.NoError(t, err)
	assert.Equal(t, fixed, first.CreatedAt)

	cur, err := s.Current()
	require.NoError(t, err)
	assert.Same(t, first, cur)

	second := s.Replace("b.csv", 20, dataset(t, "b\n2\n"))
	assert.NotEqual(t, first.ID, second.ID)
	cur, _ = s.Current()
	assert.Equal(t, "b.csv", cur.Name)
	assert.Equal(t, []string{"a"}, first.Data.Headers, "replaced datasets stay intact")

	assert.True(t, s.Reset())
	_, err = s.Current()
	assert.ErrorIs(t, err, ErrNoDataset)
}

func TestStoreConcurrentAccess(t *testing.T) {
	s := NewStore()
	ds := dataset(t, "x,y\n1,2\n2,3\n")
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Replace("x.csv", 1, ds)
		}()
		go func() {
			defer wg.Done()
			if d, err := s.Current(); err == nil {
				assert.Equal(t, 2, d.Data.Summary.RowCount)
			}
		}()
	}
	wg.Wait()
	_, err := s.Current()
	assert.NoError(t, err)
}
