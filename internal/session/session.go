package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/KaramelBytes/csvscope/internal/analysis"
)

// ErrNoDataset is returned when no dataset has been loaded.
var ErrNoDataset = errors.New("no dataset loaded")

// Dataset is one analyzed upload held by a Store.
type Dataset struct {
	ID        string                  `json:"id"`
	Name      string                  `json:"name"`
	Size      int64                   `json:"size"`
	CreatedAt time.Time               `json:"created_at"`
	Data      *analysis.ParsedDataset `json:"data"`
}

// Store holds at most one current dataset. Loading a new one replaces it.
// Datasets are immutable, so readers may keep using a Dataset after it has
// been replaced.
type Store struct {
	mu  sync.RWMutex
	cur *Dataset
	now func() time.Time
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{now: time.Now}
}

// Replace installs ds as the current dataset and returns its entry.
func (s *Store) Replace(name string, size int64, ds *analysis.ParsedDataset) *Dataset {
	d := &Dataset{
		ID:        uuid.NewString(),
		Name:      name,
		Size:      size,
		CreatedAt: s.now().UTC(),
		Data:      ds,
	}
	s.mu.Lock()
	s.cur = d
	s.mu.Unlock()
	return d
}

// Current returns the current dataset or ErrNoDataset.
func (s *Store) Current() (*Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cur == nil {
		return nil, ErrNoDataset
	}
	return s.cur, nil
}

// Reset drops the current dataset. It reports whether one was loaded.
func (s *Store) Reset() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	had := s.cur != nil
	s.cur = nil
	return had
}
