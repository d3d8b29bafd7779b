package memory

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrNotFound is returned by Get for unknown ids.
var ErrNotFound = errors.New("memory record not found")

// Store is a thread-safe in-memory record store.
type Store struct {
	records map[string]*Record
	seq     map[string]int // insertion order, breaks CreatedAt ties
	next    int
	mu      sync.RWMutex
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		records: make(map[string]*Record),
		seq:     make(map[string]int),
	}
}

// Add records a chunk.
func (s *Store) Add(source string, kind Kind, part int, content string) (*Record, error) {
	rec, err := NewRecord(source, kind, part, content)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[rec.ID] = rec
	s.seq[rec.ID] = s.next
	s.next++
	return rec, nil
}

// Get returns the record with the given id.
func (s *Store) Get(id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return rec, nil
}

// ListOptions filters List and Search. Zero values match everything.
type ListOptions struct {
	Source string
	Kind   Kind
	Limit  int
}

func (o ListOptions) matches(r *Record) bool {
	if o.Source != "" && r.Source != o.Source {
		return false
	}
	return o.Kind == "" || r.Kind == o.Kind
}

// List returns matching records, oldest first.
func (s *Store) List(opts ListOptions) []*Record {
	return s.collect(opts, func(*Record) bool { return true })
}

// Search returns matching records whose content contains query, ignoring case.
func (s *Store) Search(query string, opts ListOptions) []*Record {
	q := strings.ToLower(query)
	return s.collect(opts, func(r *Record) bool {
		return strings.Contains(strings.ToLower(r.Content), q)
	})
}

func (s *Store) collect(opts ListOptions, keep func(*Record) bool) []*Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*Record
	for _, rec := range s.records {
		if opts.matches(rec) && keep(rec) {
			result = append(result, rec)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return s.seq[result[i].ID] < s.seq[result[j].ID]
	})

	if opts.Limit > 0 && len(result) > opts.Limit {
		result = result[:opts.Limit]
	}
	return result
}

// Count returns the number of records.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Clear removes every record.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make(map[string]*Record)
	s.seq = make(map[string]int)
}
