package scheduler

import "sync"

// Stats tracks cumulative post and error counts for the process lifetime.
// Counters are monotonically non-decreasing and reset only by restart.
// Writes happen from the single trigger/runner goroutine; the mutex exists
// for concurrent readers (status API).
type Stats struct {
	mu         sync.Mutex
	postCount  int
	errorCount int
}

func (s *Stats) AddPost() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.postCount++
}

func (s *Stats) AddError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errorCount++
}

// Snapshot returns the current counter values.
func (s *Stats) Snapshot() (posts, errors int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.postCount, s.errorCount
}
