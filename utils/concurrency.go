package utils

import (
	"sync"
	"time"
)

// Pool runs jobs on a bounded set of goroutines with a minimum interval
// between job starts. The pitch pass uses it to stay under the completion
// API's rate limit.
type Pool struct {
	semaphore chan struct{}
	interval  time.Duration
	wg        sync.WaitGroup

	mu        sync.Mutex
	lastStart time.Time
}

// NewPool creates a Pool with the given concurrency and minimum start interval.
func NewPool(workers int, interval time.Duration) *Pool {
	return &Pool{
		semaphore: make(chan struct{}, workers),
		interval:  interval,
	}
}

// Submit enqueues a job for execution in the pool.
func (p *Pool) Submit(job func()) {
	p.wg.Add(1)
	p.semaphore <- struct{}{}

	go func() {
		defer p.wg.Done()
		defer func() { <-p.semaphore }()

		p.throttle()
		job()
	}()
}

// Wait blocks until all submitted jobs have completed.
func (p *Pool) Wait() {
	p.wg.Wait()
}

func (p *Pool) throttle() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if elapsed := time.Since(p.lastStart); elapsed < p.interval {
		time.Sleep(p.interval - elapsed)
	}
	p.lastStart = time.Now()
}

// URLSet is a thread-safe set for deduplicating listing URLs within a run.
type URLSet struct {
	mu   sync.RWMutex
	seen map[string]struct{}
}

// NewURLSet creates an empty URLSet.
func NewURLSet() *URLSet {
	return &URLSet{seen: make(map[string]struct{})}
}

// Add returns true if the URL was newly added, false if already present.
func (s *URLSet) Add(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.seen[url]; exists {
		return false
	}
	s.seen[url] = struct{}{}
	return true
}

// Contains returns true if the URL has already been seen.
func (s *URLSet) Contains(url string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.seen[url]
	return exists
}

// Size returns the number of unique URLs tracked.
func (s *URLSet) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.seen)
}
