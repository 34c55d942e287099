package store

import (
	"context"
	"sync"
	"time"
)

type memoryJob struct {
	entries   map[string]Entry
	writtenAt time.Time
}

// Memory is an in-process store with per-entry TTL and a cap on the number
// of jobs. The least recently written job is evicted first.
type Memory struct {
	ttl     time.Duration
	maxJobs int
	now     func() time.Time

	mu   sync.Mutex
	jobs map[string]*memoryJob
}

// NewMemory creates a memory store. Zero ttl or maxJobs disables the limit.
func NewMemory(ttl time.Duration, maxJobs int, now func() time.Time) *Memory {
	if now == nil {
		now = time.Now
	}
	return &Memory{ttl: ttl, maxJobs: maxJobs, now: now, jobs: make(map[string]*memoryJob)}
}

func (m *Memory) Put(_ context.Context, e Entry) error {
	if err := e.validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if e.StoredAt.IsZero() {
		e.StoredAt = now
	}

	job, ok := m.jobs[e.JobID]
	if !ok {
		job = &memoryJob{entries: make(map[string]Entry)}
		m.jobs[e.JobID] = job
	}
	job.entries[e.CandidateID] = e
	job.writtenAt = now

	m.evict(e.JobID)
	return nil
}

func (m *Memory) Get(_ context.Context, jobID, candidateID string) (Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[jobID]
	if !ok {
		return Entry{}, ErrNotFound
	}
	e, ok := job.entries[candidateID]
	if !ok {
		return Entry{}, ErrNotFound
	}
	if m.expired(e) {
		m.remove(jobID, candidateID)
		return Entry{}, ErrNotFound
	}
	return e, nil
}

func (m *Memory) List(_ context.Context, jobID string) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[jobID]
	if !ok {
		return []Entry{}, nil
	}

	entries := make([]Entry, 0, len(job.entries))
	for id, e := range job.entries {
		if m.expired(e) {
			m.remove(jobID, id)
			continue
		}
		entries = append(entries, e)
	}
	sortEntries(entries)
	return entries, nil
}

func (m *Memory) DeleteJob(_ context.Context, jobID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[jobID]
	if !ok {
		return 0, nil
	}
	delete(m.jobs, jobID)

	live := 0
	for _, e := range job.entries {
		if !m.expired(e) {
			live++
		}
	}
	return live, nil
}

func (m *Memory) Close() error { return nil }

func (m *Memory) expired(e Entry) bool {
	return m.ttl > 0 && m.now().Sub(e.StoredAt) >= m.ttl
}

func (m *Memory) remove(jobID, candidateID string) {
	job := m.jobs[jobID]
	delete(job.entries, candidateID)
	if len(job.entries) == 0 {
		delete(m.jobs, jobID)
	}
}

// evict drops the oldest-written jobs beyond the cap, never the one just written.
func (m *Memory) evict(keep string) {
	for m.maxJobs > 0 && len(m.jobs) > m.maxJobs {
		var oldest string
		var oldestAt time.Time
		for id, job := range m.jobs {
			if id == keep {
				continue
			}
			if oldest == "" || job.writtenAt.Before(oldestAt) {
				oldest, oldestAt = id, job.writtenAt
			}
		}
		if oldest == "" {
			return
		}
		delete(m.jobs, oldest)
	}
}
