package pipeline

import (
	"sync"
	"time"
)

// JobStatus represents the state of a book ingestion job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusFetching   JobStatus = "fetching"
	StatusExtracting JobStatus = "extracting"
	StatusStoring    JobStatus = "storing"
	StatusEmbedding  JobStatus = "embedding"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
	StatusPartial    JobStatus = "partial"
)

// Job tracks the state of a single book ingestion.
type Job struct {
	mu sync.Mutex

	ID     string `json:"job_id"`
	BookID string `json:"book_id"`

	Status JobStatus `json:"status"`
	Phase  string    `json:"phase"`
	URL    string    `json:"url"`
	Title  string    `json:"title"`

	Progress Progress `json:"progress"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	errors []string
}

// Progress tracks ingestion progress.
type Progress struct {
	TotalChapters     int      `json:"total_chapters"`
	ChaptersProcessed int      `json:"chapters_processed"`
	ChunksEmbedded    int      `json:"chunks_embedded"`
	MediaItems        int      `json:"media_items"`
	Errors            []string `json:"errors"`
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.UpdatedAt) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// SetTitle records the title discovered on the book landing page.
func (j *Job) SetTitle(title string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if title != "" {
		j.Title = title
	}
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// IncrChaptersProcessed atomically increments processed chapters.
func (j *Job) IncrChaptersProcessed() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.ChaptersProcessed++
	j.UpdatedAt = time.Now()
}

// AddChunksEmbedded records embedded chunk counts.
func (j *Job) AddChunksEmbedded(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.ChunksEmbedded += n
	j.UpdatedAt = time.Now()
}

// AddMediaItems records processed media item counts.
func (j *Job) AddMediaItems(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.MediaItems += n
	j.UpdatedAt = time.Now()
}

// SetTotalChapters records total chapter count from the TOC.
func (j *Job) SetTotalChapters(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.TotalChapters = n
	j.UpdatedAt = time.Now()
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID       string    `json:"job_id"`
	BookID   string    `json:"book_id"`
	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	URL      string    `json:"url"`
	Title    string    `json:"title"`
	Progress Progress  `json:"progress"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := j.Progress.Errors
	if errs == nil {
		errs = []string{}
	}
	return JobSnapshot{
		ID:     j.ID,
		BookID: j.BookID,
		Status: j.Status,
		Phase:  j.Phase,
		URL:    j.URL,
		Title:  j.Title,
		Progress: Progress{
			TotalChapters:     j.Progress.TotalChapters,
			ChaptersProcessed: j.Progress.ChaptersProcessed,
			ChunksEmbedded:    j.Progress.ChunksEmbedded,
			MediaItems:        j.Progress.MediaItems,
			Errors:            errs,
		},
	}
}
