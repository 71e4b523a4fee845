package pipeline

import (
	"sort"
	"sync"
	"time"
)

// JobStatus represents the state of a note-generation job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusParsing    JobStatus = "parsing"
	StatusAnalyzing  JobStatus = "analyzing"
	StatusExtracting JobStatus = "extracting_formulas"
	StatusEnriching  JobStatus = "enriching"
	StatusExercises  JobStatus = "generating_exercises"
	StatusAssembling JobStatus = "assembling"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
)

// Progress milestones per phase, as percentages.
const (
	progressQueued     = 0
	progressParsing    = 10
	progressAnalyzing  = 30
	progressExtracting = 50
	progressEnriching  = 70
	progressExercises  = 85
	progressAssembling = 95
	progressDone       = 100
)

// Job tracks the state of a single document's note generation.
type Job struct {
	mu sync.Mutex

	ID       string    `json:"job_id"`
	Filename string    `json:"filename"`
	Status   JobStatus `json:"status"`
	Progress int       `json:"progress"`
	Message  string    `json:"message"`
	NotesID  string    `json:"notes_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	filePath string
	errors   []string
}

// NewJob creates a queued job for a stored upload.
func NewJob(filename, filePath string) *Job {
	now := time.Now()
	return &Job{
		ID:        generateULID(),
		Filename:  filename,
		Status:    StatusQueued,
		Progress:  progressQueued,
		Message:   "waiting for a worker",
		CreatedAt: now,
		UpdatedAt: now,
		filePath:  filePath,
	}
}

// SetStatus updates status, progress and message atomically.
func (j *Job) SetStatus(status JobStatus, progress int, message string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Progress = progress
	j.Message = message
	j.UpdatedAt = time.Now()
}

// SetNotes records the id of the assembled notes and marks the job done.
func (j *Job) SetNotes(notesID string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.NotesID = notesID
	j.Status = StatusCompleted
	j.Progress = progressDone
	j.Message = "notes ready"
	j.UpdatedAt = time.Now()
}

// AddError records a non-fatal processing error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.UpdatedAt = time.Now()
}

// FilePath returns the stored upload path for this job.
func (j *Job) FilePath() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.filePath
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID        string    `json:"job_id"`
	Filename  string    `json:"filename"`
	Status    JobStatus `json:"status"`
	Progress  int       `json:"progress"`
	Message   string    `json:"message"`
	NotesID   string    `json:"notes_id,omitempty"`
	Errors    []string  `json:"errors"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := make([]string, len(j.errors))
	copy(errs, j.errors)
	return JobSnapshot{
		ID:        j.ID,
		Filename:  j.Filename,
		Status:    j.Status,
		Progress:  j.Progress,
		Message:   j.Message,
		NotesID:   j.NotesID,
		Errors:    errs,
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
	}
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

// List returns snapshots of all jobs, newest first.
func (s *JobStore) List() []JobSnapshot {
	s.mu.Lock()
	jobs := make([]*Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		jobs = append(jobs, job)
	}
	s.mu.Unlock()

	snaps := make([]JobSnapshot, 0, len(jobs))
	for _, job := range jobs {
		snaps = append(snaps, job.Snapshot())
	}
	sort.Slice(snaps, func(i, k int) bool {
		return snaps[i].CreatedAt.After(snaps[k].CreatedAt)
	})
	return snaps
}

// Cleanup removes expired jobs and reports how many were evicted.
func (s *JobStore) Cleanup() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	evicted := 0
	for id, job := range s.jobs {
		job.mu.Lock()
		expired := now.Sub(job.UpdatedAt) > s.ttl
		job.mu.Unlock()
		if expired {
			delete(s.jobs, id)
			evicted++
		}
	}
	return evicted
}
