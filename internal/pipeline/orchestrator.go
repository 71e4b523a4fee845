package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ndelvaux/notesmith/internal/config"
	"github.com/ndelvaux/notesmith/internal/enrich"
	"github.com/ndelvaux/notesmith/internal/exercises"
	"github.com/ndelvaux/notesmith/internal/notes"
)

// Orchestrator manages the note-generation pipeline: a bounded job queue,
// a fixed worker pool, and TTL cleanup for jobs and notes.
type Orchestrator struct {
	jobs  *JobStore
	notes *notes.Store
	queue chan *Job
	llm   *enrich.Client
	gen   *exercises.Generator
	log   *slog.Logger
	cfg   config.Config

	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// NewOrchestrator creates the pipeline. Call Start to launch workers.
func NewOrchestrator(cfg config.Config, llm *enrich.Client, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		jobs:  NewJobStore(cfg.JobTTL),
		notes: notes.NewStore(cfg.JobTTL),
		queue: make(chan *Job, cfg.MaxQueueSize),
		llm:   llm,
		gen:   exercises.NewGenerator(llm, log),
		log:   log,
		cfg:   cfg,
	}
}

// Start launches worker goroutines and the cleanup ticker.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for range o.cfg.WorkerCount {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorker(o.llm, o.gen, o.notes, o.log, o.cfg.ChunkTokenBudget)
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					w.Process(workerCtx, job)
				}
			}
		}()
	}

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.Cleanup()
			}
		}
	}()
}

// Stop gracefully shuts down the pipeline. Further Submit calls fail with
// an error instead of racing the queue close.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	o.mu.Lock()
	if !o.closed {
		o.closed = true
		close(o.queue)
	}
	o.mu.Unlock()
	o.wg.Wait()
}

// Submit queues a new job for processing.
func (o *Orchestrator) Submit(job *Job) error {
	o.jobs.Put(job)
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		job.SetStatus(StatusFailed, progressQueued, "shutting down")
		return fmt.Errorf("pipeline is shutting down")
	}
	select {
	case o.queue <- job:
		return nil
	default:
		job.SetStatus(StatusFailed, progressQueued, "queue full")
		return fmt.Errorf("job queue is full (%d)", o.cfg.MaxQueueSize)
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// ListJobs returns snapshots of all tracked jobs, newest first.
func (o *Orchestrator) ListJobs() []JobSnapshot {
	return o.jobs.List()
}

// Cleanup evicts expired jobs and notes and reports how many of each.
func (o *Orchestrator) Cleanup() (jobsEvicted, notesEvicted int) {
	jobsEvicted = o.jobs.Cleanup()
	notesEvicted = o.notes.Cleanup()
	if jobsEvicted > 0 || notesEvicted > 0 {
		o.log.Info("cleanup", "jobs_evicted", jobsEvicted, "notes_evicted", notesEvicted)
	}
	return jobsEvicted, notesEvicted
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// Notes exposes the notes store for API handlers.
func (o *Orchestrator) Notes() *notes.Store {
	return o.notes
}
