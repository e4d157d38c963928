package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gracetownland/OER-AI/internal/blobstore"
	"github.com/gracetownland/OER-AI/internal/book"
	"github.com/gracetownland/OER-AI/internal/config"
	"github.com/gracetownland/OER-AI/internal/embedding"
	"github.com/gracetownland/OER-AI/internal/mediaproc"
	"github.com/gracetownland/OER-AI/internal/vectorstore"
)

// Orchestrator manages the book ingestion pipeline.
type Orchestrator struct {
	jobs     *JobStore
	queue    chan *Job
	fetcher  *book.Fetcher
	blobs    *blobstore.Client
	embedder *embedding.Client
	store    *vectorstore.Store
	media    *mediaproc.Processor
	log      *slog.Logger
	cfg      config.Config

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrchestrator creates the pipeline; Start launches its workers.
func NewOrchestrator(
	cfg config.Config,
	blobs *blobstore.Client,
	embedder *embedding.Client,
	store *vectorstore.Store,
	log *slog.Logger,
) *Orchestrator {
	var media *mediaproc.Processor
	if cfg.ProcessMediaItems {
		media = mediaproc.NewProcessor()
	}
	return &Orchestrator{
		jobs:     NewJobStore(cfg.JobTTL),
		queue:    make(chan *Job, cfg.MaxQueueSize),
		fetcher:  book.NewFetcher(),
		blobs:    blobs,
		embedder: embedder,
		store:    store,
		media:    media,
		log:      log,
		cfg:      cfg,
	}
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for range o.cfg.WorkerCount {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorker(o.fetcher, o.blobs, o.embedder, o.store, o.media, o.log, WorkerConfig{
				ChunkSize:          o.cfg.ChunkSize,
				ChunkOverlap:       o.cfg.ChunkOverlap,
				MinChunkChars:      o.cfg.MinChunkChars,
				MaxConcurrentEmbed: o.cfg.MaxConcurrentEmbed,
				ProcessMediaItems:  o.cfg.ProcessMediaItems,
			})
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

	// Start job store cleanup.
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
				o.jobs.Cleanup()
			}
		}
	}()
}

// Stop gracefully shuts down the pipeline.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	close(o.queue)
	o.wg.Wait()
}

// Submit queues a new ingestion job.
func (o *Orchestrator) Submit(job *Job) error {
	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("job queue is full (%d)", o.cfg.MaxQueueSize)
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// NewJob builds a queued job for a book URL with fresh ULIDs.
func NewJob(bookURL, title string) *Job {
	now := time.Now()
	return &Job{
		ID:        generateULID(),
		BookID:    generateULID(),
		Status:    StatusQueued,
		Phase:     "queued",
		URL:       bookURL,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
