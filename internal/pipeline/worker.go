package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gracetownland/OER-AI/internal/blobstore"
	"github.com/gracetownland/OER-AI/internal/book"
	"github.com/gracetownland/OER-AI/internal/chunk"
	"github.com/gracetownland/OER-AI/internal/embedding"
	"github.com/gracetownland/OER-AI/internal/extract"
	"github.com/gracetownland/OER-AI/internal/mediaproc"
	"github.com/gracetownland/OER-AI/internal/vectorstore"
)

// Worker ingests a single book: TOC discovery, per-chapter extraction,
// raw-text archival, chunking, and embedding.
type Worker struct {
	fetcher  *book.Fetcher
	chapters *book.Pipeline
	blobs    *blobstore.Client
	embedder *embedding.Client
	store    *vectorstore.Store
	media    *mediaproc.Processor
	splitter *chunk.Splitter
	log      *slog.Logger

	minChunkChars      int
	maxConcurrentEmbed int
	processMedia       bool
}

type WorkerConfig struct {
	ChunkSize          int
	ChunkOverlap       int
	MinChunkChars      int
	MaxConcurrentEmbed int
	ProcessMediaItems  bool
}

func NewWorker(
	fetcher *book.Fetcher,
	blobs *blobstore.Client,
	embedder *embedding.Client,
	store *vectorstore.Store,
	media *mediaproc.Processor,
	log *slog.Logger,
	cfg WorkerConfig,
) *Worker {
	minChars := cfg.MinChunkChars
	if minChars <= 0 {
		minChars = 600
	}
	maxEmbed := cfg.MaxConcurrentEmbed
	if maxEmbed <= 0 {
		maxEmbed = 4
	}
	return &Worker{
		fetcher:            fetcher,
		chapters:           book.NewPipeline(fetcher),
		blobs:              blobs,
		embedder:           embedder,
		store:              store,
		media:              media,
		splitter:           chunk.NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap),
		log:                log,
		minChunkChars:      minChars,
		maxConcurrentEmbed: maxEmbed,
		processMedia:       cfg.ProcessMediaItems,
	}
}

// Process runs the full ingest pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "book_id", job.BookID)

	// Phase 1: Fetch the book landing page.
	job.SetStatus(StatusFetching, "fetching")
	doc, err := w.fetcher.FetchDocument(ctx, job.URL)
	if err != nil {
		log.Error("book page fetch failed", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "fetching")
		return
	}

	info := book.ExtractInfo(doc)
	toc := book.ExtractTOC(doc)
	if len(toc) == 0 {
		log.Error("no table of contents found")
		job.AddError("no table of contents found")
		job.SetStatus(StatusFailed, "fetching")
		return
	}
	job.SetTotalChapters(len(toc))
	if job.Title == "" {
		job.SetTitle(info.Fields["Book Title"])
	}
	log.Info("book page fetched", "chapters", len(toc))

	// A re-ingest replaces the whole collection.
	if err := w.store.DeleteCollection(ctx, job.BookID); err != nil {
		log.Warn("collection reset failed, proceeding", "error", err)
	}

	if err := w.archiveBookInfo(ctx, job, info, toc); err != nil {
		log.Warn("book info archive failed", "error", err)
	}

	// Phase 2+3: Per-chapter extraction, archival, and embedding. A
	// failed chapter is logged and skipped; the book continues.
	job.SetStatus(StatusExtracting, "extracting")
	hadErrors := false
	chaptersOK := 0
	for i, entry := range toc {
		if ctx.Err() != nil {
			job.AddError(ctx.Err().Error())
			break
		}
		number := i + 1
		chapter, err := w.chapters.ProcessChapter(ctx, entry.Href, job.URL)
		if err != nil {
			log.Error("chapter failed", "chapter", number, "error", err)
			job.AddError(fmt.Sprintf("chapter %d: %s", number, err))
			hadErrors = true
			continue
		}
		if chapter == nil {
			log.Warn("chapter has no content", "chapter", number, "href", entry.Href)
			job.IncrChaptersProcessed()
			continue
		}
		chapter.Number = number
		if chapter.Title == "Untitled Chapter" && entry.Title != "" {
			chapter.Title = entry.Title
		}

		if err := w.ingestChapter(ctx, job, chapter, log); err != nil {
			log.Error("chapter ingest failed", "chapter", number, "error", err)
			job.AddError(fmt.Sprintf("chapter %d: %s", number, err))
			hadErrors = true
			continue
		}
		chaptersOK++
		job.IncrChaptersProcessed()
	}

	switch {
	case chaptersOK == 0:
		job.SetStatus(StatusFailed, "done")
	case hadErrors:
		job.SetStatus(StatusPartial, "done")
	default:
		job.SetStatus(StatusCompleted, "done")
	}
	log.Info("ingest complete", "chapters_ok", chaptersOK, "errors", hadErrors)
}

// ingestChapter archives the raw text, chunks it, and embeds the chunks.
func (w *Worker) ingestChapter(ctx context.Context, job *Job, chapter *book.Chapter, log *slog.Logger) error {
	// Phase: store raw text.
	job.SetStatus(StatusStoring, "storing")
	storageKey := fmt.Sprintf("books/%s/chapter_%03d.txt", job.BookID, chapter.Number)
	if err := w.blobs.PutText(ctx, storageKey, chapter.Text); err != nil {
		return fmt.Errorf("archive text: %w", err)
	}

	// Phase: chunk and embed.
	job.SetStatus(StatusEmbedding, "embedding")
	reflowed := extract.Reflow(chapter.Text)
	pieces := w.splitter.Split(reflowed)

	chunks := make([]chunk.Chunk, 0, len(pieces))
	for _, p := range pieces {
		chunks = append(chunks, chunk.Chunk{
			Text:     p,
			Metadata: chapterChunkMetadata(chapter, storageKey, job.BookID),
		})
	}
	chunks = chunk.Postprocess(chunks, w.minChunkChars)
	if len(chunks) == 0 {
		return nil
	}

	if err := w.embedAndStore(ctx, job.BookID, chunks); err != nil {
		return err
	}
	job.AddChunksEmbedded(len(chunks))
	log.Info("chapter embedded", "chapter", chapter.Number, "chunks", len(chunks))

	if w.processMedia && w.media != nil {
		w.ingestMediaItems(ctx, job, chapter, log)
	}
	return nil
}

// chapterChunkMetadata is attached to every chunk of a chapter and
// travels into the vector store. The full media record rides along so
// retrieval consumers can surface the chapter's figures, videos, and
// links next to the text.
func chapterChunkMetadata(chapter *book.Chapter, storageKey, bookID string) map[string]any {
	return map[string]any{
		"source":         chapter.URL,
		"source_title":   chapter.Title,
		"chapter_number": chapter.Number,
		"storage_key":    storageKey,
		"media":          chapter.Media,
		"section_id":     bookID,
	}
}

// embedAndStore embeds chunk texts with retry on transient provider
// errors, then upserts them into the collection.
func (w *Worker) embedAndStore(ctx context.Context, collection string, chunks []chunk.Chunk) error {
	texts := make([]string, len(chunks))
	docs := make([]vectorstore.Document, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
		docs[i] = vectorstore.Document{Content: c.Text, Metadata: c.Metadata}
	}

	var vectors [][]float32
	var lastErr error
	for attempt := range MaxRetries {
		vectors, lastErr = w.embedder.Embed(ctx, texts)
		if lastErr == nil || !IsRetryable(lastErr) {
			break
		}
		w.log.Warn("retryable embedding error", "attempt", attempt, "error", lastErr)
		select {
		case <-time.After(Backoff(attempt)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if lastErr != nil {
		return fmt.Errorf("embed chunks: %w", lastErr)
	}

	if err := w.store.AddDocuments(ctx, collection, docs, vectors); err != nil {
		return fmt.Errorf("store chunks: %w", err)
	}
	return nil
}

// ingestMediaItems extracts text from a chapter's downloadable files and
// embeds it alongside the chapter, with bounded concurrency. Best effort
// throughout.
func (w *Worker) ingestMediaItems(ctx context.Context, job *Job, chapter *book.Chapter, log *slog.Logger) {
	var supported []string
	for _, file := range chapter.Media.Files {
		if mediaproc.IsSupported(file.Href) {
			supported = append(supported, book.ResolveURL(chapter.URL, file.Href))
		}
	}
	if len(supported) == 0 {
		return
	}

	type itemResult struct {
		chunks int
		ok     bool
	}
	results := make(chan itemResult, len(supported))
	sem := make(chan struct{}, w.maxConcurrentEmbed)

	for _, itemURL := range supported {
		sem <- struct{}{}
		go func(itemURL string) {
			defer func() { <-sem }()
			n, err := w.ingestMediaItem(ctx, job, chapter, itemURL)
			if err != nil {
				log.Warn("media item failed", "url", itemURL, "error", err)
				results <- itemResult{}
				return
			}
			results <- itemResult{chunks: n, ok: n > 0}
		}(itemURL)
	}

	processed := 0
	for range supported {
		r := <-results
		if r.ok {
			job.AddChunksEmbedded(r.chunks)
			processed++
		}
	}
	if processed > 0 {
		job.AddMediaItems(processed)
		log.Info("media items embedded", "chapter", chapter.Number, "items", processed)
	}
}

// ingestMediaItem processes one file and returns how many chunks it
// contributed.
func (w *Worker) ingestMediaItem(ctx context.Context, job *Job, chapter *book.Chapter, itemURL string) (int, error) {
	text, err := w.media.ProcessItem(ctx, itemURL)
	if err != nil {
		return 0, err
	}
	if strings.TrimSpace(text) == "" {
		return 0, nil
	}

	pieces := w.splitter.Split(text)
	chunks := make([]chunk.Chunk, 0, len(pieces))
	for _, p := range pieces {
		chunks = append(chunks, chunk.Chunk{
			Text: p,
			Metadata: map[string]any{
				"source":         itemURL,
				"source_title":   chapter.Title,
				"chapter_number": chapter.Number,
				"section_id":     job.BookID,
				"media_item":     true,
			},
		})
	}
	chunks = chunk.Postprocess(chunks, w.minChunkChars)
	if len(chunks) == 0 {
		return 0, nil
	}
	if err := w.embedAndStore(ctx, job.BookID, chunks); err != nil {
		return 0, err
	}
	return len(chunks), nil
}

// archiveBookInfo stores the landing-page metadata next to the chapters.
func (w *Worker) archiveBookInfo(ctx context.Context, job *Job, info book.Info, toc []book.TOCEntry) error {
	payload := map[string]any{
		"url":         job.URL,
		"title":       job.Title,
		"description": info.Description,
		"license_url": info.LicenseURL,
		"fields":      info.Fields,
		"toc":         toc,
		"ingested_at": time.Now().Format(time.RFC3339),
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal book info: %w", err)
	}
	key := fmt.Sprintf("books/%s/info.json", job.BookID)
	return w.blobs.PutText(ctx, key, string(data))
}
