package pipeline

import (
	"testing"
	"time"
)

func TestJob_StateTransitions(t *testing.T) {
	job := &Job{
		ID:        "test-1",
		Status:    StatusQueued,
		Phase:     "queued",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	transitions := []struct {
		status JobStatus
		phase  string
	}{
		{StatusFetching, "fetching book page"},
		{StatusExtracting, "extracting chapters"},
		{StatusStoring, "archiving text"},
		{StatusEmbedding, "embedding chunks"},
		{StatusCompleted, "done"},
	}

	for _, tr := range transitions {
		before := job.UpdatedAt
		// Small sleep to ensure time difference is detectable.
		time.Sleep(time.Millisecond)
		job.SetStatus(tr.status, tr.phase)

		if job.Status != tr.status {
			t.Errorf("expected status %q, got %q", tr.status, job.Status)
		}
		if job.Phase != tr.phase {
			t.Errorf("expected phase %q, got %q", tr.phase, job.Phase)
		}
		if !job.UpdatedAt.After(before) {
			t.Errorf("expected UpdatedAt to advance after SetStatus(%q)", tr.status)
		}
	}
}

func TestJob_SetStatusFailed(t *testing.T) {
	job := &Job{
		ID:        "test-fail",
		Status:    StatusExtracting,
		UpdatedAt: time.Now(),
	}
	job.SetStatus(StatusFailed, "fetch error")
	if job.Status != StatusFailed {
		t.Errorf("expected status %q, got %q", StatusFailed, job.Status)
	}
}

func TestJob_AddError(t *testing.T) {
	job := &Job{ID: "err-test", UpdatedAt: time.Now()}
	job.AddError("chapter 3 failed")
	job.AddError("chapter 7 failed")

	snap := job.Snapshot()
	if len(snap.Progress.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(snap.Progress.Errors))
	}
	if snap.Progress.Errors[0] != "chapter 3 failed" {
		t.Errorf("expected first error %q, got %q", "chapter 3 failed", snap.Progress.Errors[0])
	}
}

func TestJob_IncrChaptersProcessed(t *testing.T) {
	job := &Job{ID: "incr-test", UpdatedAt: time.Now()}
	job.IncrChaptersProcessed()
	job.IncrChaptersProcessed()
	job.IncrChaptersProcessed()

	snap := job.Snapshot()
	if snap.Progress.ChaptersProcessed != 3 {
		t.Errorf("expected 3 chapters processed, got %d", snap.Progress.ChaptersProcessed)
	}
}

func TestJob_AddChunksEmbedded(t *testing.T) {
	job := &Job{ID: "chunks-test", UpdatedAt: time.Now()}
	job.AddChunksEmbedded(5)
	job.AddChunksEmbedded(3)

	snap := job.Snapshot()
	if snap.Progress.ChunksEmbedded != 8 {
		t.Errorf("expected 8 embedded chunks, got %d", snap.Progress.ChunksEmbedded)
	}
}

func TestJob_SetTotalChapters(t *testing.T) {
	job := &Job{ID: "total-test", UpdatedAt: time.Now()}
	job.SetTotalChapters(42)

	snap := job.Snapshot()
	if snap.Progress.TotalChapters != 42 {
		t.Errorf("expected 42 total chapters, got %d", snap.Progress.TotalChapters)
	}
}

func TestJob_SetTitleKeepsExisting(t *testing.T) {
	job := &Job{ID: "title-test", Title: "Original", UpdatedAt: time.Now()}
	job.SetTitle("")
	if job.Title != "Original" {
		t.Errorf("expected empty SetTitle to keep %q, got %q", "Original", job.Title)
	}
	job.SetTitle("Discovered Title")
	if job.Title != "Discovered Title" {
		t.Errorf("expected title to update, got %q", job.Title)
	}
}

func TestJob_SnapshotErrorsNotNil(t *testing.T) {
	// Snapshot should always return non-nil errors slice.
	job := &Job{ID: "snap-test", UpdatedAt: time.Now()}
	snap := job.Snapshot()
	if snap.Progress.Errors == nil {
		t.Error("expected non-nil errors slice in snapshot")
	}
	if len(snap.Progress.Errors) != 0 {
		t.Errorf("expected empty errors, got %d", len(snap.Progress.Errors))
	}
}

func TestJobStore_PutGet(t *testing.T) {
	store := NewJobStore(time.Hour)
	job := &Job{ID: "store-1", UpdatedAt: time.Now()}
	store.Put(job)

	got := store.Get("store-1")
	if got == nil {
		t.Fatal("expected to get job back")
	}
	if got.ID != "store-1" {
		t.Errorf("expected ID %q, got %q", "store-1", got.ID)
	}
}

func TestJobStore_GetMissing(t *testing.T) {
	store := NewJobStore(time.Hour)
	if store.Get("nonexistent") != nil {
		t.Error("expected nil for missing job")
	}
}

func TestJobStore_TTLCleanup(t *testing.T) {
	store := NewJobStore(50 * time.Millisecond)

	expired := &Job{ID: "old", UpdatedAt: time.Now()}
	store.Put(expired)

	// Wait for the TTL to pass.
	time.Sleep(100 * time.Millisecond)

	// Add a fresh job.
	fresh := &Job{ID: "new", UpdatedAt: time.Now()}
	store.Put(fresh)

	store.Cleanup()

	if store.Get("old") != nil {
		t.Error("expected expired job to be cleaned up")
	}
	if store.Get("new") == nil {
		t.Error("expected fresh job to survive cleanup")
	}
}

func TestJobStore_CleanupEmpty(t *testing.T) {
	store := NewJobStore(time.Hour)
	// Should not panic on empty store.
	store.Cleanup()
}

func TestNewJobDistinctIDs(t *testing.T) {
	a := NewJob("https://example.org/book", "")
	b := NewJob("https://example.org/book", "")
	if a.ID == b.ID {
		t.Error("expected distinct job IDs")
	}
	if a.BookID == b.BookID {
		t.Error("expected distinct book IDs")
	}
	if a.Status != StatusQueued {
		t.Errorf("expected queued status, got %q", a.Status)
	}
	if len(a.ID) != 26 {
		t.Errorf("expected 26-char ULID, got %d chars", len(a.ID))
	}
}
