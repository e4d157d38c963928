package pipeline

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/gracetownland/OER-AI/internal/llm"
)

func TestIsRetryable(t *testing.T) {
	retryable := &llm.RetryableError{StatusCode: 429, Message: "rate limited"}
	if !IsRetryable(retryable) {
		t.Error("bare retryable error not detected")
	}
	if !IsRetryable(fmt.Errorf("embed batch: %w", retryable)) {
		t.Error("wrapped retryable error not detected")
	}
	if IsRetryable(errors.New("permanent failure")) {
		t.Error("plain error reported as retryable")
	}
	if IsRetryable(nil) {
		t.Error("nil error reported as retryable")
	}
}

func TestBackoff(t *testing.T) {
	for attempt := 0; attempt < 12; attempt++ {
		d := Backoff(attempt)
		base := time.Duration(1<<uint(attempt)) * time.Second
		if base > 30*time.Second {
			base = 30 * time.Second
		}
		if d < base || d > base+base/2 {
			t.Errorf("attempt %d: backoff %v outside [%v, %v]", attempt, d, base, base+base/2)
		}
	}
}
