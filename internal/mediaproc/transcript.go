package mediaproc

import (
	"fmt"
	"io"
	"strings"

	"github.com/gracetownland/OER-AI/internal/extract"
)

// extractTranscript handles plain-text transcripts. WebVTT files are
// stripped of their header, cue numbers, and timestamp lines first; the
// remaining text is reflowed into paragraphs.
func extractTranscript(r io.Reader, ext string) (string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read transcript: %w", err)
	}

	text := string(raw)
	if ext == ".vtt" {
		text = stripVTT(text)
	}
	return extract.Reflow(text), nil
}

// stripVTT removes WebVTT markup, keeping only cue text.
func stripVTT(text string) string {
	var kept []string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "WEBVTT"):
			continue
		case strings.HasPrefix(trimmed, "NOTE"):
			continue
		case strings.Contains(trimmed, "-->"):
			continue
		case isCueNumber(trimmed):
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

func isCueNumber(line string) bool {
	if line == "" {
		return false
	}
	for _, r := range line {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
