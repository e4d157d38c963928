package pipeline

import (
	"testing"

	"github.com/gracetownland/OER-AI/internal/book"
	"github.com/gracetownland/OER-AI/internal/extract"
)

func TestChapterChunkMetadataCarriesFullMediaRecord(t *testing.T) {
	chapter := &book.Chapter{
		URL:    "https://open.example.org/chap/3",
		Title:  "Cell Structure",
		Number: 3,
		Media: extract.MediaRecord{
			Images: []extract.ImageRecord{{Src: "/cell.png", Alt: "A cell", Caption: "Figure 3.1"}},
			Links:  []extract.LinkRecord{{Href: "/glossary.pdf", Text: "Glossary"}},
		},
	}
	chapter.MediaCounts = chapter.Media.Counts()

	meta := chapterChunkMetadata(chapter, "books/bio-101/chapter_003.txt", "bio-101")

	media, ok := meta["media"].(extract.MediaRecord)
	if !ok {
		t.Fatalf("media metadata = %T, want extract.MediaRecord", meta["media"])
	}
	if len(media.Images) != 1 || media.Images[0].Src != "/cell.png" || media.Images[0].Caption != "Figure 3.1" {
		t.Fatalf("media.Images = %+v, want the chapter's image record", media.Images)
	}
	if len(media.Links) != 1 || media.Links[0].Href != "/glossary.pdf" {
		t.Fatalf("media.Links = %+v, want the chapter's link record", media.Links)
	}

	want := map[string]any{
		"source":         "https://open.example.org/chap/3",
		"source_title":   "Cell Structure",
		"chapter_number": 3,
		"storage_key":    "books/bio-101/chapter_003.txt",
		"section_id":     "bio-101",
	}
	for key, v := range want {
		if meta[key] != v {
			t.Errorf("meta[%q] = %v, want %v", key, meta[key], v)
		}
	}
}
