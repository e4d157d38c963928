package extract

import (
	"strings"

	"golang.org/x/net/html"
)

// fileExtensions are the link suffixes treated as downloadable files.
var fileExtensions = []string{
	".pdf", ".doc", ".docx", ".xls", ".xlsx",
	".zip", ".rar", ".ppt", ".pptx", ".epub", ".txt",
}

// ImageRecord describes an image found in a content section.
type ImageRecord struct {
	Src     string `json:"src"`
	Alt     string `json:"alt"`
	Href    string `json:"href,omitempty"`
	Caption string `json:"caption,omitempty"`
}

// VideoRecord describes a <video> element and its nested sources.
type VideoRecord struct {
	Src      string   `json:"src"`
	Poster   string   `json:"poster,omitempty"`
	Controls bool     `json:"controls"`
	Sources  []string `json:"sources,omitempty"`
}

// AudioRecord describes an <audio> element and its nested sources.
type AudioRecord struct {
	Src      string   `json:"src"`
	Controls bool     `json:"controls"`
	Sources  []string `json:"sources,omitempty"`
}

// IframeRecord describes embedded iframe content. All fields optional.
type IframeRecord struct {
	Src    string `json:"src"`
	Title  string `json:"title,omitempty"`
	Width  string `json:"width,omitempty"`
	Height string `json:"height,omitempty"`
}

// FileRecord is a hyperlink pointing at a downloadable document.
type FileRecord struct {
	Href     string `json:"href"`
	Text     string `json:"text,omitempty"`
	Title    string `json:"title,omitempty"`
	Download string `json:"download,omitempty"`
	Type     string `json:"type"`
}

// LinkRecord is any hyperlink, regardless of scheme.
type LinkRecord struct {
	Href     string `json:"href"`
	Text     string `json:"text,omitempty"`
	Title    string `json:"title,omitempty"`
	Target   string `json:"target,omitempty"`
	Rel      string `json:"rel,omitempty"`
	Download string `json:"download,omitempty"`
}

// EmbedRecord describes a legacy <embed> element.
type EmbedRecord struct {
	Src  string `json:"src"`
	Type string `json:"type,omitempty"`
}

// MediaRecord groups everything non-textual collected from a section.
// Images deduplicate by src; links deduplicate by href. Files are the
// downloadable subset of links.
type MediaRecord struct {
	Images  []ImageRecord  `json:"images"`
	Videos  []VideoRecord  `json:"videos"`
	Audio   []AudioRecord  `json:"audio"`
	Iframes []IframeRecord `json:"iframes"`
	Files   []FileRecord   `json:"files"`
	Embeds  []EmbedRecord  `json:"embeds"`
	Links   []LinkRecord   `json:"links"`
}

// Counts returns per-category totals, used for chapter metadata.
func (m MediaRecord) Counts() map[string]int {
	return map[string]int{
		"images":  len(m.Images),
		"videos":  len(m.Videos),
		"audio":   len(m.Audio),
		"iframes": len(m.Iframes),
		"files":   len(m.Files),
		"embeds":  len(m.Embeds),
		"links":   len(m.Links),
	}
}

// CollectMedia gathers images, video/audio, iframes, downloadable files,
// embeds and all hyperlinks from the section subtree. It is a read-only
// pass; document order is preserved within each category except where
// deduplication removes later occurrences.
func CollectMedia(section *html.Node) MediaRecord {
	var media MediaRecord
	if section == nil {
		return media
	}

	// Figures first: each contributes one image record even when the
	// nested <img> is missing.
	for _, fig := range elementsByTag(section, "figure") {
		img := findFirst(fig, "img")
		rec := ImageRecord{
			Src: attr(img, "src"),
			Alt: attr(img, "alt"),
		}
		if a := findFirst(fig, "a"); a != nil {
			rec.Href = attr(a, "href")
		}
		if cap := findFirst(fig, "figcaption"); cap != nil {
			rec.Caption = nodeText(cap, " ")
		}
		media.Images = append(media.Images, rec)
	}

	// Standalone images, deduplicated against figure images by src.
	for _, img := range elementsByTag(section, "img") {
		src := imageSrc(img)
		if src == "" || hasImageSrc(media.Images, src) {
			continue
		}
		media.Images = append(media.Images, ImageRecord{
			Src: src,
			Alt: attr(img, "alt"),
		})
	}

	for _, vid := range elementsByTag(section, "video") {
		media.Videos = append(media.Videos, VideoRecord{
			Src:      attr(vid, "src"),
			Poster:   attr(vid, "poster"),
			Controls: hasAttr(vid, "controls"),
			Sources:  sourceSrcs(vid),
		})
	}

	for _, aud := range elementsByTag(section, "audio") {
		media.Audio = append(media.Audio, AudioRecord{
			Src:      attr(aud, "src"),
			Controls: hasAttr(aud, "controls"),
			Sources:  sourceSrcs(aud),
		})
	}

	for _, frame := range elementsByTag(section, "iframe") {
		media.Iframes = append(media.Iframes, IframeRecord{
			Src:    attr(frame, "src"),
			Title:  attr(frame, "title"),
			Width:  attr(frame, "width"),
			Height: attr(frame, "height"),
		})
	}

	seenLinks := make(map[string]bool)
	for _, a := range elementsByTag(section, "a") {
		if !hasAttr(a, "href") {
			continue
		}
		href := strings.TrimSpace(attr(a, "href"))
		text := nodeText(a, " ")
		title := attr(a, "title")
		download := attr(a, "download")

		if ext := fileType(href); ext != "" {
			media.Files = append(media.Files, FileRecord{
				Href:     href,
				Text:     text,
				Title:    title,
				Download: download,
				Type:     ext,
			})
		}

		if !seenLinks[href] {
			seenLinks[href] = true
			media.Links = append(media.Links, LinkRecord{
				Href:     href,
				Text:     text,
				Title:    title,
				Target:   attr(a, "target"),
				Rel:      attr(a, "rel"),
				Download: download,
			})
		}
	}

	for _, emb := range elementsByTag(section, "embed") {
		media.Embeds = append(media.Embeds, EmbedRecord{
			Src:  attr(emb, "src"),
			Type: attr(emb, "type"),
		})
	}

	return media
}

// imageSrc resolves an image source through the lazy-loading fallbacks.
func imageSrc(img *html.Node) string {
	for _, key := range []string{"src", "data-src", "data-original"} {
		if v := attr(img, key); v != "" {
			return v
		}
	}
	return ""
}

func hasImageSrc(images []ImageRecord, src string) bool {
	for _, rec := range images {
		if rec.Src == src {
			return true
		}
	}
	return false
}

func sourceSrcs(n *html.Node) []string {
	var srcs []string
	for _, s := range elementsByTag(n, "source") {
		if v := attr(s, "src"); v != "" {
			srcs = append(srcs, v)
		}
	}
	return srcs
}

// fileType returns the lowercased extension when href points at a known
// downloadable file type, else "".
func fileType(href string) string {
	lower := strings.ToLower(href)
	for _, ext := range fileExtensions {
		if strings.HasSuffix(lower, ext) {
			return strings.TrimPrefix(ext, ".")
		}
	}
	return ""
}
