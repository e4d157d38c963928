package practice

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/gracetownland/OER-AI/internal/embedding"
	"github.com/gracetownland/OER-AI/internal/llm"
	"github.com/gracetownland/OER-AI/internal/vectorstore"
)

const (
	retrievalK       = 6
	retrievalCharCap = 500

	retrySuffix = "\n\nIMPORTANT: Your previous response was invalid. You MUST return valid JSON only, exactly matching the schema and lengths. No extra commentary."

	generatorSystemPrompt = "You are an assistant that generates practice study materials in strict JSON. Output ONLY valid JSON."
)

// Request describes the material to generate. Counts outside their valid
// ranges are clamped, not rejected.
type Request struct {
	Topic        string `json:"topic"`
	MaterialType string `json:"material_type"`
	Difficulty   string `json:"difficulty"`
	NumQuestions int    `json:"num_questions"`
	NumOptions   int    `json:"num_options"`
	NumCards     int    `json:"num_cards"`
	CardType     string `json:"card_type"`
}

func (r *Request) normalize() {
	r.Topic = strings.TrimSpace(r.Topic)
	r.MaterialType = strings.ToLower(strings.TrimSpace(r.MaterialType))
	if r.MaterialType == "" {
		r.MaterialType = "mcq"
	}
	r.Difficulty = strings.ToLower(strings.TrimSpace(r.Difficulty))
	if r.Difficulty == "" {
		r.Difficulty = "intermediate"
	}
	if r.NumQuestions == 0 {
		r.NumQuestions = 5
	}
	r.NumQuestions = clamp(r.NumQuestions, 1, 20)
	if r.NumOptions == 0 {
		r.NumOptions = 4
	}
	r.NumOptions = clamp(r.NumOptions, 2, 6)
	if r.NumCards == 0 {
		r.NumCards = 10
	}
	r.NumCards = clamp(r.NumCards, 1, 30)
	if r.CardType == "" {
		r.CardType = "definition"
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Generator produces practice materials from a textbook collection.
type Generator struct {
	llm      *llm.Client
	embedder *embedding.Client
	store    *vectorstore.Store
	logger   *slog.Logger
}

func NewGenerator(llmClient *llm.Client, embedder *embedding.Client, store *vectorstore.Store, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		llm:      llmClient,
		embedder: embedder,
		store:    store,
		logger:   logger,
	}
}

// Generate retrieves topic context and produces the requested material.
// The result is one of *MCQSet, *FlashcardSet, or *ShortAnswerSet.
func (g *Generator) Generate(ctx context.Context, collection string, req Request) (any, error) {
	req.normalize()
	if req.Topic == "" {
		return nil, fmt.Errorf("topic is required")
	}

	snippets, err := g.retrieveSnippets(ctx, collection, req.Topic)
	if err != nil {
		return nil, err
	}
	if len(snippets) == 0 {
		return nil, fmt.Errorf("no embeddings found for collection %s", collection)
	}

	switch req.MaterialType {
	case "mcq":
		return g.generateMCQ(ctx, req, snippets)
	case "flashcard":
		return g.generateFlashcards(ctx, req, snippets)
	case "short_answer":
		return g.generateShortAnswer(ctx, req, snippets)
	default:
		return nil, fmt.Errorf("unsupported material_type %q", req.MaterialType)
	}
}

func (g *Generator) retrieveSnippets(ctx context.Context, collection, topic string) ([]string, error) {
	queryVec, err := g.embedder.EmbedQuery(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("embed topic: %w", err)
	}
	results, err := g.store.SimilaritySearch(ctx, collection, queryVec, retrievalK)
	if err != nil {
		return nil, fmt.Errorf("retrieve context: %w", err)
	}
	snippets := make([]string, 0, len(results))
	for _, r := range results {
		s := strings.TrimSpace(r.Content)
		if len(s) > retrievalCharCap {
			s = s[:retrievalCharCap]
		}
		snippets = append(snippets, s)
	}
	return snippets, nil
}

func (g *Generator) generateMCQ(ctx context.Context, req Request, snippets []string) (*MCQSet, error) {
	prompt := BuildMCQPrompt(req.Topic, req.Difficulty, req.NumQuestions, req.NumOptions, snippets)
	var set MCQSet
	err := g.generateValidated(ctx, prompt, &set, func() error {
		return ValidateMCQ(&set, req.NumQuestions, req.NumOptions)
	})
	if err != nil {
		return nil, err
	}
	return &set, nil
}

func (g *Generator) generateFlashcards(ctx context.Context, req Request, snippets []string) (*FlashcardSet, error) {
	prompt := BuildFlashcardPrompt(req.Topic, req.Difficulty, req.NumCards, req.CardType, snippets)
	var set FlashcardSet
	err := g.generateValidated(ctx, prompt, &set, func() error {
		return ValidateFlashcards(&set, req.NumCards)
	})
	if err != nil {
		return nil, err
	}
	return &set, nil
}

func (g *Generator) generateShortAnswer(ctx context.Context, req Request, snippets []string) (*ShortAnswerSet, error) {
	prompt := BuildShortAnswerPrompt(req.Topic, req.Difficulty, req.NumQuestions, snippets)
	var set ShortAnswerSet
	err := g.generateValidated(ctx, prompt, &set, func() error {
		return ValidateShortAnswer(&set, req.NumQuestions)
	})
	if err != nil {
		return nil, err
	}
	return &set, nil
}

// generateValidated runs one generation attempt and, if decoding or shape
// validation fails, retries once with a stricter prompt before giving up.
func (g *Generator) generateValidated(ctx context.Context, prompt string, out any, validate func() error) error {
	firstErr := g.attempt(ctx, prompt, out, validate)
	if firstErr == nil {
		return nil
	}
	g.logger.Warn("practice material attempt failed, retrying", "error", firstErr)

	// The failed attempt may have partially populated out; the retry must
	// be validated on its own response alone.
	reflect.ValueOf(out).Elem().SetZero()

	secondErr := g.attempt(ctx, prompt+retrySuffix, out, validate)
	if secondErr == nil {
		return nil
	}
	return fmt.Errorf("generation failed after two attempts: %v; retry: %w", firstErr, secondErr)
}

func (g *Generator) attempt(ctx context.Context, prompt string, out any, validate func() error) error {
	text, err := g.llm.Generate(ctx, generatorSystemPrompt, prompt)
	if err != nil {
		return fmt.Errorf("llm: %w", err)
	}
	raw, err := ExtractJSON(text)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("decode material: %w", err)
	}
	return validate()
}

// ExtractJSON pulls the outermost JSON object out of model output,
// tolerating code fences and surrounding prose.
func ExtractJSON(text string) (string, error) {
	text = llm.StripCodeBlock(text)
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start == -1 || end == -1 || end <= start {
		return "", fmt.Errorf("response did not contain a JSON object")
	}
	return text[start : end+1], nil
}
