// Package rag implements the retrieval-augmented chat flow: guardrail,
// token budget, FAQ cache, retrieval, prompt assembly, and generation.
package rag

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gracetownland/OER-AI/internal/embedding"
	"github.com/gracetownland/OER-AI/internal/llm"
	"github.com/gracetownland/OER-AI/internal/vectorstore"
)

const (
	defaultTopK        = 4
	defaultTokenBudget = 6000
)

// Answer is the outcome of one chat turn.
type Answer struct {
	Text    string `json:"text"`
	Source  string `json:"source"` // "llm", "faq_cache", "blocked", "limited"
	Blocked bool   `json:"blocked,omitempty"`
}

// Service runs the chat flow end to end. All collaborators are required
// except the guardrail, limiter, and FAQ cache, which degrade to no-ops
// when absent.
type Service struct {
	llm       *llm.Client
	guardrail *llm.Guardrail
	embedder  *embedding.Client
	store     *vectorstore.Store
	faq       *FAQCache
	history   *History
	limiter   *TokenLimiter
	logger    *slog.Logger

	topK        int
	tokenBudget int
}

type ServiceOptions struct {
	TopK        int
	TokenBudget int
}

func NewService(
	llmClient *llm.Client,
	guardrail *llm.Guardrail,
	embedder *embedding.Client,
	store *vectorstore.Store,
	faq *FAQCache,
	history *History,
	limiter *TokenLimiter,
	logger *slog.Logger,
	opts ServiceOptions,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	topK := opts.TopK
	if topK <= 0 {
		topK = defaultTopK
	}
	budget := opts.TokenBudget
	if budget <= 0 {
		budget = defaultTokenBudget
	}
	return &Service{
		llm:         llmClient,
		guardrail:   guardrail,
		embedder:    embedder,
		store:       store,
		faq:         faq,
		history:     history,
		limiter:     limiter,
		logger:      logger,
		topK:        topK,
		tokenBudget: budget,
	}
}

// Chat answers one question against a textbook collection.
func (s *Service) Chat(ctx context.Context, sessionID, collection, question string) (*Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("empty question")
	}

	log := s.logger.With("session_id", sessionID, "collection", collection)

	if s.guardrail != nil {
		if verdict := s.guardrail.Check(ctx, question); !verdict.Allowed {
			log.Info("question blocked by guardrail", "reason", verdict.Reason)
			return &Answer{Text: refusalMessage, Source: "blocked", Blocked: true}, nil
		}
	}

	if s.limiter != nil {
		allowed, err := s.limiter.Allow(ctx)
		if err != nil {
			log.Warn("token limiter check failed, allowing request", "error", err)
		}
		if !allowed {
			log.Info("token budget exhausted")
			return &Answer{Text: limitMessage, Source: "limited"}, nil
		}
	}

	queryVec, err := s.embedder.EmbedQuery(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}

	if s.faq != nil {
		hit, err := s.faq.Lookup(ctx, collection, queryVec)
		if err != nil {
			log.Warn("faq cache lookup failed", "error", err)
		} else if hit != nil {
			log.Info("faq cache hit", "similarity", hit.Similarity)
			if err := s.appendHistory(ctx, sessionID, question, hit.Answer); err != nil {
				log.Warn("history append failed", "error", err)
			}
			return &Answer{Text: hit.Answer, Source: "faq_cache"}, nil
		}
	}

	results, err := s.store.SimilaritySearch(ctx, collection, queryVec, s.topK)
	if err != nil {
		return nil, fmt.Errorf("retrieve context: %w", err)
	}

	excerpts := make([]string, 0, len(results))
	for _, r := range results {
		excerpt := r.Content
		if title, ok := r.Metadata["source_title"].(string); ok && title != "" {
			excerpt = "(" + title + ") " + excerpt
		}
		excerpts = append(excerpts, excerpt)
	}

	var history []Turn
	if s.history != nil {
		history, err = s.history.Load(ctx, sessionID)
		if err != nil {
			log.Warn("history load failed", "error", err)
		}
	}

	prompt := BuildPrompt(question, excerpts, history, s.tokenBudget)

	answer, err := s.llm.Generate(ctx, chatSystemPrompt, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}
	answer = strings.TrimSpace(answer)

	if s.guardrail != nil {
		if verdict := s.guardrail.Check(ctx, answer); !verdict.Allowed {
			log.Info("answer blocked by guardrail", "reason", verdict.Reason)
			return &Answer{Text: refusalMessage, Source: "blocked", Blocked: true}, nil
		}
	}

	if s.limiter != nil {
		used := EstimateTokens(chatSystemPrompt) + EstimateTokens(prompt) + EstimateTokens(answer)
		if err := s.limiter.Record(ctx, used); err != nil {
			log.Warn("token usage record failed", "error", err)
		}
	}

	if s.faq != nil {
		if err := s.faq.Store(ctx, collection, question, answer, queryVec); err != nil {
			log.Warn("faq cache store failed", "error", err)
		}
	}

	if err := s.appendHistory(ctx, sessionID, question, answer); err != nil {
		log.Warn("history append failed", "error", err)
	}

	return &Answer{Text: answer, Source: "llm"}, nil
}

func (s *Service) appendHistory(ctx context.Context, sessionID, question, answer string) error {
	if s.history == nil {
		return nil
	}
	return s.history.Append(ctx, sessionID,
		Turn{Role: "user", Content: question},
		Turn{Role: "assistant", Content: answer},
	)
}
