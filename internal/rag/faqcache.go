package rag

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// faqSimilarityThreshold is the minimum cosine similarity for a cached
// answer to be reused for a new question.
const faqSimilarityThreshold = 0.85

// FAQCache stores previously answered questions with their embeddings so
// near-identical questions skip the LLM entirely.
type FAQCache struct {
	pool *pgxpool.Pool
	dims int
}

// FAQHit is a cache lookup result.
type FAQHit struct {
	Question   string
	Answer     string
	Similarity float64
}

func NewFAQCache(pool *pgxpool.Pool, dims int) *FAQCache {
	if dims <= 0 {
		dims = 1536
	}
	return &FAQCache{pool: pool, dims: dims}
}

// EnsureSchema creates the cache table if needed. Safe on every startup.
func (c *FAQCache) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS faq_cache (
			id BIGSERIAL PRIMARY KEY,
			collection TEXT NOT NULL,
			question TEXT NOT NULL,
			answer TEXT NOT NULL,
			embedding vector(%d) NOT NULL,
			hit_count INT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`, c.dims),
		`CREATE INDEX IF NOT EXISTS faq_cache_collection_idx ON faq_cache (collection)`,
	}
	for _, stmt := range stmts {
		if _, err := c.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure faq schema: %w", err)
		}
	}
	return nil
}

// Lookup returns the closest cached answer for the question embedding when
// its similarity clears the threshold, and nil otherwise.
func (c *FAQCache) Lookup(ctx context.Context, collection string, queryVec []float32) (*FAQHit, error) {
	row := c.pool.QueryRow(ctx,
		`SELECT id, question, answer, 1 - (embedding <=> $2::vector) AS similarity
		 FROM faq_cache
		 WHERE collection = $1
		 ORDER BY embedding <=> $2::vector
		 LIMIT 1`,
		collection, faqVectorLiteral(queryVec),
	)

	var (
		id         int64
		question   string
		answer     string
		similarity float64
	)
	if err := row.Scan(&id, &question, &answer, &similarity); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("faq lookup: %w", err)
	}

	if similarity < faqSimilarityThreshold {
		return nil, nil
	}

	// Hit counting is best effort.
	_, _ = c.pool.Exec(ctx, `UPDATE faq_cache SET hit_count = hit_count + 1 WHERE id = $1`, id)

	return &FAQHit{
		Question:   question,
		Answer:     answer,
		Similarity: similarity,
	}, nil
}

// Store caches a fresh question/answer pair with its question embedding.
func (c *FAQCache) Store(ctx context.Context, collection, question, answer string, queryVec []float32) error {
	_, err := c.pool.Exec(ctx,
		`INSERT INTO faq_cache (collection, question, answer, embedding) VALUES ($1, $2, $3, $4::vector)`,
		collection, question, answer, faqVectorLiteral(queryVec),
	)
	if err != nil {
		return fmt.Errorf("faq store: %w", err)
	}
	return nil
}

func faqVectorLiteral(v []float32) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, f := range v {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(float64(f), 'g', -1, 32))
	}
	b.WriteByte(']')
	return b.String()
}
