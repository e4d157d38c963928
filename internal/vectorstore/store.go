// Package vectorstore persists chunk embeddings in Postgres/pgvector and
// serves cosine-similarity retrieval for the chat flow.
package vectorstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Document is one embedded chunk belonging to a collection.
type Document struct {
	Content  string
	Metadata map[string]any
}

// SearchResult is a retrieved chunk with its cosine distance to the query
// (0 is identical, 2 is opposite).
type SearchResult struct {
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata"`
	Distance float64        `json:"distance"`
}

// Store wraps a pgxpool connection to the embeddings table.
type Store struct {
	pool *pgxpool.Pool
	dims int
}

func NewStore(pool *pgxpool.Pool, dims int) *Store {
	if dims <= 0 {
		dims = 1536
	}
	return &Store{pool: pool, dims: dims}
}

// EnsureSchema creates the pgvector extension and the documents table if
// they do not exist yet. Safe to call on every startup.
func (s *Store) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS documents (
			id BIGSERIAL PRIMARY KEY,
			collection TEXT NOT NULL,
			content TEXT NOT NULL,
			metadata JSONB NOT NULL DEFAULT '{}',
			embedding vector(%d) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`, s.dims),
		`CREATE INDEX IF NOT EXISTS documents_collection_idx ON documents (collection)`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// AddDocuments inserts documents with their embeddings into a collection.
// docs and vectors must be the same length and aligned by index.
func (s *Store) AddDocuments(ctx context.Context, collection string, docs []Document, vectors [][]float32) error {
	if len(docs) != len(vectors) {
		return fmt.Errorf("got %d documents but %d vectors", len(docs), len(vectors))
	}
	if len(docs) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for i, doc := range docs {
		meta, err := json.Marshal(doc.Metadata)
		if err != nil {
			return fmt.Errorf("marshal metadata for document %d: %w", i, err)
		}
		batch.Queue(
			`INSERT INTO documents (collection, content, metadata, embedding) VALUES ($1, $2, $3, $4::vector)`,
			collection, doc.Content, meta, vectorLiteral(vectors[i]),
		)
	}

	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()
	for i := 0; i < len(docs); i++ {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("insert document %d: %w", i, err)
		}
	}
	return nil
}

// SimilaritySearch returns the k documents in the collection closest to
// the query vector by cosine distance, nearest first.
func (s *Store) SimilaritySearch(ctx context.Context, collection string, query []float32, k int) ([]SearchResult, error) {
	if k <= 0 {
		k = 4
	}

	rows, err := s.pool.Query(ctx,
		`SELECT content, metadata, embedding <=> $2::vector AS distance
		 FROM documents
		 WHERE collection = $1
		 ORDER BY distance
		 LIMIT $3`,
		collection, vectorLiteral(query), k,
	)
	if err != nil {
		return nil, fmt.Errorf("similarity search: %w", err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var (
			content  string
			metaJSON []byte
			distance float64
		)
		if err := rows.Scan(&content, &metaJSON, &distance); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		meta := make(map[string]any)
		if len(metaJSON) > 0 {
			if err := json.Unmarshal(metaJSON, &meta); err != nil {
				return nil, fmt.Errorf("decode metadata: %w", err)
			}
		}
		results = append(results, SearchResult{
			Content:  content,
			Metadata: meta,
			Distance: distance,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("similarity search rows: %w", err)
	}
	return results, nil
}

// DeleteCollection removes every document in a collection. Used when a
// book is re-ingested.
func (s *Store) DeleteCollection(ctx context.Context, collection string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM documents WHERE collection = $1`, collection); err != nil {
		return fmt.Errorf("delete collection %s: %w", collection, err)
	}
	return nil
}

// CollectionSize reports how many documents a collection holds.
func (s *Store) CollectionSize(ctx context.Context, collection string) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `SELECT count(*) FROM documents WHERE collection = $1`, collection).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count collection %s: %w", collection, err)
	}
	return n, nil
}

// vectorLiteral renders a float32 slice in pgvector's input syntax.
func vectorLiteral(v []float32) string {
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
