package rag

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	historyTTL        = 2 * time.Hour
	historyMaxEntries = 40
)

// Turn is one message in a chat session, either from the user or the
// assistant.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// History keeps per-session conversation turns in a Redis list so chat
// state survives service restarts.
type History struct {
	rdb *redis.Client
}

func NewHistory(rdb *redis.Client) *History {
	return &History{rdb: rdb}
}

func historyKey(sessionID string) string {
	return "chat:history:" + sessionID
}

// Load returns the session's turns in chronological order. A missing
// session yields an empty history.
func (h *History) Load(ctx context.Context, sessionID string) ([]Turn, error) {
	if h.rdb == nil {
		return nil, nil
	}
	raw, err := h.rdb.LRange(ctx, historyKey(sessionID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("load history %s: %w", sessionID, err)
	}
	turns := make([]Turn, 0, len(raw))
	for _, r := range raw {
		var t Turn
		if err := json.Unmarshal([]byte(r), &t); err != nil {
			// Skip corrupt entries rather than failing the chat.
			continue
		}
		turns = append(turns, t)
	}
	return turns, nil
}

// Append records a user/assistant exchange, trims the list to the most
// recent entries, and refreshes the session TTL.
func (h *History) Append(ctx context.Context, sessionID string, turns ...Turn) error {
	if h.rdb == nil || len(turns) == 0 {
		return nil
	}
	key := historyKey(sessionID)
	values := make([]any, 0, len(turns))
	for _, t := range turns {
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("marshal turn: %w", err)
		}
		values = append(values, b)
	}

	pipe := h.rdb.TxPipeline()
	pipe.RPush(ctx, key, values...)
	pipe.LTrim(ctx, key, -historyMaxEntries, -1)
	pipe.Expire(ctx, key, historyTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("append history %s: %w", sessionID, err)
	}
	return nil
}

// Clear drops a session's history.
func (h *History) Clear(ctx context.Context, sessionID string) error {
	if h.rdb == nil {
		return nil
	}
	if err := h.rdb.Del(ctx, historyKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("clear history %s: %w", sessionID, err)
	}
	return nil
}
