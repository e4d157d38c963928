package rag

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/redis/go-redis/v9"
)

// tokenWindow is how far back usage counts toward the daily cap.
const tokenWindow = 24 * time.Hour

// EstimateTokens approximates the token count of a text. Four characters
// per token is close enough for budget enforcement.
func EstimateTokens(s string) int {
	n := utf8.RuneCountInString(s)
	if n == 0 {
		return 0
	}
	return n/4 + 1
}

// TokenLimiter enforces a rolling 24-hour token budget backed by a Redis
// sorted set. Each usage record is scored by its unix timestamp so expired
// entries can be pruned with a range delete.
type TokenLimiter struct {
	rdb      *redis.Client
	key      string
	dailyCap int
}

func NewTokenLimiter(rdb *redis.Client, dailyCap int) *TokenLimiter {
	return &TokenLimiter{
		rdb:      rdb,
		key:      "llm:token_usage",
		dailyCap: dailyCap,
	}
}

// Allow reports whether another request fits under the cap. A cap of zero
// or below disables limiting. Redis errors fail open so a cache outage
// does not take chat down with it.
func (l *TokenLimiter) Allow(ctx context.Context) (bool, error) {
	if l.dailyCap <= 0 || l.rdb == nil {
		return true, nil
	}
	used, err := l.Used(ctx)
	if err != nil {
		return true, err
	}
	return used < l.dailyCap, nil
}

// Used sums the tokens recorded inside the rolling window.
func (l *TokenLimiter) Used(ctx context.Context) (int, error) {
	if l.rdb == nil {
		return 0, nil
	}
	now := time.Now()
	cutoff := now.Add(-tokenWindow).Unix()

	if err := l.rdb.ZRemRangeByScore(ctx, l.key, "-inf", strconv.FormatInt(cutoff, 10)).Err(); err != nil {
		return 0, fmt.Errorf("prune token window: %w", err)
	}

	members, err := l.rdb.ZRangeByScore(ctx, l.key, &redis.ZRangeBy{
		Min: strconv.FormatInt(cutoff, 10),
		Max: "+inf",
	}).Result()
	if err != nil {
		return 0, fmt.Errorf("read token window: %w", err)
	}

	total := 0
	for _, m := range members {
		// Member format is "<nanos>:<tokens>"; the nanos part keeps
		// members unique.
		if i := strings.LastIndexByte(m, ':'); i >= 0 {
			if n, err := strconv.Atoi(m[i+1:]); err == nil {
				total += n
			}
		}
	}
	return total, nil
}

// Record adds a usage sample to the window.
func (l *TokenLimiter) Record(ctx context.Context, tokens int) error {
	if l.rdb == nil || tokens <= 0 {
		return nil
	}
	now := time.Now()
	member := fmt.Sprintf("%d:%d", now.UnixNano(), tokens)
	if err := l.rdb.ZAdd(ctx, l.key, redis.Z{
		Score:  float64(now.Unix()),
		Member: member,
	}).Err(); err != nil {
		return fmt.Errorf("record token usage: %w", err)
	}
	// The key only needs to outlive the window.
	l.rdb.Expire(ctx, l.key, tokenWindow+time.Hour)
	return nil
}
