package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Guardrail screens user input against a moderation endpoint before it
// reaches the chat flow.
type Guardrail struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// Verdict is the moderation outcome for a piece of user input.
type Verdict struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

func NewGuardrail(baseURL, apiKey string, logger *slog.Logger) *Guardrail {
	if logger == nil {
		logger = slog.Default()
	}
	return &Guardrail{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
	}
}

// Enabled reports whether a moderation endpoint is configured.
func (g *Guardrail) Enabled() bool {
	return g.baseURL != ""
}

type moderationRequest struct {
	Input string `json:"input"`
}

type moderationResponse struct {
	Flagged bool   `json:"flagged"`
	Reason  string `json:"reason"`
}

// Check screens the input. The guardrail fails open: any transport or
// decode error is logged and the input is allowed through, so a flaky
// moderation service never blocks legitimate questions.
func (g *Guardrail) Check(ctx context.Context, input string) Verdict {
	if !g.Enabled() {
		return Verdict{Allowed: true}
	}

	body, err := json.Marshal(moderationRequest{Input: input})
	if err != nil {
		g.logger.Warn("guardrail marshal failed, allowing input", "error", err)
		return Verdict{Allowed: true}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/moderations", bytes.NewReader(body))
	if err != nil {
		g.logger.Warn("guardrail request failed, allowing input", "error", err)
		return Verdict{Allowed: true}
	}
	req.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		g.logger.Warn("guardrail unreachable, allowing input", "error", err)
		return Verdict{Allowed: true}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil || resp.StatusCode != http.StatusOK {
		g.logger.Warn("guardrail error response, allowing input",
			"status", resp.StatusCode, "error", err)
		return Verdict{Allowed: true}
	}

	var modResp moderationResponse
	if err := json.Unmarshal(respBody, &modResp); err != nil {
		g.logger.Warn("guardrail decode failed, allowing input", "error", err)
		return Verdict{Allowed: true}
	}

	if modResp.Flagged {
		reason := modResp.Reason
		if reason == "" {
			reason = "input flagged by content policy"
		}
		return Verdict{Allowed: false, Reason: fmt.Sprintf("blocked: %s", reason)}
	}
	return Verdict{Allowed: true}
}
