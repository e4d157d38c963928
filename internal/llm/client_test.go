package llm

import (
	"strings"
	"testing"
)

func TestStripCodeBlock(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"bare fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"no fence", `{"a": 1}`, `{"a": 1}`},
		{"surrounding whitespace", "  ```json\n{}\n```  ", "{}"},
		{"unclosed fence left alone", "```json\n{\"a\": 1}", "```json\n{\"a\": 1}"},
	}
	for _, tc := range cases {
		if got := StripCodeBlock(tc.in); got != tc.want {
			t.Errorf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestRetryableErrorTruncatesMessage(t *testing.T) {
	err := &RetryableError{StatusCode: 503, Message: strings.Repeat("x", 500)}
	msg := err.Error()
	if !strings.Contains(msg, "status 503") {
		t.Errorf("missing status in %q", msg)
	}
	if len(msg) > 300 {
		t.Errorf("message not truncated, %d bytes", len(msg))
	}
	if !strings.HasSuffix(msg, "...") {
		t.Errorf("truncated message should end with ellipsis: %q", msg)
	}
}
