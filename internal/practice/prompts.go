package practice

import (
	"fmt"
	"strings"
)

const (
	maxPromptSnippets = 4
	snippetCharCap    = 300
)

// optionIDs returns the allowed option letters, "a" onward.
func optionIDs(numOptions int) []string {
	ids := make([]string, numOptions)
	for i := range ids {
		ids[i] = string(rune('a' + i))
	}
	return ids
}

// trimSnippets caps the context at four snippets of at most 300 characters
// each, cutting at a word boundary.
func trimSnippets(snippets []string) []string {
	if len(snippets) > maxPromptSnippets {
		snippets = snippets[:maxPromptSnippets]
	}
	out := make([]string, 0, len(snippets))
	for _, s := range snippets {
		if len(s) > snippetCharCap {
			cut := s[:snippetCharCap]
			if i := strings.LastIndexByte(cut, ' '); i > 0 {
				cut = cut[:i]
			}
			s = cut + "..."
		}
		out = append(out, s)
	}
	return out
}

func bulletList(snippets []string) string {
	lines := make([]string, 0, len(snippets))
	for _, s := range snippets {
		lines = append(lines, "- "+s)
	}
	return strings.Join(lines, "\n")
}

// BuildMCQPrompt asks for a quiz in a strict JSON shape.
func BuildMCQPrompt(topic, difficulty string, numQuestions, numOptions int, snippets []string) string {
	ids := optionIDs(numOptions)
	context := bulletList(trimSnippets(snippets))

	return fmt.Sprintf(`Generate %d multiple choice questions as valid JSON only.

Topic: %q | Difficulty: %s | Options: %s

Context:
%s

Required JSON format:
{
  "title": "Practice Quiz: %s",
  "questions": [
    {
      "id": "q1",
      "questionText": "Your question here",
      "options": [
        {"id": "a", "text": "Option text", "explanation": "Why this is correct/incorrect"},
        {"id": "b", "text": "Option text", "explanation": "Why this is correct/incorrect"}
      ],
      "correctAnswer": "a"
    }
  ]
}

Requirements:
- Exactly %d questions with %d options each
- One correct answer per question
- Clear explanations for all options
- Valid JSON syntax (proper commas, no trailing commas)
- No markdown, no extra text

Output valid JSON now:`,
		numQuestions, topic, difficulty, strings.Join(ids, ", "), context, topic, numQuestions, numOptions)
}

// BuildFlashcardPrompt asks for a card deck in a strict JSON shape.
func BuildFlashcardPrompt(topic, difficulty string, numCards int, cardType string, snippets []string) string {
	guidance := map[string]string{
		"definition": "key terms and definitions",
		"concept":    "concepts and relationships",
		"example":    "concrete examples and applications",
	}[cardType]
	if guidance == "" {
		guidance = "key information"
	}
	context := bulletList(trimSnippets(snippets))

	return fmt.Sprintf(`Generate %d flashcards as valid JSON only.

Topic: %q | Type: %s (%s) | Difficulty: %s

Context:
%s

Required JSON format:
{
  "title": "Flashcards: %s",
  "cards": [
    {
      "id": "card1",
      "front": "Question or term",
      "back": "Answer or definition",
      "hint": "Optional hint (empty string if not needed)"
    }
  ]
}

Requirements:
- Exactly %d cards
- Front: Clear, concise question/term
- Back: Detailed, accurate answer
- Hint: Optional (use "" if not needed)
- Valid JSON syntax (proper commas, no trailing commas)
- No markdown, no extra text

Output valid JSON now:`,
		numCards, topic, cardType, guidance, difficulty, context, topic, numCards)
}

// BuildShortAnswerPrompt asks for short-answer questions in a strict JSON
// shape, with chunk-labelled context.
func BuildShortAnswerPrompt(topic, difficulty string, numQuestions int, snippets []string) string {
	trimmed := trimSnippets(snippets)
	parts := make([]string, 0, len(trimmed))
	for i, s := range trimmed {
		parts = append(parts, fmt.Sprintf("[Chunk %d]\n%s", i+1, s))
	}
	context := strings.Join(parts, "\n\n")

	return fmt.Sprintf(`Generate %d short answer questions as valid JSON only.

Topic: %q | Difficulty: %s

Context:
%s

Required JSON format:
{
  "title": "Short Answer: %s",
  "questions": [
    {
      "id": "q1",
      "questionText": "Clear question requiring detailed explanation",
      "context": "Optional background (empty string if not needed)",
      "sampleAnswer": "Comprehensive 100-150 word answer with accurate details from textbook",
      "keyPoints": ["Key concept 1", "Key concept 2", "Key concept 3"],
      "rubric": "Grading criteria for complete answer",
      "expectedLength": 100
    }
  ]
}

Requirements:
- Exactly %d questions
- Open-ended questions requiring explanation/analysis
- Sample answers: 100-150 words based on context
- Key points: 3-5 essential concepts
- Valid JSON syntax (proper commas, no trailing commas)
- No markdown, no extra text

Output valid JSON now:`,
		numQuestions, topic, difficulty, context, topic, numQuestions)
}
