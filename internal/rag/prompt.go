package rag

import (
	"strconv"
	"strings"
)

const chatSystemPrompt = `You are a study assistant for an open textbook. Answer the student's question using only the provided textbook excerpts. If the excerpts do not contain the answer, say so plainly instead of guessing. Keep answers concise and cite the chapter when the excerpt metadata names one.`

// refusalMessage is returned verbatim when the guardrail blocks input.
const refusalMessage = "I can't help with that request. Please ask a question about the textbook material."

// limitMessage is returned when the rolling token budget is exhausted.
const limitMessage = "The assistant has reached its usage limit for now. Please try again later."

// BuildPrompt assembles the user prompt from retrieved excerpts, prior
// turns, and the question, within an estimated token budget. Excerpts and
// the question are never trimmed; history is dropped oldest-first until
// the estimate fits.
func BuildPrompt(question string, excerpts []string, history []Turn, budgetTokens int) string {
	var ctxBlock strings.Builder
	ctxBlock.WriteString("Textbook excerpts:\n\n")
	for i, ex := range excerpts {
		ctxBlock.WriteString("[")
		ctxBlock.WriteString(strconv.Itoa(i + 1))
		ctxBlock.WriteString("]\n")
		ctxBlock.WriteString(strings.TrimSpace(ex))
		ctxBlock.WriteString("\n\n")
	}

	fixed := ctxBlock.String() + "Question: " + question
	fixedTokens := EstimateTokens(chatSystemPrompt) + EstimateTokens(fixed)

	kept := history
	for len(kept) > 0 {
		total := fixedTokens
		for _, t := range kept {
			total += EstimateTokens(t.Content) + 4
		}
		if budgetTokens <= 0 || total <= budgetTokens {
			break
		}
		kept = kept[1:]
	}

	var b strings.Builder
	b.WriteString(ctxBlock.String())
	if len(kept) > 0 {
		b.WriteString("Conversation so far:\n")
		for _, t := range kept {
			b.WriteString(t.Role)
			b.WriteString(": ")
			b.WriteString(t.Content)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	b.WriteString("Question: ")
	b.WriteString(question)
	return b.String()
}
