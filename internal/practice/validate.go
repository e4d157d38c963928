package practice

import (
	"fmt"
	"strings"
)

// ValidateMCQ enforces the exact quiz shape: question and option counts,
// known option ids, non-empty texts, and a correct answer that names a
// real option.
func ValidateMCQ(set *MCQSet, numQuestions, numOptions int) error {
	if strings.TrimSpace(set.Title) == "" {
		return fmt.Errorf("invalid title")
	}
	if len(set.Questions) != numQuestions {
		return fmt.Errorf("questions must have exactly %d items, got %d", numQuestions, len(set.Questions))
	}
	validIDs := make(map[string]bool, numOptions)
	for _, id := range optionIDs(numOptions) {
		validIDs[id] = true
	}
	for i, q := range set.Questions {
		if strings.TrimSpace(q.ID) == "" {
			return fmt.Errorf("question[%d].id invalid", i)
		}
		if strings.TrimSpace(q.QuestionText) == "" {
			return fmt.Errorf("question[%d].questionText invalid", i)
		}
		if len(q.Options) != numOptions {
			return fmt.Errorf("question[%d].options must have exactly %d items, got %d", i, numOptions, len(q.Options))
		}
		for j, opt := range q.Options {
			if !validIDs[opt.ID] {
				return fmt.Errorf("question[%d].options[%d].id invalid", i, j)
			}
			if strings.TrimSpace(opt.Text) == "" {
				return fmt.Errorf("question[%d].options[%d].text invalid", i, j)
			}
			if strings.TrimSpace(opt.Explanation) == "" {
				return fmt.Errorf("question[%d].options[%d].explanation invalid", i, j)
			}
		}
		if !validIDs[q.CorrectAnswer] {
			return fmt.Errorf("question[%d].correctAnswer invalid", i)
		}
	}
	return nil
}

// ValidateFlashcards enforces the deck shape. Hints may be empty.
func ValidateFlashcards(set *FlashcardSet, numCards int) error {
	if strings.TrimSpace(set.Title) == "" {
		return fmt.Errorf("invalid title")
	}
	if len(set.Cards) != numCards {
		return fmt.Errorf("cards must have exactly %d items, got %d", numCards, len(set.Cards))
	}
	for i, card := range set.Cards {
		if strings.TrimSpace(card.ID) == "" {
			return fmt.Errorf("card[%d].id invalid", i)
		}
		if strings.TrimSpace(card.Front) == "" {
			return fmt.Errorf("card[%d].front invalid", i)
		}
		if strings.TrimSpace(card.Back) == "" {
			return fmt.Errorf("card[%d].back invalid", i)
		}
	}
	return nil
}

// ValidateShortAnswer enforces the short-answer shape, including the
// minimum of three key points per question.
func ValidateShortAnswer(set *ShortAnswerSet, numQuestions int) error {
	if strings.TrimSpace(set.Title) == "" {
		return fmt.Errorf("invalid title")
	}
	if len(set.Questions) != numQuestions {
		return fmt.Errorf("questions must have exactly %d items, got %d", numQuestions, len(set.Questions))
	}
	for i, q := range set.Questions {
		if strings.TrimSpace(q.ID) == "" {
			return fmt.Errorf("question[%d].id invalid", i)
		}
		if strings.TrimSpace(q.QuestionText) == "" {
			return fmt.Errorf("question[%d].questionText invalid", i)
		}
		if strings.TrimSpace(q.SampleAnswer) == "" {
			return fmt.Errorf("question[%d].sampleAnswer invalid", i)
		}
		if len(q.KeyPoints) < 3 {
			return fmt.Errorf("question[%d].keyPoints must have at least 3 items, got %d", i, len(q.KeyPoints))
		}
		for j, kp := range q.KeyPoints {
			if strings.TrimSpace(kp) == "" {
				return fmt.Errorf("question[%d].keyPoints[%d] must be non-empty", i, j)
			}
		}
		if strings.TrimSpace(q.Rubric) == "" {
			return fmt.Errorf("question[%d].rubric invalid", i)
		}
	}
	return nil
}
