// Package practice generates study materials (multiple choice, flashcards,
// short answer) from retrieved textbook context via the LLM.
package practice

// MCQOption is one answer choice with its explanation.
type MCQOption struct {
	ID          string `json:"id"`
	Text        string `json:"text"`
	Explanation string `json:"explanation"`
}

// MCQQuestion is a single multiple-choice question.
type MCQQuestion struct {
	ID            string      `json:"id"`
	QuestionText  string      `json:"questionText"`
	Options       []MCQOption `json:"options"`
	CorrectAnswer string      `json:"correctAnswer"`
}

// MCQSet is a generated quiz.
type MCQSet struct {
	Title     string        `json:"title"`
	Questions []MCQQuestion `json:"questions"`
}

// Flashcard is one front/back card; the hint may be empty.
type Flashcard struct {
	ID    string `json:"id"`
	Front string `json:"front"`
	Back  string `json:"back"`
	Hint  string `json:"hint"`
}

// FlashcardSet is a generated deck.
type FlashcardSet struct {
	Title string      `json:"title"`
	Cards []Flashcard `json:"cards"`
}

// ShortAnswerQuestion is an open-ended question with grading aids.
type ShortAnswerQuestion struct {
	ID             string   `json:"id"`
	QuestionText   string   `json:"questionText"`
	Context        string   `json:"context"`
	SampleAnswer   string   `json:"sampleAnswer"`
	KeyPoints      []string `json:"keyPoints"`
	Rubric         string   `json:"rubric"`
	ExpectedLength float64  `json:"expectedLength,omitempty"`
}

// ShortAnswerSet is a generated short-answer exercise.
type ShortAnswerSet struct {
	Title     string                `json:"title"`
	Questions []ShortAnswerQuestion `json:"questions"`
}
