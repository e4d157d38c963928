// Package h5p assembles quiz questions into an H5P package, a zip of
// h5p.json metadata plus content/content.json.
package h5p

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"strings"

	"github.com/gracetownland/OER-AI/internal/practice"
)

const (
	multiChoiceLibrary = "H5P.MultiChoice 1.16"
	machineName        = "H5P.MultiChoice"
	majorVersion       = 1
	minorVersion       = 16
)

// Answer is one H5P multiple-choice option.
type Answer struct {
	Text            string    `json:"text"`
	Correct         bool      `json:"correct"`
	TipsAndFeedback *Feedback `json:"tipsAndFeedback,omitempty"`
}

// Feedback holds per-answer explanation text.
type Feedback struct {
	ChosenFeedback string `json:"chosenFeedback,omitempty"`
}

// Question is one multiple-choice question in H5P parameter form.
type Question struct {
	Question string   `json:"question"`
	Answers  []Answer `json:"answers"`
}

// Filename derives the download name for a package title.
func Filename(title string) string {
	return strings.ReplaceAll(title, " ", "_") + ".h5p"
}

// BuildPackage zips the questions into an .h5p archive. A single question
// produces a bare MultiChoice activity; several produce a QuestionSet.
func BuildPackage(title string, questions []Question) ([]byte, error) {
	if len(questions) == 0 {
		return nil, fmt.Errorf("no questions provided")
	}

	contentJSON, err := buildContent(title, questions)
	if err != nil {
		return nil, err
	}
	metaJSON, err := buildMetadata(title, len(questions))
	if err != nil {
		return nil, err
	}
	libraryJSON, err := buildLibrary()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	files := []struct {
		name string
		data []byte
	}{
		{"h5p.json", metaJSON},
		{"library.json", libraryJSON},
		{"content/content.json", contentJSON},
	}
	for _, f := range files {
		w, err := zw.Create(f.name)
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", f.name, err)
		}
		if _, err := w.Write(f.data); err != nil {
			return nil, fmt.Errorf("write %s: %w", f.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close archive: %w", err)
	}
	return buf.Bytes(), nil
}

func buildContent(title string, questions []Question) ([]byte, error) {
	if len(questions) == 1 {
		q := questions[0]
		content := map[string]any{
			"question": q.Question,
			"answers":  q.Answers,
			"behaviour": map[string]any{
				"enableRetry":           true,
				"enableSolutionsButton": true,
				"singlePoint":           true,
				"randomAnswers":         true,
			},
			"l10n": map[string]any{
				"checkAnswer":  "Check",
				"showSolution": "Show solution",
				"retry":        "Try again",
			},
		}
		return json.MarshalIndent(content, "", "  ")
	}

	set := make([]map[string]any, 0, len(questions))
	for _, q := range questions {
		set = append(set, map[string]any{
			"library": multiChoiceLibrary,
			"params": map[string]any{
				"question": q.Question,
				"answers":  q.Answers,
			},
		})
	}
	content := map[string]any{
		"introduction": "<p>" + html.EscapeString(title) + "</p>",
		"questions":    set,
		"behaviour": map[string]any{
			"enableRetry":           true,
			"enableSolutionsButton": true,
		},
		"overallFeedback": []map[string]any{
			{"from": 0, "to": 100, "feedback": "Good job!"},
		},
	}
	return json.MarshalIndent(content, "", "  ")
}

func buildMetadata(title string, numQuestions int) ([]byte, error) {
	mainLibrary := machineName
	if numQuestions > 1 {
		mainLibrary = "H5P.QuestionSet"
	}
	meta := map[string]any{
		"title":       title,
		"language":    "en",
		"mainLibrary": mainLibrary,
		"embedTypes":  []string{"div"},
		"license":     "CC BY",
		"authors": []map[string]any{
			{"name": "OER-AI Assistant", "role": "Author"},
		},
		"preloadedDependencies": []map[string]any{
			{
				"machineName":  machineName,
				"majorVersion": majorVersion,
				"minorVersion": minorVersion,
			},
		},
	}
	return json.MarshalIndent(meta, "", "  ")
}

func buildLibrary() ([]byte, error) {
	library := map[string]any{
		"machineName":  machineName,
		"title":        "Multiple Choice",
		"majorVersion": majorVersion,
		"minorVersion": minorVersion,
		"patchVersion": 0,
		"runnable":     1,
	}
	return json.MarshalIndent(library, "", "  ")
}

// FromMCQ converts a generated quiz question into H5P parameter form.
func FromMCQ(q practice.MCQQuestion) Question {
	answers := make([]Answer, 0, len(q.Options))
	for _, opt := range q.Options {
		a := Answer{
			Text:    opt.Text,
			Correct: opt.ID == q.CorrectAnswer,
		}
		if opt.Explanation != "" {
			a.TipsAndFeedback = &Feedback{ChosenFeedback: opt.Explanation}
		}
		answers = append(answers, a)
	}
	return Question{Question: q.QuestionText, Answers: answers}
}
