package app

import (
	"strings"

	"quiz-frontend/internal/domain"
)

// QuestionForm is one editable question. Choice questions keep their
// correct answers in CorrectAnswers; text-input questions keep them as a
// comma-separated TextAnswers string.
type QuestionForm struct {
	Text           string   `yaml:"text"`
	IsTextInput    bool     `yaml:"text_input,omitempty"`
	Options        []string `yaml:"options,omitempty"`
	CorrectAnswers []string `yaml:"correct_answers,omitempty"`
	TextAnswers    string   `yaml:"text_answers,omitempty"`
	ImageURL       string   `yaml:"image_url,omitempty"`
	AudioURL       string   `yaml:"audio_url,omitempty"`
	VideoURL       string   `yaml:"video_url,omitempty"`
}

// QuizForm is the admin editor's working copy of a quiz.
type QuizForm struct {
	Title       string         `yaml:"title"`
	Description string         `yaml:"description,omitempty"`
	Questions   []QuestionForm `yaml:"questions"`
}

func blankQuestion() QuestionForm {
	return QuestionForm{Options: []string{""}}
}

// NewQuizForm returns an empty form with one blank question.
func NewQuizForm() QuizForm {
	return QuizForm{Questions: []QuestionForm{blankQuestion()}}
}

// FormFromQuiz fills a form from a quiz detail response.
func FormFromQuiz(quiz domain.Quiz) QuizForm {
	form := QuizForm{Title: quiz.Title, Description: quiz.Description}
	for _, q := range quiz.Questions {
		qf := QuestionForm{
			Text:        q.Text,
			IsTextInput: q.IsTextInput,
			Options:     append([]string(nil), q.Options...),
			ImageURL:    q.ImageURL,
			AudioURL:    q.AudioURL,
			VideoURL:    q.VideoURL,
		}
		if len(qf.Options) == 0 {
			qf.Options = []string{""}
		}
		if q.IsTextInput {
			qf.TextAnswers = strings.Join(q.CorrectAnswers, ", ")
		} else {
			qf.CorrectAnswers = append([]string(nil), q.CorrectAnswers...)
		}
		form.Questions = append(form.Questions, qf)
	}
	return form
}

// Validate enforces a title and non-empty question text.
func (f QuizForm) Validate() error {
	if strings.TrimSpace(f.Title) == "" {
		return domain.ErrTitleRequired
	}
	for _, q := range f.Questions {
		if strings.TrimSpace(q.Text) == "" {
			return domain.ErrQuestionTextRequired
		}
	}
	return nil
}

// Input converts the form into the create/update payload. Text answers are
// split on commas and trimmed, nothing else: duplicates and case survive.
func (f QuizForm) Input() domain.QuizInput {
	input := domain.QuizInput{
		Title:       f.Title,
		Description: f.Description,
		Questions:   make([]domain.QuestionInput, 0, len(f.Questions)),
	}
	for _, q := range f.Questions {
		qi := domain.QuestionInput{
			QuestionText: q.Text,
			IsTextInput:  q.IsTextInput,
			ImageURL:     q.ImageURL,
			AudioURL:     q.AudioURL,
			VideoURL:     q.VideoURL,
		}
		if q.IsTextInput {
			qi.CorrectAnswers = splitTextAnswers(q.TextAnswers)
		} else {
			qi.Options = nonEmpty(q.Options)
			qi.CorrectAnswers = nonEmpty(q.CorrectAnswers)
		}
		input.Questions = append(input.Questions, qi)
	}
	return input
}

func splitTextAnswers(raw string) []string {
	if raw == "" {
		return []string{}
	}
	parts := strings.Split(raw, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
