package domain

import (
	"encoding/json"
	"strings"
)

// Answer is a student's response to one question: a single string for
// free-text and single-choice questions, a set of strings for multi-select.
type Answer struct {
	Text    string
	Choices []string
	Multi   bool
}

func (a Answer) MarshalJSON() ([]byte, error) {
	if a.Multi {
		if a.Choices == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(a.Choices)
	}
	return json.Marshal(a.Text)
}

func (a *Answer) UnmarshalJSON(data []byte) error {
	var choices []string
	if err := json.Unmarshal(data, &choices); err == nil {
		*a = Answer{Choices: choices, Multi: true}
		return nil
	}
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return err
	}
	*a = Answer{Text: text}
	return nil
}

// AnswerSet maps question ids to responses. Unanswered questions are absent.
type AnswerSet map[int]Answer

// Set replaces the stored response with a single string (last write wins).
func (s AnswerSet) Set(questionID int, value string) {
	s[questionID] = Answer{Text: value}
}

// Toggle flips membership of the normalized option in the question's
// selection. A previous non-list response counts as an empty selection.
func (s AnswerSet) Toggle(questionID int, option string) {
	value := NormalizeOption(option)
	var current []string
	if prev, ok := s[questionID]; ok && prev.Multi {
		current = prev.Choices
	}

	next := make([]string, 0, len(current)+1)
	found := false
	for _, choice := range current {
		if choice == value {
			found = true
			continue
		}
		next = append(next, choice)
	}
	if !found {
		next = append(next, value)
	}
	s[questionID] = Answer{Choices: next, Multi: true}
}

// Selected reports whether the normalized option is in the question's selection.
func (s AnswerSet) Selected(questionID int, option string) bool {
	prev, ok := s[questionID]
	if !ok || !prev.Multi {
		return false
	}
	value := NormalizeOption(option)
	for _, choice := range prev.Choices {
		if choice == value {
			return true
		}
	}
	return false
}

// Clone returns a deep copy.
func (s AnswerSet) Clone() AnswerSet {
	out := make(AnswerSet, len(s))
	for id, answer := range s {
		if answer.Choices != nil {
			answer.Choices = append([]string(nil), answer.Choices...)
		}
		out[id] = answer
	}
	return out
}

// NormalizeOption strips a "label: value" prefix so option text can be
// compared by value. With several separators the segment between the first
// and second one wins, matching how the backend formats options.
func NormalizeOption(option string) string {
	if strings.Contains(option, ": ") {
		return strings.TrimSpace(strings.Split(option, ": ")[1])
	}
	return strings.TrimSpace(option)
}
