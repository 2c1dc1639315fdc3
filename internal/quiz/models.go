package quiz

import "strings"

// Category selectors understood by the quiz service in addition to a
// concrete category label.
const (
	SelectorRandom        = "Random Category"
	SelectorComprehensive = "Comprehensive"
)

// Question is a single multiple-choice question. Correct holds the
// uppercase option letter and is never serialized to the quiz taker.
type Question struct {
	ID       int64  `json:"id"`
	Category string `json:"category"`
	Text     string `json:"text"`
	OptionA  string `json:"optionA"`
	OptionB  string `json:"optionB"`
	OptionC  string `json:"optionC"`
	OptionD  string `json:"optionD"`
	Correct  string `json:"-"`
}

// Check reports whether answer names the correct option, ignoring case.
func (q Question) Check(answer string) bool {
	return strings.EqualFold(strings.TrimSpace(answer), q.Correct)
}

// IsAnswerLetter reports whether s is one of the four option letters,
// ignoring case.
func IsAnswerLetter(s string) bool {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "A", "B", "C", "D":
		return true
	}
	return false
}
