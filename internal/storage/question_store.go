package storage

import (
	"context"

	"github.com/jtdaniels/QA3/internal/quiz"
)

type QuestionRow struct {
	ID        int64  `json:"id"`
	Category  string `json:"category"`
	Text      string `json:"text"`
	OptionA   string `json:"optionA"`
	OptionB   string `json:"optionB"`
	OptionC   string `json:"optionC"`
	OptionD   string `json:"optionD"`
	Correct   string `json:"correctAnswer"`
	CreatedAt string `json:"createdAt"`
}

// Question converts a stored row into the domain shape handed to the
// quiz runner, which hides the correct answer from the taker.
func (r QuestionRow) Question() quiz.Question {
	return quiz.Question{
		ID:       r.ID,
		Category: r.Category,
		Text:     r.Text,
		OptionA:  r.OptionA,
		OptionB:  r.OptionB,
		OptionC:  r.OptionC,
		OptionD:  r.OptionD,
		Correct:  r.Correct,
	}
}

type QuestionInput struct {
	Category string `json:"category"`
	Text     string `json:"text"`
	OptionA  string `json:"optionA"`
	OptionB  string `json:"optionB"`
	OptionC  string `json:"optionC"`
	OptionD  string `json:"optionD"`
	Correct  string `json:"correctAnswer"`
}

type QuestionStore interface {
	ListCategories(ctx context.Context) ([]string, error)
	CreateQuestion(ctx context.Context, in QuestionInput) (QuestionRow, error)

	// ListQuestions returns every question, or only the given category's
	// when category is non-empty.
	ListQuestions(ctx context.Context, category string) ([]QuestionRow, error)

	UpdateQuestion(ctx context.Context, id int64, in QuestionInput) (QuestionRow, error)
	DeleteQuestion(ctx context.Context, id int64) error
}

type CredentialStore interface {
	GetAdminDigest(ctx context.Context) (string, error)
	UpdateAdminDigest(ctx context.Context, digest string) error
}
