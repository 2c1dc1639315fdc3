package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/jtdaniels/QA3/internal/quiz"
	"github.com/jtdaniels/QA3/internal/storage"
)

type AdminService interface {
	ListCategories(ctx context.Context) ([]string, error)
	CreateQuestion(ctx context.Context, in storage.QuestionInput) (storage.QuestionRow, error)
	ListQuestions(ctx context.Context, category string) ([]storage.QuestionRow, error)
	UpdateQuestion(ctx context.Context, id int64, in storage.QuestionInput) (storage.QuestionRow, error)
	DeleteQuestion(ctx context.Context, id int64) error
}

type adminService struct {
	qs storage.QuestionStore
}

func NewAdminService(qs storage.QuestionStore) AdminService {
	return &adminService{qs: qs}
}

// normalizeInput trims every field, requires all of them non-empty and
// uppercases the correct answer.
func normalizeInput(in storage.QuestionInput) (storage.QuestionInput, error) {
	in.Category = strings.TrimSpace(in.Category)
	in.Text = strings.TrimSpace(in.Text)
	in.OptionA = strings.TrimSpace(in.OptionA)
	in.OptionB = strings.TrimSpace(in.OptionB)
	in.OptionC = strings.TrimSpace(in.OptionC)
	in.OptionD = strings.TrimSpace(in.OptionD)
	in.Correct = strings.ToUpper(strings.TrimSpace(in.Correct))

	if in.Category == "" || in.Text == "" ||
		in.OptionA == "" || in.OptionB == "" || in.OptionC == "" || in.OptionD == "" {
		return storage.QuestionInput{}, fmt.Errorf("%w: all fields are required", quiz.ErrValidation)
	}
	if !quiz.IsAnswerLetter(in.Correct) {
		return storage.QuestionInput{}, fmt.Errorf("%w: correct answer must be A, B, C or D", quiz.ErrValidation)
	}
	return in, nil
}

func (a *adminService) ListCategories(ctx context.Context) ([]string, error) {
	return a.qs.ListCategories(ctx)
}

func (a *adminService) CreateQuestion(ctx context.Context, in storage.QuestionInput) (storage.QuestionRow, error) {
	in, err := normalizeInput(in)
	if err != nil {
		return storage.QuestionRow{}, err
	}
	return a.qs.CreateQuestion(ctx, in)
}

func (a *adminService) ListQuestions(ctx context.Context, category string) ([]storage.QuestionRow, error) {
	return a.qs.ListQuestions(ctx, strings.TrimSpace(category))
}

func (a *adminService) UpdateQuestion(ctx context.Context, id int64, in storage.QuestionInput) (storage.QuestionRow, error) {
	if id <= 0 {
		return storage.QuestionRow{}, fmt.Errorf("%w: invalid id", quiz.ErrValidation)
	}
	in, err := normalizeInput(in)
	if err != nil {
		return storage.QuestionRow{}, err
	}
	return a.qs.UpdateQuestion(ctx, id, in)
}

func (a *adminService) DeleteQuestion(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid id", quiz.ErrValidation)
	}
	return a.qs.DeleteQuestion(ctx, id)
}
