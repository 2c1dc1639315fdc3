package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jtdaniels/QA3/internal/quiz"
	"github.com/jtdaniels/QA3/internal/storage"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(msgType string, payload interface{}) {
	m.Called(msgType, payload)
}

func nopPublisher() *mockPublisher {
	p := new(mockPublisher)
	p.On("Publish", mock.Anything, mock.Anything).Maybe()
	return p
}

func historyRows(n int) []storage.QuestionRow {
	rows := make([]storage.QuestionRow, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, storage.QuestionRow{
			ID:       int64(i + 1),
			Category: "History",
			Text:     "Q?",
			OptionA:  "a", OptionB: "b", OptionC: "c", OptionD: "d",
			Correct: "B",
		})
	}
	return rows
}

func controllerAtCategorySelect(t *testing.T) *quiz.Controller {
	t.Helper()

	ctrl := quiz.NewController(nil)
	_, err := ctrl.Apply(quiz.EventQuizTaker)
	require.NoError(t, err)
	return ctrl
}

func TestQuizService_Categories_AppendsSelectors(t *testing.T) {
	qs := new(mockQuestionStore)
	svc := NewQuizService(qs, quiz.NewController(nil), nopPublisher(), Config{})

	qs.On("ListCategories", mock.Anything).Return([]string{"History", "Science"}, nil).Once()

	cats, err := svc.Categories(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"History", "Science", quiz.SelectorRandom, quiz.SelectorComprehensive}, cats)

	qs.AssertExpectations(t)
}

func TestQuizService_StartQuiz_Comprehensive(t *testing.T) {
	qs := new(mockQuestionStore)
	ctrl := controllerAtCategorySelect(t)
	svc := NewQuizService(qs, ctrl, nopPublisher(), Config{})

	all := append(historyRows(3),
		storage.QuestionRow{ID: 10, Category: "Science", Text: "S?", OptionA: "a", OptionB: "b", OptionC: "c", OptionD: "d", Correct: "A"},
		storage.QuestionRow{ID: 11, Category: "Science", Text: "S?", OptionA: "a", OptionB: "b", OptionC: "c", OptionD: "d", Correct: "A"},
	)
	qs.On("ListQuestions", mock.Anything, "").Return(all, nil).Once()

	view, err := svc.StartQuiz(context.Background(), quiz.SelectorComprehensive)
	require.NoError(t, err)
	require.Equal(t, 5, view.Total)
	require.Equal(t, 0, view.Position)
	require.NotEmpty(t, view.SessionID)
	require.Equal(t, quiz.StateQuizInProgress, ctrl.State())

	qs.AssertExpectations(t)
}

func TestQuizService_StartQuiz_SpecificCategory(t *testing.T) {
	qs := new(mockQuestionStore)
	ctrl := controllerAtCategorySelect(t)
	svc := NewQuizService(qs, ctrl, nopPublisher(), Config{})

	qs.On("ListQuestions", mock.Anything, "History").Return(historyRows(3), nil).Once()

	view, err := svc.StartQuiz(context.Background(), "History")
	require.NoError(t, err)
	require.Equal(t, 3, view.Total)

	qs.AssertExpectations(t)
}

func TestQuizService_StartQuiz_RandomPicksExistingCategory(t *testing.T) {
	qs := new(mockQuestionStore)
	ctrl := controllerAtCategorySelect(t)
	svc := NewQuizService(qs, ctrl, nopPublisher(), Config{})

	qs.On("ListCategories", mock.Anything).Return([]string{"History"}, nil).Once()
	qs.On("ListQuestions", mock.Anything, "History").Return(historyRows(2), nil).Once()

	view, err := svc.StartQuiz(context.Background(), quiz.SelectorRandom)
	require.NoError(t, err)
	require.Equal(t, 2, view.Total)

	qs.AssertExpectations(t)
}

func TestQuizService_StartQuiz_RandomEmptyStore(t *testing.T) {
	qs := new(mockQuestionStore)
	ctrl := controllerAtCategorySelect(t)
	svc := NewQuizService(qs, ctrl, nopPublisher(), Config{})

	qs.On("ListCategories", mock.Anything).Return([]string{}, nil).Once()

	_, err := svc.StartQuiz(context.Background(), quiz.SelectorRandom)
	require.ErrorIs(t, err, quiz.ErrNoQuestions)

	// Session must not have started.
	require.Equal(t, quiz.StateCategorySelect, ctrl.State())
	qs.AssertExpectations(t)
}

func TestQuizService_StartQuiz_EmptySelector(t *testing.T) {
	qs := new(mockQuestionStore)
	ctrl := controllerAtCategorySelect(t)
	svc := NewQuizService(qs, ctrl, nopPublisher(), Config{})

	// An empty selection must not fall through to a comprehensive quiz.
	_, err := svc.StartQuiz(context.Background(), "")
	require.ErrorIs(t, err, quiz.ErrValidation)

	_, err = svc.StartQuiz(context.Background(), "   ")
	require.ErrorIs(t, err, quiz.ErrValidation)

	require.Equal(t, quiz.StateCategorySelect, ctrl.State())
	qs.AssertNotCalled(t, "ListQuestions", mock.Anything, mock.Anything)
}

func TestQuizService_StartQuiz_EmptyCategory(t *testing.T) {
	qs := new(mockQuestionStore)
	ctrl := controllerAtCategorySelect(t)
	svc := NewQuizService(qs, ctrl, nopPublisher(), Config{})

	qs.On("ListQuestions", mock.Anything, "Geography").Return([]storage.QuestionRow{}, nil).Once()

	_, err := svc.StartQuiz(context.Background(), "Geography")
	require.ErrorIs(t, err, quiz.ErrNoQuestions)
	require.Equal(t, quiz.StateCategorySelect, ctrl.State())

	qs.AssertExpectations(t)
}

func TestQuizService_StartQuiz_WrongScreen(t *testing.T) {
	qs := new(mockQuestionStore)
	ctrl := quiz.NewController(nil) // still LoggedOut
	svc := NewQuizService(qs, ctrl, nopPublisher(), Config{})

	qs.On("ListQuestions", mock.Anything, "History").Return(historyRows(1), nil).Once()

	_, err := svc.StartQuiz(context.Background(), "History")
	require.ErrorIs(t, err, quiz.ErrBadTransition)

	_, err = svc.SubmitAnswer("A")
	require.ErrorIs(t, err, quiz.ErrNoSession)
}

func TestQuizService_SubmitAnswer_PauseRejectsUntilAdvance(t *testing.T) {
	qs := new(mockQuestionStore)
	ctrl := controllerAtCategorySelect(t)
	svc := NewQuizService(qs, ctrl, nopPublisher(), Config{FeedbackPause: 20 * time.Millisecond})

	qs.On("ListQuestions", mock.Anything, "History").Return(historyRows(2), nil).Once()

	_, err := svc.StartQuiz(context.Background(), "History")
	require.NoError(t, err)

	fb, err := svc.SubmitAnswer("b")
	require.NoError(t, err)
	require.True(t, fb.Correct)
	require.False(t, fb.Finished)

	// Within the feedback pause the next submission is rejected.
	_, err = svc.SubmitAnswer("b")
	require.ErrorIs(t, err, quiz.ErrAnswerPending)

	require.Eventually(t, func() bool {
		_, err := svc.SubmitAnswer("a")
		return err == nil
	}, time.Second, 5*time.Millisecond)
}

func TestQuizService_FullRun_ScoreAndResults(t *testing.T) {
	qs := new(mockQuestionStore)
	ctrl := controllerAtCategorySelect(t)
	svc := NewQuizService(qs, ctrl, nopPublisher(), Config{FeedbackPause: time.Millisecond})

	qs.On("ListQuestions", mock.Anything, "History").Return(historyRows(3), nil).Once()

	_, err := svc.StartQuiz(context.Background(), "History")
	require.NoError(t, err)

	answers := []string{"b", "a", "B"} // two correct, one wrong
	for _, a := range answers {
		require.Eventually(t, func() bool {
			_, err := svc.SubmitAnswer(a)
			return err == nil
		}, time.Second, time.Millisecond)
	}

	require.Eventually(t, func() bool {
		return ctrl.State() == quiz.StateQuizResults
	}, time.Second, time.Millisecond)

	sum, err := svc.Results()
	require.NoError(t, err)
	require.Equal(t, 2, sum.Score)
	require.Equal(t, 3, sum.Total)
	require.Equal(t, 66.67, sum.Percentage)

	// The session is discarded once results are read.
	_, err = svc.Results()
	require.ErrorIs(t, err, quiz.ErrNoSession)
}

func TestQuizService_Results_RejectedDuringFeedbackPause(t *testing.T) {
	qs := new(mockQuestionStore)
	ctrl := controllerAtCategorySelect(t)
	svc := NewQuizService(qs, ctrl, nopPublisher(), Config{FeedbackPause: 50 * time.Millisecond})

	qs.On("ListQuestions", mock.Anything, "History").Return(historyRows(1), nil).Once()

	_, err := svc.StartQuiz(context.Background(), "History")
	require.NoError(t, err)

	fb, err := svc.SubmitAnswer("b")
	require.NoError(t, err)
	require.True(t, fb.Finished)

	// The last answer's feedback is still showing: results are not
	// readable yet, and the session must survive so the pause can move
	// the navigation to the results screen.
	_, err = svc.Results()
	require.ErrorIs(t, err, quiz.ErrAnswerPending)

	require.Eventually(t, func() bool {
		return ctrl.State() == quiz.StateQuizResults
	}, time.Second, 5*time.Millisecond)

	sum, err := svc.Results()
	require.NoError(t, err)
	require.Equal(t, 1, sum.Score)
	require.Equal(t, 1, sum.Total)
}

func TestQuizService_Abandon_CancelsPendingAdvance(t *testing.T) {
	qs := new(mockQuestionStore)
	ctrl := controllerAtCategorySelect(t)
	svc := NewQuizService(qs, ctrl, nopPublisher(), Config{FeedbackPause: 10 * time.Millisecond})

	qs.On("ListQuestions", mock.Anything, "History").Return(historyRows(1), nil).Once()

	_, err := svc.StartQuiz(context.Background(), "History")
	require.NoError(t, err)

	_, err = svc.SubmitAnswer("b")
	require.NoError(t, err)

	// Back out before the pause fires: the stale timer must not move
	// the navigation to results.
	svc.Abandon()
	_, err = ctrl.Apply(quiz.EventBack)
	require.NoError(t, err)

	time.Sleep(30 * time.Millisecond)
	require.Equal(t, quiz.StateCategorySelect, ctrl.State())

	_, err = svc.Results()
	require.ErrorIs(t, err, quiz.ErrNoSession)
}

func TestQuizService_PublishesStateToPresentation(t *testing.T) {
	qs := new(mockQuestionStore)
	ctrl := controllerAtCategorySelect(t)
	pub := new(mockPublisher)
	svc := NewQuizService(qs, ctrl, pub, Config{FeedbackPause: time.Millisecond})

	qs.On("ListQuestions", mock.Anything, "History").Return(historyRows(1), nil).Once()
	pub.On("Publish", "question", mock.Anything).Once()
	pub.On("Publish", "answer_feedback", mock.Anything).Once()
	pub.On("Publish", "quiz_results", mock.Anything).Once()

	_, err := svc.StartQuiz(context.Background(), "History")
	require.NoError(t, err)

	_, err = svc.SubmitAnswer("b")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return ctrl.State() == quiz.StateQuizResults
	}, time.Second, time.Millisecond)

	pub.AssertExpectations(t)
}
