package service

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/jtdaniels/QA3/internal/quiz"
	"github.com/jtdaniels/QA3/internal/storage"
)

// Publisher pushes envelopes to the presentation layer. The ws hub
// implements it.
type Publisher interface {
	Publish(msgType string, payload interface{})
}

// QuestionView is the taker-facing shape of the current question.
type QuestionView struct {
	SessionID string        `json:"sessionId"`
	Position  int           `json:"position"`
	Total     int           `json:"total"`
	Question  quiz.Question `json:"question"`
}

type QuizService interface {
	Categories(ctx context.Context) ([]string, error)
	StartQuiz(ctx context.Context, selector string) (QuestionView, error)
	SubmitAnswer(answer string) (quiz.Feedback, error)
	Results() (quiz.Summary, error)
	Abandon()
}

type Config struct {
	// FeedbackPause separates a scored answer from the presentation of
	// the next question. Purely cosmetic.
	FeedbackPause time.Duration
}

type quizService struct {
	qs   storage.QuestionStore
	ctrl *quiz.Controller
	pub  Publisher
	cfg  Config

	mu      sync.Mutex
	session *quiz.Session
	pending bool
	gen     int64
}

func NewQuizService(qs storage.QuestionStore, ctrl *quiz.Controller, pub Publisher, cfg Config) QuizService {
	if cfg.FeedbackPause == 0 {
		cfg.FeedbackPause = time.Second
	}
	return &quizService{qs: qs, ctrl: ctrl, pub: pub, cfg: cfg}
}

// Categories returns the selectable entries for the category screen:
// every stored category plus the two cross-category selectors.
func (s *quizService) Categories(ctx context.Context) ([]string, error) {
	cats, err := s.qs.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	return append(cats, quiz.SelectorRandom, quiz.SelectorComprehensive), nil
}

// resolve maps a selector to the concrete question set it stands for.
func (s *quizService) resolve(ctx context.Context, selector string) ([]quiz.Question, error) {
	if strings.TrimSpace(selector) == "" {
		return nil, fmt.Errorf("%w: select a category", quiz.ErrValidation)
	}

	category := selector
	switch selector {
	case quiz.SelectorComprehensive:
		category = ""
	case quiz.SelectorRandom:
		cats, err := s.qs.ListCategories(ctx)
		if err != nil {
			return nil, err
		}
		if len(cats) == 0 {
			return nil, quiz.ErrNoQuestions
		}
		category = cats[rand.Intn(len(cats))]
	}

	rows, err := s.qs.ListQuestions(ctx, category)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, quiz.ErrNoQuestions
	}

	questions := make([]quiz.Question, 0, len(rows))
	for _, r := range rows {
		questions = append(questions, r.Question())
	}
	return questions, nil
}

func (s *quizService) StartQuiz(ctx context.Context, selector string) (QuestionView, error) {
	questions, err := s.resolve(ctx, selector)
	if err != nil {
		return QuestionView{}, err
	}

	// The set is resolved; only now does the navigation move.
	if _, err := s.ctrl.Apply(quiz.EventStartQuiz); err != nil {
		return QuestionView{}, err
	}

	sess := quiz.NewSession(selector, questions)

	s.mu.Lock()
	s.session = sess
	s.pending = false
	s.gen++
	s.mu.Unlock()

	view := s.viewOf(sess)
	s.pub.Publish("question", view)
	return view, nil
}

func (s *quizService) viewOf(sess *quiz.Session) QuestionView {
	q, _ := sess.Current()
	return QuestionView{
		SessionID: sess.ID,
		Position:  sess.Position(),
		Total:     sess.Total(),
		Question:  q,
	}
}

// SubmitAnswer scores the answer and schedules the advance to the next
// question after the feedback pause. Submissions during the pause are
// rejected, mirroring the disabled answer buttons in the UI.
func (s *quizService) SubmitAnswer(answer string) (quiz.Feedback, error) {
	s.mu.Lock()
	sess := s.session
	if sess == nil {
		s.mu.Unlock()
		return quiz.Feedback{}, quiz.ErrNoSession
	}
	if s.pending {
		s.mu.Unlock()
		return quiz.Feedback{}, quiz.ErrAnswerPending
	}

	fb, err := sess.Submit(answer)
	if err != nil {
		s.mu.Unlock()
		return quiz.Feedback{}, err
	}

	s.pending = true
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	s.pub.Publish("answer_feedback", fb)
	time.AfterFunc(s.cfg.FeedbackPause, func() { s.advance(gen, sess) })
	return fb, nil
}

// advance fires after the feedback pause. A stale generation means the
// session was restarted or abandoned in the meantime and the timer is a
// no-op.
func (s *quizService) advance(gen int64, sess *quiz.Session) {
	s.mu.Lock()
	if s.gen != gen || s.session != sess {
		s.mu.Unlock()
		return
	}
	s.pending = false
	s.mu.Unlock()

	if sess.Finished() {
		if _, err := s.ctrl.Apply(quiz.EventQuizFinished); err != nil {
			return
		}
		s.pub.Publish("quiz_results", sess.Summary())
		return
	}
	s.pub.Publish("question", s.viewOf(sess))
}

// Results returns and discards the finished session's summary. While
// the feedback pause is still pending the results are not readable yet:
// discarding the session here would cancel the timer that moves the
// navigation to the results screen.
func (s *quizService) Results() (quiz.Summary, error) {
	s.mu.Lock()
	sess := s.session
	pending := s.pending
	s.mu.Unlock()

	if sess == nil {
		return quiz.Summary{}, quiz.ErrNoSession
	}
	if pending {
		return quiz.Summary{}, quiz.ErrAnswerPending
	}
	if !sess.Finished() {
		return quiz.Summary{}, fmt.Errorf("%w: quiz still in progress", quiz.ErrBadTransition)
	}

	sum := sess.Summary()
	s.Abandon()
	return sum, nil
}

// Abandon drops the live session and invalidates any pending timer.
func (s *quizService) Abandon() {
	s.mu.Lock()
	s.session = nil
	s.pending = false
	s.gen++
	s.mu.Unlock()
}
