package quiz

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session is one run through a shuffled question set. All state changes
// happen under the mutex, so submitting an answer scores and advances
// atomically.
type Session struct {
	ID       string
	Selector string

	mu        sync.Mutex
	questions []Question
	position  int
	score     int
}

// Feedback is the per-answer result returned from Submit.
type Feedback struct {
	Correct       bool   `json:"correct"`
	CorrectAnswer string `json:"correctAnswer"`
	Position      int    `json:"position"`
	Total         int    `json:"total"`
	Finished      bool   `json:"finished"`
}

// Summary is the final score shown on the results screen.
type Summary struct {
	Score      int     `json:"score"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// NewSession shuffles a copy of questions into the session order.
// The caller guarantees questions is non-empty.
func NewSession(selector string, questions []Question) *Session {
	return &Session{
		ID:        uuid.NewString(),
		Selector:  selector,
		questions: shuffle(questions),
	}
}

// shuffle returns a uniformly random permutation of in, leaving in intact.
func shuffle(in []Question) []Question {
	out := make([]Question, len(in))
	copy(out, in)

	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	for i := len(out) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Current returns the question at the current position, or ok=false when
// the session has run out of questions.
func (s *Session) Current() (Question, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.position >= len(s.questions) {
		return Question{}, false
	}
	return s.questions[s.position], true
}

// Submit scores answer against the current question and advances the
// position regardless of correctness.
func (s *Session) Submit(answer string) (Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.position >= len(s.questions) {
		return Feedback{}, ErrQuizFinished
	}
	if !IsAnswerLetter(answer) {
		return Feedback{}, ErrValidation
	}

	q := s.questions[s.position]
	correct := q.Check(answer)
	if correct {
		s.score++
	}
	s.position++

	return Feedback{
		Correct:       correct,
		CorrectAnswer: q.Correct,
		Position:      s.position,
		Total:         len(s.questions),
		Finished:      s.position >= len(s.questions),
	}, nil
}

func (s *Session) Finished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.position >= len(s.questions)
}

func (s *Session) Position() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.position
}

func (s *Session) Total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.questions)
}

// Summary computes the final score. Percentage is rounded to two decimal
// places for display.
func (s *Session) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := len(s.questions)
	var pct float64
	if total > 0 {
		pct = math.Round(float64(s.score)/float64(total)*10000) / 100
	}
	return Summary{Score: s.score, Total: total, Percentage: pct}
}

// Questions returns a copy of the session's question order.
func (s *Session) Questions() []Question {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Question, len(s.questions))
	copy(out, s.questions)
	return out
}
