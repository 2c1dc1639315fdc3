package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/jtdaniels/QA3/internal/quiz"
	"github.com/jtdaniels/QA3/internal/service"
	"github.com/jtdaniels/QA3/internal/ws"
)

type loginReq struct {
	Password string `json:"password"`
}

type startQuizReq struct {
	Selector string `json:"selector"`
}

type submitAnswerReq struct {
	Answer string `json:"answer"`
}

type navEventReq struct {
	Event string `json:"event"`
}

// statusFor maps the error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, quiz.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, quiz.ErrAuthentication):
		return http.StatusUnauthorized
	case errors.Is(err, quiz.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, quiz.ErrNoQuestions):
		return http.StatusUnprocessableEntity
	case errors.Is(err, quiz.ErrBadTransition),
		errors.Is(err, quiz.ErrNoSession),
		errors.Is(err, quiz.ErrAnswerPending),
		errors.Is(err, quiz.ErrQuizFinished):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func RegisterHandlers(mux *http.ServeMux, quizSvc service.QuizService, authSvc service.AuthService, ctrl *quiz.Controller, hub *ws.Hub, log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}

	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req loginReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Warn("login bad json", zap.Error(err))
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}

		token, err := authSvc.Login(r.Context(), req.Password)
		if err != nil {
			if errors.Is(err, quiz.ErrAuthentication) {
				// Failure keeps the user on the auth screen; the UI
				// clears the password input.
				_, _ = ctrl.Apply(quiz.EventAuthFailed)
				log.Warn("admin login failed")
				http.Error(w, err.Error(), http.StatusUnauthorized)
				return
			}
			log.Error("admin login error", zap.Error(err))
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		if _, err := ctrl.Apply(quiz.EventAuthSucceeded); err != nil {
			log.Warn("login outside auth screen", zap.String("state", string(ctrl.State())))
		}

		log.Info("admin logged in")
		_ = json.NewEncoder(w).Encode(map[string]string{"token": token})
	})

	mux.HandleFunc("/categories", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		cats, err := quizSvc.Categories(r.Context())
		if err != nil {
			log.Error("list categories failed", zap.Error(err))
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(cats)
	})

	mux.HandleFunc("/quiz", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req startQuizReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Warn("start quiz bad json", zap.Error(err))
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}

		view, err := quizSvc.StartQuiz(r.Context(), req.Selector)
		if err != nil {
			log.Warn("start quiz failed", zap.String("selector", req.Selector), zap.Error(err))
			http.Error(w, err.Error(), statusFor(err))
			return
		}

		log.Info("quiz started", zap.String("selector", req.Selector), zap.Int("questions", view.Total))
		_ = json.NewEncoder(w).Encode(view)
	})

	mux.HandleFunc("/quiz/answers", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req submitAnswerReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Warn("submit answer bad json", zap.Error(err))
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}

		fb, err := quizSvc.SubmitAnswer(req.Answer)
		if err != nil {
			log.Warn("submit answer rejected", zap.Error(err))
			http.Error(w, err.Error(), statusFor(err))
			return
		}

		log.Info("answer submitted", zap.Bool("correct", fb.Correct), zap.Int("position", fb.Position))
		_ = json.NewEncoder(w).Encode(fb)
	})

	mux.HandleFunc("/quiz/results", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		sum, err := quizSvc.Results()
		if err != nil {
			log.Warn("results not available", zap.Error(err))
			http.Error(w, err.Error(), statusFor(err))
			return
		}

		log.Info("quiz finished", zap.Int("score", sum.Score), zap.Int("total", sum.Total))
		_ = json.NewEncoder(w).Encode(sum)
	})

	mux.HandleFunc("/nav/events", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req navEventReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Warn("nav event bad json", zap.Error(err))
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}

		ev := quiz.Event(req.Event)
		prev := ctrl.State()

		state, err := ctrl.Apply(ev)
		if err != nil {
			log.Warn("nav event rejected", zap.String("event", req.Event), zap.String("state", string(prev)))
			http.Error(w, err.Error(), statusFor(err))
			return
		}

		// Backing out of the quiz or its results throws the session away.
		if ev == quiz.EventBack && (prev == quiz.StateQuizInProgress || prev == quiz.StateQuizResults) {
			quizSvc.Abandon()
		}

		log.Info("nav transition", zap.String("event", req.Event), zap.String("state", string(state)))
		_ = json.NewEncoder(w).Encode(map[string]string{"state": string(state)})
	})

	mux.HandleFunc("/nav/state", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"state": string(ctrl.State())})
	})

	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		log.Info("ws connect attempt")
		hub.ServeWS(w, r, ws.Envelope{
			Type:    "nav_state",
			Payload: map[string]string{"state": string(ctrl.State())},
		})
	})
}
