package quiz

import "sync"

type State string

const (
	StateLoggedOut      State = "logged_out"
	StateAdminAuth      State = "admin_auth"
	StateAdminMenu      State = "admin_menu"
	StateAddQuestion    State = "add_question"
	StateViewQuestions  State = "view_questions"
	StateCategorySelect State = "category_select"
	StateQuizInProgress State = "quiz_in_progress"
	StateQuizResults    State = "quiz_results"
)

type Event string

const (
	EventAdminLogin    Event = "admin_login"
	EventQuizTaker     Event = "quiz_taker"
	EventAuthSucceeded Event = "auth_succeeded"
	EventAuthFailed    Event = "auth_failed"
	EventAddQuestion   Event = "add_question"
	EventViewQuestions Event = "view_questions"
	EventStartQuiz     Event = "start_quiz"
	EventQuizFinished  Event = "quiz_finished"
	EventBack          Event = "back"
)

// transitions is the navigation table: (current state, event) -> next
// state. Pairs not listed are rejected without mutating anything.
var transitions = map[State]map[Event]State{
	StateLoggedOut: {
		EventAdminLogin: StateAdminAuth,
		EventQuizTaker:  StateCategorySelect,
	},
	StateAdminAuth: {
		EventAuthSucceeded: StateAdminMenu,
		EventAuthFailed:    StateAdminAuth,
		EventBack:          StateLoggedOut,
	},
	StateAdminMenu: {
		EventAddQuestion:   StateAddQuestion,
		EventViewQuestions: StateViewQuestions,
		EventBack:          StateLoggedOut,
	},
	StateAddQuestion: {
		EventBack: StateAdminMenu,
	},
	StateViewQuestions: {
		EventBack: StateAdminMenu,
	},
	StateCategorySelect: {
		EventStartQuiz: StateQuizInProgress,
		EventBack:      StateLoggedOut,
	},
	StateQuizInProgress: {
		EventQuizFinished: StateQuizResults,
		EventBack:         StateCategorySelect,
	},
	StateQuizResults: {
		EventBack: StateCategorySelect,
	},
}

// Controller is the screen-navigation state machine. It lives for the
// whole process and is never persisted. notify, when set, is called with
// the new state after every applied transition.
type Controller struct {
	mu     sync.Mutex
	state  State
	notify func(State)
}

func NewController(notify func(State)) *Controller {
	return &Controller{state: StateLoggedOut, notify: notify}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Apply moves the machine along the transition table. Undefined pairs
// return ErrBadTransition and leave the state untouched.
func (c *Controller) Apply(ev Event) (State, error) {
	c.mu.Lock()
	next, ok := transitions[c.state][ev]
	if !ok {
		cur := c.state
		c.mu.Unlock()
		return cur, ErrBadTransition
	}
	c.state = next
	notify := c.notify
	c.mu.Unlock()

	if notify != nil {
		notify(next)
	}
	return next, nil
}
