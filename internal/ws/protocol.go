package ws

// Envelope is the push message sent to the presentation layer: a type
// tag ("nav_state", "question", "answer_feedback", "quiz_results") and
// its payload.
type Envelope struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}
