package command

import (
	"strings"

	"github.com/google/uuid"
)

func defaultRequestID() string { return uuid.NewString() }

// Responder answers one round of a feedback exchange with the
// normalized input the caller supplied.
type Responder func(normalized string) Result

// FeedbackRequest represents a single outstanding confirmation/prompt
// loop. A Runtime holds at most one pending request at a time;
// ProcessInput routes subsequent input to Respond until the responder
// returns a Result that does not itself require further confirmation.
type FeedbackRequest struct {
	RequestID string
	Prompt    string
	Options   []string
	respond   Responder
}

// NewFeedback builds a FeedbackRequest with a generated request ID.
// respond receives the caller's input lower-cased and trimmed.
func NewFeedback(prompt string, options []string, respond Responder) *FeedbackRequest {
	return &FeedbackRequest{
		RequestID: newRequestID(),
		Prompt:    prompt,
		Options:   options,
		respond:   respond,
	}
}

// IsPending always reports true for a request still held by a Runtime;
// callers inspect Result.RequiresConfirmation to learn when an exchange
// resolves, since a resolved request is dropped rather than mutated.
func (f *FeedbackRequest) IsPending() bool { return f != nil }

// Respond normalizes input and delegates to the stored responder. The
// Runtime (not this method) decides whether the returned Result keeps
// the request pending or clears it.
func (f *FeedbackRequest) Respond(input string) Result {
	normalized := strings.ToLower(strings.TrimSpace(input))
	return f.respond(normalized)
}

var requestIDSeq func() string = defaultRequestID

func newRequestID() string { return requestIDSeq() }
