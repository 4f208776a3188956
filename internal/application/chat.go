package application

import (
	"context"

	"voice-assistant/internal/domain"
)

// Responder produces one assistant reply from the ordered history plus the
// new user text. Implementations never mutate the history; the session
// appends the turn pair only after a successful call.
type Responder interface {
	Respond(ctx context.Context, history []domain.Turn, userText string) (string, error)
}
