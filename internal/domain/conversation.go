package domain

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one entry in the conversation transcript.
type Turn struct {
	ID     string    `json:"id"`
	Role   Role      `json:"role"`
	Text   string    `json:"text"`
	Spoken bool      `json:"spoken"`
	At     time.Time `json:"at"`
}

func NewTurn(role Role, text string, spoken bool) Turn {
	return Turn{
		ID:     uuid.NewString(),
		Role:   role,
		Text:   text,
		Spoken: spoken,
		At:     time.Now(),
	}
}

// Conversation holds the ordered turn history for one session. Insertion
// order defines the prompt context sent to the chat API. It grows only in
// {user, assistant} pairs and is not safe for concurrent use; the session
// orchestrator owns it exclusively.
type Conversation struct {
	turns []Turn
}

func NewConversation() *Conversation {
	return &Conversation{}
}

// AppendPair records one completed turn: the user input and the assistant
// reply, in that order.
func (c *Conversation) AppendPair(user, assistant Turn) {
	c.turns = append(c.turns, user, assistant)
}

func (c *Conversation) Len() int {
	return len(c.turns)
}

// Turns returns a copy of the history.
func (c *Conversation) Turns() []Turn {
	out := make([]Turn, len(c.turns))
	copy(out, c.turns)
	return out
}

func (c *Conversation) Clear() {
	c.turns = nil
}

// TurnResult is the ephemeral outcome of one pipeline run.
type TurnResult struct {
	User      Turn `json:"user"`
	Assistant Turn `json:"assistant"`
}
