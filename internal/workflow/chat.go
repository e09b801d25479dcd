package workflow

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"omnidesk/internal/api"
)

// fallbackNotice replaces answers the service returned in no renderable shape.
const fallbackNotice = "Sorry, received unexpected response format."

// Sender identifies which side of the conversation wrote a message.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// ChatMessage is one entry in the append-only conversation log.
type ChatMessage struct {
	ID        string
	Text      string
	Sender    Sender
	Timestamp time.Time
}

// ChatController owns the conversational workflow: the message log, the
// in-flight flag and the error of the current turn.
type ChatController struct {
	mu       sync.Mutex
	svc      api.Service
	userID   string
	messages []ChatMessage
	sending  bool
	err      string
	seq      int
}

// ChatSnapshot is a consistent copy of the chat state for rendering.
type ChatSnapshot struct {
	Messages []ChatMessage
	Sending  bool
	Err      string
}

func NewChat(svc api.Service, userID string) *ChatController {
	return &ChatController{svc: svc, userID: userID}
}

// Send submits one user turn. The user message is appended before the remote
// call resolves; on failure it stays in the log and only the error of this
// turn is surfaced.
func (c *ChatController) Send(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return validationErr("Please enter a message")
	}

	c.mu.Lock()
	if c.sending {
		c.mu.Unlock()
		return ErrBusy
	}
	c.sending = true
	c.err = ""
	c.append(SenderUser, text)
	c.mu.Unlock()

	answer, err := c.svc.Chat(ctx, text, c.userID)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.sending = false
	if err != nil {
		c.err = err.Error()
		return err
	}
	c.append(SenderAssistant, normalizeAnswer(answer))
	return nil
}

// append must be called with the lock held. Message ids are a monotonic
// sequence, so two identical texts still get distinct entries.
func (c *ChatController) append(sender Sender, text string) {
	c.seq++
	c.messages = append(c.messages, ChatMessage{
		ID:        fmt.Sprintf("msg-%06d", c.seq),
		Text:      text,
		Sender:    sender,
		Timestamp: time.Now(),
	})
}

// normalizeAnswer resolves the polymorphic remote answer: strings verbatim,
// the "result" field when present, any other object as an indented dump, and
// a fixed notice for everything else.
func normalizeAnswer(a api.Answer) string {
	switch a.Kind {
	case api.AnswerString, api.AnswerResult:
		return a.Text
	case api.AnswerObject:
		return api.IndentJSON(a.Raw)
	default:
		return fallbackNotice
	}
}

// Snapshot returns a copy of the current chat state.
func (c *ChatController) Snapshot() ChatSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	msgs := make([]ChatMessage, len(c.messages))
	copy(msgs, c.messages)
	return ChatSnapshot{Messages: msgs, Sending: c.sending, Err: c.err}
}
