// Package chat implements the assistant panel: it echoes each message back
// after a simulated delay, showing a placeholder while the reply is pending.
package chat

import (
	"io"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// DefaultDelay is how long a reply takes to arrive.
const DefaultDelay = 1500 * time.Millisecond

// ThinkingText is shown in place of a reply that has not arrived yet.
const ThinkingText = "Thinking..."

// Role identifies who wrote a message.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// Message is one entry in the chat log.
type Message struct {
	ID      string `json:"id"`
	Role    Role   `json:"role"`
	Text    string `json:"text"`
	Pending bool   `json:"pending,omitempty"`
}

// ReplyText returns the simulated reply to text.
func ReplyText(text string) string {
	return `Simulated AI reply: "` + text + `"`
}

// Panel holds the chat log. It is safe for concurrent use; replies are
// delivered from timer goroutines.
type Panel struct {
	delay   time.Duration
	logger  *log.Logger
	onReply func(Message)

	// schedule runs f after d and returns a function that cancels it.
	schedule func(d time.Duration, f func()) (stop func() bool)

	mu       sync.Mutex
	messages []Message
	pending  map[string]func() bool
	closed   bool
}

// Option configures a Panel.
type Option func(*Panel)

// WithLogger sets the panel's logger.
func WithLogger(logger *log.Logger) Option {
	return func(p *Panel) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// OnReply registers fn to be called, outside the panel lock, after each reply lands.
func OnReply(fn func(Message)) Option {
	return func(p *Panel) {
		p.onReply = fn
	}
}

// NewPanel creates an empty panel. A non-positive delay selects DefaultDelay.
func NewPanel(delay time.Duration, opts ...Option) *Panel {
	if delay <= 0 {
		delay = DefaultDelay
	}
	p := &Panel{
		delay:  delay,
		logger: log.New(io.Discard),
		schedule: func(d time.Duration, f func()) func() bool {
			return time.AfterFunc(d, f).Stop
		},
		pending: make(map[string]func() bool),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Submit appends text as a user message followed by a pending placeholder,
// and schedules the reply that replaces that placeholder. Blank text is
// ignored and ok is false.
func (p *Panel) Submit(text string) (user, placeholder Message, ok bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Message{}, Message{}, false
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return Message{}, Message{}, false
	}

	user = Message{ID: uuid.NewString(), Role: RoleUser, Text: text}
	placeholder = Message{ID: uuid.NewString(), Role: RoleBot, Text: ThinkingText, Pending: true}
	p.messages = append(p.messages, user, placeholder)

	id := placeholder.ID
	p.pending[id] = p.schedule(p.delay, func() { p.reply(id, text) })
	p.logger.Debug("chat message queued", "placeholder", id)

	return user, placeholder, true
}

func (p *Panel) reply(placeholderID, text string) {
	p.mu.Lock()
	delete(p.pending, placeholderID)
	if p.closed {
		p.mu.Unlock()
		return
	}

	p.messages = slices.DeleteFunc(p.messages, func(m Message) bool {
		return m.ID == placeholderID
	})
	msg := Message{ID: uuid.NewString(), Role: RoleBot, Text: ReplyText(text)}
	p.messages = append(p.messages, msg)
	onReply := p.onReply
	p.mu.Unlock()

	if onReply != nil {
		onReply(msg)
	}
}

// Messages returns a copy of the chat log in display order.
func (p *Panel) Messages() []Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.messages)
}

// Pending returns how many replies have not arrived yet.
func (p *Panel) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pending)
}

// Close cancels outstanding replies. Later submissions are ignored.
func (p *Panel) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closed = true
	for id, stop := range p.pending {
		stop()
		delete(p.pending, id)
	}
}
