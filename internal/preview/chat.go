// Package preview simulates a conversation with a configured agent.
package preview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mpataki/agentbuilder/internal/inference"
	"github.com/mpataki/agentbuilder/internal/models"
	"github.com/mpataki/agentbuilder/internal/pacing"
	"github.com/mpataki/agentbuilder/internal/script"
)

var (
	ErrBusy           = errors.New("still replying to the previous message")
	ErrEmptyMessage   = errors.New("message is empty")
	ErrNothingPending = errors.New("no pending message")
)

// Responder produces the simulated reply. ok false means "no opinion".
type Responder interface {
	Respond(ctx context.Context, input string, cfg *models.AgentConfig) (reply string, ok bool, err error)
}

type heuristic struct{}

func (heuristic) Respond(_ context.Context, input string, cfg *models.AgentConfig) (string, bool, error) {
	return inference.SynthesizeResponse(input, cfg), true, nil
}

// Heuristic is the keyword rule responder.
var Heuristic Responder = heuristic{}

type Option func(*Chat)

// WithScript consults rt before the heuristic rules.
func WithScript(rt *script.Runtime) Option {
	return func(c *Chat) { c.script = rt }
}

func WithPacer(p pacing.Pacer) Option {
	return func(c *Chat) { c.pacer = p }
}

func WithClock(clock pacing.Clock) Option {
	return func(c *Chat) { c.clock = clock }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Chat) { c.log = l }
}

func WithIDGenerator(newID func() string) Option {
	return func(c *Chat) { c.newID = newID }
}

// Chat is one preview session. The config is a snapshot taken at creation;
// later edits to the agent do not leak in.
type Chat struct {
	cfg        *models.AgentConfig
	transcript *models.Transcript

	busy    bool
	pending string

	script *script.Runtime
	pacer  pacing.Pacer
	clock  pacing.Clock
	log    *zap.Logger
	newID  func() string
}

func New(cfg *models.AgentConfig, opts ...Option) *Chat {
	c := &Chat{
		cfg:   cfg.Clone(),
		pacer: pacing.None,
		clock: pacing.Instant,
		log:   zap.NewNop(),
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.transcript = models.NewTranscript(c.newID)
	c.transcript.Append(models.RoleAssistant, Greeting(c.cfg))
	return c
}

// Greeting introduces the agent and lists its starters.
func Greeting(cfg *models.AgentConfig) string {
	var b strings.Builder
	name := strings.TrimSpace(cfg.Name)
	if name == "" {
		name = "your agent"
	}
	fmt.Fprintf(&b, "Hi! I'm **%s**.", name)
	if cfg.Description != "" {
		fmt.Fprintf(&b, " %s", cfg.Description)
	}
	if len(cfg.ConversationStarters) > 0 {
		b.WriteString("\n\nYou could ask me:\n")
		for _, s := range cfg.ConversationStarters {
			fmt.Fprintf(&b, "\n- %s", s)
		}
	}
	return b.String()
}

func (c *Chat) Config() *models.AgentConfig { return c.cfg.Clone() }
func (c *Chat) Messages() []models.Message  { return c.transcript.Messages() }
func (c *Chat) Busy() bool                  { return c.busy }
func (c *Chat) NextDelay() time.Duration    { return c.pacer.Delay() }

// Accept echoes the user message and marks the chat busy.
func (c *Chat) Accept(input string) error {
	if c.busy {
		return ErrBusy
	}
	input = strings.TrimSpace(input)
	if input == "" {
		return ErrEmptyMessage
	}
	c.transcript.Append(models.RoleUser, input)
	c.pending = input
	c.busy = true
	return nil
}

// Advance appends the reply to the pending message.
func (c *Chat) Advance(ctx context.Context) error {
	if !c.busy {
		return ErrNothingPending
	}
	input := c.pending
	c.pending = ""
	c.busy = false

	c.transcript.Append(models.RoleAssistant, c.reply(ctx, input))
	return nil
}

func (c *Chat) Cancel() {
	c.pending = ""
	c.busy = false
}

func (c *Chat) Send(ctx context.Context, input string) error {
	if err := c.Accept(input); err != nil {
		return err
	}
	return c.Advance(ctx)
}

func (c *Chat) SendPaced(ctx context.Context, input string) error {
	if err := c.Accept(input); err != nil {
		return err
	}
	if err := c.clock.Sleep(ctx, c.pacer.Delay()); err != nil {
		c.Cancel()
		return err
	}
	return c.Advance(ctx)
}

// reply applies guardrails first, then the script, then the heuristic rules.
// A failing script is logged and skipped.
func (c *Chat) reply(ctx context.Context, input string) string {
	if g, ok := inference.MatchGuardrail(input, c.cfg.Guardrails); ok {
		return inference.Refusal(g)
	}

	if c.script != nil {
		reply, ok, err := c.script.Respond(ctx, input, c.cfg)
		switch {
		case err != nil:
			c.log.Warn("response script failed", zap.String("script", c.script.Name()), zap.Error(err))
		case ok:
			return reply
		}
	}

	reply, _, _ := Heuristic.Respond(ctx, input, c.cfg)
	return reply
}
