// Package studio ties builder sessions to storage: publishing, editing,
// previewing and exporting agents.
package studio

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mpataki/agentbuilder/internal/builder"
	"github.com/mpataki/agentbuilder/internal/export"
	"github.com/mpataki/agentbuilder/internal/models"
	"github.com/mpataki/agentbuilder/internal/pacing"
	"github.com/mpataki/agentbuilder/internal/preview"
	"github.com/mpataki/agentbuilder/internal/script"
	"github.com/mpataki/agentbuilder/internal/storage"
)

const DefaultListLimit = 100

type Service struct {
	storage   *storage.Storage
	cats      builder.Catalogs
	exportDir string
	script    *script.Runtime
	pacer     pacing.Pacer
	log       *zap.Logger
}

type Option func(*Service)

func WithExportDir(dir string) Option {
	return func(s *Service) { s.exportDir = dir }
}

// WithScript sets the Lua responder used by previews.
func WithScript(rt *script.Runtime) Option {
	return func(s *Service) { s.script = rt }
}

func WithPacer(p pacing.Pacer) Option {
	return func(s *Service) { s.pacer = p }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.log = l }
}

func New(store *storage.Storage, cats builder.Catalogs, opts ...Option) *Service {
	s := &Service{
		storage:   store,
		cats:      cats,
		exportDir: "exports",
		pacer:     pacing.None,
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Catalogs() builder.Catalogs { return s.cats }

// NewSession starts a fresh builder conversation.
func (s *Service) NewSession() *builder.Controller {
	return builder.New(s.cats,
		builder.WithPacer(s.pacer),
		builder.WithLogger(s.log.Named("builder")),
	)
}

// Publish finalizes the session's config and stores it with its transcript.
func (s *Service) Publish(ctx context.Context, c *builder.Controller) (*models.PublishedAgent, error) {
	ready, err := c.Finalize()
	if err != nil {
		return nil, err
	}

	agent := &models.PublishedAgent{
		Config:     ready.Config,
		Transcript: c.Messages(),
	}
	if err := s.storage.CreateAgent(ctx, agent); err != nil {
		return nil, fmt.Errorf("failed to save agent: %w", err)
	}

	s.log.Info("agent published",
		zap.String("id", agent.ID),
		zap.String("name", agent.Config.Name),
		zap.Stringer("type", agent.Config.Type))
	return agent, nil
}

// Get loads an agent by id or unique id prefix.
func (s *Service) Get(ctx context.Context, id string) (*models.PublishedAgent, error) {
	full, err := s.storage.ResolveID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.storage.GetAgent(ctx, full)
}

func (s *Service) List(ctx context.Context, limit int) ([]*models.PublishedAgent, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	return s.storage.ListAgents(ctx, limit)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	full, err := s.storage.ResolveID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.storage.DeleteAgent(ctx, full); err != nil {
		return err
	}
	s.log.Info("agent deleted", zap.String("id", full))
	return nil
}

// Resume opens a published agent in command mode.
func (s *Service) Resume(ctx context.Context, id string) (*builder.Controller, *models.PublishedAgent, error) {
	agent, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	c := builder.Resume(agent.Config, s.cats,
		builder.WithPacer(s.pacer),
		builder.WithLogger(s.log.Named("builder")),
	)
	return c, agent, nil
}

// Save writes a resumed session back. The resume greeting is not stored;
// everything after it is appended to the agent's transcript.
func (s *Service) Save(ctx context.Context, agent *models.PublishedAgent, c *builder.Controller) error {
	ready, err := c.Finalize()
	if err != nil {
		return err
	}

	agent.Config = ready.Config
	if msgs := c.Messages(); len(msgs) > 1 {
		agent.Transcript = append(agent.Transcript, msgs[1:]...)
	}
	if err := s.storage.UpdateAgent(ctx, agent); err != nil {
		return fmt.Errorf("failed to update agent: %w", err)
	}

	s.log.Info("agent updated", zap.String("id", agent.ID), zap.String("name", agent.Config.Name))
	return nil
}

// Update applies direct edits to a published agent. Edits that would leave
// it unpublishable are rejected and nothing is saved.
func (s *Service) Update(ctx context.Context, id string, edits ...builder.Edit) (*models.PublishedAgent, []builder.Change, error) {
	c, agent, err := s.Resume(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	changes, err := c.Apply(edits...)
	if err != nil {
		return nil, nil, err
	}
	if err := s.Save(ctx, agent, c); err != nil {
		return nil, changes, err
	}
	return agent, changes, nil
}

// Command runs one natural-language edit command against a published agent
// and returns the assistant's reply.
func (s *Service) Command(ctx context.Context, id, text string) (*models.PublishedAgent, string, error) {
	c, agent, err := s.Resume(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if err := c.Submit(builder.Text{Value: text}); err != nil {
		return nil, "", err
	}

	msgs := c.Messages()
	reply := msgs[len(msgs)-1].Content
	if err := s.Save(ctx, agent, c); err != nil {
		return nil, reply, err
	}
	return agent, reply, nil
}

// Preview starts a simulated chat with a published agent.
func (s *Service) Preview(ctx context.Context, id string) (*preview.Chat, error) {
	agent, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.PreviewConfig(agent.Config), nil
}

// PreviewConfig starts a simulated chat with an unpublished config.
func (s *Service) PreviewConfig(cfg *models.AgentConfig) *preview.Chat {
	opts := []preview.Option{
		preview.WithPacer(s.pacer),
		preview.WithLogger(s.log.Named("preview")),
	}
	if s.script != nil {
		opts = append(opts, preview.WithScript(s.script))
	}
	return preview.New(cfg, opts...)
}

// Export writes the agent's bundle under dir, or the configured export dir
// when dir is empty.
func (s *Service) Export(ctx context.Context, id, dir string) (*export.Bundle, error) {
	agent, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if dir == "" {
		dir = s.exportDir
	}

	b, err := export.Write(dir, agent)
	if err != nil {
		return nil, err
	}
	s.log.Info("agent exported", zap.String("id", agent.ID), zap.String("dir", b.Dir))
	return b, nil
}
