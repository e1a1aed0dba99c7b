// Package builder drives the conversational agent setup: a state machine
// over creation steps that owns the transcript and the config being built.
//
// Every input goes through two phases. Accept validates it, echoes it to the
// transcript and marks the controller busy; Advance performs the transition
// and appends the assistant reply. The pause between the two is purely
// cosmetic, but while it lasts further input is rejected with ErrBusy.
package builder

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mpataki/agentbuilder/internal/catalog"
	"github.com/mpataki/agentbuilder/internal/inference"
	"github.com/mpataki/agentbuilder/internal/models"
	"github.com/mpataki/agentbuilder/internal/pacing"
)

type Catalogs struct {
	Sources   catalog.KnowledgeSourceCatalog
	Workflows catalog.WorkflowCatalog
	Icons     catalog.IconCatalog
}

func CatalogsFrom(s *catalog.Static) Catalogs {
	return Catalogs{Sources: s, Workflows: s, Icons: s}
}

type Option func(*Controller)

func WithPacer(p pacing.Pacer) Option {
	return func(c *Controller) { c.pacer = p }
}

func WithClock(clock pacing.Clock) Option {
	return func(c *Controller) { c.clock = clock }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) { c.log = l }
}

func WithIDGenerator(newID func() string) Option {
	return func(c *Controller) { c.newID = newID }
}

type Controller struct {
	cats       Catalogs
	cfg        *models.AgentConfig
	transcript *models.Transcript
	step       Step

	inferred  models.AgentType
	phrases   []string
	suggested []string

	busy    bool
	pending *plan

	pacer pacing.Pacer
	clock pacing.Clock
	log   *zap.Logger
	newID func() string
}

// plan is a validated input waiting for Advance.
type plan struct {
	echo string
	run  func() (reply string, next Step)
}

func newController(cats Catalogs, cfg *models.AgentConfig, opts []Option) *Controller {
	c := &Controller{
		cats:  cats,
		cfg:   cfg,
		pacer: pacing.None,
		clock: pacing.Instant,
		log:   zap.NewNop(),
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.transcript = models.NewTranscript(c.newID)
	return c
}

// New starts a fresh session at the greeting.
func New(cats Catalogs, opts ...Option) *Controller {
	c := newController(cats, &models.AgentConfig{
		IconID:      catalog.DefaultIconID,
		IconColorID: catalog.DefaultIconColorID,
	}, opts)
	c.step = StepStart
	c.transcript.Append(models.RoleAssistant, greeting)
	return c
}

// Resume opens an existing config directly in command mode.
func Resume(cfg *models.AgentConfig, cats Catalogs, opts ...Option) *Controller {
	c := newController(cats, cfg.Clone(), opts)
	c.step = StepDone
	c.inferred = cfg.Type
	c.transcript.Append(models.RoleAssistant, resumeGreeting(c.cfg))
	return c
}

func (c *Controller) Step() Step                     { return c.step }
func (c *Controller) Busy() bool                     { return c.busy }
func (c *Controller) InferredType() models.AgentType { return c.inferred }
func (c *Controller) Messages() []models.Message     { return c.transcript.Messages() }

// Config returns a copy of the config being built.
func (c *Controller) Config() *models.AgentConfig { return c.cfg.Clone() }

func (c *Controller) Phrases() []string { return append([]string(nil), c.phrases...) }

func (c *Controller) SuggestedSources() []string { return append([]string(nil), c.suggested...) }

// NextDelay is the pause to wait between Accept and Advance.
func (c *Controller) NextDelay() time.Duration { return c.pacer.Delay() }

func (c *Controller) Affordance() Affordance {
	a := AffordanceFor(c.step, c.cfg, c.inferred, c.phrases, c.suggested)
	a.Busy = c.busy
	return a
}

// Accept validates in against the current step. On success the user echo is
// appended and the controller is busy until Advance or Cancel.
func (c *Controller) Accept(in Input) error {
	if c.busy {
		return ErrBusy
	}
	p, err := c.plan(in)
	if err != nil {
		c.log.Debug("input rejected", zap.Stringer("step", c.step), zap.Error(err))
		return err
	}
	if p.echo != "" {
		c.transcript.Append(models.RoleUser, p.echo)
	}
	c.pending = p
	c.busy = true
	return nil
}

// Advance runs the pending transition and appends exactly one assistant message.
func (c *Controller) Advance() error {
	if !c.busy || c.pending == nil {
		return ErrNothingPending
	}
	p := c.pending
	c.pending = nil
	c.busy = false

	from := c.step
	reply, next := p.run()
	c.transcript.Append(models.RoleAssistant, reply)
	c.step = next

	c.log.Debug("step advanced", zap.Stringer("from", from), zap.Stringer("to", next))
	return nil
}

// Cancel drops the pending input without replying.
func (c *Controller) Cancel() {
	c.pending = nil
	c.busy = false
}

// Submit accepts and advances with no pause.
func (c *Controller) Submit(in Input) error {
	if err := c.Accept(in); err != nil {
		return err
	}
	return c.Advance()
}

// SubmitPaced waits the pacer's delay between Accept and Advance. A cancelled
// ctx drops the pending input.
func (c *Controller) SubmitPaced(ctx context.Context, in Input) error {
	if err := c.Accept(in); err != nil {
		return err
	}
	if err := c.clock.Sleep(ctx, c.pacer.Delay()); err != nil {
		c.Cancel()
		return err
	}
	return c.Advance()
}

// Apply performs direct edits without touching the transcript.
func (c *Controller) Apply(edits ...Edit) ([]Change, error) {
	if c.busy {
		return nil, ErrBusy
	}
	return c.applyEdits(edits), nil
}

// Finalize checks the config for publishing once the wizard is done.
func (c *Controller) Finalize() (*PublishableAgent, error) {
	if c.step != StepDone {
		return nil, ErrNotDone
	}
	return Finalize(c.cfg)
}

func (c *Controller) applyEdits(edits []Edit) []Change {
	e := &editor{cfg: c.cfg, cats: c.cats}
	changes := make([]Change, 0, len(edits))
	for _, ed := range edits {
		ch := ed.apply(e)
		c.log.Debug("edit", zap.String("summary", ch.Summary), zap.Bool("applied", ch.Applied))
		changes = append(changes, ch)
	}
	return changes
}

func (c *Controller) plan(in Input) (*plan, error) {
	switch c.step {
	case StepStart:
		return c.planStart(in)
	case StepRole, StepResponsibilities, StepCompletion:
		return c.planPersona(in)
	case StepSelectType:
		return c.planSelectType(in)
	case StepConfirmType:
		return c.planConfirmType(in)
	case StepTriggerPhrases:
		return c.planTriggerPhrases(in)
	case StepGuardrails:
		return c.planGuardrails(in)
	case StepSelectSources:
		return c.planSelectSources(in)
	case StepDone:
		return c.planCommand(in)
	}
	return nil, &UnexpectedInputError{Step: c.step, Input: in}
}

func (c *Controller) planStart(in Input) (*plan, error) {
	switch v := in.(type) {
	case Begin:
		return &plan{echo: "Let's get started", run: func() (string, Step) {
			return askRole(""), StepRole
		}}, nil
	case Text:
		text := strings.TrimSpace(v.Value)
		if text == "" {
			return nil, ErrEmptyInput
		}
		return &plan{echo: text, run: func() (string, Step) {
			c.cfg.Description = text
			return askRole(text), StepRole
		}}, nil
	}
	return nil, &UnexpectedInputError{Step: c.step, Input: in}
}

func (c *Controller) planPersona(in Input) (*plan, error) {
	v, ok := in.(Text)
	if !ok {
		return nil, &UnexpectedInputError{Step: c.step, Input: in}
	}
	text := strings.TrimSpace(v.Value)
	if text == "" {
		return nil, ErrEmptyInput
	}

	switch c.step {
	case StepRole:
		return &plan{echo: text, run: func() (string, Step) {
			c.cfg.Role = text
			if strings.TrimSpace(c.cfg.Name) == "" {
				c.cfg.Name = inference.SuggestName(c.cfg)
			}
			return askResponsibilities(text), StepResponsibilities
		}}, nil
	case StepResponsibilities:
		return &plan{echo: text, run: func() (string, Step) {
			c.cfg.Responsibilities = text
			return askCompletion, StepCompletion
		}}, nil
	default:
		return &plan{echo: text, run: func() (string, Step) {
			c.cfg.CompletionCriteria = text
			c.inferred = inference.ClassifyAgentType(c.cfg)
			return suggestType(c.inferred), StepSelectType
		}}, nil
	}
}

func (c *Controller) planSelectType(in Input) (*plan, error) {
	var t models.AgentType
	switch v := in.(type) {
	case ChooseType:
		t = v.Type
	case Text:
		if strings.TrimSpace(v.Value) == "" {
			return nil, ErrEmptyInput
		}
		t = parseTypeText(v.Value)
	}
	if t == models.AgentTypeUnset {
		return nil, &UnexpectedInputError{Step: c.step, Input: in}
	}

	return &plan{echo: t.Label(), run: func() (string, Step) {
		c.cfg.Type = t
		c.cfg.RefreshReadiness()
		return confirmType(t), StepConfirmType
	}}, nil
}

func (c *Controller) planConfirmType(in Input) (*plan, error) {
	confirm := func() (string, Step) {
		c.phrases = inference.GenerateTriggerPhrases(c.cfg)
		c.cfg.ConversationStarters = firstN(c.phrases, models.MaxConversationStarters)
		return showPhrases(c.phrases), StepTriggerPhrases
	}
	adjust := func() (string, Step) {
		return reselectType, StepSelectType
	}

	switch v := in.(type) {
	case ConfirmType:
		return &plan{echo: "Looks good", run: confirm}, nil
	case AdjustType:
		return &plan{echo: "Let me pick a different type", run: adjust}, nil
	case Text:
		switch {
		case isAffirmative(v.Value):
			return &plan{echo: strings.TrimSpace(v.Value), run: confirm}, nil
		case isNegative(v.Value):
			return &plan{echo: strings.TrimSpace(v.Value), run: adjust}, nil
		case strings.TrimSpace(v.Value) == "":
			return nil, ErrEmptyInput
		}
	}
	return nil, &UnexpectedInputError{Step: c.step, Input: in}
}

func (c *Controller) planTriggerPhrases(in Input) (*plan, error) {
	var starters []string
	var echo string
	switch v := in.(type) {
	case AcceptPhrases:
		starters = normalizeStarters(v.Selected)
		if len(starters) == 0 {
			starters = firstN(c.phrases, models.MaxConversationStarters)
		}
		echo = "Use these starters"
	case Text:
		starters = normalizeStarters(splitLines(v.Value))
		if len(starters) == 0 {
			return nil, ErrEmptyInput
		}
		echo = strings.TrimSpace(v.Value)
	default:
		return nil, &UnexpectedInputError{Step: c.step, Input: in}
	}

	return &plan{echo: echo, run: func() (string, Step) {
		c.cfg.ConversationStarters = starters
		return askGuardrails(starters), StepGuardrails
	}}, nil
}

func (c *Controller) planGuardrails(in Input) (*plan, error) {
	var guardrails []string
	switch v := in.(type) {
	case SkipGuardrails:
		guardrails = []string{}
	case Text:
		guardrails = ParseGuardrails(v.Value)
	default:
		return nil, &UnexpectedInputError{Step: c.step, Input: in}
	}

	echo := "None"
	if len(guardrails) > 0 {
		echo = strings.Join(guardrails, ", ")
	}
	return &plan{echo: echo, run: func() (string, Step) {
		c.cfg.Guardrails = guardrails
		if c.cats.Sources != nil {
			c.suggested = inference.SuggestRelevantSources(c.cfg, c.cats.Sources)
		}
		return askSources(c.cfg, c.sourceNames(c.suggested)), StepSelectSources
	}}, nil
}

func (c *Controller) planSelectSources(in Input) (*plan, error) {
	var ids []string
	var reassign bool
	switch v := in.(type) {
	case SelectSources:
		ids, reassign = v.IDs, v.Reassign
	case SkipSources:
		return c.planSkipSources()
	case Text:
		if isSkip(v.Value) {
			return c.planSkipSources()
		}
		ids = c.resolveTokens(v.Value)
	default:
		return nil, &UnexpectedInputError{Step: c.step, Input: in}
	}

	sel, err := c.resolveSelection(ids, reassign)
	if err != nil {
		return nil, err
	}

	echo := "Selected: " + listOrNone(append(append([]string(nil), sel.knowledge...), sel.workflows...))
	return &plan{echo: echo, run: func() (string, Step) {
		for _, name := range sel.knowledge {
			if indexFold(c.cfg.KnowledgeSources, name) < 0 {
				c.cfg.KnowledgeSources = append(c.cfg.KnowledgeSources, name)
			}
		}
		for _, name := range sel.workflows {
			if indexFold(c.cfg.Workflows, name) < 0 {
				c.cfg.Workflows = append(c.cfg.Workflows, name)
			}
		}
		return c.finish()
	}}, nil
}

func (c *Controller) planSkipSources() (*plan, error) {
	if err := c.requirementError(selection{}); err != nil {
		return nil, err
	}
	return &plan{echo: "Skip for now", run: c.finish}, nil
}

func (c *Controller) finish() (string, Step) {
	c.cfg.RefreshReadiness()
	if strings.TrimSpace(c.cfg.Instructions) == "" {
		c.cfg.Instructions = inference.ComposeInstructions(c.cfg)
	}
	return doneSummary(c.cfg), StepDone
}

func (c *Controller) planCommand(in Input) (*plan, error) {
	v, ok := in.(Text)
	if !ok {
		return nil, &UnexpectedInputError{Step: c.step, Input: in}
	}
	text := strings.TrimSpace(v.Value)
	if text == "" {
		return nil, ErrEmptyInput
	}

	edits := ParseCommands(text)
	return &plan{echo: text, run: func() (string, Step) {
		if len(edits) == 0 {
			return HelpMessage, StepDone
		}
		return changesApplied(c.applyEdits(edits)), StepDone
	}}, nil
}

type selection struct {
	knowledge []string
	workflows []string
}

// resolveSelection maps catalog ids to names. Unknown ids are skipped.
func (c *Controller) resolveSelection(ids []string, reassign bool) (selection, error) {
	var sel selection
	var linked []models.Workflow

	for _, id := range ids {
		if c.cats.Sources != nil {
			if src, ok := c.cats.Sources.Source(id); ok {
				if indexFold(sel.knowledge, src.Name) < 0 {
					sel.knowledge = append(sel.knowledge, src.Name)
				}
				continue
			}
		}
		if c.cats.Workflows != nil {
			if wf, ok := c.cats.Workflows.Workflow(id); ok {
				if linkedElsewhere(wf, c.cfg.Name) && !reassign {
					linked = append(linked, wf)
					continue
				}
				if indexFold(sel.workflows, wf.Name) < 0 {
					sel.workflows = append(sel.workflows, wf.Name)
				}
				continue
			}
		}
		c.log.Debug("skipping unknown catalog id", zap.String("id", id))
	}

	if len(linked) > 0 {
		return sel, &LinkedWorkflowError{Workflows: linked}
	}
	return sel, c.requirementError(sel)
}

func (c *Controller) requirementError(sel selection) error {
	switch c.cfg.Type {
	case models.AgentTypeKnowledge:
		if len(sel.knowledge) == 0 && len(c.cfg.KnowledgeSources) == 0 {
			return &SelectionError{Type: c.cfg.Type, Missing: RequireKnowledgeSources}
		}
	case models.AgentTypeWorkflow:
		if len(sel.workflows) == 0 && len(c.cfg.Workflows) == 0 {
			return &SelectionError{Type: c.cfg.Type, Missing: RequireWorkflows}
		}
	}
	return nil
}

// resolveTokens turns typed ids or names into catalog ids.
func (c *Controller) resolveTokens(text string) []string {
	var ids []string
	for _, tok := range strings.FieldsFunc(text, func(r rune) bool { return r == ',' || r == '\n' || r == ';' }) {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		if c.cats.Sources != nil {
			if _, ok := c.cats.Sources.Source(tok); ok {
				ids = append(ids, tok)
				continue
			}
			if src, ok := catalog.SourceByName(c.cats.Sources, tok); ok {
				ids = append(ids, src.ID)
				continue
			}
		}
		if c.cats.Workflows != nil {
			if _, ok := c.cats.Workflows.Workflow(tok); ok {
				ids = append(ids, tok)
				continue
			}
			if wf, ok := catalog.WorkflowByName(c.cats.Workflows, tok); ok {
				ids = append(ids, wf.ID)
			}
		}
	}
	return ids
}

func (c *Controller) sourceNames(ids []string) []string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if src, ok := c.cats.Sources.Source(id); ok {
			names = append(names, src.Name)
		}
	}
	return names
}

var noneWords = map[string]bool{"none": true, "no": true, "nothing": true, "n/a": true, "skip": true, "": true}

// ParseGuardrails splits free text into topics. "none" and blank input mean
// no guardrails. Duplicates are dropped case-insensitively.
func ParseGuardrails(text string) []string {
	if noneWords[normalizeWord(text)] {
		return []string{}
	}
	out := []string{}
	for _, part := range strings.FieldsFunc(text, func(r rune) bool { return r == ',' || r == ';' || r == '\n' }) {
		part = strings.TrimSpace(part)
		if part == "" || indexFold(out, part) >= 0 {
			continue
		}
		out = append(out, part)
	}
	return out
}

func parseTypeText(text string) models.AgentType {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "workflow"):
		return models.AgentTypeWorkflow
	case strings.Contains(lower, "knowledge"):
		return models.AgentTypeKnowledge
	case strings.Contains(lower, "answer"):
		return models.AgentTypeAnswer
	}
	return models.AgentTypeUnset
}

var (
	affirmatives = map[string]bool{
		"yes": true, "y": true, "yep": true, "yeah": true, "ok": true, "okay": true, "sure": true,
		"confirm": true, "correct": true, "looks good": true, "sounds good": true, "continue": true,
	}
	negatives = map[string]bool{
		"no": true, "n": true, "nope": true, "change": true, "change it": true, "adjust": true,
		"different type": true, "go back": true,
	}
)

func isAffirmative(text string) bool { return affirmatives[normalizeWord(text)] }
func isNegative(text string) bool    { return negatives[normalizeWord(text)] }

func isSkip(text string) bool {
	w := normalizeWord(text)
	return w == "skip" || w == "none" || w == "skip for now" || w == "no"
}

func normalizeWord(text string) string {
	return strings.TrimRight(strings.ToLower(strings.TrimSpace(text)), ".!")
}

func splitLines(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool { return r == '\n' || r == ';' })
}

func normalizeStarters(in []string) []string {
	var out []string
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" || indexFold(out, s) >= 0 {
			continue
		}
		out = append(out, s)
		if len(out) == models.MaxConversationStarters {
			break
		}
	}
	return out
}

func firstN(list []string, n int) []string {
	if len(list) > n {
		list = list[:n]
	}
	return append([]string(nil), list...)
}
