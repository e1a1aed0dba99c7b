package builder

import "github.com/mpataki/agentbuilder/internal/models"

// Input is one user action. The set of variants is closed.
type Input interface {
	isInput()
}

// Text is free text typed by the user.
type Text struct{ Value string }

// Begin is the "get started" button on the greeting.
type Begin struct{}

type ChooseType struct{ Type models.AgentType }

type ConfirmType struct{}

// AdjustType goes back from confirm_type to select_type.
type AdjustType struct{}

// AcceptPhrases keeps the suggested starters, or the Selected subset if given.
type AcceptPhrases struct{ Selected []string }

// SkipGuardrails is equivalent to Text{"none"} at the guardrails step.
type SkipGuardrails struct{}

// SelectSources binds catalog ids. Workflows linked to another agent are only
// bound when Reassign is set.
type SelectSources struct {
	IDs      []string
	Reassign bool
}

// SkipSources is only accepted for Answer agents.
type SkipSources struct{}

func (Text) isInput()           {}
func (Begin) isInput()          {}
func (ChooseType) isInput()     {}
func (ConfirmType) isInput()    {}
func (AdjustType) isInput()     {}
func (AcceptPhrases) isInput()  {}
func (SkipGuardrails) isInput() {}
func (SelectSources) isInput()  {}
func (SkipSources) isInput()    {}
