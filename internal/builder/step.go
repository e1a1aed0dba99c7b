package builder

import "github.com/mpataki/agentbuilder/internal/models"

type Step int

const (
	StepStart Step = iota
	StepRole
	StepResponsibilities
	StepCompletion
	StepSelectType
	StepConfirmType
	StepTriggerPhrases
	StepGuardrails
	StepSelectSources
	StepDone
)

func (s Step) String() string {
	switch s {
	case StepStart:
		return "start"
	case StepRole:
		return "role"
	case StepResponsibilities:
		return "responsibilities"
	case StepCompletion:
		return "completion"
	case StepSelectType:
		return "select_type"
	case StepConfirmType:
		return "confirm_type"
	case StepTriggerPhrases:
		return "trigger_phrases"
	case StepGuardrails:
		return "guardrails"
	case StepSelectSources:
		return "select_sources"
	case StepDone:
		return "done"
	default:
		return "unknown"
	}
}

type Widget int

const (
	WidgetBeginButton Widget = iota
	WidgetTextInput
	WidgetTypeSelector
	WidgetConfirmType
	WidgetPhrasePicker
	WidgetGuardrailInput
	WidgetSourceSelector
	WidgetCommandInput
)

type SelectorKind int

const (
	SelectorNone SelectorKind = iota
	SelectorKnowledge
	SelectorWorkflows
)

// Affordance describes the input surface for the current step. It is derived,
// never stored.
type Affordance struct {
	Widget      Widget
	Placeholder string

	// type selector
	PreselectedType models.AgentType

	// phrase picker
	Phrases []string

	// source selector
	Selector           SelectorKind
	SuggestedSourceIDs []string
	SelectionRequired  bool

	CanSkip bool

	// Busy disables every action until the pending reply lands.
	Busy bool
}

// AffordanceFor maps a step and the accumulated state to the widget shown.
func AffordanceFor(step Step, cfg *models.AgentConfig, inferred models.AgentType, phrases, suggested []string) Affordance {
	switch step {
	case StepStart:
		return Affordance{Widget: WidgetBeginButton, Placeholder: "Or describe what your agent should help with..."}
	case StepRole:
		return Affordance{Widget: WidgetTextInput, Placeholder: "e.g. an IT helpdesk assistant"}
	case StepResponsibilities:
		return Affordance{Widget: WidgetTextInput, Placeholder: "What should it handle?"}
	case StepCompletion:
		return Affordance{Widget: WidgetTextInput, Placeholder: "What does success look like?"}
	case StepSelectType:
		pre := cfg.Type
		if pre == models.AgentTypeUnset {
			pre = inferred
		}
		return Affordance{Widget: WidgetTypeSelector, PreselectedType: pre}
	case StepConfirmType:
		return Affordance{Widget: WidgetConfirmType, PreselectedType: cfg.Type}
	case StepTriggerPhrases:
		return Affordance{
			Widget:      WidgetPhrasePicker,
			Placeholder: "Type your own starters, one per line",
			Phrases:     append([]string(nil), phrases...),
		}
	case StepGuardrails:
		return Affordance{Widget: WidgetGuardrailInput, Placeholder: "Topics to avoid, comma separated, or \"none\"", CanSkip: true}
	case StepSelectSources:
		a := Affordance{Widget: WidgetSourceSelector}
		switch cfg.Type {
		case models.AgentTypeWorkflow:
			a.Selector = SelectorWorkflows
			a.SelectionRequired = true
		case models.AgentTypeKnowledge:
			a.Selector = SelectorKnowledge
			a.SelectionRequired = true
			a.SuggestedSourceIDs = append([]string(nil), suggested...)
		default:
			a.Selector = SelectorKnowledge
			a.SuggestedSourceIDs = append([]string(nil), suggested...)
			a.CanSkip = true
		}
		return a
	default:
		return Affordance{Widget: WidgetCommandInput, Placeholder: "Tell me what to change, e.g. \"enable web search\""}
	}
}
