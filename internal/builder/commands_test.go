package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mpataki/agentbuilder/internal/models"
)

func TestParseCommands(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Edit
	}{
		{
			name: "rename",
			in:   `Rename to "Helpy".`,
			want: []Edit{Rename{Name: "Helpy"}},
		},
		{
			name: "call it",
			in:   "call it Benefits Buddy",
			want: []Edit{Rename{Name: "Benefits Buddy"}},
		},
		{
			name: "description",
			in:   "set description to Answers HR questions",
			want: []Edit{SetDescription{Text: "Answers HR questions"}},
		},
		{
			name: "append description",
			in:   "append to description Available 24/7!",
			want: []Edit{AppendDescription{Text: "Available 24/7"}},
		},
		{
			name: "starters",
			in:   "add starter How do I reset my password?; remove starter vpn",
			want: []Edit{AddStarter{Text: "How do I reset my password?"}, RemoveStarter{Match: "vpn"}},
		},
		{
			name: "guardrail keeps inner and",
			in:   "add guardrail salary and compensation",
			want: []Edit{AddGuardrail{Topic: "salary and compensation"}},
		},
		{
			name: "block topic",
			in:   "block topic politics",
			want: []Edit{AddGuardrail{Topic: "politics"}},
		},
		{
			name: "capabilities",
			in:   "turn off web search and enable image generation",
			want: []Edit{
				SetCapability{Capability: CapabilityWebSearch, Enabled: false},
				SetCapability{Capability: CapabilityImageGeneration, Enabled: true},
			},
		},
		{
			name: "workspace content",
			in:   "Enable workspace content",
			want: []Edit{SetCapability{Capability: CapabilityWorkspaceContent, Enabled: true}},
		},
		{
			name: "type change",
			in:   "make it a workflow agent",
			want: []Edit{ChangeType{Type: models.AgentTypeWorkflow}},
		},
		{
			name: "pattern order wins over input order",
			in:   "enable web search\nrename to Ada",
			want: []Edit{Rename{Name: "Ada"}, SetCapability{Capability: CapabilityWebSearch, Enabled: true}},
		},
		{
			name: "one edit per pattern",
			in:   "add guardrail a; add guardrail b",
			want: []Edit{AddGuardrail{Topic: "a"}},
		},
		{
			name: "renamed value is not read as a toggle",
			in:   "rename to Turn Off Web Search Bot",
			want: []Edit{Rename{Name: "Turn Off Web Search Bot"}},
		},
		{
			name: "description value is not read as a rename",
			in:   "set description to Call it when your laptop breaks",
			want: []Edit{SetDescription{Text: "Call it when your laptop breaks"}},
		},
		{
			name: "starter value is not read as a toggle",
			in:   "add starter How do I enable web search?",
			want: []Edit{AddStarter{Text: "How do I enable web search?"}},
		},
		{
			name: "guardrail value is not read as a type change",
			in:   "add guardrail requests to switch to a workflow agent",
			want: []Edit{AddGuardrail{Topic: "requests to switch to a workflow agent"}},
		},
		{
			name: "nothing recognised",
			in:   "what a lovely day",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCommands(tt.in))
		})
	}
}

func TestSplitClauses(t *testing.T) {
	assert.Equal(t,
		[]string{"rename to Salt and Pepper", "enable web search"},
		splitClauses("rename to Salt and Pepper and enable web search"))
	assert.Equal(t, []string{"a", "b"}, splitClauses("a;\nb"))
}
