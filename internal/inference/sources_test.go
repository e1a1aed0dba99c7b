package inference

import (
	"encoding/json"
	"testing"

	"github.com/mpataki/agentbuilder/internal/catalog"
	"github.com/mpataki/agentbuilder/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestRelevantSourcesFindsNamedSource(t *testing.T) {
	cfg := &models.AgentConfig{Description: "Answer questions using the HR Policies"}

	scores := ScoreSources(cfg, catalog.Builtin())
	require.NotEmpty(t, scores)
	assert.Equal(t, "ks-hr-policies", scores[0].Source.ID)
	assert.GreaterOrEqual(t, scores[0].Score, 3)

	assert.Contains(t, SuggestRelevantSources(cfg, catalog.Builtin()), "ks-hr-policies")
}

func TestSuggestRelevantSourcesLimitsAndFilters(t *testing.T) {
	cfg := &models.AgentConfig{
		Description:      "hr policy benefits onboarding handbook",
		Role:             "it technical security documents wiki",
		Responsibilities: "sales facilities office",
	}
	c := catalog.Builtin()

	ids := SuggestRelevantSources(cfg, c)
	assert.Len(t, ids, MaxSuggestedSources)

	scores := make(map[string]int)
	for _, s := range ScoreSources(cfg, c) {
		scores[s.Source.ID] = s.Score
	}
	for _, id := range ids {
		assert.Positive(t, scores[id], id)
	}
	assert.Greater(t, len(scores), MaxSuggestedSources)
}

func TestSuggestRelevantSourcesEmptyConfig(t *testing.T) {
	assert.Empty(t, SuggestRelevantSources(&models.AgentConfig{}, catalog.Builtin()))
}

func TestSuggestRelevantSourcesIsIdempotent(t *testing.T) {
	cfg := &models.AgentConfig{Role: "IT helpdesk", Responsibilities: "password resets and laptop software issues"}
	c := catalog.Builtin()

	first := SuggestRelevantSources(cfg, c)
	require.NotEmpty(t, first)
	assert.Equal(t, first, SuggestRelevantSources(cfg, c))
}

func TestScoreSourcesTiesKeepCatalogOrder(t *testing.T) {
	c := catalog.NewStatic([]models.KnowledgeSource{
		{ID: "b", Name: "Beta", Tags: []string{"alpha"}},
		{ID: "a", Name: "Alpha"},
		{ID: "c", Name: "Gamma", Tags: []string{"alpha"}},
	}, nil, nil, nil)

	// b: tag +2, a: name +3, c: tag +2
	got := SuggestRelevantSources(&models.AgentConfig{Description: "alpha"}, c)
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestScoreSourceComponents(t *testing.T) {
	src := models.KnowledgeSource{
		Name:        "Payroll Guide",
		Description: "Payroll schedules, deductions and tax.",
		Tags:        []string{"payroll", "tax"},
	}

	// tags: payroll +2, tax +2; name +3; words: payroll +1, schedules +1, deductions +1 ("and", "tax" are too short)
	text := "payroll guide with schedules and deductions for tax"
	assert.Equal(t, 10, scoreSource(text, src))
	assert.Equal(t, 0, scoreSource("nothing relevant", src))
}

func TestInferenceSurvivesJSONRoundTrip(t *testing.T) {
	cfg := &models.AgentConfig{
		Name:               "Benefits Buddy",
		Description:        "Answers benefits questions from the HR Policies",
		Role:               "HR benefits specialist",
		Responsibilities:   "explain insurance options based on the handbook",
		CompletionCriteria: "the employee understands their options",
		Type:               models.AgentTypeKnowledge,
		KnowledgeSources:   []string{"HR Policies"},
		Guardrails:         []string{"salary"},
	}

	data, err := json.Marshal(cfg)
	require.NoError(t, err)
	var back models.AgentConfig
	require.NoError(t, json.Unmarshal(data, &back))

	c := catalog.Builtin()
	assert.Equal(t, ClassifyAgentType(cfg), ClassifyAgentType(&back))
	assert.Equal(t, SuggestRelevantSources(cfg, c), SuggestRelevantSources(&back, c))
	assert.Equal(t, SynthesizeResponse("what is my salary?", cfg), SynthesizeResponse("what is my salary?", &back))
	assert.Equal(t, *cfg, back)
}
