package inference

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mpataki/agentbuilder/internal/catalog"
	"github.com/mpataki/agentbuilder/internal/models"
)

const MaxSuggestedSources = 5

type SourceScore struct {
	Source models.KnowledgeSource
	Score  int
}

// ScoreSources returns every source with a positive score, best first.
// Ties keep catalog order.
func ScoreSources(cfg *models.AgentConfig, sources catalog.KnowledgeSourceCatalog) []SourceScore {
	text := strings.ToLower(cfg.Description + " " + cfg.Role + " " + cfg.Responsibilities)

	var scored []SourceScore
	for _, src := range sources.Sources() {
		score := scoreSource(text, src)
		if score > 0 {
			scored = append(scored, SourceScore{Source: src, Score: score})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}

// SuggestRelevantSources returns up to five source ids ranked by ScoreSources.
func SuggestRelevantSources(cfg *models.AgentConfig, sources catalog.KnowledgeSourceCatalog) []string {
	scored := ScoreSources(cfg, sources)
	if len(scored) > MaxSuggestedSources {
		scored = scored[:MaxSuggestedSources]
	}

	ids := make([]string, 0, len(scored))
	for _, s := range scored {
		ids = append(ids, s.Source.ID)
	}
	return ids
}

func scoreSource(text string, src models.KnowledgeSource) int {
	score := 0
	for _, tag := range src.Tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag != "" && strings.Contains(text, tag) {
			score += 2
		}
	}

	if name := strings.ToLower(strings.TrimSpace(src.Name)); name != "" && strings.Contains(text, name) {
		score += 3
	}

	for _, word := range strings.Fields(strings.ToLower(src.Description)) {
		word = strings.TrimFunc(word, func(r rune) bool {
			return unicode.IsPunct(r) || unicode.IsSymbol(r)
		})
		if utf8.RuneCountInString(word) > 3 && strings.Contains(text, word) {
			score++
		}
	}
	return score
}
