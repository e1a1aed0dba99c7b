// Package catalog holds the read-only knowledge source, workflow and icon
// catalogs the builder queries. Implementations never mutate on query.
package catalog

import (
	"strings"

	"github.com/mpataki/agentbuilder/internal/models"
)

type KnowledgeSourceCatalog interface {
	Sources() []models.KnowledgeSource
	Source(id string) (models.KnowledgeSource, bool)
}

type WorkflowCatalog interface {
	Workflows() []models.Workflow
	Workflow(id string) (models.Workflow, bool)
}

type IconCatalog interface {
	Icons() []models.Icon
	Colors() []models.IconColor
	Icon(id string) (models.Icon, bool)
	Color(id string) (models.IconColor, bool)
}

// Static is an in-memory catalog. Lookups by id are linear; catalogs are small.
type Static struct {
	sources   []models.KnowledgeSource
	workflows []models.Workflow
	icons     []models.Icon
	colors    []models.IconColor
}

func NewStatic(sources []models.KnowledgeSource, workflows []models.Workflow, icons []models.Icon, colors []models.IconColor) *Static {
	return &Static{
		sources:   append([]models.KnowledgeSource(nil), sources...),
		workflows: append([]models.Workflow(nil), workflows...),
		icons:     append([]models.Icon(nil), icons...),
		colors:    append([]models.IconColor(nil), colors...),
	}
}

func (s *Static) Sources() []models.KnowledgeSource {
	out := make([]models.KnowledgeSource, len(s.sources))
	for i, src := range s.sources {
		src.Tags = append([]string(nil), src.Tags...)
		out[i] = src
	}
	return out
}

func (s *Static) Source(id string) (models.KnowledgeSource, bool) {
	for _, src := range s.sources {
		if src.ID == id {
			src.Tags = append([]string(nil), src.Tags...)
			return src, true
		}
	}
	return models.KnowledgeSource{}, false
}

func (s *Static) Workflows() []models.Workflow {
	return append([]models.Workflow(nil), s.workflows...)
}

func (s *Static) Workflow(id string) (models.Workflow, bool) {
	for _, wf := range s.workflows {
		if wf.ID == id {
			return wf, true
		}
	}
	return models.Workflow{}, false
}

func (s *Static) Icons() []models.Icon {
	return append([]models.Icon(nil), s.icons...)
}

func (s *Static) Colors() []models.IconColor {
	return append([]models.IconColor(nil), s.colors...)
}

func (s *Static) Icon(id string) (models.Icon, bool) {
	for _, icon := range s.icons {
		if icon.ID == id {
			return icon, true
		}
	}
	return models.Icon{}, false
}

func (s *Static) Color(id string) (models.IconColor, bool) {
	for _, c := range s.colors {
		if c.ID == id {
			return c, true
		}
	}
	return models.IconColor{}, false
}

// SourceByName resolves a source by case-insensitive name.
func SourceByName(c KnowledgeSourceCatalog, name string) (models.KnowledgeSource, bool) {
	for _, src := range c.Sources() {
		if strings.EqualFold(src.Name, strings.TrimSpace(name)) {
			return src, true
		}
	}
	return models.KnowledgeSource{}, false
}

// WorkflowByName resolves a workflow by case-insensitive name.
func WorkflowByName(c WorkflowCatalog, name string) (models.Workflow, bool) {
	for _, wf := range c.Workflows() {
		if strings.EqualFold(wf.Name, strings.TrimSpace(name)) {
			return wf, true
		}
	}
	return models.Workflow{}, false
}

// SearchSources filters by substring on name, description and tags.
// An empty query returns everything.
func SearchSources(c KnowledgeSourceCatalog, query string) []models.KnowledgeSource {
	q := strings.ToLower(strings.TrimSpace(query))
	var out []models.KnowledgeSource
	for _, src := range c.Sources() {
		if q == "" || matchesAny(q, append([]string{src.Name, src.Description}, src.Tags...)) {
			out = append(out, src)
		}
	}
	return out
}

// SearchWorkflows filters by substring on name, description and category.
func SearchWorkflows(c WorkflowCatalog, query string) []models.Workflow {
	q := strings.ToLower(strings.TrimSpace(query))
	var out []models.Workflow
	for _, wf := range c.Workflows() {
		if q == "" || matchesAny(q, []string{wf.Name, wf.Description, wf.Category}) {
			out = append(out, wf)
		}
	}
	return out
}

func matchesAny(q string, fields []string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}
