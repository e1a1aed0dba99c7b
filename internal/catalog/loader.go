package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mpataki/agentbuilder/internal/models"
	"gopkg.in/yaml.v3"
)

// File is the on-disk shape of a catalog override file.
type File struct {
	KnowledgeSources []models.KnowledgeSource `yaml:"knowledge_sources"`
	Workflows        []models.Workflow        `yaml:"workflows"`
}

func Parse(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog YAML: %w", err)
	}

	for i, src := range f.KnowledgeSources {
		if src.Kind == "" {
			f.KnowledgeSources[i].Kind = models.SourceKindUpload
		}
	}

	return &f, nil
}

// LoadAll merges every YAML file found in dirs over base. Entries with an id
// already in the catalog replace it in place; new ids are appended.
func LoadAll(base *Static, dirs []string) (*Static, error) {
	merged := NewStatic(base.sources, base.workflows, base.icons, base.colors)

	for _, dir := range dirs {
		if err := loadFromDir(dir, merged); err != nil {
			// Skip directories that don't exist
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
	}

	return merged, nil
}

func loadFromDir(dir string, into *Static) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}

		path := filepath.Join(dir, name)
		f, err := Parse(path)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
		if err := Validate(f); err != nil {
			return fmt.Errorf("invalid catalog %s: %w", path, err)
		}

		for _, src := range f.KnowledgeSources {
			into.putSource(src)
		}
		for _, wf := range f.Workflows {
			into.putWorkflow(wf)
		}
	}

	return nil
}

func Validate(f *File) error {
	seen := make(map[string]bool)
	for _, src := range f.KnowledgeSources {
		if src.ID == "" {
			return fmt.Errorf("knowledge source must have an id")
		}
		if src.Name == "" {
			return fmt.Errorf("knowledge source %q must have a name", src.ID)
		}
		if src.Kind != models.SourceKindUpload && src.Kind != models.SourceKindConnection {
			return fmt.Errorf("knowledge source %q has unknown kind %q", src.ID, src.Kind)
		}
		if seen[src.ID] {
			return fmt.Errorf("duplicate id %q", src.ID)
		}
		seen[src.ID] = true
	}

	for _, wf := range f.Workflows {
		if wf.ID == "" {
			return fmt.Errorf("workflow must have an id")
		}
		if wf.Name == "" {
			return fmt.Errorf("workflow %q must have a name", wf.ID)
		}
		if seen[wf.ID] {
			return fmt.Errorf("duplicate id %q", wf.ID)
		}
		seen[wf.ID] = true
	}

	return nil
}

func (s *Static) putSource(src models.KnowledgeSource) {
	for i := range s.sources {
		if s.sources[i].ID == src.ID {
			s.sources[i] = src
			return
		}
	}
	s.sources = append(s.sources, src)
}

func (s *Static) putWorkflow(wf models.Workflow) {
	for i := range s.workflows {
		if s.workflows[i].ID == wf.ID {
			s.workflows[i] = wf
			return
		}
	}
	s.workflows = append(s.workflows, wf)
}
