// Package export writes published agents to disk as a portable bundle.
package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/mpataki/agentbuilder/internal/models"
)

const (
	AgentFile      = "AGENT.md"
	ConfigFile     = "agent.json"
	TranscriptFile = "transcript.json"

	frontMatterDelim = "---"
)

var ErrNoFrontMatter = errors.New("missing front matter")

// Bundle is the set of files written for one agent.
type Bundle struct {
	Dir            string
	AgentPath      string
	ConfigPath     string
	TranscriptPath string
}

// FrontMatter is the YAML header of AGENT.md.
type FrontMatter struct {
	ID               string    `yaml:"id"`
	Name             string    `yaml:"name"`
	Description      string    `yaml:"description,omitempty"`
	Type             string    `yaml:"type"`
	Role             string    `yaml:"role,omitempty"`
	KnowledgeSources []string  `yaml:"knowledge_sources,omitempty"`
	Workflows        []string  `yaml:"workflows,omitempty"`
	Guardrails       []string  `yaml:"guardrails,omitempty"`
	Starters         []string  `yaml:"conversation_starters,omitempty"`
	Icon             string    `yaml:"icon,omitempty"`
	IconColor        string    `yaml:"icon_color,omitempty"`
	WebSearch        bool      `yaml:"web_search"`
	ImageGeneration  bool      `yaml:"image_generation"`
	WorkspaceContent bool      `yaml:"use_all_workspace_content"`
	CreatedAt        time.Time `yaml:"created_at"`
	UpdatedAt        time.Time `yaml:"updated_at"`
}

// Write creates <baseDir>/<slug>/ and writes the agent's bundle into it,
// overwriting a previous export of the same name.
func Write(baseDir string, agent *models.PublishedAgent) (*Bundle, error) {
	dir := filepath.Join(baseDir, Slug(agent.Config.Name))
	b := &Bundle{
		Dir:            dir,
		AgentPath:      filepath.Join(dir, AgentFile),
		ConfigPath:     filepath.Join(dir, ConfigFile),
		TranscriptPath: filepath.Join(dir, TranscriptFile),
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}

	doc, err := renderAgentDoc(agent)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(b.AgentPath, doc, 0644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", AgentFile, err)
	}

	if err := writeJSON(b.ConfigPath, agent.Config); err != nil {
		return nil, err
	}

	transcript := agent.Transcript
	if transcript == nil {
		transcript = []models.Message{}
	}
	if err := writeJSON(b.TranscriptPath, transcript); err != nil {
		return nil, err
	}

	return b, nil
}

func renderAgentDoc(agent *models.PublishedAgent) ([]byte, error) {
	cfg := agent.Config
	fm := FrontMatter{
		ID:               agent.ID,
		Name:             cfg.Name,
		Description:      cfg.Description,
		Type:             cfg.Type.String(),
		Role:             cfg.Role,
		KnowledgeSources: cfg.KnowledgeSources,
		Workflows:        cfg.Workflows,
		Guardrails:       cfg.Guardrails,
		Starters:         cfg.ConversationStarters,
		Icon:             cfg.IconID,
		IconColor:        cfg.IconColorID,
		WebSearch:        cfg.WebSearch,
		ImageGeneration:  cfg.ImageGeneration,
		WorkspaceContent: cfg.UseAllWorkspaceContent,
		CreatedAt:        agent.CreatedAt,
		UpdatedAt:        agent.UpdatedAt,
	}

	header, err := yaml.Marshal(&fm)
	if err != nil {
		return nil, fmt.Errorf("failed to encode front matter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString(frontMatterDelim + "\n")
	buf.Write(header)
	buf.WriteString(frontMatterDelim + "\n\n")
	fmt.Fprintf(&buf, "# %s\n\n", cfg.Name)
	if cfg.Description != "" {
		fmt.Fprintf(&buf, "%s\n\n", cfg.Description)
	}
	buf.WriteString("## Instructions\n\n")
	buf.WriteString(strings.TrimSpace(cfg.Instructions))
	buf.WriteString("\n")

	return buf.Bytes(), nil
}

// ReadAgentDoc parses an AGENT.md written by Write.
func ReadAgentDoc(path string) (*FrontMatter, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	text := string(data)
	if !strings.HasPrefix(text, frontMatterDelim+"\n") {
		return nil, "", ErrNoFrontMatter
	}
	rest := text[len(frontMatterDelim)+1:]
	end := strings.Index(rest, "\n"+frontMatterDelim+"\n")
	if end < 0 {
		return nil, "", ErrNoFrontMatter
	}

	var fm FrontMatter
	if err := yaml.Unmarshal([]byte(rest[:end]), &fm); err != nil {
		return nil, "", fmt.Errorf("failed to parse front matter: %w", err)
	}
	body := strings.TrimSpace(rest[end+len(frontMatterDelim)+2:])
	return &fm, body, nil
}

// Slug turns a display name into a directory name.
func Slug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	slug := strings.TrimRight(b.String(), "-")
	if slug == "" {
		return "agent"
	}
	return slug
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}
