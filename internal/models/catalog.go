package models

type SourceKind string

const (
	SourceKindUpload     SourceKind = "upload"
	SourceKindConnection SourceKind = "connection"
)

type KnowledgeSource struct {
	ID          string     `yaml:"id" json:"id"`
	Name        string     `yaml:"name" json:"name"`
	Description string     `yaml:"description" json:"description"`
	Kind        SourceKind `yaml:"kind" json:"kind"`
	Tags        []string   `yaml:"tags" json:"tags"`
}

type Workflow struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	Category    string `yaml:"category" json:"category"`
	LinkedAgent string `yaml:"linked_agent,omitempty" json:"linked_agent,omitempty"`
}

type Icon struct {
	ID    string `yaml:"id" json:"id"`
	Name  string `yaml:"name" json:"name"`
	Glyph string `yaml:"glyph" json:"glyph"`
}

type IconColor struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
	Hex  string `yaml:"hex" json:"hex"`
}
