package agents

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"gopkg.in/yaml.v2"
)

//go:embed prompts.yaml
var promptsYAML []byte

// Prompt is a system prompt plus a user prompt template
type Prompt struct {
	System string `yaml:"system"`
	User   string `yaml:"user"`

	userTmpl *template.Template
}

// PromptLibrary holds the prompts used by the analysts
type PromptLibrary struct {
	StockAnalysis Prompt `yaml:"stock_analysis"`
}

// PromptData is the data available to user prompt templates
type PromptData struct {
	Ticker string
	Today  string
}

// ParsePrompts decodes a prompt library from YAML and compiles its templates
func ParsePrompts(data []byte) (*PromptLibrary, error) {
	var lib PromptLibrary
	if err := yaml.Unmarshal(data, &lib); err != nil {
		return nil, fmt.Errorf("failed to parse prompts: %w", err)
	}

	p := &lib.StockAnalysis
	if strings.TrimSpace(p.System) == "" || strings.TrimSpace(p.User) == "" {
		return nil, fmt.Errorf("stock_analysis prompt requires system and user text")
	}

	tmpl, err := template.New("stock_analysis").Option("missingkey=error").Parse(p.User)
	if err != nil {
		return nil, fmt.Errorf("failed to compile stock_analysis user prompt: %w", err)
	}
	p.userTmpl = tmpl

	return &lib, nil
}

// DefaultPrompts returns the prompt library embedded in the binary
func DefaultPrompts() *PromptLibrary {
	lib, err := ParsePrompts(promptsYAML)
	if err != nil {
		panic(err)
	}
	return lib
}

// RenderUser executes the user prompt template
func (p *Prompt) RenderUser(data PromptData) (string, error) {
	if p.userTmpl == nil {
		return "", fmt.Errorf("prompt template not compiled")
	}

	var buf bytes.Buffer
	if err := p.userTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render user prompt: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}
