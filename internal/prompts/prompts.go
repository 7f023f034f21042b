package prompts

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/daleyoon76/saas-idea-generator/internal/platform/promptstyle"
)

const (
	Ideas = "ideas"
	Plan  = "plan"
	PRD   = "prd"
)

//go:embed prompts.yaml
var embeddedPrompts []byte

type IdeaData struct {
	Name        string
	Description string
}

// Data is the template input shared by every prompt.
type Data struct {
	Keyword  string
	Preset   string
	Count    int
	Research string
	Plan     string
	Idea     IdeaData
}

type Rendered struct {
	System string
	User   string
	Mode   promptstyle.Mode
}

type entry struct {
	Mode   string `yaml:"mode"`
	System string `yaml:"system"`
	User   string `yaml:"user"`
}

type prompt struct {
	mode   promptstyle.Mode
	system string
	user   *template.Template
}

type Catalog struct {
	prompts map[string]*prompt
}

func LoadEmbedded() (*Catalog, error) {
	return Parse(embeddedPrompts)
}

// Parse reads a YAML catalog of name -> {mode, system, user}.
func Parse(raw []byte) (*Catalog, error) {
	var entries map[string]entry
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse prompts: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("parse prompts: catalog is empty")
	}
	c := &Catalog{prompts: make(map[string]*prompt, len(entries))}
	for name, e := range entries {
		if strings.TrimSpace(e.User) == "" {
			return nil, fmt.Errorf("prompt %q: user template is empty", name)
		}
		tmpl, err := template.New(name).Option("missingkey=error").Parse(e.User)
		if err != nil {
			return nil, fmt.Errorf("prompt %q: %w", name, err)
		}
		c.prompts[name] = &prompt{
			mode:   promptstyle.Mode(strings.ToLower(strings.TrimSpace(e.Mode))),
			system: e.System,
			user:   tmpl,
		}
	}
	return c, nil
}

func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.prompts))
	for n := range c.prompts {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (c *Catalog) Render(name string, data Data) (*Rendered, error) {
	p, ok := c.prompts[name]
	if !ok {
		return nil, fmt.Errorf("unknown prompt %q", name)
	}
	var b strings.Builder
	if err := p.user.Execute(&b, data); err != nil {
		return nil, fmt.Errorf("render prompt %q: %w", name, err)
	}
	return &Rendered{
		System: promptstyle.ApplySystem(p.system, p.mode),
		User:   strings.TrimSpace(b.String()),
		Mode:   p.mode,
	}, nil
}
