package llm

import (
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

const (
	PromptAskQuestion  = "ask_question"
	PromptGetRoadmap   = "get_roadmap"
	PromptRateQuestion = "rate_question"
)

//go:embed prompts.yaml
var promptsYAML []byte

type promptDef struct {
	System string `yaml:"system"`
	User   string `yaml:"user"`
}

type prompt struct {
	system *template.Template
	user   *template.Template
}

// Prompts is the parsed prompt catalog.
type Prompts struct {
	byName map[string]prompt
}

func LoadPrompts() (*Prompts, error) {
	return parsePrompts(promptsYAML)
}

func MustLoadPrompts() *Prompts {
	p, err := LoadPrompts()
	if err != nil {
		panic(err)
	}
	return p
}

func parsePrompts(data []byte) (*Prompts, error) {
	var defs map[string]promptDef
	if err := yaml.Unmarshal(data, &defs); err != nil {
		return nil, fmt.Errorf("parse prompts: %w", err)
	}

	out := &Prompts{byName: make(map[string]prompt, len(defs))}
	for name, s := range defs {
		if strings.TrimSpace(s.User) == "" {
			return nil, fmt.Errorf("prompt %s: empty user template", name)
		}
		var p prompt
		var err error
		if p.user, err = template.New(name + ".user").Option("missingkey=error").Parse(s.User); err != nil {
			return nil, fmt.Errorf("prompt %s: %w", name, err)
		}
		if s.System != "" {
			if p.system, err = template.New(name + ".system").Option("missingkey=error").Parse(s.System); err != nil {
				return nil, fmt.Errorf("prompt %s: %w", name, err)
			}
		}
		out.byName[name] = p
	}
	return out, nil
}

// Render fills the named prompt with params and returns a Request without a
// schema.
func (p *Prompts) Render(name string, params map[string]string) (Request, error) {
	tpl, ok := p.byName[name]
	if !ok {
		return Request{}, fmt.Errorf("unknown prompt %q", name)
	}

	var req Request
	var sb strings.Builder
	if err := tpl.user.Execute(&sb, params); err != nil {
		return Request{}, fmt.Errorf("render %s: %w", name, err)
	}
	req.Prompt = sb.String()

	if tpl.system != nil {
		sb.Reset()
		if err := tpl.system.Execute(&sb, params); err != nil {
			return Request{}, fmt.Errorf("render %s system: %w", name, err)
		}
		req.System = sb.String()
	}
	return req, nil
}
