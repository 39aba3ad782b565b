package llm

import (
	"strings"
	"text/template"
)

const promptLayout = `{{.Persona}}

Question: {{.Question}}`

// PromptTemplate fills a fixed persona preamble around the user's question.
type PromptTemplate struct {
	persona string
	tmpl    *template.Template
}

func NewPromptTemplate(persona string) *PromptTemplate {
	return &PromptTemplate{
		persona: persona,
		tmpl:    template.Must(template.New("prompt").Parse(promptLayout)),
	}
}

func (p *PromptTemplate) Render(question string) (string, error) {
	var sb strings.Builder
	err := p.tmpl.Execute(&sb, struct {
		Persona  string
		Question string
	}{p.persona, question})
	if err != nil {
		return "", err
	}
	return sb.String(), nil
}
