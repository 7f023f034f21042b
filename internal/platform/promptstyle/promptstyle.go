package promptstyle

import "strings"

const marker = "IDEAFORGE_PROMPT_STYLE_V1"

type Mode string

const (
	ModeJSON     Mode = "json"
	ModeMarkdown Mode = "markdown"
)

// ApplySystem prefixes a system prompt with the shared output rules. Applying
// it twice is a no-op.
func ApplySystem(system string, mode Mode) string {
	base := strings.TrimSpace(system)
	if base == "" || strings.Contains(base, marker) {
		return base
	}

	var b strings.Builder
	b.WriteString(marker)
	b.WriteString("\nYou help founders turn a market keyword into a SaaS product.")
	b.WriteString("\nFollow the instructions below exactly and answer in the language of the keyword.")
	b.WriteString("\nGround claims in the research notes when they are provided; never invent statistics, sources or company names.")
	switch mode {
	case ModeJSON:
		b.WriteString("\nReturn one JSON object matching the requested shape, with no prose and no code fences.")
	case ModeMarkdown:
		b.WriteString("\nReturn GitHub-flavored markdown only: # headings, - bullets, 1. numbered steps, **bold** for key terms.")
	}
	b.WriteString("\n---\n")
	b.WriteString(base)
	return b.String()
}
