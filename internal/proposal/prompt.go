package proposal

import (
	"fmt"
	"strings"

	"github.com/Ravou/Neurograph/internal/graph"
	"github.com/Ravou/Neurograph/internal/retrieval"
)

// systemPrompt instructs the model to emit one JSON object matching
// IncidentExtraction. Severity words are passed through verbatim so the
// resolver's lexical table stays the single source of truth for levels.
const systemPrompt = `You are an incident triage assistant for a cloud operations team.
Extract a structured incident from the user's report.

Respond with a single JSON object and nothing else:
{
  "title": "short incident title",
  "description": "one paragraph description of the problem",
  "category": "category name, or empty string",
  "subcategory": "subcategory name, or empty string",
  "urgency": "the urgency word used in the report (e.g. critical, high, medium, low), or empty string",
  "impact": "the impact wording used in the report, or empty string",
  "service": "affected business service name, or empty string",
  "resources": ["affected resource names"],
  "assignee": "suggested assignee name, or empty string"
}

Use the graph context below to prefer names of entities that already exist.
Do not invent severity words that are not in the report.`

// buildUserPrompt assembles the report plus a bounded textual context bundle
// of retrieval matches and recent open incidents. Only ids, names, and types
// are included.
func buildUserPrompt(userText string, matches []retrieval.Match, recent []graph.Node) string {
	var b strings.Builder

	b.WriteString("Incident report:\n")
	b.WriteString(userText)
	b.WriteString("\n")

	if len(matches) > 0 {
		b.WriteString("\nKnown graph entities that may be related:\n")
		for _, m := range matches {
			fmt.Fprintf(&b, "- [%s] %s: %s\n", m.Label, m.Key, m.Name)
		}
	}

	if len(recent) > 0 {
		b.WriteString("\nRecent open incidents:\n")
		for _, n := range recent {
			title, _ := n.Props["title"].(string)
			status, _ := n.Props["status"].(string)
			key, _ := n.Props["key"].(string)
			fmt.Fprintf(&b, "- [Incident] %s (%s): %s\n", key, status, title)
		}
	}

	return b.String()
}
