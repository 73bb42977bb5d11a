package outline

import (
	"fmt"
	"strings"

	"github.com/poiesic/scrivener/core"
)

const outlineSystemPrompt = `You are an instructional designer planning a training document.

Produce an outline as a flat numbered list of section titles, one per line:

1. First Section Title
2. Second Section Title

Rules:
- Between 4 and 8 sections.
- Titles are short noun phrases, no trailing punctuation.
- Order sections from foundational to advanced.
- The final section must be a summary or conclusion.
- Output ONLY the numbered list. No preamble, no commentary.`

const outlinePromptTemplate = `Plan the outline of a training document.

%s

Relevant excerpts from the source material:

%s

Output the numbered section list now.`

// buildOutlinePrompt combines the background brief with retrieved context
// into the user prompt for the planning call.
func buildOutlinePrompt(background core.Background, chunks []core.ScoredChunk) string {
	var sb strings.Builder
	for i, sc := range chunks {
		if i > 0 {
			sb.WriteString("\n---\n")
		}
		sb.WriteString(sc.Chunk.Text)
	}
	context := sb.String()
	if context == "" {
		context = "(no source excerpts available)"
	}
	return fmt.Sprintf(outlinePromptTemplate, background.Summary(), context)
}

// planningQuery derives the retrieval query used to gather context for
// the planning call.
func planningQuery(background core.Background) string {
	parts := []string{"key topics, concepts, and procedures"}
	if background.Title != "" {
		parts = append(parts, "for "+background.Title)
	}
	if background.Audience != "" {
		parts = append(parts, "relevant to "+background.Audience)
	}
	return strings.Join(parts, " ")
}
