package assemble

import (
	"strings"

	"github.com/poiesic/scrivener/core"
)

// Assemble renders the section records into a GeneratedDocument. Records
// must already be in outline order; artifact blocks within each section
// follow the fixed artifact order, and absent artifacts are omitted.
func Assemble(outline core.Outline, records []core.SectionRecord, usage core.UsageSnapshot, author string) *core.GeneratedDocument {
	var sb strings.Builder
	for i, record := range records {
		if i > 0 {
			sb.WriteString("\n")
		}
		renderSection(&sb, sectionFor(outline, i, record), record)
	}

	return &core.GeneratedDocument{
		Outline:  outline,
		Sections: records,
		Markdown: sb.String(),
		Usage:    usage,
		Author:   author,
	}
}

func sectionFor(outline core.Outline, i int, record core.SectionRecord) core.Section {
	if i < len(outline.Sections) {
		return outline.Sections[i]
	}
	return core.Section{Title: record.Title, Level: 1}
}

func renderSection(sb *strings.Builder, section core.Section, record core.SectionRecord) {
	sb.WriteString(headingPrefix(section.Level))
	sb.WriteString(section.Title)
	sb.WriteString("\n\n")

	for _, artifact := range core.ArtifactOrder {
		text, ok := record.Artifacts[artifact]
		if !ok || text == "" {
			continue
		}
		if artifact != core.ArtifactMain {
			sb.WriteString(headingPrefix(section.Level + 1))
			sb.WriteString(artifact.Label())
			sb.WriteString("\n\n")
		}
		sb.WriteString(strings.TrimRight(text, "\n"))
		sb.WriteString("\n\n")
	}
}

func headingPrefix(level int) string {
	if level < 1 {
		level = 1
	}
	// Level 1 sections render as "##" so "#" stays available for a
	// document title prepended by callers.
	return strings.Repeat("#", level+1) + " "
}
