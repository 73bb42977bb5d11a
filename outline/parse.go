package outline

import (
	"regexp"
	"strings"

	"github.com/poiesic/scrivener/core"
)

// Source reports how an outline was obtained.
type Source int

const (
	// SourceParsed means the outline was parsed from a model response.
	SourceParsed Source = iota + 1
	// SourceFallback means the default outline was substituted.
	SourceFallback
	// SourceProvided means the caller supplied the outline.
	SourceProvided
)

func (s Source) String() string {
	switch s {
	case SourceParsed:
		return "parsed"
	case SourceFallback:
		return "fallback"
	case SourceProvided:
		return "provided"
	default:
		return "unknown"
	}
}

// Result is an outline together with its provenance.
type Result struct {
	Outline core.Outline
	Source  Source
}

// minPlausibleResponse is the minimum raw response length treated as a
// real plan. Anything shorter gets the default outline.
const minPlausibleResponse = 40

var (
	numberedLineRe = regexp.MustCompile(`^\s*\d+[.)]\s+(.+?)\s*$`)
	headingLineRe  = regexp.MustCompile(`^\s*(#{2,3})\s+(.+?)\s*$`)
)

// Parse extracts an ordered outline from a model response. Recognized
// section markers are numbered lines ("1. Title", "2) Title") and level
// two/three markdown headings. Numbered lines and "##" headings become
// level 1 sections, "###" headings level 2. Returns ok=false when no
// usable section lines are found or the response is implausibly short.
func Parse(response string) (core.Outline, bool) {
	if len(strings.TrimSpace(response)) < minPlausibleResponse {
		return core.Outline{}, false
	}

	var sections []core.Section
	for _, line := range strings.Split(response, "\n") {
		if m := numberedLineRe.FindStringSubmatch(line); m != nil {
			sections = append(sections, core.Section{Title: cleanTitle(m[1]), Level: 1})
			continue
		}
		if m := headingLineRe.FindStringSubmatch(line); m != nil {
			level := 1
			if m[1] == "###" {
				level = 2
			}
			sections = append(sections, core.Section{Title: cleanTitle(m[2]), Level: level})
		}
	}

	if len(sections) == 0 {
		return core.Outline{}, false
	}
	return core.Outline{Sections: sections}, true
}

// cleanTitle strips markdown emphasis and trailing punctuation from a
// parsed section title.
func cleanTitle(title string) string {
	title = strings.Trim(title, "*_` ")
	return strings.TrimRight(title, ".:")
}

// DefaultOutline returns the fixed outline substituted when the model
// response yields no usable plan. The terminal section is a summary so
// the closing memo still gets scheduled.
func DefaultOutline() core.Outline {
	return core.Outline{Sections: []core.Section{
		{Title: "Introduction", Level: 1},
		{Title: "Core Concepts", Level: 1},
		{Title: "Key Procedures", Level: 1},
		{Title: "Common Pitfalls", Level: 1},
		{Title: "Summary", Level: 1},
	}}
}
