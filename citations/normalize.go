// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package citations normalizes inline citation markers in generated text.
//
// Language models cite retrieved context inconsistently: "[Source 3]",
// "[source 3]", a trailing "References" block with mixed entry styles.
// Normalize rewrites inline markers to the canonical numeric form "[3]"
// and re-renders any trailing references block as a uniform footnote list.
// The function is pure and idempotent.
package citations

import (
	"regexp"
	"strings"
)

var (
	// inline markers: [Source 3], [source 12]
	sourceMarkerRe = regexp.MustCompile(`\[[Ss]ource\s+(\d+)\]`)

	// heading of a trailing references block: "References", "## References:", "Sources:"
	referencesHeadingRe = regexp.MustCompile(`(?i)^#{0,6}\s*(references|sources)\s*:?\s*$`)

	// reference entry styles: "[3] text", "3. text", "3: text", "Source 3: text"
	entryRe = regexp.MustCompile(`^(?:\[(\d+)\]|(?:[Ss]ource\s+)?(\d+)[.):])\s*(.+)$`)
)

// Normalize rewrites citation markers into canonical numeric form and
// re-attaches a trailing references block, when present, as a footnote
// list. Normalize(Normalize(t)) == Normalize(t) for any t.
func Normalize(text string) string {
	text = sourceMarkerRe.ReplaceAllString(text, "[$1]")

	body, entries := splitReferences(text)
	if entries == nil {
		return strings.TrimRight(body, "\n")
	}

	var sb strings.Builder
	sb.WriteString(strings.TrimRight(body, "\n"))
	sb.WriteString("\n\nReferences:\n")
	for i, entry := range entries {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(entry)
	}
	return sb.String()
}

// splitReferences finds the last references heading in the text and parses
// the block after it into canonical "[n] text" entries. Returns the text
// unchanged with a nil entry slice when no block is present or the heading
// has nothing under it.
func splitReferences(text string) (body string, entries []string) {
	lines := strings.Split(text, "\n")

	headingAt := -1
	for i, line := range lines {
		if referencesHeadingRe.MatchString(strings.TrimSpace(line)) {
			headingAt = i
		}
	}
	if headingAt < 0 {
		return text, nil
	}

	for _, line := range lines[headingAt+1:] {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if m := entryRe.FindStringSubmatch(line); m != nil {
			number := m[1]
			if number == "" {
				number = m[2]
			}
			entries = append(entries, "["+number+"] "+strings.TrimSpace(m[3]))
		} else {
			// Keep unnumbered trailing lines attached to the block so
			// content is never dropped.
			entries = append(entries, line)
		}
	}
	if len(entries) == 0 {
		// A heading with nothing under it stays in the text as-is.
		return text, nil
	}

	return strings.Join(lines[:headingAt], "\n"), entries
}
