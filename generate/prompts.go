package generate

import (
	"fmt"

	"github.com/poiesic/scrivener/core"
)

const sectionSystemPrompt = `You are a corporate training content writer. You write clear,
practical material grounded strictly in the source excerpts you are given.
Cite excerpts inline with bracketed numbers like [1]. Do not invent facts
that the excerpts do not support. Output only the requested content, no
preamble.`

var artifactInstructions = map[core.ArtifactType]string{
	core.ArtifactMain: `Write the main teaching content for this section: explain the
concepts, why they matter, and how they are applied. Use short paragraphs
and, where helpful, bullet lists.`,
	core.ArtifactPractice: `Write 3-5 hands-on practice exercises for this section. Each
exercise states a task, the steps to perform, and what a correct outcome
looks like.`,
	core.ArtifactCaseStudy: `Write one realistic workplace case study illustrating this
section's material: the situation, the decisions taken, and the lessons
learned.`,
	core.ArtifactQuiz: `Write a short quiz of 4-6 questions checking understanding of this
section. Mix multiple-choice and short-answer questions and include an
answer key at the end.`,
	core.ArtifactClosingMemo: `Write a brief closing memo that wraps up the whole document:
recap the key takeaways and tell the reader what to do next.`,
}

const artifactPromptTemplate = `%s

Document background:
%s
Section: %s

Source excerpts:

%s`

func buildArtifactPrompt(background core.Background, section core.Section, artifact core.ArtifactType, context string) string {
	if context == "" {
		context = "(no source excerpts available)"
	}
	return fmt.Sprintf(artifactPromptTemplate,
		artifactInstructions[artifact], background.Summary(), section.Title, context)
}

const reviewSystemPrompt = `You are an editor reviewing training material. Improve clarity,
fix factual inconsistencies with the stated section topic, tighten wording,
and keep all bracketed citation markers exactly where they are. Output only
the revised text, nothing else.`

const reviewPromptTemplate = `Review and revise the following %s content for the section "%s":

%s`

func buildReviewPrompt(section core.Section, artifact core.ArtifactType, text string) string {
	return fmt.Sprintf(reviewPromptTemplate, artifact.Label(), section.Title, text)
}

const querySystemPrompt = `You generate search queries for a semantic index over source
documents. Given a section title, output 3 to 5 short search queries, one
per line, that would retrieve material useful for writing that section.
Output only the queries.`

const queryPromptTemplate = `Section title: %s

Output the search queries now.`

func buildQueryPrompt(title string) string {
	return fmt.Sprintf(queryPromptTemplate, title)
}

// defaultQueries is the deterministic fallback used when query derivation
// fails or yields too few queries.
func defaultQueries(title string) []string {
	return []string{
		title,
		"key concepts of " + title,
		"procedures and steps for " + title,
		"examples of " + title,
	}
}
