package generate

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/poiesic/scrivener/ai"
	"github.com/poiesic/scrivener/core"
	"github.com/poiesic/scrivener/storage"
)

const (
	minSectionQueries = 3
	maxSectionQueries = 5
)

var queryLinePrefixRe = regexp.MustCompile(`^\s*(?:[-*]|\d+[.)])\s*`)

// queriesForTitle returns the search queries for a section title, serving
// them from the query cache when a set was derived before. Derivation
// failures fall back to deterministic template queries; they degrade
// retrieval quality, never the task.
func (s *Scheduler) queriesForTitle(ctx context.Context, title string) []string {
	if qs, err := s.queryCache.LoadQuerySet(ctx, title); err == nil && len(qs.Queries) > 0 {
		s.logger.Debug("query cache hit", "title", title, "queries", len(qs.Queries))
		return qs.Queries
	} else if err != nil && err != storage.ErrNotFound {
		s.logger.Warn("query cache lookup failed", "title", title, "err", err)
	}

	queries := s.deriveQueries(ctx, title)

	if err := s.queryCache.SaveQuerySet(ctx, &core.QuerySet{
		Title:     title,
		Queries:   queries,
		Timestamp: time.Now().UTC(),
	}); err != nil {
		s.logger.Warn("failed to cache query set", "title", title, "err", err)
	}

	return queries
}

func (s *Scheduler) deriveQueries(ctx context.Context, title string) []string {
	completion, err := s.complete(ctx, ai.CompletionRequest{
		System:      querySystemPrompt,
		Prompt:      buildQueryPrompt(title),
		Temperature: s.temperature,
	})
	if err != nil {
		s.logger.Warn("query derivation failed, using template queries", "title", title, "err", err)
		return defaultQueries(title)
	}

	queries := parseQueries(completion.Text)
	if len(queries) < minSectionQueries {
		return defaultQueries(title)
	}
	return queries
}

// parseQueries extracts one query per non-empty line, stripping bullet
// and numbering prefixes, capped at maxSectionQueries.
func parseQueries(response string) []string {
	var queries []string
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(queryLinePrefixRe.ReplaceAllString(line, ""))
		line = strings.Trim(line, `"`)
		if line == "" {
			continue
		}
		queries = append(queries, line)
		if len(queries) == maxSectionQueries {
			break
		}
	}
	return queries
}
