// Package render turns search matches into the text blocks handed back to
// the calling model: tagged snippet blocks for single results and aggregated
// markdown reports for pattern analysis.
package render

import (
	"fmt"
	"strings"

	"github.com/veldt-labs/scout/internal/domain/search/result"
)

// CodeEntry formats one code match as a tagged snippet block. Matches
// without metadata collapse into a compact single-line form.
func CodeEntry(m result.Match, repositoryID string) string {
	if len(m.Payload()) == 0 {
		return fmt.Sprintf(
			"<code_snippet><content>%s</content><repository>%s</repository></code_snippet>",
			m.Content(), repositoryID,
		)
	}

	filePath := payloadOr(m, "file_name", "Unknown file")
	language := payloadOr(m, "programming_language", "Unknown")
	branch := payloadOr(m, "branch", "main")
	complexity := payloadOr(m, "complexity_score", "0")
	lineCount := payloadOr(m, "line_count", "0")
	hasPatterns := payloadOr(m, "has_code_patterns", "false")

	var b strings.Builder
	b.WriteString("<code_snippet>\n")
	fmt.Fprintf(&b, "<repository>%s</repository>\n", repositoryID)
	fmt.Fprintf(&b, "<file_path>%s</file_path>\n", filePath)
	fmt.Fprintf(&b, "<programming_language>%s</programming_language>\n", language)
	fmt.Fprintf(&b, "<branch>%s</branch>\n", branch)
	fmt.Fprintf(&b, "<themes>%s</themes>\n", themesOrNone(m))
	fmt.Fprintf(&b, "<complexity_score>%s</complexity_score>\n", complexity)
	fmt.Fprintf(&b, "<line_count>%s</line_count>\n", lineCount)
	fmt.Fprintf(&b, "<has_patterns>%s</has_patterns>\n", hasPatterns)
	fmt.Fprintf(&b, "<score>%.3f</score>\n", m.Score())
	fmt.Fprintf(&b, "<content>\n%s\n</content>\n", m.Content())
	b.WriteString("</code_snippet>")
	return b.String()
}

// CodeSearchResults formats a full search response: a summary line followed
// by one block per match, or a single descriptive line when nothing matched.
func CodeSearchResults(matches []result.Match, repositoryID, query string) []string {
	if len(matches) == 0 {
		return []string{fmt.Sprintf("No results found in repository '%s' for query '%s'", repositoryID, query)}
	}

	out := make([]string, 0, len(matches)+1)
	out = append(out, fmt.Sprintf(
		"Found %d code snippets in repository '%s' for query '%s':", len(matches), repositoryID, query,
	))
	for _, m := range matches {
		out = append(out, CodeEntry(m, repositoryID))
	}
	return out
}

// Implementations formats ranked implementation matches, each preceded by a
// context block extracted from its metadata.
func Implementations(matches []result.Match, repositoryID, patternQuery string) []string {
	if len(matches) == 0 {
		return []string{fmt.Sprintf(
			"No implementations found for pattern '%s' in repository '%s'", patternQuery, repositoryID,
		)}
	}

	out := make([]string, 0, len(matches)+1)
	out = append(out, fmt.Sprintf(
		"Found %d implementations of '%s' in repository '%s':", len(matches), patternQuery, repositoryID,
	))
	for i, m := range matches {
		out = append(out, fmt.Sprintf(
			"<implementation rank=\"%d\">\n%s\n%s\n</implementation>",
			i+1, implementationContext(m), CodeEntry(m, repositoryID),
		))
	}
	return out
}

func implementationContext(m result.Match) string {
	if len(m.Payload()) == 0 {
		return "<context>No metadata available</context>"
	}

	location := payloadOr(m, "file_name", "Unknown location")
	complexity := payloadOr(m, "complexity_score", "0")
	lines := payloadOr(m, "line_count", "0")

	patterns := "No"
	if v, _ := m.PayloadValue("has_code_patterns"); v == "true" {
		patterns = "Yes"
	}

	themes := themesOrNone(m)
	if themes == "None" {
		themes = "None identified"
	}

	return fmt.Sprintf(
		"<context>\n<location>%s</location>\n<themes>%s</themes>\n<complexity>%s</complexity>\n<lines>%s</lines>\n<structured_patterns>%s</structured_patterns>\n</context>",
		location, themes, complexity, lines, patterns,
	)
}

func payloadOr(m result.Match, key, fallback string) string {
	if v, ok := m.PayloadValue(key); ok && v != "" {
		return v
	}
	return fallback
}

func themesOrNone(m result.Match) string {
	v, ok := m.PayloadValue("themes")
	if !ok || v == "" {
		return "None"
	}
	return strings.Join(SplitList(v), ", ")
}

// SplitList splits a comma-separated payload value into trimmed elements.
// Multi-valued attributes are stored this way in the flat hash payload.
func SplitList(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
