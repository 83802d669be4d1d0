package render

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/veldt-labs/scout/internal/domain/search/result"
)

// counter tallies string occurrences with deterministic ordering.
type counter map[string]int

type tally struct {
	Key   string
	Count int
}

// mostCommon returns up to n entries ordered by count descending, ties
// broken lexically so reports are stable.
func (c counter) mostCommon(n int) []tally {
	items := make([]tally, 0, len(c))
	for k, v := range c {
		items = append(items, tally{k, v})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Count != items[j].Count {
			return items[i].Count > items[j].Count
		}
		return items[i].Key < items[j].Key
	})
	if len(items) > n {
		items = items[:n]
	}
	return items
}

// CodePatternAnalysis aggregates a sample of code matches into a markdown
// report: language, theme, directory, and file-type distributions plus
// quality averages.
func CodePatternAnalysis(matches []result.Match, repositoryID string) []string {
	if len(matches) == 0 {
		return []string{fmt.Sprintf("No code entries available for analysis in repository '%s'", repositoryID)}
	}

	languages := counter{}
	themes := counter{}
	directories := counter{}
	fileTypes := counter{}
	var complexitySum, lineSum float64
	var hasPatterns, hasComments int

	total := len(matches)
	for i := range matches {
		m := &matches[i]
		languages[payloadOr(*m, "programming_language", "unknown")]++
		directories[payloadOr(*m, "directory", "root")]++
		fileTypes[payloadOr(*m, "file_type", "unknown")]++

		if v, ok := m.PayloadValue("themes"); ok {
			for _, theme := range SplitList(v) {
				themes[theme]++
			}
		}
		if v, ok := m.PayloadValue("complexity_score"); ok {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				complexitySum += f
			}
		}
		if v, ok := m.PayloadValue("line_count"); ok {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				lineSum += f
			}
		}
		if v, _ := m.PayloadValue("has_code_patterns"); v == "true" {
			hasPatterns++
		}
		if v, _ := m.PayloadValue("has_comments"); v == "true" {
			hasComments++
		}
	}

	pct := func(count int) float64 { return float64(count) / float64(total) * 100 }

	report := []string{
		fmt.Sprintf("## Repository Pattern Analysis: %s", repositoryID),
		fmt.Sprintf("**Analyzed %d code entries**", total),
		"",
		"### Programming Languages",
	}
	for _, e := range languages.mostCommon(5) {
		report = append(report, fmt.Sprintf("- %s: %d files (%.1f%%)", e.Key, e.Count, pct(e.Count)))
	}

	report = append(report, "", "### Code Themes & Patterns")
	for _, e := range themes.mostCommon(10) {
		report = append(report, fmt.Sprintf("- %s: %d occurrences (%.1f%%)", e.Key, e.Count, pct(e.Count)))
	}

	report = append(report, "", "### Directory Distribution")
	for _, e := range directories.mostCommon(8) {
		report = append(report, fmt.Sprintf("- %s: %d files (%.1f%%)", e.Key, e.Count, pct(e.Count)))
	}

	report = append(report, "",
		"### Code Quality Metrics",
		fmt.Sprintf("- Average complexity score: %.1f", complexitySum/float64(total)),
		fmt.Sprintf("- Average lines per chunk: %.1f", lineSum/float64(total)),
		fmt.Sprintf("- Files with code patterns: %d (%.1f%%)", hasPatterns, pct(hasPatterns)),
		fmt.Sprintf("- Files with comments: %d (%.1f%%)", hasComments, pct(hasComments)),
		"",
		"### File Types",
	)
	for _, e := range fileTypes.mostCommon(8) {
		report = append(report, fmt.Sprintf("- %s: %d files (%.1f%%)", e.Key, e.Count, pct(e.Count)))
	}

	return report
}

// MailboxAnalysis aggregates a sample of email matches into summary lines:
// top senders, labels, threads, and active days.
func MailboxAnalysis(matches []result.Match) []string {
	if len(matches) == 0 {
		return []string{"No emails matched the specified criteria"}
	}

	senders := counter{}
	labels := counter{}
	threads := counter{}
	days := counter{}

	for i := range matches {
		m := &matches[i]
		if v, ok := m.PayloadValue("from"); ok && v != "" {
			senders[v]++
		}
		if v, ok := m.PayloadValue("labels"); ok {
			for _, l := range SplitList(v) {
				labels[l]++
			}
		}
		if v, ok := m.PayloadValue("thread_id"); ok && v != "" {
			threads[v]++
		}
		if v, ok := m.PayloadValue("date"); ok && v != "" {
			day, _, _ := strings.Cut(v, "T")
			days[day]++
		}
	}

	top := func(c counter) string {
		entries := c.mostCommon(5)
		if len(entries) == 0 {
			return "None"
		}
		parts := make([]string, len(entries))
		for i, e := range entries {
			parts[i] = fmt.Sprintf("%s (%d)", e.Key, e.Count)
		}
		return strings.Join(parts, ", ")
	}

	summary := []string{
		"Mailbox Analysis Summary:",
		fmt.Sprintf("- Top senders: %s", top(senders)),
		fmt.Sprintf("- Top labels: %s", top(labels)),
		fmt.Sprintf("- Top threads: %s", top(threads)),
		fmt.Sprintf("- Active days: %s", top(days)),
		fmt.Sprintf("- Sample size: %d", len(matches)),
	}

	return []string{strings.Join(summary, "\n")}
}
