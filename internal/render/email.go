package render

import (
	"fmt"
	"strings"

	"github.com/veldt-labs/scout/internal/domain/search/result"
)

// EmailEntry formats one email match as a tagged block.
func EmailEntry(m result.Match) string {
	if len(m.Payload()) == 0 {
		return fmt.Sprintf("<email><content>%s</content></email>", m.Content())
	}

	subject := payloadOr(m, "subject", "(no subject)")
	from := payloadOr(m, "from", "unknown")
	to := payloadOr(m, "to", "unknown")
	date := payloadOr(m, "date", "unknown")
	hasAttachments := payloadOr(m, "has_attachments", "false")

	labels := "None"
	if v, ok := m.PayloadValue("labels"); ok && v != "" {
		labels = strings.Join(SplitList(v), ", ")
	}

	var b strings.Builder
	b.WriteString("<email>\n")
	fmt.Fprintf(&b, "<subject>%s</subject>\n", subject)
	fmt.Fprintf(&b, "<from>%s</from>\n", from)
	fmt.Fprintf(&b, "<to>%s</to>\n", to)
	fmt.Fprintf(&b, "<date>%s</date>\n", date)
	if v, ok := m.PayloadValue("thread_id"); ok && v != "" {
		fmt.Fprintf(&b, "<thread_id>%s</thread_id>\n", v)
	}
	fmt.Fprintf(&b, "<labels>%s</labels>\n", labels)
	fmt.Fprintf(&b, "<has_attachments>%s</has_attachments>\n", hasAttachments)
	fmt.Fprintf(&b, "<score>%.3f</score>\n", m.Score())
	fmt.Fprintf(&b, "<content>\n%s\n</content>\n", m.Content())
	b.WriteString("</email>")
	return b.String()
}

// EmailSearchResults formats a full email search response.
func EmailSearchResults(matches []result.Match, query string) []string {
	if len(matches) == 0 {
		return []string{fmt.Sprintf("No emails found for query '%s'", query)}
	}

	out := make([]string, 0, len(matches)+1)
	out = append(out, fmt.Sprintf("Found %d emails for query '%s':", len(matches), query))
	for _, m := range matches {
		out = append(out, EmailEntry(m))
	}
	return out
}
