// Package result models a single search hit: identifier, similarity score,
// content, and the flat payload the record was stored with. Results are
// produced per query and immutable.
package result

// Match is a single search hit.
type Match struct {
	id      string
	score   float64
	content string
	payload map[string]string
}

// New creates a search match.
func New(id string, score float64, content string, payload map[string]string) Match {
	return Match{id: id, score: score, content: content, payload: payload}
}

// ID returns the record identifier.
func (m *Match) ID() string { return m.id }

// Score returns the similarity score.
func (m *Match) Score() float64 { return m.score }

// Content returns the record content.
func (m *Match) Content() string { return m.content }

// Payload returns the record's metadata fields.
func (m *Match) Payload() map[string]string { return m.payload }

// PayloadValue returns a metadata field and whether it is present.
func (m *Match) PayloadValue(key string) (string, bool) {
	v, ok := m.payload[key]
	return v, ok
}
