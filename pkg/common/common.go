package common

// Graph is one fully built generation of the candidacy graph. A build
// replaces the whole generation at once; readers never see a partially
// loaded graph.
//
// A graph contains:
//   - People: every person referenced by at least one edge, keyed by id
//   - Edges: the directed candidacy relations between people
type Graph struct {
	People map[string]Person `json:"people"`
	Edges  []CandidacyEdge   `json:"edges"`
}

// Person is a node in the candidacy graph. The ID is the stable
// identity; Name is an optional display label and may be empty, in
// which case consumers fall back to the ID.
type Person struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// CandidacyEdge is a directed relation from one person to another with
// an optional priority. A nil Priority means the priority is absent,
// which is distinct from an explicit zero.
type CandidacyEdge struct {
	FromID   string   `json:"from_id"`
	ToID     string   `json:"to_id"`
	Priority *float64 `json:"priority"`
}

// Chain is a discovered matching cycle. People holds the display
// labels in one valid rotation and direction of the cycle; Length is
// the number of people (equal to the number of edges traversed).
// AvgPriority is the rounded mean of the traversed edge priorities,
// or nil when any traversed edge has no priority.
type Chain struct {
	People      []string `json:"people"`
	Length      int      `json:"length"`
	AvgPriority *float64 `json:"avg_priority"`
}

// RelationshipRecord is one flattened edge for the summary listing,
// with both endpoints resolved to their display labels.
type RelationshipRecord struct {
	From     string   `json:"from"`
	To       string   `json:"to"`
	Priority *float64 `json:"priority"`
}

// Label resolves a person id to its display label: the display name
// when present, otherwise the id itself.
func Label(id string, labels map[string]string) string {
	if name, ok := labels[id]; ok && name != "" {
		return name
	}
	return id
}
