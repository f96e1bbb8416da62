package graph

import (
	"sort"

	"github.com/matchrings/backend/pkg/common"
)

// Report flattens every edge of the graph into a label-resolved
// relationship record, sorted lexicographically by the from label and
// then the to label. Parallel edges each yield their own row, and
// priorities pass through untouched, including absent ones.
func Report(g *common.Graph, labels map[string]string) []common.RelationshipRecord {
	records := make([]common.RelationshipRecord, 0, len(g.Edges))
	for _, edge := range g.Edges {
		records = append(records, common.RelationshipRecord{
			From:     common.Label(edge.FromID, labels),
			To:       common.Label(edge.ToID, labels),
			Priority: edge.Priority,
		})
	}

	sort.SliceStable(records, func(i, j int) bool {
		if records[i].From != records[j].From {
			return records[i].From < records[j].From
		}
		return records[i].To < records[j].To
	})

	return records
}
