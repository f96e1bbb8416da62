package graph

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/matchrings/backend/pkg/common"
)

// keySeparator joins sorted person ids into a cycle's identity key.
// Ids are caller-provided strings, so the separator is only a
// determinism aid, not an injectivity guarantee.
const keySeparator = "|"

// identityKey canonicalizes a cycle's participant set: two raw cycles
// with the same key are the same logical chain regardless of rotation
// or traversal direction.
func identityKey(cycle RawCycle) string {
	ids := make([]string, len(cycle))
	copy(ids, cycle)
	sort.Strings(ids)
	return strings.Join(ids, keySeparator)
}

// round2 rounds half away from zero to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ScoreAndDedupe turns raw cycles into scored chains. Each chain's
// average priority is the mean of its traversed edge priorities,
// rounded to two decimals; it is nil when any traversed edge has no
// priority. Cycles sharing a participant set collapse to the first
// one encountered. Person ids are replaced by display labels only at
// this stage, so identity keys stay stable when labels change.
//
// A raw cycle traversing an edge the graph does not hold means the
// enumerator and the graph disagree; that returns an error rather
// than being skipped.
//
// Output is sorted by length ascending, then by the joined label
// sequence, for reproducibility.
func ScoreAndDedupe(raw []RawCycle, g *common.Graph, labels map[string]string) ([]common.Chain, error) {
	// Last occurrence wins for repeated ordered pairs, matching the
	// store's load policy.
	weights := make(map[[2]string]*float64, len(g.Edges))
	for _, edge := range g.Edges {
		weights[[2]string{edge.FromID, edge.ToID}] = edge.Priority
	}

	seen := make(map[string]bool, len(raw))
	chains := make([]common.Chain, 0, len(raw))

	for _, cycle := range raw {
		key := identityKey(cycle)
		if seen[key] {
			continue
		}
		seen[key] = true

		sum := 0.0
		scored := true
		for i, from := range cycle {
			to := cycle[(i+1)%len(cycle)]
			priority, ok := weights[[2]string{from, to}]
			if !ok {
				return nil, fmt.Errorf("cycle traverses an edge the graph does not hold: %s -> %s", from, to)
			}
			if priority == nil {
				scored = false
				continue
			}
			sum += *priority
		}

		people := make([]string, len(cycle))
		for i, id := range cycle {
			people[i] = common.Label(id, labels)
		}

		chain := common.Chain{
			People: people,
			Length: len(cycle),
		}
		if scored {
			avg := round2(sum / float64(len(cycle)))
			chain.AvgPriority = &avg
		}
		chains = append(chains, chain)
	}

	sort.Slice(chains, func(i, j int) bool {
		if chains[i].Length != chains[j].Length {
			return chains[i].Length < chains[j].Length
		}
		return strings.Join(chains[i].People, keySeparator) < strings.Join(chains[j].People, keySeparator)
	})

	return chains, nil
}
