package graph

import (
	"context"
	"errors"
	"reflect"
	"sort"
	"testing"

	"github.com/matchrings/backend/pkg/common"
)

func loadGraph(t *testing.T, edges []EdgeInput) *common.Graph {
	t.Helper()
	s := NewStore()
	if _, err := s.Load(edges, nil); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return s.Snapshot()
}

// keysOf reduces raw cycles to their sorted identity keys, dropping
// rotation duplicates, so tests can assert on logical chains.
func keysOf(raw []RawCycle) []string {
	set := make(map[string]bool)
	for _, c := range raw {
		set[identityKey(c)] = true
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func TestEnumerate(t *testing.T) {
	tests := []struct {
		name  string
		edges []EdgeInput
		opts  []EnumerateOption
		want  []string
	}{
		{
			name:  "empty graph",
			edges: nil,
			want:  []string{},
		},
		{
			name: "triangle",
			edges: []EdgeInput{
				{FromID: "a", ToID: "b"},
				{FromID: "b", ToID: "c"},
				{FromID: "c", ToID: "a"},
			},
			want: []string{"a|b|c"},
		},
		{
			name: "two-cycle",
			edges: []EdgeInput{
				{FromID: "a", ToID: "b"},
				{FromID: "b", ToID: "a"},
			},
			want: []string{"a|b"},
		},
		{
			name: "disconnected edges have no cycles",
			edges: []EdgeInput{
				{FromID: "a", ToID: "b"},
				{FromID: "c", ToID: "d"},
			},
			want: []string{},
		},
		{
			name: "self-loop is below the minimum length",
			edges: []EdgeInput{
				{FromID: "a", ToID: "a"},
			},
			want: []string{},
		},
		{
			name: "nested cycles are all found",
			edges: []EdgeInput{
				{FromID: "a", ToID: "b"},
				{FromID: "b", ToID: "a"},
				{FromID: "b", ToID: "c"},
				{FromID: "c", ToID: "a"},
			},
			want: []string{"a|b", "a|b|c"},
		},
		{
			name: "max length prunes longer cycles",
			edges: []EdgeInput{
				{FromID: "a", ToID: "b"},
				{FromID: "b", ToID: "c"},
				{FromID: "c", ToID: "a"},
			},
			opts: []EnumerateOption{WithLengthBounds(2, 2)},
			want: []string{},
		},
		{
			name: "min length of one admits self-loops",
			edges: []EdgeInput{
				{FromID: "a", ToID: "a"},
			},
			opts: []EnumerateOption{WithLengthBounds(1, 10)},
			want: []string{"a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := loadGraph(t, tt.edges)
			raw, err := Enumerate(context.Background(), g, tt.opts...)
			if err != nil {
				t.Fatalf("Enumerate() error = %v", err)
			}
			if got := keysOf(raw); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Enumerate() chains = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEnumerate_EmitsOneRotationPerStartNode(t *testing.T) {
	g := loadGraph(t, []EdgeInput{
		{FromID: "a", ToID: "b"},
		{FromID: "b", ToID: "c"},
		{FromID: "c", ToID: "a"},
	})

	raw, err := Enumerate(context.Background(), g)
	if err != nil {
		t.Fatalf("Enumerate() error = %v", err)
	}
	// The triangle is found once from each of its three start nodes.
	if len(raw) != 3 {
		t.Fatalf("Enumerate() emitted %d raw cycles, want 3", len(raw))
	}
	want := []RawCycle{
		{"a", "b", "c"},
		{"b", "c", "a"},
		{"c", "a", "b"},
	}
	if !reflect.DeepEqual(raw, want) {
		t.Errorf("Enumerate() = %v, want %v", raw, want)
	}
}

func TestEnumerate_BothDirectionsEmitted(t *testing.T) {
	g := loadGraph(t, []EdgeInput{
		{FromID: "a", ToID: "b"},
		{FromID: "b", ToID: "c"},
		{FromID: "c", ToID: "a"},
		{FromID: "b", ToID: "a"},
		{FromID: "a", ToID: "c"},
		{FromID: "c", ToID: "b"},
	})

	raw, err := Enumerate(context.Background(), g)
	if err != nil {
		t.Fatalf("Enumerate() error = %v", err)
	}
	// Three two-cycles plus the triangle in both directions.
	if got := keysOf(raw); !reflect.DeepEqual(got, []string{"a|b", "a|b|c", "a|c", "b|c"}) {
		t.Fatalf("Enumerate() chains = %v", got)
	}
	triangles := 0
	for _, c := range raw {
		if len(c) == 3 {
			triangles++
		}
	}
	if triangles != 6 {
		t.Errorf("Enumerate() found the triangle %d times, want 6 (3 starts x 2 directions)", triangles)
	}
}

func TestEnumerate_WorkBudgetExceeded(t *testing.T) {
	g := loadGraph(t, []EdgeInput{
		{FromID: "a", ToID: "b"},
		{FromID: "b", ToID: "c"},
		{FromID: "c", ToID: "a"},
	})

	_, err := Enumerate(context.Background(), g, WithMaxVisits(2), WithParallelism(1))
	var timeoutErr *TimeoutError
	if !errors.As(err, &timeoutErr) {
		t.Fatalf("Enumerate() error = %v, want TimeoutError", err)
	}
	if timeoutErr.Budget != 2 {
		t.Errorf("TimeoutError budget = %d, want 2", timeoutErr.Budget)
	}
}

func TestEnumerate_ContextCancellation(t *testing.T) {
	g := loadGraph(t, []EdgeInput{
		{FromID: "a", ToID: "b"},
		{FromID: "b", ToID: "a"},
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Enumerate(ctx, g)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Enumerate() error = %v, want context.Canceled", err)
	}
}

func TestEnumerate_ParallelismIsDeterministic(t *testing.T) {
	edges := []EdgeInput{
		{FromID: "a", ToID: "b"},
		{FromID: "b", ToID: "c"},
		{FromID: "c", ToID: "d"},
		{FromID: "d", ToID: "a"},
		{FromID: "b", ToID: "a"},
		{FromID: "c", ToID: "b"},
		{FromID: "d", ToID: "c"},
		{FromID: "a", ToID: "d"},
	}
	g := loadGraph(t, edges)

	sequential, err := Enumerate(context.Background(), g, WithParallelism(1))
	if err != nil {
		t.Fatalf("Enumerate() error = %v", err)
	}
	parallel, err := Enumerate(context.Background(), g, WithParallelism(4))
	if err != nil {
		t.Fatalf("Enumerate() error = %v", err)
	}
	if !reflect.DeepEqual(sequential, parallel) {
		t.Error("parallel enumeration ordered raw cycles differently than sequential")
	}
}
