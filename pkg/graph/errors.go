package graph

import "fmt"

// LoadError reports malformed input at load time. The store keeps the
// previous generation when a load fails with this error.
type LoadError struct {
	Reason string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("graph load failed: %s", e.Reason)
}

// TimeoutError reports that cycle enumeration exceeded its work
// budget. No partial result accompanies it.
type TimeoutError struct {
	Visited int
	Budget  int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("cycle search exceeded work budget: visited %d nodes, budget %d", e.Visited, e.Budget)
}
