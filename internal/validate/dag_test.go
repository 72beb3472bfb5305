package validate

import "testing"

func TestGraph_TopoSortOrdersATransitiveDAG(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	g := NewGraph()
	for _, id := range []string{"a", "b", "c", "d"} {
		g.AddNode(id)
	}
	g.AddEdge("a", "b")
	g.AddEdge("b", "c")
	g.AddEdge("a", "c") // transitive edge
	g.AddEdge("c", "d")

	// --- Act ---
	order, cycle := g.TopoSort()

	// --- Assert ---
	if len(cycle) > 0 {
		t.Fatalf("expected no cycle, got %v", cycle)
	}
	pos := make(map[string]int, len(order))
	for i, id := range order {
		pos[id] = i
	}
	if pos["a"] > pos["b"] || pos["b"] > pos["c"] || pos["c"] > pos["d"] {
		t.Errorf("expected a < b < c < d in %v", order)
	}
}

func TestGraph_TopoSortBreaksTiesByDeclaredOrder(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// b, a, c have no edges between them; declared in that order.
	g := NewGraph()
	g.AddNode("b")
	g.AddNode("a")
	g.AddNode("c")

	// --- Act ---
	order, cycle := g.TopoSort()

	// --- Assert ---
	if len(cycle) > 0 {
		t.Fatalf("expected no cycle, got %v", cycle)
	}
	want := []string{"b", "a", "c"}
	for i, id := range want {
		if order[i] != id {
			t.Fatalf("expected declaration order %v, got %v", want, order)
		}
	}
}

func TestGraph_TopoSortDetectsADirectCycle(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	g := NewGraph()
	g.AddNode("a")
	g.AddNode("b")
	g.AddEdge("a", "b")
	g.AddEdge("b", "a")

	// --- Act ---
	order, cycle := g.TopoSort()

	// --- Assert ---
	if len(order) != 0 {
		t.Errorf("expected no node to be ordered, got %v", order)
	}
	if len(cycle) != 2 {
		t.Fatalf("expected both nodes reported in the cycle, got %v", cycle)
	}
}

func TestGraph_TopoSortDetectsACycleInADisjointComponent(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	g := NewGraph()
	g.AddNode("a")
	g.AddNode("b")
	g.AddEdge("a", "b")

	g.AddNode("x")
	g.AddNode("y")
	g.AddNode("z")
	g.AddEdge("x", "y")
	g.AddEdge("y", "z")
	g.AddEdge("z", "y")

	// --- Act ---
	order, cycle := g.TopoSort()

	// --- Assert ---
	orderedSet := make(map[string]bool, len(order))
	for _, id := range order {
		orderedSet[id] = true
	}
	if !orderedSet["a"] || !orderedSet["b"] {
		t.Errorf("expected the acyclic component to be fully ordered, got %v", order)
	}
	if len(cycle) == 0 {
		t.Fatal("expected the disjoint cycle to be reported")
	}
}

func TestGraph_AddNodeIsIdempotent(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	g := NewGraph()
	g.AddNode("a")
	g.AddNode("a")
	g.AddNode("b")

	// --- Act ---
	order, cycle := g.TopoSort()

	// --- Assert ---
	if len(cycle) > 0 {
		t.Fatalf("expected no cycle, got %v", cycle)
	}
	if len(order) != 2 {
		t.Fatalf("expected re-adding a node not to duplicate it, got %v", order)
	}
}
