package cycles

import (
	"reflect"
	"testing"

	"github.com/odvcencio/pyaudit/pkg/model"
)

func graphOf(pairs ...[]string) model.ImportGraph {
	var g model.ImportGraph
	for _, pair := range pairs {
		g.Add(pair[0], pair[1:]...)
	}
	return g
}

func messagesOf(found []Cycle) []string {
	out := make([]string, 0, len(found))
	for _, c := range found {
		out = append(out, c.Message())
	}
	return out
}

func TestDetectTwoModuleCycleReportedPerStart(t *testing.T) {
	g := graphOf([]string{"A", "B"}, []string{"B", "A"})
	got := messagesOf(Detect(g))
	want := []string{"Cycle detected: A -> B -> A", "Cycle detected: B -> A -> B"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Detect() = %v, want %v", got, want)
	}
}

func TestDetectSlicesFromRepeatedModule(t *testing.T) {
	g := graphOf([]string{"main", "a"}, []string{"a", "b"}, []string{"b", "a"})
	got := messagesOf(Detect(g))
	want := []string{
		"Cycle detected: a -> b -> a",
		"Cycle detected: a -> b -> a",
		"Cycle detected: b -> a -> b",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Detect() = %v, want %v", got, want)
	}
}

func TestDetectSelfImport(t *testing.T) {
	g := graphOf([]string{"loop", "loop", "os"})
	got := messagesOf(Detect(g))
	if !reflect.DeepEqual(got, []string{"Cycle detected: loop -> loop"}) {
		t.Fatalf("unexpected self cycle %v", got)
	}
}

func TestDetectAcyclicAndExternal(t *testing.T) {
	g := graphOf([]string{"app", "os", "lib"}, []string{"lib", "json"}, []string{"tool"})
	if got := Detect(g); len(got) != 0 {
		t.Fatalf("expected no cycles, got %v", messagesOf(got))
	}
	if got := Detect(model.ImportGraph{}); len(got) != 0 {
		t.Fatalf("expected no cycles on empty graph, got %v", got)
	}
}

func TestDetectDiamondRevisitsWithoutCycle(t *testing.T) {
	g := graphOf([]string{"a", "b", "c"}, []string{"b", "d"}, []string{"c", "d"}, []string{"d"})
	if got := Detect(g); len(got) != 0 {
		t.Fatalf("diamond must not count as cycle, got %v", messagesOf(got))
	}
}

func TestCycleModules(t *testing.T) {
	c := Cycle{Path: []string{"a", "b", "a"}}
	if got := c.Modules(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("Modules() = %v", got)
	}
	if (Cycle{}).Modules() != nil {
		t.Fatal("expected nil modules for empty cycle")
	}
}

func TestClusters(t *testing.T) {
	g := graphOf(
		[]string{"z", "y"},
		[]string{"y", "z"},
		[]string{"c", "a", "c"},
		[]string{"a", "b"},
		[]string{"b", "c"},
		[]string{"solo", "os"},
	)
	got := Clusters(g)
	want := [][]string{{"a", "b", "c"}, {"y", "z"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Clusters() = %v, want %v", got, want)
	}
}

func TestClustersIgnoresSelfLoops(t *testing.T) {
	g := graphOf([]string{"loop", "loop"})
	if got := Clusters(g); len(got) != 0 {
		t.Fatalf("self import is not a cluster, got %v", got)
	}
}
