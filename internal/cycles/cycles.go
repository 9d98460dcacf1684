// Package cycles finds circular imports in a module import graph.
package cycles

import (
	"sort"
	"strings"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/odvcencio/pyaudit/pkg/model"
)

// Cycle is a closed import path whose first and last elements are the same module.
type Cycle struct {
	Path []string `json:"path"`
}

func (c Cycle) String() string {
	return strings.Join(c.Path, " -> ")
}

// Message is the finding text for the cycle.
func (c Cycle) Message() string {
	return "Cycle detected: " + c.String()
}

// Modules returns the distinct modules on the cycle in path order.
func (c Cycle) Modules() []string {
	if len(c.Path) == 0 {
		return nil
	}
	return append([]string(nil), c.Path[:len(c.Path)-1]...)
}

// Detect runs a depth-first traversal from every module in insertion order, tracking only the
// current path. Reaching a module already on the path records the slice from that module back
// to itself and stops the branch. Nothing is memoized across start modules, so a cycle is
// reported once per start module that reaches it.
func Detect(graph model.ImportGraph) []Cycle {
	var found []Cycle
	path := make([]string, 0, graph.Len())
	onPath := make(map[string]int, graph.Len())

	var visit func(module string)
	visit = func(module string) {
		if at, ok := onPath[module]; ok {
			cycle := make([]string, 0, len(path)-at+1)
			cycle = append(cycle, path[at:]...)
			cycle = append(cycle, module)
			found = append(found, Cycle{Path: cycle})
			return
		}

		onPath[module] = len(path)
		path = append(path, module)
		for _, next := range graph.Imports(module) {
			visit(next)
		}
		path = path[:len(path)-1]
		delete(onPath, module)
	}

	for _, module := range graph.Modules {
		visit(module)
	}
	return found
}

// Clusters returns the strongly connected components of the graph that hold more than one
// module. Members are sorted and clusters are ordered by their first member.
func Clusters(graph model.ImportGraph) [][]string {
	ids := map[string]int64{}
	names := map[int64]string{}
	g := simple.NewDirectedGraph()
	nodeID := func(name string) int64 {
		if id, ok := ids[name]; ok {
			return id
		}
		id := int64(len(ids))
		ids[name] = id
		names[id] = name
		g.AddNode(simple.Node(id))
		return id
	}

	for _, module := range graph.Modules {
		from := nodeID(module)
		for _, imported := range graph.Imports(module) {
			to := nodeID(imported)
			// simple graphs reject self edges
			if from == to {
				continue
			}
			g.SetEdge(simple.Edge{F: simple.Node(from), T: simple.Node(to)})
		}
	}

	var clusters [][]string
	for _, component := range topo.TarjanSCC(g) {
		if len(component) < 2 {
			continue
		}
		members := make([]string, 0, len(component))
		for _, node := range component {
			members = append(members, names[node.ID()])
		}
		sort.Strings(members)
		clusters = append(clusters, members)
	}
	sort.Slice(clusters, func(i, j int) bool {
		return clusters[i][0] < clusters[j][0]
	})
	return clusters
}
