package compiler

import (
	"cmp"
	"slices"

	"github.com/roach88/bindgen/internal/ir"
)

// RecordCycles finds records that contain themselves by value.
//
// A record whose field is another record embeds that record's encoding, so
// a cycle through plain record fields has no finite size. A field wrapped in
// an optional breaks the cycle: the absent tag terminates the encoding.
//
// The algorithm:
//  1. Build record -> record graph from fields whose type is a bare record
//  2. Use Tarjan's algorithm to find strongly connected components
//  3. Report each SCC with size > 1 or a self-loop as a cycle path
//
// Cycles are returned in record declaration order, each as a path that
// starts and ends at the same record: ["A", "B", "A"].
func RecordCycles(ci *ir.ComponentInterface) [][]string {
	graph, order := buildContainmentGraph(ci)

	var cycles [][]string
	for _, scc := range tarjanSCC(graph, order) {
		if len(scc) > 1 || hasSelfLoop(scc[0], graph) {
			cycles = append(cycles, reconstructCyclePath(scc, graph))
		}
	}
	return cycles
}

// containmentGraph maps a record to the records it embeds by value.
type containmentGraph map[string][]string

func buildContainmentGraph(ci *ir.ComponentInterface) (containmentGraph, []string) {
	graph := make(containmentGraph)
	var order []string
	for _, r := range ci.Records {
		if _, seen := graph[r.Name]; seen {
			continue
		}
		order = append(order, r.Name)
		graph[r.Name] = []string{}
		for _, f := range r.Fields {
			if inner, ok := f.Type.(ir.Record); ok {
				graph[r.Name] = append(graph[r.Name], inner.Name)
			}
		}
	}
	return graph, order
}

// hasSelfLoop checks if a node has an edge to itself.
func hasSelfLoop(node string, graph containmentGraph) bool {
	for _, neighbor := range graph[node] {
		if neighbor == node {
			return true
		}
	}
	return false
}

// tarjanSCC finds strongly connected components using Tarjan's algorithm.
// Nodes are visited in the given order so results are deterministic; each
// SCC is returned sorted by that order.
func tarjanSCC(graph containmentGraph, order []string) [][]string {
	var (
		index   = 0
		stack   []string
		indices = make(map[string]int)
		lowlink = make(map[string]int)
		onStack = make(map[string]bool)
		sccs    [][]string
	)

	rank := make(map[string]int, len(order))
	for i, name := range order {
		rank[name] = i
	}

	var strongConnect func(string)
	strongConnect = func(v string) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range graph[v] {
			if _, declared := graph[w]; !declared {
				// Unresolved reference, reported separately.
				continue
			}
			if _, visited := indices[w]; !visited {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		if lowlink[v] == indices[v] {
			var scc []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			slices.SortFunc(scc, func(a, b string) int { return cmp.Compare(rank[a], rank[b]) })
			sccs = append(sccs, scc)
		}
	}

	for _, node := range order {
		if _, visited := indices[node]; !visited {
			strongConnect(node)
		}
	}

	slices.SortFunc(sccs, func(a, b []string) int { return cmp.Compare(rank[a[0]], rank[b[0]]) })
	return sccs
}

// reconstructCyclePath builds a cycle path from an SCC.
//
// Start at the first node, follow edges (in field order) to other SCC
// members, continue until we return to start.
func reconstructCyclePath(scc []string, graph containmentGraph) []string {
	start := scc[0]
	if len(scc) == 1 {
		return []string{start, start}
	}

	members := make(map[string]bool, len(scc))
	for _, node := range scc {
		members[node] = true
	}

	current := start
	path := []string{current}
	visited := make(map[string]bool)

	for {
		visited[current] = true

		var next string
		for _, neighbor := range graph[current] {
			if members[neighbor] && (!visited[neighbor] || neighbor == start) {
				next = neighbor
				break
			}
		}
		if next == "" {
			break
		}

		path = append(path, next)
		if next == start {
			break
		}
		current = next
	}

	return path
}
