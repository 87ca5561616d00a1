// Package transition computes status-transition paths through the tracker's
// workflow graph.
package transition

import (
	"strings"
)

type node struct {
	status string
	parent int
}

// FindPath returns the shortest ordered status sequence leading from `from`
// to any status in `targets`, following the directed edges of graph. The
// first element is always `from` and the last is the reached target.
//
// A status already in the target set yields the single-element path. An
// unknown starting status, a status with no outgoing edges, or an
// unreachable target set all yield an empty path; callers treat that as a
// normal outcome and fall back to comment-only notification. All status
// comparisons are case-insensitive, and cycles in the graph are safe: a
// status is visited at most once.
func FindPath(graph map[string][]string, from string, targets []string) []string {
	if from == "" || len(targets) == 0 {
		return nil
	}

	want := make(map[string]bool, len(targets))
	for _, t := range targets {
		want[strings.ToLower(t)] = true
	}
	if want[strings.ToLower(from)] {
		return []string{from}
	}

	edges := make(map[string][]string, len(graph))
	for status, next := range graph {
		key := strings.ToLower(status)
		edges[key] = append(edges[key], next...)
	}

	visited := map[string]bool{strings.ToLower(from): true}
	queue := []node{{status: from, parent: -1}}

	// Breadth-first traversal: the first target reached is on a shortest
	// path, and adjacency order decides ties deterministically.
	for i := 0; i < len(queue); i++ {
		for _, next := range edges[strings.ToLower(queue[i].status)] {
			key := strings.ToLower(next)
			if visited[key] {
				continue
			}
			visited[key] = true
			queue = append(queue, node{status: next, parent: i})
			if want[key] {
				return backtrack(queue, len(queue)-1)
			}
		}
	}
	return nil
}

// backtrack rebuilds the status sequence from the queue's parent links.
func backtrack(queue []node, last int) []string {
	var path []string
	for i := last; i >= 0; i = queue[i].parent {
		path = append(path, queue[i].status)
	}
	for l, r := 0, len(path)-1; l < r; l, r = l+1, r-1 {
		path[l], path[r] = path[r], path[l]
	}
	return path
}
