package transition

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindPath(t *testing.T) {
	graph := map[string][]string{
		"A": {"B"},
		"B": {"C"},
		"D": {"C"},
	}

	testCases := []struct {
		name     string
		graph    map[string][]string
		from     string
		targets  []string
		expected []string
	}{
		{
			name:     "simple chain",
			graph:    graph,
			from:     "A",
			targets:  []string{"C"},
			expected: []string{"A", "B", "C"},
		},
		{
			name:     "single hop",
			graph:    graph,
			from:     "D",
			targets:  []string{"C"},
			expected: []string{"D", "C"},
		},
		{
			name:     "already in target set",
			graph:    graph,
			from:     "C",
			targets:  []string{"C"},
			expected: []string{"C"},
		},
		{
			name:     "no outgoing edges",
			graph:    graph,
			from:     "C",
			targets:  []string{"A"},
			expected: nil,
		},
		{
			name:     "unknown starting status",
			graph:    graph,
			from:     "X",
			targets:  []string{"C"},
			expected: nil,
		},
		{
			name:     "case insensitive lookup",
			graph:    graph,
			from:     "a",
			targets:  []string{"c"},
			expected: []string{"a", "B", "C"},
		},
		{
			name: "shortest path wins",
			graph: map[string][]string{
				"A": {"B", "C"},
				"B": {"C"},
			},
			from:     "A",
			targets:  []string{"C"},
			expected: []string{"A", "C"},
		},
		{
			name: "first discovered breaks ties",
			graph: map[string][]string{
				"A": {"B", "C"},
			},
			from:     "A",
			targets:  []string{"B", "C"},
			expected: []string{"A", "B"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, FindPath(tc.graph, tc.from, tc.targets))
		})
	}
}

func TestFindPathCycleTerminates(t *testing.T) {
	graph := map[string][]string{
		"A": {"B"},
		"B": {"A"},
	}
	assert.Empty(t, FindPath(graph, "A", []string{"Z"}))
}

func TestFindPathEmptyInputs(t *testing.T) {
	assert.Empty(t, FindPath(nil, "A", []string{"B"}))
	assert.Empty(t, FindPath(map[string][]string{"A": {"B"}}, "", []string{"B"}))
	assert.Empty(t, FindPath(map[string][]string{"A": {"B"}}, "A", nil))
}
