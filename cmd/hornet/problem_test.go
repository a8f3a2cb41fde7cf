package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hornet/internal/chc"
)

const chainProblem = `
variables:
  - name: x
    sort: int
relations:
  - name: P
    args: [int]
rules:
  - label: base
    expr: "P(0)"
  - label: step
    expr: "P(x) => P(x + 1)"
queries:
  - "P(2)"
  - "P(-1)"
`

func writeProblem(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "problem.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestProblemBuildAndSolve(t *testing.T) {
	problem, err := LoadProblem(writeProblem(t, chainProblem))
	require.NoError(t, err)

	solver, goals, err := problem.Build(chc.DefaultConfig(), nil)
	require.NoError(t, err)
	require.Len(t, goals, 2)

	res, graph := solver.Query(goals[0])
	assert.Equal(t, chc.Satisfiable, res)
	assert.Len(t, graph.Nodes, 3)

	res, graph = solver.Query(goals[1])
	assert.Equal(t, chc.Unsatisfiable, res)
	assert.True(t, graph.Empty())
}

func TestProblemRuleWithoutLabel(t *testing.T) {
	problem, err := LoadProblem(writeProblem(t, `
relations:
  - name: A
    args: []
rules:
  - expr: "A()"
queries:
  - "A()"
`))
	require.NoError(t, err)

	solver, goals, err := problem.Build(chc.DefaultConfig(), nil)
	require.NoError(t, err)

	res, _ := solver.Query(goals[0])
	assert.Equal(t, chc.Satisfiable, res)
}

func TestProblemErrors(t *testing.T) {
	t.Run("unknown sort", func(t *testing.T) {
		problem, err := LoadProblem(writeProblem(t, `
variables:
  - name: x
    sort: real
`))
		require.NoError(t, err)
		_, _, err = problem.Build(chc.DefaultConfig(), nil)
		require.Error(t, err)
		assert.True(t, strings.Contains(err.Error(), "unknown sort"))
	})

	t.Run("unparseable rule", func(t *testing.T) {
		problem, err := LoadProblem(writeProblem(t, `
relations:
  - name: P
    args: [int]
rules:
  - expr: "P(0"
`))
		require.NoError(t, err)
		_, _, err = problem.Build(chc.DefaultConfig(), nil)
		require.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadProblem(filepath.Join(t.TempDir(), "absent.yaml"))
		require.Error(t, err)
	})
}

func TestRenderGraphOrdersNodes(t *testing.T) {
	graph := chc.CexGraph{
		Nodes: map[uint]chc.CexNode{
			7: {Name: "P", Arguments: []string{"1"}},
			3: {Name: "P", Arguments: []string{"0"}},
		},
		Edges: map[uint][]uint{7: {3}},
	}

	var sb strings.Builder
	renderGraph(&sb, graph)
	out := sb.String()

	assert.Less(t, strings.Index(out, "[3] P(0)"), strings.Index(out, "[7] P(1)"))
	assert.Contains(t, out, "[7] P(1) <- [3]")
}
