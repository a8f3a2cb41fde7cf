package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hornet/internal/chc"
)

func TestResultStoreRoundTrip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "results.db")
	s, err := Open(dbPath)
	require.NoError(t, err)
	defer s.Close()

	graph := chc.CexGraph{
		Nodes: map[uint]chc.CexNode{
			1: {Name: "P", Arguments: []string{"2"}},
			2: {Name: "P", Arguments: []string{"1"}},
		},
		Edges: map[uint][]uint{1: {2}, 2: {}},
	}

	ctx := context.Background()
	require.NoError(t, s.Record(ctx, "(P 2)", chc.Satisfiable, graph, 42*time.Millisecond))
	require.NoError(t, s.Record(ctx, "(Q 1)", chc.Unsatisfiable, chc.CexGraph{}, time.Millisecond))

	records, err := s.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "(Q 1)", records[0].Goal, "newest first")
	assert.Equal(t, "unsatisfiable", records[0].Result)

	assert.Equal(t, "(P 2)", records[1].Goal)
	assert.Equal(t, "satisfiable", records[1].Result)
	assert.Equal(t, 42*time.Millisecond, records[1].Duration)
	require.Len(t, records[1].Graph.Nodes, 2)
	assert.Equal(t, []uint{2}, records[1].Graph.Edges[1])
}

func TestRecentRespectsLimit(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "results.db")
	s, err := Open(dbPath)
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, s.Record(ctx, "(P 0)", chc.Unknown, chc.CexGraph{}, time.Millisecond))
	}

	records, err := s.Recent(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, records, 3)
}
