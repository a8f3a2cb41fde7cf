package main

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"hornet/internal/chc"
	"hornet/internal/store"
)

// solveCmd answers the reachability queries of one or more problem files.
var solveCmd = &cobra.Command{
	Use:   "solve [problem.yaml]...",
	Short: "Decide reachability for the queries of each problem file",
	Long: `Loads each problem file, builds its Horn-clause system on a fresh
solver instance, and answers its queries in order. Multiple files are solved
concurrently, one solver instance per file.

A satisfiable query prints the counterexample derivation graph: each fact
followed by the premise facts that produced it.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSolve,
}

func runSolve(cmd *cobra.Command, args []string) error {
	var archive *store.ResultStore
	if cfg.Archive.Path != "" {
		var err error
		archive, err = store.Open(cfg.Archive.Path)
		if err != nil {
			return err
		}
		defer archive.Close()
	}

	g, ctx := errgroup.WithContext(cmd.Context())
	var outMu sync.Mutex

	for _, path := range args {
		g.Go(func() error {
			report, err := solveProblem(ctx, path, archive)
			if err != nil {
				return err
			}
			outMu.Lock()
			defer outMu.Unlock()
			fmt.Print(report)
			return nil
		})
	}
	return g.Wait()
}

// solveProblem runs every query of one problem file on its own solver
// instance and returns the printable report.
func solveProblem(ctx context.Context, path string, archive *store.ResultStore) (string, error) {
	problem, err := LoadProblem(path)
	if err != nil {
		return "", err
	}
	solver, goals, err := problem.Build(cfg.Solver, logger.With(zap.String("problem", path)))
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s:\n", path)
	for _, goal := range goals {
		start := time.Now()
		result, graph := solver.Query(goal)
		elapsed := time.Since(start)

		fmt.Fprintf(&sb, "  %s: %s (%v)\n", goal.String(), result, elapsed.Round(time.Microsecond))
		if result == chc.Satisfiable {
			renderGraph(&sb, graph)
		}

		if archive != nil {
			if err := archive.Record(ctx, goal.String(), result, graph, elapsed); err != nil {
				return "", err
			}
		}
	}
	return sb.String(), nil
}

// renderGraph dumps the counterexample graph with node ids in ascending
// order so output is stable.
func renderGraph(sb *strings.Builder, graph chc.CexGraph) {
	ids := make([]uint, 0, len(graph.Nodes))
	for id := range graph.Nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		node := graph.Nodes[id]
		fmt.Fprintf(sb, "    [%d] %s(%s)", id, node.Name, strings.Join(node.Arguments, ", "))
		if premises := graph.Edges[id]; len(premises) > 0 {
			fmt.Fprintf(sb, " <- %v", premises)
		}
		sb.WriteByte('\n')
	}
}
