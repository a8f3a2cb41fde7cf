package chc

import (
	"hornet/internal/contract"
	"hornet/internal/horn"
)

// CexNode is one fact of the counterexample: a predicate name and its
// argument values rendered as text.
type CexNode struct {
	Name      string   `json:"name"`
	Arguments []string `json:"arguments"`
}

// CexGraph is the portable counterexample: a DAG of facts and the resolution
// dependencies between them. Edges[n] lists, in order, the premise facts
// whose conjunction (together with one ground rule instance, not represented
// here) entails the fact stored at n. Leaf facts have a node entry and no
// edge entry, or an empty edge list.
type CexGraph struct {
	Nodes map[uint]CexNode `json:"nodes"`
	Edges map[uint][]uint  `json:"edges"`
}

// Empty reports whether the graph holds no facts.
func (g CexGraph) Empty() bool {
	return len(g.Nodes) == 0
}

// cexGraph converts a ground refutation into a linear or nonlinear
// counterexample graph. The root fact of the refutation proof is the false
// literal; the refutation-deriving step is its first operand and becomes the
// traversal root. Traversal is iterative with an explicit stack so deep
// proofs cannot blow the call stack, and the visited set keyed on node
// identity guarantees each shared step is expanded at most once. Violated
// shape assumptions are defects in the engine integration and trap.
func cexGraph(proof *horn.ProofNode) CexGraph {
	graph := CexGraph{
		Nodes: make(map[uint]CexNode),
		Edges: make(map[uint][]uint),
	}

	contract.Assert(proof != nil, "cexGraph: refutation proof missing")
	rootFact := horn.Fact(proof)
	contract.Assertf(rootFact.Name == "false" && len(rootFact.Operands) == 0,
		"cexGraph: refutation root proves %q, want the false literal", rootFact.Name)
	contract.Assert(len(proof.Operands) > 0, "cexGraph: refutation root has no operands")

	root := proof.Operands[0]
	graph.Nodes[root.ID] = cexNode(horn.Fact(root))

	stack := []*horn.ProofNode{root}
	visited := map[uint]bool{root.ID: true}

	for len(stack) > 0 {
		step := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		_, known := graph.Nodes[step.ID]
		contract.Assertf(known, "cexGraph: popped step %d has no node entry", step.ID)

		if step.Op != horn.OpHyperResolve {
			continue
		}
		contract.Assertf(len(step.Operands) > 0, "cexGraph: hyper-resolution step %d has no operands", step.ID)

		// Operand 0 is the rule instance and the last operand is the
		// conclusion fact; everything between is a premise proof.
		for i := 1; i < len(step.Operands)-1; i++ {
			child := step.Operands[i]
			if !visited[child.ID] {
				visited[child.ID] = true
				stack = append(stack, child)
			}
			if _, ok := graph.Nodes[child.ID]; !ok {
				graph.Nodes[child.ID] = cexNode(horn.Fact(child))
				graph.Edges[child.ID] = []uint{}
			}
			graph.Edges[step.ID] = append(graph.Edges[step.ID], child.ID)
		}
	}

	return graph
}

func cexNode(fact *horn.ProofNode) CexNode {
	return CexNode{Name: fact.Name, Arguments: fact.Args}
}
