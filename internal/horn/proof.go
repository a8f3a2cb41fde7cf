// Package horn implements the underlying reachability engine: a bounded
// resolution procedure over constrained Horn clauses that answers whether a
// goal predicate instance is derivable and, when it is, produces a ground
// refutation proof in hyper-resolution form.
package horn

// OpKind identifies the operator of a proof node.
type OpKind int

const (
	// OpFact is a ground fact term: a predicate applied to ground argument
	// values, or the false literal. Fact nodes have no operands.
	OpFact OpKind = iota
	// OpRuleInstance is the ground instance of a clause used by a
	// hyper-resolution step. It appears only at operand index 0 of such a
	// step and carries the clause label.
	OpRuleInstance
	// OpHyperResolve combines one rule instance with zero or more premise
	// proofs to derive one conclusion fact. Its operand list has the shape
	// [rule-instance, premise..., conclusion-fact].
	OpHyperResolve
	// OpAsserted wraps the refutation: its first operand is the step that
	// proves the queried goal and its last operand is the false literal.
	OpAsserted
)

// ProofNode is one node of a ground refutation proof. Nodes are shared by
// reference: the same derivation may appear as a premise of several
// conclusions, so the proof is a DAG, not a tree. ID is the stable identity
// consumers key on.
type ProofNode struct {
	ID       uint
	Op       OpKind
	Name     string      // predicate or clause label, depending on Op
	Args     []string    // ground argument values, rendered as text (OpFact)
	Operands []*ProofNode
}

// Fact returns the conclusion term of a proof node: the node itself when it
// has zero operands, otherwise its last operand.
func Fact(n *ProofNode) *ProofNode {
	if len(n.Operands) == 0 {
		return n
	}
	return n.Operands[len(n.Operands)-1]
}

func (e *Engine) newNode(op OpKind, name string, args []string, operands []*ProofNode) *ProofNode {
	e.nextID++
	return &ProofNode{ID: e.nextID, Op: op, Name: name, Args: args, Operands: operands}
}
