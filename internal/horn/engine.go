package horn

import (
	"fmt"

	"go.uber.org/zap"

	"hornet/internal/smt"
)

// Result is the engine's tri-state query outcome. Engine-internal failures
// are reported through the error return of Query, never through Result.
type Result int

const (
	// Derivable means the goal is reachable under the clause set.
	Derivable Result = iota
	// NotDerivable means the goal is unreachable.
	NotDerivable
	// Unknown means the step budget ran out or the search hit a clause
	// shape the procedure cannot decide.
	Unknown
)

func (r Result) String() string {
	switch r {
	case Derivable:
		return "derivable"
	case NotDerivable:
		return "not derivable"
	default:
		return "unknown"
	}
}

// Config holds the engine tuning applied once at construction.
type Config struct {
	// ResourceLimit is the computation-step budget per query. Zero falls
	// back to the process-wide limit (see SetResourceLimit).
	ResourceLimit uint64
}

// Engine owns the accumulated clause set and answers reachability queries
// over it. All state is owned by one engine value; concurrent use of the same
// engine is unsupported, callers wanting parallel queries use independent
// engines.
type Engine struct {
	cfg       Config
	log       *zap.Logger
	relations map[string]int // name -> arity
	clauses   map[string][]*clause
	order     []string // registration order; fixes the summary fixpoint iteration
	summaries summaries
	stale     bool
	nextID    uint
}

// NewEngine creates an engine with the given tuning.
func NewEngine(cfg Config, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		cfg:       cfg,
		log:       log,
		relations: make(map[string]int),
		clauses:   make(map[string][]*clause),
		stale:     true,
	}
}

// RegisterRelation marks a predicate symbol as a CHC relation, making it
// eligible to appear in rule heads and bodies and to be queried.
func (e *Engine) RegisterRelation(name string, arity int) {
	if _, ok := e.relations[name]; !ok {
		e.order = append(e.order, name)
	}
	e.relations[name] = arity
	e.stale = true
	e.log.Debug("relation registered", zap.String("relation", name), zap.Int("arity", arity))
}

// AddClause compiles and stores a rule. Rules accumulate; there is no
// retraction. Malformed rule expressions trap.
func (e *Engine) AddClause(expr smt.Expression, label string) {
	c := e.compileClause(expr, label)
	e.clauses[c.head.pred] = append(e.clauses[c.head.pred], c)
	e.stale = true
	e.log.Debug("rule added",
		zap.String("label", label),
		zap.String("head", c.head.pred),
		zap.Int("body_atoms", len(c.body)),
		zap.Int("constraints", len(c.constraints)))
}

// Query decides whether the goal is derivable from the accumulated clauses.
// On a Derivable outcome the returned proof is the ground refutation: its
// fact is the false literal and its first operand is the hyper-resolution
// step concluding the goal instance. The clause set is not affected, so
// queries can be interleaved with further AddClause calls.
func (e *Engine) Query(goal smt.Expression) (Result, *ProofNode, error) {
	arity, ok := e.relations[goal.Name]
	if !ok {
		return Unknown, nil, fmt.Errorf("query: %q is not a registered relation", goal.Name)
	}
	if len(goal.Args) != arity {
		return Unknown, nil, fmt.Errorf("query: relation %q expects %d arguments, got %d",
			goal.Name, arity, len(goal.Args))
	}

	limit := e.cfg.ResourceLimit
	if limit == 0 {
		limit = ResourceLimit()
	}

	if e.stale {
		e.summaries = e.computeSummaries()
		e.stale = false
	}

	s := newSearch(e, limit)
	goalAtom := e.goalAtom(goal)

	var goalProof *ProofNode
	s.derive(goalAtom, func(proof *ProofNode) bool {
		goalProof = proof
		return true
	})

	switch {
	case goalProof != nil:
		falseNode := e.newNode(OpFact, "false", nil, nil)
		root := e.newNode(OpAsserted, "", nil, []*ProofNode{goalProof, falseNode})
		e.log.Debug("query derivable", zap.String("goal", goal.String()), zap.Uint64("steps", s.steps))
		return Derivable, root, nil
	case s.exhausted || s.incomplete:
		e.log.Debug("query unknown",
			zap.String("goal", goal.String()),
			zap.Bool("budget_exhausted", s.exhausted),
			zap.Uint64("steps", s.steps))
		return Unknown, nil, nil
	default:
		e.log.Debug("query not derivable", zap.String("goal", goal.String()), zap.Uint64("steps", s.steps))
		return NotDerivable, nil, nil
	}
}

// goalAtom converts the goal expression to an atom, renaming free symbols in
// argument position to search variables so non-ground goals enumerate.
func (e *Engine) goalAtom(goal smt.Expression) atom {
	args := make([]smt.Expression, len(goal.Args))
	for i, t := range goal.Args {
		args[i] = e.renameGoalVars(t)
	}
	return atom{pred: goal.Name, args: args}
}

func (e *Engine) renameGoalVars(t smt.Expression) smt.Expression {
	if len(t.Args) == 0 {
		if _, isNum := t.AsNumeral(); isNum {
			return t
		}
		if _, isBool := t.IsBoolLiteral(); isBool {
			return t
		}
		return smt.Expression{Name: "?" + t.Name + "!goal", Sort: t.Sort}
	}
	args := make([]smt.Expression, len(t.Args))
	for i, a := range t.Args {
		args[i] = e.renameGoalVars(a)
	}
	return smt.Expression{Name: t.Name, Args: args, Sort: t.Sort}
}
