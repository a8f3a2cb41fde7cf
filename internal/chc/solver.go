package chc

import (
	"go.uber.org/zap"

	"hornet/internal/contract"
	"hornet/internal/horn"
	"hornet/internal/smt"
)

// Engine abstracts the underlying reachability solver so tests can inject a
// failing one. The production implementation is *horn.Engine.
type Engine interface {
	RegisterRelation(name string, arity int)
	AddClause(rule smt.Expression, label string)
	Query(goal smt.Expression) (horn.Result, *horn.ProofNode, error)
}

// Solver is one CHC solving session: a symbol table, an accumulated rule set
// held by the engine, and a query surface. All mutable state is owned by one
// Solver; concurrent use from multiple goroutines is unsupported — callers
// needing parallel reachability queries use independent instances.
type Solver struct {
	cfg     Config
	symbols *smt.SymbolTable
	engine  Engine
	log     *zap.Logger
}

// Option customizes solver construction.
type Option func(*Solver)

// WithLogger attaches a logger; the default is a nop logger so library use
// stays quiet.
func WithLogger(log *zap.Logger) Option {
	return func(s *Solver) { s.log = log }
}

// WithEngine substitutes the underlying engine. Intended for tests.
func WithEngine(e Engine) Option {
	return func(s *Solver) { s.engine = e }
}

// NewSolver creates a solving session with the given fixed tuning.
func NewSolver(cfg Config, opts ...Option) *Solver {
	s := &Solver{
		cfg:     cfg,
		symbols: smt.NewSymbolTable(),
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.engine == nil {
		s.engine = horn.NewEngine(cfg.engineConfig(), s.log)
	}
	return s
}

// Symbols exposes the symbol table so callers can declare the function
// symbols their expressions reference.
func (s *Solver) Symbols() *smt.SymbolTable { return s.symbols }

// DeclareVariable registers a sorted variable for use in rules and queries.
// An empty sort traps.
func (s *Solver) DeclareVariable(name string, sort *smt.Sort) {
	s.symbols.DeclareVariable(name, sort)
}

// DeclareFunction registers an uninterpreted function symbol; relations must
// be declared through here (or an equivalent expression-construction path)
// before RegisterRelation can find them.
func (s *Solver) DeclareFunction(name string, domain []*smt.Sort, codomain *smt.Sort) smt.Expression {
	return s.symbols.DeclareFunction(name, domain, codomain)
}

// RegisterRelation marks the function symbol named by expr as a CHC
// relation. An undeclared symbol is a programming-contract violation and
// traps.
func (s *Solver) RegisterRelation(expr smt.Expression) {
	sort, ok := s.symbols.Function(expr.Name)
	contract.Assertf(ok, "registerRelation(%q): function symbol is not declared", expr.Name)
	s.engine.RegisterRelation(expr.Name, len(sort.Domain))
}

// AddRule contributes an implication to the Horn-clause system under the
// given label. When any free variables are declared, the rule is universally
// quantified over all of them, not just those occurring in expr; unused
// quantified variables do not affect satisfiability. Rules accumulate; there
// is no retraction.
func (s *Solver) AddRule(expr smt.Expression, label string) {
	rule := expr
	if vars := s.symbols.Variables(); len(vars) > 0 {
		rule = smt.Forall(vars, expr)
	}
	s.engine.AddClause(rule, label)
}

// Query asks whether goal is derivable from the accumulated rule set. The
// returned graph is empty unless the result is Satisfiable. The call is
// synchronous and blocking, bounded only by the configured step budget; an
// exhausted budget surfaces as Unknown. Engine-internal failures are caught
// here and mapped to Error — no engine condition crosses this boundary.
func (s *Solver) Query(goal smt.Expression) (CheckResult, CexGraph) {
	res, proof, err := s.engine.Query(goal)
	if err != nil {
		s.log.Warn("engine failed during query", zap.String("goal", goal.String()), zap.Error(err))
		return Error, CexGraph{}
	}

	switch res {
	case horn.Derivable:
		return Satisfiable, cexGraph(proof)
	case horn.NotDerivable:
		// TODO(invariants): surface the inductive invariant certificate
		// on this branch instead of an empty graph.
		return Unsatisfiable, CexGraph{}
	default:
		return Unknown, CexGraph{}
	}
}
