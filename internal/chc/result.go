package chc

// CheckResult is the public outcome of a reachability query.
type CheckResult int

const (
	// Satisfiable means the queried goal is reachable: for a safety
	// property this is the bad outcome, and a counterexample graph is
	// extracted alongside it.
	Satisfiable CheckResult = iota
	// Unsatisfiable means the goal is unreachable; the safety property
	// holds. Inductive invariant retrieval on this branch is a documented
	// non-goal.
	Unsatisfiable
	// Unknown means the step budget was exhausted or the engine is
	// incomplete for the rule system; reachability is undetermined. It is
	// a legitimate outcome, not an error.
	Unknown
	// Error means the engine failed internally during the query.
	Error
)

func (r CheckResult) String() string {
	switch r {
	case Satisfiable:
		return "satisfiable"
	case Unsatisfiable:
		return "unsatisfiable"
	case Unknown:
		return "unknown"
	case Error:
		return "error"
	default:
		return "invalid"
	}
}
