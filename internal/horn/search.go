package horn

import "hornet/internal/smt"

// bindings maps renamed search variables to terms, with an undo trail so
// backtracking restores the exact prior state instead of cloning the map at
// every choice point. Bindings may chain through other variables; walk
// follows the chain.
type bindings struct {
	vals  map[string]smt.Expression
	trail []string
}

func newBindings() *bindings {
	return &bindings{vals: make(map[string]smt.Expression)}
}

func (b *bindings) mark() int { return len(b.trail) }

func (b *bindings) bind(name string, t smt.Expression) {
	b.vals[name] = t
	b.trail = append(b.trail, name)
}

func (b *bindings) undo(to int) {
	for i := len(b.trail) - 1; i >= to; i-- {
		delete(b.vals, b.trail[i])
	}
	b.trail = b.trail[:to]
}

func (b *bindings) walk(t smt.Expression) smt.Expression {
	for isVariable(t) {
		bound, ok := b.vals[t.Name]
		if !ok {
			return t
		}
		t = bound
	}
	return t
}

// Ceiling on derivation depth. The step budget bounds the amount of work;
// this bounds the goroutine stack, since each derivation level is one set of
// recursive frames. Hitting it marks the search incomplete.
const maxSearchDepth = 10_000

// search carries the state of one query: the shared bindings, the step
// budget, the memo table of proved ground facts (which makes shared
// sub-proofs share proof nodes), and the in-progress set that cuts cyclic
// derivations. Least-fixedpoint semantics make the cut sound: a derivation
// of a fact from itself can never be the first derivation of that fact.
type search struct {
	eng        *Engine
	b          *bindings
	steps      uint64
	limit      uint64
	serial     uint64
	depth      int
	memo       map[string]*ProofNode
	inProgress map[string]bool
	exhausted  bool
	incomplete bool
}

func newSearch(e *Engine, limit uint64) *search {
	return &search{
		eng:        e,
		b:          newBindings(),
		limit:      limit,
		memo:       make(map[string]*ProofNode),
		inProgress: make(map[string]bool),
	}
}

// spend consumes one computation step; it reports false once the budget is
// exhausted, which surfaces as the Unknown outcome.
func (s *search) spend() bool {
	s.steps++
	if s.limit > 0 && s.steps > s.limit {
		s.exhausted = true
		return false
	}
	return true
}

// eval reduces a term to a literal under the current bindings. The second
// result is false when the term still contains unbound variables.
func (s *search) eval(t smt.Expression) (smt.Expression, bool) {
	t = s.b.walk(t)
	if len(t.Args) == 0 {
		if isVariable(t) {
			return t, false
		}
		return t, true
	}

	args := make([]smt.Expression, len(t.Args))
	for i, a := range t.Args {
		v, ok := s.eval(a)
		if !ok {
			return t, false
		}
		args[i] = v
	}

	boolOf := func(b bool) smt.Expression {
		if b {
			return smt.True()
		}
		return smt.False()
	}

	switch t.Name {
	case "+", "-", "*":
		a, aok := args[0].AsNumeral()
		b, bok := args[1].AsNumeral()
		if !aok || !bok {
			return t, false
		}
		switch t.Name {
		case "+":
			return smt.Numeral(a + b), true
		case "-":
			return smt.Numeral(a - b), true
		default:
			return smt.Numeral(a * b), true
		}
	case "<", "<=", ">", ">=":
		a, aok := args[0].AsNumeral()
		b, bok := args[1].AsNumeral()
		if !aok || !bok {
			return t, false
		}
		switch t.Name {
		case "<":
			return boolOf(a < b), true
		case "<=":
			return boolOf(a <= b), true
		case ">":
			return boolOf(a > b), true
		default:
			return boolOf(a >= b), true
		}
	case "=":
		return boolOf(args[0].String() == args[1].String()), true
	case "and", "or":
		a, aok := args[0].IsBoolLiteral()
		b, bok := args[1].IsBoolLiteral()
		if !aok || !bok {
			return t, false
		}
		if t.Name == "and" {
			return boolOf(a && b), true
		}
		return boolOf(a || b), true
	case "not":
		a, aok := args[0].IsBoolLiteral()
		if !aok {
			return t, false
		}
		return boolOf(!a), true
	default:
		// Uninterpreted application: ground once all arguments are.
		return smt.Expression{Name: t.Name, Args: args, Sort: t.Sort}, true
	}
}

// unify matches two terms, extending the bindings. Arithmetic heads of the
// forms t+c, c+t, t-c are inverted against ground values, which covers the
// transition-term shapes the clause builder emits. A failure on a term the
// procedure cannot decide marks the search incomplete so the outcome
// degrades to Unknown instead of a wrong Unsatisfiable.
func (s *search) unify(a, b smt.Expression) bool {
	a = s.b.walk(a)
	b = s.b.walk(b)

	if isVariable(a) {
		if isVariable(b) && a.Name == b.Name {
			return true
		}
		s.b.bind(a.Name, b)
		return true
	}
	if isVariable(b) {
		s.b.bind(b.Name, a)
		return true
	}

	av, aok := s.eval(a)
	bv, bok := s.eval(b)
	switch {
	case aok && bok:
		return av.String() == bv.String()
	case aok:
		return s.invert(av, b)
	case bok:
		return s.invert(bv, a)
	default:
		if a.Name == b.Name && len(a.Args) == len(b.Args) {
			for i := range a.Args {
				if !s.unify(a.Args[i], b.Args[i]) {
					return false
				}
			}
			return true
		}
		s.incomplete = true
		return false
	}
}

// invert solves term = value for linear arithmetic shapes.
func (s *search) invert(value, term smt.Expression) bool {
	term = s.b.walk(term)
	if isVariable(term) {
		s.b.bind(term.Name, value)
		return true
	}

	v, vok := value.AsNumeral()
	if vok && len(term.Args) == 2 && (term.Name == "+" || term.Name == "-") {
		left, lok := s.eval(term.Args[0])
		right, rok := s.eval(term.Args[1])
		switch {
		case rok:
			if c, ok := right.AsNumeral(); ok {
				if term.Name == "+" {
					return s.invert(smt.Numeral(v-c), term.Args[0])
				}
				return s.invert(smt.Numeral(v+c), term.Args[0])
			}
		case lok:
			if c, ok := left.AsNumeral(); ok {
				if term.Name == "+" {
					return s.invert(smt.Numeral(v-c), term.Args[1])
				}
				return s.invert(smt.Numeral(c-v), term.Args[1])
			}
		}
	}

	s.incomplete = true
	return false
}

// derive enumerates derivations of the goal atom under the current bindings,
// invoking found once per derivation until found returns true. The return
// value reports whether enumeration was stopped by found. Ground goals
// outside the relation's derivable bounds fail finitely: the summary is an
// over-approximation, so there is no derivation to miss.
func (s *search) derive(goal atom, found func(*ProofNode) bool) bool {
	if s.depth >= maxSearchDepth {
		s.incomplete = true
		return false
	}
	s.depth++
	defer func() { s.depth-- }()

	ga, ground := s.groundAtom(goal)
	if ground {
		if !s.eng.summaries.admits(ga) {
			return false
		}
		key := ga.key()
		if p, ok := s.memo[key]; ok {
			return found(p)
		}
		if s.inProgress[key] {
			return false
		}
		s.inProgress[key] = true
		defer delete(s.inProgress, key)
	}

	for _, c := range s.eng.clauses[goal.pred] {
		if !s.spend() {
			return false
		}
		s.serial++
		inst := c.instantiate(s.serial)
		if len(inst.head.args) != len(goal.args) {
			continue
		}

		mark := s.b.mark()
		matched := true
		for i := range goal.args {
			if !s.unify(goal.args[i], inst.head.args[i]) {
				matched = false
				break
			}
		}

		if matched {
			stopped := s.solveBody(inst, 0, nil, func(premises []*ProofNode) bool {
				for _, con := range inst.constraints {
					v, ok := s.eval(con)
					if !ok {
						s.incomplete = true
						return false
					}
					if hold, isBool := v.IsBoolLiteral(); !isBool || !hold {
						return false
					}
				}

				fact, ok := s.groundAtom(inst.head)
				if !ok {
					s.incomplete = true
					return false
				}
				return found(s.factProof(fact, inst, premises))
			})
			if stopped {
				return true
			}
		}

		s.b.undo(mark)
		if s.exhausted {
			return false
		}
	}
	return false
}

// solveBody proves the body atoms of an instance left to right.
func (s *search) solveBody(inst instance, idx int, premises []*ProofNode, done func([]*ProofNode) bool) bool {
	if idx == len(inst.body) {
		return done(premises)
	}
	return s.derive(inst.body[idx], func(proof *ProofNode) bool {
		extended := make([]*ProofNode, len(premises), len(premises)+1)
		copy(extended, premises)
		extended = append(extended, proof)
		return s.solveBody(inst, idx+1, extended, done)
	})
}

// groundAtom evaluates an atom's arguments under the current bindings; the
// second result is false when any argument is still unbound.
func (s *search) groundAtom(a atom) (atom, bool) {
	args := make([]smt.Expression, len(a.args))
	for i, t := range a.args {
		v, ok := s.eval(t)
		if !ok {
			return atom{}, false
		}
		args[i] = v
	}
	return atom{pred: a.pred, args: args}, true
}

// factProof returns the hyper-resolution step concluding the given ground
// fact, memoized so every later use of the fact shares the same node.
func (s *search) factProof(fact atom, inst instance, premises []*ProofNode) *ProofNode {
	key := fact.key()
	if p, ok := s.memo[key]; ok {
		return p
	}

	args := make([]string, len(fact.args))
	for i, v := range fact.args {
		args[i] = v.String()
	}
	factNode := s.eng.newNode(OpFact, fact.pred, args, nil)
	ruleNode := s.eng.newNode(OpRuleInstance, inst.label, nil, nil)

	operands := make([]*ProofNode, 0, len(premises)+2)
	operands = append(operands, ruleNode)
	operands = append(operands, premises...)
	operands = append(operands, factNode)

	step := s.eng.newNode(OpHyperResolve, "", nil, operands)
	s.memo[key] = step
	return step
}
