package horn

import "hornet/internal/smt"

// span is an integer interval, possibly unbounded on either side.
type span struct {
	lo, hi     int64
	noLo, noHi bool
}

func pointSpan(v int64) span { return span{lo: v, hi: v} }
func fullSpan() span         { return span{noLo: true, noHi: true} }

func (s span) contains(v int64) bool {
	if !s.noLo && v < s.lo {
		return false
	}
	if !s.noHi && v > s.hi {
		return false
	}
	return true
}

// union is the convex hull of two spans.
func (s span) union(o span) span {
	out := span{noLo: s.noLo || o.noLo, noHi: s.noHi || o.noHi}
	if !out.noLo {
		out.lo = min(s.lo, o.lo)
	}
	if !out.noHi {
		out.hi = max(s.hi, o.hi)
	}
	return out
}

// intersect narrows s by o; the second result is false when the spans are
// disjoint.
func (s span) intersect(o span) (span, bool) {
	out := span{noLo: s.noLo && o.noLo, noHi: s.noHi && o.noHi}
	switch {
	case s.noLo:
		out.lo = o.lo
	case o.noLo:
		out.lo = s.lo
	default:
		out.lo = max(s.lo, o.lo)
	}
	switch {
	case s.noHi:
		out.hi = o.hi
	case o.noHi:
		out.hi = s.hi
	default:
		out.hi = min(s.hi, o.hi)
	}
	if !out.noLo && !out.noHi && out.lo > out.hi {
		return span{}, false
	}
	return out, true
}

func (s span) add(o span) span {
	out := span{noLo: s.noLo || o.noLo, noHi: s.noHi || o.noHi}
	if !out.noLo {
		out.lo = s.lo + o.lo
	}
	if !out.noHi {
		out.hi = s.hi + o.hi
	}
	return out
}

func (s span) sub(o span) span {
	out := span{noLo: s.noLo || o.noHi, noHi: s.noHi || o.noLo}
	if !out.noLo {
		out.lo = s.lo - o.hi
	}
	if !out.noHi {
		out.hi = s.hi - o.lo
	}
	return out
}

// widen keeps the bounds that held in prev and opens the ones that grew, so
// the fixpoint iteration converges on recursive clause sets.
func widen(prev, next span) span {
	out := prev.union(next)
	if next.noLo || (!prev.noLo && next.lo < prev.lo) {
		out.noLo = true
		out.lo = 0
	}
	if next.noHi || (!prev.noHi && next.hi > prev.hi) {
		out.noHi = true
		out.hi = 0
	}
	return out
}

// summaries over-approximates, per relation, the argument values any
// derivable fact can carry. A relation with no entry derives nothing.
type summaries map[string][]span

// admits reports whether a ground atom falls inside the over-approximation.
// Atoms outside it are unreachable for certain, so the search may fail them
// finitely instead of descending through arithmetic heads forever.
func (m summaries) admits(a atom) bool {
	spans, ok := m[a.pred]
	if !ok {
		return false
	}
	if len(spans) != len(a.args) {
		return true
	}
	for i, t := range a.args {
		if v, isNum := t.AsNumeral(); isNum && !spans[i].contains(v) {
			return false
		}
	}
	return true
}

// Passes before bound growth widens to infinity.
const widenAfter = 2

// computeSummaries runs an interval fixpoint over the clause set: each pass
// pushes head bounds forward from the current relation bounds, narrowed by
// the clause's body atoms and constraints. Relations iterate in registration
// order so the result is deterministic.
func (e *Engine) computeSummaries() summaries {
	out := make(summaries, len(e.clauses))
	for pass := 0; ; pass++ {
		changed := false
		for _, pred := range e.order {
			for _, c := range e.clauses[pred] {
				spans, fires := clauseSpans(c, out)
				if !fires {
					continue
				}
				cur, ok := out[pred]
				if !ok {
					out[pred] = spans
					changed = true
					continue
				}
				if len(spans) != len(cur) {
					continue
				}
				for i := range cur {
					next := cur[i].union(spans[i])
					if next == cur[i] {
						continue
					}
					if pass >= widenAfter {
						next = widen(cur[i], next)
					}
					cur[i] = next
					changed = true
				}
			}
		}
		if !changed {
			return out
		}
	}
}

// clauseSpans abstractly evaluates one clause against the current relation
// bounds. The second result is false when the clause cannot fire at all:
// a body relation with no derivable facts, or an unsatisfiable variable
// range.
func clauseSpans(c *clause, cur summaries) ([]span, bool) {
	env := make(map[string]span, len(c.vars))
	for _, b := range c.body {
		spans, ok := cur[b.pred]
		if !ok || len(spans) != len(b.args) {
			return nil, false
		}
		for i, t := range b.args {
			if !isClauseVar(t, c) {
				continue
			}
			have, seen := env[t.Name]
			if !seen {
				have = fullSpan()
			}
			narrowed, feasible := have.intersect(spans[i])
			if !feasible {
				return nil, false
			}
			env[t.Name] = narrowed
		}
	}
	for _, con := range c.constraints {
		if !refineSpan(env, con, c) {
			return nil, false
		}
	}

	out := make([]span, len(c.head.args))
	for i, t := range c.head.args {
		out[i] = evalSpan(t, env, c)
	}
	return out, true
}

// refineSpan narrows a variable's range by a comparison against a constant.
// Constraint shapes the analysis does not understand refine nothing, which
// keeps the result an over-approximation.
func refineSpan(env map[string]span, con smt.Expression, c *clause) bool {
	if len(con.Args) != 2 {
		return true
	}
	l, r := con.Args[0], con.Args[1]
	if v, ok := r.AsNumeral(); ok && isClauseVar(l, c) {
		return refineVar(env, l.Name, con.Name, v)
	}
	if v, ok := l.AsNumeral(); ok && isClauseVar(r, c) {
		return refineVar(env, r.Name, flipCmp(con.Name), v)
	}
	return true
}

func refineVar(env map[string]span, name, op string, v int64) bool {
	var bound span
	switch op {
	case "<":
		bound = span{noLo: true, hi: v - 1}
	case "<=":
		bound = span{noLo: true, hi: v}
	case ">":
		bound = span{lo: v + 1, noHi: true}
	case ">=":
		bound = span{lo: v, noHi: true}
	case "=":
		bound = pointSpan(v)
	default:
		return true
	}

	have, seen := env[name]
	if !seen {
		have = fullSpan()
	}
	narrowed, feasible := have.intersect(bound)
	if !feasible {
		return false
	}
	env[name] = narrowed
	return true
}

func flipCmp(op string) string {
	switch op {
	case "<":
		return ">"
	case "<=":
		return ">="
	case ">":
		return "<"
	case ">=":
		return "<="
	default:
		return op
	}
}

// evalSpan bounds a head term. Shapes beyond numerals, variables and linear
// +/- stay unbounded.
func evalSpan(t smt.Expression, env map[string]span, c *clause) span {
	if v, ok := t.AsNumeral(); ok {
		return pointSpan(v)
	}
	if isClauseVar(t, c) {
		if s, ok := env[t.Name]; ok {
			return s
		}
		return fullSpan()
	}
	if len(t.Args) == 2 {
		switch t.Name {
		case "+":
			return evalSpan(t.Args[0], env, c).add(evalSpan(t.Args[1], env, c))
		case "-":
			return evalSpan(t.Args[0], env, c).sub(evalSpan(t.Args[1], env, c))
		}
	}
	return fullSpan()
}

func isClauseVar(t smt.Expression, c *clause) bool {
	return len(t.Args) == 0 && c.vars[t.Name]
}
