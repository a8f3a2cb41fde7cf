package horn

import (
	"strconv"
	"strings"

	"hornet/internal/contract"
	"hornet/internal/smt"
)

// atom is one relation literal: a predicate name applied to argument terms.
// Terms are smt expressions; in a ground atom every argument is a literal.
type atom struct {
	pred string
	args []smt.Expression
}

func (a atom) key() string {
	var sb strings.Builder
	sb.WriteString(a.pred)
	sb.WriteByte('(')
	for i, t := range a.args {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(t.String())
	}
	sb.WriteByte(')')
	return sb.String()
}

// clause is one constrained Horn clause: body atoms plus interpreted
// constraints imply the head atom. A missing head predicate ("false") never
// occurs here; goal clauses are synthesized per query.
type clause struct {
	label       string
	vars        map[string]bool
	head        atom
	body        []atom
	constraints []smt.Expression
}

// compileClause turns a rule expression into clause form. The expression is
// either a bare head atom (a base fact), an implication body => head, or a
// forall wrapping one of those. Malformed rule expressions are a programming
// contract violation and trap.
func (e *Engine) compileClause(expr smt.Expression, label string) *clause {
	c := &clause{label: label, vars: make(map[string]bool)}

	body := expr
	if expr.Name == "forall" {
		contract.Assertf(len(expr.Args) >= 2, "rule %q: forall needs variables and a body", label)
		for _, v := range expr.Args[:len(expr.Args)-1] {
			c.vars[v.Name] = true
		}
		body = expr.Args[len(expr.Args)-1]
	}

	head := body
	if body.Name == "=>" && len(body.Args) == 2 {
		e.flattenBody(c, body.Args[0], label)
		head = body.Args[1]
	}

	_, isRelation := e.relations[head.Name]
	contract.Assertf(isRelation, "rule %q: head %q is not a registered relation", label, head.Name)
	c.head = atom{pred: head.Name, args: head.Args}
	return c
}

// flattenBody splits a body conjunction into relation atoms and interpreted
// constraints.
func (e *Engine) flattenBody(c *clause, body smt.Expression, label string) {
	if body.Name == "and" {
		for _, conj := range body.Args {
			e.flattenBody(c, conj, label)
		}
		return
	}
	if body.Name == "true" && len(body.Args) == 0 {
		return
	}
	if _, ok := e.relations[body.Name]; ok {
		c.body = append(c.body, atom{pred: body.Name, args: body.Args})
		return
	}
	contract.Assertf(body.Sort == smt.SortBool,
		"rule %q: body literal %s is neither a relation nor a boolean constraint", label, body.String())
	c.constraints = append(c.constraints, body)
}

// instance is a clause activation with its variables renamed apart. Renamed
// variables are spelled "?<label>!<n>" so they can never collide with user
// symbols, which lets the evaluator identify variables purely by name.
type instance struct {
	label       string
	head        atom
	body        []atom
	constraints []smt.Expression
}

func (c *clause) instantiate(serial uint64) instance {
	rename := make(map[string]smt.Expression, len(c.vars))
	for name := range c.vars {
		rename[name] = smt.Expression{
			Name: "?" + name + "!" + strconv.FormatUint(serial, 10),
			Sort: smt.SortInt,
		}
	}

	inst := instance{label: c.label}
	inst.head = atom{pred: c.head.pred, args: renameTerms(c.head.args, rename)}
	for _, b := range c.body {
		inst.body = append(inst.body, atom{pred: b.pred, args: renameTerms(b.args, rename)})
	}
	for _, con := range c.constraints {
		inst.constraints = append(inst.constraints, renameTerm(con, rename))
	}
	return inst
}

func renameTerms(ts []smt.Expression, rename map[string]smt.Expression) []smt.Expression {
	out := make([]smt.Expression, len(ts))
	for i, t := range ts {
		out[i] = renameTerm(t, rename)
	}
	return out
}

func renameTerm(t smt.Expression, rename map[string]smt.Expression) smt.Expression {
	if len(t.Args) == 0 {
		if fresh, ok := rename[t.Name]; ok {
			return fresh
		}
		return t
	}
	return smt.Expression{Name: t.Name, Args: renameTerms(t.Args, rename), Sort: t.Sort}
}

// isVariable reports whether a term is a renamed search variable.
func isVariable(t smt.Expression) bool {
	return len(t.Args) == 0 && strings.HasPrefix(t.Name, "?")
}
