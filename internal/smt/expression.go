package smt

import (
	"strconv"
	"strings"
)

// Expression is an applicative term: an operator or symbol name applied to an
// ordered list of argument expressions. Constants and variables are
// applications with zero arguments. The representation is deliberately plain
// so the Horn engine can pattern-match on names.
type Expression struct {
	Name string
	Args []Expression
	Sort *Sort
}

// Numeral returns an integer constant expression.
func Numeral(v int64) Expression {
	return Expression{Name: strconv.FormatInt(v, 10), Sort: SortInt}
}

// Var returns a reference to a sorted variable.
func Var(name string, sort *Sort) Expression {
	return Expression{Name: name, Sort: sort}
}

// True and False are the boolean literals.
func True() Expression  { return Expression{Name: "true", Sort: SortBool} }
func False() Expression { return Expression{Name: "false", Sort: SortBool} }

func binary(name string, a, b Expression, sort *Sort) Expression {
	return Expression{Name: name, Args: []Expression{a, b}, Sort: sort}
}

// Arithmetic operators.
func Plus(a, b Expression) Expression  { return binary("+", a, b, SortInt) }
func Minus(a, b Expression) Expression { return binary("-", a, b, SortInt) }
func Mul(a, b Expression) Expression   { return binary("*", a, b, SortInt) }

// Comparison operators.
func Lt(a, b Expression) Expression  { return binary("<", a, b, SortBool) }
func Leq(a, b Expression) Expression { return binary("<=", a, b, SortBool) }
func Gt(a, b Expression) Expression  { return binary(">", a, b, SortBool) }
func Geq(a, b Expression) Expression { return binary(">=", a, b, SortBool) }
func Eq(a, b Expression) Expression  { return binary("=", a, b, SortBool) }

// Boolean connectives.
func And(a, b Expression) Expression     { return binary("and", a, b, SortBool) }
func Or(a, b Expression) Expression      { return binary("or", a, b, SortBool) }
func Implies(a, b Expression) Expression { return binary("=>", a, b, SortBool) }
func Not(a Expression) Expression {
	return Expression{Name: "not", Args: []Expression{a}, Sort: SortBool}
}

// App applies an uninterpreted predicate or function symbol to arguments.
func App(name string, args ...Expression) Expression {
	return Expression{Name: name, Args: args, Sort: SortBool}
}

// Forall universally quantifies body over vars. The quantified variables come
// first in the argument list; the body is the last argument, matching the
// layout the Horn engine unwraps.
func Forall(vars []Expression, body Expression) Expression {
	args := make([]Expression, 0, len(vars)+1)
	args = append(args, vars...)
	args = append(args, body)
	return Expression{Name: "forall", Args: args, Sort: SortBool}
}

// AsNumeral reports whether the expression is an integer constant and, if so,
// its value.
func (e Expression) AsNumeral() (int64, bool) {
	if len(e.Args) != 0 {
		return 0, false
	}
	v, err := strconv.ParseInt(e.Name, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// IsBoolLiteral reports whether the expression is the literal true or false.
func (e Expression) IsBoolLiteral() (bool, bool) {
	if len(e.Args) != 0 {
		return false, false
	}
	switch e.Name {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return false, false
}

// String renders the expression in s-expression form; zero-argument
// expressions render as their bare name, so ground values print as "0", "42".
func (e Expression) String() string {
	if len(e.Args) == 0 {
		return e.Name
	}
	var sb strings.Builder
	sb.WriteByte('(')
	sb.WriteString(e.Name)
	for _, a := range e.Args {
		sb.WriteByte(' ')
		sb.WriteString(a.String())
	}
	sb.WriteByte(')')
	return sb.String()
}
