package smt

import (
	"sort"

	"hornet/internal/contract"
)

// SymbolTable tracks declared variables and declared function symbols by
// name. It is owned by exactly one solver instance for the lifetime of a
// solving session and is not safe for concurrent use.
//
// Duplicate declarations are a caller error and are not validated here.
type SymbolTable struct {
	vars  map[string]*Sort
	funcs map[string]*Sort
}

// NewSymbolTable returns an empty symbol table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		vars:  make(map[string]*Sort),
		funcs: make(map[string]*Sort),
	}
}

// DeclareVariable registers a sorted variable. A nil sort is a contract
// violation and traps.
func (t *SymbolTable) DeclareVariable(name string, sort *Sort) {
	contract.Assertf(sort != nil, "declareVariable(%q): sort must not be empty", name)
	t.vars[name] = sort
}

// DeclareFunction registers an uninterpreted function symbol and returns an
// application-ready expression head for it.
func (t *SymbolTable) DeclareFunction(name string, domain []*Sort, codomain *Sort) Expression {
	contract.Assertf(codomain != nil, "declareFunction(%q): codomain must not be empty", name)
	fs := FunctionSort(domain, codomain)
	t.funcs[name] = fs
	return Expression{Name: name, Sort: fs}
}

// Variable looks up a declared variable sort by name.
func (t *SymbolTable) Variable(name string) (*Sort, bool) {
	s, ok := t.vars[name]
	return s, ok
}

// Function looks up a declared function symbol sort by name.
func (t *SymbolTable) Function(name string) (*Sort, bool) {
	s, ok := t.funcs[name]
	return s, ok
}

// Variables returns every declared variable as an expression, ordered by
// name so quantifier prefixes are stable across runs.
func (t *SymbolTable) Variables() []Expression {
	names := make([]string, 0, len(t.vars))
	for name := range t.vars {
		names = append(names, name)
	}
	sort.Strings(names)

	vars := make([]Expression, 0, len(names))
	for _, name := range names {
		vars = append(vars, Var(name, t.vars[name]))
	}
	return vars
}
