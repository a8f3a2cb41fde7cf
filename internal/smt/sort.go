// Package smt provides the sorted expression layer shared by the Horn engine
// and the CHC solver: sorts, expression construction, and the symbol table of
// declared variables and function symbols.
package smt

// SortKind discriminates the supported sort families.
type SortKind int

const (
	KindBool SortKind = iota
	KindInt
	KindFunction
)

// Sort describes the sort of an expression. Function sorts carry a domain and
// a codomain; Bool and Int are the shared singletons below.
type Sort struct {
	Kind     SortKind
	Domain   []*Sort
	Codomain *Sort
}

var (
	// SortBool is the boolean sort.
	SortBool = &Sort{Kind: KindBool}
	// SortInt is the mathematical integer sort.
	SortInt = &Sort{Kind: KindInt}
)

// FunctionSort builds the sort of an uninterpreted function symbol.
func FunctionSort(domain []*Sort, codomain *Sort) *Sort {
	return &Sort{Kind: KindFunction, Domain: domain, Codomain: codomain}
}

// String returns a compact spelling of the sort, mainly for diagnostics.
func (s *Sort) String() string {
	if s == nil {
		return "<nil>"
	}
	switch s.Kind {
	case KindBool:
		return "Bool"
	case KindInt:
		return "Int"
	case KindFunction:
		out := "("
		for i, d := range s.Domain {
			if i > 0 {
				out += " "
			}
			out += d.String()
		}
		return out + ") -> " + s.Codomain.String()
	default:
		return "<unknown sort>"
	}
}
