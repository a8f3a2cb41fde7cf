package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"hornet/internal/chc"
	"hornet/internal/smt"
)

// Problem is the YAML description of one CHC system plus its queries.
type Problem struct {
	Variables []VariableDecl `yaml:"variables"`
	Relations []RelationDecl `yaml:"relations"`
	Rules     []RuleDecl     `yaml:"rules"`
	Queries   []string       `yaml:"queries"`
}

// VariableDecl declares one sorted free variable.
type VariableDecl struct {
	Name string `yaml:"name"`
	Sort string `yaml:"sort"`
}

// RelationDecl declares one uninterpreted predicate symbol.
type RelationDecl struct {
	Name string   `yaml:"name"`
	Args []string `yaml:"args"`
}

// RuleDecl is one implication in infix notation. A missing label gets a
// generated one so every rule stays addressable in diagnostics.
type RuleDecl struct {
	Label string `yaml:"label"`
	Expr  string `yaml:"expr"`
}

// LoadProblem reads and decodes a problem file.
func LoadProblem(path string) (*Problem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read problem %s: %w", path, err)
	}
	var p Problem
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse problem %s: %w", path, err)
	}
	return &p, nil
}

// Build constructs a fresh solver instance holding the problem's rule set
// and returns the parsed query goals.
func (p *Problem) Build(cfg chc.Config, log *zap.Logger) (*chc.Solver, []smt.Expression, error) {
	solver := chc.NewSolver(cfg, chc.WithLogger(log))

	vars := make(map[string]smt.Expression, len(p.Variables))
	for _, v := range p.Variables {
		sort, err := sortByName(v.Sort)
		if err != nil {
			return nil, nil, fmt.Errorf("variable %q: %w", v.Name, err)
		}
		solver.DeclareVariable(v.Name, sort)
		vars[v.Name] = smt.Var(v.Name, sort)
	}

	for _, r := range p.Relations {
		domain := make([]*smt.Sort, len(r.Args))
		for i, arg := range r.Args {
			sort, err := sortByName(arg)
			if err != nil {
				return nil, nil, fmt.Errorf("relation %q: %w", r.Name, err)
			}
			domain[i] = sort
		}
		decl := solver.DeclareFunction(r.Name, domain, smt.SortBool)
		solver.RegisterRelation(decl)
	}

	resolve := func(name string) (smt.Expression, bool) {
		expr, ok := vars[name]
		return expr, ok
	}

	for _, r := range p.Rules {
		expr, err := parseExpr(r.Expr, resolve)
		if err != nil {
			return nil, nil, fmt.Errorf("rule %q: %w", r.Expr, err)
		}
		label := r.Label
		if label == "" {
			label = "rule-" + uuid.NewString()
		}
		solver.AddRule(expr, label)
	}

	goals := make([]smt.Expression, 0, len(p.Queries))
	for _, q := range p.Queries {
		goal, err := parseExpr(q, resolve)
		if err != nil {
			return nil, nil, fmt.Errorf("query %q: %w", q, err)
		}
		goals = append(goals, goal)
	}

	return solver, goals, nil
}

func sortByName(name string) (*smt.Sort, error) {
	switch name {
	case "int":
		return smt.SortInt, nil
	case "bool":
		return smt.SortBool, nil
	default:
		return nil, fmt.Errorf("unknown sort %q", name)
	}
}
