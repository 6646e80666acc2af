// Package verify exports a solved invention as typed facts into a Mangle
// fact store and evaluates the ontology's registered existence tests, plus
// ad-hoc predicate queries, against it. Adapted from the larger engine
// wrapper pattern: the store holds is_a/2, adj/3 and holds/3 atoms keyed by
// individual name.
package verify

import (
	"fmt"

	"github.com/google/mangle/ast"
	"github.com/google/mangle/factstore"

	"imaginarium/internal/generator"
	"imaginarium/internal/ontology"
)

var (
	predIsA   = ast.PredicateSym{Symbol: "is_a", Arity: 2}
	predAdj   = ast.PredicateSym{Symbol: "adj", Arity: 3}
	predHolds = ast.PredicateSym{Symbol: "holds", Arity: 3}
)

// Checker holds the facts of one invention.
type Checker struct {
	store factstore.FactStore
	inv   *generator.Invention
}

// NewChecker builds a checker over the invention's solution.
func NewChecker(inv *generator.Invention) *Checker {
	c := &Checker{
		store: factstore.NewSimpleInMemoryStore(),
		inv:   inv,
	}
	c.load()
	return c
}

func (c *Checker) load() {
	ont := c.inv.Ontology()
	for _, ind := range c.inv.Individuals {
		name := ast.String(ind.NameTokens.String())
		for _, k := range ont.Nouns() {
			if c.inv.IsA(ind, k) {
				c.store.Add(ast.Atom{
					Predicate: predIsA,
					Args:      []ast.BaseTerm{name, ast.String(k.SingularForm.String())},
				})
			}
		}
		for _, a := range ont.Adjectives() {
			truth := ast.FalseConstant
			if c.inv.AdjectiveTrue(ind, a) {
				truth = ast.TrueConstant
			}
			c.store.Add(ast.Atom{
				Predicate: predAdj,
				Args:      []ast.BaseTerm{name, ast.String(a.SingularForm.String()), truth},
			})
		}
	}
	for _, v := range ont.Verbs() {
		for _, subj := range c.inv.Individuals {
			for _, obj := range c.inv.Individuals {
				if c.inv.Holds(v, subj, obj) {
					c.store.Add(ast.Atom{
						Predicate: predHolds,
						Args: []ast.BaseTerm{
							ast.String(v.Base.String()),
							ast.String(subj.NameTokens.String()),
							ast.String(obj.NameTokens.String()),
						},
					})
				}
			}
		}
	}
}

// Query returns every stored atom of the named predicate whose arguments
// match args; "" and "_" are wildcards. Extra args are ignored.
func (c *Checker) Query(predicate string, args ...string) ([]ast.Atom, error) {
	var sym ast.PredicateSym
	switch predicate {
	case "is_a":
		sym = predIsA
	case "adj":
		sym = predAdj
	case "holds":
		sym = predHolds
	default:
		return nil, fmt.Errorf("unknown predicate %q", predicate)
	}
	var out []ast.Atom
	err := c.store.GetFacts(ast.NewQuery(sym), func(atom ast.Atom) error {
		for i, want := range args {
			if want == "" || want == "_" || i >= len(atom.Args) {
				continue
			}
			if got, ok := atom.Args[i].(ast.Constant); !ok || got.Symbol != want {
				return nil
			}
		}
		out = append(out, atom)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Result is the outcome of one registered test.
type Result struct {
	Test    *ontology.Test
	Noun    *ontology.CommonNoun
	Passed  bool
	Message string
}

// RunTests evaluates every test registered on the ontology against the
// invention. "every kind of X" tests fan out over the immediate sub-kinds.
func (c *Checker) RunTests() []Result {
	ont := c.inv.Ontology()
	var out []Result
	for _, t := range ont.Tests() {
		if t.EveryKind {
			for _, sub := range t.Noun.Subkinds {
				out = append(out, c.runOne(t, sub))
			}
			continue
		}
		out = append(out, c.runOne(t, t.Noun))
	}
	return out
}

func (c *Checker) runOne(t *ontology.Test, noun *ontology.CommonNoun) Result {
	exists := c.exists(noun, t.Modifiers)
	passed := exists == t.ShouldExist
	msg := t.SuccessMessage
	if !passed {
		msg = t.FailureMessage
	}
	if t.EveryKind {
		if passed {
			msg = fmt.Sprintf("found %s", noun.SingularForm)
		} else {
			msg = fmt.Sprintf("no %s exists", noun.SingularForm)
		}
	}
	return Result{Test: t, Noun: noun, Passed: passed, Message: msg}
}

// exists reports whether some individual is of the kind with every modifier
// literal satisfied.
func (c *Checker) exists(noun *ontology.CommonNoun, modifiers []ontology.Literal) bool {
	atoms, err := c.Query("is_a", "", noun.SingularForm.String())
	if err != nil {
		return false
	}
	for _, atom := range atoms {
		name, ok := atom.Args[0].(ast.Constant)
		if !ok {
			continue
		}
		if c.modifiersHold(name.Symbol, modifiers) {
			return true
		}
	}
	return false
}

func (c *Checker) modifiersHold(indName string, modifiers []ontology.Literal) bool {
	for _, m := range modifiers {
		switch concept := m.Concept.(type) {
		case *ontology.CommonNoun:
			atoms, _ := c.Query("is_a", indName, concept.SingularForm.String())
			if (len(atoms) > 0) != m.Truth {
				return false
			}
		case *ontology.Adjective:
			want := ast.FalseConstant.Symbol
			if m.Truth {
				want = ast.TrueConstant.Symbol
			}
			atoms, _ := c.Query("adj", indName, concept.SingularForm.String(), want)
			if len(atoms) == 0 {
				return false
			}
		}
	}
	return true
}
