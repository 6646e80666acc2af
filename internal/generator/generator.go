// Package generator expands a generation request into individuals, emits
// the Boolean constraints modeling every ontology rule, hands the problem to
// the solver bridge, and wraps the solution as a queryable Invention.
package generator

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"imaginarium/internal/logging"
	"imaginarium/internal/ontology"
	"imaginarium/internal/sat"
	"imaginarium/internal/token"
)

// Options tune one generation pass.
type Options struct {
	Retries int
	Timeout time.Duration
	// Seed fixes the random source; zero means time-derived.
	Seed int64
}

// DefaultOptions are the standing generation parameters.
func DefaultOptions() Options {
	return Options{Retries: 4, Timeout: 5 * time.Second}
}

// Generator is the per-invocation state of one generation pass. It is not
// reusable; construct a fresh one per invention.
type Generator struct {
	ont       *ontology.Ontology
	root      *ontology.CommonNoun
	modifiers []ontology.Literal
	count     int
	opts      Options

	individuals []*ontology.Individual
	problem     *sat.Problem
	rng         *rand.Rand

	// asserted dedupes unit clauses; formalized dedupes per-(individual,
	// kind) constraint blocks within the rebuild.
	asserted   map[string]bool
	formalized map[indKind]bool

	// menuVars records the candidate value variables per (individual,
	// property) so the invention can read the chosen value back.
	menuVars map[propKey][]menuChoice
	// intervals records interval properties to sample after the solve.
	intervals []intervalInstance

	log *logging.Logger
}

type indKind struct {
	ind  *ontology.Individual
	kind *ontology.CommonNoun
}

type propKey struct {
	ind  *ontology.Individual
	prop *ontology.Property
}

type menuChoice struct {
	value string
	lit   sat.Lit
}

type intervalInstance struct {
	ind  *ontology.Individual
	prop *ontology.Property
	cond sat.Lit // the IsA literal gating the property
}

// New prepares a generation of count individuals of the root kind carrying
// the required modifiers.
func New(ont *ontology.Ontology, root *ontology.CommonNoun, modifiers []ontology.Literal, count int, opts Options) *Generator {
	if opts.Retries < 1 {
		opts.Retries = DefaultOptions().Retries
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultOptions().Timeout
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{
		ont:        ont,
		root:       root,
		modifiers:  modifiers,
		count:      count,
		opts:       opts,
		problem:    sat.NewProblem(),
		rng:        rand.New(rand.NewSource(seed)),
		asserted:   make(map[string]bool),
		formalized: make(map[indKind]bool),
		menuVars:   make(map[propKey][]menuChoice),
		log:        logging.Get(logging.CategoryGenerator),
	}
}

// Generate expands the instance tree, emits all constraints, and solves.
// A nil invention with a nil error means the solver found no model within
// its retries.
func (g *Generator) Generate(ctx context.Context) (*Invention, error) {
	g.expand()
	if err := g.emit(); err != nil {
		return nil, err
	}
	g.problem.Seed(g.rng.Int63())
	g.log.Info("solving: %d individuals, %d vars, %d clauses",
		len(g.individuals), g.problem.NumVars(), g.problem.NumClauses())
	model := g.problem.Solve(ctx, g.opts.Retries, g.opts.Timeout)
	if model == nil {
		g.log.Warn("no model found for %q after %d retries", g.root.SingularForm, g.opts.Retries)
		return nil, nil
	}
	return g.buildInvention(model), nil
}

// expand allocates the requested individuals, recursively instantiates
// parts, and appends the ontology's permanent individuals so constraints
// apply to them too.
func (g *Generator) expand() {
	kindName := g.root.SingularForm.String()
	for n := 0; n < g.count; n++ {
		var name token.Tokens
		if g.count == 1 {
			name = token.Tokenize("the " + kindName)
		} else {
			name = token.Tokens{fmt.Sprintf("%s%d", kindName, n)}
		}
		ind := g.ont.EphemeralIndividual([]*ontology.CommonNoun{g.root}, name)
		for _, m := range g.modifiers {
			ind.AddModifier(m)
		}
		g.individuals = append(g.individuals, ind)
		g.expandParts(ind)
	}
	for _, perm := range g.ont.PermanentIndividuals() {
		g.individuals = append(g.individuals, perm)
		g.expandParts(perm)
	}
}

// expandParts instantiates every part of every kind (super-kinds included)
// of ind, recursively.
func (g *Generator) expandParts(ind *ontology.Individual) {
	kinds := append([]*ontology.CommonNoun{}, ind.Kinds...)
	for _, k := range ind.Kinds {
		kinds = append(kinds, k.Ancestors()...)
	}
	for _, k := range kinds {
		for _, part := range k.Parts {
			if _, done := ind.Parts[part]; done {
				continue
			}
			children := make([]*ontology.Individual, 0, part.Count)
			for n := 0; n < part.Count; n++ {
				child := g.ont.EphemeralIndividual([]*ontology.CommonNoun{part.Kind}, part.NameTokens)
				child.Container = ind
				child.ContainerPart = part
				for _, m := range part.Modifiers {
					child.AddModifier(m)
				}
				children = append(children, child)
				g.individuals = append(g.individuals, child)
				g.expandParts(child)
			}
			ind.Parts[part] = children
		}
	}
}

// ---- variable naming ----

func (g *Generator) isAVar(ind *ontology.Individual, kind *ontology.CommonNoun) sat.Lit {
	return g.problem.Var(fmt.Sprintf("is_a/%d/%s", ind.ID, kind.SingularForm.Key()))
}

func (g *Generator) adjVar(ind *ontology.Individual, adj *ontology.Adjective) sat.Lit {
	return g.problem.Var(fmt.Sprintf("adj/%d/%s", ind.ID, adj.SingularForm.Key()))
}

// monadicLit returns the signed solver literal for a monadic literal on ind.
func (g *Generator) monadicLit(ind *ontology.Individual, l ontology.Literal) sat.Lit {
	var v sat.Lit
	switch c := l.Concept.(type) {
	case *ontology.CommonNoun:
		v = g.isAVar(ind, c)
	case *ontology.Adjective:
		v = g.adjVar(ind, c)
	}
	if !l.Truth {
		return v.Not()
	}
	return v
}

func holdsName(v *ontology.Verb, subj, obj *ontology.Individual) string {
	return fmt.Sprintf("holds/%s/%d/%d", v.Base.Key(), subj.ID, obj.ID)
}

func (g *Generator) holdsVar(v *ontology.Verb, subj, obj *ontology.Individual) sat.Lit {
	return g.problem.Var(holdsName(v, subj, obj))
}

func menuVarName(ind *ontology.Individual, prop *ontology.Property, value string) string {
	return fmt.Sprintf("prop/%d/%s/%s", ind.ID, prop.NameTokens.Key(), value)
}

// assertUnit emits a unit clause once per rebuild.
func (g *Generator) assertUnit(l sat.Lit, key string) {
	if g.asserted[key] {
		return
	}
	g.asserted[key] = true
	g.problem.Assert(l)
}
