// Package sat is the bridge to the external Boolean solver. It accumulates
// named variables, clauses, cardinality constraints and per-literal bias
// hints, then hands CNF to gophersat. Cardinality constraints are compiled
// to clauses with the sequential-counter encoding so only the solver's
// stable CNF surface is used.
package sat

import (
	"fmt"
)

// Lit is a signed literal: a positive or negated variable. The zero value is
// invalid.
type Lit int

// Not returns the negation of l.
func (l Lit) Not() Lit { return -l }

// Problem accumulates constraints for one solve.
type Problem struct {
	names   []string // 1-based; names[0] unused
	index   map[string]int
	clauses [][]int

	// biases maps a signed literal to the probability that an attempt
	// asserts it as a unit hint.
	biases map[int]float64
	// preferred literals are asserted on every biased attempt.
	preferred []int

	seed int64
}

// NewProblem returns an empty problem.
func NewProblem() *Problem {
	return &Problem{
		names:  []string{""},
		index:  make(map[string]int),
		biases: make(map[int]float64),
	}
}

// Seed fixes the random source used for bias sampling, for reproducibility.
func (p *Problem) Seed(seed int64) { p.seed = seed }

// Var interns name and returns its positive literal.
func (p *Problem) Var(name string) Lit {
	if v, ok := p.index[name]; ok {
		return Lit(v)
	}
	v := len(p.names)
	p.names = append(p.names, name)
	p.index[name] = v
	return Lit(v)
}

// HasVar reports whether name has been interned.
func (p *Problem) HasVar(name string) bool {
	_, ok := p.index[name]
	return ok
}

// NumVars returns the number of interned variables, auxiliaries included.
func (p *Problem) NumVars() int { return len(p.names) - 1 }

// NumClauses returns the number of clauses emitted so far.
func (p *Problem) NumClauses() int { return len(p.clauses) }

func (p *Problem) newAux() int {
	v := len(p.names)
	p.names = append(p.names, fmt.Sprintf("@aux%d", v))
	return v
}

func lits(ls []Lit) []int {
	out := make([]int, len(ls))
	for i, l := range ls {
		out[i] = int(l)
	}
	return out
}

// Assert adds the clause "at least one of lits".
func (p *Problem) Assert(ls ...Lit) {
	p.clauses = append(p.clauses, lits(ls))
}

// Implies adds the clause a -> b.
func (p *Problem) Implies(a, b Lit) {
	p.Assert(a.Not(), b)
}

// addClause emits clause with the guard disjuncts appended.
func (p *Problem) addClause(clause []int, guard []int) {
	out := make([]int, 0, len(clause)+len(guard))
	out = append(out, clause...)
	out = append(out, guard...)
	p.clauses = append(p.clauses, out)
}

// AtMost constrains at most n of ls to be true. Guard literals are added as
// escape disjuncts to every emitted clause: the constraint only binds when
// all guards are false.
func (p *Problem) AtMost(ls []Lit, n int, guard ...Lit) {
	p.atMost(lits(ls), n, lits(guard))
}

// AtLeast constrains at least n of ls to be true, under the same guard
// convention as AtMost.
func (p *Problem) AtLeast(ls []Lit, n int, guard ...Lit) {
	if n <= 0 {
		return
	}
	xs := lits(ls)
	g := lits(guard)
	if n > len(xs) {
		// Statically impossible; binds the guards themselves.
		p.addClause(nil, g)
		return
	}
	neg := make([]int, len(xs))
	for i, x := range xs {
		neg[i] = -x
	}
	p.atMost(neg, len(xs)-n, g)
}

// Exactly constrains exactly n of ls to be true.
func (p *Problem) Exactly(ls []Lit, n int, guard ...Lit) {
	p.AtLeast(ls, n, guard...)
	p.AtMost(ls, n, guard...)
}

// Unique constrains exactly one of ls to be true.
func (p *Problem) Unique(ls ...Lit) {
	p.Exactly(ls, 1)
}

// QuantifyIf constrains between min and max of ls to be true whenever every
// condition holds.
func (p *Problem) QuantifyIf(conds []Lit, min, max int, ls []Lit) {
	guard := make([]Lit, len(conds))
	for i, c := range conds {
		guard[i] = c.Not()
	}
	p.AtLeast(ls, min, guard...)
	if max < len(ls) {
		p.AtMost(ls, max, guard...)
	}
}

// atMost emits the sequential-counter encoding of "at most n of xs", with
// guard disjuncts on every clause.
func (p *Problem) atMost(xs []int, n int, guard []int) {
	if n < 0 {
		p.addClause(nil, guard)
		return
	}
	if n >= len(xs) {
		return
	}
	if n == 0 {
		for _, x := range xs {
			p.addClause([]int{-x}, guard)
		}
		return
	}
	m := len(xs)
	// s[i][j] (1-based j<=n) means "at least j of xs[0..i] are true".
	s := make([][]int, m-1)
	for i := range s {
		s[i] = make([]int, n)
		for j := range s[i] {
			s[i][j] = p.newAux()
		}
	}
	p.addClause([]int{-xs[0], s[0][0]}, guard)
	for j := 1; j < n; j++ {
		p.addClause([]int{-s[0][j]}, guard)
	}
	for i := 1; i < m-1; i++ {
		p.addClause([]int{-xs[i], s[i][0]}, guard)
		p.addClause([]int{-s[i-1][0], s[i][0]}, guard)
		for j := 1; j < n; j++ {
			p.addClause([]int{-xs[i], -s[i-1][j-1], s[i][j]}, guard)
			p.addClause([]int{-s[i-1][j], s[i][j]}, guard)
		}
		p.addClause([]int{-xs[i], -s[i-1][n-1]}, guard)
	}
	p.addClause([]int{-xs[m-1], -s[m-2][n-1]}, guard)
}

// Initialize records a bias hint: attempts assert l as a unit with the given
// probability. A zero probability never asserts; when a solve has more than
// one attempt, the final attempt runs without hints so biases cannot cause
// spurious unsatisfiability.
func (p *Problem) Initialize(l Lit, prob float64) {
	if prob <= 0 {
		return
	}
	if prob > 1 {
		prob = 1
	}
	p.biases[int(l)] = prob
}

// Optimize records a literal the solver should try hard to satisfy; it is
// asserted on every biased attempt.
func (p *Problem) Optimize(l Lit) {
	p.preferred = append(p.preferred, int(l))
}
