package sat

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func solve(t *testing.T, p *Problem) *Model {
	t.Helper()
	p.Seed(1)
	m := p.Solve(context.Background(), 1, 5*time.Second)
	require.NotNil(t, m, "expected a model")
	return m
}

func TestAssertAndSolve(t *testing.T) {
	p := NewProblem()
	x, y := p.Var("x"), p.Var("y")
	p.Assert(x, y)
	p.Assert(x.Not())

	m := solve(t, p)
	assert.False(t, m.Value(x))
	assert.True(t, m.Value(y))
}

func TestUnsatisfiableReturnsNil(t *testing.T) {
	p := NewProblem()
	x := p.Var("x")
	p.Assert(x)
	p.Assert(x.Not())
	p.Seed(1)
	assert.Nil(t, p.Solve(context.Background(), 2, time.Second))
}

func TestUnique(t *testing.T) {
	p := NewProblem()
	a, b, c := p.Var("a"), p.Var("b"), p.Var("c")
	p.Unique(a, b, c)
	p.Assert(a.Not())
	p.Assert(c.Not())

	m := solve(t, p)
	assert.True(t, m.Value(b))
}

func TestAtMost(t *testing.T) {
	p := NewProblem()
	a, b, c := p.Var("a"), p.Var("b"), p.Var("c")
	p.AtMost([]Lit{a, b, c}, 1)
	p.Assert(a)

	m := solve(t, p)
	assert.True(t, m.Value(a))
	assert.False(t, m.Value(b))
	assert.False(t, m.Value(c))
}

func TestAtLeast(t *testing.T) {
	p := NewProblem()
	a, b, c := p.Var("a"), p.Var("b"), p.Var("c")
	p.AtLeast([]Lit{a, b, c}, 2)
	p.Assert(b.Not())

	m := solve(t, p)
	assert.True(t, m.Value(a))
	assert.True(t, m.Value(c))
}

func TestExactlyBounds(t *testing.T) {
	p := NewProblem()
	var lits []Lit
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		lits = append(lits, p.Var(name))
	}
	p.Exactly(lits, 3)

	m := solve(t, p)
	count := 0
	for _, l := range lits {
		if m.Value(l) {
			count++
		}
	}
	assert.Equal(t, 3, count)
}

func TestQuantifyIfBindsOnlyUnderCondition(t *testing.T) {
	p := NewProblem()
	cond := p.Var("cond")
	x, y := p.Var("x"), p.Var("y")
	p.QuantifyIf([]Lit{cond}, 1, 1, []Lit{x, y})
	p.Assert(cond)
	p.Assert(x.Not())

	m := solve(t, p)
	assert.True(t, m.Value(y))

	// With the condition false the bound does not apply.
	q := NewProblem()
	cond = q.Var("cond")
	x, y = q.Var("x"), q.Var("y")
	q.QuantifyIf([]Lit{cond}, 1, 1, []Lit{x, y})
	q.Assert(cond.Not())
	q.Assert(x.Not())
	q.Assert(y.Not())
	m = solve(t, q)
	assert.False(t, m.Value(cond))
}

func TestAtLeastImpossibleBindsGuard(t *testing.T) {
	p := NewProblem()
	cond := p.Var("cond")
	x := p.Var("x")
	// At least 2 of a single literal is impossible, so the condition must
	// come out false.
	p.QuantifyIf([]Lit{cond}, 2, 2, []Lit{x})

	m := solve(t, p)
	assert.False(t, m.Value(cond))
}

func TestInitializeBiasesAttempts(t *testing.T) {
	p := NewProblem()
	x, y := p.Var("x"), p.Var("y")
	p.Assert(x, y)
	p.Initialize(x, 1)

	// A single attempt always carries the sampled hints.
	p.Seed(7)
	m := p.Solve(context.Background(), 1, 5*time.Second)
	require.NotNil(t, m)
	assert.True(t, m.Value(x))
}

func TestBiasNeverCausesSpuriousUnsat(t *testing.T) {
	p := NewProblem()
	x, y := p.Var("x"), p.Var("y")
	p.Assert(x, y)
	p.Assert(x.Not())
	// The hint contradicts the constraints; the final unbiased attempt
	// must still find the model.
	p.Initialize(x, 1)
	p.Seed(3)
	m := p.Solve(context.Background(), 3, 5*time.Second)
	require.NotNil(t, m)
	assert.True(t, m.Value(y))
}

func TestValueOf(t *testing.T) {
	p := NewProblem()
	x := p.Var("x")
	p.Assert(x)
	m := solve(t, p)

	v, ok := m.ValueOf("x")
	require.True(t, ok)
	assert.True(t, v)

	_, ok = m.ValueOf("never-mentioned")
	assert.False(t, ok)
}
