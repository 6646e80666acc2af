package sat

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/crillab/gophersat/solver"
	"golang.org/x/sync/errgroup"
)

// Model is a satisfying assignment for a solved problem.
type Model struct {
	values []bool
	p      *Problem
}

// Value returns the truth value of l under the model. Variables the solver
// never saw (possible when they occur in no clause) default to false.
func (m *Model) Value(l Lit) bool {
	v := int(l)
	neg := false
	if v < 0 {
		v, neg = -v, true
	}
	var val bool
	if v-1 < len(m.values) {
		val = m.values[v-1]
	}
	if neg {
		return !val
	}
	return val
}

// ValueOf returns the truth value of the named variable, and whether the
// name was ever interned.
func (m *Model) ValueOf(name string) (bool, bool) {
	v, ok := m.p.index[name]
	if !ok {
		return false, false
	}
	return m.Value(Lit(v)), true
}

var errFound = errors.New("model found")

// Solve runs up to retries attempts against gophersat, concurrently, and
// returns the model of the lowest-numbered successful attempt, or nil. The
// timeout is checked only when an attempt starts; an attempt that is already
// running is not interrupted. Early attempts include sampled bias units from
// Initialize/Optimize with a dilution that decreases per attempt; when
// retries is more than one, the final attempt carries no hints at all, so a
// satisfiable problem is never lost to biasing.
func (p *Problem) Solve(ctx context.Context, retries int, timeout time.Duration) *Model {
	if retries < 1 {
		retries = 1
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	seed := p.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	// All attempts run concurrently; the lowest-index success wins so the
	// bias hints keep their intended weight (an unbiased late attempt must
	// not outrace a biased early one).
	results := make([][]bool, retries)
	g, gctx := errgroup.WithContext(ctx)
	for attempt := 0; attempt < retries; attempt++ {
		attempt := attempt
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return nil
			default:
			}
			clauses := p.attemptClauses(attempt, retries, seed)
			pb := solver.ParseSlice(clauses)
			s := solver.New(pb)
			if s.Solve() != solver.Sat {
				return nil
			}
			model := s.Model()
			results[attempt] = model
			if attempt == 0 {
				// Nothing can beat attempt zero; stop the rest early.
				return errFound
			}
			return nil
		})
	}
	_ = g.Wait()

	for _, model := range results {
		if model != nil {
			return &Model{values: model, p: p}
		}
	}
	return nil
}

// attemptClauses builds the clause list for one attempt: the base clauses
// plus sampled bias units. With more than one attempt, the last is hint-free.
func (p *Problem) attemptClauses(attempt, retries int, seed int64) [][]int {
	if attempt == retries-1 && retries > 1 {
		return p.clauses
	}
	dilution := 1.0
	if retries > 1 {
		dilution = 1.0 - float64(attempt)/float64(retries-1)
	}
	rng := rand.New(rand.NewSource(seed + int64(attempt)*7919))
	out := make([][]int, len(p.clauses), len(p.clauses)+len(p.biases)+len(p.preferred))
	copy(out, p.clauses)
	for _, l := range p.preferred {
		out = append(out, []int{l})
	}
	// Deterministic iteration over the bias map: sample in literal order.
	for _, l := range sortedKeys(p.biases) {
		if rng.Float64() < p.biases[l]*dilution {
			out = append(out, []int{l})
		}
	}
	return out
}

func sortedKeys(m map[int]float64) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	// Small sets; insertion sort keeps this dependency-free.
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j] < keys[j-1]; j-- {
			keys[j], keys[j-1] = keys[j-1], keys[j]
		}
	}
	return keys
}
