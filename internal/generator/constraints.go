package generator

import (
	"strconv"

	"imaginarium/internal/ontology"
	"imaginarium/internal/sat"
)

// emit translates every ontology rule into Boolean constraints over the
// expanded individuals.
func (g *Generator) emit() error {
	for _, ind := range g.individuals {
		g.emitIndividual(ind)
	}
	// Shape implications first so every Holds variable exists before the
	// cross-verb constraints reference them.
	for _, v := range g.ont.Verbs() {
		g.emitVerbShapes(v)
	}
	for _, v := range g.ont.Verbs() {
		if err := g.emitVerbConstraints(v); err != nil {
			return err
		}
	}
	return nil
}

// emitIndividual asserts the individual's declared kinds and modifiers and
// formalizes the consequences.
func (g *Generator) emitIndividual(ind *ontology.Individual) {
	for _, k := range ind.Kinds {
		g.assertUnit(g.isAVar(ind, k), "kind/"+holdsKey(ind, k))
		g.formalizeKind(ind, k)
	}
	for _, m := range ind.Modifiers {
		l := g.monadicLit(ind, m)
		g.assertUnit(l, "mod/"+m.String()+"/"+itoa(ind.ID))
		if kind, isKind := m.Concept.(*ontology.CommonNoun); isKind && m.Truth {
			g.formalizeKind(ind, kind)
		}
	}
}

// formalizeKind emits, once per (individual, kind), the constraints that
// govern membership in the kind: super-kind closure, implied adjectives,
// alternative sets, sub-kind exclusivity, and properties.
func (g *Generator) formalizeKind(ind *ontology.Individual, k *ontology.CommonNoun) {
	key := indKind{ind, k}
	if g.formalized[key] {
		return
	}
	g.formalized[key] = true

	isA := g.isAVar(ind, k)

	for _, super := range k.Superkinds {
		g.problem.Implies(isA, g.isAVar(ind, super))
		g.formalizeKind(ind, super)
	}

	for _, cm := range k.ImpliedAdjectives {
		clause := []sat.Lit{isA.Not()}
		for _, cond := range cm.Conditions {
			clause = append(clause, g.monadicLit(ind, cond).Not())
		}
		clause = append(clause, g.monadicLit(ind, cm.Modifier))
		g.problem.Assert(clause...)
	}

	for _, set := range k.AlternativeSets {
		g.emitAlternativeSet(ind, isA, set)
	}

	if len(k.Subkinds) > 0 {
		g.emitSubkindExclusivity(ind, k, isA)
	}

	for _, prop := range k.Properties {
		g.emitProperty(ind, isA, prop)
	}
}

// emitAlternativeSet constrains the signed alternatives of the set to lie
// within [min, max] whenever the individual is of the kind, and pre-biases
// one frequency-weighted member when the set allows it.
func (g *Generator) emitAlternativeSet(ind *ontology.Individual, isA sat.Lit, set *ontology.AlternativeSet) {
	lits := make([]sat.Lit, len(set.Alternatives))
	for i, alt := range set.Alternatives {
		lits[i] = g.monadicLit(ind, alt)
	}
	g.problem.QuantifyIf([]sat.Lit{isA}, set.Min, set.Max, lits)

	if set.AllowPreInitialization && len(lits) > 2 && g.preInitializable(set) {
		choice := g.weightedIndex(set.Frequencies)
		g.problem.Initialize(lits[choice], 1)
	}
	// Small sets leave the members unbiased-false so the solver only has to
	// flip one on.
}

// preInitializable reports whether every alternative is a positive
// adjective referenced by exactly one set.
func (g *Generator) preInitializable(set *ontology.AlternativeSet) bool {
	for _, alt := range set.Alternatives {
		adj, ok := alt.Concept.(*ontology.Adjective)
		if !ok || !alt.Truth || adj.ReferenceCount != 1 {
			return false
		}
	}
	return true
}

// emitSubkindExclusivity asserts that membership in k forces exactly one
// immediate sub-kind, recursively, with a frequency-weighted bias choosing
// the preferred branch.
func (g *Generator) emitSubkindExclusivity(ind *ontology.Individual, k *ontology.CommonNoun, isA sat.Lit) {
	subVars := make([]sat.Lit, len(k.Subkinds))
	weights := make([]float64, len(k.Subkinds))
	for i, sub := range k.Subkinds {
		subVars[i] = g.isAVar(ind, sub)
		weights[i] = k.FrequencyOf(sub)
		g.formalizeKind(ind, sub)
	}
	g.problem.QuantifyIf([]sat.Lit{isA}, 1, 1, subVars)

	// The declared kinds of the individual pin the admissible branches;
	// only bias a branch the individual could actually take.
	var candidates []int
	var candWeights []float64
	for i, sub := range k.Subkinds {
		if ind.CanBeA(sub) {
			candidates = append(candidates, i)
			candWeights = append(candWeights, weights[i])
		}
	}
	if len(candidates) > 0 {
		pick := candidates[g.weightedIndex(candWeights)]
		g.problem.Initialize(subVars[pick], 1)
	}
}

// weightedIndex samples an index proportionally to the weights.
func (g *Generator) weightedIndex(weights []float64) int {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return 0
	}
	x := g.rng.Float64() * total
	for i, w := range weights {
		x -= w
		if x <= 0 {
			return i
		}
	}
	return len(weights) - 1
}

// emitProperty instantiates a property for the individual, gated on kind
// membership. Menu properties become exactly-one selections over value
// variables; interval properties are sampled after the solve.
func (g *Generator) emitProperty(ind *ontology.Individual, isA sat.Lit, prop *ontology.Property) {
	key := propKey{ind, prop}
	switch prop.Type {
	case ontology.MenuProperty:
		if _, done := g.menuVars[key]; done {
			return
		}
		seen := map[string]bool{}
		var choices []menuChoice
		addValues := func(values []string) []sat.Lit {
			var lits []sat.Lit
			for _, val := range values {
				v := g.problem.Var(menuVarName(ind, prop, val))
				if !seen[val] {
					seen[val] = true
					choices = append(choices, menuChoice{value: val, lit: v})
				}
				lits = append(lits, v)
			}
			return lits
		}
		if len(prop.Menu) > 0 {
			lits := addValues(prop.Menu)
			g.problem.QuantifyIf([]sat.Lit{isA}, 1, 1, lits)
		}
		for _, rule := range prop.MenuRules {
			conds := []sat.Lit{isA}
			for _, c := range rule.Conditions {
				conds = append(conds, g.monadicLit(ind, c))
			}
			lits := addValues(rule.Menu)
			g.problem.QuantifyIf(conds, 1, 1, lits)
		}
		g.menuVars[key] = choices
	case ontology.IntervalProperty:
		for _, have := range g.intervals {
			if have.ind == ind && have.prop == prop {
				return
			}
		}
		g.intervals = append(g.intervals, intervalInstance{ind: ind, prop: prop, cond: isA})
	}
}

// emitVerbShapes creates the Holds variables for every admissible pair and
// asserts the kind-and-modifier implications of each shape.
func (g *Generator) emitVerbShapes(v *ontology.Verb) {
	for _, shape := range g.effectiveShapes(v) {
		for _, subj := range g.individuals {
			if !subj.CanBeA(shape.SubjectKind) {
				continue
			}
			for _, obj := range g.individuals {
				if !obj.CanBeA(shape.ObjectKind) {
					continue
				}
				h := g.holdsVar(v, subj, obj)
				g.problem.Implies(h, g.isAVar(subj, shape.SubjectKind))
				g.formalizeKind(subj, shape.SubjectKind)
				for _, m := range shape.SubjectModifiers {
					g.problem.Implies(h, g.monadicLit(subj, m))
				}
				g.problem.Implies(h, g.isAVar(obj, shape.ObjectKind))
				g.formalizeKind(obj, shape.ObjectKind)
				for _, m := range shape.ObjectModifiers {
					g.problem.Implies(h, g.monadicLit(obj, m))
				}
				g.problem.Initialize(h, v.Density*0.2)
			}
		}
	}
}

// effectiveShapes returns the verb's own shapes, falling back to its
// superspecies' shapes so "X is a way of Y" propagates argument typing.
func (g *Generator) effectiveShapes(v *ontology.Verb) []ontology.ArgumentShape {
	if len(v.Shapes) > 0 {
		return v.Shapes
	}
	var out []ontology.ArgumentShape
	for _, super := range v.Superspecies {
		out = append(out, g.effectiveShapes(super)...)
	}
	return out
}

// emitVerbConstraints emits cardinality, reflexivity, symmetry,
// generalization, exclusion and species constraints for one verb.
func (g *Generator) emitVerbConstraints(v *ontology.Verb) error {
	shapes := g.effectiveShapes(v)

	for _, shape := range shapes {
		if err := g.emitCardinality(v, shape); err != nil {
			return err
		}
	}

	antiReflexive := v.AncestorIsAntiReflexive()
	reflexive := v.AncestorIsReflexive()
	symmetric := v.AncestorIsSymmetric()

	for _, shape := range shapes {
		for _, subj := range g.individuals {
			if !subj.CanBeA(shape.SubjectKind) {
				continue
			}
			if subj.CanBeA(shape.ObjectKind) {
				h := g.holdsVar(v, subj, subj)
				if antiReflexive {
					g.problem.Assert(h.Not())
				}
				if reflexive {
					// Required of every individual of the subject kind.
					g.problem.Implies(g.isAVar(subj, shape.SubjectKind), h)
				}
			}
			for _, obj := range g.individuals {
				if !obj.CanBeA(shape.ObjectKind) {
					continue
				}
				h := g.holdsVar(v, subj, obj)
				if obj != subj {
					if symmetric && obj.CanBeA(shape.SubjectKind) && subj.CanBeA(shape.ObjectKind) {
						g.problem.Implies(h, g.holdsVar(v, obj, subj))
					}
					if v.IsAntiSymmetric {
						g.problem.Assert(h.Not(), g.holdsVar(v, obj, subj).Not())
					}
				}
				// Generalizations and exclusions bind self pairs too.
				for _, gen := range v.Generalizations {
					g.problem.Implies(h, g.holdsVar(gen, subj, obj))
				}
				for _, excl := range v.MutualExclusions {
					g.problem.Assert(h.Not(), g.holdsVar(excl, subj, obj).Not())
				}
			}
		}
	}

	// Species links: sub-species implies super; super requires exactly one
	// sub-species form, counting the swapped direction of symmetric subs.
	if len(v.Subspecies) > 0 {
		for _, shape := range shapes {
			for _, subj := range g.individuals {
				if !subj.CanBeA(shape.SubjectKind) {
					continue
				}
				for _, obj := range g.individuals {
					if !obj.CanBeA(shape.ObjectKind) {
						continue
					}
					h := g.holdsVar(v, subj, obj)
					var alts []sat.Lit
					for _, sub := range v.Subspecies {
						alts = append(alts, g.holdsVar(sub, subj, obj))
						if sub.AncestorIsSymmetric() && subj != obj {
							alts = append(alts, g.holdsVar(sub, obj, subj))
						}
					}
					g.problem.QuantifyIf([]sat.Lit{h}, 1, 1, alts)
				}
			}
		}
	}
	for _, super := range v.Superspecies {
		for _, shape := range shapes {
			for _, subj := range g.individuals {
				if !subj.CanBeA(shape.SubjectKind) {
					continue
				}
				for _, obj := range g.individuals {
					if !obj.CanBeA(shape.ObjectKind) {
						continue
					}
					g.problem.Implies(g.holdsVar(v, subj, obj), g.holdsVar(super, subj, obj))
				}
			}
		}
	}
	return nil
}

// emitCardinality enforces the verb's object and subject bounds for one
// shape, failing fast when the static domain is smaller than a lower bound.
func (g *Generator) emitCardinality(v *ontology.Verb, shape ontology.ArgumentShape) error {
	var subjects, objects []*ontology.Individual
	for _, ind := range g.individuals {
		if ind.CanBeA(shape.SubjectKind) {
			subjects = append(subjects, ind)
		}
		if ind.CanBeA(shape.ObjectKind) {
			objects = append(objects, ind)
		}
	}

	if v.ObjectLower > 0 || v.ObjectUpper < ontology.Unbounded {
		for _, subj := range subjects {
			domain := make([]sat.Lit, 0, len(objects))
			for _, obj := range objects {
				domain = append(domain, g.holdsVar(v, subj, obj))
			}
			if v.ObjectLower > len(domain) && subj.DeclaredA(shape.SubjectKind) {
				return &ContradictionError{
					Verb: v, Subject: shape.SubjectKind, Object: shape.ObjectKind,
					Needed: v.ObjectLower, Have: len(domain),
				}
			}
			conds := []sat.Lit{g.isAVar(subj, shape.SubjectKind)}
			for _, m := range shape.SubjectModifiers {
				conds = append(conds, g.monadicLit(subj, m))
			}
			upper := v.ObjectUpper
			if upper > len(domain) {
				upper = len(domain)
			}
			g.problem.QuantifyIf(conds, v.ObjectLower, upper, domain)
		}
	}

	if v.SubjectLower > 0 || v.SubjectUpper < ontology.Unbounded {
		for _, obj := range objects {
			domain := make([]sat.Lit, 0, len(subjects))
			for _, subj := range subjects {
				domain = append(domain, g.holdsVar(v, subj, obj))
			}
			if v.SubjectLower > len(domain) && obj.DeclaredA(shape.ObjectKind) {
				return &ContradictionError{
					Verb: v, Subject: shape.ObjectKind, Object: shape.SubjectKind,
					Needed: v.SubjectLower, Have: len(domain),
				}
			}
			conds := []sat.Lit{g.isAVar(obj, shape.ObjectKind)}
			for _, m := range shape.ObjectModifiers {
				conds = append(conds, g.monadicLit(obj, m))
			}
			upper := v.SubjectUpper
			if upper > len(domain) {
				upper = len(domain)
			}
			g.problem.QuantifyIf(conds, v.SubjectLower, upper, domain)
		}
	}
	return nil
}

func holdsKey(ind *ontology.Individual, k *ontology.CommonNoun) string {
	return k.SingularForm.Key() + "/" + itoa(ind.ID)
}

func itoa(n int) string { return strconv.Itoa(n) }
