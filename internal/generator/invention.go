package generator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"imaginarium/internal/describe"
	"imaginarium/internal/ontology"
	"imaginarium/internal/sat"
)

// PropertyValue is a solved property binding.
type PropertyValue struct {
	Str   string
	Num   float64
	IsNum bool
}

func (pv PropertyValue) String() string {
	if pv.IsNum {
		return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", pv.Num), "0"), ".")
	}
	return pv.Str
}

// Relationship is one true (verb, subject, object) triple in a solution.
type Relationship struct {
	Verb    *ontology.Verb
	Subject *ontology.Individual
	Object  *ontology.Individual
}

// Invention wraps a solver solution as a queryable model. Name and
// description caches are scoped to the invention, never to the individual,
// so one individual appearing in two inventions cannot leak stale text.
type Invention struct {
	ID          uuid.UUID
	Individuals []*ontology.Individual

	ont   *ontology.Ontology
	model *sat.Model

	menuVars  map[propKey][]menuChoice
	propVals  map[propKey]PropertyValue
	names     map[*ontology.Individual]string
	nameProps map[*ontology.Individual]map[string]bool
	naming    map[*ontology.Individual]bool // recursion guard
}

// buildInvention samples the interval properties against the model and
// wraps everything up.
func (g *Generator) buildInvention(model *sat.Model) *Invention {
	inv := &Invention{
		ID:          uuid.New(),
		Individuals: g.individuals,
		ont:         g.ont,
		model:       model,
		menuVars:    g.menuVars,
		propVals:    make(map[propKey]PropertyValue),
		names:       make(map[*ontology.Individual]string),
		nameProps:   make(map[*ontology.Individual]map[string]bool),
		naming:      make(map[*ontology.Individual]bool),
	}

	// Menu values: the single true candidate per (individual, property).
	for key, choices := range g.menuVars {
		for _, c := range choices {
			if model.Value(c.lit) {
				inv.propVals[key] = PropertyValue{Str: c.value}
				break
			}
		}
	}

	// Interval values: uniform sample within the tightest interval whose
	// rules apply under the model.
	for _, instance := range g.intervals {
		if !model.Value(instance.cond) {
			continue
		}
		iv := instance.prop.Interval
		for _, rule := range instance.prop.IntervalRules {
			applies := true
			for _, cond := range rule.Conditions {
				if !model.Value(g.monadicLit(instance.ind, cond)) {
					applies = false
					break
				}
			}
			if applies {
				iv = iv.Intersect(rule.Interval)
			}
		}
		val := iv.Lo + g.rng.Float64()*(iv.Hi-iv.Lo)
		inv.propVals[propKey{instance.ind, instance.prop}] = PropertyValue{Num: val, IsNum: true}
	}
	return inv
}

// Ontology returns the ontology this invention was generated against.
func (inv *Invention) Ontology() *ontology.Ontology { return inv.ont }

// IsA reports whether the solution makes i a k, honoring the static
// can-be-a kind filtering.
func (inv *Invention) IsA(i *ontology.Individual, k *ontology.CommonNoun) bool {
	if !i.CanBeA(k) {
		return false
	}
	v, ok := inv.model.ValueOf(fmt.Sprintf("is_a/%d/%s", i.ID, k.SingularForm.Key()))
	return ok && v
}

// AdjectiveTrue reports whether the adjective holds of i in the solution.
func (inv *Invention) AdjectiveTrue(i *ontology.Individual, a *ontology.Adjective) bool {
	v, ok := inv.model.ValueOf(fmt.Sprintf("adj/%d/%s", i.ID, a.SingularForm.Key()))
	return ok && v
}

// Holds reports whether the relation holds of the ordered pair.
func (inv *Invention) Holds(v *ontology.Verb, subj, obj *ontology.Individual) bool {
	val, ok := inv.model.ValueOf(holdsName(v, subj, obj))
	return ok && val
}

// Relationships iterates every true (verb, subject, object) triple,
// deduplicating symmetric pairs by individual id order.
func (inv *Invention) Relationships() []Relationship {
	var out []Relationship
	for _, v := range inv.ont.Verbs() {
		symmetric := v.AncestorIsSymmetric()
		for _, subj := range inv.Individuals {
			for _, obj := range inv.Individuals {
				if !inv.Holds(v, subj, obj) {
					continue
				}
				if symmetric && subj.ID > obj.ID && inv.Holds(v, obj, subj) {
					continue
				}
				out = append(out, Relationship{Verb: v, Subject: subj, Object: obj})
			}
		}
	}
	return out
}

// trueKinds returns every kind true of i in the solution.
func (inv *Invention) trueKinds(i *ontology.Individual) []*ontology.CommonNoun {
	var out []*ontology.CommonNoun
	for _, k := range inv.ont.Nouns() {
		if inv.IsA(i, k) {
			out = append(out, k)
		}
	}
	return out
}

// MostSpecificNouns returns the kinds true of i that are not dominated by
// another also-true kind.
func (inv *Invention) MostSpecificNouns(i *ontology.Individual) []*ontology.CommonNoun {
	kinds := inv.trueKinds(i)
	var out []*ontology.CommonNoun
	for _, k := range kinds {
		specific := true
		for _, other := range kinds {
			if other != k && k.Dominates(other) {
				specific = false
				break
			}
		}
		if specific {
			out = append(out, k)
		}
	}
	return out
}

// AdjectivesDescribing returns the relevant adjectives and alternative-set
// members true of i and not silent, in deterministic order.
func (inv *Invention) AdjectivesDescribing(i *ontology.Individual) []*ontology.Adjective {
	seen := map[*ontology.Adjective]bool{}
	var out []*ontology.Adjective
	consider := func(a *ontology.Adjective) {
		if a.IsSilent || seen[a] {
			return
		}
		if inv.AdjectiveTrue(i, a) {
			seen[a] = true
			out = append(out, a)
		}
	}
	for _, k := range inv.trueKinds(i) {
		for _, a := range k.RelevantAdjectives {
			consider(a)
		}
		for _, set := range k.AlternativeSets {
			for _, alt := range set.Alternatives {
				if a, ok := alt.Concept.(*ontology.Adjective); ok && alt.Truth {
					consider(a)
				}
			}
		}
	}
	sort.Slice(out, func(a, b int) bool {
		return out[a].SingularForm.Key() < out[b].SingularForm.Key()
	})
	return out
}

// propertyNamed finds a property of the given name on any true kind of i or
// its ancestors.
func (inv *Invention) propertyNamed(i *ontology.Individual, name string) (*ontology.Property, bool) {
	for _, k := range inv.trueKinds(i) {
		for _, p := range k.Properties {
			if p.NameTokens.String() == name {
				return p, true
			}
		}
	}
	return nil, false
}

// PropertyValueOf returns the solved value of prop on i.
func (inv *Invention) PropertyValueOf(i *ontology.Individual, prop *ontology.Property) (PropertyValue, bool) {
	pv, ok := inv.propVals[propKey{i, prop}]
	return pv, ok
}

// NameString names i by precedence: a bound property literally called
// "name", then a name template found walking up the kind lattice, then the
// container possessive for parts, then the raw name tokens.
func (inv *Invention) NameString(i *ontology.Individual) string {
	if cached, ok := inv.names[i]; ok {
		return cached
	}
	if inv.naming[i] {
		// A name template that recursively mentions [NameString] falls
		// back to the raw tokens rather than recursing forever.
		return i.NameTokens.String()
	}
	inv.naming[i] = true
	name := inv.nameString(i)
	delete(inv.naming, i)
	inv.names[i] = name
	return name
}

func (inv *Invention) nameString(i *ontology.Individual) string {
	if prop, ok := inv.propertyNamed(i, "name"); ok {
		if pv, bound := inv.PropertyValueOf(i, prop); bound {
			inv.markNameProperty(i, "name")
			return pv.String()
		}
	}
	if tpl := inv.nameTemplate(i); tpl != nil {
		return describe.Render(inv, i, tpl)
	}
	if i.Container != nil && i.ContainerPart != nil {
		return fmt.Sprintf("%s's %s", inv.NameString(i.Container), i.ContainerPart.NameTokens)
	}
	return i.NameTokens.String()
}

// nameTemplate walks up the kind lattice from the most specific kinds and
// returns the first name template found.
func (inv *Invention) nameTemplate(i *ontology.Individual) []string {
	for _, k := range inv.MostSpecificNouns(i) {
		for current := []*ontology.CommonNoun{k}; len(current) > 0; {
			var next []*ontology.CommonNoun
			for _, c := range current {
				if c.NameTemplate != nil {
					return c.NameTemplate
				}
				next = append(next, c.Superkinds...)
			}
			current = next
		}
	}
	return nil
}

func (inv *Invention) markNameProperty(i *ontology.Individual, name string) {
	if inv.nameProps[i] == nil {
		inv.nameProps[i] = make(map[string]bool)
	}
	inv.nameProps[i][name] = true
}

// Description renders the kind-selected description template for i, or the
// default template when no kind on the lattice chain has one. Individuals
// of suppressed kinds yield "".
func (inv *Invention) Description(i *ontology.Individual) string {
	specific := inv.MostSpecificNouns(i)
	for _, k := range specific {
		if k.SuppressDescription {
			return ""
		}
	}
	for _, k := range specific {
		for current := []*ontology.CommonNoun{k}; len(current) > 0; {
			var next []*ontology.CommonNoun
			for _, c := range current {
				if c.DescriptionTemplate != nil {
					return describe.Render(inv, i, c.DescriptionTemplate)
				}
				if c.SuppressDescription {
					return ""
				}
				next = append(next, c.Superkinds...)
			}
			current = next
		}
	}
	return describe.Render(inv, i, describe.DefaultTemplate)
}

// ---- describe.Model implementation ----

// ProperName returns the proper name bound to i, or "".
func (inv *Invention) ProperName(i *ontology.Individual) string {
	if !i.EphemeralFlag {
		return i.NameTokens.String()
	}
	return ""
}

// ModifierWords returns the visible adjectives of i as words.
func (inv *Invention) ModifierWords(i *ontology.Individual) []string {
	var out []string
	for _, a := range inv.AdjectivesDescribing(i) {
		out = append(out, a.SingularForm.String())
	}
	return out
}

// NounWord returns the most specific kind word for i.
func (inv *Invention) NounWord(i *ontology.Individual) string {
	specific := inv.MostSpecificNouns(i)
	if len(specific) == 0 {
		return i.NameTokens.String()
	}
	return specific[0].SingularForm.String()
}

// PropertyWord renders the named property of i.
func (inv *Invention) PropertyWord(i *ontology.Individual, name string) (string, bool) {
	prop, ok := inv.propertyNamed(i, name)
	if !ok {
		return "", false
	}
	pv, bound := inv.PropertyValueOf(i, prop)
	if !bound {
		return "", false
	}
	return pv.String(), true
}

// PartChildren returns the individuals filling the named part of i.
func (inv *Invention) PartChildren(i *ontology.Individual, name string) []*ontology.Individual {
	for part, children := range i.Parts {
		if part.NameTokens.String() == name || part.PluralTokens.String() == name {
			return children
		}
	}
	return nil
}

// AllPropertyWords renders "with name value" phrases for every bound property of i
// except the excluded ones.
func (inv *Invention) AllPropertyWords(i *ontology.Individual, exclude map[string]bool) []string {
	var out []string
	for _, k := range inv.trueKinds(i) {
		for _, p := range k.Properties {
			name := p.NameTokens.String()
			if exclude[name] {
				continue
			}
			if pv, ok := inv.PropertyValueOf(i, p); ok {
				out = append(out, fmt.Sprintf("with %s %s", name, pv))
			}
		}
	}
	sort.Strings(out)
	return out
}

// NamePropertyNames lists the property names already consumed by name
// generation for i.
func (inv *Invention) NamePropertyNames(i *ontology.Individual) map[string]bool {
	inv.NameString(i) // ensure name generation ran
	return inv.nameProps[i]
}
