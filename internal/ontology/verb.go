package ontology

import (
	"imaginarium/internal/token"
)

// Unbounded is the cardinality sentinel meaning "no upper bound". It is
// large but far below any integer maximum so cardinality arithmetic cannot
// overflow.
const Unbounded = 1_000_000

// Conjugation identifies which surface form of a verb matched in input.
type Conjugation int

const (
	BaseForm Conjugation = iota
	ThirdPersonForm
	GerundForm
	PassiveParticipleForm
)

func (c Conjugation) String() string {
	switch c {
	case BaseForm:
		return "base form"
	case ThirdPersonForm:
		return "third person"
	case GerundForm:
		return "gerund"
	case PassiveParticipleForm:
		return "passive participle"
	}
	return "unknown"
}

// VerbForm is the verb trie's value: the verb plus the conjugation of the
// stored surface form.
type VerbForm struct {
	Verb        *Verb
	Conjugation Conjugation
}

// ArgumentShape is one admissible (subject, object) typing of a verb.
type ArgumentShape struct {
	SubjectKind      *CommonNoun
	SubjectModifiers []Literal
	ObjectKind       *CommonNoun
	ObjectModifiers  []Literal
}

// Verb is a binary relation over individuals.
type Verb struct {
	// Inflected surface forms; Base is the standard name.
	Base              token.Tokens
	ThirdPerson       token.Tokens
	Gerund            token.Tokens
	PassiveParticiple token.Tokens

	Shapes []ArgumentShape

	IsReflexive     bool
	IsAntiReflexive bool
	IsSymmetric     bool
	IsAntiSymmetric bool

	// Cardinality bounds on the relation, per side. An upper bound at or
	// above Unbounded means no bound.
	SubjectLower, SubjectUpper int
	ObjectLower, ObjectUpper   int

	// Density is the initial Boolean bias in (0,1) for Holds literals.
	Density float64

	Generalizations  []*Verb
	MutualExclusions []*Verb
	Superspecies     []*Verb
	Subspecies       []*Verb
}

func newVerb(base token.Tokens) *Verb {
	return &Verb{
		Base:         base,
		SubjectLower: 0,
		SubjectUpper: Unbounded,
		ObjectLower:  0,
		ObjectUpper:  Unbounded,
		Density:      0.5,
	}
}

func (v *Verb) Name() token.Tokens { return v.Base }

func (v *Verb) IsNamed(t token.Tokens) bool {
	return v.Base.Equal(t) || v.ThirdPerson.Equal(t) ||
		v.Gerund.Equal(t) || v.PassiveParticiple.Equal(t)
}

func (v *Verb) PartOfSpeech() string { return "verb" }

// AncestorIsReflexive holds iff the verb or any superspecies ancestor is
// reflexive.
func (v *Verb) AncestorIsReflexive() bool {
	return v.searchAncestors(func(a *Verb) bool { return a.IsReflexive }, map[*Verb]bool{})
}

// AncestorIsAntiReflexive holds iff the verb or any superspecies ancestor is
// anti-reflexive.
func (v *Verb) AncestorIsAntiReflexive() bool {
	return v.searchAncestors(func(a *Verb) bool { return a.IsAntiReflexive }, map[*Verb]bool{})
}

// AncestorIsSymmetric holds iff the verb or any superspecies ancestor is
// symmetric.
func (v *Verb) AncestorIsSymmetric() bool {
	return v.searchAncestors(func(a *Verb) bool { return a.IsSymmetric }, map[*Verb]bool{})
}

func (v *Verb) searchAncestors(pred func(*Verb) bool, seen map[*Verb]bool) bool {
	if seen[v] {
		return false
	}
	seen[v] = true
	if pred(v) {
		return true
	}
	for _, s := range v.Superspecies {
		if s.searchAncestors(pred, seen) {
			return true
		}
	}
	return false
}

// AddShape records an admissible subject/object typing. When a new shape's
// kinds are super-kinds of an existing shape's with no modifiers on either
// side, the more general shape subsumes the special one.
func (v *Verb) AddShape(shape ArgumentShape) {
	for idx, have := range v.Shapes {
		if shapesEqual(have, shape) {
			return
		}
		if subsumes(shape, have) {
			v.Shapes[idx] = shape
			return
		}
		if subsumes(have, shape) {
			return
		}
	}
	v.Shapes = append(v.Shapes, shape)
}

// subsumes reports whether general covers special: same or ancestor kinds on
// both sides and no modifiers of its own.
func subsumes(general, special ArgumentShape) bool {
	if len(general.SubjectModifiers) > 0 || len(general.ObjectModifiers) > 0 {
		return false
	}
	return general.SubjectKind.Dominates(special.SubjectKind) &&
		general.ObjectKind.Dominates(special.ObjectKind)
}

func shapesEqual(a, b ArgumentShape) bool {
	if a.SubjectKind != b.SubjectKind || a.ObjectKind != b.ObjectKind {
		return false
	}
	return literalsEqual(a.SubjectModifiers, b.SubjectModifiers) &&
		literalsEqual(a.ObjectModifiers, b.ObjectModifiers)
}

func literalsEqual(a, b []Literal) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].SameAs(b[i]) {
			return false
		}
	}
	return true
}

// AddGeneralization records that v implies g, idempotently.
func (v *Verb) AddGeneralization(g *Verb) {
	for _, have := range v.Generalizations {
		if have == g {
			return
		}
	}
	v.Generalizations = append(v.Generalizations, g)
}

// AddMutualExclusion records that v and e cannot both hold of a pair.
func (v *Verb) AddMutualExclusion(e *Verb) {
	for _, have := range v.MutualExclusions {
		if have == e {
			return
		}
	}
	v.MutualExclusions = append(v.MutualExclusions, e)
}

// AddSuperspecies records that v is a way of s.
func (v *Verb) AddSuperspecies(s *Verb) {
	for _, have := range v.Superspecies {
		if have == s {
			return
		}
	}
	v.Superspecies = append(v.Superspecies, s)
	s.Subspecies = append(s.Subspecies, v)
}

// Part is a containment slot on a kind. During instance expansion every part
// yields Count fresh individuals of Kind tagged with Modifiers.
type Part struct {
	NameTokens   token.Tokens
	PluralTokens token.Tokens
	Count        int
	Kind         *CommonNoun
	Modifiers    []Literal
	Owner        *CommonNoun
}

func (p *Part) Name() token.Tokens { return p.NameTokens }
func (p *Part) IsNamed(t token.Tokens) bool {
	return p.NameTokens.Equal(t) || p.PluralTokens.Equal(t)
}
func (p *Part) PartOfSpeech() string { return "part" }
