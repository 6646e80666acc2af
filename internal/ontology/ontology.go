package ontology

import (
	"fmt"
	"sort"

	"imaginarium/internal/morph"
	"imaginarium/internal/token"
)

// Ontology is the set of all concepts, individuals, and rules authored so
// far, plus their tries. One ontology and its parser form a single unit of
// mutation; callers wanting concurrency construct independent ontologies.
type Ontology struct {
	nouns       map[string]*CommonNoun // keyed by singular and plural form
	adjectives  map[string]*Adjective
	properNouns map[string]*ProperNoun
	verbs       map[string]*Verb // keyed by base form
	parts       map[string]*Part
	properties  map[string]*Property

	monadic  *token.Trie[MonadicConcept]
	verbTrie *token.Trie[VerbForm]

	permanent []*Individual
	tests     []*Test
	buttons   []Button

	locked bool
	nextID int

	// DefinitionsDir is where per-referent .gen files and list .txt files
	// are looked up; empty disables definition loading.
	DefinitionsDir string

	Author       string
	Description  string
	Instructions string
}

// New returns an empty ontology.
func New() *Ontology {
	o := &Ontology{}
	o.reset()
	return o
}

func (o *Ontology) reset() {
	o.nouns = make(map[string]*CommonNoun)
	o.adjectives = make(map[string]*Adjective)
	o.properNouns = make(map[string]*ProperNoun)
	o.verbs = make(map[string]*Verb)
	o.parts = make(map[string]*Part)
	o.properties = make(map[string]*Property)
	o.monadic = token.NewTrie[MonadicConcept]()
	o.verbTrie = token.NewTrie[VerbForm]()
	o.permanent = nil
	o.tests = nil
	o.buttons = nil
	o.locked = false
	o.nextID = 0
}

// EraseConcepts tears down every referent and rule, returning the ontology
// to its freshly-constructed state. Metadata and the definitions directory
// survive.
func (o *Ontology) EraseConcepts() {
	o.reset()
}

// Lock prevents the introduction of new referents. Attaching new facts to
// existing referents is still allowed.
func (o *Ontology) Lock() { o.locked = true }

// Unlock re-enables referent introduction.
func (o *Ontology) Unlock() { o.locked = false }

// IsLocked reports whether the ontology refuses new referents.
func (o *Ontology) IsLocked() bool { return o.locked }

// Monadic exposes the monadic-concept trie for the parser.
func (o *Ontology) Monadic() *token.Trie[MonadicConcept] { return o.monadic }

// VerbTrie exposes the verb trie for the parser.
func (o *Ontology) VerbTrie() *token.Trie[VerbForm] { return o.verbTrie }

// typeOfName reports the part of speech currently owning name, if any.
func (o *Ontology) typeOfName(name token.Tokens) (string, bool) {
	key := name.Key()
	if _, ok := o.properNouns[key]; ok {
		return "proper noun", true
	}
	if _, ok := o.nouns[key]; ok {
		return "common noun", true
	}
	if _, ok := o.adjectives[key]; ok {
		return "adjective", true
	}
	if _, ok := o.parts[key]; ok {
		return "part", true
	}
	if _, ok := o.properties[key]; ok {
		return "property", true
	}
	if _, ok := o.verbs[key]; ok {
		return "verb", true
	}
	return "", false
}

// checkCollision fails when any of names is owned by a different referent
// type.
func (o *Ontology) checkCollision(attempted string, names ...token.Tokens) error {
	for _, n := range names {
		if n.Empty() {
			continue
		}
		if existing, ok := o.typeOfName(n); ok && existing != attempted {
			return &NameCollisionError{Name: n, ExistingType: existing, AttemptedType: attempted}
		}
	}
	return nil
}

// AddCommonNoun finds or creates the common noun named by t, interpreting t
// per number. Idempotent on name.
func (o *Ontology) AddCommonNoun(t token.Tokens, number GrammaticalNumber) (*CommonNoun, error) {
	if n, ok := o.nouns[t.Key()]; ok {
		return n, nil
	}
	if o.locked {
		return nil, &UnknownReferentError{Name: t, Type: "common noun"}
	}

	singular, plural := t, token.Tokens(nil)
	switch number {
	case Plural:
		s, err := morph.SingularOfNoun(t)
		if err != nil {
			return nil, err
		}
		singular, plural = s, t
	default:
		if p, err := morph.PluralOfNoun(t); err == nil {
			plural = p
		}
	}

	if err := o.checkCollision("common noun", singular, plural); err != nil {
		return nil, err
	}

	n := newCommonNoun(singular)
	n.PluralForm = plural
	o.nouns[singular.Key()] = n
	o.monadic.Insert(singular, n)
	if !plural.Empty() {
		o.nouns[plural.Key()] = n
		o.monadic.InsertPlural(plural, n)
	}
	return n, nil
}

// SetPluralForm overrides the plural of a noun, reindexing the trie.
func (o *Ontology) SetPluralForm(n *CommonNoun, plural token.Tokens) error {
	if err := o.checkCollision("common noun", plural); err != nil {
		return err
	}
	if !n.PluralForm.Empty() {
		delete(o.nouns, n.PluralForm.Key())
		o.monadic.Remove(n.PluralForm)
	}
	n.PluralForm = plural
	o.nouns[plural.Key()] = n
	o.monadic.InsertPlural(plural, n)
	return nil
}

// SetSingularForm overrides the singular of a noun, reindexing the trie.
func (o *Ontology) SetSingularForm(n *CommonNoun, singular token.Tokens) error {
	if err := o.checkCollision("common noun", singular); err != nil {
		return err
	}
	delete(o.nouns, n.SingularForm.Key())
	o.monadic.Remove(n.SingularForm)
	n.SingularForm = singular
	o.nouns[singular.Key()] = n
	o.monadic.Insert(singular, n)
	return nil
}

// AddAdjective finds or creates the adjective named by t.
func (o *Ontology) AddAdjective(t token.Tokens) (*Adjective, error) {
	if a, ok := o.adjectives[t.Key()]; ok {
		return a, nil
	}
	if o.locked {
		return nil, &UnknownReferentError{Name: t, Type: "adjective"}
	}
	if err := o.checkCollision("adjective", t); err != nil {
		return nil, err
	}
	a := &Adjective{SingularForm: t}
	o.adjectives[t.Key()] = a
	o.monadic.Insert(t, a)
	return a, nil
}

// AddVerb finds or creates the verb whose base form is base, installing
// every inflection into the verb trie.
func (o *Ontology) AddVerb(base token.Tokens) (*Verb, error) {
	if v, ok := o.verbs[base.Key()]; ok {
		return v, nil
	}
	if o.locked {
		return nil, &UnknownReferentError{Name: base, Type: "verb"}
	}
	if err := o.checkCollision("verb", base); err != nil {
		return nil, err
	}
	v := newVerb(base)
	if tp, err := morph.SingularOfVerb(base); err == nil {
		v.ThirdPerson = tp
	}
	if pp, err := morph.PassiveParticiple(base); err == nil {
		v.PassiveParticiple = pp
	}
	gerunds := morph.GerundsOfVerb(base)
	if len(gerunds) > 0 {
		v.Gerund = gerunds[0]
	}

	o.verbs[base.Key()] = v
	o.verbTrie.Insert(base, VerbForm{Verb: v, Conjugation: BaseForm})
	if !v.ThirdPerson.Empty() {
		o.verbTrie.Insert(v.ThirdPerson, VerbForm{Verb: v, Conjugation: ThirdPersonForm})
	}
	for _, g := range gerunds {
		o.verbTrie.Insert(g, VerbForm{Verb: v, Conjugation: GerundForm})
	}
	if !v.PassiveParticiple.Empty() {
		o.verbTrie.Insert(v.PassiveParticiple, VerbForm{Verb: v, Conjugation: PassiveParticipleForm})
	}
	return v, nil
}

// AddVerbFromGerund resolves a gerund surface form to its verb, creating the
// verb from the most plausible base form when it is new.
func (o *Ontology) AddVerbFromGerund(gerund token.Tokens) (*Verb, error) {
	if form, ok := o.verbTrie.Lookup(gerund); ok {
		return form.Verb, nil
	}
	candidates := morph.BaseFormCandidates(gerund)
	if len(candidates) == 0 {
		return nil, &morph.Error{Token: gerund.String()}
	}
	for _, c := range candidates {
		if v, ok := o.verbs[c.Key()]; ok {
			return v, nil
		}
	}
	return o.AddVerb(candidates[0])
}

// AddProperNoun finds or creates a proper noun, binding it to a fresh
// permanent individual.
func (o *Ontology) AddProperNoun(name token.Tokens) (*ProperNoun, error) {
	if p, ok := o.properNouns[name.Key()]; ok {
		return p, nil
	}
	if o.locked {
		return nil, &UnknownReferentError{Name: name, Type: "proper noun"}
	}
	if err := o.checkCollision("proper noun", name); err != nil {
		return nil, err
	}
	ind := o.PermanentIndividual(nil, name)
	p := &ProperNoun{NameTokens: name, Individual: ind}
	o.properNouns[name.Key()] = p
	return p, nil
}

// AddPart finds or creates the part slot name on owner.
func (o *Ontology) AddPart(owner *CommonNoun, name token.Tokens, count int, kind *CommonNoun, modifiers []Literal) (*Part, error) {
	for _, p := range owner.Parts {
		if p.IsNamed(name) {
			return p, nil
		}
	}
	if o.locked {
		return nil, &UnknownReferentError{Name: name, Type: "part"}
	}
	// A part named after its own kind ("a face has eyes") shares the noun's
	// name by design.
	if kind == nil || !name.Equal(kind.SingularForm) {
		if err := o.checkCollision("part", name); err != nil {
			return nil, err
		}
	}
	p := &Part{
		NameTokens: name,
		Count:      count,
		Kind:       kind,
		Modifiers:  modifiers,
		Owner:      owner,
	}
	if plural, err := morph.PluralOfNoun(name); err == nil {
		p.PluralTokens = plural
	}
	o.parts[name.Key()] = p
	owner.Parts = append(owner.Parts, p)
	return p, nil
}

// AddProperty finds or creates the property name on owner.
func (o *Ontology) AddProperty(owner *CommonNoun, name token.Tokens, typ PropertyType) (*Property, error) {
	for _, p := range owner.Properties {
		if p.IsNamed(name) {
			return p, nil
		}
	}
	if o.locked {
		return nil, &UnknownReferentError{Name: name, Type: "property"}
	}
	if err := o.checkCollision("property", name); err != nil {
		return nil, err
	}
	p := &Property{NameTokens: name, Type: typ, Owner: owner}
	o.properties[name.Key()] = p
	owner.Properties = append(owner.Properties, p)
	return p, nil
}

// LookupNoun returns the common noun named t under either inflection.
func (o *Ontology) LookupNoun(t token.Tokens) *CommonNoun { return o.nouns[t.Key()] }

// LookupAdjective returns the adjective named t.
func (o *Ontology) LookupAdjective(t token.Tokens) *Adjective { return o.adjectives[t.Key()] }

// LookupVerb returns the verb whose base form is t.
func (o *Ontology) LookupVerb(t token.Tokens) *Verb { return o.verbs[t.Key()] }

// LookupProperNoun returns the proper noun named t.
func (o *Ontology) LookupProperNoun(t token.Tokens) *ProperNoun { return o.properNouns[t.Key()] }

// Concept probes each referent family then each trie in a defined order and
// returns the first referent named t.
func (o *Ontology) Concept(t token.Tokens) Referent {
	key := t.Key()
	if p, ok := o.properNouns[key]; ok {
		return p
	}
	if n, ok := o.nouns[key]; ok {
		return n
	}
	if a, ok := o.adjectives[key]; ok {
		return a
	}
	if p, ok := o.parts[key]; ok {
		return p
	}
	if p, ok := o.properties[key]; ok {
		return p
	}
	if m, ok := o.monadic.Lookup(t); ok {
		return m
	}
	if form, ok := o.verbTrie.Lookup(t); ok {
		return form.Verb
	}
	return nil
}

// DeclareSuperkind records super as a superkind of sub, idempotently,
// rejecting cycles.
func (o *Ontology) DeclareSuperkind(sub, super *CommonNoun) error {
	if sub == super || sub.Dominates(super) {
		return &CycleError{Sub: sub.SingularForm, Super: super.SingularForm}
	}
	if sub.IsImmediateSubkindOf(super) {
		return nil
	}
	sub.Superkinds = append(sub.Superkinds, super)
	super.Subkinds = append(super.Subkinds, sub)
	return nil
}

// LeastUpperBound returns the nearest common ancestor of a and b in the kind
// lattice (a itself when it dominates b and vice versa), or nil when the two
// kinds share no ancestor.
func (o *Ontology) LeastUpperBound(a, b *CommonNoun) *CommonNoun {
	if a == nil || b == nil {
		return nil
	}
	aChain := map[*CommonNoun]bool{a: true}
	for _, anc := range a.Ancestors() {
		aChain[anc] = true
	}
	// Breadth-first from b so the nearest shared ancestor wins.
	queue := []*CommonNoun{b}
	seen := map[*CommonNoun]bool{b: true}
	for len(queue) > 0 {
		k := queue[0]
		queue = queue[1:]
		if aChain[k] {
			return k
		}
		for _, s := range k.Superkinds {
			if !seen[s] {
				seen[s] = true
				queue = append(queue, s)
			}
		}
	}
	return nil
}

// PermanentIndividual creates and registers a permanent individual.
func (o *Ontology) PermanentIndividual(kinds []*CommonNoun, name token.Tokens) *Individual {
	ind := o.newIndividual(kinds, name)
	o.permanent = append(o.permanent, ind)
	return ind
}

// EphemeralIndividual creates a transient individual for one generation.
func (o *Ontology) EphemeralIndividual(kinds []*CommonNoun, name token.Tokens) *Individual {
	ind := o.newIndividual(kinds, name)
	ind.EphemeralFlag = true
	return ind
}

func (o *Ontology) newIndividual(kinds []*CommonNoun, name token.Tokens) *Individual {
	ind := &Individual{
		ID:         o.nextID,
		NameTokens: name,
		Parts:      make(map[*Part][]*Individual),
	}
	o.nextID++
	for _, k := range kinds {
		ind.AddKind(k)
	}
	return ind
}

// PermanentIndividuals returns the registered permanent individuals in
// creation order.
func (o *Ontology) PermanentIndividuals() []*Individual { return o.permanent }

// AddTest registers an existence test.
func (o *Ontology) AddTest(t *Test) { o.tests = append(o.tests, t) }

// Tests returns the registered tests in declaration order.
func (o *Ontology) Tests() []*Test { return o.tests }

// AddButton records a REPL button binding.
func (o *Ontology) AddButton(b Button) { o.buttons = append(o.buttons, b) }

// Buttons returns the recorded button bindings.
func (o *Ontology) Buttons() []Button { return o.buttons }

// Nouns returns every common noun sorted by singular name, for
// deterministic iteration.
func (o *Ontology) Nouns() []*CommonNoun {
	seen := map[*CommonNoun]bool{}
	var out []*CommonNoun
	for _, n := range o.nouns {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].SingularForm.Key() < out[j].SingularForm.Key()
	})
	return out
}

// Adjectives returns every adjective sorted by name.
func (o *Ontology) Adjectives() []*Adjective {
	var out []*Adjective
	for _, a := range o.adjectives {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].SingularForm.Key() < out[j].SingularForm.Key()
	})
	return out
}

// Verbs returns every verb sorted by base form.
func (o *Ontology) Verbs() []*Verb {
	var out []*Verb
	for _, v := range o.verbs {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Base.Key() < out[j].Base.Key()
	})
	return out
}

// EnsurePlural computes and indexes the plural of n when it is missing.
func (o *Ontology) EnsurePlural(n *CommonNoun) (token.Tokens, error) {
	if !n.PluralForm.Empty() {
		return n.PluralForm, nil
	}
	p, err := morph.PluralOfNoun(n.SingularForm)
	if err != nil {
		return nil, fmt.Errorf("pluralizing %q: %w", n.SingularForm, err)
	}
	n.PluralForm = p
	o.nouns[p.Key()] = n
	o.monadic.InsertPlural(p, n)
	return p, nil
}
