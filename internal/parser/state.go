package parser

import (
	"imaginarium/internal/ontology"
	"imaginarium/internal/token"
)

// NounPhrase is the result of scanning an NP segment. The head is either a
// resolved common noun, a resolved proper noun, or an unknown token run that
// a pattern action materializes into a fresh referent; scanning itself never
// mutates the ontology, so failed patterns leave no trace.
type NounPhrase struct {
	Common *ontology.CommonNoun
	Proper *ontology.ProperNoun
	// Unknown is the head token run when no referent resolved.
	Unknown token.Tokens
	// KnownModifiers are the signed concepts scanned before the head.
	KnownModifiers []ontology.Literal

	Number               ontology.GrammaticalNumber
	ExplicitCount        int
	BeginsWithDeterminer bool
	RelativeFrequency    float64 // 0 means unset
	PluralByTrie         bool    // head matched a form stored as plural

	Text  token.Tokens
	IsNew bool // set when an action materializes the unknown head
}

// AdjectivePhrase is the result of scanning an AP segment.
type AdjectivePhrase struct {
	Adj               *ontology.Adjective
	Unknown           token.Tokens
	Negated           bool
	RelativeFrequency float64
	Text              token.Tokens
}

// VerbPhrase is the result of scanning a verb segment.
type VerbPhrase struct {
	Verb        *ontology.Verb
	Conjugation ontology.Conjugation
	// Unknown is the surface run when no verb resolved; the expected
	// conjugation of the pattern decides how it becomes a base form.
	Unknown token.Tokens
	Text    token.Tokens
	IsNew   bool
}

// Quantifier is the result of scanning a quantifying determiner.
type Quantifier struct {
	// IsOther is the sole signal distinguishing "other cats" (which makes
	// the verb anti-reflexive) from "many cats" (which does not).
	IsOther bool
	// Count is an explicit count, or 0 when the quantifier is open-ended.
	Count  int
	Number ontology.GrammaticalNumber
	Text   token.Tokens
}

// state is the per-attempt token cursor plus captured segments. Every
// pattern attempt gets a fresh state; there is no intra-pattern
// backtracking beyond the explicit save/restore used inside segments.
type state struct {
	p      *Parser
	tokens token.Tokens
	input  string
	pos    int

	pattern   *pattern
	committed bool

	// stop is the predicate the active greedy segment must halt at,
	// derived from the following constituent before each segment match.
	stop func(string) bool

	nps     map[string]*NounPhrase
	aps     map[string]*AdjectivePhrase
	npLists map[string][]*NounPhrase
	apLists map[string][]*AdjectivePhrase
	verbs   map[string]*VerbPhrase
	quants  map[string]*Quantifier
	ints    map[string]int
	floats  map[string]float64
	texts   map[string]string
	raws    map[string]token.Tokens
}

func newState(p *Parser, input string, tokens token.Tokens) *state {
	return &state{
		p:       p,
		tokens:  tokens,
		input:   input,
		nps:     make(map[string]*NounPhrase),
		aps:     make(map[string]*AdjectivePhrase),
		npLists: make(map[string][]*NounPhrase),
		apLists: make(map[string][]*AdjectivePhrase),
		verbs:   make(map[string]*VerbPhrase),
		quants:  make(map[string]*Quantifier),
		ints:    make(map[string]int),
		floats:  make(map[string]float64),
		texts:   make(map[string]string),
		raws:    make(map[string]token.Tokens),
	}
}

func (st *state) ont() *ontology.Ontology { return st.p.ont }

func (st *state) save() int         { return st.pos }
func (st *state) restore(mark int)  { st.pos = mark }
func (st *state) atEnd() bool       { return st.pos >= len(st.tokens) }

func (st *state) peek() string {
	if st.atEnd() {
		return ""
	}
	return st.tokens[st.pos]
}

func (st *state) peekAt(offset int) string {
	if st.pos+offset >= len(st.tokens) {
		return ""
	}
	return st.tokens[st.pos+offset]
}

func (st *state) next() string {
	t := st.peek()
	if t != "" {
		st.pos++
	}
	return t
}

func (st *state) have(w string) bool {
	if st.peek() == w {
		st.pos++
		return true
	}
	return false
}

// atStop reports whether the active stop predicate fires on the next token.
func (st *state) atStop() bool {
	if st.atEnd() {
		return true
	}
	return st.stop != nil && st.stop(st.peek())
}

// fail produces the appropriate mismatch error: a silent backtrack before
// the cut, a grammatical error after it.
func (st *state) fail(segment string) error {
	if !st.committed {
		return errNoMatch
	}
	name := ""
	if st.pattern != nil {
		name = st.pattern.name
	}
	return &GrammaticalError{
		Sentence: st.input,
		Pattern:  name,
		Segment:  segment,
	}
}

func (st *state) NP(slot string) *NounPhrase          { return st.nps[slot] }
func (st *state) AP(slot string) *AdjectivePhrase     { return st.aps[slot] }
func (st *state) NPList(slot string) []*NounPhrase    { return st.npLists[slot] }
func (st *state) APList(slot string) []*AdjectivePhrase { return st.apLists[slot] }
func (st *state) Verb(slot string) *VerbPhrase        { return st.verbs[slot] }
func (st *state) Quant(slot string) *Quantifier       { return st.quants[slot] }
func (st *state) Int(slot string) int                 { return st.ints[slot] }
func (st *state) Float(slot string) float64           { return st.floats[slot] }
func (st *state) Text(slot string) string             { return st.texts[slot] }
func (st *state) Raw(slot string) token.Tokens        { return st.raws[slot] }

// noun materializes the head of np as a common noun, creating it (and
// loading its definition file, if any) when the head was unknown.
func (st *state) noun(np *NounPhrase) (*ontology.CommonNoun, error) {
	if np.Common != nil {
		return np.Common, nil
	}
	if np.Proper != nil || np.Unknown.Empty() {
		return nil, st.fail("expected a common noun")
	}
	number := np.Number
	if number == ontology.UnknownNumber {
		number = ontology.Singular
	}
	n, err := st.ont().AddCommonNoun(np.Unknown, number)
	if err != nil {
		return nil, err
	}
	np.Common = n
	np.IsNew = true
	st.p.referentIntroduced(n.SingularForm)
	return n, nil
}

// properNoun materializes the head of np as a proper noun.
func (st *state) properNoun(np *NounPhrase) (*ontology.ProperNoun, error) {
	if np.Proper != nil {
		return np.Proper, nil
	}
	if np.Common != nil || np.Unknown.Empty() {
		return nil, st.fail("expected a proper noun")
	}
	pn, err := st.ont().AddProperNoun(np.Unknown)
	if err != nil {
		return nil, err
	}
	np.Proper = pn
	np.IsNew = true
	st.p.referentIntroduced(pn.NameTokens)
	return pn, nil
}

// adjLiteral materializes an AP into a signed literal.
func (st *state) adjLiteral(ap *AdjectivePhrase) (ontology.Literal, error) {
	if ap.Adj == nil {
		if ap.Unknown.Empty() {
			return ontology.Literal{}, st.fail("expected an adjective")
		}
		a, err := st.ont().AddAdjective(ap.Unknown)
		if err != nil {
			return ontology.Literal{}, err
		}
		ap.Adj = a
		st.p.referentIntroduced(a.SingularForm)
	}
	if ap.Negated {
		return ontology.Neg(ap.Adj), nil
	}
	return ontology.Pos(ap.Adj), nil
}

// verb materializes a verb phrase, creating the verb when it was unknown.
// expected tells a creation from which conjugation the surface form came.
func (st *state) verb(vp *VerbPhrase, expected ontology.Conjugation) (*ontology.Verb, error) {
	if vp.Verb != nil {
		return vp.Verb, nil
	}
	if vp.Unknown.Empty() {
		return nil, st.fail("expected a verb")
	}
	var (
		v   *ontology.Verb
		err error
	)
	switch expected {
	case ontology.GerundForm:
		v, err = st.ont().AddVerbFromGerund(vp.Unknown)
	case ontology.PassiveParticipleForm:
		candidates := morphBaseFromParticiple(vp.Unknown)
		if len(candidates) == 0 {
			return nil, st.fail("expected a passive participle")
		}
		for _, c := range candidates {
			if known := st.ont().LookupVerb(c); known != nil {
				vp.Verb = known
				vp.Conjugation = expected
				return known, nil
			}
		}
		v, err = st.ont().AddVerb(candidates[0])
	case ontology.ThirdPersonForm:
		base, merr := pluralOfVerbTokens(vp.Unknown)
		if merr != nil {
			return nil, merr
		}
		v, err = st.ont().AddVerb(base)
	default:
		v, err = st.ont().AddVerb(vp.Unknown)
	}
	if err != nil {
		return nil, err
	}
	vp.Verb = v
	vp.Conjugation = expected
	vp.IsNew = true
	return v, nil
}
