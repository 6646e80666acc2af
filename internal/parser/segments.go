package parser

import (
	"strconv"

	"imaginarium/internal/morph"
	"imaginarium/internal/ontology"
	"imaginarium/internal/token"
)

// constituent is one element of a sentence pattern.
type constituent interface {
	match(st *state) error
	describe() string
}

// starter is implemented by constituents that can tell a preceding greedy
// segment where to stop.
type starter interface {
	starts() func(string) bool
}

// transparent marks constituents that consume no tokens (cut, checks).
type transparent interface {
	transparent()
}

// ---- literal words ----

type word struct{ w string }

func lit(w string) word { return word{w} }

func (c word) match(st *state) error {
	if st.have(c.w) {
		return nil
	}
	return st.fail("expected " + strconv.Quote(c.w))
}
func (c word) describe() string           { return strconv.Quote(c.w) }
func (c word) starts() func(string) bool { return func(t string) bool { return t == c.w } }

// optWords optionally matches a fixed word sequence.
type optWords struct{ ws []string }

func opt(ws ...string) optWords { return optWords{ws} }

func (c optWords) match(st *state) error {
	mark := st.save()
	for _, w := range c.ws {
		if !st.have(w) {
			st.restore(mark)
			return nil
		}
	}
	return nil
}
func (c optWords) describe() string { return "optional " + strconv.Quote(token.Tokens(c.ws).String()) }

// oneOf matches any one word of a closed list, capturing it.
type oneOf struct {
	slot string
	ws   []string
}

func (c oneOf) match(st *state) error {
	for _, w := range c.ws {
		if st.have(w) {
			st.texts[c.slot] = w
			return nil
		}
	}
	return st.fail("expected one of the listed words")
}
func (c oneOf) describe() string { return "closed-class word" }
func (c oneOf) starts() func(string) bool {
	set := map[string]bool{}
	for _, w := range c.ws {
		set[w] = true
	}
	return func(t string) bool { return set[t] }
}

// ---- cut and feature checks ----

// cutMark is the "!" marker: once crossed, later mismatches raise
// grammatical errors instead of backtracking.
type cutMark struct{}

func cut() cutMark { return cutMark{} }

func (cutMark) match(st *state) error { st.committed = true; return nil }
func (cutMark) describe() string      { return "!" }
func (cutMark) transparent()          {}

// check runs a feature-check predicate without consuming tokens.
type check struct {
	name string
	fn   func(st *state) error
}

func (c check) match(st *state) error { return c.fn(st) }
func (c check) describe() string      { return c.name }
func (c check) transparent()          {}

// ---- numbers ----

type intSeg struct{ slot string }

func integer(slot string) intSeg { return intSeg{slot} }

func scanInt(tok string) (int, bool) {
	if n, ok := morph.DigitWord(tok); ok {
		return n, true
	}
	if n, err := strconv.Atoi(tok); err == nil && n >= 0 {
		return n, true
	}
	return 0, false
}

func (c intSeg) match(st *state) error {
	if n, ok := scanInt(st.peek()); ok {
		st.next()
		st.ints[c.slot] = n
		return nil
	}
	return st.fail("expected a number")
}
func (c intSeg) describe() string { return "integer" }
func (c intSeg) starts() func(string) bool {
	return func(t string) bool { _, ok := scanInt(t); return ok }
}

type floatSeg struct{ slot string }

func float(slot string) floatSeg { return floatSeg{slot} }

func (c floatSeg) match(st *state) error {
	if f, err := strconv.ParseFloat(st.peek(), 64); err == nil {
		st.next()
		st.floats[c.slot] = f
		return nil
	}
	if n, ok := scanInt(st.peek()); ok {
		st.next()
		st.floats[c.slot] = float64(n)
		return nil
	}
	return st.fail("expected a number")
}
func (c floatSeg) describe() string { return "number" }
func (c floatSeg) starts() func(string) bool {
	return func(t string) bool {
		if _, err := strconv.ParseFloat(t, 64); err == nil {
			return true
		}
		_, ok := scanInt(t)
		return ok
	}
}

// ---- text ----

// quotedSeg matches `"` free text `"`, capturing the raw words between the
// quotes with their original spacing collapsed.
type quotedSeg struct{ slot string }

func quoted(slot string) quotedSeg { return quotedSeg{slot} }

func (c quotedSeg) match(st *state) error {
	if !st.have("\"") {
		return st.fail("expected quoted text")
	}
	var run token.Tokens
	for !st.atEnd() && st.peek() != "\"" {
		run = append(run, st.next())
	}
	if !st.have("\"") {
		return st.fail("expected a closing quote")
	}
	st.texts[c.slot] = run.String()
	st.raws[c.slot] = run
	return nil
}
func (c quotedSeg) describe() string           { return "quoted text" }
func (c quotedSeg) starts() func(string) bool { return func(t string) bool { return t == "\"" } }

// rawSeg captures a raw token run up to the stop predicate without touching
// the ontology. Used for inflection overrides, part names and list names.
type rawSeg struct{ slot string }

func raw(slot string) rawSeg { return rawSeg{slot} }

func (c rawSeg) match(st *state) error {
	var run token.Tokens
	for !st.atStop() {
		run = append(run, st.next())
	}
	if run.Empty() {
		return st.fail("expected a name")
	}
	st.raws[c.slot] = run
	st.texts[c.slot] = run.String()
	return nil
}
func (c rawSeg) describe() string { return "name" }

// restSeg captures everything to the end of the sentence.
type restSeg struct{ slot string }

func rest(slot string) restSeg { return restSeg{slot} }

func (c restSeg) match(st *state) error {
	var run token.Tokens
	for !st.atEnd() {
		run = append(run, st.next())
	}
	st.texts[c.slot] = run.String()
	st.raws[c.slot] = run
	return nil
}
func (c restSeg) describe() string { return "text" }

// ---- noun phrases ----

type npOpts struct {
	// list marks the NP as an element of a referring-expression list, so
	// commas and conjunctions end the NP instead of being consumed.
	list bool
}

type npSeg struct {
	slot string
	opts npOpts
}

func np(slot string) npSeg { return npSeg{slot: slot} }

func (c npSeg) match(st *state) error {
	phrase, err := scanNP(st, c.opts)
	if err != nil {
		return err
	}
	st.nps[c.slot] = phrase
	return nil
}
func (c npSeg) describe() string { return "noun phrase" }

// npBoundary reports tokens that always end an NP scan: conjunctions,
// punctuation, copulas, and the modal/auxiliary words that open the
// predicate of a sentence.
func npBoundary(tok string) bool {
	switch tok {
	case "and", "or", ",", "(", ")", "\"",
		"can", "cannot", "must", "should", "may", "will", "would",
		"has", "have", "do", "does", "called":
		return true
	}
	return morph.IsCopula(tok)
}

// scanNP reads an optional determiner, then greedily consumes monadic
// concepts through the trie; the last one is the head and the preceding
// ones modifiers. The first unknown token turns the rest of the run into a
// candidate new-noun name.
func scanNP(st *state, opts npOpts) (*NounPhrase, error) {
	start := st.pos
	phrase := &NounPhrase{}

	switch st.peek() {
	case "a", "an":
		st.next()
		phrase.Number = ontology.Singular
		phrase.BeginsWithDeterminer = true
	case "all":
		st.next()
		phrase.Number = ontology.Plural
	default:
		if n, ok := scanInt(st.peek()); ok {
			st.next()
			phrase.ExplicitCount = n
			phrase.Number = ontology.Plural
		}
	}

	// A proper noun can only be the entire phrase, and never follows a
	// determiner.
	if !phrase.BeginsWithDeterminer && phrase.ExplicitCount == 0 {
		if pn := scanProperNoun(st); pn != nil {
			phrase.Proper = pn
			phrase.Number = ontology.Singular
			scanFrequency(st, &phrase.RelativeFrequency)
			phrase.Text = st.tokens[start:st.pos].Clone()
			return phrase, nil
		}
	}

	type matched struct {
		concept ontology.MonadicConcept
		negated bool
		plural  bool
	}
	var concepts []matched
	negated := false

	for !st.atStop() {
		tok := st.peek()
		if tok == "(" || npBoundary(tok) && tok != "," {
			break
		}
		if tok == "," {
			if opts.list {
				break
			}
			st.next()
			continue
		}
		if tok == "not" || tok == "non" {
			st.next()
			st.have("-")
			negated = true
			continue
		}
		m, ok := st.ont().Monadic().LongestPrefix(st.tokens, st.pos)
		if !ok {
			break
		}
		st.pos += m.Length
		concepts = append(concepts, matched{concept: m.Value, negated: negated, plural: m.Plural})
		negated = false
	}

	// Unknown head run: everything up to the stop, a boundary, or a word
	// the verb trie recognizes (so "cats love people" does not fold the
	// predicate into the subject).
	for !st.atStop() {
		tok := st.peek()
		if tok == "(" || npBoundary(tok) {
			break
		}
		if _, isVerb := st.ont().VerbTrie().LongestPrefix(st.tokens, st.pos); isVerb {
			break
		}
		phrase.Unknown = append(phrase.Unknown, st.next())
	}

	if len(concepts) == 0 && phrase.Unknown.Empty() {
		return nil, st.fail("expected a noun phrase")
	}

	headIsKnown := phrase.Unknown.Empty()
	modifiers := concepts
	if headIsKnown {
		head := concepts[len(concepts)-1]
		modifiers = concepts[:len(concepts)-1]
		switch hc := head.concept.(type) {
		case *ontology.CommonNoun:
			phrase.Common = hc
			phrase.PluralByTrie = head.plural
		case *ontology.Adjective:
			// A bare adjective cannot head a noun phrase.
			return nil, st.fail("expected a noun, found adjective " + strconv.Quote(hc.Name().String()))
		}
	}
	for _, m := range modifiers {
		l := ontology.Pos(m.concept)
		if m.negated {
			l = ontology.Neg(m.concept)
		}
		phrase.KnownModifiers = append(phrase.KnownModifiers, l)
	}

	// Number inference: determiner first, then trie annotation, then
	// morphology on an unknown head.
	if phrase.Number == ontology.UnknownNumber {
		switch {
		case headIsKnown && phrase.PluralByTrie:
			phrase.Number = ontology.Plural
		case headIsKnown:
			phrase.Number = ontology.Singular
		case morph.NounAppearsPlural(phrase.Unknown):
			phrase.Number = ontology.Plural
		}
	}
	// An unknown plural head is normalized so materialization gets the
	// right number.
	scanFrequency(st, &phrase.RelativeFrequency)
	phrase.Text = st.tokens[start:st.pos].Clone()
	return phrase, nil
}

// scanProperNoun probes the proper-noun index for the longest match at the
// cursor.
func scanProperNoun(st *state) *ontology.ProperNoun {
	maxLen := len(st.tokens) - st.pos
	if maxLen > 4 {
		maxLen = 4
	}
	for n := maxLen; n >= 1; n-- {
		if pn := st.ont().LookupProperNoun(st.tokens[st.pos : st.pos+n]); pn != nil {
			st.pos += n
			return pn
		}
	}
	return nil
}

// scanFrequency consumes a trailing "( number )" annotation.
func scanFrequency(st *state, out *float64) {
	if st.peek() != "(" {
		return
	}
	mark := st.save()
	st.next()
	f, err := strconv.ParseFloat(st.peek(), 64)
	if err != nil {
		st.restore(mark)
		return
	}
	st.next()
	if !st.have(")") {
		st.restore(mark)
		return
	}
	*out = f
}

// ---- adjective phrases ----

type apSeg struct {
	slot string
}

func ap(slot string) apSeg { return apSeg{slot: slot} }

func (c apSeg) match(st *state) error {
	phrase, err := scanAP(st)
	if err != nil {
		return err
	}
	st.aps[c.slot] = phrase
	return nil
}
func (c apSeg) describe() string { return "adjective" }

// scanAP reads an optional negation then one adjective by trie lookup; an
// unknown run up to the next boundary becomes a candidate new adjective.
func scanAP(st *state) (*AdjectivePhrase, error) {
	start := st.pos
	phrase := &AdjectivePhrase{}
	if st.peek() == "not" || st.peek() == "non" {
		st.next()
		st.have("-")
		phrase.Negated = true
	}
	if m, ok := st.ont().Monadic().LongestPrefix(st.tokens, st.pos); ok {
		if adj, isAdj := m.Value.(*ontology.Adjective); isAdj {
			st.pos += m.Length
			phrase.Adj = adj
			scanFrequency(st, &phrase.RelativeFrequency)
			phrase.Text = st.tokens[start:st.pos].Clone()
			return phrase, nil
		}
		return nil, st.fail("expected an adjective, found " + m.Value.PartOfSpeech())
	}
	for !st.atStop() {
		tok := st.peek()
		if tok == "(" || npBoundary(tok) {
			break
		}
		phrase.Unknown = append(phrase.Unknown, st.next())
	}
	if phrase.Unknown.Empty() {
		return nil, st.fail("expected an adjective")
	}
	scanFrequency(st, &phrase.RelativeFrequency)
	phrase.Text = st.tokens[start:st.pos].Clone()
	return phrase, nil
}

// ---- referring-expression lists ----

// listConj joins elements with "," / "and" / "or"; the conjunction of the
// final pair decides the list's flavor.
func scanListConj(st *state) (cont bool, conj string) {
	switch st.peek() {
	case ",":
		st.next()
		// Oxford comma: ", and" / ", or".
		if st.peek() == "and" || st.peek() == "or" {
			return true, st.next()
		}
		return true, ""
	case "and", "or":
		return true, st.next()
	}
	return false, ""
}

type npListSeg struct {
	slot     string
	conjSlot string
}

func npList(slot, conjSlot string) npListSeg { return npListSeg{slot, conjSlot} }

func (c npListSeg) match(st *state) error {
	var items []*NounPhrase
	conj := ""
	for {
		phrase, err := scanNP(st, npOpts{list: true})
		if err != nil {
			return err
		}
		items = append(items, phrase)
		cont, cj := scanListConj(st)
		if cj != "" {
			conj = cj
		}
		if !cont {
			break
		}
	}
	if len(items) == 0 {
		return st.fail("expected a list of noun phrases")
	}
	st.npLists[c.slot] = items
	st.texts[c.conjSlot] = conj
	return nil
}
func (c npListSeg) describe() string { return "list of noun phrases" }

type apListSeg struct {
	slot     string
	conjSlot string
}

func apList(slot, conjSlot string) apListSeg { return apListSeg{slot, conjSlot} }

func (c apListSeg) match(st *state) error {
	var items []*AdjectivePhrase
	conj := ""
	for {
		phrase, err := scanAP(st)
		if err != nil {
			return err
		}
		items = append(items, phrase)
		cont, cj := scanListConj(st)
		if cj != "" {
			conj = cj
		}
		if !cont {
			break
		}
	}
	if len(items) == 0 {
		return st.fail("expected a list of adjectives")
	}
	st.apLists[c.slot] = items
	st.texts[c.conjSlot] = conj
	return nil
}
func (c apListSeg) describe() string { return "list of adjectives" }

// ---- verbs ----

// verbStop are the words that always end a verb-segment scan: copulas,
// quantifier starts, determiners, and the reflexive/reciprocal markers.
func verbStop(tok string) bool {
	if morph.IsCopula(tok) {
		return true
	}
	if _, ok := scanInt(tok); ok {
		return true
	}
	switch tok {
	case "a", "an", "all", "each", "other", "themselves", "itself",
		"many", "some", "any", "no", "at", "up", "between", "exactly",
		"one", "another", ",", "(", ")", "\"":
		return true
	}
	return false
}

type verbSeg struct {
	slot string
}

func verb(slot string) verbSeg { return verbSeg{slot} }

func (c verbSeg) match(st *state) error {
	start := st.pos
	var run token.Tokens
	for !st.atStop() && !verbStop(st.peek()) {
		// A word that begins a known monadic concept opens the object NP,
		// not the verb, unless the verb trie resolves through it.
		if _, isConcept := st.ont().Monadic().LongestPrefix(st.tokens, st.pos); isConcept {
			if m, ok := st.ont().VerbTrie().LongestPrefix(st.tokens, start); !ok || start+m.Length <= st.pos {
				break
			}
		}
		run = append(run, st.peek())
		st.pos++
	}
	if run.Empty() {
		return st.fail("expected a verb")
	}
	phrase := &VerbPhrase{}
	// Resolve through the verb trie from the start of the run; the trie
	// may cover less than the scanned run, in which case the extra tokens
	// are handed back.
	if m, ok := st.ont().VerbTrie().LongestPrefix(st.tokens, start); ok {
		st.pos = start + m.Length
		phrase.Verb = m.Value.Verb
		phrase.Conjugation = m.Value.Conjugation
		phrase.Text = st.tokens[start:st.pos].Clone()
		st.verbs[c.slot] = phrase
		return nil
	}
	phrase.Unknown = run
	phrase.Text = run.Clone()
	st.verbs[c.slot] = phrase
	return nil
}
func (c verbSeg) describe() string { return "verb" }

// ---- quantifiers ----

type quantSeg struct{ slot string }

func quant(slot string) quantSeg { return quantSeg{slot} }

func (c quantSeg) match(st *state) error {
	start := st.pos
	q := &Quantifier{}
	switch st.peek() {
	case "other":
		st.next()
		q.IsOther = true
		q.Number = ontology.Plural
	case "another":
		st.next()
		q.IsOther = true
		q.Number = ontology.Singular
		q.Count = 1
	case "many", "some":
		st.next()
		q.Number = ontology.Plural
	case "any":
		st.next()
		if st.have("number") {
			st.have("of")
		}
		q.Number = ontology.Plural
	default:
		if n, ok := scanInt(st.peek()); ok {
			st.next()
			q.Count = n
			if n == 1 {
				q.Number = ontology.Singular
			} else {
				q.Number = ontology.Plural
			}
			break
		}
		return st.fail("expected a quantifier")
	}
	q.Text = st.tokens[start:st.pos].Clone()
	st.quants[c.slot] = q
	return nil
}
func (c quantSeg) describe() string { return "quantifier" }
func (c quantSeg) starts() func(string) bool {
	return func(t string) bool {
		switch t {
		case "other", "another", "many", "some", "any":
			return true
		}
		_, ok := scanInt(t)
		return ok
	}
}

func pluralOfVerbTokens(t token.Tokens) (token.Tokens, error) {
	return morph.PluralOfVerb(t)
}

func morphBaseFromParticiple(t token.Tokens) []token.Tokens {
	return morph.BaseFromParticiple(t)
}
