package parser

import (
	"errors"
	"fmt"
	"strings"

	"imaginarium/internal/logging"
	"imaginarium/internal/ontology"
	"imaginarium/internal/token"
)

// Parser matches statements against the standard sentence patterns and
// executes the first match's action against its ontology.
type Parser struct {
	ont      *ontology.Ontology
	patterns []*pattern

	// loadedFiles guards against re-loading per-referent definition files.
	loadedFiles map[string]bool

	log *logging.Logger
}

// New returns a parser bound to ont with the standard pattern repertoire.
func New(ont *ontology.Ontology) *Parser {
	p := &Parser{
		ont:         ont,
		loadedFiles: make(map[string]bool),
		log:         logging.Get(logging.CategoryParser),
	}
	p.patterns = standardPatterns()
	return p
}

// Ontology returns the ontology this parser mutates.
func (p *Parser) Ontology() *ontology.Ontology { return p.ont }

// pattern is one sentence pattern: an ordered list of constituents, the
// action run on a successful match, and optional validity tests between
// match and action.
type pattern struct {
	name         string
	constituents []constituent
	validity     []func(st *state) error
	action       func(st *state) error
}

// stopFor derives the stop predicate a greedy segment should use from the
// constituents that follow it, skipping the ones that consume nothing.
func stopFor(rest []constituent) func(string) bool {
	for _, c := range rest {
		if _, ok := c.(transparent); ok {
			continue
		}
		if s, ok := c.(starter); ok {
			return s.starts()
		}
		return nil
	}
	return nil
}

// tryMatch runs the pattern's constituents over a fresh state.
func (pat *pattern) tryMatch(st *state) error {
	st.pattern = pat
	for i, c := range pat.constituents {
		st.stop = stopFor(pat.constituents[i+1:])
		if err := c.match(st); err != nil {
			return err
		}
	}
	st.stop = nil
	if !st.atEnd() {
		return st.fail(fmt.Sprintf("did not expect %q at the end", st.tokens[st.pos:].String()))
	}
	for _, v := range pat.validity {
		if err := v(st); err != nil {
			return err
		}
	}
	return nil
}

// Preprocess strips comments, surrounding space, and the trailing period
// from a statement line.
func Preprocess(line string) string {
	if i := strings.Index(line, "#"); i >= 0 {
		line = line[:i]
	}
	if i := strings.Index(line, "//"); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimSpace(line)
	line = strings.TrimRight(line, ". \t")
	return line
}

// ParseAndExecute parses one statement and executes the first matching
// pattern's action. Patterns are tried in declaration order; matching is
// deterministic.
func (p *Parser) ParseAndExecute(input string) error {
	line := Preprocess(input)
	if line == "" {
		return nil
	}
	toks := token.Tokenize(line)
	if len(toks) == 0 {
		return nil
	}
	for _, pat := range p.patterns {
		st := newState(p, line, toks)
		err := pat.tryMatch(st)
		if err == nil {
			p.log.Debug("matched %q as %s", line, pat.name)
			return pat.action(st)
		}
		if errors.Is(err, errNoMatch) {
			continue
		}
		p.log.Debug("rejected %q by %s: %v", line, pat.name, err)
		return err
	}
	return &GrammaticalError{
		Sentence: line,
		Message:  fmt.Sprintf("cannot understand %q: no sentence pattern matches", line),
	}
}

// ---- feature checks ----

func verbNumber(c ontology.Conjugation) ontology.GrammaticalNumber {
	switch c {
	case ontology.BaseForm:
		return ontology.Plural
	case ontology.ThirdPersonForm:
		return ontology.Singular
	}
	return ontology.UnknownNumber
}

// agree enforces subject-verb number agreement, inheriting in either
// direction when one side is ambiguous. For an unknown verb the subject's
// number decides which conjugation the surface form is taken to be.
func agree(npSlot, verbSlot string) check {
	return check{"subject-verb agreement", func(st *state) error {
		phrase := st.nps[npSlot]
		vp := st.verbs[verbSlot]
		if vp.Verb == nil {
			if phrase.Number == ontology.Singular {
				vp.Conjugation = ontology.ThirdPersonForm
			} else {
				vp.Conjugation = ontology.BaseForm
			}
			return nil
		}
		vn := verbNumber(vp.Conjugation)
		if vn == ontology.UnknownNumber {
			return st.fail(fmt.Sprintf("%q is not a finite verb form", vp.Text))
		}
		if phrase.Number == ontology.UnknownNumber {
			phrase.Number = vn
			return nil
		}
		if phrase.Number != vn {
			return st.fail(fmt.Sprintf("subject %q is %s but verb %q is %s",
				phrase.Text, phrase.Number, vp.Text, vn))
		}
		return nil
	}}
}

// verbBase requires the verb segment to be in base form.
func verbBase(slot string) check {
	return check{"verb in base form", func(st *state) error {
		vp := st.verbs[slot]
		if vp.Verb == nil {
			vp.Conjugation = ontology.BaseForm
			return nil
		}
		if vp.Conjugation != ontology.BaseForm {
			return st.fail(fmt.Sprintf("%q should be in base form", vp.Text))
		}
		return nil
	}}
}

// verbGerund requires the verb segment to be a gerund.
func verbGerund(slot string) check {
	return check{"verb in gerund form", func(st *state) error {
		vp := st.verbs[slot]
		if vp.Verb == nil {
			if !looksLikeGerund(vp.Unknown) {
				return st.fail(fmt.Sprintf("%q should be a gerund", vp.Text))
			}
			vp.Conjugation = ontology.GerundForm
			return nil
		}
		if vp.Conjugation != ontology.GerundForm {
			return st.fail(fmt.Sprintf("%q should be a gerund", vp.Text))
		}
		return nil
	}}
}

// verbPassive requires the verb segment to be a passive participle.
func verbPassive(slot string) check {
	return check{"verb in passive participle form", func(st *state) error {
		vp := st.verbs[slot]
		if vp.Verb == nil {
			vp.Conjugation = ontology.PassiveParticipleForm
			return nil
		}
		if vp.Conjugation != ontology.PassiveParticipleForm {
			return st.fail(fmt.Sprintf("%q should be a passive participle", vp.Text))
		}
		return nil
	}}
}

func looksLikeGerund(t token.Tokens) bool {
	for _, w := range t {
		if strings.HasSuffix(w, "ing") && len(w) > 4 {
			return true
		}
	}
	return false
}

// subjectCommon requires the NP to be (or introduce) a common noun.
func subjectCommon(slot string) check {
	return check{"common-noun subject", func(st *state) error {
		phrase := st.nps[slot]
		if phrase.Proper != nil {
			return st.fail(fmt.Sprintf("%q is a proper noun", phrase.Text))
		}
		return nil
	}}
}

// properHead requires the NP to be (or introduce) a proper noun.
func properHead(slot string) check {
	return check{"proper-noun subject", func(st *state) error {
		phrase := st.nps[slot]
		if phrase.Proper != nil {
			return nil
		}
		if phrase.Common == nil && !phrase.Unknown.Empty() && !phrase.BeginsWithDeterminer &&
			phrase.Number != ontology.Plural {
			return nil
		}
		return st.fail(fmt.Sprintf("%q should be a proper name", phrase.Text))
	}}
}

// explicitlySingular requires singular number on the NP.
func explicitlySingular(slot string) check {
	return check{"singular object", func(st *state) error {
		phrase := st.nps[slot]
		if phrase.Number == ontology.Plural {
			return st.fail(fmt.Sprintf("%q should be singular here", phrase.Text))
		}
		return nil
	}}
}

// unmodified forbids adjectives on the NP.
func unmodified(slot string) check {
	return check{"unmodified noun", func(st *state) error {
		phrase := st.nps[slot]
		if len(phrase.KnownModifiers) > 0 {
			return st.fail(fmt.Sprintf("%q should not carry modifiers here", phrase.Text))
		}
		return nil
	}}
}

// quantAgree enforces agreement between a quantifier and its object NP.
func quantAgree(qSlot, npSlot string) check {
	return check{"quantifier agreement", func(st *state) error {
		q := st.quants[qSlot]
		phrase := st.nps[npSlot]
		if q.Number == ontology.UnknownNumber || phrase.Number == ontology.UnknownNumber {
			return nil
		}
		if q.Number != phrase.Number {
			return st.fail(fmt.Sprintf("quantifier %q disagrees with %q", q.Text, phrase.Text))
		}
		return nil
	}}
}
