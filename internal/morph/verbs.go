package morph

import (
	"strings"

	"imaginarium/internal/token"
)

// Verb phrases keep their particles ("work for", "be married to"); the head
// word is the first token unless the phrase contains a copula, in which case
// the copula itself is what conjugates.

// SingularOfVerb returns the third-person-singular form of a verb phrase
// ("work for" -> "works for"). A copula in the phrase is replaced with "is";
// otherwise the head word takes the same rewrite as noun pluralization.
func SingularOfVerb(phrase token.Tokens) (token.Tokens, error) {
	if phrase.Empty() {
		return nil, &Error{}
	}
	for i, w := range phrase {
		if IsCopula(w) {
			out := phrase.Clone()
			out[i] = "is"
			return out, nil
		}
	}
	head := phrase[0]
	if head == "has" || head == "have" {
		out := phrase.Clone()
		out[0] = "has"
		return out, nil
	}
	s, err := pluralOfWord(head)
	if err != nil {
		return nil, err
	}
	out := phrase.Clone()
	out[0] = s
	return out, nil
}

// PluralOfVerb returns the base (plural-agreeing) form of a verb phrase
// ("works for" -> "work for"). A copula is replaced with "are"; otherwise
// the head word takes the singular-of-noun rewrite.
func PluralOfVerb(phrase token.Tokens) (token.Tokens, error) {
	if phrase.Empty() {
		return nil, &Error{}
	}
	for i, w := range phrase {
		if IsCopula(w) {
			out := phrase.Clone()
			out[i] = "are"
			return out, nil
		}
	}
	head := phrase[0]
	if head == "has" || head == "have" {
		out := phrase.Clone()
		out[0] = "have"
		return out, nil
	}
	b, err := singularOfWord(head)
	if err != nil {
		return nil, err
	}
	out := phrase.Clone()
	out[0] = b
	return out, nil
}

// GerundsOfVerb enumerates every plausible gerund surface form of a base
// verb phrase. All of them go into the verb trie so an author never has to
// guess which spelling the system picked.
func GerundsOfVerb(base token.Tokens) []token.Tokens {
	if base.Empty() {
		return nil
	}
	head := base[0]
	if IsCopula(head) {
		out := base.Clone()
		out[0] = "being"
		return []token.Tokens{out}
	}
	seen := map[string]bool{}
	var forms []token.Tokens
	add := func(g string) {
		if g == "" || seen[g] {
			return
		}
		seen[g] = true
		out := base.Clone()
		out[0] = g
		forms = append(forms, out)
	}
	switch {
	case strings.HasSuffix(head, "e") && !strings.HasSuffix(head, "ee") && len(head) > 2:
		add(head[:len(head)-1] + "ing")
		add(head + "ing")
	case endsCVC(head):
		add(head + string(head[len(head)-1]) + "ing")
	default:
		add(head + "ing")
	}
	return forms
}

// BaseFormCandidates inverts a gerund phrase (including particle-final forms
// like "getting married to") into candidate base forms, most likely first.
// Callers that know the verb trie should prefer a candidate already stored
// there; otherwise the first candidate is the canonical choice.
func BaseFormCandidates(gerund token.Tokens) []token.Tokens {
	idx := -1
	for i, w := range gerund {
		if strings.HasSuffix(w, "ing") && len(w) > 4 {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	w := gerund[idx]
	if w == "being" {
		out := gerund.Clone()
		out[idx] = "be"
		return []token.Tokens{out}
	}
	stripped := w[:len(w)-3]
	with := func(base string) token.Tokens {
		out := gerund.Clone()
		out[idx] = base
		return out
	}
	var cands []token.Tokens
	n := len(stripped)
	doubled := n >= 2 && stripped[n-1] == stripped[n-2] && !isVowel(stripped[n-1])
	// Doubled finals undouble ("getting" -> "get") except for letters that
	// legitimately end English words doubled (call, pass, buzz, stuff).
	if doubled {
		switch stripped[n-1] {
		case 'l', 's', 'z', 'f':
			cands = append(cands, with(stripped), with(stripped[:n-1]))
		default:
			cands = append(cands, with(stripped[:n-1]), with(stripped))
		}
		return cands
	}
	// A final v or u almost always lost a silent e ("loving" -> "love"),
	// as does a soft consonant after a vowel ("chasing" -> "chase").
	if n >= 1 && (stripped[n-1] == 'v' || stripped[n-1] == 'u') {
		cands = append(cands, with(stripped+"e"), with(stripped))
		return cands
	}
	if n >= 2 && isVowel(stripped[n-2]) {
		switch stripped[n-1] {
		case 's', 'c', 'z':
			cands = append(cands, with(stripped+"e"), with(stripped))
			return cands
		}
	}
	cands = append(cands, with(stripped), with(stripped+"e"))
	return cands
}

// BaseFromParticiple inverts a passive-participle phrase into candidate base
// forms, most likely first. The irregular table wins outright.
func BaseFromParticiple(pp token.Tokens) []token.Tokens {
	if pp.Empty() {
		return nil
	}
	head := pp[0]
	with := func(base string) token.Tokens {
		out := pp.Clone()
		out[0] = base
		return out
	}
	if b, ok := irregularBase[head]; ok {
		return []token.Tokens{with(b)}
	}
	if !strings.HasSuffix(head, "ed") || len(head) < 4 {
		return []token.Tokens{pp.Clone()}
	}
	stripped := head[:len(head)-2]
	n := len(stripped)
	var cands []token.Tokens
	switch {
	case strings.HasSuffix(head, "ied"):
		cands = append(cands, with(head[:len(head)-3]+"y"))
	case n >= 2 && stripped[n-1] == stripped[n-2] && !isVowel(stripped[n-1]):
		switch stripped[n-1] {
		case 'l', 's', 'z', 'f':
			cands = append(cands, with(stripped), with(stripped[:n-1]))
		default:
			cands = append(cands, with(stripped[:n-1]), with(stripped))
		}
	case stripped[n-1] == 'v' || stripped[n-1] == 'u':
		cands = append(cands, with(stripped+"e"), with(stripped))
	default:
		cands = append(cands, with(stripped), with(stripped+"e"))
	}
	return cands
}

// PassiveParticiple inflects a base verb phrase to its passive participle
// ("love" -> "loved", "take" -> "taken").
func PassiveParticiple(base token.Tokens) (token.Tokens, error) {
	if base.Empty() {
		return nil, &Error{}
	}
	head := base[0]
	out := base.Clone()
	if p, ok := irregularParticiple[head]; ok {
		out[0] = p
		return out, nil
	}
	switch {
	case strings.HasSuffix(head, "e"):
		out[0] = head + "d"
	case strings.HasSuffix(head, "y") && len(head) > 1 && !isVowel(head[len(head)-2]):
		out[0] = head[:len(head)-1] + "ied"
	case endsCVC(head):
		out[0] = head + string(head[len(head)-1]) + "ed"
	default:
		out[0] = head + "ed"
	}
	return out, nil
}
