// Package morph implements the English inflection layer: regular
// singular/plural noun rewriting, verb conjugation (third person, gerund,
// passive participle), and the irregular-form tables the rules defer to.
// The irregular tables are embedded so behavior is identical everywhere.
package morph

import (
	"bufio"
	"bytes"
	"embed"
	"fmt"
	"strings"

	"imaginarium/internal/token"
)

//go:embed irregular_nouns.txt irregular_verbs.txt
var dataFS embed.FS

// Error reports a token the morphology layer could not inflect.
type Error struct {
	Token string
}

func (e *Error) Error() string {
	return fmt.Sprintf("morphology: cannot inflect %q", e.Token)
}

var (
	irregularPlurals    = map[string]string{} // singular -> plural
	irregularSingulars  = map[string]string{} // plural -> singular
	irregularParticiple = map[string]string{} // base -> passive participle
	irregularBase       = map[string]string{} // passive participle -> base
)

func init() {
	loadPairs("irregular_nouns.txt", func(a, b string) {
		irregularPlurals[a] = b
		irregularSingulars[b] = a
	})
	loadPairs("irregular_verbs.txt", func(a, b string) {
		irregularParticiple[a] = b
		irregularBase[b] = a
	})
}

func loadPairs(name string, add func(a, b string)) {
	data, err := dataFS.ReadFile(name)
	if err != nil {
		panic(fmt.Sprintf("morph: embedded table %s: %v", name, err))
	}
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			continue
		}
		add(fields[0], fields[1])
	}
}

// copulas are the closed list of copular forms; the verb segment stops
// scanning at any of them and verb conjugation replaces them directly.
var copulas = map[string]bool{
	"is": true, "are": true, "am": true,
	"be": true, "being": true, "been": true,
	"was": true, "were": true,
}

// IsCopula reports whether w is a copular form.
func IsCopula(w string) bool { return copulas[w] }

var prepositions = map[string]bool{
	"to": true, "of": true, "for": true, "with": true, "by": true,
	"at": true, "on": true, "in": true, "from": true, "about": true,
	"over": true, "under": true,
}

// IsPreposition reports whether w is in the closed preposition list.
func IsPreposition(w string) bool { return prepositions[w] }

var digitWords = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
}

// DigitWord converts a spelled-out digit ("one".."ten") to its value.
func DigitWord(w string) (int, bool) {
	n, ok := digitWords[w]
	return n, ok
}

func isVowel(r byte) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}

// endsCVC reports whether w ends consonant-vowel-consonant with a final
// consonant that doubles before a suffix.
func endsCVC(w string) bool {
	if len(w) < 3 {
		return false
	}
	a, b, c := w[len(w)-3], w[len(w)-2], w[len(w)-1]
	if isVowel(c) || !isVowel(b) || isVowel(a) {
		return false
	}
	switch c {
	case 'w', 'x', 'y':
		return false
	}
	return true
}

// pluralOfWord inflects a single word to its plural.
func pluralOfWord(w string) (string, error) {
	if w == "" {
		return "", &Error{Token: w}
	}
	if p, ok := irregularPlurals[w]; ok {
		return p, nil
	}
	switch {
	case strings.HasSuffix(w, "ch"), strings.HasSuffix(w, "sh"),
		strings.HasSuffix(w, "ss"), strings.HasSuffix(w, "x"),
		strings.HasSuffix(w, "z"):
		return w + "es", nil
	case strings.HasSuffix(w, "y") && len(w) > 1 && !isVowel(w[len(w)-2]):
		return w[:len(w)-1] + "ies", nil
	case strings.HasSuffix(w, "ife"):
		return w[:len(w)-2] + "ves", nil
	case strings.HasSuffix(w, "lf") || strings.HasSuffix(w, "rf"):
		return w[:len(w)-1] + "ves", nil
	default:
		return w + "s", nil
	}
}

// singularOfWord inflects a single plural word back to its singular.
func singularOfWord(w string) (string, error) {
	if s, ok := irregularSingulars[w]; ok {
		return s, nil
	}
	switch {
	case strings.HasSuffix(w, "ies") && len(w) > 4:
		return w[:len(w)-3] + "y", nil
	case strings.HasSuffix(w, "lves"), strings.HasSuffix(w, "rves"):
		return w[:len(w)-3] + "f", nil
	case strings.HasSuffix(w, "ives"):
		return w[:len(w)-4] + "ife", nil
	case strings.HasSuffix(w, "ches"), strings.HasSuffix(w, "shes"),
		strings.HasSuffix(w, "sses"), strings.HasSuffix(w, "xes"),
		strings.HasSuffix(w, "zes"):
		return w[:len(w)-2], nil
	case strings.HasSuffix(w, "s") && !strings.HasSuffix(w, "ss"):
		return w[:len(w)-1], nil
	}
	return "", &Error{Token: w}
}

// PluralOfNoun inflects the head (final) word of a noun phrase.
func PluralOfNoun(sing token.Tokens) (token.Tokens, error) {
	if sing.Empty() {
		return nil, &Error{}
	}
	p, err := pluralOfWord(sing.Last())
	if err != nil {
		return nil, err
	}
	return sing.WithLast(p), nil
}

// SingularOfNoun inflects the head (final) word of a plural noun phrase.
func SingularOfNoun(plur token.Tokens) (token.Tokens, error) {
	if plur.Empty() {
		return nil, &Error{}
	}
	s, err := singularOfWord(plur.Last())
	if err != nil {
		return nil, err
	}
	return plur.WithLast(s), nil
}

// NounAppearsPlural guesses whether the head word of a noun phrase is in
// plural form. Exact knowledge lives in the trie; this is the fallback.
func NounAppearsPlural(t token.Tokens) bool {
	w := t.Last()
	if w == "" {
		return false
	}
	if _, ok := irregularSingulars[w]; ok {
		return true
	}
	if _, ok := irregularPlurals[w]; ok {
		return false
	}
	return strings.HasSuffix(w, "s") && !strings.HasSuffix(w, "ss") &&
		!strings.HasSuffix(w, "us")
}
