package parser

import (
	"fmt"

	"imaginarium/internal/ontology"
	"imaginarium/internal/token"
)

// declareKind makes sub a subkind of super, carrying any relative frequency
// annotation onto the lattice edge. Modifiers on the subject become implied
// adjectives of the subkind.
func declareKind(st *state, sub *NounPhrase, super *ontology.CommonNoun) error {
	n, err := st.noun(sub)
	if err != nil {
		return err
	}
	if err := st.ont().DeclareSuperkind(n, super); err != nil {
		return err
	}
	if sub.RelativeFrequency > 0 {
		super.SubkindFrequency[n.SingularForm.Key()] = sub.RelativeFrequency
	}
	for _, m := range sub.KnownModifiers {
		n.ImpliedAdjectives = append(n.ImpliedAdjectives, ontology.ConditionalModifier{Modifier: m})
	}
	return nil
}

// addImpliedAdjective attaches a (possibly conditional) implied adjective to
// the subject kind: modifiers on the subject NP become the conditions.
func addImpliedAdjective(st *state, npSlot string, adjPhrase *AdjectivePhrase) error {
	n, err := st.noun(st.NP(npSlot))
	if err != nil {
		return err
	}
	l, err := st.adjLiteral(adjPhrase)
	if err != nil {
		return err
	}
	n.ImpliedAdjectives = append(n.ImpliedAdjectives, ontology.ConditionalModifier{
		Conditions: st.NP(npSlot).KnownModifiers,
		Modifier:   l,
	})
	registerRelevant(n, l)
	return nil
}

// addAlternativeSet attaches a bounded alternative set to the subject kind.
func addAlternativeSet(st *state, npSlot string, alts []*AdjectivePhrase, min, max int, preInit bool) error {
	n, err := st.noun(st.NP(npSlot))
	if err != nil {
		return err
	}
	set := &ontology.AlternativeSet{
		Min:                    min,
		Max:                    max,
		AllowPreInitialization: preInit,
	}
	for _, alt := range alts {
		l, err := st.adjLiteral(alt)
		if err != nil {
			return err
		}
		freq := alt.RelativeFrequency
		if freq <= 0 {
			freq = 1
		}
		set.Alternatives = append(set.Alternatives, l)
		set.Frequencies = append(set.Frequencies, freq)
		l.Concept.(*ontology.Adjective).ReferenceCount++
	}
	n.AlternativeSets = append(n.AlternativeSets, set)
	return nil
}

func registerRelevant(n *ontology.CommonNoun, l ontology.Literal) {
	adj, ok := l.Concept.(*ontology.Adjective)
	if !ok {
		return
	}
	for _, have := range n.RelevantAdjectives {
		if have == adj {
			return
		}
	}
	n.RelevantAdjectives = append(n.RelevantAdjectives, adj)
}

// addTest registers an existence test for the subject.
func addTest(st *state, npSlot string, shouldExist, everyKind bool) error {
	phrase := st.NP(npSlot)
	n, err := st.noun(phrase)
	if err != nil {
		return err
	}
	desc := phrase.Text.String()
	t := &ontology.Test{
		Noun:        n,
		Modifiers:   phrase.KnownModifiers,
		ShouldExist: shouldExist,
		EveryKind:   everyKind,
	}
	if shouldExist {
		t.SuccessMessage = fmt.Sprintf("found %s", desc)
		t.FailureMessage = fmt.Sprintf("no %s exists", desc)
	} else {
		t.SuccessMessage = fmt.Sprintf("no %s exists", desc)
		t.FailureMessage = fmt.Sprintf("found %s, which should not exist", desc)
	}
	st.ont().AddTest(t)
	return nil
}

// addIntervalProperty declares or tightens a numeric property. Modifiers on
// the subject turn the interval into a conditional tightening rule.
func addIntervalProperty(st *state, npSlot string, name token.Tokens, iv ontology.Interval) error {
	phrase := st.NP(npSlot)
	n, err := st.noun(phrase)
	if err != nil {
		return err
	}
	prop, err := st.ont().AddProperty(n, name, ontology.IntervalProperty)
	if err != nil {
		return err
	}
	if prop.Type != ontology.IntervalProperty {
		return st.fail(fmt.Sprintf("property %q is not numeric", name))
	}
	if len(phrase.KnownModifiers) == 0 {
		prop.Interval = iv
	} else {
		prop.IntervalRules = append(prop.IntervalRules, ontology.IntervalRule{
			Conditions: phrase.KnownModifiers,
			Interval:   iv,
		})
	}
	return nil
}

// addMenuProperty declares a menu property whose values come from a list
// file in the definitions directory.
func addMenuProperty(st *state, npSlot string, name, listName token.Tokens) error {
	phrase := st.NP(npSlot)
	n, err := st.noun(phrase)
	if err != nil {
		return err
	}
	values, err := st.p.LoadList(listName.String())
	if err != nil {
		return err
	}
	prop, err := st.ont().AddProperty(n, name, ontology.MenuProperty)
	if err != nil {
		return err
	}
	if prop.Type != ontology.MenuProperty {
		return st.fail(fmt.Sprintf("property %q is not menu-valued", name))
	}
	if len(phrase.KnownModifiers) == 0 {
		prop.Menu = values
	} else {
		prop.MenuRules = append(prop.MenuRules, ontology.MenuRule{
			Conditions: phrase.KnownModifiers,
			Menu:       values,
		})
	}
	return nil
}

// addPart declares a part slot on the owner kind. count zero means one part
// per explicit count on the kind NP, defaulting to a single part; name nil
// defaults to the part kind's singular name.
func addPart(st *state, ownerSlot, kindSlot string, count int, name token.Tokens) error {
	owner, err := st.noun(st.NP(ownerSlot))
	if err != nil {
		return err
	}
	kindNP := st.NP(kindSlot)
	kind, err := st.noun(kindNP)
	if err != nil {
		return err
	}
	if count == 0 {
		count = kindNP.ExplicitCount
	}
	if count == 0 {
		count = 1
	}
	if name.Empty() {
		name = kind.SingularForm
	}
	_, err = st.ont().AddPart(owner, name, count, kind, kindNP.KnownModifiers)
	return err
}

// shapeFromPhrases records an admissible argument typing on the verb.
func shapeFromPhrases(st *state, v *ontology.Verb, subj, obj *NounPhrase) error {
	sk, err := st.noun(subj)
	if err != nil {
		return err
	}
	ok, err := st.noun(obj)
	if err != nil {
		return err
	}
	v.AddShape(ontology.ArgumentShape{
		SubjectKind:      sk,
		SubjectModifiers: subj.KnownModifiers,
		ObjectKind:       ok,
		ObjectModifiers:  obj.KnownModifiers,
	})
	return nil
}

// setReflexivity handles "NP must/cannot V themselves".
func setReflexivity(st *state, required bool) error {
	v, err := st.verb(st.Verb("v"), ontology.BaseForm)
	if err != nil {
		return err
	}
	subj := st.NP("subj")
	if err := shapeFromPhrases(st, v, subj, subj); err != nil {
		return err
	}
	if required {
		v.IsReflexive = true
	} else {
		v.IsAntiReflexive = true
	}
	return nil
}

// setSymmetry handles "NP can V each other" / "NP cannot V each other".
func setSymmetry(st *state, symmetric bool) error {
	v, err := st.verb(st.Verb("v"), ontology.BaseForm)
	if err != nil {
		return err
	}
	subj := st.NP("subj")
	if err := shapeFromPhrases(st, v, subj, subj); err != nil {
		return err
	}
	if symmetric {
		v.IsSymmetric = true
	} else {
		v.IsAntiSymmetric = true
	}
	return nil
}

// setActiveBounds handles the active cardinality statements: bounds on how
// many objects each subject relates to.
func setActiveBounds(st *state, lower, upper int) error {
	v, err := st.verb(st.Verb("v"), st.Verb("v").Conjugation)
	if err != nil {
		return err
	}
	if err := shapeFromPhrases(st, v, st.NP("subj"), st.NP("obj")); err != nil {
		return err
	}
	if lower > v.ObjectLower {
		v.ObjectLower = lower
	}
	if upper < v.ObjectUpper {
		v.ObjectUpper = upper
	}
	return nil
}

// setPassiveBounds handles the passive cardinality statements: the sentence
// subject is the verb's object, so the bounds land on the subject side.
func setPassiveBounds(st *state, lower, upper int) error {
	v, err := st.verb(st.Verb("v"), ontology.PassiveParticipleForm)
	if err != nil {
		return err
	}
	// "an employer must be worked for by two employees": employees are the
	// verb's subjects, the employer its object.
	if err := shapeFromPhrases(st, v, st.NP("obj"), st.NP("subj")); err != nil {
		return err
	}
	if lower > v.SubjectLower {
		v.SubjectLower = lower
	}
	if upper < v.SubjectUpper {
		v.SubjectUpper = upper
	}
	return nil
}

// setPassiveQuant handles "NP must be Vpp by Quantifier NP".
func setPassiveQuant(st *state) error {
	q := st.Quant("q")
	modal := st.Text("modal")
	lower, upper := 0, ontology.Unbounded
	if q.Count > 0 {
		if modal == "must" {
			lower, upper = q.Count, q.Count
		} else {
			upper = q.Count
		}
	} else if modal == "must" {
		lower = 1
	}
	if err := setPassiveBounds(st, lower, upper); err != nil {
		return err
	}
	if q.IsOther {
		st.Verb("v").Verb.IsAntiReflexive = true
	}
	return nil
}

// setQuantifiedVerb handles "NP can/must V Quantifier NP". The quantifier's
// is_other flag is the sole signal for anti-reflexivity.
func setQuantifiedVerb(st *state) error {
	v, err := st.verb(st.Verb("v"), ontology.BaseForm)
	if err != nil {
		return err
	}
	if err := shapeFromPhrases(st, v, st.NP("subj"), st.NP("obj")); err != nil {
		return err
	}
	q := st.Quant("q")
	modal := st.Text("modal")
	if q.Count > 0 {
		if modal == "must" {
			if q.Count > v.ObjectLower {
				v.ObjectLower = q.Count
			}
			if q.Count < v.ObjectUpper {
				v.ObjectUpper = q.Count
			}
		} else if q.Count < v.ObjectUpper {
			v.ObjectUpper = q.Count
		}
	} else if modal == "must" && v.ObjectLower < 1 {
		v.ObjectLower = 1
	}
	if q.IsOther {
		v.IsAntiReflexive = true
	}
	return nil
}

// setPlainVerb handles "NP can V NP" and indicative "NP Vs NP": shape only.
func setPlainVerb(st *state) error {
	v, err := st.verb(st.Verb("v"), st.Verb("v").Conjugation)
	if err != nil {
		return err
	}
	if st.Text("modal") == "must" && v.ObjectLower < 1 {
		v.ObjectLower = 1
	}
	return shapeFromPhrases(st, v, st.NP("subj"), st.NP("obj"))
}
