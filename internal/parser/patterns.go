package parser

import (
	"fmt"

	"imaginarium/internal/ontology"
)

// standardPatterns returns the sentence patterns in match order. Order is
// load-bearing: dispatch is first-match, so patterns with distinctive
// literals come before the general ones that would otherwise swallow them.
func standardPatterns() []*pattern {
	return []*pattern{
		// ---- metadata ----
		{
			name:         "author: Text",
			constituents: []constituent{lit("author"), lit(":"), cut(), rest("text")},
			action: func(st *state) error {
				st.ont().Author = st.Text("text")
				return nil
			},
		},
		{
			name:         "description: Text",
			constituents: []constituent{lit("description"), lit(":"), cut(), rest("text")},
			action: func(st *state) error {
				st.ont().Description = st.Text("text")
				return nil
			},
		},
		{
			name:         "instructions: Text",
			constituents: []constituent{lit("instructions"), lit(":"), cut(), rest("text")},
			action: func(st *state) error {
				st.ont().Instructions = st.Text("text")
				return nil
			},
		},

		// ---- buttons ----
		{
			name: `pressing "Name" means "Command"`,
			constituents: []constituent{
				lit("pressing"), cut(), quoted("name"), lit("means"), quoted("command"),
			},
			action: func(st *state) error {
				st.ont().AddButton(ontology.Button{Name: st.Text("name"), Command: st.Text("command")})
				return nil
			},
		},

		// ---- inflection overrides ----
		{
			name: "the plural of Noun is Form",
			constituents: []constituent{
				lit("the"), lit("plural"), lit("of"), cut(), raw("noun"), lit("is"), raw("form"),
			},
			action: func(st *state) error {
				n, err := st.ont().AddCommonNoun(st.Raw("noun"), ontology.Singular)
				if err != nil {
					return err
				}
				return st.ont().SetPluralForm(n, st.Raw("form"))
			},
		},
		{
			name: "the singular of Noun is Form",
			constituents: []constituent{
				lit("the"), lit("singular"), lit("of"), cut(), raw("noun"), lit("is"), raw("form"),
			},
			action: func(st *state) error {
				n, err := st.ont().AddCommonNoun(st.Raw("noun"), ontology.Plural)
				if err != nil {
					return err
				}
				return st.ont().SetSingularForm(n, st.Raw("form"))
			},
		},

		// ---- description suppression ----
		{
			name: "do not mention being Adjective",
			constituents: []constituent{
				lit("do"), lit("not"), lit("mention"), lit("being"), cut(), ap("adj"),
			},
			action: func(st *state) error {
				l, err := st.adjLiteral(st.AP("adj"))
				if err != nil {
					return err
				}
				l.Concept.(*ontology.Adjective).IsSilent = true
				return nil
			},
		},
		{
			name: "do not print NP",
			constituents: []constituent{
				lit("do"), lit("not"), lit("print"), cut(), np("noun"),
			},
			action: func(st *state) error {
				n, err := st.noun(st.NP("noun"))
				if err != nil {
					return err
				}
				n.SuppressDescription = true
				return nil
			},
		},

		// ---- verb algebra (the verb must already exist) ----
		{
			name: "Verb is rare",
			constituents: []constituent{
				verb("v"), knownVerb("v"), lit("is"), lit("rare"),
			},
			action: func(st *state) error {
				st.Verb("v").Verb.Density = 0.05
				return nil
			},
		},
		{
			name: "Verb is common",
			constituents: []constituent{
				verb("v"), knownVerb("v"), lit("is"), lit("common"),
			},
			action: func(st *state) error {
				st.Verb("v").Verb.Density = 0.95
				return nil
			},
		},
		{
			name: "Verb and Verb are mutually exclusive",
			constituents: []constituent{
				verb("v1"), knownVerb("v1"), lit("and"), verb("v2"), knownVerb("v2"),
				lit("are"), lit("mutually"), cut(), lit("exclusive"),
			},
			action: func(st *state) error {
				a, b := st.Verb("v1").Verb, st.Verb("v2").Verb
				a.AddMutualExclusion(b)
				b.AddMutualExclusion(a)
				return nil
			},
		},
		{
			name: "Verb implies Verb",
			constituents: []constituent{
				verb("v1"), knownVerb("v1"), lit("implies"), cut(), verb("v2"),
			},
			action: func(st *state) error {
				g, err := st.verb(st.Verb("v2"), st.Verb("v2").Conjugation)
				if err != nil {
					return err
				}
				st.Verb("v1").Verb.AddGeneralization(g)
				return nil
			},
		},
		{
			name: "Verbing is a way of Verbing",
			constituents: []constituent{
				verb("v1"), verbGerund("v1"), lit("is"), lit("a"), lit("way"), lit("of"), cut(),
				verb("v2"), verbGerund("v2"),
			},
			action: func(st *state) error {
				sub, err := st.verb(st.Verb("v1"), ontology.GerundForm)
				if err != nil {
					return err
				}
				super, err := st.verb(st.Verb("v2"), ontology.GerundForm)
				if err != nil {
					return err
				}
				sub.AddSuperspecies(super)
				return nil
			},
		},

		// ---- tests ----
		{
			name: "every kind of NP should exist",
			constituents: []constituent{
				lit("every"), lit("kind"), lit("of"), cut(), np("noun"),
				lit("should"), lit("exist"),
			},
			action: func(st *state) error { return addTest(st, "noun", true, true) },
		},
		{
			name: "NP should not exist",
			constituents: []constituent{
				np("noun"), lit("should"), lit("not"), cut(), lit("exist"),
			},
			action: func(st *state) error { return addTest(st, "noun", false, false) },
		},
		{
			name: "NP should exist",
			constituents: []constituent{
				np("noun"), lit("should"), cut(), lit("exist"),
			},
			action: func(st *state) error { return addTest(st, "noun", true, false) },
		},

		// ---- kind declarations ----
		{
			name: "NPs are kinds of NP",
			constituents: []constituent{
				npList("subs", "conj"), lit("are"), lit("kinds"), lit("of"), cut(),
				np("super"), unmodified("super"),
			},
			action: func(st *state) error {
				super, err := st.noun(st.NP("super"))
				if err != nil {
					return err
				}
				for _, sub := range st.NPList("subs") {
					if err := declareKind(st, sub, super); err != nil {
						return err
					}
				}
				return nil
			},
		},
		{
			name: "NP is a kind of NP",
			constituents: []constituent{
				np("sub"), lit("is"), lit("a"), lit("kind"), lit("of"), cut(),
				np("super"), explicitlySingular("super"), unmodified("super"),
			},
			action: func(st *state) error {
				super, err := st.noun(st.NP("super"))
				if err != nil {
					return err
				}
				return declareKind(st, st.NP("sub"), super)
			},
		},

		// ---- passive cardinality ----
		// These outrank the alternative-set patterns: "cats can be owned by
		// at most 3 people" must reach the verb segment, not be read as an
		// adjective list. Every constituent before each cut backtracks, so
		// genuine adjective sentences still fall through.
		{
			name: "NP must be Verbed by between N and M NP",
			constituents: []constituent{
				np("subj"), oneOf{"modal", []string{"must", "can"}}, lit("be"), verb("v"), verbPassive("v"),
				lit("by"), lit("between"), cut(), integer("lo"), lit("and"), integer("hi"), np("obj"),
			},
			action: func(st *state) error {
				return setPassiveBounds(st, st.Int("lo"), st.Int("hi"))
			},
		},
		{
			name: "NP must be Verbed by at least N NP",
			constituents: []constituent{
				np("subj"), lit("must"), lit("be"), verb("v"), verbPassive("v"),
				lit("by"), lit("at"), lit("least"), cut(), integer("n"), np("obj"),
			},
			action: func(st *state) error {
				return setPassiveBounds(st, st.Int("n"), ontology.Unbounded)
			},
		},
		{
			name: "NP can be Verbed by at most N NP",
			constituents: []constituent{
				np("subj"), oneOf{"modal", []string{"can", "must"}}, lit("be"), verb("v"), verbPassive("v"),
				lit("by"), oneOf{"bound", []string{"at", "up"}}, oneOf{"bound2", []string{"most", "to"}},
				cut(), integer("n"), np("obj"),
			},
			action: func(st *state) error {
				return setPassiveBounds(st, 0, st.Int("n"))
			},
		},
		{
			name: "NP must be Verbed by Quantifier NP",
			constituents: []constituent{
				np("subj"), oneOf{"modal", []string{"must", "can"}}, lit("be"), verb("v"), verbPassive("v"),
				lit("by"), cut(), quant("q"), np("obj"), quantAgree("q", "obj"),
			},
			action: func(st *state) error { return setPassiveQuant(st) },
		},

		// ---- alternative sets ----
		{
			name: "NP is between N and M of Adjectives",
			constituents: []constituent{
				np("noun"), oneOf{"be", []string{"is", "are"}}, lit("between"), cut(),
				integer("lo"), lit("and"), integer("hi"), lit("of"), apList("alts", "conj"),
			},
			action: func(st *state) error {
				return addAlternativeSet(st, "noun", st.APList("alts"), st.Int("lo"), st.Int("hi"), false)
			},
		},
		{
			name: "NP is any N of Adjectives",
			constituents: []constituent{
				np("noun"), oneOf{"be", []string{"is", "are"}}, lit("any"), cut(),
				integer("n"), lit("of"), apList("alts", "conj"),
			},
			action: func(st *state) error {
				return addAlternativeSet(st, "noun", st.APList("alts"), st.Int("n"), st.Int("n"), false)
			},
		},
		{
			name: "NP can be at most N of Adjectives",
			constituents: []constituent{
				np("noun"), lit("can"), lit("be"), lit("at"), lit("most"), cut(),
				integer("n"), lit("of"), apList("alts", "conj"),
			},
			action: func(st *state) error {
				return addAlternativeSet(st, "noun", st.APList("alts"), 0, st.Int("n"), false)
			},
		},
		{
			name: "NP can be Adjective, ..., or Adjective",
			constituents: []constituent{
				np("noun"), lit("can"), lit("be"), cut(), apList("alts", "conj"),
			},
			action: func(st *state) error {
				alts := st.APList("alts")
				if st.Text("conj") == "or" && len(alts) > 1 {
					return addAlternativeSet(st, "noun", alts, 0, 1, false)
				}
				// "cats can be fluffy and lazy": independent optional
				// attributes, unconstrained.
				return addAlternativeSet(st, "noun", alts, 0, len(alts), false)
			},
		},

		// ---- templates ----
		{
			name: `NP is identified as "Template"`,
			constituents: []constituent{
				np("noun"), lit("is"), lit("identified"), lit("as"), cut(), quoted("tpl"),
			},
			action: func(st *state) error {
				n, err := st.noun(st.NP("noun"))
				if err != nil {
					return err
				}
				n.NameTemplate = st.Raw("tpl")
				return nil
			},
		},
		{
			name: `NP is described as "Template"`,
			constituents: []constituent{
				np("noun"), oneOf{"be", []string{"is", "are"}}, lit("described"), lit("as"), cut(), quoted("tpl"),
			},
			action: func(st *state) error {
				n, err := st.noun(st.NP("noun"))
				if err != nil {
					return err
				}
				n.DescriptionTemplate = st.Raw("tpl")
				return nil
			},
		},

		// ---- properties ----
		{
			name: "NP have Property between X and Y",
			constituents: []constituent{
				np("noun"), oneOf{"have", []string{"have", "has"}}, raw("prop"),
				lit("between"), cut(), float("lo"), lit("and"), float("hi"),
			},
			action: func(st *state) error {
				return addIntervalProperty(st, "noun", st.Raw("prop"),
					ontology.Interval{Lo: st.Float("lo"), Hi: st.Float("hi")})
			},
		},
		{
			name: "NP have Property from List",
			constituents: []constituent{
				np("noun"), oneOf{"have", []string{"have", "has"}}, raw("prop"),
				lit("from"), cut(), raw("list"),
			},
			action: func(st *state) error {
				return addMenuProperty(st, "noun", st.Raw("prop"), st.Raw("list"))
			},
		},

		// ---- parts ----
		{
			name: "NP has N NP called their Name",
			constituents: []constituent{
				np("owner"), oneOf{"have", []string{"have", "has"}}, integer("count"),
				np("kind"), lit("called"), cut(), opt("their"), opt("its"), raw("name"),
			},
			action: func(st *state) error {
				return addPart(st, "owner", "kind", st.Int("count"), st.Raw("name"))
			},
		},
		{
			name: "NP has NP called their Name",
			constituents: []constituent{
				np("owner"), oneOf{"have", []string{"have", "has"}},
				np("kind"), lit("called"), cut(), opt("their"), opt("its"), raw("name"),
			},
			action: func(st *state) error {
				return addPart(st, "owner", "kind", 0, st.Raw("name"))
			},
		},
		{
			name: "NP has N NP",
			constituents: []constituent{
				np("owner"), oneOf{"have", []string{"have", "has"}}, integer("count"), np("kind"),
			},
			action: func(st *state) error {
				return addPart(st, "owner", "kind", st.Int("count"), nil)
			},
		},
		{
			name: "NP has NP",
			constituents: []constituent{
				np("owner"), oneOf{"have", []string{"have", "has"}}, np("kind"),
			},
			action: func(st *state) error {
				return addPart(st, "owner", "kind", 0, nil)
			},
		},

		// ---- verb reflexivity and symmetry ----
		{
			name: "NP cannot Verb themselves",
			constituents: []constituent{
				np("subj"), lit("cannot"), verb("v"), verbBase("v"),
				oneOf{"self", []string{"themselves", "itself"}}, cut(),
			},
			action: func(st *state) error { return setReflexivity(st, false) },
		},
		{
			name: "NP must Verb themselves",
			constituents: []constituent{
				np("subj"), lit("must"), verb("v"), verbBase("v"),
				oneOf{"self", []string{"themselves", "itself"}}, cut(),
			},
			action: func(st *state) error { return setReflexivity(st, true) },
		},
		{
			name: "NP cannot Verb each other",
			constituents: []constituent{
				np("subj"), lit("cannot"), verb("v"), verbBase("v"),
				lit("each"), lit("other"), cut(),
			},
			action: func(st *state) error { return setSymmetry(st, false) },
		},
		{
			name: "NP can Verb each other",
			constituents: []constituent{
				np("subj"), lit("can"), verb("v"), verbBase("v"),
				oneOf{"recip", []string{"each", "one"}}, oneOf{"recip2", []string{"other", "another"}}, cut(),
			},
			action: func(st *state) error { return setSymmetry(st, true) },
		},

		// ---- active cardinality ----
		{
			name: "NP can Verb up to N NP",
			constituents: []constituent{
				np("subj"), oneOf{"modal", []string{"can", "must"}}, verb("v"), verbBase("v"),
				oneOf{"bound", []string{"up", "at"}}, oneOf{"bound2", []string{"to", "most"}},
				cut(), integer("n"), np("obj"),
			},
			action: func(st *state) error {
				return setActiveBounds(st, 0, st.Int("n"))
			},
		},
		{
			name: "NP must Verb at least N NP",
			constituents: []constituent{
				np("subj"), lit("must"), verb("v"), verbBase("v"),
				lit("at"), lit("least"), cut(), integer("n"), np("obj"),
			},
			action: func(st *state) error {
				return setActiveBounds(st, st.Int("n"), ontology.Unbounded)
			},
		},
		{
			name: "NP must Verb between N and M NP",
			constituents: []constituent{
				np("subj"), oneOf{"modal", []string{"must", "can"}}, verb("v"), verbBase("v"),
				lit("between"), cut(), integer("lo"), lit("and"), integer("hi"), np("obj"),
			},
			action: func(st *state) error {
				return setActiveBounds(st, st.Int("lo"), st.Int("hi"))
			},
		},
		{
			name: "NP must Verb exactly N NP",
			constituents: []constituent{
				np("subj"), lit("must"), verb("v"), verbBase("v"),
				lit("exactly"), cut(), integer("n"), np("obj"),
			},
			action: func(st *state) error {
				return setActiveBounds(st, st.Int("n"), st.Int("n"))
			},
		},

		// ---- quantified verb statements ----
		{
			name: "NP can Verb Quantifier NP",
			constituents: []constituent{
				np("subj"), oneOf{"modal", []string{"can", "must"}}, verb("v"), verbBase("v"),
				quant("q"), np("obj"), quantAgree("q", "obj"),
			},
			action: func(st *state) error { return setQuantifiedVerb(st) },
		},
		{
			name: "NP can Verb NP",
			constituents: []constituent{
				np("subj"), oneOf{"modal", []string{"can", "must"}}, verb("v"), verbBase("v"), np("obj"),
			},
			action: func(st *state) error { return setPlainVerb(st) },
		},
		{
			name: "NP Verbs NP",
			constituents: []constituent{
				np("subj"), verb("v"), agree("subj", "v"), np("obj"),
			},
			validity: []func(st *state) error{requireResolvedPair},
			action:   func(st *state) error { return setPlainVerb(st) },
		},

		// ---- proper nouns ----
		{
			name: "Name is a NP",
			constituents: []constituent{
				np("subj"), properHead("subj"), lit("is"), np("kind"),
			},
			validity: []func(st *state) error{
				func(st *state) error {
					if !st.NP("kind").BeginsWithDeterminer {
						return st.fail("expected an indefinite article on the kind")
					}
					return nil
				},
			},
			action: func(st *state) error {
				pn, err := st.properNoun(st.NP("subj"))
				if err != nil {
					return err
				}
				kindNP := st.NP("kind")
				kind, err := st.noun(kindNP)
				if err != nil {
					return err
				}
				pn.Individual.AddKind(kind)
				for _, m := range kindNP.KnownModifiers {
					pn.Individual.AddModifier(m)
				}
				return nil
			},
		},
		{
			name: "Name is Adjective",
			constituents: []constituent{
				np("subj"), lit("is"), ap("adj"),
			},
			validity: []func(st *state) error{
				func(st *state) error {
					if st.NP("subj").Proper == nil {
						return st.fail("subject is not a known proper noun")
					}
					return nil
				},
			},
			action: func(st *state) error {
				l, err := st.adjLiteral(st.AP("adj"))
				if err != nil {
					return err
				}
				st.NP("subj").Proper.Individual.AddModifier(l)
				return nil
			},
		},

		// ---- synonym kind declaration ----
		{
			name: "NP is a NP",
			constituents: []constituent{
				np("sub"), subjectCommon("sub"), lit("is"), np("super"),
			},
			validity: []func(st *state) error{
				func(st *state) error {
					super := st.NP("super")
					if !super.BeginsWithDeterminer {
						return st.fail("expected an indefinite article")
					}
					if super.Common == nil && super.Unknown.Empty() {
						return st.fail("expected a noun")
					}
					return nil
				},
			},
			action: func(st *state) error {
				super, err := st.noun(st.NP("super"))
				if err != nil {
					return err
				}
				return declareKind(st, st.NP("sub"), super)
			},
		},

		// ---- implied adjectives ----
		{
			name: "NP is always Adjective",
			constituents: []constituent{
				np("noun"), oneOf{"be", []string{"is", "are"}}, lit("always"), cut(), ap("adj"),
			},
			action: func(st *state) error { return addImpliedAdjective(st, "noun", st.AP("adj")) },
		},
		{
			name: "NP are Adjective, ..., or Adjective",
			constituents: []constituent{
				np("noun"), oneOf{"be", []string{"is", "are"}}, apList("alts", "conj"),
			},
			action: func(st *state) error {
				alts := st.APList("alts")
				if st.Text("conj") == "or" && len(alts) > 1 {
					// Required alternatives: exactly one of the set.
					return addAlternativeSet(st, "noun", alts, 1, 1, true)
				}
				for _, alt := range alts {
					if err := addImpliedAdjective(st, "noun", alt); err != nil {
						return err
					}
				}
				return nil
			},
		},
	}
}

// knownVerb backtracks unless the verb segment resolved an existing verb.
func knownVerb(slot string) check {
	return check{"known verb", func(st *state) error {
		if st.verbs[slot].Verb == nil {
			return st.fail(fmt.Sprintf("%q is not a known verb", st.verbs[slot].Text))
		}
		return nil
	}}
}

// requireResolvedPair keeps the bare "NP Verbs NP" pattern from hijacking
// sentences about unknown words: both the verb and the subject must already
// be known.
func requireResolvedPair(st *state) error {
	if st.Verb("v").Verb == nil {
		return st.fail("unknown verb")
	}
	subj := st.NP("subj")
	if subj.Common == nil && subj.Proper == nil {
		return st.fail("unknown subject")
	}
	return nil
}
