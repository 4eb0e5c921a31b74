package logic

import "fmt"

// NoRule is the DeducedFrom value of a BasicRule that is its own
// origin: the input rule reduced to exactly one basic rule, so there
// is no separate rule to point back at.
const NoRule RuleID = -1

// LogicRule is a single rule as read from the input file (or produced
// as an intermediate step of normalization): an arbitrary
// parenthesized LHS expression implying an arbitrary RHS expression,
// joined by either a one-way implication or a two-way equivalence.
type LogicRule struct {
	LHS         Expression
	RHS         Expression
	Equivalence bool // true for <=>, false for =>
}

func (r LogicRule) String() string {
	arrow := "=>"
	if r.Equivalence {
		arrow = "<=>"
	}
	return fmt.Sprintf("%s %s %s", r.LHS.Render(), arrow, r.RHS.Render())
}

// BasicRule is a fully normalized rule: an LHS expression implying a
// single, possibly negated, symbol. Every LogicRule read from an input
// file deduces one or more BasicRules; the resolver and truth-table
// engine only ever operate on BasicRules.
type BasicRule struct {
	LHS         Expression
	RHSSymbol   Symbol
	RHSNegated  bool
	DeducedFrom RuleID
}

func (r BasicRule) String() string {
	neg := ""
	if r.RHSNegated {
		neg = "!"
	}
	return fmt.Sprintf("%s => %s%s", r.LHS.Render(), neg, r.RHSSymbol)
}

// KnowledgeBase is the arena holding every rule loaded from an input
// file, the BasicRules deduced from them, the conjoined global truth
// table, and the declared initial facts and queries. RuleID indexes
// Rules; BasicRules deduced from Rules[i] record i in DeducedFrom so a
// trace can point back at the original input line, except when
// Rules[i] reduces to exactly one BasicRule, which records NoRule.
type KnowledgeBase struct {
	Rules        []LogicRule
	BasicRules   []BasicRule
	Table        TruthTable
	InitialFacts map[Symbol]bool
	Queries      []Symbol
}

// NewKnowledgeBase builds a KnowledgeBase from the rules and facts
// parsed out of an input file, running the normalizer and truth-table
// builder over every rule.
func NewKnowledgeBase(rules []LogicRule, initialFacts map[Symbol]bool, queries []Symbol) (*KnowledgeBase, error) {
	if initialFacts == nil {
		initialFacts = map[Symbol]bool{}
	}
	kb := &KnowledgeBase{
		Rules:        rules,
		InitialFacts: initialFacts,
		Queries:      queries,
	}
	var tables []TruthTable
	for id, rule := range rules {
		basics, err := Normalize(rule, RuleID(id))
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", id, err)
		}
		kb.BasicRules = append(kb.BasicRules, basics...)
		for _, b := range basics {
			tables = append(tables, TruthTableFromBasicRule(b))
		}
	}
	kb.Table = ConjunctionAll(tables)
	return kb, nil
}

// BasicRulesFor returns every BasicRule whose head is sym (regardless
// of polarity) — the set the resolver must consider when proving sym.
func (kb *KnowledgeBase) BasicRulesFor(sym Symbol) []BasicRule {
	var out []BasicRule
	for _, b := range kb.BasicRules {
		if b.RHSSymbol == sym {
			out = append(out, b)
		}
	}
	return out
}
