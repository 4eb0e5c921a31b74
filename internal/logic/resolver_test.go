package logic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func mustKB(t *testing.T, rules []LogicRule, facts map[Symbol]bool, queries []Symbol) *KnowledgeBase {
	t.Helper()
	kb, err := NewKnowledgeBase(rules, facts, queries)
	if err != nil {
		t.Fatalf("NewKnowledgeBase: %v", err)
	}
	return kb
}

func resolveAll(t *testing.T, kb *KnowledgeBase) map[Symbol]TriValue {
	t.Helper()
	results, err := NewResolver(kb).ResolveQueries()
	if err != nil {
		t.Fatalf("ResolveQueries: %v", err)
	}
	return results
}

func Test_Resolver_directFact(t *testing.T) {
	assert := assert.New(t)

	kb := mustKB(t, nil, map[Symbol]bool{'A': true}, []Symbol{'A'})
	assert.Equal(True, resolveAll(t, kb)['A'])
}

func Test_Resolver_chainedImplication(t *testing.T) {
	assert := assert.New(t)

	// A is a fact, A => B, B => C
	rules := []LogicRule{
		{LHS: Expression{block(0, sym('A'))}, RHS: Expression{block(0, sym('B'))}},
		{LHS: Expression{block(0, sym('B'))}, RHS: Expression{block(0, sym('C'))}},
	}
	kb := mustKB(t, rules, map[Symbol]bool{'A': true}, []Symbol{'C'})
	assert.Equal(True, resolveAll(t, kb)['C'])
}

func Test_Resolver_closedWorldDefault(t *testing.T) {
	assert := assert.New(t)

	// nothing at all proves Z; closed-world default is False.
	kb := mustKB(t, nil, map[Symbol]bool{}, []Symbol{'Z'})
	assert.Equal(False, resolveAll(t, kb)['Z'])
}

func Test_Resolver_equivalenceProvesBackwards(t *testing.T) {
	assert := assert.New(t)

	// A <=> B with B given proves A.
	rules := []LogicRule{
		{
			LHS:         Expression{block(0, sym('A'))},
			RHS:         Expression{block(0, sym('B'))},
			Equivalence: true,
		},
	}
	kb := mustKB(t, rules, map[Symbol]bool{'B': true}, []Symbol{'A'})
	assert.Equal(True, resolveAll(t, kb)['A'])
}

func Test_Resolver_sameSignCycleIsFalse(t *testing.T) {
	assert := assert.New(t)

	// B => A and A => B with no facts: the cycle proves nothing, and
	// negation as failure defaults both to false.
	rules := []LogicRule{
		{LHS: Expression{block(0, sym('B'))}, RHS: Expression{block(0, sym('A'))}},
		{LHS: Expression{block(0, sym('A'))}, RHS: Expression{block(0, sym('B'))}},
	}
	kb := mustKB(t, rules, map[Symbol]bool{}, []Symbol{'A'})
	assert.Equal(False, resolveAll(t, kb)['A'])
}

func Test_Resolver_sameSignSelfReferenceIsFalse(t *testing.T) {
	assert := assert.New(t)

	// A => A is a tautology that proves nothing new about A.
	rules := []LogicRule{
		{LHS: Expression{block(0, sym('A'))}, RHS: Expression{block(0, sym('A'))}},
	}
	kb := mustKB(t, rules, map[Symbol]bool{}, []Symbol{'A'})
	assert.Equal(False, resolveAll(t, kb)['A'])
}

func Test_Resolver_crossSignCycleIsAmbiguous(t *testing.T) {
	assert := assert.New(t)

	// !A => A: proving A leads back to A under the opposite sign — a
	// genuine paradox rather than a simple unsupported default.
	rules := []LogicRule{
		{LHS: Expression{block(0, op(OpNot), sym('A'))}, RHS: Expression{block(0, sym('A'))}},
	}
	kb := mustKB(t, rules, map[Symbol]bool{}, []Symbol{'A'})

	base, err := NewResolver(kb).ComputeBaseResults([]Symbol{'A'})
	if assert.NoError(err) {
		assert.Equal(Ambiguous, base['A'])
	}
}

func Test_Resolver_contradictingRulesAreAmbiguous(t *testing.T) {
	assert := assert.New(t)

	// B => A and C => !A with both premises given: the rules pull A
	// both ways.
	rules := []LogicRule{
		{LHS: Expression{block(0, sym('B'))}, RHS: Expression{block(0, sym('A'))}},
		{LHS: Expression{block(0, sym('C'))}, RHS: Expression{block(0, op(OpNot), sym('A'))}},
	}
	kb := mustKB(t, rules, map[Symbol]bool{'B': true, 'C': true}, []Symbol{'A'})

	base, err := NewResolver(kb).ComputeBaseResults([]Symbol{'A'})
	if assert.NoError(err) {
		assert.Equal(Ambiguous, base['A'])
	}
}

func Test_Resolver_resetReflectsNewFacts(t *testing.T) {
	assert := assert.New(t)

	rules := []LogicRule{
		{LHS: Expression{block(0, sym('A'))}, RHS: Expression{block(0, sym('B'))}},
	}
	kb := mustKB(t, rules, map[Symbol]bool{'A': true}, []Symbol{'B'})
	r := NewResolver(kb)

	results, err := r.ResolveQueries()
	if assert.NoError(err) {
		assert.Equal(True, results['B'])
	}

	kb.InitialFacts = map[Symbol]bool{}
	r.Reset()
	results, err = r.ResolveQueries()
	if assert.NoError(err) {
		assert.Equal(False, results['B'])
	}
}

func Test_Resolver_truthTableClampsAmbiguousResult(t *testing.T) {
	assert := assert.New(t)

	// A => B | C leaves both branches ambiguous on its own, but A => !B
	// rules B out, so the table forces C true.
	rules := []LogicRule{
		{
			LHS: Expression{block(0, sym('A'))},
			RHS: Expression{block(0, sym('B'), op(OpOr), sym('C'))},
		},
		{
			LHS: Expression{block(0, sym('A'))},
			RHS: Expression{block(0, op(OpNot), sym('B'))},
		},
	}
	kb := mustKB(t, rules, map[Symbol]bool{'A': true}, []Symbol{'B', 'C'})

	results := resolveAll(t, kb)
	assert.Equal(False, results['B'])
	assert.Equal(True, results['C'])
}

func Test_Resolver_disjunctionAloneStaysAmbiguous(t *testing.T) {
	assert := assert.New(t)

	rules := []LogicRule{
		{
			LHS: Expression{block(0, sym('A'))},
			RHS: Expression{block(0, sym('B'), op(OpOr), sym('C'))},
		},
	}
	kb := mustKB(t, rules, map[Symbol]bool{'A': true}, []Symbol{'B', 'C'})

	results := resolveAll(t, kb)
	assert.Equal(Ambiguous, results['B'])
	assert.Equal(Ambiguous, results['C'])
}

func Test_Resolver_deMorganConclusion(t *testing.T) {
	assert := assert.New(t)

	// A => !(B + C) with A and B given: B cannot be un-given, so C must
	// be false.
	rules := []LogicRule{
		{
			LHS: Expression{block(0, sym('A'))},
			RHS: Expression{
				block(0, op(OpNot)),
				block(1, sym('B'), op(OpAnd), sym('C')),
			},
		},
	}
	kb := mustKB(t, rules, map[Symbol]bool{'A': true, 'B': true}, []Symbol{'C'})
	assert.Equal(False, resolveAll(t, kb)['C'])
}

func Test_Resolver_reasoningTraceRecordsRules(t *testing.T) {
	assert := assert.New(t)

	rules := []LogicRule{
		{LHS: Expression{block(0, sym('A'))}, RHS: Expression{block(0, sym('B'))}},
	}
	kb := mustKB(t, rules, map[Symbol]bool{'A': true}, []Symbol{'B'})
	r := NewResolver(kb)
	r.Reasoning().SetEnabled(true)

	results, err := r.ResolveQueries()
	if !assert.NoError(err) {
		return
	}

	trace := r.Reasoning().FormatTrace('B', results['B'], kb.Rules)
	assert.Contains(trace, "=== Reasoning for B ===")
	assert.Contains(trace, "A => B shows B true")
	assert.Contains(trace, "B is true")

	factTrace := r.Reasoning().FormatTrace('A', True, kb.Rules)
	assert.Contains(factTrace, "A is given as an initial fact.")
}
