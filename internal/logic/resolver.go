package logic

import "fmt"

// Resolver answers queries against a fixed KnowledgeBase using
// backward chaining: to prove a symbol, it considers every BasicRule
// whose head is that symbol, tri-valued-evaluates each rule's LHS
// (recursively proving whatever symbols the LHS itself depends on),
// and combines the results. Base results are then tightened against
// the knowledge base's global truth table, narrowed by the current
// facts and everything already proved, so a symbol the rules force one
// way is reported definitely even when backward chaining alone leaves
// it ambiguous.
//
// A Resolver owns only per-pass state (proof memo, the in-progress
// proof stack, and the reasoning trace); the KnowledgeBase is borrowed
// and never mutated. Call Reset whenever the KnowledgeBase's
// InitialFacts change (interactive mode) before resolving again.
type Resolver struct {
	kb        *KnowledgeBase
	memo      map[Symbol]TriValue
	visiting  map[Symbol]bool
	reasoning *Reasoning
	err       error
}

// NewResolver builds a Resolver bound to kb, with trace capture off.
func NewResolver(kb *KnowledgeBase) *Resolver {
	return &Resolver{
		kb:        kb,
		memo:      map[Symbol]TriValue{},
		visiting:  map[Symbol]bool{},
		reasoning: NewReasoning(),
	}
}

// Reasoning exposes the resolver's trace collector, for enabling
// capture and rendering explanations.
func (r *Resolver) Reasoning() *Reasoning {
	return r.reasoning
}

// Reset clears memoized results and collected traces, without
// discarding the bound KnowledgeBase.
func (r *Resolver) Reset() {
	r.memo = map[Symbol]TriValue{}
	r.visiting = map[Symbol]bool{}
	r.reasoning.Reset()
	r.err = nil
}

// ComputeBaseResults proves each given symbol in isolation (the memo
// and proof stack are reset before each) and returns the raw
// backward-chaining result per symbol, before any truth-table
// tightening.
func (r *Resolver) ComputeBaseResults(syms []Symbol) (map[Symbol]TriValue, error) {
	out := make(map[Symbol]TriValue, len(syms))
	for _, s := range syms {
		r.memo = map[Symbol]TriValue{}
		r.visiting = map[Symbol]bool{}
		out[s] = r.prove(s, false)
		if r.err != nil {
			return nil, r.err
		}
	}
	return out, nil
}

// ResolveQueries answers every query declared in the knowledge base
// against its current initial facts. Base results are computed for the
// queries and for every variable the global truth table mentions; the
// table is then narrowed by the facts and those results, and each
// query's answer is clamped to a definite value wherever every
// remaining valid state agrees on it.
func (r *Resolver) ResolveQueries() (map[Symbol]TriValue, error) {
	seen := map[Symbol]bool{}
	var syms []Symbol
	for _, q := range r.kb.Queries {
		if !seen[q] {
			seen[q] = true
			syms = append(syms, q)
		}
	}
	for v := range r.kb.Table.Variables {
		if !seen[v] {
			seen[v] = true
			syms = append(syms, v)
		}
	}

	base, err := r.ComputeBaseResults(syms)
	if err != nil {
		return nil, err
	}

	var filtered TruthTable
	hasTable := false
	if r.kb.Table.HasValidState() {
		filtered = r.kb.Table.FilterByResults(r.kb.InitialFacts, base)
		hasTable = filtered.HasValidState()
	}

	results := make(map[Symbol]TriValue, len(r.kb.Queries))
	for _, q := range r.kb.Queries {
		final := base[q]
		if hasTable {
			clamped := filtered.Clamp(q, final)
			if clamped != final {
				reason := fmt.Sprintf("Truth table: every remaining valid state has %s %s.", q, lowerTri(clamped))
				r.reasoning.recordClamp(q, final, clamped, reason)
			}
			final = clamped
		}
		results[q] = final
	}
	return results, nil
}

// prove implements the core memoized backward-chaining recursion.
// negatedContext records whether the caller is asking about q under an
// odd number of negations, which only matters for telling apart
// same-sign self-reference (a proof depending on itself the same way,
// treated as False, the closed-world default) from cross-sign
// self-reference (a genuine paradox, treated as Ambiguous).
func (r *Resolver) prove(q Symbol, negatedContext bool) TriValue {
	if r.err != nil {
		return Ambiguous
	}
	if v, ok := r.memo[q]; ok {
		return v
	}

	if r.kb.InitialFacts[q] {
		r.reasoning.recordInitialFact(q)
		r.memo[q] = True
		return True
	}

	if ctx, ok := r.visiting[q]; ok {
		if ctx == negatedContext {
			return False
		}
		return Ambiguous
	}
	r.visiting[q] = negatedContext

	var definiteTrue, definiteFalse, possibleTrue, possibleFalse bool

	for _, rule := range r.kb.BasicRulesFor(q) {
		var falseVars, ambigVars []Symbol
		var cycleVar Symbol
		cycleHit := false

		// each rule's LHS is evaluated in a fresh positive context:
		// only a literal '!' marks its operand as negatively asked-for.
		// Threading the caller's context through would make an
		// even-parity cycle (B needs !C, C needs !B) look same-sign
		// and collapse a genuinely open disjunction to false.
		lhsVal, err := rule.LHS.EvaluateTri(false, func(s Symbol, neg bool) TriValue {
			if ctx, on := r.visiting[s]; on && ctx != neg && !cycleHit {
				cycleHit = true
				cycleVar = s
			}
			v := r.prove(s, neg)
			switch v {
			case False:
				falseVars = append(falseVars, s)
			case Ambiguous:
				ambigVars = append(ambigVars, s)
			}
			return v
		})
		if err != nil {
			r.err = err
			break
		}

		eval := RuleEvaluation{Rule: rule}
		switch lhsVal {
		case True:
			if rule.RHSNegated {
				definiteFalse = true
				eval.Status = FiredFalse
			} else {
				definiteTrue = true
				eval.Status = FiredTrue
			}
		case False:
			eval.Status = NotFired
			eval.BlockingVars = falseVars
		case Ambiguous:
			// an ambiguous premise makes both conclusions possible,
			// regardless of the rule head's own polarity
			possibleTrue = true
			possibleFalse = true
			if cycleHit {
				eval.Status = AmbiguousCycle
				eval.CycleVar = cycleVar
			} else {
				eval.Status = AmbiguousDepends
				eval.BlockingVars = ambigVars
			}
		}
		r.reasoning.recordRuleEvaluation(q, eval)
	}
	possibleTrue = possibleTrue || definiteTrue
	possibleFalse = possibleFalse || definiteFalse

	delete(r.visiting, q)

	var result TriValue
	switch {
	case definiteTrue && definiteFalse:
		result = Ambiguous
	case definiteTrue:
		result = True
	case definiteFalse:
		result = False
	case possibleTrue && possibleFalse:
		result = Ambiguous
	default:
		// closed-world default: unproved symbols are false
		result = False
	}

	r.reasoning.recordProveResult(q, result)
	r.memo[q] = result
	return result
}
