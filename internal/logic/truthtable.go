package logic

import (
	"fmt"
	"sort"
	"strings"
)

// VariableState is one row of a TruthTable: a partial assignment of
// booleans to symbols. Two states are compatible when they agree on
// every symbol both assign.
type VariableState map[Symbol]bool

func (s VariableState) isCompatibleWith(o VariableState) bool {
	for sym, v := range s {
		if ov, ok := o[sym]; ok && ov != v {
			return false
		}
	}
	return true
}

func (s VariableState) merge(o VariableState) VariableState {
	out := make(VariableState, len(s)+len(o))
	for k, v := range s {
		out[k] = v
	}
	for k, v := range o {
		out[k] = v
	}
	return out
}

// key returns a canonical string for s so it can live in a Go map used
// as a set (VariableState itself, being a map, is not comparable).
func (s VariableState) key() string {
	syms := make([]Symbol, 0, len(s))
	for sym := range s {
		syms = append(syms, sym)
	}
	sort.Slice(syms, func(i, j int) bool { return syms[i] < syms[j] })
	var sb strings.Builder
	for _, sym := range syms {
		if s[sym] {
			sb.WriteByte(byte(sym))
		} else {
			fmt.Fprintf(&sb, "!%c", byte(sym))
		}
	}
	return sb.String()
}

func (s VariableState) String() string {
	syms := make([]Symbol, 0, len(s))
	for sym := range s {
		syms = append(syms, sym)
	}
	sort.Slice(syms, func(i, j int) bool { return syms[i] < syms[j] })
	var sb strings.Builder
	sb.WriteByte('{')
	for i, sym := range syms {
		if i > 0 {
			sb.WriteString(", ")
		}
		val := "F"
		if s[sym] {
			val = "T"
		}
		fmt.Fprintf(&sb, "%c=%s", byte(sym), val)
	}
	sb.WriteByte('}')
	return sb.String()
}

// TruthTable holds every variable assignment compatible with the
// rule(s) it was built from ("valid states"). Conjoining tables
// intersects their valid-state sets; filtering by known facts drops
// any state that contradicts a fact. Once enough rules and facts have
// been conjoined and filtered, a symbol whose value is the same
// across every remaining valid state is provably forced, independent
// of the resolver's own backward-chaining proof.
type TruthTable struct {
	Variables   map[Symbol]bool
	ValidStates map[string]VariableState
}

func newTruthTable() TruthTable {
	return TruthTable{Variables: map[Symbol]bool{}, ValidStates: map[string]VariableState{}}
}

// HasValidState reports whether any assignment still satisfies the
// table; an empty table (no valid states) means a contradiction.
func (t TruthTable) HasValidState() bool {
	return len(t.ValidStates) > 0
}

// TruthTableFromBasicRule enumerates every assignment of the rule's
// LHS variables and RHS symbol, keeping exactly those for which the
// rule "LHS => RHS" holds (i.e. LHS is false, or RHS matches).
func TruthTableFromBasicRule(rule BasicRule) TruthTable {
	table := newTruthTable()
	for _, sym := range rule.LHS.Symbols() {
		table.Variables[sym] = true
	}
	table.Variables[rule.RHSSymbol] = true

	varList := make([]Symbol, 0, len(table.Variables))
	for sym := range table.Variables {
		varList = append(varList, sym)
	}
	sort.Slice(varList, func(i, j int) bool { return varList[i] < varList[j] })

	combinations := 1 << uint(len(varList))
	for i := 0; i < combinations; i++ {
		state := make(VariableState, len(varList))
		for j, sym := range varList {
			state[sym] = (i>>uint(j))&1 == 1
		}
		lhsVal, err := rule.LHS.Evaluate(state)
		if err != nil {
			continue
		}
		rhsVal := state[rule.RHSSymbol]
		if rule.RHSNegated {
			rhsVal = !rhsVal
		}
		if !lhsVal || rhsVal {
			table.ValidStates[state.key()] = state
		}
	}
	return table
}

// FilterByFacts drops every valid state incompatible with knownFacts.
func (t TruthTable) FilterByFacts(knownFacts map[Symbol]bool) TruthTable {
	out := newTruthTable()
	out.Variables = t.Variables
	for _, state := range t.ValidStates {
		compatible := true
		for sym, v := range knownFacts {
			if sv, ok := state[sym]; ok && sv != v {
				compatible = false
				break
			}
		}
		if compatible {
			out.ValidStates[state.key()] = state
		}
	}
	return out
}

// FilterByResults narrows t using the declared initial facts (all
// true) together with any symbol the resolver has already proved
// definitely True or False; Ambiguous results are not treated as
// known facts.
func (t TruthTable) FilterByResults(initialFacts map[Symbol]bool, baseResults map[Symbol]TriValue) TruthTable {
	known := make(map[Symbol]bool, len(initialFacts)+len(baseResults))
	for sym, v := range initialFacts {
		if v {
			known[sym] = true
		}
	}
	for sym, v := range baseResults {
		if v == True {
			known[sym] = true
		} else if v == False {
			known[sym] = false
		}
	}
	return t.FilterByFacts(known)
}

// Conjunction intersects t1 and t2: a merged state survives only if
// its two halves agree on every variable both tables assign.
func Conjunction(t1, t2 TruthTable) TruthTable {
	out := newTruthTable()
	for sym := range t1.Variables {
		out.Variables[sym] = true
	}
	for sym := range t2.Variables {
		out.Variables[sym] = true
	}
	for _, s1 := range t1.ValidStates {
		for _, s2 := range t2.ValidStates {
			if s1.isCompatibleWith(s2) {
				merged := s1.merge(s2)
				out.ValidStates[merged.key()] = merged
			}
		}
	}
	return out
}

// ConjunctionAll folds Conjunction across tables left to right,
// stopping early once the running result has no valid states left
// (a contradiction can only ever stay a contradiction). With no tables
// at all the result has no variables and one empty valid state, so an
// empty rule base is not reported as a contradiction.
func ConjunctionAll(tables []TruthTable) TruthTable {
	if len(tables) == 0 {
		out := newTruthTable()
		out.ValidStates[VariableState{}.key()] = VariableState{}
		return out
	}
	result := tables[0]
	for _, t := range tables[1:] {
		result = Conjunction(result, t)
		if !result.HasValidState() {
			break
		}
	}
	return result
}

// PossibleValues returns the set of boolean values var takes across
// every remaining valid state.
func (t TruthTable) PossibleValues(v Symbol) map[bool]bool {
	possible := map[bool]bool{}
	for _, state := range t.ValidStates {
		if val, ok := state[v]; ok {
			possible[val] = true
		}
	}
	return possible
}

// MustBeTrue reports whether v is true in every valid state.
func (t TruthTable) MustBeTrue(v Symbol) bool {
	p := t.PossibleValues(v)
	return len(p) == 1 && p[true]
}

// MustBeFalse reports whether v is false in every valid state.
func (t TruthTable) MustBeFalse(v Symbol) bool {
	p := t.PossibleValues(v)
	return len(p) == 1 && p[false]
}

// Clamp returns True or False when every valid state of t agrees on v,
// whatever current is; otherwise it returns current unchanged.
func (t TruthTable) Clamp(v Symbol, current TriValue) TriValue {
	if t.MustBeTrue(v) {
		return True
	}
	if t.MustBeFalse(v) {
		return False
	}
	return current
}

func (t TruthTable) String() string {
	if len(t.Variables) == 0 {
		return "Empty truth table\n"
	}
	varList := make([]Symbol, 0, len(t.Variables))
	for sym := range t.Variables {
		varList = append(varList, sym)
	}
	sort.Slice(varList, func(i, j int) bool { return varList[i] < varList[j] })

	var sb strings.Builder
	for _, sym := range varList {
		fmt.Fprintf(&sb, "%c | ", byte(sym))
	}
	sb.WriteByte('\n')
	sb.WriteString(strings.Repeat("-", len(varList)*4))
	sb.WriteByte('\n')

	if len(t.ValidStates) == 0 {
		sb.WriteString("(No valid states - contradiction!)\n")
		return sb.String()
	}

	keys := make([]string, 0, len(t.ValidStates))
	for k := range t.ValidStates {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		state := t.ValidStates[k]
		for _, sym := range varList {
			if v, ok := state[sym]; ok {
				if v {
					sb.WriteString("T | ")
				} else {
					sb.WriteString("F | ")
				}
			} else {
				sb.WriteString("? | ")
			}
		}
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "\nTotal valid states: %d\n", len(t.ValidStates))
	return sb.String()
}
