package logic

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// RuleStatus classifies what a single basic rule contributed to the
// proof of its head symbol.
type RuleStatus int

const (
	// FiredTrue: the rule's LHS held, concluding the head true.
	FiredTrue RuleStatus = iota
	// FiredFalse: the rule's LHS held, concluding the head false.
	FiredFalse
	// NotFired: the rule's LHS was false and contributed nothing.
	NotFired
	// AmbiguousCycle: the rule's LHS was ambiguous because proving it
	// led back to a symbol already on the proof stack.
	AmbiguousCycle
	// AmbiguousDepends: the rule's LHS was ambiguous because it
	// depends on symbols that are themselves undetermined.
	AmbiguousDepends
)

// RuleEvaluation is one considered rule in a symbol's trace.
type RuleEvaluation struct {
	Rule         BasicRule
	Status       RuleStatus
	BlockingVars []Symbol
	CycleVar     Symbol
}

// SymbolTrace is everything recorded while proving one symbol: whether
// it was given, every rule considered for it, the proof outcome, and
// any truth-table clamp applied afterwards. Complete marks the trace
// frozen, so later proof passes that revisit the symbol (for another
// query) do not append to an already-reported trace.
type SymbolTrace struct {
	WasInitialFact bool
	RuleEvals      []RuleEvaluation
	ProveResult    TriValue
	Complete       bool

	WasClamped  bool
	ClampedFrom TriValue
	ClampedTo   TriValue
	ClampReason string
}

// Reasoning collects per-symbol proof traces while the resolver works,
// when enabled. Each resolution pass carries a session-correlation ID
// so explanations from successive interactive fact sets can be told
// apart in a transcript.
type Reasoning struct {
	SessionID uuid.UUID
	enabled   bool
	traces    map[Symbol]*SymbolTrace
}

// NewReasoning returns a disabled Reasoning under a fresh session ID.
func NewReasoning() *Reasoning {
	return &Reasoning{SessionID: uuid.New(), traces: map[Symbol]*SymbolTrace{}}
}

// SetEnabled turns trace capture on or off. While off, the record
// methods are no-ops.
func (rs *Reasoning) SetEnabled(enabled bool) {
	rs.enabled = enabled
}

// Enabled reports whether trace capture is on.
func (rs *Reasoning) Enabled() bool {
	return rs.enabled
}

// Reset discards all collected traces and starts a new session ID, for
// when the initial facts change.
func (rs *Reasoning) Reset() {
	rs.SessionID = uuid.New()
	rs.traces = map[Symbol]*SymbolTrace{}
}

func (rs *Reasoning) trace(q Symbol) *SymbolTrace {
	t, ok := rs.traces[q]
	if !ok {
		t = &SymbolTrace{}
		rs.traces[q] = t
	}
	return t
}

func (rs *Reasoning) recordInitialFact(q Symbol) {
	if !rs.enabled {
		return
	}
	t := rs.trace(q)
	if t.Complete {
		return
	}
	t.WasInitialFact = true
	t.ProveResult = True
	t.Complete = true
}

func (rs *Reasoning) recordRuleEvaluation(q Symbol, eval RuleEvaluation) {
	if !rs.enabled {
		return
	}
	t := rs.trace(q)
	if t.Complete {
		return
	}
	t.RuleEvals = append(t.RuleEvals, eval)
}

func (rs *Reasoning) recordProveResult(q Symbol, result TriValue) {
	if !rs.enabled {
		return
	}
	t := rs.trace(q)
	if t.Complete {
		return
	}
	t.ProveResult = result
	t.Complete = true
}

func (rs *Reasoning) recordClamp(q Symbol, before, after TriValue, reason string) {
	if !rs.enabled {
		return
	}
	t := rs.trace(q)
	t.WasClamped = true
	t.ClampedFrom = before
	t.ClampedTo = after
	t.ClampReason = reason
}

// lowerTri renders a TriValue the way query output spells it.
func lowerTri(v TriValue) string {
	return strings.ToLower(v.String())
}

func formatVarList(vars []Symbol) string {
	sorted := make([]Symbol, len(vars))
	copy(sorted, vars)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	parts := make([]string, len(sorted))
	for i, v := range sorted {
		parts[i] = v.String()
	}
	return strings.Join(parts, ", ")
}

// formatRuleEvaluation renders one considered rule. rules is the
// knowledge base's rule arena, used to show the original input-file
// rule a basic rule was deduced from.
func formatRuleEvaluation(q Symbol, eval RuleEvaluation, rules []LogicRule) string {
	ruleStr := eval.Rule.String()
	if id := eval.Rule.DeducedFrom; id != NoRule && int(id) < len(rules) {
		ruleStr += " (from: " + rules[id].String() + ")"
	}

	concl := " true"
	if eval.Rule.RHSNegated {
		concl = " false"
	}

	var sb strings.Builder
	switch eval.Status {
	case FiredTrue:
		fmt.Fprintf(&sb, "%s shows %s true", ruleStr, q)
	case FiredFalse:
		fmt.Fprintf(&sb, "%s shows %s false", ruleStr, q)
	case NotFired:
		if len(eval.BlockingVars) > 0 {
			fmt.Fprintf(&sb, "%s did not fire (%s false)", ruleStr, formatVarList(eval.BlockingVars))
		} else {
			fmt.Fprintf(&sb, "%s did not fire (LHS false)", ruleStr)
		}
	case AmbiguousCycle:
		fmt.Fprintf(&sb, "%s could show %s%s but %s creates a cycle", ruleStr, q, concl, eval.CycleVar)
	case AmbiguousDepends:
		fmt.Fprintf(&sb, "%s could show %s%s but %s is undetermined", ruleStr, q, concl, formatVarList(eval.BlockingVars))
	}
	return sb.String()
}

// FormatTrace renders the reasoning behind q's final result, in the
// form printed by explain mode: a header, one line per rule considered
// (or a note that none applied), any truth-table clamp, and the
// conclusion.
func (rs *Reasoning) FormatTrace(q Symbol, result TriValue, rules []LogicRule) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "=== Reasoning for %s ===\n", q)

	t, ok := rs.traces[q]
	if !ok {
		fmt.Fprintf(&sb, "No rules apply to %s, false by default.\n", q)
		fmt.Fprintf(&sb, "%s is false\n", q)
		return sb.String()
	}

	if t.WasInitialFact {
		fmt.Fprintf(&sb, "%s is given as an initial fact.\n", q)
		fmt.Fprintf(&sb, "%s is true\n", q)
		return sb.String()
	}

	if len(t.RuleEvals) == 0 {
		fmt.Fprintf(&sb, "No rules target %s, false by default.\n", q)
	}
	for _, eval := range t.RuleEvals {
		sb.WriteString(formatRuleEvaluation(q, eval, rules))
		sb.WriteByte('\n')
	}
	if t.WasClamped && t.ClampedFrom != t.ClampedTo {
		sb.WriteString(t.ClampReason)
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "%s is %s\n", q, lowerTri(result))
	return sb.String()
}
