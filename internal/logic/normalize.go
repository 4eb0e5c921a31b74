package logic

import "github.com/usercrixus/42expertSystem/internal/xerrors"

// Normalize reduces an arbitrary LogicRule (as parsed from an input
// file) down to the set of BasicRules it implies. Equivalences split
// into a forward and backward implication; OR and XOR on the RHS
// case-split into multiple implications; AND on the RHS splits into
// one rule per conjunct; negated parentheses are pushed inward via De
// Morgan's laws until every RHS is a single, possibly negated,
// symbol. The algorithm is a worklist rewriter: every rule produced by
// a rewrite step is requeued until it is already a basic rule, at
// which point it is extracted and not requeued.
//
// De Morgan runs before OR/XOR expansion, AND-splitting runs before a
// single OR/XOR is case-split, and OR/XOR are expanded left to right.
// Every emitted BasicRule records id as its DeducedFrom origin, except
// when the whole rule reduces to exactly one BasicRule, which keeps
// NoRule so a trace does not report a rule as deduced from itself.
func Normalize(rule LogicRule, id RuleID) ([]BasicRule, error) {
	queue := expandEquivalence(rule)

	var out []BasicRule
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if hasNegatedParentheses(cur.RHS) {
			rewritten, err := applyDeMorgan(cur)
			if err != nil {
				return nil, err
			}
			queue = append(queue, rewritten)
			continue
		}

		if !hasOrXor(cur.RHS) {
			basics, err := extractBasicRules(cur, id)
			if err != nil {
				return nil, err
			}
			out = append(out, basics...)
			continue
		}

		expanded, err := expandRHS(cur)
		if err != nil {
			return nil, err
		}
		queue = append(queue, expanded...)
	}
	if len(out) == 1 {
		out[0].DeducedFrom = NoRule
	}
	return out, nil
}

// expandEquivalence turns A <=> B into A => B and B => A.
func expandEquivalence(rule LogicRule) []LogicRule {
	if !rule.Equivalence {
		return []LogicRule{rule}
	}
	return []LogicRule{
		{LHS: rule.LHS, RHS: rule.RHS},
		{LHS: rule.RHS, RHS: rule.LHS},
	}
}

// hasOrXor reports whether any block of rhs contains a | or ^ operator.
func hasOrXor(rhs Expression) bool {
	for _, b := range rhs {
		if b.HasAnyOperator(OpOr, OpXor) {
			return true
		}
	}
	return false
}

// hasNegatedParentheses reports whether rhs contains a block ending in
// a bare '!' immediately followed by a higher-priority (nested) block
// — i.e. a parenthesized subexpression negated as a whole, like
// !(A + B), which must go through De Morgan before anything else.
func hasNegatedParentheses(rhs Expression) bool {
	for i := 0; i+1 < len(rhs); i++ {
		b := rhs[i]
		if len(b.Tokens) == 0 {
			continue
		}
		last := b.Tokens[len(b.Tokens)-1]
		if last.Type == OpNot && rhs[i+1].Priority > b.Priority {
			return true
		}
	}
	return false
}

// getOperatorPriority ranks operator binding strength for the purpose
// of deciding which operator to split a mixed block on: + binds
// tightest, then |, then ^ which binds loosest.
func getOperatorPriority(op byte) int {
	switch op {
	case OpXor:
		return 0
	case OpOr:
		return 1
	case OpAnd:
		return 2
	}
	return -1
}

// mergeSamePriorityRuns collapses consecutive blocks that sit at the
// same priority into single blocks, dropping empty blocks. Rewriting
// steps produce fragments like [B]p0 [+]p0 [C]p0 which must become
// one [B + C]p0 block before the splice evaluator can reduce them.
func mergeSamePriorityRuns(e Expression) Expression {
	var out Expression
	for _, b := range e {
		if len(b.Tokens) == 0 {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Priority == b.Priority {
			out[n-1].Append(b)
			continue
		}
		out = append(out, b.WithPriority(b.Priority))
	}
	return out
}

// negateExpression returns the negation of e as a fresh expression
// rebased at priority 0. A simple operand (one block, no binary
// operator) gets a leading '!' prepended, or an existing leading '!'
// stripped so double negation cancels at the insertion site. A
// compound operand is wrapped whole: a '!' block followed by the
// operand's blocks pushed one priority level deeper.
func negateExpression(e Expression) Expression {
	e = mergeSamePriorityRuns(e)
	if len(e) == 0 {
		return nil
	}

	if len(e) == 1 && !e[0].HasAnyOperator(OpAnd, OpOr, OpXor) {
		b := e[0].WithPriority(0)
		if b.Tokens[0].Type == OpNot {
			b.Tokens = b.Tokens[1:]
			return Expression{b}
		}
		nb := NewTokenBlock(0)
		nb.Push(NewOperatorToken(OpNot))
		nb.Append(b)
		return Expression{nb}
	}

	minP := e[0].Priority
	for _, b := range e {
		if b.Priority < minP {
			minP = b.Priority
		}
	}
	notBlock := NewTokenBlock(0)
	notBlock.Push(NewOperatorToken(OpNot))
	out := Expression{notBlock}
	for _, b := range e {
		out = append(out, b.WithPriority(b.Priority-minP+1))
	}
	return out
}

// appendNegatedToLHS conjoins the negation of operand onto lhs. A
// simple lhs (a single block with no binary operator) absorbs the new
// conjunct in place; a compound lhs is first pushed one priority level
// deeper so its own grouping survives the added top-level AND.
func appendNegatedToLHS(lhs Expression, operand Expression) Expression {
	negated := negateExpression(operand)
	if len(negated) == 0 {
		return lhs.Clone()
	}

	if len(lhs) == 1 && !lhs[0].HasAnyOperator(OpAnd, OpOr, OpXor) {
		merged := lhs[0].WithPriority(lhs[0].Priority)
		merged.Push(NewOperatorToken(OpAnd))
		merged.Append(negated[0])
		out := Expression{merged}
		return append(out, negated[1:]...)
	}

	raised := make(Expression, len(lhs))
	for i, b := range lhs {
		raised[i] = b.WithPriority(b.Priority + 1)
	}
	joiner := NewTokenBlock(0)
	joiner.Push(NewOperatorToken(OpAnd))
	joiner.Append(negated[0])
	out := append(raised, joiner)
	return append(out, negated[1:]...)
}

// applyDeMorgan rewrites the first negated parenthesized group found
// in the rule's RHS, pushing the negation one level inward: !(A + B)
// becomes (!A | !B), !(A | B) becomes (!A + !B), and !(A ^ B) becomes
// (!A ^ !B). The group keeps its nesting depth, so grouping introduced
// by the parentheses survives the rewrite; a nested subgroup inside
// the negated group is re-negated as a whole and handled by the next
// worklist pass.
func applyDeMorgan(rule LogicRule) (LogicRule, error) {
	rhs := rule.RHS
	for i := 0; i+1 < len(rhs); i++ {
		b := rhs[i]
		if len(b.Tokens) == 0 {
			continue
		}
		if b.Tokens[len(b.Tokens)-1].Type != OpNot || rhs[i+1].Priority <= b.Priority {
			continue
		}

		base := b.Priority
		end := i + 1
		for end < len(rhs) && rhs[end].Priority > base {
			end++
		}

		flipped, err := deMorganGroup(rhs[i+1:end])
		if err != nil {
			return LogicRule{}, err
		}

		newRHS := make(Expression, 0, len(rhs))
		newRHS = append(newRHS, rhs[:i]...)
		trimmed := b.WithPriority(base)
		trimmed.Tokens = trimmed.Tokens[:len(trimmed.Tokens)-1]
		if len(trimmed.Tokens) > 0 {
			newRHS = append(newRHS, trimmed)
		}
		newRHS = append(newRHS, flipped...)
		newRHS = append(newRHS, rhs[end:]...)
		return LogicRule{LHS: rule.LHS, RHS: newRHS}, nil
	}
	return rule, xerrors.Invariant("applyDeMorgan: no negated parenthesized block found")
}

// deMorganGroup distributes a negation over the top level of a
// parenthesized group: AND and OR operators flip, XOR stays, each
// top-level symbol is negated (with double negation canceling), and
// each nested subgroup gets a single '!' in front so a later pass can
// distribute it in turn. Consecutive top-level blocks merge into one.
func deMorganGroup(group Expression) (Expression, error) {
	top := group[0].Priority
	for _, g := range group {
		if g.Priority < top {
			top = g.Priority
		}
	}

	var out Expression
	topBlock := func() *TokenBlock {
		if n := len(out); n > 0 && out[n-1].Priority == top {
			return out[n-1]
		}
		nb := NewTokenBlock(top)
		out = append(out, nb)
		return nb
	}
	cancelOrPushNot := func(tb *TokenBlock) {
		if n := len(tb.Tokens); n > 0 && tb.Tokens[n-1].Type == OpNot {
			tb.Tokens = tb.Tokens[:n-1]
			return
		}
		tb.Push(NewOperatorToken(OpNot))
	}

	for i := 0; i < len(group); i++ {
		g := group[i]
		if g.Priority > top {
			cancelOrPushNot(topBlock())
			for ; i < len(group) && group[i].Priority > top; i++ {
				out = append(out, group[i].WithPriority(group[i].Priority))
			}
			i--
			continue
		}
		tb := topBlock()
		for _, tk := range g.Tokens {
			switch {
			case tk.Type == OpAnd:
				tb.Push(NewOperatorToken(OpOr))
			case tk.Type == OpOr:
				tb.Push(NewOperatorToken(OpAnd))
			case tk.Type == OpXor, tk.Type == OpNot:
				tb.Push(tk)
			case tk.IsSymbol():
				cancelOrPushNot(tb)
				tb.Push(tk)
			default:
				return nil, xerrors.Invariant("deMorganGroup: unexpected token %v", tk)
			}
		}
	}
	return out, nil
}

// splitByAndAtLowestPriority splits rule into one rule per conjunct of
// its RHS when the RHS's lowest-priority blocks contain a top-level
// '+'. Higher-priority (parenthesized) blocks stay attached to the
// conjunct they neighbor; each conjunct keeps the same LHS.
func splitByAndAtLowestPriority(rule LogicRule) ([]LogicRule, bool) {
	rhs := rule.RHS
	if len(rhs) == 0 {
		return nil, false
	}
	min := rhs[0].Priority
	for _, b := range rhs {
		if b.Priority < min {
			min = b.Priority
		}
	}
	hasAnd := false
	for _, b := range rhs {
		if b.Priority == min && b.HasOperator(OpAnd) {
			hasAnd = true
			break
		}
	}
	if !hasAnd {
		return nil, false
	}

	var subs []Expression
	var cur Expression
	flushSub := func() {
		if len(cur) > 0 {
			subs = append(subs, cur)
			cur = nil
		}
	}
	for _, b := range rhs {
		if b.Priority != min {
			cur = append(cur, b.WithPriority(b.Priority))
			continue
		}
		run := NewTokenBlock(min)
		for _, tk := range b.Tokens {
			if tk.Type == OpAnd {
				if len(run.Tokens) > 0 {
					cur = append(cur, run)
					run = NewTokenBlock(min)
				}
				flushSub()
				continue
			}
			run.Push(tk)
		}
		if len(run.Tokens) > 0 {
			cur = append(cur, run)
		}
	}
	flushSub()

	out := make([]LogicRule, 0, len(subs))
	for _, sub := range subs {
		out = append(out, LogicRule{LHS: rule.LHS, RHS: sub})
	}
	return out, true
}

// splitOperands cuts the RHS in two around the operator at
// (blockIdx, tokenIdx): everything to the operator's left (preceding
// blocks plus the left run of its own block) and everything to its
// right (the right run plus the following blocks).
func splitOperands(rhs Expression, blockIdx, tokenIdx int) (left, right Expression) {
	block := rhs[blockIdx]
	for _, b := range rhs[:blockIdx] {
		left = append(left, b.WithPriority(b.Priority))
	}
	if lb := block.ExtractRange(0, tokenIdx, block.Priority); len(lb.Tokens) > 0 {
		left = append(left, lb)
	}
	if rb := block.ExtractRange(tokenIdx+1, len(block.Tokens), block.Priority); len(rb.Tokens) > 0 {
		right = append(right, rb)
	}
	for _, b := range rhs[blockIdx+1:] {
		right = append(right, b.WithPriority(b.Priority))
	}
	return left, right
}

// expandOrOperator rewrites A => L | R into A + !L => R and A + !R => L.
func expandOrOperator(rule LogicRule, blockIdx, tokenIdx int) []LogicRule {
	left, right := splitOperands(rule.RHS, blockIdx, tokenIdx)
	return []LogicRule{
		{LHS: appendNegatedToLHS(rule.LHS, left), RHS: right},
		{LHS: appendNegatedToLHS(rule.LHS, right), RHS: left},
	}
}

// expandXorOperator rewrites A => L ^ R into A + !L => R, A + !R => L,
// and a constraint rule A => !(L + R) forbidding both being true at
// once; the constraint rule is returned unreduced so it re-enters the
// worklist and is expanded by De Morgan.
func expandXorOperator(rule LogicRule, blockIdx, tokenIdx int) []LogicRule {
	left, right := splitOperands(rule.RHS, blockIdx, tokenIdx)
	out := []LogicRule{
		{LHS: appendNegatedToLHS(rule.LHS, left), RHS: right},
		{LHS: appendNegatedToLHS(rule.LHS, right), RHS: left},
	}

	conj := make(Expression, 0, len(left)+len(right)+1)
	conj = append(conj, left...)
	plus := NewTokenBlock(rule.RHS[blockIdx].Priority)
	plus.Push(NewOperatorToken(OpAnd))
	conj = append(conj, plus)
	conj = append(conj, right...)

	out = append(out, LogicRule{LHS: rule.LHS, RHS: negateExpression(conj)})
	return out
}

// expandRHS performs one worklist step against a rule whose RHS still
// contains an OR or XOR: first it normalizes blocks that mix operator
// kinds (splitting at the weakest operator and promoting the rest),
// then checks for a top-level AND to split on, and otherwise expands
// the first OR or XOR found, left to right.
func expandRHS(rule LogicRule) ([]LogicRule, error) {
	rule = normalizeMixedPriorityBlocks(rule)

	if split, ok := splitByAndAtLowestPriority(rule); ok {
		return split, nil
	}

	for bi, b := range rule.RHS {
		for ti, tk := range b.Tokens {
			if tk.Type == OpOr {
				return expandOrOperator(rule, bi, ti), nil
			}
			if tk.Type == OpXor {
				return expandXorOperator(rule, bi, ti), nil
			}
		}
	}
	return nil, xerrors.Invariant("expandRHS: hasOrXor reported true but none found")
}

// normalizeMixedPriorityBlocks splits any block that mixes operators
// of different binding strength at its weakest operator, promoting
// the right-hand remainder into its own nested block, so every block
// that reaches the OR/XOR expansion step contains only one kind of
// binary operator.
func normalizeMixedPriorityBlocks(rule LogicRule) LogicRule {
	rhs := make(Expression, 0, len(rule.RHS))
	for _, b := range rule.RHS {
		rhs = append(rhs, splitMixedBlock(b)...)
	}
	return LogicRule{LHS: rule.LHS, RHS: rhs}
}

func splitMixedBlock(b *TokenBlock) []*TokenBlock {
	lowest := -1
	for _, tk := range b.Tokens {
		p := getOperatorPriority(tk.Type)
		if p < 0 {
			continue
		}
		if lowest == -1 || p < lowest {
			lowest = p
		}
	}
	if lowest == -1 {
		return []*TokenBlock{b}
	}
	mixed := false
	for _, tk := range b.Tokens {
		p := getOperatorPriority(tk.Type)
		if p >= 0 && p != lowest {
			mixed = true
			break
		}
	}
	if !mixed {
		return []*TokenBlock{b}
	}

	splitIdx := 0
	for i, tk := range b.Tokens {
		if getOperatorPriority(tk.Type) == lowest {
			splitIdx = i
			break
		}
	}

	var out []*TokenBlock
	if splitIdx > 0 {
		out = append(out, b.ExtractRange(0, splitIdx, b.Priority))
	}
	opBlock := NewTokenBlock(b.Priority)
	opBlock.Push(b.Tokens[splitIdx])
	out = append(out, opBlock)
	if splitIdx+1 < len(b.Tokens) {
		right := b.ExtractRange(splitIdx+1, len(b.Tokens), b.Priority+1)
		out = append(out, splitMixedBlock(right)...)
	}
	return out
}

// extractBasicRules pulls every (symbol, negated) pair out of a rule
// whose RHS has already been reduced to optionally-negated symbols
// joined by AND, deduplicating repeats. A run of '!' collapses to a
// single negation bit.
func extractBasicRules(rule LogicRule, id RuleID) ([]BasicRule, error) {
	seen := map[Symbol]map[bool]bool{}
	var out []BasicRule
	for _, b := range rule.RHS {
		negated := false
		for _, tk := range b.Tokens {
			switch {
			case tk.Type == OpNot:
				negated = !negated
			case tk.Type == OpAnd:
				negated = false
			case tk.IsSymbol():
				sym := tk.Symbol()
				if seen[sym] == nil {
					seen[sym] = map[bool]bool{}
				}
				if seen[sym][negated] {
					negated = false
					continue
				}
				seen[sym][negated] = true
				out = append(out, BasicRule{
					LHS:         rule.LHS.Clone(),
					RHSSymbol:   sym,
					RHSNegated:  negated,
					DeducedFrom: id,
				})
				negated = false
			default:
				return nil, xerrors.Invariant("extractBasicRules: unexpected token on a reduced RHS: %v", tk)
			}
		}
	}
	if len(out) == 0 {
		return nil, xerrors.Invariant("extractBasicRules: RHS reduced to nothing")
	}
	return out, nil
}
