package logic

import "github.com/usercrixus/42expertSystem/internal/xerrors"

// triToken mirrors TokenEffect but carries a TriValue instead of a
// bare bool, used only while evaluating a rule's LHS against facts
// that may themselves be unresolved (Ambiguous). Symbol values are
// fetched lazily, so a short-circuited operand is still proved when
// first touched rather than eagerly for the whole expression.
type triToken struct {
	typ byte
	tri TriValue
	has bool
}

type triBlock struct {
	priority uint
	tokens   []triToken
}

// triEval carries one EvaluateTri call's state: the symbol prover and
// the negation context the expression was entered under. The context
// flips for any operand sitting directly under a '!'; it is purely
// consultative — prove uses it to tell same-sign from cross-sign
// cycles — and never changes the Kleene arithmetic itself.
type triEval struct {
	prove  func(Symbol, bool) TriValue
	negCtx bool
}

func (ev *triEval) value(tok *triToken, negated bool) (TriValue, error) {
	if tok.has {
		return tok.tri, nil
	}
	if Symbol(tok.typ).IsValid() {
		ctx := ev.negCtx
		if negated {
			ctx = !ctx
		}
		tok.tri = ev.prove(Symbol(tok.typ), ctx)
		tok.has = true
		return tok.tri, nil
	}
	return Ambiguous, xerrors.Invariant("value requested for operator token %c", tok.typ)
}

func (ev *triEval) executeNot(b *triBlock) error {
	i := 0
	for i < len(b.tokens) {
		if b.tokens[i].typ != OpNot {
			i++
			continue
		}
		if i+1 == len(b.tokens) {
			return xerrors.Invariant("operator ! has no operand")
		}
		v, err := ev.value(&b.tokens[i+1], true)
		if err != nil {
			return err
		}
		b.tokens[i+1].tri = v.Not()
		b.tokens[i+1].typ = opLiteral
		b.tokens = append(b.tokens[:i], b.tokens[i+1:]...)
		if i > 0 {
			i--
		}
	}
	return nil
}

func (ev *triEval) executeBinary(b *triBlock, op byte, fn func(a, c TriValue) TriValue) error {
	i := 0
	for i < len(b.tokens) {
		if b.tokens[i].typ != op {
			i++
			continue
		}
		if i == 0 || i+1 == len(b.tokens) {
			return xerrors.Invariant("operator %c has no operand", op)
		}
		lv, err := ev.value(&b.tokens[i-1], false)
		if err != nil {
			return err
		}
		rv, err := ev.value(&b.tokens[i+1], false)
		if err != nil {
			return err
		}
		b.tokens[i].tri = fn(lv, rv)
		b.tokens[i].typ = opLiteral
		b.tokens[i].has = true
		b.tokens = append(b.tokens[:i+1], b.tokens[i+2:]...)
		b.tokens = append(b.tokens[:i-1], b.tokens[i:]...)
		if i > 0 {
			i--
		}
	}
	return nil
}

func (ev *triEval) execute(b *triBlock) error {
	if len(b.tokens) == 0 {
		return xerrors.Invariant("cannot execute an empty block")
	}
	if err := ev.executeNot(b); err != nil {
		return err
	}
	if err := ev.executeBinary(b, OpAnd, func(a, c TriValue) TriValue { return a.And(c) }); err != nil {
		return err
	}
	if err := ev.executeBinary(b, OpOr, func(a, c TriValue) TriValue { return a.Or(c) }); err != nil {
		return err
	}
	if err := ev.executeBinary(b, OpXor, func(a, c TriValue) TriValue { return a.Xor(c) }); err != nil {
		return err
	}
	if len(b.tokens) != 1 {
		return xerrors.Invariant("block reduction did not converge")
	}
	return nil
}

func (ev *triEval) resolveLeft(blocks []*triBlock) (TriValue, error) {
	if len(blocks) == 0 {
		return Ambiguous, xerrors.Invariant("cannot resolve an empty expression")
	}
	for {
		var priority uint
		for _, b := range blocks {
			if b.priority > priority {
				priority = b.priority
			}
		}
		for i := 0; i < len(blocks); {
			if blocks[i].priority != priority {
				i++
				continue
			}
			if err := ev.execute(blocks[i]); err != nil {
				return Ambiguous, err
			}
			if i != 0 {
				blocks[i-1].tokens = append(blocks[i-1].tokens, blocks[i].tokens[0])
				blocks = append(blocks[:i], blocks[i+1:]...)
				continue
			}
			if len(blocks) > 1 {
				tk := blocks[0].tokens[0]
				blocks[1].tokens = append([]triToken{tk}, blocks[1].tokens...)
				blocks = blocks[1:]
				continue
			}
			blocks[i].priority = 0
			i++
		}
		if len(blocks) == 1 {
			if len(blocks[0].tokens) > 1 {
				if err := ev.execute(blocks[0]); err != nil {
					return Ambiguous, err
				}
			}
			return ev.value(&blocks[0].tokens[0], false)
		}
	}
}

// EvaluateTri resolves e to a TriValue under Kleene three-valued
// semantics, calling prove for each symbol as its value is first
// needed. negCtx is the negation context the expression is entered
// under; prove receives it flipped for symbols sitting directly under
// a '!'.
func (e Expression) EvaluateTri(negCtx bool, prove func(Symbol, bool) TriValue) (TriValue, error) {
	ev := &triEval{prove: prove, negCtx: negCtx}

	blocks := make([]*triBlock, len(e))
	for i, b := range e {
		tb := &triBlock{priority: b.Priority, tokens: make([]triToken, len(b.Tokens))}
		for j, tk := range b.Tokens {
			tb.tokens[j] = triToken{typ: tk.Type}
		}
		blocks[i] = tb
	}
	return ev.resolveLeft(blocks)
}
