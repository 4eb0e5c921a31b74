// Package kbfile reads an expert-system input file into a knowledge
// base: logic rules, initial facts, and queries. The grammar is small
// and fixed, so this is a hand-written lexer and parser rather than a
// generated-grammar toolkit.
package kbfile

import (
	"github.com/usercrixus/42expertSystem/internal/logic"
	"github.com/usercrixus/42expertSystem/internal/xerrors"
)

// parseSide lexes and parses one side of a logic line (the text before
// or after "=>"/"<=>") into an Expression. Parentheses are tracked as
// a running depth that becomes each TokenBlock's priority; every other
// character must be a symbol 'A'-'Z' or one of the operators
// '!' '+' '|' '^'.
func parseSide(text string) (logic.Expression, error) {
	b := &sideBuilder{}

	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c == ' ' || c == '\t':
			continue
		case c == '(':
			b.open()
		case c == ')':
			if err := b.close(); err != nil {
				return nil, err
			}
		case c == '!':
			b.emit(logic.NewOperatorToken(logic.OpNot))
		case c == '+':
			b.emit(logic.NewOperatorToken(logic.OpAnd))
		case c == '|':
			b.emit(logic.NewOperatorToken(logic.OpOr))
		case c == '^':
			b.emit(logic.NewOperatorToken(logic.OpXor))
		case c >= 'A' && c <= 'Z':
			b.emit(logic.NewSymbolToken(logic.Symbol(c)))
		case c >= 'a' && c <= 'z':
			return nil, xerrors.Syntax("lowercase symbol %q (symbols must be A-Z)", c)
		default:
			return nil, xerrors.Syntax("unrecognized character %q in rule", c)
		}
	}
	if b.depth != 0 {
		return nil, xerrors.Syntax("unbalanced parentheses")
	}
	b.flush()
	if len(b.blocks) == 0 {
		return nil, xerrors.Syntax("empty expression")
	}
	return b.blocks, nil
}

// sideBuilder accumulates TokenBlocks while scanning one side of a
// rule left to right, flushing the current block whenever a
// parenthesis changes nesting depth so that adjacent blocks at
// differing priorities reconstruct the parenthesization exactly as
// Expression expects.
type sideBuilder struct {
	blocks logic.Expression
	cur    *logic.TokenBlock
	depth  uint
}

func (b *sideBuilder) emit(tok logic.TokenEffect) {
	if b.cur == nil {
		b.cur = logic.NewTokenBlock(b.depth)
	}
	b.cur.Push(tok)
}

func (b *sideBuilder) flush() {
	if b.cur != nil && b.cur.Len() > 0 {
		b.blocks = append(b.blocks, b.cur)
	}
	b.cur = nil
}

func (b *sideBuilder) open() {
	b.flush()
	b.depth++
}

func (b *sideBuilder) close() error {
	if b.depth == 0 {
		return xerrors.Syntax("unmatched closing parenthesis")
	}
	b.flush()
	b.depth--
	return nil
}

// splitArrow finds the top-level arrow ("<=>" checked before "=>",
// since the former contains the latter) separating a logic line's two
// sides, returning the sides and whether it was an equivalence.
func splitArrow(line string) (lhs, rhs string, equivalence bool, err error) {
	if idx := indexOf(line, "<=>"); idx >= 0 {
		return line[:idx], line[idx+3:], true, nil
	}
	if idx := indexOf(line, "=>"); idx >= 0 {
		return line[:idx], line[idx+2:], false, nil
	}
	return "", "", false, xerrors.Syntax("no => or <=> found in logic line %q", line)
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}
