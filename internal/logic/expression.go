package logic

import (
	"fmt"
	"strings"

	"github.com/usercrixus/42expertSystem/internal/util"
	"github.com/usercrixus/42expertSystem/internal/xerrors"
)

// Operator constants used as a TokenEffect's Type when it is not
// carrying a symbol or a resolved literal.
const (
	OpNot byte = '!'
	OpAnd byte = '+'
	OpOr  byte = '|'
	OpXor byte = '^'
	// opLiteral marks a token that has already been reduced to a
	// plain boolean (or tri-valued) effect and carries no operator or
	// symbol anymore.
	opLiteral byte = 0
)

// TokenEffect is one element of a TokenBlock: either an operator, a
// symbol reference, or (after reduction) a bare literal. Type holds
// the operator byte, a Symbol value ('A'-'Z'), or opLiteral once the
// token has been collapsed to Effect/Tri during evaluation.
type TokenEffect struct {
	Type   byte
	Effect bool
	Tri    TriValue
}

// NewSymbolToken builds a token referencing a propositional symbol.
func NewSymbolToken(s Symbol) TokenEffect {
	return TokenEffect{Type: byte(s)}
}

// NewOperatorToken builds a token holding one of the Op* operators.
func NewOperatorToken(op byte) TokenEffect {
	return TokenEffect{Type: op}
}

// IsSymbol reports whether this token references a propositional
// symbol rather than an operator or a resolved literal.
func (t TokenEffect) IsSymbol() bool {
	return Symbol(t.Type).IsValid()
}

// Symbol returns the referenced symbol; only meaningful if IsSymbol.
func (t TokenEffect) Symbol() Symbol {
	return Symbol(t.Type)
}

func (t TokenEffect) String() string {
	if t.Type == opLiteral {
		return "(null)"
	}
	if t.IsSymbol() {
		return string(rune(t.Type))
	}
	return string(rune(t.Type))
}

// TokenBlock is a flat run of tokens that all sit at the same
// parenthesis nesting depth (Priority). Expressions are represented
// as a left-to-right sequence of TokenBlocks rather than a tree;
// nested parentheses are modeled purely by a higher Priority number on
// the inner block, and Resolve repeatedly collapses the
// highest-priority block and splices its result back into a neighbor
// until a single block of priority 0 remains.
type TokenBlock struct {
	Priority uint
	Tokens   []TokenEffect
}

// NewTokenBlock creates an empty block at the given nesting priority.
func NewTokenBlock(priority uint) *TokenBlock {
	return &TokenBlock{Priority: priority}
}

// NewSymbolBlock creates a single-token block referencing a symbol.
func NewSymbolBlock(priority uint, s Symbol) *TokenBlock {
	return &TokenBlock{Priority: priority, Tokens: []TokenEffect{NewSymbolToken(s)}}
}

func (b *TokenBlock) Len() int { return len(b.Tokens) }

func (b *TokenBlock) Push(t TokenEffect) {
	b.Tokens = append(b.Tokens, t)
}

// WithPriority returns a shallow copy of b re-tagged at new priority.
func (b *TokenBlock) WithPriority(p uint) *TokenBlock {
	cp := make([]TokenEffect, len(b.Tokens))
	copy(cp, b.Tokens)
	return &TokenBlock{Priority: p, Tokens: cp}
}

// ExtractRange copies tokens [start,end) of b into a new block at the
// given priority, clamping end to b's length.
func (b *TokenBlock) ExtractRange(start, end int, priority uint) *TokenBlock {
	if end > len(b.Tokens) {
		end = len(b.Tokens)
	}
	if start > end {
		start = end
	}
	out := make([]TokenEffect, end-start)
	copy(out, b.Tokens[start:end])
	return &TokenBlock{Priority: priority, Tokens: out}
}

// HasOperator reports whether any token in b is the given operator.
func (b *TokenBlock) HasOperator(op byte) bool {
	for _, tk := range b.Tokens {
		if tk.Type == op {
			return true
		}
	}
	return false
}

// HasAnyOperator reports whether any token in b matches one of ops.
func (b *TokenBlock) HasAnyOperator(ops ...byte) bool {
	for _, tk := range b.Tokens {
		for _, op := range ops {
			if tk.Type == op {
				return true
			}
		}
	}
	return false
}

// Append copies other's tokens onto the end of b.
func (b *TokenBlock) Append(other *TokenBlock) {
	b.Tokens = append(b.Tokens, other.Tokens...)
}

func (b *TokenBlock) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[priority=%d, size=%d]: ", b.Priority, len(b.Tokens))
	for i, tk := range b.Tokens {
		if i > 0 {
			sb.WriteByte(' ')
		}
		switch {
		case tk.Type == opLiteral:
			sb.WriteString("(null)")
		case tk.IsSymbol():
			fmt.Fprintf(&sb, "%q", rune(tk.Type))
		default:
			fmt.Fprintf(&sb, "op(%c)", tk.Type)
		}
	}
	return sb.String()
}

// executeNot collapses every '!' token in place, flipping the literal
// or symbol-placeholder effect that immediately follows it and
// dropping the operator token itself.
func (b *TokenBlock) executeNot() error {
	i := 0
	for i < len(b.Tokens) {
		if b.Tokens[i].Type != OpNot {
			i++
			continue
		}
		if i+1 == len(b.Tokens) {
			return xerrors.Invariant("operator ! has no operand")
		}
		rhs := b.Tokens[i+1]
		if rhs.IsSymbol() || rhs.Type == opLiteral {
			b.Tokens[i+1].Effect = !rhs.Effect
			b.Tokens[i+1].Type = opLiteral
			b.Tokens = append(b.Tokens[:i], b.Tokens[i+1:]...)
			if i > 0 {
				i--
			}
			continue
		}
		return xerrors.Invariant("operator ! has no operand")
	}
	return nil
}

// executeBinary collapses every occurrence of the given binary
// operator left-to-right, applying fn to the neighboring operands.
func (b *TokenBlock) executeBinary(op byte, fn func(a, c bool) bool) error {
	i := 0
	for i < len(b.Tokens) {
		if b.Tokens[i].Type != op {
			i++
			continue
		}
		if i == 0 || i+1 == len(b.Tokens) {
			return xerrors.Invariant("operator %c has no operand", op)
		}
		left, right := b.Tokens[i-1], b.Tokens[i+1]
		if (left.IsSymbol() || left.Type == opLiteral) && (right.IsSymbol() || right.Type == opLiteral) {
			b.Tokens[i].Effect = fn(left.Effect, right.Effect)
			b.Tokens[i].Type = opLiteral
			b.Tokens = append(b.Tokens[:i+1], b.Tokens[i+2:]...)
			b.Tokens = append(b.Tokens[:i-1], b.Tokens[i:]...)
			if i > 0 {
				i--
			}
			continue
		}
		return xerrors.Invariant("operator %c has no operand", op)
	}
	return nil
}

// Execute reduces a fully-substituted block (every symbol token
// already carrying a boolean Effect) down to a single boolean,
// applying operators in fixed order: every '!' first, then each
// binary operator kind in a sweep of its own.
func (b *TokenBlock) Execute() (bool, error) {
	if len(b.Tokens) == 0 {
		return false, xerrors.Invariant("cannot execute an empty block")
	}
	if err := b.executeNot(); err != nil {
		return false, err
	}
	if err := b.executeBinary(OpAnd, func(a, c bool) bool { return a && c }); err != nil {
		return false, err
	}
	if err := b.executeBinary(OpOr, func(a, c bool) bool { return a || c }); err != nil {
		return false, err
	}
	if err := b.executeBinary(OpXor, func(a, c bool) bool { return a != c }); err != nil {
		return false, err
	}
	if len(b.Tokens) != 1 {
		return false, xerrors.Invariant("block reduction did not converge")
	}
	return b.Tokens[0].Effect, nil
}

// Expression is a left-to-right sequence of TokenBlocks representing
// one side of a rule (or the whole rule body once flattened). It is
// the slice-of-blocks analogue of a parenthesized expression tree:
// parenthesis nesting is encoded purely by each block's Priority.
type Expression []*TokenBlock

// MaxPriority returns the highest Priority among e's blocks, or 0 for
// an empty expression.
func (e Expression) MaxPriority() uint {
	var max uint
	for _, b := range e {
		if b.Priority > max {
			max = b.Priority
		}
	}
	return max
}

// Clone deep-copies e so that evaluation (which mutates blocks in
// place) never corrupts the stored rule.
func (e Expression) Clone() Expression {
	out := make(Expression, len(e))
	for i, b := range e {
		out[i] = b.WithPriority(b.Priority)
	}
	return out
}

// Render reconstructs e's written form, deriving parentheses from the
// priority deltas between adjacent blocks: "A+(B|C)". Tokens that have
// already been reduced to literals are skipped.
func (e Expression) Render() string {
	var sb strings.Builder
	current := uint(0)
	for _, b := range e {
		for p := current; p < b.Priority; p++ {
			sb.WriteByte('(')
		}
		for p := current; p > b.Priority; p-- {
			sb.WriteByte(')')
		}
		for _, tk := range b.Tokens {
			if tk.Type != opLiteral {
				sb.WriteByte(tk.Type)
			}
		}
		current = b.Priority
	}
	for p := current; p > 0; p-- {
		sb.WriteByte(')')
	}
	return sb.String()
}

// Symbols returns the set of distinct symbols referenced anywhere in
// e, in sorted order.
func (e Expression) Symbols() []Symbol {
	seen := util.NewSymbolSet()
	for _, b := range e {
		for _, tk := range b.Tokens {
			if tk.IsSymbol() {
				seen.Add(byte(tk.Symbol()))
			}
		}
	}
	sorted := seen.Sorted()
	out := make([]Symbol, len(sorted))
	for i, by := range sorted {
		out[i] = Symbol(by)
	}
	return out
}
