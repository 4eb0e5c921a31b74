package logic

import "github.com/usercrixus/42expertSystem/internal/xerrors"

// Resolve reduces an Expression to a single boolean by repeatedly
// picking the highest-priority block still present, executing it down
// to one literal token, and splicing that literal into an adjacent
// block — exactly the way parentheses collapse inward-out when read
// left to right. Expression must have every symbol token already
// carrying its substituted Effect value; Resolve mutates its argument,
// so callers operating on a stored rule must Clone first.
func (e Expression) Resolve() (bool, error) {
	blocks := []*TokenBlock(e)
	if len(blocks) == 0 {
		return false, xerrors.Invariant("cannot resolve an empty expression")
	}
	for {
		priority := maxBlockPriority(blocks)
		for i := 0; i < len(blocks); {
			if blocks[i].Priority != priority {
				i++
				continue
			}
			if _, err := blocks[i].Execute(); err != nil {
				return false, err
			}
			if i != 0 {
				blocks[i-1].Push(blocks[i].Tokens[0])
				blocks = append(blocks[:i], blocks[i+1:]...)
				continue
			}
			if len(blocks) > 1 {
				tk := blocks[0].Tokens[0]
				blocks[1].Tokens = append([]TokenEffect{tk}, blocks[1].Tokens...)
				blocks = blocks[1:]
				continue
			}
			blocks[i].Priority = 0
			i++
		}
		if len(blocks) == 1 {
			if len(blocks[0].Tokens) > 1 {
				if _, err := blocks[0].Execute(); err != nil {
					return false, err
				}
			}
			return blocks[0].Tokens[0].Effect, nil
		}
	}
}

func maxBlockPriority(blocks []*TokenBlock) uint {
	var max uint
	for _, b := range blocks {
		if b.Priority > max {
			max = b.Priority
		}
	}
	return max
}

// Substitute assigns each symbol token in e its value from state,
// defaulting to false for any symbol absent from state. Returns a new,
// independent Expression safe to Resolve without mutating e.
func (e Expression) Substitute(state map[Symbol]bool) Expression {
	out := e.Clone()
	for _, b := range out {
		for i, tk := range b.Tokens {
			if tk.IsSymbol() {
				b.Tokens[i].Effect = state[tk.Symbol()]
			}
		}
	}
	return out
}

// Evaluate substitutes state into e and resolves it to a boolean.
func (e Expression) Evaluate(state map[Symbol]bool) (bool, error) {
	return e.Substitute(state).Resolve()
}
