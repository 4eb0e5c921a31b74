package kbfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/usercrixus/42expertSystem/internal/logic"
)

func Test_splitArrow(t *testing.T) {
	testCases := []struct {
		name              string
		line              string
		expectLHS         string
		expectRHS         string
		expectEquivalence bool
	}{
		{name: "implication", line: "A=>B", expectLHS: "A", expectRHS: "B"},
		{name: "equivalence", line: "A<=>B", expectLHS: "A", expectRHS: "B", expectEquivalence: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			lhs, rhs, eq, err := splitArrow(tc.line)
			if assert.NoError(err) {
				assert.Equal(tc.expectLHS, lhs)
				assert.Equal(tc.expectRHS, rhs)
				assert.Equal(tc.expectEquivalence, eq)
			}
		})
	}
}

func Test_parseSide_negation(t *testing.T) {
	assert := assert.New(t)

	expr, err := parseSide("!A + B")
	if assert.NoError(err) {
		if assert.Len(expr, 1) {
			assert.Equal(logic.OpNot, expr[0].Tokens[0].Type)
			assert.Equal(byte('A'), expr[0].Tokens[1].Type)
			assert.Equal(logic.OpAnd, expr[0].Tokens[2].Type)
			assert.Equal(byte('B'), expr[0].Tokens[3].Type)
		}
	}
}

func Test_parseSide_rejectsUnmatchedClose(t *testing.T) {
	assert := assert.New(t)

	_, err := parseSide("A)")
	assert.Error(err)
}
