package kbfile

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/usercrixus/42expertSystem/internal/logic"
	"github.com/usercrixus/42expertSystem/internal/xerrors"
)

func Test_Read_simpleFile(t *testing.T) {
	assert := assert.New(t)

	input := `
# a simple rule base
A + B => C
C <=> D

= AB
? CD
`
	pf, err := Read(strings.NewReader(input))
	if assert.NoError(err) {
		assert.Len(pf.Rules, 2)
		assert.Equal(map[logic.Symbol]bool{'A': true, 'B': true}, pf.InitialFacts)
		assert.Equal([]logic.Symbol{'C', 'D'}, pf.Queries)
	}
}

func Test_Read_inlineComment(t *testing.T) {
	assert := assert.New(t)

	input := "A => B # B follows from A\n= A\n? B\n"
	pf, err := Read(strings.NewReader(input))
	if assert.NoError(err) {
		assert.Len(pf.Rules, 1)
	}
}

func Test_Read_emptyFactsLineMeansAllFalse(t *testing.T) {
	assert := assert.New(t)

	input := "A => B\n=\n? B\n"
	pf, err := Read(strings.NewReader(input))
	if assert.NoError(err) {
		assert.Empty(pf.InitialFacts)
	}
}

func Test_Read_missingQueriesLineIsSyntaxError(t *testing.T) {
	assert := assert.New(t)

	input := "A => B\n= A\n"
	_, err := Read(strings.NewReader(input))
	if assert.Error(err) {
		assert.True(xerrors.IsSyntax(err))
	}
}

func Test_Read_lowercaseSymbolIsSyntaxError(t *testing.T) {
	assert := assert.New(t)

	input := "a => B\n= A\n? B\n"
	_, err := Read(strings.NewReader(input))
	if assert.Error(err) {
		assert.True(xerrors.IsSyntax(err))
	}
}

func Test_Read_parenthesizedRule(t *testing.T) {
	assert := assert.New(t)

	input := "A + (B | C) => D\n= A\n? D\n"
	pf, err := Read(strings.NewReader(input))
	if assert.NoError(err) {
		if assert.Len(pf.Rules, 1) {
			rule := pf.Rules[0]
			assert.Len(rule.LHS, 2, "parenthesized group should produce two blocks")
			assert.Equal(uint(0), rule.LHS[0].Priority)
			assert.Equal(uint(1), rule.LHS[1].Priority)
		}
	}
}

func Test_Read_unbalancedParenthesesIsSyntaxError(t *testing.T) {
	assert := assert.New(t)

	input := "A + (B => C\n= A\n? C\n"
	_, err := Read(strings.NewReader(input))
	if assert.Error(err) {
		assert.True(xerrors.IsSyntax(err))
	}
}
