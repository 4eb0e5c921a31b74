package xerrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_kinds_areDistinguishable(t *testing.T) {
	assert := assert.New(t)

	testCases := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{name: "usage", err: Usage("missing input file"), check: IsUsage},
		{name: "io", err: IO(errors.New("boom"), "cannot open %s", "rules.es"), check: IsIO},
		{name: "syntax", err: Syntax("lowercase symbol %q", 'a'), check: IsSyntax},
		{name: "invariant", err: Invariant("block reduction did not converge"), check: IsInvariant},
		{name: "contradiction", err: Contradiction("no valid states for the given rules")},
	}
	testCases[4].check = IsContradiction

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.True(tc.check(tc.err))
		})
	}
}

func Test_UserMessage(t *testing.T) {
	assert := assert.New(t)

	err := Usage("missing input file")
	assert.Equal("missing input file", UserMessage(err))

	plain := errors.New("not one of ours")
	assert.Equal("not one of ours", UserMessage(plain))
}

func Test_IO_unwraps(t *testing.T) {
	assert := assert.New(t)

	cause := errors.New("permission denied")
	err := IO(cause, "cannot open rules.es")

	assert.True(errors.Is(err, cause))
}
