package expertsystem

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/usercrixus/42expertSystem/internal/config"
	"github.com/usercrixus/42expertSystem/internal/xerrors"
)

const interactiveIntro = "Interactive mode: enter new initial facts (e.g. AB). Empty line to exit. Space for all false.\n"

func writeTempInput(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.es")
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("writing temp input file: %v", err)
	}
	return path
}

func Test_Engine_Run_singleQuery(t *testing.T) {
	assert := assert.New(t)

	path := writeTempInput(t, "A => B\n= A\n? B\n")
	var out bytes.Buffer

	eng, err := New(path, nil, &out, false, false, false, config.Default())
	if !assert.NoError(err) {
		return
	}
	defer eng.Close()

	assert.NoError(eng.Run())
	assert.Equal("B = true\n", out.String())
}

func Test_Engine_Run_explainIncludesFactsHeader(t *testing.T) {
	assert := assert.New(t)

	path := writeTempInput(t, "A => B\n= A\n? B\n")
	var out bytes.Buffer

	eng, err := New(path, nil, &out, false, false, true, config.Default())
	if !assert.NoError(err) {
		return
	}
	defer eng.Close()

	assert.NoError(eng.Run())
	assert.True(strings.HasPrefix(out.String(), "Initial facts: A\n"))
	assert.Contains(out.String(), "=== Reasoning for B ===")
	assert.Contains(out.String(), "B is true")
}

func Test_Engine_Run_disjunctionTightenedByTable(t *testing.T) {
	assert := assert.New(t)

	// A => B | C alone leaves both branches open, but A => !B rules B
	// out, so the truth table forces C.
	path := writeTempInput(t, "A => B | C\nA => !B\n= A\n? B C\n")
	var out bytes.Buffer

	eng, err := New(path, nil, &out, false, false, false, config.Default())
	if !assert.NoError(err) {
		return
	}
	defer eng.Close()

	assert.NoError(eng.Run())
	assert.Equal("B = false\nC = true\n", out.String())
}

func Test_Engine_New_contradictoryRuleBaseRejected(t *testing.T) {
	assert := assert.New(t)

	// !A => A and A => !A admit no assignment at all.
	path := writeTempInput(t, "!A => A\nA => !A\n=\n? A\n")
	var out bytes.Buffer

	_, err := New(path, nil, &out, false, false, false, config.Default())
	if assert.Error(err) {
		assert.True(xerrors.IsContradiction(err))
		assert.Equal("No valid states for the given rules.", xerrors.UserMessage(err))
	}
}

func Test_Engine_Run_incompatibleFactsIsNotFatal(t *testing.T) {
	assert := assert.New(t)

	// The rule base is satisfiable (with A false), but declaring A true
	// collapses it. That is reported, not treated as an error.
	path := writeTempInput(t, "A => B\nA => !B\n= A\n? B\n")
	var out bytes.Buffer

	eng, err := New(path, nil, &out, false, false, false, config.Default())
	if !assert.NoError(err) {
		return
	}
	defer eng.Close()

	assert.NoError(eng.Run())
	assert.Equal("No valid states with the given initial facts.\n", out.String())
}

func Test_Engine_RunInteractive_reAnswersPerFactLine(t *testing.T) {
	assert := assert.New(t)

	path := writeTempInput(t, "A => B\n=\n? B\n")
	var out bytes.Buffer
	facts := strings.NewReader("A\n\n")

	eng, err := New(path, facts, &out, true, true, false, config.Default())
	if !assert.NoError(err) {
		return
	}
	defer eng.Close()

	assert.NoError(eng.RunInteractive())
	assert.Equal(interactiveIntro+"B = true\n", out.String())
}

func Test_Engine_RunInteractive_allFalseLine(t *testing.T) {
	assert := assert.New(t)

	path := writeTempInput(t, "A => B\n= A\n? B\n")
	var out bytes.Buffer
	facts := strings.NewReader(" \n")

	eng, err := New(path, facts, &out, true, true, false, config.Default())
	if !assert.NoError(err) {
		return
	}
	defer eng.Close()

	// a lone space declares every fact false, so nothing proves B
	assert.NoError(eng.RunInteractive())
	assert.Equal(interactiveIntro+"B = false\n", out.String())
}

func Test_Engine_RunInteractive_incompatibleFactsPromptsAgain(t *testing.T) {
	assert := assert.New(t)

	path := writeTempInput(t, "A => B\nA => !B\n=\n? B\n")
	var out bytes.Buffer
	facts := strings.NewReader("A\nB\n\n")

	eng, err := New(path, facts, &out, true, true, false, config.Default())
	if !assert.NoError(err) {
		return
	}
	defer eng.Close()

	// declaring A collapses the table; the loop reports it and keeps
	// reading, so the B line still gets answered.
	assert.NoError(eng.RunInteractive())
	assert.Equal(interactiveIntro+
		"No valid states with the given initial facts. Please try again.\n"+
		"B = true\n", out.String())
}

func Test_Engine_RunInteractive_blankLineExits(t *testing.T) {
	assert := assert.New(t)

	path := writeTempInput(t, "A => B\n=\n? B\n")
	var out bytes.Buffer
	facts := strings.NewReader("\n")

	eng, err := New(path, facts, &out, true, true, false, config.Default())
	if !assert.NoError(err) {
		return
	}
	defer eng.Close()

	assert.NoError(eng.RunInteractive())
	assert.Equal(interactiveIntro, out.String())
}

func Test_Engine_RunInteractive_requiresInteractiveMode(t *testing.T) {
	assert := assert.New(t)

	path := writeTempInput(t, "A => B\n= A\n? B\n")
	var out bytes.Buffer

	eng, err := New(path, nil, &out, false, false, false, config.Default())
	if !assert.NoError(err) {
		return
	}
	defer eng.Close()

	err = eng.RunInteractive()
	if assert.Error(err) {
		assert.True(xerrors.IsInvariant(err))
	}
}
