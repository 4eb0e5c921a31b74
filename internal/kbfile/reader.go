package kbfile

import (
	"bufio"
	"io"
	"strings"

	"github.com/usercrixus/42expertSystem/internal/logic"
	"github.com/usercrixus/42expertSystem/internal/xerrors"
)

// ParsedFile holds everything read out of an input file before it is
// normalized into a KnowledgeBase: the raw logic rules in file order,
// the declared initial facts, and the declared queries.
type ParsedFile struct {
	Rules        []logic.LogicRule
	InitialFacts map[logic.Symbol]bool
	Queries      []logic.Symbol
}

// Read parses r line by line into a ParsedFile. '#' starts a comment
// running to the end of the line (inline or whole-line); blank lines
// are skipped. A line beginning with '=' declares the initial facts
// (a bare '=' with nothing after it means every symbol defaults to
// false); a line beginning with '?' declares the queries; every other
// non-blank line is a logic line joined by "=>" or "<=>".
func Read(r io.Reader) (*ParsedFile, error) {
	pf := &ParsedFile{InitialFacts: map[logic.Symbol]bool{}}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	sawFacts, sawQueries := false, false

	for scanner.Scan() {
		lineNo++
		line := stripComment(scanner.Text())
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch {
		case line[0] == '=':
			if sawFacts {
				return nil, xerrors.Syntax("line %d: more than one initial-facts line", lineNo)
			}
			sawFacts = true
			if err := parseFacts(line[1:], pf.InitialFacts); err != nil {
				return nil, annotate(err, lineNo)
			}
		case line[0] == '?':
			if sawQueries {
				return nil, xerrors.Syntax("line %d: more than one queries line", lineNo)
			}
			sawQueries = true
			queries, err := parseSymbolRun(line[1:])
			if err != nil {
				return nil, annotate(err, lineNo)
			}
			pf.Queries = queries
		default:
			rule, err := parseLogicLine(line)
			if err != nil {
				return nil, annotate(err, lineNo)
			}
			pf.Rules = append(pf.Rules, rule)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, xerrors.IO(err, "reading input file")
	}
	if !sawQueries {
		return nil, xerrors.Syntax("input file has no queries ('?') line")
	}
	return pf, nil
}

func stripComment(line string) string {
	if idx := strings.IndexByte(line, '#'); idx >= 0 {
		return line[:idx]
	}
	return line
}

func parseLogicLine(line string) (logic.LogicRule, error) {
	lhsText, rhsText, equivalence, err := splitArrow(line)
	if err != nil {
		return logic.LogicRule{}, err
	}
	lhs, err := parseSide(lhsText)
	if err != nil {
		return logic.LogicRule{}, err
	}
	rhs, err := parseSide(rhsText)
	if err != nil {
		return logic.LogicRule{}, err
	}
	return logic.LogicRule{LHS: lhs, RHS: rhs, Equivalence: equivalence}, nil
}

func parseFacts(text string, out map[logic.Symbol]bool) error {
	syms, err := parseSymbolRun(text)
	if err != nil {
		return err
	}
	for _, s := range syms {
		out[s] = true
	}
	return nil
}

// ParseFacts parses a line of the same form as an input file's "="
// line (a whitespace-free run of letters, each naming a symbol that is
// true; anything else left unmentioned is not asserted) into a fresh
// facts map. It is exported for the interactive prompt, which accepts
// one such line per iteration.
func ParseFacts(text string) (map[logic.Symbol]bool, error) {
	out := map[logic.Symbol]bool{}
	if err := parseFacts(text, out); err != nil {
		return nil, err
	}
	return out, nil
}

func parseSymbolRun(text string) ([]logic.Symbol, error) {
	var out []logic.Symbol
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c == ' ' || c == '\t':
			continue
		case c >= 'a' && c <= 'z':
			return nil, xerrors.Syntax("lowercase symbol %q (symbols must be A-Z)", c)
		default:
			sym, err := logic.ParseSymbol(rune(c))
			if err != nil {
				return nil, xerrors.Syntax("unrecognized character %q", c)
			}
			out = append(out, sym)
		}
	}
	return out, nil
}

func annotate(err error, lineNo int) error {
	if xerrors.IsSyntax(err) {
		return xerrors.Syntax("line %d: %s", lineNo, err.Error())
	}
	return err
}
