// Package expertsystem contains a CLI-driven engine for loading a
// rule file, answering its declared queries, and optionally dropping
// into an interactive "Initial facts = " loop.
package expertsystem

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/dekarrin/rosed"
	"github.com/usercrixus/42expertSystem/internal/config"
	"github.com/usercrixus/42expertSystem/internal/input"
	"github.com/usercrixus/42expertSystem/internal/kbfile"
	"github.com/usercrixus/42expertSystem/internal/logic"
	"github.com/usercrixus/42expertSystem/internal/util"
	"github.com/usercrixus/42expertSystem/internal/xerrors"
)

// noValidStatesWithFacts is printed when the rule base itself is
// satisfiable but the current initial facts rule out every state. It
// is not fatal: one-shot runs exit cleanly without resolving, and the
// interactive loop prompts again.
const noValidStatesWithFacts = "No valid states with the given initial facts."

// factReader is the subset of input.DirectFactReader and
// input.InteractiveFactReader the engine needs.
type factReader interface {
	ReadFacts() (string, error)
	Close() error
}

// Session pairs a fixed KnowledgeBase with resolver state that can be
// pointed at a new set of initial facts without re-deriving any rule:
// SetFacts resets the resolver's memo and traces, but the rules, basic
// rules, and global truth table never change after NewSession.
type Session struct {
	kb       *logic.KnowledgeBase
	resolver *logic.Resolver
}

// NewSession starts a Session over kb using kb's own InitialFacts.
func NewSession(kb *logic.KnowledgeBase) *Session {
	return &Session{kb: kb, resolver: logic.NewResolver(kb)}
}

// SetFacts replaces the session's initial facts and resets resolver
// state so subsequent ResolveAll calls reflect them, without touching
// the KnowledgeBase's rules or basic rules.
func (s *Session) SetFacts(facts map[logic.Symbol]bool) {
	s.kb.InitialFacts = facts
	s.resolver.Reset()
}

// HasValidState reports whether the global truth table still admits a
// valid state under the session's current facts.
func (s *Session) HasValidState() bool {
	return s.kb.Table.FilterByFacts(s.kb.InitialFacts).HasValidState()
}

// ResolveAll answers every declared query against the session's
// current facts.
func (s *Session) ResolveAll() (map[logic.Symbol]logic.TriValue, error) {
	return s.resolver.ResolveQueries()
}

// Reasoning exposes the session's trace collector.
func (s *Session) Reasoning() *logic.Reasoning {
	return s.resolver.Reasoning()
}

// Engine drives one run of expertsystem over an input file: a single
// pass answering every declared query, or an interactive loop that
// re-answers them after each new line of facts.
type Engine struct {
	session     *Session
	in          factReader
	out         *bufio.Writer
	cfg         config.Config
	explain     bool
	interactive bool
}

// New loads inputFile, builds its KnowledgeBase, and wires an Engine
// ready to Run or RunInteractive. If the rule base alone admits no
// valid state, New returns a Contradiction error before any query is
// attempted; initial facts incompatible with the rule base are not an
// error here — Run reports them and resolves nothing.
//
// If nil is given for the output stream, stdout is used. factStream,
// forceDirectInput, and interactive govern how interactive-mode fact
// lines are read; when interactive is false, no fact reader is opened
// at all since RunInteractive will never be called.
func New(inputFile string, factStream io.Reader, outputStream io.Writer, forceDirectInput bool, interactive bool, explain bool, cfg config.Config) (*Engine, error) {
	if outputStream == nil {
		outputStream = os.Stdout
	}

	f, err := os.Open(inputFile)
	if err != nil {
		return nil, xerrors.IO(err, "opening input file %s", inputFile)
	}
	defer f.Close()

	parsed, err := kbfile.Read(f)
	if err != nil {
		return nil, err
	}

	kb, err := logic.NewKnowledgeBase(parsed.Rules, parsed.InitialFacts, parsed.Queries)
	if err != nil {
		return nil, err
	}
	if !kb.Table.HasValidState() {
		return nil, xerrors.Contradiction("No valid states for the given rules.")
	}

	eng := &Engine{
		session:     NewSession(kb),
		out:         bufio.NewWriter(outputStream),
		cfg:         cfg,
		explain:     explain,
		interactive: interactive,
	}
	eng.session.Reasoning().SetEnabled(explain)

	if interactive {
		useReadline := !forceDirectInput && factStream == nil && outputStream == os.Stdout
		if useReadline {
			eng.in, err = input.NewInteractiveReader()
			if err != nil {
				return nil, fmt.Errorf("initializing interactive-mode input reader: %w", err)
			}
		} else {
			if factStream == nil {
				factStream = os.Stdin
			}
			eng.in = input.NewDirectReader(factStream)
		}
	}

	return eng, nil
}

// Close closes any readline-related resources created for interactive
// mode.
func (eng *Engine) Close() error {
	if eng.in == nil {
		return nil
	}
	if err := eng.in.Close(); err != nil {
		return fmt.Errorf("close fact reader: %w", err)
	}
	return nil
}

// Run answers every query declared in the loaded input file once,
// against the facts that file declared, and writes the results. If
// those facts admit no valid state, it reports that and resolves
// nothing; an interactive session can still continue with new facts.
func (eng *Engine) Run() error {
	if !eng.session.HasValidState() {
		msg := noValidStatesWithFacts
		if eng.interactive {
			msg += " Please try again."
		}
		if err := eng.writeLine(msg); err != nil {
			return err
		}
		return eng.flush()
	}
	if err := eng.answerQueries(false); err != nil {
		return err
	}
	return eng.flush()
}

// RunInteractive repeatedly prompts for a new line of initial facts
// and re-answers every declared query against them, until an empty
// line or end of input is read.
func (eng *Engine) RunInteractive() error {
	if eng.in == nil {
		return xerrors.Invariant("engine was not opened with interactive mode enabled")
	}
	if err := eng.writeLine("Interactive mode: enter new initial facts (e.g. AB). Empty line to exit. Space for all false."); err != nil {
		return err
	}
	if err := eng.flush(); err != nil {
		return err
	}
	for {
		line, err := eng.in.ReadFacts()
		if err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("read facts: %w", err)
		}
		if line == "" {
			break
		}

		facts, err := kbfile.ParseFacts(strings.TrimSpace(line))
		if err != nil {
			if werr := eng.writeLine(xerrors.UserMessage(err)); werr != nil {
				return werr
			}
			continue
		}
		eng.session.SetFacts(facts)
		if !eng.session.HasValidState() {
			if werr := eng.writeLine(noValidStatesWithFacts + " Please try again."); werr != nil {
				return werr
			}
			continue
		}
		if err := eng.answerQueries(true); err != nil {
			return err
		}
		if err := eng.flush(); err != nil {
			return err
		}
	}
	return eng.flush()
}

// answerQueries resolves every declared query and writes either the
// plain per-query result lines or, in explain mode, the facts header
// followed by each query's reasoning trace. includeSession tags the
// header with the trace session ID so successive interactive runs can
// be told apart.
func (eng *Engine) answerQueries(includeSession bool) error {
	results, err := eng.session.ResolveAll()
	if err != nil {
		return err
	}

	if !eng.explain {
		for _, q := range eng.session.kb.Queries {
			line := fmt.Sprintf("%s = %s", q, strings.ToLower(results[q].String()))
			if err := eng.writeLine(line); err != nil {
				return err
			}
		}
		return nil
	}

	if err := eng.printFactsHeader(includeSession); err != nil {
		return err
	}
	for _, q := range eng.session.kb.Queries {
		trace := eng.session.Reasoning().FormatTrace(q, results[q], eng.session.kb.Rules)
		if err := eng.writeLine(eng.wrap(strings.TrimRight(trace, "\n"))); err != nil {
			return err
		}
	}
	return nil
}

// printFactsHeader writes the "Initial facts: ..." line that precedes
// explain-mode output.
func (eng *Engine) printFactsHeader(includeSession bool) error {
	syms := make([]string, 0, len(eng.session.kb.InitialFacts))
	for sym, v := range eng.session.kb.InitialFacts {
		if v {
			syms = append(syms, sym.String())
		}
	}
	sort.Strings(syms)
	header := fmt.Sprintf("Initial facts: %s", util.MakeTextList(syms))
	if includeSession {
		header += fmt.Sprintf(" (session %s)", eng.session.Reasoning().SessionID)
	}
	return eng.writeLine(header)
}

// wrap re-wraps any line of s longer than the configured width,
// leaving the line structure of the trace output intact.
func (eng *Engine) wrap(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if len(line) > eng.cfg.WrapWidth {
			lines[i] = rosed.Edit(line).Wrap(eng.cfg.WrapWidth).String()
		}
	}
	return strings.Join(lines, "\n")
}

func (eng *Engine) writeLine(s string) error {
	if _, err := eng.out.WriteString(s + "\n"); err != nil {
		return fmt.Errorf("could not write output: %w", err)
	}
	return nil
}

func (eng *Engine) flush() error {
	if err := eng.out.Flush(); err != nil {
		return fmt.Errorf("could not flush output: %w", err)
	}
	return nil
}
