// Package session turns a stream of script output lines into a structured
// action log. A Session owns the per-run state: line counter, masks, the open
// group and card, and the Console that observers render from.
//
// A Session is fed by a single goroutine. Lines must arrive in the order the
// script produced them; command effects are order-dependent. The Console may
// be read concurrently.
package session

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/sonnes/actionlog/command"
	"github.com/sonnes/actionlog/core"
	"github.com/sonnes/actionlog/reader"
	"github.com/sonnes/actionlog/redact"
)

// Filter rewrites rendered text after masks are applied.
type Filter interface {
	Redact(s string) string
}

// Config controls how a Session recognizes and renders lines.
type Config struct {
	// Formats are tried in order for every line. Defaults to V2 only.
	Formats []command.Format
	// Commands is the registered command set. Defaults to every command
	// with a handler; names without one are ignored.
	Commands []string
	// Masks are registered before the first line, as if by add-mask.
	Masks []string
	// Redactor, when set, runs on all rendered text after masks.
	Redactor Filter
	// StripANSI removes terminal escape sequences from plain lines.
	StripANSI bool
	// Log receives every input line, masked and redacted, as it is
	// processed.
	Log io.Writer
}

// Outcome describes what processing one line did.
type Outcome struct {
	// Command is the recognized command name, empty for plain text.
	Command string
	// LineAdded is false when the line produced no new visible line, e.g. a
	// replace-self that updated an existing block in place.
	LineAdded bool
}

// Session is the line processor for one action or install run.
type Session struct {
	cfg        Config
	registered command.Set
	handlers   map[string]handler

	console    *core.Console
	masks      redact.Masks
	rawMasks   redact.Masks // masks plus their wire-escaped forms
	lineNumber int
	group      *core.Block
	card       *core.Block
	logs       []string
}

// New creates a Session from cfg.
func New(cfg Config) *Session {
	if len(cfg.Formats) == 0 {
		cfg.Formats = []command.Format{command.V2}
	}
	if len(cfg.Commands) == 0 {
		cfg.Commands = command.Names()
	}

	s := &Session{
		cfg:        cfg,
		registered: command.NewSet(),
		handlers:   make(map[string]handler),
		console:    core.NewConsole(),
		lineNumber: 1,
	}
	for _, name := range cfg.Commands {
		h, ok := dispatch[name]
		if !ok {
			log.Warn("ignoring command without handler", "command", name)
			continue
		}
		s.registered[name] = struct{}{}
		s.handlers[name] = h
	}
	for _, m := range cfg.Masks {
		s.addMask(m, "")
	}
	return s
}

// addMask registers value for rendered text, and for raw input lines in
// every escaped form a producer may have written it in.
func (s *Session) addMask(value, char string) {
	s.masks.Add(value, char)
	s.rawMasks.Add(value, char)
	seen := map[string]bool{value: true}
	for _, a := range []command.Alphabet{command.TokenAlphabet, command.DataAlphabet, command.PropertyAlphabet} {
		if enc := a.Encode(value); !seen[enc] {
			seen[enc] = true
			s.rawMasks.Add(enc, char)
		}
	}
}

// ProcessLine consumes one physical input line.
func (s *Session) ProcessLine(line string) Outcome {
	defer s.finishLine(line)

	if c, ok := s.parse(line); ok {
		return Outcome{Command: c.Name, LineAdded: s.handlers[c.Name](s, c)}
	}

	s.appendText(line)
	return Outcome{LineAdded: true}
}

// Run feeds every line from src into the session until src is exhausted or
// ctx is cancelled.
func (s *Session) Run(ctx context.Context, src reader.Source) error {
	return src.Read(ctx, func(line string) error {
		s.ProcessLine(line)
		return nil
	})
}

func (s *Session) parse(line string) (command.Command, bool) {
	for _, f := range s.cfg.Formats {
		if r := command.Parse(f, line, s.registered); r.Matched {
			return r.Command, true
		}
	}
	return command.Command{}, false
}

// appendText folds a plain line into the open group, else the open card,
// else appends it as a new text block.
func (s *Session) appendText(line string) {
	if s.cfg.StripANSI {
		line = core.StripANSI(line)
	}
	text := s.render(line)

	switch {
	case s.group != nil:
		s.group.AddLine(s.lineNumber, text)
	case s.card != nil:
		s.card.AddLine(s.lineNumber, text)
	default:
		s.console.Append(core.NewTextBlock(s.lineNumber, text, ""))
	}
}

// render normalizes newlines and hides masked and redacted content.
func (s *Session) render(text string) string {
	text = s.masks.Apply(core.FixNewLines(text))
	if s.cfg.Redactor != nil {
		text = s.cfg.Redactor.Redact(text)
	}
	return text
}

// Mask applies the registered masks and the redactor to text that did not
// pass through the session, such as the script source.
func (s *Session) Mask(text string) string {
	if text == "" {
		return ""
	}
	return s.render(text)
}

func (s *Session) finishLine(line string) {
	masked := s.rawMasks.Apply(line)
	if s.cfg.Redactor != nil {
		masked = s.cfg.Redactor.Redact(masked)
	}
	s.logs = append(s.logs, masked)
	if s.cfg.Log != nil {
		if _, err := io.WriteString(s.cfg.Log, masked+"\n"); err != nil {
			log.Debug("write raw log", "error", err)
		}
	}
	s.lineNumber++
}

// Console returns the live document.
func (s *Session) Console() *core.Console {
	return s.console
}

// LineNumber returns the number the next input line will get.
func (s *Session) LineNumber() int {
	return s.lineNumber
}

// Masks returns the registered masks in order.
func (s *Session) Masks() []string {
	return s.masks.Values()
}

// OpenGroup returns a copy of the group awaiting endgroup, if any.
func (s *Session) OpenGroup() (core.Block, bool) {
	if s.group == nil {
		return core.Block{}, false
	}
	return s.group.Clone(), true
}

// OpenCard returns a copy of the card awaiting endcard, if any.
func (s *Session) OpenCard() (core.Block, bool) {
	if s.card == nil {
		return core.Block{}, false
	}
	return s.card.Clone(), true
}

// Logs returns every input line seen so far, with masks (also in their
// escaped wire forms) and the Redactor applied.
func (s *Session) Logs() []string {
	out := make([]string, len(s.logs))
	copy(out, s.logs)
	return out
}

// RawLog joins Logs with newlines, the format used for exported log files.
func (s *Session) RawLog() string {
	return strings.Join(s.logs, "\n")
}

// Reset clears the document and all per-run state.
func (s *Session) Reset() {
	s.console.Clear()
	s.masks.Reset()
	s.rawMasks.Reset()
	for _, m := range s.cfg.Masks {
		s.addMask(m, "")
	}
	s.group = nil
	s.card = nil
	s.logs = nil
	s.lineNumber = 1
}

// Fill copies the current console into d along with line and alert counts.
// Unclosed groups and cards are not part of the document.
func (s *Session) Fill(d *core.Document) {
	d.Blocks, _ = s.console.Snapshot()
	d.Lines = s.lineNumber - 1
	d.Stats = core.ComputeStats(d.Blocks)

	formats := make([]string, len(s.cfg.Formats))
	for i, f := range s.cfg.Formats {
		formats[i] = f.String()
	}
	d.Format = strings.Join(formats, ",")
}
