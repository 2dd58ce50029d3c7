package session

import (
	"strings"

	"github.com/charmbracelet/log"
	"github.com/sonnes/actionlog/command"
	"github.com/sonnes/actionlog/core"
	"github.com/sonnes/actionlog/redact"
)

// handler applies one command to the session and reports whether a new
// visible line was added.
type handler func(s *Session, c command.Command) bool

var dispatch = map[string]handler{
	command.AddMask:     addMask,
	command.Notice:      alert(core.AlertNotice),
	command.Warning:     alert(core.AlertWarning),
	command.Error:       alert(core.AlertError),
	command.Card:        openCard,
	command.EndCard:     closeCard,
	command.Group:       openGroup,
	command.EndGroup:    closeGroup,
	command.SetLines:    setLines,
	command.ReplaceSelf: replaceSelf,
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func addMask(s *Session, c command.Command) bool {
	added := false
	char, ok := c.Prop("char")
	if ok && !redact.ValidMaskChar(char) {
		s.console.Append(core.NewAlertBlock(
			s.lineNumber,
			core.AlertError,
			"Mask Error",
			"Can't use a mask character that has a length of more or less than one characters.",
		))
		char = redact.DefaultMaskChar
		added = true
	}
	if !blank(c.Data) {
		s.addMask(c.Data, char)
	}
	return added
}

func alert(typ core.AlertType) handler {
	return func(s *Session, c command.Command) bool {
		if blank(c.Data) {
			return false
		}
		title, _ := c.Prop("title")
		s.console.Append(core.NewAlertBlock(s.lineNumber, typ, s.render(title), s.render(c.Data)))
		return true
	}
}

func openCard(s *Session, _ command.Command) bool {
	if s.card != nil {
		log.Debug("discarding unclosed card", "lines", len(s.card.Lines))
	}
	s.card = core.NewCardBlock()
	return false
}

func closeCard(s *Session, _ command.Command) bool {
	card := s.card
	s.card = nil
	if card == nil {
		return false
	}
	s.console.Append(*card)
	return true
}

// openGroup takes its title from the data payload, falling back to the
// title property.
func openGroup(s *Session, c command.Command) bool {
	if s.group != nil {
		log.Debug("discarding unclosed group", "title", s.group.Title, "lines", len(s.group.Lines))
	}
	title := c.Data
	if blank(title) {
		title, _ = c.Prop("title")
	}
	s.group = core.NewGroupBlock(s.lineNumber, s.render(title))
	return false
}

func closeGroup(s *Session, _ command.Command) bool {
	group := s.group
	s.group = nil
	if group == nil {
		return false
	}
	s.console.Append(*group)
	return true
}

// setLines is accepted so producers can emit it, but line numbers are a
// renderer preference and the command has no effect.
func setLines(_ *Session, c command.Command) bool {
	if enabled, ok := c.BoolProp("enabled"); ok {
		log.Debug("set-lines ignored", "enabled", enabled)
	}
	return false
}

// replaceSelf updates the text block carrying the same key in place, or
// appends one if the key is new. Progress counters use it to avoid growing
// the document on every tick.
func replaceSelf(s *Session, c command.Command) bool {
	key, _ := c.Prop("key")
	if blank(key) || blank(c.Data) {
		return false
	}
	text := s.render(c.Data)

	i, old, found := s.console.FindKey(key)
	if !found {
		s.console.Append(core.NewTextBlock(s.lineNumber, text, key))
		return true
	}

	updated := core.NewTextBlock(old.LineNumber, text, key)
	if !old.Equal(updated) {
		s.console.Replace(i, updated)
	}
	return false
}
