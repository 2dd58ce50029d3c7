package core

import "slices"

// BlockType enumerates renderable block kinds.
type BlockType string

const (
	BlockText  BlockType = "text"
	BlockGroup BlockType = "group"
	BlockCard  BlockType = "card"
	BlockAlert BlockType = "alert"
)

// AlertType is the severity of an alert block.
type AlertType string

const (
	AlertNotice  AlertType = "notice"
	AlertWarning AlertType = "warning"
	AlertError   AlertType = "error"
)

// Label returns the default heading for an alert with no title.
func (a AlertType) Label() string {
	switch a {
	case AlertNotice:
		return "Notice"
	case AlertWarning:
		return "Warning"
	case AlertError:
		return "Error"
	default:
		return string(a)
	}
}

// Line is one physical input line folded into a block.
type Line struct {
	Number int    `json:"number"`
	Text   string `json:"text"`
}

// Block is one unit of the rendered document. The Type field determines
// which other fields are populated.
type Block struct {
	Type       BlockType `json:"type"`
	LineNumber int       `json:"line_number,omitempty"` // set for "text" and "alert"
	Text       string    `json:"text,omitempty"`        // set for "text" and "alert"
	Key        string    `json:"key,omitempty"`         // optional, "text" only
	Alert      AlertType `json:"alert,omitempty"`       // set for "alert"
	Title      string    `json:"title,omitempty"`       // optional, "group" and "alert"
	StartLine  int       `json:"start_line,omitempty"`  // set for "group"
	Expanded   bool      `json:"expanded,omitempty"`    // "group" initial state
	Lines      []Line    `json:"lines,omitempty"`       // lines folded into a group or card
}

// NewTextBlock returns a text block created at line n.
func NewTextBlock(n int, text, key string) Block {
	return Block{Type: BlockText, LineNumber: n, Text: text, Key: key}
}

// NewAlertBlock returns an alert block created at line n.
func NewAlertBlock(n int, typ AlertType, title, text string) Block {
	return Block{Type: BlockAlert, LineNumber: n, Alert: typ, Title: title, Text: text}
}

// NewGroupBlock returns an open, collapsed group starting at line n.
func NewGroupBlock(n int, title string) *Block {
	return &Block{Type: BlockGroup, StartLine: n, Title: title}
}

// NewCardBlock returns an empty open card.
func NewCardBlock() *Block {
	return &Block{Type: BlockCard}
}

// AddLine folds an input line into b. Numbers arrive in order.
func (b *Block) AddLine(n int, text string) {
	b.Lines = append(b.Lines, Line{Number: n, Text: text})
}

// Equal reports value equality, including folded lines.
func (b Block) Equal(o Block) bool {
	return b.Type == o.Type &&
		b.LineNumber == o.LineNumber &&
		b.Text == o.Text &&
		b.Key == o.Key &&
		b.Alert == o.Alert &&
		b.Title == o.Title &&
		b.StartLine == o.StartLine &&
		b.Expanded == o.Expanded &&
		slices.Equal(b.Lines, o.Lines)
}

// Clone returns a copy of b that shares no line storage with it.
func (b Block) Clone() Block {
	b.Lines = slices.Clone(b.Lines)
	return b
}
