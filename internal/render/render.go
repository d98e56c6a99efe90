package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fxamacker/cbor/v2"

	"github.com/muurk/rdmscope/internal/rdm"
)

// Renderer writes one decode result
type Renderer interface {
	Render(w io.Writer, res *rdm.Result, err error) error
}

// Formats accepted by New
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatCBOR = "cbor"
)

// New returns the renderer for a format name
func New(format string, opts Options) (Renderer, error) {
	switch strings.ToLower(format) {
	case "", FormatText:
		return &Text{Options: opts, Styles: DefaultStyles()}, nil
	case FormatJSON:
		return &JSON{Options: opts}, nil
	case FormatCBOR:
		return &CBOR{Options: opts}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q (expected text, json or cbor)", format)
	}
}

// Styles used by the text renderer
type Styles struct {
	Title  lipgloss.Style
	Offset lipgloss.Style
	Label  lipgloss.Style
	Value  lipgloss.Style
	Error  lipgloss.Style
	Good   lipgloss.Style
	Bad    lipgloss.Style
}

// DefaultStyles returns the colored palette
func DefaultStyles() Styles {
	return Styles{
		Title:  lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4")).Bold(true),
		Offset: lipgloss.NewStyle().Foreground(lipgloss.Color("#626262")),
		Label:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")),
		Value:  lipgloss.NewStyle().Foreground(lipgloss.Color("#43BF6D")),
		Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5555")).Bold(true),
		Good:   lipgloss.NewStyle().Foreground(lipgloss.Color("#43BF6D")),
		Bad:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500")),
	}
}

// PlainStyles returns styles that render text unchanged
func PlainStyles() Styles {
	s := lipgloss.NewStyle()
	return Styles{Title: s, Offset: s, Label: s, Value: s, Error: s, Good: s, Bad: s}
}

// Text renders an indented field tree with byte offsets
type Text struct {
	Options Options
	Styles  Styles
}

// Render implements Renderer
func (t *Text) Render(w io.Writer, res *rdm.Result, err error) error {
	var b strings.Builder
	b.WriteString(t.Styles.Title.Render(Title(res)))
	b.WriteByte('\n')
	for _, l := range Lines(res, t.Options) {
		b.WriteString(t.FormatLine(l))
		b.WriteByte('\n')
	}
	if err != nil {
		b.WriteString(t.Styles.Error.Render("error: " + err.Error()))
		b.WriteByte('\n')
	}
	_, werr := io.WriteString(w, b.String())
	return werr
}

// FormatLine renders one line as "[off+len] label: value"
func (t *Text) FormatLine(l Line) string {
	off := t.Styles.Offset.Render(fmt.Sprintf("[%03d+%d]", l.Offset, l.Length))
	indent := strings.Repeat("  ", l.Depth+1)
	label := t.Styles.Label.Render(l.Label)
	if l.Value == "" {
		return off + indent + label
	}
	value := t.Styles.Value.Render(l.Value)
	if l.Label == "Checksum" {
		if strings.Contains(l.Value, "[correct]") {
			value = t.Styles.Good.Render(l.Value)
		} else {
			value = t.Styles.Bad.Render(l.Value)
		}
	}
	return off + indent + label + ": " + value
}

// JSON renders one document per line
type JSON struct {
	Options Options
	Indent  bool
}

// Render implements Renderer
func (j *JSON) Render(w io.Writer, res *rdm.Result, err error) error {
	enc := json.NewEncoder(w)
	if j.Indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(NewDocument(res, err, j.Options))
}

// cborEncMode is deterministic so identical decodes produce identical bytes
var cborEncMode cbor.EncMode

func init() {
	var err error
	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
	}
	cborEncMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create CBOR encoder mode: %v", err))
	}
}

// CBOR renders a sequence of CBOR documents with integer keys
type CBOR struct {
	Options Options
}

// Render implements Renderer
func (c *CBOR) Render(w io.Writer, res *rdm.Result, err error) error {
	return cborEncMode.NewEncoder(w).Encode(NewDocument(res, err, c.Options))
}

// MarshalCBOR encodes a document with the deterministic encoder mode
func MarshalCBOR(doc *Document) ([]byte, error) {
	return cborEncMode.Marshal(doc)
}

// UnmarshalCBOR decodes a document written by the CBOR renderer
func UnmarshalCBOR(data []byte) (*Document, error) {
	var doc Document
	if err := cbor.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode CBOR document: %w", err)
	}
	return &doc, nil
}
