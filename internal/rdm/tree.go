package rdm

import (
	"encoding/hex"
	"fmt"
	"net"
)

// Field is one decoded record. Fields are never modified once the decode
// that produced them returns.
type Field struct {
	Label    string
	Offset   int
	Length   int
	Value    any    // uint64, int64, bool, string, []byte, UID, net.IP or nil for groups
	Text     string // Display text; empty means format Value
	Children []*Field
}

// Display returns the text shown for the field
func (f *Field) Display() string {
	if f.Text != "" {
		return f.Text
	}
	switch v := f.Value.(type) {
	case nil:
		return ""
	case []byte:
		return hex.EncodeToString(v)
	case string:
		return fmt.Sprintf("%q", v)
	case uint64:
		return fmt.Sprintf("%d (0x%0*x)", v, f.Length*2, v)
	case net.IP:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// String returns "label: display"
func (f *Field) String() string {
	if d := f.Display(); d != "" {
		return f.Label + ": " + d
	}
	return f.Label
}

// Tree accumulates fields in the order they are decoded. Groups nest the
// fields appended between Group and End.
type Tree struct {
	roots []*Field
	stack []*Field
	last  *Field
}

// Append adds a leaf field at the current nesting level
func (t *Tree) Append(label string, offset, length int, value any) *Field {
	f := &Field{Label: label, Offset: offset, Length: length, Value: value}
	t.add(f)
	return f
}

// Group opens a nested record starting at offset. Fields appended until the
// matching End become its children.
func (t *Tree) Group(label string, offset int) *Field {
	f := &Field{Label: label, Offset: offset}
	t.add(f)
	t.stack = append(t.stack, f)
	return f
}

// End closes the innermost group at the given end offset
func (t *Tree) End(end int) {
	if len(t.stack) == 0 {
		return
	}
	g := t.stack[len(t.stack)-1]
	t.stack = t.stack[:len(t.stack)-1]
	if end > g.Offset {
		g.Length = end - g.Offset
	}
}

func (t *Tree) add(f *Field) {
	t.last = f
	if n := len(t.stack); n > 0 {
		parent := t.stack[n-1]
		parent.Children = append(parent.Children, f)
		return
	}
	t.roots = append(t.roots, f)
}

// Fields returns the top-level fields
func (t *Tree) Fields() []*Field {
	return t.roots
}

// Walk visits fields depth-first in insertion order. Returning false from fn
// skips the children of that field.
func Walk(fields []*Field, fn func(depth int, f *Field) bool) {
	walk(fields, 0, fn)
}

func walk(fields []*Field, depth int, fn func(int, *Field) bool) {
	for _, f := range fields {
		if fn(depth, f) && len(f.Children) > 0 {
			walk(f.Children, depth+1, fn)
		}
	}
}

// Find returns the first field with the given label, searching depth-first
func Find(fields []*Field, label string) *Field {
	var found *Field
	Walk(fields, func(_ int, f *Field) bool {
		if found != nil {
			return false
		}
		if f.Label == label {
			found = f
			return false
		}
		return true
	})
	return found
}
