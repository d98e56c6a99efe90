package render

import (
	"encoding/hex"
	"fmt"
	"net"

	"github.com/muurk/rdmscope/internal/rdm"
)

// Document is the serializable form of a decode result
type Document struct {
	Source       string  `json:"source" cbor:"1,keyasint"`
	SourceName   string  `json:"source_name,omitempty" cbor:"2,keyasint,omitempty"`
	Destination  string  `json:"destination" cbor:"3,keyasint"`
	DestName     string  `json:"destination_name,omitempty" cbor:"4,keyasint,omitempty"`
	Transaction  uint8   `json:"transaction" cbor:"5,keyasint"`
	CommandClass string  `json:"command_class" cbor:"6,keyasint"`
	ResponseType string  `json:"response_type,omitempty" cbor:"7,keyasint,omitempty"`
	PID          uint16  `json:"pid" cbor:"8,keyasint"`
	Parameter    string  `json:"parameter" cbor:"9,keyasint"`
	Vendor       string  `json:"vendor,omitempty" cbor:"10,keyasint,omitempty"`
	PDL          uint8   `json:"pdl" cbor:"11,keyasint"`
	Checksum     string  `json:"checksum" cbor:"12,keyasint"`
	Fields       []*Node `json:"fields" cbor:"13,keyasint"`
	Error        string  `json:"error,omitempty" cbor:"14,keyasint,omitempty"`
}

// Node is one decoded field
type Node struct {
	Label    string  `json:"label" cbor:"1,keyasint"`
	Offset   int     `json:"offset" cbor:"2,keyasint"`
	Length   int     `json:"length" cbor:"3,keyasint"`
	Value    any     `json:"value,omitempty" cbor:"4,keyasint,omitempty"`
	Display  string  `json:"display,omitempty" cbor:"5,keyasint,omitempty"`
	Children []*Node `json:"children,omitempty" cbor:"6,keyasint,omitempty"`
}

// Options controls what a renderer includes
type Options struct {
	ShowHeader bool               // Include envelope fields, not just parameter data
	Nicknames  map[rdm.UID]string // Device nicknames shown next to UIDs
}

// NewDocument converts a decode result. err is the decode error, if any; the
// partial result is still converted.
func NewDocument(res *rdm.Result, err error, opts Options) *Document {
	doc := &Document{Fields: []*Node{}}
	if err != nil {
		doc.Error = err.Error()
	}
	if res == nil {
		return doc
	}
	if h := res.Header; h != nil {
		doc.Source = h.Source.String()
		doc.SourceName = opts.Nicknames[h.Source]
		doc.Destination = h.Destination.String()
		doc.DestName = opts.Nicknames[h.Destination]
		doc.Transaction = h.Transaction
		doc.CommandClass = h.CommandClass.String()
		if rt, ok := h.Slot.ResponseType(); ok {
			doc.ResponseType = rt.String()
		}
		doc.PID = h.ParameterID
		doc.PDL = h.PDL
	}
	doc.Parameter = res.ParameterName()
	if res.Vendor != nil {
		doc.Vendor = res.Vendor.Name
	}
	doc.Checksum = res.Checksum.Status.String()

	fields := res.Fields
	if !opts.ShowHeader {
		fields = res.ParameterFields()
	}
	for _, f := range fields {
		doc.Fields = append(doc.Fields, newNode(f))
	}
	return doc
}

func newNode(f *rdm.Field) *Node {
	n := &Node{
		Label:  f.Label,
		Offset: f.Offset,
		Length: f.Length,
		Value:  plainValue(f.Value),
	}
	if f.Text != "" {
		n.Display = f.Text
	}
	for _, c := range f.Children {
		n.Children = append(n.Children, newNode(c))
	}
	return n
}

// plainValue maps decoded values onto types every encoder handles the same
func plainValue(v any) any {
	switch x := v.(type) {
	case []byte:
		return hex.EncodeToString(x)
	case rdm.UID:
		return x.String()
	case net.IP:
		return x.String()
	case fmt.Stringer:
		return x.String()
	default:
		return v
	}
}
