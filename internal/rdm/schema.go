package rdm

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"net"
	"sort"
)

// Kind selects how a FieldSpec consumes parameter bytes
type Kind uint8

const (
	KindUint   Kind = iota // Unsigned big-endian integer of Size bytes
	KindInt                // Signed big-endian integer of Size bytes
	KindBool               // One byte, non-zero is true
	KindASCII              // ASCII string of Size bytes
	KindBytes              // Opaque bytes of Size bytes
	KindUID                // 6-byte device address
	KindIPv4               // 4-byte IPv4 address
	KindTail               // ASCII string of the bytes left for the parameter
	KindRest               // Opaque bytes left for the parameter
	KindRepeat             // Fixed-size record repeated while it fits
	KindWhen               // Sub-fields present only for listed exact PDLs
)

var kindNames = map[Kind]string{
	KindUint:   "uint",
	KindInt:    "int",
	KindBool:   "bool",
	KindASCII:  "ascii",
	KindBytes:  "bytes",
	KindUID:    "uid",
	KindIPv4:   "ipv4",
	KindTail:   "tail",
	KindRest:   "rest",
	KindRepeat: "repeat",
	KindWhen:   "when",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// ParseKind maps a kind name back to its value
func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name == s {
			return k, true
		}
	}
	return 0, false
}

// FieldSpec describes one field of a parameter layout
type FieldSpec struct {
	Label   string
	Kind    Kind
	Size    int         // Fixed kinds only
	Names   Names       // Optional value names for KindUint
	Fields  []FieldSpec // Record of KindRepeat, body of KindWhen
	Lengths []int       // Exact PDLs that enable a KindWhen body
}

// fixedSize returns the bytes a spec always consumes. Length-derived kinds
// count as zero.
func (s FieldSpec) fixedSize() int {
	switch s.Kind {
	case KindUID:
		return UIDSize
	case KindIPv4:
		return 4
	case KindBool:
		return 1
	case KindTail, KindRest, KindRepeat, KindWhen:
		return 0
	default:
		return s.Size
	}
}

// Layout is the ordered field list for one command class
type Layout []FieldSpec

// Size returns the fixed byte size of the layout
func (l Layout) Size() int {
	n := 0
	for _, s := range l {
		n += s.fixedSize()
	}
	return n
}

// Validate checks that every spec can be decoded
func (l Layout) Validate() error {
	for _, s := range l {
		switch s.Kind {
		case KindUint, KindInt:
			if s.Size != 1 && s.Size != 2 && s.Size != 4 && s.Size != 8 {
				return fmt.Errorf("%w: %s: integer size %d", ErrInvalidLayout, s.Label, s.Size)
			}
		case KindASCII, KindBytes:
			if s.Size <= 0 {
				return fmt.Errorf("%w: %s: size %d", ErrInvalidLayout, s.Label, s.Size)
			}
		case KindRepeat:
			rec := Layout(s.Fields)
			if len(rec) == 0 || rec.Size() == 0 {
				return fmt.Errorf("%w: %s: repeat record needs a fixed size", ErrInvalidLayout, s.Label)
			}
			for _, f := range rec {
				if f.fixedSize() == 0 {
					return fmt.Errorf("%w: %s: repeat record field %s is not fixed", ErrInvalidLayout, s.Label, f.Label)
				}
			}
			if err := rec.Validate(); err != nil {
				return err
			}
		case KindWhen:
			if len(s.Lengths) == 0 {
				return fmt.Errorf("%w: conditional block without lengths", ErrInvalidLayout)
			}
			if err := Layout(s.Fields).Validate(); err != nil {
				return err
			}
		case KindBool, KindUID, KindIPv4, KindTail, KindRest:
		default:
			return fmt.Errorf("%w: %s: unknown kind %s", ErrInvalidLayout, s.Label, s.Kind)
		}
	}
	return nil
}

// Field constructors used by the parameter tables

func U8(label string) FieldSpec  { return FieldSpec{Label: label, Kind: KindUint, Size: 1} }
func U16(label string) FieldSpec { return FieldSpec{Label: label, Kind: KindUint, Size: 2} }
func U32(label string) FieldSpec { return FieldSpec{Label: label, Kind: KindUint, Size: 4} }
func I16(label string) FieldSpec { return FieldSpec{Label: label, Kind: KindInt, Size: 2} }
func I32(label string) FieldSpec { return FieldSpec{Label: label, Kind: KindInt, Size: 4} }

// Enum8 is a one-byte value rendered through a name table
func Enum8(label string, names Names) FieldSpec {
	return FieldSpec{Label: label, Kind: KindUint, Size: 1, Names: names}
}

// Enum16 is a two-byte value rendered through a name table
func Enum16(label string, names Names) FieldSpec {
	return FieldSpec{Label: label, Kind: KindUint, Size: 2, Names: names}
}

func Bool(label string) FieldSpec             { return FieldSpec{Label: label, Kind: KindBool, Size: 1} }
func ASCII(label string, n int) FieldSpec     { return FieldSpec{Label: label, Kind: KindASCII, Size: n} }
func Raw(label string, n int) FieldSpec       { return FieldSpec{Label: label, Kind: KindBytes, Size: n} }
func UIDSpec(label string) FieldSpec          { return FieldSpec{Label: label, Kind: KindUID, Size: UIDSize} }
func IPv4(label string) FieldSpec             { return FieldSpec{Label: label, Kind: KindIPv4, Size: 4} }
func Tail(label string) FieldSpec             { return FieldSpec{Label: label, Kind: KindTail} }
func Rest(label string) FieldSpec             { return FieldSpec{Label: label, Kind: KindRest} }
func Repeat(label string, rec ...FieldSpec) FieldSpec {
	return FieldSpec{Label: label, Kind: KindRepeat, Fields: rec}
}

// When decodes fields only if the PDL is exactly one of lengths
func When(lengths []int, fields ...FieldSpec) FieldSpec {
	return FieldSpec{Kind: KindWhen, Lengths: lengths, Fields: fields}
}

// Descriptor is the decode rule set of one parameter id
type Descriptor struct {
	PID   uint16
	Name  string
	Rules map[CommandClass]Layout
}

// Rule returns the layout for a command class
func (d *Descriptor) Rule(cc CommandClass) (Layout, bool) {
	l, ok := d.Rules[cc]
	return l, ok
}

// CommandClasses returns the classes the descriptor decodes, ascending
func (d *Descriptor) CommandClasses() []CommandClass {
	ccs := make([]CommandClass, 0, len(d.Rules))
	for cc := range d.Rules {
		ccs = append(ccs, cc)
	}
	sort.Slice(ccs, func(i, j int) bool { return ccs[i] < ccs[j] })
	return ccs
}

// RuleOption attaches a layout to a descriptor
type RuleOption func(map[CommandClass]Layout)

// On registers fields for an arbitrary command class
func On(cc CommandClass, fields ...FieldSpec) RuleOption {
	return func(m map[CommandClass]Layout) { m[cc] = Layout(fields) }
}

func discCmd(fields ...FieldSpec) RuleOption  { return On(DiscoveryCommand, fields...) }
func discResp(fields ...FieldSpec) RuleOption { return On(DiscoveryCommandResponse, fields...) }
func getCmd(fields ...FieldSpec) RuleOption   { return On(GetCommand, fields...) }
func getResp(fields ...FieldSpec) RuleOption  { return On(GetCommandResponse, fields...) }
func setCmd(fields ...FieldSpec) RuleOption   { return On(SetCommand, fields...) }
func setResp(fields ...FieldSpec) RuleOption  { return On(SetCommandResponse, fields...) }

// getSet registers the same layout for GET responses and SET commands,
// the common shape of a read/write parameter.
func getSet(fields ...FieldSpec) RuleOption {
	return func(m map[CommandClass]Layout) {
		m[GetCommandResponse] = Layout(fields)
		m[SetCommand] = Layout(fields)
	}
}

// NewDescriptor builds a descriptor from rule options
func NewDescriptor(pid uint16, name string, opts ...RuleOption) *Descriptor {
	d := &Descriptor{PID: pid, Name: name, Rules: make(map[CommandClass]Layout)}
	for _, opt := range opts {
		opt(d.Rules)
	}
	return d
}

// Table maps parameter ids to descriptors. It is read-only once built.
type Table struct {
	byPID map[uint16]*Descriptor
}

// NewTable builds a table. A later descriptor for the same id replaces an
// earlier one.
func NewTable(descs ...*Descriptor) *Table {
	t := &Table{byPID: make(map[uint16]*Descriptor, len(descs))}
	for _, d := range descs {
		t.byPID[d.PID] = d
	}
	return t
}

// Lookup returns the descriptor for pid. A nil table has no entries.
func (t *Table) Lookup(pid uint16) (*Descriptor, bool) {
	if t == nil {
		return nil, false
	}
	d, ok := t.byPID[pid]
	return d, ok
}

// Merge returns a new table with other's descriptors overriding t's
func (t *Table) Merge(other *Table) *Table {
	out := &Table{byPID: make(map[uint16]*Descriptor)}
	if t != nil {
		for pid, d := range t.byPID {
			out.byPID[pid] = d
		}
	}
	if other != nil {
		for pid, d := range other.byPID {
			out.byPID[pid] = d
		}
	}
	return out
}

// Len returns the number of descriptors
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.byPID)
}

// Descriptors returns all descriptors ordered by parameter id
func (t *Table) Descriptors() []*Descriptor {
	if t == nil {
		return nil
	}
	out := make([]*Descriptor, 0, len(t.byPID))
	for _, d := range t.byPID {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PID < out[j].PID })
	return out
}

// Validate checks every layout in the table
func (t *Table) Validate() error {
	for _, d := range t.Descriptors() {
		for _, cc := range d.CommandClasses() {
			if err := d.Rules[cc].Validate(); err != nil {
				return fmt.Errorf("pid 0x%04x (%s) %s: %w", d.PID, d.Name, cc, err)
			}
		}
	}
	return nil
}

// decodeLayout applies a layout to the parameter reader, appending fields in
// byte order.
func decodeLayout(l Layout, r *ParamReader, t *Tree) error {
	for _, spec := range l {
		if err := decodeSpec(spec, r, t); err != nil {
			return err
		}
	}
	return nil
}

func decodeSpec(s FieldSpec, r *ParamReader, t *Tree) error {
	switch s.Kind {
	case KindTail, KindRest:
		// pdl - consumed, which is zero rather than negative when earlier
		// fixed fields already ran to or past the end of the parameter.
		n := r.Remaining()
		off := r.Offset()
		b, err := r.Read(n)
		if err != nil {
			return withLabel(err, s.Label)
		}
		if s.Kind == KindTail {
			t.Append(s.Label, off, n, asciiValue(b))
		} else {
			t.Append(s.Label, off, n, b)
		}
		return nil

	case KindRepeat:
		rec := Layout(s.Fields)
		size := rec.Size()
		if size <= 0 {
			return nil
		}
		remaining := r.Remaining()
		for remaining >= size {
			if len(rec) == 1 {
				if err := decodeSpec(relabel(rec[0], s.Label), r, t); err != nil {
					return err
				}
			} else {
				t.Group(s.Label, r.Offset())
				err := decodeLayout(rec, r, t)
				t.End(r.Offset())
				if err != nil {
					return err
				}
			}
			remaining -= size
		}
		return nil

	case KindWhen:
		for _, n := range s.Lengths {
			if r.PDL() == n {
				return decodeLayout(s.Fields, r, t)
			}
		}
		return nil
	}

	size := s.fixedSize()
	off := r.Offset()
	b, err := r.Read(size)
	if err != nil {
		return withLabel(err, s.Label)
	}
	f := t.Append(s.Label, off, size, nil)
	switch s.Kind {
	case KindUint:
		v := readUint(b)
		f.Value = v
		if s.Names != nil {
			f.Text = s.Names.Format(v, size)
		}
	case KindInt:
		f.Value = readInt(b)
	case KindBool:
		f.Value = b[0] != 0
	case KindASCII:
		f.Value = asciiValue(b)
	case KindUID:
		f.Value = UIDFromBytes(b)
	case KindIPv4:
		f.Value = net.IPv4(b[0], b[1], b[2], b[3]).To4()
	default:
		f.Value = b
	}
	return nil
}

// relabel keeps the element label of a single-field repeat record when it
// has one, falling back to the group label.
func relabel(s FieldSpec, label string) FieldSpec {
	if s.Label == "" {
		s.Label = label
	}
	return s
}

func readUint(b []byte) uint64 {
	switch len(b) {
	case 1:
		return uint64(b[0])
	case 2:
		return uint64(binary.BigEndian.Uint16(b))
	case 4:
		return uint64(binary.BigEndian.Uint32(b))
	case 8:
		return binary.BigEndian.Uint64(b)
	}
	var v uint64
	for _, x := range b {
		v = v<<8 | uint64(x)
	}
	return v
}

func readInt(b []byte) int64 {
	switch len(b) {
	case 1:
		return int64(int8(b[0]))
	case 2:
		return int64(int16(binary.BigEndian.Uint16(b)))
	case 4:
		return int64(int32(binary.BigEndian.Uint32(b)))
	case 8:
		return int64(binary.BigEndian.Uint64(b))
	}
	return int64(readUint(b))
}

// asciiValue trims the NUL padding some devices send after labels
func asciiValue(b []byte) string {
	return string(bytes.TrimRight(b, "\x00"))
}

// Decode applies the descriptor for pid and cc to the parameter data. An
// unknown pid yields one opaque field covering the parameter; a known pid
// without a rule for cc yields no fields. The descriptor is nil for unknown
// ids.
func (t *Table) Decode(pid uint16, cc CommandClass, r *ParamReader, tree *Tree) (*Descriptor, error) {
	d, ok := t.Lookup(pid)
	if !ok {
		return nil, decodeSpec(Rest("Unknown Parameter Data"), r, tree)
	}
	l, ok := d.Rule(cc)
	if !ok {
		return d, nil
	}
	return d, decodeLayout(l, r, tree)
}
