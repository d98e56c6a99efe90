package rdm

import "fmt"

// envelope decodes the fixed header and the trailer of one message into a
// tree. It is created per decode call.
type envelope struct {
	c             *Cursor
	tree          *Tree
	manufacturers Names
	pidField      *Field
}

// ParseHeader decodes the fixed header of msg without the parameter data.
// The returned header is valid up to the field where an error occurred.
func ParseHeader(msg Message) (*Header, error) {
	env := &envelope{c: NewCursor(msg), tree: &Tree{}, manufacturers: ManufacturerNames}
	return env.header()
}

// header reads the fixed prefix and then the payload header. The command
// class sits after the slot byte it qualifies, so it is peeked before the
// slot is decoded.
func (e *envelope) header() (*Header, error) {
	h := &Header{StartCode: StartCode}
	var err error

	var sub uint8
	if sub, err = e.u8("Sub-Start Code"); err != nil {
		return h, err
	}
	if sub != SubStartCode {
		e.last().Text = fmt.Sprintf("0x%02x (expected 0x%02x)", sub, SubStartCode)
	}
	if h.MessageLength, err = e.u8("Message Length"); err != nil {
		return h, err
	}
	if h.Destination, err = e.uid("Destination UID"); err != nil {
		return h, err
	}
	if h.Source, err = e.uid("Source UID"); err != nil {
		return h, err
	}
	if h.Transaction, err = e.u8("Transaction Number"); err != nil {
		return h, err
	}

	ccByte, err := e.c.peek(offsetCommandClass, 1)
	if err != nil {
		return h, withLabel(err, "Command Class")
	}
	h.CommandClass = CommandClass(ccByte[0])

	slotLabel := "Port ID"
	if h.CommandClass.IsResponse() {
		slotLabel = "Response Type"
	}
	raw, err := e.u8(slotLabel)
	if err != nil {
		return h, err
	}
	h.Slot = slotFor(h.CommandClass, raw)
	if rt, ok := h.Slot.ResponseType(); ok {
		e.last().Text = ResponseTypeNames.Format(uint64(rt), 1)
	}

	if h.MessageCount, err = e.u8("Message Count"); err != nil {
		return h, err
	}
	if h.SubDevice, err = e.u16("Sub-Device"); err != nil {
		return h, err
	}
	if _, err = e.u8("Command Class"); err != nil {
		return h, err
	}
	e.last().Text = CommandClassNames.Format(uint64(h.CommandClass), 1)
	if h.ParameterID, err = e.u16("Parameter ID"); err != nil {
		return h, err
	}
	e.pidField = e.last()
	e.pidField.Text = e.pidText(h)
	if h.PDL, err = e.u8("Parameter Data Length"); err != nil {
		return h, err
	}
	h.PayloadOffset = e.c.Offset()
	return h, nil
}

// pidText names standard ids from PIDNames and leaves vendor ids to the
// parameter decode, which knows the resolved overlay.
func (e *envelope) pidText(h *Header) string {
	if h.ParameterID < VendorPIDBase {
		return PIDNames.Format(uint64(h.ParameterID), 2)
	}
	return fmt.Sprintf("Manufacturer Specific (0x%04x)", h.ParameterID)
}

// trailer accounts for padding between the parameter data and the checksum,
// verifies the checksum and records any bytes after it. The intron is
// whatever the header's message length places before the checksum that the
// parameter decode did not consume; a zero or negative value means there is
// none.
func (e *envelope) trailer(msg Message, h *Header, res *Result) error {
	payloadEnd := e.c.Offset()
	intron := (int(h.MessageLength) - 1) - payloadEnd
	if intron > 0 {
		off := e.c.Offset()
		b, err := e.c.Read(intron)
		if err != nil {
			return withLabel(err, "Intron")
		}
		e.tree.Append("Intron", off, intron, b)
		res.Intron = b
	}

	sumOff := e.c.Offset()
	res.Checksum = VerifyChecksum(msg, sumOff)
	if res.Checksum.Status == ChecksumMissing {
		return &BoundsError{Label: "Checksum", Offset: sumOff, Want: ChecksumSize, Limit: e.c.Limit()}
	}
	if _, err := e.c.Read(ChecksumSize); err != nil {
		return withLabel(err, "Checksum")
	}
	f := e.tree.Append("Checksum", sumOff, ChecksumSize, uint64(res.Checksum.Expected))
	f.Text = res.Checksum.String()

	if rest := e.c.Remaining(); rest > 0 {
		off := e.c.Offset()
		b, _ := e.c.Read(rest)
		e.tree.Append("Trailer", off, rest, b)
	}
	if end := e.c.Offset(); end < len(msg.Data) {
		res.Trailer = msg.Data[end:]
	}
	return nil
}

func (e *envelope) last() *Field {
	return e.tree.last
}

func (e *envelope) u8(label string) (uint8, error) {
	off := e.c.Offset()
	v, err := e.c.ReadUint8()
	if err != nil {
		return 0, withLabel(err, label)
	}
	e.tree.Append(label, off, 1, uint64(v))
	return v, nil
}

func (e *envelope) u16(label string) (uint16, error) {
	off := e.c.Offset()
	v, err := e.c.ReadUint16()
	if err != nil {
		return 0, withLabel(err, label)
	}
	e.tree.Append(label, off, 2, uint64(v))
	return v, nil
}

// uid reads an address as a group of manufacturer and device id
func (e *envelope) uid(label string) (UID, error) {
	off := e.c.Offset()
	b, err := e.c.Read(UIDSize)
	if err != nil {
		return UID{}, withLabel(err, label)
	}
	u := UIDFromBytes(b)
	g := e.tree.Group(label, off)
	g.Value = u
	m := e.tree.Append("Manufacturer ID", off, 2, uint64(u.Manufacturer))
	m.Text = e.manufacturerText(u.Manufacturer)
	e.tree.Append("Device ID", off+2, 4, uint64(u.Device))
	e.tree.End(off + UIDSize)
	return u, nil
}

func (e *envelope) manufacturerText(id uint16) string {
	if name, ok := e.manufacturers.Lookup(uint64(id)); ok {
		return fmt.Sprintf("%s (0x%04x)", name, id)
	}
	return fmt.Sprintf("%s (0x%04x)", ManufacturerName(id), id)
}
