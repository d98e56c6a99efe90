package rdm

import "encoding/binary"

// Cursor is a forward-only reader over a message. Reads never cross the
// message's declared length.
type Cursor struct {
	data  []byte
	off   int
	limit int
}

// NewCursor creates a cursor positioned at the first byte of msg
func NewCursor(msg Message) *Cursor {
	return &Cursor{data: msg.Data, limit: msg.limit()}
}

// Offset returns the absolute read offset
func (c *Cursor) Offset() int { return c.off }

// Limit returns the declared length the cursor may not cross
func (c *Cursor) Limit() int { return c.limit }

// Remaining returns declared length minus the current offset
func (c *Cursor) Remaining() int { return c.limit - c.off }

// Read returns the next n bytes and advances. The returned slice aliases the
// message buffer and must not be modified.
func (c *Cursor) Read(n int) ([]byte, error) {
	if n < 0 || c.off+n > c.limit {
		return nil, &BoundsError{Offset: c.off, Want: n, Limit: c.limit}
	}
	b := c.data[c.off : c.off+n]
	c.off += n
	return b, nil
}

// peek returns n bytes at an absolute offset ahead of the cursor without
// moving it. Only the envelope parser uses it, to look ahead at the command
// class before decoding the polymorphic slot byte.
func (c *Cursor) peek(at, n int) ([]byte, error) {
	if at < c.off || at+n > c.limit {
		return nil, &BoundsError{Offset: at, Want: n, Limit: c.limit}
	}
	return c.data[at : at+n], nil
}

// ReadUint8 reads one byte
func (c *Cursor) ReadUint8() (uint8, error) {
	b, err := c.Read(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadUint16 reads a big-endian 16-bit value
func (c *Cursor) ReadUint16() (uint16, error) {
	b, err := c.Read(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

// Param returns a reader scoped to the next pdl bytes. The end boundary is
// computed once here; every decode rule works against it.
func (c *Cursor) Param(pdl int) *ParamReader {
	return &ParamReader{c: c, start: c.off, end: c.off + pdl, pdl: pdl}
}

// ParamReader reads the parameter data of one message. It shares the
// underlying cursor's offset, so bytes consumed here are consumed from the
// message. The parameter end only sizes Tail, Rest and Repeat fields.
type ParamReader struct {
	c     *Cursor
	start int
	end   int
	pdl   int
}

// PDL returns the declared parameter data length
func (p *ParamReader) PDL() int { return p.pdl }

// Offset returns the absolute read offset
func (p *ParamReader) Offset() int { return p.c.off }

// Consumed returns the bytes read so far for this parameter
func (p *ParamReader) Consumed() int { return p.c.off - p.start }

// Remaining returns the bytes left for this parameter, never negative
func (p *ParamReader) Remaining() int {
	if r := p.end - p.c.off; r > 0 {
		return r
	}
	return 0
}

// Read returns the next n bytes. It fails only when the read would cross the
// message's declared length; a fixed field may run past a short PDL, after
// which Remaining reports zero.
func (p *ParamReader) Read(n int) ([]byte, error) {
	return p.c.Read(n)
}
