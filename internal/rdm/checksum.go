package rdm

import (
	"encoding/binary"
	"fmt"
)

// ChecksumStatus is the outcome of checksum verification
type ChecksumStatus int

const (
	// ChecksumMissing means the message ended before the checksum
	ChecksumMissing ChecksumStatus = iota
	// ChecksumOK means the trailing value matched
	ChecksumOK
	// ChecksumMismatch means the trailing value differed. Decoding still
	// completes; this is a flag, not an error.
	ChecksumMismatch
)

func (s ChecksumStatus) String() string {
	switch s {
	case ChecksumOK:
		return "ok"
	case ChecksumMismatch:
		return "mismatch"
	case ChecksumMissing:
		return "missing"
	default:
		return fmt.Sprintf("ChecksumStatus(%d)", int(s))
	}
}

// ChecksumResult holds the verification result attached to a decode
type ChecksumResult struct {
	Offset   int
	Expected uint16 // Value carried in the message
	Computed uint16 // Value computed over the message bytes
	Status   ChecksumStatus
}

// OK reports whether the checksum matched
func (r ChecksumResult) OK() bool {
	return r.Status == ChecksumOK
}

func (r ChecksumResult) String() string {
	switch r.Status {
	case ChecksumOK:
		return fmt.Sprintf("0x%04x [correct]", r.Expected)
	case ChecksumMismatch:
		return fmt.Sprintf("0x%04x [incorrect, should be 0x%04x]", r.Expected, r.Computed)
	default:
		return "missing"
	}
}

// Checksum computes the additive checksum of data[0:n]. The sum starts at the
// RDM start code, which precedes the buffer on the wire.
func Checksum(data []byte, n int) uint16 {
	if n > len(data) {
		n = len(data)
	}
	sum := uint16(StartCode)
	for _, b := range data[:n] {
		sum += uint16(b)
	}
	return sum
}

// VerifyChecksum reads the big-endian checksum at offset and compares it to
// the checksum of every byte before offset.
func VerifyChecksum(msg Message, offset int) ChecksumResult {
	res := ChecksumResult{Offset: offset}
	if offset < 0 || offset+ChecksumSize > msg.limit() {
		return res
	}
	res.Expected = binary.BigEndian.Uint16(msg.Data[offset : offset+ChecksumSize])
	res.Computed = Checksum(msg.Data, offset)
	if res.Expected == res.Computed {
		res.Status = ChecksumOK
	} else {
		res.Status = ChecksumMismatch
	}
	return res
}
