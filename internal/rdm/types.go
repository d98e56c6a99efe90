package rdm

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

// Start codes
const (
	// StartCode is the DMX512 alternate start code for RDM. It is not part of
	// the decoded buffer but seeds the checksum.
	StartCode = 0xCC

	// SubStartCode is the fixed sentinel in the first byte of the buffer.
	SubStartCode = 0x01
)

// Envelope offsets and sizes (big-endian throughout)
const (
	offsetMessageLength = 1
	offsetDestination   = 2
	offsetSource        = 8
	offsetSlot          = 15
	offsetCommandClass  = 19

	// HeaderSize is the offset of the first parameter data byte.
	HeaderSize = 23

	// ChecksumSize is the size of the trailing checksum.
	ChecksumSize = 2

	// UIDSize is the wire size of a device address.
	UIDSize = 6

	// MaxPDL is the largest parameter data length the envelope permits.
	MaxPDL = 231

	// VendorPIDBase is the first manufacturer-specific parameter id.
	VendorPIDBase = 0x8000
)

// CommandClass identifies discovery/get/set and command vs response
type CommandClass uint8

const (
	DiscoveryCommand         CommandClass = 0x10
	DiscoveryCommandResponse CommandClass = 0x11
	GetCommand               CommandClass = 0x20
	GetCommandResponse       CommandClass = 0x21
	SetCommand               CommandClass = 0x30
	SetCommandResponse       CommandClass = 0x31
)

// IsResponse reports whether the class is a response. The low bit of the
// encoding carries the direction.
func (cc CommandClass) IsResponse() bool {
	return cc&0x01 != 0
}

// String returns a human-readable name for the command class
func (cc CommandClass) String() string {
	if name, ok := CommandClassNames.Lookup(uint64(cc)); ok {
		return name
	}
	return fmt.Sprintf("CommandClass(0x%02x)", uint8(cc))
}

// ParseCommandClass accepts names like "get", "get-response", "set_command"
// or a numeric value.
func ParseCommandClass(s string) (CommandClass, error) {
	key := strings.NewReplacer("_", "-", " ", "-").Replace(strings.ToLower(strings.TrimSpace(s)))
	switch key {
	case "disc", "discovery", "discovery-command":
		return DiscoveryCommand, nil
	case "disc-response", "discovery-response", "discovery-command-response":
		return DiscoveryCommandResponse, nil
	case "get", "get-command":
		return GetCommand, nil
	case "get-response", "get-command-response":
		return GetCommandResponse, nil
	case "set", "set-command":
		return SetCommand, nil
	case "set-response", "set-command-response":
		return SetCommandResponse, nil
	}
	v, err := strconv.ParseUint(key, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("unknown command class %q", s)
	}
	return CommandClass(v), nil
}

// ResponseType is the secondary tag carried by responses
type ResponseType uint8

const (
	ResponseAck         ResponseType = 0x00
	ResponseAckTimer    ResponseType = 0x01
	ResponseNackReason  ResponseType = 0x02
	ResponseAckOverflow ResponseType = 0x03
)

// String returns a human-readable name for the response type
func (rt ResponseType) String() string {
	if name, ok := ResponseTypeNames.Lookup(uint64(rt)); ok {
		return name
	}
	return fmt.Sprintf("ResponseType(0x%02x)", uint8(rt))
}

// ParseResponseType accepts "ack", "ack-timer", "nack", "ack-overflow" or a
// numeric value.
func ParseResponseType(s string) (ResponseType, error) {
	key := strings.NewReplacer("_", "-", " ", "-").Replace(strings.ToLower(strings.TrimSpace(s)))
	switch key {
	case "ack":
		return ResponseAck, nil
	case "ack-timer", "timer":
		return ResponseAckTimer, nil
	case "nack", "nack-reason":
		return ResponseNackReason, nil
	case "ack-overflow", "overflow":
		return ResponseAckOverflow, nil
	}
	v, err := strconv.ParseUint(key, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("unknown response type %q", s)
	}
	return ResponseType(v), nil
}

// PortOrResponse is the byte at offset 15. Commands carry a port id there,
// responses carry a response type. Only one arm is meaningful, selected by
// the command class.
type PortOrResponse struct {
	response bool
	value    uint8
}

// PortSlot builds the command arm
func PortSlot(port uint8) PortOrResponse {
	return PortOrResponse{value: port}
}

// ResponseSlot builds the response arm
func ResponseSlot(rt ResponseType) PortOrResponse {
	return PortOrResponse{response: true, value: uint8(rt)}
}

func slotFor(cc CommandClass, raw uint8) PortOrResponse {
	return PortOrResponse{response: cc.IsResponse(), value: raw}
}

// PortID returns the port id when the slot holds the command arm
func (p PortOrResponse) PortID() (uint8, bool) {
	if p.response {
		return 0, false
	}
	return p.value, true
}

// ResponseType returns the response type when the slot holds the response arm
func (p PortOrResponse) ResponseType() (ResponseType, bool) {
	if !p.response {
		return 0, false
	}
	return ResponseType(p.value), true
}

// Raw returns the wire byte
func (p PortOrResponse) Raw() uint8 {
	return p.value
}

// String returns a debug representation of the slot
func (p PortOrResponse) String() string {
	if p.response {
		return fmt.Sprintf("response_type=%s", ResponseType(p.value))
	}
	return fmt.Sprintf("port_id=%d", p.value)
}

// UID is a 6-byte device address: manufacturer id + device id
type UID struct {
	Manufacturer uint16
	Device       uint32
}

// BroadcastUID addresses all devices of all manufacturers
var BroadcastUID = UID{Manufacturer: 0xFFFF, Device: 0xFFFFFFFF}

// UIDFromBytes decodes a 6-byte address. b must hold at least UIDSize bytes.
func UIDFromBytes(b []byte) UID {
	return UID{
		Manufacturer: binary.BigEndian.Uint16(b[0:2]),
		Device:       binary.BigEndian.Uint32(b[2:6]),
	}
}

// ParseUID parses "mmmm:dddddddd" (hex). The twelve digit form without a
// colon, as carried in RDMnet TXT records, is accepted too.
func ParseUID(s string) (UID, error) {
	s = strings.TrimSpace(s)
	if len(s) == 12 && !strings.Contains(s, ":") {
		s = s[:4] + ":" + s[4:]
	}
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return UID{}, fmt.Errorf("invalid uid %q (expected mmmm:dddddddd)", s)
	}
	m, err := strconv.ParseUint(parts[0], 16, 16)
	if err != nil {
		return UID{}, fmt.Errorf("invalid uid manufacturer %q: %w", parts[0], err)
	}
	d, err := strconv.ParseUint(parts[1], 16, 32)
	if err != nil {
		return UID{}, fmt.Errorf("invalid uid device %q: %w", parts[1], err)
	}
	return UID{Manufacturer: uint16(m), Device: uint32(d)}, nil
}

// Bytes returns the wire encoding
func (u UID) Bytes() []byte {
	b := make([]byte, UIDSize)
	binary.BigEndian.PutUint16(b[0:2], u.Manufacturer)
	binary.BigEndian.PutUint32(b[2:6], u.Device)
	return b
}

// IsBroadcast reports whether the address is a broadcast to all devices or
// to all devices of one manufacturer.
func (u UID) IsBroadcast() bool {
	return u.Device == 0xFFFFFFFF
}

func (u UID) String() string {
	return fmt.Sprintf("%04x:%08x", u.Manufacturer, u.Device)
}

// Message is one captured RDM message. Length is the total length the
// capture layer declared; bytes of Data past Length are a trailer that is
// never decoded.
type Message struct {
	Data   []byte
	Length int
}

// NewMessage wraps a buffer whose declared length is the whole buffer
func NewMessage(data []byte) Message {
	return Message{Data: data, Length: len(data)}
}

// limit returns the declared length clamped to the buffer
func (m Message) limit() int {
	if m.Length < 0 {
		return 0
	}
	if m.Length > len(m.Data) {
		return len(m.Data)
	}
	return m.Length
}

// Header holds the envelope fields common to every message
type Header struct {
	StartCode     uint8
	MessageLength uint8
	Destination   UID
	Source        UID
	Transaction   uint8
	Slot          PortOrResponse
	MessageCount  uint8
	SubDevice     uint16
	CommandClass  CommandClass
	ParameterID   uint16
	PDL           uint8
	PayloadOffset int
}

// AddressedManufacturer returns the manufacturer id of the device the
// message concerns: the destination for commands, the source for
// responses. Vendor overlays are selected with this value.
func (h *Header) AddressedManufacturer() uint16 {
	if h.CommandClass.IsResponse() {
		return h.Source.Manufacturer
	}
	return h.Destination.Manufacturer
}

// String returns a one-line summary of the header
func (h *Header) String() string {
	return fmt.Sprintf("RDM{%s -> %s, tn=%d, %s, cc=%s, pid=0x%04x, pdl=%d}",
		h.Source, h.Destination, h.Transaction, h.Slot, h.CommandClass, h.ParameterID, h.PDL)
}
