package rdm

import (
	"encoding/binary"
	"fmt"
	"sync/atomic"
)

// Request describes a message to build. Port is written for commands and
// Response for responses; the command class selects which.
type Request struct {
	Destination  UID
	Source       UID
	Transaction  uint8
	Port         uint8
	Response     ResponseType
	MessageCount uint8
	SubDevice    uint16
	CommandClass CommandClass
	ParameterID  uint16
	Data         []byte
}

var transactionCounter atomic.Uint32

// NextTransaction returns the next transaction number. The counter is
// shared by the process and wraps at 256.
func NextTransaction() uint8 {
	return uint8(transactionCounter.Add(1) - 1)
}

// Build encodes a request into a message buffer
//
// Layout (big-endian):
//
//	[0]      0x01          Sub-start code
//	[1]      24 + pdl      Message length, counting the 0xCC start code
//	[2-7]    destination   Destination UID
//	[8-13]   source        Source UID
//	[14]     transaction   Transaction number
//	[15]     port/response Port id for commands, response type for responses
//	[16]     count         Message count
//	[17-18]  sub-device    Sub-device
//	[19]     cc            Command class
//	[20-21]  pid           Parameter id
//	[22]     pdl           Parameter data length
//	[23+]    data          Parameter data
//	[23+pdl] checksum      Additive checksum seeded with the start code
func Build(req Request) ([]byte, error) {
	pdl := len(req.Data)
	if pdl > MaxPDL {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrDataTooLarge, pdl, MaxPDL)
	}

	buf := make([]byte, HeaderSize+pdl+ChecksumSize)
	buf[0] = SubStartCode
	buf[offsetMessageLength] = byte(HeaderSize + 1 + pdl)
	copy(buf[offsetDestination:], req.Destination.Bytes())
	copy(buf[offsetSource:], req.Source.Bytes())
	buf[14] = req.Transaction
	if req.CommandClass.IsResponse() {
		buf[offsetSlot] = byte(req.Response)
	} else {
		buf[offsetSlot] = req.Port
	}
	buf[16] = req.MessageCount
	binary.BigEndian.PutUint16(buf[17:19], req.SubDevice)
	buf[offsetCommandClass] = byte(req.CommandClass)
	binary.BigEndian.PutUint16(buf[20:22], req.ParameterID)
	buf[22] = byte(pdl)
	copy(buf[HeaderSize:], req.Data)

	sumOff := HeaderSize + pdl
	binary.BigEndian.PutUint16(buf[sumOff:], Checksum(buf, sumOff))
	return buf, nil
}
