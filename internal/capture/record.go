package capture

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/muurk/rdmscope/internal/rdm"
)

// Direction of a captured message relative to the capturing host
type Direction string

const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

// Record is one captured RDM message
type Record struct {
	Timestamp time.Time `json:"timestamp" cbor:"1,keyasint"`
	Seq       int       `json:"seq" cbor:"2,keyasint"`
	Source    string    `json:"source,omitempty" cbor:"3,keyasint,omitempty"`
	Direction Direction `json:"direction,omitempty" cbor:"4,keyasint,omitempty"`
	Length    int       `json:"length,omitempty" cbor:"5,keyasint,omitempty"` // Declared length; 0 means len(Data)
	Data      HexBytes  `json:"data" cbor:"6,keyasint"`
}

// NewRecord captures data received from source now
func NewRecord(source string, seq int, data []byte) Record {
	return Record{
		Timestamp: time.Now().UTC(),
		Seq:       seq,
		Source:    source,
		Direction: DirectionIn,
		Data:      append(HexBytes(nil), data...),
	}
}

// Message returns the record as a decoder input
func (r Record) Message() rdm.Message {
	if r.Length <= 0 {
		return rdm.NewMessage(r.Data)
	}
	return rdm.Message{Data: r.Data, Length: r.Length}
}

// HexBytes is a byte slice written to JSON as a hex string
type HexBytes []byte

func (h HexBytes) MarshalJSON() ([]byte, error) {
	return json.Marshal(hex.EncodeToString(h))
}

func (h *HexBytes) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("capture data must be a hex string: %w", err)
	}
	b, err := rdm.ParseHex(s)
	if err != nil {
		return err
	}
	*h = b
	return nil
}
