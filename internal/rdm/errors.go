package rdm

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	ErrOutOfBounds   = errors.New("rdm: read out of bounds")
	ErrDataTooLarge  = errors.New("rdm: parameter data too large")
	ErrInvalidHex    = errors.New("rdm: invalid hex input")
	ErrReservedPID   = errors.New("rdm: parameter id below manufacturer range")
	ErrInvalidLayout = errors.New("rdm: invalid field layout")
)

// BoundsError reports a read that would cross the message's declared
// length. It matches ErrOutOfBounds with errors.Is.
type BoundsError struct {
	Label  string // Field being read when the bound was hit
	Offset int    // Absolute offset of the attempted read
	Want   int    // Bytes requested
	Limit  int    // Absolute offset the read may not cross
}

// Error implements the error interface
func (e *BoundsError) Error() string {
	if e.Label == "" {
		return fmt.Sprintf("rdm: need %d bytes at offset %d, limit %d", e.Want, e.Offset, e.Limit)
	}
	return fmt.Sprintf("rdm: %s: need %d bytes at offset %d, limit %d", e.Label, e.Want, e.Offset, e.Limit)
}

// Unwrap returns ErrOutOfBounds so callers can match the category
func (e *BoundsError) Unwrap() error {
	return ErrOutOfBounds
}

// withLabel attaches the field label to a bounds error produced by a cursor.
func withLabel(err error, label string) error {
	var be *BoundsError
	if errors.As(err, &be) && be.Label == "" {
		be.Label = label
	}
	return err
}
