package rdm

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// ackTimerUnit is the resolution of an ack-timer estimate
const ackTimerUnit = 100 * time.Millisecond

// dispatch decodes the parameter data according to the command class and,
// for responses, the response type. It runs once per message.
func (d *Decoder) dispatch(h *Header, c *Cursor, tree *Tree, res *Result) error {
	r := c.Param(int(h.PDL))
	res.Parameter = tree.Group("Parameter Data", r.Offset())
	defer func() { tree.End(r.Offset()) }()

	rt, isResponse := h.Slot.ResponseType()
	if !isResponse {
		return d.decodeParameter(h, r, tree, res)
	}

	switch rt {
	case ResponseAck:
		return d.decodeParameter(h, r, tree, res)

	case ResponseAckTimer:
		if r.PDL() != 2 {
			d.logger.Debug("ack timer with unexpected length", zap.Int("pdl", r.PDL()))
			return nil
		}
		off := r.Offset()
		b, err := r.Read(2)
		if err != nil {
			return withLabel(err, "Estimated Response Time")
		}
		v := readInt(b)
		f := tree.Append("Estimated Response Time", off, 2, v)
		f.Text = fmt.Sprintf("%d (%s)", v, time.Duration(v)*ackTimerUnit)
		return nil

	case ResponseNackReason:
		if r.PDL() != 2 {
			d.logger.Debug("nack with unexpected length", zap.Int("pdl", r.PDL()))
			return nil
		}
		return decodeSpec(Enum16("NACK Reason", NackReasonNames), r, tree)

	case ResponseAckOverflow:
		if r.PDL() == 0 {
			return nil
		}
		return decodeSpec(Rest("Overflow Data"), r, tree)

	default:
		if r.PDL() == 0 {
			return nil
		}
		return decodeSpec(Rest("Unknown Response Data"), r, tree)
	}
}

// decodeParameter picks the standard table or, for manufacturer-specific
// ids, the overlay of the addressed device's manufacturer.
func (d *Decoder) decodeParameter(h *Header, r *ParamReader, tree *Tree, res *Result) error {
	if h.ParameterID < VendorPIDBase {
		desc, err := d.table.Decode(h.ParameterID, h.CommandClass, r, tree)
		res.Descriptor = desc
		return err
	}

	manufacturer := h.AddressedManufacturer()
	overlay, ok := d.resolver.Resolve(manufacturer)
	if !ok {
		d.logger.Debug("no vendor overlay",
			zap.String("manufacturer", fmt.Sprintf("0x%04x", manufacturer)),
			zap.String("pid", fmt.Sprintf("0x%04x", h.ParameterID)),
		)
		return decodeSpec(Rest("Unknown Vendor Data"), r, tree)
	}
	res.Vendor = overlay
	desc, err := overlay.Table.Decode(h.ParameterID, h.CommandClass, r, tree)
	res.Descriptor = desc
	return err
}
