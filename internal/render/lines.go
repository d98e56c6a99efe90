package render

import (
	"fmt"

	"github.com/muurk/rdmscope/internal/rdm"
)

// Line is one row of a field tree laid out for display
type Line struct {
	Depth  int
	Offset int
	Length int
	Label  string
	Value  string
}

// Lines flattens the field tree depth-first. UID groups gain the device
// nickname when one is known.
func Lines(res *rdm.Result, opts Options) []Line {
	if res == nil {
		return nil
	}
	fields := res.Fields
	if !opts.ShowHeader {
		fields = res.ParameterFields()
	}

	var lines []Line
	rdm.Walk(fields, func(depth int, f *rdm.Field) bool {
		v := f.Display()
		if uid, ok := f.Value.(rdm.UID); ok {
			if nick := opts.Nicknames[uid]; nick != "" {
				v = fmt.Sprintf("%s (%s)", v, nick)
			}
		}
		lines = append(lines, Line{
			Depth:  depth,
			Offset: f.Offset,
			Length: f.Length,
			Label:  f.Label,
			Value:  v,
		})
		return true
	})
	if !opts.ShowHeader {
		if f := rdm.Find(res.Fields, "Checksum"); f != nil {
			lines = append(lines, Line{Offset: f.Offset, Length: f.Length, Label: f.Label, Value: f.Display()})
		}
	}
	return lines
}

// Title returns a one-line summary of the message
func Title(res *rdm.Result) string {
	if res == nil || res.Header == nil || res.Parameter == nil {
		return "RDM (truncated header)"
	}
	h := res.Header
	name := res.ParameterName()
	if res.Vendor != nil {
		name = res.Vendor.Name + " " + name
	}
	title := fmt.Sprintf("%s  %s (0x%04x)  pdl=%d", h.CommandClass, name, h.ParameterID, h.PDL)
	if rt, ok := h.Slot.ResponseType(); ok && rt != rdm.ResponseAck {
		title += "  " + rt.String()
	}
	return title
}
