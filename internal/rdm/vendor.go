package rdm

import (
	"fmt"
	"sort"
)

// VendorOverlay is the parameter table of one manufacturer. It only covers
// parameter ids in the manufacturer-specific range.
type VendorOverlay struct {
	Manufacturer uint16
	Name         string
	Table        *Table
}

// NewVendorOverlay builds an overlay, rejecting descriptors below
// VendorPIDBase and layouts that cannot be decoded.
func NewVendorOverlay(manufacturer uint16, name string, descs ...*Descriptor) (*VendorOverlay, error) {
	for _, d := range descs {
		if d.PID < VendorPIDBase {
			return nil, fmt.Errorf("%w: manufacturer 0x%04x pid 0x%04x", ErrReservedPID, manufacturer, d.PID)
		}
	}
	t := NewTable(descs...)
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("manufacturer 0x%04x: %w", manufacturer, err)
	}
	return &VendorOverlay{Manufacturer: manufacturer, Name: name, Table: t}, nil
}

func mustOverlay(manufacturer uint16, name string, descs ...*Descriptor) *VendorOverlay {
	o, err := NewVendorOverlay(manufacturer, name, descs...)
	if err != nil {
		panic(err)
	}
	return o
}

// VendorResolver selects a vendor overlay by manufacturer id. It is
// immutable; With returns a new resolver.
type VendorResolver struct {
	overlays map[uint16]*VendorOverlay
}

// NewVendorResolver builds a resolver. Overlays for the same manufacturer
// are merged by parameter id, later ones winning.
func NewVendorResolver(overlays ...*VendorOverlay) *VendorResolver {
	r := &VendorResolver{overlays: make(map[uint16]*VendorOverlay, len(overlays))}
	r.add(overlays)
	return r
}

func (r *VendorResolver) add(overlays []*VendorOverlay) {
	for _, o := range overlays {
		if o == nil {
			continue
		}
		if prev, ok := r.overlays[o.Manufacturer]; ok {
			name := o.Name
			if name == "" {
				name = prev.Name
			}
			r.overlays[o.Manufacturer] = &VendorOverlay{
				Manufacturer: o.Manufacturer,
				Name:         name,
				Table:        prev.Table.Merge(o.Table),
			}
			continue
		}
		r.overlays[o.Manufacturer] = o
	}
}

// Resolve returns the overlay for a manufacturer. A nil resolver has none.
func (r *VendorResolver) Resolve(manufacturer uint16) (*VendorOverlay, bool) {
	if r == nil {
		return nil, false
	}
	o, ok := r.overlays[manufacturer]
	return o, ok
}

// With returns a resolver with extra overlays layered on top
func (r *VendorResolver) With(overlays ...*VendorOverlay) *VendorResolver {
	out := &VendorResolver{overlays: make(map[uint16]*VendorOverlay)}
	if r != nil {
		for m, o := range r.overlays {
			out.overlays[m] = o
		}
	}
	out.add(overlays)
	return out
}

// Overlays returns every overlay ordered by manufacturer id
func (r *VendorResolver) Overlays() []*VendorOverlay {
	if r == nil {
		return nil
	}
	out := make([]*VendorOverlay, 0, len(r.overlays))
	for _, o := range r.overlays {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Manufacturer < out[j].Manufacturer })
	return out
}

// Manufacturer ids with built-in overlays
const (
	ManufacturerETC          uint16 = 0x6574
	ManufacturerOpenLighting uint16 = 0x7a70
)

var defaultResolver = NewVendorResolver(etcOverlay(), olaOverlay())

// DefaultVendorResolver returns the resolver holding the built-in overlays
func DefaultVendorResolver() *VendorResolver {
	return defaultResolver
}

// selection is the "current setting + count" shape vendors use for
// enumerated settings, paired with a description parameter.
func selection(id uint16, name, label string) *Descriptor {
	return NewDescriptor(id, name,
		getResp(U8("Current "+label), U8(label+" Count")),
		setCmd(U8(label)))
}

func selectionDescription(id uint16, name, label string) *Descriptor {
	return NewDescriptor(id, name,
		getCmd(U8(label)),
		getResp(U8(label), Tail("Description")))
}

func etcOverlay() *VendorOverlay {
	return mustOverlay(ManufacturerETC, "ETC",
		selection(0x8101, "ETC_LED_CURVE", "Curve"),
		selectionDescription(0x8102, "ETC_LED_CURVE_DESCRIPTION", "Curve"),
		NewDescriptor(0x8103, "ETC_LED_STROBE", getSet(Bool("Strobe"))),
		selection(0x8104, "ETC_LED_OUTPUT_MODE", "Output Mode"),
		selectionDescription(0x8105, "ETC_LED_OUTPUT_MODE_DESCRIPTION", "Output Mode"),
		NewDescriptor(0x8106, "ETC_LED_RED_SHIFT", getSet(Bool("Red Shift"))),
		selection(0x8107, "ETC_LED_WHITE_POINT", "White Point"),
		selectionDescription(0x8108, "ETC_LED_WHITE_POINT_DESCRIPTION", "White Point"),
		NewDescriptor(0x8109, "ETC_LED_FREQUENCY", getSet(U16("Frequency"))),
		selection(0x810A, "ETC_DMX_LOSS_BEHAVIOR", "Behavior"),
		selectionDescription(0x810B, "ETC_DMX_LOSS_BEHAVIOR_DESCRIPTION", "Behavior"),
		NewDescriptor(0x810C, "ETC_LED_PLUS_SEVEN", getSet(Bool("Plus Seven"))),
		NewDescriptor(0x810D, "ETC_BACKLIGHT_BRIGHTNESS", getSet(U8("Brightness"))),
		selection(0x810E, "ETC_BACKLIGHT_TIMEOUT", "Timeout"),
		NewDescriptor(0x810F, "ETC_STATUS_INDICATORS", getSet(Bool("Status Indicators"))),
		NewDescriptor(0x8110, "ETC_RECALIBRATE_FIXTURE"),
		selection(0x8200, "ETC_POWER_COMMAND", "Power Command"),
		selectionDescription(0x8201, "ETC_POWER_COMMAND_DESCRIPTION", "Power Command"),
		NewDescriptor(0x8202, "ETC_DALI_SHORT_ADDRESS", getSet(U8("Short Address"))),
		NewDescriptor(0x8203, "ETC_DALI_GROUP_MEMBERSHIP", getSet(U16("Group Membership"))),
		NewDescriptor(0x8204, "ETC_AUTOBIND", getSet(Bool("Autobind"))),
		NewDescriptor(0x8205, "ETC_DELETE_SUBDEVICE", setCmd(U16("Sub-Device"))),
		NewDescriptor(0x8206, "ETC_PACKET_DELAY", getSet(U8("Packet Delay"))),
		NewDescriptor(0x8207, "ETC_HAS_ENUM_TEXT",
			getCmd(Enum16("PID", PIDNames)),
			getResp(Enum16("PID", PIDNames), Bool("Has Enum Text"))),
		NewDescriptor(0x8208, "ETC_GET_ENUM_TEXT",
			getCmd(Enum16("PID", PIDNames), U32("Enum Value")),
			getResp(Enum16("PID", PIDNames), U32("Enum Value"), Tail("Text"))),
		NewDescriptor(0x8209, "ETC_PREPARE_FOR_SOFTWARE_DOWNLOAD"),
	)
}

func olaOverlay() *VendorOverlay {
	return mustOverlay(ManufacturerOpenLighting, "Open Lighting Project",
		NewDescriptor(0x8000, "OLA_CODE_VERSION", getResp(Tail("Code Version"))),
		NewDescriptor(0x8001, "OLA_SERIAL_NUMBER", getResp(U32("Serial Number"))),
	)
}
