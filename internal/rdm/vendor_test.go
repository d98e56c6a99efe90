package rdm

import (
	"errors"
	"testing"
)

func TestNewVendorOverlay(t *testing.T) {
	if _, err := NewVendorOverlay(0x1234, "X", NewDescriptor(0x0060, "DEVICE_INFO")); !errors.Is(err, ErrReservedPID) {
		t.Errorf("standard pid error = %v, want ErrReservedPID", err)
	}
	bad := NewDescriptor(0x8000, "BAD", getResp(ASCII("x", 0)))
	if _, err := NewVendorOverlay(0x1234, "X", bad); !errors.Is(err, ErrInvalidLayout) {
		t.Errorf("bad layout error = %v, want ErrInvalidLayout", err)
	}
	o, err := NewVendorOverlay(0x1234, "X", NewDescriptor(0x8000, "OK", getResp(U8("v"))))
	if err != nil {
		t.Fatalf("NewVendorOverlay() error = %v", err)
	}
	if o.Table.Len() != 1 {
		t.Errorf("Len() = %d, want 1", o.Table.Len())
	}
}

func TestVendorResolver_With(t *testing.T) {
	base := DefaultVendorResolver()
	if _, ok := base.Resolve(ManufacturerETC); !ok {
		t.Fatal("no ETC overlay")
	}
	if _, ok := base.Resolve(ManufacturerOpenLighting); !ok {
		t.Fatal("no Open Lighting overlay")
	}

	extra := mustOverlay(ManufacturerETC, "", NewDescriptor(0x8101, "CUSTOM_CURVE", getResp(U16("Curve"))),
		NewDescriptor(0x8F00, "CUSTOM_NEW", getResp(U8("New"))))
	layered := base.With(extra)

	etc, _ := layered.Resolve(ManufacturerETC)
	if etc.Name != "ETC" {
		t.Errorf("name = %q, want the built-in name kept", etc.Name)
	}
	if d, _ := etc.Table.Lookup(0x8101); d.Name != "CUSTOM_CURVE" {
		t.Errorf("0x8101 = %s, want override", d.Name)
	}
	if _, ok := etc.Table.Lookup(0x8102); !ok {
		t.Error("override dropped built-in 0x8102")
	}
	if _, ok := etc.Table.Lookup(0x8F00); !ok {
		t.Error("override did not add 0x8F00")
	}

	orig, _ := base.Resolve(ManufacturerETC)
	if d, _ := orig.Table.Lookup(0x8101); d.Name != "ETC_LED_CURVE" {
		t.Error("With modified the base resolver")
	}
	if n := len(layered.Overlays()); n != 2 {
		t.Errorf("Overlays() = %d, want 2", n)
	}
}

func TestVendorResolver_Nil(t *testing.T) {
	var r *VendorResolver
	if _, ok := r.Resolve(ManufacturerETC); ok {
		t.Error("nil resolver resolved an overlay")
	}
	if r.Overlays() != nil {
		t.Error("nil resolver listed overlays")
	}
	if got := r.With(olaOverlay()).Overlays(); len(got) != 1 {
		t.Errorf("With on nil = %d overlays, want 1", len(got))
	}
}

func TestBuiltinOverlaysValid(t *testing.T) {
	for _, o := range DefaultVendorResolver().Overlays() {
		if err := o.Table.Validate(); err != nil {
			t.Errorf("%s: %v", o.Name, err)
		}
		for _, d := range o.Table.Descriptors() {
			if d.PID < VendorPIDBase {
				t.Errorf("%s: pid 0x%04x below manufacturer range", o.Name, d.PID)
			}
		}
	}
}
