package config

import (
	"fmt"

	"github.com/muurk/rdmscope/internal/rdm"
)

// Vendor is a user-supplied manufacturer overlay.
//
//	vendors:
//	  - manufacturer_id: 0x4d50
//	    name: Martin
//	    parameters:
//	      - pid: 0x8001
//	        name: FIXTURE_TEMP
//	        get_response:
//	          - {label: Head Temperature, type: int, size: 2}
type Vendor struct {
	ManufacturerID uint16       `yaml:"manufacturer_id"`
	Name           string       `yaml:"name"`
	Parameters     []*Parameter `yaml:"parameters"`
}

// Parameter is the layout of one manufacturer-specific parameter, one field
// list per command class.
type Parameter struct {
	PID               uint16   `yaml:"pid"`
	Name              string   `yaml:"name"`
	DiscoveryCommand  []*Field `yaml:"discovery_command,omitempty"`
	DiscoveryResponse []*Field `yaml:"discovery_response,omitempty"`
	GetCommand        []*Field `yaml:"get_command,omitempty"`
	GetResponse       []*Field `yaml:"get_response,omitempty"`
	SetCommand        []*Field `yaml:"set_command,omitempty"`
	SetResponse       []*Field `yaml:"set_response,omitempty"`
}

// Field is one entry of a parameter layout. Type is a field kind name
// (uint, int, bool, ascii, bytes, uid, ipv4, tail, rest, repeat, when).
type Field struct {
	Label   string            `yaml:"label"`
	Type    string            `yaml:"type"`
	Size    int               `yaml:"size,omitempty"`
	Names   map[uint64]string `yaml:"names,omitempty"`
	Fields  []*Field          `yaml:"fields,omitempty"`
	Lengths []int             `yaml:"lengths,omitempty"`
}

// Overlays compiles every configured vendor into decoder overlays. Errors
// name the vendor and parameter at fault.
func (r *Registry) Overlays() ([]*rdm.VendorOverlay, error) {
	overlays := make([]*rdm.VendorOverlay, 0, len(r.Vendors))
	for _, v := range r.Vendors {
		o, err := v.Compile()
		if err != nil {
			return nil, err
		}
		overlays = append(overlays, o)
	}
	return overlays, nil
}

// ManufacturerNames returns the names of configured vendors
func (r *Registry) ManufacturerNames() rdm.Names {
	names := make(rdm.Names)
	for _, v := range r.Vendors {
		if v.Name != "" {
			names[uint64(v.ManufacturerID)] = v.Name
		}
	}
	return names
}

// Compile converts the vendor into a validated overlay
func (v *Vendor) Compile() (*rdm.VendorOverlay, error) {
	descs := make([]*rdm.Descriptor, 0, len(v.Parameters))
	for _, p := range v.Parameters {
		d, err := p.compile()
		if err != nil {
			return nil, fmt.Errorf("vendor %s (0x%04x) pid 0x%04x: %w", v.Name, v.ManufacturerID, p.PID, err)
		}
		descs = append(descs, d)
	}
	o, err := rdm.NewVendorOverlay(v.ManufacturerID, v.Name, descs...)
	if err != nil {
		return nil, fmt.Errorf("vendor %s: %w", v.Name, err)
	}
	return o, nil
}

func (p *Parameter) compile() (*rdm.Descriptor, error) {
	rules := []struct {
		cc     rdm.CommandClass
		fields []*Field
	}{
		{rdm.DiscoveryCommand, p.DiscoveryCommand},
		{rdm.DiscoveryCommandResponse, p.DiscoveryResponse},
		{rdm.GetCommand, p.GetCommand},
		{rdm.GetCommandResponse, p.GetResponse},
		{rdm.SetCommand, p.SetCommand},
		{rdm.SetCommandResponse, p.SetResponse},
	}

	var opts []rdm.RuleOption
	for _, rule := range rules {
		if rule.fields == nil {
			continue
		}
		specs, err := compileFields(rule.fields)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", rule.cc, err)
		}
		opts = append(opts, rdm.On(rule.cc, specs...))
	}
	return rdm.NewDescriptor(p.PID, p.Name, opts...), nil
}

func compileFields(fields []*Field) ([]rdm.FieldSpec, error) {
	specs := make([]rdm.FieldSpec, 0, len(fields))
	for _, f := range fields {
		kind, ok := rdm.ParseKind(f.Type)
		if !ok {
			return nil, fmt.Errorf("field %q: unknown type %q", f.Label, f.Type)
		}
		spec := rdm.FieldSpec{Label: f.Label, Kind: kind, Size: f.Size, Lengths: f.Lengths}
		if (kind == rdm.KindUint || kind == rdm.KindInt) && spec.Size == 0 {
			spec.Size = 1
		}
		if len(f.Names) > 0 {
			spec.Names = rdm.Names(f.Names)
		}
		if len(f.Fields) > 0 {
			children, err := compileFields(f.Fields)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", f.Label, err)
			}
			spec.Fields = children
		}
		specs = append(specs, spec)
	}
	return specs, nil
}
