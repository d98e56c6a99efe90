package rdm

import (
	"encoding/binary"
	"errors"
	"reflect"
	"sync"
	"testing"
)

var (
	controller = UID{Manufacturer: 0x7a70, Device: 0x00000001}
	fixture    = UID{Manufacturer: 0x6574, Device: 0x12345678}
)

func mustBuild(t *testing.T, req Request) []byte {
	t.Helper()
	b, err := Build(req)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return b
}

func getResponse(pid uint16, data ...byte) Request {
	return Request{
		Destination:  controller,
		Source:       fixture,
		Transaction:  1,
		Response:     ResponseAck,
		CommandClass: GetCommandResponse,
		ParameterID:  pid,
		Data:         data,
	}
}

func labels(fields []*Field) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.Label
	}
	return out
}

var deviceInfoData = []byte{
	0x01, 0x00, // protocol version
	0x00, 0x42, // model
	0x01, 0x01, // category
	0x00, 0x00, 0x00, 0x07, // software version
	0x00, 0x10, // footprint
	0x01,       // current personality
	0x03,       // personality count
	0x00, 0x01, // start address
	0x00, 0x00, // sub-devices
	0x02, // sensors
}

func TestDecode_DeviceInfo(t *testing.T) {
	buf := mustBuild(t, getResponse(PIDDeviceInfo, deviceInfoData...))

	res, err := NewDecoder().Decode(NewMessage(buf))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	want := []string{
		"Protocol Version", "Device Model ID", "Product Category",
		"Software Version ID", "DMX Footprint", "Current Personality",
		"Personality Count", "DMX Start Address", "Sub-Device Count",
		"Sensor Count",
	}
	fields := res.ParameterFields()
	if got := labels(fields); !reflect.DeepEqual(got, want) {
		t.Fatalf("labels = %v, want %v", got, want)
	}

	off, total := HeaderSize, 0
	for _, f := range fields {
		if f.Offset != off {
			t.Errorf("%s offset = %d, want %d", f.Label, f.Offset, off)
		}
		off += f.Length
		total += f.Length
	}
	if total != 19 {
		t.Errorf("total length = %d, want 19", total)
	}
	if got := Find(fields, "Product Category").Display(); got != "Fixture Fixed (0x0101)" {
		t.Errorf("product category = %q", got)
	}
	if got := Find(fields, "Software Version ID").Value; got != uint64(7) {
		t.Errorf("software version = %v, want 7", got)
	}
	if res.ParameterName() != "DEVICE_INFO" {
		t.Errorf("parameter name = %s, want DEVICE_INFO", res.ParameterName())
	}
	if !res.Checksum.OK() {
		t.Errorf("checksum = %s, want ok", res.Checksum)
	}
	if len(res.Intron) != 0 {
		t.Errorf("intron = %x, want none", res.Intron)
	}
}

func TestDecode_SensorValue(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want []string
	}{
		{
			name: "present only",
			data: []byte{0x01, 0x00, 0x14},
			want: []string{"Sensor Number", "Present Value"},
		},
		{
			name: "present and recorded",
			data: []byte{0x01, 0x00, 0x14, 0x00, 0x19},
			want: []string{"Sensor Number", "Present Value", "Recorded Value"},
		},
		{
			name: "present low high",
			data: []byte{0x01, 0x00, 0x14, 0x00, 0x0A, 0x00, 0x1E},
			want: []string{"Sensor Number", "Present Value", "Lowest Detected Value", "Highest Detected Value"},
		},
		{
			name: "all values",
			data: []byte{0x01, 0x00, 0x14, 0x00, 0x0A, 0x00, 0x1E, 0x00, 0x19},
			want: []string{"Sensor Number", "Present Value", "Lowest Detected Value", "Highest Detected Value", "Recorded Value"},
		},
	}

	dec := NewDecoder()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := mustBuild(t, getResponse(PIDSensorValue, tt.data...))
			res, err := dec.Decode(NewMessage(buf))
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if got := labels(res.ParameterFields()); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("labels = %v, want %v", got, tt.want)
			}
			if got := Find(res.ParameterFields(), "Present Value").Value; got != int64(20) {
				t.Errorf("present value = %v, want 20", got)
			}
			if len(res.Intron) != 0 {
				t.Errorf("intron = %x, want none", res.Intron)
			}
		})
	}
}

func TestDecode_SignedValue(t *testing.T) {
	buf := mustBuild(t, getResponse(PIDSensorValue, 0x00, 0xFF, 0xF6))
	res, err := NewDecoder().Decode(NewMessage(buf))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got := Find(res.ParameterFields(), "Present Value").Value; got != int64(-10) {
		t.Errorf("present value = %v, want -10", got)
	}
}

func TestDecode_UnknownPID(t *testing.T) {
	buf := mustBuild(t, getResponse(0x1234, 0xDE, 0xAD, 0xBE, 0xEF))
	res, err := NewDecoder().Decode(NewMessage(buf))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	fields := res.ParameterFields()
	if len(fields) != 1 {
		t.Fatalf("fields = %v, want one opaque field", labels(fields))
	}
	if fields[0].Length != 4 || fields[0].Offset != HeaderSize {
		t.Errorf("opaque field = offset %d length %d, want %d/4", fields[0].Offset, fields[0].Length, HeaderSize)
	}
	if _, ok := fields[0].Value.([]byte); !ok {
		t.Errorf("opaque value type = %T, want []byte", fields[0].Value)
	}
	if res.Descriptor != nil {
		t.Errorf("descriptor = %v, want nil", res.Descriptor)
	}
}

func TestDecode_NoRuleForCommandClass(t *testing.T) {
	req := getResponse(PIDDeviceInfo, 0x00, 0x01)
	req.CommandClass = SetCommand
	req.Destination, req.Source = fixture, controller
	res, err := NewDecoder().Decode(NewMessage(mustBuild(t, req)))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if n := len(res.ParameterFields()); n != 0 {
		t.Errorf("fields = %d, want 0", n)
	}
	if len(res.Intron) != 2 {
		t.Errorf("intron = %x, want the 2 undecoded bytes", res.Intron)
	}
	if !res.Checksum.OK() {
		t.Errorf("checksum = %s, want ok", res.Checksum)
	}
}

func TestDecode_TailConsumesPDL(t *testing.T) {
	tests := []struct {
		name  string
		pid   uint16
		data  []byte
		label string
		want  string
	}{
		{"whole parameter", PIDDeviceLabel, []byte("hello"), "Device Label", "hello"},
		{"after fixed field", PIDSlotDescription, append([]byte{0x00, 0x03}, "Pan"...), "Description", "Pan"},
		{"nothing left", PIDSlotDescription, []byte{0x00, 0x03}, "Description", ""},
		{"nul padding", PIDDeviceLabel, []byte("dim\x00\x00"), "Device Label", "dim"},
	}

	dec := NewDecoder()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := dec.Decode(NewMessage(mustBuild(t, getResponse(tt.pid, tt.data...))))
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			consumed := 0
			for _, f := range res.ParameterFields() {
				consumed += f.Length
			}
			if consumed != len(tt.data) {
				t.Errorf("consumed = %d, want pdl %d", consumed, len(tt.data))
			}
			f := Find(res.ParameterFields(), tt.label)
			if f == nil {
				t.Fatalf("no %q field", tt.label)
			}
			if f.Value != tt.want {
				t.Errorf("%s = %q, want %q", tt.label, f.Value, tt.want)
			}
		})
	}
}

// withPDL rewrites the parameter data length of a built message and fixes up
// the checksum, leaving the data bytes and message length as they were.
func withPDL(t *testing.T, buf []byte, pdl uint8) []byte {
	t.Helper()
	out := append([]byte(nil), buf...)
	out[HeaderSize-1] = pdl
	sumOff := len(out) - ChecksumSize
	binary.BigEndian.PutUint16(out[sumOff:], Checksum(out, sumOff))
	return out
}

func TestDecode_PDLShorterThanFixedFields(t *testing.T) {
	tests := []struct {
		name   string
		buf    func(t *testing.T) []byte
		want   []string
		verify func(t *testing.T, fields []*Field)
	}{
		{
			name: "tail after short fixed prefix",
			buf: func(t *testing.T) []byte {
				return withPDL(t, mustBuild(t, getResponse(PIDSlotDescription, 0x00, 0x03)), 1)
			},
			want: []string{"Slot Number", "Description"},
			verify: func(t *testing.T, fields []*Field) {
				if v := fields[0].Value; v != uint64(3) {
					t.Errorf("Slot Number = %v, want 3", v)
				}
				d := fields[1]
				if d.Offset != HeaderSize+2 || d.Length != 0 || d.Value != "" {
					t.Errorf("Description = %+v, want empty field at %d", d, HeaderSize+2)
				}
			},
		},
		{
			name: "fixed field only",
			buf: func(t *testing.T) []byte {
				return withPDL(t, mustBuild(t, getResponse(PIDDMXStartAddress, 0x01, 0x2c)), 1)
			},
			want: []string{"DMX Start Address"},
			verify: func(t *testing.T, fields []*Field) {
				if v := fields[0].Value; v != uint64(300) {
					t.Errorf("DMX Start Address = %v, want 300", v)
				}
			},
		},
		{
			name: "zero pdl with tail layout",
			buf: func(t *testing.T) []byte {
				return withPDL(t, mustBuild(t, getResponse(PIDDeviceLabel, 'a', 'b')), 0)
			},
			want: []string{"Device Label"},
			verify: func(t *testing.T, fields []*Field) {
				if fields[0].Length != 0 {
					t.Errorf("Device Label length = %d, want 0", fields[0].Length)
				}
			},
		},
	}

	dec := NewDecoder()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := dec.Decode(NewMessage(tt.buf(t)))
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			fields := res.ParameterFields()
			if got := labels(fields); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("labels = %v, want %v", got, tt.want)
			}
			if !res.Checksum.OK() {
				t.Errorf("checksum = %s, want ok", res.Checksum)
			}
			tt.verify(t, fields)
		})
	}
}

func TestDecode_RepeatLeavesRemainder(t *testing.T) {
	data := []byte{0x00, 0x60, 0x00, 0x82, 0xAA}
	res, err := NewDecoder().Decode(NewMessage(mustBuild(t, getResponse(PIDSupportedParameters, data...))))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	fields := res.ParameterFields()
	if len(fields) != 2 {
		t.Fatalf("fields = %v, want 2 records", labels(fields))
	}
	if got := fields[1].Display(); got != "DEVICE_LABEL (0x0082)" {
		t.Errorf("second pid = %q", got)
	}
	if len(res.Intron) != 1 || res.Intron[0] != 0xAA {
		t.Errorf("intron = %x, want aa", res.Intron)
	}
	if !res.Checksum.OK() {
		t.Errorf("checksum = %s, want ok", res.Checksum)
	}
}

func TestDecode_RepeatGroups(t *testing.T) {
	data := []byte{
		0x00, 0x00, 0x02, 0x00, 0x01, 0x00, 0x05, 0x00, 0x06,
		0x00, 0x01, 0x04, 0x00, 0x02, 0xFF, 0xFF, 0x00, 0x00,
	}
	res, err := NewDecoder().Decode(NewMessage(mustBuild(t, getResponse(PIDStatusMessages, data...))))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	fields := res.ParameterFields()
	if len(fields) != 2 {
		t.Fatalf("fields = %v, want 2 groups", labels(fields))
	}
	for i, g := range fields {
		if len(g.Children) != 5 {
			t.Errorf("group %d children = %d, want 5", i, len(g.Children))
		}
		if g.Length != 9 {
			t.Errorf("group %d length = %d, want 9", i, g.Length)
		}
	}
	if got := Find(fields[1].Children, "Status Type").Display(); got != "Error (0x04)" {
		t.Errorf("status type = %q", got)
	}
	if got := Find(fields[1].Children, "Data Value 1").Value; got != int64(-1) {
		t.Errorf("data value 1 = %v, want -1", got)
	}
}

func TestDecode_VendorDirection(t *testing.T) {
	alpha := UID{Manufacturer: 0x1111, Device: 1}
	beta := UID{Manufacturer: 0x2222, Device: 2}
	other := UID{Manufacturer: 0x3333, Device: 3}

	overlay := func(m uint16, prefix string) *VendorOverlay {
		o, err := NewVendorOverlay(m, prefix, NewDescriptor(0x8100, prefix+"_SETTING",
			getCmd(U8(prefix+" Setting")),
			getResp(U8(prefix+" Value")),
		))
		if err != nil {
			t.Fatalf("NewVendorOverlay() error = %v", err)
		}
		return o
	}
	dec := NewDecoder(WithResolver(NewVendorResolver(overlay(0x1111, "Alpha"), overlay(0x2222, "Beta"))))

	tests := []struct {
		name string
		dst  UID
		src  UID
		cc   CommandClass
		want string
	}{
		{"command uses destination", alpha, beta, GetCommand, "Alpha Setting"},
		{"command to other vendor", beta, alpha, GetCommand, "Beta Setting"},
		{"response uses source", beta, alpha, GetCommandResponse, "Alpha Value"},
		{"response from other vendor", alpha, beta, GetCommandResponse, "Beta Value"},
		{"command to unknown vendor", other, alpha, GetCommand, "Unknown Vendor Data"},
		{"response from unknown vendor", alpha, other, GetCommandResponse, "Unknown Vendor Data"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := Request{
				Destination:  tt.dst,
				Source:       tt.src,
				CommandClass: tt.cc,
				ParameterID:  0x8100,
				Data:         []byte{0x07},
			}
			res, err := dec.Decode(NewMessage(mustBuild(t, req)))
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			fields := res.ParameterFields()
			if len(fields) != 1 || fields[0].Label != tt.want {
				t.Errorf("fields = %v, want [%s]", labels(fields), tt.want)
			}
		})
	}
}

func TestDecode_BuiltinVendor(t *testing.T) {
	res, err := NewDecoder().Decode(NewMessage(mustBuild(t, getResponse(0x8101, 0x02, 0x05))))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if res.Vendor == nil || res.Vendor.Manufacturer != ManufacturerETC {
		t.Fatalf("vendor = %v, want ETC", res.Vendor)
	}
	want := []string{"Current Curve", "Curve Count"}
	if got := labels(res.ParameterFields()); !reflect.DeepEqual(got, want) {
		t.Errorf("labels = %v, want %v", got, want)
	}
	if got := Find(res.Fields, "Parameter ID").Display(); got != "ETC ETC_LED_CURVE (0x8101)" {
		t.Errorf("parameter id = %q", got)
	}
}

func TestDecode_ResponseTypes(t *testing.T) {
	tests := []struct {
		name   string
		rt     ResponseType
		data   []byte
		verify func(t *testing.T, res *Result)
	}{
		{
			name: "nack reason",
			rt:   ResponseNackReason,
			data: []byte{0x00, 0x05},
			verify: func(t *testing.T, res *Result) {
				f := Find(res.ParameterFields(), "NACK Reason")
				if f == nil {
					t.Fatal("no NACK Reason field")
				}
				if got := f.Display(); got != "Unsupported Command Class (0x0005)" {
					t.Errorf("reason = %q", got)
				}
			},
		},
		{
			name: "ack timer",
			rt:   ResponseAckTimer,
			data: []byte{0x00, 0x0A},
			verify: func(t *testing.T, res *Result) {
				f := Find(res.ParameterFields(), "Estimated Response Time")
				if f == nil {
					t.Fatal("no Estimated Response Time field")
				}
				if f.Value != int64(10) {
					t.Errorf("value = %v, want 10", f.Value)
				}
				if f.Display() != "10 (1s)" {
					t.Errorf("display = %q, want \"10 (1s)\"", f.Display())
				}
			},
		},
		{
			name: "ack timer wrong length",
			rt:   ResponseAckTimer,
			data: []byte{0x00, 0x0A, 0x00},
			verify: func(t *testing.T, res *Result) {
				if n := len(res.ParameterFields()); n != 0 {
					t.Errorf("fields = %d, want 0", n)
				}
				if len(res.Intron) != 3 {
					t.Errorf("intron = %x, want 3 bytes", res.Intron)
				}
			},
		},
		{
			name: "nack wrong length",
			rt:   ResponseNackReason,
			data: []byte{0x05},
			verify: func(t *testing.T, res *Result) {
				if n := len(res.ParameterFields()); n != 0 {
					t.Errorf("fields = %d, want 0", n)
				}
			},
		},
		{
			name: "ack overflow",
			rt:   ResponseAckOverflow,
			data: []byte{0x01, 0x02, 0x03, 0x04},
			verify: func(t *testing.T, res *Result) {
				fields := res.ParameterFields()
				if len(fields) != 1 || fields[0].Label != "Overflow Data" || fields[0].Length != 4 {
					t.Errorf("fields = %v, want one 4-byte Overflow Data", labels(fields))
				}
			},
		},
		{
			name: "ack overflow empty",
			rt:   ResponseAckOverflow,
			verify: func(t *testing.T, res *Result) {
				if n := len(res.ParameterFields()); n != 0 {
					t.Errorf("fields = %d, want 0", n)
				}
			},
		},
		{
			name: "unknown response type",
			rt:   ResponseType(0x09),
			data: []byte{0x01},
			verify: func(t *testing.T, res *Result) {
				fields := res.ParameterFields()
				if len(fields) != 1 || fields[0].Label != "Unknown Response Data" {
					t.Errorf("fields = %v", labels(fields))
				}
			},
		},
	}

	dec := NewDecoder()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := getResponse(PIDDeviceInfo, tt.data...)
			req.Response = tt.rt
			res, err := dec.Decode(NewMessage(mustBuild(t, req)))
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if rt, ok := res.Header.Slot.ResponseType(); !ok || rt != tt.rt {
				t.Errorf("response type = %v/%v, want %v", rt, ok, tt.rt)
			}
			if !res.Checksum.OK() {
				t.Errorf("checksum = %s, want ok", res.Checksum)
			}
			tt.verify(t, res)
		})
	}
}

func TestDecode_CommandPortID(t *testing.T) {
	req := Request{
		Destination:  fixture,
		Source:       controller,
		Port:         3,
		CommandClass: GetCommand,
		ParameterID:  PIDSensorValue,
		Data:         []byte{0x01},
	}
	res, err := NewDecoder().Decode(NewMessage(mustBuild(t, req)))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	port, ok := res.Header.Slot.PortID()
	if !ok || port != 3 {
		t.Errorf("port = %d/%v, want 3", port, ok)
	}
	if _, ok := res.Header.Slot.ResponseType(); ok {
		t.Error("command slot reported a response type")
	}
	if Find(res.Fields, "Port ID") == nil || Find(res.Fields, "Response Type") != nil {
		t.Errorf("header labels = %v", labels(res.Fields))
	}
	if got := labels(res.ParameterFields()); !reflect.DeepEqual(got, []string{"Sensor Number"}) {
		t.Errorf("labels = %v", got)
	}
}

func TestDecode_DiscMuteBindingUID(t *testing.T) {
	req := Request{
		Destination:  controller,
		Source:       fixture,
		CommandClass: DiscoveryCommandResponse,
		ParameterID:  PIDDiscMute,
		Data:         append([]byte{0x00, 0x01}, fixture.Bytes()...),
	}
	res, err := NewDecoder().Decode(NewMessage(mustBuild(t, req)))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	f := Find(res.ParameterFields(), "Binding UID")
	if f == nil {
		t.Fatalf("labels = %v, want Binding UID", labels(res.ParameterFields()))
	}
	if f.Value != fixture {
		t.Errorf("binding uid = %v, want %v", f.Value, fixture)
	}
}

func TestDecode_IPv4Address(t *testing.T) {
	data := []byte{0x00, 0x00, 0x00, 0x01, 192, 168, 1, 10, 24, 0x01}
	res, err := NewDecoder().Decode(NewMessage(mustBuild(t, getResponse(PIDIPv4CurrentAddress, data...))))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got := Find(res.ParameterFields(), "Address").Display(); got != "192.168.1.10" {
		t.Errorf("address = %q", got)
	}
	if got := Find(res.ParameterFields(), "DHCP Status").Display(); got != "Active (0x01)" {
		t.Errorf("dhcp status = %q", got)
	}
}

func TestDecode_Intron(t *testing.T) {
	buf := mustBuild(t, getResponse(PIDDeviceLabel, 'a', 'b', 'c'))
	padded := append([]byte{}, buf[:HeaderSize+3]...)
	padded[offsetMessageLength] += 2
	padded = append(padded, 0x00, 0x00)
	sum := Checksum(padded, len(padded))
	padded = append(padded, byte(sum>>8), byte(sum))

	res, err := NewDecoder().Decode(NewMessage(padded))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	f := Find(res.Fields, "Intron")
	if f == nil || f.Offset != HeaderSize+3 || f.Length != 2 {
		t.Fatalf("intron field = %v", f)
	}
	if !res.Checksum.OK() || res.Checksum.Offset != HeaderSize+5 {
		t.Errorf("checksum = %s at %d", res.Checksum, res.Checksum.Offset)
	}
}

func TestDecode_ShortMessageLengthIsNotIntron(t *testing.T) {
	buf := mustBuild(t, getResponse(PIDDeviceLabel, 'a', 'b', 'c'))
	buf[offsetMessageLength] = 10
	res, err := NewDecoder().Decode(NewMessage(buf))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(res.Intron) != 0 {
		t.Errorf("intron = %x, want none", res.Intron)
	}
	// The checksum covers the header byte that was changed.
	if res.Checksum.Status != ChecksumMismatch {
		t.Errorf("checksum = %s, want mismatch", res.Checksum.Status)
	}
}

func TestDecode_Checksum(t *testing.T) {
	buf := mustBuild(t, getResponse(PIDDeviceInfo, deviceInfoData...))
	buf[len(buf)-1] ^= 0xFF

	res, err := NewDecoder().Decode(NewMessage(buf))
	if err != nil {
		t.Fatalf("Decode() error = %v, mismatch must not fail", err)
	}
	if res.Checksum.Status != ChecksumMismatch {
		t.Errorf("status = %s, want mismatch", res.Checksum.Status)
	}
	if n := len(res.ParameterFields()); n != 10 {
		t.Errorf("fields = %d, want 10", n)
	}
	f := Find(res.Fields, "Checksum")
	if f == nil || f.Offset != HeaderSize+19 {
		t.Fatalf("checksum field = %v", f)
	}
}

func TestDecode_OutOfBounds(t *testing.T) {
	buf := mustBuild(t, getResponse(PIDDeviceInfo, deviceInfoData...))

	tests := []struct {
		name   string
		msg    Message
		verify func(t *testing.T, res *Result, be *BoundsError)
	}{
		{
			name: "truncated parameter data",
			msg:  NewMessage(buf[:HeaderSize+7]),
			verify: func(t *testing.T, res *Result, be *BoundsError) {
				if be.Label != "Software Version ID" {
					t.Errorf("label = %q", be.Label)
				}
				if n := len(res.ParameterFields()); n != 3 {
					t.Errorf("partial fields = %d, want 3", n)
				}
				if res.Checksum.Status != ChecksumMissing {
					t.Errorf("checksum = %s, want missing", res.Checksum.Status)
				}
			},
		},
		{
			name: "declared length shorter than buffer",
			msg:  Message{Data: buf, Length: HeaderSize + 4},
			verify: func(t *testing.T, res *Result, be *BoundsError) {
				if be.Limit != HeaderSize+4 {
					t.Errorf("limit = %d, want %d", be.Limit, HeaderSize+4)
				}
				if n := len(res.ParameterFields()); n != 2 {
					t.Errorf("partial fields = %d, want 2", n)
				}
			},
		},
		{
			name: "missing checksum",
			msg:  NewMessage(buf[:len(buf)-1]),
			verify: func(t *testing.T, res *Result, be *BoundsError) {
				if be.Label != "Checksum" {
					t.Errorf("label = %q", be.Label)
				}
				if n := len(res.ParameterFields()); n != 10 {
					t.Errorf("fields = %d, want 10", n)
				}
			},
		},
		{
			name: "truncated header",
			msg:  NewMessage(buf[:10]),
			verify: func(t *testing.T, res *Result, be *BoundsError) {
				if be.Label != "Source UID" {
					t.Errorf("label = %q", be.Label)
				}
				if res.Header.Destination != controller {
					t.Errorf("destination = %v, want %v", res.Header.Destination, controller)
				}
				if res.Parameter != nil {
					t.Error("parameter group present for truncated header")
				}
			},
		},
		{
			name: "command class unreachable",
			msg:  NewMessage(buf[:16]),
			verify: func(t *testing.T, res *Result, be *BoundsError) {
				if be.Label != "Command Class" {
					t.Errorf("label = %q", be.Label)
				}
			},
		},
	}

	dec := NewDecoder()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := dec.Decode(tt.msg)
			if !IsOutOfBounds(err) {
				t.Fatalf("Decode() error = %v, want out of bounds", err)
			}
			if res == nil {
				t.Fatal("no partial result")
			}
			var be *BoundsError
			if !errors.As(err, &be) {
				t.Fatalf("error %T is not *BoundsError", err)
			}
			tt.verify(t, res, be)
		})
	}
}

func TestDecode_Trailer(t *testing.T) {
	buf := mustBuild(t, getResponse(PIDDMXStartAddress, 0x00, 0x01))
	withTail := append(append([]byte{}, buf...), 0xDE, 0xAD)

	t.Run("inside declared length", func(t *testing.T) {
		res, err := NewDecoder().Decode(NewMessage(withTail))
		if err != nil {
			t.Fatalf("Decode() error = %v", err)
		}
		f := Find(res.Fields, "Trailer")
		if f == nil || f.Length != 2 {
			t.Fatalf("trailer field = %v", f)
		}
	})

	t.Run("past declared length", func(t *testing.T) {
		res, err := NewDecoder().Decode(Message{Data: withTail, Length: len(buf)})
		if err != nil {
			t.Fatalf("Decode() error = %v", err)
		}
		if f := Find(res.Fields, "Trailer"); f != nil {
			t.Errorf("trailer decoded past declared length: %v", f)
		}
		if len(res.Trailer) != 2 {
			t.Errorf("trailer = %x, want dead", res.Trailer)
		}
	})
}

func TestDecode_Idempotent(t *testing.T) {
	buf := mustBuild(t, getResponse(PIDStatusMessages, 0x00, 0x00, 0x02, 0x00, 0x01, 0x00, 0x05, 0x00, 0x06, 0x01))
	dec := NewDecoder()
	first, err := dec.Decode(NewMessage(buf))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	second, err := dec.Decode(NewMessage(buf))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if !reflect.DeepEqual(first.Fields, second.Fields) {
		t.Error("second decode produced a different field tree")
	}
	if first.Checksum != second.Checksum {
		t.Errorf("checksum %v != %v", first.Checksum, second.Checksum)
	}
}

func TestDecode_Concurrent(t *testing.T) {
	buf := mustBuild(t, getResponse(PIDDeviceInfo, deviceInfoData...))
	dec := NewDecoder()

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := dec.Decode(NewMessage(buf))
			if err == nil && len(res.ParameterFields()) != 10 {
				err = errors.New("unexpected field count")
			}
			if err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestDecodeHex(t *testing.T) {
	buf := mustBuild(t, getResponse(PIDDMXStartAddress, 0x00, 0x01))
	res, err := NewDecoder().DecodeHex("0x" + hexSpaced(buf))
	if err != nil {
		t.Fatalf("DecodeHex() error = %v", err)
	}
	if got := Find(res.ParameterFields(), "DMX Start Address").Value; got != uint64(1) {
		t.Errorf("start address = %v, want 1", got)
	}

	if _, err := NewDecoder().DecodeHex("zz"); !errors.Is(err, ErrInvalidHex) {
		t.Errorf("DecodeHex(zz) error = %v, want ErrInvalidHex", err)
	}
}

func TestWithManufacturerNames(t *testing.T) {
	buf := mustBuild(t, getResponse(PIDDMXStartAddress, 0x00, 0x01))
	dec := NewDecoder(WithManufacturerNames(Names{0x6574: "Electronic Theatre Controls"}))
	res, err := dec.Decode(NewMessage(buf))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	src := Find(res.Fields, "Source UID")
	if got := Find(src.Children, "Manufacturer ID").Display(); got != "Electronic Theatre Controls (0x6574)" {
		t.Errorf("manufacturer = %q", got)
	}
}

func hexSpaced(b []byte) string {
	const digits = "0123456789abcdef"
	out := make([]byte, 0, len(b)*3)
	for i, x := range b {
		if i > 0 {
			out = append(out, ' ')
		}
		out = append(out, digits[x>>4], digits[x&0x0f])
	}
	return string(out)
}
