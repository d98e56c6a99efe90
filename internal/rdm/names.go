package rdm

import "fmt"

// Names maps numeric codes to human-readable labels
type Names map[uint64]string

// Lookup returns the label for v
func (n Names) Lookup(v uint64) (string, bool) {
	s, ok := n[v]
	return s, ok
}

// Format renders v as "Label (0x..)", or "Unknown (0x..)" if v has no
// label. size is the wire size in bytes and sets the hex width.
func (n Names) Format(v uint64, size int) string {
	name, ok := n[v]
	if !ok {
		name = "Unknown"
	}
	return fmt.Sprintf("%s (0x%0*x)", name, size*2, v)
}

var CommandClassNames = Names{
	uint64(DiscoveryCommand):         "Discovery Command",
	uint64(DiscoveryCommandResponse): "Discovery Command Response",
	uint64(GetCommand):               "Get Command",
	uint64(GetCommandResponse):       "Get Command Response",
	uint64(SetCommand):               "Set Command",
	uint64(SetCommandResponse):       "Set Command Response",
}

var ResponseTypeNames = Names{
	uint64(ResponseAck):         "Ack",
	uint64(ResponseAckTimer):    "Ack Timer",
	uint64(ResponseNackReason):  "Nack Reason",
	uint64(ResponseAckOverflow): "Ack Overflow",
}

var NackReasonNames = Names{
	0x0000: "Unknown PID",
	0x0001: "Format Error",
	0x0002: "Hardware Fault",
	0x0003: "Proxy Reject",
	0x0004: "Write Protect",
	0x0005: "Unsupported Command Class",
	0x0006: "Data Out Of Range",
	0x0007: "Buffer Full",
	0x0008: "Packet Size Unsupported",
	0x0009: "Sub-Device Out Of Range",
	0x000A: "Proxy Buffer Full",
	0x000B: "Action Not Supported",
	0x000C: "Endpoint Number Invalid",
	0x000D: "Invalid Endpoint Mode",
	0x000E: "Unknown UID",
}

var StatusTypeNames = Names{
	0x00: "None",
	0x01: "Get Last Message",
	0x02: "Advisory",
	0x03: "Warning",
	0x04: "Error",
	0x12: "Advisory Cleared",
	0x13: "Warning Cleared",
	0x14: "Error Cleared",
}

var ProductCategoryNames = Names{
	0x0000: "Not Declared",
	0x0100: "Fixture",
	0x0101: "Fixture Fixed",
	0x0102: "Fixture Moving Yoke",
	0x0103: "Fixture Moving Mirror",
	0x01FF: "Fixture Other",
	0x0200: "Fixture Accessory",
	0x0201: "Fixture Accessory Color",
	0x0202: "Fixture Accessory Yoke",
	0x0203: "Fixture Accessory Mirror",
	0x0204: "Fixture Accessory Effect",
	0x0205: "Fixture Accessory Beam",
	0x02FF: "Fixture Accessory Other",
	0x0300: "Projector",
	0x0301: "Projector Fixed",
	0x0302: "Projector Moving Yoke",
	0x0303: "Projector Moving Mirror",
	0x03FF: "Projector Other",
	0x0400: "Atmospheric",
	0x0401: "Atmospheric Effect",
	0x0402: "Atmospheric Pyro",
	0x04FF: "Atmospheric Other",
	0x0500: "Dimmer",
	0x0501: "Dimmer AC Incandescent",
	0x0502: "Dimmer AC Fluorescent",
	0x0503: "Dimmer AC Cold Cathode",
	0x0504: "Dimmer AC Nondim",
	0x0505: "Dimmer AC ELV",
	0x0506: "Dimmer AC Other",
	0x0507: "Dimmer DC Level",
	0x0508: "Dimmer DC PWM",
	0x0509: "Dimmer CS LED",
	0x05FF: "Dimmer Other",
	0x0600: "Power",
	0x0601: "Power Control",
	0x0602: "Power Source",
	0x06FF: "Power Other",
	0x0700: "Scenic",
	0x0701: "Scenic Drive",
	0x07FF: "Scenic Other",
	0x0800: "Data",
	0x0801: "Data Distribution",
	0x0802: "Data Conversion",
	0x08FF: "Data Other",
	0x0900: "AV",
	0x0901: "AV Audio",
	0x0902: "AV Video",
	0x09FF: "AV Other",
	0x0A00: "Monitor",
	0x0A01: "Monitor AC Line Power",
	0x0A02: "Monitor DC Power",
	0x0A03: "Monitor Environmental",
	0x0AFF: "Monitor Other",
	0x7000: "Control",
	0x7001: "Control Controller",
	0x7002: "Control Backup Device",
	0x70FF: "Control Other",
	0x7100: "Test",
	0x7101: "Test Equipment",
	0x71FF: "Test Equipment Other",
	0x7FFF: "Other",
}

var ProductDetailNames = Names{
	0x0000: "Not Declared",
	0x0001: "Arc",
	0x0002: "Metal Halide",
	0x0003: "Incandescent",
	0x0004: "LED",
	0x0005: "Fluorescent",
	0x0006: "Cold Cathode",
	0x0007: "Electro-luminescent",
	0x0008: "Laser",
	0x0009: "Flash Tube",
	0x0100: "Color Scroller",
	0x0101: "Color Wheel",
	0x0102: "Color Change",
	0x0103: "Iris Douser",
	0x0104: "Dimming Shutter",
	0x0105: "Profile Shutter",
	0x0106: "Barndoor Shutter",
	0x0107: "Effects Disc",
	0x0108: "Gobo Rotator",
	0x0200: "Video",
	0x0201: "Slide",
	0x0202: "Film",
	0x0203: "Oil Wheel",
	0x0204: "LCD Gate",
	0x0300: "Fogger Glycol",
	0x0301: "Fogger Mineral Oil",
	0x0302: "Fogger Water",
	0x0303: "CO2",
	0x0304: "LN2",
	0x0305: "Bubble",
	0x0306: "Flame Propane",
	0x0307: "Flame Other",
	0x0308: "Olefactory Stimulator",
	0x0309: "Snow",
	0x030A: "Water Jet",
	0x030B: "Wind",
	0x030C: "Confetti",
	0x030D: "Hazard",
	0x0400: "Phase Control",
	0x0401: "Reverse Phase Control",
	0x0402: "Sine",
	0x0403: "PWM",
	0x0404: "DC",
	0x0405: "HF Ballast",
	0x0406: "HFHV Neon Ballast",
	0x0407: "HFHV EL",
	0x0408: "MHR Ballast",
	0x0409: "Bitangle Modulation",
	0x040A: "Frequency Modulation",
	0x040B: "High Frequency 12V",
	0x040C: "Relay Mechanical",
	0x040D: "Relay Electronic",
	0x040E: "Switch Electronic",
	0x040F: "Contactor",
	0x0500: "Mirror Ball Rotator",
	0x0501: "Other Rotator",
	0x0502: "Kabuki Drop",
	0x0503: "Curtain",
	0x0504: "Lineset",
	0x0505: "Motor Control",
	0x0506: "Damper Control",
	0x0600: "Splitter",
	0x0601: "Ethernet Node",
	0x0602: "Merge",
	0x0603: "Datapatch",
	0x0604: "Wireless Link",
	0x0701: "Protocol Converter",
	0x0702: "Analog Demultiplex",
	0x0703: "Analog Multiplex",
	0x0704: "Switch Panel",
	0x0800: "Router",
	0x0801: "Fader",
	0x0802: "Mixer",
	0x0900: "Change Over Manual",
	0x0901: "Change Over Auto",
	0x0902: "Test",
	0x0A00: "GFI RCD",
	0x0A01: "Battery",
	0x0A02: "Controllable Breaker",
	0x7FFF: "Other",
}

var SensorTypeNames = Names{
	0x00: "Temperature",
	0x01: "Voltage",
	0x02: "Current",
	0x03: "Frequency",
	0x04: "Resistance",
	0x05: "Power",
	0x06: "Mass",
	0x07: "Length",
	0x08: "Area",
	0x09: "Volume",
	0x0A: "Density",
	0x0B: "Velocity",
	0x0C: "Acceleration",
	0x0D: "Force",
	0x0E: "Energy",
	0x0F: "Pressure",
	0x10: "Time",
	0x11: "Angle",
	0x12: "Position X",
	0x13: "Position Y",
	0x14: "Position Z",
	0x15: "Angular Velocity",
	0x16: "Luminous Intensity",
	0x17: "Luminous Flux",
	0x18: "Illuminance",
	0x19: "Chrominance Red",
	0x1A: "Chrominance Green",
	0x1B: "Chrominance Blue",
	0x1C: "Contacts",
	0x1D: "Memory",
	0x1E: "Items",
	0x1F: "Humidity",
	0x20: "Counter 16bit",
	0x7F: "Other",
}

var SensorUnitNames = Names{
	0x00: "None",
	0x01: "Centigrade",
	0x02: "Volts DC",
	0x03: "Volts AC Peak",
	0x04: "Volts AC RMS",
	0x05: "Ampere DC",
	0x06: "Ampere AC Peak",
	0x07: "Ampere AC RMS",
	0x08: "Hertz",
	0x09: "Ohm",
	0x0A: "Watt",
	0x0B: "Kilogram",
	0x0C: "Meters",
	0x0D: "Meters Squared",
	0x0E: "Meters Cubed",
	0x0F: "Kilogrammes per Meter Cubed",
	0x10: "Meters per Second",
	0x11: "Meters per Second Squared",
	0x12: "Newton",
	0x13: "Joule",
	0x14: "Pascal",
	0x15: "Second",
	0x16: "Degree",
	0x17: "Steradian",
	0x18: "Candela",
	0x19: "Lumen",
	0x1A: "Lux",
	0x1B: "IRE",
	0x1C: "Byte",
}

var SensorPrefixNames = Names{
	0x00: "None",
	0x01: "Deci",
	0x02: "Centi",
	0x03: "Milli",
	0x04: "Micro",
	0x05: "Nano",
	0x06: "Pico",
	0x07: "Femto",
	0x08: "Atto",
	0x09: "Zepto",
	0x0A: "Yocto",
	0x11: "Deca",
	0x12: "Hecto",
	0x13: "Kilo",
	0x14: "Mega",
	0x15: "Giga",
	0x16: "Tera",
	0x17: "Peta",
	0x18: "Exa",
	0x19: "Zetta",
	0x1A: "Yotta",
}

var DataTypeNames = Names{
	0x00: "Not Defined",
	0x01: "Bit Field",
	0x02: "ASCII",
	0x03: "Unsigned Byte",
	0x04: "Signed Byte",
	0x05: "Unsigned Word",
	0x06: "Signed Word",
	0x07: "Unsigned DWord",
	0x08: "Signed DWord",
}

var ParameterDescriptionCCNames = Names{
	0x01: "Get",
	0x02: "Set",
	0x03: "Get/Set",
}

var LampStateNames = Names{
	0x00: "Off",
	0x01: "On",
	0x02: "Strike",
	0x03: "Standby",
	0x04: "Not Present",
	0x7F: "Error",
}

var LampOnModeNames = Names{
	0x00: "Off",
	0x01: "DMX",
	0x02: "On",
	0x03: "After Calibration",
}

var PowerStateNames = Names{
	0x00: "Full Off",
	0x01: "Shutdown",
	0x02: "Standby",
	0xFF: "Normal",
}

var ResetDeviceNames = Names{
	0x01: "Warm",
	0xFF: "Cold",
}

var DisplayInvertNames = Names{
	0x00: "Off",
	0x01: "On",
	0x02: "Auto",
}

var SelfTestNames = Names{
	0x00: "Off",
	0xFF: "All",
}

var SlotTypeNames = Names{
	0x00: "Primary",
	0x01: "Secondary Fine",
	0x02: "Secondary Timing",
	0x03: "Secondary Speed",
	0x04: "Secondary Control",
	0x05: "Secondary Index",
	0x06: "Secondary Rotation",
	0x07: "Secondary Index Rotate",
	0xFF: "Secondary Undefined",
}

var SlotLabelNames = Names{
	0x0001: "Intensity",
	0x0002: "Intensity Master",
	0x0101: "Pan",
	0x0102: "Tilt",
	0x0201: "Color Wheel",
	0x0202: "Color Sub Cyan",
	0x0203: "Color Sub Yellow",
	0x0204: "Color Sub Magenta",
	0x0205: "Color Add Red",
	0x0206: "Color Add Green",
	0x0207: "Color Add Blue",
	0x0208: "Color Correction",
	0x0209: "Color Scroll",
	0x0210: "Color Semaphore",
	0x0211: "Color Add Amber",
	0x0212: "Color Add White",
	0x0213: "Color Add Warm White",
	0x0214: "Color Add Cool White",
	0x0215: "Color Sub UV",
	0x0216: "Color Hue",
	0x0217: "Color Saturation",
	0x0301: "Static Gobo Wheel",
	0x0302: "Rotating Gobo Wheel",
	0x0303: "Prism Wheel",
	0x0304: "Effects Wheel",
	0x0401: "Beam Size Iris",
	0x0402: "Edge",
	0x0403: "Frost",
	0x0404: "Strobe",
	0x0405: "Zoom",
	0x0406: "Framing Shutter",
	0x0407: "Shutter Rotate",
	0x0408: "Douser",
	0x0409: "Barn Door",
	0x0501: "Lamp Control",
	0x0502: "Fixture Control",
	0x0503: "Fixture Speed",
	0x0504: "Macro",
	0x0505: "Power Control",
	0x0506: "Fan Control",
	0x0507: "Heater Control",
	0x0508: "Fountain Control",
	0xFFFF: "Undefined",
}

var IdentifyModeNames = Names{
	0x00: "Quiet",
	0xFF: "Loud",
}

var MergeModeNames = Names{
	0x00: "Default",
	0x01: "HTP",
	0x02: "LTP",
	0x03: "DMX Only",
	0xFF: "Other",
}

var DHCPModeNames = Names{
	0x00: "Inactive",
	0x01: "Active",
	0x02: "Unknown",
}

var HardwareTypeNames = Names{
	0x0001: "Ethernet",
}

// ManufacturerNames holds the ESTA manufacturer ids rdmscope knows by name.
// Additional names may be layered on through decoder options.
var ManufacturerNames = Names{
	0x0000: "PLASA / ESTA",
	0x4164: "Avolites",
	0x4144: "ADJ Products",
	0x4C55: "LumenRadio",
	0x4D50: "Martin Professional",
	0x5253: "Robe Show Lighting",
	0x6574: "ETC",
	0x6864: "City Theatrical",
	0x7a70: "Open Lighting Project",
	0xFFFF: "Broadcast",
}

// ManufacturerName returns the name registered for an ESTA manufacturer id.
// The 0x7FF0-0x7FFF block is reserved for prototypes.
func ManufacturerName(id uint16) string {
	if name, ok := ManufacturerNames.Lookup(uint64(id)); ok {
		return name
	}
	if id >= 0x7FF0 && id <= 0x7FFF {
		return "Prototype"
	}
	return "Unknown"
}
