package rdm

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// Parameter ids from ANSI E1.20
const (
	PIDDiscUniqueBranch          uint16 = 0x0001
	PIDDiscMute                  uint16 = 0x0002
	PIDDiscUnMute                uint16 = 0x0003
	PIDProxiedDevices            uint16 = 0x0010
	PIDProxiedDeviceCount        uint16 = 0x0011
	PIDCommsStatus               uint16 = 0x0015
	PIDQueuedMessage             uint16 = 0x0020
	PIDStatusMessages            uint16 = 0x0030
	PIDStatusIDDescription       uint16 = 0x0031
	PIDClearStatusID             uint16 = 0x0032
	PIDSubDeviceStatusThreshold  uint16 = 0x0033
	PIDSupportedParameters       uint16 = 0x0050
	PIDParameterDescription      uint16 = 0x0051
	PIDDeviceInfo                uint16 = 0x0060
	PIDProductDetailIDList       uint16 = 0x0070
	PIDDeviceModelDescription    uint16 = 0x0080
	PIDManufacturerLabel         uint16 = 0x0081
	PIDDeviceLabel               uint16 = 0x0082
	PIDFactoryDefaults           uint16 = 0x0090
	PIDLanguageCapabilities      uint16 = 0x00A0
	PIDLanguage                  uint16 = 0x00B0
	PIDSoftwareVersionLabel      uint16 = 0x00C0
	PIDBootSoftwareVersionID     uint16 = 0x00C1
	PIDBootSoftwareVersionLabel  uint16 = 0x00C2
	PIDDMXPersonality            uint16 = 0x00E0
	PIDDMXPersonalityDescription uint16 = 0x00E1
	PIDDMXStartAddress           uint16 = 0x00F0
	PIDSlotInfo                  uint16 = 0x0120
	PIDSlotDescription           uint16 = 0x0121
	PIDDefaultSlotValue          uint16 = 0x0122
	PIDSensorDefinition          uint16 = 0x0200
	PIDSensorValue               uint16 = 0x0201
	PIDRecordSensors             uint16 = 0x0202
	PIDDeviceHours               uint16 = 0x0400
	PIDLampHours                 uint16 = 0x0401
	PIDLampStrikes               uint16 = 0x0402
	PIDLampState                 uint16 = 0x0403
	PIDLampOnMode                uint16 = 0x0404
	PIDDevicePowerCycles         uint16 = 0x0405
	PIDDisplayInvert             uint16 = 0x0500
	PIDDisplayLevel              uint16 = 0x0501
	PIDPanInvert                 uint16 = 0x0600
	PIDTiltInvert                uint16 = 0x0601
	PIDPanTiltSwap               uint16 = 0x0602
	PIDRealTimeClock             uint16 = 0x0603
	PIDIdentifyDevice            uint16 = 0x1000
	PIDResetDevice               uint16 = 0x1001
	PIDPowerState                uint16 = 0x1010
	PIDPerformSelfTest           uint16 = 0x1020
	PIDSelfTestDescription       uint16 = 0x1021
	PIDCapturePreset             uint16 = 0x1030
	PIDPresetPlayback            uint16 = 0x1031
)

// Parameter ids from ANSI E1.37-1 (dimmer and preset messages)
const (
	PIDDMXBlockAddress                uint16 = 0x0140
	PIDDMXFailMode                    uint16 = 0x0141
	PIDDMXStartupMode                 uint16 = 0x0142
	PIDDimmerInfo                     uint16 = 0x0340
	PIDMinimumLevel                   uint16 = 0x0341
	PIDMaximumLevel                   uint16 = 0x0342
	PIDCurve                          uint16 = 0x0343
	PIDCurveDescription               uint16 = 0x0344
	PIDOutputResponseTime             uint16 = 0x0345
	PIDOutputResponseTimeDescription  uint16 = 0x0346
	PIDModulationFrequency            uint16 = 0x0347
	PIDModulationFrequencyDescription uint16 = 0x0348
	PIDBurnIn                         uint16 = 0x0440
	PIDLockPIN                        uint16 = 0x0640
	PIDLockState                      uint16 = 0x0641
	PIDLockStateDescription           uint16 = 0x0642
	PIDIdentifyMode                   uint16 = 0x1040
	PIDPresetInfo                     uint16 = 0x1041
	PIDPresetStatus                   uint16 = 0x1042
	PIDPresetMergeMode                uint16 = 0x1043
	PIDPowerOnSelfTest                uint16 = 0x1044
)

// Parameter ids from ANSI E1.37-2 (IPv4 and DNS configuration)
const (
	PIDListInterfaces                uint16 = 0x0700
	PIDInterfaceLabel                uint16 = 0x0701
	PIDInterfaceHardwareAddressType1 uint16 = 0x0702
	PIDIPv4DHCPMode                  uint16 = 0x0703
	PIDIPv4ZeroconfMode              uint16 = 0x0704
	PIDIPv4CurrentAddress            uint16 = 0x0705
	PIDIPv4StaticAddress             uint16 = 0x0706
	PIDInterfaceRenewDHCP            uint16 = 0x0707
	PIDInterfaceReleaseDHCP          uint16 = 0x0708
	PIDInterfaceApplyConfiguration   uint16 = 0x0709
	PIDIPv4DefaultRoute              uint16 = 0x070A
	PIDDNSIPv4NameServer             uint16 = 0x070B
	PIDDNSHostname                   uint16 = 0x070C
	PIDDNSDomainName                 uint16 = 0x070D
)

// PIDNames labels every standard parameter id
var PIDNames = Names{
	0x0001: "DISC_UNIQUE_BRANCH",
	0x0002: "DISC_MUTE",
	0x0003: "DISC_UN_MUTE",
	0x0010: "PROXIED_DEVICES",
	0x0011: "PROXIED_DEVICE_COUNT",
	0x0015: "COMMS_STATUS",
	0x0020: "QUEUED_MESSAGE",
	0x0030: "STATUS_MESSAGES",
	0x0031: "STATUS_ID_DESCRIPTION",
	0x0032: "CLEAR_STATUS_ID",
	0x0033: "SUB_DEVICE_STATUS_REPORT_THRESHOLD",
	0x0050: "SUPPORTED_PARAMETERS",
	0x0051: "PARAMETER_DESCRIPTION",
	0x0060: "DEVICE_INFO",
	0x0070: "PRODUCT_DETAIL_ID_LIST",
	0x0080: "DEVICE_MODEL_DESCRIPTION",
	0x0081: "MANUFACTURER_LABEL",
	0x0082: "DEVICE_LABEL",
	0x0090: "FACTORY_DEFAULTS",
	0x00A0: "LANGUAGE_CAPABILITIES",
	0x00B0: "LANGUAGE",
	0x00C0: "SOFTWARE_VERSION_LABEL",
	0x00C1: "BOOT_SOFTWARE_VERSION_ID",
	0x00C2: "BOOT_SOFTWARE_VERSION_LABEL",
	0x00E0: "DMX_PERSONALITY",
	0x00E1: "DMX_PERSONALITY_DESCRIPTION",
	0x00F0: "DMX_START_ADDRESS",
	0x0120: "SLOT_INFO",
	0x0121: "SLOT_DESCRIPTION",
	0x0122: "DEFAULT_SLOT_VALUE",
	0x0140: "DMX_BLOCK_ADDRESS",
	0x0141: "DMX_FAIL_MODE",
	0x0142: "DMX_STARTUP_MODE",
	0x0200: "SENSOR_DEFINITION",
	0x0201: "SENSOR_VALUE",
	0x0202: "RECORD_SENSORS",
	0x0340: "DIMMER_INFO",
	0x0341: "MINIMUM_LEVEL",
	0x0342: "MAXIMUM_LEVEL",
	0x0343: "CURVE",
	0x0344: "CURVE_DESCRIPTION",
	0x0345: "OUTPUT_RESPONSE_TIME",
	0x0346: "OUTPUT_RESPONSE_TIME_DESCRIPTION",
	0x0347: "MODULATION_FREQUENCY",
	0x0348: "MODULATION_FREQUENCY_DESCRIPTION",
	0x0400: "DEVICE_HOURS",
	0x0401: "LAMP_HOURS",
	0x0402: "LAMP_STRIKES",
	0x0403: "LAMP_STATE",
	0x0404: "LAMP_ON_MODE",
	0x0405: "DEVICE_POWER_CYCLES",
	0x0440: "BURN_IN",
	0x0500: "DISPLAY_INVERT",
	0x0501: "DISPLAY_LEVEL",
	0x0600: "PAN_INVERT",
	0x0601: "TILT_INVERT",
	0x0602: "PAN_TILT_SWAP",
	0x0603: "REAL_TIME_CLOCK",
	0x0640: "LOCK_PIN",
	0x0641: "LOCK_STATE",
	0x0642: "LOCK_STATE_DESCRIPTION",
	0x0700: "LIST_INTERFACES",
	0x0701: "INTERFACE_LABEL",
	0x0702: "INTERFACE_HARDWARE_ADDRESS_TYPE1",
	0x0703: "IPV4_DHCP_MODE",
	0x0704: "IPV4_ZEROCONF_MODE",
	0x0705: "IPV4_CURRENT_ADDRESS",
	0x0706: "IPV4_STATIC_ADDRESS",
	0x0707: "INTERFACE_RENEW_DHCP",
	0x0708: "INTERFACE_RELEASE_DHCP",
	0x0709: "INTERFACE_APPLY_CONFIGURATION",
	0x070A: "IPV4_DEFAULT_ROUTE",
	0x070B: "DNS_IPV4_NAME_SERVER",
	0x070C: "DNS_HOSTNAME",
	0x070D: "DNS_DOMAIN_NAME",
	0x1000: "IDENTIFY_DEVICE",
	0x1001: "RESET_DEVICE",
	0x1010: "POWER_STATE",
	0x1020: "PERFORM_SELFTEST",
	0x1021: "SELF_TEST_DESCRIPTION",
	0x1030: "CAPTURE_PRESET",
	0x1031: "PRESET_PLAYBACK",
	0x1040: "IDENTIFY_MODE",
	0x1041: "PRESET_INFO",
	0x1042: "PRESET_STATUS",
	0x1043: "PRESET_MERGEMODE",
	0x1044: "POWER_ON_SELF_TEST",
}

// ParsePID accepts a standard parameter name ("DEVICE_INFO", "device-info")
// or a numeric value ("0x0060", "96").
func ParsePID(s string) (uint16, error) {
	s = strings.TrimSpace(s)
	if v, err := strconv.ParseUint(s, 0, 16); err == nil {
		return uint16(v), nil
	}
	key := strings.ToUpper(strings.NewReplacer("-", "_", " ", "_").Replace(s))
	for id, name := range PIDNames {
		if name == key {
			return uint16(id), nil
		}
	}
	return 0, fmt.Errorf("unknown parameter %q", s)
}

// pid builds a standard descriptor named from PIDNames
func pid(id uint16, opts ...RuleOption) *Descriptor {
	name, ok := PIDNames.Lookup(uint64(id))
	if !ok {
		name = "UNKNOWN"
	}
	return NewDescriptor(id, name, opts...)
}

var (
	standardOnce  sync.Once
	standardTable *Table
)

// StandardTable returns the table of E1.20, E1.37-1 and E1.37-2 parameters.
// It is built on first use and shared read-only afterwards.
func StandardTable() *Table {
	standardOnce.Do(func() {
		descs := append(e120Descriptors(), e137Descriptors()...)
		standardTable = NewTable(descs...)
	})
	return standardTable
}
