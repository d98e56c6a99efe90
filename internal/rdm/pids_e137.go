package rdm

// e137Descriptors returns the E1.37-1 dimmer/preset and E1.37-2 network
// configuration parameters.
func e137Descriptors() []*Descriptor {
	iface := U32("Interface Identifier")

	return []*Descriptor{
		// DMX addressing and fail/startup behaviour
		pid(PIDDMXBlockAddress,
			getResp(U16("Sub-Device Footprint"), U16("Base DMX Address")),
			setCmd(U16("Base DMX Address"))),
		pid(PIDDMXFailMode,
			getSet(U16("Scene"), U16("Loss Of Signal Delay"), U16("Hold Time"), U8("Level"))),
		pid(PIDDMXStartupMode,
			getSet(U16("Scene"), U16("Startup Delay"), U16("Hold Time"), U8("Level"))),

		// Dimmer settings
		pid(PIDDimmerInfo,
			getResp(
				U16("Minimum Level Lower Limit"),
				U16("Minimum Level Upper Limit"),
				U16("Maximum Level Lower Limit"),
				U16("Maximum Level Upper Limit"),
				U8("Number Of Supported Curves"),
				U8("Levels Resolution"),
				Bool("Minimum Level Split Levels Supported"),
			)),
		pid(PIDMinimumLevel,
			getSet(U16("Minimum Level Increasing"), U16("Minimum Level Decreasing"), Bool("On Below Minimum"))),
		pid(PIDMaximumLevel,
			getSet(U16("Maximum Level"))),
		pid(PIDCurve,
			getResp(U8("Current Curve"), U8("Number Of Curves")),
			setCmd(U8("Curve"))),
		pid(PIDCurveDescription,
			getCmd(U8("Curve")),
			getResp(U8("Curve"), Tail("Description"))),
		pid(PIDOutputResponseTime,
			getResp(U8("Current Response Time"), U8("Number Of Response Times")),
			setCmd(U8("Response Time"))),
		pid(PIDOutputResponseTimeDescription,
			getCmd(U8("Response Time")),
			getResp(U8("Response Time"), Tail("Description"))),
		pid(PIDModulationFrequency,
			getResp(U8("Current Modulation Frequency"), U8("Number Of Modulation Frequencies")),
			setCmd(U8("Modulation Frequency"))),
		pid(PIDModulationFrequencyDescription,
			getCmd(U8("Modulation Frequency")),
			getResp(U8("Modulation Frequency"), U32("Frequency"), Tail("Description"))),
		pid(PIDBurnIn,
			getSet(U8("Hours Remaining"))),

		// Lock
		pid(PIDLockPIN,
			getResp(U16("PIN Code")),
			setCmd(U16("New PIN Code"), U16("Current PIN Code"))),
		pid(PIDLockState,
			getResp(U8("Current Lock State"), U8("Number Of Lock States")),
			setCmd(U16("PIN Code"), U8("Lock State"))),
		pid(PIDLockStateDescription,
			getCmd(U8("Lock State")),
			getResp(U8("Lock State"), Tail("Description"))),

		// Identify and presets
		pid(PIDIdentifyMode,
			getSet(Enum8("Identify Mode", IdentifyModeNames))),
		pid(PIDPresetInfo,
			getResp(
				Bool("Level Field Supported"),
				Bool("Preset Sequence Supported"),
				Bool("Split Times Supported"),
				Bool("DMX Fail Infinite Delay Time Supported"),
				Bool("DMX Fail Infinite Hold Time Supported"),
				Bool("Startup Infinite Hold Time Supported"),
				U16("Maximum Scene Number"),
				U16("Minimum Preset Fade Time"),
				U16("Maximum Preset Fade Time"),
				U16("Minimum Preset Wait Time"),
				U16("Maximum Preset Wait Time"),
				U16("Minimum DMX Fail Delay Time"),
				U16("Maximum DMX Fail Delay Time"),
				U16("Minimum DMX Fail Hold Time"),
				U16("Maximum DMX Fail Hold Time"),
				U16("Minimum Startup Delay Time"),
				U16("Maximum Startup Delay Time"),
				U16("Minimum Startup Hold Time"),
				U16("Maximum Startup Hold Time"),
			)),
		pid(PIDPresetStatus,
			getCmd(U16("Scene Number")),
			getResp(U16("Scene Number"), U16("Up Fade Time"), U16("Down Fade Time"), U16("Wait Time"), U8("Programmed")),
			setCmd(U16("Scene Number"), U16("Up Fade Time"), U16("Down Fade Time"), U16("Wait Time"), Bool("Clear Preset"))),
		pid(PIDPresetMergeMode,
			getSet(Enum8("Merge Mode", MergeModeNames))),
		pid(PIDPowerOnSelfTest,
			getSet(Bool("Power On Self Test"))),

		// Network interfaces
		pid(PIDListInterfaces,
			getResp(Repeat("Interface", iface, Enum16("Hardware Type", HardwareTypeNames)))),
		pid(PIDInterfaceLabel,
			getCmd(iface),
			getResp(iface, Tail("Interface Label"))),
		pid(PIDInterfaceHardwareAddressType1,
			getCmd(iface),
			getResp(iface, Raw("Hardware Address", 6))),
		pid(PIDIPv4DHCPMode,
			getCmd(iface),
			getResp(iface, Bool("DHCP")),
			setCmd(iface, Bool("DHCP"))),
		pid(PIDIPv4ZeroconfMode,
			getCmd(iface),
			getResp(iface, Bool("Zeroconf")),
			setCmd(iface, Bool("Zeroconf"))),
		pid(PIDIPv4CurrentAddress,
			getCmd(iface),
			getResp(iface, IPv4("Address"), U8("Netmask"), Enum8("DHCP Status", DHCPModeNames))),
		pid(PIDIPv4StaticAddress,
			getCmd(iface),
			getResp(iface, IPv4("Address"), U8("Netmask")),
			setCmd(iface, IPv4("Address"), U8("Netmask"))),
		pid(PIDInterfaceRenewDHCP, setCmd(iface)),
		pid(PIDInterfaceReleaseDHCP, setCmd(iface)),
		pid(PIDInterfaceApplyConfiguration, setCmd(iface)),
		pid(PIDIPv4DefaultRoute,
			getResp(iface, IPv4("Default Route")),
			setCmd(iface, IPv4("Default Route"))),
		pid(PIDDNSIPv4NameServer,
			getCmd(U8("Name Server Index")),
			getResp(U8("Name Server Index"), IPv4("Name Server Address")),
			setCmd(U8("Name Server Index"), IPv4("Name Server Address"))),
		pid(PIDDNSHostname,
			getSet(Tail("Hostname"))),
		pid(PIDDNSDomainName,
			getSet(Tail("Domain Name"))),
	}
}
