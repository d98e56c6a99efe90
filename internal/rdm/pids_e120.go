package rdm

// e120Descriptors returns the decode rules for the base E1.20 parameters
func e120Descriptors() []*Descriptor {
	statusType := Enum8("Status Type", StatusTypeNames)

	return []*Descriptor{
		// Discovery
		pid(PIDDiscUniqueBranch,
			discCmd(UIDSpec("Lower Bound UID"), UIDSpec("Upper Bound UID"))),
		pid(PIDDiscMute,
			discResp(U16("Control Field"), When([]int{8}, UIDSpec("Binding UID")))),
		pid(PIDDiscUnMute,
			discResp(U16("Control Field"), When([]int{8}, UIDSpec("Binding UID")))),

		// Network management
		pid(PIDProxiedDevices,
			getResp(Repeat("Device UIDs", UIDSpec("Device UID")))),
		pid(PIDProxiedDeviceCount,
			getResp(U16("Device Count"), Bool("List Change"))),
		pid(PIDCommsStatus,
			getResp(U16("Short Message"), U16("Length Mismatch"), U16("Checksum Fail"))),

		// Status collection
		pid(PIDQueuedMessage,
			getCmd(statusType)),
		pid(PIDStatusMessages,
			getCmd(statusType),
			getResp(Repeat("Status Message",
				U16("Sub-Device ID"),
				statusType,
				U16("Status Message ID"),
				I16("Data Value 1"),
				I16("Data Value 2"),
			))),
		pid(PIDStatusIDDescription,
			getCmd(U16("Status ID")),
			getResp(Tail("Description"))),
		pid(PIDClearStatusID),
		pid(PIDSubDeviceStatusThreshold,
			getSet(statusType)),

		// RDM information
		pid(PIDSupportedParameters,
			getResp(Repeat("Supported Parameters", Enum16("PID", PIDNames)))),
		pid(PIDParameterDescription,
			getCmd(Enum16("PID", PIDNames)),
			getResp(
				U16("PID"),
				U8("PDL Size"),
				Enum8("Data Type", DataTypeNames),
				Enum8("Command Class", ParameterDescriptionCCNames),
				U8("Type"),
				Enum8("Unit", SensorUnitNames),
				Enum8("Prefix", SensorPrefixNames),
				U32("Min Valid Value"),
				U32("Max Valid Value"),
				U32("Default Value"),
				Tail("Description"),
			)),

		// Product information
		pid(PIDDeviceInfo,
			getResp(
				U16("Protocol Version"),
				U16("Device Model ID"),
				Enum16("Product Category", ProductCategoryNames),
				U32("Software Version ID"),
				U16("DMX Footprint"),
				U8("Current Personality"),
				U8("Personality Count"),
				U16("DMX Start Address"),
				U16("Sub-Device Count"),
				U8("Sensor Count"),
			)),
		pid(PIDProductDetailIDList,
			getResp(Repeat("Product Detail IDs", Enum16("Product Detail ID", ProductDetailNames)))),
		pid(PIDDeviceModelDescription,
			getResp(Tail("Device Model Description"))),
		pid(PIDManufacturerLabel,
			getResp(Tail("Manufacturer Label"))),
		pid(PIDDeviceLabel,
			getSet(Tail("Device Label"))),
		pid(PIDFactoryDefaults,
			getResp(Bool("Factory Defaults"))),
		pid(PIDLanguageCapabilities,
			getResp(Repeat("Languages", ASCII("Language Code", 2)))),
		pid(PIDLanguage,
			getSet(ASCII("Language Code", 2))),
		pid(PIDSoftwareVersionLabel,
			getResp(Tail("Software Version Label"))),
		pid(PIDBootSoftwareVersionID,
			getResp(U32("Boot Software Version ID"))),
		pid(PIDBootSoftwareVersionLabel,
			getResp(Tail("Boot Software Version Label"))),

		// DMX512 setup
		pid(PIDDMXPersonality,
			getResp(U8("Current Personality"), U8("Personality Count")),
			setCmd(U8("Personality"))),
		pid(PIDDMXPersonalityDescription,
			getCmd(U8("Personality")),
			getResp(U8("Personality"), U16("DMX Slots Required"), Tail("Description"))),
		pid(PIDDMXStartAddress,
			getSet(U16("DMX Start Address"))),
		pid(PIDSlotInfo,
			getResp(Repeat("Slot",
				U16("Slot Offset"),
				Enum8("Slot Type", SlotTypeNames),
				Enum16("Slot Label ID", SlotLabelNames),
			))),
		pid(PIDSlotDescription,
			getCmd(U16("Slot Number")),
			getResp(U16("Slot Number"), Tail("Description"))),
		pid(PIDDefaultSlotValue,
			getResp(Repeat("Default Slot Value", U16("Slot Offset"), U8("Default Value")))),

		// Sensors
		pid(PIDSensorDefinition,
			getCmd(U8("Sensor Number")),
			getResp(
				U8("Sensor Number"),
				Enum8("Type", SensorTypeNames),
				Enum8("Unit", SensorUnitNames),
				Enum8("Prefix", SensorPrefixNames),
				I16("Range Minimum Value"),
				I16("Range Maximum Value"),
				I16("Normal Minimum Value"),
				I16("Normal Maximum Value"),
				U8("Recorded Value Support"),
				Tail("Description"),
			)),
		pid(PIDSensorValue,
			getCmd(U8("Sensor Number")),
			setCmd(U8("Sensor Number")),
			getResp(sensorValue...),
			setResp(sensorValue...)),
		pid(PIDRecordSensors,
			setCmd(U8("Sensor Number"))),

		// Power and lamp settings
		pid(PIDDeviceHours, getSet(U32("Device Hours"))),
		pid(PIDLampHours, getSet(U32("Lamp Hours"))),
		pid(PIDLampStrikes, getSet(U32("Lamp Strikes"))),
		pid(PIDLampState, getSet(Enum8("Lamp State", LampStateNames))),
		pid(PIDLampOnMode, getSet(Enum8("Lamp On Mode", LampOnModeNames))),
		pid(PIDDevicePowerCycles, getSet(U32("Device Power Cycles"))),

		// Display settings
		pid(PIDDisplayInvert, getSet(Enum8("Display Invert", DisplayInvertNames))),
		pid(PIDDisplayLevel, getSet(U8("Display Level"))),

		// Device configuration
		pid(PIDPanInvert, getSet(Bool("Pan Invert"))),
		pid(PIDTiltInvert, getSet(Bool("Tilt Invert"))),
		pid(PIDPanTiltSwap, getSet(Bool("Pan Tilt Swap"))),
		pid(PIDRealTimeClock,
			getSet(U16("Year"), U8("Month"), U8("Day"), U8("Hour"), U8("Minute"), U8("Second"))),

		// Control
		pid(PIDIdentifyDevice, getSet(Bool("Identify Device"))),
		pid(PIDResetDevice, setCmd(Enum8("Reset Type", ResetDeviceNames))),
		pid(PIDPowerState, getSet(Enum8("Power State", PowerStateNames))),
		pid(PIDPerformSelfTest,
			getResp(Bool("Self Test Active")),
			setCmd(Enum8("Self Test ID", SelfTestNames))),
		pid(PIDSelfTestDescription,
			getCmd(U8("Self Test ID")),
			getResp(U8("Self Test ID"), Tail("Description"))),
		pid(PIDCapturePreset,
			setCmd(U16("Scene"), U16("Up Fade Time"), U16("Down Fade Time"), U16("Wait Time"))),
		pid(PIDPresetPlayback,
			getSet(U16("Mode"), U8("Level"))),
	}
}

// sensorValue carries optional low/high and recorded values selected by the
// exact parameter length: 5 adds recorded, 7 adds low/high, 9 adds both.
var sensorValue = []FieldSpec{
	U8("Sensor Number"),
	I16("Present Value"),
	When([]int{7, 9}, I16("Lowest Detected Value"), I16("Highest Detected Value")),
	When([]int{5, 9}, I16("Recorded Value")),
}
