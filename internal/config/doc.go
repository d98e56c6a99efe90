// Package config provides user configuration management for rdmscope.
//
// This package manages a YAML-based configuration file that stores output
// preferences, nicknames for device UIDs and user-defined vendor overlays.
// The configuration follows OS-specific conventions for storage location.
//
// # Configuration File Location
//
//   - Linux: $XDG_CONFIG_HOME/rdmscope/config.yaml or $HOME/.config/rdmscope/config.yaml
//   - macOS: $HOME/.config/rdmscope/config.yaml
//   - Windows: %LOCALAPPDATA%\rdmscope\config.yaml
//
// RDMSCOPE_CONFIG overrides the location.
//
// # Vendor Overlays
//
// Vendors describe manufacturer-specific parameters (ids 0x8000 and up) with
// the same field kinds the built-in tables use:
//
//	version: 1
//	vendors:
//	  - manufacturer_id: 0x4d50
//	    name: Martin
//	    parameters:
//	      - pid: 0x8001
//	        name: FIXTURE_TEMP
//	        get_response:
//	          - {label: Head Temperature, type: int, size: 2}
//
// Registry.Overlays compiles them; the CLI layers the result over the
// built-in overlays, so a configured parameter replaces a built-in one with
// the same id.
//
// # Thread Safety
//
// The global registry uses sync.Once for safe initialization across goroutines.
// File operations are protected by a mutex to ensure atomic writes.
package config
