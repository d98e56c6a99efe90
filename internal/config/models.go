package config

import (
	"fmt"
	"time"

	"github.com/muurk/rdmscope/internal/rdm"
)

// Registry represents the entire user configuration file.
type Registry struct {
	Version     int                `yaml:"version"`
	Preferences *Preferences       `yaml:"preferences,omitempty"`
	Devices     map[string]*Device `yaml:"devices,omitempty"` // Keyed by UID string
	Vendors     []*Vendor          `yaml:"vendors,omitempty"`
}

// Device represents user-defined metadata for one RDM responder
type Device struct {
	Nickname string    `yaml:"nickname,omitempty"`
	Notes    string    `yaml:"notes,omitempty"`
	LastSeen time.Time `yaml:"last_seen,omitempty"` // Last time the UID appeared in a decode
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	Format          string `yaml:"format"`                // Default output format: text, json or cbor
	ShowHeader      bool   `yaml:"show_header"`           // Include envelope fields in text output
	ServeAddr       string `yaml:"serve_addr,omitempty"`  // Default listen address for serve
	DiscoverTimeout int    `yaml:"discover_timeout"`      // mDNS discovery timeout in seconds
	CaptureDir      string `yaml:"capture_dir,omitempty"` // Default directory for capture files
}

func defaultPreferences() *Preferences {
	return &Preferences{
		Format:          "text",
		ShowHeader:      true,
		ServeAddr:       ":8080",
		DiscoverTimeout: 5,
	}
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version:     1,
		Devices:     make(map[string]*Device),
		Preferences: defaultPreferences(),
	}
}

// normalizeDevices rewrites device keys in canonical UID form so lookups are
// independent of how the user typed them.
func (r *Registry) normalizeDevices() error {
	out := make(map[string]*Device, len(r.Devices))
	for key, d := range r.Devices {
		uid, err := rdm.ParseUID(key)
		if err != nil {
			return fmt.Errorf("device %q: %w", key, err)
		}
		out[uid.String()] = d
	}
	r.Devices = out
	return nil
}

// GetDevice retrieves device metadata by UID.
// Returns nil if the device doesn't exist in the registry.
func (r *Registry) GetDevice(uid rdm.UID) *Device {
	return r.Devices[uid.String()]
}

// EnsureDevice ensures a device entry exists in the registry.
// Returns the device entry (existing or newly created).
func (r *Registry) EnsureDevice(uid rdm.UID) *Device {
	if r.Devices == nil {
		r.Devices = make(map[string]*Device)
	}

	key := uid.String()
	if device, exists := r.Devices[key]; exists {
		return device
	}

	device := &Device{}
	r.Devices[key] = device
	return device
}

// SetDeviceNickname sets a user-friendly nickname for a device.
func (r *Registry) SetDeviceNickname(uid rdm.UID, nickname string) {
	r.EnsureDevice(uid).Nickname = nickname
}

// UpdateDeviceLastSeen records that a device appeared in a decoded message.
func (r *Registry) UpdateDeviceLastSeen(uid rdm.UID) {
	r.EnsureDevice(uid).LastSeen = time.Now()
}

// Nicknames returns the nickname of every device that has one
func (r *Registry) Nicknames() map[rdm.UID]string {
	out := make(map[rdm.UID]string)
	for key, d := range r.Devices {
		if d == nil || d.Nickname == "" {
			continue
		}
		uid, err := rdm.ParseUID(key)
		if err != nil {
			continue
		}
		out[uid] = d.Nickname
	}
	return out
}
