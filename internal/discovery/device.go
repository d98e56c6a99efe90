package discovery

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/muurk/rdmscope/internal/rdm"
)

// Broker represents a service found on the network: an RDMnet broker or
// another rdmscope ingest server
type Broker struct {
	// Instance is the DNS-SD instance name (e.g., "Lighting Broker")
	Instance string

	// Service is the service type it was found under
	Service string

	// Hostname is the mDNS hostname (e.g., "broker-1.local.")
	Hostname string

	// IP is the address to connect to, IPv4 preferred
	IP string

	// Port is the TCP port the service listens on
	Port int

	// Scope is the E1.33 scope from the E133Scope TXT key
	Scope string

	// CID is the broker component id from the CID TXT key
	CID string

	// UID is the broker's RDM UID; zero when the TXT record has none
	UID rdm.UID

	// Model and Manufacturer come from the Model and Manuf TXT keys
	Model        string
	Manufacturer string

	// Metadata contains all TXT record data
	Metadata map[string]string

	// DiscoveredAt is when the service was discovered
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the broker
func (b *Broker) String() string {
	if b.Service == ServiceIngest {
		return fmt.Sprintf("rdmscope %q at %s", b.Instance, b.Address())
	}
	return fmt.Sprintf("RDMnet broker %q (scope %q) at %s", b.Instance, b.Scope, b.Address())
}

// Address returns host:port, bracketing IPv6 addresses
func (b *Broker) Address() string {
	return net.JoinHostPort(b.IP, strconv.Itoa(b.Port))
}

// WebSocketURL returns the ingest endpoint of an rdmscope server
func (b *Broker) WebSocketURL() string {
	return "ws://" + b.Address() + IngestPath
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (b *Broker) GetMetadata(key string) string {
	if b.Metadata == nil {
		return ""
	}
	return b.Metadata[key]
}
