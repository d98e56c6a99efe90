package discovery

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/muurk/rdmscope/internal/logging"
	"github.com/muurk/rdmscope/internal/rdm"
)

const (
	// ServiceRDMnet is the DNS-SD service type of E1.33 brokers
	ServiceRDMnet = "_rdmnet._tcp"

	// ServiceIngest is advertised by "rdmscope serve"
	ServiceIngest = "_rdmscope._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// IngestPath is the websocket endpoint of an ingest server
	IngestPath = "/ws"

	// DefaultScanTimeout is the default timeout for discovery
	DefaultScanTimeout = 5 * time.Second

	// DefaultScope is the E1.33 default scope
	DefaultScope = "default"
)

// E1.33 TXT record keys
const (
	txtScope        = "E133Scope"
	txtCID          = "CID"
	txtUID          = "UID"
	txtModel        = "Model"
	txtManufacturer = "Manuf"
)

// Scanner handles mDNS discovery
type Scanner struct {
	// Timeout is the maximum time to wait for responses
	Timeout time.Duration

	// Service is the service type to browse
	Service string

	// Scope filters RDMnet brokers by E133Scope; empty matches all
	Scope string
}

// NewScanner creates a scanner for brokers in any scope
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
		Service: ServiceRDMnet,
	}
}

// Scan collects every matching service seen before the timeout
func (s *Scanner) Scan(ctx context.Context) ([]*Broker, error) {
	var (
		mu      sync.Mutex
		brokers = make([]*Broker, 0)
		seen    = make(map[string]bool)
	)
	err := s.browse(ctx, func(b *Broker) bool {
		mu.Lock()
		defer mu.Unlock()
		key := b.Instance + "|" + b.Address()
		if !seen[key] {
			seen[key] = true
			brokers = append(brokers, b)
		}
		return false
	})
	if err != nil {
		return nil, err
	}

	mu.Lock()
	defer mu.Unlock()
	return brokers, nil
}

// WaitFor returns the first service accepted by match
func (s *Scanner) WaitFor(ctx context.Context, match func(*Broker) bool) (*Broker, error) {
	found := make(chan *Broker, 1)
	err := s.browse(ctx, func(b *Broker) bool {
		if !match(b) {
			return false
		}
		select {
		case found <- b:
		default:
		}
		return true
	})
	if err != nil {
		return nil, err
	}

	select {
	case b := <-found:
		return b, nil
	default:
		return nil, fmt.Errorf("no matching %s service found within %s", s.Service, s.Timeout)
	}
}

// FindBroker waits for the broker with the given CID
func (s *Scanner) FindBroker(ctx context.Context, cid string) (*Broker, error) {
	return s.WaitFor(ctx, func(b *Broker) bool {
		return strings.EqualFold(b.CID, cid)
	})
}

// browse feeds parsed entries to fn until the timeout or until fn returns
// true
func (s *Scanner) browse(ctx context.Context, fn func(*Broker) bool) error {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry)
	go func() {
		for entry := range entries {
			b := s.parseServiceEntry(entry)
			if b == nil {
				continue
			}
			logging.Debug("Discovered service",
				zap.String("instance", b.Instance),
				zap.String("addr", b.Address()),
				zap.String("scope", b.Scope),
			)
			if fn(b) {
				cancel()
			}
		}
	}()

	if err := resolver.Browse(ctx, s.service(), ServiceDomain, entries); err != nil {
		return fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-ctx.Done()
	return nil
}

func (s *Scanner) service() string {
	if s.Service == "" {
		return ServiceRDMnet
	}
	return s.Service
}

// parseServiceEntry converts a zeroconf service entry to a Broker.
// Returns nil for entries without an address or port, or outside the scope.
func (s *Scanner) parseServiceEntry(entry *zeroconf.ServiceEntry) *Broker {
	if entry.Port == 0 {
		return nil
	}

	// Get IP address (prefer IPv4)
	var ip string
	if len(entry.AddrIPv4) > 0 {
		ip = entry.AddrIPv4[0].String()
	} else if len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return nil
	}

	// TXT records are in "key=value" format
	metadata := make(map[string]string)
	for _, txt := range entry.Text {
		key, value, _ := strings.Cut(txt, "=")
		metadata[key] = value
	}

	b := &Broker{
		Instance:     entry.Instance,
		Service:      s.service(),
		Hostname:     entry.HostName,
		IP:           ip,
		Port:         entry.Port,
		Scope:        metadata[txtScope],
		CID:          metadata[txtCID],
		Model:        metadata[txtModel],
		Manufacturer: metadata[txtManufacturer],
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
	if v := metadata[txtUID]; v != "" {
		if uid, err := rdm.ParseUID(v); err == nil {
			b.UID = uid
		}
	}

	if b.Service == ServiceRDMnet {
		if b.Scope == "" {
			b.Scope = DefaultScope
		}
		if s.Scope != "" && b.Scope != s.Scope {
			return nil
		}
	}
	return b
}

// ScanBrokers is a convenience function to scan for brokers in scope
func ScanBrokers(ctx context.Context, scope string, timeout time.Duration) ([]*Broker, error) {
	scanner := NewScanner()
	scanner.Scope = scope
	scanner.Timeout = timeout
	return scanner.Scan(ctx)
}

// ScanIngest finds other rdmscope ingest servers
func ScanIngest(ctx context.Context, timeout time.Duration) ([]*Broker, error) {
	scanner := &Scanner{Timeout: timeout, Service: ServiceIngest}
	return scanner.Scan(ctx)
}
