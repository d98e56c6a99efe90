// Package discovery provides mDNS-based discovery of RDMnet brokers.
//
// E1.33 brokers advertise themselves as "_rdmnet._tcp" services with TXT
// records describing the broker:
//
//	E133Scope=default  CID=...  UID=6574:00000001  Model=...  Manuf=...
//
// A Scanner browses for a service type for a fixed time and returns what it
// found, optionally filtered to one scope. The same machinery finds other
// rdmscope ingest servers, which register under "_rdmscope._tcp" via
// Advertise.
//
// # Usage Example
//
//	brokers, err := discovery.ScanBrokers(ctx, "default", 5*time.Second)
//	if err != nil {
//	    return err
//	}
//	for _, b := range brokers {
//	    fmt.Println(b)
//	}
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Brokers must be on the same local network segment
// - Firewall must allow mDNS (UDP port 5353)
package discovery
