package discovery

import (
	"fmt"
	"time"
)

// Bridge represents a discovered canbridge instance on the network
type Bridge struct {
	// Instance is the advertised mDNS instance name (e.g., "canbridge-pi4")
	Instance string

	// Hostname is the mDNS hostname (e.g., "pi4.local.")
	Hostname string

	// IP is the address to reach the bridge at (IPv4 preferred)
	IP string

	// Port is the HTTP/websocket port
	Port int

	// Device is the CAN interface the bridge is attached to (from TXT)
	Device string

	// Metadata contains the remaining mDNS TXT record data
	Metadata map[string]string

	// DiscoveredAt is when the bridge was discovered
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the bridge
func (b *Bridge) String() string {
	return fmt.Sprintf("canbridge %s (%s) at %s:%d", b.Instance, b.Device, b.IP, b.Port)
}

// BaseURL returns the HTTP base URL for the bridge
func (b *Bridge) BaseURL() string {
	return fmt.Sprintf("http://%s:%d", b.IP, b.Port)
}

// GetMetadata retrieves a TXT value by key, or returns empty string if not found
func (b *Bridge) GetMetadata(key string) string {
	if b.Metadata == nil {
		return ""
	}
	return b.Metadata[key]
}
