package discovery

import (
	"net"
	"testing"
	"time"

	"github.com/grandcat/zeroconf"
)

func TestScanner_parseServiceEntry(t *testing.T) {
	scanner := NewScanner()

	tests := []struct {
		name       string
		entry      *zeroconf.ServiceEntry
		wantNil    bool
		wantIP     string
		wantPort   int
		wantDevice string
	}{
		{
			name: "valid bridge with IPv4",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "canbridge-pi4"},
				HostName:      "pi4.local.",
				Port:          3000,
				AddrIPv4:      []net.IP{net.ParseIP("192.168.4.16")},
				Text:          []string{"device=can0", "version=1.0.0"},
			},
			wantIP:     "192.168.4.16",
			wantPort:   3000,
			wantDevice: "can0",
		},
		{
			name: "IPv6 only bridge",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "canbridge-lab"},
				HostName:      "lab.local.",
				Port:          3000,
				AddrIPv6:      []net.IP{net.ParseIP("fe80::1")},
				Text:          []string{"device=vcan0"},
			},
			wantIP:     "fe80::1",
			wantPort:   3000,
			wantDevice: "vcan0",
		},
		{
			name: "both address families prefers IPv4",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "canbridge-dual"},
				HostName:      "dual.local.",
				Port:          8080,
				AddrIPv4:      []net.IP{net.ParseIP("10.0.0.5")},
				AddrIPv6:      []net.IP{net.ParseIP("fe80::2")},
			},
			wantIP:   "10.0.0.5",
			wantPort: 8080,
		},
		{
			name: "missing instance name",
			entry: &zeroconf.ServiceEntry{
				HostName: "anon.local.",
				Port:     3000,
				AddrIPv4: []net.IP{net.ParseIP("192.168.1.1")},
			},
			wantNil: true,
		},
		{
			name: "no address",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "canbridge-ghost"},
				HostName:      "ghost.local.",
				Port:          3000,
			},
			wantNil: true,
		},
		{
			name: "zero port",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "canbridge-noport"},
				HostName:      "noport.local.",
				AddrIPv4:      []net.IP{net.ParseIP("192.168.1.2")},
			},
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bridge := scanner.parseServiceEntry(tt.entry)

			if tt.wantNil {
				if bridge != nil {
					t.Errorf("parseServiceEntry() = %v, want nil", bridge)
				}
				return
			}

			if bridge == nil {
				t.Fatal("parseServiceEntry() = nil, want bridge")
			}
			if bridge.IP != tt.wantIP {
				t.Errorf("bridge.IP = %v, want %v", bridge.IP, tt.wantIP)
			}
			if bridge.Port != tt.wantPort {
				t.Errorf("bridge.Port = %v, want %v", bridge.Port, tt.wantPort)
			}
			if bridge.Device != tt.wantDevice {
				t.Errorf("bridge.Device = %v, want %v", bridge.Device, tt.wantDevice)
			}
			if time.Since(bridge.DiscoveredAt) > time.Second {
				t.Errorf("bridge.DiscoveredAt is not recent: %v", bridge.DiscoveredAt)
			}
		})
	}
}

func TestScanner_parseServiceEntry_Metadata(t *testing.T) {
	scanner := NewScanner()

	entry := &zeroconf.ServiceEntry{
		ServiceRecord: zeroconf.ServiceRecord{Instance: "canbridge-pi4"},
		HostName:      "pi4.local.",
		Port:          3000,
		AddrIPv4:      []net.IP{net.ParseIP("192.168.4.16")},
		Text:          []string{"device=can0", "version=1.0.0", "flag"},
	}

	bridge := scanner.parseServiceEntry(entry)
	if bridge == nil {
		t.Fatal("parseServiceEntry() = nil, want bridge")
	}

	if got := bridge.GetMetadata("version"); got != "1.0.0" {
		t.Errorf("GetMetadata(version) = %q, want %q", got, "1.0.0")
	}
	if got := bridge.GetMetadata("flag"); got != "" {
		t.Errorf("GetMetadata(flag) = %q, want empty value", got)
	}
	if got := bridge.GetMetadata("missing"); got != "" {
		t.Errorf("GetMetadata(missing) = %q, want empty", got)
	}
}

func TestBridgeBaseURL(t *testing.T) {
	b := &Bridge{Instance: "canbridge-pi4", IP: "192.168.4.16", Port: 3000, Device: "can0"}
	if got, want := b.BaseURL(), "http://192.168.4.16:3000"; got != want {
		t.Errorf("BaseURL() = %q, want %q", got, want)
	}
}
