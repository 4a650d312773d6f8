package urls

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

// LocalIP returns the IPv4 address of the interface used for outbound
// traffic. No packet is sent - dialing UDP only resolves the local address.
// Falls back to the loopback address when no route is available.
func LocalIP() string {
	conn, err := net.Dial("udp4", "192.0.2.1:1")
	if err != nil {
		return "127.0.0.1"
	}
	defer func() { _ = conn.Close() }()

	if addr, ok := conn.LocalAddr().(*net.UDPAddr); ok {
		return addr.IP.String()
	}
	return "127.0.0.1"
}

// Service builds the bridge's advertised base URL. An empty host means the
// server is bound to all interfaces, so the outbound-interface address is
// substituted to give clients something reachable.
func Service(host string, port int, secure bool) string {
	scheme := "http"
	if secure {
		scheme = "https"
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = LocalIP()
	}
	return fmt.Sprintf("%s://%s", scheme, net.JoinHostPort(host, fmt.Sprintf("%d", port)))
}

// WebSocket converts a service base URL into the matching /ws endpoint
// ("http://x:3000" -> "ws://x:3000/ws"). Bare "host:port" inputs are
// accepted; inputs already carrying a ws scheme or a path are passed through
// with only the missing pieces filled in.
func WebSocket(serviceURL string) (string, error) {
	raw := serviceURL
	if !strings.Contains(raw, "://") {
		raw = "ws://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid service URL %q: %w", serviceURL, err)
	}

	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("invalid service URL %q: unsupported scheme %q", serviceURL, u.Scheme)
	}

	if u.Host == "" {
		return "", fmt.Errorf("invalid service URL %q: missing host", serviceURL)
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = "/ws"
	}

	return u.String(), nil
}
