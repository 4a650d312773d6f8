// Package server implements the canbridge HTTP and websocket front end.
//
// The server exposes two surfaces on a single listener:
//
//   - /ws upgrades to a websocket and runs a bridge loop for the client,
//     relaying CAN frames in both directions
//   - every other path serves the embedded web dashboard, with single page
//     application fallback to index.html
//
// Each websocket client gets its own bridge loop and its own CAN device
// session; the server itself holds no bus state. TLS is enabled when the
// configuration provides both a certificate and a key. When advertising is
// enabled the server registers itself over mDNS so the monitor command can
// find it without a URL.
package server
