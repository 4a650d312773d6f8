// Package device owns the open/closed lifecycle of the CAN bus transceiver.
//
// A Session bundles a receive handle and a transmit handle to one named bus
// interface. Sessions are deliberately single-shot: the first read or write
// failure closes the session for good, and recovery means constructing a new
// Session with Open. This guarantees no stale handle is ever reused after a
// failed write.
//
// The Transceiver interface isolates the SocketCAN specifics so that the
// bridge loop and tests can run against in-memory implementations.
package device
