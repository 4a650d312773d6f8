// Package bridge implements the per-connection event loop at the heart of
// canbridge: a single-threaded multiplexer over three event sources - the
// client connection, the CAN device stream, and a periodic tick.
//
// # State machine
//
// A loop is always in one of two device states: no-device or device-up. On
// entry to either state the client receives one status notice. Exactly one
// event is handled per iteration; handlers return a verdict (continue,
// reconnect, fatal) that the loop switches over exhaustively:
//
//   - Client text parses as a frame: forwarded to the device; a write failure
//     or absent device becomes a notice and the loop falls back to no-device.
//   - Malformed client text is logged and dropped; the connection survives.
//   - A device frame becomes a data envelope with the next sequence number.
//   - The device stream ending becomes a "disconnected" notice plus fallback.
//   - Each tick sends a heartbeat notice; while no device is held, the tick
//     also makes one reopen attempt - this is the only reconnect pacing.
//
// Any failure writing to the client ends the loop immediately: the client is
// assumed gone, device handles are released, nothing retries.
//
// # Concurrency
//
// One goroutine runs the loop and is the only writer to the client and the
// only caller into the device session. A second goroutine pumps client
// receives into a channel so the select can treat all three sources
// uniformly. Sequence numbers and session state therefore need no locking.
package bridge
