// Package monitor implements the live terminal view of a bridge's envelope
// stream.
//
// The monitor connects to a bridge's /ws endpoint as an ordinary client,
// decodes envelopes as they arrive and renders them as a scrolling log with
// sequence numbers, timestamps and notices. Sequence discontinuities are
// counted and highlighted. Frames can be injected onto the bus from the
// monitor without leaving the screen.
//
// The Client type is also used on its own by the one-shot send command.
package monitor
