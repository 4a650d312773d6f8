// Package frame implements the two wire encodings the bridge translates
// between: candump-style CAN frame text ("<hex id>#<hex payload>") and the
// JSON envelope delivered to browser clients.
//
// # Frame Text Encoding
//
// A frame is written as the id in hex, a '#' separator, and the payload as
// hex byte pairs:
//
//	1a3#deadbeef    id 0x1A3, payload de ad be ef
//	7ff#            id 0x7FF, empty payload
//
// Parse accepts hex in either case; String always emits lowercase. The pair
// round-trips: Parse(f.String()) == f for every valid frame.
//
// # Envelope Encoding
//
// Envelope is the message the bridge pushes to clients. Data carries a
// relayed frame in its wire text form; Notice carries status and error text
// (device availability, heartbeats). Absent optional fields are omitted from
// the JSON rather than encoded as null.
//
// All functions in this package are pure; nothing here touches the network
// or the device.
package frame
