// Package discovery provides mDNS advertisement and discovery of canbridge
// instances.
//
// A running bridge registers itself as a "_canbridge._tcp" service with its
// CAN interface name in the TXT record. The monitor command browses for the
// same service type so it can attach to a bridge without being given an
// address.
package discovery
