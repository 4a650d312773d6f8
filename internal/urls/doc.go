// Package urls derives the bridge's reachable addresses: the service URL
// stamped into every envelope and the websocket endpoint clients dial.
package urls
