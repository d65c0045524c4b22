// Package msgs provides the wire form of decoded events.
package msgs

// Every event kind has a protobuf message, wrapped in a Typed envelope
// carrying the type ID so subscribers can decode without knowing the kind
// up front.
//
// Producer: dcsbios-decode (MQTT, WebSocket)
// Consumer: dcsbios-mon, browser clients
