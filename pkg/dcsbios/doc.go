// Package dcsbios provides the types shared by the DCS-BIOS stream decoders.
package dcsbios

// DCS-BIOS exports cockpit state of the simulated aircraft as a stream of
// memory writes. Two wire variants exist:
//
// The export stream (package export) is sent over a direct serial/USB link.
// Each frame starts with a run of sync bytes followed by address/count/data
// records, all 16-bit little-endian.
//
// The RS485 bus protocol (package rs485) is a multidrop protocol where frames
// are delimited by idle gaps on the bus. Each frame carries an address,
// a message type, a length-prefixed payload and a checksum byte.
//
// Decoders in both packages are driven one byte at a time with the offsets
// of the byte on the capture timeline, and return the events decoded from it.
// Offsets are opaque: they are whatever unit the driving layer uses (sample
// index, microseconds, ticks), decoders only compare and echo them.
