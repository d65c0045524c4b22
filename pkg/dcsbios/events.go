package dcsbios

import "fmt"

// SyncEvent marks the acquisition of a new export stream epoch.
// The span covers the whole sync run.
type SyncEvent struct {
	Span
}

// Category implements Event.
func (e *SyncEvent) Category() Category { return CategorySync }

// Field identifies a decoded header field.
type Field int

// Fields
const (
	// FieldAddress is the 16-bit address of an export record.
	FieldAddress Field = iota
	// FieldCount is the 16-bit byte count of an export record.
	FieldCount
	// FieldBusAddress is the address byte of a bus frame.
	FieldBusAddress
	// FieldMsgType is the message type byte of a bus frame.
	FieldMsgType
	// FieldDataLength is the payload length byte of a bus frame.
	FieldDataLength
	// FieldPayloadByte is a single payload byte of a bus frame.
	FieldPayloadByte
	// FieldChecksum is the checksum byte of a bus frame.
	FieldChecksum
	// FieldTrailing is a byte received after a complete frame
	// and before the idle gap.
	FieldTrailing
)

var fieldNames = [...]string{
	FieldAddress:     "address",
	FieldCount:       "count",
	FieldBusAddress:  "address",
	FieldMsgType:     "msgtype",
	FieldDataLength:  "datalength",
	FieldPayloadByte: "data",
	FieldChecksum:    "checksum",
	FieldTrailing:    "trailing",
}

var fieldCategories = [...]Category{
	FieldAddress:     CategoryAddress,
	FieldCount:       CategoryCount,
	FieldBusAddress:  CategoryAddress,
	FieldMsgType:     CategoryMsgType,
	FieldDataLength:  CategoryDataLength,
	FieldPayloadByte: CategoryData,
	FieldChecksum:    CategoryChecksum,
	FieldTrailing:    CategoryState,
}

func (f Field) String() string {
	if f >= 0 && int(f) < len(fieldNames) {
		return fieldNames[f]
	}
	return fmt.Sprintf("field(%d)", int(f))
}

// FieldEvent reports a decoded header field.
type FieldEvent struct {
	Span
	Field Field
	Value uint16
}

// Category implements Event.
func (e *FieldEvent) Category() Category {
	if e.Field >= 0 && int(e.Field) < len(fieldCategories) {
		return fieldCategories[e.Field]
	}
	return CategoryState
}

// WriteRecord is one 16-bit memory write from the export stream.
type WriteRecord struct {
	Span
	Address uint16
	Value   uint16
}

// Category implements Event.
func (e *WriteRecord) Category() Category { return CategoryData }

// PayloadEvent covers the whole payload of a bus frame.
type PayloadEvent struct {
	Span
	Payload []byte
}

// Category implements Event.
func (e *PayloadEvent) Category() Category { return CategoryData }

// BusFrame is a complete frame from the RS485 bus.
// The checksum is reported as received, it's never verified.
type BusFrame struct {
	Span
	Address  byte
	MsgType  byte
	Payload  []byte
	Checksum byte
}

// Category implements Event.
func (e *BusFrame) Category() Category { return CategoryChecksum }

// IsBroadcast indicates the frame is addressed to all nodes.
func (e *BusFrame) IsBroadcast() bool {
	return e.Address == 0
}

// GapEvent reports an idle period on the bus.
// The span runs from the end of the previous byte to the start of the next.
type GapEvent struct {
	Span
	Duration uint64
}

// Category implements Event.
func (e *GapEvent) Category() Category { return CategoryGap }

// DiagnosticKind identifies a diagnostic.
type DiagnosticKind int

// Diagnostics
const (
	// DiagReservedAddress means the export address matched the reserved
	// pattern and the decoder went back to wait for sync.
	DiagReservedAddress DiagnosticKind = iota
	// DiagCountParity means the export count is zero or odd, and the
	// countdown won't reach exactly zero before the next sync.
	DiagCountParity
	// DiagFrameDiscarded means an idle gap interrupted a partial bus frame.
	DiagFrameDiscarded
)

var diagNames = [...]string{
	DiagReservedAddress: "reserved-address",
	DiagCountParity:     "count-parity",
	DiagFrameDiscarded:  "frame-discarded",
}

func (k DiagnosticKind) String() string {
	if k >= 0 && int(k) < len(diagNames) {
		return diagNames[k]
	}
	return fmt.Sprintf("diagnostic(%d)", int(k))
}

// DiagnosticEvent reports a recoverable decoding anomaly.
type DiagnosticEvent struct {
	Span
	Kind DiagnosticKind
}

// Category implements Event.
func (e *DiagnosticEvent) Category() Category { return CategoryState }
