package msgs

import (
	"github.com/golang/protobuf/proto"

	"github.com/robotalks/dcsbios.go/pkg/dcsbios"
	fx "github.com/robotalks/dcsbios.go/pkg/framework"
)

// TypeIDs
const (
	SyncTypeID       uint32 = GroupStream | TypeIDKindEvent | 0x0001
	FieldTypeID      uint32 = GroupStream | TypeIDKindEvent | 0x0002
	WriteTypeID      uint32 = GroupStream | TypeIDKindEvent | 0x0003
	PayloadTypeID    uint32 = GroupStream | TypeIDKindEvent | 0x0004
	FrameTypeID      uint32 = GroupStream | TypeIDKindEvent | 0x0005
	GapTypeID        uint32 = GroupStream | TypeIDKindEvent | 0x0006
	DiagnosticTypeID uint32 = GroupStream | TypeIDKindEvent | 0x0007
)

// Topics of event messages.
const (
	TopicSync       = "sync"
	TopicField      = "field"
	TopicWrite      = "write"
	TopicPayload    = "payload"
	TopicFrame      = "frame"
	TopicGap        = "gap"
	TopicDiagnostic = "diag"
)

// EventMessage is the wire form of a dcsbios.Event.
type EventMessage interface {
	SerializableMessage
	// Topic is the short name of the event kind.
	Topic() string
	// Event converts the message back to dcsbios.Event.
	Event() dcsbios.Event
}

// FromEvent converts an event into its wire form.
func FromEvent(ev dcsbios.Event) (EventMessage, error) {
	span := spanFrom(ev.Bounds())
	switch e := ev.(type) {
	case *dcsbios.SyncEvent:
		return &Sync{Span: span}, nil
	case *dcsbios.FieldEvent:
		return &Field{Span: span, Field: uint32(e.Field), Value: uint32(e.Value)}, nil
	case *dcsbios.WriteRecord:
		return &Write{Span: span, Address: uint32(e.Address), Value: uint32(e.Value)}, nil
	case *dcsbios.PayloadEvent:
		return &Payload{Span: span, Data: e.Payload}, nil
	case *dcsbios.BusFrame:
		return &Frame{
			Span:     span,
			Address:  uint32(e.Address),
			MsgType:  uint32(e.MsgType),
			Payload:  e.Payload,
			Checksum: uint32(e.Checksum),
		}, nil
	case *dcsbios.GapEvent:
		return &Gap{Span: span, Duration: e.Duration}, nil
	case *dcsbios.DiagnosticEvent:
		return &Diagnostic{Span: span, Kind: uint32(e.Kind)}, nil
	}
	return nil, ErrNotSerializable
}

// TypedFromEvent converts an event into a Typed envelope.
func TypedFromEvent(ev dcsbios.Event) (*Typed, error) {
	msg, err := FromEvent(ev)
	if err != nil {
		return nil, err
	}
	return TypedFrom(msg)
}

// Span is the offset range of an event.
type Span struct {
	Start uint64 `protobuf:"varint,1,opt,name=start,proto3" json:"start,omitempty"`
	End   uint64 `protobuf:"varint,2,opt,name=end,proto3" json:"end,omitempty"`
}

func spanFrom(s dcsbios.Span) *Span {
	return &Span{Start: s.Start, End: s.End}
}

func (m *Span) span() dcsbios.Span {
	if m == nil {
		return dcsbios.Span{}
	}
	return dcsbios.SpanOf(m.Start, m.End)
}

// ProtoMessage implements proto.Message.
func (m *Span) ProtoMessage() {}

// Reset implements proto.Message.
func (m *Span) Reset() { *m = Span{} }

// String implements proto.Message.
func (m *Span) String() string { return proto.CompactTextString(m) }

// Sync is the wire form of dcsbios.SyncEvent.
type Sync struct {
	Span *Span `protobuf:"bytes,1,opt,name=span,proto3" json:"span,omitempty"`
}

// NewMessage implements Message.
func (m *Sync) NewMessage() fx.Message { return &Sync{} }

// TypeID implements SerializableMessage.
func (m *Sync) TypeID() uint32 { return SyncTypeID }

// Serializable implements SerializableMessage.
func (m *Sync) Serializable() proto.Message { return m }

// Topic implements EventMessage.
func (m *Sync) Topic() string { return TopicSync }

// Event implements EventMessage.
func (m *Sync) Event() dcsbios.Event {
	return &dcsbios.SyncEvent{Span: m.Span.span()}
}

// ProtoMessage implements proto.Message.
func (m *Sync) ProtoMessage() {}

// Reset implements proto.Message.
func (m *Sync) Reset() { *m = Sync{} }

// String implements proto.Message.
func (m *Sync) String() string { return proto.CompactTextString(m) }

// Field is the wire form of dcsbios.FieldEvent.
type Field struct {
	Span  *Span  `protobuf:"bytes,1,opt,name=span,proto3" json:"span,omitempty"`
	Field uint32 `protobuf:"varint,2,opt,name=field,proto3" json:"field,omitempty"`
	Value uint32 `protobuf:"varint,3,opt,name=value,proto3" json:"value,omitempty"`
}

// NewMessage implements Message.
func (m *Field) NewMessage() fx.Message { return &Field{} }

// TypeID implements SerializableMessage.
func (m *Field) TypeID() uint32 { return FieldTypeID }

// Serializable implements SerializableMessage.
func (m *Field) Serializable() proto.Message { return m }

// Topic implements EventMessage.
func (m *Field) Topic() string { return TopicField }

// Event implements EventMessage.
func (m *Field) Event() dcsbios.Event {
	return &dcsbios.FieldEvent{
		Span:  m.Span.span(),
		Field: dcsbios.Field(m.Field),
		Value: uint16(m.Value),
	}
}

// ProtoMessage implements proto.Message.
func (m *Field) ProtoMessage() {}

// Reset implements proto.Message.
func (m *Field) Reset() { *m = Field{} }

// String implements proto.Message.
func (m *Field) String() string { return proto.CompactTextString(m) }

// Write is the wire form of dcsbios.WriteRecord.
type Write struct {
	Span    *Span  `protobuf:"bytes,1,opt,name=span,proto3" json:"span,omitempty"`
	Address uint32 `protobuf:"varint,2,opt,name=address,proto3" json:"address,omitempty"`
	Value   uint32 `protobuf:"varint,3,opt,name=value,proto3" json:"value,omitempty"`
}

// NewMessage implements Message.
func (m *Write) NewMessage() fx.Message { return &Write{} }

// TypeID implements SerializableMessage.
func (m *Write) TypeID() uint32 { return WriteTypeID }

// Serializable implements SerializableMessage.
func (m *Write) Serializable() proto.Message { return m }

// Topic implements EventMessage.
func (m *Write) Topic() string { return TopicWrite }

// Event implements EventMessage.
func (m *Write) Event() dcsbios.Event {
	return &dcsbios.WriteRecord{
		Span:    m.Span.span(),
		Address: uint16(m.Address),
		Value:   uint16(m.Value),
	}
}

// ProtoMessage implements proto.Message.
func (m *Write) ProtoMessage() {}

// Reset implements proto.Message.
func (m *Write) Reset() { *m = Write{} }

// String implements proto.Message.
func (m *Write) String() string { return proto.CompactTextString(m) }

// Payload is the wire form of dcsbios.PayloadEvent.
type Payload struct {
	Span *Span  `protobuf:"bytes,1,opt,name=span,proto3" json:"span,omitempty"`
	Data []byte `protobuf:"bytes,2,opt,name=data,proto3" json:"data,omitempty"`
}

// NewMessage implements Message.
func (m *Payload) NewMessage() fx.Message { return &Payload{} }

// TypeID implements SerializableMessage.
func (m *Payload) TypeID() uint32 { return PayloadTypeID }

// Serializable implements SerializableMessage.
func (m *Payload) Serializable() proto.Message { return m }

// Topic implements EventMessage.
func (m *Payload) Topic() string { return TopicPayload }

// Event implements EventMessage.
func (m *Payload) Event() dcsbios.Event {
	return &dcsbios.PayloadEvent{Span: m.Span.span(), Payload: m.Data}
}

// ProtoMessage implements proto.Message.
func (m *Payload) ProtoMessage() {}

// Reset implements proto.Message.
func (m *Payload) Reset() { *m = Payload{} }

// String implements proto.Message.
func (m *Payload) String() string { return proto.CompactTextString(m) }

// Frame is the wire form of dcsbios.BusFrame.
type Frame struct {
	Span     *Span  `protobuf:"bytes,1,opt,name=span,proto3" json:"span,omitempty"`
	Address  uint32 `protobuf:"varint,2,opt,name=address,proto3" json:"address,omitempty"`
	MsgType  uint32 `protobuf:"varint,3,opt,name=msg_type,json=msgType,proto3" json:"msg_type,omitempty"`
	Payload  []byte `protobuf:"bytes,4,opt,name=payload,proto3" json:"payload,omitempty"`
	Checksum uint32 `protobuf:"varint,5,opt,name=checksum,proto3" json:"checksum,omitempty"`
}

// NewMessage implements Message.
func (m *Frame) NewMessage() fx.Message { return &Frame{} }

// TypeID implements SerializableMessage.
func (m *Frame) TypeID() uint32 { return FrameTypeID }

// Serializable implements SerializableMessage.
func (m *Frame) Serializable() proto.Message { return m }

// Topic implements EventMessage.
func (m *Frame) Topic() string { return TopicFrame }

// Event implements EventMessage.
func (m *Frame) Event() dcsbios.Event {
	return &dcsbios.BusFrame{
		Span:     m.Span.span(),
		Address:  byte(m.Address),
		MsgType:  byte(m.MsgType),
		Payload:  m.Payload,
		Checksum: byte(m.Checksum),
	}
}

// ProtoMessage implements proto.Message.
func (m *Frame) ProtoMessage() {}

// Reset implements proto.Message.
func (m *Frame) Reset() { *m = Frame{} }

// String implements proto.Message.
func (m *Frame) String() string { return proto.CompactTextString(m) }

// Gap is the wire form of dcsbios.GapEvent.
type Gap struct {
	Span     *Span  `protobuf:"bytes,1,opt,name=span,proto3" json:"span,omitempty"`
	Duration uint64 `protobuf:"varint,2,opt,name=duration,proto3" json:"duration,omitempty"`
}

// NewMessage implements Message.
func (m *Gap) NewMessage() fx.Message { return &Gap{} }

// TypeID implements SerializableMessage.
func (m *Gap) TypeID() uint32 { return GapTypeID }

// Serializable implements SerializableMessage.
func (m *Gap) Serializable() proto.Message { return m }

// Topic implements EventMessage.
func (m *Gap) Topic() string { return TopicGap }

// Event implements EventMessage.
func (m *Gap) Event() dcsbios.Event {
	return &dcsbios.GapEvent{Span: m.Span.span(), Duration: m.Duration}
}

// ProtoMessage implements proto.Message.
func (m *Gap) ProtoMessage() {}

// Reset implements proto.Message.
func (m *Gap) Reset() { *m = Gap{} }

// String implements proto.Message.
func (m *Gap) String() string { return proto.CompactTextString(m) }

// Diagnostic is the wire form of dcsbios.DiagnosticEvent.
type Diagnostic struct {
	Span *Span  `protobuf:"bytes,1,opt,name=span,proto3" json:"span,omitempty"`
	Kind uint32 `protobuf:"varint,2,opt,name=kind,proto3" json:"kind,omitempty"`
}

// NewMessage implements Message.
func (m *Diagnostic) NewMessage() fx.Message { return &Diagnostic{} }

// TypeID implements SerializableMessage.
func (m *Diagnostic) TypeID() uint32 { return DiagnosticTypeID }

// Serializable implements SerializableMessage.
func (m *Diagnostic) Serializable() proto.Message { return m }

// Topic implements EventMessage.
func (m *Diagnostic) Topic() string { return TopicDiagnostic }

// Event implements EventMessage.
func (m *Diagnostic) Event() dcsbios.Event {
	return &dcsbios.DiagnosticEvent{Span: m.Span.span(), Kind: dcsbios.DiagnosticKind(m.Kind)}
}

// ProtoMessage implements proto.Message.
func (m *Diagnostic) ProtoMessage() {}

// Reset implements proto.Message.
func (m *Diagnostic) Reset() { *m = Diagnostic{} }

// String implements proto.Message.
func (m *Diagnostic) String() string { return proto.CompactTextString(m) }
