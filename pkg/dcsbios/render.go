package dcsbios

import (
	"fmt"
	"strings"
	"unicode"
)

// FormatPayloadByte renders a payload byte as the Latin-1 character if
// printable, otherwise as [XX] in hex.
func FormatPayloadByte(b byte) string {
	if r := rune(b); unicode.IsPrint(r) {
		return string(r)
	}
	return fmt.Sprintf("[%02X]", b)
}

// FormatPayload renders all payload bytes using FormatPayloadByte.
func FormatPayload(p []byte) string {
	var sb strings.Builder
	for _, b := range p {
		sb.WriteString(FormatPayloadByte(b))
	}
	return sb.String()
}

// Describe renders the value of an event as text.
func Describe(ev Event) string {
	switch e := ev.(type) {
	case *SyncEvent:
		return "SYNC"
	case *FieldEvent:
		switch e.Field {
		case FieldAddress, FieldCount:
			return fmt.Sprintf("%s %04x", e.Field, e.Value)
		case FieldPayloadByte:
			return FormatPayloadByte(byte(e.Value))
		default:
			return fmt.Sprintf("%s %d", e.Field, e.Value)
		}
	case *WriteRecord:
		return fmt.Sprintf("write %04x=%04x", e.Address, e.Value)
	case *PayloadEvent:
		return fmt.Sprintf("payload %q", FormatPayload(e.Payload))
	case *BusFrame:
		return fmt.Sprintf("frame addr=%d type=%d len=%d data=%q checksum=%02x",
			e.Address, e.MsgType, len(e.Payload), FormatPayload(e.Payload), e.Checksum)
	case *GapEvent:
		return fmt.Sprintf("gap %d", e.Duration)
	case *DiagnosticEvent:
		return e.Kind.String()
	}
	return fmt.Sprintf("%v", ev)
}
