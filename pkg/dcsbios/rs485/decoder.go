// Package rs485 decodes the DCS-BIOS RS485 bus protocol.
package rs485

import (
	"fmt"

	"github.com/golang/glog"

	"github.com/robotalks/dcsbios.go/pkg/dcsbios"
)

// State is the state of Decoder, named after the last field received.
type State int

// States
const (
	StateSync           State = iota // waiting for the address byte
	StateWaitAddress                 // address received, waiting for message type
	StateWaitMsgType                 // message type received, waiting for data length
	StateWaitDataLength              // receiving payload bytes
	StateWaitChecksum                // waiting for checksum, or for the idle gap after it
)

var stateNames = [...]string{
	StateSync:           "SYNC",
	StateWaitAddress:    "WAIT_ADDRESS",
	StateWaitMsgType:    "WAIT_MSGTYPE",
	StateWaitDataLength: "WAIT_DATALENGTH",
	StateWaitChecksum:   "WAIT_CHECKSUM",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Decoder decodes frames on the bus one byte at a time.
// Frame boundaries are detected from idle gaps between bytes.
// It's not safe for concurrent use.
type Decoder struct {
	conf Config

	state    State
	started  bool
	lastEnd  uint64
	complete bool // checksum consumed, waiting for the idle gap

	frame        dcsbios.BusFrame
	dataLength   int
	frameStart   uint64
	payloadStart uint64
}

// NewDecoder creates a Decoder with the default config.
func NewDecoder() *Decoder {
	return NewDecoderWith(*Default())
}

// NewDecoderWith creates a Decoder with the given config.
// The config is expected to be valid.
func NewDecoderWith(conf Config) *Decoder {
	return &Decoder{conf: conf}
}

// Config returns the config in use.
func (d *Decoder) Config() Config {
	return d.conf
}

// State gets the current state.
func (d *Decoder) State() State {
	return d.state
}

// Reset implements dcsbios.Decoder.
func (d *Decoder) Reset() {
	*d = Decoder{conf: d.conf}
}

// Feed implements dcsbios.Decoder.
func (d *Decoder) Feed(b byte, start, end uint64) (evs []dcsbios.Event) {
	if d.started {
		evs = d.checkGap(start)
	}
	d.started, d.lastEnd = true, end
	return d.decodeByte(b, start, end, evs)
}

func (d *Decoder) inFrame() bool {
	return d.state != StateSync && !d.complete
}

func (d *Decoder) newFrame() {
	d.state = StateSync
	d.complete = false
	d.frame = dcsbios.BusFrame{}
	d.dataLength = 0
}

func (d *Decoder) checkGap(start uint64) (evs []dcsbios.Event) {
	var gap uint64
	if start > d.lastEnd {
		gap = start - d.lastEnd
	}
	if gap < d.conf.GapResetThreshold {
		return
	}
	if d.inFrame() {
		glog.V(2).Infof("rs485: idle gap %d at %d interrupted frame in %s", gap, d.lastEnd, d.state)
		evs = append(evs, &dcsbios.DiagnosticEvent{
			Span: dcsbios.SpanOf(d.frameStart, d.lastEnd),
			Kind: dcsbios.DiagFrameDiscarded,
		})
	}
	d.newFrame()
	if gap < d.conf.GapNoiseCeiling {
		evs = append(evs, &dcsbios.GapEvent{Span: dcsbios.SpanOf(d.lastEnd, start), Duration: gap})
	}
	return
}

func (d *Decoder) decodeByte(b byte, start, end uint64, evs []dcsbios.Event) []dcsbios.Event {
	span := dcsbios.SpanOf(start, end)
	switch d.state {
	case StateSync:
		d.frame.Address, d.frameStart = b, start
		evs = append(evs, &dcsbios.FieldEvent{Span: span, Field: dcsbios.FieldBusAddress, Value: uint16(b)})
		d.state = StateWaitAddress
	case StateWaitAddress:
		d.frame.MsgType = b
		evs = append(evs, &dcsbios.FieldEvent{Span: span, Field: dcsbios.FieldMsgType, Value: uint16(b)})
		d.state = StateWaitMsgType
	case StateWaitMsgType:
		d.dataLength = int(b)
		evs = append(evs, &dcsbios.FieldEvent{Span: span, Field: dcsbios.FieldDataLength, Value: uint16(b)})
		if d.dataLength == 0 {
			d.state = StateWaitChecksum
			break
		}
		d.frame.Payload = make([]byte, 0, d.dataLength)
		d.state = StateWaitDataLength
	case StateWaitDataLength:
		if len(d.frame.Payload) == 0 {
			d.payloadStart = start
		}
		d.frame.Payload = append(d.frame.Payload, b)
		evs = append(evs, &dcsbios.FieldEvent{Span: span, Field: dcsbios.FieldPayloadByte, Value: uint16(b)})
		if len(d.frame.Payload) >= d.dataLength {
			evs = append(evs, &dcsbios.PayloadEvent{
				Span:    dcsbios.SpanOf(d.payloadStart, end),
				Payload: append([]byte(nil), d.frame.Payload...),
			})
			d.state = StateWaitChecksum
		}
	case StateWaitChecksum:
		if d.complete {
			evs = append(evs, &dcsbios.FieldEvent{Span: span, Field: dcsbios.FieldTrailing, Value: uint16(b)})
			break
		}
		d.frame.Checksum = b
		evs = append(evs, &dcsbios.FieldEvent{Span: span, Field: dcsbios.FieldChecksum, Value: uint16(b)})
		frame := d.frame
		frame.Span = dcsbios.SpanOf(d.frameStart, end)
		evs = append(evs, &frame)
		if frame.IsBroadcast() {
			d.newFrame()
		} else {
			d.complete = true
		}
	}
	return evs
}
