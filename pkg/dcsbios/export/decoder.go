// Package export decodes the DCS-BIOS export stream.
package export

import (
	"fmt"

	"github.com/golang/glog"

	"github.com/robotalks/dcsbios.go/pkg/dcsbios"
)

// State is the state of Decoder.
type State int

// States
const (
	StateAwaitSync State = iota // ignore bytes until a sync run
	StateAddrLow                // waiting for address low byte
	StateAddrHigh               // waiting for address high byte
	StateCountLow               // waiting for count low byte
	StateCountHigh              // waiting for count high byte
	StateDataLow                // waiting for data low byte
	StateDataHigh               // waiting for data high byte
)

var stateNames = [...]string{
	StateAwaitSync: "AWAIT_SYNC",
	StateAddrLow:   "ADDR_LOW",
	StateAddrHigh:  "ADDR_HIGH",
	StateCountLow:  "COUNT_LOW",
	StateCountHigh: "COUNT_HIGH",
	StateDataLow:   "DATA_LOW",
	StateDataHigh:  "DATA_HIGH",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Decoder decodes the export stream one byte at a time.
// It's not safe for concurrent use.
type Decoder struct {
	conf Config

	state     State
	syncRun   int
	syncStart uint64

	address    uint16
	count      int
	data       uint16
	fieldStart uint64
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

// Address gets the address of the next data word.
func (d *Decoder) Address() uint16 {
	return d.address
}

// Count gets the remaining byte count of current record.
// It's negative once the countdown passed zero without hitting it.
func (d *Decoder) Count() int {
	return d.count
}

// Reset implements dcsbios.Decoder.
func (d *Decoder) Reset() {
	*d = Decoder{conf: d.conf}
}

// Feed implements dcsbios.Decoder.
func (d *Decoder) Feed(b byte, start, end uint64) []dcsbios.Event {
	// sync run takes precedence over field decoding.
	if ev := d.trackSync(b, start, end); ev != nil {
		return []dcsbios.Event{ev}
	}
	return d.decodeByte(b, start, end)
}

func (d *Decoder) trackSync(b byte, start, end uint64) *dcsbios.SyncEvent {
	if b != d.conf.SyncByte {
		d.syncRun = 0
		return nil
	}
	if d.syncRun == 0 {
		d.syncStart = start
	}
	d.syncRun++
	if d.syncRun < d.conf.SyncRunLength {
		return nil
	}
	d.syncRun = 0
	d.address, d.count, d.data = 0, 0, 0
	d.state = StateAddrLow
	return &dcsbios.SyncEvent{Span: dcsbios.SpanOf(d.syncStart, end)}
}

func (d *Decoder) decodeByte(b byte, start, end uint64) (evs []dcsbios.Event) {
	switch d.state {
	case StateAddrLow:
		d.address, d.fieldStart = uint16(b), start
		d.state = StateAddrHigh
	case StateAddrHigh:
		d.address |= uint16(b) << 8
		span := dcsbios.SpanOf(d.fieldStart, end)
		evs = append(evs, &dcsbios.FieldEvent{Span: span, Field: dcsbios.FieldAddress, Value: d.address})
		if d.address == d.conf.ReservedAddress {
			glog.V(3).Infof("export: reserved address %04x at %d, resync", d.address, d.fieldStart)
			d.state = StateAwaitSync
			evs = append(evs, &dcsbios.DiagnosticEvent{Span: span, Kind: dcsbios.DiagReservedAddress})
			return
		}
		d.state = StateCountLow
	case StateCountLow:
		d.count, d.fieldStart = int(b), start
		d.state = StateCountHigh
	case StateCountHigh:
		d.count |= int(b) << 8
		span := dcsbios.SpanOf(d.fieldStart, end)
		evs = append(evs, &dcsbios.FieldEvent{Span: span, Field: dcsbios.FieldCount, Value: uint16(d.count)})
		if d.count == 0 || d.count&1 != 0 {
			glog.V(2).Infof("export: count %d at %d won't reach zero", d.count, d.fieldStart)
			evs = append(evs, &dcsbios.DiagnosticEvent{Span: span, Kind: dcsbios.DiagCountParity})
		}
		d.state = StateDataLow
	case StateDataLow:
		d.data, d.fieldStart = uint16(b), start
		d.countDown()
		d.state = StateDataHigh
	case StateDataHigh:
		d.data |= uint16(b) << 8
		d.countDown()
		evs = append(evs, &dcsbios.WriteRecord{
			Span:    dcsbios.SpanOf(d.fieldStart, end),
			Address: d.address,
			Value:   d.data,
		})
		d.address += 2
		if d.count == 0 {
			d.state = StateAddrLow
		} else {
			d.state = StateDataLow
		}
	}
	return
}

// countDown decrements the count for one consumed byte.
// Once below zero the count stays at -1, so it never wraps back to zero.
func (d *Decoder) countDown() {
	if d.count > 0 {
		d.count--
	} else {
		d.count = -1
	}
}
