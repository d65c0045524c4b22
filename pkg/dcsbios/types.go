package dcsbios

import (
	"context"
	"fmt"
)

// ByteEvent is a single byte with its position on the capture timeline.
type ByteEvent struct {
	Value byte
	Start uint64
	End   uint64
}

// Span is the offset range covered by an event.
type Span struct {
	Start uint64
	End   uint64
}

// Bounds implements Event, so events can embed Span.
func (s Span) Bounds() Span {
	return s
}

// Duration is the distance between start and end.
func (s Span) Duration() uint64 {
	if s.End < s.Start {
		return 0
	}
	return s.End - s.Start
}

// SpanOf creates a Span.
func SpanOf(start, end uint64) Span {
	return Span{Start: start, End: end}
}

// Category tags an event for rendering.
type Category int

// Categories
const (
	CategorySync Category = iota
	CategoryAddress
	CategoryCount
	CategoryData
	CategoryMsgType
	CategoryDataLength
	CategoryChecksum
	CategoryState
	CategoryGap
)

var categoryNames = [...]string{
	CategorySync:       "sync",
	CategoryAddress:    "address",
	CategoryCount:      "count",
	CategoryData:       "data",
	CategoryMsgType:    "msgtype",
	CategoryDataLength: "datalength",
	CategoryChecksum:   "checksum",
	CategoryState:      "state",
	CategoryGap:        "gap",
}

func (c Category) String() string {
	if c >= 0 && int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return fmt.Sprintf("category(%d)", int(c))
}

// Event is a decoded event.
type Event interface {
	Bounds() Span
	Category() Category
}

// Decoder consumes bytes and produces events.
type Decoder interface {
	// Feed consumes one byte. start/end are the offsets of the byte.
	Feed(b byte, start, end uint64) []Event
	// Reset restores the initial state.
	Reset()
}

// FeedEvent feeds a ByteEvent into a Decoder.
func FeedEvent(d Decoder, ev ByteEvent) []Event {
	return d.Feed(ev.Value, ev.Start, ev.End)
}

// FeedAll feeds a sequence of bytes and collects all events.
func FeedAll(d Decoder, evs ...ByteEvent) (out []Event) {
	for _, ev := range evs {
		out = append(out, d.Feed(ev.Value, ev.Start, ev.End)...)
	}
	return
}

// EventHandler is called for each decoded event.
type EventHandler interface {
	HandleEvent(context.Context, Event) error
}

// HandleEventFunc is func form of EventHandler.
type HandleEventFunc func(context.Context, Event) error

// HandleEvent implements EventHandler.
func (f HandleEventFunc) HandleEvent(ctx context.Context, ev Event) error {
	return f(ctx, ev)
}
