package capture

import (
	"io"
	"time"

	"github.com/robotalks/dcsbios.go/pkg/dcsbios"
)

// Source provides timestamped bytes.
type Source interface {
	// ReadByteEvent blocks until the next byte is available.
	ReadByteEvent() (dcsbios.ByteEvent, error)
}

// Clock provides the current offset.
type Clock interface {
	Now() uint64
}

// ClockFunc is func form of Clock.
type ClockFunc func() uint64

// Now implements Clock.
func (f ClockFunc) Now() uint64 {
	return f()
}

// MicrosClock creates a Clock counting microseconds since it's created.
func MicrosClock() Clock {
	origin := time.Now()
	return ClockFunc(func() uint64 {
		return uint64(time.Since(origin) / time.Microsecond)
	})
}

// StreamSource timestamps bytes read from a plain stream.
//
// All bytes delivered by one Read are stamped relative to the time the
// read returned: the last byte ends at that time, and the earlier ones
// are spaced back by ByteTime. This only approximates the wire timing.
type StreamSource struct {
	Reader   io.Reader
	Clock    Clock
	ByteTime uint64

	buf     []byte
	pending []dcsbios.ByteEvent
}

// NewStreamSource creates a StreamSource.
func NewStreamSource(r io.Reader, clock Clock, byteTime uint64) *StreamSource {
	return &StreamSource{
		Reader:   r,
		Clock:    clock,
		ByteTime: byteTime,
		buf:      make([]byte, 256),
	}
}

// ReadByteEvent implements Source.
func (s *StreamSource) ReadByteEvent() (dcsbios.ByteEvent, error) {
	for len(s.pending) == 0 {
		n, err := s.Reader.Read(s.buf)
		if n > 0 {
			s.stamp(s.buf[:n])
			break
		}
		if err != nil {
			return dcsbios.ByteEvent{}, err
		}
	}
	ev := s.pending[0]
	s.pending = s.pending[1:]
	return ev, nil
}

func (s *StreamSource) stamp(data []byte) {
	now := s.Clock.Now()
	for n, b := range data {
		end := saturatingSub(now, uint64(len(data)-1-n)*s.ByteTime)
		s.pending = append(s.pending, dcsbios.ByteEvent{
			Value: b,
			Start: saturatingSub(end, s.ByteTime),
			End:   end,
		})
	}
}

func saturatingSub(a, b uint64) uint64 {
	if a < b {
		return 0
	}
	return a - b
}

// TeeSource records every byte read from Source.
type TeeSource struct {
	Source Source
	Writer *Writer
}

// ReadByteEvent implements Source.
func (s *TeeSource) ReadByteEvent() (dcsbios.ByteEvent, error) {
	ev, err := s.Source.ReadByteEvent()
	if err != nil {
		return ev, err
	}
	return ev, s.Writer.WriteByteEvent(ev)
}

// SliceSource replays bytes from memory.
type SliceSource []dcsbios.ByteEvent

// ReadByteEvent implements Source.
func (s *SliceSource) ReadByteEvent() (dcsbios.ByteEvent, error) {
	if len(*s) == 0 {
		return dcsbios.ByteEvent{}, io.EOF
	}
	ev := (*s)[0]
	*s = (*s)[1:]
	return ev, nil
}
