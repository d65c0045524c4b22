// Package capture provides byte sources for the decoders and the
// capture file format.
package capture

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"

	"github.com/robotalks/dcsbios.go/pkg/dcsbios"
)

// RecordSize is the size of one capture record:
// value:u8 start:u64 end:u64, little endian, no header.
const RecordSize = 17

// ErrShortRecord indicates the capture ends in the middle of a record.
var ErrShortRecord = errors.New("short capture record")

// Writer writes capture records.
type Writer struct {
	w   io.Writer
	buf [RecordSize]byte
}

// NewWriter creates a Writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteByteEvent writes one record.
func (w *Writer) WriteByteEvent(ev dcsbios.ByteEvent) error {
	w.buf[0] = ev.Value
	binary.LittleEndian.PutUint64(w.buf[1:], ev.Start)
	binary.LittleEndian.PutUint64(w.buf[9:], ev.End)
	_, err := w.w.Write(w.buf[:])
	return err
}

// Reader reads capture records. It implements Source.
type Reader struct {
	r      io.Reader
	buf    [RecordSize]byte
	offset int64
}

// NewReader creates a Reader.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// ReadByteEvent implements Source.
// It returns io.EOF at the end of capture.
func (r *Reader) ReadByteEvent() (ev dcsbios.ByteEvent, err error) {
	n, err := io.ReadFull(r.r, r.buf[:])
	if err == io.ErrUnexpectedEOF {
		return ev, errors.Wrapf(ErrShortRecord, "%d bytes at %d", n, r.offset)
	}
	if err != nil {
		return ev, err
	}
	r.offset += RecordSize
	ev.Value = r.buf[0]
	ev.Start = binary.LittleEndian.Uint64(r.buf[1:])
	ev.End = binary.LittleEndian.Uint64(r.buf[9:])
	return ev, nil
}

// ReadAll reads all records until the end of capture.
func ReadAll(r io.Reader) (evs []dcsbios.ByteEvent, err error) {
	reader := NewReader(r)
	for {
		ev, err := reader.ReadByteEvent()
		if err == io.EOF {
			return evs, nil
		}
		if err != nil {
			return evs, err
		}
		evs = append(evs, ev)
	}
}
