package capture

import (
	"bytes"
	"io"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/robotalks/dcsbios.go/pkg/dcsbios"
)

func TestRecordLayout(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteByteEvent(dcsbios.ByteEvent{Value: 0x55, Start: 0x0102, End: 0x0304}))
	require.Equal(t, []byte{
		0x55,
		0x02, 0x01, 0, 0, 0, 0, 0, 0,
		0x04, 0x03, 0, 0, 0, 0, 0, 0,
	}, buf.Bytes())
}

func TestReadAll(t *testing.T) {
	in := []dcsbios.ByteEvent{
		{Value: 0x55, Start: 0, End: 40},
		{Value: 0x00, Start: 40, End: 80},
		{Value: 0xff, Start: 1 << 40, End: 1<<40 + 40},
	}
	var buf bytes.Buffer
	w := NewWriter(&buf)
	for _, ev := range in {
		require.NoError(t, w.WriteByteEvent(ev))
	}
	require.Equal(t, len(in)*RecordSize, buf.Len())

	out, err := ReadAll(&buf)
	require.NoError(t, err)
	require.Equal(t, in, out)
}

func TestShortRecord(t *testing.T) {
	var buf bytes.Buffer
	NewWriter(&buf).WriteByteEvent(dcsbios.ByteEvent{Value: 1, Start: 2, End: 3})
	buf.Write([]byte{1, 2, 3})

	r := NewReader(&buf)
	ev, err := r.ReadByteEvent()
	require.NoError(t, err)
	require.Equal(t, byte(1), ev.Value)
	_, err = r.ReadByteEvent()
	require.Equal(t, ErrShortRecord, errors.Cause(err))
	require.Contains(t, err.Error(), "3 bytes at 17")
}

func TestEmptyCapture(t *testing.T) {
	_, err := NewReader(&bytes.Buffer{}).ReadByteEvent()
	require.Equal(t, io.EOF, err)
}
