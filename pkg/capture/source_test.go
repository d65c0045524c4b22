package capture

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/dcsbios.go/pkg/dcsbios"
)

type chunkReader [][]byte

func (r *chunkReader) Read(p []byte) (int, error) {
	if len(*r) == 0 {
		return 0, io.EOF
	}
	n := copy(p, (*r)[0])
	*r = (*r)[1:]
	return n, nil
}

type fakeClock []uint64

func (c *fakeClock) Now() uint64 {
	now := (*c)[0]
	*c = (*c)[1:]
	return now
}

func readAllEvents(t *testing.T, src Source) (evs []dcsbios.ByteEvent) {
	for {
		ev, err := src.ReadByteEvent()
		if err == io.EOF {
			return
		}
		require.NoError(t, err)
		evs = append(evs, ev)
	}
}

func TestStreamSourceStamps(t *testing.T) {
	clock := fakeClock{1000, 5000}
	chunks := chunkReader{{1, 2}, {}, {3, 4}}
	src := NewStreamSource(&chunks, &clock, 40)
	require.Equal(t, []dcsbios.ByteEvent{
		{Value: 1, Start: 920, End: 960},
		{Value: 2, Start: 960, End: 1000},
		{Value: 3, Start: 4920, End: 4960},
		{Value: 4, Start: 4960, End: 5000},
	}, readAllEvents(t, src))
}

func TestStreamSourceSaturates(t *testing.T) {
	clock := fakeClock{50}
	src := NewStreamSource(bytes.NewReader([]byte{1, 2, 3}), &clock, 40)
	evs := readAllEvents(t, src)
	require.Equal(t, dcsbios.ByteEvent{Value: 1, Start: 0, End: 0}, evs[0])
	require.Equal(t, dcsbios.ByteEvent{Value: 2, Start: 0, End: 10}, evs[1])
	require.Equal(t, dcsbios.ByteEvent{Value: 3, Start: 10, End: 50}, evs[2])
}

func TestTeeSource(t *testing.T) {
	in := SliceSource{
		{Value: 5, Start: 0, End: 10},
		{Value: 1, Start: 10, End: 20},
	}
	var buf bytes.Buffer
	src := &TeeSource{Source: &in, Writer: NewWriter(&buf)}
	evs := readAllEvents(t, src)
	require.Len(t, evs, 2)

	recorded, err := ReadAll(&buf)
	require.NoError(t, err)
	require.Equal(t, evs, recorded)
}

func TestCharTime(t *testing.T) {
	require.Equal(t, uint64(40), CharTime(DefaultBaudRate))
	require.Equal(t, uint64(1041), CharTime(9600))
	require.Equal(t, uint64(0), CharTime(0))
}
