package sink

import (
	"bytes"
	"context"
	"errors"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/dcsbios.go/pkg/dcsbios"
	"github.com/robotalks/dcsbios.go/pkg/dcsbios/rs485"
	fx "github.com/robotalks/dcsbios.go/pkg/framework"
)

func busEvents() []dcsbios.Event {
	var in []dcsbios.ByteEvent
	for n, b := range []byte{5, 1, 3, 'A', 'B', 'C', 0x07, 0x09} {
		in = append(in, dcsbios.ByteEvent{Value: b, Start: uint64(n) * 40, End: uint64(n+1) * 40})
	}
	in = append(in, dcsbios.ByteEvent{Value: 0, Start: 1000, End: 1040})
	return dcsbios.FeedAll(rs485.NewDecoder(), in...)
}

func handleAll(t *testing.T, h dcsbios.EventHandler, evs []dcsbios.Event) {
	for _, ev := range evs {
		require.NoError(t, h.HandleEvent(context.Background(), ev))
	}
}

func TestPrinter(t *testing.T) {
	var buf bytes.Buffer
	handleAll(t, NewPrinter(&buf, false), busEvents())
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Equal(t, []string{
		"         120          240 data       payload \"ABC\"",
		"           0          280 checksum   frame addr=5 type=1 len=3 data=\"ABC\" checksum=07",
		"         320         1000 gap        gap 680",
	}, lines)
}

func TestPrinterFields(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, false)
	p.Fields = true
	handleAll(t, p, busEvents())
	out := buf.String()
	require.Contains(t, out, "address    address 5\n")
	require.Contains(t, out, "data       B\n")
	require.Contains(t, out, "state      trailing 9\n")
}

func TestStats(t *testing.T) {
	s := NewStats()
	handleAll(t, s, busEvents())
	c := s.Counters()
	require.Equal(t, 1, c.Frames)
	require.Equal(t, 0, c.Broadcasts)
	require.Equal(t, 1, c.Gaps)
	require.Equal(t, 1, c.Trailing)
	require.Empty(t, c.Diagnostics)

	handleAll(t, s, []dcsbios.Event{
		&dcsbios.DiagnosticEvent{Kind: dcsbios.DiagCountParity},
		&dcsbios.DiagnosticEvent{Kind: dcsbios.DiagCountParity},
		&dcsbios.BusFrame{},
	})
	c = s.Counters()
	require.Equal(t, 2, c.Diagnostics[dcsbios.DiagCountParity])
	require.Equal(t, 1, c.Broadcasts)
	require.Contains(t, s.String(), "frames=2 broadcasts=1")
	require.True(t, strings.HasSuffix(s.String(), "count-parity=2"))

	s.Reset()
	require.Equal(t, 0, s.Counters().Events)
}

func TestStatsZeroValue(t *testing.T) {
	var s Stats
	handleAll(t, &s, []dcsbios.Event{
		&dcsbios.DiagnosticEvent{Kind: dcsbios.DiagFrameDiscarded},
		&dcsbios.GapEvent{},
	})
	c := s.Counters()
	require.Equal(t, 2, c.Events)
	require.Equal(t, 1, c.Diagnostics[dcsbios.DiagFrameDiscarded])
}

func TestMux(t *testing.T) {
	errFailed := errors.New("failed")
	var calls int
	counter := dcsbios.HandleEventFunc(func(context.Context, dcsbios.Event) error {
		calls++
		return nil
	})
	failing := dcsbios.HandleEventFunc(func(context.Context, dcsbios.Event) error {
		return errFailed
	})

	var m Mux
	m.Add(failing, nil, counter)
	require.Len(t, m, 2)
	err := m.HandleEvent(context.Background(), &dcsbios.SyncEvent{})
	require.Equal(t, &fx.AggregatedError{Errors: []error{errFailed}}, err)
	require.Equal(t, 1, calls)

	var single Mux
	single.Add(counter)
	require.NotNil(t, single.Handler())
	_, isMux := single.Handler().(Mux)
	require.False(t, isMux)
}

func TestLogFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "dcsbios-sink")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	fn := filepath.Join(dir, "events.log")
	w := NewLogFile(LogFileConfig{Filename: fn, MaxSizeMB: 1})
	p := NewPrinter(w, true)
	handleAll(t, p, busEvents())
	require.NoError(t, w.Close())

	data, err := ioutil.ReadFile(fn)
	require.NoError(t, err)
	require.Contains(t, string(data), "frame addr=5")
}
