package env

import (
	"context"
	"flag"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/robotalks/dcsbios.go/pkg/capture"
	"github.com/robotalks/dcsbios.go/pkg/dcsbios"
	"github.com/robotalks/dcsbios.go/pkg/dcsbios/export"
	"github.com/robotalks/dcsbios.go/pkg/dcsbios/rs485"
)

func writeCapture(t *testing.T, fn string, data ...byte) {
	f, err := os.Create(fn)
	require.NoError(t, err)
	defer f.Close()
	w := capture.NewWriter(f)
	for n, b := range data {
		require.NoError(t, w.WriteByteEvent(dcsbios.ByteEvent{
			Value: b,
			Start: uint64(n) * 40,
			End:   uint64(n+1) * 40,
		}))
	}
}

func tempDir(t *testing.T) (string, func()) {
	dir, err := ioutil.TempDir("", "dcsbios-env")
	require.NoError(t, err)
	return dir, func() { os.RemoveAll(dir) }
}

func TestNewDecoder(t *testing.T) {
	conf := NewConfig()
	conf.Protocol = ProtocolExport
	d, err := conf.NewDecoder()
	require.NoError(t, err)
	require.IsType(t, &export.Decoder{}, d)

	conf.Protocol = ProtocolRS485
	d, err = conf.NewDecoder()
	require.NoError(t, err)
	require.IsType(t, &rs485.Decoder{}, d)

	conf.Protocol = "can"
	_, err = conf.NewDecoder()
	require.Equal(t, ErrUnknownProtocol, errors.Cause(err))
	require.Contains(t, err.Error(), `"can"`)
}

func TestNewSource(t *testing.T) {
	dir, cleanup := tempDir(t)
	defer cleanup()

	conf := NewConfig()
	conf.Serial = ""
	_, _, err := conf.NewSource()
	require.Equal(t, ErrNoSource, err)

	conf.Input = filepath.Join(dir, "missing.cap")
	_, _, err = conf.NewSource()
	require.Error(t, err)
	require.True(t, os.IsNotExist(errors.Cause(err)))

	conf.Input = filepath.Join(dir, "in.cap")
	conf.Record = filepath.Join(dir, "out.cap")
	writeCapture(t, conf.Input, 1, 2, 3)
	src, closer, err := conf.NewSource()
	require.NoError(t, err)
	for n := 0; n < 3; n++ {
		_, err := src.ReadByteEvent()
		require.NoError(t, err)
	}
	require.NoError(t, closer.Close())

	in, err := ioutil.ReadFile(conf.Input)
	require.NoError(t, err)
	out, err := ioutil.ReadFile(conf.Record)
	require.NoError(t, err)
	require.Equal(t, in, out)
}

func TestEnvReplay(t *testing.T) {
	dir, cleanup := tempDir(t)
	defer cleanup()

	conf := NewConfig()
	conf.Protocol = ProtocolRS485
	conf.Input = filepath.Join(dir, "bus.cap")
	conf.LogFile = filepath.Join(dir, "events.log")
	conf.Quiet = true
	conf.MQTTURL, conf.WebSocketAddr = "", ""
	writeCapture(t, conf.Input, 0, 1, 0, 0x10, 5, 1, 2, 'h', 'i', 0x20)

	e, err := conf.NewEnv()
	require.NoError(t, err)
	require.NoError(t, e.Run(context.Background()))
	require.NoError(t, e.Close())

	c := e.Stats.Counters()
	require.Equal(t, 2, c.Frames)
	require.Equal(t, 1, c.Broadcasts)

	log, err := ioutil.ReadFile(conf.LogFile)
	require.NoError(t, err)
	require.Contains(t, string(log), `frame addr=5 type=1 len=2 data="hi" checksum=20`)
}

func TestBindFlags(t *testing.T) {
	conf := NewConfig()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	conf.BindFlags(fs)
	require.NoError(t, fs.Parse([]string{
		"-protocol", "rs485",
		"-baud", "115200",
		"-mqtt-topics", "frame, gap,,",
		"-fields",
	}))
	require.Equal(t, ProtocolRS485, conf.Protocol)
	require.Equal(t, uint(115200), conf.BaudRate)
	require.True(t, conf.Fields)
	require.Equal(t, map[string]bool{"frame": true, "gap": true}, conf.Topics())

	require.NoError(t, fs.Set("input", "a.cap"))
	require.Equal(t, "a.cap", conf.InputName())
}

type closeFunc func() error

func (f closeFunc) Close() error { return f() }

func TestCloserList(t *testing.T) {
	var closed int
	ok := closeFunc(func() error { closed++; return nil })
	errA, errB := errors.New("a failed"), errors.New("b failed")

	require.NoError(t, closerList{ok, ok}.Close())
	require.Equal(t, 2, closed)

	err := closerList{ok, closeFunc(func() error { return errA })}.Close()
	require.EqualError(t, err, "a failed")
	require.Equal(t, 3, closed)

	err = closerList{closeFunc(func() error { return errA }), ok, closeFunc(func() error { return errB })}.Close()
	require.EqualError(t, err, "Multiple errors:\na failed\nb failed")
	require.Equal(t, 4, closed)
}
