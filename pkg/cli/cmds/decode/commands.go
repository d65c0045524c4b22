// Package decode provides shell commands decoding captures and bytes.
package decode

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/dcsbios.go/pkg/capture"
	"github.com/robotalks/dcsbios.go/pkg/cli/sh"
	"github.com/robotalks/dcsbios.go/pkg/dcsbios"
	"github.com/robotalks/dcsbios.go/pkg/sink"
)

// ByteTime is the offset distance between bytes entered by hand,
// the character time at the default baud rate.
var ByteTime = capture.CharTime(capture.DefaultBaudRate)

type contextWriter struct {
	c *ishell.Context
}

func (w contextWriter) Write(p []byte) (int, error) {
	w.c.Print(string(p))
	return len(p), nil
}

func newDecoder(s *sh.Shell, protocol string) (dcsbios.Decoder, error) {
	conf := *s.Config
	conf.Protocol = protocol
	return conf.NewDecoder()
}

func newHandler(c *ishell.Context, s *sh.Shell) dcsbios.EventHandler {
	s.Stats.Reset()
	printer := sink.NewPrinter(contextWriter{c: c}, s.Config.Color)
	printer.Fields = s.Config.Fields
	return sink.Mux{s.Stats, printer}
}

// ParseHexBytes parses bytes like "55 55 0x10 04" or "55550410".
func ParseHexBytes(args []string) ([]byte, error) {
	var data []byte
	for _, arg := range args {
		arg = strings.TrimPrefix(strings.ToLower(arg), "0x")
		b, err := hex.DecodeString(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid hex %q: %v", arg, err)
		}
		data = append(data, b...)
	}
	return data, nil
}

// Stamp assigns offsets to bytes, back to back spaced by byteTime.
func Stamp(data []byte, byteTime uint64) []dcsbios.ByteEvent {
	evs := make([]dcsbios.ByteEvent, len(data))
	for n, b := range data {
		start := uint64(n) * byteTime
		evs[n] = dcsbios.ByteEvent{Value: b, Start: start, End: start + byteTime}
	}
	return evs
}

var (
	// DecodeCmd decodes a capture file.
	DecodeCmd = ishell.Cmd{
		Name:    "decode",
		Aliases: []string{"dec"},
		Help:    "PROTOCOL FILE",
		Func: func(c *ishell.Context) {
			if len(c.Args) != 2 {
				c.Err(fmt.Errorf("PROTOCOL FILE expected"))
				return
			}
			s := sh.ShellFrom(c)
			decoder, err := newDecoder(s, c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			f, err := os.Open(c.Args[1])
			if err != nil {
				c.Err(err)
				return
			}
			feeder := capture.NewFeeder(capture.NewReader(f), decoder, newHandler(c, s))
			feeder.Closer = f
			if err := feeder.Run(context.Background()); err != nil {
				c.Err(err)
			}
		},
	}

	// FeedCmd decodes bytes entered in hex.
	FeedCmd = ishell.Cmd{
		Name: "feed",
		Help: "PROTOCOL HEX...",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 2 {
				c.Err(fmt.Errorf("PROTOCOL HEX... expected"))
				return
			}
			s := sh.ShellFrom(c)
			decoder, err := newDecoder(s, c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			data, err := ParseHexBytes(c.Args[1:])
			if err != nil {
				c.Err(err)
				return
			}
			src := capture.SliceSource(Stamp(data, ByteTime))
			if err := capture.NewFeeder(&src, decoder, newHandler(c, s)).Run(context.Background()); err != nil {
				c.Err(err)
			}
		},
	}
)

func init() {
	sh.AddCmds(
		&DecodeCmd,
		&FeedCmd,
	)
}
