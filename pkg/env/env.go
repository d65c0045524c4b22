package env

import (
	"context"
	"io"
	"log"
	"os"
	"sync"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/robotalks/dcsbios.go/pkg/capture"
	fx "github.com/robotalks/dcsbios.go/pkg/framework"
	"github.com/robotalks/dcsbios.go/pkg/publish/mqtt"
	"github.com/robotalks/dcsbios.go/pkg/publish/websocket"
	"github.com/robotalks/dcsbios.go/pkg/sink"
)

// Env is the decoding pipeline: a feeder dispatching to handlers,
// plus the publishers running alongside.
type Env struct {
	Config    *Config
	Feeder    *capture.Feeder
	Stats     *sink.Stats
	Handlers  sink.Mux
	Runnables []fx.Runnable

	closers []io.Closer
}

// NewSource opens the configured source. The returned closer releases
// all files and devices opened.
func (c *Config) NewSource() (capture.Source, io.Closer, error) {
	var src capture.Source
	var closers closerList
	switch {
	case c.Input != "":
		f, err := os.Open(c.Input)
		if err != nil {
			return nil, nil, errors.Wrap(err, "open input")
		}
		src, closers = capture.NewReader(f), append(closers, f)
	case c.Serial != "":
		port, err := capture.OpenSerial(c.Serial, c.BaudRate)
		if err != nil {
			return nil, nil, err
		}
		src, closers = port, append(closers, port)
	default:
		return nil, nil, ErrNoSource
	}
	if c.Record != "" {
		f, err := os.Create(c.Record)
		if err != nil {
			closers.Close()
			return nil, nil, errors.Wrap(err, "create record file")
		}
		src = &capture.TeeSource{Source: src, Writer: capture.NewWriter(f)}
		closers = append(closers, f)
	}
	return src, closers, nil
}

// NewEnv creates Env from config.
func (c *Config) NewEnv() (*Env, error) {
	decoder, err := c.NewDecoder()
	if err != nil {
		return nil, err
	}
	src, srcCloser, err := c.NewSource()
	if err != nil {
		return nil, err
	}
	srcCloser = &onceCloser{Closer: srcCloser}
	e := &Env{Config: c, Stats: sink.NewStats(), closers: []io.Closer{srcCloser}}
	if err := e.addHandlers(); err != nil {
		e.Close()
		return nil, err
	}
	e.Feeder = capture.NewFeeder(src, decoder, e.Handlers.Handler())
	e.Feeder.Closer = srcCloser
	return e, nil
}

// MustNewEnv creates Env and fails on error.
func (c *Config) MustNewEnv() *Env {
	e, err := c.NewEnv()
	if err != nil {
		log.Fatalln(err)
	}
	return e
}

func (e *Env) addHandlers() error {
	c := e.Config
	e.Handlers.Add(e.Stats)
	if !c.Quiet {
		p := sink.NewPrinter(os.Stdout, c.Color)
		p.Fields = c.Fields
		e.Handlers.Add(p)
	}
	if c.LogFile != "" {
		w := sink.NewLogFile(sink.LogFileConfig{
			Filename:   c.LogFile,
			MaxSizeMB:  c.LogFileMaxSizeMB,
			MaxBackups: c.LogFileBackups,
		})
		p := sink.NewPrinter(w, false)
		p.Fields = c.Fields
		e.Handlers.Add(p)
		e.closers = append(e.closers, w)
	}
	if c.MQTTURL != "" {
		pub, err := mqtt.NewPublisher(c.MQTTURL, mqtt.Meta{
			SourceID: c.SourceID,
			Protocol: c.Protocol,
			Input:    c.InputName(),
		})
		if err != nil {
			return errors.Wrap(err, "create MQTT publisher")
		}
		pub.Topics = c.Topics()
		if err := pub.Connect(); err != nil {
			return errors.Wrap(err, "connect MQTT broker")
		}
		e.Handlers.Add(pub)
		e.Runnables = append(e.Runnables, pub)
	}
	if c.WebSocketAddr != "" {
		hub := websocket.NewHub(c.WebSocketAddr)
		e.Handlers.Add(hub)
		e.Runnables = append(e.Runnables, hub)
	}
	return nil
}

// Run runs the feeder and publishers until the feeder stops.
func (e *Env) Run(ctx context.Context) error {
	return e.RunWith(fx.NewRunnerWith(ctx))
}

// RunWith runs using the specified runner.
func (e *Env) RunWith(r *fx.Runner) error {
	r.StopOnExit = true
	err := r.Go(e.Feeder).Go(e.Runnables...).Wait()
	glog.Infof("stats: %s", e.Stats)
	return err
}

// Close releases the resources.
func (e *Env) Close() error {
	return closerList(e.closers).Close()
}

type closerList []io.Closer

func (l closerList) Close() error {
	errs := make([]error, 0, len(l))
	for _, c := range l {
		errs = append(errs, c.Close())
	}
	return fx.Aggregate(errs...)
}

type onceCloser struct {
	io.Closer
	once sync.Once
	err  error
}

func (c *onceCloser) Close() error {
	c.once.Do(func() {
		c.err = c.Closer.Close()
	})
	return c.err
}
