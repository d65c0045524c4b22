package capture

import (
	"context"
	"io"

	"github.com/golang/glog"

	"github.com/robotalks/dcsbios.go/pkg/dcsbios"
)

// Feeder reads bytes from a Source, feeds them into a Decoder and
// dispatches decoded events to a Handler in order.
type Feeder struct {
	Source  Source
	Decoder dcsbios.Decoder
	Handler dcsbios.EventHandler
	// Closer is closed when Run exits, it's usually the Source,
	// so a blocking read is released.
	Closer io.Closer
}

// NewFeeder creates a Feeder.
func NewFeeder(src Source, decoder dcsbios.Decoder, handler dcsbios.EventHandler) *Feeder {
	f := &Feeder{Source: src, Decoder: decoder, Handler: handler}
	if closer, ok := src.(io.Closer); ok {
		f.Closer = closer
	}
	return f
}

// Name implements framework.Named.
func (f *Feeder) Name() string {
	return "feeder"
}

// Run implements framework.Runnable.
// It returns nil once the Source reaches io.EOF.
func (f *Feeder) Run(ctx context.Context) error {
	if f.Closer != nil {
		defer f.Closer.Close()
	}
	evCh, errCh := make(chan dcsbios.ByteEvent), make(chan error, 1)
	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go f.readLoop(subCtx, evCh, errCh)
	for {
		select {
		case ev := <-evCh:
			if err := f.Feed(ctx, ev); err != nil {
				return err
			}
		case err := <-errCh:
			if err == io.EOF {
				glog.V(1).Info("feeder: end of stream")
				return nil
			}
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Feed decodes one byte and dispatches the events.
func (f *Feeder) Feed(ctx context.Context, ev dcsbios.ByteEvent) error {
	for _, decoded := range dcsbios.FeedEvent(f.Decoder, ev) {
		if f.Handler == nil {
			continue
		}
		if err := f.Handler.HandleEvent(ctx, decoded); err != nil {
			return err
		}
	}
	return nil
}

func (f *Feeder) readLoop(ctx context.Context, evCh chan dcsbios.ByteEvent, errCh chan error) {
	for {
		ev, err := f.Source.ReadByteEvent()
		if err != nil {
			errCh <- err
			return
		}
		select {
		case evCh <- ev:
		case <-ctx.Done():
			return
		}
	}
}
