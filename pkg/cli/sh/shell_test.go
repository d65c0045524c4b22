package sh

import (
	"context"
	"flag"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/dcsbios.go/pkg/env"
	fx "github.com/robotalks/dcsbios.go/pkg/framework"
)

func TestShellSet(t *testing.T) {
	conf := env.NewConfig()
	s := New(conf)
	require.NoError(t, s.Set("protocol", "rs485"))
	require.Equal(t, env.ProtocolRS485, conf.Protocol)
	require.Equal(t, "rs485", s.ConfigValues()["protocol"])

	require.NoError(t, s.Set("quiet", "true"))
	require.True(t, conf.Quiet)
	require.Error(t, s.Set("baud", "fast"))
	require.Error(t, s.Set("no-such-config", "1"))

	var global string
	flag.StringVar(&global, "sh-test-global", "", "")
	require.NoError(t, s.Set("sh-test-global", "x"))
	require.Equal(t, "x", global)
}

func TestShellStartWithoutSource(t *testing.T) {
	conf := env.NewConfig()
	conf.Serial, conf.Input = "", ""
	s := New(conf)
	_, err := s.Start()
	require.Equal(t, env.ErrNoSource, err)
	require.Error(t, s.Stop())
	require.Equal(t, s.Stats, s.CurrentStats())
}

func TestShellStopCancelsSession(t *testing.T) {
	s := New(env.NewConfig())
	session := &Session{Runner: fx.NewRunner(), done: make(chan struct{})}
	s.session = session
	go func() {
		session.err = session.Runner.Go(fx.RunFunc(func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		})).Wait()
		close(session.done)
	}()
	require.NoError(t, s.Stop())
}
