// Package sh provides the interactive shell of dcsbios-cli.
package sh

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"sync"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/dcsbios.go/pkg/env"
	fx "github.com/robotalks/dcsbios.go/pkg/framework"
	"github.com/robotalks/dcsbios.go/pkg/sink"
)

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	OutputJSON  bool

	Shell  *ishell.Shell
	Config *env.Config
	// Flags is bound to Config, used by the set command.
	Flags *flag.FlagSet
	// Stats collects events of the last decoding.
	Stats *sink.Stats

	lock    sync.Mutex
	session *Session
}

// Session is a pipeline running in the background.
type Session struct {
	Env    *env.Env
	Runner *fx.Runner

	done chan struct{}
	err  error
}

// Wait waits for the session to stop.
func (s *Session) Wait() error {
	<-s.done
	return s.err
}

const (
	shellKey = "$shell"
	prompt   = "dcsbios> "
)

var (
	// flags

	evalOnly   bool
	outputJSON bool

	// commands
	commands = []*ishell.Cmd{
		&ConfigCmd,
		&SetCmd,
		&StartCmd,
		&StopCmd,
		&StatsCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
}

// AddCmds is used by other commands providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell.
func New(conf *env.Config) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,

		Shell:  ishell.New(),
		Config: conf,
		Flags:  flag.NewFlagSet("set", flag.ContinueOnError),
		Stats:  sink.NewStats(),
	}
	conf.BindFlags(s.Flags)
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(prompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// Set sets a config value by flag name. Decoder flags registered
// on the command line are also accepted.
func (s *Shell) Set(key, value string) error {
	if s.Flags.Lookup(key) != nil {
		return s.Flags.Set(key, value)
	}
	if flag.Lookup(key) != nil {
		return flag.Set(key, value)
	}
	return fmt.Errorf("unknown config %q", key)
}

// ConfigValues lists current config values by flag name.
func (s *Shell) ConfigValues() map[string]string {
	values := make(map[string]string)
	s.Flags.VisitAll(func(f *flag.Flag) {
		values[f.Name] = f.Value.String()
	})
	return values
}

// PrintValue prints a value as JSON if OutputJSON, otherwise as text.
func (s *Shell) PrintValue(c *ishell.Context, value interface{}) {
	if s.OutputJSON {
		out, err := json.Marshal(value)
		if err != nil {
			c.Err(err)
			return
		}
		c.Println(string(out))
		return
	}
	c.Println(value)
}

// Start starts the configured pipeline in the background.
func (s *Shell) Start() (*Session, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.session != nil {
		return nil, fmt.Errorf("already started")
	}
	conf := *s.Config
	conf.Quiet = true
	e, err := conf.NewEnv()
	if err != nil {
		return nil, err
	}
	session := &Session{Env: e, Runner: fx.NewRunner(), done: make(chan struct{})}
	s.session = session
	go func() {
		session.err = e.RunWith(session.Runner)
		e.Close()
		close(session.done)
		s.lock.Lock()
		if s.session == session {
			s.session = nil
		}
		s.lock.Unlock()
	}()
	return session, nil
}

// Stop stops the running pipeline.
func (s *Shell) Stop() error {
	s.lock.Lock()
	session := s.session
	s.lock.Unlock()
	if session == nil {
		return fmt.Errorf("not started")
	}
	session.Runner.Stop()
	return session.Wait()
}

// CurrentStats gets the stats of the running pipeline,
// or of the last decoding.
func (s *Shell) CurrentStats() *sink.Stats {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.session != nil {
		return s.session.Env.Stats
	}
	return s.Stats
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

var (
	// ConfigCmd prints current config.
	ConfigCmd = ishell.Cmd{
		Name:    "config",
		Aliases: []string{"cfg"},
		Help:    "print current config",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			values := s.ConfigValues()
			if s.OutputJSON {
				s.PrintValue(c, values)
				return
			}
			s.Flags.VisitAll(func(f *flag.Flag) {
				c.Printf("%-16s %s\n", f.Name, values[f.Name])
			})
		},
	}

	// SetCmd sets a config value.
	SetCmd = ishell.Cmd{
		Name: "set",
		Help: "KEY VALUE",
		Func: func(c *ishell.Context) {
			if len(c.Args) != 2 {
				c.Err(fmt.Errorf("KEY VALUE expected"))
				return
			}
			if err := ShellFrom(c).Set(c.Args[0], c.Args[1]); err != nil {
				c.Err(err)
			}
		},
	}

	// StartCmd starts the configured pipeline.
	StartCmd = ishell.Cmd{
		Name: "start",
		Help: "start decoding from configured serial device or input",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			if _, err := s.Start(); err != nil {
				c.Err(err)
				return
			}
			c.Printf("started %s from %s\n", s.Config.Protocol, s.Config.InputName())
		},
	}

	// StopCmd stops the pipeline.
	StopCmd = ishell.Cmd{
		Name: "stop",
		Help: "stop decoding",
		Func: func(c *ishell.Context) {
			if err := ShellFrom(c).Stop(); err != nil {
				c.Err(err)
			}
		},
	}

	// StatsCmd prints stats.
	StatsCmd = ishell.Cmd{
		Name: "stats",
		Help: "print stats of current or last decoding",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			stats := s.CurrentStats()
			if s.OutputJSON {
				s.PrintValue(c, stats.Counters())
				return
			}
			c.Println(stats.String())
		},
	}
)

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	New(env.NewConfig()).Run(flag.Args()...)
}
