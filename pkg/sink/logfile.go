package sink

import (
	"io"

	"gopkg.in/natefinch/lumberjack.v2"
)

// LogFileConfig defines the rotation of the event log.
type LogFileConfig struct {
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	Compress   bool
}

// NewLogFile creates a rotating writer for event logs.
func NewLogFile(conf LogFileConfig) io.WriteCloser {
	return &lumberjack.Logger{
		Filename:   conf.Filename,
		MaxSize:    conf.MaxSizeMB,
		MaxBackups: conf.MaxBackups,
		Compress:   conf.Compress,
	}
}
