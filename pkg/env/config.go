// Package env sets up the decoding pipeline from flags and environment.
package env

import (
	"flag"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/robotalks/dcsbios.go/pkg/capture"
	"github.com/robotalks/dcsbios.go/pkg/dcsbios"
	"github.com/robotalks/dcsbios.go/pkg/dcsbios/export"
	"github.com/robotalks/dcsbios.go/pkg/dcsbios/rs485"
)

// Protocols
const (
	ProtocolExport = "export"
	ProtocolRS485  = "rs485"
)

var (
	// ErrUnknownProtocol indicates the protocol is not supported.
	ErrUnknownProtocol = errors.New("unknown protocol")
	// ErrNoSource indicates neither serial device nor input file is specified.
	ErrNoSource = errors.New("serial device or input file is required")
)

// Config provides options to setup the decoding pipeline.
type Config struct {
	// SourceID names the source when publishing, default is the machine ID.
	SourceID string
	// Protocol is either "export" or "rs485".
	Protocol string

	// Serial is the serial device to read from.
	Serial   string
	BaudRate uint
	// Input is a capture file to replay, it takes precedence over Serial.
	Input string
	// Record is a capture file to record the bytes read.
	Record string

	// MQTTURL specifies the MQTT broker to publish events,
	// e.g. mqtt://host:port/topic-prefix
	MQTTURL string
	// MQTTTopics is a comma separated list of event topics to publish.
	MQTTTopics string
	// WebSocketAddr is the listening address of WebSocket hub.
	WebSocketAddr string

	// LogFile writes events into a rotating log file.
	LogFile          string
	LogFileMaxSizeMB int
	LogFileBackups   int

	Quiet  bool
	Fields bool
	Color  bool
}

var defaultConfig = Config{
	Protocol:         ProtocolExport,
	BaudRate:         capture.DefaultBaudRate,
	LogFileMaxSizeMB: 100,
	LogFileBackups:   3,
	Color:            true,
}

func init() {
	if val := os.Getenv("DCSBIOS_SOURCE_ID"); val != "" {
		defaultConfig.SourceID = val
	} else {
		defaultConfig.SourceID = MachineID()
	}
	if val := os.Getenv("DCSBIOS_PROTOCOL"); val != "" {
		defaultConfig.Protocol = val
	}
	if val := os.Getenv("DCSBIOS_SERIAL"); val != "" {
		defaultConfig.Serial = val
	}
	if val, err := strconv.ParseUint(os.Getenv("DCSBIOS_BAUD"), 10, 32); err == nil {
		defaultConfig.BaudRate = uint(val)
	}
	if val := os.Getenv("DCSBIOS_MQTT_URL"); val != "" {
		defaultConfig.MQTTURL = val
	}
	if val := os.Getenv("DCSBIOS_MQTT_TOPICS"); val != "" {
		defaultConfig.MQTTTopics = val
	}
	if val := os.Getenv("DCSBIOS_WS_ADDR"); val != "" {
		defaultConfig.WebSocketAddr = val
	}
	if val := os.Getenv("DCSBIOS_LOG_FILE"); val != "" {
		defaultConfig.LogFile = val
	}
}

// BindFlags binds the config to a FlagSet.
func (c *Config) BindFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.SourceID, "source-id", c.SourceID, "Source ID used when publishing.")
	fs.StringVar(&c.Protocol, "protocol", c.Protocol, "Stream protocol: export or rs485.")
	fs.StringVar(&c.Serial, "serial", c.Serial, "Serial device to read from.")
	fs.UintVar(&c.BaudRate, "baud", c.BaudRate, "Baud rate of serial device.")
	fs.StringVar(&c.Input, "input", c.Input, "Capture file to replay.")
	fs.StringVar(&c.Record, "record", c.Record, "Capture file to record bytes into.")
	fs.StringVar(&c.MQTTURL, "mqtt", c.MQTTURL, "MQTT broker URL to publish events.")
	fs.StringVar(&c.MQTTTopics, "mqtt-topics", c.MQTTTopics, "Comma separated event topics to publish, all if empty.")
	fs.StringVar(&c.WebSocketAddr, "ws", c.WebSocketAddr, "Listening address of WebSocket hub.")
	fs.StringVar(&c.LogFile, "log-file", c.LogFile, "Rotating event log file.")
	fs.IntVar(&c.LogFileMaxSizeMB, "log-file-size", c.LogFileMaxSizeMB, "Max size in MB of event log file before rotation.")
	fs.IntVar(&c.LogFileBackups, "log-file-backups", c.LogFileBackups, "Number of rotated event log files to keep.")
	fs.BoolVar(&c.Quiet, "quiet", c.Quiet, "Don't print events to stdout.")
	fs.BoolVar(&c.Fields, "fields", c.Fields, "Print field level events.")
	fs.BoolVar(&c.Color, "color", c.Color, "Colored output.")
}

// SetupFlags sets command line flags, including decoder flags.
func SetupFlags() {
	defaultConfig.BindFlags(flag.CommandLine)
	export.SetupFlags()
	rs485.SetupFlags()
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Topics parses MQTTTopics.
func (c *Config) Topics() map[string]bool {
	if c.MQTTTopics == "" {
		return nil
	}
	topics := make(map[string]bool)
	for _, topic := range strings.Split(c.MQTTTopics, ",") {
		if topic = strings.TrimSpace(topic); topic != "" {
			topics[topic] = true
		}
	}
	return topics
}

// NewDecoder creates the decoder of the configured protocol,
// using the decoder configs from flags.
func (c *Config) NewDecoder() (dcsbios.Decoder, error) {
	switch c.Protocol {
	case ProtocolExport:
		return export.Default().NewDecoder()
	case ProtocolRS485:
		return rs485.Default().NewDecoder()
	}
	return nil, errors.Wrapf(ErrUnknownProtocol, "%q", c.Protocol)
}

// MustNewDecoder creates the decoder and fails on error.
func (c *Config) MustNewDecoder() dcsbios.Decoder {
	d, err := c.NewDecoder()
	if err != nil {
		log.Fatalln(err)
	}
	return d
}

// InputName describes where bytes are read from.
func (c *Config) InputName() string {
	if c.Input != "" {
		return c.Input
	}
	return c.Serial
}
