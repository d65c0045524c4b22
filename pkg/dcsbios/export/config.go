package export

import (
	"errors"
	"flag"
)

// Config defines the tunable constants of the export protocol.
type Config struct {
	// SyncByte is the value repeated to mark a new frame.
	SyncByte byte
	// SyncRunLength is the number of consecutive SyncByte to acquire sync.
	SyncRunLength int
	// ReservedAddress is never a valid data address. When decoded as an
	// address, the decoder goes back to wait for sync.
	ReservedAddress uint16
}

// Defaults of the export protocol.
const (
	DefaultSyncByte        byte   = 0x55
	DefaultSyncRunLength   int    = 4
	DefaultReservedAddress uint16 = 0x5555
)

var defaultConfig = Config{
	SyncByte:        DefaultSyncByte,
	SyncRunLength:   DefaultSyncRunLength,
	ReservedAddress: DefaultReservedAddress,
}

// ErrInvalidSyncRunLength indicates SyncRunLength is less than 1.
var ErrInvalidSyncRunLength = errors.New("sync run length must be positive")

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.IntVar(&defaultConfig.SyncRunLength, "export-sync-run", defaultConfig.SyncRunLength, "Number of consecutive sync bytes to acquire sync.")
	flag.Var((*hexUint16)(&defaultConfig.ReservedAddress), "export-reserved-addr", "Reserved address which forces resync (hex).")
	flag.Var((*hexByte)(&defaultConfig.SyncByte), "export-sync-byte", "Sync byte value (hex).")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Validate checks the config.
func (c *Config) Validate() error {
	if c.SyncRunLength < 1 {
		return ErrInvalidSyncRunLength
	}
	return nil
}

// NewDecoder creates a decoder using the config.
func (c *Config) NewDecoder() (*Decoder, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return NewDecoderWith(*c), nil
}
