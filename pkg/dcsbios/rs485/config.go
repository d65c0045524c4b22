package rs485

import (
	"errors"
	"flag"
)

// Config defines the gap thresholds of the bus protocol.
//
// Both thresholds are plain differences between the offsets passed to
// Decoder.Feed. They are commonly microseconds, but the decoder never
// assumes any unit.
type Config struct {
	// GapResetThreshold is the minimum idle gap which ends a frame.
	GapResetThreshold uint64
	// GapNoiseCeiling is the gap from which silence is no longer reported
	// as an idle gap (e.g. between captures or power cycles).
	// It still resets the frame.
	GapNoiseCeiling uint64
}

// Defaults of the bus protocol, in offset units.
const (
	DefaultGapResetThreshold uint64 = 300
	DefaultGapNoiseCeiling   uint64 = 5000
)

var defaultConfig = Config{
	GapResetThreshold: DefaultGapResetThreshold,
	GapNoiseCeiling:   DefaultGapNoiseCeiling,
}

var (
	// ErrInvalidGapThreshold indicates the reset threshold is zero.
	ErrInvalidGapThreshold = errors.New("gap reset threshold must be positive")
	// ErrInvalidGapCeiling indicates the noise ceiling is below the reset threshold.
	ErrInvalidGapCeiling = errors.New("gap noise ceiling must not be less than reset threshold")
)

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.Uint64Var(&defaultConfig.GapResetThreshold, "rs485-gap-reset", defaultConfig.GapResetThreshold, "Idle gap (offset units) which resets the frame.")
	flag.Uint64Var(&defaultConfig.GapNoiseCeiling, "rs485-gap-ceiling", defaultConfig.GapNoiseCeiling, "Idle gap (offset units) from which gaps are not reported.")
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
	if c.GapResetThreshold == 0 {
		return ErrInvalidGapThreshold
	}
	if c.GapNoiseCeiling < c.GapResetThreshold {
		return ErrInvalidGapCeiling
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
