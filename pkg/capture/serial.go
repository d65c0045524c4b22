package capture

import (
	"io"

	"github.com/jacobsa/go-serial/serial"
	"github.com/pkg/errors"
)

// DefaultBaudRate is the baud rate of DCS-BIOS serial links.
const DefaultBaudRate = 250000

// CharTime is the time in microseconds to transmit one byte in 8N1.
func CharTime(baudRate uint) uint64 {
	if baudRate == 0 {
		return 0
	}
	return 10 * 1000000 / uint64(baudRate)
}

// SerialSource reads bytes from a serial port, stamped in microseconds
// since the port is opened.
type SerialSource struct {
	*StreamSource
	port io.ReadWriteCloser
}

// OpenSerial opens a serial port as a Source.
func OpenSerial(device string, baudRate uint) (*SerialSource, error) {
	if baudRate == 0 {
		baudRate = DefaultBaudRate
	}
	port, err := serial.Open(serial.OpenOptions{
		PortName:        device,
		BaudRate:        baudRate,
		DataBits:        8,
		ParityMode:      serial.PARITY_NONE,
		StopBits:        1,
		MinimumReadSize: 1,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open serial %s", device)
	}
	return &SerialSource{
		StreamSource: NewStreamSource(port, MicrosClock(), CharTime(baudRate)),
		port:         port,
	}, nil
}

// Close closes the port.
func (s *SerialSource) Close() error {
	return s.port.Close()
}
