package hs

import (
	"fmt"
	"io"
	"time"

	"go.bug.st/serial"
)

// Port is the byte device behind a Transport.
type Port interface {
	io.Reader
	io.Writer
	io.Closer
}

// Opener opens the device at a baud rate.
type Opener interface {
	Open(baud int) (Port, error)
}

// OpenFunc is the func form of Opener.
type OpenFunc func(baud int) (Port, error)

// Open implements Opener.
func (f OpenFunc) Open(baud int) (Port, error) {
	return f(baud)
}

// SerialOpener opens a host serial port in 8N1 mode.
type SerialOpener struct {
	Path string
	// ReadTimeout bounds each blocking read so the receive pump can
	// observe Disable.
	ReadTimeout time.Duration
}

// DefaultReadTimeout is used when SerialOpener.ReadTimeout is zero.
const DefaultReadTimeout = 50 * time.Millisecond

// Open implements Opener.
func (o *SerialOpener) Open(baud int) (Port, error) {
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(o.Path, mode)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", o.Path, err)
	}
	timeout := o.ReadTimeout
	if timeout <= 0 {
		timeout = DefaultReadTimeout
	}
	if err := port.SetReadTimeout(timeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("set read timeout on %s: %w", o.Path, err)
	}
	return port, nil
}
