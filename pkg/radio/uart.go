package radio

import (
	"fmt"
	"io"
	"time"

	"go.bug.st/serial"
)

// UART is the byte link to the radio module.
type UART interface {
	io.ReadWriteCloser
}

// OpenUART opens a serial port in 8N1 mode. Reads return after
// readTimeout with no data, a non-positive value blocks.
func OpenUART(port string, baud int, readTimeout time.Duration) (UART, error) {
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	p, err := serial.Open(port, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", port, err)
	}
	if readTimeout > 0 {
		if err = p.SetReadTimeout(readTimeout); err != nil {
			p.Close()
			return nil, fmt.Errorf("set read timeout on %s: %w", port, err)
		}
	}
	return p, nil
}

// ListPorts lists serial ports present on the system.
func ListPorts() ([]string, error) {
	return serial.GetPortsList()
}
