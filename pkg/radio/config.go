package radio

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Defaults of the flight radio.
const (
	DefaultPort     = "/dev/ttyS0"
	DefaultBaud     = 38400
	DefaultAddress  = 0x15
	DefaultCallsign = "R2D1"
)

// Config defines the radio link settings.
type Config struct {
	Port        string
	Baud        int
	Address     uint
	Callsign    string
	ReadTimeout time.Duration
}

var defaultConfig = Config{
	Port:        DefaultPort,
	Baud:        DefaultBaud,
	Address:     DefaultAddress,
	Callsign:    DefaultCallsign,
	ReadTimeout: 100 * time.Millisecond,
}

func init() {
	if val := os.Getenv("R2D1_UART"); val != "" {
		defaultConfig.Port = val
	}
	if val := os.Getenv("R2D1_BAUD"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			defaultConfig.Baud = n
		}
	}
	if val := os.Getenv("R2D1_ADDRESS"); val != "" {
		if n, err := strconv.ParseUint(val, 0, 8); err == nil {
			defaultConfig.Address = uint(n)
		}
	}
	if val := os.Getenv("R2D1_CALLSIGN"); val != "" {
		defaultConfig.Callsign = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Port, "uart", defaultConfig.Port, "Serial port of the radio")
	flag.IntVar(&defaultConfig.Baud, "baud", defaultConfig.Baud, "Baud rate")
	flag.UintVar(&defaultConfig.Address, "address", defaultConfig.Address, "Node address on the radio link")
	flag.StringVar(&defaultConfig.Callsign, "callsign", defaultConfig.Callsign, "Callsign in TupperSat records")
	flag.DurationVar(&defaultConfig.ReadTimeout, "read-timeout", defaultConfig.ReadTimeout, "UART read timeout")
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

// Validate checks the settings.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("serial port must be specified")
	}
	if c.Baud <= 0 {
		return fmt.Errorf("invalid baud rate %d", c.Baud)
	}
	if c.Address > 0xff {
		return fmt.Errorf("address 0x%x exceeds one byte", c.Address)
	}
	return nil
}

// Open opens the UART.
func (c *Config) Open() (UART, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return OpenUART(c.Port, c.Baud, c.ReadTimeout)
}

// NewTupperSatRadio opens the UART and creates the radio on it.
func (c *Config) NewTupperSatRadio() (*TupperSatRadio, UART, error) {
	uart, err := c.Open()
	if err != nil {
		return nil, nil, err
	}
	return NewTupperSatRadio(uart, byte(c.Address), c.Callsign), uart, nil
}
