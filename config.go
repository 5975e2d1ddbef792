// SPDX-FileCopyrightText: 2025 Karl Falter <kfalter@mailbox.org>
//
// SPDX-License-Identifier: MIT

package gpiodspi

import "strconv"

// The programmer parameter names recognised by ParseParams.
const (
	paramCS   = "cs"
	paramSCK  = "sck"
	paramMOSI = "mosi"
	paramMISO = "miso"
	paramChip = "gpiochip"
)

// Config identifies the GPIO controller and the line driving each SPI
// signal.
type Config struct {
	// Chip is the index of the GPIO controller, addressing the device
	// /dev/gpiochip<Chip>.
	Chip int

	// CS is the offset of the chip-select line within the chip.
	CS int

	// SCK is the offset of the clock line.
	SCK int

	// MOSI is the offset of the data-out line.
	MOSI int

	// MISO is the offset of the data-in line.
	MISO int
}

// ParseParams builds a Config from programmer parameters.
//
// All five parameters - cs, sck, mosi, miso and gpiochip - are required
// non-negative integers; there are no defaults. The first missing or invalid
// parameter is reported as a *ConfigError.
func ParseParams(params map[string]string) (Config, error) {
	cfg := Config{}
	for _, p := range []struct {
		name string
		dst  *int
	}{
		{paramCS, &cfg.CS},
		{paramSCK, &cfg.SCK},
		{paramMOSI, &cfg.MOSI},
		{paramMISO, &cfg.MISO},
		{paramChip, &cfg.Chip},
	} {
		v, ok := params[p.name]
		if !ok {
			return Config{}, &ConfigError{Param: p.name, Reason: "missing"}
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, &ConfigError{Param: p.name, Reason: "not an integer"}
		}
		if n < 0 {
			return Config{}, &ConfigError{Param: p.name, Reason: "negative"}
		}
		*p.dst = n
	}
	return cfg, nil
}
