// SPDX-FileCopyrightText: 2025 Karl Falter <kfalter@mailbox.org>
//
// SPDX-License-Identifier: MIT

/*
Package gpiodspi drives a bit-bang SPI bus over GPIO lines claimed from a
Linux GPIO character device (/dev/gpiochip<n>).

The package owns the GPIO resource lifecycle for one SPI session: it opens
the controller, claims the chip-select, clock, data-out and data-in lines as
a group, configures their directions, and exposes the four elementary signal
operations ([Master]) that a generic bit-bang SPI protocol engine sequences
into byte transfers. The protocol engine itself - clock phase and polarity,
bit ordering, timing - is outside this package.

[New] acquires the resources described by a [Config] and returns a session
whose [SPI.Close] releases them. Acquisition is strictly ordered and every
failure path unwinds exactly what was acquired, so a failed initialization
never leaks a controller or line handle, and Close may be called on a
session in any state, any number of times.

[Init] additionally wires a session into a host process: it registers Close
with the host's shutdown registry and the signal operations with the
protocol engine, per the [Runtime] contract. Once the shutdown registration
has succeeded, the registered callback is the sole owner of the session.

The signal operations are synchronous and must be invoked serially; the
package does no internal locking.

# Example Usage

Initialize from programmer parameters and register with a host runtime:

	err := gpiodspi.Init(rt, map[string]string{
		"gpiochip": "0",
		"cs":       "8",
		"sck":      "11",
		"mosi":     "10",
		"miso":     "9",
	})

Or drive the lines directly:

	s, err := gpiodspi.New(gpiodspi.Config{Chip: 0, CS: 8, SCK: 11, MOSI: 10, MISO: 9})
	if err != nil {
		...
	}
	defer s.Close()
	s.SetCS(0)
	s.SetSCK(1)
	v := s.MISO()

Claimed lines carry a consumer label (default "gpiodspi") visible in tools
such as gpioinfo; use [WithConsumer] to override it.

Line direction configuration uses uAPI line reconfiguration and requires
Linux v5.5 or later.
*/
package gpiodspi
