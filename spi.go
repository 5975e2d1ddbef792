// SPDX-FileCopyrightText: 2025 Karl Falter <kfalter@mailbox.org>
//
// SPDX-License-Identifier: MIT

package gpiodspi

import (
	"github.com/warthog618/go-gpiocdev"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// ReadFault is returned by Master.MISO when the data-in line could not be
// sampled. It is negative so it is distinguishable from both logical levels.
const ReadFault = -1

// Master is the set of elementary signal operations consumed by a bit-bang
// SPI protocol engine.
//
// The set operations are fire and forget: a failed line write is logged and
// otherwise swallowed, as a bit-bang loop has no meaningful way to recover
// from a single failed edge, and the write is idempotent to retry. MISO
// reports a read fault through its return value instead, as the engine's
// correctness depends on knowing whether a sampled bit is valid.
//
// The operations must be invoked serially; concurrent invocation against
// the same master is not supported.
type Master interface {
	// SetCS drives the chip-select line to the given logical level.
	SetCS(level int)

	// SetSCK drives the clock line to the given logical level.
	SetSCK(level int)

	// SetMOSI drives the data-out line to the given logical level.
	SetMOSI(level int)

	// MISO samples the data-in line, returning ReadFault if the sample
	// failed.
	MISO() int
}

// SPI holds the GPIO resources backing one bit-bang SPI session: the open
// controller, the group claim over the four signal lines, and a view of
// each line bound to its signal role.
type SPI struct {
	chip  chipDevice
	lines *lineGroup

	cs   claimedLine
	sck  claimedLine
	mosi claimedLine
	miso claimedLine

	log *zap.SugaredLogger
}

// New claims the GPIO resources described by cfg and returns a fully
// configured session.
//
// The controller is opened first, then the four lines are claimed as a group
// in the order cs, sck, mosi, miso, then each line's direction is
// configured: cs, sck and mosi as outputs driven to the inactive idle level
// (high, as chip-select is conventionally active-low), and miso as an input.
// If any step fails, everything acquired so far is released before the error
// is returned.
//
// Direction configuration uses uAPI line reconfiguration and so requires
// Linux v5.5 or later.
func New(cfg Config, options ...Option) (*SPI, error) {
	o := defaultOptions()
	for _, option := range options {
		option.applyOption(&o)
	}
	s := SPI{log: o.logger}

	chip, err := o.open(cfg.Chip, o.consumer)
	if err != nil {
		s.Close()
		return nil, &DeviceOpenError{Chip: cfg.Chip, Err: err}
	}
	s.chip = chip

	g, err := claimLines(chip, []int{cfg.CS, cfg.SCK, cfg.MOSI, cfg.MISO})
	if err != nil {
		s.Close()
		return nil, &LineClaimError{Err: err}
	}
	s.lines = g
	s.cs = g.line(0)
	s.sck = g.line(1)
	s.mosi = g.line(2)
	s.miso = g.line(3)

	// All four direction requests are issued before the results are
	// checked, so a failure on one line does not mask failures on the
	// others.
	err = multierr.Combine(
		s.cs.Reconfigure(gpiocdev.AsOutput(1)),
		s.sck.Reconfigure(gpiocdev.AsOutput(1)),
		s.mosi.Reconfigure(gpiocdev.AsOutput(1)),
		s.miso.Reconfigure(gpiocdev.AsInput),
	)
	if err != nil {
		s.Close()
		return nil, &LineConfigError{Err: err}
	}
	return &s, nil
}

// Close releases the line group and the controller, in reverse order of
// acquisition. Each release is guarded so Close is safe on a partially
// initialized session, and calling it again is a no-op.
//
// Teardown is best effort: release failures are logged, never returned.
func (s *SPI) Close() error {
	if s.lines.numLines() > 0 {
		if err := s.lines.release(); err != nil {
			s.log.Errorw("releasing GPIO lines failed", "error", err)
		}
	}
	s.lines = nil
	s.cs, s.sck, s.mosi, s.miso = nil, nil, nil, nil
	if s.chip != nil {
		if err := s.chip.Close(); err != nil {
			s.log.Errorw("closing gpiochip failed", "error", err)
		}
		s.chip = nil
	}
	return nil
}

// SetCS drives the chip-select line to the given logical level.
func (s *SPI) SetCS(level int) {
	if err := s.cs.SetValue(level); err != nil {
		s.log.Errorw("setting cs line failed", "level", level, "error", err)
	}
}

// SetSCK drives the clock line to the given logical level.
func (s *SPI) SetSCK(level int) {
	if err := s.sck.SetValue(level); err != nil {
		s.log.Errorw("setting sck line failed", "level", level, "error", err)
	}
}

// SetMOSI drives the data-out line to the given logical level.
func (s *SPI) SetMOSI(level int) {
	if err := s.mosi.SetValue(level); err != nil {
		s.log.Errorw("setting mosi line failed", "level", level, "error", err)
	}
}

// MISO samples the data-in line.
//
// Returns ReadFault if the sample failed.
func (s *SPI) MISO() int {
	v, err := s.miso.Value()
	if err != nil {
		s.log.Errorw("getting miso line failed", "error", err)
		return ReadFault
	}
	return v
}
