// SPDX-FileCopyrightText: 2025 Karl Falter <kfalter@mailbox.org>
//
// SPDX-License-Identifier: MIT

package gpiodspi

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/warthog618/go-gpiocdev"
	"go.uber.org/multierr"
)

// chipDevice models the GPIO controller operations the backend uses.
//
// It is satisfied by a thin adapter over gpiocdev.Chip, and by fakes in
// tests.
type chipDevice interface {
	RequestLine(offset int, options ...gpiocdev.LineReqOption) (claimedLine, error)
	Close() error
}

// claimedLine models one claimed GPIO line.
//
// *gpiocdev.Line satisfies this directly.
type claimedLine interface {
	Reconfigure(options ...gpiocdev.LineConfigOption) error
	SetValue(value int) error
	Value() (int, error)
	Close() error
}

// cdevChip adapts a gpiocdev.Chip to the chipDevice seam.
type cdevChip struct {
	chip *gpiocdev.Chip
}

func (c cdevChip) RequestLine(offset int, options ...gpiocdev.LineReqOption) (claimedLine, error) {
	return c.chip.RequestLine(offset, options...)
}

func (c cdevChip) Close() error {
	return c.chip.Close()
}

// openChip opens the GPIO character device for gpiochip<num>.
//
// The consumer becomes the label attached to lines subsequently claimed from
// the chip.
func openChip(num int, consumer string) (chipDevice, error) {
	c, err := gpiocdev.NewChip(fmt.Sprintf("gpiochip%d", num), gpiocdev.WithConsumer(consumer))
	if err != nil {
		return nil, err
	}
	return cdevChip{chip: c}, nil
}

// lineGroup owns a fixed group of lines claimed from one chip, released as a
// unit.
type lineGroup struct {
	lines []claimedLine
}

// claimLines claims the lines at the given offsets as a group.
//
// The claim is all or nothing - if any line cannot be claimed, the lines
// already claimed are released before returning, so a group observably holds
// either every offset or none.
func claimLines(chip chipDevice, offsets []int) (*lineGroup, error) {
	g := lineGroup{}
	for _, o := range offsets {
		l, err := chip.RequestLine(o)
		if err != nil {
			g.release()
			return nil, errors.Wrapf(err, "claiming line %d", o)
		}
		g.lines = append(g.lines, l)
	}
	return &g, nil
}

// numLines returns the number of lines held by the group.
func (g *lineGroup) numLines() int {
	if g == nil {
		return 0
	}
	return len(g.lines)
}

// line returns the claimed line at the given position within the group.
func (g *lineGroup) line(pos int) claimedLine {
	return g.lines[pos]
}

// release frees every line held by the group. A no-op on an empty group.
func (g *lineGroup) release() error {
	var err error
	for _, l := range g.lines {
		err = multierr.Append(err, l.Close())
	}
	g.lines = nil
	return err
}
