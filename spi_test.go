// SPDX-FileCopyrightText: 2025 Karl Falter <kfalter@mailbox.org>
//
// SPDX-License-Identifier: MIT

package gpiodspi

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warthog618/go-gpiocdev"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeLine struct {
	offset         int
	reconfigures   int
	reconfigureErr error
	sets           []int
	setErr         error
	value          int
	valueErr       error
	closes         int
}

func (l *fakeLine) Reconfigure(options ...gpiocdev.LineConfigOption) error {
	l.reconfigures++
	return l.reconfigureErr
}

func (l *fakeLine) SetValue(value int) error {
	if l.setErr != nil {
		return l.setErr
	}
	l.sets = append(l.sets, value)
	l.value = value
	return nil
}

func (l *fakeLine) Value() (int, error) {
	if l.valueErr != nil {
		return 0, l.valueErr
	}
	return l.value, nil
}

func (l *fakeLine) Close() error {
	l.closes++
	return nil
}

type fakeChip struct {
	lines          map[int]*fakeLine
	requestErr     map[int]error
	reconfigureErr map[int]error
	requests       []int
	closes         int
}

func newFakeChip() *fakeChip {
	return &fakeChip{
		lines:          map[int]*fakeLine{},
		requestErr:     map[int]error{},
		reconfigureErr: map[int]error{},
	}
}

func (c *fakeChip) RequestLine(offset int, options ...gpiocdev.LineReqOption) (claimedLine, error) {
	c.requests = append(c.requests, offset)
	if err := c.requestErr[offset]; err != nil {
		return nil, err
	}
	l := &fakeLine{offset: offset, reconfigureErr: c.reconfigureErr[offset]}
	c.lines[offset] = l
	return l, nil
}

func (c *fakeChip) Close() error {
	c.closes++
	return nil
}

// openerFor returns an option that substitutes chip opening with the given
// fake.
func openerFor(c *fakeChip) Option {
	return openerOption(func(num int, consumer string) (chipDevice, error) {
		return c, nil
	})
}

func failingOpener(err error) Option {
	return openerOption(func(num int, consumer string) (chipDevice, error) {
		return nil, err
	})
}

var testCfg = Config{Chip: 0, CS: 5, SCK: 6, MOSI: 7, MISO: 8}

var testOffsets = []int{5, 6, 7, 8}

func testParams() map[string]string {
	return map[string]string{
		"cs":       "5",
		"sck":      "6",
		"mosi":     "7",
		"miso":     "8",
		"gpiochip": "0",
	}
}

func TestNew(t *testing.T) {
	c := newFakeChip()
	s, err := New(testCfg, openerFor(c))
	require.Nil(t, err)

	// lines claimed in the fixed role order, each direction requested once
	assert.Equal(t, testOffsets, c.requests)
	for _, o := range testOffsets {
		assert.Equal(t, 1, c.lines[o].reconfigures)
	}

	// each signal operation reaches the line bound to its role
	s.SetCS(0)
	assert.Equal(t, []int{0}, c.lines[5].sets)
	s.SetSCK(1)
	assert.Equal(t, []int{1}, c.lines[6].sets)
	s.SetMOSI(0)
	assert.Equal(t, []int{0}, c.lines[7].sets)
	c.lines[8].value = 1
	assert.Equal(t, 1, s.MISO())
	c.lines[8].value = 0
	assert.Equal(t, 0, s.MISO())

	require.Nil(t, s.Close())
	for _, o := range testOffsets {
		assert.Equal(t, 1, c.lines[o].closes)
	}
	assert.Equal(t, 1, c.closes)
}

func TestNewOpenFails(t *testing.T) {
	xerr := errors.New("no such device")
	s, err := New(testCfg, failingOpener(xerr))
	require.NotNil(t, err)
	assert.Nil(t, s)

	var oerr *DeviceOpenError
	require.ErrorAs(t, err, &oerr)
	assert.Equal(t, 0, oerr.Chip)
	assert.ErrorIs(t, err, xerr)
}

func TestNewClaimFails(t *testing.T) {
	c := newFakeChip()
	c.requestErr[7] = errors.New("line unavailable")
	s, err := New(testCfg, openerFor(c))
	require.NotNil(t, err)
	assert.Nil(t, s)

	var cerr *LineClaimError
	require.ErrorAs(t, err, &cerr)

	// the claim stopped at the failing line
	assert.Equal(t, []int{5, 6, 7}, c.requests)
	// lines claimed before the failure are released exactly once, with no
	// direction requests issued
	for _, o := range []int{5, 6} {
		assert.Equal(t, 1, c.lines[o].closes)
		assert.Equal(t, 0, c.lines[o].reconfigures)
	}
	assert.Equal(t, 1, c.closes)
}

func TestNewConfigFails(t *testing.T) {
	c := newFakeChip()
	c.reconfigureErr[6] = errors.New("EIO")
	s, err := New(testCfg, openerFor(c))
	require.NotNil(t, err)
	assert.Nil(t, s)

	var cerr *LineConfigError
	require.ErrorAs(t, err, &cerr)

	// all four direction requests are attempted despite the failure, and
	// everything is released exactly once
	for _, o := range testOffsets {
		assert.Equal(t, 1, c.lines[o].reconfigures)
		assert.Equal(t, 1, c.lines[o].closes)
	}
	assert.Equal(t, 1, c.closes)
}

func TestNewConfigFailsCombined(t *testing.T) {
	c := newFakeChip()
	c.reconfigureErr[5] = errors.New("EIO")
	c.reconfigureErr[8] = errors.New("EBUSY")
	_, err := New(testCfg, openerFor(c))
	require.NotNil(t, err)

	var cerr *LineConfigError
	require.ErrorAs(t, err, &cerr)
	assert.Len(t, multierr.Errors(cerr.Err), 2)
	for _, o := range testOffsets {
		assert.Equal(t, 1, c.lines[o].reconfigures)
	}
}

func TestCloseIdempotent(t *testing.T) {
	c := newFakeChip()
	s, err := New(testCfg, openerFor(c))
	require.Nil(t, err)

	require.Nil(t, s.Close())
	require.Nil(t, s.Close())
	for _, o := range testOffsets {
		assert.Equal(t, 1, c.lines[o].closes)
	}
	assert.Equal(t, 1, c.closes)
}

func TestSignalFaultsLogged(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	c := newFakeChip()
	s, err := New(testCfg, openerFor(c), WithLogger(zap.New(core)))
	require.Nil(t, err)
	defer s.Close()

	c.lines[5].setErr = errors.New("EIO")
	s.SetCS(0)
	assert.Equal(t, 1, logs.FilterMessage("setting cs line failed").Len())

	c.lines[6].setErr = errors.New("EIO")
	s.SetSCK(0)
	assert.Equal(t, 1, logs.FilterMessage("setting sck line failed").Len())

	c.lines[7].setErr = errors.New("EIO")
	s.SetMOSI(1)
	assert.Equal(t, 1, logs.FilterMessage("setting mosi line failed").Len())

	c.lines[8].valueErr = errors.New("EIO")
	v := s.MISO()
	assert.Equal(t, ReadFault, v)
	// the fault sentinel is distinguishable from both logical levels
	assert.Less(t, v, 0)
	assert.Equal(t, 1, logs.FilterMessage("getting miso line failed").Len())
}
