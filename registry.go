// SPDX-FileCopyrightText: 2025 Karl Falter <kfalter@mailbox.org>
//
// SPDX-License-Identifier: MIT

package gpiodspi

// Runtime is the set of host-process services the backend registers with
// during Init: the shutdown registry that runs cleanup callbacks during
// process teardown, and the bit-bang SPI protocol engine that consumes the
// signal operations.
type Runtime interface {
	// RegisterShutdown installs fn to be run at most once during process
	// teardown. On success the runtime owns fn and the resources it
	// releases; on failure ownership stays with the caller.
	RegisterShutdown(fn func() error) error

	// RegisterMaster hands the elementary signal operations to the
	// protocol engine.
	RegisterMaster(m Master) error
}

// Init builds a session from the given programmer parameters and registers
// it with the host runtime.
//
// The shutdown callback is registered before the master. Once that
// registration has succeeded the callback owns the session, so a subsequent
// master registration failure is returned without releasing anything
// locally - the installed callback remains the sole releaser, and releasing
// here as well would double-release the lines during teardown.
func Init(rt Runtime, params map[string]string, options ...Option) error {
	cfg, err := ParseParams(params)
	if err != nil {
		return err
	}
	s, err := New(cfg, options...)
	if err != nil {
		return err
	}
	if err := rt.RegisterShutdown(s.Close); err != nil {
		s.Close()
		return &RegistrationError{What: "shutdown", Err: err}
	}
	if err := rt.RegisterMaster(s); err != nil {
		// the registered shutdown callback does the cleanup
		return &RegistrationError{What: "master", Err: err}
	}
	return nil
}

// ProgrammerType classifies how a programmer connects to its target.
type ProgrammerType int

const (
	// ProgrammerUSB is a programmer reached over USB.
	ProgrammerUSB ProgrammerType = iota

	// ProgrammerPCI is a programmer reached over PCI.
	ProgrammerPCI

	// ProgrammerOther is a programmer reached by other means, described
	// by its entry's DevsNote.
	ProgrammerOther
)

// ProgrammerEntry describes a programmer backend to a registry of
// programmers.
type ProgrammerEntry struct {
	// Name is the stable name the backend is selected by.
	Name string

	Type ProgrammerType

	// DevsNote describes the devices the backend drives, for backends
	// whose devices cannot be enumerated by bus.
	DevsNote string

	// Init initializes the backend and registers it with the runtime.
	Init func(rt Runtime, params map[string]string) error
}

// Programmer describes this backend.
var Programmer = ProgrammerEntry{
	Name:     "linux_gpiod",
	Type:     ProgrammerOther,
	DevsNote: "Device file /dev/gpiochip<n>",
	Init: func(rt Runtime, params map[string]string) error {
		return Init(rt, params)
	},
}
