// SPDX-FileCopyrightText: 2025 Karl Falter <kfalter@mailbox.org>
//
// SPDX-License-Identifier: MIT

package gpiodspi

import "fmt"

// ConfigError reports a missing or invalid programmer parameter.
//
// It is returned before any hardware resource is touched.
type ConfigError struct {
	// Param is the name of the offending parameter.
	Param string

	// Reason describes why the parameter was rejected.
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("programmer parameter %s=<n>: %s", e.Param, e.Reason)
}

// DeviceOpenError reports a failure to open the GPIO character device.
type DeviceOpenError struct {
	// Chip is the index of the gpiochip that failed to open.
	Chip int

	// Err is the underlying system error.
	Err error
}

func (e *DeviceOpenError) Error() string {
	return fmt.Sprintf("failed to open gpiochip%d: %v", e.Chip, e.Err)
}

func (e *DeviceOpenError) Unwrap() error { return e.Err }

// LineClaimError reports a failure to claim the group of GPIO lines.
//
// Lines claimed before the failure have already been released.
type LineClaimError struct {
	Err error
}

func (e *LineClaimError) Error() string {
	return fmt.Sprintf("error claiming GPIO lines: %v", e.Err)
}

func (e *LineClaimError) Unwrap() error { return e.Err }

// LineConfigError reports a failure to configure the direction of at least
// one claimed line. Err combines the per-line failures.
type LineConfigError struct {
	Err error
}

func (e *LineConfigError) Error() string {
	return fmt.Sprintf("requesting GPIO line directions failed: %v", e.Err)
}

func (e *LineConfigError) Unwrap() error { return e.Err }

// RegistrationError reports a failure to register the backend with the host
// runtime.
type RegistrationError struct {
	// What identifies the registration that failed, "shutdown" or "master".
	What string

	Err error
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("registering %s failed: %v", e.What, e.Err)
}

func (e *RegistrationError) Unwrap() error { return e.Err }
