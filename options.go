// SPDX-FileCopyrightText: 2025 Karl Falter <kfalter@mailbox.org>
//
// SPDX-License-Identifier: MIT

package gpiodspi

import "go.uber.org/zap"

// Option defines the interface required to provide an option to New or
// Init.
type Option interface {
	applyOption(*options)
}

type options struct {
	consumer string
	logger   *zap.SugaredLogger
	open     func(num int, consumer string) (chipDevice, error)
}

func defaultOptions() options {
	return options{
		consumer: "gpiodspi",
		logger:   zap.NewNop().Sugar(),
		open:     openChip,
	}
}

// ConsumerOption defines the consumer label attached to claimed lines.
type ConsumerOption string

// WithConsumer returns an option that sets the consumer label attached to
// the claimed lines, identifying the owning process in line diagnostics.
func WithConsumer(consumer string) ConsumerOption {
	return ConsumerOption(consumer)
}

func (o ConsumerOption) applyOption(opts *options) {
	opts.consumer = string(o)
}

// LoggerOption defines the logger for backend diagnostics.
type LoggerOption struct {
	logger *zap.Logger
}

// WithLogger returns an option that directs backend diagnostics to the
// given logger. The default logger discards them.
func WithLogger(logger *zap.Logger) LoggerOption {
	return LoggerOption{logger: logger}
}

func (o LoggerOption) applyOption(opts *options) {
	opts.logger = o.logger.Sugar()
}

// openerOption substitutes the chip opener, for tests.
type openerOption func(num int, consumer string) (chipDevice, error)

func (o openerOption) applyOption(opts *options) {
	opts.open = o
}
