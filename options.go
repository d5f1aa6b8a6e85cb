// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

//go:build linux

package gpiod

import "time"

// ChipOption defines the interface required to provide an option to NewChip.
type ChipOption interface {
	applyChipOption(*chipOptions)
}

// chipOptions contains the options for a Chip.
type chipOptions struct {
	consumer string
	abi      int
}

// LineReqOption defines the interface required to provide an option to
// RequestLines.
type LineReqOption interface {
	applyLineReqOption(*lineReqOptions)
}

// LineConfigOption defines the interface required to provide an option that
// applies to a subset of the requested lines, via WithLines.
type LineConfigOption interface {
	applyLineConfigOption(*lineConfig)
}

// ConsumerOption defines the consumer label for a request.
type ConsumerOption string

// WithConsumer returns an option that sets the consumer label for the
// request.
//
// The label is passed to the kernel and reported in the line info of the
// requested lines.  When applied to a Chip it provides the default label
// for requests made from that chip.
func WithConsumer(consumer string) ConsumerOption {
	return ConsumerOption(consumer)
}

func (o ConsumerOption) applyChipOption(c *chipOptions) {
	c.consumer = string(o)
}

func (o ConsumerOption) applyLineReqOption(l *lineReqOptions) {
	l.consumer = string(o)
}

// ABIVersionOption forces a particular version of the GPIO uAPI.
type ABIVersionOption int

// WithABIVersion returns an option that forces the given uAPI version (1 or
// 2) rather than negotiating the version with the kernel.
//
// This is primarily intended for testing both uAPI paths on kernels that
// support both.
func WithABIVersion(version int) ABIVersionOption {
	return ABIVersionOption(version)
}

func (o ABIVersionOption) applyChipOption(c *chipOptions) {
	c.abi = int(o)
}

func (o ABIVersionOption) applyLineReqOption(l *lineReqOptions) {
	l.abi = int(o)
}

// InputOption requests lines as inputs.
type InputOption struct{}

// AsInput is an option that requests the lines as inputs.
//
// This is the default direction for a request.
var AsInput = InputOption{}

func (o InputOption) applyLineReqOption(l *lineReqOptions) {
	l.defCfg.direction = DirectionInput
}

// OutputOption requests lines as outputs, with initial levels.
type OutputOption []int

// AsOutput returns an option that requests the lines as outputs.
//
// The levels provide the initial level for each line, in request order.
// Lines without a provided level default to low.
func AsOutput(levels ...int) OutputOption {
	return OutputOption(levels)
}

func (o OutputOption) applyLineReqOption(l *lineReqOptions) {
	l.defCfg.direction = DirectionOutput
	l.values = NewValues(o...)
}

// ActiveLowOption requests lines be active low.
type ActiveLowOption struct{}

// AsActiveLow is an option that inverts the polarity of the lines, so a
// physical low is a logical high.
var AsActiveLow = ActiveLowOption{}

func (o ActiveLowOption) applyLineReqOption(l *lineReqOptions) {
	l.defCfg.activeLow = true
}

func (o ActiveLowOption) applyLineConfigOption(c *lineConfig) {
	c.activeLow = true
}

// BiasOption sets the bias of the lines.
type BiasOption Bias

var (
	// WithBiasDisabled is an option that disables the internal bias of the
	// lines.
	WithBiasDisabled = BiasOption(BiasDisabled)

	// WithPullUp is an option that enables the internal pull-up of the
	// lines.
	WithPullUp = BiasOption(BiasPullUp)

	// WithPullDown is an option that enables the internal pull-down of the
	// lines.
	WithPullDown = BiasOption(BiasPullDown)
)

func (o BiasOption) applyLineReqOption(l *lineReqOptions) {
	l.defCfg.bias = Bias(o)
}

func (o BiasOption) applyLineConfigOption(c *lineConfig) {
	c.bias = Bias(o)
}

// DriveOption sets the drive of output lines.
type DriveOption Drive

var (
	// AsOpenDrain is an option that drives output lines low but floats
	// them high.
	AsOpenDrain = DriveOption(DriveOpenDrain)

	// AsOpenSource is an option that drives output lines high but floats
	// them low.
	AsOpenSource = DriveOption(DriveOpenSource)

	// AsPushPull is an option that drives output lines in both directions.
	//
	// This is the default drive for outputs.
	AsPushPull = DriveOption(DrivePushPull)
)

func (o DriveOption) applyLineReqOption(l *lineReqOptions) {
	l.defCfg.drive = Drive(o)
}

func (o DriveOption) applyLineConfigOption(c *lineConfig) {
	c.drive = Drive(o)
}

// EdgeOption enables edge detection on input lines.
type EdgeOption Edge

var (
	// WithRisingEdge is an option that enables detection of rising edges
	// on the lines.
	WithRisingEdge = EdgeOption(EdgeRising)

	// WithFallingEdge is an option that enables detection of falling edges
	// on the lines.
	WithFallingEdge = EdgeOption(EdgeFalling)

	// WithBothEdges is an option that enables detection of both rising and
	// falling edges on the lines.
	WithBothEdges = EdgeOption(EdgeBoth)
)

func (o EdgeOption) applyLineReqOption(l *lineReqOptions) {
	l.defCfg.edge = Edge(o)
}

func (o EdgeOption) applyLineConfigOption(c *lineConfig) {
	c.edge = Edge(o)
}

// DebounceOption sets the debounce period of input lines.
type DebounceOption time.Duration

// WithDebounce returns an option that debounces the lines with the given
// period.
//
// Only available under the v2 uAPI.
func WithDebounce(period time.Duration) DebounceOption {
	return DebounceOption(period)
}

func (o DebounceOption) applyLineReqOption(l *lineReqOptions) {
	l.defCfg.debounced = true
	l.defCfg.debounce = time.Duration(o)
}

func (o DebounceOption) applyLineConfigOption(c *lineConfig) {
	c.debounced = true
	c.debounce = time.Duration(o)
}

// LinesOption applies config options to a subset of the requested lines.
type LinesOption struct {
	offsets []int
	options []LineConfigOption
}

// WithLines returns an option that applies the given config options to a
// subset of the lines in the request, identified by their offsets.
//
// The remaining lines retain the request-wide configuration.
// Subset configurations diverging from the request-wide configuration
// require the v2 uAPI.
func WithLines(offsets []int, options ...LineConfigOption) LinesOption {
	return LinesOption{offsets, options}
}

func (o LinesOption) applyLineReqOption(l *lineReqOptions) {
	for _, offset := range o.offsets {
		idx := -1
		for i, oo := range l.offsets {
			if oo == offset {
				idx = i
				break
			}
		}
		if idx == -1 {
			l.err = ErrInvalidConfig
			return
		}
		cfg := l.subsetCfg(idx)
		for _, option := range o.options {
			option.applyLineConfigOption(cfg)
		}
	}
}

// EventBufferSizeOption sets the size of the kernel event buffer.
type EventBufferSizeOption int

// WithEventBufferSize returns an option that sets the size of the kernel
// event buffer, in events, for the request.
//
// A zero size selects the kernel default.  The size may be clamped by the
// kernel.  Only available under the v2 uAPI - v1 requests ignore it.
func WithEventBufferSize(size int) EventBufferSizeOption {
	return EventBufferSizeOption(size)
}

func (o EventBufferSizeOption) applyLineReqOption(l *lineReqOptions) {
	l.eventBufferSize = int(o)
}
