// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

//go:build linux

package gpiod

import (
	"time"

	"github.com/warthog618/gpiod/uapi"
)

// Direction indicates the direction of a line.
type Direction int

const (
	// DirectionInput indicates the line is an input.
	DirectionInput Direction = iota

	// DirectionOutput indicates the line is an output.
	DirectionOutput
)

// Edge indicates the edges detected on a line.
type Edge int

const (
	// EdgeNone indicates edge detection is disabled.
	EdgeNone Edge = 0

	// EdgeRising indicates detection of rising edges only.
	EdgeRising Edge = 1

	// EdgeFalling indicates detection of falling edges only.
	EdgeFalling Edge = 2

	// EdgeBoth indicates detection of both rising and falling edges.
	EdgeBoth Edge = EdgeRising | EdgeFalling
)

// Bias indicates the pull applied to an idle line.
type Bias int

const (
	// BiasUnspecified leaves the bias at the hardware default.
	BiasUnspecified Bias = iota

	// BiasDisabled disables the internal bias.
	BiasDisabled

	// BiasPullUp pulls the line up.
	BiasPullUp

	// BiasPullDown pulls the line down.
	BiasPullDown
)

// Drive indicates the drive applied to an output line.
type Drive int

const (
	// DrivePushPull drives the line in both directions.
	DrivePushPull Drive = iota

	// DriveOpenDrain drives the line low but floats it high.
	DriveOpenDrain

	// DriveOpenSource drives the line high but floats it low.
	DriveOpenSource
)

// LineInfo is the published information on a single line of a chip.
//
// The dynamic fields, Consumer and Used, reflect the state of the line when
// the info was read.
type LineInfo struct {
	// The offset of the line within the chip.
	Offset int

	// The system name for the line.
	Name string

	// A string identifying the requester of the line, if requested.
	Consumer string

	// The line is in use, either by the kernel or a userspace consumer.
	Used bool

	// The direction of the line.
	Direction Direction

	// The line is active low.
	ActiveLow bool

	// The bias applied to the line.
	Bias Bias

	// The drive applied to the line, if an output.
	Drive Drive

	// The edges detected on the line, if an input.
	//
	// Always EdgeNone under the v1 uAPI, which does not report edge
	// detection in line info.
	Edge Edge
}

// lineConfig is the configuration for a line or set of lines within a
// request.
type lineConfig struct {
	direction Direction
	activeLow bool
	bias      Bias
	drive     Drive
	edge      Edge
	debounced bool
	debounce  time.Duration
}

// lineReqOptions contains the options for a line request, accumulated from
// LineReqOptions.
type lineReqOptions struct {
	consumer        string
	abi             int
	eventBufferSize int
	offsets         []int
	defCfg          lineConfig
	// initial levels for output lines, masked by request index.
	values Values
	// per-line overrides of defCfg, keyed by request index.
	lineCfg map[int]*lineConfig
	// deferred from option application, returned by RequestLines.
	err error
}

// cfg returns the effective config for the line at index i.
func (lro *lineReqOptions) cfg(i int) lineConfig {
	if lc, ok := lro.lineCfg[i]; ok {
		return *lc
	}
	return lro.defCfg
}

// subsetCfg returns the override config for the line at index i, creating it
// from the request-wide config if necessary.
func (lro *lineReqOptions) subsetCfg(i int) *lineConfig {
	if lro.lineCfg == nil {
		lro.lineCfg = make(map[int]*lineConfig)
	}
	lc, ok := lro.lineCfg[i]
	if !ok {
		cfg := lro.defCfg
		lc = &cfg
		lro.lineCfg[i] = lc
	}
	return lc
}

// validate performs the configuration checks common to both uAPI versions.
//
// All failures here are detected before any syscall is issued.
func (lro *lineReqOptions) validate(numLines int) error {
	if numLines == 0 || numLines > uapi.LinesMax {
		return ErrInvalidConfig
	}
	// terminating null must fit
	if len(lro.consumer) >= 32 {
		return ErrInvalidConfig
	}
	for i := 0; i < numLines; i++ {
		cfg := lro.cfg(i)
		if cfg.edge != EdgeNone && cfg.direction != DirectionInput {
			return ErrWrongDirection
		}
	}
	return nil
}

// v1Validate checks that the configuration can be expressed by the v1 uAPI.
//
// v1 applies one set of flags to all lines in a request, so any per-line
// divergence is rejected rather than approximated, and the debounce
// attribute has no v1 equivalent at all.
func (lro *lineReqOptions) v1Validate(numLines int) error {
	if numLines > uapi.HandlesMax {
		return ErrInvalidConfig
	}
	if lro.defCfg.debounced {
		return ErrUnsupportedConfig
	}
	for i := 0; i < numLines; i++ {
		if cfg := lro.cfg(i); cfg != lro.defCfg {
			return ErrUnsupportedConfig
		}
	}
	if lro.defCfg.edge != EdgeNone && numLines > 1 {
		// v1 edge detection requires one event request per line.
		return ErrUnsupportedEdge
	}
	return nil
}

// toHandleFlags converts the config to v1 request flags.
func (lc lineConfig) toHandleFlags() uapi.HandleFlag {
	var flags uapi.HandleFlag

	switch lc.direction {
	case DirectionOutput:
		flags |= uapi.HandleRequestOutput
	case DirectionInput:
		flags |= uapi.HandleRequestInput
	}

	if lc.activeLow {
		flags |= uapi.HandleRequestActiveLow
	}

	switch lc.drive {
	case DriveOpenDrain:
		flags |= uapi.HandleRequestOpenDrain
	case DriveOpenSource:
		flags |= uapi.HandleRequestOpenSource
	}

	switch lc.bias {
	case BiasPullUp:
		flags |= uapi.HandleRequestPullUp
	case BiasPullDown:
		flags |= uapi.HandleRequestPullDown
	case BiasDisabled:
		flags |= uapi.HandleRequestBiasDisable
	}

	return flags
}

// toEventFlags converts the config to v1 event request flags.
func (lc lineConfig) toEventFlags() uapi.EventFlag {
	switch lc.edge {
	case EdgeBoth:
		return uapi.EventRequestBothEdges
	case EdgeRising:
		return uapi.EventRequestRisingEdge
	case EdgeFalling:
		return uapi.EventRequestFallingEdge
	default:
		return 0
	}
}

// toLineFlagV2 converts the config to v2 line flags.
func (lc lineConfig) toLineFlagV2() uapi.LineFlagV2 {
	var flags uapi.LineFlagV2

	if lc.activeLow {
		flags |= uapi.LineFlagV2ActiveLow
	}

	switch lc.direction {
	case DirectionOutput:
		flags |= uapi.LineFlagV2Output
		switch lc.drive {
		case DriveOpenDrain:
			flags |= uapi.LineFlagV2OpenDrain
		case DriveOpenSource:
			flags |= uapi.LineFlagV2OpenSource
		}
	case DirectionInput:
		flags |= uapi.LineFlagV2Input
		if lc.edge&EdgeRising != 0 {
			flags |= uapi.LineFlagV2EdgeRising
		}
		if lc.edge&EdgeFalling != 0 {
			flags |= uapi.LineFlagV2EdgeFalling
		}
	}

	switch lc.bias {
	case BiasPullUp:
		flags |= uapi.LineFlagV2BiasPullUp
	case BiasPullDown:
		flags |= uapi.LineFlagV2BiasPullDown
	case BiasDisabled:
		flags |= uapi.LineFlagV2BiasDisabled
	}

	return flags
}

// toLineConfigV2 converts the request options into a v2 line config.
//
// Per-line divergence from the request-wide config is expressed using
// config attributes. A configuration requiring more than the uAPI limit of
// attributes fails with ErrUnsupportedConfig.
func (lro *lineReqOptions) toLineConfigV2(numLines int) (uapi.LineConfig, error) {
	config := uapi.LineConfig{Flags: lro.defCfg.toLineFlagV2()}

	addAttr := func(attr uapi.LineAttribute, mask uint64) error {
		if config.NumAttrs >= uapi.LineNumAttrsMax {
			return ErrUnsupportedConfig
		}
		config.Attrs[config.NumAttrs] = uapi.LineConfigAttribute{Attr: attr, Mask: mask}
		config.NumAttrs++
		return nil
	}

	// lines diverging from the request-wide flags, grouped by flag value
	flagMasks := map[uapi.LineFlagV2]uint64{}
	// debounced lines grouped by period
	debounceMasks := map[time.Duration]uint64{}
	for i := 0; i < numLines; i++ {
		cfg := lro.cfg(i)
		if flags := cfg.toLineFlagV2(); flags != config.Flags {
			flagMasks[flags] |= uint64(1) << uint(i)
		}
		if cfg.debounced {
			debounceMasks[cfg.debounce] |= uint64(1) << uint(i)
		}
	}
	for flags, mask := range flagMasks {
		err := addAttr(uapi.LineAttribute{
			ID:    uapi.LineAttributeIDFlags,
			Value: uint64(flags),
		}, mask)
		if err != nil {
			return config, err
		}
	}
	for period, mask := range debounceMasks {
		err := addAttr(uapi.LineAttribute{
			ID:    uapi.LineAttributeIDDebounce,
			Value: uint64(period / time.Microsecond),
		}, mask)
		if err != nil {
			return config, err
		}
	}

	if lro.defCfg.direction == DirectionOutput && lro.values.Mask != 0 {
		values := lro.values.truncate(numLines)
		err := addAttr(uapi.LineAttribute{
			ID:    uapi.LineAttributeIDOutputValues,
			Value: values.Bits,
		}, values.Mask)
		if err != nil {
			return config, err
		}
	}

	return config, nil
}

// newLineInfo converts v1 uAPI line info to the published form.
func newLineInfo(li uapi.LineInfo) LineInfo {
	info := LineInfo{
		Offset:    int(li.Offset),
		Name:      uapi.BytesToString(li.Name[:]),
		Consumer:  uapi.BytesToString(li.Consumer[:]),
		Used:      li.Flags.IsUsed(),
		ActiveLow: li.Flags.IsActiveLow(),
	}
	if li.Flags.IsOut() {
		info.Direction = DirectionOutput
		if li.Flags.IsOpenDrain() {
			info.Drive = DriveOpenDrain
		} else if li.Flags.IsOpenSource() {
			info.Drive = DriveOpenSource
		}
	}
	if li.Flags.IsBiasPullUp() {
		info.Bias = BiasPullUp
	} else if li.Flags.IsBiasPullDown() {
		info.Bias = BiasPullDown
	} else if li.Flags.IsBiasDisabled() {
		info.Bias = BiasDisabled
	}
	return info
}

// newLineInfoV2 converts v2 uAPI line info to the published form.
func newLineInfoV2(li uapi.LineInfoV2) LineInfo {
	info := LineInfo{
		Offset:    int(li.Offset),
		Name:      uapi.BytesToString(li.Name[:]),
		Consumer:  uapi.BytesToString(li.Consumer[:]),
		Used:      li.Flags.IsUsed(),
		ActiveLow: li.Flags.IsActiveLow(),
	}
	if li.Flags.IsOutput() {
		info.Direction = DirectionOutput
		if li.Flags.IsOpenDrain() {
			info.Drive = DriveOpenDrain
		} else if li.Flags.IsOpenSource() {
			info.Drive = DriveOpenSource
		}
	}
	if li.Flags.IsRisingEdge() {
		info.Edge |= EdgeRising
	}
	if li.Flags.IsFallingEdge() {
		info.Edge |= EdgeFalling
	}
	if li.Flags.IsBiasPullUp() {
		info.Bias = BiasPullUp
	} else if li.Flags.IsBiasPullDown() {
		info.Bias = BiasPullDown
	} else if li.Flags.IsBiasDisabled() {
		info.Bias = BiasDisabled
	}
	return info
}
