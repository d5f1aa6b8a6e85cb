// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

//go:build linux

package gpiod

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warthog618/gpiod/uapi"
)

func TestLineConfigToHandleFlags(t *testing.T) {
	patterns := []struct {
		name string
		cfg  lineConfig
		xf   uapi.HandleFlag
	}{
		{"input", lineConfig{direction: DirectionInput},
			uapi.HandleRequestInput},
		{"output", lineConfig{direction: DirectionOutput},
			uapi.HandleRequestOutput},
		{"active-low", lineConfig{direction: DirectionInput, activeLow: true},
			uapi.HandleRequestInput | uapi.HandleRequestActiveLow},
		{"open-drain", lineConfig{direction: DirectionOutput, drive: DriveOpenDrain},
			uapi.HandleRequestOutput | uapi.HandleRequestOpenDrain},
		{"open-source", lineConfig{direction: DirectionOutput, drive: DriveOpenSource},
			uapi.HandleRequestOutput | uapi.HandleRequestOpenSource},
		{"pull-up", lineConfig{direction: DirectionInput, bias: BiasPullUp},
			uapi.HandleRequestInput | uapi.HandleRequestPullUp},
		{"pull-down", lineConfig{direction: DirectionInput, bias: BiasPullDown},
			uapi.HandleRequestInput | uapi.HandleRequestPullDown},
		{"bias-disabled", lineConfig{direction: DirectionInput, bias: BiasDisabled},
			uapi.HandleRequestInput | uapi.HandleRequestBiasDisable},
	}
	for _, p := range patterns {
		p := p
		t.Run(p.name, func(t *testing.T) {
			assert.Equal(t, p.xf, p.cfg.toHandleFlags())
		})
	}
}

func TestLineConfigToEventFlags(t *testing.T) {
	patterns := []struct {
		name string
		edge Edge
		xf   uapi.EventFlag
	}{
		{"none", EdgeNone, 0},
		{"rising", EdgeRising, uapi.EventRequestRisingEdge},
		{"falling", EdgeFalling, uapi.EventRequestFallingEdge},
		{"both", EdgeBoth, uapi.EventRequestBothEdges},
	}
	for _, p := range patterns {
		p := p
		t.Run(p.name, func(t *testing.T) {
			cfg := lineConfig{edge: p.edge}
			assert.Equal(t, p.xf, cfg.toEventFlags())
		})
	}
}

func TestLineConfigToLineFlagV2(t *testing.T) {
	patterns := []struct {
		name string
		cfg  lineConfig
		xf   uapi.LineFlagV2
	}{
		{"input", lineConfig{direction: DirectionInput},
			uapi.LineFlagV2Input},
		{"output", lineConfig{direction: DirectionOutput},
			uapi.LineFlagV2Output},
		{"active-low", lineConfig{direction: DirectionInput, activeLow: true},
			uapi.LineFlagV2Input | uapi.LineFlagV2ActiveLow},
		{"edge-rising", lineConfig{direction: DirectionInput, edge: EdgeRising},
			uapi.LineFlagV2Input | uapi.LineFlagV2EdgeRising},
		{"edge-falling", lineConfig{direction: DirectionInput, edge: EdgeFalling},
			uapi.LineFlagV2Input | uapi.LineFlagV2EdgeFalling},
		{"edge-both", lineConfig{direction: DirectionInput, edge: EdgeBoth},
			uapi.LineFlagV2Input | uapi.LineFlagV2EdgeBoth},
		{"open-drain", lineConfig{direction: DirectionOutput, drive: DriveOpenDrain},
			uapi.LineFlagV2Output | uapi.LineFlagV2OpenDrain},
		{"open-source", lineConfig{direction: DirectionOutput, drive: DriveOpenSource},
			uapi.LineFlagV2Output | uapi.LineFlagV2OpenSource},
		{"pull-up", lineConfig{direction: DirectionInput, bias: BiasPullUp},
			uapi.LineFlagV2Input | uapi.LineFlagV2BiasPullUp},
		{"pull-down", lineConfig{direction: DirectionInput, bias: BiasPullDown},
			uapi.LineFlagV2Input | uapi.LineFlagV2BiasPullDown},
		{"bias-disabled", lineConfig{direction: DirectionInput, bias: BiasDisabled},
			uapi.LineFlagV2Input | uapi.LineFlagV2BiasDisabled},
		// drive only applies to outputs
		{"input open-drain", lineConfig{direction: DirectionInput, drive: DriveOpenDrain},
			uapi.LineFlagV2Input},
		// edge only applies to inputs
		{"output edge", lineConfig{direction: DirectionOutput, edge: EdgeBoth},
			uapi.LineFlagV2Output},
	}
	for _, p := range patterns {
		p := p
		t.Run(p.name, func(t *testing.T) {
			assert.Equal(t, p.xf, p.cfg.toLineFlagV2())
		})
	}
}

func TestLineReqOptionsValidate(t *testing.T) {
	lro := lineReqOptions{}
	assert.Equal(t, ErrInvalidConfig, lro.validate(0))
	assert.Nil(t, lro.validate(1))
	assert.Nil(t, lro.validate(uapi.LinesMax))
	assert.Equal(t, ErrInvalidConfig, lro.validate(uapi.LinesMax+1))

	// consumer must fit with terminating null
	lro.consumer = strings.Repeat("c", 31)
	assert.Nil(t, lro.validate(1))
	lro.consumer = strings.Repeat("c", 32)
	assert.Equal(t, ErrInvalidConfig, lro.validate(1))
	lro.consumer = ""

	// edge requires input
	lro.defCfg.edge = EdgeBoth
	assert.Nil(t, lro.validate(1))
	lro.defCfg.direction = DirectionOutput
	assert.Equal(t, ErrWrongDirection, lro.validate(1))

	// including per-line overrides
	lro.defCfg = lineConfig{}
	sub := lro.subsetCfg(2)
	sub.edge = EdgeRising
	sub.direction = DirectionOutput
	assert.Equal(t, ErrWrongDirection, lro.validate(3))
}

func TestLineReqOptionsV1Validate(t *testing.T) {
	lro := lineReqOptions{}
	assert.Nil(t, lro.v1Validate(1))
	assert.Nil(t, lro.v1Validate(uapi.HandlesMax))
	assert.Equal(t, ErrInvalidConfig, lro.v1Validate(uapi.HandlesMax+1))

	// debounce has no v1 form
	lro.defCfg.debounced = true
	assert.Equal(t, ErrUnsupportedConfig, lro.v1Validate(1))
	lro.defCfg.debounced = false

	// v1 config is uniform across the request
	sub := lro.subsetCfg(1)
	sub.activeLow = true
	assert.Equal(t, ErrUnsupportedConfig, lro.v1Validate(2))
	lro.lineCfg = nil

	// edge detection on a single line only
	lro.defCfg.edge = EdgeRising
	assert.Nil(t, lro.v1Validate(1))
	assert.Equal(t, ErrUnsupportedEdge, lro.v1Validate(2))
}

func TestLineReqOptionsToLineConfigV2(t *testing.T) {
	lro := lineReqOptions{}
	config, err := lro.toLineConfigV2(4)
	require.Nil(t, err)
	assert.Equal(t, uapi.LineFlagV2Input, config.Flags)
	assert.Equal(t, uint32(0), config.NumAttrs)

	// divergent lines are grouped into a flags attribute
	sub := lro.subsetCfg(1)
	sub.activeLow = true
	sub = lro.subsetCfg(3)
	sub.activeLow = true
	config, err = lro.toLineConfigV2(4)
	require.Nil(t, err)
	require.Equal(t, uint32(1), config.NumAttrs)
	assert.Equal(t, uapi.LineAttributeIDFlags, config.Attrs[0].Attr.ID)
	assert.Equal(t, uint64(uapi.LineFlagV2Input|uapi.LineFlagV2ActiveLow),
		config.Attrs[0].Attr.Value)
	assert.Equal(t, uint64(0xa), config.Attrs[0].Mask)

	// debounce attribute, period in microseconds
	lro = lineReqOptions{}
	lro.defCfg.debounced = true
	lro.defCfg.debounce = 10 * time.Millisecond
	config, err = lro.toLineConfigV2(2)
	require.Nil(t, err)
	require.Equal(t, uint32(1), config.NumAttrs)
	assert.Equal(t, uapi.LineAttributeIDDebounce, config.Attrs[0].Attr.ID)
	assert.Equal(t, uint64(10000), config.Attrs[0].Attr.Value)
	assert.Equal(t, uint64(0x3), config.Attrs[0].Mask)

	// output values attribute
	lro = lineReqOptions{}
	lro.defCfg.direction = DirectionOutput
	lro.values = NewValues(1, 0, 1)
	config, err = lro.toLineConfigV2(3)
	require.Nil(t, err)
	require.Equal(t, uint32(1), config.NumAttrs)
	assert.Equal(t, uapi.LineAttributeIDOutputValues, config.Attrs[0].Attr.ID)
	assert.Equal(t, uint64(0x5), config.Attrs[0].Attr.Value)
	assert.Equal(t, uint64(0x7), config.Attrs[0].Mask)

	// more divergent groups than the uAPI can carry
	lro = lineReqOptions{}
	for i := 0; i < 11; i++ {
		sub := lro.subsetCfg(i)
		sub.debounced = true
		sub.debounce = time.Duration(i+1) * time.Millisecond
	}
	_, err = lro.toLineConfigV2(11)
	assert.Equal(t, ErrUnsupportedConfig, err)
}

func TestNewLineInfo(t *testing.T) {
	li := uapi.LineInfo{
		Offset: 3,
		Flags: uapi.LineFlagUsed | uapi.LineFlagIsOut |
			uapi.LineFlagOpenDrain | uapi.LineFlagActiveLow,
	}
	copy(li.Name[:], "BUTTON1")
	copy(li.Consumer[:], "watcher")
	xli := LineInfo{
		Offset:    3,
		Name:      "BUTTON1",
		Consumer:  "watcher",
		Used:      true,
		Direction: DirectionOutput,
		ActiveLow: true,
		Drive:     DriveOpenDrain,
	}
	assert.Equal(t, xli, newLineInfo(li))
}

func TestNewLineInfoV2(t *testing.T) {
	li := uapi.LineInfoV2{
		Offset: 5,
		Flags: uapi.LineFlagV2Used | uapi.LineFlagV2Input |
			uapi.LineFlagV2EdgeBoth | uapi.LineFlagV2BiasPullUp,
	}
	copy(li.Name[:], "LED0")
	copy(li.Consumer[:], "blinker")
	xli := LineInfo{
		Offset:    5,
		Name:      "LED0",
		Consumer:  "blinker",
		Used:      true,
		Direction: DirectionInput,
		Bias:      BiasPullUp,
		Edge:      EdgeBoth,
	}
	assert.Equal(t, xli, newLineInfoV2(li))
}
