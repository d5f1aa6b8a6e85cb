// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

//go:build linux

package gpiod_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/warthog618/gpiod"
)

func checkValue(t *testing.T, v gpiod.Values, i, xl int, xm bool) {
	t.Helper()
	level, masked := v.Get(i)
	assert.Equal(t, xm, masked)
	assert.Equal(t, xl, level)
}

func TestNewValues(t *testing.T) {
	v := gpiod.NewValues()
	assert.Equal(t, uint64(0), v.Bits)
	assert.Equal(t, uint64(0), v.Mask)

	v = gpiod.NewValues(1, 0, 1, 1)
	assert.Equal(t, uint64(0xd), v.Bits)
	assert.Equal(t, uint64(0xf), v.Mask)
	checkValue(t, v, 0, 1, true)
	checkValue(t, v, 1, 0, true)
	checkValue(t, v, 2, 1, true)
	checkValue(t, v, 3, 1, true)
	checkValue(t, v, 4, 0, false)

	// non-zero levels are high
	v = gpiod.NewValues(42, 0)
	checkValue(t, v, 0, 1, true)
	checkValue(t, v, 1, 0, true)
}

func TestValuesSet(t *testing.T) {
	var v gpiod.Values

	v.Set(3, 1)
	assert.Equal(t, uint64(0x8), v.Bits)
	assert.Equal(t, uint64(0x8), v.Mask)

	v.Set(0, 0)
	assert.Equal(t, uint64(0x8), v.Bits)
	assert.Equal(t, uint64(0x9), v.Mask)

	v.Set(3, 0)
	assert.Equal(t, uint64(0x0), v.Bits)
	assert.Equal(t, uint64(0x9), v.Mask)

	v.Set(63, 1)
	checkValue(t, v, 63, 1, true)

	// out of range is ignored
	v.Set(64, 1)
	assert.Equal(t, uint64(0x9)|uint64(1)<<63, v.Mask)
	v.Set(-1, 1)
	assert.Equal(t, uint64(0x9)|uint64(1)<<63, v.Mask)
}

func TestValuesUnset(t *testing.T) {
	v := gpiod.NewValues(1, 1, 1)

	v.Unset(1)
	assert.Equal(t, uint64(0x5), v.Bits)
	assert.Equal(t, uint64(0x5), v.Mask)
	checkValue(t, v, 1, 0, false)

	// unset clears the level bit too
	v.Set(1, 1)
	v.Unset(1)
	assert.Equal(t, uint64(0x5), v.Bits)

	// out of range is ignored
	v.Unset(64)
	v.Unset(-1)
	assert.Equal(t, uint64(0x5), v.Mask)
}

func TestValuesIsSet(t *testing.T) {
	v := gpiod.NewValues(0, 1)
	assert.True(t, v.IsSet(0))
	assert.True(t, v.IsSet(1))
	assert.False(t, v.IsSet(2))
	assert.False(t, v.IsSet(64))
}

func TestParseValues(t *testing.T) {
	patterns := []struct {
		name string
		s    string
		xv   gpiod.Values
	}{
		{"empty", "", gpiod.Values{}},
		{"zero", "0", gpiod.Values{Bits: 0, Mask: 1}},
		{"one", "1", gpiod.Values{Bits: 1, Mask: 1}},
		{"unmasked", "x", gpiod.Values{}},
		{"mixed", "10xx01", gpiod.Values{Bits: 0x21, Mask: 0x33}},
		{"prefixed", "0b1x0", gpiod.Values{Bits: 0x4, Mask: 0x5}},
		{"wide", "1" + strings.Repeat("x", 62) + "1",
			gpiod.Values{Bits: 1<<63 | 1, Mask: 1<<63 | 1}},
	}
	for _, p := range patterns {
		p := p
		t.Run(p.name, func(t *testing.T) {
			v, err := gpiod.ParseValues(p.s)
			assert.Nil(t, err)
			assert.Equal(t, p.xv, v)
		})
	}

	// over width
	_, err := gpiod.ParseValues(strings.Repeat("x", 65))
	assert.Equal(t, gpiod.ErrInvalidConfig, err)

	// unexpected char
	_, err = gpiod.ParseValues("10z1")
	assert.NotNil(t, err)
}

func TestValuesString(t *testing.T) {
	patterns := []struct {
		name string
		v    gpiod.Values
		xs   string
	}{
		{"empty", gpiod.Values{}, "x"},
		{"low", gpiod.Values{Bits: 0, Mask: 1}, "0"},
		{"high", gpiod.Values{Bits: 1, Mask: 1}, "1"},
		{"low pair", gpiod.Values{Bits: 0, Mask: 3}, "00"},
		{"mixed", gpiod.Values{Bits: 0x21, Mask: 0x33}, "10xx01"},
		{"unmasked bits ignored", gpiod.Values{Bits: 0xff, Mask: 0x05}, "1x1"},
	}
	for _, p := range patterns {
		p := p
		t.Run(p.name, func(t *testing.T) {
			assert.Equal(t, p.xs, p.v.String())
		})
	}
}

func TestValuesRoundTrip(t *testing.T) {
	for _, s := range []string{"x", "0", "1", "00", "10xx01", "1x1"} {
		v, err := gpiod.ParseValues(s)
		assert.Nil(t, err)
		assert.Equal(t, s, v.String())
	}
}
